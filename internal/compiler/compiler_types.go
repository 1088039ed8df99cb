// compiler_types.go resolves SequenceType/SingleType/ItemType/KindTest
// into ir.TypeDescriptor, used by cast/castable/treat/instance-of, and
// lowers those four expression forms.
package compiler

import (
	"github.com/platynui/xpath2/internal/ast"
	"github.com/platynui/xpath2/internal/ir"
	"github.com/platynui/xpath2/internal/xdm"
)

// atomicKindByLocalName maps an xs: local name to its AtomicKind. Only
// the xs: namespace is accepted for atomic type names (spec §4.2);
// anything else is rejected as XPST0003, same as an unresolvable prefix.
var atomicKindByLocalName = map[string]xdm.AtomicKind{
	"boolean": xdm.KBoolean, "integer": xdm.KInteger, "decimal": xdm.KDecimal,
	"float": xdm.KFloat, "double": xdm.KDouble,
	"string": xdm.KString, "normalizedString": xdm.KNormalizedString, "token": xdm.KToken,
	"language": xdm.KLanguage, "Name": xdm.KName, "NCName": xdm.KNCName,
	"NMTOKEN": xdm.KNMTOKEN, "ID": xdm.KID, "IDREF": xdm.KIDREF, "ENTITY": xdm.KENTITY,
	"NOTATION": xdm.KNOTATION, "anyURI": xdm.KAnyURI, "untypedAtomic": xdm.KUntypedAtomic,
	"QName": xdm.KQName, "dayTimeDuration": xdm.KDayTimeDuration, "yearMonthDuration": xdm.KYearMonthDuration,
	"date": xdm.KDate, "time": xdm.KTime, "dateTime": xdm.KDateTime,
	"hexBinary": xdm.KHexBinary, "base64Binary": xdm.KBase64Binary,
}

func (c *Compiler) resolveAtomicKind(prefix, local string, near ast.Expr) (xdm.AtomicKind, error) {
	uri, ok := c.sc.ResolvePrefix(prefix)
	if !ok {
		return 0, xpst0003f(near, "undefined namespace prefix %q", prefix)
	}
	if uri != "http://www.w3.org/2001/XMLSchema" {
		return 0, xpst0003f(near, "atomic type name %s:%s is not in the xs: namespace", prefix, local)
	}
	kind, ok := atomicKindByLocalName[local]
	if !ok {
		return 0, xpst0003f(near, "unknown or unsupported atomic type xs:%s", local)
	}
	return kind, nil
}

func (c *Compiler) resolveSingleType(st ast.SingleType, near ast.Expr) (ir.TypeDescriptor, error) {
	kind, err := c.resolveAtomicKind(st.Prefix, st.Local, near)
	if err != nil {
		return ir.TypeDescriptor{}, err
	}
	return ir.TypeDescriptor{IsAtomic: true, AtomicKind: kind, Optional: st.Optional}, nil
}

func (c *Compiler) resolveSequenceType(st ast.SequenceType, near ast.Expr) (ir.TypeDescriptor, error) {
	if st.EmptySequence {
		return ir.TypeDescriptor{EmptySequence: true}, nil
	}
	td := ir.TypeDescriptor{Occurrence: byte(st.Occurrence)}
	switch st.Item.Kind {
	case ast.ItemAnyItem:
		td.AnyItem = true
	case ast.ItemKindTest:
		kt, err := c.resolveKindTest(st.Item.Test)
		if err != nil {
			return ir.TypeDescriptor{}, err
		}
		td.KindTest = kt
	default: // ast.ItemAtomicType
		kind, err := c.resolveAtomicKind(st.Item.TypePrefix, st.Item.TypeLocal, near)
		if err != nil {
			return ir.TypeDescriptor{}, err
		}
		td.IsAtomic = true
		td.AtomicKind = kind
	}
	return td, nil
}

func (c *Compiler) compileCast(n *ast.CastExpr) error {
	if err := c.compileExpr(n.Operand); err != nil {
		return err
	}
	td, err := c.resolveSingleType(n.Type, n)
	if err != nil {
		return err
	}
	idx := c.cur.AddType(td)
	c.emit(ir.Instruction{Op: ir.OpCastAs, A: idx})
	return nil
}

func (c *Compiler) compileCastable(n *ast.CastableExpr) error {
	if err := c.compileExpr(n.Operand); err != nil {
		return err
	}
	td, err := c.resolveSingleType(n.Type, n)
	if err != nil {
		return err
	}
	idx := c.cur.AddType(td)
	c.emit(ir.Instruction{Op: ir.OpCastableAs, A: idx})
	return nil
}

func (c *Compiler) compileTreat(n *ast.TreatExpr) error {
	if err := c.compileExpr(n.Operand); err != nil {
		return err
	}
	td, err := c.resolveSequenceType(n.Type, n)
	if err != nil {
		return err
	}
	idx := c.cur.AddType(td)
	c.emit(ir.Instruction{Op: ir.OpTreatAs, A: idx})
	return nil
}

func (c *Compiler) compileInstanceOf(n *ast.InstanceOfExpr) error {
	if err := c.compileExpr(n.Operand); err != nil {
		return err
	}
	td, err := c.resolveSequenceType(n.Type, n)
	if err != nil {
		return err
	}
	idx := c.cur.AddType(td)
	c.emit(ir.Instruction{Op: ir.OpInstanceOf, A: idx})
	return nil
}
