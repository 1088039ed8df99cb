package evaluator

import "github.com/platynui/xpath2/internal/xdm"

func (e *evalState) execEBV() error {
	seq, err := e.pop()
	if err != nil {
		return err
	}
	ok, err := xdm.EBV(seq)
	if err != nil {
		return err
	}
	e.push(xdm.NewSequence(xdm.NewBoolean(ok)))
	return nil
}

// execNot is unused by the current compiler (fn:not is a registered
// function built directly on xdm.EBV), kept so the opcode stays
// meaningful if a future inlining pass emits it directly.
func (e *evalState) execNot() error {
	seq, err := e.pop()
	if err != nil {
		return err
	}
	ok, err := xdm.EBV(seq)
	if err != nil {
		return err
	}
	e.push(xdm.NewSequence(xdm.NewBoolean(!ok)))
	return nil
}
