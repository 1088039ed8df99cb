package evaluator

import "github.com/platynui/xpath2/internal/xpatherr"

// stackUnderflow reports an evaluator-internal inconsistency: a Program
// compiled by this module's own compiler should never leave the operand
// stack short. Surfacing it as FOER0000 (the generic dynamic error) keeps
// it a well-formed XPath error rather than a Go panic if it ever fires.
func (e *evalState) stackUnderflow() error {
	return xpatherr.New(xpatherr.FOER0000, "evaluator stack underflow")
}

func (e *evalState) dynamicError(format string, args ...any) error {
	return xpatherr.New(xpatherr.FOER0000, format, args...)
}
