package interp

import "github.com/velalang/vela/internal/errors"

// SigKind discriminates a non-local exit from ordinary evaluation. The
// teacher's Interpreter tracks this with three independent bool fields
// (exitSignal, continueSignal, breakSignal) checked and cleared after every
// statement; Vela generalizes that into one sum type because break and
// return can carry a value here (`break 42`, `return x`) where DWScript's
// equivalents cannot.
type SigKind int

const (
	SigNone SigKind = iota
	SigBreak
	SigContinue
	SigReturn
	SigThrow
)

// Signal is the result of evaluating a statement: either a plain value
// (Kind == SigNone) or a non-local exit carrying a payload (the break/
// return value, or the thrown value for SigThrow).
type Signal struct {
	Kind   SigKind
	Value  Value
	Label  string // target loop label for SigBreak/SigContinue, "" for the nearest enclosing loop
	RunErr *errors.CompilerError // populated only for a host-level failure
}

// val wraps v as a completed, non-exiting evaluation result — the common
// case, returned by the overwhelming majority of eval calls.
func val(v Value) Signal { return Signal{Kind: SigNone, Value: v} }

func (s Signal) isExit() bool { return s.Kind != SigNone }
