package jit

import (
	"fmt"

	"github.com/velalang/vela/internal/interp"
)

// Frame is one call's register file: every local and parameter gets a
// slot, assigned once at lowering time by lower.go (mirroring
// internal/bytecode's register allocator, but unbounded since the JIT
// has no fixed-width instruction encoding to fit slot indices into).
type Frame struct {
	Slots []interp.Value
}

type sigKind int

const (
	sigNone sigKind = iota
	sigBreak
	sigContinue
	sigReturn
)

// Signal is evalFunc's non-local-exit channel, deliberately shaped like
// internal/interp.Signal (SigBreak/SigContinue/SigReturn) so a reader
// who already knows the tree-walker recognizes it immediately; kept as
// its own type rather than reusing interp.Signal because interp.Signal
// also carries SigThrow/RunErr plumbing the JIT's supported subset never
// produces (errors propagate as Go errors instead, see evalFunc below).
type Signal struct {
	Kind  sigKind
	Label string
	Value interp.Value
}

// evalFunc is what every IRNode compiles to: a closure closed over its
// sub-closures, called directly by its parent with no further node-kind
// dispatch. This is the "JIT" — Go's own compiler ahead-of-time compiles
// and inlines this closure chain once, and every subsequent call reuses
// the compiled machine code instead of re-interpreting the AST.
type evalFunc func(f *Frame) (Signal, error)

// Compiled is one lowered function, callable directly or as an IRCall
// target from a sibling in the same CompileProgram batch.
type Compiled struct {
	Name     string
	Arity    int
	NumSlots int
	body     evalFunc
}

// Call binds args into a fresh Frame's first Arity slots and runs the
// compiled body, absorbing a sigReturn into a plain value the way
// internal/interp's callClosure absorbs interp.SigReturn.
func (c *Compiled) Call(args []interp.Value) (interp.Value, error) {
	if len(args) != c.Arity {
		return nil, fmt.Errorf("jit: %s expects %d argument(s), got %d", c.Name, c.Arity, len(args))
	}
	f := &Frame{Slots: make([]interp.Value, c.NumSlots)}
	copy(f.Slots, args)
	sig, err := c.body(f)
	if err != nil {
		return nil, err
	}
	if sig.Kind == sigReturn {
		return sig.Value, nil
	}
	return sig.Value, nil
}
