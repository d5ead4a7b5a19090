package jit

import (
	"fmt"

	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/interp"
)

func val(v interp.Value) Signal { return Signal{Value: v} }

func asBool(v interp.Value) bool {
	b, ok := v.(*interp.BoolValue)
	return ok && b.Value
}

func matchesLabel(sigLabel, loopLabel string) bool {
	return sigLabel == "" || sigLabel == loopLabel
}

// compileNode turns one IRNode into an evalFunc, recursively compiling
// its children first and closing over the resulting closures. This pass
// runs exactly once per function, at Compile/CompileProgram time; every
// later Call only ever runs the closures already built here, never
// re-inspecting the IR or the original AST.
func compileNode(n IRNode) evalFunc {
	switch n := n.(type) {

	case *IRConst:
		v := n.Value
		return func(f *Frame) (Signal, error) { return val(v), nil }

	case *IRLoad:
		slot := n.Slot
		return func(f *Frame) (Signal, error) { return val(f.Slots[slot]), nil }

	case *IRStore:
		slot := n.Slot
		value := compileNode(n.Value)
		return func(f *Frame) (Signal, error) {
			s, err := value(f)
			if err != nil || s.Kind != sigNone {
				return s, err
			}
			f.Slots[slot] = s.Value
			return s, nil
		}

	case *IRBinOp:
		l := compileNode(n.L)
		r := compileNode(n.R)
		op := n.Op
		return func(f *Frame) (Signal, error) {
			ls, err := l(f)
			if err != nil || ls.Kind != sigNone {
				return ls, err
			}
			rs, err := r(f)
			if err != nil || rs.Kind != sigNone {
				return rs, err
			}
			v, err := interp.ApplyBinary(op, ls.Value, rs.Value)
			if err != nil {
				return Signal{}, err
			}
			return val(v), nil
		}

	case *IRCompareOp:
		l := compileNode(n.L)
		r := compileNode(n.R)
		op := n.Op
		return func(f *Frame) (Signal, error) {
			ls, err := l(f)
			if err != nil || ls.Kind != sigNone {
				return ls, err
			}
			rs, err := r(f)
			if err != nil || rs.Kind != sigNone {
				return rs, err
			}
			v, err := interp.ApplyCompare(op, ls.Value, rs.Value)
			if err != nil {
				return Signal{}, err
			}
			return val(v), nil
		}

	case *IRLogical:
		l := compileNode(n.L)
		r := compileNode(n.R)
		isAnd := n.Op == ast.LogAnd
		return func(f *Frame) (Signal, error) {
			ls, err := l(f)
			if err != nil || ls.Kind != sigNone {
				return ls, err
			}
			lb := asBool(ls.Value)
			if isAnd && !lb {
				return val(&interp.BoolValue{Value: false}), nil
			}
			if !isAnd && lb {
				return val(&interp.BoolValue{Value: true}), nil
			}
			return r(f)
		}

	case *IRUnOp:
		x := compileNode(n.X)
		op := n.Op
		return func(f *Frame) (Signal, error) {
			xs, err := x(f)
			if err != nil || xs.Kind != sigNone {
				return xs, err
			}
			switch op {
			case ast.UnaryNeg:
				switch v := xs.Value.(type) {
				case *interp.IntegerValue:
					return val(&interp.IntegerValue{Value: -v.Value}), nil
				case *interp.FloatValue:
					return val(&interp.FloatValue{Value: -v.Value}), nil
				}
				return Signal{}, fmt.Errorf("jit: cannot negate %s", xs.Value.Type())
			case ast.UnaryNot:
				b, ok := xs.Value.(*interp.BoolValue)
				if !ok {
					return Signal{}, fmt.Errorf("jit: cannot apply ! to %s", xs.Value.Type())
				}
				return val(&interp.BoolValue{Value: !b.Value}), nil
			case ast.UnaryBitNot:
				iv, ok := xs.Value.(*interp.IntegerValue)
				if !ok {
					return Signal{}, fmt.Errorf("jit: cannot apply ~ to %s", xs.Value.Type())
				}
				return val(&interp.IntegerValue{Value: ^iv.Value}), nil
			}
			return Signal{}, fmt.Errorf("jit: unknown unary operator")
		}

	case *IRIf:
		cond := compileNode(n.Cond)
		then := compileNode(n.Then)
		var els evalFunc
		if n.Else != nil {
			els = compileNode(n.Else)
		}
		return func(f *Frame) (Signal, error) {
			cs, err := cond(f)
			if err != nil || cs.Kind != sigNone {
				return cs, err
			}
			if asBool(cs.Value) {
				return then(f)
			}
			if els != nil {
				return els(f)
			}
			return val(interp.Unit), nil
		}

	case *IRSeq:
		children := make([]evalFunc, len(n.Nodes))
		for i, c := range n.Nodes {
			children[i] = compileNode(c)
		}
		return func(f *Frame) (Signal, error) {
			last := val(interp.Unit)
			for _, c := range children {
				s, err := c(f)
				if err != nil {
					return Signal{}, err
				}
				if s.Kind != sigNone {
					return s, nil
				}
				last = s
			}
			return last, nil
		}

	case *IRLoop:
		return compileLoop(n)

	case *IRBreak:
		if n.Value == nil {
			label := n.Label
			return func(f *Frame) (Signal, error) { return Signal{Kind: sigBreak, Label: label}, nil }
		}
		value := compileNode(n.Value)
		label := n.Label
		return func(f *Frame) (Signal, error) {
			vs, err := value(f)
			if err != nil || vs.Kind != sigNone {
				return vs, err
			}
			return Signal{Kind: sigBreak, Label: label, Value: vs.Value}, nil
		}

	case *IRContinue:
		label := n.Label
		return func(f *Frame) (Signal, error) { return Signal{Kind: sigContinue, Label: label}, nil }

	case *IRCall:
		args := make([]evalFunc, len(n.Args))
		for i, a := range n.Args {
			args[i] = compileNode(a)
		}
		target := n.Target
		return func(f *Frame) (Signal, error) {
			argVals := make([]interp.Value, len(args))
			for i, a := range args {
				s, err := a(f)
				if err != nil || s.Kind != sigNone {
					return s, err
				}
				argVals[i] = s.Value
			}
			v, err := target.Call(argVals)
			if err != nil {
				return Signal{}, err
			}
			return val(v), nil
		}

	case *IRTuple:
		elems := make([]evalFunc, len(n.Elems))
		for i, e := range n.Elems {
			elems[i] = compileNode(e)
		}
		return func(f *Frame) (Signal, error) {
			vals := make([]interp.Value, len(elems))
			for i, e := range elems {
				s, err := e(f)
				if err != nil || s.Kind != sigNone {
					return s, err
				}
				vals[i] = s.Value
			}
			return val(&interp.TupleValue{Elements: vals}), nil
		}

	case *IRTupleGet:
		target := compileNode(n.Tuple)
		idx := n.Index
		return func(f *Frame) (Signal, error) {
			ts, err := target(f)
			if err != nil || ts.Kind != sigNone {
				return ts, err
			}
			tv, ok := ts.Value.(*interp.TupleValue)
			if !ok || idx >= len(tv.Elements) {
				return Signal{}, fmt.Errorf("jit: tuple has no field .%d", idx)
			}
			return val(tv.Elements[idx]), nil
		}

	case *IRReturn:
		if n.Value == nil {
			return func(f *Frame) (Signal, error) { return Signal{Kind: sigReturn, Value: interp.Unit}, nil }
		}
		value := compileNode(n.Value)
		return func(f *Frame) (Signal, error) {
			vs, err := value(f)
			if err != nil || vs.Kind != sigNone {
				return vs, err
			}
			return Signal{Kind: sigReturn, Value: vs.Value}, nil
		}

	case *IRMatchInt:
		subject := compileNode(n.Subject)
		cases := make([]compiledIntCase, len(n.Cases))
		for i, c := range n.Cases {
			cases[i] = compiledIntCase{value: c.Value, body: compileNode(c.Body)}
		}
		var def evalFunc
		if n.Default != nil {
			def = compileNode(n.Default)
		}
		return func(f *Frame) (Signal, error) {
			ss, err := subject(f)
			if err != nil || ss.Kind != sigNone {
				return ss, err
			}
			iv, ok := ss.Value.(*interp.IntegerValue)
			if !ok {
				return Signal{}, fmt.Errorf("jit: match subject must be Int, got %s", ss.Value.Type())
			}
			for _, c := range cases {
				if c.value == iv.Value {
					return c.body(f)
				}
			}
			if def != nil {
				return def(f)
			}
			return Signal{}, fmt.Errorf("jit: no match arm matched %d", iv.Value)
		}
	}

	panic(fmt.Sprintf("jit: compileNode: unhandled IR node %T", n))
}

type compiledIntCase struct {
	value int64
	body  evalFunc
}

func compileLoop(n *IRLoop) evalFunc {
	body := compileNode(n.Body)
	label := n.Label

	switch n.Kind {
	case loopWhile:
		cond := compileNode(n.Cond)
		return func(f *Frame) (Signal, error) {
			for {
				cs, err := cond(f)
				if err != nil || cs.Kind != sigNone {
					return cs, err
				}
				if !asBool(cs.Value) {
					return val(interp.Unit), nil
				}
				sig, brk, err := runLoopBody(body, f, label)
				if err != nil || brk {
					return sig, err
				}
				if sig.Kind != sigNone {
					return sig, nil
				}
			}
		}

	case loopRange:
		lo := compileNode(n.RangeLo)
		hi := compileNode(n.RangeHi)
		slot := n.IterSlot
		inclusive := n.Inclusive
		return func(f *Frame) (Signal, error) {
			los, err := lo(f)
			if err != nil || los.Kind != sigNone {
				return los, err
			}
			his, err := hi(f)
			if err != nil || his.Kind != sigNone {
				return his, err
			}
			loI, ok1 := los.Value.(*interp.IntegerValue)
			hiI, ok2 := his.Value.(*interp.IntegerValue)
			if !ok1 || !ok2 {
				return Signal{}, fmt.Errorf("jit: for-range bounds must be Int")
			}
			end := hiI.Value
			if inclusive {
				end++
			}
			for i := loI.Value; i < end; i++ {
				f.Slots[slot] = &interp.IntegerValue{Value: i}
				sig, brk, err := runLoopBody(body, f, label)
				if err != nil || brk {
					return sig, err
				}
				if sig.Kind != sigNone {
					return sig, nil
				}
			}
			return val(interp.Unit), nil
		}

	default: // loopBare
		return func(f *Frame) (Signal, error) {
			for {
				sig, brk, err := runLoopBody(body, f, label)
				if err != nil || brk {
					return sig, err
				}
				if sig.Kind != sigNone {
					return sig, nil
				}
			}
		}
	}
}

// runLoopBody runs one iteration of a loop's body, absorbing a matching
// break/continue; brk reports whether the loop should stop entirely and
// return sig as-is to its caller (a real break, a propagating non-local
// exit, or an error).
func runLoopBody(body evalFunc, f *Frame, label string) (sig Signal, brk bool, err error) {
	bs, err := body(f)
	if err != nil {
		return Signal{}, true, err
	}
	switch bs.Kind {
	case sigBreak:
		if !matchesLabel(bs.Label, label) {
			return bs, true, nil
		}
		v := bs.Value
		if v == nil {
			v = interp.Unit
		}
		return val(v), true, nil
	case sigContinue:
		if !matchesLabel(bs.Label, label) {
			return bs, true, nil
		}
		return Signal{}, false, nil
	case sigReturn:
		return bs, true, nil
	}
	return Signal{}, false, nil
}
