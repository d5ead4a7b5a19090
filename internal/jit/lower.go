package jit

import (
	"fmt"
	"strconv"

	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/interp"
)

// UnsupportedError reports an ast.Expr outside the JIT's supported
// subset; CompileProgram/Compile return it for the whole function rather
// than attempting a partial, node-level fallback, and the caller reports
// it as an error.
type UnsupportedError struct {
	Node ast.Expr
	Why  string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("jit: unsupported construct %T: %s", e.Node, e.Why)
}

func unsupported(n ast.Expr, why string) error {
	return &UnsupportedError{Node: n, Why: why}
}

// lowerCtx tracks slot allocation and name resolution for one function
// body, the lowering-time analogue of internal/bytecode.Compiler's
// locals/nextReg bookkeeping.
type lowerCtx struct {
	funcs    map[string]*Compiled
	locals   map[string]int
	nextSlot int
}

func newLowerCtx(funcs map[string]*Compiled) *lowerCtx {
	return &lowerCtx{funcs: funcs, locals: make(map[string]int)}
}

func (lx *lowerCtx) declare(name string) int {
	slot := lx.nextSlot
	lx.nextSlot++
	lx.locals[name] = slot
	return slot
}

// lowerFunction lowers fn's body into an IRNode tree, declaring one slot
// per parameter up front.
func lowerFunction(fn *ast.Function, funcs map[string]*Compiled) (IRNode, int, error) {
	lx := newLowerCtx(funcs)
	for _, p := range fn.Params {
		lx.declare(p.Name)
	}
	body, err := lowerBlock(fn.Body, lx)
	if err != nil {
		return nil, 0, err
	}
	return body, lx.nextSlot, nil
}

func lowerBlock(b *ast.Block, lx *lowerCtx) (IRNode, error) {
	nodes := make([]IRNode, 0, len(b.Exprs))
	for _, e := range b.Exprs {
		n, err := lowerExpr(e, lx)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return &IRSeq{Nodes: nodes}, nil
}

func lowerExpr(e ast.Expr, lx *lowerCtx) (IRNode, error) {
	switch n := e.(type) {

	case *ast.IntLiteral:
		return &IRConst{Value: &interp.IntegerValue{Value: n.Value}}, nil
	case *ast.FloatLiteral:
		return &IRConst{Value: &interp.FloatValue{Value: n.Value}}, nil
	case *ast.BoolLiteral:
		return &IRConst{Value: &interp.BoolValue{Value: n.Value}}, nil
	case *ast.StringLiteral:
		return &IRConst{Value: &interp.StringValue{Value: n.Value}}, nil
	case *ast.UnitLiteral:
		return &IRConst{Value: interp.Unit}, nil

	case *ast.Identifier:
		if slot, ok := lx.locals[n.Name]; ok {
			return &IRLoad{Slot: slot}, nil
		}
		return nil, unsupported(n, "identifier "+n.Name+" is not a local/parameter (globals and first-class function values are not supported by the JIT)")

	case *ast.Unary:
		x, err := lowerExpr(n.Operand, lx)
		if err != nil {
			return nil, err
		}
		return &IRUnOp{Op: n.Op, X: x}, nil

	case *ast.Binary:
		l, err := lowerExpr(n.Left, lx)
		if err != nil {
			return nil, err
		}
		r, err := lowerExpr(n.Right, lx)
		if err != nil {
			return nil, err
		}
		return &IRBinOp{Op: n.Op, L: l, R: r}, nil

	case *ast.Compare:
		l, err := lowerExpr(n.Left, lx)
		if err != nil {
			return nil, err
		}
		r, err := lowerExpr(n.Right, lx)
		if err != nil {
			return nil, err
		}
		return &IRCompareOp{Op: n.Op, L: l, R: r}, nil

	case *ast.Logical:
		l, err := lowerExpr(n.Left, lx)
		if err != nil {
			return nil, err
		}
		r, err := lowerExpr(n.Right, lx)
		if err != nil {
			return nil, err
		}
		return &IRLogical{Op: n.Op, L: l, R: r}, nil

	case *ast.Let:
		return lowerBinding(n.Name, n.Value, lx)
	case *ast.LetMut:
		return lowerBinding(n.Name, n.Value, lx)

	case *ast.Assignment:
		return lowerAssignment(n, lx)

	case *ast.If:
		cond, err := lowerExpr(n.Cond, lx)
		if err != nil {
			return nil, err
		}
		then, err := lowerBlock(n.Then, lx)
		if err != nil {
			return nil, err
		}
		var els IRNode
		if n.Else != nil {
			els, err = lowerExpr(n.Else, lx)
			if err != nil {
				return nil, err
			}
		}
		return &IRIf{Cond: cond, Then: then, Else: els}, nil

	case *ast.While:
		cond, err := lowerExpr(n.Cond, lx)
		if err != nil {
			return nil, err
		}
		body, err := lowerBlock(n.Body, lx)
		if err != nil {
			return nil, err
		}
		return &IRLoop{Kind: loopWhile, Label: n.Label, Cond: cond, Body: body}, nil

	case *ast.For:
		return lowerFor(n, lx)

	case *ast.Loop:
		body, err := lowerBlock(n.Body, lx)
		if err != nil {
			return nil, err
		}
		return &IRLoop{Kind: loopBare, Label: n.Label, Body: body}, nil

	case *ast.Break:
		var v IRNode
		if n.Value != nil {
			var err error
			v, err = lowerExpr(n.Value, lx)
			if err != nil {
				return nil, err
			}
		}
		return &IRBreak{Label: n.Label, Value: v}, nil

	case *ast.Continue:
		return &IRContinue{Label: n.Label}, nil

	case *ast.Return:
		var v IRNode
		if n.Value != nil {
			var err error
			v, err = lowerExpr(n.Value, lx)
			if err != nil {
				return nil, err
			}
		}
		return &IRReturn{Value: v}, nil

	case *ast.Block:
		return lowerBlock(n, lx)

	case *ast.Tuple:
		elems := make([]IRNode, len(n.Elements))
		for i, el := range n.Elements {
			v, err := lowerExpr(el, lx)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return &IRTuple{Elems: elems}, nil

	case *ast.FieldAccess:
		idx, err := strconv.Atoi(n.Field)
		if err != nil {
			return nil, unsupported(n, "only numeric tuple-field access (.0, .1, ...) is supported")
		}
		target, err := lowerExpr(n.Target, lx)
		if err != nil {
			return nil, err
		}
		return &IRTupleGet{Tuple: target, Index: idx}, nil

	case *ast.Call:
		return lowerCall(n, lx)

	case *ast.Match:
		return lowerMatch(n, lx)

	default:
		return nil, unsupported(e, "construct not in the JIT's supported subset")
	}
}

func lowerBinding(name string, value ast.Expr, lx *lowerCtx) (IRNode, error) {
	v, err := lowerExpr(value, lx)
	if err != nil {
		return nil, err
	}
	slot := lx.declare(name)
	return &IRStore{Slot: slot, Value: v}, nil
}

func lowerAssignment(n *ast.Assignment, lx *lowerCtx) (IRNode, error) {
	ident, ok := n.Target.(*ast.Identifier)
	if !ok {
		return nil, unsupported(n, "only assignment to a plain local (not fields/indices) is supported")
	}
	slot, ok := lx.locals[ident.Name]
	if !ok {
		return nil, unsupported(n, "assignment target "+ident.Name+" is not a known local")
	}
	rhs, err := lowerExpr(n.Value, lx)
	if err != nil {
		return nil, err
	}
	if n.Op != ast.AssignPlain {
		op, ok := compoundToBinOp(n.Op)
		if !ok {
			return nil, unsupported(n, "unrecognized compound-assignment operator")
		}
		rhs = &IRBinOp{Op: op, L: &IRLoad{Slot: slot}, R: rhs}
	}
	return &IRStore{Slot: slot, Value: rhs}, nil
}

func compoundToBinOp(op ast.AssignOp) (ast.BinaryOp, bool) {
	switch op {
	case ast.AssignAdd:
		return ast.BinAdd, true
	case ast.AssignSub:
		return ast.BinSub, true
	case ast.AssignMul:
		return ast.BinMul, true
	case ast.AssignDiv:
		return ast.BinDiv, true
	}
	return 0, false
}

// lowerFor only supports `for x in lo..hi { ... }` / `..=` over a plain
// identifier pattern — the fib/gcd benchmark floor needs nothing richer,
// and a general IterableValue would require boxing every element back
// through interp.Value conversions the JIT otherwise avoids.
func lowerFor(n *ast.For, lx *lowerCtx) (IRNode, error) {
	rng, ok := n.Iter.(*ast.Range)
	if !ok || rng.Start == nil || rng.End == nil {
		return nil, unsupported(n, "only bounded integer ranges (lo..hi or lo..=hi) are supported as a for-loop subject")
	}
	ident, ok := n.Pattern.(*ast.IdentifierPattern)
	if !ok {
		return nil, unsupported(n, "only a plain identifier loop-variable pattern is supported")
	}
	lo, err := lowerExpr(rng.Start, lx)
	if err != nil {
		return nil, err
	}
	hi, err := lowerExpr(rng.End, lx)
	if err != nil {
		return nil, err
	}
	slot := lx.declare(ident.Name)
	body, err := lowerBlock(n.Body, lx)
	if err != nil {
		return nil, err
	}
	return &IRLoop{
		Kind: loopRange, Label: n.Label,
		RangeLo: lo, RangeHi: hi, Inclusive: rng.Inclusive,
		IterSlot: slot, Body: body,
	}, nil
}

func lowerCall(n *ast.Call, lx *lowerCtx) (IRNode, error) {
	ident, ok := n.Callee.(*ast.Identifier)
	if !ok {
		return nil, unsupported(n, "only direct calls to a named sibling function are supported")
	}
	target, ok := lx.funcs[ident.Name]
	if !ok {
		return nil, unsupported(n, "call target "+ident.Name+" was not compiled in this JIT batch")
	}
	args := make([]IRNode, len(n.Args))
	for i, a := range n.Args {
		v, err := lowerExpr(a, lx)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return &IRCall{Target: target, Args: args}, nil
}

// lowerMatch supports only an integer subject matched against
// integer-literal patterns plus an optional trailing wildcard arm,
// per IRMatchInt's contract; anything richer (tuple/struct/enum/range/
// or-patterns, bound identifiers) rejects the whole function.
func lowerMatch(n *ast.Match, lx *lowerCtx) (IRNode, error) {
	subj, err := lowerExpr(n.Subject, lx)
	if err != nil {
		return nil, err
	}
	var cases []intCase
	var def IRNode
	for _, arm := range n.Arms {
		if arm.Guard != nil {
			return nil, unsupported(n, "guarded match arms are not supported")
		}
		switch pat := arm.Pattern.(type) {
		case *ast.WildcardPattern:
			body, err := lowerExpr(arm.Body, lx)
			if err != nil {
				return nil, err
			}
			def = body
		case *ast.LiteralPattern:
			lit, ok := pat.Value.(*ast.IntLiteral)
			if !ok {
				return nil, unsupported(n, "only integer-literal match patterns are supported")
			}
			body, err := lowerExpr(arm.Body, lx)
			if err != nil {
				return nil, err
			}
			cases = append(cases, intCase{Value: lit.Value, Body: body})
		default:
			return nil, unsupported(n, "only integer-literal and wildcard match patterns are supported")
		}
	}
	return &IRMatchInt{Subject: subj, Cases: cases, Default: def}, nil
}
