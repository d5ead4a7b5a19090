package types

import "github.com/velalang/vela/internal/ast"

func inferUnary(ctx *Context, n *ast.Unary) Type {
	operand := inferExpr(ctx, n.Operand)
	switch n.Op {
	case ast.UnaryNot:
		return ctx.Unify(n.Span().Pos, operand, Bool)
	default:
		return operand
	}
}

// inferBinary unifies both operands together (Vela's numeric tower has no
// separate int/float typeclass machinery: `+`/`-`/`*`/`/` simply require
// matching operand types, Int with Int or Float with Float) and returns
// that shared type, except bitwise operators which are Int-only.
func inferBinary(ctx *Context, n *ast.Binary) Type {
	left := inferExpr(ctx, n.Left)
	right := inferExpr(ctx, n.Right)
	result := ctx.Unify(n.Span().Pos, left, right)
	switch n.Op {
	case ast.BinBitAnd, ast.BinBitOr, ast.BinBitXor, ast.BinShl, ast.BinShr:
		return ctx.Unify(n.Span().Pos, result, Int)
	default:
		return result
	}
}

func inferLogical(ctx *Context, n *ast.Logical) Type {
	ctx.Unify(n.Span().Pos, inferExpr(ctx, n.Left), Bool)
	ctx.Unify(n.Span().Pos, inferExpr(ctx, n.Right), Bool)
	return Bool
}

func inferCompare(ctx *Context, n *ast.Compare) Type {
	left := inferExpr(ctx, n.Left)
	right := inferExpr(ctx, n.Right)
	ctx.Unify(n.Span().Pos, left, right)
	return Bool
}

func inferRange(ctx *Context, n *ast.Range) Type {
	elem := ctx.Fresh()
	if n.Start != nil {
		elem = ctx.Unify(n.Span().Pos, elem, inferExpr(ctx, n.Start))
	}
	if n.End != nil {
		elem = ctx.Unify(n.Span().Pos, elem, inferExpr(ctx, n.End))
	}
	return &TCon{Name: "Range", Args: []Type{elem}}
}

// inferPipeline desugars `x |> f` to `f(x)`: f must be a one-argument
// function whose parameter unifies with x's type.
func inferPipeline(ctx *Context, n *ast.Pipeline) Type {
	left := inferExpr(ctx, n.Left)
	fnType := inferExpr(ctx, n.Right)
	ret := ctx.Fresh()
	ctx.Unify(n.Span().Pos, fnType, &TFunc{Params: []Type{left}, Ret: ret})
	return ctx.Apply(ret)
}

func inferAssignment(ctx *Context, n *ast.Assignment) Type {
	target := inferExpr(ctx, n.Target)
	value := inferExpr(ctx, n.Value)
	ctx.Unify(n.Span().Pos, target, value)
	return Unit
}
