package types

import "github.com/velalang/vela/internal/ast"

func inferTuple(ctx *Context, n *ast.Tuple) Type {
	elems := make([]Type, len(n.Elements))
	for i, e := range n.Elements {
		elems[i] = inferExpr(ctx, e)
	}
	return &TTuple{Elements: elems}
}

func inferList(ctx *Context, n *ast.List) Type {
	elem := ctx.Fresh()
	for _, e := range n.Elements {
		elem = ctx.Unify(e.Span().Pos, elem, inferExpr(ctx, e))
	}
	return ListOf(ctx.Apply(elem))
}

func inferSet(ctx *Context, n *ast.Set) Type {
	elem := ctx.Fresh()
	for _, e := range n.Elements {
		elem = ctx.Unify(e.Span().Pos, elem, inferExpr(ctx, e))
	}
	return SetOf(ctx.Apply(elem))
}

func inferDict(ctx *Context, n *ast.Dict) Type {
	key := ctx.Fresh()
	val := ctx.Fresh()
	for _, e := range n.Entries {
		key = ctx.Unify(e.Key.Span().Pos, key, inferExpr(ctx, e.Key))
		val = ctx.Unify(e.Value.Span().Pos, val, inferExpr(ctx, e.Value))
	}
	return DictOf(ctx.Apply(key), ctx.Apply(val))
}

// inferComprehension binds Pattern against Iter's element type in a child
// scope, types the optional filter as Bool, and wraps Result's type in the
// collection shape IsSet/IsDict select.
func inferComprehension(ctx *Context, n *ast.Comprehension) Type {
	iterType := inferExpr(ctx, n.Iter)
	elem := ctx.Fresh()
	ctx.Unify(n.Iter.Span().Pos, iterType, ListOf(elem))

	bodyCtx := ctx.Child()
	bindPattern(bodyCtx, n.Pattern, elem)
	if n.Cond != nil {
		bodyCtx.Unify(n.Cond.Span().Pos, inferExpr(bodyCtx, n.Cond), Bool)
	}
	resultType := inferExpr(bodyCtx, n.Result)

	switch {
	case n.IsDict:
		keyType := inferExpr(bodyCtx, n.KeyExpr)
		return DictOf(ctx.Apply(keyType), ctx.Apply(resultType))
	case n.IsSet:
		return SetOf(ctx.Apply(resultType))
	default:
		return ListOf(ctx.Apply(resultType))
	}
}

// inferMacroInvocation gives `vec![...]` its List type; any other macro
// name types each argument but otherwise produces a fresh, unconstrained
// result, since user-defined macros have no declared signature to check
// against.
func inferMacroInvocation(ctx *Context, n *ast.MacroInvocation) Type {
	if n.Name == "vec" {
		elem := ctx.Fresh()
		if n.RepeatCount != nil {
			ctx.Unify(n.Span().Pos, inferExpr(ctx, n.RepeatCount), Int)
			if len(n.Args) == 1 {
				elem = inferExpr(ctx, n.Args[0])
			}
			return ListOf(ctx.Apply(elem))
		}
		for _, a := range n.Args {
			elem = ctx.Unify(a.Span().Pos, elem, inferExpr(ctx, a))
		}
		return ListOf(ctx.Apply(elem))
	}
	for _, a := range n.Args {
		inferExpr(ctx, a)
	}
	return ctx.Fresh()
}

// inferDataFrame types every column's values loosely (each column's own
// element type, unconstrained across columns) and produces an opaque
// DataFrame type; column-level typing lives outside the HM core the way
// spec's dataframe operations are described as a builtin facility.
func inferDataFrame(ctx *Context, n *ast.DataFrame) Type {
	for _, col := range n.Columns {
		elem := ctx.Fresh()
		for _, v := range col.Values {
			elem = ctx.Unify(v.Span().Pos, elem, inferExpr(ctx, v))
		}
	}
	return &TCon{Name: "DataFrame"}
}
