package types

import "github.com/velalang/vela/internal/ast"

// inferLet types Value, unifies it against an optional annotation, then
// generalizes the result into a Scheme so later uses of Name get their own
// fresh instantiation (let-polymorphism, the teacher's SymbolTable has no
// equivalent since its declared-type system is nominal, not inferred).
func inferLet(ctx *Context, n *ast.Let) Type {
	vt := inferExpr(ctx, n.Value)
	if n.Type != nil {
		vt = ctx.Unify(n.Span().Pos, vt, Convert(ctx, n.Type))
	}
	ctx.Define(n.Name, Generalize(ctx, vt))
	return Unit
}

func inferLetMut(ctx *Context, n *ast.LetMut) Type {
	vt := inferExpr(ctx, n.Value)
	if n.Type != nil {
		vt = ctx.Unify(n.Span().Pos, vt, Convert(ctx, n.Type))
	}
	ctx.DefineMono(n.Name, vt)
	return Unit
}

func inferVar(ctx *Context, n *ast.Var) Type {
	vt := inferExpr(ctx, n.Value)
	if n.Type != nil {
		vt = ctx.Unify(n.Span().Pos, vt, Convert(ctx, n.Type))
	}
	ctx.DefineMono(n.Name, vt)
	return Unit
}

func inferLetPattern(ctx *Context, n *ast.LetPattern) Type {
	vt := inferExpr(ctx, n.Value)
	bindPattern(ctx, n.Pattern, vt)
	return Unit
}

func inferConst(ctx *Context, n *ast.Const) Type {
	vt := inferExpr(ctx, n.Value)
	if n.Type != nil {
		vt = ctx.Unify(n.Span().Pos, vt, Convert(ctx, n.Type))
	}
	ctx.Define(n.Name, Generalize(ctx, vt))
	return Unit
}

func inferStatic(ctx *Context, n *ast.Static) Type {
	vt := inferExpr(ctx, n.Value)
	if n.Type != nil {
		vt = ctx.Unify(n.Span().Pos, vt, Convert(ctx, n.Type))
	}
	ctx.DefineMono(n.Name, vt)
	return Unit
}

func inferTypeAlias(ctx *Context, n *ast.TypeAlias) Type {
	ctx.engine.aliases[n.Name] = Convert(ctx, n.Type)
	return Unit
}
