package types

import "github.com/velalang/vela/internal/ast"

// Convert elaborates a syntactic ast.Type into an inference-time Type,
// resolving generic parameter names against ctx's type-variable scope and
// named types against the struct/enum/alias registries. An unresolvable
// name still produces a TCon (so downstream unification fails loudly at
// the use site rather than here), except bare generic references, which
// resolve to whatever ctx bound them to.
func Convert(ctx *Context, t ast.Type) Type {
	if t == nil {
		return ctx.Fresh()
	}
	switch n := t.(type) {
	case *ast.NamedType:
		if bound, ok := ctx.LookupTypeVar(n.Name); ok && len(n.Args) == 0 {
			return bound
		}
		args := make([]Type, len(n.Args))
		for i, a := range n.Args {
			args[i] = Convert(ctx, a)
		}
		if alias, ok := ctx.engine.aliases[n.Name]; ok && len(args) == 0 {
			return alias
		}
		return &TCon{Name: n.Name, Args: args}
	case *ast.FnType:
		params := make([]Type, len(n.Params))
		for i, p := range n.Params {
			params[i] = Convert(ctx, p)
		}
		ret := Type(Unit)
		if n.Ret != nil {
			ret = Convert(ctx, n.Ret)
		}
		return &TFunc{Params: params, Ret: ret}
	case *ast.TupleType:
		elems := make([]Type, len(n.Elements))
		for i, e := range n.Elements {
			elems[i] = Convert(ctx, e)
		}
		return &TTuple{Elements: elems}
	case *ast.ListType:
		return ListOf(Convert(ctx, n.Elem))
	case *ast.RefType:
		return &TRef{Target: Convert(ctx, n.Target), Mut: n.Mut}
	case *ast.ArrayType:
		return &TArray{Elem: Convert(ctx, n.Elem), Len: n.Len}
	case *ast.TyVarRef:
		return ctx.Fresh()
	case *ast.GenericType:
		if bound, ok := ctx.LookupTypeVar(n.Name); ok {
			return bound
		}
		return ctx.Fresh()
	case *ast.ImplTraitType:
		return ctx.Fresh()
	case *ast.UnitType:
		return Unit
	default:
		return ctx.Fresh()
	}
}
