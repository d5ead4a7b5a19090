package types

import "github.com/velalang/vela/internal/ast"

// bindPattern unifies pat's shape against scrutinee and defines every
// identifier pat binds as a monomorphic variable in ctx (pattern-bound
// names are not let-generalized, matching the teacher's SymbolTable
// treating every bound name as a plain local).
func bindPattern(ctx *Context, pat ast.Pattern, scrutinee Type) {
	switch p := pat.(type) {
	case *ast.WildcardPattern:
		// matches anything, binds nothing

	case *ast.LiteralPattern:
		lt := inferExpr(ctx, p.Value)
		ctx.Unify(p.Span().Pos, scrutinee, lt)

	case *ast.IdentifierPattern:
		ctx.DefineMono(p.Name, scrutinee)

	case *ast.TuplePattern:
		elemTypes := make([]Type, len(p.Elements))
		for i := range elemTypes {
			elemTypes[i] = ctx.Fresh()
		}
		ctx.Unify(p.Span().Pos, scrutinee, &TTuple{Elements: elemTypes})
		for i, sub := range p.Elements {
			bindPattern(ctx, sub, elemTypes[i])
		}

	case *ast.ListPattern:
		elem := ctx.Fresh()
		ctx.Unify(p.Span().Pos, scrutinee, ListOf(elem))
		for _, le := range p.Elements {
			bindPattern(ctx, le.Pattern, elem)
			if le.Default != nil {
				ctx.Unify(p.Span().Pos, elem, inferExpr(ctx, le.Default))
			}
		}
		if p.RestPresent && p.RestName != "" {
			ctx.DefineMono(p.RestName, ListOf(elem))
		}

	case *ast.StructPattern:
		def, ok := ctx.engine.structs[p.TypeName]
		for _, f := range p.Fields {
			var fieldType Type = ctx.Fresh()
			if ok {
				if ft, exists := def.Fields[f.Name]; exists {
					fieldType = ft
				}
			}
			bindPattern(ctx, f.Pattern, fieldType)
		}

	case *ast.EnumVariantPattern:
		bindEnumVariantPattern(ctx, p, scrutinee)

	case *ast.RangePattern:
		if p.Start != nil {
			ctx.Unify(p.Span().Pos, scrutinee, inferExpr(ctx, p.Start))
		}
		if p.End != nil {
			ctx.Unify(p.Span().Pos, scrutinee, inferExpr(ctx, p.End))
		}

	case *ast.OrPattern:
		for _, alt := range p.Alternatives {
			bindPattern(ctx, alt, scrutinee)
		}
	}
}

// bindEnumVariantPattern resolves the matched enum (by explicit name, or by
// searching every registered enum for a variant with this name when the
// pattern elides the enum name) and unifies the scrutinee against that
// enum's instantiated type, binding each payload sub-pattern.
func bindEnumVariantPattern(ctx *Context, p *ast.EnumVariantPattern, scrutinee Type) {
	enumDef := findEnumByVariant(ctx, p.EnumName, p.VariantName)
	if enumDef == nil {
		for _, sub := range p.Elements {
			bindPattern(ctx, sub, ctx.Fresh())
		}
		return
	}
	variant := enumDef.Variants[p.VariantName]
	args := make([]Type, len(enumDef.Generics))
	fresh := map[string]Type{}
	for i, g := range enumDef.Generics {
		args[i] = ctx.Fresh()
		fresh[g] = args[i]
	}
	ctx.Unify(p.Span().Pos, scrutinee, &TCon{Name: enumDef.Name, Args: args})
	for i, sub := range p.Elements {
		if i < len(variant.Types) {
			bindPattern(ctx, sub, substGenerics(variant.Types[i], fresh))
		} else {
			bindPattern(ctx, sub, ctx.Fresh())
		}
	}
}

func findEnumByVariant(ctx *Context, enumName, variantName string) *EnumDef {
	if enumName != "" {
		return ctx.engine.enums[enumName]
	}
	for _, def := range ctx.engine.enums {
		if _, ok := def.Variants[variantName]; ok {
			return def
		}
	}
	return nil
}

// substGenerics rewrites a registered declaration's type (written in terms
// of that declaration's own generic parameter names) into a fresh instance,
// by swapping any TCon whose Name matches a generic parameter for the fresh
// type variable standing in for it at this use site.
func substGenerics(t Type, fresh map[string]Type) Type {
	switch n := t.(type) {
	case *TCon:
		if repl, ok := fresh[n.Name]; ok && len(n.Args) == 0 {
			return repl
		}
		args := make([]Type, len(n.Args))
		for i, a := range n.Args {
			args[i] = substGenerics(a, fresh)
		}
		return &TCon{Name: n.Name, Args: args}
	case *TFunc:
		params := make([]Type, len(n.Params))
		for i, p := range n.Params {
			params[i] = substGenerics(p, fresh)
		}
		return &TFunc{Params: params, Ret: substGenerics(n.Ret, fresh)}
	case *TTuple:
		elems := make([]Type, len(n.Elements))
		for i, e := range n.Elements {
			elems[i] = substGenerics(e, fresh)
		}
		return &TTuple{Elements: elems}
	case *TRef:
		return &TRef{Target: substGenerics(n.Target, fresh), Mut: n.Mut}
	case *TArray:
		return &TArray{Elem: substGenerics(n.Elem, fresh), Len: n.Len}
	default:
		return t
	}
}
