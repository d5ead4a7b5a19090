package types

import "github.com/velalang/vela/internal/ast"

// inferStruct registers the struct's field shape and defines a constructor
// function `Name(field1, field2, ...) -> Name<...>` in value scope, so a
// struct literal written as a call (`Point(1, 2)`) resolves like any other
// function the way the teacher's SymbolTable registers a class's
// constructor alongside its field layout.
func inferStruct(ctx *Context, n *ast.Struct) Type {
	declCtx := ctx.Child()
	generics := make([]Type, len(n.Generics))
	for i, g := range n.Generics {
		generics[i] = declCtx.Fresh()
		declCtx.DefineTypeVar(g, generics[i])
	}

	def := &StructDef{Name: n.Name, Generics: n.Generics, Fields: map[string]Type{}}
	paramTypes := make([]Type, len(n.Fields))
	for i, f := range n.Fields {
		ft := Convert(declCtx, f.Type)
		def.Fields[f.Name] = ft
		def.FieldOrder = append(def.FieldOrder, f.Name)
		paramTypes[i] = ft
	}
	ctx.engine.structs[n.Name] = def

	selfType := &TCon{Name: n.Name, Args: generics}
	ctor := &TFunc{Params: paramTypes, Ret: selfType}
	ctx.Define(n.Name, Generalize(ctx, ctor))
	return Unit
}

// inferEnum registers the enum's variant shapes and defines a constructor
// function per tuple variant (`Enum::Variant(args...) -> Enum<...>`); unit
// variants are bound directly as values of the enum type.
func inferEnum(ctx *Context, n *ast.Enum) Type {
	declCtx := ctx.Child()
	generics := make([]Type, len(n.Generics))
	for i, g := range n.Generics {
		generics[i] = declCtx.Fresh()
		declCtx.DefineTypeVar(g, generics[i])
	}

	def := &EnumDef{Name: n.Name, Generics: n.Generics, Variants: map[string]*EnumVariantDef{}}
	for _, v := range n.Variants {
		vd := &EnumVariantDef{Name: v.Name, Fields: map[string]Type{}}
		for _, t := range v.Types {
			vd.Types = append(vd.Types, Convert(declCtx, t))
		}
		for _, f := range v.Fields {
			vd.Fields[f.Name] = Convert(declCtx, f.Type)
			vd.FieldOrder = append(vd.FieldOrder, f.Name)
		}
		def.Variants[v.Name] = vd
	}
	ctx.engine.enums[n.Name] = def

	for _, v := range n.Variants {
		ctorName := n.Name + "::" + v.Name
		ctorType := enumConstructorType(ctx, def, def.Variants[v.Name])
		ctx.Define(ctorName, Generalize(ctx, ctorType))
	}
	return Unit
}

// enumConstructorType builds a variant's value type: a bare instance of the
// enum for unit variants, or a function from payload types to the enum
// instance for tuple variants.
func enumConstructorType(ctx *Context, def *EnumDef, variant *EnumVariantDef) Type {
	args := make([]Type, len(def.Generics))
	for i := range def.Generics {
		args[i] = ctx.Fresh()
	}
	selfType := &TCon{Name: def.Name, Args: args}
	if len(variant.Types) == 0 && len(variant.Fields) == 0 {
		return selfType
	}
	fresh := map[string]Type{}
	for i, g := range def.Generics {
		fresh[g] = args[i]
	}
	params := make([]Type, len(variant.Types))
	for i, t := range variant.Types {
		params[i] = substGenerics(t, fresh)
	}
	return &TFunc{Params: params, Ret: selfType}
}

func inferTrait(ctx *Context, n *ast.Trait) Type {
	def := &TraitDef{Name: n.Name, Generics: n.Generics, Methods: map[string]*TFunc{}}
	for _, m := range n.Methods {
		declCtx := ctx.Child()
		params := make([]Type, len(m.Params))
		for i, p := range m.Params {
			if p.Name == "self" {
				params[i] = declCtx.Fresh()
				continue
			}
			params[i] = Convert(declCtx, p.Type)
		}
		ret := Convert(declCtx, m.ReturnType)
		def.Methods[m.Name] = &TFunc{Params: params, Ret: ret}
		if m.Default != nil {
			inferExpr(declCtx, m.Default)
		}
	}
	ctx.engine.traits[n.Name] = def
	return Unit
}

// inferImpl type-checks each method body (with `self` bound to the target
// type) and registers the resulting method signatures under the target
// type's head name so inferMethodCall can find them.
func inferImpl(ctx *Context, n *ast.Impl) Type {
	declCtx := ctx.Child()
	for _, g := range n.Generics {
		declCtx.DefineTypeVar(g, declCtx.Fresh())
	}
	targetType := Convert(declCtx, n.TargetType)
	targetName := headName(targetType)

	impl := &ImplDef{TraitTarget: n.TraitTarget, TargetName: targetName, Methods: map[string]*TFunc{}}
	for _, m := range n.Methods {
		methodCtx := declCtx.Child()
		params := make([]Type, len(m.Params))
		for i, p := range m.Params {
			if p.Name == "self" {
				params[i] = targetType
				methodCtx.DefineMono("self", targetType)
				continue
			}
			pt := Convert(methodCtx, p.Type)
			params[i] = pt
			methodCtx.DefineMono(p.Name, pt)
		}
		ret := Convert(methodCtx, m.ReturnType)
		impl.Methods[m.Name] = &TFunc{Params: params, Ret: ret}

		methodCtx.pushReturn(ret)
		bodyType := inferExpr(methodCtx, m.Body)
		methodCtx.popReturn()
		methodCtx.Unify(m.Span().Pos, ret, bodyType)
	}
	ctx.engine.impls[targetName] = append(ctx.engine.impls[targetName], impl)
	return Unit
}

func headName(t Type) string {
	if tc, ok := t.(*TCon); ok {
		return tc.Name
	}
	return ""
}

func inferModule(ctx *Context, n *ast.Module) Type {
	if n.Body == nil {
		return Unit
	}
	modCtx := ctx.Child()
	return inferExpr(modCtx, n.Body)
}
