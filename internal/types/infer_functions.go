package types

import "github.com/velalang/vela/internal/ast"

// inferFunction builds the function's type from its parameter/return
// annotations (defaulting unannotated ones to fresh variables), binds the
// generics it introduces as type-level scope for the body, defines itself
// in the body's own scope first (so recursive calls resolve), checks the
// body against the declared return type via the return-stack, and finally
// defines the generalized function type in the enclosing scope.
func inferFunction(ctx *Context, n *ast.Function) Type {
	fnCtx := ctx.Child()
	for _, g := range n.Generics {
		fnCtx.DefineTypeVar(g, fnCtx.Fresh())
	}

	paramTypes := make([]Type, len(n.Params))
	for i, p := range n.Params {
		if p.Name == "self" {
			paramTypes[i] = fnCtx.Fresh()
			fnCtx.DefineMono("self", paramTypes[i])
			continue
		}
		pt := Convert(fnCtx, p.Type)
		paramTypes[i] = pt
		fnCtx.DefineMono(p.Name, pt)
		if p.Default != nil {
			fnCtx.Unify(n.Span().Pos, pt, inferExpr(fnCtx, p.Default))
		}
	}

	retType := Convert(fnCtx, n.ReturnType)
	fnType := &TFunc{Params: paramTypes, Ret: retType}
	fnCtx.DefineMono(n.Name, fnType)

	fnCtx.pushReturn(retType)
	bodyType := inferExpr(fnCtx, n.Body)
	fnCtx.popReturn()
	fnCtx.Unify(n.Span().Pos, retType, bodyType)
	ctx.Define(n.Name, Generalize(ctx, fnType))

	return Unit
}

func inferLambda(ctx *Context, n *ast.Lambda) Type {
	lamCtx := ctx.Child()
	paramTypes := make([]Type, len(n.Params))
	for i, p := range n.Params {
		pt := Convert(lamCtx, p.Type)
		paramTypes[i] = pt
		lamCtx.DefineMono(p.Name, pt)
	}
	retType := lamCtx.Fresh()
	lamCtx.pushReturn(retType)
	bodyType := inferExpr(lamCtx, n.Body)
	lamCtx.popReturn()
	ret := lamCtx.Unify(n.Span().Pos, retType, bodyType)
	return &TFunc{Params: paramTypes, Ret: ret}
}

func inferCall(ctx *Context, n *ast.Call) Type {
	calleeType := inferExpr(ctx, n.Callee)
	argTypes := make([]Type, len(n.Args))
	for i, a := range n.Args {
		argTypes[i] = inferExpr(ctx, a)
	}
	ret := ctx.Fresh()
	ctx.Unify(n.Span().Pos, calleeType, &TFunc{Params: argTypes, Ret: ret})
	return ctx.Apply(ret)
}

func inferFieldAccess(ctx *Context, n *ast.FieldAccess) Type {
	targetType := ctx.Apply(inferExpr(ctx, n.Target))
	if tcon, ok := targetType.(*TCon); ok {
		if def, ok := ctx.engine.structs[tcon.Name]; ok {
			if ft, ok := def.Fields[n.Field]; ok {
				fresh := map[string]Type{}
				for i, g := range def.Generics {
					if i < len(tcon.Args) {
						fresh[g] = tcon.Args[i]
					}
				}
				return substGenerics(ft, fresh)
			}
		}
	}
	return ctx.Fresh()
}

func inferIndexAccess(ctx *Context, n *ast.IndexAccess) Type {
	targetType := inferExpr(ctx, n.Target)
	indexType := inferExpr(ctx, n.Index)
	elem := ctx.Fresh()

	switch t := ctx.Apply(targetType).(type) {
	case *TCon:
		switch t.Name {
		case "Dict":
			if len(t.Args) == 2 {
				ctx.Unify(n.Span().Pos, indexType, t.Args[0])
				return ctx.Apply(t.Args[1])
			}
		case "List", "Set":
			if len(t.Args) == 1 {
				ctx.Unify(n.Span().Pos, indexType, Int)
				return ctx.Apply(t.Args[0])
			}
		}
	case *TArray:
		ctx.Unify(n.Span().Pos, indexType, Int)
		return ctx.Apply(t.Elem)
	}

	ctx.Unify(n.Span().Pos, targetType, ListOf(elem))
	ctx.Unify(n.Span().Pos, indexType, Int)
	return ctx.Apply(elem)
}

// inferMethodCall looks up the method against every impl block registered
// for the receiver's head type name, falling back to a fresh, unconstrained
// result when no impl is registered yet (e.g. builtin collection methods
// not modeled as impls).
func inferMethodCall(ctx *Context, n *ast.MethodCall) Type {
	targetType := ctx.Apply(inferExpr(ctx, n.Target))
	argTypes := make([]Type, len(n.Args))
	for i, a := range n.Args {
		argTypes[i] = inferExpr(ctx, a)
	}

	tcon, ok := targetType.(*TCon)
	if !ok {
		return ctx.Fresh()
	}
	for _, impl := range ctx.engine.impls[tcon.Name] {
		method, ok := impl.Methods[n.Method]
		if !ok {
			continue
		}
		params := method.Params
		if len(params) > 0 {
			params = params[1:] // drop self
		}
		ret := ctx.Fresh()
		ctx.Unify(n.Span().Pos, &TFunc{Params: params, Ret: method.Ret}, &TFunc{Params: argTypes, Ret: ret})
		return ctx.Apply(ret)
	}
	return ctx.Fresh()
}

func inferAwait(ctx *Context, n *ast.Await) Type {
	vt := ctx.Apply(inferExpr(ctx, n.Value))
	if tcon, ok := vt.(*TCon); ok && tcon.Name == "Future" && len(tcon.Args) == 1 {
		return tcon.Args[0]
	}
	return vt
}

func inferAsync(ctx *Context, n *ast.Async) Type {
	inner := inferExpr(ctx, n.Body)
	return &TCon{Name: "Future", Args: []Type{inner}}
}

func inferSpawn(ctx *Context, n *ast.Spawn) Type {
	inner := inferExpr(ctx, n.Value)
	return &TCon{Name: "Future", Args: []Type{inner}}
}

func inferSend(ctx *Context, n *ast.Send) Type {
	inferExpr(ctx, n.Target)
	inferExpr(ctx, n.Message)
	return Unit
}

func inferAsk(ctx *Context, n *ast.Ask) Type {
	inferExpr(ctx, n.Target)
	inferExpr(ctx, n.Message)
	return &TCon{Name: "Future", Args: []Type{ctx.Fresh()}}
}
