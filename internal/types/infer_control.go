package types

import "github.com/velalang/vela/internal/ast"

func inferBlock(ctx *Context, n *ast.Block) Type {
	child := ctx.Child()
	var last Type = Unit
	for _, e := range n.Exprs {
		last = inferExpr(child, e)
	}
	if n.TrailingSemi {
		return Unit
	}
	return last
}

func inferIf(ctx *Context, n *ast.If) Type {
	ctx.Unify(n.Cond.Span().Pos, inferExpr(ctx, n.Cond), Bool)
	thenType := inferExpr(ctx, n.Then)
	if n.Else == nil {
		return Unit
	}
	elseType := inferExpr(ctx, n.Else)
	return ctx.Unify(n.Span().Pos, thenType, elseType)
}

func inferMatch(ctx *Context, n *ast.Match) Type {
	subject := inferExpr(ctx, n.Subject)
	result := ctx.Fresh()
	for _, arm := range n.Arms {
		armCtx := ctx.Child()
		bindPattern(armCtx, arm.Pattern, subject)
		if arm.Guard != nil {
			armCtx.Unify(arm.Guard.Span().Pos, inferExpr(armCtx, arm.Guard), Bool)
		}
		bodyType := inferExpr(armCtx, arm.Body)
		result = armCtx.Unify(arm.Body.Span().Pos, result, bodyType)
	}
	return ctx.Apply(result)
}

func inferWhile(ctx *Context, n *ast.While) Type {
	ctx.Unify(n.Cond.Span().Pos, inferExpr(ctx, n.Cond), Bool)
	bodyCtx := ctx.Child()
	bodyCtx.pushLoop()
	inferExpr(bodyCtx, n.Body)
	bodyCtx.popLoop()
	return Unit
}

func inferFor(ctx *Context, n *ast.For) Type {
	iterType := inferExpr(ctx, n.Iter)
	elem := ctx.Fresh()
	ctx.Unify(n.Iter.Span().Pos, iterType, ListOf(elem))
	bodyCtx := ctx.Child()
	bindPattern(bodyCtx, n.Pattern, elem)
	bodyCtx.pushLoop()
	inferExpr(bodyCtx, n.Body)
	bodyCtx.popLoop()
	return Unit
}

// inferLoop is the only loop form whose value-type comes from its `break`
// expressions; a loop with no value-carrying break types Unit.
func inferLoop(ctx *Context, n *ast.Loop) Type {
	bodyCtx := ctx.Child()
	frame := bodyCtx.pushLoop()
	inferExpr(bodyCtx, n.Body)
	bodyCtx.popLoop()
	if frame.breakType == nil {
		return Unit
	}
	return ctx.Apply(frame.breakType)
}

func inferBreak(ctx *Context, n *ast.Break) Type {
	frame, ok := ctx.currentLoop()
	if !ok {
		ctx.errorf(n.Span().Pos, "break outside of a loop")
		return ctx.Fresh()
	}
	if n.Value != nil {
		vt := inferExpr(ctx, n.Value)
		if frame.breakType == nil {
			frame.breakType = vt
		} else {
			frame.breakType = ctx.Unify(n.Span().Pos, frame.breakType, vt)
		}
	}
	return ctx.Fresh()
}

func inferContinue(ctx *Context, n *ast.Continue) Type {
	if _, ok := ctx.currentLoop(); !ok {
		ctx.errorf(n.Span().Pos, "continue outside of a loop")
	}
	return ctx.Fresh()
}

func inferReturn(ctx *Context, n *ast.Return) Type {
	target, ok := ctx.currentReturn()
	vt := Type(Unit)
	if n.Value != nil {
		vt = inferExpr(ctx, n.Value)
	}
	if ok {
		ctx.Unify(n.Span().Pos, target, vt)
	} else {
		ctx.errorf(n.Span().Pos, "return outside of a function")
	}
	return ctx.Fresh()
}

// inferThrow types Value freely; Vela's exception payloads are not
// statically tracked per function (no checked-exception typing), matching
// spec's try/catch being dynamically typed at the catch binding.
func inferThrow(ctx *Context, n *ast.Throw) Type {
	inferExpr(ctx, n.Value)
	return ctx.Fresh()
}

func inferTryCatch(ctx *Context, n *ast.TryCatch) Type {
	bodyType := inferExpr(ctx, n.Body)
	catchCtx := ctx.Child()
	catchCtx.DefineMono(n.CatchName, catchCtx.Fresh())
	catchType := inferExpr(catchCtx, n.CatchBody)
	return ctx.Unify(n.Span().Pos, bodyType, catchType)
}
