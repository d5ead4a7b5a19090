package types

import "github.com/velalang/vela/internal/ast"

// Infer walks prog top to bottom, threading a single Engine's substitution
// through every nested Context, and returns the root context (so callers
// can inspect final bindings) plus whatever diagnostics were collected.
// Inference never aborts on error: like the parser, it accumulates and
// keeps going so a single bad expression doesn't hide the rest.
func Infer(prog *ast.Block) (*Context, []*InferError) {
	engine := newEngine()
	root := newRootContext(engine)
	registerBuiltins(root)

	for _, e := range prog.Exprs {
		inferExpr(root, e)
	}

	return root, engine.errors
}

// inferExpr is the central dispatch: every ast.Expr concrete type maps to
// exactly one case here, delegating to a helper in one of the sibling
// infer_*.go files grouped by construct family.
func inferExpr(ctx *Context, e ast.Expr) Type {
	switch n := e.(type) {

	// literals (infer_literals.go)
	case *ast.IntLiteral:
		return inferIntLiteral(ctx, n)
	case *ast.FloatLiteral:
		return inferFloatLiteral(ctx, n)
	case *ast.BoolLiteral:
		return inferBoolLiteral(ctx, n)
	case *ast.StringLiteral:
		return inferStringLiteral(ctx, n)
	case *ast.CharLiteral:
		return inferCharLiteral(ctx, n)
	case *ast.ByteLiteral:
		return inferByteLiteral(ctx, n)
	case *ast.UnitLiteral:
		return Unit
	case *ast.FString:
		return inferFString(ctx, n)
	case *ast.Identifier:
		return inferIdentifier(ctx, n)
	case *ast.Path:
		return inferPath(ctx, n)

	// access and calls (infer_functions.go / infer_decls.go)
	case *ast.FieldAccess:
		return inferFieldAccess(ctx, n)
	case *ast.IndexAccess:
		return inferIndexAccess(ctx, n)
	case *ast.MethodCall:
		return inferMethodCall(ctx, n)
	case *ast.Call:
		return inferCall(ctx, n)

	// operators (infer_operators.go)
	case *ast.Unary:
		return inferUnary(ctx, n)
	case *ast.Binary:
		return inferBinary(ctx, n)
	case *ast.Logical:
		return inferLogical(ctx, n)
	case *ast.Compare:
		return inferCompare(ctx, n)
	case *ast.Range:
		return inferRange(ctx, n)
	case *ast.Pipeline:
		return inferPipeline(ctx, n)
	case *ast.Assignment:
		return inferAssignment(ctx, n)

	// bindings (infer_bindings.go)
	case *ast.Let:
		return inferLet(ctx, n)
	case *ast.LetMut:
		return inferLetMut(ctx, n)
	case *ast.Var:
		return inferVar(ctx, n)
	case *ast.LetPattern:
		return inferLetPattern(ctx, n)
	case *ast.Const:
		return inferConst(ctx, n)
	case *ast.Static:
		return inferStatic(ctx, n)
	case *ast.TypeAlias:
		return inferTypeAlias(ctx, n)

	// control flow (infer_control.go)
	case *ast.If:
		return inferIf(ctx, n)
	case *ast.Match:
		return inferMatch(ctx, n)
	case *ast.While:
		return inferWhile(ctx, n)
	case *ast.For:
		return inferFor(ctx, n)
	case *ast.Loop:
		return inferLoop(ctx, n)
	case *ast.Break:
		return inferBreak(ctx, n)
	case *ast.Continue:
		return inferContinue(ctx, n)
	case *ast.Return:
		return inferReturn(ctx, n)
	case *ast.Throw:
		return inferThrow(ctx, n)
	case *ast.TryCatch:
		return inferTryCatch(ctx, n)

	// collections and grouping (infer_collections.go)
	case *ast.Block:
		return inferBlock(ctx, n)
	case *ast.Tuple:
		return inferTuple(ctx, n)
	case *ast.List:
		return inferList(ctx, n)
	case *ast.Set:
		return inferSet(ctx, n)
	case *ast.Dict:
		return inferDict(ctx, n)
	case *ast.Comprehension:
		return inferComprehension(ctx, n)
	case *ast.MacroInvocation:
		return inferMacroInvocation(ctx, n)
	case *ast.DataFrame:
		return inferDataFrame(ctx, n)

	// functions (infer_functions.go)
	case *ast.Function:
		return inferFunction(ctx, n)
	case *ast.Lambda:
		return inferLambda(ctx, n)
	case *ast.Await:
		return inferAwait(ctx, n)
	case *ast.Async:
		return inferAsync(ctx, n)
	case *ast.Spawn:
		return inferSpawn(ctx, n)
	case *ast.Send:
		return inferSend(ctx, n)
	case *ast.Ask:
		return inferAsk(ctx, n)

	// declarations (infer_decls.go)
	case *ast.Struct:
		return inferStruct(ctx, n)
	case *ast.Enum:
		return inferEnum(ctx, n)
	case *ast.Trait:
		return inferTrait(ctx, n)
	case *ast.Impl:
		return inferImpl(ctx, n)
	case *ast.Module:
		return inferModule(ctx, n)
	case *ast.Import:
		return Unit
	case *ast.Export:
		return inferExpr(ctx, n.Item)
	case *ast.Use:
		return Unit

	case *ast.ErrorNode:
		return ctx.Fresh()
	}

	ctx.errorf(e.Span().Pos, "internal: no inference rule for %T", e)
	return ctx.Fresh()
}

// registerBuiltins seeds the root context with the primitive free functions
// and constants every Vela program can call without an explicit import,
// grounded on the surface mentioned across spec §2's examples (print-style
// output, numeric conversions, basic collection helpers).
func registerBuiltins(ctx *Context) {
	tv := func() Type { return ctx.Fresh() }

	ctx.DefineMono("print", &TFunc{Params: []Type{tv()}, Ret: Unit})
	ctx.DefineMono("println", &TFunc{Params: []Type{tv()}, Ret: Unit})
	ctx.DefineMono("len", &TFunc{Params: []Type{tv()}, Ret: Int})

	a := ctx.Fresh()
	ctx.Define("identity", Generalize(ctx, &TFunc{Params: []Type{a}, Ret: a}))

	ctx.DefineMono("assert", &TFunc{Params: []Type{Bool}, Ret: Unit})
	ctx.DefineMono("panic", &TFunc{Params: []Type{String}, Ret: ctx.Fresh()})
}
