package types

import "github.com/velalang/vela/internal/ast"

func inferIntLiteral(ctx *Context, n *ast.IntLiteral) Type    { return Int }
func inferFloatLiteral(ctx *Context, n *ast.FloatLiteral) Type { return Float }
func inferBoolLiteral(ctx *Context, n *ast.BoolLiteral) Type  { return Bool }
func inferStringLiteral(ctx *Context, n *ast.StringLiteral) Type { return String }
func inferCharLiteral(ctx *Context, n *ast.CharLiteral) Type  { return Char }
func inferByteLiteral(ctx *Context, n *ast.ByteLiteral) Type  { return Byte }

// inferFString types every interpolated hole independently (each may be any
// Displayable value) and the f-string itself as String.
func inferFString(ctx *Context, n *ast.FString) Type {
	for _, part := range n.Parts {
		if part.Expr != nil {
			inferExpr(ctx, part.Expr)
		}
	}
	return String
}

func inferIdentifier(ctx *Context, n *ast.Identifier) Type {
	sch, ok := ctx.Lookup(n.Name)
	if !ok {
		ctx.errorf(n.Span().Pos, "undefined name %q", n.Name)
		return ctx.Fresh()
	}
	return Instantiate(ctx, sch)
}

// inferPath resolves a `Enum::Variant`-shaped path to the variant's
// constructor type when the head names a registered enum, and falls back to
// plain identifier lookup (module-qualified value access) otherwise.
func inferPath(ctx *Context, n *ast.Path) Type {
	if len(n.Segments) == 2 {
		if enumDef, ok := ctx.engine.enums[n.Segments[0]]; ok {
			if variant, ok := enumDef.Variants[n.Segments[1]]; ok {
				return enumConstructorType(ctx, enumDef, variant)
			}
		}
	}
	name := n.Segments[len(n.Segments)-1]
	sch, ok := ctx.Lookup(name)
	if !ok {
		ctx.errorf(n.Span().Pos, "undefined path %q", n.String())
		return ctx.Fresh()
	}
	return Instantiate(ctx, sch)
}
