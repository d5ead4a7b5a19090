package parser

import (
	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/token"
)

// parsePattern parses one pattern per spec's Pattern sum: Wildcard,
// Literal, Identifier, Tuple, List (rest + defaults), Struct (shorthand +
// `..`), Enum variant, Range, Or, Guarded (guards are attached by the
// match-arm parser, not here).
func (p *Parser) parsePattern() ast.Pattern {
	pat := p.parsePrimaryPattern()
	for p.curIs(token.PIPE) {
		p.advance()
		alts := []ast.Pattern{pat, p.parsePrimaryPattern()}
		for p.curIs(token.PIPE) {
			p.advance()
			alts = append(alts, p.parsePrimaryPattern())
		}
		pat = &ast.OrPattern{PatBase: ast.NewPatBase(pat.Span()), Alternatives: alts}
	}
	return pat
}

func (p *Parser) parsePrimaryPattern() ast.Pattern {
	start := p.cur().Span

	switch p.cur().Kind {
	case token.IDENT:
		if p.cur().Literal == "_" {
			p.advance()
			return &ast.WildcardPattern{PatBase: ast.NewPatBase(p.span(start))}
		}
		name := p.cur().Literal
		p.advance()

		// `Enum::Variant` or `Enum::Variant(...)`.
		if p.curIs(token.COLONCOLON) {
			p.advance()
			variant := p.cur().Literal
			p.expect(token.IDENT)
			return p.finishEnumVariantPattern(start, name, variant)
		}
		// Bare `Variant(...)` (enum name elided) or struct-literal pattern
		// `Name { fields }`.
		if p.curIs(token.LPAREN) {
			return p.finishEnumVariantPattern(start, "", name)
		}
		if p.curIs(token.LBRACE) {
			return p.finishStructPattern(start, name)
		}
		// Range pattern `lo..hi` / `lo..=hi` where lo is a bound identifier
		// is unusual; ranges are normally literal-bounded, handled below.
		return &ast.IdentifierPattern{PatBase: ast.NewPatBase(p.span(start)), Name: name}

	case token.LPAREN:
		p.advance()
		var elems []ast.Pattern
		for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
			elems = append(elems, p.parsePattern())
			if p.curIs(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.RPAREN)
		return &ast.TuplePattern{PatBase: ast.NewPatBase(p.span(start)), Elements: elems}

	case token.LBRACKET:
		return p.parseListPattern(start)

	case token.INT, token.FLOAT, token.STRING, token.CHAR, token.BYTE, token.TRUE, token.FALSE, token.MINUS:
		lit := p.parseUnary()
		if p.curIs(token.DOTDOT) || p.curIs(token.DOTDOTEQ) {
			inclusive := p.curIs(token.DOTDOTEQ)
			p.advance()
			hi := p.parseUnary()
			return &ast.RangePattern{PatBase: ast.NewPatBase(p.span(start)), Start: lit, End: hi, Inclusive: inclusive}
		}
		return &ast.LiteralPattern{PatBase: ast.NewPatBase(p.span(start)), Value: lit}

	default:
		p.addError("expected a pattern", ErrInvalidPattern)
		p.advance()
		return &ast.WildcardPattern{PatBase: ast.NewPatBase(p.span(start))}
	}
}

func (p *Parser) finishEnumVariantPattern(start token.Span, enumName, variant string) ast.Pattern {
	if !p.curIs(token.LPAREN) {
		return &ast.EnumVariantPattern{PatBase: ast.NewPatBase(p.span(start)), EnumName: enumName, VariantName: variant}
	}
	p.advance()
	var elems []ast.Pattern
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		elems = append(elems, p.parsePattern())
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RPAREN)
	if elems == nil {
		elems = []ast.Pattern{}
	}
	return &ast.EnumVariantPattern{PatBase: ast.NewPatBase(p.span(start)), EnumName: enumName, VariantName: variant, Elements: elems}
}

func (p *Parser) finishStructPattern(start token.Span, typeName string) ast.Pattern {
	p.expect(token.LBRACE)
	var fields []ast.StructFieldPattern
	hasRest := false
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if p.curIs(token.DOTDOT) {
			p.advance()
			hasRest = true
			break
		}
		name := p.cur().Literal
		p.expect(token.IDENT)
		var fieldPat ast.Pattern
		if p.curIs(token.COLON) {
			p.advance()
			fieldPat = p.parsePattern()
		} else {
			// shorthand `{ x }` binds `x` to a same-named identifier.
			fieldPat = &ast.IdentifierPattern{PatBase: ast.NewPatBase(p.cur().Span), Name: name}
		}
		fields = append(fields, ast.StructFieldPattern{Name: name, Pattern: fieldPat})
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return &ast.StructPattern{PatBase: ast.NewPatBase(p.span(start)), TypeName: typeName, Fields: fields, HasRest: hasRest}
}

// parseListPattern handles `[a, b, ...rest]`, `[a, b = 1, c]`, and plain
// `[a, b, c]` list/array destructuring.
func (p *Parser) parseListPattern(start token.Span) ast.Pattern {
	p.expect(token.LBRACKET)
	lp := &ast.ListPattern{PatBase: ast.NewPatBase(start)}
	for !p.curIs(token.RBRACKET) && !p.curIs(token.EOF) {
		if p.curIs(token.DOTDOTDOT) {
			p.advance()
			lp.RestPresent = true
			lp.RestBefore = len(lp.Elements)
			if p.curIs(token.IDENT) {
				lp.RestName = p.cur().Literal
				p.advance()
			}
			if p.curIs(token.COMMA) {
				p.advance()
			}
			continue
		}
		elemPat := p.parsePattern()
		var def ast.Expr
		if p.curIs(token.ASSIGN) {
			p.advance()
			def = p.parseExpression(ASSIGN)
		}
		lp.Elements = append(lp.Elements, ast.ListElem{Pattern: elemPat, Default: def})
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RBRACKET)
	lp.PatBase = ast.NewPatBase(p.span(start))
	return lp
}
