package parser

import (
	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/token"
)

// parseGenericParams parses an optional `<T, U: Bound, ...>` parameter
// list, used on fn/struct/enum/trait/impl declarations. Bounds are parsed
// but only the bare name is retained; trait satisfaction is an inference
// concern, not a parse-tree concern.
func (p *Parser) parseGenericParams() []string {
	if !p.curIs(token.LT) {
		return nil
	}
	p.advance()
	var names []string
	for !p.curIs(token.GT) && !p.curIs(token.EOF) {
		name := p.cur().Literal
		p.expect(token.IDENT)
		names = append(names, name)
		if p.curIs(token.COLON) {
			p.advance()
			p.parseType() // bound, discarded at parse time
		}
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.GT)
	return names
}

// parseOptionalTypeAnnotation parses `: Type` if present, returning nil
// otherwise (an unannotated binding the inference engine must reconstruct).
func (p *Parser) parseOptionalTypeAnnotation() ast.Type {
	if !p.curIs(token.COLON) {
		return nil
	}
	p.advance()
	return p.parseType()
}

// parseType parses a single type annotation per spec's Type sum:
// Named(name, args) | Fn(params, ret) | Tuple(ts) | List(t) | Ref(t, mut?)
// | Array(t, n) | Generic(name) | ImplTrait(bound) | Unit.
func (p *Parser) parseType() ast.Type {
	start := p.cur().Span

	switch p.cur().Kind {
	case token.LPAREN:
		p.advance()
		if p.curIs(token.RPAREN) {
			p.advance()
			return &ast.UnitType{TyBase: ast.NewTyBase(p.span(start))}
		}
		var elems []ast.Type
		elems = append(elems, p.parseType())
		for p.curIs(token.COMMA) {
			p.advance()
			elems = append(elems, p.parseType())
		}
		p.expect(token.RPAREN)
		if len(elems) == 1 {
			return elems[0]
		}
		return &ast.TupleType{TyBase: ast.NewTyBase(p.span(start)), Elements: elems}

	case token.LBRACKET:
		p.advance()
		elem := p.parseType()
		if p.curIs(token.SEMI) {
			p.advance()
			n := 0
			if p.curIs(token.INT) {
				n = parseIntLiteral(p.cur().Literal)
				p.advance()
			}
			p.expect(token.RBRACKET)
			return &ast.ArrayType{TyBase: ast.NewTyBase(p.span(start)), Elem: elem, Len: n}
		}
		p.expect(token.RBRACKET)
		return &ast.ListType{TyBase: ast.NewTyBase(p.span(start)), Elem: elem}

	case token.AMP:
		p.advance()
		mut := false
		if p.curIs(token.MUT) {
			mut = true
			p.advance()
		}
		target := p.parseType()
		return &ast.RefType{TyBase: ast.NewTyBase(p.span(start)), Target: target, Mut: mut}

	case token.FN:
		p.advance()
		p.expect(token.LPAREN)
		var params []ast.Type
		for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
			params = append(params, p.parseType())
			if p.curIs(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.RPAREN)
		var ret ast.Type
		if p.curIs(token.ARROW) {
			p.advance()
			ret = p.parseType()
		}
		return &ast.FnType{TyBase: ast.NewTyBase(p.span(start)), Params: params, Ret: ret}

	case token.IMPL:
		p.advance()
		bound := p.cur().Literal
		p.expect(token.IDENT)
		for p.curIs(token.LT) {
			p.parseGenericArgs()
		}
		return &ast.ImplTraitType{TyBase: ast.NewTyBase(p.span(start)), Bound: bound}

	case token.IDENT, token.SELF_TYPE:
		name := p.cur().Literal
		p.advance()
		for p.curIs(token.COLONCOLON) {
			p.advance()
			name = name + "::" + p.cur().Literal
			p.expect(token.IDENT)
		}
		var args []ast.Type
		if p.curIs(token.LT) {
			args = p.parseGenericArgs()
		}
		return &ast.NamedType{TyBase: ast.NewTyBase(p.span(start)), Name: name, Args: args}

	default:
		p.addError("expected a type", ErrExpectedType)
		p.advance()
		return &ast.NamedType{TyBase: ast.NewTyBase(p.span(start)), Name: "<error>"}
	}
}

// parseGenericArgs parses `<T, List<U>, ...>` type arguments, the angle
// brackets used both on type references and on impl/trait declarations.
// Box/Vec/Option-style nested generics (spec §4.2) are just ordinary
// recursive NamedType.Args.
func (p *Parser) parseGenericArgs() []ast.Type {
	p.expect(token.LT)
	var args []ast.Type
	for !p.curIs(token.GT) && !p.curIs(token.SHR) && !p.curIs(token.EOF) {
		args = append(args, p.parseType())
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	// `>>` lexes as SHR when two generic args close back-to-back
	// (`Vec<Option<T>>`); split it into two GT tokens here.
	if p.curIs(token.SHR) {
		p.splitShrIntoGt()
	}
	p.expect(token.GT)
	return args
}

// splitShrIntoGt handles the classic nested-generics lexer ambiguity: `>>`
// was scanned as one SHR token, but in type-argument position it closes
// two levels of `<...>`. We splice the current SHR into two adjacent GT
// tokens so the caller that opened the outer level also sees its closer.
func (p *Parser) splitShrIntoGt() {
	c := p.cursor
	gt := c.tokens[c.index]
	gt.Kind = token.GT
	gt.Literal = ">"
	rest := append([]token.Token{}, c.tokens[c.index+1:]...)
	head := append([]token.Token{}, c.tokens[:c.index]...)
	newTokens := append(head, gt, gt)
	newTokens = append(newTokens, rest...)
	p.cursor = &TokenCursor{l: c.l, tokens: newTokens, index: c.index, current: gt}
}

func parseIntLiteral(lit string) int {
	n := 0
	for _, r := range lit {
		if r == '_' {
			continue
		}
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	return n
}
