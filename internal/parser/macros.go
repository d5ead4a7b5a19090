package parser

import (
	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/token"
)

// parseMacroInvocation handles the `name!(...)`, `name![...]`, and
// `name!{...}` macro-call forms. `vec!` gets its two dedicated spellings
// (`vec![a, b, c]` and `vec![expr; n]`); `dataframe!` gets the brace form
// building column literals; anything else falls back to a generic
// comma-separated argument list, regardless of which bracket it used.
func (p *Parser) parseMacroInvocation(left ast.Expr) ast.Expr {
	start := left.Span()
	name := macroName(left)
	p.advance() // '!'

	if name == "dataframe" && p.curIs(token.LBRACE) {
		return p.parseDataFrameLiteral(start, left)
	}

	if name == "vec" && p.curIs(token.LBRACKET) {
		return p.parseVecMacro(start)
	}

	open, close := token.LPAREN, token.RPAREN
	switch p.cur().Kind {
	case token.LBRACKET:
		open, close = token.LBRACKET, token.RBRACKET
	case token.LBRACE:
		open, close = token.LBRACE, token.RBRACE
	}
	p.expect(open)
	var args []ast.Expr
	for !p.curIs(close) && !p.curIs(token.EOF) {
		args = append(args, p.parseExpression(ASSIGN))
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(close)
	return &ast.MacroInvocation{Base: ast.NewBase(p.span(start), nil), Name: name, Args: args}
}

// parseVecMacro handles `vec![a, b, c]` and the repeat form `vec![expr; n]`.
func (p *Parser) parseVecMacro(start token.Span) ast.Expr {
	p.advance() // '['
	if p.curIs(token.RBRACKET) {
		p.advance()
		return &ast.MacroInvocation{Base: ast.NewBase(p.span(start), nil), Name: "vec"}
	}
	first := p.parseExpression(ASSIGN)
	if p.curIs(token.SEMI) {
		p.advance()
		n := p.parseExpression(ASSIGN)
		p.expect(token.RBRACKET)
		return &ast.MacroInvocation{Base: ast.NewBase(p.span(start), nil), Name: "vec", Args: []ast.Expr{first}, RepeatCount: n}
	}
	args := []ast.Expr{first}
	for p.curIs(token.COMMA) {
		p.advance()
		if p.curIs(token.RBRACKET) {
			break
		}
		args = append(args, p.parseExpression(ASSIGN))
	}
	p.expect(token.RBRACKET)
	return &ast.MacroInvocation{Base: ast.NewBase(p.span(start), nil), Name: "vec", Args: args}
}

// parseDataFrameLiteral parses `dataframe!{ col: [v1, v2, ...], ... }`.
func (p *Parser) parseDataFrameLiteral(start token.Span, _ ast.Expr) ast.Expr {
	p.advance() // '{'
	var cols []ast.DataFrameColumn
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		name := p.cur().Literal
		p.expect(token.IDENT)
		p.expect(token.COLON)
		values := p.parseExpression(ASSIGN)
		list, ok := values.(*ast.List)
		var vals []ast.Expr
		if ok {
			vals = list.Elements
		} else {
			vals = []ast.Expr{values}
		}
		cols = append(cols, ast.DataFrameColumn{Name: name, Values: vals})
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return &ast.DataFrame{Base: ast.NewBase(p.span(start), nil), Columns: cols}
}

func macroName(e ast.Expr) string {
	if id, ok := e.(*ast.Identifier); ok {
		return id.Name
	}
	return e.String()
}
