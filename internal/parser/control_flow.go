package parser

import (
	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/token"
)

// parseIf parses `if cond { ... }` with an optional `else { ... }` or
// `else if ...` chain (the Else field holds either a *Block or a nested *If).
func (p *Parser) parseIf() ast.Expr {
	start := p.cur().Span
	p.advance() // 'if'
	cond := p.parseExpression(LOWEST)
	then := p.parseBlock()
	var elseExpr ast.Expr
	if p.curIs(token.ELSE) {
		p.advance()
		if p.curIs(token.IF) {
			elseExpr = p.parseIf()
		} else {
			elseExpr = p.parseBlock()
		}
	}
	return &ast.If{Base: ast.NewBase(p.span(start), nil), Cond: cond, Then: then, Else: elseExpr}
}

// parseMatch parses `match subject { pattern [if guard] => body, ... }`.
// Arms may themselves be full if/else ladders or nested matches, since
// those are just ordinary expressions in arm position.
func (p *Parser) parseMatch() ast.Expr {
	start := p.cur().Span
	p.advance() // 'match'
	subject := p.parseExpression(LOWEST)
	p.expect(token.LBRACE)
	var arms []ast.MatchArm
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		pat := p.parsePattern()
		var guard ast.Expr
		if p.curIs(token.IF) {
			p.advance()
			guard = p.parseExpression(LOWEST)
		}
		p.expect(token.FATARROW)
		body := p.parseExpression(ASSIGN)
		arms = append(arms, ast.MatchArm{Pattern: pat, Guard: guard, Body: body})
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return &ast.Match{Base: ast.NewBase(p.span(start), nil), Subject: subject, Arms: arms}
}

func (p *Parser) parseWhile() ast.Expr {
	start := p.cur().Span
	p.advance() // 'while'
	cond := p.parseExpression(LOWEST)
	body := p.parseBlock()
	return &ast.While{Base: ast.NewBase(p.span(start), nil), Cond: cond, Body: body}
}

func (p *Parser) parseFor() ast.Expr {
	start := p.cur().Span
	p.advance() // 'for'
	pat := p.parsePattern()
	if !p.expect(token.IN) {
		p.addError("expected 'in' in for loop", ErrUnexpectedToken)
	}
	iter := p.parseExpression(LOWEST)
	body := p.parseBlock()
	return &ast.For{Base: ast.NewBase(p.span(start), nil), Pattern: pat, Iter: iter, Body: body}
}

func (p *Parser) parseLoop() ast.Expr {
	start := p.cur().Span
	p.advance() // 'loop'
	body := p.parseBlock()
	return &ast.Loop{Base: ast.NewBase(p.span(start), nil), Body: body}
}

func (p *Parser) parseBreak() ast.Expr {
	start := p.cur().Span
	p.advance() // 'break'
	var value ast.Expr
	if p.canStartExpr() {
		value = p.parseExpression(ASSIGN)
	}
	return &ast.Break{Base: ast.NewBase(p.span(start), nil), Value: value}
}

func (p *Parser) parseContinue() ast.Expr {
	start := p.cur().Span
	p.advance() // 'continue'
	return &ast.Continue{Base: ast.NewBase(p.span(start), nil)}
}

func (p *Parser) parseReturn() ast.Expr {
	start := p.cur().Span
	p.advance() // 'return'
	var value ast.Expr
	if p.canStartExpr() {
		value = p.parseExpression(ASSIGN)
	}
	return &ast.Return{Base: ast.NewBase(p.span(start), nil), Value: value}
}

func (p *Parser) parseThrow() ast.Expr {
	start := p.cur().Span
	p.advance() // 'throw'
	value := p.parseExpression(ASSIGN)
	return &ast.Throw{Base: ast.NewBase(p.span(start), nil), Value: value}
}

// parseTryCatch supports both `try { } catch e { }` and
// `try { } catch (e) { }` spellings (spec §4.2).
func (p *Parser) parseTryCatch() ast.Expr {
	start := p.cur().Span
	p.advance() // 'try'
	body := p.parseBlock()
	p.expect(token.CATCH)
	parenWrapped := p.curIs(token.LPAREN)
	if parenWrapped {
		p.advance()
	}
	name := p.cur().Literal
	p.expect(token.IDENT)
	if parenWrapped {
		p.expect(token.RPAREN)
	}
	catchBody := p.parseBlock()
	return &ast.TryCatch{Base: ast.NewBase(p.span(start), nil), Body: body, CatchName: name, CatchBody: catchBody}
}

func (p *Parser) parseAsync() ast.Expr {
	start := p.cur().Span
	p.advance() // 'async'
	body := p.parseBlock()
	return &ast.Async{Base: ast.NewBase(p.span(start), nil), Body: body}
}

func (p *Parser) parseSpawn() ast.Expr {
	start := p.cur().Span
	p.advance() // 'spawn'
	value := p.parseExpression(ASSIGN)
	return &ast.Spawn{Base: ast.NewBase(p.span(start), nil), Value: value}
}
