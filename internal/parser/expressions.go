package parser

import (
	"strconv"
	"strings"

	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/token"
)

// registerExpressionParsers wires every prefix/infix parse function into
// the Pratt tables. Declaration keywords (let/fn/struct/...) are handled
// by parseDeclOrExpr before falling into parseExpression, so they do not
// need prefix entries here.
func (p *Parser) registerExpressionParsers() {
	p.prefixFns[token.INT] = p.parseIntLit
	p.prefixFns[token.FLOAT] = p.parseFloatLit
	p.prefixFns[token.TRUE] = p.parseBoolLit
	p.prefixFns[token.FALSE] = p.parseBoolLit
	p.prefixFns[token.STRING] = p.parseStringLit
	p.prefixFns[token.RAW_STRING] = p.parseRawStringLit
	p.prefixFns[token.CHAR] = p.parseCharLit
	p.prefixFns[token.BYTE] = p.parseByteLit
	p.prefixFns[token.NIL] = p.parseNilLit
	p.prefixFns[token.FSTRING_BEGIN] = p.parseFString
	p.prefixFns[token.IDENT] = p.parseIdentOrPath
	p.prefixFns[token.SELF] = p.parseIdentOrPath
	p.prefixFns[token.MINUS] = p.parseUnaryExpr
	p.prefixFns[token.BANG] = p.parseUnaryExpr
	p.prefixFns[token.TILDE] = p.parseUnaryExpr
	p.prefixFns[token.LPAREN] = p.parseGroupOrTuple
	p.prefixFns[token.LBRACKET] = p.parseListOrComprehension
	p.prefixFns[token.LBRACE] = p.parseBlockExpr
	p.prefixFns[token.PIPE] = p.parseLambda
	p.prefixFns[token.OR_OR] = p.parseEmptyParamLambda
	p.prefixFns[token.IF] = p.parseIf
	p.prefixFns[token.MATCH] = p.parseMatch
	p.prefixFns[token.WHILE] = p.parseWhile
	p.prefixFns[token.FOR] = p.parseFor
	p.prefixFns[token.LOOP] = p.parseLoop
	p.prefixFns[token.BREAK] = p.parseBreak
	p.prefixFns[token.CONTINUE] = p.parseContinue
	p.prefixFns[token.RETURN] = p.parseReturn
	p.prefixFns[token.THROW] = p.parseThrow
	p.prefixFns[token.TRY] = p.parseTryCatch
	p.prefixFns[token.ASYNC] = p.parseAsync
	p.prefixFns[token.SPAWN] = p.parseSpawn
	p.prefixFns[token.DOTDOT] = p.parseOpenRange
	p.prefixFns[token.DOTDOTEQ] = p.parseOpenRange

	p.infixFns[token.PLUS] = p.parseBinary
	p.infixFns[token.MINUS] = p.parseBinary
	p.infixFns[token.STAR] = p.parseBinary
	p.infixFns[token.SLASH] = p.parseBinary
	p.infixFns[token.PERCENT] = p.parseBinary
	p.infixFns[token.STARSTAR] = p.parseBinaryRightAssoc
	p.infixFns[token.AMP] = p.parseBinary
	p.infixFns[token.PIPE] = p.parseBinary
	p.infixFns[token.CARET] = p.parseBinary
	p.infixFns[token.SHL] = p.parseBinary
	p.infixFns[token.SHR] = p.parseBinary
	p.infixFns[token.AND_AND] = p.parseLogical
	p.infixFns[token.OR_OR] = p.parseLogical
	p.infixFns[token.EQ] = p.parseCompare
	p.infixFns[token.NEQ] = p.parseCompare
	p.infixFns[token.LT] = p.parseCompare
	p.infixFns[token.GT] = p.parseCompare
	p.infixFns[token.LE] = p.parseCompare
	p.infixFns[token.GE] = p.parseCompare
	p.infixFns[token.DOTDOT] = p.parseRange
	p.infixFns[token.DOTDOTEQ] = p.parseRange
	p.infixFns[token.PIPELINE] = p.parsePipeline
	p.infixFns[token.ASSIGN] = p.parseAssignment
	p.infixFns[token.PLUS_EQ] = p.parseAssignment
	p.infixFns[token.MINUS_EQ] = p.parseAssignment
	p.infixFns[token.STAR_EQ] = p.parseAssignment
	p.infixFns[token.SLASH_EQ] = p.parseAssignment
	p.infixFns[token.LPAREN] = p.parseCall
	p.infixFns[token.LBRACKET] = p.parseIndex
	p.infixFns[token.DOT] = p.parseFieldOrMethod
	p.infixFns[token.COLONCOLON] = p.parsePathInfix
	p.infixFns[token.BANG] = p.parseMacroInvocation
}

// parseExpression is the Pratt loop: parse one prefix expression, then
// repeatedly fold in infix operators whose precedence exceeds minPrec.
func (p *Parser) parseExpression(minPrec int) ast.Expr {
	prefix, ok := p.prefixFns[p.cur().Kind]
	if !ok {
		p.addError("no prefix parse function for "+p.cur().Kind.String(), ErrNoPrefixParse)
		start := p.cur().Span
		p.advance()
		return &ast.ErrorNode{Base: ast.NewBase(start, nil), Message: "unexpected token"}
	}
	left := prefix()

	for {
		prec, ok := precedences[p.cur().Kind]
		if !ok || prec <= minPrec {
			break
		}
		infix, ok := p.infixFns[p.cur().Kind]
		if !ok {
			break
		}
		left = infix(left)
	}
	return left
}

// parseUnary parses a single prefix-level expression (no infix folding),
// used where the grammar wants just a literal/unary operand — e.g. a
// pattern's literal or range bound.
func (p *Parser) parseUnary() ast.Expr {
	prefix, ok := p.prefixFns[p.cur().Kind]
	if !ok {
		p.addError("expected an expression", ErrInvalidExpression)
		start := p.cur().Span
		p.advance()
		return &ast.ErrorNode{Base: ast.NewBase(start, nil), Message: "expected expression"}
	}
	return prefix()
}

// ---- Literals ----

func (p *Parser) parseIntLit() ast.Expr {
	start := p.cur().Span
	lit := strings.ReplaceAll(p.cur().Literal, "_", "")
	var v int64
	switch {
	case strings.HasPrefix(lit, "0x") || strings.HasPrefix(lit, "0X"):
		n, _ := strconv.ParseInt(lit[2:], 16, 64)
		v = n
	case strings.HasPrefix(lit, "0o") || strings.HasPrefix(lit, "0O"):
		n, _ := strconv.ParseInt(lit[2:], 8, 64)
		v = n
	case strings.HasPrefix(lit, "0b") || strings.HasPrefix(lit, "0B"):
		n, _ := strconv.ParseInt(lit[2:], 2, 64)
		v = n
	default:
		n, _ := strconv.ParseInt(lit, 10, 64)
		v = n
	}
	p.advance()
	return &ast.IntLiteral{Base: ast.NewBase(p.span(start), nil), Value: v}
}

func (p *Parser) parseFloatLit() ast.Expr {
	start := p.cur().Span
	lit := strings.ReplaceAll(p.cur().Literal, "_", "")
	v, _ := strconv.ParseFloat(lit, 64)
	p.advance()
	return &ast.FloatLiteral{Base: ast.NewBase(p.span(start), nil), Value: v}
}

func (p *Parser) parseBoolLit() ast.Expr {
	start := p.cur().Span
	v := p.curIs(token.TRUE)
	p.advance()
	return &ast.BoolLiteral{Base: ast.NewBase(p.span(start), nil), Value: v}
}

func (p *Parser) parseStringLit() ast.Expr {
	start := p.cur().Span
	v := p.cur().Literal
	p.advance()
	return &ast.StringLiteral{Base: ast.NewBase(p.span(start), nil), Value: v}
}

func (p *Parser) parseRawStringLit() ast.Expr {
	start := p.cur().Span
	v := p.cur().Literal
	p.advance()
	return &ast.StringLiteral{Base: ast.NewBase(p.span(start), nil), Value: v, Raw: true}
}

func (p *Parser) parseCharLit() ast.Expr {
	start := p.cur().Span
	r := rune(0)
	if lit := []rune(p.cur().Literal); len(lit) > 0 {
		r = lit[0]
	}
	p.advance()
	return &ast.CharLiteral{Base: ast.NewBase(p.span(start), nil), Value: r}
}

func (p *Parser) parseByteLit() ast.Expr {
	start := p.cur().Span
	b := byte(0)
	if lit := p.cur().Literal; len(lit) > 0 {
		b = lit[0]
	}
	p.advance()
	return &ast.ByteLiteral{Base: ast.NewBase(p.span(start), nil), Value: b}
}

func (p *Parser) parseNilLit() ast.Expr {
	start := p.cur().Span
	p.advance()
	return &ast.UnitLiteral{Base: ast.NewBase(p.span(start), nil)}
}

// parseFString consumes the begin/mid/end fragment chain, re-entering the
// lexer's f-string fragment scanning via AdvanceFString after each
// interpolated expression's closing brace.
func (p *Parser) parseFString() ast.Expr {
	start := p.cur().Span
	var parts []ast.FStringPart
	parts = append(parts, ast.FStringPart{Text: p.cur().Literal})
	for {
		if p.curIs(token.FSTRING_END) {
			break
		}
		p.advance() // past the BEGIN/MID fragment to the interpolated expression
		expr := p.parseExpression(LOWEST)
		parts = append(parts, ast.FStringPart{Expr: expr})
		if !p.curIs(token.RBRACE) {
			p.addError("expected '}' to close f-string interpolation", ErrUnexpectedToken)
			break
		}
		p.cursor = p.cursor.AdvanceFString()
		if p.curIs(token.FSTRING_MID) || p.curIs(token.FSTRING_END) {
			parts = append(parts, ast.FStringPart{Text: p.cur().Literal})
		}
		if p.curIs(token.FSTRING_END) {
			break
		}
	}
	p.advance() // consume FSTRING_END
	return &ast.FString{Base: ast.NewBase(p.span(start), nil), Parts: parts}
}

// ---- Identifiers, paths, grouping ----

func (p *Parser) parseIdentOrPath() ast.Expr {
	start := p.cur().Span
	name := p.cur().Literal
	p.advance()
	if !p.curIs(token.COLONCOLON) {
		return &ast.Identifier{Base: ast.NewBase(p.span(start), nil), Name: name}
	}
	segs := []string{name}
	for p.curIs(token.COLONCOLON) {
		p.advance()
		segs = append(segs, p.cur().Literal)
		p.expect(token.IDENT)
	}
	return &ast.Path{Base: ast.NewBase(p.span(start), nil), Segments: segs}
}

func (p *Parser) parsePathInfix(left ast.Expr) ast.Expr {
	start := left.Span()
	segs := pathSegments(left)
	p.advance() // '::'
	segs = append(segs, p.cur().Literal)
	p.expect(token.IDENT)
	return &ast.Path{Base: ast.NewBase(p.span(start), nil), Segments: segs}
}

func pathSegments(e ast.Expr) []string {
	switch v := e.(type) {
	case *ast.Identifier:
		return []string{v.Name}
	case *ast.Path:
		return append([]string{}, v.Segments...)
	default:
		return []string{e.String()}
	}
}

// parseGroupOrTuple disambiguates `(expr)` grouping from `(a, b, ...)`
// tuple construction and from the unit literal `()`.
func (p *Parser) parseGroupOrTuple() ast.Expr {
	start := p.cur().Span
	p.advance() // '('
	if p.curIs(token.RPAREN) {
		p.advance()
		return &ast.UnitLiteral{Base: ast.NewBase(p.span(start), nil)}
	}
	first := p.parseExpression(LOWEST)
	if !p.curIs(token.COMMA) {
		p.expect(token.RPAREN)
		return first
	}
	elems := []ast.Expr{first}
	for p.curIs(token.COMMA) {
		p.advance()
		if p.curIs(token.RPAREN) {
			break
		}
		elems = append(elems, p.parseExpression(LOWEST))
	}
	p.expect(token.RPAREN)
	return &ast.Tuple{Base: ast.NewBase(p.span(start), nil), Elements: elems}
}

// parseListOrComprehension handles array literals and `[expr for pat in
// iter if cond]` comprehensions.
func (p *Parser) parseListOrComprehension() ast.Expr {
	start := p.cur().Span
	p.advance() // '['
	if p.curIs(token.RBRACKET) {
		p.advance()
		return &ast.List{Base: ast.NewBase(p.span(start), nil)}
	}
	first := p.parseExpression(LOWEST)
	if p.curIs(token.FOR) {
		p.advance()
		pat := p.parsePattern()
		if !p.expect(token.IN) {
			p.addError("expected 'in' in comprehension", ErrUnexpectedToken)
		}
		iter := p.parseExpression(LOWEST)
		var cond ast.Expr
		if p.curIs(token.IF) {
			p.advance()
			cond = p.parseExpression(LOWEST)
		}
		p.expect(token.RBRACKET)
		return &ast.Comprehension{Base: ast.NewBase(p.span(start), nil), Result: first, Pattern: pat, Iter: iter, Cond: cond}
	}
	elems := []ast.Expr{first}
	for p.curIs(token.COMMA) {
		p.advance()
		if p.curIs(token.RBRACKET) {
			break
		}
		elems = append(elems, p.parseExpression(LOWEST))
	}
	p.expect(token.RBRACKET)
	return &ast.List{Base: ast.NewBase(p.span(start), nil), Elements: elems}
}

// parseBlockExpr disambiguates a `{ ... }` block from a set/dict literal:
// `{}` is an empty dict, `{a, b}` a set, `{k: v, ...}` a dict, anything
// else a block of expressions.
func (p *Parser) parseBlockExpr() ast.Expr {
	start := p.cur().Span
	p.advance() // '{'
	if p.curIs(token.RBRACE) {
		p.advance()
		return &ast.Dict{Base: ast.NewBase(p.span(start), nil)}
	}

	mark := p.cursor.Mark()
	errsBefore := len(p.errors)
	first := p.parseExpression(LOWEST)
	if p.curIs(token.COLON) && looksLikeMapKey(first) {
		p.advance()
		val := p.parseExpression(LOWEST)
		entries := []ast.DictEntry{{Key: first, Value: val}}
		for p.curIs(token.COMMA) {
			p.advance()
			if p.curIs(token.RBRACE) {
				break
			}
			k := p.parseExpression(LOWEST)
			p.expect(token.COLON)
			v := p.parseExpression(LOWEST)
			entries = append(entries, ast.DictEntry{Key: k, Value: v})
		}
		p.expect(token.RBRACE)
		return &ast.Dict{Base: ast.NewBase(p.span(start), nil), Entries: entries}
	}
	if p.curIs(token.COMMA) {
		elems := []ast.Expr{first}
		for p.curIs(token.COMMA) {
			p.advance()
			if p.curIs(token.RBRACE) {
				break
			}
			elems = append(elems, p.parseExpression(LOWEST))
		}
		p.expect(token.RBRACE)
		return &ast.Set{Base: ast.NewBase(p.span(start), nil), Elements: elems}
	}

	// Not a set/dict literal after all: re-parse as a block of statements.
	p.cursor = p.cursor.ResetTo(mark)
	p.errors = p.errors[:errsBefore]
	return p.parseBlockBody(start)
}

func looksLikeMapKey(e ast.Expr) bool {
	switch e.(type) {
	case *ast.Identifier, *ast.StringLiteral, *ast.IntLiteral:
		return true
	default:
		return false
	}
}

// parseBlockBody parses `{ expr; expr; ... }` as a Block, where the final
// expression's value (absent a trailing semicolon) is the block's value.
func (p *Parser) parseBlockBody(start token.Span) *ast.Block {
	var exprs []ast.Expr
	trailingSemi := true
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if p.curIs(token.SEMI) {
			p.advance()
			continue
		}
		e := p.parseExprStatement()
		if e != nil {
			exprs = append(exprs, e)
		}
		if p.curIs(token.SEMI) {
			p.advance()
			trailingSemi = true
		} else {
			trailingSemi = false
		}
	}
	p.expect(token.RBRACE)
	return &ast.Block{Base: ast.NewBase(p.span(start), nil), Exprs: exprs, TrailingSemi: trailingSemi}
}

func (p *Parser) parseBlock() *ast.Block {
	start := p.cur().Span
	if !p.curIs(token.LBRACE) {
		p.addError("expected '{'", ErrUnexpectedToken)
		return &ast.Block{Base: ast.NewBase(p.span(start), nil)}
	}
	p.advance()
	return p.parseBlockBody(start)
}

// ---- Lambdas ----

func (p *Parser) parseLambda() ast.Expr {
	start := p.cur().Span
	p.advance() // '|'
	var params []ast.Param
	for !p.curIs(token.PIPE) && !p.curIs(token.EOF) {
		params = append(params, p.parseParam())
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.PIPE)
	body := p.parseExpression(ASSIGN)
	return &ast.Lambda{Base: ast.NewBase(p.span(start), nil), Params: params, Body: body}
}

func (p *Parser) parseEmptyParamLambda() ast.Expr {
	start := p.cur().Span
	p.advance() // '||'
	body := p.parseExpression(ASSIGN)
	return &ast.Lambda{Base: ast.NewBase(p.span(start), nil), Body: body}
}

func (p *Parser) parseParam() ast.Param {
	name := p.cur().Literal
	p.expect(token.IDENT)
	var ty ast.Type
	if p.curIs(token.COLON) {
		p.advance()
		ty = p.parseType()
	}
	var def ast.Expr
	if p.curIs(token.ASSIGN) {
		p.advance()
		def = p.parseExpression(ASSIGN)
	}
	return ast.Param{Name: name, Type: ty, Default: def}
}

// ---- Unary/binary/logical/compare/range/pipeline/assignment ----

var unaryOps = map[token.Kind]ast.UnaryOp{
	token.MINUS: ast.UnaryNeg,
	token.BANG:  ast.UnaryNot,
	token.TILDE: ast.UnaryBitNot,
}

func (p *Parser) parseUnaryExpr() ast.Expr {
	start := p.cur().Span
	op := unaryOps[p.cur().Kind]
	p.advance()
	operand := p.parseExpression(UNARY)
	return &ast.Unary{Base: ast.NewBase(p.span(start), nil), Op: op, Operand: operand}
}

var binaryOps = map[token.Kind]ast.BinaryOp{
	token.PLUS: ast.BinAdd, token.MINUS: ast.BinSub, token.STAR: ast.BinMul,
	token.SLASH: ast.BinDiv, token.PERCENT: ast.BinMod, token.STARSTAR: ast.BinPow,
	token.AMP: ast.BinBitAnd, token.PIPE: ast.BinBitOr, token.CARET: ast.BinBitXor,
	token.SHL: ast.BinShl, token.SHR: ast.BinShr,
}

func (p *Parser) parseBinary(left ast.Expr) ast.Expr {
	start := left.Span()
	op := binaryOps[p.cur().Kind]
	prec := precedences[p.cur().Kind]
	p.advance()
	right := p.parseExpression(prec)
	return &ast.Binary{Base: ast.NewBase(p.span(start), nil), Op: op, Left: left, Right: right}
}

// parseBinaryRightAssoc handles `**`, which binds right-to-left
// (`2 ** 3 ** 2 == 2 ** (3 ** 2)`).
func (p *Parser) parseBinaryRightAssoc(left ast.Expr) ast.Expr {
	start := left.Span()
	op := binaryOps[p.cur().Kind]
	p.advance()
	right := p.parseExpression(POWER - 1)
	return &ast.Binary{Base: ast.NewBase(p.span(start), nil), Op: op, Left: left, Right: right}
}

func (p *Parser) parseLogical(left ast.Expr) ast.Expr {
	start := left.Span()
	op := ast.LogAnd
	if p.curIs(token.OR_OR) {
		op = ast.LogOr
	}
	prec := precedences[p.cur().Kind]
	p.advance()
	right := p.parseExpression(prec)
	return &ast.Logical{Base: ast.NewBase(p.span(start), nil), Op: op, Left: left, Right: right}
}

var compareOps = map[token.Kind]ast.CompareOp{
	token.EQ: ast.CmpEq, token.NEQ: ast.CmpNeq, token.LT: ast.CmpLt,
	token.GT: ast.CmpGt, token.LE: ast.CmpLe, token.GE: ast.CmpGe,
}

func (p *Parser) parseCompare(left ast.Expr) ast.Expr {
	start := left.Span()
	op := compareOps[p.cur().Kind]
	prec := precedences[p.cur().Kind]
	p.advance()
	right := p.parseExpression(prec)
	return &ast.Compare{Base: ast.NewBase(p.span(start), nil), Op: op, Left: left, Right: right}
}

// rangeTerminators are tokens that can legally follow a range expression
// with no upper bound (`a..`, `..`, used in slicing contexts).
var rangeTerminators = map[token.Kind]bool{
	token.RBRACKET: true, token.RPAREN: true, token.RBRACE: true,
	token.COMMA: true, token.SEMI: true, token.EOF: true, token.COLON: true,
}

func (p *Parser) canStartExpr() bool {
	return p.prefixFns[p.cur().Kind] != nil && !rangeTerminators[p.cur().Kind]
}

func (p *Parser) parseRange(left ast.Expr) ast.Expr {
	start := left.Span()
	inclusive := p.curIs(token.DOTDOTEQ)
	p.advance()
	var end ast.Expr
	if p.canStartExpr() {
		end = p.parseExpression(RANGE)
	}
	return &ast.Range{Base: ast.NewBase(p.span(start), nil), Start: left, End: end, Inclusive: inclusive}
}

// parseOpenRange handles a range with no start bound (`..b`, `..`).
func (p *Parser) parseOpenRange() ast.Expr {
	start := p.cur().Span
	inclusive := p.curIs(token.DOTDOTEQ)
	p.advance()
	var end ast.Expr
	if p.canStartExpr() {
		end = p.parseExpression(RANGE)
	}
	return &ast.Range{Base: ast.NewBase(p.span(start), nil), End: end, Inclusive: inclusive}
}

func (p *Parser) parsePipeline(left ast.Expr) ast.Expr {
	start := left.Span()
	p.advance()
	right := p.parseExpression(PIPELINE)
	return &ast.Pipeline{Base: ast.NewBase(p.span(start), nil), Left: left, Right: right}
}

var assignOps = map[token.Kind]ast.AssignOp{
	token.ASSIGN: ast.AssignPlain, token.PLUS_EQ: ast.AssignAdd,
	token.MINUS_EQ: ast.AssignSub, token.STAR_EQ: ast.AssignMul, token.SLASH_EQ: ast.AssignDiv,
}

// parseAssignment is right-associative: `a = b = c` parses as `a = (b = c)`.
func (p *Parser) parseAssignment(left ast.Expr) ast.Expr {
	start := left.Span()
	op := assignOps[p.cur().Kind]
	p.advance()
	value := p.parseExpression(ASSIGN - 1)
	return &ast.Assignment{Base: ast.NewBase(p.span(start), nil), Op: op, Target: left, Value: value}
}

// ---- Postfix: call, index, field/method access ----

func (p *Parser) parseCall(callee ast.Expr) ast.Expr {
	start := callee.Span()
	p.advance() // '('
	var args []ast.Expr
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		args = append(args, p.parseExpression(ASSIGN))
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RPAREN)
	return &ast.Call{Base: ast.NewBase(p.span(start), nil), Callee: callee, Args: args}
}

func (p *Parser) parseIndex(target ast.Expr) ast.Expr {
	start := target.Span()
	p.advance() // '['
	idx := p.parseExpression(LOWEST)
	p.expect(token.RBRACKET)
	return &ast.IndexAccess{Base: ast.NewBase(p.span(start), nil), Target: target, Index: idx}
}

func (p *Parser) parseFieldOrMethod(target ast.Expr) ast.Expr {
	start := target.Span()
	p.advance() // '.'
	if p.curIs(token.AWAIT) {
		p.advance()
		return &ast.Await{Base: ast.NewBase(p.span(start), nil), Value: target}
	}
	// field/method names are not restricted to IDENT so that keywords like
	// `send`/`ask` read naturally as method calls (`actor.send(msg)`).
	name := p.cur().Literal
	p.advance()
	if !p.curIs(token.LPAREN) {
		return &ast.FieldAccess{Base: ast.NewBase(p.span(start), nil), Target: target, Field: name}
	}
	p.advance() // '('
	var args []ast.Expr
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		args = append(args, p.parseExpression(ASSIGN))
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RPAREN)
	switch name {
	case "send":
		if len(args) == 1 {
			return &ast.Send{Base: ast.NewBase(p.span(start), nil), Target: target, Message: args[0]}
		}
	case "ask":
		if len(args) == 1 {
			return &ast.Ask{Base: ast.NewBase(p.span(start), nil), Target: target, Message: args[0]}
		}
	}
	return &ast.MethodCall{Base: ast.NewBase(p.span(start), nil), Target: target, Method: name, Args: args}
}
