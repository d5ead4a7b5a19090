// Package parser implements Vela's parser: Pratt precedence climbing for
// expressions, recursive descent for declarations, translating a token
// stream into a single uniform ast.Expr tree.
//
// Key patterns, inherited from the teacher's parser architecture:
//   - TokenCursor: immutable lookahead/backtracking cursor (cursor.go)
//   - Error recovery: synchronize() + error nodes, never a panic
//   - Structured errors: ParserError with a stable Code for tooling
package parser

import (
	"fmt"

	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/lexer"
	"github.com/velalang/vela/internal/token"
)

// Precedence levels, lowest to highest, matching spec's operator table:
// assignment(right) < pipeline(left) < range < logical-or < logical-and <
// equality < comparison < bitwise-or < bitwise-xor < bitwise-and < shift <
// additive < multiplicative < unary < power(right) < postfix.
const (
	_ int = iota
	LOWEST
	ASSIGN
	PIPELINE
	RANGE
	LOGICAL_OR
	LOGICAL_AND
	EQUALITY
	COMPARISON
	BIT_OR
	BIT_XOR
	BIT_AND
	SHIFT
	ADDITIVE
	MULTIPLICATIVE
	UNARY
	POWER
	POSTFIX
)

var precedences = map[token.Kind]int{
	token.ASSIGN:     ASSIGN,
	token.PLUS_EQ:    ASSIGN,
	token.MINUS_EQ:   ASSIGN,
	token.STAR_EQ:    ASSIGN,
	token.SLASH_EQ:   ASSIGN,
	token.PIPELINE:   PIPELINE,
	token.DOTDOT:     RANGE,
	token.DOTDOTEQ:   RANGE,
	token.OR_OR:      LOGICAL_OR,
	token.AND_AND:    LOGICAL_AND,
	token.EQ:         EQUALITY,
	token.NEQ:        EQUALITY,
	token.LT:         COMPARISON,
	token.GT:         COMPARISON,
	token.LE:         COMPARISON,
	token.GE:         COMPARISON,
	token.PIPE:       BIT_OR,
	token.CARET:      BIT_XOR,
	token.AMP:        BIT_AND,
	token.SHL:        SHIFT,
	token.SHR:        SHIFT,
	token.PLUS:       ADDITIVE,
	token.MINUS:      ADDITIVE,
	token.STAR:       MULTIPLICATIVE,
	token.SLASH:      MULTIPLICATIVE,
	token.PERCENT:    MULTIPLICATIVE,
	token.STARSTAR:   POWER,
	token.LPAREN:     POSTFIX,
	token.LBRACKET:   POSTFIX,
	token.DOT:        POSTFIX,
	token.QUESTION:   POSTFIX,
	token.COLONCOLON: POSTFIX,
	token.BANG:       POSTFIX,
}

type prefixParseFn func() ast.Expr
type infixParseFn func(left ast.Expr) ast.Expr

// Parser translates a token stream into ast.Expr trees, accumulating
// ParserErrors instead of panicking (spec §4.2's totality contract).
type Parser struct {
	cursor *TokenCursor
	errors []*ParserError

	prefixFns map[token.Kind]prefixParseFn
	infixFns  map[token.Kind]infixParseFn
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{cursor: NewTokenCursor(l)}
	p.prefixFns = make(map[token.Kind]prefixParseFn)
	p.infixFns = make(map[token.Kind]infixParseFn)
	p.registerExpressionParsers()
	return p
}

func (p *Parser) Errors() []*ParserError { return p.errors }

func (p *Parser) cur() token.Token  { return p.cursor.Current() }
func (p *Parser) peek() token.Token { return p.cursor.Peek(1) }

func (p *Parser) advance() { p.cursor = p.cursor.Advance() }

func (p *Parser) curIs(k token.Kind) bool  { return p.cursor.Is(k) }
func (p *Parser) peekIs(k token.Kind) bool { return p.cursor.PeekIs(1, k) }

func (p *Parser) addError(msg string, code string) {
	p.errors = append(p.errors, NewParserError(p.cur().Span.Pos, msg, code))
}

// expect advances past the current token if it matches k; otherwise records
// an error and leaves the cursor in place.
func (p *Parser) expect(k token.Kind) bool {
	if p.curIs(k) {
		p.advance()
		return true
	}
	p.addError(fmt.Sprintf("expected %s, got %s", k, p.cur().Kind), ErrUnexpectedToken)
	return false
}

func (p *Parser) span(start token.Span) token.Span {
	end := p.cursor.Current().Span
	return token.Span{Start: start.Start, End: end.Start, Pos: start.Pos}
}

// synchronizeTokens are the statement/item starters and block closers safe
// to resume parsing from after a syntax error.
var synchronizeTokens = map[token.Kind]bool{
	token.LET: true, token.VAR: true, token.CONST: true, token.STATIC: true,
	token.FN: true, token.STRUCT: true, token.ENUM: true, token.TRAIT: true,
	token.IMPL: true, token.IF: true, token.WHILE: true, token.FOR: true,
	token.LOOP: true, token.MATCH: true, token.RETURN: true, token.BREAK: true,
	token.CONTINUE: true, token.THROW: true, token.TRY: true, token.MOD: true,
	token.IMPORT: true, token.USE: true, token.EXPORT: true, token.PUB: true,
	token.RBRACE: true, token.SEMI: true, token.EOF: true,
}

func (p *Parser) synchronize() {
	for !p.curIs(token.EOF) {
		if synchronizeTokens[p.cur().Kind] {
			return
		}
		p.advance()
	}
}

// Parse consumes the entire token stream and returns the program as a
// Block whose Exprs are the top-level items/expressions. It never panics;
// syntax errors become ast.ErrorNode entries and are also recorded in
// Errors().
func Parse(src string) (*ast.Block, []*ParserError) {
	p := New(lexer.New(src))
	return p.ParseProgram(), p.Errors()
}

func (p *Parser) ParseProgram() *ast.Block {
	start := p.cur().Span
	var exprs []ast.Expr
	for !p.curIs(token.EOF) {
		if p.curIs(token.SEMI) {
			p.advance()
			continue
		}
		e := p.parseTopLevel()
		if e != nil {
			exprs = append(exprs, e)
		}
		if p.curIs(token.SEMI) {
			p.advance()
		}
	}
	return &ast.Block{Exprs: exprs, Base: ast.NewBase(p.span(start), nil)}
}

// parseTopLevel parses one item or expression at module scope, recovering
// to a synchronizing token on error so one bad declaration doesn't abort
// the whole parse.
func (p *Parser) parseTopLevel() ast.Expr {
	before := p.cursor.Mark()
	errCountBefore := len(p.errors)
	e := p.parseExprStatement()
	if len(p.errors) > errCountBefore && e == nil {
		_ = before
		errSpan := p.cur().Span
		p.synchronize()
		return &ast.ErrorNode{Message: "failed to parse top-level item", Base: ast.NewBase(errSpan, nil)}
	}
	return e
}

// parseExprStatement parses one expression, including attributes and
// pub-visibility modifiers that may prefix an item declaration.
func (p *Parser) parseExprStatement() ast.Expr {
	attrs := p.parseAttributes()
	e := p.parseDeclOrExpr()
	if e == nil {
		return nil
	}
	if ae, ok := e.(interface{ AddAttr(ast.Attribute) }); ok {
		for _, a := range attrs {
			ae.AddAttr(a)
		}
	}
	return e
}

// parseAttributes consumes any number of leading `#[...]` or `@name`
// attributes, legal at top level, in blocks, before items, and on enum
// variants per spec §4.2.
func (p *Parser) parseAttributes() []ast.Attribute {
	var attrs []ast.Attribute
	for p.curIs(token.ATTR_START) || p.curIs(token.AT) {
		if p.curIs(token.ATTR_START) {
			p.advance()
			name := p.cur().Literal
			p.expect(token.IDENT)
			var args []string
			if p.curIs(token.LPAREN) {
				p.advance()
				for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
					args = append(args, p.cur().Literal)
					p.advance()
					if p.curIs(token.COMMA) {
						p.advance()
					}
				}
				p.expect(token.RPAREN)
			}
			p.expect(token.RBRACKET)
			attrs = append(attrs, ast.Attribute{Name: name, Args: args})
		} else {
			p.advance() // '@'
			name := p.cur().Literal
			p.expect(token.IDENT)
			attrs = append(attrs, ast.Attribute{Name: name})
		}
	}
	return attrs
}

// parseDeclOrExpr dispatches to the recursive-descent declaration parsers
// or falls through to Pratt expression parsing.
func (p *Parser) parseDeclOrExpr() ast.Expr {
	isPub := false
	if p.curIs(token.PUB) {
		isPub = true
		p.advance()
		if p.curIs(token.LPAREN) {
			// pub(crate|super|in path) visibility qualifier: parsed, not
			// represented distinctly from plain `pub` in this AST.
			p.advance()
			for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
				p.advance()
			}
			p.expect(token.RPAREN)
		}
	}

	isAsync := false
	if p.curIs(token.ASYNC) && p.peekIs(token.FN) {
		isAsync = true
		p.advance()
	}

	switch p.cur().Kind {
	case token.FN:
		return p.parseFunction(isPub, isAsync)
	case token.STRUCT:
		return p.parseStruct(isPub)
	case token.ENUM:
		return p.parseEnum(isPub)
	case token.TRAIT:
		return p.parseTrait(isPub)
	case token.IMPL:
		return p.parseImpl()
	case token.TYPE:
		return p.parseTypeAlias()
	case token.MOD:
		return p.parseModule(isPub)
	case token.IMPORT:
		return p.parseImport()
	case token.USE:
		return p.parseUse()
	case token.EXPORT:
		return p.parseExport()
	case token.LET:
		return p.parseLet()
	case token.VAR:
		return p.parseVar()
	case token.CONST:
		return p.parseConst()
	case token.STATIC:
		return p.parseStatic()
	default:
		return p.parseExpression(LOWEST)
	}
}
