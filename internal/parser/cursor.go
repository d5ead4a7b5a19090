package parser

import (
	"github.com/velalang/vela/internal/lexer"
	"github.com/velalang/vela/internal/token"
)

// TokenCursor is an immutable cursor over a lexer's token stream: every
// navigation operation returns a new cursor rather than mutating the
// receiver, so speculative parses (generic-vs-comparison disambiguation,
// pattern lookahead) can snapshot a Mark and rewind without special-casing
// error state.
type TokenCursor struct {
	l       *lexer.Lexer
	tokens  []token.Token
	index   int
	current token.Token
}

// NewTokenCursor starts a cursor at the first token of l's stream.
func NewTokenCursor(l *lexer.Lexer) *TokenCursor {
	first := l.NextToken()
	toks := make([]token.Token, 1, 32)
	toks[0] = first
	return &TokenCursor{l: l, tokens: toks, index: 0, current: first}
}

func (c *TokenCursor) Current() token.Token { return c.current }

// fill ensures tokens[0..idx] are buffered, pulling ordinary tokens from
// the lexer as needed. It never resumes f-string fragment scanning; that
// happens only through AdvanceFString.
func (c *TokenCursor) fill(idx int) {
	for idx >= len(c.tokens) {
		last := c.tokens[len(c.tokens)-1]
		if last.Kind == token.EOF {
			return
		}
		var next token.Token
		if last.Kind == token.FSTRING_MID || last.Kind == token.FSTRING_BEGIN {
			// the parser is responsible for calling ContinueFString once it
			// has consumed the interpolated expression and its closing '}';
			// plain lookahead just keeps pulling ordinary tokens in between.
			next = c.l.NextToken()
		} else {
			next = c.l.NextToken()
		}
		c.tokens = append(c.tokens, next)
	}
}

// Peek returns the token n positions ahead of Current (Peek(0) == Current()).
func (c *TokenCursor) Peek(n int) token.Token {
	if n < 0 {
		return c.current
	}
	idx := c.index + n
	c.fill(idx)
	if idx < len(c.tokens) {
		return c.tokens[idx]
	}
	return c.tokens[len(c.tokens)-1]
}

// Advance returns a cursor positioned one token ahead.
func (c *TokenCursor) Advance() *TokenCursor { return c.AdvanceN(1) }

func (c *TokenCursor) AdvanceN(n int) *TokenCursor {
	if n <= 0 {
		return c
	}
	c.fill(c.index + n)
	newIdx := c.index + n
	if newIdx >= len(c.tokens) {
		newIdx = len(c.tokens) - 1
	}
	return &TokenCursor{l: c.l, tokens: c.tokens, index: newIdx, current: c.tokens[newIdx]}
}

// AdvanceFString replaces the cursor's current token with the result of
// resuming f-string fragment scanning; used right after the parser consumes
// the '}' that closes an interpolated expression inside an f-string.
func (c *TokenCursor) AdvanceFString() *TokenCursor {
	next := c.l.ContinueFString()
	toks := append(append([]token.Token{}, c.tokens[:c.index+1]...), next)
	return &TokenCursor{l: c.l, tokens: toks, index: c.index + 1, current: next}
}

func (c *TokenCursor) Is(k token.Kind) bool { return c.current.Kind == k }

func (c *TokenCursor) PeekIs(n int, k token.Kind) bool { return c.Peek(n).Kind == k }

func (c *TokenCursor) IsEOF() bool { return c.current.Kind == token.EOF }

// Mark is a lightweight saved cursor position for backtracking.
type Mark struct{ index int }

func (c *TokenCursor) Mark() Mark { return Mark{index: c.index} }

func (c *TokenCursor) ResetTo(m Mark) *TokenCursor {
	if m.index < 0 || m.index >= len(c.tokens) {
		return c
	}
	return &TokenCursor{l: c.l, tokens: c.tokens, index: m.index, current: c.tokens[m.index]}
}
