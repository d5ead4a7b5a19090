package parser

import (
	"fmt"

	"github.com/velalang/vela/internal/token"
)

// ParserError is a structured parse failure with position information,
// accumulated rather than raised so a single pass can report every
// syntax error it finds.
type ParserError struct {
	Message string
	Code    string
	Pos     token.Position
}

func (e *ParserError) Error() string {
	return fmt.Sprintf("%s at %s", e.Message, e.Pos)
}

func NewParserError(pos token.Position, message, code string) *ParserError {
	return &ParserError{Message: message, Pos: pos, Code: code}
}

// Error code constants for programmatic handling by callers (LSP-style
// tooling, test assertions) that need more than the message string.
const (
	ErrUnexpectedToken   = "E_UNEXPECTED_TOKEN"
	ErrNoPrefixParse     = "E_NO_PREFIX_PARSE"
	ErrInvalidExpression = "E_INVALID_EXPRESSION"
	ErrExpectedIdent     = "E_EXPECTED_IDENT"
	ErrExpectedType      = "E_EXPECTED_TYPE"
	ErrInvalidPattern    = "E_INVALID_PATTERN"
	ErrMissingToken      = "E_MISSING_TOKEN"
)
