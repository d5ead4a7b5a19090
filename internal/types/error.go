package types

import (
	"fmt"

	"github.com/velalang/vela/internal/token"
)

// InferError is a type-checking diagnostic, shaped like the parser's
// ParserError so downstream tooling (CLI, LSP-style diagnostics) can
// treat lexer/parser/type errors uniformly.
type InferError struct {
	Message string
	Pos     token.Position
}

func (e *InferError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}
