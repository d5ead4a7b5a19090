// Package errors formats Vela diagnostics with source context, line/column
// information, and caret indicators, shared across the lexer, parser,
// type-inference, interpreter, VM, and JIT stages.
package errors

import (
	"fmt"
	"strings"

	"github.com/velalang/vela/internal/token"
)

// Kind classifies which pipeline stage raised a CompilerError.
type Kind int

const (
	Syntax Kind = iota
	Type
	Runtime
	Internal
)

func (k Kind) String() string {
	switch k {
	case Syntax:
		return "syntax error"
	case Type:
		return "type error"
	case Runtime:
		return "runtime error"
	case Internal:
		return "internal error"
	default:
		return "error"
	}
}

// CompilerError is a single diagnostic with position and source context,
// the uniform shape every pipeline stage (lexer, parser, inference,
// interpreter, VM, JIT) reports through rather than bare fmt.Errorf strings.
type CompilerError struct {
	Kind       Kind
	Message    string
	Source     string
	File       string
	Pos        token.Position
	StackTrace StackTrace // only populated for Runtime errors
}

func NewCompilerError(kind Kind, pos token.Position, message, source, file string) *CompilerError {
	return &CompilerError{Kind: kind, Pos: pos, Message: message, Source: source, File: file}
}

func (e *CompilerError) Error() string { return e.Format(false) }

// Format renders the error message with a source-line snippet and a caret
// pointing at the offending column. If color is true, ANSI codes highlight
// the caret and message for terminal output.
func (e *CompilerError) Format(color bool) string {
	var sb strings.Builder

	if e.File != "" {
		fmt.Fprintf(&sb, "%s in %s:%d:%d\n", e.Kind, e.File, e.Pos.Line, e.Pos.Column)
	} else {
		fmt.Fprintf(&sb, "%s at %d:%d\n", e.Kind, e.Pos.Line, e.Pos.Column)
	}

	if sourceLine := e.getSourceLine(e.Pos.Line); sourceLine != "" {
		lineNumStr := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(sourceLine)
		sb.WriteString("\n")

		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+e.Pos.Column-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m")
	}

	if len(e.StackTrace) > 0 {
		sb.WriteString("\n")
		sb.WriteString(e.StackTrace.String())
	}

	return sb.String()
}

func (e *CompilerError) getSourceLine(lineNum int) string {
	if e.Source == "" {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// NewRuntimeError builds the interpreter/VM/JIT-specific CompilerError shape: a
// Kind-Runtime (or Kind-Internal, for a recovered host panic) error that
// additionally carries the call stack active at the point of failure.
func NewRuntimeError(pos token.Position, message string, trace StackTrace) *CompilerError {
	return &CompilerError{Kind: Runtime, Pos: pos, Message: message, StackTrace: trace}
}

// FormatErrors renders a batch of errors, numbering them when there is more
// than one, matching the accumulate-and-report style used throughout the
// parser and type-inference stages.
func FormatErrors(errs []*CompilerError, color bool) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return errs[0].Format(color)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d error(s):\n\n", len(errs))
	for i, err := range errs {
		fmt.Fprintf(&sb, "[%d/%d] ", i+1, len(errs))
		sb.WriteString(err.Format(color))
		if i < len(errs)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}
