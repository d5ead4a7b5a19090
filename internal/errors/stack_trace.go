package errors

import (
	"fmt"
	"strings"

	"github.com/velalang/vela/internal/token"
)

// StackFrame is a single call-stack frame: the function executing and
// where it was entered.
type StackFrame struct {
	Pos          *token.Position
	FunctionName string
	FileName     string
}

func (sf StackFrame) String() string {
	if sf.Pos == nil {
		return sf.FunctionName
	}
	return fmt.Sprintf("%s [%d:%d]", sf.FunctionName, sf.Pos.Line, sf.Pos.Column)
}

// StackTrace is a call stack, oldest frame first.
type StackTrace []StackFrame

// String renders the trace newest-frame-first, the usual debugger order.
func (st StackTrace) String() string {
	if len(st) == 0 {
		return ""
	}
	var sb strings.Builder
	for i := len(st) - 1; i >= 0; i-- {
		sb.WriteString("  at ")
		sb.WriteString(st[i].String())
		if i > 0 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (st StackTrace) Top() *StackFrame {
	if len(st) == 0 {
		return nil
	}
	return &st[len(st)-1]
}

func (st StackTrace) Depth() int { return len(st) }

func NewStackFrame(functionName, fileName string, pos *token.Position) StackFrame {
	return StackFrame{FunctionName: functionName, FileName: fileName, Pos: pos}
}
