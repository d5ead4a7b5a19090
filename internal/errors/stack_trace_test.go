package errors

import (
	"strings"
	"testing"

	"github.com/velalang/vela/internal/token"
)

func TestStackFrame_String(t *testing.T) {
	tests := []struct {
		name     string
		frame    StackFrame
		expected string
	}{
		{
			name: "frame with position",
			frame: StackFrame{
				FunctionName: "myFunction",
				FileName:     "test.vela",
				Pos:          &token.Position{Line: 10, Column: 5},
			},
			expected: "myFunction [10:5]",
		},
		{
			name: "frame without position",
			frame: StackFrame{
				FunctionName: "myFunction",
				FileName:     "test.vela",
				Pos:          nil,
			},
			expected: "myFunction",
		},
		{
			name: "frame with method name",
			frame: StackFrame{
				FunctionName: "Shape.area",
				FileName:     "test.vela",
				Pos:          &token.Position{Line: 42, Column: 15},
			},
			expected: "Shape.area [42:15]",
		},
		{
			name: "frame with lambda",
			frame: StackFrame{
				FunctionName: "<lambda>",
				FileName:     "",
				Pos:          &token.Position{Line: 7, Column: 1},
			},
			expected: "<lambda> [7:1]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := tt.frame.String(); result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestStackTrace_String(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		trace    StackTrace
	}{
		{
			name:     "empty stack trace",
			trace:    StackTrace{},
			expected: "",
		},
		{
			name: "single frame",
			trace: StackTrace{
				{FunctionName: "main", Pos: &token.Position{Line: 1, Column: 1}},
			},
			expected: "  at main [1:1]",
		},
		{
			name: "multiple frames, newest first",
			trace: StackTrace{
				{FunctionName: "main", Pos: &token.Position{Line: 20, Column: 1}},
				{FunctionName: "foo", Pos: &token.Position{Line: 15, Column: 5}},
				{FunctionName: "bar", Pos: &token.Position{Line: 10, Column: 3}},
			},
			expected: "  at bar [10:3]\n  at foo [15:5]\n  at main [20:1]",
		},
		{
			name: "frames with and without position",
			trace: StackTrace{
				{FunctionName: "main", Pos: &token.Position{Line: 20, Column: 1}},
				{FunctionName: "foo", Pos: nil},
			},
			expected: "  at foo\n  at main [20:1]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := tt.trace.String(); result != tt.expected {
				t.Errorf("expected:\n%s\ngot:\n%s", tt.expected, result)
			}
		})
	}
}

func TestStackTrace_Top(t *testing.T) {
	tests := []struct {
		expected *string
		name     string
		trace    StackTrace
	}{
		{
			name:     "empty stack",
			trace:    StackTrace{},
			expected: nil,
		},
		{
			name: "single frame",
			trace: StackTrace{
				{FunctionName: "main", Pos: &token.Position{Line: 1, Column: 1}},
			},
			expected: stringPtr("main"),
		},
		{
			name: "multiple frames — top is the most recently pushed",
			trace: StackTrace{
				{FunctionName: "main", Pos: &token.Position{Line: 20, Column: 1}},
				{FunctionName: "foo", Pos: &token.Position{Line: 15, Column: 5}},
				{FunctionName: "bar", Pos: &token.Position{Line: 10, Column: 3}},
			},
			expected: stringPtr("bar"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			top := tt.trace.Top()
			if tt.expected == nil {
				if top != nil {
					t.Errorf("expected nil, got %v", top)
				}
				return
			}
			if top == nil {
				t.Errorf("expected %q, got nil", *tt.expected)
			} else if top.FunctionName != *tt.expected {
				t.Errorf("expected %q, got %q", *tt.expected, top.FunctionName)
			}
		})
	}
}

func TestStackTrace_Depth(t *testing.T) {
	tests := []struct {
		name     string
		trace    StackTrace
		expected int
	}{
		{name: "empty stack", trace: StackTrace{}, expected: 0},
		{name: "single frame", trace: StackTrace{{FunctionName: "main"}}, expected: 1},
		{
			name:     "multiple frames",
			trace:    StackTrace{{FunctionName: "main"}, {FunctionName: "foo"}, {FunctionName: "bar"}},
			expected: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if depth := tt.trace.Depth(); depth != tt.expected {
				t.Errorf("expected depth %d, got %d", tt.expected, depth)
			}
		})
	}
}

func TestNewStackFrame(t *testing.T) {
	pos := &token.Position{Line: 42, Column: 13}
	frame := NewStackFrame("testFunc", "test.vela", pos)

	if frame.FunctionName != "testFunc" {
		t.Errorf("expected FunctionName 'testFunc', got %q", frame.FunctionName)
	}
	if frame.FileName != "test.vela" {
		t.Errorf("expected FileName 'test.vela', got %q", frame.FileName)
	}
	if frame.Pos != pos {
		t.Errorf("expected position %v, got %v", pos, frame.Pos)
	}
}

func TestStackTrace_RealWorldScenario(t *testing.T) {
	// main -> processData -> validateInput
	trace := StackTrace{
		{FunctionName: "main", FileName: "main.vela", Pos: &token.Position{Line: 50, Column: 1}},
		{FunctionName: "processData", FileName: "main.vela", Pos: &token.Position{Line: 30, Column: 5}},
		{FunctionName: "validateInput", FileName: "main.vela", Pos: &token.Position{Line: 10, Column: 3}},
	}

	expected := "  at validateInput [10:3]\n  at processData [30:5]\n  at main [50:1]"
	if result := trace.String(); result != expected {
		t.Errorf("stack trace string doesn't match.\nexpected:\n%s\ngot:\n%s", expected, result)
	}

	if trace.Depth() != 3 {
		t.Errorf("expected depth 3, got %d", trace.Depth())
	}

	top := trace.Top()
	if top == nil || top.FunctionName != "validateInput" {
		t.Errorf("expected top to be validateInput, got %v", top)
	}
}

func TestStackTrace_StringIsIndented(t *testing.T) {
	trace := StackTrace{
		{FunctionName: "callsABomb", Pos: &token.Position{Line: 8, Column: 4}},
		{FunctionName: "thisOneBombs", Pos: &token.Position{Line: 3, Column: 20}},
	}

	lines := strings.Split(trace.String(), "\n")
	if lines[0] != "  at thisOneBombs [3:20]" {
		t.Errorf("first line doesn't match expected format: %q", lines[0])
	}
	if lines[1] != "  at callsABomb [8:4]" {
		t.Errorf("second line doesn't match expected format: %q", lines[1])
	}
}

func stringPtr(s string) *string { return &s }
