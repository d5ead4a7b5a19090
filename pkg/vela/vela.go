// Package vela is the embeddable host API for running Vela programs from
// Go: construct an Engine, optionally register native Go functions as
// callable builtins, then Eval source text and inspect the Result.
// Grounded on the teacher's pkg/dwscript embed surface (an orphaned test
// file set with no implementation anywhere in the pack — engine.New,
// WithTypeCheck, RegisterFunction, SetOutput, Eval, and a Result with a
// Success flag), rebuilt here against Vela's own lexer/parser/types/interp
// pipeline instead of DWScript's.
package vela

import (
	"bytes"
	"fmt"
	"io"
	"reflect"

	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/errors"
	"github.com/velalang/vela/internal/interp"
	"github.com/velalang/vela/internal/lexer"
	"github.com/velalang/vela/internal/parser"
	"github.com/velalang/vela/internal/types"
)

var errType = reflect.TypeOf((*error)(nil)).Elem()

// captureWriter is the Writer handed to interp.New: its destination can be
// swapped out (SetOutput) without rebuilding the Interpreter, so functions
// registered before a SetOutput call (the teacher's own FFI test ordering:
// New, RegisterFunction, SetOutput, Eval) aren't lost when output changes.
// It also mirrors every write into buf so Eval can report Result.Output
// without the caller having to supply their own Writer.
type captureWriter struct {
	dest io.Writer
	buf  bytes.Buffer
}

func (w *captureWriter) Write(p []byte) (int, error) {
	w.buf.Write(p)
	if w.dest == nil {
		return len(p), nil
	}
	return w.dest.Write(p)
}

// Engine is a reusable Vela host: one Engine can Eval many scripts,
// sharing registered functions and the global scope between calls, the
// way the teacher's Engine keeps its registered FFI functions alive
// across repeated Eval invocations.
type Engine struct {
	interp    *interp.Interpreter
	out       *captureWriter
	typeCheck bool
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithTypeCheck toggles running internal/types.Infer before evaluation.
// Disabling it (as the teacher's FFI tests do for simple scripts) skips
// straight to the tree-walking interpreter, trading type-error reporting
// for the lowest-overhead Eval path.
func WithTypeCheck(enabled bool) Option {
	return func(e *Engine) { e.typeCheck = enabled }
}

// WithOutput sets the Writer print/println write to at construction time;
// equivalent to calling SetOutput immediately after New.
func WithOutput(w io.Writer) Option {
	return func(e *Engine) { e.out.dest = w }
}

// New constructs an Engine ready to Eval scripts and accept
// RegisterFunction calls.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{out: &captureWriter{}, typeCheck: true}
	for _, opt := range opts {
		opt(e)
	}
	e.interp = interp.New(e.out)
	return e, nil
}

// SetOutput redirects where print/println write, usable mid-session the
// way the teacher's tests call it right before an Eval to capture output.
// It does not rebuild the Interpreter, so functions already registered via
// RegisterFunction remain callable.
func (e *Engine) SetOutput(w io.Writer) {
	e.out.dest = w
}

// Result is the outcome of one Eval call.
type Result struct {
	Success bool
	Value   interp.Value
	Output  string
	Errors  []*errors.CompilerError
}

// Eval parses, optionally type-checks, and runs src, returning the value
// of its last top-level expression. Registered functions and the global
// scope persist across calls on the same Engine.
func (e *Engine) Eval(src string) (*Result, error) {
	block, perrs := parser.Parse(src)
	if len(perrs) > 0 {
		ces := make([]*errors.CompilerError, len(perrs))
		for i, pe := range perrs {
			ces[i] = errors.NewCompilerError(errors.Syntax, pe.Pos, pe.Message, src, "")
		}
		return &Result{Success: false, Errors: ces}, fmt.Errorf("%s", errors.FormatErrors(ces, false))
	}

	if e.typeCheck {
		if _, terrs := types.Infer(block); len(terrs) > 0 {
			ces := make([]*errors.CompilerError, len(terrs))
			for i, te := range terrs {
				ces[i] = errors.NewCompilerError(errors.Type, te.Pos, te.Message, src, "")
			}
			return &Result{Success: false, Errors: ces}, fmt.Errorf("%s", errors.FormatErrors(ces, false))
		}
	}

	e.out.buf.Reset()
	v, runErr := e.interp.Run(block)
	if runErr != nil {
		return &Result{Success: false, Output: e.out.buf.String(), Errors: []*errors.CompilerError{runErr}}, runErr
	}
	return &Result{Success: true, Value: v, Output: e.out.buf.String()}, nil
}

// RegisterFunction exposes a native Go function fn to Vela scripts as a
// callable builtin named name, marshaling Int/Float/String/Bool arguments
// and return values via reflection. fn may optionally return a trailing
// error, which surfaces as a Vela runtime error instead of a panic — the
// same calling convention the teacher's FFI layer offers (TypeSafeMarshaling,
// ErrorReturnsAsExceptions in its ffi_calling_conventions_test.go).
func (e *Engine) RegisterFunction(name string, fn interface{}) error {
	rv := reflect.ValueOf(fn)
	rt := rv.Type()
	if rt.Kind() != reflect.Func {
		return fmt.Errorf("vela: RegisterFunction(%q): not a function", name)
	}

	numOut := rt.NumOut()
	returnsErr := numOut > 0 && rt.Out(numOut-1) == errType
	valueOut := numOut
	if returnsErr {
		valueOut--
	}
	if valueOut > 1 {
		return fmt.Errorf("vela: RegisterFunction(%q): at most one non-error return value is supported", name)
	}

	arity := rt.NumIn()
	e.interp.Globals().Define(name, &interp.BuiltinValue{
		Name: name,
		Args: arity,
		Fn: func(args []interp.Value) (interp.Value, error) {
			if len(args) != arity {
				return nil, fmt.Errorf("%s: expected %d arguments, got %d", name, arity, len(args))
			}
			in := make([]reflect.Value, arity)
			for i, a := range args {
				gv, err := toGoValue(a, rt.In(i))
				if err != nil {
					return nil, fmt.Errorf("%s: argument %d: %s", name, i+1, err)
				}
				in[i] = gv
			}
			out := rv.Call(in)
			if returnsErr {
				if errv := out[numOut-1]; !errv.IsNil() {
					return nil, errv.Interface().(error)
				}
			}
			if valueOut == 0 {
				return interp.Unit, nil
			}
			return toVelaValue(out[0])
		},
	})
	return nil
}

func toGoValue(v interp.Value, want reflect.Type) (reflect.Value, error) {
	switch want.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		iv, ok := v.(*interp.IntegerValue)
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected Int, got %s", v.Type())
		}
		return reflect.ValueOf(iv.Value).Convert(want), nil
	case reflect.Float32, reflect.Float64:
		if fv, ok := v.(*interp.FloatValue); ok {
			return reflect.ValueOf(fv.Value).Convert(want), nil
		}
		if iv, ok := v.(*interp.IntegerValue); ok {
			return reflect.ValueOf(float64(iv.Value)).Convert(want), nil
		}
		return reflect.Value{}, fmt.Errorf("expected Float, got %s", v.Type())
	case reflect.String:
		sv, ok := v.(*interp.StringValue)
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected String, got %s", v.Type())
		}
		return reflect.ValueOf(sv.Value).Convert(want), nil
	case reflect.Bool:
		bv, ok := v.(*interp.BoolValue)
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected Bool, got %s", v.Type())
		}
		return reflect.ValueOf(bv.Value).Convert(want), nil
	}
	return reflect.Value{}, fmt.Errorf("unsupported parameter type %s", want)
}

func toVelaValue(rv reflect.Value) (interp.Value, error) {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &interp.IntegerValue{Value: rv.Int()}, nil
	case reflect.Float32, reflect.Float64:
		return &interp.FloatValue{Value: rv.Float()}, nil
	case reflect.String:
		return &interp.StringValue{Value: rv.String()}, nil
	case reflect.Bool:
		return &interp.BoolValue{Value: rv.Bool()}, nil
	}
	return nil, fmt.Errorf("unsupported return type %s", rv.Type())
}

// Lex exposes the lexer directly, for tooling that wants tokens without a
// full parse (the CLI's `lex` subcommand, a syntax-highlighting client).
func Lex(src string) *lexer.Lexer {
	return lexer.New(src)
}

// Parse exposes the parser directly, for tooling that wants the AST
// without running it (the CLI's `check`/`fmt`/`transpile` subcommands).
func Parse(src string) (*ast.Block, []error) {
	block, perrs := parser.Parse(src)
	errs := make([]error, len(perrs))
	for i, pe := range perrs {
		errs[i] = pe
	}
	return block, errs
}
