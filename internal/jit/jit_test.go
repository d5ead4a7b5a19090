package jit

import (
	"testing"

	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/interp"
	"github.com/velalang/vela/internal/parser"
)

func parseFunctions(t *testing.T, src string) []*ast.Function {
	t.Helper()
	block, errs := parser.Parse(src)
	if len(errs) != 0 {
		t.Fatalf("parse error: %v", errs[0])
	}
	var fns []*ast.Function
	for _, e := range block.Exprs {
		if fn, ok := e.(*ast.Function); ok {
			fns = append(fns, fn)
		}
	}
	return fns
}

func compileEntry(t *testing.T, src, entry string) *Compiled {
	t.Helper()
	fns := parseFunctions(t, src)
	funcs, err := CompileProgram(fns)
	if err != nil {
		t.Fatalf("compile: %s", err)
	}
	return funcs[entry]
}

func intVal(t *testing.T, v interp.Value) int64 {
	t.Helper()
	iv, ok := v.(*interp.IntegerValue)
	if !ok {
		t.Fatalf("expected Int, got %T (%v)", v, v)
	}
	return iv.Value
}

func TestJITArithmetic(t *testing.T) {
	c := compileEntry(t, `fn add(a: Int, b: Int) -> Int { a + b * 2 }`, "add")
	v, err := c.Call([]interp.Value{&interp.IntegerValue{Value: 3}, &interp.IntegerValue{Value: 4}})
	if err != nil {
		t.Fatalf("call: %s", err)
	}
	if got := intVal(t, v); got != 11 {
		t.Fatalf("add(3,4): got %d, want 11", got)
	}
}

func TestJITRecursiveFib(t *testing.T) {
	src := `fn fib(n: Int) -> Int {
		if n < 2 { n } else { fib(n - 1) + fib(n - 2) }
	}`
	c := compileEntry(t, src, "fib")
	v, err := c.Call([]interp.Value{&interp.IntegerValue{Value: 10}})
	if err != nil {
		t.Fatalf("call: %s", err)
	}
	if got := intVal(t, v); got != 55 {
		t.Fatalf("fib(10): got %d, want 55", got)
	}
}

func TestJITSelfRecursionGCD(t *testing.T) {
	src := `fn gcd(a: Int, b: Int) -> Int {
		if b == 0 { a } else { gcd(b, a % b) }
	}`
	c := compileEntry(t, src, "gcd")
	v, err := c.Call([]interp.Value{&interp.IntegerValue{Value: 48}, &interp.IntegerValue{Value: 18}})
	if err != nil {
		t.Fatalf("call: %s", err)
	}
	if got := intVal(t, v); got != 6 {
		t.Fatalf("gcd(48,18): got %d, want 6", got)
	}
}

func TestJITWhileLoopAndMutation(t *testing.T) {
	src := `fn sumTo(n: Int) -> Int {
		let mut total = 0
		let mut i = 0
		while i < n {
			total += i
			i += 1
		}
		total
	}`
	c := compileEntry(t, src, "sumTo")
	v, err := c.Call([]interp.Value{&interp.IntegerValue{Value: 5}})
	if err != nil {
		t.Fatalf("call: %s", err)
	}
	if got := intVal(t, v); got != 10 {
		t.Fatalf("sumTo(5): got %d, want 10", got)
	}
}

func TestJITForRangeBreakContinue(t *testing.T) {
	src := `fn oddSumUnderTen() -> Int {
		let mut total = 0
		for i in 0..100 {
			if i >= 10 {
				break
			}
			if i % 2 == 0 {
				continue
			}
			total += i
		}
		total
	}`
	c := compileEntry(t, src, "oddSumUnderTen")
	v, err := c.Call(nil)
	if err != nil {
		t.Fatalf("call: %s", err)
	}
	if got := intVal(t, v); got != 25 {
		t.Fatalf("oddSumUnderTen(): got %d, want 25", got)
	}
}

func TestJITTuple(t *testing.T) {
	src := `fn pair() -> (Int, Int) { (1, 2) }`
	c := compileEntry(t, src, "pair")
	v, err := c.Call(nil)
	if err != nil {
		t.Fatalf("call: %s", err)
	}
	tv, ok := v.(*interp.TupleValue)
	if !ok || len(tv.Elements) != 2 {
		t.Fatalf("pair(): got %v, want a 2-tuple", v)
	}
	if got := intVal(t, tv.Elements[0]); got != 1 {
		t.Fatalf("pair().0: got %d, want 1", got)
	}
}

func TestJITMatchInt(t *testing.T) {
	src := `fn classify(n: Int) -> Int {
		match n {
			0 => 100,
			1 => 200,
			_ => -1,
		}
	}`
	c := compileEntry(t, src, "classify")
	v, err := c.Call([]interp.Value{&interp.IntegerValue{Value: 1}})
	if err != nil {
		t.Fatalf("call: %s", err)
	}
	if got := intVal(t, v); got != 200 {
		t.Fatalf("classify(1): got %d, want 200", got)
	}
}

func TestCompileRejectsUnsupportedConstruct(t *testing.T) {
	src := `fn makesList() -> Int {
		let xs = [1, 2, 3]
		0
	}`
	fns := parseFunctions(t, src)
	_, err := CompileProgram(fns)
	if err == nil {
		t.Fatalf("expected list literal construction to be unsupported")
	}
	if _, ok := err.(*UnsupportedError); !ok {
		t.Fatalf("expected *UnsupportedError, got %T: %s", err, err)
	}
}
