package bytecode

import (
	"io"
	"testing"

	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/interp"
	"github.com/velalang/vela/internal/parser"
)

// parseFunctions parses src and returns every top-level *ast.Function,
// the shape CompileProgram expects.
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

func runCompiled(t *testing.T, src, entry string, args ...interp.Value) interp.Value {
	t.Helper()
	fns := parseFunctions(t, src)
	funcs, err := CompileProgram(fns)
	if err != nil {
		t.Fatalf("compile: %s", err)
	}
	i := interp.New(io.Discard)
	vm := New(i, i.Globals())
	v, err := vm.Run(funcs[entry].Chunk, args)
	if err != nil {
		t.Fatalf("run: %s", err)
	}
	return v
}

func TestVMArithmetic(t *testing.T) {
	v := runCompiled(t, `fn add(a: Int, b: Int) -> Int { a + b * 2 }`, "add",
		&interp.IntegerValue{Value: 3}, &interp.IntegerValue{Value: 4})
	iv, ok := v.(*interp.IntegerValue)
	if !ok || iv.Value != 11 {
		t.Fatalf("add(3,4): got %v, want 11", v)
	}
}

func TestVMRecursiveCall(t *testing.T) {
	src := `fn fib(n: Int) -> Int {
		if n < 2 { n } else { fib(n - 1) + fib(n - 2) }
	}`
	v := runCompiled(t, src, "fib", &interp.IntegerValue{Value: 10})
	iv, ok := v.(*interp.IntegerValue)
	if !ok || iv.Value != 55 {
		t.Fatalf("fib(10): got %v, want 55", v)
	}
}

func TestVMWhileLoopAndMutation(t *testing.T) {
	src := `fn sumTo(n: Int) -> Int {
		let mut total = 0
		let mut i = 0
		while i < n {
			total += i
			i += 1
		}
		total
	}`
	v := runCompiled(t, src, "sumTo", &interp.IntegerValue{Value: 5})
	iv, ok := v.(*interp.IntegerValue)
	if !ok || iv.Value != 10 {
		t.Fatalf("sumTo(5): got %v, want 10", v)
	}
}

func TestVMForRangeLoop(t *testing.T) {
	src := `fn sumRange() -> Int {
		let mut total = 0
		for i in 0..5 {
			total += i
		}
		total
	}`
	v := runCompiled(t, src, "sumRange")
	iv, ok := v.(*interp.IntegerValue)
	if !ok || iv.Value != 10 {
		t.Fatalf("sumRange(): got %v, want 10 (0+1+2+3+4)", v)
	}
}

func TestVMBreakAndContinue(t *testing.T) {
	src := `fn oddSumUnderTen() -> Int {
		let mut total = 0
		let mut i = 0
		while i < 100 {
			i += 1
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
	v := runCompiled(t, src, "oddSumUnderTen")
	iv, ok := v.(*interp.IntegerValue)
	if !ok || iv.Value != 25 {
		t.Fatalf("oddSumUnderTen(): got %v, want 25 (1+3+5+7+9)", v)
	}
}

func TestVMTuple(t *testing.T) {
	src := `fn pair() -> (Int, Int) { (1, 2) }`
	v := runCompiled(t, src, "pair")
	tv, ok := v.(*interp.TupleValue)
	if !ok || len(tv.Elements) != 2 {
		t.Fatalf("pair(): got %v, want a 2-tuple", v)
	}
}

func TestCompileUnsupportedFallsBack(t *testing.T) {
	// match is hybrid-delegated, never *UnsupportedError, so this only
	// verifies compilation of a delegated construct doesn't itself fail.
	src := `fn classify(n: Int) -> Int {
		match n {
			0 => 0,
			_ => 1,
		}
	}`
	fns := parseFunctions(t, src)
	if _, err := CompileProgram(fns); err != nil {
		t.Fatalf("compile with hybrid-delegated match: %s", err)
	}
}
