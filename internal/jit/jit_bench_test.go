package jit

import (
	"io"
	"testing"

	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/interp"
	"github.com/velalang/vela/internal/parser"
)

// buildFibProgram and buildGCDProgram mirror the teacher's own
// vm_bench_test.go convention (buildBenchmarkProgram): a small,
// self-recursive program run both through the JIT and through
// internal/interp's tree-walker so BenchmarkFibJIT/BenchmarkFibTreeWalk
// (and their gcd counterparts) can be compared with `go test -bench`
// and `benchstat`. Unlike the teacher, Vela has a real parser, so these
// build the program by parsing source text instead of hand-assembling
// AST nodes.
const fibSrc = `fn fib(n: Int) -> Int {
	if n < 2 { n } else { fib(n - 1) + fib(n - 2) }
}`

const gcdSrc = `fn gcd(a: Int, b: Int) -> Int {
	if b == 0 { a } else { gcd(b, a % b) }
}`

func parseBenchFunctions(b *testing.B, src string) []*ast.Function {
	b.Helper()
	block, errs := parser.Parse(src)
	if len(errs) != 0 {
		b.Fatalf("parse error: %v", errs[0])
	}
	var fns []*ast.Function
	for _, e := range block.Exprs {
		if fn, ok := e.(*ast.Function); ok {
			fns = append(fns, fn)
		}
	}
	return fns
}

func BenchmarkFibJIT(b *testing.B) {
	fns := parseBenchFunctions(b, fibSrc)
	funcs, err := CompileProgram(fns)
	if err != nil {
		b.Fatalf("compile: %s", err)
	}
	fib := funcs["fib"]
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := fib.Call([]interp.Value{&interp.IntegerValue{Value: 20}}); err != nil {
			b.Fatalf("call: %s", err)
		}
	}
}

func BenchmarkFibTreeWalk(b *testing.B) {
	block, errs := parser.Parse(fibSrc + "\nfib(20)")
	if len(errs) != 0 {
		b.Fatalf("parse error: %v", errs[0])
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		it := interp.New(io.Discard)
		if _, runErr := it.Run(block); runErr != nil {
			b.Fatalf("run: %s", runErr)
		}
	}
}

func BenchmarkGCDJIT(b *testing.B) {
	fns := parseBenchFunctions(b, gcdSrc)
	funcs, err := CompileProgram(fns)
	if err != nil {
		b.Fatalf("compile: %s", err)
	}
	gcd := funcs["gcd"]
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		args := []interp.Value{&interp.IntegerValue{Value: 270645}, &interp.IntegerValue{Value: 98357}}
		if _, err := gcd.Call(args); err != nil {
			b.Fatalf("call: %s", err)
		}
	}
}

func BenchmarkGCDTreeWalk(b *testing.B) {
	block, errs := parser.Parse(gcdSrc + "\ngcd(270645, 98357)")
	if len(errs) != 0 {
		b.Fatalf("parse error: %v", errs[0])
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		it := interp.New(io.Discard)
		if _, runErr := it.Run(block); runErr != nil {
			b.Fatalf("run: %s", runErr)
		}
	}
}

// TestJITSpeedupFloor asserts the ≥50x speedup floor for fib(20) only;
// the gcd benchmarks are not compared here. It runs as a correctness-gated test (not just a
// `go test -bench` report) so a regression fails `go test` outright.
// Since b.N differs between the two runs under test.Benchmark, the
// comparison uses ns/op rather than raw elapsed time.
func TestJITSpeedupFloor(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping timing-sensitive benchmark comparison in -short mode")
	}
	jitResult := testing.Benchmark(BenchmarkFibJIT)
	treeResult := testing.Benchmark(BenchmarkFibTreeWalk)
	speedup := float64(treeResult.NsPerOp()) / float64(jitResult.NsPerOp())
	if speedup < 50 {
		t.Fatalf("fib(20): JIT speedup over tree-walk was %.1fx, want >= 50x (jit=%dns/op, tree=%dns/op)",
			speedup, jitResult.NsPerOp(), treeResult.NsPerOp())
	}
}
