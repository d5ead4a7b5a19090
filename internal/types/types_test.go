package types

import (
	"testing"

	"github.com/velalang/vela/internal/lexer"
	"github.com/velalang/vela/internal/parser"
)

func inferSource(t *testing.T, src string) (*Context, []*InferError) {
	t.Helper()
	l := lexer.New(src)
	p := parser.New(l)
	block := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("parser errors: %v", p.Errors())
	}
	return Infer(block)
}

func TestInferLiterals(t *testing.T) {
	_, errs := inferSource(t, `let x = 1; let y = 1.5; let z = "hi"; let w = true;`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestInferLetGeneralization(t *testing.T) {
	ctx, errs := inferSource(t, `fn identity(x) { x } let a = identity(1); let b = identity("hi");`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	aSch, ok := ctx.Lookup("a")
	if !ok {
		t.Fatal("a not defined")
	}
	bSch, ok := ctx.Lookup("b")
	if !ok {
		t.Fatal("b not defined")
	}
	if ctx.Apply(aSch.Type).String() != "Int" {
		t.Errorf("a = %s, want Int", ctx.Apply(aSch.Type))
	}
	if ctx.Apply(bSch.Type).String() != "String" {
		t.Errorf("b = %s, want String", ctx.Apply(bSch.Type))
	}
}

func TestInferBinaryMismatchErrors(t *testing.T) {
	_, errs := inferSource(t, `let x = 1 + "oops";`)
	if len(errs) == 0 {
		t.Fatal("expected a unification error for Int + String")
	}
}

func TestInferIfBranchesUnify(t *testing.T) {
	_, errs := inferSource(t, `let x = if true { 1 } else { 2 };`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestInferIfBranchMismatch(t *testing.T) {
	_, errs := inferSource(t, `let x = if true { 1 } else { "no" };`)
	if len(errs) == 0 {
		t.Fatal("expected a unification error for mismatched if branches")
	}
}

func TestInferListHomogeneous(t *testing.T) {
	ctx, errs := inferSource(t, `let xs = [1, 2, 3];`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	sch, _ := ctx.Lookup("xs")
	if got := ctx.Apply(sch.Type).String(); got != "List<Int>" {
		t.Errorf("xs = %s, want List<Int>", got)
	}
}

func TestInferStructConstructorAndFieldAccess(t *testing.T) {
	ctx, errs := inferSource(t, `
		struct Point { x: Int, y: Int }
		let p = Point(1, 2);
		let px = p.x;
	`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	sch, _ := ctx.Lookup("px")
	if got := ctx.Apply(sch.Type).String(); got != "Int" {
		t.Errorf("px = %s, want Int", got)
	}
}

func TestInferEnumVariantConstructorAndMatch(t *testing.T) {
	_, errs := inferSource(t, `
		enum Shape { Circle(Int), Square(Int) }
		let s = Shape::Circle(3);
		let area = match s {
			Shape::Circle(r) => r * r,
			Shape::Square(side) => side * side,
		};
	`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestInferLoopBreakValue(t *testing.T) {
	ctx, errs := inferSource(t, `
		let result = loop {
			break 42;
		};
	`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	sch, _ := ctx.Lookup("result")
	if got := ctx.Apply(sch.Type).String(); got != "Int" {
		t.Errorf("result = %s, want Int", got)
	}
}

func TestInferWhileIsUnit(t *testing.T) {
	ctx, errs := inferSource(t, `
		let mut i = 0;
		let result = while i < 3 { i = i + 1; };
	`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	sch, _ := ctx.Lookup("result")
	if got := ctx.Apply(sch.Type).String(); got != "Unit" {
		t.Errorf("result = %s, want Unit", got)
	}
}

func TestInferBreakOutsideLoopErrors(t *testing.T) {
	_, errs := inferSource(t, `let x = break 1;`)
	if len(errs) == 0 {
		t.Fatal("expected an error for break outside a loop")
	}
}

func TestInferFunctionReturnTypeChecked(t *testing.T) {
	_, errs := inferSource(t, `fn bad() -> Int { "not an int" }`)
	if len(errs) == 0 {
		t.Fatal("expected a return-type mismatch error")
	}
}

func TestInferVecMacro(t *testing.T) {
	ctx, errs := inferSource(t, `let xs = vec![1, 2, 3];`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	sch, _ := ctx.Lookup("xs")
	if got := ctx.Apply(sch.Type).String(); got != "List<Int>" {
		t.Errorf("xs = %s, want List<Int>", got)
	}
}

func TestInferUndefinedNameErrors(t *testing.T) {
	_, errs := inferSource(t, `let x = doesNotExist;`)
	if len(errs) == 0 {
		t.Fatal("expected an undefined-name error")
	}
}
