package transpile

import (
	"strings"
	"testing"

	"github.com/velalang/vela/internal/parser"
)

func TestTranspileFunctionWithIfElse(t *testing.T) {
	src := `fn fib(n: Int) -> Int {
		if n < 2 { n } else { fib(n - 1) + fib(n - 2) }
	}
	println(fib(10))`
	block, errs := parser.Parse(src)
	if len(errs) != 0 {
		t.Fatalf("parse error: %v", errs[0])
	}
	out, err := Transpile(block.Exprs)
	if err != nil {
		t.Fatalf("transpile: %s", err)
	}
	for _, want := range []string{
		"package main",
		"func fib(n int64) int64",
		"func main()",
		"fmt.Printf",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n--- output ---\n%s", want, out)
		}
	}
}

func TestTranspileStructConstructorAndFieldAccess(t *testing.T) {
	src := `struct Point { x: Int, y: Int }
	fn sum(p: Point) -> Int { p.x + p.y }
	let origin = Point(0, 0);
	println(sum(origin))`
	block, errs := parser.Parse(src)
	if len(errs) != 0 {
		t.Fatalf("parse error: %v", errs[0])
	}
	out, err := Transpile(block.Exprs)
	if err != nil {
		t.Fatalf("transpile: %s", err)
	}
	for _, want := range []string{
		"type Point struct {",
		"X int64",
		"Y int64",
		"func NewPoint(x int64, y int64) Point {",
		"NewPoint(0, 0)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n--- output ---\n%s", want, out)
		}
	}
}

func TestTranspileEnumVariantConstructionAndMatch(t *testing.T) {
	src := `enum Shape {
		Circle(Float),
		Rect { w: Float, h: Float },
		Empty,
	}
	fn area(s: Shape) -> Float {
		match s {
			Shape::Circle(r) => r * r * 3.14,
			Shape::Rect { w, h } => w * h,
			Shape::Empty => 0.0,
		}
	}
	println(area(Shape::Circle(2.0)))`
	block, errs := parser.Parse(src)
	if len(errs) != 0 {
		t.Fatalf("parse error: %v", errs[0])
	}
	out, err := Transpile(block.Exprs)
	if err != nil {
		t.Fatalf("transpile: %s", err)
	}
	for _, want := range []string{
		"type Shape interface {",
		"isShape()",
		"type ShapeCircle struct {",
		"type ShapeRect struct {",
		"type ShapeEmpty struct {",
		"func NewShapeCircle(",
		"func NewShapeRect(",
		"func NewShapeEmpty(",
		"func area(s Shape) float64",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n--- output ---\n%s", want, out)
		}
	}
}

func TestTranspileImplMethodStripsSelfReceiver(t *testing.T) {
	src := `struct Counter { value: Int }
	impl Counter {
		fn increment(self, by: Int) -> Int {
			self.value + by
		}
	}`
	block, errs := parser.Parse(src)
	if len(errs) != 0 {
		t.Fatalf("parse error: %v", errs[0])
	}
	out, err := Transpile(block.Exprs)
	if err != nil {
		t.Fatalf("transpile: %s", err)
	}
	for _, want := range []string{
		"func (self *Counter) Increment(by int64) int64 {",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n--- output ---\n%s", want, out)
		}
	}
	if strings.Contains(out, "self int64") || strings.Contains(out, "self any") {
		t.Errorf("self should not survive as an ordinary parameter\n--- output ---\n%s", out)
	}
}

func TestTranspileTupleAndLambda(t *testing.T) {
	src := `fn apply(f: fn(Int) -> Int, x: Int) -> Int { f(x) }
	let pair = (1, 2);
	let double = |x| x * 2;
	println(apply(double, 5))`
	block, errs := parser.Parse(src)
	if len(errs) != 0 {
		t.Fatalf("parse error: %v", errs[0])
	}
	out, err := Transpile(block.Exprs)
	if err != nil {
		t.Fatalf("transpile: %s", err)
	}
	if !strings.Contains(out, "func(x int64)") {
		t.Errorf("expected a Go func literal for the lambda\n--- output ---\n%s", out)
	}
}

func TestTranspileTraitBecomesInterface(t *testing.T) {
	src := `trait Show {
		fn show(self) -> String;
	}`
	block, errs := parser.Parse(src)
	if len(errs) != 0 {
		t.Fatalf("parse error: %v", errs[0])
	}
	out, err := Transpile(block.Exprs)
	if err != nil {
		t.Fatalf("transpile: %s", err)
	}
	if !strings.Contains(out, "type Show interface {") || !strings.Contains(out, "Show() string") {
		t.Errorf("expected a Show interface with a Show() string method\n--- output ---\n%s", out)
	}
}

func TestTranspileRejectsLoopBreakWithValue(t *testing.T) {
	src := `fn firstEven(xs: List<Int>) -> Int {
		loop {
			break 4;
		}
	}`
	block, errs := parser.Parse(src)
	if len(errs) != 0 {
		t.Fatalf("parse error: %v", errs[0])
	}
	_, err := Transpile(block.Exprs)
	if err == nil {
		t.Fatalf("expected break-with-value to be rejected as unsupported")
	}
	if _, ok := err.(*UnsupportedError); !ok {
		t.Fatalf("expected *UnsupportedError, got %T: %s", err, err)
	}
}

func TestTranspilePowUsesRepeatedMultiplicationHelper(t *testing.T) {
	src := `fn cube(n: Int) -> Int { n ** 3 }`
	block, errs := parser.Parse(src)
	if len(errs) != 0 {
		t.Fatalf("parse error: %v", errs[0])
	}
	out, err := Transpile(block.Exprs)
	if err != nil {
		t.Fatalf("transpile: %s", err)
	}
	if !strings.Contains(out, "func velaPow[T ~int64 | ~float64](base, exp T) T {") {
		t.Errorf("expected the velaPow helper to be emitted\n--- output ---\n%s", out)
	}
	if strings.Contains(out, "math.Pow") {
		t.Errorf("** must not lower to math.Pow, it is repeated multiplication in Vela\n--- output ---\n%s", out)
	}
}
