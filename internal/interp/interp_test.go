package interp_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/velalang/vela/internal/interp"
	"github.com/velalang/vela/internal/parser"
)

// run parses and runs src through a fresh Interpreter, following the
// bytecode package's runCompiled helper: parse with internal/parser,
// feed the block straight to the tree-walking Run, fail the test on any
// parse or runtime error.
func run(t *testing.T, src string) (interp.Value, string) {
	t.Helper()
	block, errs := parser.Parse(src)
	if len(errs) != 0 {
		t.Fatalf("parse error: %v", errs[0])
	}
	var out bytes.Buffer
	i := interp.New(&out)
	v, runErr := i.Run(block)
	if runErr != nil {
		t.Fatalf("run error: %s", runErr.Message)
	}
	return v, out.String()
}

func TestArithmetic(t *testing.T) {
	v, _ := run(t, `2 + 3 * 4`)
	iv, ok := v.(*interp.IntegerValue)
	if !ok || iv.Value != 14 {
		t.Fatalf("2 + 3 * 4: got %v, want 14", v)
	}
}

func TestPrintlnWithStringBuiltins(t *testing.T) {
	_, out := run(t, `println(upper("vela"), len("vela"))`)
	if strings.TrimSpace(out) != "VELA 4" {
		t.Fatalf("got output %q", out)
	}
}

func TestIfElse(t *testing.T) {
	v, _ := run(t, `if 3 > 2 { "yes" } else { "no" }`)
	sv, ok := v.(*interp.StringValue)
	if !ok || sv.Value != "yes" {
		t.Fatalf("got %v, want \"yes\"", v)
	}
}

func TestWhileLoopAccumulates(t *testing.T) {
	src := `
let mut i = 0
let mut sum = 0
while i < 5 {
	sum = sum + i
	i = i + 1
}
sum
`
	v, _ := run(t, src)
	iv, ok := v.(*interp.IntegerValue)
	if !ok || iv.Value != 10 {
		t.Fatalf("sum 0..4: got %v, want 10", v)
	}
}

func TestRecursiveFunction(t *testing.T) {
	src := `
fn fib(n: Int) -> Int {
	if n < 2 { n } else { fib(n - 1) + fib(n - 2) }
}
fib(10)
`
	v, _ := run(t, src)
	iv, ok := v.(*interp.IntegerValue)
	if !ok || iv.Value != 55 {
		t.Fatalf("fib(10): got %v, want 55", v)
	}
}

func TestArrayPushPop(t *testing.T) {
	src := `
let mut xs = [1, 2, 3]
xs.push(4)
xs.pop()
xs.len()
`
	v, _ := run(t, src)
	iv, ok := v.(*interp.IntegerValue)
	if !ok || iv.Value != 3 {
		t.Fatalf("got %v, want 3", v)
	}
}

func TestToJSONRoundTripsThroughObject(t *testing.T) {
	v, _ := run(t, `to_json(from_json("{\"name\": \"Ada\", \"age\": 36}"))`)
	sv, ok := v.(*interp.StringValue)
	if !ok {
		t.Fatalf("to_json result is not a String: %v", v)
	}
	if !strings.Contains(sv.Value, `"name":"Ada"`) || !strings.Contains(sv.Value, `"age":36`) {
		t.Fatalf("unexpected round-trip %q", sv.Value)
	}
}

func TestFromJSONProducesObjectValue(t *testing.T) {
	v, _ := run(t, `from_json("{\"a\": 1, \"b\": [1, 2, 3]}")`)
	obj, ok := v.(*interp.ObjectValue)
	if !ok {
		t.Fatalf("from_json result is not an Object: %v", v)
	}
	a, ok := obj.Fields["a"].(*interp.IntegerValue)
	if !ok || a.Value != 1 {
		t.Fatalf("field a: got %v, want 1", obj.Fields["a"])
	}
	b, ok := obj.Fields["b"].(*interp.ArrayValue)
	if !ok || len(b.Elements) != 3 {
		t.Fatalf("field b: got %v, want a 3-element List", obj.Fields["b"])
	}
}

func TestJSONGetByPath(t *testing.T) {
	v, _ := run(t, `json_get("{\"user\": {\"name\": \"Grace\"}}", "user.name")`)
	sv, ok := v.(*interp.StringValue)
	if !ok || sv.Value != "Grace" {
		t.Fatalf("json_get user.name: got %v, want \"Grace\"", v)
	}
}

func TestJSONGetMissingPathReturnsUnit(t *testing.T) {
	v, _ := run(t, `json_get("{\"a\": 1}", "missing")`)
	if _, ok := v.(*interp.NilValue); !ok {
		t.Fatalf("json_get on a missing path: got %v, want Unit", v)
	}
}

func TestJSONSetByPath(t *testing.T) {
	// json_set patches the document text in place via sjson, so the
	// untouched "a" field keeps its original spacing; only the new "b"
	// field is written in sjson's compact form.
	v, _ := run(t, `json_set("{\"a\": 1}", "b", 2)`)
	sv, ok := v.(*interp.StringValue)
	if !ok {
		t.Fatalf("json_set result is not a String: %v", v)
	}
	if !strings.Contains(sv.Value, `"a": 1`) || !strings.Contains(sv.Value, `"b":2`) {
		t.Fatalf("unexpected json_set output %q", sv.Value)
	}
}

func TestJSONDeleteByPath(t *testing.T) {
	v, _ := run(t, `json_delete("{\"a\": 1, \"b\": 2}", "a")`)
	sv, ok := v.(*interp.StringValue)
	if !ok {
		t.Fatalf("json_delete result is not a String: %v", v)
	}
	if strings.Contains(sv.Value, `"a"`) || !strings.Contains(sv.Value, `"b": 2`) {
		t.Fatalf("unexpected json_delete output %q", sv.Value)
	}
}
