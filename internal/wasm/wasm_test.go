package wasm

import (
	"bytes"
	"testing"

	"github.com/velalang/vela/internal/ast"
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

func TestEmitMagicAndVersion(t *testing.T) {
	fns := parseFunctions(t, `fn add(a: Int, b: Int) -> Int { a + b }`)
	m, err := CompileProgram(fns)
	if err != nil {
		t.Fatalf("compile: %s", err)
	}
	if err := Validate(m); err != nil {
		t.Fatalf("validate: %s", err)
	}
	out := m.Emit()
	if !bytes.Equal(out[:4], []byte{0x00, 0x61, 0x73, 0x6D}) {
		t.Fatalf("bad magic: %x", out[:4])
	}
	if !bytes.Equal(out[4:8], []byte{0x01, 0x00, 0x00, 0x00}) {
		t.Fatalf("bad version: %x", out[4:8])
	}
}

func TestEmitSectionIDsInCanonicalOrder(t *testing.T) {
	fns := parseFunctions(t, `fn fib(n: Int) -> Int {
		if n < 2 { n } else { fib(n - 1) + fib(n - 2) }
	}`)
	m, err := CompileProgram(fns)
	if err != nil {
		t.Fatalf("compile: %s", err)
	}
	if err := Validate(m); err != nil {
		t.Fatalf("validate: %s", err)
	}
	out := m.Emit()[8:] // past magic+version
	var ids []byte
	for len(out) > 0 {
		id := out[0]
		ids = append(ids, id)
		out = out[1:]
		size, n := readULEB128(out)
		out = out[n+int(size):]
	}
	want := []byte{secType, secFunc, secExport, secCode}
	if !bytes.Equal(ids, want) {
		t.Fatalf("section ids = %v, want %v", ids, want)
	}
}

func TestCompileRejectsUnsupportedConstruct(t *testing.T) {
	fns := parseFunctions(t, `fn logicAnd(a: Bool, b: Bool) -> Bool { a && b }`)
	_, err := CompileProgram(fns)
	if err == nil {
		t.Fatalf("expected && over Bool locals to be unsupported")
	}
	if _, ok := err.(*UnsupportedError); !ok {
		t.Fatalf("expected *UnsupportedError, got %T: %s", err, err)
	}
}

func TestValidateCatchesBadTypeIndex(t *testing.T) {
	m := &Module{
		Types: []FuncType{{Results: []ValType{I64}}},
		Funcs: []Func{{TypeIndex: 5, Body: []byte{opI64Const, 0}}},
	}
	if err := Validate(m); err == nil {
		t.Fatalf("expected Validate to reject an out-of-range type index")
	}
}

// readULEB128 is a tiny test-only decoder mirroring module.go's
// writeULEB128, used only to walk Emit's output and recover section ids
// for TestEmitSectionIDsInCanonicalOrder.
func readULEB128(b []byte) (uint64, int) {
	var result uint64
	var shift uint
	var n int
	for {
		c := b[n]
		n++
		result |= uint64(c&0x7F) << shift
		if c&0x80 == 0 {
			break
		}
		shift += 7
	}
	return result, n
}
