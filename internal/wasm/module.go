// Package wasm emits binary-format WebAssembly modules (§4.7): no
// WASM-writing library exists anywhere in the retrieval pack (the
// teacher's own cmd/dwscript-wasm *runs* the Go interpreter compiled to
// WASM via GOOS=js/syscall/js — it never emits WASM bytes itself, a
// different direction entirely), so Module/Emit below hand-roll the
// binary format's LEB128 integers and canonical section layout over
// bytes.Buffer, the justified standard-library choice recorded in
// DESIGN.md.
package wasm

import "bytes"

// ValType is a WASM value type byte.
type ValType byte

const (
	I32 ValType = 0x7F
	I64 ValType = 0x7E
	F32 ValType = 0x7D
	F64 ValType = 0x7C
)

// FuncType is one entry of the type section: a function signature.
type FuncType struct {
	Params  []ValType
	Results []ValType
}

// Local is one run of locals sharing a type, as the code section's
// locals vector requires (count, type) pairs rather than one entry per
// local.
type Local struct {
	Count uint32
	Type  ValType
}

// Func is one function: its signature (by index into Module.Types), its
// locals beyond its parameters, and its already-encoded instruction
// stream (see encode.go's instrEncoder), not including the trailing
// 0x0B `end` opcode, which Emit appends.
type Func struct {
	TypeIndex uint32
	Locals    []Local
	Body      []byte
}

// Export describes one export-section entry. Kind 0x00 is a function
// export, the only kind this emitter produces.
type Export struct {
	Name string
	Kind byte
	Index uint32
}

// Module is the in-memory form Emit serializes to WASM binary. Fields
// are populated in the order Emit must write their sections: type,
// function, export, code — the binary format's canonical order, which
// Validate also checks was honored.
type Module struct {
	Types   []FuncType
	Funcs   []Func // parallel to the function section: Funcs[i]'s type is Types[Funcs[i].TypeIndex]
	Exports []Export
}

const (
	secType   byte = 1
	secFunc   byte = 3
	secExport byte = 7
	secCode   byte = 10
)

var magic = []byte{0x00, 0x61, 0x73, 0x6D}
var version = []byte{0x01, 0x00, 0x00, 0x00}

// Emit serializes m into a complete WASM binary module.
func (m *Module) Emit() []byte {
	var out bytes.Buffer
	out.Write(magic)
	out.Write(version)

	if len(m.Types) > 0 {
		writeSection(&out, secType, encodeTypeSection(m.Types))
	}
	if len(m.Funcs) > 0 {
		writeSection(&out, secFunc, encodeFuncSection(m.Funcs))
	}
	if len(m.Exports) > 0 {
		writeSection(&out, secExport, encodeExportSection(m.Exports))
	}
	if len(m.Funcs) > 0 {
		writeSection(&out, secCode, encodeCodeSection(m.Funcs))
	}
	return out.Bytes()
}

func writeSection(out *bytes.Buffer, id byte, content []byte) {
	out.WriteByte(id)
	writeULEB128(out, uint64(len(content)))
	out.Write(content)
}

func encodeTypeSection(types []FuncType) []byte {
	var b bytes.Buffer
	writeULEB128(&b, uint64(len(types)))
	for _, t := range types {
		b.WriteByte(0x60) // functype tag
		writeULEB128(&b, uint64(len(t.Params)))
		for _, p := range t.Params {
			b.WriteByte(byte(p))
		}
		writeULEB128(&b, uint64(len(t.Results)))
		for _, r := range t.Results {
			b.WriteByte(byte(r))
		}
	}
	return b.Bytes()
}

func encodeFuncSection(funcs []Func) []byte {
	var b bytes.Buffer
	writeULEB128(&b, uint64(len(funcs)))
	for _, f := range funcs {
		writeULEB128(&b, uint64(f.TypeIndex))
	}
	return b.Bytes()
}

func encodeExportSection(exports []Export) []byte {
	var b bytes.Buffer
	writeULEB128(&b, uint64(len(exports)))
	for _, e := range exports {
		writeName(&b, e.Name)
		b.WriteByte(e.Kind)
		writeULEB128(&b, uint64(e.Index))
	}
	return b.Bytes()
}

func encodeCodeSection(funcs []Func) []byte {
	var b bytes.Buffer
	writeULEB128(&b, uint64(len(funcs)))
	for _, f := range funcs {
		entry := encodeFuncBody(f)
		writeULEB128(&b, uint64(len(entry)))
		b.Write(entry)
	}
	return b.Bytes()
}

func encodeFuncBody(f Func) []byte {
	var b bytes.Buffer
	writeULEB128(&b, uint64(len(f.Locals)))
	for _, l := range f.Locals {
		writeULEB128(&b, uint64(l.Count))
		b.WriteByte(byte(l.Type))
	}
	b.Write(f.Body)
	b.WriteByte(0x0B) // end
	return b.Bytes()
}

func writeName(b *bytes.Buffer, s string) {
	writeULEB128(b, uint64(len(s)))
	b.WriteString(s)
}

// writeULEB128 encodes v as unsigned LEB128, the variable-length integer
// format used throughout the WASM binary format for section/vector
// lengths and indices; encoding/binary has no LEB128 support (it only
// does fixed-width and protobuf-style varints), so this is hand-rolled
// per the package doc's justification.
func writeULEB128(b *bytes.Buffer, v uint64) {
	for {
		c := byte(v & 0x7F)
		v >>= 7
		if v != 0 {
			c |= 0x80
		}
		b.WriteByte(c)
		if v == 0 {
			return
		}
	}
}

// writeSLEB128 encodes v as signed LEB128, used for i32.const/i64.const
// immediates.
func writeSLEB128(b *bytes.Buffer, v int64) {
	more := true
	for more {
		c := byte(v & 0x7F)
		v >>= 7
		signBitSet := c&0x40 != 0
		if (v == 0 && !signBitSet) || (v == -1 && signBitSet) {
			more = false
		} else {
			c |= 0x80
		}
		b.WriteByte(c)
	}
}
