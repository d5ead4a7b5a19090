package wasm

import "bytes"

// Opcode bytes from the WASM binary-format spec, named for the
// instructions compile.go emits. Only the subset compile.go's numeric
// function bodies need is listed; there is no assembler to draw these
// from, they are the spec's fixed encoding.
const (
	opBlock  byte = 0x02
	opLoop   byte = 0x03
	opIf     byte = 0x04
	opElse   byte = 0x05
	opEnd    byte = 0x0B
	opBr     byte = 0x0C
	opBrIf   byte = 0x0D
	opReturn byte = 0x0F
	opCall   byte = 0x10

	opLocalGet byte = 0x20
	opLocalSet byte = 0x21
	opLocalTee byte = 0x22

	opDrop byte = 0x1A

	opI32Const byte = 0x41
	opI64Const byte = 0x42

	opI64Eqz byte = 0x50
	opI64Eq  byte = 0x51
	opI64Ne  byte = 0x52
	opI64LtS byte = 0x53
	opI64GtS byte = 0x55
	opI64LeS byte = 0x57
	opI64GeS byte = 0x59

	opI64Add  byte = 0x7C
	opI64Sub  byte = 0x7D
	opI64Mul  byte = 0x7E
	opI64DivS byte = 0x7F
	opI64RemS byte = 0x81

	// blockTypeVoid marks an if/block with no result value.
	blockTypeVoid byte = 0x40
)

// instrEncoder accumulates one function body's instruction stream.
// Every method appends its opcode (and any LEB128-encoded immediates)
// directly — there is no separate assembly/relocation pass, so
// branches (opBr/opBrIf) only ever target a structured block depth via
// WASM's built-in nesting, never a raw byte offset.
type instrEncoder struct{ buf bytes.Buffer }

func (e *instrEncoder) LocalGet(idx uint32) { e.buf.WriteByte(opLocalGet); writeULEB128(&e.buf, uint64(idx)) }
func (e *instrEncoder) LocalSet(idx uint32) { e.buf.WriteByte(opLocalSet); writeULEB128(&e.buf, uint64(idx)) }
func (e *instrEncoder) LocalTee(idx uint32) { e.buf.WriteByte(opLocalTee); writeULEB128(&e.buf, uint64(idx)) }
func (e *instrEncoder) I64Const(v int64)    { e.buf.WriteByte(opI64Const); writeSLEB128(&e.buf, v) }
func (e *instrEncoder) Call(idx uint32)     { e.buf.WriteByte(opCall); writeULEB128(&e.buf, uint64(idx)) }
func (e *instrEncoder) Return()             { e.buf.WriteByte(opReturn) }
func (e *instrEncoder) End()                { e.buf.WriteByte(opEnd) }
func (e *instrEncoder) Else()               { e.buf.WriteByte(opElse) }
func (e *instrEncoder) Drop()               { e.buf.WriteByte(opDrop) }

// IfResult opens an `if` block whose taken/not-taken arms both leave a
// single value of type vt on the stack, matching Vela's if-as-expression
// semantics; the caller writes the "then" instructions, calls Else,
// writes the "else" instructions, then calls End. The `if` opcode itself
// pops the i32 condition compile.go's Compare handling already leaves
// on the stack.
func (e *instrEncoder) IfResult(vt ValType) { e.buf.WriteByte(opIf); e.buf.WriteByte(byte(vt)) }

func (e *instrEncoder) binop(op byte) { e.buf.WriteByte(op) }

func (e *instrEncoder) Add()  { e.binop(opI64Add) }
func (e *instrEncoder) Sub()  { e.binop(opI64Sub) }
func (e *instrEncoder) Mul()  { e.binop(opI64Mul) }
func (e *instrEncoder) DivS() { e.binop(opI64DivS) }
func (e *instrEncoder) RemS() { e.binop(opI64RemS) }
func (e *instrEncoder) Eq()   { e.binop(opI64Eq) }
func (e *instrEncoder) Ne()   { e.binop(opI64Ne) }
func (e *instrEncoder) LtS()  { e.binop(opI64LtS) }
func (e *instrEncoder) GtS()  { e.binop(opI64GtS) }
func (e *instrEncoder) LeS()  { e.binop(opI64LeS) }
func (e *instrEncoder) GeS()  { e.binop(opI64GeS) }

func (e *instrEncoder) bytes() []byte { return e.buf.Bytes() }
