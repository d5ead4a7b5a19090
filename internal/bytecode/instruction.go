// Package bytecode implements Vela's register-based virtual machine: a
// flat 32-bit instruction word per op, grounded on the well-known Lua
// register-VM design (ABC/ABx/AsBx/Ax formats, 6-bit opcode field) rather
// than the teacher's stack-based, 3-operand byte-packed encoding, per
// spec's redesigned §4.5. The architecture below — Chunk, Compiler, VM,
// Disassembler, hybrid delegation to the tree-walking interpreter for
// complex opcodes — is kept from the teacher's internal/bytecode package
// shape; only the instruction encoding and opcode table are new.
package bytecode

// Instruction is one 32-bit VM word. Six bits select the opcode; the
// remaining 26 bits hold operands in one of four layouts, mirroring
// Lua's instruction format:
//
//	ABC:  op(6) A(8) B(9) C(9)
//	ABx:  op(6) A(8) Bx(18)
//	AsBx: op(6) A(8) sBx(18, signed, bias-encoded)
//	Ax:   op(6) Ax(26)
type Instruction uint32

const (
	opBits = 6
	aBits  = 8
	bBits  = 9
	cBits  = 9
	bxBits = bBits + cBits // 18

	opShift = 32 - opBits        // 26
	aShift  = opShift - aBits    // 18
	bShift  = aShift - bBits     // 9
	cShift  = 0
	bxShift = aShift - bxBits    // 0

	opMask = (1 << opBits) - 1
	aMask  = (1 << aBits) - 1
	bMask  = (1 << bBits) - 1
	cMask  = (1 << cBits) - 1
	bxMask = (1 << bxBits) - 1
	axMask = (1 << (opShift)) - 1

	// sBxBias centers the signed Bx range so it can be stored unsigned;
	// a jump offset of -sBxBias..sBxBias-1 is representable.
	sBxBias = 1 << (bxBits - 1)
)

// EncodeABC packs an opcode with three small operands (register indices
// or small immediates), used by arithmetic, comparison, MOVE, CALL and
// RETURN.
func EncodeABC(op OpCode, a, b, c int) Instruction {
	return Instruction(uint32(op)&opMask<<opShift |
		uint32(a)&aMask<<aShift |
		uint32(b)&bMask<<bShift |
		uint32(c)&cMask<<cShift)
}

// EncodeABx packs an opcode with one register operand and one large
// unsigned operand, used by constant loads (index into the chunk's
// constant pool can exceed 9 bits).
func EncodeABx(op OpCode, a, bx int) Instruction {
	return Instruction(uint32(op)&opMask<<opShift |
		uint32(a)&aMask<<aShift |
		uint32(bx)&bxMask<<bxShift)
}

// EncodeAsBx packs an opcode with one register operand and one signed
// jump-offset operand, used by JMP/FORPREP/FORLOOP.
func EncodeAsBx(op OpCode, a, sbx int) Instruction {
	return EncodeABx(op, a, sbx+sBxBias)
}

// EncodeAx packs an opcode with a single wide operand, used by opcodes
// whose only operand is a constant-pool or chunk-table index too large
// for Bx (HALT's unused slot, and table-style extended operands).
func EncodeAx(op OpCode, ax int) Instruction {
	return Instruction(uint32(op)&opMask<<opShift | uint32(ax)&axMask)
}

// Decode unpacks an ABC-format instruction.
func (i Instruction) Decode() (op OpCode, a, b, c int) {
	u := uint32(i)
	op = OpCode(u >> opShift & opMask)
	a = int(u >> aShift & aMask)
	b = int(u >> bShift & bMask)
	c = int(u >> cShift & cMask)
	return
}

// DecodeBx unpacks an ABx-format instruction.
func (i Instruction) DecodeBx() (op OpCode, a, bx int) {
	u := uint32(i)
	op = OpCode(u >> opShift & opMask)
	a = int(u >> aShift & aMask)
	bx = int(u >> bxShift & bxMask)
	return
}

// DecodeSBx unpacks an AsBx-format instruction, undoing the sBxBias.
func (i Instruction) DecodeSBx() (op OpCode, a, sbx int) {
	op, a, bx := i.DecodeBx()
	return op, a, bx - sBxBias
}

// DecodeAx unpacks an Ax-format instruction.
func (i Instruction) DecodeAx() (op OpCode, ax int) {
	u := uint32(i)
	op = OpCode(u >> opShift & opMask)
	ax = int(u & axMask)
	return
}

// Op reads just the opcode field, valid regardless of format.
func (i Instruction) Op() OpCode {
	return OpCode(uint32(i) >> opShift & opMask)
}
