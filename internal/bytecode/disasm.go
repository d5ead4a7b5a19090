package bytecode

import (
	"fmt"
	"io"
	"strings"
)

// Disassemble writes chunk's instruction stream in a human-readable form,
// one line per instruction, kept structurally from the teacher's own
// disasm.go (pc / opcode mnemonic / decoded operands / constant preview)
// but rewritten to print the four new instruction formats (ABC/ABx/AsBx/Ax)
// instead of the teacher's single fixed-width stack-opcode layout.
func Disassemble(w io.Writer, chunk *Chunk) {
	fmt.Fprintf(w, "chunk %s (%d regs, %d instructions)\n", chunk.Name, chunk.NumRegs, len(chunk.Code))
	for pc, instr := range chunk.Code {
		line := 0
		if pc < len(chunk.Lines) {
			line = chunk.Lines[pc]
		}
		fmt.Fprintf(w, "%04d  [%4d]  %s\n", pc, line, disasmOne(chunk, instr))
	}
}

func disasmOne(chunk *Chunk, instr Instruction) string {
	op := instr.Op()
	switch op.Format() {
	case FormatABC:
		_, a, b, c := instr.Decode()
		return fmt.Sprintf("%-10s %3d %3d %3d%s", op, a, b, c, constHint(chunk, op, b))
	case FormatABx:
		_, a, bx := instr.DecodeBx()
		return fmt.Sprintf("%-10s %3d %3d%s", op, a, bx, constHint(chunk, op, bx))
	case FormatAsBx:
		_, a, sbx := instr.DecodeSBx()
		return fmt.Sprintf("%-10s %3d %+d", op, a, sbx)
	case FormatAx:
		_, ax := instr.DecodeAx()
		return fmt.Sprintf("%-10s %3d", op, ax)
	}
	return op.String()
}

// constHint appends a "; K[n] = ..." preview for opcodes that index the
// constant pool, so a reader doesn't have to cross-reference Constants by
// hand (the teacher's disassembler does the same for its LOADCONST op).
func constHint(chunk *Chunk, op OpCode, idx int) string {
	switch op {
	case OpLoadK, OpGetGlobal, OpSetGlobal:
		if idx >= 0 && idx < len(chunk.Constants) {
			return fmt.Sprintf("  ; K[%d] = %s", idx, strings.TrimSpace(chunk.Constants[idx].String()))
		}
	case OpClosure, OpMethCall, OpMatch, OpEval:
		if idx >= 0 && idx < len(chunk.Exprs) {
			return fmt.Sprintf("  ; Exprs[%d]", idx)
		}
	}
	return ""
}
