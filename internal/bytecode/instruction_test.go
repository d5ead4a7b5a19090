package bytecode

import "testing"

func TestEncodeDecodeABC(t *testing.T) {
	cases := []struct{ op OpCode; a, b, c int }{
		{OpAdd, 0, 0, 0},
		{OpMove, 255, 0, 0},
		{OpCall, 1, 511, 511},
		{OpTuple, 10, 20, 30},
	}
	for _, tc := range cases {
		instr := EncodeABC(tc.op, tc.a, tc.b, tc.c)
		op, a, b, c := instr.Decode()
		if op != tc.op || a != tc.a || b != tc.b || c != tc.c {
			t.Errorf("EncodeABC(%v,%d,%d,%d): got %v,%d,%d,%d", tc.op, tc.a, tc.b, tc.c, op, a, b, c)
		}
		if instr.Op() != tc.op {
			t.Errorf("Op(): got %v, want %v", instr.Op(), tc.op)
		}
	}
}

func TestEncodeDecodeABx(t *testing.T) {
	cases := []struct{ op OpCode; a, bx int }{
		{OpLoadK, 0, 0},
		{OpLoadK, 255, 0},
		{OpGetGlobal, 1, 1<<18 - 1},
		{OpClosure, 12, 1000},
	}
	for _, tc := range cases {
		instr := EncodeABx(tc.op, tc.a, tc.bx)
		op, a, bx := instr.DecodeBx()
		if op != tc.op || a != tc.a || bx != tc.bx {
			t.Errorf("EncodeABx(%v,%d,%d): got %v,%d,%d", tc.op, tc.a, tc.bx, op, a, bx)
		}
	}
}

func TestEncodeDecodeAsBx(t *testing.T) {
	cases := []struct{ op OpCode; a, sbx int }{
		{OpJmp, 0, 0},
		{OpJmp, 0, 1},
		{OpJmp, 0, -1},
		{OpForLoop, 4, -50},
		{OpForPrep, 0, (1 << 17) - 1},
		{OpJmpIfFalse, 3, -(1 << 17)},
	}
	for _, tc := range cases {
		instr := EncodeAsBx(tc.op, tc.a, tc.sbx)
		op, a, sbx := instr.DecodeSBx()
		if op != tc.op || a != tc.a || sbx != tc.sbx {
			t.Errorf("EncodeAsBx(%v,%d,%d): got %v,%d,%d", tc.op, tc.a, tc.sbx, op, a, sbx)
		}
	}
}

func TestEncodeDecodeAx(t *testing.T) {
	cases := []struct{ op OpCode; ax int }{
		{OpHalt, 0},
		{OpHalt, 1<<26 - 1},
	}
	for _, tc := range cases {
		instr := EncodeAx(tc.op, tc.ax)
		op, ax := instr.DecodeAx()
		if op != tc.op || ax != tc.ax {
			t.Errorf("EncodeAx(%v,%d): got %v,%d", tc.op, tc.ax, op, ax)
		}
	}
}

func TestOpcodeTableWithinCeiling(t *testing.T) {
	if opCount > maxOpcodes {
		t.Fatalf("opcode table has %d entries, ceiling is %d", opCount, maxOpcodes)
	}
}

func TestOpCodeStringKnown(t *testing.T) {
	for op := OpCode(0); op < opCount; op++ {
		if op.String() == "UNKNOWN" {
			t.Errorf("opcode %d has no name registered", op)
		}
	}
}
