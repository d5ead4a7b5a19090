package bytecode

import (
	"fmt"

	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/interp"
)

// applyArith and applyCompare translate a register opcode back to the
// ast.BinaryOp/ast.CompareOp the tree-walking interpreter already knows
// how to evaluate, and call into interp.ApplyBinary/interp.ApplyCompare
// so the VM's arithmetic never drifts from the interpreter's semantics
// (int/float dispatch, string concatenation, bitwise-requires-Int).
func applyArith(op OpCode, l, r interp.Value) (interp.Value, error) {
	bop, ok := arithToBinOp[op]
	if !ok {
		return nil, fmt.Errorf("bytecode: %s is not an arithmetic opcode", op)
	}
	v, err := interp.ApplyBinary(bop, l, r)
	if err != nil {
		return nil, fmt.Errorf("bytecode: %s", err)
	}
	return v, nil
}

func applyCompare(op OpCode, l, r interp.Value) (interp.Value, error) {
	cop, ok := arithToCmpOp[op]
	if !ok {
		return nil, fmt.Errorf("bytecode: %s is not a comparison opcode", op)
	}
	v, err := interp.ApplyCompare(cop, l, r)
	if err != nil {
		return nil, fmt.Errorf("bytecode: %s", err)
	}
	return v, nil
}

var arithToBinOp = map[OpCode]ast.BinaryOp{
	OpAdd:  ast.BinAdd,
	OpSub:  ast.BinSub,
	OpMul:  ast.BinMul,
	OpDiv:  ast.BinDiv,
	OpMod:  ast.BinMod,
	OpPow:  ast.BinPow,
	OpBAnd: ast.BinBitAnd,
	OpBOr:  ast.BinBitOr,
	OpBXor: ast.BinBitXor,
	OpShl:  ast.BinShl,
	OpShr:  ast.BinShr,
}

var arithToCmpOp = map[OpCode]ast.CompareOp{
	OpEq:  ast.CmpEq,
	OpNeq: ast.CmpNeq,
	OpLt:  ast.CmpLt,
	OpLe:  ast.CmpLe,
	OpGt:  ast.CmpGt,
	OpGe:  ast.CmpGe,
}
