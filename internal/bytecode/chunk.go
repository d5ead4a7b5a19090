package bytecode

import (
	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/interp"
)

// Chunk is one compiled function body: a flat instruction stream, a
// constant pool, and the register-window size the VM must allocate per
// call, grounded on the teacher's Chunk{Code, Constants, Name,
// LocalCount} shape (internal/bytecode/chunk.go) with LocalCount
// generalized from "stack slots" to "register-window width".
type Chunk struct {
	Name      string
	Code      []Instruction
	Constants []interp.Value
	NumRegs   int // size of the register window a frame of this chunk needs

	// Exprs holds the ast.Expr subtrees referenced by the B operand of
	// OpEval/OpMethCall/OpMatch, for hybrid delegation
	// back into the tree-walking interpreter (spec §4.5, §9).
	Exprs []ExprConst

	Lines []int // Lines[pc] is the source line of Code[pc], for disasm/traces
}

// ExprConst is one hybrid-delegation constant: an AST node the VM hands
// to interp.Interpreter.Eval instead of lowering to registers, because
// method dispatch, pattern matching and closure capture are cheaper to
// keep as tree-walks than to compile to register code (spec §4.5, §9 —
// "hybrid delegation" is explicitly permitted, and the teacher's own VM
// delegates its complex opcodes the same way).
type ExprConst struct {
	Expr    ast.Expr
	Pattern ast.Pattern // not set by the compiler; OpMatch delegates the whole match Expr
	Locals  []local     // names/registers visible at the point of delegation
}

// addConstant appends v (deduped is not attempted; the compiler is a
// single forward pass and constant folding is out of scope) and returns
// its index for use in an ABx operand.
func (c *Chunk) addConstant(v interp.Value) int {
	c.Constants = append(c.Constants, v)
	return len(c.Constants) - 1
}

func (c *Chunk) addExprConst(e ast.Expr, locals []local) int {
	c.Exprs = append(c.Exprs, ExprConst{Expr: e, Locals: locals})
	return len(c.Exprs) - 1
}

func (c *Chunk) emit(i Instruction, line int) int {
	c.Code = append(c.Code, i)
	c.Lines = append(c.Lines, line)
	return len(c.Code) - 1
}

// patchJump overwrites an already-emitted jump instruction's AsBx operand
// so it lands on target, used once the compiler knows a forward jump's
// target (if/while/for exits, short-circuit logical operators) and for
// backward loop jumps such as FORLOOP's.
func (c *Chunk) patchJump(pc int, target int) {
	op, a, _ := c.Code[pc].DecodeSBx()
	c.Code[pc] = EncodeAsBx(op, a, target-pc-1)
}

func (c *Chunk) here() int { return len(c.Code) }
