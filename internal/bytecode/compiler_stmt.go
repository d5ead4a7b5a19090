package bytecode

import (
	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/interp"
)

func (c *Compiler) compileUnary(n *ast.Unary) (int, error) {
	src, err := c.compileExpr(n.Operand)
	if err != nil {
		return 0, err
	}
	r := c.alloc()
	switch n.Op {
	case ast.UnaryNeg:
		c.chunk.emit(EncodeABC(OpNeg, r, src, 0), 0)
	case ast.UnaryNot:
		c.chunk.emit(EncodeABC(OpNot, r, src, 0), 0)
	case ast.UnaryBitNot:
		c.chunk.emit(EncodeABC(OpBNot, r, src, 0), 0)
	}
	return r, nil
}

var binOpCodes = map[ast.BinaryOp]OpCode{
	ast.BinAdd: OpAdd, ast.BinSub: OpSub, ast.BinMul: OpMul, ast.BinDiv: OpDiv,
	ast.BinMod: OpMod, ast.BinPow: OpPow,
	ast.BinBitAnd: OpBAnd, ast.BinBitOr: OpBOr, ast.BinBitXor: OpBXor,
	ast.BinShl: OpShl, ast.BinShr: OpShr,
}

func (c *Compiler) compileBinary(n *ast.Binary) (int, error) {
	l, err := c.compileExpr(n.Left)
	if err != nil {
		return 0, err
	}
	rr, err := c.compileExpr(n.Right)
	if err != nil {
		return 0, err
	}
	op, ok := binOpCodes[n.Op]
	if !ok {
		return 0, &UnsupportedError{Node: n}
	}
	dst := c.alloc()
	c.chunk.emit(EncodeABC(op, dst, l, rr), 0)
	return dst, nil
}

var cmpOpCodes = map[ast.CompareOp]OpCode{
	ast.CmpEq: OpEq, ast.CmpNeq: OpNeq, ast.CmpLt: OpLt,
	ast.CmpGt: OpGt, ast.CmpLe: OpLe, ast.CmpGe: OpGe,
}

func (c *Compiler) compileCompare(n *ast.Compare) (int, error) {
	l, err := c.compileExpr(n.Left)
	if err != nil {
		return 0, err
	}
	rr, err := c.compileExpr(n.Right)
	if err != nil {
		return 0, err
	}
	dst := c.alloc()
	c.chunk.emit(EncodeABC(cmpOpCodes[n.Op], dst, l, rr), 0)
	return dst, nil
}

// compileLogical lowers short-circuit && and ||: the right operand is
// only evaluated (only its instructions reached) when the left operand
// doesn't already decide the result.
func (c *Compiler) compileLogical(n *ast.Logical) (int, error) {
	dst := c.alloc()
	l, err := c.compileExpr(n.Left)
	if err != nil {
		return 0, err
	}
	c.chunk.emit(EncodeABC(OpMove, dst, l, 0), 0)

	var skipPC int
	if n.Op == ast.LogAnd {
		skipPC = c.chunk.emit(EncodeAsBx(OpJmpIfFalse, dst, 0), 0)
	} else {
		skipPC = c.chunk.emit(EncodeAsBx(OpJmpIfTrue, dst, 0), 0)
	}

	rr, err := c.compileExpr(n.Right)
	if err != nil {
		return 0, err
	}
	c.chunk.emit(EncodeABC(OpMove, dst, rr, 0), 0)
	c.chunk.patchJump(skipPC, c.chunk.here())
	return dst, nil
}

func (c *Compiler) compileLet(name string, value ast.Expr) (int, error) {
	src, err := c.compileExpr(value)
	if err != nil {
		return 0, err
	}
	reg := c.declareLocal(name)
	c.chunk.emit(EncodeABC(OpMove, reg, src, 0), 0)
	return reg, nil
}

func (c *Compiler) compileAssignment(n *ast.Assignment) (int, error) {
	ident, ok := n.Target.(*ast.Identifier)
	if !ok {
		return c.delegate(OpEval, n)
	}
	src, err := c.compileExpr(n.Value)
	if err != nil {
		return 0, err
	}
	if reg, ok := c.resolveLocal(ident.Name); ok {
		switch n.Op {
		case ast.AssignPlain:
			c.chunk.emit(EncodeABC(OpMove, reg, src, 0), 0)
		case ast.AssignAdd:
			c.chunk.emit(EncodeABC(OpAdd, reg, reg, src), 0)
		case ast.AssignSub:
			c.chunk.emit(EncodeABC(OpSub, reg, reg, src), 0)
		case ast.AssignMul:
			c.chunk.emit(EncodeABC(OpMul, reg, reg, src), 0)
		case ast.AssignDiv:
			c.chunk.emit(EncodeABC(OpDiv, reg, reg, src), 0)
		}
		return reg, nil
	}
	k := c.chunk.addConstant(&interp.StringValue{Value: ident.Name})
	c.chunk.emit(EncodeABx(OpSetGlobal, src, k), 0)
	return src, nil
}

func (c *Compiler) compileIf(n *ast.If) (int, error) {
	dst := c.alloc()
	c.chunk.emit(EncodeABC(OpLoadNil, dst, 0, 0), 0)

	cond, err := c.compileExpr(n.Cond)
	if err != nil {
		return 0, err
	}
	elseJump := c.chunk.emit(EncodeAsBx(OpJmpIfFalse, cond, 0), 0)

	c.enterScope()
	thenReg, err := c.compileSeq(n.Then)
	c.leaveScope()
	if err != nil {
		return 0, err
	}
	c.chunk.emit(EncodeABC(OpMove, dst, thenReg, 0), 0)
	endJump := c.chunk.emit(EncodeAsBx(OpJmp, 0, 0), 0)

	c.chunk.patchJump(elseJump, c.chunk.here())
	if n.Else != nil {
		elseReg, err := c.compileExpr(n.Else)
		if err != nil {
			return 0, err
		}
		c.chunk.emit(EncodeABC(OpMove, dst, elseReg, 0), 0)
	}
	c.chunk.patchJump(endJump, c.chunk.here())
	return dst, nil
}

func (c *Compiler) compileWhile(n *ast.While) (int, error) {
	lc := c.pushLoop(n.Label)
	defer c.popLoop()

	top := c.chunk.here()
	cond, err := c.compileExpr(n.Cond)
	if err != nil {
		return 0, err
	}
	exitJump := c.chunk.emit(EncodeAsBx(OpJmpIfFalse, cond, 0), 0)

	c.enterScope()
	_, err = c.compileSeq(n.Body)
	c.leaveScope()
	if err != nil {
		return 0, err
	}
	backJump := c.chunk.emit(EncodeAsBx(OpJmp, 0, 0), 0)
	c.chunk.patchJump(backJump, top)
	c.chunk.patchJump(exitJump, c.chunk.here())

	for _, pc := range lc.breaks {
		c.chunk.patchJump(pc, c.chunk.here())
	}
	for _, pc := range lc.continues {
		c.chunk.patchJump(pc, top)
	}

	r := c.alloc()
	c.chunk.emit(EncodeABC(OpLoadNil, r, 0, 0), 0)
	return r, nil
}

// compileFor only lowers `for x in a..b { ... }` (a simple identifier
// pattern over an ast.Range), the shape FORPREP/FORLOOP exist to
// accelerate; any other iterable or pattern falls back to OpEval so the
// interpreter's general IterableValue/matchPattern machinery handles it.
func (c *Compiler) compileFor(n *ast.For) (int, error) {
	rng, ok := n.Iter.(*ast.Range)
	ident, okPat := n.Pattern.(*ast.IdentifierPattern)
	if !ok || !okPat || rng.Start == nil || rng.End == nil {
		return c.delegate(OpEval, n)
	}

	startVal, err := c.compileExpr(rng.Start)
	if err != nil {
		return 0, err
	}
	limitVal, err := c.compileExpr(rng.End)
	if err != nil {
		return 0, err
	}
	if rng.Inclusive {
		one := c.loadConstInt(1)
		adj := c.alloc()
		c.chunk.emit(EncodeABC(OpAdd, adj, limitVal, one), 0)
		limitVal = adj
	}
	stepVal := c.loadConstInt(1)

	// FORPREP's fixed layout: R[base]=cur, R[base+1]=limit, R[base+2]=
	// step, R[base+3]=the loop variable FORLOOP publishes each pass.
	// cur starts one step below the range start because FORLOOP adds the
	// step before its first limit test.
	base := c.alloc()
	c.alloc() // base+1: limit
	c.alloc() // base+2: step
	loopVar := c.alloc()
	c.chunk.emit(EncodeABC(OpSub, base, startVal, stepVal), 0)
	c.chunk.emit(EncodeABC(OpMove, base+1, limitVal, 0), 0)
	c.chunk.emit(EncodeABC(OpMove, base+2, stepVal, 0), 0)

	lc := c.pushLoop(n.Label)
	defer c.popLoop()

	prepJump := c.chunk.emit(EncodeAsBx(OpForPrep, base, 0), 0)
	loopTop := c.chunk.here()

	c.enterScope()
	c.locals = append(c.locals, local{name: ident.Name, reg: loopVar, scope: c.scope})
	_, err = c.compileSeq(n.Body)
	c.leaveScope()
	if err != nil {
		return 0, err
	}

	loopPC := c.chunk.emit(EncodeAsBx(OpForLoop, base, 0), 0)
	c.chunk.patchJump(loopPC, loopTop)
	c.chunk.patchJump(prepJump, loopPC)

	for _, pc := range lc.breaks {
		c.chunk.patchJump(pc, c.chunk.here())
	}
	for _, pc := range lc.continues {
		c.chunk.patchJump(pc, loopPC)
	}

	r := c.alloc()
	c.chunk.emit(EncodeABC(OpLoadNil, r, 0, 0), 0)
	return r, nil
}

func (c *Compiler) loadConstInt(v int64) int {
	return c.loadConst(&interp.IntegerValue{Value: v})
}

func (c *Compiler) compileLoop(n *ast.Loop) (int, error) {
	lc := c.pushLoop(n.Label)
	defer c.popLoop()

	dst := c.alloc()
	c.chunk.emit(EncodeABC(OpLoadNil, dst, 0, 0), 0)

	top := c.chunk.here()
	c.enterScope()
	_, err := c.compileSeq(n.Body)
	c.leaveScope()
	if err != nil {
		return 0, err
	}
	backJump := c.chunk.emit(EncodeAsBx(OpJmp, 0, 0), 0)
	c.chunk.patchJump(backJump, top)

	for _, pc := range lc.breaks {
		c.chunk.patchJump(pc, c.chunk.here())
	}
	for _, pc := range lc.continues {
		c.chunk.patchJump(pc, top)
	}
	return dst, nil
}

func (c *Compiler) compileBreak(n *ast.Break) (int, error) {
	lc := c.findLoop(n.Label)
	if lc == nil {
		return 0, &UnsupportedError{Node: n}
	}
	pc := c.chunk.emit(EncodeAsBx(OpJmp, 0, 0), 0)
	lc.breaks = append(lc.breaks, pc)
	r := c.alloc()
	c.chunk.emit(EncodeABC(OpLoadNil, r, 0, 0), 0)
	return r, nil
}

func (c *Compiler) compileContinue(n *ast.Continue) (int, error) {
	lc := c.findLoop(n.Label)
	if lc == nil {
		return 0, &UnsupportedError{Node: n}
	}
	pc := c.chunk.emit(EncodeAsBx(OpJmp, 0, 0), 0)
	lc.continues = append(lc.continues, pc)
	r := c.alloc()
	c.chunk.emit(EncodeABC(OpLoadNil, r, 0, 0), 0)
	return r, nil
}

func (c *Compiler) compileReturn(n *ast.Return) (int, error) {
	if n.Value == nil {
		r := c.alloc()
		c.chunk.emit(EncodeABC(OpLoadNil, r, 0, 0), 0)
		c.chunk.emit(EncodeABC(OpReturn, r, 0, 0), 0)
		return r, nil
	}
	r, err := c.compileExpr(n.Value)
	if err != nil {
		return 0, err
	}
	c.chunk.emit(EncodeABC(OpReturn, r, 0, 0), 0)
	return r, nil
}

// compileIntoBlock compiles each of exprs in turn and copies every result
// into a freshly reserved, guaranteed-contiguous register run, returning
// the run's base register. OpCall and OpTuple both require their operands
// sitting in consecutive registers; a sub-expression's own result register
// can land anywhere (each temporary it needs bumps nextReg further along),
// so the only safe way to get a contiguous block is to compile first and
// MOVE second, the same trick compileFor uses for FORPREP's register window.
func (c *Compiler) compileIntoBlock(exprs []ast.Expr) (int, error) {
	srcs := make([]int, len(exprs))
	for i, e := range exprs {
		r, err := c.compileExpr(e)
		if err != nil {
			return 0, err
		}
		srcs[i] = r
	}
	if len(srcs) == 0 {
		return c.alloc(), nil
	}
	base := c.alloc()
	c.chunk.emit(EncodeABC(OpMove, base, srcs[0], 0), 0)
	for i := 1; i < len(srcs); i++ {
		c.alloc()
		c.chunk.emit(EncodeABC(OpMove, base+i, srcs[i], 0), 0)
	}
	return base, nil
}

func (c *Compiler) compileTuple(n *ast.Tuple) (int, error) {
	base, err := c.compileIntoBlock(n.Elements)
	if err != nil {
		return 0, err
	}
	dst := c.alloc()
	c.chunk.emit(EncodeABC(OpTuple, dst, base, len(n.Elements)), 0)
	return dst, nil
}

// compileCall only lowers direct calls to a named sibling function
// (recursion and mutual recursion); anything else — calling a closure
// value, a builtin, or an expression callee — delegates to the
// interpreter, which already knows how to call every CallableValue kind.
func (c *Compiler) compileCall(n *ast.Call) (int, error) {
	ident, ok := n.Callee.(*ast.Identifier)
	if !ok {
		return c.delegate(OpEval, n)
	}
	if _, ok := c.funcs[ident.Name]; !ok {
		return c.delegate(OpEval, n)
	}

	argSrcs := make([]int, len(n.Args))
	for i, a := range n.Args {
		r, err := c.compileExpr(a)
		if err != nil {
			return 0, err
		}
		argSrcs[i] = r
	}

	calleeReg := c.loadFunc(ident.Name)
	for _, src := range argSrcs {
		argReg := c.alloc()
		c.chunk.emit(EncodeABC(OpMove, argReg, src, 0), 0)
	}
	c.chunk.emit(EncodeABC(OpCall, calleeReg, len(n.Args)+1, 0), 0)
	return calleeReg, nil
}
