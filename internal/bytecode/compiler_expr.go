package bytecode

import (
	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/interp"
)

// compileExpr lowers e into c.chunk, returning the register holding its
// result. Constructs outside THE CORE subset either delegate to the
// interpreter via OpEval/OpMethCall/OpMatch (method calls, match, and
// anything else reachable from a locals snapshot) or return
// *UnsupportedError for the caller to fall back on entirely.
func (c *Compiler) compileExpr(e ast.Expr) (int, error) {
	switch n := e.(type) {

	case *ast.IntLiteral:
		return c.loadConst(&interp.IntegerValue{Value: n.Value}), nil
	case *ast.FloatLiteral:
		return c.loadConst(&interp.FloatValue{Value: n.Value}), nil
	case *ast.BoolLiteral:
		r := c.alloc()
		b := 0
		if n.Value {
			b = 1
		}
		c.chunk.emit(EncodeABC(OpLoadBool, r, b, 0), 0)
		return r, nil
	case *ast.StringLiteral:
		return c.loadConst(&interp.StringValue{Value: n.Value}), nil
	case *ast.UnitLiteral:
		r := c.alloc()
		c.chunk.emit(EncodeABC(OpLoadNil, r, 0, 0), 0)
		return r, nil

	case *ast.Identifier:
		if reg, ok := c.resolveLocal(n.Name); ok {
			return reg, nil
		}
		if _, ok := c.funcs[n.Name]; ok {
			return c.loadFunc(n.Name), nil
		}
		r := c.alloc()
		k := c.chunk.addConstant(&interp.StringValue{Value: n.Name})
		c.chunk.emit(EncodeABx(OpGetGlobal, r, k), 0)
		return r, nil

	case *ast.Unary:
		return c.compileUnary(n)
	case *ast.Binary:
		return c.compileBinary(n)
	case *ast.Logical:
		return c.compileLogical(n)
	case *ast.Compare:
		return c.compileCompare(n)

	case *ast.Let:
		return c.compileLet(n.Name, n.Value)
	case *ast.LetMut:
		return c.compileLet(n.Name, n.Value)
	case *ast.Assignment:
		return c.compileAssignment(n)

	case *ast.If:
		return c.compileIf(n)
	case *ast.While:
		return c.compileWhile(n)
	case *ast.For:
		return c.compileFor(n)
	case *ast.Loop:
		return c.compileLoop(n)
	case *ast.Break:
		return c.compileBreak(n)
	case *ast.Continue:
		return c.compileContinue(n)
	case *ast.Return:
		return c.compileReturn(n)

	case *ast.Block:
		c.enterScope()
		defer c.leaveScope()
		return c.compileSeq(n)

	case *ast.Tuple:
		return c.compileTuple(n)

	case *ast.Call:
		return c.compileCall(n)

	case *ast.Match:
		return c.delegate(OpMatch, n)
	case *ast.MethodCall:
		return c.delegate(OpMethCall, n)

	default:
		return c.delegate(OpEval, n)
	}
}

func (c *Compiler) compileSeq(b *ast.Block) (int, error) {
	last := -1
	for _, e := range b.Exprs {
		r, err := c.compileExpr(e)
		if err != nil {
			return 0, err
		}
		last = r
	}
	if last == -1 {
		last = c.alloc()
		c.chunk.emit(EncodeABC(OpLoadNil, last, 0, 0), 0)
	}
	return last, nil
}

func (c *Compiler) loadConst(v interp.Value) int {
	r := c.alloc()
	k := c.chunk.addConstant(v)
	c.chunk.emit(EncodeABx(OpLoadK, r, k), 0)
	return r
}

func (c *Compiler) loadFunc(name string) int {
	r := c.alloc()
	k := c.chunk.addConstant(c.funcs[name])
	c.chunk.emit(EncodeABx(OpLoadK, r, k), 0)
	return r
}

// delegate hands e off to the tree-walking interpreter at VM run time,
// snapshotting the compiler's current locals into a child Environment
// so the delegated subtree sees exactly the names it would in direct
// AST evaluation (spec §4.5/§9's hybrid-delegation contract).
func (c *Compiler) delegate(op OpCode, e ast.Expr) (int, error) {
	r := c.alloc()
	locals := append([]local(nil), c.locals...)
	k := c.chunk.addExprConst(e, locals)
	c.chunk.emit(EncodeABC(op, r, k, 0), 0)
	return r, nil
}
