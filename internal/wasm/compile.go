package wasm

import (
	"fmt"

	"github.com/velalang/vela/internal/ast"
)

// UnsupportedError reports an ast.Expr outside the subset CompileProgram
// lowers straight to WASM bytecode. Scoped deliberately narrower than
// internal/jit's: every value CompileFunction tracks is an i64 (Vela's
// Int), so Bool only ever appears transiently as the i32 WASM produces
// for a comparison and consumes immediately as an `if`'s condition —
// nothing else in the subset stores, returns, or combines a Bool value.
type UnsupportedError struct {
	Node ast.Expr
	Why  string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("wasm: unsupported construct %T: %s", e.Node, e.Why)
}

func unsupported(n ast.Expr, why string) error {
	return &UnsupportedError{Node: n, Why: why}
}

type funcCompiler struct {
	funcIndex map[string]uint32
	locals    map[string]uint32
	nextLocal uint32
	enc       *instrEncoder
}

// CompileProgram emits one WASM module containing every fn in fns (in
// order), each exported under its Vela name, calls between them
// (including recursion) resolved by function index the same way
// internal/jit/internal/bytecode resolve sibling calls by name up
// front.
func CompileProgram(fns []*ast.Function) (*Module, error) {
	funcIndex := make(map[string]uint32, len(fns))
	for i, fn := range fns {
		funcIndex[fn.Name] = uint32(i)
	}

	m := &Module{}
	for _, fn := range fns {
		ft := FuncType{Results: []ValType{I64}}
		for range fn.Params {
			ft.Params = append(ft.Params, I64)
		}
		typeIdx := uint32(len(m.Types))
		m.Types = append(m.Types, ft)

		body, numLocals, err := compileFunctionBody(fn, funcIndex)
		if err != nil {
			return nil, err
		}
		var locals []Local
		if extra := numLocals - uint32(len(fn.Params)); extra > 0 {
			locals = []Local{{Count: extra, Type: I64}}
		}
		m.Funcs = append(m.Funcs, Func{TypeIndex: typeIdx, Locals: locals, Body: body})
		m.Exports = append(m.Exports, Export{Name: fn.Name, Kind: 0x00, Index: uint32(len(m.Funcs) - 1)})
	}
	return m, nil
}

// CompileFunction emits a single-function module, useful for tooling
// (cmd/velac's `wasm` subcommand) compiling one script entry point at a
// time; fn may still call itself recursively.
func CompileFunction(fn *ast.Function) (*Module, error) {
	return CompileProgram([]*ast.Function{fn})
}

func compileFunctionBody(fn *ast.Function, funcIndex map[string]uint32) ([]byte, uint32, error) {
	fc := &funcCompiler{funcIndex: funcIndex, locals: make(map[string]uint32), enc: &instrEncoder{}}
	for _, p := range fn.Params {
		fc.declare(p.Name)
	}
	if err := fc.compileBlock(fn.Body); err != nil {
		return nil, 0, err
	}
	return fc.enc.bytes(), fc.nextLocal, nil
}

func (fc *funcCompiler) declare(name string) uint32 {
	idx := fc.nextLocal
	fc.nextLocal++
	fc.locals[name] = idx
	return idx
}

// compileBlock emits every statement in b, dropping every
// non-final value so the function body leaves exactly one i64 on the
// stack (WASM validates stack height strictly; this is the uniform
// invariant every compileExpr call honors: exactly one value produced).
func (fc *funcCompiler) compileBlock(b *ast.Block) error {
	for i, e := range b.Exprs {
		if err := fc.compileExpr(e); err != nil {
			return err
		}
		if i != len(b.Exprs)-1 {
			fc.enc.Drop()
		}
	}
	if len(b.Exprs) == 0 {
		fc.enc.I64Const(0)
	}
	return nil
}

func (fc *funcCompiler) compileExpr(e ast.Expr) error {
	switch n := e.(type) {

	case *ast.IntLiteral:
		fc.enc.I64Const(n.Value)
		return nil

	case *ast.Identifier:
		idx, ok := fc.locals[n.Name]
		if !ok {
			return unsupported(n, "identifier "+n.Name+" is not a known local/parameter")
		}
		fc.enc.LocalGet(idx)
		return nil

	case *ast.Unary:
		if n.Op != ast.UnaryNeg {
			return unsupported(n, "only unary - is supported (Bool/bitwise unary operators are out of scope)")
		}
		fc.enc.I64Const(0)
		if err := fc.compileExpr(n.Operand); err != nil {
			return err
		}
		fc.enc.Sub()
		return nil

	case *ast.Binary:
		if err := fc.compileExpr(n.Left); err != nil {
			return err
		}
		if err := fc.compileExpr(n.Right); err != nil {
			return err
		}
		switch n.Op {
		case ast.BinAdd:
			fc.enc.Add()
		case ast.BinSub:
			fc.enc.Sub()
		case ast.BinMul:
			fc.enc.Mul()
		case ast.BinDiv:
			fc.enc.DivS()
		case ast.BinMod:
			fc.enc.RemS()
		default:
			return unsupported(n, "only + - * / % are supported (bitwise/shift/pow are out of scope)")
		}
		return nil

	case *ast.Let:
		if err := fc.compileExpr(n.Value); err != nil {
			return err
		}
		idx := fc.declare(n.Name)
		fc.enc.LocalTee(idx)
		return nil
	case *ast.LetMut:
		if err := fc.compileExpr(n.Value); err != nil {
			return err
		}
		idx := fc.declare(n.Name)
		fc.enc.LocalTee(idx)
		return nil

	case *ast.Assignment:
		if n.Op != ast.AssignPlain {
			return unsupported(n, "only plain = assignment is supported")
		}
		ident, ok := n.Target.(*ast.Identifier)
		if !ok {
			return unsupported(n, "only assignment to a plain local is supported")
		}
		idx, ok := fc.locals[ident.Name]
		if !ok {
			return unsupported(n, "assignment target "+ident.Name+" is not a known local")
		}
		if err := fc.compileExpr(n.Value); err != nil {
			return err
		}
		fc.enc.LocalTee(idx)
		return nil

	case *ast.If:
		cmp, ok := n.Cond.(*ast.Compare)
		if !ok {
			return unsupported(n, "an if's condition must be a direct comparison (a < b, a == b, ...); Bool locals/&&/|| are out of scope")
		}
		if err := fc.compileCompare(cmp); err != nil {
			return err
		}
		fc.enc.IfResult(I64)
		if err := fc.compileBlock(n.Then); err != nil {
			return err
		}
		fc.enc.Else()
		switch els := n.Else.(type) {
		case nil:
			fc.enc.I64Const(0)
		case *ast.Block:
			if err := fc.compileBlock(els); err != nil {
				return err
			}
		case *ast.If:
			if err := fc.compileExpr(els); err != nil {
				return err
			}
		default:
			return unsupported(n, "else must be a block or an else-if chain")
		}
		fc.enc.End()
		return nil

	case *ast.Return:
		if n.Value != nil {
			if err := fc.compileExpr(n.Value); err != nil {
				return err
			}
		} else {
			fc.enc.I64Const(0)
		}
		fc.enc.Return()
		return nil

	case *ast.Block:
		return fc.compileBlock(n)

	case *ast.Call:
		ident, ok := n.Callee.(*ast.Identifier)
		if !ok {
			return unsupported(n, "only direct calls to a named sibling function are supported")
		}
		idx, ok := fc.funcIndex[ident.Name]
		if !ok {
			return unsupported(n, "call target "+ident.Name+" was not compiled in this module")
		}
		for _, a := range n.Args {
			if err := fc.compileExpr(a); err != nil {
				return err
			}
		}
		fc.enc.Call(idx)
		return nil

	default:
		return unsupported(e, "construct not in the WASM backend's numeric-only subset")
	}
}

// compileCompare emits L, R, then the matching i32-producing comparison
// opcode. Its result is only ever consumed immediately by an `if`'s
// condition (see compileExpr's *ast.If case) — Bool is never stored
// into a local or returned in this subset, so there is no i32/i64
// coercion to get right.
func (fc *funcCompiler) compileCompare(n *ast.Compare) error {
	if err := fc.compileExpr(n.Left); err != nil {
		return err
	}
	if err := fc.compileExpr(n.Right); err != nil {
		return err
	}
	switch n.Op {
	case ast.CmpEq:
		fc.enc.Eq()
	case ast.CmpNeq:
		fc.enc.Ne()
	case ast.CmpLt:
		fc.enc.LtS()
	case ast.CmpGt:
		fc.enc.GtS()
	case ast.CmpLe:
		fc.enc.LeS()
	case ast.CmpGe:
		fc.enc.GeS()
	}
	return nil
}
