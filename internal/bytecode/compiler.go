package bytecode

import (
	"fmt"

	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/interp"
)

// Compiler walks ast.Expr emitting into a per-function Chunk,
// register-allocating a flat window per call frame, grounded on the
// teacher's compiler_core.go/compiler_expressions.go/
// compiler_statements.go/compiler_functions.go file split (kept;
// content rewritten for register allocation instead of stack-depth
// tracking).
//
// This compiler only lowers the "testable floor" subset the spec calls
// out as THE CORE: integer/float arithmetic, short-circuit logical
// operators, while/for with break/continue, recursive calls, tuples,
// and match (via hybrid delegation). Expressions outside that subset are
// not rejected: they are emitted as OpEval/OpMethCall/OpMatch and handed
// to the tree-walking interpreter at run time. *UnsupportedError is only
// returned for constructs the compiler cannot place at all (break/continue
// outside a loop, an unknown binary operator); callers report it as an
// error and do not re-run the function in the interpreter.
type Compiler struct {
	chunk   *Chunk
	funcs   map[string]*FunctionValue
	locals  []local
	scope   int
	nextReg int
	loops   []*loopCtx
}

type local struct {
	name  string
	reg   int
	scope int
}

type loopCtx struct {
	label      string
	breaks     []int // pcs of JMP instructions needing a patch to the loop's exit
	continues  []int // pcs of JMP instructions needing a patch to the loop's re-test
}

// UnsupportedError reports an ast.Expr the register compiler cannot
// lower or delegate.
type UnsupportedError struct {
	Node ast.Expr
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("bytecode: unsupported construct %T", e.Node)
}

// errRegisterOverflow is the panic value alloc() raises when a frame
// would need more than maxRegisters; safeCompileFunctionBody recovers it
// into a normal error.
var errRegisterOverflow = fmt.Errorf("bytecode: function needs more than %d registers", maxRegisters)

// CompileProgram compiles every top-level fn in fns into its own Chunk.
// Functions may call each other (including recursively) via OpCall: each
// FunctionValue's Chunk pointer is filled in after all names are known,
// so forward and mutual recursion both resolve.
func CompileProgram(fns []*ast.Function) (map[string]*FunctionValue, error) {
	funcs := make(map[string]*FunctionValue, len(fns))
	for _, fn := range fns {
		funcs[fn.Name] = &FunctionValue{Name: fn.Name, Arity: len(fn.Params)}
	}
	for _, fn := range fns {
		c := &Compiler{
			chunk: &Chunk{Name: fn.Name},
			funcs: funcs,
		}
		for _, p := range fn.Params {
			c.declareLocal(p.Name)
		}
		if err := c.safeCompileFunctionBody(fn.Body); err != nil {
			return nil, err
		}
		funcs[fn.Name].Chunk = c.chunk
	}
	return funcs, nil
}

// Compile compiles a single function in isolation (no sibling functions
// visible for recursive calls except itself). cmd/velac's subcommands
// call CompileProgram directly.
func Compile(fn *ast.Function) (*Chunk, error) {
	funcs, err := CompileProgram([]*ast.Function{fn})
	if err != nil {
		return nil, err
	}
	return funcs[fn.Name].Chunk, nil
}

// safeCompileFunctionBody recovers the errRegisterOverflow alloc() panics
// with when a frame would exceed the 32-register ceiling, turning it
// back into a normal error return instead of crashing the compiler.
func (c *Compiler) safeCompileFunctionBody(b *ast.Block) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			panic(r)
		}
	}()
	return c.compileFunctionBody(b)
}

func (c *Compiler) compileFunctionBody(b *ast.Block) error {
	last := -1
	for _, e := range b.Exprs {
		r, err := c.compileExpr(e)
		if err != nil {
			return err
		}
		last = r
	}
	if last == -1 {
		last = c.alloc()
		c.chunk.emit(EncodeABC(OpLoadNil, last, 0, 0), 0)
	}
	c.chunk.emit(EncodeABC(OpReturn, last, 0, 0), 0)
	c.chunk.NumRegs = c.nextReg
	return nil
}

// alloc reserves the next free register, enforcing the spec's 32-
// register-per-frame ceiling.
func (c *Compiler) alloc() int {
	r := c.nextReg
	c.nextReg++
	if c.nextReg > maxRegisters {
		panic(errRegisterOverflow)
	}
	return r
}

func (c *Compiler) enterScope() { c.scope++ }

func (c *Compiler) leaveScope() {
	c.scope--
	n := len(c.locals)
	for n > 0 && c.locals[n-1].scope > c.scope {
		n--
	}
	c.locals = c.locals[:n]
}

func (c *Compiler) declareLocal(name string) int {
	r := c.alloc()
	c.locals = append(c.locals, local{name: name, reg: r, scope: c.scope})
	return r
}

func (c *Compiler) resolveLocal(name string) (int, bool) {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i].name == name {
			return c.locals[i].reg, true
		}
	}
	return 0, false
}

func (c *Compiler) pushLoop(label string) *loopCtx {
	lc := &loopCtx{label: label}
	c.loops = append(c.loops, lc)
	return lc
}

func (c *Compiler) popLoop() {
	c.loops = c.loops[:len(c.loops)-1]
}

func (c *Compiler) findLoop(label string) *loopCtx {
	if label == "" {
		if len(c.loops) == 0 {
			return nil
		}
		return c.loops[len(c.loops)-1]
	}
	for i := len(c.loops) - 1; i >= 0; i-- {
		if c.loops[i].label == label {
			return c.loops[i]
		}
	}
	return nil
}

// snapshotEnv materializes the current locals into a fresh
// interp.Environment so a hybrid-delegated subexpression (method calls,
// match, arbitrary fallback) can see them exactly as the tree-walking
// interpreter would, per spec §4.5's hybrid-delegation contract.
func snapshotEnv(outer *interp.Environment, names []local, regs []interp.Value) *interp.Environment {
	env := interp.NewEnclosedEnvironment(outer)
	for _, l := range names {
		env.Define(l.name, regs[l.reg])
	}
	return env
}
