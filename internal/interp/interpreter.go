package interp

import (
	"fmt"
	"io"

	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/errors"
	"github.com/velalang/vela/internal/token"
)

// maxCallDepth bounds recursion the way the teacher's
// raiseMaxRecursionExceeded guards against a runaway stack overflow
// crashing the host process instead of reporting a Vela-level error.
const maxCallDepth = 4096

// Interpreter walks an already-parsed *ast.Block directly, grounded on the
// teacher's Interpreter/Eval shape (internal/interp/interpreter.go):
// an output sink, a registry of user declarations, and a call stack kept
// for RuntimeError reporting.
type Interpreter struct {
	output  io.Writer
	env     *Environment
	structs map[string]*ast.Struct
	enums   map[string]*ast.Enum
	impls   map[string][]*ast.Impl // keyed by target type name
	traits  map[string]*ast.Trait

	callStack errors.StackTrace

	scheduler *scheduler // cooperative actor scheduler, see actor.go
}

// New creates an Interpreter with a fresh global environment. output is
// where print/println write.
func New(output io.Writer) *Interpreter {
	i := &Interpreter{
		output:  output,
		env:     NewEnvironment(),
		structs: make(map[string]*ast.Struct),
		enums:   make(map[string]*ast.Enum),
		impls:   make(map[string][]*ast.Impl),
		traits:  make(map[string]*ast.Trait),
	}
	i.scheduler = newScheduler(i)
	registerBuiltins(i.env, output)
	return i
}

// Globals returns the interpreter's top-level environment, used by
// internal/bytecode's VM so compiled code's GETGLOBAL/SETGLOBAL and its
// hybrid-delegated opcodes share the same global namespace as any
// tree-walked code running alongside it.
func (i *Interpreter) Globals() *Environment {
	return i.env
}

// CallStack returns a copy of the active call stack, used by the CLI and
// by RuntimeError reporting; callers must not mutate the teacher's
// original slice.
func (i *Interpreter) CallStack() errors.StackTrace {
	cp := make(errors.StackTrace, len(i.callStack))
	copy(cp, i.callStack)
	return cp
}

// Run evaluates every top-level expression in prog in sequence and returns
// the value of the last one, or a RuntimeError if evaluation exits
// abnormally (an uncaught throw, or a host panic recovered at the top).
func (i *Interpreter) Run(prog *ast.Block) (result Value, runErr *errors.CompilerError) {
	defer func() {
		if r := recover(); r != nil {
			runErr = errors.NewRuntimeError(token.Position{}, fmt.Sprintf("internal error: %v", r), i.CallStack())
			runErr.Kind = errors.Internal
		}
	}()

	sig := i.evalBlock(i.env, prog)
	if sig.Kind == SigThrow {
		if sig.RunErr != nil {
			return nil, sig.RunErr
		}
		msg := "uncaught throw"
		if sig.Value != nil {
			msg = fmt.Sprintf("uncaught throw: %s", sig.Value.String())
		}
		return nil, errors.NewRuntimeError(token.Position{}, msg, i.CallStack())
	}
	return sig.Value, nil
}

// Eval evaluates a single expression in env and returns its Signal: a
// completed value (SigNone), or a non-local exit (break/continue/return/
// throw) that the nearest enclosing construct must interpret.
func (i *Interpreter) Eval(env *Environment, e ast.Expr) Signal {
	switch n := e.(type) {

	// literals (eval_literals.go)
	case *ast.IntLiteral:
		return val(&IntegerValue{Value: n.Value})
	case *ast.FloatLiteral:
		return val(&FloatValue{Value: n.Value})
	case *ast.BoolLiteral:
		return val(&BoolValue{Value: n.Value})
	case *ast.StringLiteral:
		return val(&StringValue{Value: n.Value})
	case *ast.CharLiteral:
		return val(&CharValue{Value: n.Value})
	case *ast.ByteLiteral:
		return val(&ByteValue{Value: n.Value})
	case *ast.UnitLiteral:
		return val(Unit)
	case *ast.FString:
		return i.evalFString(env, n)
	case *ast.Identifier:
		return i.evalIdentifier(env, n)
	case *ast.Path:
		return i.evalPath(env, n)

	// access and calls (eval_functions.go)
	case *ast.FieldAccess:
		return i.evalFieldAccess(env, n)
	case *ast.IndexAccess:
		return i.evalIndexAccess(env, n)
	case *ast.MethodCall:
		return i.evalMethodCall(env, n)
	case *ast.Call:
		return i.evalCall(env, n)

	// operators (eval_operators.go)
	case *ast.Unary:
		return i.evalUnary(env, n)
	case *ast.Binary:
		return i.evalBinary(env, n)
	case *ast.Logical:
		return i.evalLogical(env, n)
	case *ast.Compare:
		return i.evalCompare(env, n)
	case *ast.Range:
		return i.evalRange(env, n)
	case *ast.Pipeline:
		return i.evalPipeline(env, n)
	case *ast.Assignment:
		return i.evalAssignment(env, n)

	// bindings (eval_bindings.go)
	case *ast.Let:
		return i.evalLet(env, n)
	case *ast.LetMut:
		return i.evalLetMut(env, n)
	case *ast.Var:
		return i.evalVar(env, n)
	case *ast.LetPattern:
		return i.evalLetPattern(env, n)
	case *ast.Const:
		return i.evalConst(env, n)
	case *ast.Static:
		return i.evalStatic(env, n)
	case *ast.TypeAlias:
		return val(Unit)

	// control flow (eval_control.go)
	case *ast.If:
		return i.evalIf(env, n)
	case *ast.Match:
		return i.evalMatch(env, n)
	case *ast.While:
		return i.evalWhile(env, n)
	case *ast.For:
		return i.evalFor(env, n)
	case *ast.Loop:
		return i.evalLoop(env, n)
	case *ast.Break:
		return i.evalBreak(env, n)
	case *ast.Continue:
		return Signal{Kind: SigContinue, Label: n.Label}
	case *ast.Return:
		return i.evalReturn(env, n)
	case *ast.Throw:
		return i.evalThrow(env, n)
	case *ast.TryCatch:
		return i.evalTryCatch(env, n)

	// collections and grouping (eval_collections.go)
	case *ast.Block:
		return i.evalBlockScoped(env, n)
	case *ast.Tuple:
		return i.evalTuple(env, n)
	case *ast.List:
		return i.evalList(env, n)
	case *ast.Set:
		return i.evalSet(env, n)
	case *ast.Dict:
		return i.evalDict(env, n)
	case *ast.Comprehension:
		return i.evalComprehension(env, n)
	case *ast.MacroInvocation:
		return i.evalMacroInvocation(env, n)
	case *ast.DataFrame:
		return i.evalDataFrame(env, n)

	// functions (eval_functions.go)
	case *ast.Function:
		return i.evalFunction(env, n)
	case *ast.Lambda:
		return val(i.makeClosure(env, n))
	case *ast.Await:
		return i.evalAwait(env, n)
	case *ast.Async:
		return i.evalAsync(env, n)
	case *ast.Spawn:
		return i.evalSpawn(env, n)
	case *ast.Send:
		return i.evalSend(env, n)
	case *ast.Ask:
		return i.evalAsk(env, n)

	// declarations (eval_decls.go)
	case *ast.Struct:
		return i.evalStructDecl(env, n)
	case *ast.Enum:
		return i.evalEnumDecl(env, n)
	case *ast.Trait:
		i.traits[n.Name] = n
		return val(Unit)
	case *ast.Impl:
		return i.evalImplDecl(env, n)
	case *ast.Module:
		return i.evalModule(env, n)
	case *ast.Import, *ast.Use:
		return val(Unit)
	case *ast.Export:
		return i.Eval(env, n.Item)

	case *ast.ErrorNode:
		return val(Unit)
	}

	return i.runtimeError(e, "internal: no evaluation rule for %T", e)
}

// evalBlock evaluates a sequence of expressions against env directly
// (no child scope) — used for the program's top-level block, since the
// root environment already is that scope.
func (i *Interpreter) evalBlock(env *Environment, b *ast.Block) Signal {
	last := val(Value(Unit))
	for _, e := range b.Exprs {
		last = i.Eval(env, e)
		if last.isExit() {
			return last
		}
	}
	if b.TrailingSemi {
		return val(Unit)
	}
	return last
}

// evalBlockScoped evaluates b in a fresh child scope of env, the form
// used by if/while/loop/match bodies and explicit `{ ... }` expressions.
func (i *Interpreter) evalBlockScoped(env *Environment, b *ast.Block) Signal {
	child := NewEnclosedEnvironment(env)
	return i.evalBlock(child, b)
}

// runtimeError builds a SigThrow host-error signal carrying a RuntimeError
// at e's position: used both for conditions the type checker rules out (no
// eval rule for a node kind) and for runtime failures such as division by
// zero or an out-of-range index. A user `throw` goes through evalThrow.
func (i *Interpreter) runtimeError(e ast.Expr, format string, args ...any) Signal {
	msg := fmt.Sprintf(format, args...)
	var pos token.Position
	if e != nil {
		pos = e.Span().Pos
	}
	return Signal{Kind: SigThrow, RunErr: errors.NewRuntimeError(pos, msg, i.CallStack())}
}

func (i *Interpreter) pushFrame(name string, pos token.Position) error {
	if len(i.callStack) >= maxCallDepth {
		return fmt.Errorf("stack overflow: max call depth %d exceeded", maxCallDepth)
	}
	i.callStack = append(i.callStack, errors.NewStackFrame(name, "", &pos))
	return nil
}

func (i *Interpreter) popFrame() {
	if len(i.callStack) > 0 {
		i.callStack = i.callStack[:len(i.callStack)-1]
	}
}
