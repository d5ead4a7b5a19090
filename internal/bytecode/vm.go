package bytecode

import (
	"fmt"

	"github.com/velalang/vela/internal/errors"
	"github.com/velalang/vela/internal/interp"
	"github.com/velalang/vela/internal/token"
)

// vmError wraps a VM-detected failure in the same *errors.CompilerError
// shape every other backend reports through (spec §7), stamped with the
// interpreter's current call stack for a consistent trace.
func (vm *VM) vmError(format string, args ...any) error {
	return errors.NewRuntimeError(token.Position{}, fmt.Sprintf(format, args...), vm.interp.CallStack())
}

// VM executes a Chunk's register code, delegating to an
// interp.Interpreter for the hybrid opcodes (METHODCALL, MATCH, EVAL)
// and for calling any callee that isn't itself a compiled FunctionValue
// — exactly the tiered-execution shape spec §4.5/§9 describes and the
// teacher's own VM practices for its complex opcodes.
type VM struct {
	interp *interp.Interpreter
	env    *interp.Environment // the interpreter's global scope, for GETGLOBAL/SETGLOBAL
}

// New builds a VM sharing interpreter i's global environment, so a
// program that mixes compiled functions with interpreted top-level code
// sees one consistent global namespace.
func New(i *interp.Interpreter, globals *interp.Environment) *VM {
	return &VM{interp: i, env: globals}
}

const maxFrames = 2048

// Run executes chunk's entry frame with args already placed in R[0..]
// and returns its final value.
func (vm *VM) Run(chunk *Chunk, args []interp.Value) (interp.Value, error) {
	regs := make([]interp.Value, chunk.NumRegs)
	for i, a := range args {
		if i >= len(regs) {
			break
		}
		regs[i] = a
	}
	return vm.exec(chunk, regs, 0)
}

func (vm *VM) exec(chunk *Chunk, regs []interp.Value, depth int) (interp.Value, error) {
	if depth > maxFrames {
		return nil, vm.vmError("bytecode: stack overflow: max frame depth %d exceeded", maxFrames)
	}
	pc := 0
	for pc < len(chunk.Code) {
		instr := chunk.Code[pc]
		op := instr.Op()
		switch op {
		case OpMove:
			_, a, b, _ := instr.Decode()
			regs[a] = regs[b]
		case OpLoadK:
			_, a, bx := instr.DecodeBx()
			regs[a] = chunk.Constants[bx]
		case OpLoadNil:
			_, a, _, _ := instr.Decode()
			regs[a] = interp.Unit
		case OpLoadBool:
			_, a, b, _ := instr.Decode()
			regs[a] = &interp.BoolValue{Value: b != 0}

		case OpAdd, OpSub, OpMul, OpDiv, OpMod, OpPow,
			OpBAnd, OpBOr, OpBXor, OpShl, OpShr:
			_, a, b, cc := instr.Decode()
			v, err := applyArith(op, regs[b], regs[cc])
			if err != nil {
				return nil, err
			}
			regs[a] = v
		case OpNeg:
			_, a, b, _ := instr.Decode()
			v, err := applyArith(OpSub, &interp.IntegerValue{Value: 0}, regs[b])
			if err != nil {
				return nil, err
			}
			regs[a] = v
		case OpNot:
			_, a, b, _ := instr.Decode()
			regs[a] = &interp.BoolValue{Value: !asBool(regs[b])}
		case OpBNot:
			_, a, b, _ := instr.Decode()
			iv, _ := regs[b].(*interp.IntegerValue)
			if iv == nil {
				return nil, vm.vmError("bytecode: ~ requires Int, got %s", regs[b].Type())
			}
			regs[a] = &interp.IntegerValue{Value: ^iv.Value}

		case OpEq, OpNeq, OpLt, OpLe, OpGt, OpGe:
			_, a, b, cc := instr.Decode()
			v, err := applyCompare(op, regs[b], regs[cc])
			if err != nil {
				return nil, err
			}
			regs[a] = v

		case OpJmp:
			_, _, sbx := instr.DecodeSBx()
			pc += sbx
		case OpJmpIfFalse:
			_, a, sbx := instr.DecodeSBx()
			if !asBool(regs[a]) {
				pc += sbx
			}
		case OpJmpIfTrue:
			_, a, sbx := instr.DecodeSBx()
			if asBool(regs[a]) {
				pc += sbx
			}
		case OpForPrep:
			_, _, sbx := instr.DecodeSBx()
			pc += sbx
		case OpForLoop:
			_, a, sbx := instr.DecodeSBx()
			cur, _ := regs[a].(*interp.IntegerValue)
			limit, _ := regs[a+1].(*interp.IntegerValue)
			step, _ := regs[a+2].(*interp.IntegerValue)
			if cur == nil || limit == nil || step == nil {
				return nil, vm.vmError("bytecode: FORLOOP requires Int registers")
			}
			next := cur.Value + step.Value
			within := next < limit.Value
			if step.Value < 0 {
				within = next > limit.Value
			}
			if within {
				regs[a] = &interp.IntegerValue{Value: next}
				regs[a+3] = &interp.IntegerValue{Value: next}
				pc += sbx
			}

		case OpCall:
			_, a, b, _ := instr.Decode()
			nargs := b - 1
			result, err := vm.call(regs[a], regs[a+1:a+1+nargs], depth)
			if err != nil {
				return nil, err
			}
			regs[a] = result
		case OpReturn:
			_, a, _, _ := instr.Decode()
			return regs[a], nil

		case OpTuple:
			_, a, b, cc := instr.Decode()
			elems := make([]interp.Value, cc)
			for i := 0; i < cc; i++ {
				elems[i] = regs[b+i]
			}
			regs[a] = &interp.TupleValue{Elements: elems}
		case OpTupleGet:
			_, a, b, cc := instr.Decode()
			t, ok := regs[b].(*interp.TupleValue)
			if !ok || cc >= len(t.Elements) {
				return nil, vm.vmError("bytecode: tuple index %d out of range", cc)
			}
			regs[a] = t.Elements[cc]

		case OpGetGlobal:
			_, a, bx := instr.DecodeBx()
			name := chunk.Constants[bx].(*interp.StringValue).Value
			v, ok := vm.env.Get(name)
			if !ok {
				return nil, vm.vmError("bytecode: undefined global %q", name)
			}
			regs[a] = v
		case OpSetGlobal:
			_, a, bx := instr.DecodeBx()
			name := chunk.Constants[bx].(*interp.StringValue).Value
			if err := vm.env.Set(name, regs[a]); err != nil {
				vm.env.Define(name, regs[a])
			}

		case OpMethCall, OpMatch, OpEval:
			_, a, b, _ := instr.Decode()
			ec := chunk.Exprs[b]
			env := snapshotEnv(vm.env, ec.Locals, regs)
			sig := vm.interp.Eval(env, ec.Expr)
			if sig.RunErr != nil {
				return nil, sig.RunErr
			}
			regs[a] = sig.Value

		case OpClosure:
			_, a, bx := instr.DecodeBx()
			ec := chunk.Exprs[bx]
			env := snapshotEnv(vm.env, ec.Locals, regs)
			sig := vm.interp.Eval(env, ec.Expr)
			if sig.RunErr != nil {
				return nil, sig.RunErr
			}
			regs[a] = sig.Value

		case OpHalt:
			return interp.Unit, nil

		default:
			return nil, vm.vmError("bytecode: unimplemented opcode %s", op)
		}
		pc++
	}
	return interp.Unit, nil
}

// call dispatches a CALL's callee: a *FunctionValue recurses straight
// back into the VM on a fresh register window; anything else (a
// *interp.ClosureValue, *interp.BuiltinValue, ...) goes through the
// interpreter's own calling convention, since it already knows how to
// bind params, push a call-stack frame, and run the body.
func (vm *VM) call(callee interp.Value, args []interp.Value, depth int) (interp.Value, error) {
	if fv, ok := callee.(*FunctionValue); ok {
		frame := make([]interp.Value, fv.Chunk.NumRegs)
		copy(frame, args)
		return vm.exec(fv.Chunk, frame, depth+1)
	}
	return vm.interp.CallValue(callee, args)
}

func asBool(v interp.Value) bool {
	b, ok := v.(*interp.BoolValue)
	return ok && b.Value
}
