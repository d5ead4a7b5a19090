package interp

import (
	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/token"
)

// evalFunction defines a named function in env as a closure over env
// itself (so it can recurse and see enclosing bindings) and returns Unit,
// matching a `let`-style declaration rather than an expression value.
func (i *Interpreter) evalFunction(env *Environment, n *ast.Function) Signal {
	closure := &ClosureValue{Name: n.Name, Params: n.Params, Body: n.Body, Env: env, IsAsync: n.IsAsync}
	env.Define(n.Name, closure)
	return val(Unit)
}

func (i *Interpreter) makeClosure(env *Environment, n *ast.Lambda) *ClosureValue {
	c := &ClosureValue{Params: n.Params, Env: env, IsAsync: n.IsAsync}
	if b, ok := n.Body.(*ast.Block); ok {
		c.Body = b
	} else {
		c.BodyExp = n.Body
	}
	return c
}

func (i *Interpreter) evalFieldAccess(env *Environment, n *ast.FieldAccess) Signal {
	objSig := i.Eval(env, n.Target)
	if objSig.isExit() {
		return objSig
	}
	switch obj := objSig.Value.(type) {
	case *StructValue:
		fv, ok := obj.Fields[n.Field]
		if !ok {
			return i.runtimeError(n, "%s has no field %q", obj.StructName, n.Field)
		}
		return val(fv)
	case *EnumValue:
		if obj.Fields != nil {
			if fv, ok := obj.Fields[n.Field]; ok {
				return val(fv)
			}
		}
		return i.runtimeError(n, "%s::%s has no field %q", obj.EnumName, obj.Variant, n.Field)
	case *ObjectValue:
		fv, ok := obj.Fields[n.Field]
		if !ok {
			return i.runtimeError(n, "object has no field %q", n.Field)
		}
		return val(fv)
	case *TupleValue:
		idx, ok := tupleFieldIndex(n.Field)
		if !ok || idx >= len(obj.Elements) {
			return i.runtimeError(n, "tuple has no field %q", n.Field)
		}
		return val(obj.Elements[idx])
	}
	return i.runtimeError(n, "%s has no fields", objSig.Value.Type())
}

func tupleFieldIndex(field string) (int, bool) {
	switch field {
	case "0":
		return 0, true
	case "1":
		return 1, true
	case "2":
		return 2, true
	case "3":
		return 3, true
	case "4":
		return 4, true
	case "5":
		return 5, true
	case "6":
		return 6, true
	case "7":
		return 7, true
	}
	return 0, false
}

func (i *Interpreter) evalIndexAccess(env *Environment, n *ast.IndexAccess) Signal {
	objSig := i.Eval(env, n.Target)
	if objSig.isExit() {
		return objSig
	}
	idxSig := i.Eval(env, n.Index)
	if idxSig.isExit() {
		return idxSig
	}

	if obj, ok := objSig.Value.(*ObjectValue); ok {
		fv, ok := obj.Fields[idxSig.Value.String()]
		if !ok {
			return i.runtimeError(n, "key %q not found", idxSig.Value.String())
		}
		return val(fv)
	}
	ix, ok := objSig.Value.(IndexableValue)
	if !ok {
		return i.runtimeError(n, "%s is not indexable", objSig.Value.Type())
	}
	idx, ok := idxSig.Value.(*IntegerValue)
	if !ok {
		return i.runtimeError(n, "index must be Int, got %s", idxSig.Value.Type())
	}
	v, err := ix.GetIndex(idx.Value)
	if err != nil {
		return i.runtimeError(n, "%s", err)
	}
	return val(v)
}

// evalMethodCall resolves n.Method against the target's registered impls
// (by the target value's runtime type name), falling back to a small set
// of built-in methods on list/string/object/dataframe values (see
// evalBuiltinMethod; lists have no map or filter method), grounded on the teacher's adapter_methods.go dispatch
// table pattern.
func (i *Interpreter) evalMethodCall(env *Environment, n *ast.MethodCall) Signal {
	objSig := i.Eval(env, n.Target)
	if objSig.isExit() {
		return objSig
	}
	args := make([]Value, len(n.Args))
	for idx, a := range n.Args {
		as := i.Eval(env, a)
		if as.isExit() {
			return as
		}
		args[idx] = as.Value
	}

	if fn, ok := i.lookupUserMethod(objSig.Value, n.Method); ok {
		return i.callClosure(n, fn, append([]Value{objSig.Value}, args...))
	}
	if v, err, handled := evalBuiltinMethod(i, n, objSig.Value, n.Method, args); handled {
		if err != nil {
			return i.runtimeError(n, "%s", err)
		}
		return val(v)
	}
	return i.runtimeError(n, "%s has no method %q", objSig.Value.Type(), n.Method)
}

// lookupUserMethod finds a method defined via `impl ... { fn name(self, ...) }`
// for recv's runtime type name.
func (i *Interpreter) lookupUserMethod(recv Value, name string) (*ClosureValue, bool) {
	typeName := recv.Type()
	for _, impl := range i.impls[typeName] {
		for _, m := range impl.Methods {
			if m.Name == name {
				return &ClosureValue{Name: m.Name, Params: m.Params, Body: m.Body, Env: i.env}, true
			}
		}
	}
	return nil, false
}

func (i *Interpreter) evalCall(env *Environment, n *ast.Call) Signal {
	calleeSig := i.Eval(env, n.Callee)
	if calleeSig.isExit() {
		return calleeSig
	}
	args := make([]Value, len(n.Args))
	for idx, a := range n.Args {
		as := i.Eval(env, a)
		if as.isExit() {
			return as
		}
		args[idx] = as.Value
	}
	return i.callValue(n, calleeSig.Value, args)
}

// callValueWith evaluates calleeExpr in env and calls it with args — used
// by evalPipeline where the callee is still an unevaluated expression.
func (i *Interpreter) callValueWith(env *Environment, n ast.Expr, calleeExpr ast.Expr, args []Value) Signal {
	calleeSig := i.Eval(env, calleeExpr)
	if calleeSig.isExit() {
		return calleeSig
	}
	return i.callValue(n, calleeSig.Value, args)
}

// CallValue exposes callValue to internal/bytecode, so the register VM's
// CALL opcode can invoke a *ClosureValue/*BuiltinValue the same way the
// tree-walking interpreter does, without duplicating frame-push/param-bind
// logic. There is no source expression at the call site inside compiled
// code, so errors are reported at an empty position.
func (i *Interpreter) CallValue(callee Value, args []Value) (Value, error) {
	sig := i.callValue(nil, callee, args)
	if sig.RunErr != nil {
		return nil, sig.RunErr
	}
	return sig.Value, nil
}

func (i *Interpreter) callValue(n ast.Expr, callee Value, args []Value) Signal {
	switch fn := callee.(type) {
	case *ClosureValue:
		return i.callClosure(n, fn, args)
	case *BuiltinValue:
		v, err := fn.Fn(args)
		if err != nil {
			return i.runtimeError(n, "%s", err)
		}
		return val(v)
	}
	return i.runtimeError(n, "%s is not callable", callee.Type())
}

// callClosure pushes a call-stack frame (for RuntimeError/stack-trace
// reporting and the recursion-depth guard), binds parameters into a fresh
// scope enclosed by the closure's defining environment, evaluates the
// body, and absorbs a SigReturn into a plain value.
func (i *Interpreter) callClosure(n ast.Expr, fn *ClosureValue, args []Value) Signal {
	var pos = tokenPosOf(n)
	if err := i.pushFrame(fn.Name, pos); err != nil {
		return i.runtimeError(n, "%s", err)
	}
	defer i.popFrame()

	callEnv := NewEnclosedEnvironment(fn.Env)
	for idx, p := range fn.Params {
		if idx < len(args) {
			callEnv.Define(p.Name, args[idx])
			continue
		}
		if p.Default != nil {
			d := i.Eval(callEnv, p.Default)
			if d.isExit() {
				return d
			}
			callEnv.Define(p.Name, d.Value)
			continue
		}
		return i.runtimeError(n, "missing argument %q calling %s", p.Name, fn.String())
	}

	var sig Signal
	if fn.Body != nil {
		sig = i.evalBlock(callEnv, fn.Body)
	} else {
		sig = i.Eval(callEnv, fn.BodyExp)
	}
	if sig.Kind == SigReturn {
		return val(sig.Value)
	}
	return sig
}

func tokenPosOf(n ast.Expr) token.Position {
	if n == nil {
		return token.Position{}
	}
	return n.Span().Pos
}
