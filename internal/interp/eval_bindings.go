package interp

import "github.com/velalang/vela/internal/ast"

func (i *Interpreter) evalLet(env *Environment, n *ast.Let) Signal {
	v := i.Eval(env, n.Value)
	if v.isExit() {
		return v
	}
	env.Define(n.Name, v.Value)
	return val(Unit)
}

func (i *Interpreter) evalLetMut(env *Environment, n *ast.LetMut) Signal {
	v := i.Eval(env, n.Value)
	if v.isExit() {
		return v
	}
	env.Define(n.Name, v.Value)
	return val(Unit)
}

func (i *Interpreter) evalVar(env *Environment, n *ast.Var) Signal {
	v := i.Eval(env, n.Value)
	if v.isExit() {
		return v
	}
	env.Define(n.Name, v.Value)
	return val(Unit)
}

func (i *Interpreter) evalConst(env *Environment, n *ast.Const) Signal {
	v := i.Eval(env, n.Value)
	if v.isExit() {
		return v
	}
	env.Define(n.Name, v.Value)
	return val(Unit)
}

func (i *Interpreter) evalStatic(env *Environment, n *ast.Static) Signal {
	v := i.Eval(env, n.Value)
	if v.isExit() {
		return v
	}
	env.Define(n.Name, v.Value)
	return val(Unit)
}

func (i *Interpreter) evalLetPattern(env *Environment, n *ast.LetPattern) Signal {
	v := i.Eval(env, n.Value)
	if v.isExit() {
		return v
	}
	if !matchPattern(env, n.Pattern, v.Value) {
		return i.runtimeError(n, "let pattern %s did not match value %s", n.Pattern, v.Value.String())
	}
	return val(Unit)
}
