package interp

import "github.com/velalang/vela/internal/ast"

// evalIf evaluates n.Cond; if true, evaluates Then, else Else (a *Block,
// an *If for an else-if chain, or nil for no else branch, returning Unit).
func (i *Interpreter) evalIf(env *Environment, n *ast.If) Signal {
	cond := i.Eval(env, n.Cond)
	if cond.isExit() {
		return cond
	}
	if asBool(cond.Value) {
		return i.evalBlockScoped(env, n.Then)
	}
	if n.Else == nil {
		return val(Unit)
	}
	return i.Eval(env, n.Else)
}

// evalMatch evaluates n.Subject, then tries each arm's pattern in order,
// binding matched names into a fresh child scope per arm and honoring an
// optional boolean guard; the first matching arm (with a true guard, if
// any) supplies the result.
func (i *Interpreter) evalMatch(env *Environment, n *ast.Match) Signal {
	subj := i.Eval(env, n.Subject)
	if subj.isExit() {
		return subj
	}
	for _, arm := range n.Arms {
		child := NewEnclosedEnvironment(env)
		if !matchPattern(child, arm.Pattern, subj.Value) {
			continue
		}
		if arm.Guard != nil {
			g := i.Eval(child, arm.Guard)
			if g.isExit() {
				return g
			}
			if !asBool(g.Value) {
				continue
			}
		}
		return i.Eval(child, arm.Body)
	}
	return i.runtimeError(n, "no match arm matched value %s", subj.Value.String())
}

// evalWhile loops while n.Cond is true; the loop body always types and
// evaluates to Unit (matching inferWhile's Unit typing), but break/
// continue still propagate and are absorbed here.
func (i *Interpreter) evalWhile(env *Environment, n *ast.While) Signal {
	for {
		cond := i.Eval(env, n.Cond)
		if cond.isExit() {
			return cond
		}
		if !asBool(cond.Value) {
			return val(Unit)
		}
		sig := i.evalBlockScoped(env, n.Body)
		if sig.Kind == SigBreak && matchesLabel(sig.Label, n.Label) {
			return val(Unit)
		}
		if sig.Kind == SigContinue && matchesLabel(sig.Label, n.Label) {
			continue
		}
		if sig.isExit() {
			return sig
		}
	}
}

// evalFor iterates n.Iter (must implement IterableValue), binding each
// element against n.Pattern in a fresh per-iteration scope.
func (i *Interpreter) evalFor(env *Environment, n *ast.For) Signal {
	iterSig := i.Eval(env, n.Iter)
	if iterSig.isExit() {
		return iterSig
	}
	iterable, ok := iterSig.Value.(IterableValue)
	if !ok {
		return i.runtimeError(n, "%s is not iterable", iterSig.Value.Type())
	}
	it := iterable.Iterator()
	for it.Next() {
		child := NewEnclosedEnvironment(env)
		if !matchPattern(child, n.Pattern, it.Current()) {
			return i.runtimeError(n, "for-loop pattern did not match element %s", it.Current().String())
		}
		sig := i.evalBlock(child, n.Body)
		if sig.Kind == SigBreak && matchesLabel(sig.Label, n.Label) {
			return val(Unit)
		}
		if sig.Kind == SigContinue && matchesLabel(sig.Label, n.Label) {
			continue
		}
		if sig.isExit() {
			return sig
		}
	}
	return val(Unit)
}

// evalLoop repeats n.Body until a matching `break` fires; unlike while/for,
// loop's result is the break's value (Unit if the break carried none),
// mirroring inferLoop's break-typed result.
func (i *Interpreter) evalLoop(env *Environment, n *ast.Loop) Signal {
	for {
		sig := i.evalBlockScoped(env, n.Body)
		if sig.Kind == SigBreak && matchesLabel(sig.Label, n.Label) {
			if sig.Value != nil {
				return val(sig.Value)
			}
			return val(Unit)
		}
		if sig.Kind == SigContinue && matchesLabel(sig.Label, n.Label) {
			continue
		}
		if sig.isExit() {
			return sig
		}
	}
}

func matchesLabel(sigLabel, loopLabel string) bool {
	return sigLabel == "" || sigLabel == loopLabel
}

func (i *Interpreter) evalBreak(env *Environment, n *ast.Break) Signal {
	if n.Value == nil {
		return Signal{Kind: SigBreak, Label: n.Label}
	}
	v := i.Eval(env, n.Value)
	if v.isExit() {
		return v
	}
	return Signal{Kind: SigBreak, Value: v.Value, Label: n.Label}
}

func (i *Interpreter) evalReturn(env *Environment, n *ast.Return) Signal {
	if n.Value == nil {
		return Signal{Kind: SigReturn, Value: Unit}
	}
	v := i.Eval(env, n.Value)
	if v.isExit() {
		return v
	}
	return Signal{Kind: SigReturn, Value: v.Value}
}

func (i *Interpreter) evalThrow(env *Environment, n *ast.Throw) Signal {
	v := i.Eval(env, n.Value)
	if v.isExit() {
		return v
	}
	return Signal{Kind: SigThrow, Value: v.Value}
}

// evalTryCatch runs Body; if it exits with SigThrow, binds the thrown
// value to CatchName in a fresh scope and runs CatchBody instead. Any
// other exit kind (break/continue/return) passes through untouched.
func (i *Interpreter) evalTryCatch(env *Environment, n *ast.TryCatch) Signal {
	sig := i.evalBlockScoped(env, n.Body)
	if sig.Kind != SigThrow || sig.RunErr != nil {
		return sig
	}
	child := NewEnclosedEnvironment(env)
	child.Define(n.CatchName, sig.Value)
	return i.evalBlock(child, n.CatchBody)
}

func asBool(v Value) bool {
	b, ok := v.(*BoolValue)
	return ok && b.Value
}
