package interp

import (
	"github.com/velalang/vela/internal/ast"
)

func (i *Interpreter) evalTuple(env *Environment, n *ast.Tuple) Signal {
	elems := make([]Value, len(n.Elements))
	for idx, e := range n.Elements {
		s := i.Eval(env, e)
		if s.isExit() {
			return s
		}
		elems[idx] = s.Value
	}
	return val(&TupleValue{Elements: elems})
}

func (i *Interpreter) evalList(env *Environment, n *ast.List) Signal {
	elems := make([]Value, len(n.Elements))
	for idx, e := range n.Elements {
		s := i.Eval(env, e)
		if s.isExit() {
			return s
		}
		elems[idx] = s.Value
	}
	return val(&ArrayValue{Elements: elems})
}

// evalSet evaluates a `{a, b, c}` literal to an ArrayValue with duplicate
// elements removed, matching how Vela has no dedicated set value type and
// instead treats Set as a uniqueness-enforced List at the value level.
func (i *Interpreter) evalSet(env *Environment, n *ast.Set) Signal {
	var elems []Value
	for _, e := range n.Elements {
		s := i.Eval(env, e)
		if s.isExit() {
			return s
		}
		if !containsValue(elems, s.Value) {
			elems = append(elems, s.Value)
		}
	}
	return val(&ArrayValue{Elements: elems})
}

func containsValue(elems []Value, v Value) bool {
	for _, e := range elems {
		if eq, err := valuesEqual(e, v); err == nil && eq {
			return true
		}
	}
	return false
}

// evalDict evaluates a `{k: v, ...}` literal to an ObjectValue keyed by the
// String() rendering of each evaluated key, the same bridge representation
// used for JSON objects (to_json/from_json).
func (i *Interpreter) evalDict(env *Environment, n *ast.Dict) Signal {
	fields := make(map[string]Value, len(n.Entries))
	for _, entry := range n.Entries {
		k := i.Eval(env, entry.Key)
		if k.isExit() {
			return k
		}
		v := i.Eval(env, entry.Value)
		if v.isExit() {
			return v
		}
		fields[k.Value.String()] = v.Value
	}
	return val(&ObjectValue{Fields: fields})
}

// evalComprehension evaluates `[result for pattern in iter if cond]` and its
// set/dict variants by iterating iter's IterableValue, binding pattern in a
// fresh per-iteration scope, and filtering via cond before collecting.
func (i *Interpreter) evalComprehension(env *Environment, n *ast.Comprehension) Signal {
	iterSig := i.Eval(env, n.Iter)
	if iterSig.isExit() {
		return iterSig
	}
	iterable, ok := iterSig.Value.(IterableValue)
	if !ok {
		return i.runtimeError(n, "%s is not iterable", iterSig.Value.Type())
	}

	var elems []Value
	fields := map[string]Value{}
	it := iterable.Iterator()
	for it.Next() {
		scope := NewEnclosedEnvironment(env)
		if !matchPattern(scope, n.Pattern, it.Current()) {
			continue
		}
		if n.Cond != nil {
			cond := i.Eval(scope, n.Cond)
			if cond.isExit() {
				return cond
			}
			if !asBool(cond.Value) {
				continue
			}
		}
		result := i.Eval(scope, n.Result)
		if result.isExit() {
			return result
		}
		switch {
		case n.IsDict:
			key := i.Eval(scope, n.KeyExpr)
			if key.isExit() {
				return key
			}
			fields[key.Value.String()] = result.Value
		case n.IsSet:
			if !containsValue(elems, result.Value) {
				elems = append(elems, result.Value)
			}
		default:
			elems = append(elems, result.Value)
		}
	}
	if n.IsDict {
		return val(&ObjectValue{Fields: fields})
	}
	return val(&ArrayValue{Elements: elems})
}

// evalMacroInvocation handles the small set of macro-like builtins that
// need access to unevaluated argument shape rather than a plain call: only
// `vec!` (optionally with a `vec![value; n]` repeat form) is supported at
// the interpreter level, matching the type checker's special-cased
// inferMacroInvocation handling of the same construct.
func (i *Interpreter) evalMacroInvocation(env *Environment, n *ast.MacroInvocation) Signal {
	switch n.Name {
	case "vec":
		if n.RepeatCount != nil {
			if len(n.Args) != 1 {
				return i.runtimeError(n, "vec![value; n] takes exactly one value expression")
			}
			valSig := i.Eval(env, n.Args[0])
			if valSig.isExit() {
				return valSig
			}
			countSig := i.Eval(env, n.RepeatCount)
			if countSig.isExit() {
				return countSig
			}
			count, ok := countSig.Value.(*IntegerValue)
			if !ok {
				return i.runtimeError(n, "vec! repeat count must be Int")
			}
			elems := make([]Value, count.Value)
			for idx := range elems {
				if cp, ok := valSig.Value.(CopyableValue); ok {
					elems[idx] = cp.Copy()
				} else {
					elems[idx] = valSig.Value
				}
			}
			return val(&ArrayValue{Elements: elems})
		}
		elems := make([]Value, len(n.Args))
		for idx, a := range n.Args {
			s := i.Eval(env, a)
			if s.isExit() {
				return s
			}
			elems[idx] = s.Value
		}
		return val(&ArrayValue{Elements: elems})
	}
	return i.runtimeError(n, "unknown macro %q!", n.Name)
}

func (i *Interpreter) evalDataFrame(env *Environment, n *ast.DataFrame) Signal {
	cols := make(map[string][]Value, len(n.Columns))
	order := make([]string, len(n.Columns))
	for idx, col := range n.Columns {
		order[idx] = col.Name
		values := make([]Value, len(col.Values))
		for vi, ve := range col.Values {
			s := i.Eval(env, ve)
			if s.isExit() {
				return s
			}
			values[vi] = s.Value
		}
		cols[col.Name] = values
	}
	for idx := 1; idx < len(order); idx++ {
		if len(cols[order[idx]]) != len(cols[order[0]]) {
			return i.runtimeError(n, "dataframe columns must have equal length")
		}
	}
	return val(&DataFrameValue{Columns: cols, ColumnOrder: order})
}
