package types

// Subst maps type-variable IDs to their resolved types. Unification grows
// this map; Apply walks a type through it to its current resolved shape.
type Subst map[int]Type

func (s Subst) Apply(t Type) Type {
	switch v := t.(type) {
	case *TVar:
		if bound, ok := s[v.ID]; ok {
			return s.Apply(bound)
		}
		return v
	case *TCon:
		if len(v.Args) == 0 {
			return v
		}
		args := make([]Type, len(v.Args))
		for i, a := range v.Args {
			args[i] = s.Apply(a)
		}
		return &TCon{Name: v.Name, Args: args}
	case *TFunc:
		params := make([]Type, len(v.Params))
		for i, p := range v.Params {
			params[i] = s.Apply(p)
		}
		return &TFunc{Params: params, Ret: s.Apply(v.Ret)}
	case *TTuple:
		elems := make([]Type, len(v.Elements))
		for i, e := range v.Elements {
			elems[i] = s.Apply(e)
		}
		return &TTuple{Elements: elems}
	case *TRef:
		return &TRef{Target: s.Apply(v.Target), Mut: v.Mut}
	case *TArray:
		return &TArray{Elem: s.Apply(v.Elem), Len: v.Len}
	default:
		return t
	}
}

// freeVars collects the set of unresolved type-variable IDs in t (after
// substitution), used by Generalize to decide what a let-binding may
// quantify over.
func freeVars(t Type, out map[int]bool) {
	switch v := t.(type) {
	case *TVar:
		out[v.ID] = true
	case *TCon:
		for _, a := range v.Args {
			freeVars(a, out)
		}
	case *TFunc:
		for _, p := range v.Params {
			freeVars(p, out)
		}
		freeVars(v.Ret, out)
	case *TTuple:
		for _, e := range v.Elements {
			freeVars(e, out)
		}
	case *TRef:
		freeVars(v.Target, out)
	case *TArray:
		freeVars(v.Elem, out)
	}
}
