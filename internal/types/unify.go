package types

import "fmt"

// Unify resolves a and b against the engine's current substitution, then
// grows that substitution with their most general unifier. Numeric
// literals unify Int/Float loosely with an unconstrained numeric type
// variable is not modeled here; instead literal inference picks Int
// unless a float-shaped literal is seen, and arithmetic simply unifies
// both operands, which is enough for spec's numeric tower without a
// separate typeclass machinery.
func (e *Engine) Unify(a, b Type) error {
	a = e.subst.Apply(a)
	b = e.subst.Apply(b)

	if av, ok := a.(*TVar); ok {
		return e.bind(av, b)
	}
	if bv, ok := b.(*TVar); ok {
		return e.bind(bv, a)
	}

	switch av := a.(type) {
	case *TCon:
		bv, ok := b.(*TCon)
		if !ok || av.Name != bv.Name || len(av.Args) != len(bv.Args) {
			return fmt.Errorf("cannot unify %s with %s", a, b)
		}
		for i := range av.Args {
			if err := e.Unify(av.Args[i], bv.Args[i]); err != nil {
				return err
			}
		}
		return nil

	case *TFunc:
		bv, ok := b.(*TFunc)
		if !ok || len(av.Params) != len(bv.Params) {
			return fmt.Errorf("cannot unify %s with %s", a, b)
		}
		for i := range av.Params {
			if err := e.Unify(av.Params[i], bv.Params[i]); err != nil {
				return err
			}
		}
		return e.Unify(av.Ret, bv.Ret)

	case *TTuple:
		bv, ok := b.(*TTuple)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return fmt.Errorf("cannot unify %s with %s", a, b)
		}
		for i := range av.Elements {
			if err := e.Unify(av.Elements[i], bv.Elements[i]); err != nil {
				return err
			}
		}
		return nil

	case *TRef:
		bv, ok := b.(*TRef)
		if !ok {
			return fmt.Errorf("cannot unify %s with %s", a, b)
		}
		return e.Unify(av.Target, bv.Target)

	case *TArray:
		bv, ok := b.(*TArray)
		if !ok || av.Len != bv.Len {
			return fmt.Errorf("cannot unify %s with %s", a, b)
		}
		return e.Unify(av.Elem, bv.Elem)
	}

	return fmt.Errorf("cannot unify %s with %s", a, b)
}

func (e *Engine) bind(v *TVar, t Type) error {
	if tv, ok := t.(*TVar); ok && tv.ID == v.ID {
		return nil
	}
	if occurs(v.ID, t) {
		return fmt.Errorf("infinite type: t%d occurs in %s", v.ID, t)
	}
	e.subst[v.ID] = t
	return nil
}

func occurs(id int, t Type) bool {
	vars := map[int]bool{}
	freeVars(t, vars)
	return vars[id]
}
