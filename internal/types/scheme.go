package types

// Scheme is a let-generalized type: Vars are the type-variable IDs that
// are universally quantified (free to instantiate fresh on each use of
// the binding), everything else in Type is shared across all uses.
type Scheme struct {
	Vars []int
	Type Type
}

// Generalize produces a Scheme for t, quantifying over every free
// variable in t that is not also free somewhere in the enclosing scope
// chain (env) — the standard let-polymorphism rule: a binding may only
// generalize over variables it alone introduced.
func Generalize(ctx *Context, t Type) Scheme {
	resolved := ctx.engine.subst.Apply(t)
	tvars := map[int]bool{}
	freeVars(resolved, tvars)

	envVars := map[int]bool{}
	for c := ctx; c != nil; c = c.parent {
		for _, sch := range c.vars {
			schType := ctx.engine.subst.Apply(sch.Type)
			bound := map[int]bool{}
			for _, v := range sch.Vars {
				bound[v] = true
			}
			free := map[int]bool{}
			freeVars(schType, free)
			for id := range free {
				if !bound[id] {
					envVars[id] = true
				}
			}
		}
	}

	var vars []int
	for id := range tvars {
		if !envVars[id] {
			vars = append(vars, id)
		}
	}
	return Scheme{Vars: vars, Type: resolved}
}

// Instantiate replaces every quantified variable in sch with a fresh one,
// so each use of a polymorphic binding gets its own independent unification.
func Instantiate(ctx *Context, sch Scheme) Type {
	if len(sch.Vars) == 0 {
		return sch.Type
	}
	mapping := make(Subst, len(sch.Vars))
	for _, v := range sch.Vars {
		mapping[v] = ctx.Fresh()
	}
	return mapping.Apply(sch.Type)
}

// monoScheme wraps a concrete type with no quantified variables, for
// ordinary (non-generalized) bindings such as function parameters.
func monoScheme(t Type) Scheme { return Scheme{Type: t} }
