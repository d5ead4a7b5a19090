package types

import (
	"fmt"

	"github.com/velalang/vela/internal/token"
)

// loopFrame tracks the value type a `loop { ... break x }` expression
// resolves to; while/for loops always type Unit and never push one.
type loopFrame struct{ breakType Type }

// Engine is the inference run's shared state: the substitution every
// Context's Unify grows, the fresh type-variable counter, the global
// struct/enum/trait/impl registries, the current function's return-type
// target (for `return`/`throw` inside nested blocks), the active loop
// stack (for `break`), and the accumulated diagnostics.
type Engine struct {
	subst   Subst
	nextVar int

	structs map[string]*StructDef
	enums   map[string]*EnumDef
	traits  map[string]*TraitDef
	impls   map[string][]*ImplDef
	aliases map[string]Type

	returnStack []Type
	loopStack   []*loopFrame

	errors []*InferError
}

func newEngine() *Engine {
	return &Engine{
		subst:   Subst{},
		structs: map[string]*StructDef{},
		enums:   map[string]*EnumDef{},
		traits:  map[string]*TraitDef{},
		impls:   map[string][]*ImplDef{},
		aliases: map[string]Type{},
	}
}

func (e *Engine) fresh() *TVar {
	e.nextVar++
	return &TVar{ID: e.nextVar}
}

func (e *Engine) errorf(pos token.Position, format string, args ...interface{}) {
	e.errors = append(e.errors, &InferError{Message: fmt.Sprintf(format, args...), Pos: pos})
}

// Context is a lexical scope: value bindings (Scheme, for let-polymorphism)
// and type-level bindings (generic parameters in scope), chained to an
// outer scope exactly the way the teacher's SymbolTable chains to outer.
type Context struct {
	parent *Context
	vars   map[string]Scheme
	tyvars map[string]Type
	engine *Engine
}

func newRootContext(e *Engine) *Context {
	return &Context{vars: map[string]Scheme{}, tyvars: map[string]Type{}, engine: e}
}

func (c *Context) Child() *Context {
	return &Context{parent: c, vars: map[string]Scheme{}, tyvars: map[string]Type{}, engine: c.engine}
}

func (c *Context) Fresh() Type { return c.engine.fresh() }

func (c *Context) Define(name string, sch Scheme) { c.vars[name] = sch }

func (c *Context) DefineMono(name string, t Type) { c.vars[name] = monoScheme(t) }

func (c *Context) Lookup(name string) (Scheme, bool) {
	for ctx := c; ctx != nil; ctx = ctx.parent {
		if sch, ok := ctx.vars[name]; ok {
			return sch, true
		}
	}
	return Scheme{}, false
}

func (c *Context) DefineTypeVar(name string, t Type) { c.tyvars[name] = t }

func (c *Context) LookupTypeVar(name string) (Type, bool) {
	for ctx := c; ctx != nil; ctx = ctx.parent {
		if t, ok := ctx.tyvars[name]; ok {
			return t, true
		}
	}
	return nil, false
}

func (c *Context) Unify(pos token.Position, a, b Type) Type {
	if err := c.engine.Unify(a, b); err != nil {
		c.engine.errorf(pos, "%s", err)
	}
	return c.engine.subst.Apply(a)
}

func (c *Context) Apply(t Type) Type { return c.engine.subst.Apply(t) }

func (c *Context) errorf(pos token.Position, format string, args ...interface{}) {
	c.engine.errorf(pos, format, args...)
}

func (c *Context) pushReturn(t Type) { c.engine.returnStack = append(c.engine.returnStack, t) }
func (c *Context) popReturn()        { c.engine.returnStack = c.engine.returnStack[:len(c.engine.returnStack)-1] }
func (c *Context) currentReturn() (Type, bool) {
	if len(c.engine.returnStack) == 0 {
		return nil, false
	}
	return c.engine.returnStack[len(c.engine.returnStack)-1], true
}

func (c *Context) pushLoop() *loopFrame {
	f := &loopFrame{}
	c.engine.loopStack = append(c.engine.loopStack, f)
	return f
}
func (c *Context) popLoop() { c.engine.loopStack = c.engine.loopStack[:len(c.engine.loopStack)-1] }
func (c *Context) currentLoop() (*loopFrame, bool) {
	if len(c.engine.loopStack) == 0 {
		return nil, false
	}
	return c.engine.loopStack[len(c.engine.loopStack)-1], true
}
