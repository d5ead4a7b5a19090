package jit

import "github.com/velalang/vela/internal/ast"

// CompileProgram JIT-compiles every fn in fns, allowing calls between
// them (including mutual and self recursion) the same way
// internal/bytecode.CompileProgram does: every function gets a
// *Compiled stub up front so IRCall targets resolve to a stable
// pointer, then each body is lowered and compiled in turn, filling the
// stub in place.
//
// If any function's body contains a construct outside the JIT's
// supported subset, CompileProgram returns an *UnsupportedError naming
// it and no functions at all — the JIT never partially compiles a
// function. cmd/velac reports that error; it does not re-run the program
// through internal/interp.
func CompileProgram(fns []*ast.Function) (map[string]*Compiled, error) {
	funcs := make(map[string]*Compiled, len(fns))
	for _, fn := range fns {
		funcs[fn.Name] = &Compiled{Name: fn.Name, Arity: len(fn.Params)}
	}
	for _, fn := range fns {
		body, numSlots, err := lowerFunction(fn, funcs)
		if err != nil {
			return nil, err
		}
		c := funcs[fn.Name]
		c.NumSlots = numSlots
		c.body = compileNode(body)
	}
	return funcs, nil
}

// Compile JIT-compiles a single function in isolation; it may still
// call itself recursively, but not any sibling not passed in.
func Compile(fn *ast.Function) (*Compiled, error) {
	funcs, err := CompileProgram([]*ast.Function{fn})
	if err != nil {
		return nil, err
	}
	return funcs[fn.Name], nil
}
