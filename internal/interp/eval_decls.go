package interp

import "github.com/velalang/vela/internal/ast"

// evalStructDecl registers the struct's field order (for reflection,
// printing, and pattern matching) and binds a constructor builtin in env
// under the struct's name, so `Point(1, 2)` is just an ordinary call.
func (i *Interpreter) evalStructDecl(env *Environment, n *ast.Struct) Signal {
	i.structs[n.Name] = n
	fieldOrder := make([]string, len(n.Fields))
	for idx, f := range n.Fields {
		fieldOrder[idx] = f.Name
	}
	name := n.Name
	env.Define(name, &BuiltinValue{
		Name: name,
		Args: len(n.Fields),
		Fn: func(args []Value) (Value, error) {
			fields := make(map[string]Value, len(args))
			for idx, a := range args {
				if idx < len(fieldOrder) {
					fields[fieldOrder[idx]] = a
				}
			}
			return &StructValue{StructName: name, Fields: fields, FieldOrder: fieldOrder}, nil
		},
	})
	return val(Unit)
}

// evalEnumDecl registers the enum so evalPath can resolve Enum::Variant
// constructors; it binds no name in env itself (variants are reached only
// through the Enum:: path form, matching the typechecker's registration).
func (i *Interpreter) evalEnumDecl(env *Environment, n *ast.Enum) Signal {
	i.enums[n.Name] = n
	return val(Unit)
}

// evalImplDecl registers n's methods, keyed by the target type's head
// name, so evalMethodCall can find them later — it does not evaluate
// method bodies now, only records them (bodies run per-call with `self`
// bound to the receiver).
func (i *Interpreter) evalImplDecl(env *Environment, n *ast.Impl) Signal {
	name := typeHeadName(n.TargetType)
	i.impls[name] = append(i.impls[name], n)
	return val(Unit)
}

func typeHeadName(t ast.Type) string {
	if nt, ok := t.(*ast.NamedType); ok {
		return nt.Name
	}
	return ""
}

// evalModule evaluates a `mod name { ... }` body directly into the
// enclosing scope's declarations today; Vela's module system does not yet
// need namespace isolation at the interpreter level since name resolution
// is handled lexically, matching how the teacher treats DWScript units as
// flat declaration sets loaded into one global registry.
func (i *Interpreter) evalModule(env *Environment, n *ast.Module) Signal {
	if n.Body == nil {
		return val(Unit)
	}
	return i.evalBlock(env, n.Body)
}
