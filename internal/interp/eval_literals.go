package interp

import (
	"strings"

	"github.com/velalang/vela/internal/ast"
)

func (i *Interpreter) evalFString(env *Environment, n *ast.FString) Signal {
	var sb strings.Builder
	for _, part := range n.Parts {
		if part.Expr == nil {
			sb.WriteString(part.Text)
			continue
		}
		v := i.Eval(env, part.Expr)
		if v.isExit() {
			return v
		}
		sb.WriteString(v.Value.String())
	}
	return val(&StringValue{Value: sb.String()})
}

func (i *Interpreter) evalIdentifier(env *Environment, n *ast.Identifier) Signal {
	v, ok := env.Get(n.Name)
	if !ok {
		return i.runtimeError(n, "undefined name %q", n.Name)
	}
	return val(v)
}

// evalPath resolves an `Enum::Variant`-shaped path to its constructor: a
// bare EnumValue for a unit variant, or a BuiltinValue taking the tuple
// payload and producing the EnumValue for a tuple/struct variant. Falls
// back to plain name lookup (module-qualified access) otherwise.
func (i *Interpreter) evalPath(env *Environment, n *ast.Path) Signal {
	if len(n.Segments) == 2 {
		if enumDef, ok := i.enums[n.Segments[0]]; ok {
			variant := findVariant(enumDef, n.Segments[1])
			if variant != nil {
				return val(enumConstructor(enumDef.Name, variant))
			}
		}
	}
	name := n.Segments[len(n.Segments)-1]
	v, ok := env.Get(name)
	if !ok {
		return i.runtimeError(n, "undefined path %q", n.String())
	}
	return val(v)
}

func findVariant(e *ast.Enum, name string) *ast.EnumVariant {
	for idx := range e.Variants {
		if e.Variants[idx].Name == name {
			return &e.Variants[idx]
		}
	}
	return nil
}

// enumConstructor builds the runtime value produced by referencing
// Enum::Variant: a bare tag for a unit variant, otherwise a builtin that
// packages its arguments as the variant's payload.
func enumConstructor(enumName string, variant *ast.EnumVariant) Value {
	if len(variant.Types) == 0 && len(variant.Fields) == 0 {
		return &EnumValue{EnumName: enumName, Variant: variant.Name}
	}
	return &BuiltinValue{
		Name: enumName + "::" + variant.Name,
		Args: len(variant.Types),
		Fn: func(args []Value) (Value, error) {
			payload := make([]Value, len(args))
			copy(payload, args)
			return &EnumValue{EnumName: enumName, Variant: variant.Name, Payload: payload}, nil
		},
	}
}
