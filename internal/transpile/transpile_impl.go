package transpile

import (
	"fmt"
	"strings"

	"github.com/velalang/vela/internal/ast"
)

// emitStruct lowers a struct declaration to a Go struct type plus a
// positional constructor function, mirroring the constructor
// internal/interp's evalStructDecl installs as a callable builtin
// (`Point(1, 2)`) — transpile_expr.go's call() resolves that same call
// shape to `NewPoint(1, 2)`.
func (tp *transpiler) emitStruct(s *ast.Struct) (string, error) {
	generics, genericArgs := genericClause(s.Generics)

	fields := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		t, err := tp.goType(f.Type)
		if err != nil {
			return "", err
		}
		fields[i] = fmt.Sprintf("\t%s %s\n", exportedName(f.Name), t)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "type %s%s struct {\n", s.Name, generics)
	for _, f := range fields {
		sb.WriteString(f)
	}
	sb.WriteString("}\n\n")

	params := make([]string, len(s.Fields))
	args := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		t, err := tp.goType(f.Type)
		if err != nil {
			return "", err
		}
		pname := goIdent(strings.ToLower(f.Name))
		params[i] = fmt.Sprintf("%s %s", pname, t)
		args[i] = fmt.Sprintf("%s: %s", exportedName(f.Name), pname)
	}
	fmt.Fprintf(&sb, "func New%s%s(%s) %s%s {\n\treturn %s%s{%s}\n}\n\n",
		s.Name, generics, strings.Join(params, ", "), s.Name, genericArgs, s.Name, genericArgs, strings.Join(args, ", "))

	return sb.String(), nil
}

// emitEnum lowers an algebraic enum to a sealed Go interface plus one
// struct per variant, the standard Go idiom for a closed sum type (no
// native tagged union exists): each variant struct implements a private
// marker method so only this package's variants satisfy the interface,
// and a `NewEnumVariant(...)` constructor matches how pattern-matching
// construction reads in the source (`Enum::Variant(args)`, see
// transpile_expr.go's call()/Path cases).
func (tp *transpiler) emitEnum(e *ast.Enum) (string, error) {
	generics, genericArgs := genericClause(e.Generics)
	marker := "is" + e.Name

	var sb strings.Builder
	fmt.Fprintf(&sb, "type %s%s interface {\n\t%s()\n}\n\n", e.Name, generics, marker)

	for _, v := range e.Variants {
		variantType := e.Name + exportedName(v.Name)
		var fields []string
		var params []string
		var args []string

		switch {
		case v.Fields != nil:
			for _, f := range v.Fields {
				t, err := tp.goType(f.Type)
				if err != nil {
					return "", err
				}
				fields = append(fields, fmt.Sprintf("\t%s %s\n", exportedName(f.Name), t))
				pname := goIdent(strings.ToLower(f.Name))
				params = append(params, fmt.Sprintf("%s %s", pname, t))
				args = append(args, fmt.Sprintf("%s: %s", exportedName(f.Name), pname))
			}
		case v.Types != nil:
			for i, t := range v.Types {
				goT, err := tp.goType(t)
				if err != nil {
					return "", err
				}
				fields = append(fields, fmt.Sprintf("\tF%d %s\n", i, goT))
				pname := fmt.Sprintf("v%d", i)
				params = append(params, fmt.Sprintf("%s %s", pname, goT))
				args = append(args, fmt.Sprintf("F%d: %s", i, pname))
			}
		}

		fmt.Fprintf(&sb, "type %s%s struct {\n", variantType, generics)
		for _, f := range fields {
			sb.WriteString(f)
		}
		sb.WriteString("}\n\n")
		fmt.Fprintf(&sb, "func (%s%s) %s() {}\n\n", variantType, genericArgs, marker)
		fmt.Fprintf(&sb, "func New%s%s(%s) %s%s {\n\treturn %s%s{%s}\n}\n\n",
			variantType, generics, strings.Join(params, ", "), e.Name, genericArgs, variantType, genericArgs, strings.Join(args, ", "))
	}

	return sb.String(), nil
}

// emitTrait lowers a trait declaration to a Go interface. Trait methods
// that carry a `Default` body have no Go interface equivalent (an
// interface only declares method sets; Go has no default-method
// inheritance) — the default body is not materialized into every
// implementer, a documented scope limit rather than an attempt to
// duplicate it across impls.
func (tp *transpiler) emitTrait(t *ast.Trait) (string, error) {
	generics, _ := genericClause(t.Generics)
	var sb strings.Builder
	fmt.Fprintf(&sb, "type %s%s interface {\n", t.Name, generics)
	for _, m := range t.Methods {
		params := make([]string, len(m.Params))
		for i, p := range m.Params {
			if p.Name == "self" {
				params[i] = ""
				continue
			}
			pt, err := tp.goType(p.Type)
			if err != nil {
				return "", err
			}
			params[i] = pt
		}
		params = removeEmpty(params)
		ret, err := tp.goType(m.ReturnType)
		if err != nil {
			return "", err
		}
		if _, isUnit := m.ReturnType.(*ast.UnitType); m.ReturnType == nil || isUnit {
			ret = ""
		} else {
			ret = " " + ret
		}
		fmt.Fprintf(&sb, "\t%s(%s)%s\n", exportedName(m.Name), strings.Join(params, ", "), ret)
	}
	sb.WriteString("}\n\n")
	return sb.String(), nil
}

// emitImpl lowers an impl block's methods onto Go methods with a
// pointer receiver named after the first (conventionally `self`)
// parameter the grammar always injects for impl methods (see
// internal/parser/declarations.go's bare-`self`-receiver handling).
// Pointer receivers are used uniformly, mutating or not, matching
// DESIGN.md's note on internal/interp's interior-shared value model:
// Go value-receiver methods would silently operate on a copy, diverging
// from Vela's shared-mutation semantics for compound values.
func (tp *transpiler) emitImpl(impl *ast.Impl) (string, error) {
	target, ok := impl.TargetType.(*ast.NamedType)
	if !ok {
		return "", fmt.Errorf("transpile: impl target type must be a named type")
	}
	generics, genericArgs := genericClause(impl.Generics)

	var sb strings.Builder
	for _, fn := range impl.Methods {
		if fn.IsAsync {
			return "", unsupported(fn, "async methods are not supported by the transpiler backend")
		}
		if len(fn.Params) == 0 || fn.Params[0].Name != "self" {
			return "", fmt.Errorf("transpile: impl method %s has no `self` receiver", fn.Name)
		}
		rest := fn.Params[1:]

		params := make([]string, len(rest))
		for i, p := range rest {
			t, err := tp.goType(p.Type)
			if err != nil {
				return "", err
			}
			params[i] = fmt.Sprintf("%s %s", goIdent(p.Name), t)
		}

		ret, err := tp.goType(fn.ReturnType)
		if err != nil {
			return "", err
		}
		if _, isUnit := fn.ReturnType.(*ast.UnitType); fn.ReturnType == nil || isUnit {
			ret = ""
		} else {
			ret = " " + ret
		}

		body, err := tp.compileTailBlock(fn.Body)
		if err != nil {
			return "", err
		}

		fmt.Fprintf(&sb, "func (self *%s%s) %s%s(%s)%s {\n%s}\n\n",
			target.Name, genericArgs, exportedName(fn.Name), generics, strings.Join(params, ", "), ret, body)
	}
	return sb.String(), nil
}

// genericClause returns the `[T any, U any]` declaration form and the
// bare `[T, U]` use-site form for a generics list, or two empty strings
// when names is empty (a non-generic type must not emit `[]`).
func genericClause(names []string) (decl string, use string) {
	if len(names) == 0 {
		return "", ""
	}
	declParts := make([]string, len(names))
	for i, n := range names {
		declParts[i] = n + " any"
	}
	return "[" + strings.Join(declParts, ", ") + "]", "[" + strings.Join(names, ", ") + "]"
}

func removeEmpty(ss []string) []string {
	out := ss[:0]
	for _, s := range ss {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
