// Package types implements Vela's Hindley-Milner type inference engine:
// constraint generation over the parser's AST, Robinson unification, and
// let-generalization, threaded through a Context the way the teacher's
// semantic analyzer threads a SymbolTable scope chain.
package types

import (
	"fmt"
	"strings"
)

// Type is the inference-time type representation — distinct from
// ast.Type, which is only the syntactic annotation the parser produced.
type Type interface {
	String() string
	isType()
}

// TVar is an unsolved type variable, resolved via the engine's
// substitution as unification proceeds.
type TVar struct{ ID int }

func (t *TVar) isType()        {}
func (t *TVar) String() string { return fmt.Sprintf("t%d", t.ID) }

// TCon is a type constructor: a nullary primitive (Int, Bool, ...) or an
// applied parameterized type (List<T>, Option<T>, a struct/enum name).
type TCon struct {
	Name string
	Args []Type
}

func (t *TCon) isType() {}
func (t *TCon) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", t.Name, strings.Join(parts, ", "))
}

// TFunc is a function type.
type TFunc struct {
	Params []Type
	Ret    Type
}

func (t *TFunc) isType() {}
func (t *TFunc) String() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}
	return fmt.Sprintf("fn(%s) -> %s", strings.Join(parts, ", "), t.Ret)
}

// TTuple is a fixed-arity heterogeneous tuple type.
type TTuple struct{ Elements []Type }

func (t *TTuple) isType() {}
func (t *TTuple) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// TRef is a reference type (`&T`, `&mut T`).
type TRef struct {
	Target Type
	Mut    bool
}

func (t *TRef) isType() {}
func (t *TRef) String() string {
	if t.Mut {
		return "&mut " + t.Target.String()
	}
	return "&" + t.Target.String()
}

// TArray is a fixed-length array type.
type TArray struct {
	Elem Type
	Len  int
}

func (t *TArray) isType()      {}
func (t *TArray) String() string { return fmt.Sprintf("[%s; %d]", t.Elem, t.Len) }

// Builtin primitive constructors, shared by reference so identity checks
// (`t == Int`) work where that's convenient, though unification always
// goes through structural comparison.
var (
	Int    = &TCon{Name: "Int"}
	Float  = &TCon{Name: "Float"}
	Bool   = &TCon{Name: "Bool"}
	String = &TCon{Name: "String"}
	Char   = &TCon{Name: "Char"}
	Byte   = &TCon{Name: "Byte"}
	Unit   = &TCon{Name: "Unit"}
)

func ListOf(elem Type) Type   { return &TCon{Name: "List", Args: []Type{elem}} }
func SetOf(elem Type) Type    { return &TCon{Name: "Set", Args: []Type{elem}} }
func DictOf(k, v Type) Type   { return &TCon{Name: "Dict", Args: []Type{k, v}} }
func OptionOf(t Type) Type    { return &TCon{Name: "Option", Args: []Type{t}} }
func ResultOf(ok, err Type) Type { return &TCon{Name: "Result", Args: []Type{ok, err}} }
