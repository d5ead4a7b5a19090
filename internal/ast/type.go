package ast

import (
	"fmt"
	"strings"

	"github.com/velalang/vela/internal/token"
)

// TypeKind identifies the concrete shape of a syntactic type annotation, as
// written in source (spec §3's type grammar). This is the parser's view of
// a type: a surface-level tree the type-inference package later elaborates
// into its own internal representation, unifying TyVar placeholders and
// resolving Named references against declared structs/enums/traits.
type TypeKind int

const (
	TyNamed TypeKind = iota
	TyFn
	TyTuple
	TyList
	TyRef
	TyArray
	TyVarKind
	TyGeneric
	TyImplTrait
	TyUnit
)

// Type is the uniform syntactic-type-annotation node interface.
type Type interface {
	TyKind() TypeKind
	Span() token.Span
	String() string
}

type TyBase struct{ span token.Span }

func (b TyBase) Span() token.Span { return b.span }

func NewTyBase(span token.Span) TyBase { return TyBase{span: span} }

// NamedType is a resolved-by-name type, optionally parameterized
// (`Int`, `String`, `Option<T>`, `Result<T, E>`).
type NamedType struct {
	TyBase
	Name string
	Args []Type
}

func (t *NamedType) TyKind() TypeKind { return TyNamed }
func (t *NamedType) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", t.Name, strings.Join(parts, ", "))
}

// FnType is a function-value type (`fn(Int, Int) -> Int`).
type FnType struct {
	TyBase
	Params []Type
	Ret    Type
}

func (t *FnType) TyKind() TypeKind { return TyFn }
func (t *FnType) String() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}
	ret := "()"
	if t.Ret != nil {
		ret = t.Ret.String()
	}
	return fmt.Sprintf("fn(%s) -> %s", strings.Join(parts, ", "), ret)
}

// TupleType is a fixed-arity heterogeneous tuple type (`(Int, String)`).
type TupleType struct {
	TyBase
	Elements []Type
}

func (t *TupleType) TyKind() TypeKind { return TyTuple }
func (t *TupleType) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// ListType is a homogeneous dynamically-sized list type (`[Int]`).
type ListType struct {
	TyBase
	Elem Type
}

func (t *ListType) TyKind() TypeKind { return TyList }
func (t *ListType) String() string   { return "[" + t.Elem.String() + "]" }

// RefType is a reference type (`&T`, `&mut T`).
type RefType struct {
	TyBase
	Target Type
	Mut    bool
}

func (t *RefType) TyKind() TypeKind { return TyRef }
func (t *RefType) String() string {
	if t.Mut {
		return "&mut " + t.Target.String()
	}
	return "&" + t.Target.String()
}

// ArrayType is a fixed-length array type (`[Int; 4]`).
type ArrayType struct {
	TyBase
	Elem Type
	Len  int
}

func (t *ArrayType) TyKind() TypeKind { return TyArray }
func (t *ArrayType) String() string   { return fmt.Sprintf("[%s; %d]", t.Elem.String(), t.Len) }

// TyVarRef is a not-yet-annotated placeholder the inference engine fills in
// via unification (an omitted let/param type, or the elided element type of
// an empty list literal).
type TyVarRef struct {
	TyBase
	ID int
}

func (t *TyVarRef) TyKind() TypeKind { return TyVarKind }
func (t *TyVarRef) String() string   { return fmt.Sprintf("?%d", t.ID) }

// GenericType is a reference to a generic type parameter in scope
// (`T` inside `fn identity<T>(x: T) -> T`).
type GenericType struct {
	TyBase
	Name string
}

func (t *GenericType) TyKind() TypeKind { return TyGeneric }
func (t *GenericType) String() string   { return t.Name }

// ImplTraitType is an anonymous type satisfying a trait bound, used in
// return position (`fn make_adder(n: Int) -> impl Fn(Int) -> Int`).
type ImplTraitType struct {
	TyBase
	Bound string
}

func (t *ImplTraitType) TyKind() TypeKind { return TyImplTrait }
func (t *ImplTraitType) String() string   { return "impl " + t.Bound }

// UnitType is the zero-value type `()`.
type UnitType struct{ TyBase }

func (t *UnitType) TyKind() TypeKind { return TyUnit }
func (t *UnitType) String() string   { return "()" }
