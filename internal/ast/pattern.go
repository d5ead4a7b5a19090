package ast

import (
	"fmt"
	"strings"

	"github.com/velalang/vela/internal/token"
)

// PatternKind identifies the concrete shape of a Pattern node.
type PatternKind int

const (
	PatWildcard PatternKind = iota
	PatLiteral
	PatIdentifier
	PatTuple
	PatList
	PatStruct
	PatEnumVariant
	PatRange
	PatOr
)

// Pattern is the uniform pattern-matching node interface (spec §3).
type Pattern interface {
	PatKind() PatternKind
	Span() token.Span
	String() string
}

type PatBase struct{ span token.Span }

func (b PatBase) Span() token.Span { return b.span }

func NewPatBase(span token.Span) PatBase { return PatBase{span: span} }

// WildcardPattern matches anything without binding (`_`).
type WildcardPattern struct{ PatBase }

func (p *WildcardPattern) PatKind() PatternKind { return PatWildcard }
func (p *WildcardPattern) String() string       { return "_" }

// LiteralPattern matches an equal literal value.
type LiteralPattern struct {
	PatBase
	Value Expr
}

func (p *LiteralPattern) PatKind() PatternKind { return PatLiteral }
func (p *LiteralPattern) String() string       { return p.Value.String() }

// IdentifierPattern binds the matched value to Name.
type IdentifierPattern struct {
	PatBase
	Name string
}

func (p *IdentifierPattern) PatKind() PatternKind { return PatIdentifier }
func (p *IdentifierPattern) String() string       { return p.Name }

// ListPattern matches tuples or lists positionally. Rest, when non-empty
// or RestPresent is true, binds everything remaining as a shared array
// (empty rest name means an unnamed `...`).
type ListElem struct {
	Pattern Pattern
	Default Expr // optional, for `[a, b = 1]` style defaults
}

type ListPattern struct {
	PatBase
	Elements    []ListElem
	RestPresent bool
	RestName    string // "" for an unnamed `...`
	RestBefore  int    // index at which the rest sits among Elements
}

func (p *ListPattern) PatKind() PatternKind { return PatList }
func (p *ListPattern) String() string {
	parts := make([]string, len(p.Elements))
	for i, e := range p.Elements {
		parts[i] = e.Pattern.String()
	}
	if p.RestPresent {
		parts = append(parts, "..."+p.RestName)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// TuplePattern matches a tuple's elements positionally, length must match
// exactly (no rest).
type TuplePattern struct {
	PatBase
	Elements []Pattern
}

func (p *TuplePattern) PatKind() PatternKind { return PatTuple }
func (p *TuplePattern) String() string {
	parts := make([]string, len(p.Elements))
	for i, e := range p.Elements {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// StructFieldPattern is one `name: pattern` binding, or a shorthand
// `name` binding where Pattern is an IdentifierPattern with the same name.
type StructFieldPattern struct {
	Name    string
	Pattern Pattern
}

// StructPattern matches a struct/class-shaped value by field name.
type StructPattern struct {
	PatBase
	TypeName string // optional, e.g. matching `Point { x, y }`
	Fields   []StructFieldPattern
	HasRest  bool // `..` to ignore remaining fields
}

func (p *StructPattern) PatKind() PatternKind { return PatStruct }
func (p *StructPattern) String() string {
	parts := make([]string, len(p.Fields))
	for i, f := range p.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Name, f.Pattern)
	}
	if p.HasRest {
		parts = append(parts, "..")
	}
	return fmt.Sprintf("%s { %s }", p.TypeName, strings.Join(parts, ", "))
}

// EnumVariantPattern matches `Enum::Variant`, `Enum::Variant(p1, p2)`, or a
// bare `Variant` / `Variant(p1, p2)` (enum name elided).
type EnumVariantPattern struct {
	PatBase
	EnumName    string
	VariantName string
	Elements    []Pattern // tuple-variant sub-patterns; nil for unit variants
}

func (p *EnumVariantPattern) PatKind() PatternKind { return PatEnumVariant }
func (p *EnumVariantPattern) String() string {
	name := p.VariantName
	if p.EnumName != "" {
		name = p.EnumName + "::" + name
	}
	if p.Elements == nil {
		return name
	}
	parts := make([]string, len(p.Elements))
	for i, e := range p.Elements {
		parts[i] = e.String()
	}
	return fmt.Sprintf("%s(%s)", name, strings.Join(parts, ", "))
}

// RangePattern matches a value against an inclusive/exclusive range of
// literal bounds, e.g. `1..=5`.
type RangePattern struct {
	PatBase
	Start, End Expr
	Inclusive  bool
}

func (p *RangePattern) PatKind() PatternKind { return PatRange }
func (p *RangePattern) String() string {
	op := ".."
	if p.Inclusive {
		op = "..="
	}
	return fmt.Sprintf("%s%s%s", p.Start, op, p.End)
}

// OrPattern matches if any alternative matches (`1 | 2 | 3`).
type OrPattern struct {
	PatBase
	Alternatives []Pattern
}

func (p *OrPattern) PatKind() PatternKind { return PatOr }
func (p *OrPattern) String() string {
	parts := make([]string, len(p.Alternatives))
	for i, a := range p.Alternatives {
		parts[i] = a.String()
	}
	return strings.Join(parts, " | ")
}
