// Package ast defines the Abstract Syntax Tree node types for Vela.
//
// Vela is expression-oriented: there is no separate Statement interface.
// Every construct — including `let`, `if`, `while`, and item declarations
// such as `fn`/`struct`/`enum` — implements Expr and can appear anywhere an
// expression can. A Block's value is the value of its final expression
// (Unit if the block is empty or ends with a semicolon).
package ast

import (
	"fmt"
	"strings"

	"github.com/velalang/vela/internal/token"
)

// ExprKind identifies the concrete shape of an Expr node, mirroring the
// sum type described in spec §3.
type ExprKind int

const (
	KindIntLiteral ExprKind = iota
	KindFloatLiteral
	KindBoolLiteral
	KindStringLiteral
	KindCharLiteral
	KindByteLiteral
	KindUnitLiteral
	KindFString

	KindIdentifier
	KindPath
	KindFieldAccess
	KindIndexAccess
	KindMethodCall
	KindCall

	KindUnary
	KindBinary
	KindLogical
	KindCompare
	KindRange
	KindPipeline
	KindAssignment

	KindLet
	KindLetMut
	KindVar
	KindLetPattern
	KindConst
	KindStatic
	KindTypeAlias

	KindIf
	KindMatch
	KindWhile
	KindFor
	KindLoop
	KindBreak
	KindContinue
	KindReturn
	KindThrow

	KindBlock
	KindTuple
	KindList
	KindSet
	KindDict
	KindComprehension

	KindFunction
	KindLambda

	KindStruct
	KindEnum
	KindTrait
	KindImpl

	KindModule
	KindImport
	KindExport
	KindUse

	KindTryCatch
	KindAsync
	KindAwait
	KindSpawn
	KindSend
	KindAsk

	KindMacroInvocation
	KindDataFrame

	KindErrorNode // parser recovery placeholder
)

// Attribute is a `#[name(args)]` or `@name` annotation attached to an item
// or expression.
type Attribute struct {
	Name string
	Args []string
	Span token.Span
}

// Expr is the uniform AST node interface. Every concrete node type below
// implements it.
type Expr interface {
	Kind() ExprKind
	Span() token.Span
	Attrs() []Attribute
	String() string
}

// Base is embedded by every concrete Expr to provide the common fields.
type Base struct {
	span       token.Span
	attributes []Attribute
}

func (b Base) Span() token.Span     { return b.span }
func (b Base) Attrs() []Attribute   { return b.attributes }
func (b *Base) AddAttr(a Attribute) { b.attributes = append(b.attributes, a) }

// NewBase is the helper constructors use to populate the embedded Base.
func NewBase(span token.Span, attrs []Attribute) Base {
	return Base{span: span, attributes: attrs}
}

// ---- Literals ----

type IntLiteral struct {
	Base
	Value int64
}

func (n *IntLiteral) Kind() ExprKind { return KindIntLiteral }
func (n *IntLiteral) String() string { return fmt.Sprintf("%d", n.Value) }

type FloatLiteral struct {
	Base
	Value float64
}

func (n *FloatLiteral) Kind() ExprKind { return KindFloatLiteral }
func (n *FloatLiteral) String() string { return fmt.Sprintf("%g", n.Value) }

type BoolLiteral struct {
	Base
	Value bool
}

func (n *BoolLiteral) Kind() ExprKind { return KindBoolLiteral }
func (n *BoolLiteral) String() string { return fmt.Sprintf("%t", n.Value) }

type StringLiteral struct {
	Base
	Value string
	Raw   bool
}

func (n *StringLiteral) Kind() ExprKind { return KindStringLiteral }
func (n *StringLiteral) String() string { return fmt.Sprintf("%q", n.Value) }

type CharLiteral struct {
	Base
	Value rune
}

func (n *CharLiteral) Kind() ExprKind { return KindCharLiteral }
func (n *CharLiteral) String() string { return fmt.Sprintf("'%c'", n.Value) }

type ByteLiteral struct {
	Base
	Value byte
}

func (n *ByteLiteral) Kind() ExprKind { return KindByteLiteral }
func (n *ByteLiteral) String() string { return fmt.Sprintf("b'%c'", n.Value) }

type UnitLiteral struct{ Base }

func (n *UnitLiteral) Kind() ExprKind { return KindUnitLiteral }
func (n *UnitLiteral) String() string { return "()" }

// FStringPart is one fragment of an f-string: either literal text
// (Expr == nil) or an interpolated expression.
type FStringPart struct {
	Text string
	Expr Expr
}

type FString struct {
	Base
	Parts []FStringPart
}

func (n *FString) Kind() ExprKind { return KindFString }
func (n *FString) String() string {
	var sb strings.Builder
	sb.WriteString(`f"`)
	for _, p := range n.Parts {
		if p.Expr != nil {
			sb.WriteString("{" + p.Expr.String() + "}")
		} else {
			sb.WriteString(p.Text)
		}
	}
	sb.WriteString(`"`)
	return sb.String()
}

// ---- Names and access ----

type Identifier struct {
	Base
	Name string
}

func (n *Identifier) Kind() ExprKind { return KindIdentifier }
func (n *Identifier) String() string { return n.Name }

type Path struct {
	Base
	Segments []string
}

func (n *Path) Kind() ExprKind { return KindPath }
func (n *Path) String() string { return strings.Join(n.Segments, "::") }

type FieldAccess struct {
	Base
	Target Expr
	Field  string
}

func (n *FieldAccess) Kind() ExprKind { return KindFieldAccess }
func (n *FieldAccess) String() string { return n.Target.String() + "." + n.Field }

type IndexAccess struct {
	Base
	Target Expr
	Index  Expr
}

func (n *IndexAccess) Kind() ExprKind { return KindIndexAccess }
func (n *IndexAccess) String() string { return fmt.Sprintf("%s[%s]", n.Target, n.Index) }

type MethodCall struct {
	Base
	Target Expr
	Method string
	Args   []Expr
}

func (n *MethodCall) Kind() ExprKind { return KindMethodCall }
func (n *MethodCall) String() string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s.%s(%s)", n.Target, n.Method, strings.Join(args, ", "))
}

type Call struct {
	Base
	Callee Expr
	Args   []Expr
}

func (n *Call) Kind() ExprKind { return KindCall }
func (n *Call) String() string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", n.Callee, strings.Join(args, ", "))
}

// ---- Operators ----

type UnaryOp int

const (
	UnaryNeg UnaryOp = iota
	UnaryNot
	UnaryBitNot
)

type Unary struct {
	Base
	Op      UnaryOp
	Operand Expr
}

func (n *Unary) Kind() ExprKind { return KindUnary }
func (n *Unary) String() string {
	ops := map[UnaryOp]string{UnaryNeg: "-", UnaryNot: "!", UnaryBitNot: "~"}
	return ops[n.Op] + n.Operand.String()
}

type BinaryOp int

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinMod
	BinPow
	BinBitAnd
	BinBitOr
	BinBitXor
	BinShl
	BinShr
)

type Binary struct {
	Base
	Op          BinaryOp
	Left, Right Expr
}

func (n *Binary) Kind() ExprKind { return KindBinary }
func (n *Binary) String() string {
	ops := map[BinaryOp]string{
		BinAdd: "+", BinSub: "-", BinMul: "*", BinDiv: "/", BinMod: "%", BinPow: "**",
		BinBitAnd: "&", BinBitOr: "|", BinBitXor: "^", BinShl: "<<", BinShr: ">>",
	}
	return fmt.Sprintf("(%s %s %s)", n.Left, ops[n.Op], n.Right)
}

type LogicalOp int

const (
	LogAnd LogicalOp = iota
	LogOr
)

type Logical struct {
	Base
	Op          LogicalOp
	Left, Right Expr
}

func (n *Logical) Kind() ExprKind { return KindLogical }
func (n *Logical) String() string {
	op := "&&"
	if n.Op == LogOr {
		op = "||"
	}
	return fmt.Sprintf("(%s %s %s)", n.Left, op, n.Right)
}

type CompareOp int

const (
	CmpEq CompareOp = iota
	CmpNeq
	CmpLt
	CmpGt
	CmpLe
	CmpGe
)

type Compare struct {
	Base
	Op          CompareOp
	Left, Right Expr
}

func (n *Compare) Kind() ExprKind { return KindCompare }
func (n *Compare) String() string {
	ops := map[CompareOp]string{CmpEq: "==", CmpNeq: "!=", CmpLt: "<", CmpGt: ">", CmpLe: "<=", CmpGe: ">="}
	return fmt.Sprintf("(%s %s %s)", n.Left, ops[n.Op], n.Right)
}

type Range struct {
	Base
	Start, End Expr // either may be nil for open ranges
	Inclusive  bool
}

func (n *Range) Kind() ExprKind { return KindRange }
func (n *Range) String() string {
	op := ".."
	if n.Inclusive {
		op = "..="
	}
	s, e := "", ""
	if n.Start != nil {
		s = n.Start.String()
	}
	if n.End != nil {
		e = n.End.String()
	}
	return s + op + e
}

type Pipeline struct {
	Base
	Left, Right Expr
}

func (n *Pipeline) Kind() ExprKind { return KindPipeline }
func (n *Pipeline) String() string { return fmt.Sprintf("%s |> %s", n.Left, n.Right) }

// AssignOp covers plain `=` and compound `+= -= *= /=` forms.
type AssignOp int

const (
	AssignPlain AssignOp = iota
	AssignAdd
	AssignSub
	AssignMul
	AssignDiv
)

type Assignment struct {
	Base
	Op     AssignOp
	Target Expr
	Value  Expr
}

func (n *Assignment) Kind() ExprKind { return KindAssignment }
func (n *Assignment) String() string {
	ops := map[AssignOp]string{AssignPlain: "=", AssignAdd: "+=", AssignSub: "-=", AssignMul: "*=", AssignDiv: "/="}
	return fmt.Sprintf("%s %s %s", n.Target, ops[n.Op], n.Value)
}

// ---- Bindings ----

type Param struct {
	Name    string
	Type    Type // may be nil if unannotated
	Default Expr // may be nil
}

type Let struct {
	Base
	Name  string
	Type  Type // optional annotation
	Value Expr
}

func (n *Let) Kind() ExprKind { return KindLet }
func (n *Let) String() string { return fmt.Sprintf("let %s = %s", n.Name, n.Value) }

type LetMut struct {
	Base
	Name  string
	Type  Type
	Value Expr
}

func (n *LetMut) Kind() ExprKind { return KindLetMut }
func (n *LetMut) String() string { return fmt.Sprintf("let mut %s = %s", n.Name, n.Value) }

type Var struct {
	Base
	Name  string
	Type  Type
	Value Expr
}

func (n *Var) Kind() ExprKind { return KindVar }
func (n *Var) String() string { return fmt.Sprintf("var %s = %s", n.Name, n.Value) }

// LetPattern destructures Value against Pattern, e.g. `let (a, b) = pair`.
type LetPattern struct {
	Base
	Pattern Pattern
	Mutable bool
	Value   Expr
}

func (n *LetPattern) Kind() ExprKind { return KindLetPattern }
func (n *LetPattern) String() string { return fmt.Sprintf("let %s = %s", n.Pattern, n.Value) }

type Const struct {
	Base
	Name  string
	Type  Type
	Value Expr
}

func (n *Const) Kind() ExprKind { return KindConst }
func (n *Const) String() string { return fmt.Sprintf("const %s = %s", n.Name, n.Value) }

type Static struct {
	Base
	Name  string
	Type  Type
	Value Expr
}

func (n *Static) Kind() ExprKind { return KindStatic }
func (n *Static) String() string { return fmt.Sprintf("static %s = %s", n.Name, n.Value) }

type TypeAlias struct {
	Base
	Name string
	Type Type
}

func (n *TypeAlias) Kind() ExprKind { return KindTypeAlias }
func (n *TypeAlias) String() string { return fmt.Sprintf("type %s = %s", n.Name, n.Type) }

// ---- Control flow ----

type If struct {
	Base
	Cond Expr
	Then *Block
	Else Expr // *Block or *If (else-if chain) or nil
}

func (n *If) Kind() ExprKind { return KindIf }
func (n *If) String() string {
	if n.Else != nil {
		return fmt.Sprintf("if %s %s else %s", n.Cond, n.Then, n.Else)
	}
	return fmt.Sprintf("if %s %s", n.Cond, n.Then)
}

type MatchArm struct {
	Pattern Pattern
	Guard   Expr // optional
	Body    Expr
}

type Match struct {
	Base
	Subject Expr
	Arms    []MatchArm
}

func (n *Match) Kind() ExprKind { return KindMatch }
func (n *Match) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "match %s { ", n.Subject)
	for _, arm := range n.Arms {
		if arm.Guard != nil {
			fmt.Fprintf(&sb, "%s if %s => %s, ", arm.Pattern, arm.Guard, arm.Body)
		} else {
			fmt.Fprintf(&sb, "%s => %s, ", arm.Pattern, arm.Body)
		}
	}
	sb.WriteString("}")
	return sb.String()
}

type While struct {
	Base
	Label string
	Cond  Expr
	Body  *Block
}

func (n *While) Kind() ExprKind { return KindWhile }
func (n *While) String() string { return fmt.Sprintf("while %s %s", n.Cond, n.Body) }

type For struct {
	Base
	Label   string
	Pattern Pattern
	Iter    Expr
	Body    *Block
}

func (n *For) Kind() ExprKind { return KindFor }
func (n *For) String() string { return fmt.Sprintf("for %s in %s %s", n.Pattern, n.Iter, n.Body) }

type Loop struct {
	Base
	Label string
	Body  *Block
}

func (n *Loop) Kind() ExprKind { return KindLoop }
func (n *Loop) String() string { return fmt.Sprintf("loop %s", n.Body) }

type Break struct {
	Base
	Label string
	Value Expr // optional
}

func (n *Break) Kind() ExprKind { return KindBreak }
func (n *Break) String() string {
	if n.Value != nil {
		return "break " + n.Value.String()
	}
	return "break"
}

type Continue struct {
	Base
	Label string
}

func (n *Continue) Kind() ExprKind { return KindContinue }
func (n *Continue) String() string { return "continue" }

type Return struct {
	Base
	Value Expr // optional
}

func (n *Return) Kind() ExprKind { return KindReturn }
func (n *Return) String() string {
	if n.Value != nil {
		return "return " + n.Value.String()
	}
	return "return"
}

type Throw struct {
	Base
	Value Expr
}

func (n *Throw) Kind() ExprKind { return KindThrow }
func (n *Throw) String() string { return "throw " + n.Value.String() }

// ---- Collections and grouping ----

type Block struct {
	Base
	Exprs        []Expr
	TrailingSemi bool
}

func (n *Block) Kind() ExprKind { return KindBlock }
func (n *Block) String() string {
	parts := make([]string, len(n.Exprs))
	for i, e := range n.Exprs {
		parts[i] = e.String()
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

type Tuple struct {
	Base
	Elements []Expr
}

func (n *Tuple) Kind() ExprKind { return KindTuple }
func (n *Tuple) String() string {
	parts := make([]string, len(n.Elements))
	for i, e := range n.Elements {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

type List struct {
	Base
	Elements []Expr
}

func (n *List) Kind() ExprKind { return KindList }
func (n *List) String() string {
	parts := make([]string, len(n.Elements))
	for i, e := range n.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

type Set struct {
	Base
	Elements []Expr
}

func (n *Set) Kind() ExprKind { return KindSet }
func (n *Set) String() string {
	parts := make([]string, len(n.Elements))
	for i, e := range n.Elements {
		parts[i] = e.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

type DictEntry struct {
	Key   Expr
	Value Expr
}

type Dict struct {
	Base
	Entries []DictEntry
}

func (n *Dict) Kind() ExprKind { return KindDict }
func (n *Dict) String() string {
	parts := make([]string, len(n.Entries))
	for i, e := range n.Entries {
		parts[i] = fmt.Sprintf("%s: %s", e.Key, e.Value)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Comprehension is `[expr for pattern in iter if cond]` (list comprehension;
// the same node models set/dict comprehensions via IsSet/IsDict).
type Comprehension struct {
	Base
	Result  Expr
	Pattern Pattern
	Iter    Expr
	Cond    Expr // optional filter
	IsSet   bool
	IsDict  bool
	KeyExpr Expr // used when IsDict
}

func (n *Comprehension) Kind() ExprKind { return KindComprehension }
func (n *Comprehension) String() string {
	return fmt.Sprintf("[%s for %s in %s]", n.Result, n.Pattern, n.Iter)
}

// ---- Functions ----

type Function struct {
	Base
	Name       string
	Generics   []string
	Params     []Param
	ReturnType Type
	Body       *Block
	IsPub      bool
	IsAsync    bool
}

func (n *Function) Kind() ExprKind { return KindFunction }
func (n *Function) String() string {
	names := make([]string, len(n.Params))
	for i, p := range n.Params {
		names[i] = p.Name
	}
	return fmt.Sprintf("fn %s(%s)", n.Name, strings.Join(names, ", "))
}

type Lambda struct {
	Base
	Params  []Param
	Body    Expr
	IsMove  bool
	IsAsync bool
}

func (n *Lambda) Kind() ExprKind { return KindLambda }
func (n *Lambda) String() string {
	names := make([]string, len(n.Params))
	for i, p := range n.Params {
		names[i] = p.Name
	}
	return fmt.Sprintf("|%s| %s", strings.Join(names, ", "), n.Body)
}

// ---- Algebraic types ----

type StructField struct {
	Name string
	Type Type
}

type Struct struct {
	Base
	Name     string
	Generics []string
	Fields   []StructField
	IsPub    bool
}

func (n *Struct) Kind() ExprKind { return KindStruct }
func (n *Struct) String() string { return fmt.Sprintf("struct %s", n.Name) }

// EnumVariant covers unit (no fields), tuple (Types set), and struct-like
// (Fields set) variants.
type EnumVariant struct {
	Name   string
	Types  []Type        // tuple variant payload types
	Fields []StructField // struct-like variant fields
}

type Enum struct {
	Base
	Name     string
	Generics []string
	Variants []EnumVariant
	IsPub    bool
}

func (n *Enum) Kind() ExprKind { return KindEnum }
func (n *Enum) String() string { return fmt.Sprintf("enum %s", n.Name) }

type TraitMethod struct {
	Name       string
	Params     []Param
	ReturnType Type
	Default    *Block // nil if the trait only declares the signature
}

type Trait struct {
	Base
	Name     string
	Generics []string
	Methods  []TraitMethod
	IsPub    bool
}

func (n *Trait) Kind() ExprKind { return KindTrait }
func (n *Trait) String() string { return fmt.Sprintf("trait %s", n.Name) }

type Impl struct {
	Base
	Generics    []string
	TraitTarget string // empty if this is an inherent impl
	TargetType  Type
	Methods     []*Function
}

func (n *Impl) Kind() ExprKind { return KindImpl }
func (n *Impl) String() string {
	if n.TraitTarget != "" {
		return fmt.Sprintf("impl %s for %s", n.TraitTarget, n.TargetType)
	}
	return fmt.Sprintf("impl %s", n.TargetType)
}

// ---- Modules ----

type Module struct {
	Base
	Name  string
	Body  *Block // nil for `mod name;` file-referencing form
	IsPub bool
}

func (n *Module) Kind() ExprKind { return KindModule }
func (n *Module) String() string { return fmt.Sprintf("mod %s", n.Name) }

type Import struct {
	Base
	Path  []string
	Alias string
}

func (n *Import) Kind() ExprKind { return KindImport }
func (n *Import) String() string { return "import " + strings.Join(n.Path, "::") }

type Export struct {
	Base
	Item Expr
}

func (n *Export) Kind() ExprKind { return KindExport }
func (n *Export) String() string { return "export " + n.Item.String() }

type Use struct {
	Base
	Path []string
}

func (n *Use) Kind() ExprKind { return KindUse }
func (n *Use) String() string { return "use " + strings.Join(n.Path, "::") }

// ---- Exceptions, async, actors ----

type TryCatch struct {
	Base
	Body      *Block
	CatchName string
	CatchBody *Block
}

func (n *TryCatch) Kind() ExprKind { return KindTryCatch }
func (n *TryCatch) String() string {
	return fmt.Sprintf("try %s catch %s %s", n.Body, n.CatchName, n.CatchBody)
}

type Async struct {
	Base
	Body *Block
}

func (n *Async) Kind() ExprKind { return KindAsync }
func (n *Async) String() string { return "async " + n.Body.String() }

type Await struct {
	Base
	Value Expr
}

func (n *Await) Kind() ExprKind { return KindAwait }
func (n *Await) String() string { return n.Value.String() + ".await" }

type Spawn struct {
	Base
	Value Expr
}

func (n *Spawn) Kind() ExprKind { return KindSpawn }
func (n *Spawn) String() string { return "spawn " + n.Value.String() }

type Send struct {
	Base
	Target  Expr
	Message Expr
}

func (n *Send) Kind() ExprKind { return KindSend }
func (n *Send) String() string { return fmt.Sprintf("%s.send(%s)", n.Target, n.Message) }

type Ask struct {
	Base
	Target  Expr
	Message Expr
}

func (n *Ask) Kind() ExprKind { return KindAsk }
func (n *Ask) String() string { return fmt.Sprintf("%s.ask(%s)", n.Target, n.Message) }

// ---- Macros and dataframes ----

type MacroInvocation struct {
	Base
	Name string
	Args []Expr
	// RepeatCount is used by `vec![expr; n]`; nil otherwise.
	RepeatCount Expr
}

func (n *MacroInvocation) Kind() ExprKind { return KindMacroInvocation }
func (n *MacroInvocation) String() string { return n.Name + "!(...)" }

type DataFrameColumn struct {
	Name   string
	Values []Expr
}

type DataFrame struct {
	Base
	Columns []DataFrameColumn
}

func (n *DataFrame) Kind() ExprKind { return KindDataFrame }
func (n *DataFrame) String() string { return "dataframe!{...}" }

// ---- Error recovery ----

type ErrorNode struct {
	Base
	Message string
}

func (n *ErrorNode) Kind() ExprKind { return KindErrorNode }
func (n *ErrorNode) String() string { return "<error: " + n.Message + ">" }
