package transpile

import (
	"fmt"
	"strings"

	"github.com/velalang/vela/internal/ast"
)

// expr lowers e to a single Go expression. Constructs that Go has no
// expression-level equivalent for (If, Match, Block, TryCatch,
// Assignment) are only valid in statement position — see
// transpile_stmt.go's compileTailExpr/compileStmt — and are rejected
// here with *UnsupportedError if they turn up nested inside another
// expression, the same expression/statement impedance-mismatch
// narrowing internal/jit and internal/wasm apply to their own subsets.
func (tp *transpiler) expr(e ast.Expr) (string, error) {
	switch n := e.(type) {

	case *ast.IntLiteral:
		return fmt.Sprintf("int64(%d)", n.Value), nil
	case *ast.FloatLiteral:
		return fmt.Sprintf("%g", n.Value), nil
	case *ast.BoolLiteral:
		return fmt.Sprintf("%t", n.Value), nil
	case *ast.StringLiteral:
		return fmt.Sprintf("%q", n.Value), nil
	case *ast.CharLiteral:
		return fmt.Sprintf("%q", n.Value), nil
	case *ast.ByteLiteral:
		return fmt.Sprintf("byte(%d)", n.Value), nil
	case *ast.UnitLiteral:
		return "struct{}{}", nil

	case *ast.FString:
		tp.usesFmt = true
		var format strings.Builder
		var args []string
		for _, p := range n.Parts {
			if p.Expr == nil {
				format.WriteString(strings.ReplaceAll(p.Text, "%", "%%"))
				continue
			}
			format.WriteString("%v")
			a, err := tp.expr(p.Expr)
			if err != nil {
				return "", err
			}
			args = append(args, a)
		}
		if len(args) == 0 {
			return fmt.Sprintf("%q", format.String()), nil
		}
		return fmt.Sprintf("fmt.Sprintf(%q, %s)", format.String(), strings.Join(args, ", ")), nil

	case *ast.Identifier:
		return goIdent(n.Name), nil

	case *ast.Path:
		// A bare Enum::Variant reference (no call) is a unit-variant
		// construction; `a::b::c` namespacing beyond one enum qualifier
		// has no Go-source equivalent in this single-file transpile unit
		// (see Transpile's Module/Import/Use handling) and is rejected.
		if len(n.Segments) == 2 {
			key := n.Segments[0] + "::" + n.Segments[1]
			if vi, ok := tp.enumVariant[key]; ok {
				return fmt.Sprintf("New%s%s()", vi.enum, exportedName(vi.variant)), nil
			}
		}
		return "", unsupported(n, "multi-segment paths beyond one Enum::Variant qualifier are not supported")

	case *ast.FieldAccess:
		target, err := tp.expr(n.Target)
		if err != nil {
			return "", err
		}
		if isAllDigits(n.Field) {
			return fmt.Sprintf("%s.F%s", target, n.Field), nil
		}
		return fmt.Sprintf("%s.%s", target, exportedName(n.Field)), nil

	case *ast.IndexAccess:
		target, err := tp.expr(n.Target)
		if err != nil {
			return "", err
		}
		idx, err := tp.expr(n.Index)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s[%s]", target, idx), nil

	case *ast.MethodCall:
		target, err := tp.expr(n.Target)
		if err != nil {
			return "", err
		}
		args, err := tp.exprList(n.Args)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s.%s(%s)", target, exportedName(n.Method), strings.Join(args, ", ")), nil

	case *ast.Call:
		return tp.call(n)

	case *ast.Unary:
		operand, err := tp.expr(n.Operand)
		if err != nil {
			return "", err
		}
		switch n.Op {
		case ast.UnaryNeg:
			return "(-" + operand + ")", nil
		case ast.UnaryNot:
			return "(!" + operand + ")", nil
		case ast.UnaryBitNot:
			return "(^" + operand + ")", nil
		}
		return "", unsupported(n, "unknown unary operator")

	case *ast.Binary:
		left, err := tp.expr(n.Left)
		if err != nil {
			return "", err
		}
		right, err := tp.expr(n.Right)
		if err != nil {
			return "", err
		}
		if n.Op == ast.BinPow {
			tp.usesPow = true
			return fmt.Sprintf("velaPow(%s, %s)", left, right), nil
		}
		ops := map[ast.BinaryOp]string{
			ast.BinAdd: "+", ast.BinSub: "-", ast.BinMul: "*", ast.BinDiv: "/", ast.BinMod: "%",
			ast.BinBitAnd: "&", ast.BinBitOr: "|", ast.BinBitXor: "^", ast.BinShl: "<<", ast.BinShr: ">>",
		}
		op, ok := ops[n.Op]
		if !ok {
			return "", unsupported(n, "unknown binary operator")
		}
		return fmt.Sprintf("(%s %s %s)", left, op, right), nil

	case *ast.Logical:
		left, err := tp.expr(n.Left)
		if err != nil {
			return "", err
		}
		right, err := tp.expr(n.Right)
		if err != nil {
			return "", err
		}
		op := "&&"
		if n.Op == ast.LogOr {
			op = "||"
		}
		return fmt.Sprintf("(%s %s %s)", left, op, right), nil

	case *ast.Compare:
		left, err := tp.expr(n.Left)
		if err != nil {
			return "", err
		}
		right, err := tp.expr(n.Right)
		if err != nil {
			return "", err
		}
		ops := map[ast.CompareOp]string{
			ast.CmpEq: "==", ast.CmpNeq: "!=", ast.CmpLt: "<", ast.CmpGt: ">", ast.CmpLe: "<=", ast.CmpGe: ">=",
		}
		return fmt.Sprintf("(%s %s %s)", left, ops[n.Op], right), nil

	case *ast.Pipeline:
		// `a |> f` is sugar for `f(a)`; `a |> f(x, y)` inserts a as f's
		// first argument (`f(a, x, y)`), the common left-to-right pipe
		// convention. Any other right-hand shape (a lambda literal, a
		// method call) has no single obvious insertion point and is
		// rejected rather than guessed at.
		switch r := n.Right.(type) {
		case *ast.Identifier:
			left, err := tp.expr(n.Left)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%s(%s)", goIdent(r.Name), left), nil
		case *ast.Call:
			callee, err := tp.expr(r.Callee)
			if err != nil {
				return "", err
			}
			left, err := tp.expr(n.Left)
			if err != nil {
				return "", err
			}
			rest, err := tp.exprList(r.Args)
			if err != nil {
				return "", err
			}
			args := append([]string{left}, rest...)
			return fmt.Sprintf("%s(%s)", callee, strings.Join(args, ", ")), nil
		default:
			return "", unsupported(n, "pipeline right-hand side must be a bare function name or a call")
		}

	case *ast.Tuple:
		tp.tupleArity[len(n.Elements)] = true
		elems, err := tp.exprList(n.Elements)
		if err != nil {
			return "", err
		}
		fields := make([]string, len(elems))
		for i, el := range elems {
			fields[i] = fmt.Sprintf("F%d: %s", i, el)
		}
		return fmt.Sprintf("Tuple%d[%s]{%s}", len(n.Elements), inferredTypeArgs(len(n.Elements)), strings.Join(fields, ", ")), nil

	case *ast.List:
		elemType := "any"
		elems, err := tp.exprList(n.Elements)
		if err != nil {
			return "", err
		}
		if len(n.Elements) > 0 {
			if t, ok := tp.staticType(n.Elements[0]); ok {
				elemType = t
			}
		}
		return fmt.Sprintf("[]%s{%s}", elemType, strings.Join(elems, ", ")), nil

	case *ast.Set:
		elemType := "any"
		if len(n.Elements) > 0 {
			if t, ok := tp.staticType(n.Elements[0]); ok {
				elemType = t
			}
		}
		elems, err := tp.exprList(n.Elements)
		if err != nil {
			return "", err
		}
		entries := make([]string, len(elems))
		for i, el := range elems {
			entries[i] = fmt.Sprintf("%s: {}", el)
		}
		return fmt.Sprintf("map[%s]struct{}{%s}", elemType, strings.Join(entries, ", ")), nil

	case *ast.Lambda:
		return tp.lambda(n)

	case *ast.Dict:
		keyType, valType := "any", "any"
		if len(n.Entries) > 0 {
			if t, ok := tp.staticType(n.Entries[0].Key); ok {
				keyType = t
			}
			if t, ok := tp.staticType(n.Entries[0].Value); ok {
				valType = t
			}
		}
		entries := make([]string, len(n.Entries))
		for i, ent := range n.Entries {
			k, err := tp.expr(ent.Key)
			if err != nil {
				return "", err
			}
			v, err := tp.expr(ent.Value)
			if err != nil {
				return "", err
			}
			entries[i] = fmt.Sprintf("%s: %s", k, v)
		}
		return fmt.Sprintf("map[%s]%s{%s}", keyType, valType, strings.Join(entries, ", ")), nil

	default:
		return "", unsupported(e, "construct not in the transpiler's supported expression subset")
	}
}

func (tp *transpiler) exprList(exprs []ast.Expr) ([]string, error) {
	out := make([]string, len(exprs))
	for i, e := range exprs {
		s, err := tp.expr(e)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// call lowers a Call node. Three cases: a struct constructor
// (`Point(1, 2)`, registered by evalStructDecl's positional-constructor
// convention — see internal/interp/eval_decls.go), println/print
// (format-specifier selection per the spec's mandatory println rule),
// and an ordinary function call.
func (tp *transpiler) call(n *ast.Call) (string, error) {
	if ident, ok := n.Callee.(*ast.Identifier); ok {
		if _, ok := tp.structs[ident.Name]; ok {
			args, err := tp.exprList(n.Args)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("New%s(%s)", ident.Name, strings.Join(args, ", ")), nil
		}
		if ident.Name == "println" || ident.Name == "print" {
			return tp.printCall(ident.Name, n.Args)
		}
	}
	// An Enum::Variant(args...) constructor call arrives as a Call whose
	// Callee is the Path, since the parser reuses Call uniformly for both
	// function application and tuple-variant construction.
	if path, ok := n.Callee.(*ast.Path); ok && len(path.Segments) == 2 {
		key := path.Segments[0] + "::" + path.Segments[1]
		if vi, ok := tp.enumVariant[key]; ok {
			args, err := tp.exprList(n.Args)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("New%s%s(%s)", vi.enum, exportedName(vi.variant), strings.Join(args, ", ")), nil
		}
	}
	callee, err := tp.expr(n.Callee)
	if err != nil {
		return "", err
	}
	args, err := tp.exprList(n.Args)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s(%s)", callee, strings.Join(args, ", ")), nil
}

// printCall implements the spec's mandatory println/print format-
// specifier rule: Display-style `%v` for strings/primitives, Debug-style
// `%+v` for compound values (arrays, tuples, structs — Go's closest
// counterpart to Rust's `{:?}`), decided syntactically from each
// argument's literal shape (internal/interp's own print/println treat
// every value uniformly via Value.String(), so this is a deliberate,
// documented Go-specific refinement, not a behavior this toolchain's
// other backends also implement).
func (tp *transpiler) printCall(name string, args []ast.Expr) (string, error) {
	tp.usesFmt = true
	if len(args) == 0 {
		if name == "println" {
			return `fmt.Println()`, nil
		}
		return `fmt.Print()`, nil
	}
	var format strings.Builder
	lowered, err := tp.exprList(args)
	if err != nil {
		return "", err
	}
	for i, a := range args {
		if i > 0 {
			format.WriteString(" ")
		}
		if tp.isCompoundExpr(a) {
			format.WriteString("%+v")
		} else {
			format.WriteString("%v")
		}
	}
	if name == "println" {
		format.WriteString("\n")
	}
	return fmt.Sprintf("fmt.Printf(%q, %s)", format.String(), strings.Join(lowered, ", ")), nil
}

// isCompoundExpr decides, from e's syntactic shape alone (no type
// inference is available at this stage), whether e produces a
// structured value deserving the Debug-style `%+v` verb.
func (tp *transpiler) isCompoundExpr(e ast.Expr) bool {
	switch n := e.(type) {
	case *ast.Tuple, *ast.List, *ast.Set, *ast.Dict:
		return true
	case *ast.Call:
		if ident, ok := n.Callee.(*ast.Identifier); ok {
			_, isStruct := tp.structs[ident.Name]
			return isStruct
		}
		if path, ok := n.Callee.(*ast.Path); ok && len(path.Segments) == 2 {
			_, isVariant := tp.enumVariant[path.Segments[0]+"::"+path.Segments[1]]
			return isVariant
		}
	case *ast.Path:
		if len(n.Segments) == 2 {
			_, isVariant := tp.enumVariant[n.Segments[0]+"::"+n.Segments[1]]
			return isVariant
		}
	}
	return false
}

// staticType gives a best-effort Go element type for e, used only to
// avoid defaulting a non-empty list/set/dict literal's element type to
// `any` when a literal's shape already pins it down. Returns ok=false
// (falling back to `any`) for anything not immediately obvious — this is
// intentionally conservative rather than a real inference pass, which
// belongs to internal/types, not this package.
func (tp *transpiler) staticType(e ast.Expr) (string, bool) {
	switch e.(type) {
	case *ast.IntLiteral:
		return "int64", true
	case *ast.FloatLiteral:
		return "float64", true
	case *ast.BoolLiteral:
		return "bool", true
	case *ast.StringLiteral:
		return "string", true
	}
	return "", false
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// inferredTypeArgs can't recover each tuple element's Go type from
// Tuple2[T0, T1]{...}'s own construction site without a type-inference
// pass, so tuple literals rely on Go's composite-literal type inference
// by omitting explicit type arguments is not legal for generic struct
// literals — Go requires them. Since this package does not carry typed-
// AST element types through to construction, every field is boxed as
// `any`, documented as a known gap (DESIGN.md) until internal/types'
// typed AST is threaded through this package.
func inferredTypeArgs(arity int) string {
	args := make([]string, arity)
	for i := range args {
		args[i] = "any"
	}
	return strings.Join(args, ", ")
}
