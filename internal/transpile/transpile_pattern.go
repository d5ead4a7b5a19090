package transpile

import (
	"fmt"
	"strings"

	"github.com/velalang/vela/internal/ast"
)

// patternCond lowers p into a boolean Go condition tested against
// subjExpr (already-evaluated Go source, safe to repeat — see
// compileMatch's note on why bindings are re-emitted rather than
// shared), plus the `name := ...` binding statements p introduces.
//
// *ast.EnumVariantPattern is deliberately NOT handled here: a type
// switch needs `v, ok := x.(T); ok` in an if-statement's init clause,
// which has no boolean-expression form to compose into patternCond's
// recursive &&/|| chains, so compileMatch (transpile_stmt.go) only
// accepts it as a match arm's direct top-level pattern and builds that
// arm's `if` specially. A nested EnumVariantPattern (inside a tuple or
// struct sub-pattern) is rejected here as a documented scope limit.
func (tp *transpiler) patternCond(subjExpr string, p ast.Pattern) (string, []string, error) {
	switch pat := p.(type) {

	case *ast.WildcardPattern:
		return "true", nil, nil

	case *ast.IdentifierPattern:
		return "true", []string{fmt.Sprintf("%s := %s", goIdent(pat.Name), subjExpr)}, nil

	case *ast.LiteralPattern:
		lit, err := tp.expr(pat.Value)
		if err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("%s == %s", subjExpr, lit), nil, nil

	case *ast.TuplePattern:
		var conds []string
		var binds []string
		for i, sub := range pat.Elements {
			c, b, err := tp.patternCond(fmt.Sprintf("%s.F%d", subjExpr, i), sub)
			if err != nil {
				return "", nil, err
			}
			conds = append(conds, c)
			binds = append(binds, b...)
		}
		return joinAnd(conds), binds, nil

	case *ast.ListPattern:
		if pat.RestPresent {
			return "", nil, fmt.Errorf("transpile: rest (`...`) list patterns are not supported")
		}
		conds := []string{fmt.Sprintf("len(%s) == %d", subjExpr, len(pat.Elements))}
		var binds []string
		for i, el := range pat.Elements {
			c, b, err := tp.patternCond(fmt.Sprintf("%s[%d]", subjExpr, i), el.Pattern)
			if err != nil {
				return "", nil, err
			}
			conds = append(conds, c)
			binds = append(binds, b...)
		}
		return joinAnd(conds), binds, nil

	case *ast.StructPattern:
		var conds []string
		var binds []string
		for _, f := range pat.Fields {
			c, b, err := tp.patternCond(fmt.Sprintf("%s.%s", subjExpr, exportedName(f.Name)), f.Pattern)
			if err != nil {
				return "", nil, err
			}
			conds = append(conds, c)
			binds = append(binds, b...)
		}
		if len(conds) == 0 {
			return "true", binds, nil
		}
		return joinAnd(conds), binds, nil

	case *ast.RangePattern:
		start, err := tp.expr(pat.Start)
		if err != nil {
			return "", nil, err
		}
		end, err := tp.expr(pat.End)
		if err != nil {
			return "", nil, err
		}
		upper := "<"
		if pat.Inclusive {
			upper = "<="
		}
		return fmt.Sprintf("(%s >= %s && %s %s %s)", subjExpr, start, subjExpr, upper, end), nil, nil

	case *ast.OrPattern:
		var conds []string
		for _, alt := range pat.Alternatives {
			c, b, err := tp.patternCond(subjExpr, alt)
			if err != nil {
				return "", nil, err
			}
			if len(b) != 0 {
				return "", nil, fmt.Errorf("transpile: an `|` pattern alternative may not introduce bindings")
			}
			conds = append(conds, c)
		}
		return joinOr(conds), nil, nil

	case *ast.EnumVariantPattern:
		return "", nil, fmt.Errorf("transpile: an enum-variant pattern is only supported as a match arm's top-level pattern, not nested inside another pattern")

	default:
		return "", nil, fmt.Errorf("transpile: unhandled pattern kind %T", p)
	}
}

func joinAnd(conds []string) string {
	if len(conds) == 0 {
		return "true"
	}
	return "(" + strings.Join(conds, " && ") + ")"
}

func joinOr(conds []string) string {
	if len(conds) == 0 {
		return "false"
	}
	return "(" + strings.Join(conds, " || ") + ")"
}

// isIrrefutable reports whether p matches unconditionally (a bare
// wildcard or binding with no guard), used by compileMatch to decide
// whether the final arm may become a plain `else` instead of needing a
// trailing `panic("unreachable")` safety net.
func isIrrefutable(arm ast.MatchArm) bool {
	if arm.Guard != nil {
		return false
	}
	switch arm.Pattern.(type) {
	case *ast.WildcardPattern, *ast.IdentifierPattern:
		return true
	}
	return false
}
