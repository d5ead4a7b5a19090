package transpile

import (
	"fmt"
	"strings"

	"github.com/velalang/vela/internal/ast"
)

// lambda lowers a Vela closure literal to a Go func literal. Go closures
// already capture enclosing variables by reference, the same semantics
// Vela's ordinary (non-`move`) closures have; `move` closures, which
// Vela uses to force capture-by-value (e.g. handing a closure to an
// actor/spawn boundary), have no direct Go equivalent — Go would need an
// explicit `x := x` shadow copy per captured variable, which requires a
// free-variable analysis this package does not perform. `move` lambdas
// still transpile (capturing by reference, Go's only mode); the
// divergence is recorded as a known gap in DESIGN.md, not silently
// guessed away.
func (tp *transpiler) lambda(n *ast.Lambda) (string, error) {
	if n.IsAsync {
		return "", unsupported(n, "async lambdas are not supported by the transpiler backend")
	}

	params := make([]string, len(n.Params))
	for i, p := range n.Params {
		var t string
		if p.Type != nil {
			goT, err := tp.goType(p.Type)
			if err != nil {
				return "", err
			}
			t = goT
		} else {
			// Untyped lambda parameters are common in Vela source (the
			// type checker infers them); without running inference here,
			// default to Int, the overwhelmingly common case for a bare
			// `|x, y| ...` arithmetic closure, and document the default as
			// a best-effort heuristic rather than a guarantee.
			t = "int64"
		}
		params[i] = fmt.Sprintf("%s %s", goIdent(p.Name), t)
	}

	switch body := n.Body.(type) {
	case *ast.Block:
		retType := "any"
		if len(body.Exprs) > 0 {
			if t, ok := tp.staticType(body.Exprs[len(body.Exprs)-1]); ok {
				retType = t
			}
		}
		stmts, err := tp.compileTailBlock(body)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("func(%s) %s {\n%s}", strings.Join(params, ", "), retType, stmts), nil
	default:
		retType := "any"
		if t, ok := tp.staticType(body); ok {
			retType = t
		}
		bodyExpr, err := tp.expr(body)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("func(%s) %s { return %s }", strings.Join(params, ", "), retType, bodyExpr), nil
	}
}
