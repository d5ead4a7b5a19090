package transpile

import (
	"fmt"
	"strings"

	"github.com/velalang/vela/internal/ast"
)

// emitFunction lowers a top-level fn into a Go func declaration. Default
// parameter values have no Go equivalent (Go has no optional
// arguments) and are rejected rather than silently dropped, since
// dropping one would change every call site's required arity without
// any diagnostic.
func (tp *transpiler) emitFunction(fn *ast.Function) (string, error) {
	if fn.IsAsync {
		return "", unsupported(fn, "async functions are not supported by the transpiler backend (no scheduler exists outside internal/interp)")
	}
	for _, p := range fn.Params {
		if p.Default != nil {
			return "", fmt.Errorf("transpile: %s: default parameter values have no Go equivalent and are not supported", fn.Name)
		}
	}

	generics := ""
	if len(fn.Generics) > 0 {
		parts := make([]string, len(fn.Generics))
		for i, g := range fn.Generics {
			parts[i] = g + " any"
		}
		generics = "[" + strings.Join(parts, ", ") + "]"
	}

	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
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

	var sb strings.Builder
	fmt.Fprintf(&sb, "func %s%s(%s)%s {\n", goIdent(fn.Name), generics, strings.Join(params, ", "), ret)
	sb.WriteString(body)
	sb.WriteString("}\n\n")
	return sb.String(), nil
}

// compileTailBlock lowers b as a function (or tail-position sub-block)
// body: every expr but the last runs as a dropped-value statement, the
// last is lowered so it returns b's value, matching Vela's
// block-value-is-last-expr semantics (ast.Block's own doc comment).
func (tp *transpiler) compileTailBlock(b *ast.Block) (string, error) {
	var sb strings.Builder
	for i, e := range b.Exprs {
		if i == len(b.Exprs)-1 {
			s, err := tp.compileTailExpr(e)
			if err != nil {
				return "", err
			}
			sb.WriteString(s)
		} else {
			s, err := tp.compileStmt(e)
			if err != nil {
				return "", err
			}
			sb.WriteString(s)
		}
	}
	if len(b.Exprs) == 0 {
		sb.WriteString("return\n")
	}
	return sb.String(), nil
}

// compileTailExpr lowers e, the final expression of a block in tail
// (return-producing) position. Constructs that are inherently
// statement-shaped (bindings, loops, assignment, ...) run as an
// ordinary statement followed by a bare `return` — valid exactly when
// the enclosing function's declared return type is Unit, which is the
// only way Vela's own type checker would have accepted such a body.
func (tp *transpiler) compileTailExpr(e ast.Expr) (string, error) {
	switch n := e.(type) {
	case *ast.If:
		cond, err := tp.expr(n.Cond)
		if err != nil {
			return "", err
		}
		then, err := tp.compileTailBlock(n.Then)
		if err != nil {
			return "", err
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "if %s {\n%s}", cond, then)
		switch els := n.Else.(type) {
		case nil:
			sb.WriteString(" else {\nreturn\n}\n")
		case *ast.Block:
			elseBody, err := tp.compileTailBlock(els)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&sb, " else {\n%s}\n", elseBody)
		case *ast.If:
			elseBody, err := tp.compileTailExpr(els)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&sb, " else {\n%s}\n", elseBody)
		default:
			return "", unsupported(n, "if-else target must be a block or an else-if chain")
		}
		return sb.String(), nil

	case *ast.Match:
		return tp.compileMatch(n.Subject, n.Arms, tp.compileTailExpr)

	case *ast.Block:
		return tp.compileTailBlock(n)

	case *ast.Return, *ast.Throw:
		return tp.compileStmt(e)

	case *ast.Let, *ast.LetMut, *ast.Var, *ast.LetPattern, *ast.Const, *ast.Static,
		*ast.Assignment, *ast.While, *ast.For, *ast.Loop, *ast.Break, *ast.Continue,
		*ast.TryCatch:
		s, err := tp.compileStmt(e)
		if err != nil {
			return "", err
		}
		return s + "return\n", nil

	case *ast.UnitLiteral:
		return "return\n", nil

	default:
		s, err := tp.expr(e)
		if err != nil {
			return "", err
		}
		return "return " + s + "\n", nil
	}
}

// compileStmtBlock lowers b where its final value is discarded — an
// if/while/for/loop body, a non-tail nested block.
func (tp *transpiler) compileStmtBlock(b *ast.Block) (string, error) {
	var sb strings.Builder
	for _, e := range b.Exprs {
		s, err := tp.compileStmt(e)
		if err != nil {
			return "", err
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}

// compileStmt lowers e for its side effect alone, discarding any value.
func (tp *transpiler) compileStmt(e ast.Expr) (string, error) {
	switch n := e.(type) {

	case *ast.Let:
		return tp.compileBinding(n.Name, n.Type, n.Value)
	case *ast.LetMut:
		return tp.compileBinding(n.Name, n.Type, n.Value)
	case *ast.Var:
		return tp.compileBinding(n.Name, n.Type, n.Value)
	case *ast.Const:
		return tp.compileBinding(n.Name, n.Type, n.Value)
	case *ast.Static:
		return tp.compileBinding(n.Name, n.Type, n.Value)

	case *ast.LetPattern:
		cond, binds, err := tp.patternCond("__src", n.Pattern)
		if err != nil {
			return "", err
		}
		if cond != "true" {
			return "", fmt.Errorf("transpile: a `let` destructuring pattern must be irrefutable (got a condition)")
		}
		value, err := tp.expr(n.Value)
		if err != nil {
			return "", err
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "__src := %s\n", value)
		for _, b := range binds {
			sb.WriteString(b + "\n")
		}
		return sb.String(), nil

	case *ast.Assignment:
		return tp.compileAssignment(n)

	case *ast.If:
		cond, err := tp.expr(n.Cond)
		if err != nil {
			return "", err
		}
		then, err := tp.compileStmtBlock(n.Then)
		if err != nil {
			return "", err
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "if %s {\n%s}", cond, then)
		switch els := n.Else.(type) {
		case nil:
			sb.WriteString("\n")
		case *ast.Block:
			elseBody, err := tp.compileStmtBlock(els)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&sb, " else {\n%s}\n", elseBody)
		case *ast.If:
			elseBody, err := tp.compileStmt(els)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&sb, " else {\n%s}\n", elseBody)
		default:
			return "", unsupported(n, "if-else target must be a block or an else-if chain")
		}
		return sb.String(), nil

	case *ast.Match:
		return tp.compileMatch(n.Subject, n.Arms, func(body ast.Expr) (string, error) {
			return tp.compileStmtExpr(body)
		})

	case *ast.While:
		cond, err := tp.expr(n.Cond)
		if err != nil {
			return "", err
		}
		body, err := tp.compileStmtBlock(n.Body)
		if err != nil {
			return "", err
		}
		label := ""
		if n.Label != "" {
			label = n.Label + ":\n"
		}
		return fmt.Sprintf("%sfor %s {\n%s}\n", label, cond, body), nil

	case *ast.For:
		return tp.compileFor(n)

	case *ast.Loop:
		body, err := tp.compileStmtBlock(n.Body)
		if err != nil {
			return "", err
		}
		label := ""
		if n.Label != "" {
			label = n.Label + ":\n"
		}
		return fmt.Sprintf("%sfor {\n%s}\n", label, body), nil

	case *ast.Break:
		if n.Value != nil {
			return "", unsupported(n, "`break <value>` (loop-as-expression) is not supported by the transpiler backend")
		}
		if n.Label != "" {
			return "break " + n.Label + "\n", nil
		}
		return "break\n", nil

	case *ast.Continue:
		if n.Label != "" {
			return "continue " + n.Label + "\n", nil
		}
		return "continue\n", nil

	case *ast.Return:
		if n.Value != nil {
			v, err := tp.expr(n.Value)
			if err != nil {
				return "", err
			}
			return "return " + v + "\n", nil
		}
		return "return\n", nil

	case *ast.Throw:
		// Vela's try/catch is exception-shaped; Go's corresponding idiom
		// is panic/recover (see *ast.TryCatch below), so `throw` lowers to
		// `panic(...)` carrying the thrown value.
		v, err := tp.expr(n.Value)
		if err != nil {
			return "", err
		}
		return "panic(" + v + ")\n", nil

	case *ast.TryCatch:
		return tp.compileTryCatch(n)

	case *ast.Block:
		body, err := tp.compileStmtBlock(n)
		if err != nil {
			return "", err
		}
		return "{\n" + body + "}\n", nil

	default:
		return tp.compileStmtExpr(e)
	}
}

// compileStmtExpr lowers e as a bare value-producing expression used
// only for side effect. Go only accepts call/receive/send/inc-dec
// expressions as statements, so a non-call expression is wrapped in a
// `_ = ...` discard the way idiomatic Go silences an intentionally
// unused value.
func (tp *transpiler) compileStmtExpr(e ast.Expr) (string, error) {
	switch e.(type) {
	case *ast.If, *ast.Match, *ast.Block, *ast.TryCatch, *ast.While, *ast.For, *ast.Loop,
		*ast.Let, *ast.LetMut, *ast.Var, *ast.LetPattern, *ast.Assignment,
		*ast.Break, *ast.Continue, *ast.Return, *ast.Throw:
		return tp.compileStmt(e)
	}
	s, err := tp.expr(e)
	if err != nil {
		return "", err
	}
	switch e.(type) {
	case *ast.Call, *ast.MethodCall:
		return s + "\n", nil
	}
	return "_ = " + s + "\n", nil
}

func (tp *transpiler) compileBinding(name string, typ ast.Type, value ast.Expr) (string, error) {
	v, err := tp.expr(value)
	if err != nil {
		return "", err
	}
	if typ != nil {
		t, err := tp.goType(typ)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("var %s %s = %s\n", goIdent(name), t, v), nil
	}
	return fmt.Sprintf("%s := %s\n", goIdent(name), v), nil
}

func (tp *transpiler) compileAssignment(n *ast.Assignment) (string, error) {
	var target string
	switch t := n.Target.(type) {
	case *ast.Identifier:
		target = goIdent(t.Name)
	case *ast.FieldAccess, *ast.IndexAccess:
		s, err := tp.expr(t)
		if err != nil {
			return "", err
		}
		target = s
	default:
		return "", unsupported(n, "assignment target must be a local, a field, or an index expression")
	}
	value, err := tp.expr(n.Value)
	if err != nil {
		return "", err
	}
	ops := map[ast.AssignOp]string{
		ast.AssignPlain: "=", ast.AssignAdd: "+=", ast.AssignSub: "-=", ast.AssignMul: "*=", ast.AssignDiv: "/=",
	}
	op, ok := ops[n.Op]
	if !ok {
		return "", unsupported(n, "unknown assignment operator")
	}
	return fmt.Sprintf("%s %s %s\n", target, op, value), nil
}

// compileFor supports a bounded integer range (`for i in a..b`/`a..=b`)
// compiled to a classic counting loop, and iteration over an arbitrary
// collection expression compiled to `range`; in both cases the loop
// variable must be a plain identifier or `_` — destructuring for-loop
// patterns are a documented scope limit (DESIGN.md), matching
// internal/jit's own narrower-still range-only `for` support.
func (tp *transpiler) compileFor(n *ast.For) (string, error) {
	varName := "_"
	switch p := n.Pattern.(type) {
	case *ast.IdentifierPattern:
		varName = goIdent(p.Name)
	case *ast.WildcardPattern:
		varName = "_"
	default:
		return "", unsupported(n, "for-loop patterns beyond a plain identifier or `_` are not supported")
	}

	label := ""
	if n.Label != "" {
		label = n.Label + ":\n"
	}
	body, err := tp.compileStmtBlock(n.Body)
	if err != nil {
		return "", err
	}

	if rng, ok := n.Iter.(*ast.Range); ok && rng.Start != nil && rng.End != nil {
		start, err := tp.expr(rng.Start)
		if err != nil {
			return "", err
		}
		end, err := tp.expr(rng.End)
		if err != nil {
			return "", err
		}
		cmp := "<"
		if rng.Inclusive {
			cmp = "<="
		}
		return fmt.Sprintf("%sfor %s := %s; %s %s %s; %s++ {\n%s}\n", label, varName, start, varName, cmp, end, varName, body), nil
	}

	iter, err := tp.expr(n.Iter)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%sfor _, %s := range %s {\n%s}\n", label, varName, iter, body), nil
}

// compileTryCatch lowers Vela's try/catch onto Go's panic/recover idiom
// (there is no other non-local-exit mechanism Go offers short of
// explicit error returns, which would require rewriting every call
// along the way to propagate one): the body runs inside an immediately-
// invoked closure whose deferred recover, if the body panicked, binds
// the recovered value under CatchName and runs the catch body.
func (tp *transpiler) compileTryCatch(n *ast.TryCatch) (string, error) {
	body, err := tp.compileStmtBlock(n.Body)
	if err != nil {
		return "", err
	}
	catch, err := tp.compileStmtBlock(n.CatchBody)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString("func() {\n")
	fmt.Fprintf(&sb, "defer func() {\nif %s := recover(); %s != nil {\n%s}\n}()\n", goIdent(n.CatchName), goIdent(n.CatchName), catch)
	sb.WriteString(body)
	sb.WriteString("}()\n")
	return sb.String(), nil
}

// compileMatch lowers a match expression/statement into an if/else-if
// chain over a single evaluation of the subject (bound once to a fresh
// temp so a side-effecting subject expression is not re-run per arm).
// bodyCompiler decides whether each arm's body is a tail return
// (compileTailExpr) or a dropped-value statement (compileStmtExpr).
func (tp *transpiler) compileMatch(subject ast.Expr, arms []ast.MatchArm, bodyCompiler func(ast.Expr) (string, error)) (string, error) {
	subjExpr, err := tp.expr(subject)
	if err != nil {
		return "", err
	}
	subjVar := tp.newTemp("subj")

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s := %s\n", subjVar, subjExpr)

	for i, arm := range arms {
		last := i == len(arms)-1
		irrefutable := last && isIrrefutable(arm)

		keyword := "if "
		if i > 0 {
			keyword = "} else if "
		}

		if irrefutable {
			_, binds, err := tp.patternCond(subjVar, arm.Pattern)
			if err != nil {
				return "", err
			}
			bodyStr, err := bodyCompiler(arm.Body)
			if err != nil {
				return "", err
			}
			if i == 0 {
				sb.WriteString("{\n")
			} else {
				sb.WriteString("} else {\n")
			}
			for _, b := range binds {
				sb.WriteString(b + "\n")
			}
			sb.WriteString(bodyStr)
			continue
		}

		if vp, ok := arm.Pattern.(*ast.EnumVariantPattern); ok {
			if arm.Guard != nil {
				return "", unsupported(arm.Body, "a guard on an enum-variant match arm is not supported")
			}
			if vp.EnumName == "" {
				return "", unsupported(arm.Body, "an enum-variant pattern needs an explicit `Enum::Variant` qualifier to transpile (the enum name cannot be inferred without running type inference)")
			}
			key := vp.EnumName + "::" + vp.VariantName
			vi, ok := tp.enumVariant[key]
			if !ok {
				return "", fmt.Errorf("transpile: unknown enum variant %s", key)
			}
			typeName := vi.enum + exportedName(vp.VariantName)
			vtmp := tp.newTemp("v")
			var conds []string
			var binds []string
			for idx, sub := range vp.Elements {
				c, b, err := tp.patternCond(fmt.Sprintf("%s.F%d", vtmp, idx), sub)
				if err != nil {
					return "", err
				}
				if c != "true" {
					conds = append(conds, c)
				}
				binds = append(binds, b...)
			}
			extra := ""
			if len(conds) > 0 {
				extra = " && " + joinAnd(conds)
			}
			fmt.Fprintf(&sb, "%s%s, ok := %s.(%s); ok%s {\n", keyword, vtmp, subjVar, typeName, extra)
			for _, b := range binds {
				sb.WriteString(b + "\n")
			}
			bodyStr, err := bodyCompiler(arm.Body)
			if err != nil {
				return "", err
			}
			sb.WriteString(bodyStr)
			continue
		}

		cond, binds, err := tp.patternCond(subjVar, arm.Pattern)
		if err != nil {
			return "", err
		}
		if arm.Guard != nil {
			guardExpr, err := tp.expr(arm.Guard)
			if err != nil {
				return "", err
			}
			cond = fmt.Sprintf("func() bool { if !%s { return false }; %s; return %s }()", cond, strings.Join(binds, "; "), guardExpr)
		}
		fmt.Fprintf(&sb, "%s%s {\n", keyword, cond)
		for _, b := range binds {
			sb.WriteString(b + "\n")
		}
		bodyStr, err := bodyCompiler(arm.Body)
		if err != nil {
			return "", err
		}
		sb.WriteString(bodyStr)
	}

	hasIrrefutableLast := len(arms) > 0 && isIrrefutable(arms[len(arms)-1])
	if !hasIrrefutableLast {
		sb.WriteString("} else {\npanic(\"unreachable match\")\n}\n")
	} else {
		sb.WriteString("}\n")
	}
	return sb.String(), nil
}

func (tp *transpiler) newTemp(prefix string) string {
	tp.tmpCounter++
	return fmt.Sprintf("%s%d", prefix, tp.tmpCounter)
}
