package interp

import "github.com/velalang/vela/internal/ast"

// matchPattern tries to match v against pat, defining any bound names into
// env as a side effect. Returns false (with env left partially populated,
// which is harmless since a failed match's scope is always discarded) if
// v does not match the pattern's shape.
func matchPattern(env *Environment, pat ast.Pattern, v Value) bool {
	switch p := pat.(type) {
	case *ast.WildcardPattern:
		return true

	case *ast.IdentifierPattern:
		env.Define(p.Name, v)
		return true

	case *ast.LiteralPattern:
		lit := evalPatternLiteral(p.Value)
		eq, err := valuesEqual(lit, v)
		return err == nil && eq

	case *ast.TuplePattern:
		t, ok := v.(*TupleValue)
		if !ok || len(t.Elements) != len(p.Elements) {
			return false
		}
		for i, sub := range p.Elements {
			if !matchPattern(env, sub, t.Elements[i]) {
				return false
			}
		}
		return true

	case *ast.ListPattern:
		return matchListPattern(env, p, v)

	case *ast.StructPattern:
		return matchStructPattern(env, p, v)

	case *ast.EnumVariantPattern:
		return matchEnumPattern(env, p, v)

	case *ast.RangePattern:
		lo := evalPatternLiteral(p.Start)
		hi := evalPatternLiteral(p.End)
		return inRange(v, lo, hi, p.Inclusive)

	case *ast.OrPattern:
		for _, alt := range p.Alternatives {
			if matchPattern(env, alt, v) {
				return true
			}
		}
		return false
	}
	return false
}

func matchListPattern(env *Environment, p *ast.ListPattern, v Value) bool {
	arr, ok := v.(*ArrayValue)
	if !ok {
		return false
	}
	minLen := len(p.Elements)
	if !p.RestPresent && len(arr.Elements) != minLen {
		return false
	}
	if p.RestPresent && len(arr.Elements) < minLen {
		return false
	}
	idx := 0
	for i, elem := range p.Elements {
		if p.RestPresent && i == p.RestBefore {
			restCount := len(arr.Elements) - minLen
			if p.RestName != "" {
				env.Define(p.RestName, &ArrayValue{Elements: append([]Value{}, arr.Elements[idx:idx+restCount]...)})
			}
			idx += restCount
		}
		if idx >= len(arr.Elements) {
			return false
		}
		if !matchPattern(env, elem.Pattern, arr.Elements[idx]) {
			return false
		}
		idx++
	}
	if p.RestPresent && p.RestBefore == len(p.Elements) && p.RestName != "" {
		env.Define(p.RestName, &ArrayValue{Elements: append([]Value{}, arr.Elements[idx:]...)})
	}
	return true
}

func matchStructPattern(env *Environment, p *ast.StructPattern, v Value) bool {
	s, ok := v.(*StructValue)
	if !ok {
		return false
	}
	if p.TypeName != "" && p.TypeName != s.StructName {
		return false
	}
	for _, f := range p.Fields {
		fv, ok := s.Fields[f.Name]
		if !ok {
			return false
		}
		if !matchPattern(env, f.Pattern, fv) {
			return false
		}
	}
	return true
}

func matchEnumPattern(env *Environment, p *ast.EnumVariantPattern, v Value) bool {
	e, ok := v.(*EnumValue)
	if !ok || e.Variant != p.VariantName {
		return false
	}
	if p.EnumName != "" && p.EnumName != e.EnumName {
		return false
	}
	if len(p.Elements) == 0 {
		return true
	}
	if len(p.Elements) != len(e.Payload) {
		return false
	}
	for i, sub := range p.Elements {
		if !matchPattern(env, sub, e.Payload[i]) {
			return false
		}
	}
	return true
}

// evalPatternLiteral evaluates a pattern's literal sub-expression — an
// IntLiteral/FloatLiteral/StringLiteral/CharLiteral/BoolLiteral, optionally
// wrapped in a unary minus for negative bounds — never a name or call, so
// no environment or interpreter state is needed.
func evalPatternLiteral(e ast.Expr) Value {
	switch n := e.(type) {
	case *ast.IntLiteral:
		return &IntegerValue{Value: n.Value}
	case *ast.FloatLiteral:
		return &FloatValue{Value: n.Value}
	case *ast.StringLiteral:
		return &StringValue{Value: n.Value}
	case *ast.CharLiteral:
		return &CharValue{Value: n.Value}
	case *ast.ByteLiteral:
		return &ByteValue{Value: n.Value}
	case *ast.BoolLiteral:
		return &BoolValue{Value: n.Value}
	case *ast.Unary:
		if n.Op == ast.UnaryNeg {
			inner := evalPatternLiteral(n.Operand)
			switch iv := inner.(type) {
			case *IntegerValue:
				return &IntegerValue{Value: -iv.Value}
			case *FloatValue:
				return &FloatValue{Value: -iv.Value}
			}
		}
	}
	return Unit
}

func inRange(v, lo, hi Value, inclusive bool) bool {
	ov, ok := v.(OrderableValue)
	if !ok {
		return false
	}
	loCmp, err := ov.CompareTo(lo)
	if err != nil || loCmp < 0 {
		return false
	}
	hiCmp, err := ov.CompareTo(hi)
	if err != nil {
		return false
	}
	if inclusive {
		return hiCmp <= 0
	}
	return hiCmp < 0
}
