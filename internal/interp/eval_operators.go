package interp

import (
	"fmt"

	"github.com/velalang/vela/internal/ast"
)

func (i *Interpreter) evalUnary(env *Environment, n *ast.Unary) Signal {
	operand := i.Eval(env, n.Operand)
	if operand.isExit() {
		return operand
	}
	switch n.Op {
	case ast.UnaryNeg:
		switch v := operand.Value.(type) {
		case *IntegerValue:
			return val(&IntegerValue{Value: -v.Value})
		case *FloatValue:
			return val(&FloatValue{Value: -v.Value})
		}
		return i.runtimeError(n, "cannot negate %s", operand.Value.Type())
	case ast.UnaryNot:
		b, ok := operand.Value.(*BoolValue)
		if !ok {
			return i.runtimeError(n, "cannot apply ! to %s", operand.Value.Type())
		}
		return val(&BoolValue{Value: !b.Value})
	case ast.UnaryBitNot:
		iv, ok := operand.Value.(*IntegerValue)
		if !ok {
			return i.runtimeError(n, "cannot apply ~ to %s", operand.Value.Type())
		}
		return val(&IntegerValue{Value: ^iv.Value})
	}
	return i.runtimeError(n, "unknown unary operator")
}

func (i *Interpreter) evalBinary(env *Environment, n *ast.Binary) Signal {
	l := i.Eval(env, n.Left)
	if l.isExit() {
		return l
	}
	r := i.Eval(env, n.Right)
	if r.isExit() {
		return r
	}
	result, err := applyBinary(n.Op, l.Value, r.Value)
	if err != nil {
		return i.runtimeError(n, "%s", err)
	}
	return val(result)
}

// ApplyBinary and ApplyCompare expose applyBinary's and evalCompare's
// value-level dispatch to internal/bytecode, so the register VM's
// arithmetic/comparison opcodes reuse the exact same operator semantics
// as the tree-walking interpreter instead of re-implementing them.
func ApplyBinary(op ast.BinaryOp, l, r Value) (Value, error) { return applyBinary(op, l, r) }

func ApplyCompare(op ast.CompareOp, l, r Value) (Value, error) {
	if op == ast.CmpEq || op == ast.CmpNeq {
		eq, err := valuesEqual(l, r)
		if err != nil {
			return nil, err
		}
		if op == ast.CmpNeq {
			eq = !eq
		}
		return &BoolValue{Value: eq}, nil
	}
	ov, ok := l.(OrderableValue)
	if !ok {
		return nil, fmt.Errorf("%s is not orderable", l.Type())
	}
	cmp, err := ov.CompareTo(r)
	if err != nil {
		return nil, err
	}
	var result bool
	switch op {
	case ast.CmpLt:
		result = cmp < 0
	case ast.CmpGt:
		result = cmp > 0
	case ast.CmpLe:
		result = cmp <= 0
	case ast.CmpGe:
		result = cmp >= 0
	}
	return &BoolValue{Value: result}, nil
}

// applyBinary evaluates op over two already-evaluated operands, dispatched
// by concrete Go type the way the teacher's binary_ops.go switches over
// DWScript's value kinds.
func applyBinary(op ast.BinaryOp, lv, rv Value) (Value, error) {
	if op >= ast.BinBitAnd {
		li, lok := lv.(*IntegerValue)
		ri, rok := rv.(*IntegerValue)
		if !lok || !rok {
			return nil, fmt.Errorf("bitwise operator requires Int operands, got %s and %s", lv.Type(), rv.Type())
		}
		switch op {
		case ast.BinBitAnd:
			return &IntegerValue{Value: li.Value & ri.Value}, nil
		case ast.BinBitOr:
			return &IntegerValue{Value: li.Value | ri.Value}, nil
		case ast.BinBitXor:
			return &IntegerValue{Value: li.Value ^ ri.Value}, nil
		case ast.BinShl:
			return &IntegerValue{Value: li.Value << uint(ri.Value)}, nil
		case ast.BinShr:
			return &IntegerValue{Value: li.Value >> uint(ri.Value)}, nil
		}
	}

	// String concatenation: + is overloaded for String the way the
	// teacher overloads PLUS for strings in binary_ops.go.
	if op == ast.BinAdd {
		if ls, ok := lv.(*StringValue); ok {
			if rs, ok := rv.(*StringValue); ok {
				return &StringValue{Value: ls.Value + rs.Value}, nil
			}
		}
	}

	li, lIsInt := lv.(*IntegerValue)
	ri, rIsInt := rv.(*IntegerValue)
	if lIsInt && rIsInt {
		return applyIntBinary(op, li.Value, ri.Value)
	}

	lf, lok := asFloatOperand(lv)
	rf, rok := asFloatOperand(rv)
	if lok && rok {
		return applyFloatBinary(op, lf, rf)
	}

	return nil, fmt.Errorf("operator not defined for %s and %s", lv.Type(), rv.Type())
}

func asFloatOperand(v Value) (float64, bool) {
	switch n := v.(type) {
	case *FloatValue:
		return n.Value, true
	case *IntegerValue:
		return float64(n.Value), true
	}
	return 0, false
}

func applyIntBinary(op ast.BinaryOp, l, r int64) (Value, error) {
	switch op {
	case ast.BinAdd:
		return &IntegerValue{Value: l + r}, nil
	case ast.BinSub:
		return &IntegerValue{Value: l - r}, nil
	case ast.BinMul:
		return &IntegerValue{Value: l * r}, nil
	case ast.BinDiv:
		if r == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return &IntegerValue{Value: l / r}, nil
	case ast.BinMod:
		if r == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return &IntegerValue{Value: l % r}, nil
	case ast.BinPow:
		return &IntegerValue{Value: intPow(l, r)}, nil
	}
	return nil, fmt.Errorf("unknown binary operator")
}

func intPow(base, exp int64) int64 {
	if exp < 0 {
		return 0
	}
	result := int64(1)
	for ; exp > 0; exp-- {
		result *= base
	}
	return result
}

func applyFloatBinary(op ast.BinaryOp, l, r float64) (Value, error) {
	switch op {
	case ast.BinAdd:
		return &FloatValue{Value: l + r}, nil
	case ast.BinSub:
		return &FloatValue{Value: l - r}, nil
	case ast.BinMul:
		return &FloatValue{Value: l * r}, nil
	case ast.BinDiv:
		return &FloatValue{Value: l / r}, nil
	case ast.BinMod:
		return nil, fmt.Errorf("%% is not defined for Float")
	case ast.BinPow:
		p := 1.0
		for n := 0; n < int(r); n++ {
			p *= l
		}
		return &FloatValue{Value: p}, nil
	}
	return nil, fmt.Errorf("unknown binary operator")
}

func (i *Interpreter) evalLogical(env *Environment, n *ast.Logical) Signal {
	l := i.Eval(env, n.Left)
	if l.isExit() {
		return l
	}
	lb := asBool(l.Value)
	if n.Op == ast.LogAnd && !lb {
		return val(&BoolValue{Value: false})
	}
	if n.Op == ast.LogOr && lb {
		return val(&BoolValue{Value: true})
	}
	r := i.Eval(env, n.Right)
	if r.isExit() {
		return r
	}
	return val(&BoolValue{Value: asBool(r.Value)})
}

func (i *Interpreter) evalCompare(env *Environment, n *ast.Compare) Signal {
	l := i.Eval(env, n.Left)
	if l.isExit() {
		return l
	}
	r := i.Eval(env, n.Right)
	if r.isExit() {
		return r
	}
	if n.Op == ast.CmpEq || n.Op == ast.CmpNeq {
		eq, err := valuesEqual(l.Value, r.Value)
		if err != nil {
			return i.runtimeError(n, "%s", err)
		}
		if n.Op == ast.CmpNeq {
			eq = !eq
		}
		return val(&BoolValue{Value: eq})
	}
	ov, ok := l.Value.(OrderableValue)
	if !ok {
		return i.runtimeError(n, "%s is not orderable", l.Value.Type())
	}
	cmp, err := ov.CompareTo(r.Value)
	if err != nil {
		return i.runtimeError(n, "%s", err)
	}
	var result bool
	switch n.Op {
	case ast.CmpLt:
		result = cmp < 0
	case ast.CmpGt:
		result = cmp > 0
	case ast.CmpLe:
		result = cmp <= 0
	case ast.CmpGe:
		result = cmp >= 0
	}
	return val(&BoolValue{Value: result})
}

// valuesEqual compares two values for == / != and for literal-pattern
// matching; values of mismatched concrete type are simply unequal rather
// than an error, matching how match-arm literal comparisons behave.
func valuesEqual(l, r Value) (bool, error) {
	cl, ok := l.(ComparableValue)
	if !ok {
		return false, fmt.Errorf("%s is not comparable", l.Type())
	}
	return cl.Equals(r)
}

func (i *Interpreter) evalRange(env *Environment, n *ast.Range) Signal {
	var start, end Value = Unit, Unit
	if n.Start != nil {
		s := i.Eval(env, n.Start)
		if s.isExit() {
			return s
		}
		start = s.Value
	}
	if n.End != nil {
		e := i.Eval(env, n.End)
		if e.isExit() {
			return e
		}
		end = e.Value
	}
	return val(&RangeValue{Start: start, End: end, Inclusive: n.Inclusive})
}

// evalPipeline desugars `x |> f` to `f(x)`.
func (i *Interpreter) evalPipeline(env *Environment, n *ast.Pipeline) Signal {
	left := i.Eval(env, n.Left)
	if left.isExit() {
		return left
	}
	return i.callValueWith(env, n, n.Right, []Value{left.Value})
}

func (i *Interpreter) evalAssignment(env *Environment, n *ast.Assignment) Signal {
	rhs := i.Eval(env, n.Value)
	if rhs.isExit() {
		return rhs
	}
	newVal := rhs.Value
	if n.Op != ast.AssignPlain {
		cur := i.Eval(env, n.Target)
		if cur.isExit() {
			return cur
		}
		op := map[ast.AssignOp]ast.BinaryOp{
			ast.AssignAdd: ast.BinAdd,
			ast.AssignSub: ast.BinSub,
			ast.AssignMul: ast.BinMul,
			ast.AssignDiv: ast.BinDiv,
		}[n.Op]
		combined, err := applyBinary(op, cur.Value, rhs.Value)
		if err != nil {
			return i.runtimeError(n, "%s", err)
		}
		newVal = combined
	}
	if err := i.assignTo(env, n.Target, newVal); err != nil {
		return i.runtimeError(n, "%s", err)
	}
	return val(Unit)
}

// assignTo writes newVal into the lvalue described by target:
// an Identifier (scope assignment), a FieldAccess (struct field), or an
// IndexAccess (list/dict/array element).
func (i *Interpreter) assignTo(env *Environment, target ast.Expr, newVal Value) error {
	switch t := target.(type) {
	case *ast.Identifier:
		return env.Set(t.Name, newVal)
	case *ast.FieldAccess:
		objSig := i.Eval(env, t.Target)
		if objSig.isExit() {
			return fmt.Errorf("cannot evaluate assignment target")
		}
		s, ok := objSig.Value.(*StructValue)
		if !ok {
			return fmt.Errorf("cannot assign field on %s", objSig.Value.Type())
		}
		s.Fields[t.Field] = newVal
		return nil
	case *ast.IndexAccess:
		objSig := i.Eval(env, t.Target)
		if objSig.isExit() {
			return fmt.Errorf("cannot evaluate assignment target")
		}
		idxSig := i.Eval(env, t.Index)
		if idxSig.isExit() {
			return fmt.Errorf("cannot evaluate assignment index")
		}
		if obj, ok := objSig.Value.(*ObjectValue); ok {
			obj.Fields[idxSig.Value.String()] = newVal
			return nil
		}
		idx, ok := idxSig.Value.(*IntegerValue)
		if !ok {
			return fmt.Errorf("index must be Int, got %s", idxSig.Value.Type())
		}
		ix, ok := objSig.Value.(IndexableValue)
		if !ok {
			return fmt.Errorf("%s is not indexable", objSig.Value.Type())
		}
		return ix.SetIndex(idx.Value, newVal)
	}
	return fmt.Errorf("invalid assignment target %T", target)
}
