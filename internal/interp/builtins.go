package interp

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/velalang/vela/internal/ast"
)

// registerBuiltins installs the global builtin functions into env, split
// by concern the way the teacher splits its builtin registry across
// math_basic.go/strings_basic.go/array.go/io.go/system.go — Vela defines
// each builtin directly as a BuiltinValue in the root scope rather than
// through a separate case-insensitive Registry, since Vela identifiers are
// case-sensitive and env already serves as the single name→value table.
func registerBuiltins(env *Environment, output io.Writer) {
	registerIOBuiltins(env, output)
	registerMathBuiltins(env)
	registerStringBuiltins(env)
	registerCollectionBuiltins(env)
	registerConversionBuiltins(env)
	registerSystemBuiltins(env)
	registerJSONBuiltins(env)
}

func builtin(env *Environment, name string, arity int, fn func(args []Value) (Value, error)) {
	env.Define(name, &BuiltinValue{Name: name, Args: arity, Fn: fn})
}

func arityError(name string, want, got int) error {
	return fmt.Errorf("%s() expects %d argument(s), got %d", name, want, got)
}

// ---- io ----

func registerIOBuiltins(env *Environment, output io.Writer) {
	builtin(env, "print", -1, func(args []Value) (Value, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = a.String()
		}
		fmt.Fprint(output, strings.Join(parts, " "))
		return Unit, nil
	})
	builtin(env, "println", -1, func(args []Value) (Value, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = a.String()
		}
		fmt.Fprintln(output, strings.Join(parts, " "))
		return Unit, nil
	})
}

// ---- math ----

func registerMathBuiltins(env *Environment) {
	builtin(env, "abs", 1, func(args []Value) (Value, error) {
		switch v := args[0].(type) {
		case *IntegerValue:
			if v.Value < 0 {
				return &IntegerValue{Value: -v.Value}, nil
			}
			return v, nil
		case *FloatValue:
			return &FloatValue{Value: math.Abs(v.Value)}, nil
		}
		return nil, fmt.Errorf("abs() expects Int or Float, got %s", args[0].Type())
	})
	builtin(env, "min", 2, func(args []Value) (Value, error) { return numericExtreme(args[0], args[1], true) })
	builtin(env, "max", 2, func(args []Value) (Value, error) { return numericExtreme(args[0], args[1], false) })
	builtin(env, "sqrt", 1, func(args []Value) (Value, error) {
		f, ok := asFloatOperand(args[0])
		if !ok {
			return nil, fmt.Errorf("sqrt() expects a number, got %s", args[0].Type())
		}
		return &FloatValue{Value: math.Sqrt(f)}, nil
	})
	builtin(env, "pow", 2, func(args []Value) (Value, error) {
		base, ok1 := asFloatOperand(args[0])
		exp, ok2 := asFloatOperand(args[1])
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("pow() expects numbers")
		}
		return &FloatValue{Value: math.Pow(base, exp)}, nil
	})
	builtin(env, "floor", 1, func(args []Value) (Value, error) {
		f, ok := asFloatOperand(args[0])
		if !ok {
			return nil, fmt.Errorf("floor() expects a number, got %s", args[0].Type())
		}
		return &IntegerValue{Value: int64(math.Floor(f))}, nil
	})
	builtin(env, "ceil", 1, func(args []Value) (Value, error) {
		f, ok := asFloatOperand(args[0])
		if !ok {
			return nil, fmt.Errorf("ceil() expects a number, got %s", args[0].Type())
		}
		return &IntegerValue{Value: int64(math.Ceil(f))}, nil
	})
	builtin(env, "round", 1, func(args []Value) (Value, error) {
		f, ok := asFloatOperand(args[0])
		if !ok {
			return nil, fmt.Errorf("round() expects a number, got %s", args[0].Type())
		}
		return &IntegerValue{Value: int64(math.Round(f))}, nil
	})
}

func numericExtreme(a, b Value, wantMin bool) (Value, error) {
	ai, aIsInt := a.(*IntegerValue)
	bi, bIsInt := b.(*IntegerValue)
	if aIsInt && bIsInt {
		if (ai.Value < bi.Value) == wantMin {
			return ai, nil
		}
		return bi, nil
	}
	af, aok := asFloatOperand(a)
	bf, bok := asFloatOperand(b)
	if !aok || !bok {
		return nil, fmt.Errorf("expects numbers, got %s and %s", a.Type(), b.Type())
	}
	if (af < bf) == wantMin {
		return a, nil
	}
	return b, nil
}

// ---- strings ----

func registerStringBuiltins(env *Environment) {
	builtin(env, "upper", 1, func(args []Value) (Value, error) {
		s, ok := args[0].(*StringValue)
		if !ok {
			return nil, fmt.Errorf("upper() expects String, got %s", args[0].Type())
		}
		return &StringValue{Value: strings.ToUpper(s.Value)}, nil
	})
	builtin(env, "lower", 1, func(args []Value) (Value, error) {
		s, ok := args[0].(*StringValue)
		if !ok {
			return nil, fmt.Errorf("lower() expects String, got %s", args[0].Type())
		}
		return &StringValue{Value: strings.ToLower(s.Value)}, nil
	})
	builtin(env, "trim", 1, func(args []Value) (Value, error) {
		s, ok := args[0].(*StringValue)
		if !ok {
			return nil, fmt.Errorf("trim() expects String, got %s", args[0].Type())
		}
		return &StringValue{Value: strings.TrimSpace(s.Value)}, nil
	})
	builtin(env, "split", 2, func(args []Value) (Value, error) {
		s, ok1 := args[0].(*StringValue)
		sep, ok2 := args[1].(*StringValue)
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("split() expects two Strings")
		}
		parts := strings.Split(s.Value, sep.Value)
		elems := make([]Value, len(parts))
		for i, p := range parts {
			elems[i] = &StringValue{Value: p}
		}
		return &ArrayValue{Elements: elems}, nil
	})
	builtin(env, "join", 2, func(args []Value) (Value, error) {
		arr, ok1 := args[0].(*ArrayValue)
		sep, ok2 := args[1].(*StringValue)
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("join() expects a List and a String")
		}
		parts := make([]string, len(arr.Elements))
		for i, e := range arr.Elements {
			parts[i] = e.String()
		}
		return &StringValue{Value: strings.Join(parts, sep.Value)}, nil
	})
	builtin(env, "contains", 2, func(args []Value) (Value, error) {
		s, ok := args[0].(*StringValue)
		if !ok {
			return nil, fmt.Errorf("contains() expects String, got %s", args[0].Type())
		}
		return &BoolValue{Value: strings.Contains(s.Value, args[1].String())}, nil
	})
	builtin(env, "replace", 3, func(args []Value) (Value, error) {
		s, ok := args[0].(*StringValue)
		if !ok {
			return nil, fmt.Errorf("replace() expects String, got %s", args[0].Type())
		}
		return &StringValue{Value: strings.ReplaceAll(s.Value, args[1].String(), args[2].String())}, nil
	})
}

// ---- collections (len/keys/values/range) ----

func registerCollectionBuiltins(env *Environment) {
	builtin(env, "len", 1, func(args []Value) (Value, error) {
		if ix, ok := args[0].(IndexableValue); ok {
			return &IntegerValue{Value: ix.Length()}, nil
		}
		if obj, ok := args[0].(*ObjectValue); ok {
			return &IntegerValue{Value: int64(len(obj.Fields))}, nil
		}
		return nil, fmt.Errorf("len() expects a List, String, Tuple, or Dict, got %s", args[0].Type())
	})
	builtin(env, "keys", 1, func(args []Value) (Value, error) {
		obj, ok := args[0].(*ObjectValue)
		if !ok {
			return nil, fmt.Errorf("keys() expects a Dict, got %s", args[0].Type())
		}
		ks := make([]string, 0, len(obj.Fields))
		for k := range obj.Fields {
			ks = append(ks, k)
		}
		sort.Strings(ks)
		elems := make([]Value, len(ks))
		for i, k := range ks {
			elems[i] = &StringValue{Value: k}
		}
		return &ArrayValue{Elements: elems}, nil
	})
	builtin(env, "values", 1, func(args []Value) (Value, error) {
		obj, ok := args[0].(*ObjectValue)
		if !ok {
			return nil, fmt.Errorf("values() expects a Dict, got %s", args[0].Type())
		}
		ks := make([]string, 0, len(obj.Fields))
		for k := range obj.Fields {
			ks = append(ks, k)
		}
		sort.Strings(ks)
		elems := make([]Value, len(ks))
		for i, k := range ks {
			elems[i] = obj.Fields[k]
		}
		return &ArrayValue{Elements: elems}, nil
	})
	builtin(env, "range", -1, func(args []Value) (Value, error) {
		switch len(args) {
		case 1:
			return &RangeValue{Start: &IntegerValue{Value: 0}, End: args[0], Inclusive: false}, nil
		case 2:
			return &RangeValue{Start: args[0], End: args[1], Inclusive: false}, nil
		}
		return nil, arityError("range", 2, len(args))
	})
}

// ---- conversion ----

func registerConversionBuiltins(env *Environment) {
	builtin(env, "to_string", 1, func(args []Value) (Value, error) {
		return &StringValue{Value: args[0].String()}, nil
	})
	builtin(env, "to_int", 1, func(args []Value) (Value, error) {
		switch v := args[0].(type) {
		case *IntegerValue:
			return v, nil
		case *FloatValue:
			return &IntegerValue{Value: int64(v.Value)}, nil
		case *StringValue:
			n, err := strconv.ParseInt(strings.TrimSpace(v.Value), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("to_int(): cannot parse %q as Int", v.Value)
			}
			return &IntegerValue{Value: n}, nil
		case *BoolValue:
			if v.Value {
				return &IntegerValue{Value: 1}, nil
			}
			return &IntegerValue{Value: 0}, nil
		}
		return nil, fmt.Errorf("to_int() cannot convert %s", args[0].Type())
	})
	builtin(env, "to_float", 1, func(args []Value) (Value, error) {
		switch v := args[0].(type) {
		case *FloatValue:
			return v, nil
		case *IntegerValue:
			return &FloatValue{Value: float64(v.Value)}, nil
		case *StringValue:
			f, err := strconv.ParseFloat(strings.TrimSpace(v.Value), 64)
			if err != nil {
				return nil, fmt.Errorf("to_float(): cannot parse %q as Float", v.Value)
			}
			return &FloatValue{Value: f}, nil
		}
		return nil, fmt.Errorf("to_float() cannot convert %s", args[0].Type())
	})
}

// ---- system ----

func registerSystemBuiltins(env *Environment) {
	builtin(env, "now", 0, func(args []Value) (Value, error) {
		return &StringValue{Value: time.Now().Format(time.RFC3339)}, nil
	})
	builtin(env, "panic", 1, func(args []Value) (Value, error) {
		return nil, fmt.Errorf("%s", args[0].String())
	})
}

// evalBuiltinMethod implements the small set of methods every value of a
// given kind supports (push/pop/len/contains/reverse/sort on List, with no
// map or filter method; len/upper/lower/trim/contains/split on String;
// len/has/get/set on Object; select/filter/group_by/agg/rows on DataFrame),
// dispatched by receiver type the way the teacher's adapter_methods.go
// dispatches DWScript's built-in methods. The bool result reports whether
// name was recognized for recv's type at all. i/n are only needed by the
// DataFrame methods, which call back into user closures per row.
func evalBuiltinMethod(i *Interpreter, n ast.Expr, recv Value, name string, args []Value) (Value, error, bool) {
	switch v := recv.(type) {
	case *ArrayValue:
		return evalArrayMethod(v, name, args)
	case *StringValue:
		return evalStringMethod(v, name, args)
	case *ObjectValue:
		return evalObjectMethod(v, name, args)
	case *DataFrameValue:
		return evalDataFrameMethod(i, n, v, name, args)
	}
	return nil, nil, false
}

func evalArrayMethod(v *ArrayValue, name string, args []Value) (Value, error, bool) {
	switch name {
	case "push":
		if len(args) != 1 {
			return nil, arityError("push", 1, len(args)), true
		}
		v.Elements = append(v.Elements, args[0])
		return Unit, nil, true
	case "pop":
		if len(v.Elements) == 0 {
			return nil, fmt.Errorf("pop() on empty List"), true
		}
		last := v.Elements[len(v.Elements)-1]
		v.Elements = v.Elements[:len(v.Elements)-1]
		return last, nil, true
	case "len":
		return &IntegerValue{Value: int64(len(v.Elements))}, nil, true
	case "contains":
		if len(args) != 1 {
			return nil, arityError("contains", 1, len(args)), true
		}
		return &BoolValue{Value: containsValue(v.Elements, args[0])}, nil, true
	case "reverse":
		out := make([]Value, len(v.Elements))
		for i, e := range v.Elements {
			out[len(out)-1-i] = e
		}
		return &ArrayValue{Elements: out}, nil, true
	case "sort":
		out := make([]Value, len(v.Elements))
		copy(out, v.Elements)
		sort.SliceStable(out, func(i, j int) bool {
			ov, ok := out[i].(OrderableValue)
			if !ok {
				return false
			}
			cmp, err := ov.CompareTo(out[j])
			return err == nil && cmp < 0
		})
		return &ArrayValue{Elements: out}, nil, true
	}
	return nil, nil, false
}

func evalStringMethod(v *StringValue, name string, args []Value) (Value, error, bool) {
	switch name {
	case "len":
		return &IntegerValue{Value: int64(len([]rune(v.Value)))}, nil, true
	case "upper":
		return &StringValue{Value: strings.ToUpper(v.Value)}, nil, true
	case "lower":
		return &StringValue{Value: strings.ToLower(v.Value)}, nil, true
	case "trim":
		return &StringValue{Value: strings.TrimSpace(v.Value)}, nil, true
	case "contains":
		if len(args) != 1 {
			return nil, arityError("contains", 1, len(args)), true
		}
		return &BoolValue{Value: strings.Contains(v.Value, args[0].String())}, nil, true
	case "split":
		if len(args) != 1 {
			return nil, arityError("split", 1, len(args)), true
		}
		parts := strings.Split(v.Value, args[0].String())
		elems := make([]Value, len(parts))
		for i, p := range parts {
			elems[i] = &StringValue{Value: p}
		}
		return &ArrayValue{Elements: elems}, nil, true
	}
	return nil, nil, false
}

func evalObjectMethod(v *ObjectValue, name string, args []Value) (Value, error, bool) {
	switch name {
	case "len":
		return &IntegerValue{Value: int64(len(v.Fields))}, nil, true
	case "has":
		if len(args) != 1 {
			return nil, arityError("has", 1, len(args)), true
		}
		_, ok := v.Fields[args[0].String()]
		return &BoolValue{Value: ok}, nil, true
	case "get":
		if len(args) != 1 {
			return nil, arityError("get", 1, len(args)), true
		}
		fv, ok := v.Fields[args[0].String()]
		if !ok {
			return Unit, nil, true
		}
		return fv, nil, true
	case "set":
		if len(args) != 2 {
			return nil, arityError("set", 2, len(args)), true
		}
		v.Fields[args[0].String()] = args[1]
		return Unit, nil, true
	}
	return nil, nil, false
}

// rowAt builds the row-index'th record of v as an ObjectValue keyed by
// column name, the shape passed to filter/group_by/agg predicate closures.
func rowAt(v *DataFrameValue, idx int) *ObjectValue {
	fields := make(map[string]Value, len(v.ColumnOrder))
	for _, col := range v.ColumnOrder {
		fields[col] = v.Columns[col][idx]
	}
	return &ObjectValue{Fields: fields}
}

func evalDataFrameMethod(i *Interpreter, n ast.Expr, v *DataFrameValue, name string, args []Value) (Value, error, bool) {
	switch name {
	case "select":
		cols := make(map[string][]Value, len(args))
		order := make([]string, len(args))
		for idx, a := range args {
			colName := a.String()
			order[idx] = colName
			cols[colName] = v.Columns[colName]
		}
		return &DataFrameValue{Columns: cols, ColumnOrder: order}, nil, true
	case "filter":
		fn, ok := args[0].(*ClosureValue)
		if !ok {
			return nil, fmt.Errorf("filter() expects a function"), true
		}
		cols := make(map[string][]Value, len(v.ColumnOrder))
		for _, col := range v.ColumnOrder {
			cols[col] = nil
		}
		for idx := 0; idx < v.Rows(); idx++ {
			row := rowAt(v, idx)
			sig := i.callClosure(n, fn, []Value{row})
			if sig.Kind == SigThrow {
				return nil, fmt.Errorf("%s", sig.RunErr.Message), true
			}
			if !asBool(sig.Value) {
				continue
			}
			for _, col := range v.ColumnOrder {
				cols[col] = append(cols[col], v.Columns[col][idx])
			}
		}
		return &DataFrameValue{Columns: cols, ColumnOrder: v.ColumnOrder}, nil, true
	case "group_by":
		if len(args) != 1 {
			return nil, arityError("group_by", 1, len(args)), true
		}
		keyCol := args[0].String()
		groupIdx := map[string][]int{}
		var groupOrder []string
		for idx := 0; idx < v.Rows(); idx++ {
			key := v.Columns[keyCol][idx].String()
			if _, ok := groupIdx[key]; !ok {
				groupOrder = append(groupOrder, key)
			}
			groupIdx[key] = append(groupIdx[key], idx)
		}
		groups := make([]Value, len(groupOrder))
		for gi, key := range groupOrder {
			cols := make(map[string][]Value, len(v.ColumnOrder))
			for _, col := range v.ColumnOrder {
				for _, idx := range groupIdx[key] {
					cols[col] = append(cols[col], v.Columns[col][idx])
				}
			}
			groups[gi] = &TupleValue{Elements: []Value{
				&StringValue{Value: key},
				&DataFrameValue{Columns: cols, ColumnOrder: v.ColumnOrder},
			}}
		}
		return &ArrayValue{Elements: groups}, nil, true
	case "agg":
		if len(args) != 2 {
			return nil, arityError("agg", 2, len(args)), true
		}
		col := args[0].String()
		values := v.Columns[col]
		switch args[1].String() {
		case "sum":
			return aggSum(values), nil, true
		case "mean":
			s, err := aggSumValue(values)
			if err != nil {
				return nil, err, true
			}
			if len(values) == 0 {
				return &FloatValue{Value: 0}, nil, true
			}
			return &FloatValue{Value: s / float64(len(values))}, nil, true
		case "count":
			return &IntegerValue{Value: int64(len(values))}, nil, true
		}
		return nil, fmt.Errorf("agg(): unknown aggregation %q", args[1].String()), true
	case "rows":
		return &IntegerValue{Value: int64(v.Rows())}, nil, true
	}
	return nil, nil, false
}

func aggSum(values []Value) Value {
	var isFloat bool
	var sum float64
	var isum int64
	for _, v := range values {
		if f, ok := v.(*FloatValue); ok {
			isFloat = true
			sum += f.Value
			continue
		}
		if iv, ok := v.(*IntegerValue); ok {
			isum += iv.Value
			sum += float64(iv.Value)
		}
	}
	if isFloat {
		return &FloatValue{Value: sum}
	}
	return &IntegerValue{Value: isum}
}

func aggSumValue(values []Value) (float64, error) {
	var sum float64
	for _, v := range values {
		f, ok := asFloatOperand(v)
		if !ok {
			return 0, fmt.Errorf("agg(): column contains non-numeric value %s", v.Type())
		}
		sum += f
	}
	return sum, nil
}
