// Package interp is the tree-walking evaluator for Vela: it type-checks
// nothing (that is internal/types's job) and instead executes an already
// parsed *ast.Block directly, the way the teacher's own interpreter walks
// DWScript's AST without a separate bytecode pass.
package interp

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/velalang/vela/internal/ast"
)

// Value is a runtime value. Every concrete value type below implements it;
// callers type-switch on the concrete type (mirrored from the teacher's
// internal/interp/value.go tagged-value set) rather than relying on a
// closed interface{} to keep evaluation exhaustive and panic-free.
type Value interface {
	Type() string
	String() string
}

// NumericValue is implemented by values usable in arithmetic.
type NumericValue interface {
	Value
	AsInteger() (int64, bool)
	AsFloat() (float64, bool)
}

// ComparableValue is implemented by values usable with == and !=.
type ComparableValue interface {
	Value
	Equals(other Value) (bool, error)
}

// OrderableValue is implemented by values usable with <, >, <=, >=.
type OrderableValue interface {
	ComparableValue
	CompareTo(other Value) (int, error)
}

// CopyableValue is implemented by reference-type values that need an
// explicit deep copy on assignment (structs and arrays are value types in
// Vela; closures and actor handles are not and return themselves).
type CopyableValue interface {
	Value
	Copy() Value
}

// IndexableValue is implemented by values usable with `[]` (evalIndexAccess).
type IndexableValue interface {
	Value
	GetIndex(index int64) (Value, error)
	SetIndex(index int64, value Value) error
	Length() int64
}

// CallableValue is implemented by values usable as the callee of a Call.
type CallableValue interface {
	Value
	Arity() int
}

// IterableValue is implemented by values usable as the subject of a `for`
// loop or a comprehension.
type IterableValue interface {
	Value
	Iterator() Iterator
}

// Iterator drives a for-in loop or comprehension over an IterableValue.
type Iterator interface {
	Next() bool
	Current() Value
	Reset()
}

// IntegerValue is a 64-bit signed integer.
type IntegerValue struct{ Value int64 }

func (v *IntegerValue) Type() string             { return "Int" }
func (v *IntegerValue) String() string           { return strconv.FormatInt(v.Value, 10) }
func (v *IntegerValue) AsInteger() (int64, bool) { return v.Value, true }
func (v *IntegerValue) AsFloat() (float64, bool) { return float64(v.Value), true }
func (v *IntegerValue) Copy() Value              { return &IntegerValue{Value: v.Value} }

func (v *IntegerValue) Equals(other Value) (bool, error) {
	o, ok := other.(*IntegerValue)
	if !ok {
		return false, nil
	}
	return v.Value == o.Value, nil
}

func (v *IntegerValue) CompareTo(other Value) (int, error) {
	o, ok := other.(*IntegerValue)
	if !ok {
		return 0, fmt.Errorf("cannot compare Int with %s", other.Type())
	}
	switch {
	case v.Value < o.Value:
		return -1, nil
	case v.Value > o.Value:
		return 1, nil
	default:
		return 0, nil
	}
}

// FloatValue is a 64-bit IEEE-754 float.
type FloatValue struct{ Value float64 }

func (v *FloatValue) Type() string             { return "Float" }
func (v *FloatValue) String() string           { return strconv.FormatFloat(v.Value, 'g', -1, 64) }
func (v *FloatValue) AsInteger() (int64, bool) { return int64(v.Value), true }
func (v *FloatValue) AsFloat() (float64, bool) { return v.Value, true }
func (v *FloatValue) Copy() Value              { return &FloatValue{Value: v.Value} }

func (v *FloatValue) Equals(other Value) (bool, error) {
	o, ok := other.(*FloatValue)
	if !ok {
		return false, nil
	}
	return v.Value == o.Value, nil
}

func (v *FloatValue) CompareTo(other Value) (int, error) {
	o, ok := other.(*FloatValue)
	if !ok {
		return 0, fmt.Errorf("cannot compare Float with %s", other.Type())
	}
	switch {
	case v.Value < o.Value:
		return -1, nil
	case v.Value > o.Value:
		return 1, nil
	default:
		return 0, nil
	}
}

// StringValue is an immutable UTF-8 string.
type StringValue struct{ Value string }

func (v *StringValue) Type() string   { return "String" }
func (v *StringValue) String() string { return v.Value }
func (v *StringValue) Copy() Value    { return v }

func (v *StringValue) Equals(other Value) (bool, error) {
	o, ok := other.(*StringValue)
	if !ok {
		return false, nil
	}
	return v.Value == o.Value, nil
}

func (v *StringValue) CompareTo(other Value) (int, error) {
	o, ok := other.(*StringValue)
	if !ok {
		return 0, fmt.Errorf("cannot compare String with %s", other.Type())
	}
	return strings.Compare(v.Value, o.Value), nil
}

func (v *StringValue) GetIndex(index int64) (Value, error) {
	runes := []rune(v.Value)
	if index < 0 || index >= int64(len(runes)) {
		return nil, fmt.Errorf("string index %d out of range (length %d)", index, len(runes))
	}
	return &CharValue{Value: runes[index]}, nil
}

func (v *StringValue) SetIndex(int64, Value) error {
	return fmt.Errorf("String is immutable, cannot assign by index")
}

func (v *StringValue) Length() int64 { return int64(len([]rune(v.Value))) }

// BoolValue is a boolean.
type BoolValue struct{ Value bool }

func (v *BoolValue) Type() string { return "Bool" }
func (v *BoolValue) Copy() Value  { return v }
func (v *BoolValue) String() string {
	if v.Value {
		return "true"
	}
	return "false"
}

func (v *BoolValue) Equals(other Value) (bool, error) {
	o, ok := other.(*BoolValue)
	if !ok {
		return false, nil
	}
	return v.Value == o.Value, nil
}

// ByteValue is an unsigned 8-bit value, distinct from Int per the integer
// literal suffixes `u8`/`b` carried from the lexer through to here.
type ByteValue struct{ Value byte }

func (v *ByteValue) Type() string             { return "Byte" }
func (v *ByteValue) String() string           { return strconv.FormatUint(uint64(v.Value), 10) }
func (v *ByteValue) Copy() Value              { return v }
func (v *ByteValue) AsInteger() (int64, bool) { return int64(v.Value), true }
func (v *ByteValue) AsFloat() (float64, bool) { return float64(v.Value), true }

func (v *ByteValue) Equals(other Value) (bool, error) {
	o, ok := other.(*ByteValue)
	if !ok {
		return false, nil
	}
	return v.Value == o.Value, nil
}

// CharValue is a single Unicode code point.
type CharValue struct{ Value rune }

func (v *CharValue) Type() string   { return "Char" }
func (v *CharValue) String() string { return string(v.Value) }
func (v *CharValue) Copy() Value    { return v }

func (v *CharValue) Equals(other Value) (bool, error) {
	o, ok := other.(*CharValue)
	if !ok {
		return false, nil
	}
	return v.Value == o.Value, nil
}

// NilValue is Vela's Unit value `()`, the result of statements and of
// expressions with no meaningful result (print, assignment, while-loops).
type NilValue struct{}

func (v *NilValue) Type() string   { return "Unit" }
func (v *NilValue) String() string { return "()" }
func (v *NilValue) Copy() Value    { return v }

func (v *NilValue) Equals(other Value) (bool, error) {
	_, ok := other.(*NilValue)
	return ok, nil
}

// Unit is the shared Unit instance; Unit carries no state so one value
// serves every call site.
var Unit Value = &NilValue{}

// ArrayValue is Vela's growable List<T>, backing both list literals and
// `vec!`/comprehension results. Elements are stored by reference; Copy
// performs a shallow copy of the backing slice, matching value-assignment
// semantics for lists (the elements themselves are not deep-copied).
type ArrayValue struct{ Elements []Value }

func (v *ArrayValue) Type() string { return "List" }

func (v *ArrayValue) String() string {
	parts := make([]string, len(v.Elements))
	for i, e := range v.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (v *ArrayValue) Copy() Value {
	elems := make([]Value, len(v.Elements))
	copy(elems, v.Elements)
	return &ArrayValue{Elements: elems}
}

func (v *ArrayValue) GetIndex(index int64) (Value, error) {
	if index < 0 || index >= int64(len(v.Elements)) {
		return nil, fmt.Errorf("list index %d out of range (length %d)", index, len(v.Elements))
	}
	return v.Elements[index], nil
}

func (v *ArrayValue) SetIndex(index int64, value Value) error {
	if index < 0 || index >= int64(len(v.Elements)) {
		return fmt.Errorf("list index %d out of range (length %d)", index, len(v.Elements))
	}
	v.Elements[index] = value
	return nil
}

func (v *ArrayValue) Length() int64 { return int64(len(v.Elements)) }

func (v *ArrayValue) Iterator() Iterator { return &arrayIterator{arr: v, pos: -1} }

type arrayIterator struct {
	arr *ArrayValue
	pos int
}

func (it *arrayIterator) Next() bool {
	it.pos++
	return it.pos < len(it.arr.Elements)
}

func (it *arrayIterator) Current() Value {
	if it.pos < 0 || it.pos >= len(it.arr.Elements) {
		return nil
	}
	return it.arr.Elements[it.pos]
}

func (it *arrayIterator) Reset() { it.pos = -1 }

// TupleValue is a fixed-arity heterogeneous tuple.
type TupleValue struct{ Elements []Value }

func (v *TupleValue) Type() string { return fmt.Sprintf("Tuple%d", len(v.Elements)) }

func (v *TupleValue) String() string {
	parts := make([]string, len(v.Elements))
	for i, e := range v.Elements {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (v *TupleValue) Copy() Value {
	elems := make([]Value, len(v.Elements))
	copy(elems, v.Elements)
	return &TupleValue{Elements: elems}
}

func (v *TupleValue) GetIndex(index int64) (Value, error) {
	if index < 0 || index >= int64(len(v.Elements)) {
		return nil, fmt.Errorf("tuple index %d out of range (length %d)", index, len(v.Elements))
	}
	return v.Elements[index], nil
}

func (v *TupleValue) SetIndex(index int64, value Value) error {
	if index < 0 || index >= int64(len(v.Elements)) {
		return fmt.Errorf("tuple index %d out of range (length %d)", index, len(v.Elements))
	}
	v.Elements[index] = value
	return nil
}

func (v *TupleValue) Length() int64 { return int64(len(v.Elements)) }

// RangeValue is the runtime form of `a..b` / `a..=b`.
type RangeValue struct {
	Start, End Value
	Inclusive  bool
}

func (v *RangeValue) Type() string { return "Range" }

func (v *RangeValue) String() string {
	op := ".."
	if v.Inclusive {
		op = "..="
	}
	return v.Start.String() + op + v.End.String()
}

func (v *RangeValue) Copy() Value { return v }

func (v *RangeValue) Iterator() Iterator {
	start, _ := v.Start.(*IntegerValue)
	end, _ := v.End.(*IntegerValue)
	if start == nil || end == nil {
		return &rangeIterator{done: true}
	}
	last := end.Value
	if v.Inclusive {
		last++
	}
	return &rangeIterator{cur: start.Value - 1, end: last}
}

type rangeIterator struct {
	cur, end int64
	done     bool
}

func (it *rangeIterator) Next() bool {
	if it.done {
		return false
	}
	it.cur++
	return it.cur < it.end
}

func (it *rangeIterator) Current() Value { return &IntegerValue{Value: it.cur} }
func (it *rangeIterator) Reset()         { it.cur = 0; it.done = false }

// EnumValue is an instance of an `enum` variant: the bare tag for a unit
// variant (Payload and Fields both nil), the tag plus ordered payload
// values for a tuple variant (`Shape::Circle(3)`), or the tag plus a named
// field set for a struct-like variant (`Shape::Rect{w,h}`).
type EnumValue struct {
	EnumName string
	Variant  string
	Payload  []Value
	Fields   map[string]Value
}

func (v *EnumValue) Type() string { return v.EnumName }

func (v *EnumValue) String() string {
	switch {
	case v.Fields != nil:
		keys := make([]string, 0, len(v.Fields))
		for k := range v.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s: %s", k, v.Fields[k].String())
		}
		return fmt.Sprintf("%s::%s { %s }", v.EnumName, v.Variant, strings.Join(parts, ", "))
	case len(v.Payload) > 0:
		parts := make([]string, len(v.Payload))
		for i, p := range v.Payload {
			parts[i] = p.String()
		}
		return fmt.Sprintf("%s::%s(%s)", v.EnumName, v.Variant, strings.Join(parts, ", "))
	default:
		return v.EnumName + "::" + v.Variant
	}
}

func (v *EnumValue) Copy() Value {
	payload := make([]Value, len(v.Payload))
	copy(payload, v.Payload)
	var fields map[string]Value
	if v.Fields != nil {
		fields = make(map[string]Value, len(v.Fields))
		for k, f := range v.Fields {
			fields[k] = f
		}
	}
	return &EnumValue{EnumName: v.EnumName, Variant: v.Variant, Payload: payload, Fields: fields}
}

func (v *EnumValue) Equals(other Value) (bool, error) {
	o, ok := other.(*EnumValue)
	if !ok || v.EnumName != o.EnumName || v.Variant != o.Variant || len(v.Payload) != len(o.Payload) {
		return false, nil
	}
	for i, p := range v.Payload {
		cp, ok := p.(ComparableValue)
		if !ok {
			return false, fmt.Errorf("%s is not comparable", p.Type())
		}
		eq, err := cp.Equals(o.Payload[i])
		if err != nil || !eq {
			return eq, err
		}
	}
	return true, nil
}

// StructValue is an instance of a `struct` declaration: named, ordered
// fields, compared and copied field-by-field (value semantics).
type StructValue struct {
	StructName string
	Fields     map[string]Value
	FieldOrder []string
}

func (v *StructValue) Type() string { return v.StructName }

func (v *StructValue) String() string {
	parts := make([]string, len(v.FieldOrder))
	for i, name := range v.FieldOrder {
		parts[i] = fmt.Sprintf("%s: %s", name, v.Fields[name].String())
	}
	return fmt.Sprintf("%s { %s }", v.StructName, strings.Join(parts, ", "))
}

func (v *StructValue) Copy() Value {
	fields := make(map[string]Value, len(v.Fields))
	for k, f := range v.Fields {
		if cp, ok := f.(CopyableValue); ok {
			fields[k] = cp.Copy()
		} else {
			fields[k] = f
		}
	}
	order := make([]string, len(v.FieldOrder))
	copy(order, v.FieldOrder)
	return &StructValue{StructName: v.StructName, Fields: fields, FieldOrder: order}
}

func (v *StructValue) Equals(other Value) (bool, error) {
	o, ok := other.(*StructValue)
	if !ok || v.StructName != o.StructName || len(v.Fields) != len(o.Fields) {
		return false, nil
	}
	for k, f := range v.Fields {
		of, ok := o.Fields[k]
		if !ok {
			return false, nil
		}
		cp, ok := f.(ComparableValue)
		if !ok {
			return false, fmt.Errorf("%s is not comparable", f.Type())
		}
		eq, err := cp.Equals(of)
		if err != nil || !eq {
			return eq, err
		}
	}
	return true, nil
}

// ObjectValue is an untyped, dynamically-keyed record: the runtime shape
// of a parsed JSON object (from_json) before it is matched against a
// struct type. `mod` bodies do not use it; they bind into the enclosing
// environment.
type ObjectValue struct {
	Fields map[string]Value
}

func (v *ObjectValue) Type() string { return "Object" }

func (v *ObjectValue) String() string {
	keys := make([]string, 0, len(v.Fields))
	for k := range v.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%q: %s", k, v.Fields[k].String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (v *ObjectValue) Copy() Value {
	fields := make(map[string]Value, len(v.Fields))
	for k, f := range v.Fields {
		fields[k] = f
	}
	return &ObjectValue{Fields: fields}
}

// ClassValue is a trait-object value shape: a receiver paired with the
// method table resolved for a particular `impl Trait for Type`. The
// interpreter does not construct it; method calls dispatch on the
// receiver's runtime type name directly.
type ClassValue struct {
	TraitName string
	Receiver  Value
	Methods   map[string]*ClosureValue
}

func (v *ClassValue) Type() string { return "dyn " + v.TraitName }
func (v *ClassValue) String() string {
	return fmt.Sprintf("<%s as %s>", v.Receiver.Type(), v.TraitName)
}
func (v *ClassValue) Copy() Value { return v }

// ClosureValue is a user-defined function or lambda, bound to the
// environment in which it was created.
type ClosureValue struct {
	Name    string
	Params  []ast.Param
	Body    *ast.Block
	BodyExp ast.Expr // set instead of Body for single-expression lambdas
	Env     *Environment
	IsAsync bool
}

func (v *ClosureValue) Type() string { return "Function" }

func (v *ClosureValue) String() string {
	if v.Name != "" {
		return "<fn " + v.Name + ">"
	}
	return "<lambda>"
}

func (v *ClosureValue) Copy() Value { return v }
func (v *ClosureValue) Arity() int  { return len(v.Params) }

// BuiltinValue is a host function exposed to Vela code (print, len, math
// helpers, JSON bridge, ...), grounded on the teacher's
// internal/interp/builtins registry pattern.
type BuiltinValue struct {
	Name string
	Fn   func(args []Value) (Value, error)
	Args int // -1 means variadic
}

func (v *BuiltinValue) Type() string   { return "Builtin" }
func (v *BuiltinValue) String() string { return "<builtin " + v.Name + ">" }
func (v *BuiltinValue) Copy() Value    { return v }
func (v *BuiltinValue) Arity() int     { return v.Args }

// ActorHandleValue is the opaque handle returned by `spawn`: callers hold
// only the ID and the mailbox channel, never the actor's private state,
// which lives inside the scheduler (interp/actor.go).
type ActorHandleValue struct {
	ID      string
	Mailbox chan actorMessage
}

func (v *ActorHandleValue) Type() string   { return "Actor" }
func (v *ActorHandleValue) String() string { return "<actor " + v.ID + ">" }
func (v *ActorHandleValue) Copy() Value    { return v }

func (v *ActorHandleValue) Equals(other Value) (bool, error) {
	o, ok := other.(*ActorHandleValue)
	if !ok {
		return false, nil
	}
	return v.ID == o.ID, nil
}

// DataFrameValue is a column-oriented table: ColumnOrder preserves
// insertion order since Go maps do not, and Columns holds one slice per
// column, all the same length.
type DataFrameValue struct {
	Columns     map[string][]Value
	ColumnOrder []string
}

func (v *DataFrameValue) Type() string { return "DataFrame" }

func (v *DataFrameValue) String() string {
	rows := 0
	if len(v.ColumnOrder) > 0 {
		rows = len(v.Columns[v.ColumnOrder[0]])
	}
	return fmt.Sprintf("DataFrame<%d cols, %d rows>", len(v.ColumnOrder), rows)
}

func (v *DataFrameValue) Copy() Value {
	cols := make(map[string][]Value, len(v.Columns))
	for k, c := range v.Columns {
		col := make([]Value, len(c))
		copy(col, c)
		cols[k] = col
	}
	order := make([]string, len(v.ColumnOrder))
	copy(order, v.ColumnOrder)
	return &DataFrameValue{Columns: cols, ColumnOrder: order}
}

func (v *DataFrameValue) Rows() int {
	if len(v.ColumnOrder) == 0 {
		return 0
	}
	return len(v.Columns[v.ColumnOrder[0]])
}

// FileValue wraps an open file handle. No builtin creates one: the
// builtin set has no read_file, write_file, open or close.
type FileValue struct {
	Path   string
	Handle interface {
		Read([]byte) (int, error)
		Write([]byte) (int, error)
		Close() error
	}
}

func (v *FileValue) Type() string   { return "File" }
func (v *FileValue) String() string { return "<file " + v.Path + ">" }
func (v *FileValue) Copy() Value    { return v }
