// Package jsonvalue provides an internal representation of JSON values
// used to bridge Vela's runtime values to and from JSON text. It is
// adapted from the teacher's package of the same name, but where the
// teacher walks encoding/json's interface{} tree, this version is built
// directly on github.com/tidwall/gjson and github.com/tidwall/sjson so
// the path-based json_get/json_set builtins can share the same query
// and patch machinery as the Encode/Parse round trip.
package jsonvalue

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Kind represents the type of a JSON value.
type Kind uint8

const (
	KindUndefined Kind = iota
	KindNull
	KindObject
	KindArray
	KindString
	KindNumber
	KindInt64
	KindBoolean
)

// String returns a human-readable form of the kind.
func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "Undefined"
	case KindNull:
		return "Null"
	case KindObject:
		return "Object"
	case KindArray:
		return "Array"
	case KindString:
		return "String"
	case KindNumber:
		return "Number"
	case KindInt64:
		return "Int64"
	case KindBoolean:
		return "Boolean"
	default:
		return "Unknown"
	}
}

// Value represents a JSON value in memory, avoiding interface{} so the
// interpreter's conversion helpers can switch on Kind() instead of a type
// assertion chain.
type Value struct {
	kind Kind

	objEntries map[string]*Value
	objKeys    []string // insertion order

	arrElems []*Value

	str  string
	num  float64
	i64  int64
	bool bool
}

// Kind returns the kind of the value. A nil receiver reports Undefined.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindUndefined
	}
	return v.kind
}

func NewUndefined() *Value { return &Value{kind: KindUndefined} }
func NewNull() *Value      { return &Value{kind: KindNull} }
func NewBoolean(b bool) *Value { return &Value{kind: KindBoolean, bool: b} }
func NewNumber(n float64) *Value { return &Value{kind: KindNumber, num: n} }
func NewInt64(n int64) *Value    { return &Value{kind: KindInt64, i64: n} }
func NewString(s string) *Value  { return &Value{kind: KindString, str: s} }

func NewArray() *Value {
	return &Value{kind: KindArray, arrElems: make([]*Value, 0)}
}

func NewObject() *Value {
	return &Value{kind: KindObject, objEntries: make(map[string]*Value), objKeys: make([]string, 0)}
}

// ObjectGet returns the value for key, or nil if absent or the receiver
// is not an object.
func (v *Value) ObjectGet(key string) *Value {
	if v == nil || v.kind != KindObject {
		return nil
	}
	return v.objEntries[key]
}

// ObjectSet associates key with child, preserving insertion order for
// new keys and replacing the value in place for existing ones.
func (v *Value) ObjectSet(key string, child *Value) {
	if v == nil || v.kind != KindObject {
		return
	}
	if _, exists := v.objEntries[key]; !exists {
		v.objKeys = append(v.objKeys, key)
	}
	v.objEntries[key] = child
}

// ObjectDelete removes key if present, reporting whether it was removed.
func (v *Value) ObjectDelete(key string) bool {
	if v == nil || v.kind != KindObject {
		return false
	}
	if _, exists := v.objEntries[key]; !exists {
		return false
	}
	delete(v.objEntries, key)
	for i, k := range v.objKeys {
		if k == key {
			v.objKeys = append(v.objKeys[:i], v.objKeys[i+1:]...)
			break
		}
	}
	return true
}

// ObjectKeys returns the object's keys in insertion order.
func (v *Value) ObjectKeys() []string {
	if v == nil || v.kind != KindObject {
		return nil
	}
	keys := make([]string, len(v.objKeys))
	copy(keys, v.objKeys)
	return keys
}

// ArrayLen returns the number of elements, or zero if not an array.
func (v *Value) ArrayLen() int {
	if v == nil || v.kind != KindArray {
		return 0
	}
	return len(v.arrElems)
}

// ArrayGet returns the element at index, or nil if out of bounds.
func (v *Value) ArrayGet(index int) *Value {
	if v == nil || v.kind != KindArray || index < 0 || index >= len(v.arrElems) {
		return nil
	}
	return v.arrElems[index]
}

// ArrayAppend appends child to the array.
func (v *Value) ArrayAppend(child *Value) {
	if v == nil || v.kind != KindArray {
		return
	}
	v.arrElems = append(v.arrElems, child)
}

// ArrayElements returns a shallow copy of the array's elements.
func (v *Value) ArrayElements() []*Value {
	if v == nil || v.kind != KindArray {
		return nil
	}
	out := make([]*Value, len(v.arrElems))
	copy(out, v.arrElems)
	return out
}

// BoolValue returns the boolean payload, false if not a KindBoolean.
func (v *Value) BoolValue() bool {
	if v == nil || v.kind != KindBoolean {
		return false
	}
	return v.bool
}

// StringValue returns the string payload, "" if not a KindString.
func (v *Value) StringValue() string {
	if v == nil || v.kind != KindString {
		return ""
	}
	return v.str
}

// NumberValue returns the float64 payload, 0 if not a KindNumber.
func (v *Value) NumberValue() float64 {
	if v == nil || v.kind != KindNumber {
		return 0
	}
	return v.num
}

// Int64Value returns the int64 payload, 0 if not a KindInt64.
func (v *Value) Int64Value() int64 {
	if v == nil || v.kind != KindInt64 {
		return 0
	}
	return v.i64
}

// Encode renders v as compact JSON text. Objects and arrays are built up
// incrementally with sjson so an object's key order survives into the
// output (Go map iteration, which plain encoding/json would fall back
// to, does not preserve it).
func (v *Value) Encode() string {
	if v == nil {
		return "null"
	}
	switch v.kind {
	case KindUndefined, KindNull:
		return "null"
	case KindBoolean:
		if v.bool {
			return "true"
		}
		return "false"
	case KindInt64:
		return strconv.FormatInt(v.i64, 10)
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindString:
		return encodeJSONString(v.str)
	case KindArray:
		doc := "[]"
		for _, elem := range v.arrElems {
			if out, err := sjson.SetRaw(doc, "-1", elem.Encode()); err == nil {
				doc = out
			}
		}
		return doc
	case KindObject:
		doc := "{}"
		for _, key := range v.objKeys {
			if out, err := sjson.SetRaw(doc, escapePathKey(key), v.objEntries[key].Encode()); err == nil {
				doc = out
			}
		}
		return doc
	default:
		return "null"
	}
}

// encodeJSONString leans on sjson to produce a correctly escaped JSON
// string literal rather than hand-rolling escape rules.
func encodeJSONString(s string) string {
	doc, err := sjson.Set(`{}`, "v", s)
	if err != nil {
		return strconv.Quote(s)
	}
	return gjson.Get(doc, "v").Raw
}

// escapePathKey escapes sjson/gjson's path metacharacters (., *, ?) so an
// object key containing them is treated as a literal key, not a wildcard
// or path separator.
func escapePathKey(key string) string {
	replacer := strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`)
	return replacer.Replace(key)
}

// Parse decodes JSON text into a Value tree using gjson.
func Parse(doc string) (*Value, error) {
	if !gjson.Valid(doc) {
		return nil, fmt.Errorf("invalid JSON")
	}
	return fromResult(gjson.Parse(doc)), nil
}

func fromResult(r gjson.Result) *Value {
	switch r.Type {
	case gjson.Null:
		return NewNull()
	case gjson.False:
		return NewBoolean(false)
	case gjson.True:
		return NewBoolean(true)
	case gjson.String:
		return NewString(r.Str)
	case gjson.Number:
		if !strings.ContainsAny(r.Raw, ".eE") && r.Num == math.Trunc(r.Num) {
			return NewInt64(int64(r.Num))
		}
		return NewNumber(r.Num)
	case gjson.JSON:
		if r.IsArray() {
			arr := NewArray()
			r.ForEach(func(_, elem gjson.Result) bool {
				arr.ArrayAppend(fromResult(elem))
				return true
			})
			return arr
		}
		obj := NewObject()
		r.ForEach(func(key, elem gjson.Result) bool {
			obj.ObjectSet(key.String(), fromResult(elem))
			return true
		})
		return obj
	default:
		return NewNull()
	}
}

// GetPath queries doc (JSON text) with a gjson path expression, returning
// the raw JSON text of the match and whether it was found at all.
func GetPath(doc, path string) (raw string, ok bool) {
	r := gjson.Get(doc, path)
	return r.Raw, r.Exists()
}

// SetPathRaw writes rawValue (already-encoded JSON text) into doc at
// path, creating intermediate objects/arrays as sjson requires.
func SetPathRaw(doc, path, rawValue string) (string, error) {
	return sjson.SetRaw(doc, path, rawValue)
}

// DeletePath removes the value at path from doc.
func DeletePath(doc, path string) (string, error) {
	return sjson.Delete(doc, path)
}
