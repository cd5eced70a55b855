package fieldpdf

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the dynamic type of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindObject
)

// Value is a tagged union over the JSON-compatible runtime types a value map
// may carry: string, number, boolean, list, object, or null. The explicit
// tag makes the coercion rules of conditional evaluation portable instead of
// leaning on any host language's loose equality.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	list []Value
	obj  map[string]Value
}

// Null is the null Value.
func Null() Value { return Value{} }

// Str makes a string Value.
func Str(s string) Value { return Value{kind: KindString, str: s} }

// Num makes a numeric Value.
func Num(n float64) Value { return Value{kind: KindNumber, num: n} }

// Bool makes a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// List makes a list Value.
func List(items ...Value) Value { return Value{kind: KindList, list: items} }

// Object makes an object Value from a key map.
func Object(m map[string]Value) Value { return Value{kind: KindObject, obj: m} }

// FromAny converts a value decoded by encoding/json (or any equivalent
// producer of string/float64/bool/[]any/map[string]any/nil) into a Value.
// Unrecognized Go types stringify via fmt.
func FromAny(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null()
	case string:
		return Str(t)
	case float64:
		return Num(t)
	case int:
		return Num(float64(t))
	case bool:
		return Bool(t)
	case []any:
		items := make([]Value, len(t))
		for i, e := range t {
			items[i] = FromAny(e)
		}
		return Value{kind: KindList, list: items}
	case map[string]any:
		m := make(map[string]Value, len(t))
		for k, e := range t {
			m[k] = FromAny(e)
		}
		return Value{kind: KindObject, obj: m}
	case Value:
		return t
	default:
		return Str(fmt.Sprint(v))
	}
}

// Kind returns the dynamic type tag.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// String renders the value the way a template substitution would: numbers
// without a trailing ".0", booleans as "true"/"false", null as the empty
// string, lists as comma-joined elements.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindList:
		parts := make([]string, len(v.list))
		for i, e := range v.list {
			parts[i] = e.String()
		}
		return strings.Join(parts, ", ")
	case KindObject:
		data, err := json.Marshal(v.toAny())
		if err != nil {
			return ""
		}
		return string(data)
	}
	return ""
}

// Number returns the numeric value and whether the value is coercible to a
// number: numbers are themselves, booleans are 0/1, numeric strings parse.
func (v Value) Number() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindBool:
		if v.b {
			return 1, true
		}
		return 0, true
	case KindString:
		n, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// BoolValue returns the boolean payload; false for any non-boolean value.
func (v Value) BoolValue() bool { return v.kind == KindBool && v.b }

// Items returns the list payload, or nil for non-lists.
func (v Value) Items() []Value { return v.list }

// LooseEquals compares two values under the documented coercion table:
//
//   - null equals only null
//   - same-kind scalars compare directly
//   - number vs string: the string must parse numerically and match
//   - bool vs number/string: the bool becomes 0/1, then the number rule
//   - lists and objects never equal anything, including each other
func (v Value) LooseEquals(o Value) bool {
	if v.kind == KindNull || o.kind == KindNull {
		return v.kind == KindNull && o.kind == KindNull
	}
	if v.kind == KindList || v.kind == KindObject || o.kind == KindList || o.kind == KindObject {
		return false
	}
	if v.kind == o.kind {
		switch v.kind {
		case KindString:
			return v.str == o.str
		case KindNumber:
			return v.num == o.num
		case KindBool:
			return v.b == o.b
		}
	}
	// Mixed scalar kinds compare numerically when both sides coerce.
	a, aok := v.Number()
	b, bok := o.Number()
	return aok && bok && a == b
}

func (v Value) toAny() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	case KindList:
		out := make([]any, len(v.list))
		for i, e := range v.list {
			out[i] = e.toAny()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.obj))
		for k, e := range v.obj {
			out[k] = e.toAny()
		}
		return out
	}
	return nil
}

// ValueMap is the runtime data a field set is filled from. Keys may hold
// nested objects addressed with dot-separated paths.
type ValueMap map[string]Value

// ParseValueMap decodes a JSON object into a ValueMap.
func ParseValueMap(data []byte) (ValueMap, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("fieldpdf: parsing value map: %w", err)
	}
	return ValueMapFromAny(raw), nil
}

// ValueMapFromAny converts a decoded map[string]any into a ValueMap.
func ValueMapFromAny(raw map[string]any) ValueMap {
	vm := make(ValueMap, len(raw))
	for k, v := range raw {
		vm[k] = FromAny(v)
	}
	return vm
}

// Lookup resolves a dot-separated path against the map. A missing key or a
// non-object intermediate yields null, never an error: nested lookups must
// tolerate whatever shape the caller supplied.
func (vm ValueMap) Lookup(path string) Value {
	if vm == nil || path == "" {
		return Null()
	}
	segs := strings.Split(path, ".")
	cur, ok := vm[segs[0]]
	if !ok {
		return Null()
	}
	for _, seg := range segs[1:] {
		if cur.kind != KindObject {
			return Null()
		}
		next, ok := cur.obj[seg]
		if !ok {
			return Null()
		}
		cur = next
	}
	return cur
}
