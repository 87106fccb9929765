package mp

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ValueKind discriminates the closed set of runtime value kinds.
type ValueKind int

const (
	KindNil ValueKind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindObject
)

func (k ValueKind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "boolean"
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return "unknown"
}

// Value is a tagged union over the language's value kinds. Values behave as
// immutable: builtins that grow or shrink arrays copy first.
type Value struct {
	kind ValueKind
	data any
}

func NewNil() Value { return Value{kind: KindNil} }

func NewBool(b bool) Value { return Value{kind: KindBool, data: b} }

func NewInt(i int64) Value { return Value{kind: KindInt, data: i} }

func NewFloat(f float64) Value { return Value{kind: KindFloat, data: f} }

func NewString(s string) Value { return Value{kind: KindString, data: s} }

func NewArray(items []Value) Value { return Value{kind: KindArray, data: items} }

func NewObject(m map[string]Value) Value { return Value{kind: KindObject, data: m} }

// Kind reports the value's kind tag.
func (v Value) Kind() ValueKind { return v.kind }

func (v Value) IsNil() bool { return v.kind == KindNil }

func (v Value) Bool() bool {
	b, _ := v.data.(bool)
	return b
}

func (v Value) Int() int64 {
	i, _ := v.data.(int64)
	return i
}

func (v Value) Float() float64 {
	f, _ := v.data.(float64)
	return f
}

func (v Value) Str() string {
	s, _ := v.data.(string)
	return s
}

func (v Value) Array() []Value {
	items, _ := v.data.([]Value)
	return items
}

func (v Value) Object() map[string]Value {
	m, _ := v.data.(map[string]Value)
	return m
}

// Equal reports structural equality. Values of different kinds are never
// equal; in particular an integer never equals a float.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNil:
		return true
	case KindBool:
		return v.Bool() == other.Bool()
	case KindInt:
		return v.Int() == other.Int()
	case KindFloat:
		return v.Float() == other.Float()
	case KindString:
		return v.Str() == other.Str()
	case KindArray:
		a, b := v.Array(), other.Array()
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if !a[i].Equal(b[i]) {
				return false
			}
		}
		return true
	case KindObject:
		a, b := v.Object(), other.Object()
		if len(a) != len(b) {
			return false
		}
		for key, av := range a {
			bv, ok := b[key]
			if !ok || !av.Equal(bv) {
				return false
			}
		}
		return true
	}
	return false
}

// String renders the display form: integers bare, floats always with a
// decimal point, strings raw, arrays bracketed, objects with sorted keys.
func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		return strconv.FormatBool(v.Bool())
	case KindInt:
		return strconv.FormatInt(v.Int(), 10)
	case KindFloat:
		return formatFloat(v.Float())
	case KindString:
		return v.Str()
	case KindArray:
		items := v.Array()
		parts := make([]string, len(items))
		for i, item := range items {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindObject:
		m := v.Object()
		keys := make([]string, 0, len(m))
		for key := range m {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, key := range keys {
			parts[i] = fmt.Sprintf("%s: %s", key, m[key].String())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return "unknown"
}

func formatFloat(f float64) string {
	if math.IsInf(f, 1) {
		return "inf"
	}
	if math.IsInf(f, -1) {
		return "-inf"
	}
	if math.IsNaN(f) {
		return "NaN"
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
