// Package value models the dynamically typed values carried by the plugin
// messaging channel.
//
// A Value is a tagged union over null, bool, int, double, string, list and
// map. It is immutable: constructors copy their inputs and accessors hand out
// copies, so a Value can be shared freely between goroutines.
package value

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// Kind identifies which member of the union a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindDouble
	KindString
	KindList
	KindMap
)

// String returns the kind name used in shape errors.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value is a channel value. The zero Value is Null.
type Value struct {
	kind Kind

	boolVal   bool
	intVal    int64
	doubleVal float64
	strVal    string
	listVal   []Value
	mapVal    map[string]Value
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool wraps b.
func Bool(b bool) Value { return Value{kind: KindBool, boolVal: b} }

// Int wraps i.
func Int(i int64) Value { return Value{kind: KindInt, intVal: i} }

// Double wraps f.
func Double(f float64) Value { return Value{kind: KindDouble, doubleVal: f} }

// String wraps s.
func String(s string) Value { return Value{kind: KindString, strVal: s} }

// List builds a list value from vs.
func List(vs ...Value) Value {
	items := make([]Value, len(vs))
	copy(items, vs)
	return Value{kind: KindList, listVal: items}
}

// Map builds a map value from entries.
func Map(entries map[string]Value) Value {
	m := make(map[string]Value, len(entries))
	for k, v := range entries {
		m[k] = v
	}
	return Value{kind: KindMap, mapVal: m}
}

// Kind reports the member held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Len returns the number of elements of a list or entries of a map, and 0
// for every other kind.
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.listVal)
	case KindMap:
		return len(v.mapVal)
	}
	return 0
}

// Keys returns the map keys in sorted order, or nil when v is not a map.
func (v Value) Keys() []string {
	if v.kind != KindMap {
		return nil
	}
	keys := make([]string, 0, len(v.mapVal))
	for k := range v.mapVal {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Equal reports whether a and b hold the same kind and contents. Int and
// Double never compare equal to each other.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.boolVal == b.boolVal
	case KindInt:
		return a.intVal == b.intVal
	case KindDouble:
		return a.doubleVal == b.doubleVal || (math.IsNaN(a.doubleVal) && math.IsNaN(b.doubleVal))
	case KindString:
		return a.strVal == b.strVal
	case KindList:
		if len(a.listVal) != len(b.listVal) {
			return false
		}
		for i := range a.listVal {
			if !Equal(a.listVal[i], b.listVal[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(a.mapVal) != len(b.mapVal) {
			return false
		}
		for k, av := range a.mapVal {
			bv, ok := b.mapVal[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	}
	return false
}

// FromAny converts a plain Go value into a Value. It accepts nil, bool,
// signed and unsigned integers, floats, strings, json.Number, Value,
// []any, []Value, map[string]any and map[string]Value.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case int:
		return Int(int64(t)), nil
	case int8:
		return Int(int64(t)), nil
	case int16:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint:
		return fromUint(uint64(t)), nil
	case uint8:
		return Int(int64(t)), nil
	case uint16:
		return Int(int64(t)), nil
	case uint32:
		return Int(int64(t)), nil
	case uint64:
		return fromUint(t), nil
	case float32:
		return Double(float64(t)), nil
	case float64:
		return Double(t), nil
	case string:
		return String(t), nil
	case json.Number:
		return fromNumber(t)
	case []Value:
		return List(t...), nil
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			v, err := FromAny(item)
			if err != nil {
				return Null(), fmt.Errorf("[%d]: %w", i, err)
			}
			items[i] = v
		}
		return Value{kind: KindList, listVal: items}, nil
	case map[string]Value:
		return Map(t), nil
	case map[string]any:
		m := make(map[string]Value, len(t))
		for k, item := range t {
			v, err := FromAny(item)
			if err != nil {
				return Null(), fmt.Errorf("%s: %w", k, err)
			}
			m[k] = v
		}
		return Value{kind: KindMap, mapVal: m}, nil
	default:
		return Null(), fmt.Errorf("value: unsupported Go type %T", x)
	}
}

// Any converts v back into plain Go values: nil, bool, int64, float64,
// string, []any and map[string]any.
func (v Value) Any() any {
	switch v.kind {
	case KindBool:
		return v.boolVal
	case KindInt:
		return v.intVal
	case KindDouble:
		return v.doubleVal
	case KindString:
		return v.strVal
	case KindList:
		out := make([]any, len(v.listVal))
		for i, item := range v.listVal {
			out[i] = item.Any()
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.mapVal))
		for k, item := range v.mapVal {
			out[k] = item.Any()
		}
		return out
	}
	return nil
}

// String renders v as JSON for logs and error messages.
func (v Value) String() string {
	b, err := v.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<%s>", v.kind)
	}
	return string(b)
}

func fromUint(u uint64) Value {
	if u > math.MaxInt64 {
		return Double(float64(u))
	}
	return Int(int64(u))
}
