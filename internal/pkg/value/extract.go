package value

import (
	"fmt"
	"sort"
)

// AsString extracts a string.
func AsString(v Value) (string, error) {
	if v.kind != KindString {
		return "", mismatch("string", v)
	}
	return v.strVal, nil
}

// AsInt extracts an integer. Doubles are rejected even when integral.
func AsInt(v Value) (int64, error) {
	if v.kind != KindInt {
		return 0, mismatch("int", v)
	}
	return v.intVal, nil
}

// AsDouble extracts a double. Integers are widened.
func AsDouble(v Value) (float64, error) {
	switch v.kind {
	case KindDouble:
		return v.doubleVal, nil
	case KindInt:
		return float64(v.intVal), nil
	}
	return 0, mismatch("double", v)
}

// AsBool extracts a bool.
func AsBool(v Value) (bool, error) {
	if v.kind != KindBool {
		return false, mismatch("bool", v)
	}
	return v.boolVal, nil
}

// AsDict extracts a map. The returned map is a copy.
func AsDict(v Value) (map[string]Value, error) {
	if v.kind != KindMap {
		return nil, mismatch("map", v)
	}
	m := make(map[string]Value, len(v.mapVal))
	for k, item := range v.mapVal {
		m[k] = item
	}
	return m, nil
}

// AsArr extracts a list. The returned slice is a copy.
func AsArr(v Value) ([]Value, error) {
	if v.kind != KindList {
		return nil, mismatch("list", v)
	}
	items := make([]Value, len(v.listVal))
	copy(items, v.listVal)
	return items, nil
}

// Field returns the value stored under key, failing when it is absent.
func Field(d map[string]Value, key string) (Value, error) {
	v, ok := d[key]
	if !ok {
		return Null(), &ShapeError{Key: key}
	}
	return v, nil
}

// FieldAs looks up key and applies caster to it. Shape errors raised by the
// caster are located under key.
func FieldAs[T any](d map[string]Value, key string, caster func(Value) (T, error)) (T, error) {
	var zero T
	v, err := Field(d, key)
	if err != nil {
		return zero, err
	}
	out, err := caster(v)
	if err != nil {
		return zero, At(err, key)
	}
	return out, nil
}

// OptionalAs applies caster to the value under key when present and not
// null, and returns def otherwise.
func OptionalAs[T any](d map[string]Value, key string, def T, caster func(Value) (T, error)) (T, error) {
	v, ok := d[key]
	if !ok || v.IsNull() {
		return def, nil
	}
	out, err := caster(v)
	if err != nil {
		return def, At(err, key)
	}
	return out, nil
}

// ArrOf extracts a list and casts every element. The first failing element
// aborts the conversion.
func ArrOf[T any](v Value, caster func(Value) (T, error)) ([]T, error) {
	items, err := AsArr(v)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(items))
	for i, item := range items {
		t, err := caster(item)
		if err != nil {
			return nil, At(err, fmt.Sprintf("[%d]", i))
		}
		out = append(out, t)
	}
	return out, nil
}

// DictOf extracts a map and casts every value. Keys are visited in sorted
// order so the reported failure is deterministic.
func DictOf[T any](v Value, caster func(Value) (T, error)) (map[string]T, error) {
	d, err := AsDict(v)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]T, len(d))
	for _, k := range keys {
		t, err := caster(d[k])
		if err != nil {
			return nil, At(err, k)
		}
		out[k] = t
	}
	return out, nil
}
