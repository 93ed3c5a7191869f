package schemac

import (
	"reflect"
	"sort"
)

// Declaration is a raw, user-authored type record: {name, type, ...}.
// Nested members (fields, of, to) are plain map[string]any values as well, so
// decoded JSON/YAML can be used directly.
type Declaration = map[string]any

// Element is a JSX-like element marker: a component type name plus props.
type Element struct {
	Type  string
	Props map[string]any
}

// Component is an opaque component-like value (input, field, item or preview
// component) referenced by a declaration.
type Component struct {
	Name string
}

// IsComponentLike reports whether v can serve as a component.
func IsComponentLike(v any) bool {
	switch v.(type) {
	case Component, *Component:
		return true
	}
	return IsFunc(v)
}

// AsMap returns v as a map when it is a plain object.
func AsMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok && m != nil
}

// IsPlainObject reports whether v is a plain object.
func IsPlainObject(v any) bool {
	_, ok := AsMap(v)
	return ok
}

// IsArray reports whether v is a slice (other than a byte slice).
func IsArray(v any) bool {
	if v == nil {
		return false
	}
	if _, ok := v.([]byte); ok {
		return false
	}
	return reflect.TypeOf(v).Kind() == reflect.Slice
}

// AsSlice returns the elements of a slice value as []any.
func AsSlice(v any) ([]any, bool) {
	switch x := v.(type) {
	case []any:
		return x, true
	case []map[string]any:
		out := make([]any, len(x))
		for i, m := range x {
			out[i] = m
		}
		return out, true
	}
	if !IsArray(v) {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// Arrify wraps a single value into a slice; nil stays nil.
func Arrify(v any) []any {
	if v == nil {
		return nil
	}
	if s, ok := AsSlice(v); ok {
		return s
	}
	return []any{v}
}

// Str returns m[key] when it is a string.
func Str(m map[string]any, key string) (string, bool) {
	if m == nil {
		return "", false
	}
	s, ok := m[key].(string)
	return s, ok
}

// StrOr returns m[key] when it is a non-empty string, def otherwise.
func StrOr(m map[string]any, key, def string) string {
	if s, ok := Str(m, key); ok && s != "" {
		return s
	}
	return def
}

// Has reports whether m carries key at all, even with a nil value.
func Has(m map[string]any, key string) bool {
	if m == nil {
		return false
	}
	_, ok := m[key]
	return ok
}

// MapAt returns m[key] when it is a plain object.
func MapAt(m map[string]any, key string) (map[string]any, bool) {
	if m == nil {
		return nil, false
	}
	return AsMap(m[key])
}

// Truthy mirrors the loose truthiness declarations rely on: nil, false, "",
// and zero numbers are falsy.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	}
	if n, ok := Number(v); ok {
		return n != 0
	}
	return true
}

type float64er interface {
	Float64() (float64, error)
}

// Number returns v as float64 when it is any Go number or a JSON number.
func Number(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float64er:
		f, err := x.Float64()
		return f, err == nil
	}
	return 0, false
}

// Clone makes a shallow copy of a declaration.
func Clone(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Omit returns a shallow copy of m without the given keys.
func Omit(m map[string]any, keys ...string) map[string]any {
	out := Clone(m)
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// SortedKeys returns the keys of m in lexical order.
func SortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
