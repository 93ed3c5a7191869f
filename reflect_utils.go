package schemac

import (
	"fmt"
	"reflect"
	"strings"

	gojson "github.com/goccy/go-json"
)

// IsFunc reports whether v is a Go func value of any signature. Validation
// rule functions, prepare hooks and conditional properties are funcs.
func IsFunc(v any) bool {
	if v == nil {
		return false
	}
	return reflect.TypeOf(v).Kind() == reflect.Func
}

// TypeOf classifies a declaration value the way problem messages name it:
// undefined, string, number, boolean, function, array, object or null.
func TypeOf(v any) string {
	switch v.(type) {
	case nil:
		return "undefined"
	case string:
		return "string"
	case bool:
		return "boolean"
	case Element, *Element, Component, *Component:
		return "object"
	}
	if _, ok := Number(v); ok {
		return "number"
	}
	if IsFunc(v) {
		return "function"
	}
	if IsArray(v) {
		return "array"
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Struct:
		return "object"
	case reflect.Pointer:
		if rv.IsNil() {
			return "null"
		}
		return "object"
	}
	return "unknown"
}

// Inspect renders a value for problem messages.
func Inspect(v any) string {
	switch x := v.(type) {
	case nil:
		return "undefined"
	case string:
		return fmt.Sprintf("%q", x)
	}
	if IsFunc(v) {
		return "[Function]"
	}
	b, err := gojson.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	s := string(b)
	if len(s) > 80 {
		s = s[:77] + "..."
	}
	return strings.TrimSpace(s)
}
