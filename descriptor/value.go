package descriptor

import (
	"math"
	"reflect"
	"strconv"

	"github.com/reoring/schemac"
)

// DefaultMaxDepth is the nesting depth after which arbitrary values are
// replaced by a maxDepth marker.
const DefaultMaxDepth = 5

// Sentinel __type tags.
const (
	MarkerFunction  = "function"
	MarkerCyclic    = "cyclic"
	MarkerMaxDepth  = "maxDepth"
	MarkerUndefined = "undefined"
	MarkerUnknown   = "unknown"
	MarkerNumber    = "number"
	MarkerObject    = "object"
	MarkerJSX       = "jsx"
)

// Marker is a decoded sentinel that has no Go counterpart. It encodes back
// to the same sentinel.
type Marker struct {
	Type string
}

func marker(typ string) map[string]any { return map[string]any{"__type": typ} }

// DecodedFunc stands in for a function that was encoded as a function
// marker. It encodes back to the marker.
func DecodedFunc(...any) any { return nil }

// FormatNumber renders a number the way descriptors store it.
func FormatNumber(f float64) string {
	abs := math.Abs(f)
	if abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

type valueEncoder struct {
	seen map[uintptr]bool
}

// EncodeValue encodes an arbitrary declaration value, cutting nesting at
// maxDepth. A value shared between several places is encoded once and
// marked cyclic afterwards.
func EncodeValue(v any, maxDepth int) any {
	e := &valueEncoder{seen: map[uintptr]bool{}}
	return e.encode(v, maxDepth)
}

// identity returns a pointer identity for reference-like values.
func identity(v any) (uintptr, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Pointer:
		if rv.IsNil() {
			return 0, false
		}
		return rv.Pointer(), true
	case reflect.Slice:
		if rv.Len() == 0 {
			return 0, false
		}
		return rv.Pointer(), true
	}
	return 0, false
}

func (e *valueEncoder) encode(v any, depth int) any {
	if depth == 0 {
		return marker(MarkerMaxDepth)
	}
	switch x := v.(type) {
	case nil:
		return nil
	case string, bool:
		return x
	case Marker:
		return marker(x.Type)
	case *Marker:
		return marker(x.Type)
	case schemac.Element:
		return e.element(x, depth)
	case *schemac.Element:
		if x == nil {
			return nil
		}
		return e.element(*x, depth)
	}
	if f, ok := schemac.Number(v); ok {
		return map[string]any{"__type": MarkerNumber, "value": FormatNumber(f)}
	}
	if schemac.IsFunc(v) {
		return marker(MarkerFunction)
	}
	if id, ok := identity(v); ok {
		if e.seen[id] {
			return marker(MarkerCyclic)
		}
		e.seen[id] = true
	}
	if list, ok := schemac.AsSlice(v); ok && schemac.IsArray(v) {
		out := make([]any, len(list))
		for i, item := range list {
			out[i] = e.encode(item, depth-1)
		}
		return out
	}
	if m, ok := schemac.AsMap(v); ok {
		out := make(map[string]any, len(m))
		hasType := false
		for k, val := range m {
			if k == "__type" {
				hasType = true
			}
			out[k] = e.encode(val, depth-1)
		}
		if hasType {
			return map[string]any{"__type": MarkerObject, "value": out}
		}
		return out
	}
	return marker(MarkerUnknown)
}

func (e *valueEncoder) element(el schemac.Element, depth int) any {
	props, _ := e.encode(el.Props, depth-1).(map[string]any)
	if props == nil {
		props = map[string]any{}
	}
	return map[string]any{"__type": MarkerJSX, "type": el.Type, "props": props}
}

// DecodeValue reverses EncodeValue: numbers become float64, wrapped objects
// are unwrapped, elements become schemac.Element, functions become
// DecodedFunc and the remaining sentinels become Marker values.
func DecodeValue(v any) any {
	switch x := v.(type) {
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = DecodeValue(item)
		}
		return out
	case map[string]any:
		tag, tagged := x["__type"].(string)
		if !tagged {
			out := make(map[string]any, len(x))
			for k, val := range x {
				out[k] = DecodeValue(val)
			}
			return out
		}
		switch tag {
		case MarkerNumber:
			s, _ := x["value"].(string)
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return Marker{Type: MarkerUnknown}
			}
			return f
		case MarkerObject:
			inner, _ := x["value"].(map[string]any)
			out := make(map[string]any, len(inner))
			for k, val := range inner {
				out[k] = DecodeValue(val)
			}
			return out
		case MarkerJSX:
			typ, _ := x["type"].(string)
			props, _ := DecodeValue(x["props"]).(map[string]any)
			return schemac.Element{Type: typ, Props: props}
		case MarkerFunction:
			return DecodedFunc
		}
		return Marker{Type: tag}
	}
	return v
}

// conditional encodes readOnly and hidden: true, or a function marker.
func conditional(v any) any {
	if schemac.IsFunc(v) {
		return marker(MarkerFunction)
	}
	if b, ok := v.(bool); ok && b {
		return true
	}
	return nil
}

func decodeConditional(v any) any {
	if b, ok := v.(bool); ok && b {
		return true
	}
	if m, ok := v.(map[string]any); ok && m["__type"] == MarkerFunction {
		return DecodedFunc
	}
	return nil
}

// stringOrElement encodes a description: a string or an element marker.
func stringOrElement(v any, maxDepth int) any {
	switch x := v.(type) {
	case string:
		return x
	case schemac.Element, *schemac.Element:
		if enc, ok := EncodeValue(x, maxDepth+1).(map[string]any); ok && enc["__type"] == MarkerJSX {
			return enc
		}
	}
	return nil
}
