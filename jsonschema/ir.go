package jsonschema

import (
	"fmt"
	"sort"

	"github.com/reoring/schemac/ir"
)

// DefRef returns the $ref pointing at the definition of a named type.
func DefRef(name string) string { return "#/$defs/" + name }

// FromIR projects extracted types into one schema. Every type becomes a
// definition; the root accepts any of the documents.
func FromIR(schema []ir.SchemaType) (*Schema, error) {
	root := &Schema{Dialect: Draft, Defs: make(map[string]*Schema, len(schema))}
	for _, st := range schema {
		name := st.TypeName()
		if _, dup := root.Defs[name]; dup {
			return nil, fmt.Errorf("jsonschema: duplicate type %q", name)
		}
		var (
			s   *Schema
			err error
		)
		switch x := st.(type) {
		case *ir.DocumentSchemaType:
			s, err = object(x.Attributes)
			if err == nil {
				root.OneOf = append(root.OneOf, &Schema{Ref: DefRef(name)})
			}
		case *ir.TypeDeclarationSchemaType:
			s, err = FromNode(x.Value)
		default:
			err = fmt.Errorf("unsupported schema type %T", st)
		}
		if err != nil {
			return nil, fmt.Errorf("jsonschema: %s: %w", name, err)
		}
		s.Title = name
		root.Defs[name] = s
	}
	return root, nil
}

// FromNode projects a single node. Inline nodes become references into
// $defs.
func FromNode(n ir.Node) (*Schema, error) {
	switch x := n.(type) {
	case *ir.Object:
		s, err := object(x.Attributes)
		if err != nil {
			return nil, err
		}
		return withRest(s, x.Rest)
	case *ir.Array:
		items, err := FromNode(x.Of)
		if err != nil {
			return nil, err
		}
		return &Schema{Type: "array", Items: items}, nil
	case *ir.Union:
		return union(x.Of)
	case *ir.Reference:
		s, err := object(x.Object().Attributes)
		if err != nil {
			return nil, err
		}
		s.DereferencesTo = x.To
		return s, nil
	case *ir.Inline:
		return &Schema{Ref: DefRef(x.Name)}, nil
	case *ir.String:
		if x.Value != nil {
			return &Schema{Type: "string", Const: *x.Value}, nil
		}
		return &Schema{Type: "string"}, nil
	case *ir.Number:
		if x.Value != nil {
			return &Schema{Type: "number", Const: *x.Value}, nil
		}
		return &Schema{Type: "number"}, nil
	case *ir.Boolean:
		if x.Value != nil {
			return &Schema{Type: "boolean", Const: *x.Value}, nil
		}
		return &Schema{Type: "boolean"}, nil
	case *ir.Null:
		return &Schema{Type: "null"}, nil
	case *ir.Unknown:
		return &Schema{}, nil
	case nil:
		return nil, fmt.Errorf("nil node")
	}
	return nil, fmt.Errorf("unsupported node %T", n)
}

func object(attrs []ir.Attribute) (*Schema, error) {
	props := make(map[string]*Schema, len(attrs))
	req := make([]string, 0, len(attrs))
	for _, a := range attrs {
		ps, err := FromNode(a.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", a.Name, err)
		}
		props[a.Name] = ps
		if !a.Optional {
			req = append(req, a.Name)
		}
	}
	// sorted for deterministic output
	sort.Strings(req)
	return &Schema{Type: "object", Properties: props, Required: req}, nil
}

// withRest merges the rest of an object. Object rests are merged in place,
// anything else is combined through allOf.
func withRest(s *Schema, rest ir.Node) (*Schema, error) {
	if rest == nil {
		return s, nil
	}
	if obj, ok := rest.(*ir.Object); ok && obj.Rest == nil {
		extra, err := object(obj.Attributes)
		if err != nil {
			return nil, err
		}
		for k, v := range extra.Properties {
			if _, ok := s.Properties[k]; !ok {
				s.Properties[k] = v
			}
		}
		s.Required = mergeSorted(s.Required, extra.Required)
		return s, nil
	}
	rs, err := FromNode(rest)
	if err != nil {
		return nil, err
	}
	return &Schema{AllOf: []*Schema{rs, s}}, nil
}

func mergeSorted(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range append(append([]string(nil), a...), b...) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

// union uses enum for unions of literals and oneOf otherwise. An empty
// union matches nothing.
func union(of []ir.Node) (*Schema, error) {
	if len(of) == 0 {
		return &Schema{Not: &Schema{}}, nil
	}
	if enum, typ, ok := literals(of); ok {
		return &Schema{Type: typ, Enum: enum}, nil
	}
	out := &Schema{OneOf: make([]*Schema, 0, len(of))}
	for _, n := range of {
		s, err := FromNode(n)
		if err != nil {
			return nil, err
		}
		out.OneOf = append(out.OneOf, s)
	}
	return out, nil
}

func literals(of []ir.Node) ([]any, string, bool) {
	enum := make([]any, 0, len(of))
	typ := ""
	for _, n := range of {
		var (
			v any
			t string
		)
		switch x := n.(type) {
		case *ir.String:
			if x.Value == nil {
				return nil, "", false
			}
			v, t = *x.Value, "string"
		case *ir.Number:
			if x.Value == nil {
				return nil, "", false
			}
			v, t = *x.Value, "number"
		default:
			return nil, "", false
		}
		if typ != "" && typ != t {
			typ = "mixed"
		} else if typ == "" {
			typ = t
		}
		enum = append(enum, v)
	}
	if typ == "mixed" {
		typ = ""
	}
	return enum, typ, true
}
