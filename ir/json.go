package ir

import (
	"bytes"
	"fmt"

	gojson "github.com/goccy/go-json"
)

type scalarJSON struct {
	Type  string `json:"type"`
	Value any    `json:"value,omitempty"`
}

func writeKey(b *bytes.Buffer, key string) {
	k, _ := gojson.Marshal(key)
	b.Write(k)
	b.WriteByte(':')
}

func writeAttributes(b *bytes.Buffer, attrs []Attribute) error {
	b.WriteByte('{')
	for i, a := range attrs {
		if i > 0 {
			b.WriteByte(',')
		}
		writeKey(b, a.Name)
		v, err := gojson.Marshal(a.Value)
		if err != nil {
			return fmt.Errorf("attribute %s: %w", a.Name, err)
		}
		b.WriteString(`{"type":"objectAttribute","value":`)
		b.Write(v)
		if a.Optional {
			b.WriteString(`,"optional":true`)
		}
		b.WriteByte('}')
	}
	b.WriteByte('}')
	return nil
}

func marshalObject(o *Object, dereferencesTo string) ([]byte, error) {
	b := &bytes.Buffer{}
	b.WriteString(`{"type":"object","attributes":`)
	if err := writeAttributes(b, o.Attributes); err != nil {
		return nil, err
	}
	if o.Rest != nil {
		rest, err := gojson.Marshal(o.Rest)
		if err != nil {
			return nil, err
		}
		b.WriteString(`,"rest":`)
		b.Write(rest)
	}
	if dereferencesTo != "" {
		b.WriteByte(',')
		writeKey(b, "dereferencesTo")
		v, _ := gojson.Marshal(dereferencesTo)
		b.Write(v)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

func (o *Object) MarshalJSON() ([]byte, error) { return marshalObject(o, "") }

func (r *Reference) MarshalJSON() ([]byte, error) { return marshalObject(r.Object(), r.To) }

func (a *Array) MarshalJSON() ([]byte, error) {
	return gojson.Marshal(struct {
		Type string `json:"type"`
		Of   Node   `json:"of"`
	}{"array", a.Of})
}

func (u *Union) MarshalJSON() ([]byte, error) {
	of := u.Of
	if of == nil {
		of = []Node{}
	}
	return gojson.Marshal(struct {
		Type string `json:"type"`
		Of   []Node `json:"of"`
	}{"union", of})
}

func (i *Inline) MarshalJSON() ([]byte, error) {
	return gojson.Marshal(struct {
		Type string `json:"type"`
		Name string `json:"name"`
	}{"inline", i.Name})
}

func (s *String) MarshalJSON() ([]byte, error) {
	out := scalarJSON{Type: "string"}
	if s.Value != nil {
		out.Value = *s.Value
	}
	return gojson.Marshal(out)
}

func (n *Number) MarshalJSON() ([]byte, error) {
	out := scalarJSON{Type: "number"}
	if n.Value != nil {
		out.Value = *n.Value
	}
	return gojson.Marshal(out)
}

func (v *Boolean) MarshalJSON() ([]byte, error) {
	b := &bytes.Buffer{}
	b.WriteString(`{"type":"boolean"`)
	if v.Value != nil {
		fmt.Fprintf(b, `,"value":%t`, *v.Value)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

func (*Null) MarshalJSON() ([]byte, error)    { return []byte(`{"type":"null"}`), nil }
func (*Unknown) MarshalJSON() ([]byte, error) { return []byte(`{"type":"unknown"}`), nil }

func (d *DocumentSchemaType) MarshalJSON() ([]byte, error) {
	b := &bytes.Buffer{}
	b.WriteByte('{')
	writeKey(b, "name")
	name, _ := gojson.Marshal(d.Name)
	b.Write(name)
	b.WriteString(`,"type":"document","attributes":`)
	if err := writeAttributes(b, d.Attributes); err != nil {
		return nil, err
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

func (d *TypeDeclarationSchemaType) MarshalJSON() ([]byte, error) {
	return gojson.Marshal(struct {
		Name  string `json:"name"`
		Type  string `json:"type"`
		Value Node   `json:"value"`
	}{d.Name, "type", d.Value})
}

type rawNode struct {
	Type           string            `json:"type"`
	Name           string            `json:"name"`
	Value          gojson.RawMessage `json:"value"`
	Of             gojson.RawMessage `json:"of"`
	Attributes     gojson.RawMessage `json:"attributes"`
	Rest           gojson.RawMessage `json:"rest"`
	DereferencesTo string            `json:"dereferencesTo"`
}

type rawAttribute struct {
	Value    gojson.RawMessage `json:"value"`
	Optional bool              `json:"optional"`
}

// UnmarshalSchema decodes the wire form of an extracted schema.
func UnmarshalSchema(data []byte) ([]SchemaType, error) {
	var items []gojson.RawMessage
	if err := gojson.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	out := make([]SchemaType, 0, len(items))
	for i, item := range items {
		var raw rawNode
		if err := gojson.Unmarshal(item, &raw); err != nil {
			return nil, fmt.Errorf("schema type %d: %w", i, err)
		}
		switch raw.Type {
		case "document":
			attrs, err := unmarshalAttributes(raw.Attributes)
			if err != nil {
				return nil, fmt.Errorf("document %s: %w", raw.Name, err)
			}
			out = append(out, &DocumentSchemaType{Name: raw.Name, Attributes: attrs})
		case "type":
			v, err := UnmarshalNode(raw.Value)
			if err != nil {
				return nil, fmt.Errorf("type %s: %w", raw.Name, err)
			}
			out = append(out, &TypeDeclarationSchemaType{Name: raw.Name, Value: v})
		default:
			return nil, fmt.Errorf("schema type %d: unexpected type %q", i, raw.Type)
		}
	}
	return out, nil
}

// UnmarshalNode decodes one type node. Objects carrying dereferencesTo
// decode as references.
func UnmarshalNode(data []byte) (Node, error) {
	var raw rawNode
	if err := gojson.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	switch raw.Type {
	case "object":
		attrs, err := unmarshalAttributes(raw.Attributes)
		if err != nil {
			return nil, err
		}
		if raw.DereferencesTo != "" {
			return &Reference{To: raw.DereferencesTo, InArray: indexOf(attrs, "_key") >= 0}, nil
		}
		o := &Object{Attributes: attrs}
		if len(raw.Rest) > 0 {
			if o.Rest, err = UnmarshalNode(raw.Rest); err != nil {
				return nil, err
			}
		}
		return o, nil
	case "array":
		of, err := UnmarshalNode(raw.Of)
		if err != nil {
			return nil, err
		}
		return &Array{Of: of}, nil
	case "union":
		var items []gojson.RawMessage
		if err := gojson.Unmarshal(raw.Of, &items); err != nil {
			return nil, err
		}
		u := &Union{Of: make([]Node, 0, len(items))}
		for _, item := range items {
			n, err := UnmarshalNode(item)
			if err != nil {
				return nil, err
			}
			u.Of = append(u.Of, n)
		}
		return u, nil
	case "inline":
		return &Inline{Name: raw.Name}, nil
	case "string":
		if len(raw.Value) == 0 {
			return &String{}, nil
		}
		var s string
		if err := gojson.Unmarshal(raw.Value, &s); err != nil {
			return nil, err
		}
		return StringLiteral(s), nil
	case "number":
		if len(raw.Value) == 0 {
			return &Number{}, nil
		}
		var f float64
		if err := gojson.Unmarshal(raw.Value, &f); err != nil {
			return nil, err
		}
		return NumberLiteral(f), nil
	case "boolean":
		if len(raw.Value) == 0 {
			return &Boolean{}, nil
		}
		var v bool
		if err := gojson.Unmarshal(raw.Value, &v); err != nil {
			return nil, err
		}
		return &Boolean{Value: &v}, nil
	case "null":
		return &Null{}, nil
	case "unknown":
		return &Unknown{}, nil
	}
	return nil, fmt.Errorf("unexpected node type %q", raw.Type)
}

// unmarshalAttributes keeps the attribute order of the input.
func unmarshalAttributes(data []byte) ([]Attribute, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dec := gojson.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	var out []Attribute
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected attribute key %v", tok)
		}
		var ra rawAttribute
		if err := dec.Decode(&ra); err != nil {
			return nil, fmt.Errorf("attribute %s: %w", name, err)
		}
		v, err := UnmarshalNode(ra.Value)
		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", name, err)
		}
		out = append(out, Attribute{Name: name, Value: v, Optional: ra.Optional})
	}
	return out, nil
}
