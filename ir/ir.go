// Package ir defines the closed type-node vocabulary produced by schema
// extraction and consumed by query-type generators.
package ir

// NodeKind identifies an IR node type.
type NodeKind int

const (
	NodeObject NodeKind = iota
	NodeArray
	NodeUnion
	NodeReference
	NodeInline
	NodeString
	NodeNumber
	NodeBoolean
	NodeNull
	NodeUnknown
)

var kindNames = [...]string{"object", "array", "union", "reference", "inline", "string", "number", "boolean", "null", "unknown"}

func (k NodeKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Node is an extracted type node. The set of implementations is closed.
type Node interface {
	Kind() NodeKind
	node()
}

// Attribute is one named attribute of an object node.
type Attribute struct {
	Name     string
	Value    Node
	Optional bool
}

// Object is an object with ordered attributes. Rest, when set, is merged
// into the object by consumers (used for array item keys).
type Object struct {
	Attributes []Attribute
	Rest       Node
}

// Attr returns the attribute with the given name.
func (o *Object) Attr(name string) (*Attribute, bool) {
	if i := indexOf(o.Attributes, name); i >= 0 {
		return &o.Attributes[i], true
	}
	return nil, false
}

// Set replaces the attribute with the same name or appends a new one.
func (o *Object) Set(a Attribute) {
	if cur, ok := o.Attr(a.Name); ok {
		*cur = a
		return
	}
	o.Attributes = append(o.Attributes, a)
}

// Prepend puts a in front, removing an attribute of the same name.
func (o *Object) Prepend(a Attribute) {
	out := make([]Attribute, 0, len(o.Attributes)+1)
	out = append(out, a)
	for _, cur := range o.Attributes {
		if cur.Name != a.Name {
			out = append(out, cur)
		}
	}
	o.Attributes = out
}

// Array is an array whose items are Of.
type Array struct {
	Of Node
}

// Union is one of several nodes.
type Union struct {
	Of []Node
}

// Reference is a reference object that dereferences to the named document
// type. In arrays it also carries a _key attribute.
type Reference struct {
	To      string
	InArray bool
}

// Object returns the object shape of the reference.
func (r *Reference) Object() *Object {
	o := &Object{Attributes: []Attribute{
		{Name: "_ref", Value: &String{}},
		{Name: "_type", Value: StringLiteral("reference")},
		{Name: "_weak", Value: &Boolean{}, Optional: true},
	}}
	if r.InArray {
		o.Attributes = append(o.Attributes, Attribute{Name: "_key", Value: &String{}})
	}
	return o
}

// Inline refers to a top-level type declaration by name.
type Inline struct {
	Name string
}

// String is a string, or a string literal when Value is set.
type String struct {
	Value *string
}

// StringLiteral returns a literal string node.
func StringLiteral(v string) *String { return &String{Value: &v} }

// Number is a number, or a number literal when Value is set.
type Number struct {
	Value *float64
}

// NumberLiteral returns a literal number node.
func NumberLiteral(v float64) *Number { return &Number{Value: &v} }

// Boolean is a boolean, or a boolean literal when Value is set.
type Boolean struct {
	Value *bool
}

// Null is the null type.
type Null struct{}

// Unknown is a type the extractor cannot describe.
type Unknown struct{}

func (*Object) Kind() NodeKind    { return NodeObject }
func (*Array) Kind() NodeKind     { return NodeArray }
func (*Union) Kind() NodeKind     { return NodeUnion }
func (*Reference) Kind() NodeKind { return NodeReference }
func (*Inline) Kind() NodeKind    { return NodeInline }
func (*String) Kind() NodeKind    { return NodeString }
func (*Number) Kind() NodeKind    { return NodeNumber }
func (*Boolean) Kind() NodeKind   { return NodeBoolean }
func (*Null) Kind() NodeKind      { return NodeNull }
func (*Unknown) Kind() NodeKind   { return NodeUnknown }

func (*Object) node()    {}
func (*Array) node()     {}
func (*Union) node()     {}
func (*Reference) node() {}
func (*Inline) node()    {}
func (*String) node()    {}
func (*Number) node()    {}
func (*Boolean) node()   {}
func (*Null) node()      {}
func (*Unknown) node()   {}

// SchemaType is a top-level extraction result: a document or a named type
// declaration.
type SchemaType interface {
	TypeName() string
	schemaType()
}

// DocumentSchemaType is a document type with its attributes, including the
// synthetic _id, _type, _createdAt, _updatedAt and _rev.
type DocumentSchemaType struct {
	Name       string
	Attributes []Attribute
}

// TypeDeclarationSchemaType is a named non-document type.
type TypeDeclarationSchemaType struct {
	Name  string
	Value Node
}

func (d *DocumentSchemaType) TypeName() string        { return d.Name }
func (d *TypeDeclarationSchemaType) TypeName() string { return d.Name }
func (*DocumentSchemaType) schemaType()               {}
func (*TypeDeclarationSchemaType) schemaType()        {}

// Attr returns the attribute with the given name.
func (d *DocumentSchemaType) Attr(name string) (*Attribute, bool) {
	if i := indexOf(d.Attributes, name); i >= 0 {
		return &d.Attributes[i], true
	}
	return nil, false
}

func indexOf(attrs []Attribute, name string) int {
	for i, a := range attrs {
		if a.Name == name {
			return i
		}
	}
	return -1
}

// Find returns the top-level type with the given name.
func Find(schema []SchemaType, name string) (SchemaType, bool) {
	for _, st := range schema {
		if st.TypeName() == name {
			return st, true
		}
	}
	return nil, false
}
