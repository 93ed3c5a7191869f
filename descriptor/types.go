// Package descriptor encodes a compiled registry into an order-independent
// synchronization set of type descriptors, decodes sets back into
// declarations, and diffs encoded sets.
package descriptor

// Object and set type names used on the wire.
const (
	NamedTypeObject = "sanity.schema.namedType"
	RegistrySet     = "sanity.schema.registry"
)

// TypeDef describes the attributes one link of an inheritance chain sets
// itself. Extends is nil for core types, which carry JSONType instead.
//
// Values that are not plain JSON (functions, cycles, element markers,
// numbers) are encoded as sentinel objects carrying a __type key.
type TypeDef struct {
	Extends  *string `json:"extends"`
	JSONType string  `json:"jsonType,omitempty"`

	Title        string      `json:"title,omitempty"`
	Description  any         `json:"description,omitempty"`
	ReadOnly     any         `json:"readOnly,omitempty"`
	Hidden       any         `json:"hidden,omitempty"`
	LiveEdit     bool        `json:"liveEdit,omitempty"`
	Options      any         `json:"options,omitempty"`
	InitialValue any         `json:"initialValue,omitempty"`
	Deprecated   *Deprecated `json:"deprecated,omitempty"`
	Placeholder  string      `json:"placeholder,omitempty"`
	Rows         string      `json:"rows,omitempty"`

	Fields     []Field      `json:"fields,omitempty"`
	Fieldsets  []Fieldset   `json:"fieldsets,omitempty"`
	Groups     []Group      `json:"groups,omitempty"`
	Of         []Member     `json:"of,omitempty"`
	To         []Target     `json:"to,omitempty"`
	Validation []Validation `json:"validation,omitempty"`
}

// IsCore reports whether the descriptor is of a core type.
func (d *TypeDef) IsCore() bool { return d.Extends == nil }

// Deprecated carries the deprecation reason of a type.
type Deprecated struct {
	Reason string `json:"reason"`
}

// Field is one field of an object-like type.
type Field struct {
	Name     string   `json:"name"`
	TypeDef  *TypeDef `json:"typeDef"`
	Groups   []string `json:"groups,omitempty"`
	Fieldset string   `json:"fieldset,omitempty"`
}

// Fieldset is a declared fieldset.
type Fieldset struct {
	Name        string `json:"name"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Group       string `json:"group,omitempty"`
	Hidden      any    `json:"hidden,omitempty"`
	ReadOnly    any    `json:"readOnly,omitempty"`
	Options     any    `json:"options,omitempty"`
}

// Group is a declared field group.
type Group struct {
	Name    string               `json:"name"`
	Title   string               `json:"title,omitempty"`
	Hidden  any                  `json:"hidden,omitempty"`
	Default bool                 `json:"default,omitempty"`
	I18n    map[string]I18nValue `json:"i18n,omitempty"`
}

// I18nValue is a localized message key.
type I18nValue struct {
	NS  string `json:"ns"`
	Key string `json:"key"`
}

// Member is an array member.
type Member struct {
	Name    string   `json:"name"`
	TypeDef *TypeDef `json:"typeDef"`
}

// Target is a reference target, named by type.
type Target struct {
	Name string `json:"name"`
}

// Validation is one validation entry: a level, its rules and an optional
// message.
type Validation struct {
	Level   string     `json:"level"`
	Rules   []RuleSpec `json:"rules"`
	Message string     `json:"message,omitempty"`
}

// RuleSpec is one encoded rule. Which fields are set depends on Type.
type RuleSpec struct {
	Type          string       `json:"type"`
	Name          string       `json:"name,omitempty"`
	Value         any          `json:"value,omitempty"`
	Values        []any        `json:"values,omitempty"`
	Pattern       string       `json:"pattern,omitempty"`
	Invert        bool         `json:"invert,omitempty"`
	AllowRelative *bool        `json:"allowRelative,omitempty"`
	Optional      bool         `json:"optional,omitempty"`
	Children      []Validation `json:"children,omitempty"`
}

// FieldReferenceValue is the encoded form of a constraint that points at a
// sibling field.
type FieldReferenceValue struct {
	Type string   `json:"type"`
	Path []string `json:"path"`
}

// NamedType is the set object describing one registry entry.
type NamedType struct {
	Type    string   `json:"type"`
	Name    string   `json:"name"`
	TypeDef *TypeDef `json:"typeDef"`
}

// Set is a synchronization set: content-addressed objects plus nested sets.
// Keys holds the IDs of the set's own objects in sorted order.
type Set struct {
	ID           string                `json:"id"`
	Type         string                `json:"type"`
	Keys         []string              `json:"keys"`
	ObjectValues map[string]*NamedType `json:"objectValues"`
	Sets         []*Set                `json:"sets,omitempty"`
}

// Objects returns the set's own named types in key order.
func (s *Set) Objects() []*NamedType {
	out := make([]*NamedType, 0, len(s.Keys))
	for _, k := range s.Keys {
		if o, ok := s.ObjectValues[k]; ok {
			out = append(out, o)
		}
	}
	return out
}

// Lookup finds the named type called name in the set or its nested sets.
func (s *Set) Lookup(name string) (*NamedType, bool) {
	for _, o := range s.Objects() {
		if o.Name == name {
			return o, true
		}
	}
	for _, sub := range s.Sets {
		if o, ok := sub.Lookup(name); ok {
			return o, true
		}
	}
	return nil, false
}
