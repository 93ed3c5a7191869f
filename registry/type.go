package registry

import (
	"github.com/reoring/schemac"
	"github.com/reoring/schemac/internal/lazy"
)

// Field is a named member of an object-like type.
type Field struct {
	Name     string
	Type     *Type
	Fieldset string
	Group    []string
	Decl     map[string]any
}

// Type is a compiled type. Core types have no base; every other type is one
// link of an inheritance chain that ends at a core type. Types are immutable
// once compiled; derived data is computed lazily and memoized.
type Type struct {
	name     string
	title    string
	hasTitle bool
	kind     schemac.Kind
	jsonType schemac.JSONType
	base     *Type
	reg      *Registry

	decl map[string]any
	own  map[string]any

	// structural members, set only on the link that first declared them
	fields      []*Field
	hasFields   bool
	of          []*Type
	hasOf       bool
	to          []*Type
	hasTo       bool
	foreignTo   []map[string]any
	annotations []*Type
	block       *blockDefs

	preview   *lazy.Value[Preview]
	search    *lazy.Value[[]SearchPath]
	fieldsets *lazy.Value[fieldsetsResult]
	groups    *lazy.Value[groupsResult]
	orderings *lazy.Value[[]Ordering]
}

func (t *Type) init() {
	t.preview = lazy.New(t.computePreview)
	t.search = lazy.New(t.computeSearch)
	t.fieldsets = lazy.New(t.computeFieldsets)
	t.groups = lazy.New(t.computeGroups)
	t.orderings = lazy.New(t.computeOrderings)
}

// Name is the type name. Anonymous member types carry the name of their base.
func (t *Type) Name() string { return t.name }

// Title is the declared title, or the one inherited from the base.
func (t *Type) Title() string {
	for cur := t; cur != nil; cur = cur.base {
		if cur.hasTitle {
			return cur.title
		}
	}
	return ""
}

// Kind is the kind of the core type the chain ends at.
func (t *Type) Kind() schemac.Kind { return t.kind }

// JSONType is inherited from the core type.
func (t *Type) JSONType() schemac.JSONType { return t.jsonType }

// Base returns the next link of the chain; nil for core types.
func (t *Type) Base() *Type { return t.base }

// IsCore reports whether t is a core type.
func (t *Type) IsCore() bool { return t.base == nil }

// Core returns the core type the chain ends at.
func (t *Type) Core() *Type {
	cur := t
	for cur.base != nil {
		cur = cur.base
	}
	return cur
}

// Registry is the registry that compiled t.
func (t *Type) Registry() *Registry { return t.reg }

// Decl returns the declaration t was created from; nil for core types.
func (t *Type) Decl() map[string]any { return t.decl }

// Own returns the attributes this link sets itself.
func (t *Type) Own() map[string]any { return t.own }

// Get looks an attribute up through the chain.
func (t *Type) Get(attr string) (any, bool) {
	for cur := t; cur != nil; cur = cur.base {
		if v, ok := cur.own[attr]; ok {
			return v, true
		}
	}
	return nil, false
}

// Options returns the inherited options object.
func (t *Type) Options() map[string]any {
	v, _ := t.Get("options")
	m, _ := schemac.AsMap(v)
	return m
}

// Validation returns the inherited validation value.
func (t *Type) Validation() any {
	v, _ := t.Get("validation")
	return v
}

// IsNamed reports whether t is the registry entry for its name, as opposed
// to an anonymous member type.
func (t *Type) IsNamed() bool {
	if t.reg == nil {
		return false
	}
	got, ok := t.reg.Get(t.name)
	return ok && got == t
}

// NearestNamed walks the chain to the first registry entry.
func (t *Type) NearestNamed() *Type {
	for cur := t; cur != nil; cur = cur.base {
		if cur.IsNamed() {
			return cur
		}
	}
	return nil
}

// InheritsFrom reports whether some link of the chain is named name.
func (t *Type) InheritsFrom(name string) bool {
	for cur := t; cur != nil; cur = cur.base {
		if cur.name == name {
			return true
		}
	}
	return false
}

// Fields returns the fields of the nearest link that declared fields.
func (t *Type) Fields() []*Field {
	for cur := t; cur != nil; cur = cur.base {
		if cur.hasFields {
			return cur.fields
		}
	}
	return nil
}

// OwnFields returns the fields declared by this link.
func (t *Type) OwnFields() ([]*Field, bool) { return t.fields, t.hasFields }

// Field returns the field called name.
func (t *Type) Field(name string) (*Field, bool) {
	for _, f := range t.Fields() {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Of returns the inherited array member types.
func (t *Type) Of() []*Type {
	for cur := t; cur != nil; cur = cur.base {
		if cur.hasOf {
			return cur.of
		}
	}
	return nil
}

// OwnOf returns the member types declared by this link.
func (t *Type) OwnOf() ([]*Type, bool) { return t.of, t.hasOf }

// To returns the inherited reference targets.
func (t *Type) To() []*Type {
	for cur := t; cur != nil; cur = cur.base {
		if cur.hasTo {
			return cur.to
		}
	}
	return nil
}

// OwnTo returns the reference targets declared by this link.
func (t *Type) OwnTo() ([]*Type, bool) { return t.to, t.hasTo }

// ForeignTo returns the raw targets of cross-dataset and global document
// references, which live outside this registry.
func (t *Type) ForeignTo() []map[string]any {
	for cur := t; cur != nil; cur = cur.base {
		if cur.foreignTo != nil {
			return cur.foreignTo
		}
	}
	return nil
}

// Annotations returns the compiled annotation types of a span.
func (t *Type) Annotations() []*Type {
	for cur := t; cur != nil; cur = cur.base {
		if cur.annotations != nil {
			return cur.annotations
		}
	}
	return nil
}

// Preview returns the declared or guessed preview configuration.
func (t *Type) Preview() Preview { return t.preview.Get() }

// Search returns the weighted search paths of the type.
func (t *Type) Search() []SearchPath { return t.search.Get() }

// Fieldsets groups the fields by declared fieldset, keeping field order.
func (t *Type) Fieldsets() ([]Fieldset, error) {
	r := t.fieldsets.Get()
	return r.sets, r.err
}

// Groups returns the field groups that have at least one field.
func (t *Type) Groups() ([]Group, error) {
	r := t.groups.Get()
	return r.groups, r.err
}

// Orderings returns the declared orderings or guesses them from primitive
// fields.
func (t *Type) Orderings() []Ordering { return t.orderings.Get() }

// IsPortableTextBlock reports whether t is the block type or inherits from it.
func (t *Type) IsPortableTextBlock() bool { return t.kind == schemac.KindBlock }

// IsPortableTextArray reports whether t is an array with a block member.
func (t *Type) IsPortableTextArray() bool {
	if t.jsonType != schemac.JSONArray {
		return false
	}
	for _, m := range t.Of() {
		if m.IsPortableTextBlock() {
			return true
		}
	}
	return false
}

func (t *Type) warn(key, msg string) {
	if t.reg != nil && t.reg.opts.Warnings != nil {
		t.reg.opts.Warnings.Warn(key, msg)
	}
}
