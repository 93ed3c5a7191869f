// Package extract converts a compiled registry into the ordered list of
// extracted type nodes consumed by query-type generators.
package extract

import (
	"errors"

	"github.com/reoring/schemac"
	"github.com/reoring/schemac/ir"
	"github.com/reoring/schemac/registry"
	"github.com/reoring/schemac/rules"
)

// Option configures Schema. Multiple options merge; a set flag wins.
type Option struct {
	// EnforceRequiredFields marks attributes as required when their
	// validation calls Required. Without it every field is optional.
	EnforceRequiredFields bool
}

func mergeOpts(opts []Option) Option {
	var o Option
	for _, x := range opts {
		if x.EnforceRequiredFields {
			o.EnforceRequiredFields = true
		}
	}
	return o
}

// ErrNilRegistry is returned when Schema is called without a registry.
var ErrNilRegistry = errors.New("extract: nil registry")

type extractor struct {
	opts Option
	// named types emitted as type declarations; members extending them
	// become inline nodes
	inline map[*registry.Type]bool
	// named types whose array or object node is being built
	converting map[*registry.Type]bool
}

// Schema extracts every non-core type of reg, dependencies first. Types
// that reduce to nothing describable are dropped.
func Schema(reg *registry.Registry, opts ...Option) ([]ir.SchemaType, error) {
	if reg == nil {
		return nil, ErrNilRegistry
	}
	x := &extractor{
		opts:       mergeOpts(opts),
		inline:     map[*registry.Type]bool{},
		converting: map[*registry.Type]bool{},
	}
	var out []ir.SchemaType
	for _, t := range sortByDependencies(reg) {
		st := x.convertBase(t)
		if st == nil {
			continue
		}
		if _, ok := st.(*ir.TypeDeclarationSchemaType); ok {
			x.inline[t] = true
		}
		out = append(out, st)
	}
	return out, nil
}

func documentDefaultAttributes(name string) []ir.Attribute {
	return []ir.Attribute{
		{Name: "_id", Value: &ir.String{}},
		{Name: "_type", Value: ir.StringLiteral(name)},
		{Name: "_createdAt", Value: &ir.String{}},
		{Name: "_updatedAt", Value: &ir.String{}},
		{Name: "_rev", Value: &ir.String{}},
	}
}

func (x *extractor) convertBase(t *registry.Type) ir.SchemaType {
	if t.Kind() == schemac.KindDocument {
		obj, ok := x.createObject(t).(*ir.Object)
		if !ok {
			return nil
		}
		attrs := documentDefaultAttributes(t.Name())
		for _, a := range obj.Attributes {
			if a.Name == "_type" {
				continue
			}
			attrs = append(attrs, a)
		}
		return &ir.DocumentSchemaType{Name: t.Name(), Attributes: attrs}
	}
	value := x.convert(t)
	switch v := value.(type) {
	case *ir.Unknown:
		return nil
	case *ir.Object:
		v.Prepend(ir.Attribute{Name: "_type", Value: ir.StringLiteral(t.Name())})
	}
	return &ir.TypeDeclarationSchemaType{Name: t.Name(), Value: value}
}

// convert builds the node for one type, compiled or anonymous.
func (x *extractor) convert(t *registry.Type) ir.Node {
	base := t.Base()
	if base != nil && !base.IsCore() && base.Kind() == schemac.KindDocument {
		return x.documentReference(t)
	}
	if base != nil && x.inline[base] {
		return &ir.Inline{Name: base.Name()}
	}
	if base != nil && base.Base() != nil && base.Base().Name() == "object" && base.Base().IsCore() {
		// a member of a named object type that is not yet emitted: the
		// declaration refers back to a type still being converted
		return &ir.Inline{Name: base.Name()}
	}
	if named := t.NearestNamed(); named != nil && named != t && !named.IsCore() && x.converting[named] {
		return &ir.Inline{Name: named.Name()}
	}
	switch t.Kind() {
	case schemac.KindCrossDatasetReference:
		return &ir.Unknown{}
	case schemac.KindReference, schemac.KindGlobalDocumentReference:
		return referenceNode(t)
	}
	switch t.JSONType() {
	case schemac.JSONString:
		return stringNode(t)
	case schemac.JSONNumber:
		return numberNode(t)
	case schemac.JSONBoolean:
		return &ir.Boolean{}
	case schemac.JSONArray:
		return x.createArray(t)
	case schemac.JSONObject:
		return x.createObject(t)
	}
	return &ir.Unknown{}
}

// documentReference points at the nearest compiled document ancestor.
func (*extractor) documentReference(t *registry.Type) ir.Node {
	named := t.NearestNamed()
	if named == nil || named.IsCore() {
		return &ir.Unknown{}
	}
	return &ir.Reference{To: named.Name()}
}

func listLiterals(t *registry.Type) ([]any, bool) {
	raw, ok := t.Options()["list"]
	if !ok {
		return nil, false
	}
	list, ok := schemac.AsSlice(raw)
	if !ok {
		return nil, false
	}
	return registry.OptionValues(list), true
}

func stringNode(t *registry.Type) ir.Node {
	values, ok := listLiterals(t)
	if !ok {
		return &ir.String{}
	}
	u := &ir.Union{Of: []ir.Node{}}
	for _, v := range values {
		if s, ok := v.(string); ok {
			u.Of = append(u.Of, ir.StringLiteral(s))
		}
	}
	return u
}

func numberNode(t *registry.Type) ir.Node {
	values, ok := listLiterals(t)
	if !ok {
		return &ir.Number{}
	}
	u := &ir.Union{Of: []ir.Node{}}
	for _, v := range values {
		if f, ok := schemac.Number(v); ok {
			u.Of = append(u.Of, ir.NumberLiteral(f))
		}
	}
	return u
}

// referenceTargets gathers target names along the chain, base first,
// without duplicates.
func referenceTargets(t *registry.Type) []string {
	var chain []*registry.Type
	for cur := t; cur != nil; cur = cur.Base() {
		chain = append([]*registry.Type{cur}, chain...)
	}
	seen := map[string]bool{}
	var names []string
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for _, link := range chain {
		if to, ok := link.OwnTo(); ok {
			for _, target := range to {
				add(target.Name())
			}
		}
	}
	if t.Kind() == schemac.KindGlobalDocumentReference {
		for _, m := range t.ForeignTo() {
			add(schemac.StrOr(m, "type", ""))
		}
	}
	return names
}

func referenceNode(t *registry.Type) ir.Node {
	names := referenceTargets(t)
	if len(names) == 1 {
		return &ir.Reference{To: names[0]}
	}
	u := &ir.Union{Of: make([]ir.Node, 0, len(names))}
	for _, n := range names {
		u.Of = append(u.Of, &ir.Reference{To: n})
	}
	return u
}

func keyAttribute() ir.Attribute { return ir.Attribute{Name: "_key", Value: &ir.String{}} }

// enter marks the nearest named type of t as being converted. The returned
// func undoes the mark.
func (x *extractor) enter(t *registry.Type) func() {
	named := t.NearestNamed()
	if named == nil || named.IsCore() || x.converting[named] {
		return func() {}
	}
	x.converting[named] = true
	return func() { delete(x.converting, named) }
}

func (x *extractor) createArray(t *registry.Type) ir.Node {
	defer x.enter(t)()
	var of []ir.Node
	for _, member := range t.Of() {
		node := x.convert(member)
		switch v := node.(type) {
		case *ir.Inline:
			node = &ir.Object{Attributes: []ir.Attribute{keyAttribute()}, Rest: v}
		case *ir.Object:
			v.Rest = &ir.Object{Attributes: []ir.Attribute{keyAttribute()}}
		case *ir.Reference:
			v.InArray = true
		}
		of = append(of, node)
	}
	switch len(of) {
	case 0:
		return &ir.Null{}
	case 1:
		return &ir.Array{Of: of[0]}
	}
	return &ir.Array{Of: &ir.Union{Of: of}}
}

// gatherFields collects fields along the chain, ancestors first. A field
// redeclared by a later link keeps its position and takes the new type.
func gatherFields(t *registry.Type) []*registry.Field {
	var chain []*registry.Type
	for cur := t; cur != nil; cur = cur.Base() {
		chain = append([]*registry.Type{cur}, chain...)
	}
	var out []*registry.Field
	index := map[string]int{}
	for _, link := range chain {
		fields, ok := link.OwnFields()
		if !ok {
			continue
		}
		for _, f := range fields {
			if i, dup := index[f.Name]; dup {
				out[i] = f
				continue
			}
			index[f.Name] = len(out)
			out = append(out, f)
		}
	}
	return out
}

func (x *extractor) createObject(t *registry.Type) ir.Node {
	defer x.enter(t)()
	obj := &ir.Object{}
	for _, f := range gatherFields(t) {
		value := x.convert(f.Type)
		validation := f.Type.Validation()
		if o, ok := value.(*ir.Object); ok && rules.HasAssetRequired(validation) {
			if asset, ok := o.Attr("asset"); ok {
				asset.Optional = false
			}
		}
		optional := true
		if x.opts.EnforceRequiredFields {
			optional = !rules.IsRequired(validation)
		}
		obj.Set(ir.Attribute{Name: f.Name, Value: value, Optional: optional})
	}
	if len(obj.Attributes) == 0 {
		return &ir.Unknown{}
	}
	base := t.Base()
	if (base == nil || base.Name() != "document") && t.Name() != "object" {
		obj.Set(ir.Attribute{Name: "_type", Value: ir.StringLiteral(t.Name())})
	}
	return obj
}
