package registry

import (
	"fmt"

	"github.com/reoring/schemac"
)

// Fieldset is either a single field (Single) or a named set of fields.
type Fieldset struct {
	Single bool
	Field  *Field

	Name        string
	Title       string
	Description string
	Hidden      any
	Options     map[string]any
	Fields      []*Field
}

// Group is a named tab of fields.
type Group struct {
	Name    string
	Title   string
	Default bool
	Hidden  any
	Icon    any
	Fields  []*Field
}

// Ordering is a named sort order.
type Ordering struct {
	Name  string       `json:"name"`
	Title string       `json:"title"`
	I18n  *I18nTitle   `json:"i18n,omitempty"`
	By    []OrderingBy `json:"by"`
}

// I18nTitle points a title at a translation key.
type I18nTitle struct {
	Key string `json:"key"`
	NS  string `json:"ns"`
}

// OrderingBy is one sort key of an ordering.
type OrderingBy struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

type fieldsetsResult struct {
	sets []Fieldset
	err  error
}

type groupsResult struct {
	groups []Group
	err    error
}

func (t *Type) label() string {
	if title := t.Title(); title != "" {
		return title
	}
	return schemac.StartCase(t.name)
}

func (t *Type) computeFieldsets() fieldsetsResult {
	fields := t.Fields()
	if fields == nil {
		return fieldsetsResult{}
	}
	raw, _ := t.Get("fieldsets")
	byName := map[string]*Fieldset{}
	for _, item := range schemac.Arrify(raw) {
		m, ok := schemac.AsMap(item)
		if !ok {
			continue
		}
		name := schemac.StrOr(m, "name", "")
		if _, dup := byName[name]; dup {
			return fieldsetsResult{err: fmt.Errorf("Duplicate fieldset name %q found for type '%s'", name, t.label())}
		}
		opts, _ := schemac.MapAt(m, "options")
		byName[name] = &Fieldset{
			Name:        name,
			Title:       schemac.StrOr(m, "title", schemac.StartCase(name)),
			Description: schemac.StrOr(m, "description", ""),
			Hidden:      m["hidden"],
			Options:     opts,
		}
	}
	var out []Fieldset
	emitted := map[string]int{}
	for _, f := range fields {
		if f.Fieldset == "" {
			out = append(out, Fieldset{Single: true, Field: f})
			continue
		}
		fs, ok := byName[f.Fieldset]
		if !ok {
			return fieldsetsResult{err: fmt.Errorf("Fieldset '%s' is not defined in schema for type '%s'", f.Fieldset, t.name)}
		}
		if i, seen := emitted[f.Fieldset]; seen {
			out[i].Fields = append(out[i].Fields, f)
			continue
		}
		emitted[f.Fieldset] = len(out)
		set := *fs
		set.Fields = []*Field{f}
		out = append(out, set)
	}
	return fieldsetsResult{sets: out}
}

func (t *Type) computeGroups() groupsResult {
	fields := t.Fields()
	if fields == nil {
		return groupsResult{}
	}
	raw, _ := t.Get("groups")
	var order []string
	byName := map[string]*Group{}
	defaults := 0
	for _, item := range schemac.Arrify(raw) {
		m, ok := schemac.AsMap(item)
		if !ok {
			continue
		}
		name := schemac.StrOr(m, "name", "")
		if _, dup := byName[name]; dup {
			return groupsResult{err: fmt.Errorf("Duplicate group name %q found for type '%s'", name, t.label())}
		}
		g := &Group{
			Name:    name,
			Title:   schemac.StrOr(m, "title", schemac.StartCase(name)),
			Default: m["default"] == true,
			Hidden:  m["hidden"],
			Icon:    m["icon"],
		}
		if g.Default {
			defaults++
			if defaults > 1 {
				return groupsResult{err: fmt.Errorf("More than one field group defined as default for type '%s' - only 1 is supported", t.label())}
			}
		}
		byName[name] = g
		order = append(order, name)
	}
	for _, f := range fields {
		for _, gn := range f.Group {
			g, ok := byName[gn]
			if !ok {
				return groupsResult{err: fmt.Errorf("Field group '%s' is not defined in schema for type '%s'", gn, t.label())}
			}
			g.Fields = append(g.Fields, f)
		}
	}
	var out []Group
	for _, n := range order {
		if g := byName[n]; len(g.Fields) > 0 {
			out = append(out, *g)
		}
	}
	return groupsResult{groups: out}
}

var orderingCandidates = []string{"title", "name", "label", "heading", "header", "caption", "description"}

func isOrderablePrimitive(f *Field) bool {
	switch schemac.StrOr(f.Decl, "type", "") {
	case "string", "boolean", "number":
		return true
	}
	return false
}

func (t *Type) computeOrderings() []Ordering {
	if raw, ok := t.Get("orderings"); ok {
		return parseOrderings(raw)
	}
	if !isObjectLike(t.kind) {
		return nil
	}
	fields := t.Fields()
	var names []string
	for _, c := range orderingCandidates {
		for _, f := range fields {
			if f.Name == c && isOrderablePrimitive(f) {
				names = append(names, c)
				break
			}
		}
	}
	if len(names) == 0 {
		for _, f := range fields {
			if isOrderablePrimitive(f) {
				names = append(names, f.Name)
			}
		}
	}
	out := make([]Ordering, 0, len(names))
	for _, n := range names {
		out = append(out, Ordering{
			Name:  n,
			Title: schemac.Capitalize(schemac.StartCase(n)),
			I18n:  &I18nTitle{Key: "default-orderings." + n, NS: "studio"},
			By:    []OrderingBy{{Field: n, Direction: "asc"}},
		})
	}
	return out
}

func parseOrderings(raw any) []Ordering {
	var out []Ordering
	for _, item := range schemac.Arrify(raw) {
		m, ok := schemac.AsMap(item)
		if !ok {
			continue
		}
		o := Ordering{Name: schemac.StrOr(m, "name", ""), Title: schemac.StrOr(m, "title", "")}
		for _, b := range schemac.Arrify(m["by"]) {
			if bm, ok := schemac.AsMap(b); ok {
				o.By = append(o.By, OrderingBy{
					Field:     schemac.StrOr(bm, "field", ""),
					Direction: schemac.StrOr(bm, "direction", "asc"),
				})
			}
		}
		out = append(out, o)
	}
	return out
}
