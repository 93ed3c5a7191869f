package descriptor

import (
	"strings"
	"sync"

	"github.com/reoring/schemac"
	"github.com/reoring/schemac/registry"
)

// Options configures a Converter. Multiple options merge with last-wins
// semantics for set fields.
type Options struct {
	// MaxDepth bounds the nesting of encoded option and initial values.
	// Zero means DefaultMaxDepth.
	MaxDepth int
}

func mergeOptions(opts []Options) Options {
	var o Options
	for _, x := range opts {
		if x.MaxDepth != 0 {
			o.MaxDepth = x.MaxDepth
		}
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	return o
}

// Converter turns registries into synchronization sets. Results are cached
// per registry; a registry never changes after compilation, so entries are
// never invalidated.
type Converter struct {
	opts  Options
	mu    sync.Mutex
	cache map[*registry.Registry]*Set
}

// NewConverter returns a converter with an empty cache.
func NewConverter(opts ...Options) *Converter {
	return &Converter{opts: mergeOptions(opts), cache: map[*registry.Registry]*Set{}}
}

// Get returns the set of reg: one named type per local type name, plus the
// set of the parent registry.
func (c *Converter) Get(reg *registry.Registry) (*Set, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.get(reg)
}

func (c *Converter) get(reg *registry.Registry) (*Set, error) {
	if s, ok := c.cache[reg]; ok {
		return s, nil
	}
	b := NewSetBuilder()
	for _, name := range reg.LocalTypeNames() {
		t, ok := reg.Get(name)
		if !ok {
			continue
		}
		b.AddObject(name, c.typeDef(t))
	}
	if parent := reg.Parent(); parent != nil {
		ps, err := c.get(parent)
		if err != nil {
			return nil, err
		}
		b.AddSet(ps)
	}
	s, err := b.Build(RegistrySet)
	if err != nil {
		return nil, err
	}
	c.cache[reg] = s
	return s, nil
}

// TypeDef describes one compiled type without caching.
func (c *Converter) TypeDef(t *registry.Type) *TypeDef { return c.typeDef(t) }

func (c *Converter) typeDef(t *registry.Type) *TypeDef {
	def := c.common(t)
	if t.IsCore() {
		def.JSONType = string(t.JSONType())
		def.Title = t.Title()
		return def
	}
	base := t.Base()
	extends := base.Name()
	def.Extends = &extends
	// only direct extensions of the core structural types carry members
	switch {
	case base.IsCore() && extends == "array":
		of, _ := t.OwnOf()
		def.Of = make([]Member, 0, len(of))
		for _, m := range of {
			def.Of = append(def.Of, Member{Name: m.Name(), TypeDef: c.typeDef(m)})
		}
	case base.IsCore() && extends == "reference":
		to, _ := t.OwnTo()
		def.To = make([]Target, 0, len(to))
		for _, target := range to {
			def.To = append(def.To, Target{Name: target.Name()})
		}
	case base.IsCore() && (extends == "crossDatasetReference" || extends == "globalDocumentReference"):
		def.To = []Target{}
		for _, m := range t.ForeignTo() {
			name := schemac.StrOr(m, "name", schemac.StrOr(m, "type", ""))
			if name != "" {
				def.To = append(def.To, Target{Name: name})
			}
		}
	}
	return def
}

// common converts the attributes the link sets itself.
func (c *Converter) common(t *registry.Type) *TypeDef {
	own := t.Own()
	def := &TypeDef{}
	if own == nil {
		return def
	}
	maxDepth := c.opts.MaxDepth

	if fields, ok := t.OwnFields(); ok {
		def.Fields = make([]Field, 0, len(fields))
		for _, f := range fields {
			def.Fields = append(def.Fields, Field{
				Name:     f.Name,
				TypeDef:  c.typeDef(f.Type),
				Groups:   stringList(f.Decl["group"]),
				Fieldset: f.Fieldset,
			})
		}
	}
	if raw, ok := schemac.AsSlice(own["fieldsets"]); ok {
		for _, item := range raw {
			fs, ok := schemac.AsMap(item)
			if !ok {
				continue
			}
			name, ok := fs["name"].(string)
			if !ok {
				continue
			}
			def.Fieldsets = append(def.Fieldsets, Fieldset{
				Name:        name,
				Title:       maybeString(fs["title"]),
				Description: maybeString(fs["description"]),
				Group:       maybeString(fs["group"]),
				Hidden:      conditional(fs["hidden"]),
				ReadOnly:    conditional(fs["readOnly"]),
				Options:     EncodeValue(fs["options"], maxDepth),
			})
		}
	}
	if raw, ok := schemac.AsSlice(own["groups"]); ok {
		for _, item := range raw {
			g, ok := schemac.AsMap(item)
			if !ok {
				continue
			}
			name, ok := g["name"].(string)
			if !ok {
				continue
			}
			def.Groups = append(def.Groups, Group{
				Name:    name,
				Title:   maybeString(g["title"]),
				Hidden:  conditional(g["hidden"]),
				Default: g["default"] == true,
				I18n:    i18nValues(g["i18n"]),
			})
		}
	}

	def.Title = maybeString(own["title"])
	def.Description = stringOrElement(own["description"], maxDepth)
	def.ReadOnly = conditional(own["readOnly"])
	def.Hidden = conditional(own["hidden"])
	def.LiveEdit = own["liveEdit"] == true
	def.Options = EncodeValue(own["options"], maxDepth)
	def.InitialValue = EncodeValue(own["initialValue"], maxDepth)
	if dep, ok := schemac.AsMap(own["deprecated"]); ok {
		if reason, ok := dep["reason"].(string); ok {
			def.Deprecated = &Deprecated{Reason: reason}
		}
	}
	def.Placeholder = maybeString(own["placeholder"])
	if rows, ok := schemac.Number(own["rows"]); ok {
		def.Rows = FormatNumber(rows)
	}
	def.Validation = validations(t, own, maxDepth)
	return def
}

func maybeString(v any) string {
	s, _ := v.(string)
	return s
}

// stringList accepts a string or a list and keeps the strings.
func stringList(v any) []string {
	if s, ok := v.(string); ok {
		return []string{s}
	}
	list, ok := schemac.AsSlice(v)
	if !ok {
		return nil
	}
	out := []string{}
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func i18nValues(v any) map[string]I18nValue {
	m, ok := schemac.AsMap(v)
	if !ok {
		return nil
	}
	out := map[string]I18nValue{}
	for k, raw := range m {
		entry, ok := schemac.AsMap(raw)
		if !ok {
			continue
		}
		ns, nsOK := entry["ns"].(string)
		key, keyOK := entry["key"].(string)
		if nsOK && keyOK {
			out[k] = I18nValue{NS: ns, Key: key}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Name returns a short label for a set: its type and the first characters
// of its ID.
func Name(s *Set) string {
	id := s.ID
	if len(id) > 12 {
		id = id[:12]
	}
	return strings.Join([]string{s.Type, id}, "@")
}
