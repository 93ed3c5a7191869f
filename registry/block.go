package registry

import (
	"github.com/reoring/schemac"
	"github.com/reoring/schemac/rules"
)

func option(title, value string) map[string]any {
	return map[string]any{"title": title, "value": value}
}

// DefaultBlockStyles returns the styles of a block that declares none.
func DefaultBlockStyles() []any {
	return []any{
		option("Normal", "normal"),
		option("Heading 1", "h1"),
		option("Heading 2", "h2"),
		option("Heading 3", "h3"),
		option("Heading 4", "h4"),
		option("Heading 5", "h5"),
		option("Heading 6", "h6"),
		option("Quote", "blockquote"),
	}
}

// DefaultBlockLists returns the list types of a block that declares none.
func DefaultBlockLists() []any {
	return []any{option("Bulleted list", "bullet"), option("Numbered list", "number")}
}

// DefaultDecorators returns the decorators of a block that declares none.
func DefaultDecorators() []any {
	return []any{
		option("Strong", "strong"),
		option("Italic", "em"),
		option("Code", "code"),
		option("Underline", "underline"),
		option("Strike", "strike-through"),
	}
}

// DefaultAnnotations returns the annotations of a block that declares none:
// a single link annotation.
func DefaultAnnotations() []any {
	return []any{map[string]any{
		"type":    "object",
		"name":    "link",
		"title":   "Link",
		"options": map[string]any{"modal": map[string]any{"type": "popover"}},
		"fields": []any{map[string]any{
			"name":        "href",
			"type":        "url",
			"title":       "Link",
			"description": "A valid web, email, phone, or relative link.",
			"validation": rules.Func(func(r rules.Builder) rules.Builder {
				return r.URI(rules.URIOptions{Scheme: []string{"http", "https", "tel", "mailto"}, AllowRelative: true})
			}),
		}},
	}}
}

type blockDefs struct {
	styles      []any
	lists       []any
	decorators  []any
	annotations []any
}

func (c *compiler) resolveBlock(t *Type) error {
	decl := t.decl
	marks, _ := schemac.MapAt(decl, "marks")
	defs := &blockDefs{
		styles:      orDefault(decl["styles"], DefaultBlockStyles),
		lists:       orDefault(decl["lists"], DefaultBlockLists),
		decorators:  orDefault(marks["decorators"], DefaultDecorators),
		annotations: orDefault(marks["annotations"], DefaultAnnotations),
	}
	t.block = defs

	span := map[string]any{
		"type":        "span",
		"annotations": defs.annotations,
		"decorators":  defs.decorators,
	}
	children := []any{span}
	for _, m := range schemac.Arrify(decl["of"]) {
		if mm, ok := schemac.AsMap(m); ok && schemac.StrOr(mm, "type", "") == "span" {
			continue
		}
		children = append(children, m)
	}
	synthetic := []any{
		map[string]any{"name": "children", "title": "Content", "type": "array", "of": children},
		map[string]any{"name": "style", "title": "Style", "type": "string", "options": map[string]any{"list": defs.styles}},
		map[string]any{"name": "listItem", "title": "List type", "type": "string", "options": map[string]any{"list": defs.lists}},
		map[string]any{"name": "markDefs", "title": "Mark definitions", "type": "array", "of": defs.annotations},
		map[string]any{"name": "level", "title": "Indentation", "type": "number"},
	}
	return c.setFields(t, append(synthetic, schemac.Arrify(decl["fields"])...), false)
}

func (c *compiler) resolveSpan(t *Type) error {
	fields := t.decl["fields"]
	if fields == nil {
		fields = []any{
			map[string]any{"name": "text", "title": "Text", "type": "text"},
			map[string]any{"name": "marks", "title": "Marks", "type": "array", "of": []any{map[string]any{"type": "string"}}},
		}
	}
	if err := c.setFields(t, fields, false); err != nil {
		return err
	}
	annotations, err := c.createMembers(t.decl["annotations"])
	if err != nil {
		return err
	}
	if annotations == nil {
		annotations = []*Type{}
	}
	t.annotations = annotations
	return nil
}

func orDefault(v any, def func() []any) []any {
	if v == nil {
		return def()
	}
	return schemac.Arrify(v)
}

func (t *Type) blockDefs() *blockDefs {
	for cur := t; cur != nil; cur = cur.base {
		if cur.block != nil {
			return cur.block
		}
	}
	return nil
}

// BlockStyles returns the style options of a block type.
func (t *Type) BlockStyles() []any {
	if d := t.blockDefs(); d != nil {
		return d.styles
	}
	return nil
}

// BlockLists returns the list options of a block type.
func (t *Type) BlockLists() []any {
	if d := t.blockDefs(); d != nil {
		return d.lists
	}
	return nil
}

// Decorators returns the decorators of a block or span type.
func (t *Type) Decorators() []any {
	if d := t.blockDefs(); d != nil {
		return d.decorators
	}
	v, _ := t.Get("decorators")
	return schemac.Arrify(v)
}

// OptionValues returns the values of an options.list, whose items are either
// plain values or {title, value} objects.
func OptionValues(list any) []any {
	var out []any
	for _, item := range schemac.Arrify(list) {
		if m, ok := schemac.AsMap(item); ok {
			if v, ok := m["value"]; ok {
				out = append(out, v)
			}
			continue
		}
		out = append(out, item)
	}
	return out
}
