package registry

import (
	"fmt"
	"slices"
	"strings"

	"github.com/reoring/schemac"
)

// PrepareFunc maps selected values to the preview values.
type PrepareFunc func(value map[string]any) map[string]any

// Preview is a preview configuration: which paths to select and an optional
// prepare function.
type Preview struct {
	Select  map[string]string `json:"select,omitempty"`
	Prepare any               `json:"-"`
	Guessed bool              `json:"-"`
}

// Resolve picks the selected values out of a document and runs Prepare when
// it is a Go function over the selection.
func (p Preview) Resolve(doc map[string]any) map[string]any {
	selected := make(map[string]any, len(p.Select))
	for key, path := range p.Select {
		if v, ok := lookupPath(doc, strings.Split(path, ".")); ok {
			selected[key] = v
		}
	}
	switch fn := p.Prepare.(type) {
	case PrepareFunc:
		return fn(selected)
	case func(map[string]any) map[string]any:
		return fn(selected)
	}
	return selected
}

func lookupPath(v any, path []string) (any, bool) {
	cur := v
	for _, seg := range path {
		m, ok := schemac.AsMap(cur)
		if !ok {
			return nil, false
		}
		if cur, ok = m[seg]; !ok {
			return nil, false
		}
	}
	return cur, true
}

func (t *Type) computePreview() Preview {
	if raw, ok := t.own["preview"]; ok && raw != nil {
		return t.parsePreview(raw)
	}
	if opts, ok := schemac.MapAt(t.own, "options"); ok && opts["preview"] != nil {
		t.warn("options-preview:"+t.name, fmt.Sprintf(`The "preview" option of type %q is deprecated; declare "preview" on the type instead`, t.name))
		return t.parsePreview(opts["preview"])
	}
	if t.base != nil && !t.base.IsCore() {
		return t.base.Preview()
	}
	if t.Fields() == nil {
		return Preview{}
	}
	return GuessPreview(t)
}

func (t *Type) parsePreview(raw any) Preview {
	m, ok := schemac.AsMap(raw)
	if !ok {
		return Preview{}
	}
	sel, hasSelect := m["select"]
	if !hasSelect && m["fields"] != nil {
		t.warn("preview-fields:"+t.name, fmt.Sprintf(`The "fields" key of the preview of type %q is deprecated; use "select"`, t.name))
		sel = m["fields"]
	}
	return Preview{Select: parseSelection(sel), Prepare: m["prepare"]}
}

// parseSelection accepts {key: path} or a list of paths selected under their
// own names.
func parseSelection(v any) map[string]string {
	out := map[string]string{}
	if m, ok := schemac.AsMap(v); ok {
		for k, p := range m {
			if s, ok := p.(string); ok {
				out[k] = s
			}
		}
		return out
	}
	for _, item := range schemac.Arrify(v) {
		if s, ok := item.(string); ok {
			out[s] = s
		}
	}
	return out
}

var (
	titleCandidates       = []string{"title", "name", "label", "heading", "header", "caption"}
	descriptionCandidates = append([]string{"description"}, titleCandidates...)
)

func referencesTo(f *Field, typeName string) bool {
	if !f.Type.kind.IsReference() {
		return false
	}
	for _, to := range f.Type.To() {
		if to.InheritsFrom(typeName) {
			return true
		}
	}
	return false
}

func assetPath(fields []*Field, assetType string) string {
	for _, f := range fields {
		if referencesTo(f, assetType) {
			return f.Name
		}
	}
	for _, f := range fields {
		for _, sub := range f.Type.Fields() {
			if referencesTo(sub, assetType) {
				return f.Name + ".asset"
			}
		}
	}
	return ""
}

// GuessPreview derives a preview from the fields of an object-like type:
// title and description from well-known string or portable text fields,
// media from the first image field or image asset reference.
func GuessPreview(t *Type) Preview {
	fields := t.Fields()
	var strs, blocks []string
	for _, f := range fields {
		switch {
		case f.Type.Name() == "string":
			strs = append(strs, f.Name)
		case f.Type.IsPortableTextArray():
			blocks = append(blocks, f.Name)
		}
	}
	textual := func(name string) bool {
		return slices.Contains(strs, name) || slices.Contains(blocks, name)
	}
	nth := func(i int) string {
		if i < len(strs) {
			return strs[i]
		}
		if i < len(blocks) {
			return blocks[i]
		}
		return ""
	}

	var title, desc string
	for _, c := range titleCandidates {
		if textual(c) {
			title = c
			break
		}
	}
	for _, c := range descriptionCandidates {
		if c != title && textual(c) {
			desc = c
			break
		}
	}
	if title == "" {
		title, desc = nth(0), nth(1)
	}

	var media string
	for _, f := range fields {
		if f.Type.kind == schemac.KindImage {
			media = f.Name
			break
		}
	}
	imagePath := assetPath(fields, schemac.ImageAssetTypeName)
	if title == "" {
		if p := assetPath(fields, schemac.FileAssetTypeName); p != "" {
			title = p + ".originalFilename"
		}
		if imagePath != "" {
			title = imagePath + ".originalFilename"
		}
	}

	if title == "" && imagePath == "" {
		sel := map[string]string{}
		names := make([]string, 0, len(fields))
		for _, f := range fields {
			sel[f.Name] = f.Name
			names = append(names, f.Name)
		}
		return Preview{Select: sel, Prepare: fallbackPrepare(names), Guessed: true}
	}

	sel := map[string]string{"title": title}
	if desc != "" {
		sel["description"] = desc
	}
	if media == "" {
		media = imagePath
	}
	if media != "" {
		sel["media"] = media
	}
	return Preview{Select: sel, Guessed: true}
}

const (
	stringifyMaxDepth   = 2
	stringifyMaxBreadth = 4
)

func fallbackPrepare(names []string) PrepareFunc {
	return func(value map[string]any) map[string]any {
		picked := map[string]any{}
		for _, n := range names {
			if v, ok := value[n]; ok {
				picked[n] = v
			}
		}
		return map[string]any{"title": stringify(picked, 0)}
	}
}

func stringify(v any, depth int) string {
	if depth > stringifyMaxDepth {
		return "…"
	}
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return fmt.Sprint(x)
	}
	if n, ok := schemac.Number(v); ok {
		return fmt.Sprint(n)
	}
	if items, ok := schemac.AsSlice(v); ok {
		var parts []string
		for i, item := range items {
			if i == stringifyMaxBreadth {
				parts = append(parts, "…")
				break
			}
			parts = append(parts, stringify(item, depth+1))
		}
		return strings.Join(parts, ", ")
	}
	if m, ok := schemac.AsMap(v); ok {
		var parts []string
		for _, k := range schemac.SortedKeys(m) {
			if k == "_type" || k == "_weak" {
				continue
			}
			if len(parts) == stringifyMaxBreadth {
				parts = append(parts, "…")
				break
			}
			s := stringify(m[k], depth+1)
			if s == "" {
				continue
			}
			parts = append(parts, k+": "+s)
		}
		if depth == 0 {
			return strings.Join(parts, ", ")
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return ""
}
