package registry

import (
	"strings"

	"github.com/reoring/schemac"
)

var coreTitles = map[string]string{
	"array":                   "Array",
	"block":                   "Block",
	"boolean":                 "Boolean",
	"crossDatasetReference":   "Cross dataset reference",
	"date":                    "Date",
	"datetime":                "Datetime",
	"document":                "Document",
	"email":                   "Email",
	"file":                    "File",
	"geopoint":                "Geopoint",
	"globalDocumentReference": "Global document reference",
	"image":                   "Image",
	"number":                  "Number",
	"object":                  "Object",
	"reference":               "Reference",
	"slug":                    "Slug",
	"span":                    "Span",
	"string":                  "String",
	"telephone":               "Telephone",
	"text":                    "Text",
	"url":                     "URL",
	"video":                   "Video",
}

// commonAttrs may be set by any link of any kind.
var commonAttrs = []string{
	"name", "type", "title", "description", "options", "validation", "readOnly", "hidden",
	"components", "diffComponent", "initialValue", "deprecated", "placeholder", "icon",
	"inputComponent", "jsonType",
}

var kindAttrs = map[schemac.Kind][]string{
	schemac.KindObject:                  objectAttrs,
	schemac.KindDocument:                append([]string{"liveEdit", "__experimental_omnisearch_visibility"}, objectAttrs...),
	schemac.KindImage:                   objectAttrs,
	schemac.KindFile:                    objectAttrs,
	schemac.KindVideo:                   objectAttrs,
	schemac.KindText:                    {"rows"},
	schemac.KindReference:               {"weak"},
	schemac.KindCrossDatasetReference:   {"weak", "dataset", "studioUrl"},
	schemac.KindGlobalDocumentReference: {"weak", "resourceType", "resourceId", "studioUrl"},
}

var objectAttrs = []string{"fieldsets", "groups", "preview", "orderings", "__experimental_search"}

// structuralAttrs lists the attributes only a core extension may declare.
func structuralAttrs(k schemac.Kind) []string {
	switch k {
	case schemac.KindArray:
		return []string{"of"}
	case schemac.KindBlock:
		return []string{"fields", "of"}
	case schemac.KindReference, schemac.KindCrossDatasetReference, schemac.KindGlobalDocumentReference:
		return []string{"to"}
	}
	if k.JSONType() == schemac.JSONObject {
		return []string{"fields"}
	}
	return nil
}

func isObjectLike(k schemac.Kind) bool {
	switch k {
	case schemac.KindObject, schemac.KindDocument, schemac.KindImage, schemac.KindFile, schemac.KindVideo:
		return true
	}
	return false
}

func newCoreType(reg *Registry, name string) *Type {
	k, _ := schemac.KindOf(name)
	t := &Type{
		name:     name,
		title:    coreTitles[name],
		hasTitle: true,
		kind:     k,
		jsonType: k.JSONType(),
		reg:      reg,
	}
	t.init()
	return t
}

// extendCore runs the first extension of a core type. The declaration is the
// link's own attribute set; members are compiled later by resolve.
func extendCore(reg *Registry, core *Type, decl map[string]any) *Type {
	t := &Type{
		name:     schemac.StrOr(decl, "name", core.name),
		kind:     core.kind,
		jsonType: core.jsonType,
		base:     core,
		reg:      reg,
		decl:     decl,
		own:      decl,
	}
	switch title, _ := schemac.Str(decl, "title"); {
	case title != "":
		t.title, t.hasTitle = title, true
	case core.kind.IsReference():
		// computed from the targets once they are resolved
	case schemac.Has(decl, "name"):
		t.title, t.hasTitle = schemac.StartCase(t.name), true
	case isObjectLike(core.kind):
		t.hasTitle = true
	}
	t.init()
	return t
}

// extendSubtype creates a further link that only carries the allow-listed
// attributes of decl.
func extendSubtype(reg *Registry, base *Type, decl map[string]any) *Type {
	own := map[string]any{}
	for _, k := range append(append([]string(nil), commonAttrs...), kindAttrs[base.kind]...) {
		if v, ok := decl[k]; ok {
			own[k] = v
		}
	}
	t := &Type{
		name:     schemac.StrOr(decl, "name", base.name),
		kind:     base.kind,
		jsonType: base.jsonType,
		base:     base,
		reg:      reg,
		decl:     decl,
		own:      own,
	}
	if title, _ := schemac.Str(decl, "title"); title != "" {
		t.title, t.hasTitle = title, true
	}
	t.init()
	return t
}

// resolve compiles the structural members of a core extension.
func (c *compiler) resolve(t *Type) error {
	decl := t.decl
	switch t.kind {
	case schemac.KindObject, schemac.KindDocument:
		return c.setFields(t, decl["fields"], true)
	case schemac.KindImage:
		options, _ := schemac.MapAt(decl, "options")
		hidden := !schemac.Truthy(options["hotspot"])
		synthetic := []any{
			assetField(schemac.ImageAssetTypeName),
			map[string]any{"name": "hotspot", "type": schemac.ImageHotspotName, "hidden": hidden},
			map[string]any{"name": "crop", "type": schemac.ImageCropTypeName, "hidden": hidden},
		}
		return c.setFields(t, append(synthetic, schemac.Arrify(decl["fields"])...), true)
	case schemac.KindFile:
		return c.setFields(t, append([]any{assetField(schemac.FileAssetTypeName)}, schemac.Arrify(decl["fields"])...), true)
	case schemac.KindVideo:
		return c.setFields(t, append([]any{assetField(schemac.VideoAssetTypeName)}, schemac.Arrify(decl["fields"])...), true)
	case schemac.KindGeopoint:
		return c.setFields(t, []any{
			map[string]any{"name": "lat", "type": "number", "title": "Latitude"},
			map[string]any{"name": "lng", "type": "number", "title": "Longitude"},
			map[string]any{"name": "alt", "type": "number", "title": "Altitude"},
		}, false)
	case schemac.KindSlug:
		return c.setFields(t, []any{
			map[string]any{"name": "current", "type": "string", "title": "Current slug"},
			map[string]any{"name": "source", "type": "string", "title": "Source field", "hidden": true},
		}, false)
	case schemac.KindSpan:
		return c.resolveSpan(t)
	case schemac.KindBlock:
		return c.resolveBlock(t)
	case schemac.KindArray:
		of, err := c.createMembers(decl["of"])
		if err != nil {
			return err
		}
		t.of, t.hasOf = of, true
	case schemac.KindReference:
		to, err := c.createMembers(decl["to"])
		if err != nil {
			return err
		}
		t.to, t.hasTo = to, true
		if !t.hasTitle {
			t.title, t.hasTitle = referenceTitle(typeTitles(to)), true
		}
	case schemac.KindCrossDatasetReference, schemac.KindGlobalDocumentReference:
		t.foreignTo = []map[string]any{}
		var titles []string
		for _, item := range schemac.Arrify(decl["to"]) {
			if m, ok := schemac.AsMap(item); ok {
				t.foreignTo = append(t.foreignTo, m)
				titles = append(titles, schemac.StrOr(m, "title", schemac.StartCase(schemac.StrOr(m, "type", ""))))
			}
		}
		if !t.hasTitle {
			t.title, t.hasTitle = referenceTitle(titles), true
		}
	}
	return nil
}

func (c *compiler) setFields(t *Type, raw any, titleFromName bool) error {
	fields, err := c.createFields(raw, titleFromName)
	if err != nil {
		return err
	}
	t.fields, t.hasFields = fields, true
	return nil
}

func assetField(assetType string) map[string]any {
	return map[string]any{
		"name": "asset",
		"type": "reference",
		"to":   []any{map[string]any{"type": assetType}},
	}
}

func typeTitles(ts []*Type) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.Title())
	}
	return out
}

// referenceTitle renders "Reference to author or book".
func referenceTitle(targets []string) string {
	if len(targets) == 0 {
		return "Reference"
	}
	return "Reference to " + strings.ToLower(schemac.HumanizeList(targets, "or"))
}
