package extract_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/schemac"
	"github.com/reoring/schemac/extract"
	"github.com/reoring/schemac/ir"
	"github.com/reoring/schemac/registry"
	"github.com/reoring/schemac/rules"
)

func field(name, typ string, extra ...any) map[string]any {
	f := map[string]any{"name": name, "type": typ}
	for i := 0; i+1 < len(extra); i += 2 {
		f[extra[i].(string)] = extra[i+1]
	}
	return f
}

func list(items ...any) []any { return items }

func ref(name string) map[string]any { return map[string]any{"type": name} }

func run(t *testing.T, opts []extract.Option, decls ...schemac.Declaration) []ir.SchemaType {
	t.Helper()
	reg, err := registry.Compile(decls, registry.CompileOpt{Warnings: schemac.DiscardWarnings})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	out, err := extract.Schema(reg, opts...)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	return out
}

func document(t *testing.T, schema []ir.SchemaType, name string) *ir.DocumentSchemaType {
	t.Helper()
	st, ok := ir.Find(schema, name)
	if !ok {
		t.Fatalf("%s not extracted", name)
	}
	doc, ok := st.(*ir.DocumentSchemaType)
	if !ok {
		t.Fatalf("%s extracted as %T", name, st)
	}
	return doc
}

func declaration(t *testing.T, schema []ir.SchemaType, name string) ir.Node {
	t.Helper()
	st, ok := ir.Find(schema, name)
	if !ok {
		t.Fatalf("%s not extracted", name)
	}
	decl, ok := st.(*ir.TypeDeclarationSchemaType)
	if !ok {
		t.Fatalf("%s extracted as %T", name, st)
	}
	return decl.Value
}

func attr(t *testing.T, attrs []ir.Attribute, name string) ir.Attribute {
	t.Helper()
	for _, a := range attrs {
		if a.Name == name {
			return a
		}
	}
	t.Fatalf("attribute %q missing", name)
	return ir.Attribute{}
}

func attrNames(attrs []ir.Attribute) []string {
	var out []string
	for _, a := range attrs {
		out = append(out, a.Name)
	}
	return out
}

func indexOf(schema []ir.SchemaType, name string) int {
	for i, st := range schema {
		if st.TypeName() == name {
			return i
		}
	}
	return -1
}

func TestSchema_Document(t *testing.T) {
	schema := run(t, nil, schemac.Declaration{
		"name": "post", "type": "document", "fields": list(field("title", "string")),
	})
	post := document(t, schema, "post")
	if diff := cmp.Diff([]string{"_id", "_type", "_createdAt", "_updatedAt", "_rev", "title"}, attrNames(post.Attributes)); diff != "" {
		t.Fatalf("attributes (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(ir.Node(ir.StringLiteral("post")), attr(t, post.Attributes, "_type").Value); diff != "" {
		t.Fatalf("_type (-want +got):\n%s", diff)
	}
	title := attr(t, post.Attributes, "title")
	if !title.Optional {
		t.Errorf("title should be optional without enforced required fields")
	}
	if _, ok := ir.Find(schema, "string"); ok {
		t.Errorf("core types must not be extracted")
	}
	if _, ok := ir.Find(schema, schemac.ImageAssetTypeName); !ok {
		t.Errorf("built-in asset documents should be extracted")
	}
}

func TestSchema_SelfReferenceIsInline(t *testing.T) {
	schema := run(t, nil, schemac.Declaration{
		"name": "node", "type": "object",
		"fields": list(field("child", "node"), field("label", "string")),
	})
	want := &ir.Object{Attributes: []ir.Attribute{
		{Name: "_type", Value: ir.StringLiteral("node")},
		{Name: "child", Value: &ir.Inline{Name: "node"}, Optional: true},
		{Name: "label", Value: &ir.String{}, Optional: true},
	}}
	if diff := cmp.Diff(ir.Node(want), declaration(t, schema, "node")); diff != "" {
		t.Fatalf("node (-want +got):\n%s", diff)
	}
}

func TestSchema_SelfContainingArrayIsInline(t *testing.T) {
	schema := run(t, nil, schemac.Declaration{
		"name": "tree", "type": "array", "of": list(ref("tree")),
	})
	want := &ir.Array{Of: &ir.Object{
		Attributes: []ir.Attribute{{Name: "_key", Value: &ir.String{}}},
		Rest:       &ir.Inline{Name: "tree"},
	}}
	if diff := cmp.Diff(ir.Node(want), declaration(t, schema, "tree")); diff != "" {
		t.Fatalf("tree (-want +got):\n%s", diff)
	}
}

func TestSchema_ImageFieldOfOwnTypeIsInline(t *testing.T) {
	schema := run(t, nil, schemac.Declaration{
		"name": "figure", "type": "image",
		"fields": list(field("thumb", "figure")),
	})
	obj, ok := declaration(t, schema, "figure").(*ir.Object)
	if !ok {
		t.Fatalf("figure should be an object, got %T", declaration(t, schema, "figure"))
	}
	thumb := attr(t, obj.Attributes, "thumb")
	if diff := cmp.Diff(ir.Node(&ir.Inline{Name: "figure"}), thumb.Value); diff != "" {
		t.Errorf("thumb (-want +got):\n%s", diff)
	}
	attr(t, obj.Attributes, "asset")
}

func TestSchema_DependencyOrder(t *testing.T) {
	schema := run(t, nil,
		schemac.Declaration{"name": "page", "type": "document", "fields": list(field("seo", "seo"))},
		schemac.Declaration{"name": "a", "type": "object", "fields": list(field("b", "b"))},
		schemac.Declaration{"name": "b", "type": "object", "fields": list(field("a", "a"))},
		schemac.Declaration{"name": "seo", "type": "object", "fields": list(field("metaTitle", "string"))},
	)
	if seo, page := indexOf(schema, "seo"), indexOf(schema, "page"); seo < 0 || seo > page {
		t.Fatalf("seo at %d should precede page at %d", seo, page)
	}
	seo := attr(t, document(t, schema, "page").Attributes, "seo")
	if diff := cmp.Diff(ir.Node(&ir.Inline{Name: "seo"}), seo.Value); diff != "" {
		t.Fatalf("page.seo (-want +got):\n%s", diff)
	}
	// the cycle a -> b -> a is cut: b is emitted first and refers to a inline
	if a, b := indexOf(schema, "a"), indexOf(schema, "b"); a < 0 || b < 0 || b > a {
		t.Fatalf("b at %d should precede a at %d", b, a)
	}
	bAttrs := declaration(t, schema, "b").(*ir.Object).Attributes
	if diff := cmp.Diff(ir.Node(&ir.Inline{Name: "a"}), attr(t, bAttrs, "a").Value); diff != "" {
		t.Fatalf("b.a (-want +got):\n%s", diff)
	}
}

func TestSchema_Arrays(t *testing.T) {
	schema := run(t, nil,
		schemac.Declaration{"name": "author", "type": "document", "fields": list(field("name", "string"))},
		schemac.Declaration{"name": "node", "type": "object", "fields": list(field("label", "string"))},
		schemac.Declaration{
			"name": "page", "type": "document",
			"fields": list(
				field("tags", "array", "of", list(ref("string"))),
				field("sections", "array", "of", list(
					ref("node"),
					map[string]any{"type": "object", "name": "hero", "fields": list(field("heading", "string"))},
				)),
				field("authors", "array", "of", list(map[string]any{"type": "reference", "to": list(ref("author"))})),
				field("nothing", "array", "of", list()),
			),
		},
	)
	page := document(t, schema, "page")
	key := ir.Attribute{Name: "_key", Value: &ir.String{}}
	tests := []struct {
		field string
		want  ir.Node
	}{
		{"tags", &ir.Array{Of: &ir.String{}}},
		{"sections", &ir.Array{Of: &ir.Union{Of: []ir.Node{
			&ir.Object{Attributes: []ir.Attribute{key}, Rest: &ir.Inline{Name: "node"}},
			&ir.Object{
				Attributes: []ir.Attribute{
					{Name: "heading", Value: &ir.String{}, Optional: true},
					{Name: "_type", Value: ir.StringLiteral("hero")},
				},
				Rest: &ir.Object{Attributes: []ir.Attribute{key}},
			},
		}}}},
		{"authors", &ir.Array{Of: &ir.Reference{To: "author", InArray: true}}},
		{"nothing", &ir.Null{}},
	}
	for _, tc := range tests {
		t.Run(tc.field, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, attr(t, page.Attributes, tc.field).Value); diff != "" {
				t.Fatalf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestSchema_References(t *testing.T) {
	schema := run(t, nil,
		schemac.Declaration{"name": "author", "type": "document", "fields": list(field("name", "string"))},
		schemac.Declaration{"name": "book", "type": "document", "fields": list(field("title", "string"))},
		schemac.Declaration{
			"name": "post", "type": "document",
			"fields": list(
				field("single", "reference", "to", list(ref("author"), ref("author"))),
				field("either", "reference", "to", list(ref("author"), ref("book"))),
				field("external", "crossDatasetReference", "dataset", "production",
					"to", list(map[string]any{"type": "product", "preview": map[string]any{"select": map[string]any{"title": "title"}}})),
				field("embedded", "author"),
			),
		},
	)
	post := document(t, schema, "post")
	tests := []struct {
		field string
		want  ir.Node
	}{
		{"single", &ir.Reference{To: "author"}},
		{"either", &ir.Union{Of: []ir.Node{&ir.Reference{To: "author"}, &ir.Reference{To: "book"}}}},
		{"external", &ir.Unknown{}},
		{"embedded", &ir.Reference{To: "author"}},
	}
	for _, tc := range tests {
		t.Run(tc.field, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, attr(t, post.Attributes, tc.field).Value); diff != "" {
				t.Fatalf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestSchema_EnforceRequiredFields(t *testing.T) {
	required := rules.Func(func(r rules.Builder) rules.Builder { return r.Required().Max(80) })
	decl := schemac.Declaration{
		"name": "post", "type": "document",
		"fields": list(
			field("title", "string", "validation", required),
			field("subtitle", "string"),
			field("cover", "image", "validation", rules.Func(func(r rules.Builder) rules.Builder { return r.AssetRequired() })),
		),
	}

	loose := document(t, run(t, nil, decl), "post")
	if !attr(t, loose.Attributes, "title").Optional {
		t.Errorf("title should stay optional when required fields are not enforced")
	}

	strict := document(t, run(t, []extract.Option{{EnforceRequiredFields: true}}, decl), "post")
	if attr(t, strict.Attributes, "title").Optional {
		t.Errorf("title should be required")
	}
	if !attr(t, strict.Attributes, "subtitle").Optional {
		t.Errorf("subtitle should be optional")
	}

	cover, ok := attr(t, loose.Attributes, "cover").Value.(*ir.Object)
	if !ok {
		t.Fatalf("cover should be an object")
	}
	if attr(t, cover.Attributes, "asset").Optional {
		t.Errorf("asset should be required by assetRequired")
	}
	if diff := cmp.Diff([]string{"asset", "hotspot", "crop", "_type"}, attrNames(cover.Attributes)); diff != "" {
		t.Errorf("image attributes (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(ir.Node(ir.StringLiteral("image")), attr(t, cover.Attributes, "_type").Value); diff != "" {
		t.Errorf("image _type (-want +got):\n%s", diff)
	}
}

func TestSchema_Primitives(t *testing.T) {
	schema := run(t, nil,
		schemac.Declaration{"name": "color", "type": "string", "options": map[string]any{"list": list("red", map[string]any{"title": "Blue", "value": "blue"})}},
		schemac.Declaration{"name": "rating", "type": "number", "options": map[string]any{"list": list(1, 2.5)}},
		schemac.Declaration{"name": "published", "type": "boolean"},
		schemac.Declaration{"name": "homepage", "type": "url"},
		schemac.Declaration{"name": "shade", "type": "color"},
		schemac.Declaration{"name": "blank", "type": "object", "fields": list()},
	)
	tests := []struct {
		name string
		want ir.Node
	}{
		{"color", &ir.Union{Of: []ir.Node{ir.StringLiteral("red"), ir.StringLiteral("blue")}}},
		{"rating", &ir.Union{Of: []ir.Node{ir.NumberLiteral(1), ir.NumberLiteral(2.5)}}},
		{"published", &ir.Boolean{}},
		{"homepage", &ir.String{}},
		{"shade", &ir.Inline{Name: "color"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, declaration(t, schema, tc.name)); diff != "" {
				t.Fatalf("(-want +got):\n%s", diff)
			}
		})
	}
	if _, ok := ir.Find(schema, "blank"); ok {
		t.Errorf("a type without attributes should be dropped")
	}
}

func TestSchema_Block(t *testing.T) {
	schema := run(t, nil, schemac.Declaration{
		"name": "article", "type": "document",
		"fields": list(field("body", "array", "of", list(ref("block")))),
	})
	body, ok := attr(t, document(t, schema, "article").Attributes, "body").Value.(*ir.Array)
	if !ok {
		t.Fatalf("body should be an array")
	}
	block, ok := body.Of.(*ir.Object)
	if !ok {
		t.Fatalf("block member should be an object, got %T", body.Of)
	}
	if diff := cmp.Diff([]string{"children", "style", "listItem", "markDefs", "level", "_type"}, attrNames(block.Attributes)); diff != "" {
		t.Fatalf("block attributes (-want +got):\n%s", diff)
	}
	style, ok := attr(t, block.Attributes, "style").Value.(*ir.Union)
	if !ok || len(style.Of) != 8 {
		t.Fatalf("style should be a union of the 8 default styles, got %#v", attr(t, block.Attributes, "style").Value)
	}
	if block.Rest == nil {
		t.Fatalf("block member should carry a _key")
	}
}

func TestSchema_NilRegistry(t *testing.T) {
	if _, err := extract.Schema(nil); !errors.Is(err, extract.ErrNilRegistry) {
		t.Fatalf("err = %v", err)
	}
}
