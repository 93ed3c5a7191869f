package jsonschema_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	gojson "github.com/goccy/go-json"

	"github.com/reoring/schemac"
	"github.com/reoring/schemac/extract"
	"github.com/reoring/schemac/ir"
	"github.com/reoring/schemac/jsonschema"
	"github.com/reoring/schemac/registry"
)

func TestFromNode(t *testing.T) {
	tests := []struct {
		name string
		in   ir.Node
		want *jsonschema.Schema
	}{
		{"string", &ir.String{}, &jsonschema.Schema{Type: "string"}},
		{"literal", ir.StringLiteral("post"), &jsonschema.Schema{Type: "string", Const: "post"}},
		{"unknown", &ir.Unknown{}, &jsonschema.Schema{}},
		{"inline", &ir.Inline{Name: "seo"}, &jsonschema.Schema{Ref: "#/$defs/seo"}},
		{"enum", &ir.Union{Of: []ir.Node{ir.StringLiteral("a"), ir.StringLiteral("b")}},
			&jsonschema.Schema{Type: "string", Enum: []any{"a", "b"}}},
		{"empty union", &ir.Union{}, &jsonschema.Schema{Not: &jsonschema.Schema{}}},
		{"mixed union", &ir.Union{Of: []ir.Node{&ir.String{}, &ir.Null{}}},
			&jsonschema.Schema{OneOf: []*jsonschema.Schema{{Type: "string"}, {Type: "null"}}}},
		{"array", &ir.Array{Of: &ir.Number{}},
			&jsonschema.Schema{Type: "array", Items: &jsonschema.Schema{Type: "number"}}},
		{"keyed inline", &ir.Object{
			Attributes: []ir.Attribute{{Name: "_key", Value: &ir.String{}}},
			Rest:       &ir.Inline{Name: "seo"},
		}, &jsonschema.Schema{AllOf: []*jsonschema.Schema{
			{Ref: "#/$defs/seo"},
			{Type: "object", Properties: map[string]*jsonschema.Schema{"_key": {Type: "string"}}, Required: []string{"_key"}},
		}}},
		{"object rest", &ir.Object{
			Attributes: []ir.Attribute{{Name: "title", Value: &ir.String{}, Optional: true}},
			Rest:       &ir.Object{Attributes: []ir.Attribute{{Name: "_key", Value: &ir.String{}}}},
		}, &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"title": {Type: "string"},
				"_key":  {Type: "string"},
			},
			Required: []string{"_key"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := jsonschema.FromNode(tt.in)
			if err != nil {
				t.Fatalf("FromNode: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestFromNode_Reference(t *testing.T) {
	got, err := jsonschema.FromNode(&ir.Reference{To: "author", InArray: true})
	if err != nil {
		t.Fatalf("FromNode: %v", err)
	}
	if got.DereferencesTo != "author" {
		t.Errorf("dereferencesTo = %q", got.DereferencesTo)
	}
	if diff := cmp.Diff([]string{"_key", "_ref", "_type"}, got.Required); diff != "" {
		t.Errorf("required (-want +got):\n%s", diff)
	}
}

func TestFromIR(t *testing.T) {
	reg, err := registry.Compile([]schemac.Declaration{
		{"name": "seo", "type": "object", "fields": []any{map[string]any{"name": "keywords", "type": "string"}}},
		{"name": "page", "type": "document", "fields": []any{
			map[string]any{"name": "title", "type": "string"},
			map[string]any{"name": "seo", "type": "seo"},
		}},
	}, registry.CompileOpt{Warnings: schemac.DiscardWarnings, WithoutBuiltins: true})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	types, err := extract.Schema(reg)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	root, err := jsonschema.FromIR(types)
	if err != nil {
		t.Fatalf("FromIR: %v", err)
	}
	if root.Dialect != jsonschema.Draft {
		t.Errorf("dialect = %q", root.Dialect)
	}
	if diff := cmp.Diff([]*jsonschema.Schema{{Ref: "#/$defs/page"}}, root.OneOf); diff != "" {
		t.Errorf("root oneOf (-want +got):\n%s", diff)
	}
	page := root.Defs["page"]
	if page == nil || page.Title != "page" {
		t.Fatalf("page definition = %+v", page)
	}
	if diff := cmp.Diff([]string{"_createdAt", "_id", "_rev", "_type", "_updatedAt"}, page.Required); diff != "" {
		t.Errorf("page required (-want +got):\n%s", diff)
	}
	if got := page.Properties["seo"]; got == nil || got.Ref != "#/$defs/seo" {
		t.Errorf("page.seo = %+v", got)
	}
	if _, ok := root.Defs["seo"]; !ok {
		t.Errorf("seo definition missing")
	}
	if _, err := gojson.Marshal(root); err != nil {
		t.Errorf("marshal: %v", err)
	}
}

func TestFromIR_Duplicate(t *testing.T) {
	dup := []ir.SchemaType{
		&ir.TypeDeclarationSchemaType{Name: "a", Value: &ir.String{}},
		&ir.TypeDeclarationSchemaType{Name: "a", Value: &ir.Number{}},
	}
	if _, err := jsonschema.FromIR(dup); err == nil {
		t.Fatalf("expected duplicate error")
	}
}
