package validation_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/schemac"
	"github.com/reoring/schemac/validation"
)

func field(name, typ string, extra ...any) map[string]any {
	m := map[string]any{"name": name, "type": typ}
	for i := 0; i+1 < len(extra); i += 2 {
		m[extra[i].(string)] = extra[i+1]
	}
	return m
}

func list(items ...any) []any { return items }

func severities(ps schemac.Problems) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Severity.String()
	}
	return out
}

func problemCounts(nodes []*validation.Node) []int {
	out := make([]int, len(nodes))
	for i, n := range nodes {
		out[i] = len(n.Problems)
	}
	return out
}

func TestValidate_ValidSchemaHasNoProblems(t *testing.T) {
	res := validation.Validate(list(
		map[string]any{"name": "author", "type": "document", "title": "Author", "fields": list(field("name", "string"))},
		map[string]any{"name": "post", "type": "document", "title": "Post", "fields": list(
			field("title", "string"),
			field("author", "reference", "to", list(map[string]any{"type": "author"})),
			field("body", "array", "of", list(map[string]any{"type": "block"})),
			field("cover", "image", "options", map[string]any{"hotspot": true}),
		)},
	))
	if groups := validation.GroupProblems(res); len(groups) != 0 {
		t.Fatalf("unexpected problems: %v", groups)
	}
}

func TestValidate_StandaloneBlockFields(t *testing.T) {
	res := validation.Validate(list(map[string]any{
		"name": "invalidObject", "type": "object",
		"fields": list(
			field("field1", "block", "title", "Field 1"),
			field("field2", "block", "title", "Field 2"),
		),
	}))
	got := res.MustGet("invalidObject").Problems
	if len(got) != 1 {
		t.Fatalf("want 1 problem, got %v", got)
	}
	if got[0].HelpID != schemac.HelpStandaloneBlockType {
		t.Errorf("help id = %q", got[0].HelpID)
	}
	if !strings.Contains(got[0].Message, `"field1", "field2"`) {
		t.Errorf("message does not list both fields: %s", got[0].Message)
	}
}

func TestValidate_BlockMembers(t *testing.T) {
	fields := list(field("x", "string"))
	res := validation.Validate(list(
		map[string]any{"name": "validObject", "type": "object", "fields": fields},
		map[string]any{"name": "validBlocks", "type": "object", "fields": list(
			field("blocks", "array", "of", list(map[string]any{"type": "block", "of": list(
				map[string]any{"type": "image", "name": "myImage"},
				map[string]any{"type": "reference", "name": "myRef", "to": map[string]any{"type": "author"}},
				map[string]any{"type": "object", "name": "callout", "fields": fields},
			)})),
		)},
		map[string]any{"name": "invalidBlocks", "type": "object", "fields": list(
			field("blocks", "array", "of", list(map[string]any{"type": "block", "of": list(
				map[string]any{"type": "string", "name": "foo"},
				map[string]any{"type": "object", "name": "validObject", "fields": fields},
				map[string]any{"type": "object", "name": "reference", "fields": fields},
				map[string]any{"type": "object", "name": "image", "fields": fields},
				map[string]any{"type": "object", "name": "file", "fields": fields},
				map[string]any{"type": "object", "name": "span", "fields": fields},
				map[string]any{"type": "span", "name": "something"},
			)})),
		)},
	))

	valid := res.MustGet("validBlocks").Fields[0].Of[0]
	if diff := cmp.Diff([]int{0, 0, 0}, problemCounts(valid.Of)); diff != "" {
		t.Errorf("valid members (-want +got):\n%s", diff)
	}
	if n := len(valid.Of[1].To[0].Problems); n != 1 {
		t.Errorf("unknown reference target should carry its own problem, got %d", n)
	}

	invalid := res.MustGet("invalidBlocks").Fields[0].Of[0]
	var got []string
	for _, m := range invalid.Of {
		if len(m.Problems) != 1 {
			t.Fatalf("member %s: want one problem, got %v", m.Name, m.Problems)
		}
		got = append(got, m.Problems[0].Severity.String())
	}
	want := []string{"error", "warning", "warning", "warning", "warning", "warning", "error"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("severities (-want +got):\n%s", diff)
	}
	if invalid.Name != "block" {
		t.Errorf("block node name = %q", invalid.Name)
	}
}

func TestValidate_BlockAnnotations(t *testing.T) {
	res := validation.Validate(list(
		map[string]any{"name": "ctaAnnotation", "type": "object", "fields": list(field("label", "string"))},
		map[string]any{"name": "stringType", "type": "string"},
		map[string]any{"name": "doc", "type": "document", "fields": list(
			field("body", "array", "of", list(map[string]any{"type": "block", "marks": map[string]any{
				"annotations": list(
					map[string]any{"type": "ctaAnnotation", "name": "cta", "title": "CTA"},
					map[string]any{"type": "ctaAnnotation", "name": "ctaAnnotation"},
					map[string]any{"type": "object", "name": "inlineLink", "fields": list(field("href", "url"), field("blank", "boolean"))},
					map[string]any{"type": "stringType", "name": "bad"},
				),
			}})),
		)},
	))
	block := res.MustGet("doc").Fields[0].Of[0]
	if len(block.Problems) != 0 {
		t.Fatalf("block problems: %v", block.Problems)
	}
	if diff := cmp.Diff([]int{0, 0, 0, 1}, problemCounts(block.Annotations)); diff != "" {
		t.Fatalf("annotation problems (-want +got):\n%s", diff)
	}
	msg := block.Annotations[3].Problems[0].Message
	if !strings.Contains(msg, `"stringType"`) || !strings.Contains(msg, "inherit from object") {
		t.Errorf("unexpected message: %s", msg)
	}
}

func TestValidate_BlockDeclarationShape(t *testing.T) {
	res := validation.Validate(list(map[string]any{"name": "rich", "type": "array", "of": list(map[string]any{
		"type":   "block",
		"bogus":  true,
		"styles": list(map[string]any{"value": "normal"}, map[string]any{"title": "No value"}),
		"lists":  list(map[string]any{"value": 42}),
		"marks": map[string]any{"decorators": list(
			map[string]any{"value": "strong", "title": "Strong", "blockEditor": map[string]any{}},
		)},
	})}))
	got := res.MustGet("rich").Of[0].Problems
	want := []string{
		`Found unknown properties for block declaration: "bogus"`,
		`Decorator "strong" has deprecated key "blockEditor", please refer to the documentation on how to configure the block type for version 3.`,
		`Style normal is missing recommended "title" property`,
		`Style #1 is missing required "value" property`,
		`List type #0 has an invalid "value" property, expected string, got number`,
	}
	var msgs []string
	for _, p := range got {
		msgs = append(msgs, p.Message)
	}
	if diff := cmp.Diff(want, msgs); diff != "" {
		t.Errorf("messages (-want +got):\n%s", diff)
	}
}

func TestValidate_FieldTypeIsDocument(t *testing.T) {
	res := validation.Validate(list(
		map[string]any{"name": "person", "type": "document", "fields": list(field("name", "string"))},
		map[string]any{"name": "otherType", "type": "document", "fields": list(
			field("author", "person"),
			field("hero", "object", "fields", list(field("legend", "person"))),
			field("people", "array", "of", list(
				map[string]any{"name": "person", "type": "person"},
				map[string]any{"name": "objectPerson", "type": "object", "fields": list(field("person", "person"))},
			)),
		)},
	))
	other := res.MustGet("otherType")
	check := func(label string, n *validation.Node, want int) {
		t.Helper()
		if len(n.Problems) != want {
			t.Fatalf("%s: want %d problems, got %v", label, want, n.Problems)
		}
		for _, p := range n.Problems {
			if p.HelpID != schemac.HelpFieldTypeIsDocument || p.Severity != schemac.SeverityWarning || !strings.Contains(p.Message, "person") {
				t.Errorf("%s: unexpected problem %+v", label, p)
			}
		}
	}
	check("otherType", other, 0)
	check("author", other.Fields[0], 1)
	check("hero", other.Fields[1], 0)
	check("hero.legend", other.Fields[1].Fields[0], 1)
	check("people", other.Fields[2], 0)
	check("people[person]", other.Fields[2].Of[0], 1)
	check("people[objectPerson]", other.Fields[2].Of[1], 0)
	check("people[objectPerson].person", other.Fields[2].Of[1].Fields[0], 1)
}

func TestValidate_RootChecks(t *testing.T) {
	res := validation.Validate(list(
		map[string]any{"name": "date", "type": "string"},
		map[string]any{"name": "dup", "type": "string"},
		map[string]any{"name": "dup", "type": "number"},
		map[string]any{"type": "string"},
		nil,
		map[string]any{"name": "titled", "type": "string", "title": 42},
	))
	tests := []struct {
		key  string
		want schemac.Problems
	}{
		{"date", schemac.Problems{schemac.Error(`Invalid type name: "date" is a reserved name.`, schemac.HelpTypeNameReserved)}},
		{"dup", schemac.Problems{schemac.Error(`Invalid type name: A type with name "dup" is already defined in the schema.`)}},
		{"__unnamed_3", schemac.Problems{schemac.Error("Missing type name", schemac.HelpTypeMissingName)}},
		{"__unnamed_4", schemac.Problems{schemac.Error("Invalid/undefined type declaration, check declaration or the import/export of the schema type.", schemac.HelpTypeInvalid)}},
		{"titled", schemac.Problems{schemac.Warning("Type title is not a string.", schemac.HelpTypeTitleInvalid)}},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, res.MustGet(tt.key).Problems); diff != "" {
				t.Errorf("problems (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValidate_UnknownTypeSuggestion(t *testing.T) {
	res := validation.Validate(list(map[string]any{
		"name": "post", "type": "document",
		"fields": list(field("title", "strng"), field("other", "zzzzzzzz"), map[string]any{"name": "untyped"}),
	}))
	fields := res.MustGet("post").Fields
	if got := fields[0].Problems[0].Message; !strings.Contains(got, `Unknown type: strng. Did you mean "string"`) {
		t.Errorf("suggestion missing: %s", got)
	}
	if got := fields[1].Problems[0].Message; got != "Unknown type: zzzzzzzz." {
		t.Errorf("message = %q", got)
	}
	if got := fields[2].Problems[0].Message; got != "Type is missing a type." {
		t.Errorf("message = %q", got)
	}
}

func TestValidate_FieldNames(t *testing.T) {
	res := validation.Validate(list(map[string]any{
		"name": "thing", "type": "object",
		"fields": list(field("_id", "string"), field("1st", "string"), field("ok", "string"), field("ok", "number"), "oops"),
	}))
	node := res.MustGet("thing")
	if diff := cmp.Diff([]string{"error"}, severities(node.Problems)); diff != "" {
		t.Errorf("object problems (-want +got):\n%s", diff)
	}
	if !strings.Contains(node.Problems[0].Message, `Found 2 fields with name "ok"`) {
		t.Errorf("duplicate message: %s", node.Problems[0].Message)
	}
	if diff := cmp.Diff([]int{1, 1, 0, 0, 2}, problemCounts(node.Fields)); diff != "" {
		t.Errorf("field problems (-want +got):\n%s", diff)
	}
}

func TestValidate_Arrays(t *testing.T) {
	tests := []struct {
		name string
		decl map[string]any
		want []string
	}{
		{
			name: "duplicate members",
			decl: map[string]any{"name": "a", "type": "array", "of": list(map[string]any{"type": "string"}, map[string]any{"type": "string"})},
			want: []string{`Found 2 members with same type, but not unique names "string" in array. This makes it impossible to tell their values apart and you should consider naming them`},
		},
		{
			name: "missing of",
			decl: map[string]any{"name": "a", "type": "array"},
			want: []string{`The array type is missing or having an invalid value for the required "of" property`},
		},
		{
			name: "array of array",
			decl: map[string]any{"name": "a", "type": "array", "of": list(map[string]any{"type": "array", "of": list(map[string]any{"type": "string"})})},
			want: []string{`Found array member declaration of type "array" - multidimensional arrays are not currently supported`},
		},
		{
			name: "builtin name",
			decl: map[string]any{"name": "a", "type": "array", "of": list(map[string]any{"type": "object", "name": "image", "fields": list(field("x", "string"))})},
			want: []string{`Found array member declaration with the same type name as a built-in type ("image"). Array members can not be given the same name as a built-in type.`},
		},
		{
			name: "mixed",
			decl: map[string]any{"name": "a", "type": "array", "of": list(map[string]any{"type": "string"}, map[string]any{"type": "geopoint"})},
			want: []string{`The array type's 'of' property can't have both object types and primitive types (found primitive type name "string" and object type name "geopoint")`},
		},
		{
			name: "shared json type",
			decl: map[string]any{"name": "a", "type": "array", "of": list(
				map[string]any{"type": "string", "name": "heading"},
				map[string]any{"type": "text", "name": "paragraph"},
				map[string]any{"type": "number"},
			)},
			want: []string{`Found multiple members with JSON type "string" in array: "heading" and "paragraph". When stored, there is no way to distinguish between them, as primitive values do not carry type information. Consider using object types instead.`},
		},
		{
			name: "list values",
			decl: map[string]any{"name": "a", "type": "array", "of": list(map[string]any{"type": "string"}), "options": map[string]any{
				"list":   list("ok", map[string]any{"title": "Two", "value": 2}),
				"layout": "tags",
			}},
			want: []string{
				`An invalid entry found in options.list: 2. Must be either a value of string or an object with {title: string, value: string}`,
				"Found array member declaration with both tags layout and a list of predefined values. If you want to display a list of predefined values, remove the tags layout from `options`.",
			},
		},
		{
			name: "block next to unnamed object",
			decl: map[string]any{"name": "a", "type": "array", "of": list(map[string]any{"type": "block"}, map[string]any{"type": "object", "fields": list(field("x", "string"))})},
			want: []string{"The array type's 'of' property can't have an object type without a 'name' property as member, when the 'block' type is also a member of that array."},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := validation.Validate(list(tt.decl))
			var got []string
			for _, p := range res.MustGet("a").Problems {
				got = append(got, p.Message)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("messages (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValidate_InvalidMemberSkipsMembers(t *testing.T) {
	res := validation.Validate(list(map[string]any{"name": "a", "type": "array", "of": list(
		map[string]any{"type": "array"},
		map[string]any{"type": "nope"},
	)}))
	node := res.MustGet("a")
	if len(node.Of) != 0 {
		t.Fatalf("members visited despite invalid member: %d", len(node.Of))
	}
}

func TestValidate_References(t *testing.T) {
	tests := []struct {
		name string
		decl map[string]any
		want []string
	}{
		{
			name: "missing to",
			decl: map[string]any{"name": "r", "type": "reference"},
			want: []string{`The reference type is missing or having an invalid value for the required "to" property. It should be an array of accepted types.`},
		},
		{
			name: "empty to",
			decl: map[string]any{"name": "r", "type": "reference", "to": list()},
			want: []string{`The reference type should define at least one accepted type. Please check the "to" property.`},
		},
		{
			name: "filter outside options",
			decl: map[string]any{"name": "r", "type": "reference", "to": list(map[string]any{"type": "string"}), "filter": "a == b"},
			want: []string{"`filter` is not allowed on a reference type definition - did you mean `options.filter`?"},
		},
		{
			name: "function filter with params",
			decl: map[string]any{"name": "r", "type": "reference", "to": list(map[string]any{"type": "string"}), "options": map[string]any{
				"filter":       func() {},
				"filterParams": map[string]any{"a": 1},
			}},
			want: []string{"`filterParams` cannot be used if `filter` is a function. Either statically define `filter` as a string, or return `params` from the `filter`-function."},
		},
		{
			name: "prefixed params",
			decl: map[string]any{"name": "r", "type": "reference", "to": list(map[string]any{"type": "string"}), "options": map[string]any{
				"filter":       "x == $x",
				"filterParams": map[string]any{"$x": 1, "ok": 2},
			}},
			want: []string{`Filter parameter cannot be prefixed with "$" or "__". Got $x".`},
		},
		{
			name: "cross dataset",
			decl: map[string]any{"name": "r", "type": "crossDatasetReference", "dataset": "Prod", "to": list(map[string]any{"type": "book"})},
			want: []string{
				`Missing required preview config for the referenced type "book"`,
				"Dataset name must be all lowercase characters",
			},
		},
		{
			name: "global document",
			decl: map[string]any{"name": "r", "type": "globalDocumentReference", "resourceType": "dataset", "resourceId": "abc", "to": list(
				map[string]any{"type": "book", "preview": map[string]any{"select": map[string]any{"title": "title"}}},
			)},
			want: []string{"The `resourceId` of a dataset resource must be in the format `projectId.datasetName`"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := validation.Validate(list(tt.decl))
			var got []string
			for _, p := range res.MustGet("r").Problems {
				got = append(got, p.Message)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("messages (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDatasetNameProblem(t *testing.T) {
	tests := map[string]string{
		"production": "",
		"a":          "Dataset name must be at least two characters long",
		"-abc":       "Dataset name must start with a letter or a number",
		"ab.c":       "Dataset name must only contain letters, numbers, dashes and underscores",
		"abc_":       "Dataset name must not end with a dash or an underscore",
		"":           "Dataset name is missing",
	}
	for in, want := range tests {
		if got := validation.DatasetNameProblem(in); got != want {
			t.Errorf("DatasetNameProblem(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidate_Assets(t *testing.T) {
	res := validation.Validate(list(
		map[string]any{"name": "photo", "type": "image", "fields": list(field("asset", "string"), field("caption", "string")),
			"options": map[string]any{"metadata": list("exif", "dimensions", "bogus")}},
		map[string]any{"name": "doc", "type": "file"},
	))
	var got []string
	for _, p := range res.MustGet("photo").Problems {
		got = append(got, p.Severity.String()+": "+p.Message)
	}
	want := []string{
		`error: The field name "asset" is reserved on image types and cannot be declared`,
		`warning: Image metadata field "dimensions" is always included and does not need to be specified`,
		`error: Invalid image metadata field "bogus"`,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("photo problems (-want +got):\n%s", diff)
	}
	if n := len(res.MustGet("doc").Problems); n != 0 {
		t.Errorf("file without fields: %d problems", n)
	}
}

type recordingSink struct {
	mu   sync.Mutex
	keys []string
}

func (s *recordingSink) Warn(key, _ string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = append(s.keys, key)
}

func TestValidate_DeprecationsReachSink(t *testing.T) {
	sink := &recordingSink{}
	res := validation.Validate(list(
		map[string]any{"name": "s", "type": "slug", "options": map[string]any{"slugifyFn": func(string) string { return "" }}},
		map[string]any{"name": "legacy", "type": "string", "inputComponent": func() {}},
	), validation.Option{Warnings: sink})
	if diff := cmp.Diff([]string{"slugifyFn", "inputComponent:legacy"}, sink.keys); diff != "" {
		t.Errorf("sink keys (-want +got):\n%s", diff)
	}
	if got := res.MustGet("s").Problems; len(got) != 1 || got[0].HelpID != schemac.HelpSlugSlugifyFnRenamed {
		t.Errorf("slug problems: %v", got)
	}
}

func TestGroupProblems(t *testing.T) {
	res := validation.Validate(list(
		map[string]any{"name": "post", "type": "document", "fields": list(
			field("title", "strng"),
			field("tags", "array", "of", list(map[string]any{"type": "string"}, map[string]any{"type": "string"})),
		)},
		map[string]any{"name": "fine", "type": "string"},
	))
	groups := validation.GroupProblems(res)
	var paths []string
	for _, g := range groups {
		paths = append(paths, schemac.FormatPath(g.Path))
	}
	want := []string{
		schemac.FormatPath([]schemac.PathSegment{
			schemac.TypeSegment("post", "document"), schemac.PropertySegment("fields"), schemac.TypeSegment("title", "strng"),
		}),
		schemac.FormatPath([]schemac.PathSegment{
			schemac.TypeSegment("post", "document"), schemac.PropertySegment("fields"), schemac.TypeSegment("tags", "array"),
		}),
	}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Fatalf("paths (-want +got):\n%s", diff)
	}
	if !validation.HasErrors(groups) {
		t.Error("HasErrors = false")
	}
	if errs, warns := validation.Summary(groups); errs != 2 || warns != 0 {
		t.Errorf("Summary = %d, %d", errs, warns)
	}
}

func TestNode_MarshalJSON(t *testing.T) {
	res := validation.Validate(list(map[string]any{"name": "post", "type": "document", "fields": list(field("title", "string"))}))
	b, err := res.MustGet("post").MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	want := `{"name":"post","type":"document","_problems":[],"fields":[{"name":"title","type":"string","_problems":[]}]}`
	if string(b) != want {
		t.Errorf("got %s", b)
	}
}
