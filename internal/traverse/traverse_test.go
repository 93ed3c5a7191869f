package traverse_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/schemac"
	"github.com/reoring/schemac/internal/traverse"
)

type visit struct {
	Name  string
	Root  bool
	Index int
}

func TestWalk_OrderAndRootFlag(t *testing.T) {
	var seen []visit
	visitor := func(decl any, c *traverse.Context[string]) string {
		m, _ := schemac.AsMap(decl)
		name, _ := schemac.Str(m, "name")
		seen = append(seen, visit{Name: name, Root: c.IsRoot(), Index: c.Index()})
		if fs, ok := schemac.AsSlice(m["fields"]); ok {
			for i, f := range fs {
				c.Visit(f, i)
			}
		}
		return name
	}
	decls := []any{
		map[string]any{"name": "post", "type": "document", "fields": []any{
			map[string]any{"name": "title", "type": "string"},
		}},
		map[string]any{"type": "object"},
	}
	core := []schemac.Declaration{{"name": "string", "type": "type", "jsonType": "string"}}

	res := traverse.Walk(decls, core, visitor)

	want := []visit{
		{Name: "string", Root: false, Index: 0},
		{Name: "post", Root: true, Index: 0},
		{Name: "title", Root: false, Index: 0},
		{Name: "", Root: true, Index: 1},
	}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Fatalf("visit order mismatch (-want +got):\n%s", diff)
	}
	if !res.Has("__unnamed_1") {
		t.Fatalf("expected unnamed declaration to be keyed by index")
	}
	if diff := cmp.Diff([]string{"post", "__unnamed_1"}, res.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"post", "string"}, res.TypeNames()); diff != "" {
		t.Fatalf("type names mismatch (-want +got):\n%s", diff)
	}
}

func TestWalk_ReservedDuplicateAndLookup(t *testing.T) {
	type probe struct {
		reservedType, reservedAny, reservedString, reservedPost bool
		dupAuthor, dupPost                                      bool
		hasType, hasString, hasAuthor, hasAsset                 bool
	}
	var got probe
	visitor := func(decl any, c *traverse.Context[int]) int {
		if !c.IsRoot() || c.Index() != 0 {
			return 1
		}
		_, got.hasType = c.GetType("type")
		_, got.hasString = c.GetType("string")
		_, got.hasAuthor = c.Declaration("author")
		_, got.hasAsset = c.Declaration("sanity.imageAsset")
		got.reservedType = c.IsReserved("type")
		got.reservedAny = c.IsReserved("any")
		got.reservedString = c.IsReserved("string")
		got.reservedPost = c.IsReserved("post")
		got.dupAuthor = c.IsDuplicate("author")
		got.dupPost = c.IsDuplicate("post")
		return 1
	}
	decls := []any{
		map[string]any{"name": "post", "type": "document"},
		map[string]any{"name": "author", "type": "document"},
		map[string]any{"name": "author", "type": "object"},
	}
	traverse.Walk(decls, schemac.CoreDeclarations(), visitor, traverse.Option{
		Known: []schemac.Declaration{{"name": "sanity.imageAsset", "type": "document"}},
	})

	want := probe{
		reservedType: true, reservedAny: true, reservedString: true,
		dupAuthor: true,
		hasString: true, hasAuthor: true, hasAsset: true,
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(probe{})); diff != "" {
		t.Fatalf("context mismatch (-want +got):\n%s", diff)
	}
}

func TestWalk_GetTypeReturnsPlaceholderBeforeVisit(t *testing.T) {
	results := map[string]string{}
	visitor := func(decl any, c *traverse.Context[string]) string {
		m, _ := schemac.AsMap(decl)
		name, _ := schemac.Str(m, "name")
		if name == "a" {
			v, ok := c.GetType("b")
			results["b-from-a"] = v
			if !ok {
				results["b-from-a"] = "missing"
			}
		}
		if name == "b" {
			v, _ := c.GetType("a")
			results["a-from-b"] = v
		}
		return "visited:" + name
	}
	traverse.Walk([]any{
		map[string]any{"name": "a", "type": "object"},
		map[string]any{"name": "b", "type": "object"},
	}, nil, visitor)

	want := map[string]string{"b-from-a": "", "a-from-b": "visited:a"}
	if diff := cmp.Diff(want, results); diff != "" {
		t.Fatalf("lookup mismatch (-want +got):\n%s", diff)
	}
}
