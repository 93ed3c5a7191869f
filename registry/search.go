package registry

import (
	"sort"
	"strconv"
	"strings"

	gojson "github.com/goccy/go-json"

	"github.com/reoring/schemac"
)

// ArrayItems is the path element that stands for every item of an array.
type ArrayItems struct{}

func (ArrayItems) MarshalJSON() ([]byte, error) { return []byte("[]"), nil }

// Path is a search path; elements are field names (string), item indexes
// (int) or ArrayItems.
type Path []any

// String renders the dotted identity used for de-duplication.
func (p Path) String() string {
	var b strings.Builder
	for i, e := range p {
		switch x := e.(type) {
		case ArrayItems:
			b.WriteString("[]")
			continue
		case int:
			b.WriteString("[" + strconv.Itoa(x) + "]")
			continue
		case string:
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteString(x)
		}
	}
	return b.String()
}

// UnmarshalJSON decodes [] elements back into ArrayItems.
func (p *Path) UnmarshalJSON(b []byte) error {
	var raw []gojson.RawMessage
	if err := gojson.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make(Path, 0, len(raw))
	for _, r := range raw {
		var s string
		if gojson.Unmarshal(r, &s) == nil {
			out = append(out, s)
			continue
		}
		var n int
		if gojson.Unmarshal(r, &n) == nil {
			out = append(out, n)
			continue
		}
		out = append(out, ArrayItems{})
	}
	*p = out
	return nil
}

// SearchPath is one weighted search path.
type SearchPath struct {
	Path    Path    `json:"path"`
	Weight  float64 `json:"weight"`
	MapWith string  `json:"mapWith,omitempty"`
}

var previewWeights = []struct {
	key    string
	weight float64
}{{"title", 10}, {"subtitle", 5}, {"description", 1.5}}

func (t *Type) computeSearch() []SearchPath {
	if raw, ok := t.own["__experimental_search"]; ok && schemac.IsArray(raw) {
		return t.userSearch(raw)
	}
	if t.base != nil && !t.base.IsCore() {
		return t.base.Search()
	}
	return t.deriveSearch()
}

func (t *Type) deriveSearch() []SearchPath {
	out := []SearchPath{
		{Path: Path{"_id"}, Weight: 1},
		{Path: Path{"_type"}, Weight: 1},
	}
	if sel := t.Preview().Select; sel != nil {
		for _, pw := range previewWeights {
			if p, ok := sel[pw.key]; ok && p != "" {
				var path Path
				for _, seg := range strings.Split(p, ".") {
					path = append(path, seg)
				}
				out = append(out, SearchPath{Path: path, Weight: pw.weight})
			}
		}
	}
	w := &searchWalker{max: t.maxSearchPaths()}
	w.walk(t, nil, t.maxSearchDepth())
	out = append(out, w.paths...)
	return dedupeSearch(out)
}

func (t *Type) maxSearchDepth() int {
	if t.reg == nil {
		return defaultMaxSearchDepth
	}
	return t.reg.opts.MaxSearchDepth
}

func (t *Type) maxSearchPaths() int {
	if t.reg == nil {
		return defaultMaxSearchPaths
	}
	return t.reg.opts.MaxSearchPaths
}

// searchWalker collects string and portable text leaves in walk order.
type searchWalker struct {
	max   int
	paths []SearchPath
}

func (w *searchWalker) full() bool { return len(w.paths) >= w.max }

func (w *searchWalker) walk(t *Type, path Path, depth int) {
	if depth < 0 || w.full() {
		return
	}
	if len(path) > 0 {
		if t.IsPortableTextArray() {
			w.paths = append(w.paths, SearchPath{Path: path, Weight: 1, MapWith: "pt::text"})
			return
		}
		if t.jsonType == schemac.JSONString {
			w.paths = append(w.paths, SearchPath{Path: path, Weight: 1})
			return
		}
	}
	switch {
	case t.jsonType == schemac.JSONArray:
		for _, m := range t.Of() {
			w.walk(m, path, depth-1)
		}
	case t.jsonType == schemac.JSONObject && !t.kind.IsReference():
		block := t.IsPortableTextBlock()
		for _, f := range sortedFields(t.Fields()) {
			if block && isBlockFormatField(f.Name) {
				continue
			}
			seg := Path{f.Name}
			if f.Type.jsonType == schemac.JSONArray {
				seg = append(seg, ArrayItems{})
			}
			next := append(append(Path(nil), path...), seg...)
			w.walk(f.Type, next, depth-1)
		}
	}
}

// isBlockFormatField reports whether a block subfield only carries
// formatting. The list marker is named listItem in block declarations;
// list is accepted as well.
func isBlockFormatField(name string) bool {
	switch name {
	case "style", "list", "listItem":
		return true
	}
	return false
}

// sortedFields orders primitive fields before object and array fields,
// alphabetically within each group.
func sortedFields(fields []*Field) []*Field {
	out := append([]*Field(nil), fields...)
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].Type.jsonType.IsPrimitive(), out[j].Type.jsonType.IsPrimitive()
		if pi != pj {
			return pi
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func dedupeSearch(in []SearchPath) []SearchPath {
	seen := map[string]bool{}
	out := make([]SearchPath, 0, len(in))
	for _, sp := range in {
		key := sp.Path.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, sp)
	}
	return out
}

// userSearch normalizes __experimental_search entries. The string entry
// "defaults" expands to the derived configuration.
func (t *Type) userSearch(raw any) []SearchPath {
	var out []SearchPath
	for _, item := range schemac.Arrify(raw) {
		if s, ok := item.(string); ok && s == "defaults" {
			out = append(out, t.deriveSearch()...)
			continue
		}
		m, ok := schemac.AsMap(item)
		if !ok {
			continue
		}
		sp := SearchPath{Weight: 1, MapWith: schemac.StrOr(m, "mapWith", "")}
		if w, ok := schemac.Number(m["weight"]); ok {
			sp.Weight = w
		}
		switch p := m["path"].(type) {
		case string:
			for _, seg := range strings.Split(p, ".") {
				sp.Path = append(sp.Path, pathElem(seg))
			}
		default:
			for _, seg := range schemac.Arrify(p) {
				switch x := seg.(type) {
				case string:
					sp.Path = append(sp.Path, pathElem(x))
				default:
					if n, ok := schemac.Number(x); ok {
						sp.Path = append(sp.Path, int(n))
					} else if schemac.IsArray(x) {
						sp.Path = append(sp.Path, ArrayItems{})
					}
				}
			}
		}
		if len(sp.Path) > 0 {
			out = append(out, sp)
		}
	}
	return dedupeSearch(out)
}

func pathElem(seg string) any {
	if n, err := strconv.Atoi(seg); err == nil {
		return n
	}
	return seg
}
