package descriptor

import (
	"fmt"
	"sort"
	"strings"

	jsonpatch "github.com/evanphx/json-patch"
	gojson "github.com/goccy/go-json"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// Delta describes how one set differs from another.
type Delta struct {
	// Added and Removed hold the IDs of own objects present in only one of
	// the sets.
	Added   []string
	Removed []string
	// Patch is a JSON merge patch from the name-keyed view of a to that of b.
	Patch []byte
	// Text is a line diff of the same views, one line per change prefixed
	// with "+" or "-".
	Text string
}

// Empty reports whether the sets have the same own objects.
func (d *Delta) Empty() bool { return len(d.Added) == 0 && len(d.Removed) == 0 }

// View returns the set's own type descriptors keyed by name.
func View(s *Set) map[string]*TypeDef {
	out := map[string]*TypeDef{}
	for _, o := range s.Objects() {
		out[o.Name] = o.TypeDef
	}
	return out
}

// Diff compares the own objects of two sets.
func Diff(a, b *Set) (*Delta, error) {
	if a == nil || b == nil {
		return nil, ErrNilSet
	}
	d := &Delta{}
	for _, k := range b.Keys {
		if _, ok := a.ObjectValues[k]; !ok {
			d.Added = append(d.Added, k)
		}
	}
	for _, k := range a.Keys {
		if _, ok := b.ObjectValues[k]; !ok {
			d.Removed = append(d.Removed, k)
		}
	}
	sort.Strings(d.Added)
	sort.Strings(d.Removed)

	from, err := gojson.MarshalIndent(View(a), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("descriptor: encode view: %w", err)
	}
	to, err := gojson.MarshalIndent(View(b), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("descriptor: encode view: %w", err)
	}
	d.Patch, err = jsonpatch.CreateMergePatch(from, to)
	if err != nil {
		return nil, fmt.Errorf("descriptor: merge patch: %w", err)
	}
	d.Text = lineDiff(string(from), string(to))
	return d, nil
}

// Apply applies a merge patch produced by Diff to a name-keyed view and
// returns the patched view.
func Apply(view map[string]*TypeDef, patch []byte) (map[string]*TypeDef, error) {
	doc, err := gojson.Marshal(view)
	if err != nil {
		return nil, fmt.Errorf("descriptor: encode view: %w", err)
	}
	merged, err := jsonpatch.MergePatch(doc, patch)
	if err != nil {
		return nil, fmt.Errorf("descriptor: apply patch: %w", err)
	}
	out := map[string]*TypeDef{}
	if err := gojson.Unmarshal(merged, &out); err != nil {
		return nil, fmt.Errorf("descriptor: decode view: %w", err)
	}
	return out, nil
}

func lineDiff(from, to string) string {
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)
	var sb strings.Builder
	for _, diff := range diffs {
		var prefix string
		switch diff.Type {
		case diffpatch.DiffInsert:
			prefix = "+"
		case diffpatch.DiffDelete:
			prefix = "-"
		default:
			continue
		}
		for _, line := range strings.SplitAfter(diff.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix)
			sb.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				sb.WriteByte('\n')
			}
		}
	}
	return sb.String()
}
