package validation

import (
	"fmt"

	"github.com/reoring/schemac"
)

// ProblemGroup is the problems of one node together with the path leading
// to it from its top-level type.
type ProblemGroup struct {
	Path     []schemac.PathSegment `json:"path"`
	Problems schemac.Problems      `json:"problems"`
}

// GroupProblems flattens a validation result into path-addressed groups in
// declaration order, dropping nodes without problems.
func GroupProblems(res *Result) []ProblemGroup {
	var out []ProblemGroup
	for _, key := range res.Keys() {
		node, ok := res.Get(key)
		if !ok || node == nil {
			continue
		}
		out = appendNodeProblems(out, node, nil)
	}
	return out
}

func appendNodeProblems(out []ProblemGroup, n *Node, parent []schemac.PathSegment) []ProblemGroup {
	path := append(append([]schemac.PathSegment(nil), parent...), schemac.TypeSegment(n.Name, n.Type))
	if len(n.Problems) > 0 {
		out = append(out, ProblemGroup{Path: path, Problems: n.Problems})
	}
	descend := func(prop string, members []*Node) {
		sub := append(append([]schemac.PathSegment(nil), path...), schemac.PropertySegment(prop))
		for _, m := range members {
			if m != nil {
				out = appendNodeProblems(out, m, sub)
			}
		}
	}
	kind, _ := schemac.KindOf(n.Type)
	switch kind {
	case schemac.KindObject, schemac.KindDocument, schemac.KindImage, schemac.KindFile:
		descend("fields", n.Fields)
	case schemac.KindArray:
		descend("of", n.Of)
	case schemac.KindReference:
		descend("to", n.To)
	case schemac.KindBlock:
		descend("marks.annotations", n.Annotations)
		descend("of", n.Of)
	}
	return out
}

// HasErrors reports whether any group holds an error-severity problem.
func HasErrors(groups []ProblemGroup) bool {
	for _, g := range groups {
		if g.Problems.HasErrors() {
			return true
		}
	}
	return false
}

// Summary counts errors and warnings across groups.
func Summary(groups []ProblemGroup) (errors, warnings int) {
	for _, g := range groups {
		for _, p := range g.Problems {
			switch p.Severity {
			case schemac.SeverityError:
				errors++
			case schemac.SeverityWarning:
				warnings++
			}
		}
	}
	return errors, warnings
}

// String renders the group as "path: message" lines.
func (g ProblemGroup) String() string {
	s := ""
	for i, p := range g.Problems {
		if i > 0 {
			s += "\n"
		}
		s += fmt.Sprintf("%s: [%s] %s", schemac.FormatPath(g.Path), p.Severity, p.Message)
	}
	return s
}
