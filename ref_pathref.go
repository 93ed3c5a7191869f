package schemac

import "strings"

// PathKind distinguishes the two segment kinds of a problem path.
type PathKind string

const (
	PathType     PathKind = "type"
	PathProperty PathKind = "property"
)

// PathSegment is one step of the path from a top-level type to a problem.
// Type segments carry the declared type name; property segments name the
// member property (fields, of, to, marks.annotations) that was descended into.
type PathSegment struct {
	Kind PathKind `json:"kind"`
	Name string   `json:"name,omitempty"`
	Type string   `json:"type,omitempty"`
}

// TypeSegment builds a type segment.
func TypeSegment(name, typ string) PathSegment {
	return PathSegment{Kind: PathType, Name: name, Type: typ}
}

// PropertySegment builds a property segment.
func PropertySegment(name string) PathSegment {
	return PathSegment{Kind: PathProperty, Name: name}
}

// FormatPath renders a path the way the CLI prints it, e.g.
// post<document>.fields:author<reference>.
func FormatPath(path []PathSegment) string {
	b := &strings.Builder{}
	for i, seg := range path {
		switch seg.Kind {
		case PathProperty:
			b.WriteString(".")
			b.WriteString(seg.Name)
			b.WriteString(":")
		default:
			if i > 0 && path[i-1].Kind == PathType {
				b.WriteString(" > ")
			}
			name := seg.Name
			if name == "" {
				name = "<anonymous>"
			}
			b.WriteString(name)
			if seg.Type != "" && seg.Type != seg.Name {
				b.WriteString("<")
				b.WriteString(seg.Type)
				b.WriteString(">")
			}
		}
	}
	return b.String()
}
