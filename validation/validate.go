// Package validation checks raw declarations for structural problems. It
// never fails: every finding is attached to the node of the declaration it
// concerns, and GroupProblems flattens them into path-addressed groups.
package validation

import (
	gojson "github.com/goccy/go-json"

	"github.com/reoring/schemac"
	"github.com/reoring/schemac/internal/traverse"
)

// Node is a problem-annotated view of one declaration.
type Node struct {
	Name        string
	Type        string
	Decl        map[string]any
	Fields      []*Node
	Of          []*Node
	To          []*Node
	Annotations []*Node
	Problems    schemac.Problems
}

type nodeJSON struct {
	Name     string           `json:"name,omitempty"`
	Type     string           `json:"type,omitempty"`
	Problems schemac.Problems `json:"_problems"`
	Fields   []*Node          `json:"fields,omitempty"`
	Of       []*Node          `json:"of,omitempty"`
	To       []*Node          `json:"to,omitempty"`
	Marks    *marksJSON       `json:"marks,omitempty"`
}

type marksJSON struct {
	Annotations []*Node `json:"annotations"`
}

// MarshalJSON encodes the node with its problems under "_problems". The raw
// declaration is left out since it may hold functions.
func (n *Node) MarshalJSON() ([]byte, error) {
	out := nodeJSON{
		Name:     n.Name,
		Type:     n.Type,
		Problems: schemac.AppendProblems(n.Problems),
		Fields:   n.Fields,
		Of:       n.Of,
		To:       n.To,
	}
	if n.Annotations != nil {
		out.Marks = &marksJSON{Annotations: n.Annotations}
	}
	return gojson.Marshal(out)
}

// Option configures Validate. Multiple options merge with last-wins
// semantics for set fields.
type Option struct {
	// Warnings receives deprecation notices. Defaults to discarding them.
	Warnings schemac.WarningSink
	// WithoutBuiltins stops the built-in asset types from resolving as
	// known type names.
	WithoutBuiltins bool
}

type validator struct {
	warnings schemac.WarningSink
}

// Result is the outcome of Validate, keyed by top-level type name.
type Result = traverse.Result[*Node]

// Validate checks every declaration. Top-level declarations go through the
// root checks, then the common checks, then the checks of their kind; member
// declarations skip the root checks. Problems of all stages are kept.
func Validate(decls []any, opts ...Option) *Result {
	var o Option
	for _, x := range opts {
		if x.Warnings != nil {
			o.Warnings = x.Warnings
		}
		if x.WithoutBuiltins {
			o.WithoutBuiltins = true
		}
	}
	v := &validator{warnings: o.Warnings}
	if v.warnings == nil {
		v.warnings = schemac.DiscardWarnings
	}
	var walkOpts []traverse.Option
	if !o.WithoutBuiltins {
		walkOpts = append(walkOpts, traverse.Option{Known: schemac.Builtins()})
	}
	return traverse.Walk(decls, schemac.CoreDeclarations(), v.visit, walkOpts...)
}

// ValidateDeclarations is Validate for typed declarations.
func ValidateDeclarations(decls []schemac.Declaration, opts ...Option) *Result {
	in := make([]any, len(decls))
	for i, d := range decls {
		in[i] = d
	}
	return Validate(in, opts...)
}

func (v *validator) visit(decl any, c *traverse.Context[*Node]) *Node {
	m, isMap := schemac.AsMap(decl)
	name, _ := schemac.Str(m, "name")
	typeName, _ := schemac.Str(m, "type")

	if !c.IsRoot() && typeName == "type" && c.IsCore(name) {
		return &Node{Name: name, Type: typeName, Decl: m, Problems: schemac.Problems{}}
	}
	if c.IsRoot() && (!isMap || len(m) == 0) {
		return &Node{Problems: schemac.Problems{schemac.Error(
			"Invalid/undefined type declaration, check declaration or the import/export of the schema type.",
			schemac.HelpTypeInvalid,
		)}}
	}

	problems := schemac.Problems{}
	if c.IsRoot() {
		problems = append(problems, rootType(m, c)...)
	}
	problems = append(problems, v.common(m, c)...)

	var node *Node
	kind, _ := schemac.KindOf(typeName)
	switch kind {
	case schemac.KindObject:
		node = v.object(m, c)
	case schemac.KindDocument:
		node = v.document(m, c)
	case schemac.KindArray:
		node = v.array(m, c)
	case schemac.KindReference:
		node = v.reference(m, c)
	case schemac.KindCrossDatasetReference:
		node = v.crossDatasetReference(m, c)
	case schemac.KindGlobalDocumentReference:
		node = v.globalDocumentReference(m, c)
	case schemac.KindSlug:
		node = v.slug(m, c)
	case schemac.KindImage:
		node = v.asset(m, c, imageReservedFields)
		node.Problems = append(node.Problems, imageMetadataProblems(m)...)
	case schemac.KindFile:
		node = v.asset(m, c, fileReservedFields)
	case schemac.KindBlock:
		node = v.block(m, c)
	default:
		node = newNode(m)
	}
	node.Problems = append(problems, node.Problems...)
	return node
}

func newNode(m map[string]any) *Node {
	name, _ := schemac.Str(m, "name")
	typeName, _ := schemac.Str(m, "type")
	return &Node{Name: name, Type: typeName, Decl: m, Problems: schemac.Problems{}}
}
