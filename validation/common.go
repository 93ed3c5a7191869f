package validation

import (
	"fmt"

	"github.com/agnivade/levenshtein"

	"github.com/reoring/schemac"
	"github.com/reoring/schemac/internal/traverse"
)

type ctx = traverse.Context[*Node]

func rootType(m map[string]any, c *ctx) schemac.Problems {
	var problems schemac.Problems
	name, hasName := schemac.Str(m, "name")
	hasName = hasName && name != ""
	switch {
	case looksLikeESMModule(m, hasName):
		problems = append(problems, schemac.Error(
			"Type appears to be an ES6 module imported through CommonJS require - use an import statement or access the `.default` property",
			schemac.HelpTypeIsESMModule,
		))
	case !hasName:
		problems = append(problems, schemac.Error("Missing type name", schemac.HelpTypeMissingName))
	case c.IsReserved(name):
		problems = append(problems, schemac.Error(
			fmt.Sprintf("Invalid type name: %q is a reserved name.", name),
			schemac.HelpTypeNameReserved,
		))
	}
	if hasName && c.IsDuplicate(name) {
		problems = append(problems, schemac.Error(
			fmt.Sprintf("Invalid type name: A type with name %q is already defined in the schema.", name),
		))
	}
	problems = append(problems, componentProblems(m)...)
	if title, ok := m["title"]; ok && schemac.Truthy(title) {
		if _, isStr := title.(string); !isStr {
			problems = append(problems, schemac.Warning("Type title is not a string.", schemac.HelpTypeTitleInvalid))
		}
	}
	return problems
}

func looksLikeESMModule(m map[string]any, hasName bool) bool {
	if hasName {
		return false
	}
	def, ok := schemac.MapAt(m, "default")
	return ok && (schemac.Truthy(def["name"]) || schemac.Truthy(def["title"]))
}

var componentSlots = []string{"input", "field", "item", "preview"}

func componentProblems(m map[string]any) schemac.Problems {
	components, ok := schemac.MapAt(m, "components")
	if !ok {
		return nil
	}
	var problems schemac.Problems
	for _, slot := range componentSlots {
		v, set := components[slot]
		if !set || v == nil || schemac.IsComponentLike(v) {
			continue
		}
		problems = append(problems, schemac.Warning(fmt.Sprintf(
			"The `components.%s` property is set but does not appear to be a valid component (expected a function, but saw %s). If you have imported a custom %s component, please verify that you are importing the correct export.",
			slot, schemac.Inspect(v), slot,
		)))
	}
	return problems
}

// common runs for every declaration regardless of kind.
func (v *validator) common(m map[string]any, c *ctx) schemac.Problems {
	var problems schemac.Problems
	raw, hasType := m["type"]
	if !hasType || raw == nil {
		return schemac.Problems{schemac.Error("Type is missing a type.", schemac.HelpTypeMissingType)}
	}
	typeName, ok := raw.(string)
	if !ok {
		return schemac.Problems{schemac.Error(fmt.Sprintf(
			`Type has an invalid "type"-property - should be a string. Valid types are: %s`,
			schemac.HumanizeList(possibleTypeNames(c)),
		), schemac.HelpTypeInvalid)}
	}
	if _, known := c.GetType(typeName); !known {
		msg := "Unknown type: " + typeName + "."
		if s := suggestions(typeName, possibleTypeNames(c)); len(s) > 0 {
			msg += " Did you mean " + schemac.HumanizeList(schemac.QuoteAll(s), "or") + "?"
		}
		problems = append(problems, schemac.Error(msg, schemac.HelpTypeUnknownType))
	}
	if schemac.Has(m, "inputComponent") {
		name := schemac.StrOr(m, "name", typeName)
		v.warnings.Warn("inputComponent:"+name, fmt.Sprintf(`The "inputComponent" property of %q is deprecated. Use "components.input" instead.`, name))
		problems = append(problems, schemac.Warning(
			`The "inputComponent" property is deprecated. Use "components.input" instead.`,
			schemac.HelpDeprecatedProperty,
		))
	}
	if dep, ok := m["deprecated"]; ok && dep != nil {
		dm, isMap := schemac.AsMap(dep)
		if _, hasReason := schemac.Str(dm, "reason"); !isMap || !hasReason {
			problems = append(problems, schemac.Error(
				`The "deprecated" property must be an object with a "reason" property of type string`,
				schemac.HelpDeprecatedProperty,
			))
		}
	}
	return problems
}

// possibleTypeNames lists every resolvable name once, dropping "type".
func possibleTypeNames(c *ctx) []string {
	seen := map[string]bool{"type": true}
	var out []string
	for _, n := range c.TypeNames() {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func suggestions(name string, candidates []string) []string {
	var out []string
	for _, cand := range candidates {
		if levenshtein.ComputeDistance(name, cand) < 3 {
			out = append(out, cand)
		}
	}
	return out
}

// jsonTypeOf follows the type chain of a declaration until a core
// declaration names its JSON type.
func jsonTypeOf(m map[string]any, c *ctx) (schemac.JSONType, bool) {
	seen := map[string]bool{}
	cur := m
	for cur != nil {
		if jt, ok := schemac.Str(cur, "jsonType"); ok {
			return schemac.JSONType(jt), true
		}
		t, _ := schemac.Str(cur, "type")
		if t == "" || seen[t] {
			return "", false
		}
		seen[t] = true
		cur, _ = c.Declaration(t)
	}
	return "", false
}

// jsonTypeOfName is jsonTypeOf for a type name.
func jsonTypeOfName(name string, c *ctx) (schemac.JSONType, bool) {
	d, ok := c.Declaration(name)
	if !ok {
		return "", false
	}
	return jsonTypeOf(d, c)
}

// isDocumentTypeName reports whether name is a declared type that inherits
// from the core document type.
func isDocumentTypeName(name string, c *ctx) bool {
	seen := map[string]bool{}
	for name != "" && !c.IsCore(name) && !seen[name] {
		seen[name] = true
		d, ok := c.Declaration(name)
		if !ok {
			return false
		}
		name, _ = schemac.Str(d, "type")
		if name == "document" {
			return true
		}
	}
	return false
}

func documentFieldWarning(typeName string) schemac.Problem {
	return schemac.Warning(fmt.Sprintf(
		"The type %q is a document type and should not be used directly as a field or array member type. Use a reference to %q, or declare an object type for the embedded value.",
		typeName, typeName,
	), schemac.HelpFieldTypeIsDocument)
}

// memberKey identifies a member declaration by name and type; absent values
// render as "undefined".
func memberKey(v any) string {
	m, _ := schemac.AsMap(v)
	name, ok := schemac.Str(m, "name")
	if !ok {
		name = "undefined"
	}
	typ, ok := schemac.Str(m, "type")
	if !ok {
		typ = "undefined"
	}
	return name + ";" + typ
}

// dupes groups items by key and returns the groups with more than one item,
// in order of first appearance.
func dupes(items []any, key func(any) string) [][]any {
	var order []string
	groups := map[string][]any{}
	for _, it := range items {
		k := key(it)
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], it)
	}
	var out [][]any
	for _, k := range order {
		if len(groups[k]) > 1 {
			out = append(out, groups[k])
		}
	}
	return out
}
