package validation

import (
	"fmt"
	"sort"

	"github.com/reoring/schemac"
)

func pluralize(word string, n int) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

func (v *validator) array(m map[string]any, c *ctx) *Node {
	node := newNode(m)
	of, ofIsArray := schemac.AsSlice(m["of"])

	if ofIsArray {
		var invalid schemac.Problems
		for _, def := range of {
			if p, bad := memberDeclarationProblem(def, c); bad {
				invalid = append(invalid, p)
			}
		}
		if len(invalid) > 0 {
			node.Of = []*Node{}
			node.Problems = invalid
			return node
		}
		for _, group := range dupes(of, memberKey) {
			dm, _ := schemac.AsMap(group[0])
			node.Problems = append(node.Problems, schemac.Error(
				fmt.Sprintf("Found %d members with same type, but not unique names %q in array. This makes it impossible to tell their values apart and you should consider naming them", len(group), schemac.StrOr(dm, "type", "undefined")),
				schemac.HelpArrayOfNotUnique,
			))
		}
	} else {
		node.Problems = append(node.Problems, schemac.Error(
			`The array type is missing or having an invalid value for the required "of" property`,
			schemac.HelpArrayOfInvalid,
		))
	}

	members := make([]map[string]any, 0, len(of))
	for _, def := range of {
		dm, _ := schemac.AsMap(def)
		members = append(members, dm)
	}

	var hasBlock, hasNamelessObject bool
	for _, dm := range members {
		switch schemac.StrOr(dm, "type", "") {
		case "block":
			hasBlock = true
		case "object":
			if _, named := dm["name"]; !named {
				hasNamelessObject = true
			}
		}
	}
	if hasBlock && hasNamelessObject {
		node.Problems = append(node.Problems, schemac.Error(
			"The array type's 'of' property can't have an object type without a 'name' property as member, when the 'block' type is also a member of that array.",
			schemac.HelpArrayOfInvalid,
		))
	}

	var primitives, objects []map[string]any
	for _, dm := range members {
		if jt, ok := jsonTypeOf(dm, c); ok && jt.IsPrimitive() {
			primitives = append(primitives, dm)
		} else {
			objects = append(objects, dm)
		}
	}
	mixed := len(primitives) > 0 && len(objects) > 0
	if mixed {
		pn, on := typeNamesOf(primitives), typeNamesOf(objects)
		node.Problems = append(node.Problems, schemac.Error(
			fmt.Sprintf("The array type's 'of' property can't have both object types and primitive types (found primitive type %s %s and object type %s %s)",
				pluralize("name", len(pn)), schemac.HumanizeList(schemac.QuoteAll(pn)),
				pluralize("name", len(on)), schemac.HumanizeList(schemac.QuoteAll(on))),
			schemac.HelpArrayOfInvalid,
		))
	} else {
		node.Problems = append(node.Problems, duplicatePrimitiveProblems(primitives, c)...)
	}

	opts, _ := schemac.MapAt(m, "options")
	if list, ok := schemac.AsSlice(opts["list"]); ok && !mixed {
		if len(primitives) > 0 {
			node.Problems = append(node.Problems, primitiveListProblems(list, primitives, c)...)
		} else {
			node.Problems = append(node.Problems, objectListProblems(list, objects)...)
		}
	}
	if schemac.Truthy(opts["list"]) && schemac.StrOr(opts, "layout", "") == "tags" {
		node.Problems = append(node.Problems, schemac.Warning(
			"Found array member declaration with both tags layout and a list of predefined values. If you want to display a list of predefined values, remove the tags layout from `options`.",
		))
	}

	node.Of = make([]*Node, 0, len(of))
	for i, def := range of {
		child := c.Visit(def, i)
		if typeName, ok := schemac.Str(members[i], "type"); ok && isDocumentTypeName(typeName, c) {
			child.Problems = append(child.Problems, documentFieldWarning(typeName))
		}
		node.Of = append(node.Of, child)
	}
	return node
}

// memberDeclarationProblem reports the first problem that makes a member
// unusable. When any member has one, members are not descended into.
func memberDeclarationProblem(def any, c *ctx) (schemac.Problem, bool) {
	if !schemac.Truthy(def) {
		what := schemac.TypeOf(def)
		if def == nil {
			what = "null"
		}
		return schemac.Error(fmt.Sprintf("Found %s, expected member declaration", what), schemac.HelpArrayOfInvalid), true
	}
	dm, _ := schemac.AsMap(def)
	name, hasName := schemac.Str(dm, "name")
	typeName := schemac.StrOr(dm, "type", "")
	if hasName && name != typeName && schemac.IsCoreTypeName(name) {
		return schemac.Error(
			fmt.Sprintf("Found array member declaration with the same type name as a built-in type (%q). Array members can not be given the same name as a built-in type.", name),
			schemac.HelpArrayOfTypeBuiltinTypeConflict,
		), true
	}
	if typeName == "object" && name != "" {
		if _, exists := c.GetType(name); exists {
			return schemac.Warning(
				fmt.Sprintf("Found array member declaration with the same name as the global schema type %q. It's recommended to use a unique name to avoid possibly incompatible data types that shares the same name.", name),
				schemac.HelpArrayOfTypeGlobalTypeConflict,
			), true
		}
	}
	if typeName == "array" {
		return schemac.Error(
			`Found array member declaration of type "array" - multidimensional arrays are not currently supported`,
			schemac.HelpArrayOfArray,
		), true
	}
	return schemac.Problem{}, false
}

func typeNamesOf(members []map[string]any) []string {
	out := make([]string, len(members))
	for i, dm := range members {
		out[i] = schemac.StrOr(dm, "type", "undefined")
	}
	return out
}

func displayNamesOf(members []map[string]any) []string {
	out := make([]string, len(members))
	for i, dm := range members {
		out[i] = schemac.StrOr(dm, "name", schemac.StrOr(dm, "type", "undefined"))
	}
	return out
}

// duplicatePrimitiveProblems warns when distinct primitive members share a
// JSON type, since stored primitive values carry no type information.
func duplicatePrimitiveProblems(primitives []map[string]any, c *ctx) schemac.Problems {
	byJSON := map[schemac.JSONType][]map[string]any{}
	keys := map[schemac.JSONType]map[string]bool{}
	for _, dm := range primitives {
		jt, _ := jsonTypeOf(dm, c)
		k := memberKey(dm)
		if keys[jt] == nil {
			keys[jt] = map[string]bool{}
		}
		if keys[jt][k] {
			continue
		}
		keys[jt][k] = true
		byJSON[jt] = append(byJSON[jt], dm)
	}
	jts := make([]string, 0, len(byJSON))
	for jt := range byJSON {
		jts = append(jts, string(jt))
	}
	sort.Strings(jts)
	var problems schemac.Problems
	for _, jt := range jts {
		group := byJSON[schemac.JSONType(jt)]
		if len(group) < 2 {
			continue
		}
		problems = append(problems, schemac.Warning(
			fmt.Sprintf("Found multiple members with JSON type %q in array: %s. When stored, there is no way to distinguish between them, as primitive values do not carry type information. Consider using object types instead.",
				jt, schemac.HumanizeList(schemac.QuoteAll(displayNamesOf(group)))),
			schemac.HelpArrayOfDuplicatePrimitiveJSONType,
		))
	}
	return problems
}

func primitiveListProblems(list []any, primitives []map[string]any, c *ctx) schemac.Problems {
	names := schemac.HumanizeList(displayNamesOf(primitives), "or")
	var problems schemac.Problems
	for _, option := range list {
		value := option
		if om, ok := schemac.AsMap(option); ok {
			if v, has := om["value"]; has && v != nil {
				value = v
			}
		}
		declared := false
		for _, dm := range primitives {
			if jt, ok := jsonTypeOf(dm, c); ok && schemac.TypeOf(value) == string(jt) {
				declared = true
				break
			}
		}
		if !declared {
			problems = append(problems, schemac.Error(
				fmt.Sprintf("An invalid entry found in options.list: %s. Must be either a value of %s or an object with {title: string, value: %s}", schemac.Inspect(value), names, names),
				schemac.HelpArrayPredefinedChoicesInvalid,
			))
		}
	}
	return problems
}

func objectListProblems(list []any, objects []map[string]any) schemac.Problems {
	accepted := make([]string, len(objects))
	for i, n := range displayNamesOf(objects) {
		if n == "object" {
			accepted[i] = "undefined"
		} else {
			accepted[i] = schemac.Quote(n)
		}
	}
	var problems schemac.Problems
	for _, option := range list {
		om, _ := schemac.AsMap(option)
		optionType := schemac.StrOr(om, "_type", "object")
		declared := false
		for _, dm := range objects {
			if schemac.StrOr(dm, "name", "") == optionType {
				declared = true
				break
			}
		}
		if !declared {
			problems = append(problems, schemac.Error(
				fmt.Sprintf(`An invalid entry found in options.list: %s. Must be an object with "_type" set to %s`, schemac.Inspect(option), schemac.HumanizeList(accepted, "or")),
				schemac.HelpArrayPredefinedChoicesInvalid,
			))
		}
	}
	return problems
}
