package validation

import (
	"fmt"
	"strings"

	"github.com/reoring/schemac"
)

var (
	allowedBlockKeys     = keySet("components", "lists", "marks", "name", "of", "options", "styles", "title", "type", "validation")
	allowedMarkKeys      = keySet("decorators", "annotations")
	allowedStyleKeys     = keySet("blockEditor", "title", "value", "icon", "component")
	allowedDecoratorKeys = keySet("blockEditor", "title", "value", "icon", "component")
	allowedListKeys      = keySet("title", "value", "icon", "component")

	supportedBlockMemberTypes = []string{"file", "image", "object", "reference", "crossDatasetReference", "globalDocumentReference"}
)

func keySet(keys ...string) map[string]bool {
	out := make(map[string]bool, len(keys))
	for _, k := range keys {
		out[k] = true
	}
	return out
}

// unknownKeys lists keys outside allowed, ignoring underscore-prefixed ones.
func unknownKeys(m map[string]any, allowed map[string]bool) []string {
	var out []string
	for _, k := range schemac.SortedKeys(m) {
		if !allowed[k] && !strings.HasPrefix(k, "_") {
			out = append(out, k)
		}
	}
	return out
}

func (v *validator) block(m map[string]any, c *ctx) *Node {
	node := newNode(m)
	if node.Name == "" {
		node.Name = node.Type
	}
	if bad := unknownKeys(m, allowedBlockKeys); len(bad) > 0 {
		node.Problems = append(node.Problems, schemac.Errorf("Found unknown properties for block declaration: %s", schemac.HumanizeList(schemac.QuoteAll(bad))))
	}
	if marks, ok := m["marks"]; ok && schemac.Truthy(marks) {
		node.Annotations = v.blockMarks(marks, c, node)
	}
	if styles, ok := m["styles"]; ok && schemac.Truthy(styles) {
		node.Problems = append(node.Problems, optionListProblems(styles, "styles", "Style", allowedStyleKeys)...)
	}
	if lists, ok := m["lists"]; ok && schemac.Truthy(lists) {
		node.Problems = append(node.Problems, optionListProblems(lists, "lists", "List", allowedListKeys)...)
	}
	if members, ok := m["of"]; ok && schemac.Truthy(members) {
		node.Of = v.blockMembers(members, c, node)
	}
	return node
}

func (v *validator) blockMarks(raw any, c *ctx, node *Node) []*Node {
	marks, ok := schemac.AsMap(raw)
	if !ok {
		node.Problems = append(node.Problems, schemac.Errorf(`"marks" declaration should be an object, got %s`, schemac.TypeOf(raw)))
		return nil
	}
	if bad := unknownKeys(marks, allowedMarkKeys); len(bad) > 0 {
		node.Problems = append(node.Problems, schemac.Errorf("Found unknown properties for block declaration: %s", schemac.HumanizeList(schemac.QuoteAll(bad))))
	}
	if dec, ok := marks["decorators"]; ok && schemac.Truthy(dec) {
		if list, isList := schemac.AsSlice(dec); !isList {
			node.Problems = append(node.Problems, schemac.Errorf(`"marks.decorators" declaration should be an array, got %s`, schemac.TypeOf(dec)))
		} else {
			node.Problems = append(node.Problems, decoratorProblems(list)...)
		}
	}
	ann, ok := marks["annotations"]
	if !ok || !schemac.Truthy(ann) {
		return nil
	}
	list, isList := schemac.AsSlice(ann)
	if !isList {
		node.Problems = append(node.Problems, schemac.Errorf(`"marks.annotations" declaration should be an array, got %s`, schemac.TypeOf(ann)))
		return nil
	}
	out := make([]*Node, 0, len(list))
	for i, a := range list {
		am, isMap := schemac.AsMap(a)
		if !isMap {
			out = append(out, &Node{Problems: schemac.Problems{schemac.Errorf("Annotation must be an object, got %s", schemac.TypeOf(a))}})
			continue
		}
		child := c.Visit(am, i)
		if typeName, ok := schemac.Str(am, "type"); ok && typeName != "" {
			if _, exists := c.GetType(typeName); exists {
				if jt, ok := jsonTypeOfName(typeName, c); ok && jt != schemac.JSONObject {
					child.Problems = append(child.Problems, schemac.Errorf(
						"Annotation cannot have type %q - annotation types must inherit from object", typeName,
					))
				}
			}
		}
		if schemac.Has(am, "blockEditor") {
			node.Problems = append(node.Problems, schemac.Warning(
				`Annotation has deprecated key "blockEditor", please refer to the documentation on how to configure the block type for version 3.`,
				schemac.HelpDeprecatedBlockEditorKey,
			))
		}
		out = append(out, child)
	}
	return out
}

func decoratorProblems(list []any) schemac.Problems {
	var problems schemac.Problems
	for i, d := range list {
		dm, ok := schemac.AsMap(d)
		if !ok {
			problems = append(problems, schemac.Errorf("Annotation must be an object, got %s", schemac.TypeOf(d)))
			continue
		}
		name := displayValue(dm, i)
		if bad := unknownKeys(dm, allowedDecoratorKeys); len(bad) > 0 {
			problems = append(problems, schemac.Errorf("Found unknown properties for decorator %s: %s", name, schemac.HumanizeList(schemac.QuoteAll(bad))))
		}
		problems = append(problems, valueProblems(dm, i, "Decorator", "Decorator")...)
		if schemac.Has(dm, "blockEditor") {
			problems = append(problems, schemac.Warning(
				fmt.Sprintf(`Decorator %q has deprecated key "blockEditor", please refer to the documentation on how to configure the block type for version 3.`, name),
				schemac.HelpDeprecatedBlockEditorKey,
			))
		}
	}
	return problems
}

// optionListProblems checks the styles and lists declarations of a block.
func optionListProblems(raw any, prop, label string, allowed map[string]bool) schemac.Problems {
	list, ok := schemac.AsSlice(raw)
	if !ok {
		return schemac.Problems{schemac.Errorf(`%q declaration should be an array, got %s`, prop, schemac.TypeOf(raw))}
	}
	var problems schemac.Problems
	invalidLabel := label
	if label == "List" {
		invalidLabel = "List type"
	}
	for i, item := range list {
		im, ok := schemac.AsMap(item)
		if !ok {
			problems = append(problems, schemac.Errorf("%s must be an object, got %s", label, schemac.TypeOf(item)))
			continue
		}
		if bad := unknownKeys(im, allowed); len(bad) > 0 {
			problems = append(problems, schemac.Errorf("Found unknown properties for %s %s: %s", strings.ToLower(label), displayValue(im, i), schemac.HumanizeList(schemac.QuoteAll(bad))))
		}
		problems = append(problems, valueProblems(im, i, label, invalidLabel)...)
		if label == "Style" && schemac.Has(im, "blockEditor") {
			problems = append(problems, schemac.Warning(
				`Style has deprecated key "blockEditor", please refer to the documentation on how to configure the block type for version 3.`,
				schemac.HelpDeprecatedBlockEditorKey,
			))
		}
	}
	return problems
}

func displayValue(m map[string]any, index int) string {
	if v := m["value"]; schemac.Truthy(v) {
		return fmt.Sprint(v)
	}
	return fmt.Sprintf("#%d", index)
}

// valueProblems requires a string value and recommends a title.
func valueProblems(m map[string]any, index int, label, invalidLabel string) schemac.Problems {
	raw := m["value"]
	if !schemac.Truthy(raw) {
		return schemac.Problems{schemac.Errorf(`%s #%d is missing required "value" property`, label, index)}
	}
	if _, ok := raw.(string); !ok {
		return schemac.Problems{schemac.Errorf(`%s #%d has an invalid "value" property, expected string, got %s`, invalidLabel, index, schemac.TypeOf(raw))}
	}
	if !schemac.Truthy(m["title"]) {
		return schemac.Problems{schemac.Warning(fmt.Sprintf(`%s %s is missing recommended "title" property`, invalidLabel, displayValue(m, index)))}
	}
	return nil
}

func (v *validator) blockMembers(raw any, c *ctx, node *Node) []*Node {
	members, ok := schemac.AsSlice(raw)
	if !ok {
		node.Problems = append(node.Problems, schemac.Errorf(`"of" declaration should be an array, got %s`, schemac.TypeOf(raw)))
		return nil
	}
	out := make([]*Node, 0, len(members))
	for i, member := range members {
		child := c.Visit(member, i)
		mm, _ := schemac.AsMap(member)
		name, _ := schemac.Str(mm, "name")
		typeName, _ := schemac.Str(mm, "type")
		if typeName == "object" && name != "" {
			if _, exists := c.GetType(name); exists {
				child.Problems = schemac.Problems{schemac.Warning(
					fmt.Sprintf("Found array member declaration with the same name as the global schema type %q. It's recommended to use a unique name to avoid possibly incompatible data types that shares the same name.", name),
					schemac.HelpArrayOfTypeGlobalTypeConflict,
				)}
				out = append(out, child)
				continue
			}
		}
		jt, resolved := jsonTypeOf(mm, c)
		if (resolved && jt != schemac.JSONObject) || isUnsupportedCoreMember(typeName) {
			child.Problems = schemac.Problems{schemac.Error(
				fmt.Sprintf("Block member types must be a supported object-like type. The following built-in types are supported: '%s'. You can also use shorthands for previously defined object types like {type: 'myObjectType'}",
					strings.Join(supportedBlockMemberTypes, "', '")),
				schemac.HelpArrayOfTypeBuiltinTypeConflict,
			)}
		}
		out = append(out, child)
	}
	return out
}

func isUnsupportedCoreMember(typeName string) bool {
	if !schemac.IsCoreTypeName(typeName) {
		return false
	}
	for _, s := range supportedBlockMemberTypes {
		if s == typeName {
			return false
		}
	}
	return true
}
