package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/reoring/schemac"
)

var (
	validFieldRE        = regexp.MustCompile(`^[A-Za-z]+[0-9A-Za-z_]*$`)
	conventionalFieldRE = regexp.MustCompile(`^[A-Za-z_]+[0-9A-Za-z_]*$`)
)

func fieldNameProblems(raw any) schemac.Problems {
	name, ok := raw.(string)
	if !ok {
		return schemac.Problems{schemac.Error(
			fmt.Sprintf("Field names must be strings. Saw %s", schemac.Inspect(raw)),
			schemac.HelpObjectFieldNameInvalid,
		)}
	}
	if strings.HasPrefix(name, "_") {
		return schemac.Problems{schemac.Error(
			fmt.Sprintf(`Invalid field name %q. Field names cannot start with underscores "_" as it's reserved for system fields.`, name),
			schemac.HelpObjectFieldNameInvalid,
		)}
	}
	if !validFieldRE.MatchString(name) {
		return schemac.Problems{schemac.Error(
			fmt.Sprintf("Invalid field name: %q. Fields can only contain characters from A-Z, numbers and underscores and should not start with a number (must pass the regular expression /%s/).", name, validFieldRE),
			schemac.HelpObjectFieldNameInvalid,
		)}
	}
	if !conventionalFieldRE.MatchString(name) {
		return schemac.Problems{schemac.Warning(
			"Unconventional field name. Keep special characters out of field names for easier access later on.",
			schemac.HelpObjectFieldNameInvalid,
		)}
	}
	return nil
}

func fieldProblems(field any) schemac.Problems {
	m, ok := schemac.AsMap(field)
	if !ok {
		return schemac.Problems{schemac.Error(
			fmt.Sprintf("Incorrect type for field definition - should be an object, saw %s", schemac.Inspect(field)),
			schemac.HelpObjectFieldDefinitionInvalidType,
		)}
	}
	var problems schemac.Problems
	if raw, has := m["name"]; has {
		problems = append(problems, fieldNameProblems(raw)...)
	} else {
		problems = append(problems, schemac.Error("Missing field name", schemac.HelpObjectFieldNameInvalid))
	}
	return append(problems, componentProblems(m)...)
}

// fieldsProblems checks the fields list of an object-like declaration as a
// whole: shape, unique names and standalone block fields.
func fieldsProblems(raw any, allowEmpty bool) schemac.Problems {
	fields, ok := schemac.AsSlice(raw)
	if !ok {
		return schemac.Problems{schemac.Error(
			fmt.Sprintf(`The "fields" property must be an array of fields. Instead saw %q`, schemac.TypeOf(raw)),
			schemac.HelpObjectFieldsInvalid,
		)}
	}
	var problems schemac.Problems
	var named []any
	for _, f := range fields {
		m, _ := schemac.AsMap(f)
		if _, ok := schemac.Str(m, "name"); ok {
			named = append(named, f)
		}
	}
	for _, group := range dupes(named, func(f any) string { m, _ := schemac.AsMap(f); return schemac.StrOr(m, "name", "") }) {
		m, _ := schemac.AsMap(group[0])
		problems = append(problems, schemac.Error(
			fmt.Sprintf("Found %d fields with name %q in object", len(group), schemac.StrOr(m, "name", "")),
			schemac.HelpObjectFieldNotUnique,
		))
	}
	if len(fields) == 0 && !allowEmpty {
		problems = append(problems, schemac.Error("Object should have at least one field", schemac.HelpObjectFieldsInvalid))
	}
	var standalone []string
	for _, f := range fields {
		m, _ := schemac.AsMap(f)
		if schemac.StrOr(m, "type", "") == "block" {
			standalone = append(standalone, schemac.Quote(schemac.StrOr(m, "name", "undefined")))
		}
	}
	if len(standalone) > 0 {
		problems = append(problems, schemac.Error(
			fmt.Sprintf("Invalid standalone block field(s) %s. Block content must be defined as an array of blocks: {type: \"array\", of: [{type: \"block\"}]}", strings.Join(standalone, ", ")),
			schemac.HelpStandaloneBlockType,
		))
	}
	return problems
}

func previewProblems(raw any) schemac.Problems {
	m, ok := schemac.AsMap(raw)
	if !ok {
		return schemac.Problems{schemac.Errorf(`The "preview" property must be an object, instead saw %q`, schemac.TypeOf(raw))}
	}
	if prepare, ok := m["prepare"]; ok && prepare != nil && !schemac.IsFunc(prepare) {
		return schemac.Problems{schemac.Errorf(`The "preview.prepare" property must be a function, instead saw %q`, schemac.TypeOf(prepare))}
	}
	sel, ok := m["select"]
	if !ok || !schemac.Truthy(sel) {
		return nil
	}
	sm, ok := schemac.AsMap(sel)
	if !ok {
		return schemac.Problems{schemac.Errorf(`The "preview.select" property must be an object, instead saw %q`, schemac.TypeOf(sel))}
	}
	var problems schemac.Problems
	for _, k := range schemac.SortedKeys(sm) {
		if _, isStr := sm[k].(string); !isStr {
			problems = append(problems, schemac.Errorf(`The key %q of "preview.select" must be a string, instead saw %q`, k, schemac.TypeOf(sm[k])))
		}
	}
	return problems
}

// visitFields visits every field with its name stripped and prefixes the
// field's own problems.
func (v *validator) visitFields(raw any, c *ctx) []*Node {
	fields, _ := schemac.AsSlice(raw)
	out := make([]*Node, 0, len(fields))
	for i, f := range fields {
		fm, _ := schemac.AsMap(f)
		child := c.Visit(schemac.Omit(fm, "name"), i)
		problems := fieldProblems(f)
		if typeName, ok := schemac.Str(fm, "type"); ok && isDocumentTypeName(typeName, c) {
			problems = append(problems, documentFieldWarning(typeName))
		}
		child.Name, _ = schemac.Str(fm, "name")
		child.Decl = fm
		child.Problems = append(problems, child.Problems...)
		out = append(out, child)
	}
	return out
}

func (v *validator) object(m map[string]any, c *ctx) *Node {
	node := newNode(m)
	node.Problems = append(node.Problems, fieldsProblems(m["fields"], false)...)
	if raw, ok := m["preview"]; ok && schemac.Truthy(raw) {
		node.Problems = append(node.Problems, previewProblems(raw)...)
	}
	if node.Type != "document" && node.Type != "object" && schemac.Has(m, "initialValue") {
		node.Problems = append(node.Problems, schemac.Errorf(`The "initialValue" property is currently only supported for document & object types.`))
	}
	node.Fields = v.visitFields(m["fields"], c)
	return node
}

func (v *validator) document(m map[string]any, c *ctx) *Node {
	node := v.object(m, c)
	if iv, ok := m["initialValue"]; ok && iv != nil && !schemac.IsPlainObject(iv) && !schemac.IsFunc(iv) {
		node.Problems = append(node.Problems, schemac.Errorf(`The "initialValue" property must be either a plain object or a function`))
	}
	if schemac.Has(m, "initialValues") {
		node.Problems = append(node.Problems, schemac.Errorf(`Found property "initialValues" - did you mean "initialValue"?`))
	}
	return node
}

var (
	imageReservedFields = []string{"asset", "hotspot", "crop", "media"}
	fileReservedFields  = []string{"asset", "media"}
)

// asset checks image and file declarations. Their fields are optional and
// may not shadow the synthesized asset fields.
func (v *validator) asset(m map[string]any, c *ctx, reserved []string) *Node {
	node := newNode(m)
	raw, hasFields := m["fields"]
	if hasFields && raw != nil {
		node.Problems = append(node.Problems, fieldsProblems(raw, true)...)
		fields, _ := schemac.AsSlice(raw)
		for _, f := range fields {
			fm, _ := schemac.AsMap(f)
			name, _ := schemac.Str(fm, "name")
			for _, r := range reserved {
				if name == r {
					node.Problems = append(node.Problems, schemac.Error(
						fmt.Sprintf("The field name %q is reserved on %s types and cannot be declared", name, node.Type),
						schemac.HelpObjectFieldNameInvalid,
					))
				}
			}
		}
	}
	node.Fields = v.visitFields(raw, c)
	return node
}

var (
	imageMetadataKeys       = map[string]bool{"blurhash": true, "exif": true, "image": true, "location": true, "lqip": true, "palette": true}
	imageMetadataAutomatics = map[string]bool{"dimensions": true, "hasAlpha": true, "isOpaque": true}
)

func imageMetadataProblems(m map[string]any) schemac.Problems {
	opts, _ := schemac.MapAt(m, "options")
	raw, ok := opts["metadata"]
	if !ok {
		return nil
	}
	items, isList := schemac.AsSlice(raw)
	if !isList {
		return schemac.Problems{schemac.Error("Invalid type for image `metadata` field - must be an array of strings", schemac.HelpAssetMetadataFieldInvalid)}
	}
	var problems schemac.Problems
	for _, it := range items {
		s, isStr := it.(string)
		switch {
		case !isStr:
			problems = append(problems, schemac.Error("Invalid type for image `metadata` field - must be an array of strings", schemac.HelpAssetMetadataFieldInvalid))
		case imageMetadataAutomatics[s]:
			problems = append(problems, schemac.Warning(
				fmt.Sprintf("Image metadata field %q is always included and does not need to be specified", s),
				schemac.HelpAssetMetadataFieldInvalid,
			))
		case !imageMetadataKeys[s]:
			problems = append(problems, schemac.Error(
				fmt.Sprintf("Invalid image metadata field %q", s),
				schemac.HelpAssetMetadataFieldInvalid,
			))
		}
	}
	return problems
}

func (v *validator) slug(m map[string]any, c *ctx) *Node {
	node := newNode(m)
	opts, _ := schemac.MapAt(m, "options")
	if schemac.Truthy(opts["slugifyFn"]) {
		v.warnings.Warn("slugifyFn", `The "slugifyFn" option has been renamed to "slugify".`)
		node.Problems = append(node.Problems, schemac.Warning(
			`Heads up! The "slugifyFn" option has been renamed to "slugify".`,
			schemac.HelpSlugSlugifyFnRenamed,
		))
	}
	return node
}
