package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/reoring/schemac"
)

// normalizedTo returns the "to" targets as a list; a single object target
// becomes a one-element list.
func normalizedTo(m map[string]any) (targets []any, valid bool) {
	raw := m["to"]
	if items, ok := schemac.AsSlice(raw); ok {
		return items, true
	}
	if schemac.IsPlainObject(raw) {
		return []any{raw}, true
	}
	if raw == nil {
		return nil, false
	}
	return []any{raw}, false
}

func toDupeProblems(targets []any, help schemac.HelpID) schemac.Problems {
	var problems schemac.Problems
	for _, group := range dupes(targets, memberKey) {
		dm, _ := schemac.AsMap(group[0])
		problems = append(problems, schemac.Error(
			fmt.Sprintf("Found %d members with same type, but not unique names %q in reference. This makes it impossible to tell their values apart and you should consider naming them", len(group), schemac.StrOr(dm, "type", "undefined")),
			help,
		))
	}
	return problems
}

func (v *validator) reference(m map[string]any, c *ctx) *Node {
	node := newNode(m)
	targets, valid := normalizedTo(m)
	if valid {
		node.Problems = append(node.Problems, toDupeProblems(targets, schemac.HelpReferenceToNotUnique)...)
		if len(targets) == 0 {
			node.Problems = append(node.Problems, schemac.Error(
				`The reference type should define at least one accepted type. Please check the "to" property.`,
				schemac.HelpReferenceToInvalid,
			))
		}
	} else {
		node.Problems = append(node.Problems, schemac.Error(
			`The reference type is missing or having an invalid value for the required "to" property. It should be an array of accepted types.`,
			schemac.HelpReferenceToInvalid,
		))
	}
	node.Problems = append(node.Problems, referenceOptionProblems(m)...)
	node.To = make([]*Node, 0, len(targets))
	for i, t := range targets {
		node.To = append(node.To, c.Visit(t, i))
	}
	return node
}

func referenceOptionProblems(m map[string]any) schemac.Problems {
	var problems schemac.Problems
	for _, key := range []string{"filter", "filterParams"} {
		if schemac.Has(m, key) {
			problems = append(problems, schemac.Error(
				fmt.Sprintf("`%s` is not allowed on a reference type definition - did you mean `options.%s`?", key, key),
				schemac.HelpReferenceInvalidOptionsLocation,
			))
		}
	}
	raw, ok := m["options"]
	if !ok || !schemac.Truthy(raw) {
		return problems
	}
	opts, ok := schemac.AsMap(raw)
	if !ok {
		return append(problems, schemac.Error("The reference type expects `options` to be an object", schemac.HelpReferenceInvalidOptions))
	}
	filter, params := opts["filter"], opts["filterParams"]
	_, hasParams := opts["filterParams"]
	hasParams = hasParams && params != nil
	if schemac.IsFunc(filter) && hasParams {
		return append(problems, schemac.Error(
			"`filterParams` cannot be used if `filter` is a function. Either statically define `filter` as a string, or return `params` from the `filter`-function.",
			schemac.HelpReferenceFilterParamsCombination,
		))
	}
	if schemac.IsFunc(filter) || (!schemac.Truthy(filter) && !schemac.Truthy(params)) {
		return problems
	}
	if _, isStr := filter.(string); !isStr {
		return append(problems, schemac.Errorf("If set, `filter` must be a string. Got %s", schemac.TypeOf(filter)))
	}
	if hasParams && !schemac.IsPlainObject(params) {
		return append(problems, schemac.Errorf("If set, `filterParams` must be an object."))
	}
	if pm, ok := schemac.AsMap(params); ok {
		for _, key := range schemac.SortedKeys(pm) {
			if strings.HasPrefix(key, "__") || strings.HasPrefix(key, "$") {
				problems = append(problems, schemac.Errorf(`Filter parameter cannot be prefixed with "$" or "__". Got %s".`, key))
			}
		}
	}
	return problems
}

// studioURLProblems accepts a URL string or a function building one.
func studioURLProblems(m map[string]any, what string, help schemac.HelpID) schemac.Problems {
	raw, ok := m["studioUrl"]
	if !ok || raw == nil {
		return nil
	}
	if _, isStr := raw.(string); isStr || schemac.IsFunc(raw) {
		return nil
	}
	return schemac.Problems{schemac.Error(
		fmt.Sprintf(`The "studioUrl" property on a %s must either be declared as a function returning a URL, or a string`, what),
		help,
	)}
}

// foreignTargetProblems checks targets of references that point outside the
// current dataset: each needs a type name and a preview config.
func foreignTargetProblems(m map[string]any, what string, help schemac.HelpID) schemac.Problems {
	var problems schemac.Problems
	targets, valid := normalizedTo(m)
	if valid {
		problems = append(problems, toDupeProblems(targets, help)...)
		if len(targets) == 0 {
			problems = append(problems, schemac.Error(
				fmt.Sprintf(`The %s should define at least one referenced type. Please check the "to" property.`, what),
				help,
			))
		}
	} else {
		problems = append(problems, schemac.Error(
			fmt.Sprintf(`The %s type is missing or having an invalid value for the required "to" property. It should be an array of accepted types.`, what),
			help,
		))
	}
	for i, t := range targets {
		tm, _ := schemac.AsMap(t)
		typeName, _ := schemac.Str(tm, "type")
		if typeName == "" {
			problems = append(problems, schemac.Error(
				fmt.Sprintf("The referenced type at index %d must be named. Specify the name of the type you want to create references to.", i),
				help,
			))
		}
		if !schemac.IsPlainObject(tm["preview"]) {
			if typeName == "" {
				typeName = "<unknown type>"
			}
			problems = append(problems, schemac.Error(
				fmt.Sprintf("Missing required preview config for the referenced type %q", typeName),
				help,
			))
		}
	}
	return problems
}

func (v *validator) crossDatasetReference(m map[string]any, c *ctx) *Node {
	const what = "cross dataset reference"
	help := schemac.HelpCrossDatasetReferenceInvalid
	node := newNode(m)
	node.Problems = append(node.Problems, foreignTargetProblems(m, what, help)...)
	if dataset, ok := schemac.Str(m, "dataset"); ok {
		if msg := DatasetNameProblem(dataset); msg != "" {
			node.Problems = append(node.Problems, schemac.Error(msg, help))
		}
	} else {
		node.Problems = append(node.Problems, schemac.Error("A cross dataset reference must specify a `dataset`", help))
	}
	node.Problems = append(node.Problems, studioURLProblems(m, what, help)...)
	node.Problems = append(node.Problems, referenceOptionProblems(m)...)
	return node
}

func (v *validator) globalDocumentReference(m map[string]any, c *ctx) *Node {
	const what = "global document reference"
	help := schemac.HelpGlobalDocumentReferenceInvalid
	node := newNode(m)
	node.Problems = append(node.Problems, foreignTargetProblems(m, what, help)...)
	resourceType, hasType := schemac.Str(m, "resourceType")
	if !hasType || resourceType == "" {
		node.Problems = append(node.Problems, schemac.Error("A global document reference must specify a `resourceType`", help))
	}
	resourceID, hasID := schemac.Str(m, "resourceId")
	switch {
	case !hasID || resourceID == "":
		node.Problems = append(node.Problems, schemac.Error("A global document reference must specify a `resourceId`", help))
	case resourceType == "dataset":
		parts := strings.Split(resourceID, ".")
		if len(parts) != 2 || parts[0] == "" {
			node.Problems = append(node.Problems, schemac.Error(
				"The `resourceId` of a dataset resource must be in the format `projectId.datasetName`", help,
			))
		} else if msg := DatasetNameProblem(parts[1]); msg != "" {
			node.Problems = append(node.Problems, schemac.Error(msg, help))
		}
	}
	node.Problems = append(node.Problems, studioURLProblems(m, what, help)...)
	node.Problems = append(node.Problems, referenceOptionProblems(m)...)
	return node
}

var (
	datasetStartRE = regexp.MustCompile(`^[a-z0-9]`)
	datasetCharsRE = regexp.MustCompile(`^[a-z0-9][-_a-z0-9]+$`)
)

// DatasetNameProblem returns why name is not a valid dataset name, or "".
func DatasetNameProblem(name string) string {
	switch {
	case name == "":
		return "Dataset name is missing"
	case strings.ToLower(name) != name:
		return "Dataset name must be all lowercase characters"
	case len(name) < 2:
		return "Dataset name must be at least two characters long"
	case len(name) > 64:
		return "Dataset name must be at most 64 characters"
	case !datasetStartRE.MatchString(name):
		return "Dataset name must start with a letter or a number"
	case !datasetCharsRE.MatchString(name):
		return "Dataset name must only contain letters, numbers, dashes and underscores"
	case strings.HasSuffix(name, "-") || strings.HasSuffix(name, "_"):
		return "Dataset name must not end with a dash or an underscore"
	}
	return ""
}
