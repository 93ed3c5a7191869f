package descriptor

import (
	"fmt"
	"reflect"

	"github.com/reoring/schemac"
	"github.com/reoring/schemac/registry"
	"github.com/reoring/schemac/rules"
)

// validations encodes the validation of one link. Rules a type implies
// through its declared type or its options list are added back, since they
// are inherited and would otherwise be lost.
func validations(t *registry.Type, own map[string]any, maxDepth int) []Validation {
	implied := impliedRules(t, own, maxDepth)

	validation, ok := own["validation"]
	if !ok || validation == nil || validation == false {
		if len(implied) > 0 {
			return []Validation{{Level: string(rules.LevelError), Rules: implied}}
		}
		return nil
	}

	var out []Validation
	for _, entry := range rules.Entries(validation) {
		v, ok := encodeEntry(entry, maxDepth)
		if !ok {
			continue
		}
		var missing []RuleSpec
		for _, ir := range implied {
			if !containsRule(v.Rules, ir) {
				missing = append(missing, ir)
			}
		}
		if len(missing) > 0 {
			v.Rules = append(missing, v.Rules...)
		}
		if containsValidation(out, v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

func impliedRules(t *registry.Type, own map[string]any, maxDepth int) []RuleSpec {
	var implied []RuleSpec
	if opts, ok := schemac.AsMap(own["options"]); ok {
		if list, ok := opts["list"]; ok && schemac.IsArray(list) {
			values := []any{}
			for _, option := range schemac.Arrify(list) {
				v := EncodeValue(listOptionValue(t, option), maxDepth)
				values = append(values, v)
			}
			implied = append(implied, RuleSpec{Type: "enum", Values: values})
		}
	}
	declared := ""
	if base := t.Base(); base != nil {
		declared = base.Name()
	}
	switch declared {
	case "url":
		implied = append(implied, RuleSpec{Type: "uri", AllowRelative: boolPtr(false)})
	case "slug":
		implied = append(implied, RuleSpec{Type: "custom"})
	case "reference":
		implied = append(implied, RuleSpec{Type: "reference"})
	case "email":
		implied = append(implied, RuleSpec{Type: "email"})
	}
	return implied
}

// listOptionValue is the value a list option contributes to the implied
// enum. Objects with a value field use the whole option.
func listOptionValue(t *registry.Type, option any) any {
	if t.JSONType() == schemac.JSONObject {
		if _, ok := t.Field("value"); ok {
			return option
		}
	}
	if m, ok := schemac.AsMap(option); ok && schemac.Truthy(m["value"]) {
		return m["value"]
	}
	return option
}

func boolPtr(b bool) *bool { return &b }

// encodeEntry encodes one validation entry. A rule function that panics or
// does not return a rule is recorded as an opaque custom function.
func encodeEntry(entry any, maxDepth int) (Validation, bool) {
	if !schemac.Truthy(entry) {
		return Validation{}, false
	}
	if fn, ok := rules.AsFunc(entry); ok {
		r, ok := runRuleFunc(fn)
		if !ok {
			return Validation{
				Level: string(rules.LevelError),
				Rules: []RuleSpec{{Type: "custom", Name: "function"}},
			}, true
		}
		return encodeRule(r, maxDepth)
	}
	if r, ok := rules.AsRule(entry); ok {
		return encodeRule(r, maxDepth)
	}
	return Validation{}, false
}

func runRuleFunc(fn rules.Func) (r rules.Rule, ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return rules.AsRule(fn(rules.New()))
}

func encodeRule(r rules.Rule, maxDepth int) (Validation, bool) {
	optional := r.Presence() == rules.PresenceOptional
	var specs []RuleSpec
	for _, s := range r.Specs() {
		spec, ok := encodeSpec(s, optional, maxDepth)
		if !ok || containsRule(specs, spec) {
			continue
		}
		specs = append(specs, spec)
	}
	if len(specs) == 0 {
		return Validation{}, false
	}
	return Validation{Level: string(r.Level()), Rules: specs, Message: r.Message()}, true
}

func encodeSpec(s rules.Spec, optional bool, maxDepth int) (RuleSpec, bool) {
	switch s.Flag {
	case rules.FlagPresence:
		if s.Constraint == "required" {
			return RuleSpec{Type: "required"}, true
		}
	case rules.FlagInteger:
		return RuleSpec{Type: "integer"}, true
	case rules.FlagEmail:
		return RuleSpec{Type: "email"}, true
	case rules.FlagUnique:
		return RuleSpec{Type: "uniqueItems"}, true
	case rules.FlagReference:
		return RuleSpec{Type: "reference"}, true
	case rules.FlagAssetRequired:
		return RuleSpec{Type: "assetRequired"}, true
	case rules.FlagStringCasing:
		switch s.Constraint {
		case "uppercase", "lowercase":
			return RuleSpec{Type: s.Constraint.(string)}, true
		}
	case rules.FlagAll, rules.FlagEither:
		children, _ := s.Constraint.([]rules.Builder)
		var out []Validation
		for _, child := range children {
			if v, ok := encodeEntry(child, maxDepth); ok {
				out = append(out, v)
			}
		}
		if len(out) == 0 {
			return RuleSpec{}, false
		}
		typ := "allOf"
		if s.Flag == rules.FlagEither {
			typ = "anyOf"
		}
		return RuleSpec{Type: typ, Children: out}, true
	case rules.FlagValid:
		values, ok := s.Constraint.([]any)
		if !ok {
			return RuleSpec{}, false
		}
		out := make([]any, 0, len(values))
		for _, v := range values {
			out = append(out, EncodeValue(v, maxDepth))
		}
		return RuleSpec{Type: "enum", Values: out}, true
	case rules.FlagMin:
		return RuleSpec{Type: "minimum", Value: constraintValue(s.Constraint)}, true
	case rules.FlagMax:
		return RuleSpec{Type: "maximum", Value: constraintValue(s.Constraint)}, true
	case rules.FlagLength:
		return RuleSpec{Type: "length", Value: constraintValue(s.Constraint)}, true
	case rules.FlagPrecision:
		return RuleSpec{Type: "precision", Value: constraintValue(s.Constraint)}, true
	case rules.FlagLessThan:
		return RuleSpec{Type: "exclusiveMaximum", Value: constraintValue(s.Constraint)}, true
	case rules.FlagGreaterThan:
		return RuleSpec{Type: "exclusiveMinimum", Value: constraintValue(s.Constraint)}, true
	case rules.FlagRegex:
		c, ok := s.Constraint.(rules.RegexConstraint)
		if !ok || c.Pattern == nil {
			return RuleSpec{}, false
		}
		return RuleSpec{Type: "regex", Pattern: c.Pattern.String(), Invert: c.Invert}, true
	case rules.FlagURI:
		c, _ := s.Constraint.(rules.URIConstraint)
		return RuleSpec{Type: "uri", AllowRelative: boolPtr(c.AllowRelative)}, true
	case rules.FlagCustom:
		return RuleSpec{Type: "custom", Optional: optional}, true
	case rules.FlagMedia:
		return RuleSpec{Type: "custom", Name: "media"}, true
	}
	return RuleSpec{}, false
}

// constraintValue renders a constraint as a string, or as a field reference
// when it points at a sibling field.
func constraintValue(c any) any {
	switch x := c.(type) {
	case rules.FieldReference:
		return FieldReferenceValue{Type: "fieldReference", Path: x.Path}
	case *rules.FieldReference:
		if x != nil {
			return FieldReferenceValue{Type: "fieldReference", Path: x.Path}
		}
	case string:
		return x
	}
	if f, ok := schemac.Number(c); ok {
		return FormatNumber(f)
	}
	if c == nil {
		return "undefined"
	}
	return fmt.Sprint(c)
}

func containsRule(list []RuleSpec, r RuleSpec) bool {
	for _, x := range list {
		if reflect.DeepEqual(x, r) {
			return true
		}
	}
	return false
}

func containsValidation(list []Validation, v Validation) bool {
	for _, x := range list {
		if reflect.DeepEqual(x, v) {
			return true
		}
	}
	return false
}
