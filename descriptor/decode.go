package descriptor

import (
	"errors"
	"regexp"
	"sort"
	"strconv"

	"github.com/reoring/schemac"
	"github.com/reoring/schemac/rules"
)

// ErrNilSet is returned when decoding a nil set.
var ErrNilSet = errors.New("descriptor: nil set")

// fields the compiler adds to core extensions by itself
var syntheticFields = map[string][]string{
	"image":    {"asset", "hotspot", "crop"},
	"file":     {"asset"},
	"video":    {"asset"},
	"geopoint": nil,
	"slug":     nil,
	"block":    {"children", "style", "listItem", "markDefs", "level"},
}

// Decode rebuilds declarations from the set's own named types, sorted by
// name. Core and builtin types are skipped. Functions come back as
// placeholders, so the result compiles to a registry whose set has the same
// ID as s.
func Decode(s *Set) ([]schemac.Declaration, error) {
	if s == nil {
		return nil, ErrNilSet
	}
	objs := s.Objects()
	sort.SliceStable(objs, func(i, j int) bool { return objs[i].Name < objs[j].Name })
	var out []schemac.Declaration
	for _, o := range objs {
		if o.TypeDef == nil || o.TypeDef.IsCore() || schemac.IsBuiltinTypeName(o.Name) {
			continue
		}
		decl := declFromTypeDef(o.TypeDef)
		decl["name"] = o.Name
		out = append(out, decl)
	}
	return out, nil
}

func declFromTypeDef(def *TypeDef) schemac.Declaration {
	decl := schemac.Declaration{}
	extends := ""
	if def.Extends != nil {
		extends = *def.Extends
		decl["type"] = extends
	}
	if def.Title != "" {
		decl["title"] = def.Title
	}
	switch d := def.Description.(type) {
	case string:
		decl["description"] = d
	case map[string]any:
		if el, ok := DecodeValue(d).(schemac.Element); ok {
			decl["description"] = el
		}
	}
	if v := decodeConditional(def.ReadOnly); v != nil {
		decl["readOnly"] = v
	}
	if v := decodeConditional(def.Hidden); v != nil {
		decl["hidden"] = v
	}
	if def.LiveEdit {
		decl["liveEdit"] = true
	}
	if def.Options != nil {
		decl["options"] = DecodeValue(def.Options)
	}
	if def.InitialValue != nil {
		decl["initialValue"] = DecodeValue(def.InitialValue)
	}
	if def.Deprecated != nil {
		decl["deprecated"] = map[string]any{"reason": def.Deprecated.Reason}
	}
	if def.Placeholder != "" {
		decl["placeholder"] = def.Placeholder
	}
	if def.Rows != "" {
		if f, err := strconv.ParseFloat(def.Rows, 64); err == nil {
			decl["rows"] = f
		}
	}

	if def.Fields != nil {
		synthetic, strip := syntheticFields[extends]
		fields := []any{}
		for _, f := range def.Fields {
			if strip && (synthetic == nil || contains(synthetic, f.Name)) {
				continue
			}
			fields = append(fields, fieldDecl(f))
		}
		if len(fields) > 0 || !strip {
			decl["fields"] = fields
		}
	}
	if len(def.Fieldsets) > 0 {
		fieldsets := make([]any, 0, len(def.Fieldsets))
		for _, fs := range def.Fieldsets {
			fieldsets = append(fieldsets, fieldsetDecl(fs))
		}
		decl["fieldsets"] = fieldsets
	}
	if len(def.Groups) > 0 {
		groups := make([]any, 0, len(def.Groups))
		for _, g := range def.Groups {
			groups = append(groups, groupDecl(g))
		}
		decl["groups"] = groups
	}
	if def.Of != nil {
		of := make([]any, 0, len(def.Of))
		for _, m := range def.Of {
			md := declFromTypeDef(m.TypeDef)
			if m.TypeDef.Extends == nil || m.Name != *m.TypeDef.Extends {
				md["name"] = m.Name
			}
			of = append(of, md)
		}
		decl["of"] = of
	}
	if def.To != nil {
		to := make([]any, 0, len(def.To))
		for _, target := range def.To {
			to = append(to, map[string]any{"type": target.Name})
		}
		decl["to"] = to
	}
	if v := decodeValidations(def.Validation); v != nil {
		decl["validation"] = v
	}
	return decl
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

func fieldDecl(f Field) map[string]any {
	fd := map[string]any{}
	if f.TypeDef != nil {
		fd = declFromTypeDef(f.TypeDef)
	}
	fd["name"] = f.Name
	if f.Fieldset != "" {
		fd["fieldset"] = f.Fieldset
	}
	switch len(f.Groups) {
	case 0:
	case 1:
		fd["group"] = f.Groups[0]
	default:
		groups := make([]any, len(f.Groups))
		for i, g := range f.Groups {
			groups[i] = g
		}
		fd["group"] = groups
	}
	return fd
}

func fieldsetDecl(fs Fieldset) map[string]any {
	out := map[string]any{"name": fs.Name}
	if fs.Title != "" {
		out["title"] = fs.Title
	}
	if fs.Description != "" {
		out["description"] = fs.Description
	}
	if fs.Group != "" {
		out["group"] = fs.Group
	}
	if v := decodeConditional(fs.Hidden); v != nil {
		out["hidden"] = v
	}
	if v := decodeConditional(fs.ReadOnly); v != nil {
		out["readOnly"] = v
	}
	if fs.Options != nil {
		out["options"] = DecodeValue(fs.Options)
	}
	return out
}

func groupDecl(g Group) map[string]any {
	out := map[string]any{"name": g.Name}
	if g.Title != "" {
		out["title"] = g.Title
	}
	if v := decodeConditional(g.Hidden); v != nil {
		out["hidden"] = v
	}
	if g.Default {
		out["default"] = true
	}
	if len(g.I18n) > 0 {
		i18n := map[string]any{}
		for k, v := range g.I18n {
			i18n[k] = map[string]any{"ns": v.NS, "key": v.Key}
		}
		out["i18n"] = i18n
	}
	return out
}

func decodeValidations(vs []Validation) any {
	if len(vs) == 0 {
		return nil
	}
	out := make([]any, 0, len(vs))
	for _, v := range vs {
		out = append(out, decodeValidation(v))
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}

// opaqueFunc replaces a rule function that could not be encoded. It returns
// no rule, so it encodes back to the same opaque marker.
func opaqueFunc(rules.Builder) rules.Builder { return nil }

func isOpaqueFunc(v Validation) bool {
	return len(v.Rules) == 1 && v.Rules[0].Type == "custom" && v.Rules[0].Name == "function"
}

// decodeValidation rebuilds a rule value from one encoded validation.
func decodeValidation(v Validation) any {
	if isOpaqueFunc(v) {
		return rules.Func(opaqueFunc)
	}
	var b rules.Builder = rules.New()
	for _, r := range v.Rules {
		if r.Type == "custom" && r.Optional {
			b = b.Optional()
			break
		}
	}
	for _, r := range v.Rules {
		b = applySpec(b, r)
	}
	switch rules.Level(v.Level) {
	case rules.LevelWarning:
		b = b.Warning(v.Message)
	case rules.LevelInfo:
		b = b.Info(v.Message)
	default:
		b = b.Error(v.Message)
	}
	return b
}

func applySpec(b rules.Builder, r RuleSpec) rules.Builder {
	switch r.Type {
	case "required":
		return b.Required()
	case "integer":
		return b.Integer()
	case "email":
		return b.Email()
	case "uniqueItems":
		return b.Unique()
	case "reference":
		return b.Reference()
	case "assetRequired":
		return b.AssetRequired()
	case "uppercase":
		return b.Uppercase()
	case "lowercase":
		return b.Lowercase()
	case "allOf", "anyOf":
		children := make([]rules.Builder, 0, len(r.Children))
		for _, c := range r.Children {
			if child, ok := decodeValidation(c).(rules.Builder); ok {
				children = append(children, child)
			}
		}
		if r.Type == "allOf" {
			return b.All(children...)
		}
		return b.Either(children...)
	case "enum":
		values := make([]any, len(r.Values))
		for i, v := range r.Values {
			values[i] = DecodeValue(v)
		}
		return b.Valid(values...)
	case "minimum":
		return b.Min(decodeConstraint(r.Value))
	case "maximum":
		return b.Max(decodeConstraint(r.Value))
	case "length":
		return b.Length(decodeConstraint(r.Value))
	case "precision":
		return b.Precision(decodeConstraint(r.Value))
	case "exclusiveMaximum":
		return b.LessThan(decodeConstraint(r.Value))
	case "exclusiveMinimum":
		return b.GreaterThan(decodeConstraint(r.Value))
	case "regex":
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return b
		}
		return b.Regex(re, rules.RegexOption{Invert: r.Invert})
	case "uri":
		opts := rules.URIOptions{}
		if r.AllowRelative != nil {
			opts.AllowRelative = *r.AllowRelative
		}
		return b.URI(opts)
	case "custom":
		if r.Name == "media" {
			return b.Media(nil)
		}
		return b.Custom(nil)
	}
	return b
}

// decodeConstraint parses a constraint string back into a number when it is
// one, and field references back into rules.FieldReference.
func decodeConstraint(v any) any {
	switch x := v.(type) {
	case FieldReferenceValue:
		return rules.ValueOfField(x.Path...)
	case *FieldReferenceValue:
		return rules.ValueOfField(x.Path...)
	case map[string]any:
		if x["type"] == "fieldReference" {
			var path []string
			for _, p := range schemac.Arrify(x["path"]) {
				if s, ok := p.(string); ok {
					path = append(path, s)
				}
			}
			return rules.ValueOfField(path...)
		}
	case string:
		if x == "undefined" {
			return nil
		}
		if f, err := strconv.ParseFloat(x, 64); err == nil {
			return f
		}
		return x
	}
	return v
}
