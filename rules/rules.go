// Package rules models field validation rules as immutable values built through
// a chainable Builder. Declarations carry rules either as a Rule value, as a
// Func that receives a fresh Builder, or as a list of those.
package rules

import (
	"fmt"
	"regexp"
	"strings"
)

// Flag names the kind of a single rule spec.
type Flag string

const (
	FlagType          Flag = "type"
	FlagPresence      Flag = "presence"
	FlagCustom        Flag = "custom"
	FlagMedia         Flag = "media"
	FlagMin           Flag = "min"
	FlagMax           Flag = "max"
	FlagLength        Flag = "length"
	FlagValid         Flag = "valid"
	FlagInteger       Flag = "integer"
	FlagPrecision     Flag = "precision"
	FlagGreaterThan   Flag = "greaterThan"
	FlagLessThan      Flag = "lessThan"
	FlagStringCasing  Flag = "stringCasing"
	FlagRegex         Flag = "regex"
	FlagEmail         Flag = "email"
	FlagURI           Flag = "uri"
	FlagUnique        Flag = "unique"
	FlagReference     Flag = "reference"
	FlagAssetRequired Flag = "assetRequired"
	FlagAll           Flag = "all"
	FlagEither        Flag = "either"
)

// Level is the severity a failing rule reports with.
type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

// Presence is the required/optional state of a rule.
type Presence string

const (
	PresenceUnset    Presence = ""
	PresenceRequired Presence = "required"
	PresenceOptional Presence = "optional"
)

// Spec is one constraint of a rule.
type Spec struct {
	Flag       Flag
	Constraint any
}

// FieldReference points a constraint at the value of a sibling field.
type FieldReference struct {
	Path []string
}

// RegexConstraint is the constraint of a regex spec.
type RegexConstraint struct {
	Pattern *regexp.Regexp
	Name    string
	Invert  bool
}

// URIOptions configures URI validation. Scheme defaults to http and https.
type URIOptions struct {
	Scheme           []string
	AllowRelative    bool
	RelativeOnly     bool
	AllowCredentials bool
}

// URIConstraint is the constraint of a uri spec.
type URIConstraint struct {
	Scheme           []*regexp.Regexp
	AllowRelative    bool
	RelativeOnly     bool
	AllowCredentials bool
}

// AssetConstraint is the constraint of an assetRequired spec.
type AssetConstraint struct {
	AssetType string
}

// RegexOption names or inverts a regex rule.
type RegexOption struct {
	Name   string
	Invert bool
}

// Builder is the chainable rule API handed to rule functions. Every method
// returns a new value.
type Builder interface {
	Required() Builder
	Optional() Builder
	Custom(fn any) Builder
	Media(fn any) Builder
	Min(v any) Builder
	Max(v any) Builder
	Length(v any) Builder
	Valid(values ...any) Builder
	Integer() Builder
	Precision(v any) Builder
	Positive() Builder
	Negative() Builder
	GreaterThan(v any) Builder
	LessThan(v any) Builder
	Uppercase() Builder
	Lowercase() Builder
	Regex(pattern *regexp.Regexp, opts ...RegexOption) Builder
	Email() Builder
	URI(opts ...URIOptions) Builder
	Unique() Builder
	Reference() Builder
	AssetRequired() Builder
	All(children ...Builder) Builder
	Either(children ...Builder) Builder
	Type(t string) Builder
	Error(msg ...string) Builder
	Warning(msg ...string) Builder
	Info(msg ...string) Builder
	ValueOfField(path ...string) FieldReference
}

// Func is a rule function as found in declarations.
type Func func(Builder) Builder

// Rule is an immutable set of specs with a level, message and presence.
type Rule struct {
	typ      string
	level    Level
	message  string
	required Presence
	specs    []Spec
	base     string
	err      error
}

var _ Builder = Rule{}

// New returns an empty rule at error level.
func New() Rule { return Rule{level: LevelError} }

// For returns an empty rule bound to a base type name, which decides the
// asset type of AssetRequired.
func For(base string) Rule { return Rule{level: LevelError, base: base} }

// Level returns the rule's level.
func (r Rule) Level() Level {
	if r.level == "" {
		return LevelError
	}
	return r.level
}

// Message returns the custom message, if any.
func (r Rule) Message() string { return r.message }

// Presence returns the required/optional state.
func (r Rule) Presence() Presence { return r.required }

// IsRequired reports whether Required was called.
func (r Rule) IsRequired() bool { return r.required == PresenceRequired }

// TypeConstraint returns the value type set through Type.
func (r Rule) TypeConstraint() string { return r.typ }

// Specs returns a copy of the rule's specs.
func (r Rule) Specs() []Spec { return append([]Spec(nil), r.specs...) }

// HasFlag reports whether any spec has flag f.
func (r Rule) HasFlag(f Flag) bool {
	for _, s := range r.specs {
		if s.Flag == f {
			return true
		}
	}
	return false
}

// Err reports a misuse recorded while building the rule, such as an unknown
// type constraint.
func (r Rule) Err() error { return r.err }

func (r Rule) clone() Rule {
	out := r
	out.specs = append([]Spec(nil), r.specs...)
	return out
}

// withSpecs appends specs. A new type, uri or email spec replaces an earlier
// one with the same flag.
func (r Rule) withSpecs(specs ...Spec) Rule {
	out := r.clone()
	added := map[Flag]bool{}
	for _, s := range specs {
		if s.Flag == FlagType {
			if t, ok := s.Constraint.(string); ok {
				out.typ = t
			}
		}
		added[s.Flag] = true
	}
	kept := out.specs[:0:0]
	for _, s := range out.specs {
		replaceable := s.Flag == FlagType || s.Flag == FlagURI || s.Flag == FlagEmail
		if replaceable && added[s.Flag] {
			continue
		}
		kept = append(kept, s)
	}
	out.specs = append(kept, specs...)
	return out
}

func (r Rule) Required() Builder {
	out := r.withSpecs(Spec{Flag: FlagPresence, Constraint: "required"})
	out.required = PresenceRequired
	return out
}

func (r Rule) Optional() Builder {
	out := r.withSpecs(Spec{Flag: FlagPresence, Constraint: "optional"})
	out.required = PresenceOptional
	return out
}

func (r Rule) Custom(fn any) Builder { return r.withSpecs(Spec{Flag: FlagCustom, Constraint: fn}) }
func (r Rule) Media(fn any) Builder { return r.withSpecs(Spec{Flag: FlagMedia, Constraint: fn}) }
func (r Rule) Min(v any) Builder { return r.withSpecs(Spec{Flag: FlagMin, Constraint: v}) }
func (r Rule) Max(v any) Builder { return r.withSpecs(Spec{Flag: FlagMax, Constraint: v}) }
func (r Rule) Length(v any) Builder { return r.withSpecs(Spec{Flag: FlagLength, Constraint: v}) }

func (r Rule) Valid(values ...any) Builder {
	return r.withSpecs(Spec{Flag: FlagValid, Constraint: append([]any(nil), values...)})
}

func (r Rule) Integer() Builder { return r.withSpecs(Spec{Flag: FlagInteger}) }
func (r Rule) Precision(v any) Builder { return r.withSpecs(Spec{Flag: FlagPrecision, Constraint: v}) }
func (r Rule) Positive() Builder { return r.withSpecs(Spec{Flag: FlagMin, Constraint: 0}) }
func (r Rule) Negative() Builder { return r.withSpecs(Spec{Flag: FlagLessThan, Constraint: 0}) }
func (r Rule) GreaterThan(v any) Builder { return r.withSpecs(Spec{Flag: FlagGreaterThan, Constraint: v}) }
func (r Rule) LessThan(v any) Builder { return r.withSpecs(Spec{Flag: FlagLessThan, Constraint: v}) }
func (r Rule) Uppercase() Builder { return r.withSpecs(Spec{Flag: FlagStringCasing, Constraint: "uppercase"}) }
func (r Rule) Lowercase() Builder { return r.withSpecs(Spec{Flag: FlagStringCasing, Constraint: "lowercase"}) }
func (r Rule) Email() Builder { return r.withSpecs(Spec{Flag: FlagEmail}) }
func (r Rule) Unique() Builder { return r.withSpecs(Spec{Flag: FlagUnique}) }
func (r Rule) Reference() Builder { return r.withSpecs(Spec{Flag: FlagReference}) }
func (r Rule) All(children ...Builder) Builder {
	return r.withSpecs(Spec{Flag: FlagAll, Constraint: append([]Builder(nil), children...)})
}
func (r Rule) Either(children ...Builder) Builder {
	return r.withSpecs(Spec{Flag: FlagEither, Constraint: append([]Builder(nil), children...)})
}

func (r Rule) Regex(pattern *regexp.Regexp, opts ...RegexOption) Builder {
	c := RegexConstraint{Pattern: pattern}
	for _, o := range opts {
		if o.Name != "" {
			c.Name = o.Name
		}
		c.Invert = o.Invert
	}
	return r.withSpecs(Spec{Flag: FlagRegex, Constraint: c})
}

func (r Rule) URI(opts ...URIOptions) Builder {
	var o URIOptions
	for _, x := range opts {
		if x.Scheme != nil {
			o.Scheme = x.Scheme
		}
		o.AllowRelative = x.AllowRelative
		o.RelativeOnly = x.RelativeOnly
		o.AllowCredentials = x.AllowCredentials
	}
	schemes := o.Scheme
	if schemes == nil {
		schemes = []string{"http", "https"}
	}
	if len(schemes) == 0 {
		out := r.clone()
		out.err = fmt.Errorf("scheme must have at least 1 scheme specified")
		return out
	}
	c := URIConstraint{AllowRelative: o.AllowRelative, RelativeOnly: o.RelativeOnly, AllowCredentials: o.AllowCredentials}
	for _, s := range schemes {
		c.Scheme = append(c.Scheme, regexp.MustCompile("^"+regexp.QuoteMeta(s)+"$"))
	}
	return r.withSpecs(Spec{Flag: FlagURI, Constraint: c})
}

func (r Rule) AssetRequired() Builder {
	assetType := "asset"
	switch r.base {
	case "image", "file":
		assetType = r.base
	}
	return r.withSpecs(Spec{Flag: FlagAssetRequired, Constraint: AssetConstraint{AssetType: assetType}})
}

var typeConstraints = []string{"Array", "Boolean", "Date", "Number", "Object", "String"}

// Type constrains the value type: array, boolean, date, number, object or
// string, in either case.
func (r Rule) Type(t string) Builder {
	name := t
	if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	for _, c := range typeConstraints {
		if c == name {
			out := r.withSpecs(Spec{Flag: FlagType, Constraint: name})
			out.typ = name
			return out
		}
	}
	out := r.clone()
	out.err = fmt.Errorf("unknown type %q", t)
	return out
}

func (r Rule) withLevel(l Level, msg []string) Builder {
	out := r.clone()
	out.level = l
	out.message = ""
	if len(msg) > 0 {
		out.message = msg[0]
	}
	return out
}

func (r Rule) Error(msg ...string) Builder { return r.withLevel(LevelError, msg) }
func (r Rule) Warning(msg ...string) Builder { return r.withLevel(LevelWarning, msg) }
func (r Rule) Info(msg ...string) Builder { return r.withLevel(LevelInfo, msg) }

// ValueOfField refers to a sibling field, for use as a constraint.
func (r Rule) ValueOfField(path ...string) FieldReference {
	return ValueOfField(path...)
}

// ValueOfField refers to a sibling field, for use as a constraint.
func ValueOfField(path ...string) FieldReference {
	return FieldReference{Path: append([]string(nil), path...)}
}
