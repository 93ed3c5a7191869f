package rules

import (
	"regexp"

	"github.com/reoring/schemac"
)

// Probe is a stand-in Builder that records which methods a rule function
// calls. It tells nothing about conditions inside Custom callbacks: a rule
// that only requires a value through Custom is not seen as required.
type Probe struct {
	called map[string]bool
}

var _ Builder = (*Probe)(nil)

// NewProbe returns an empty probe.
func NewProbe() *Probe { return &Probe{called: map[string]bool{}} }

// Called reports whether method was invoked on the probe.
func (p *Probe) Called(method string) bool { return p.called[method] }

func (p *Probe) rec(name string) Builder {
	p.called[name] = true
	return p
}

func (p *Probe) Required() Builder { return p.rec("required") }
func (p *Probe) Optional() Builder { return p.rec("optional") }
func (p *Probe) Custom(any) Builder { return p.rec("custom") }
func (p *Probe) Media(any) Builder { return p.rec("media") }
func (p *Probe) Min(any) Builder { return p.rec("min") }
func (p *Probe) Max(any) Builder { return p.rec("max") }
func (p *Probe) Length(any) Builder { return p.rec("length") }
func (p *Probe) Valid(...any) Builder { return p.rec("valid") }
func (p *Probe) Integer() Builder { return p.rec("integer") }
func (p *Probe) Precision(any) Builder { return p.rec("precision") }
func (p *Probe) Positive() Builder { return p.rec("positive") }
func (p *Probe) Negative() Builder { return p.rec("negative") }
func (p *Probe) GreaterThan(any) Builder { return p.rec("greaterThan") }
func (p *Probe) LessThan(any) Builder { return p.rec("lessThan") }
func (p *Probe) Uppercase() Builder { return p.rec("uppercase") }
func (p *Probe) Lowercase() Builder { return p.rec("lowercase") }
func (p *Probe) Regex(*regexp.Regexp, ...RegexOption) Builder { return p.rec("regex") }
func (p *Probe) Email() Builder { return p.rec("email") }
func (p *Probe) URI(...URIOptions) Builder { return p.rec("uri") }
func (p *Probe) Unique() Builder { return p.rec("unique") }
func (p *Probe) Reference() Builder { return p.rec("reference") }
func (p *Probe) AssetRequired() Builder { return p.rec("assetRequired") }
func (p *Probe) All(...Builder) Builder { return p.rec("all") }
func (p *Probe) Either(...Builder) Builder { return p.rec("either") }
func (p *Probe) Type(string) Builder { return p.rec("type") }
func (p *Probe) Error(...string) Builder { return p.rec("error") }
func (p *Probe) Warning(...string) Builder { return p.rec("warning") }
func (p *Probe) Info(...string) Builder { return p.rec("info") }

func (p *Probe) ValueOfField(path ...string) FieldReference {
	p.called["valueOfField"] = true
	return ValueOfField(path...)
}

// Entries splits a declaration's validation value into its entries: a single
// Rule, Func or func(Builder) Builder, or a list of those.
func Entries(validation any) []any {
	if validation == nil {
		return nil
	}
	if schemac.IsArray(validation) {
		return schemac.Arrify(validation)
	}
	return []any{validation}
}

// AsFunc returns v as a rule function when it is one.
func AsFunc(v any) (Func, bool) {
	switch f := v.(type) {
	case Func:
		return f, f != nil
	case func(Builder) Builder:
		return Func(f), f != nil
	}
	return nil, false
}

// AsRule returns v as a Rule value.
func AsRule(v any) (Rule, bool) {
	switch r := v.(type) {
	case Rule:
		return r, true
	case *Rule:
		if r != nil {
			return *r, true
		}
	}
	return Rule{}, false
}

// Calls reports whether any entry of validation invokes method: rule
// functions are run against a Probe, Rule values are inspected through
// their flags. Calls made before a rule function panics still count.
func Calls(validation any, method string) bool {
	for _, e := range Entries(validation) {
		if fn, ok := AsFunc(e); ok {
			if probeCalls(fn, method) {
				return true
			}
			continue
		}
		if r, ok := AsRule(e); ok {
			switch method {
			case "required":
				if r.IsRequired() {
					return true
				}
			default:
				if r.HasFlag(Flag(method)) {
					return true
				}
			}
		}
	}
	return false
}

func probeCalls(fn Func, method string) (called bool) {
	p := NewProbe()
	defer func() {
		if recover() != nil {
			called = p.Called(method)
		}
	}()
	fn(p)
	return p.Called(method)
}

// IsRequired reports whether validation unconditionally calls Required.
func IsRequired(validation any) bool { return Calls(validation, "required") }

// HasAssetRequired reports whether validation calls AssetRequired.
func HasAssetRequired(validation any) bool { return Calls(validation, "assetRequired") }

// Resolve runs rule functions against a fresh Rule bound to base and returns
// the resulting Rule values. Entries that are neither rules nor functions
// are dropped; a function that panics or returns something other than a
// Rule yields ok=false for that entry.
func Resolve(validation any, base string) []Resolved {
	var out []Resolved
	for _, e := range Entries(validation) {
		if fn, ok := AsFunc(e); ok {
			out = append(out, runFunc(fn, base))
			continue
		}
		if r, ok := AsRule(e); ok {
			out = append(out, Resolved{Rule: r, OK: r.err == nil})
		}
	}
	return out
}

// Resolved is one resolved validation entry.
type Resolved struct {
	Rule Rule
	OK   bool
}

func runFunc(fn Func, base string) (res Resolved) {
	defer func() {
		if recover() != nil {
			res = Resolved{}
		}
	}()
	b := fn(For(base))
	r, ok := AsRule(b)
	if !ok || r.err != nil {
		return Resolved{}
	}
	return Resolved{Rule: r, OK: true}
}
