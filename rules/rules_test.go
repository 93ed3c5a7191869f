package rules_test

import (
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/schemac/rules"
)

func flags(r rules.Rule) []rules.Flag {
	var out []rules.Flag
	for _, s := range r.Specs() {
		out = append(out, s.Flag)
	}
	return out
}

func TestRule_IsImmutable(t *testing.T) {
	base := rules.New()
	req := base.Required().(rules.Rule)
	if base.IsRequired() || len(base.Specs()) != 0 {
		t.Fatalf("builder call mutated the receiver: %v", base.Specs())
	}
	if !req.IsRequired() {
		t.Fatalf("expected required rule")
	}
	more := req.Min(1).Max(10).(rules.Rule)
	if diff := cmp.Diff([]rules.Flag{rules.FlagPresence}, flags(req)); diff != "" {
		t.Fatalf("chaining mutated an earlier link (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]rules.Flag{rules.FlagPresence, rules.FlagMin, rules.FlagMax}, flags(more)); diff != "" {
		t.Fatalf("flags mismatch (-want +got):\n%s", diff)
	}
}

func TestRule_ReplaceableFlags(t *testing.T) {
	r := rules.New().Email().Min(1).Email().URI().URI(rules.URIOptions{AllowRelative: true}).(rules.Rule)
	if diff := cmp.Diff([]rules.Flag{rules.FlagMin, rules.FlagEmail, rules.FlagURI}, flags(r)); diff != "" {
		t.Fatalf("flags mismatch (-want +got):\n%s", diff)
	}
	c := r.Specs()[2].Constraint.(rules.URIConstraint)
	if !c.AllowRelative || len(c.Scheme) != 2 {
		t.Fatalf("unexpected uri constraint %+v", c)
	}
}

func TestRule_LevelsAndTypes(t *testing.T) {
	r := rules.New().Type("string").Warning("too long").(rules.Rule)
	if r.Level() != rules.LevelWarning || r.Message() != "too long" {
		t.Fatalf("got level %q message %q", r.Level(), r.Message())
	}
	if r.TypeConstraint() != "String" {
		t.Fatalf("got type %q", r.TypeConstraint())
	}
	bad := rules.New().Type("widget").(rules.Rule)
	if bad.Err() == nil {
		t.Fatalf("expected an error for unknown type constraint")
	}
}

func TestRule_AssetRequiredFollowsBase(t *testing.T) {
	for base, want := range map[string]string{"image": "image", "file": "file", "video": "asset"} {
		r := rules.For(base).AssetRequired().(rules.Rule)
		got := r.Specs()[0].Constraint.(rules.AssetConstraint).AssetType
		if got != want {
			t.Fatalf("base %s: got %q, want %q", base, got, want)
		}
	}
}

func TestCalls_ProbeAndValues(t *testing.T) {
	required := rules.Func(func(r rules.Builder) rules.Builder { return r.Required().Max(20) })
	optional := func(r rules.Builder) rules.Builder { return r.Max(20) }
	viaCustom := rules.Func(func(r rules.Builder) rules.Builder {
		return r.Custom(func(v any) any { return v != nil })
	})
	asset := rules.Func(func(r rules.Builder) rules.Builder { return r.AssetRequired() })
	panicky := rules.Func(func(r rules.Builder) rules.Builder {
		r.Required()
		panic("boom")
	})

	cases := []struct {
		name       string
		validation any
		required   bool
		asset      bool
	}{
		{"func required", required, true, false},
		{"plain func", optional, false, false},
		{"custom is not seen", viaCustom, false, false},
		{"asset required", asset, false, true},
		{"list", []any{optional, required}, true, false},
		{"rule value", rules.New().Required(), true, false},
		{"rule asset value", rules.For("image").AssetRequired(), false, true},
		{"panicking func", panicky, true, false},
		{"nothing", nil, false, false},
	}
	for _, tc := range cases {
		if got := rules.IsRequired(tc.validation); got != tc.required {
			t.Errorf("%s: IsRequired = %v, want %v", tc.name, got, tc.required)
		}
		if got := rules.HasAssetRequired(tc.validation); got != tc.asset {
			t.Errorf("%s: HasAssetRequired = %v, want %v", tc.name, got, tc.asset)
		}
	}
}

func TestResolve(t *testing.T) {
	fn := rules.Func(func(r rules.Builder) rules.Builder {
		return r.Regex(regexp.MustCompile(`^a`), rules.RegexOption{Name: "starts-with-a"}).Error("nope")
	})
	bad := rules.Func(func(r rules.Builder) rules.Builder { return nil })
	got := rules.Resolve([]any{fn, bad, "ignored"}, "string")
	if len(got) != 2 {
		t.Fatalf("expected two entries, got %d", len(got))
	}
	if !got[0].OK || got[0].Rule.Message() != "nope" || !got[0].Rule.HasFlag(rules.FlagRegex) {
		t.Fatalf("unexpected first entry %+v", got[0])
	}
	if got[1].OK {
		t.Fatalf("a func returning nil must not resolve")
	}
}
