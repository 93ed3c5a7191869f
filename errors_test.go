package schemac_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	gojson "github.com/goccy/go-json"

	"github.com/reoring/schemac"
)

// TestProblems_AsError exercises Problems as an error value through wrapping
// and AsProblems.
func TestProblems_AsError(t *testing.T) {
	ps := schemac.Problems{
		schemac.Error("a", schemac.HelpTypeInvalid),
		schemac.Warning("b"),
		schemac.Errorf("c %d", 3),
		schemac.Info("d"),
	}
	err := fmt.Errorf("compile: %w", ps)

	got, ok := schemac.AsProblems(err)
	if !ok || len(got) != 4 {
		t.Fatalf("AsProblems = %v, %v", got, ok)
	}
	var viaAs schemac.Problems
	if !errors.As(err, &viaAs) {
		t.Fatalf("errors.As did not extract Problems")
	}
	want := "error: a; warning: b; error: c 3; ... (total 4)"
	if ps.Error() != want {
		t.Errorf("Error() = %q, want %q", ps.Error(), want)
	}
	if _, ok := schemac.AsProblems(errors.New("plain")); ok {
		t.Errorf("plain error reported as Problems")
	}
}

func TestProblems_Filter(t *testing.T) {
	ps := schemac.Problems{schemac.Warning("w"), schemac.Error("e"), schemac.Warning("x")}
	if !ps.HasErrors() {
		t.Errorf("HasErrors = false")
	}
	if got := ps.Filter(schemac.SeverityWarning); len(got) != 2 {
		t.Errorf("warnings = %v", got)
	}
	if (schemac.Problems{schemac.Warning("w")}).HasErrors() {
		t.Errorf("warnings only reported as errors")
	}
	if got := schemac.AppendProblems(nil); got == nil {
		t.Errorf("AppendProblems(nil) = nil, want empty")
	}
}

func TestProblem_JSON(t *testing.T) {
	p := schemac.Error("bad", schemac.HelpArrayOfArray)
	b, err := gojson.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if want := `{"severity":"error","message":"bad","helpId":"schema-array-of-array"}`; string(b) != want {
		t.Fatalf("got %s, want %s", b, want)
	}
	var back schemac.Problem
	if err := gojson.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(p, back); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	var s schemac.Severity
	if err := gojson.Unmarshal([]byte(`"fatal"`), &s); err == nil {
		t.Errorf("unknown severity accepted")
	}
}
