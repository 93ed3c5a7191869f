package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/reoring/schemac"
	"github.com/reoring/schemac/validation"
)

func TestPrintGroups(t *testing.T) {
	groups := []validation.ProblemGroup{{
		Path: []schemac.PathSegment{schemac.TypeSegment("post", "document")},
		Problems: schemac.Problems{
			schemac.Error("Unknown type: autor", schemac.HelpTypeUnknownType),
			schemac.Warning("Title should be a string"),
		},
	}}
	var buf bytes.Buffer
	printGroups(&buf, newPalette(false), groups)

	want := strings.Join([]string{
		"post<document>",
		"  [error] Unknown type: autor",
		"    see schema-type-unknown-type: the type refers to an unknown type",
		"  [warning] Title should be a string",
		"1 errors, 1 warnings",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Errorf("output mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestPrintGroups_Valid(t *testing.T) {
	var buf bytes.Buffer
	printGroups(&buf, newPalette(false), nil)
	if got := buf.String(); got != "schema is valid\n" {
		t.Errorf("got %q", got)
	}
}
