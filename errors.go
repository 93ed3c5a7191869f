package schemac

import (
	"errors"
	"fmt"
	"strings"

	gojson "github.com/goccy/go-json"
)

// Hard errors of the compile path. They are wrapped with the offending type
// name; test with errors.Is.
var (
	ErrDuplicateType      = errors.New("duplicate type name added to schema")
	ErrUnknownType        = errors.New("unknown type")
	ErrStructuralOverride = errors.New("cannot override structural attribute of subtype")
	ErrCircularBase       = errors.New("circular type inheritance")
	ErrInvalidDeclaration = errors.New("invalid type declaration")
)

// Severity expresses the severity level for problems.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "error"
	}
}

// ParseSeverity maps "error", "warning" and "info" back to a Severity.
func ParseSeverity(s string) (Severity, bool) {
	switch s {
	case "error":
		return SeverityError, true
	case "warning":
		return SeverityWarning, true
	case "info":
		return SeverityInfo, true
	}
	return SeverityError, false
}

func (s Severity) MarshalJSON() ([]byte, error) { return gojson.Marshal(s.String()) }

func (s *Severity) UnmarshalJSON(b []byte) error {
	var str string
	if err := gojson.Unmarshal(b, &str); err != nil {
		return err
	}
	v, ok := ParseSeverity(str)
	if !ok {
		return fmt.Errorf("unknown severity %q", str)
	}
	*s = v
	return nil
}

// Problem is a single recoverable finding about a declaration.
type Problem struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	HelpID   HelpID   `json:"helpId,omitempty"`
}

// Problems is a collection of problems that implements error.
type Problems []Problem

// Error summarizes the first few problems.
func (ps Problems) Error() string {
	if len(ps) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(ps)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		p := ps[i]
		fmt.Fprintf(b, "%s: %s", p.Severity, p.Message)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// HasErrors reports whether any problem has error severity.
func (ps Problems) HasErrors() bool {
	for _, p := range ps {
		if p.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Filter returns the problems with the given severity.
func (ps Problems) Filter(s Severity) Problems {
	var out Problems
	for _, p := range ps {
		if p.Severity == s {
			out = append(out, p)
		}
	}
	return out
}

// AppendProblems appends problems to the destination, initializing the slice
// when needed so that an empty result still encodes as [].
func AppendProblems(dst Problems, more ...Problem) Problems {
	if dst == nil {
		dst = Problems{}
	}
	return append(dst, more...)
}

// AsProblems extracts Problems from an error using errors.As internally.
func AsProblems(err error) (Problems, bool) {
	if err == nil {
		return nil, false
	}
	var ps Problems
	if errors.As(err, &ps) {
		return ps, true
	}
	return nil, false
}
