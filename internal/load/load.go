// Package load reads declaration files from disk.
package load

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/reoring/schemac"
)

// Format selects the decoder.
type Format int

const (
	FormatAuto Format = iota
	FormatJSON
	FormatYAML
)

// Options configures loading; later values override earlier ones.
type Options struct {
	Format         Format
	OnDuplicateKey DuplicateMode
}

func merge(opts []Options) Options {
	var o Options
	for _, x := range opts {
		if x.Format != FormatAuto {
			o.Format = x.Format
		}
		o.OnDuplicateKey = x.OnDuplicateKey
	}
	return o
}

// File loads declarations from a .json, .yaml or .yml file.
func File(path string, opts ...Options) ([]schemac.Declaration, schemac.Problems, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	o := merge(opts)
	if o.Format == FormatAuto {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			o.Format = FormatYAML
		default:
			o.Format = FormatJSON
		}
	}
	return Bytes(data, o)
}

// Bytes decodes declarations. The top level is either a list of declarations,
// an object with a "types" list, or a single declaration.
func Bytes(data []byte, opts ...Options) ([]schemac.Declaration, schemac.Problems, error) {
	o := merge(opts)
	var (
		raw      any
		problems schemac.Problems
	)
	switch o.Format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, nil, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		if o.OnDuplicateKey != DupIgnore {
			dups, err := detectDuplicateKeys(data)
			if err != nil {
				return nil, nil, fmt.Errorf("decode json: %w", err)
			}
			for _, d := range dups {
				msg := fmt.Sprintf("duplicate key %q at %s", d.Key, d.Path)
				if o.OnDuplicateKey == DupError {
					problems = append(problems, schemac.Error(msg))
				} else {
					problems = append(problems, schemac.Warning(msg))
				}
			}
			if problems.HasErrors() {
				return nil, problems, problems
			}
		}
		if err := gojson.Unmarshal(data, &raw); err != nil {
			return nil, problems, fmt.Errorf("decode json: %w", err)
		}
	}
	decls, err := toDeclarations(raw)
	return decls, problems, err
}

func toDeclarations(raw any) ([]schemac.Declaration, error) {
	if m, ok := schemac.AsMap(raw); ok {
		if types, ok := m["types"]; ok {
			raw = types
		} else {
			return []schemac.Declaration{m}, nil
		}
	}
	items, ok := schemac.AsSlice(raw)
	if !ok {
		return nil, fmt.Errorf("%w: expected a list of declarations, got %s", schemac.ErrInvalidDeclaration, schemac.TypeOf(raw))
	}
	out := make([]schemac.Declaration, 0, len(items))
	for i, it := range items {
		m, ok := schemac.AsMap(it)
		if !ok {
			return nil, fmt.Errorf("%w: declaration at index %d is %s", schemac.ErrInvalidDeclaration, i, schemac.TypeOf(it))
		}
		out = append(out, m)
	}
	return out, nil
}

// AsAny converts declarations to the untyped list the validator accepts.
func AsAny(decls []schemac.Declaration) []any {
	out := make([]any, len(decls))
	for i, d := range decls {
		out[i] = d
	}
	return out
}
