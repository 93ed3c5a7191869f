package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	gojson "github.com/goccy/go-json"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/reoring/schemac"
	"github.com/reoring/schemac/i18n"
	"github.com/reoring/schemac/internal/load"
	"github.com/reoring/schemac/registry"
)

type MainConfig struct {
	Lang    string `cli:"name=lang desc='language of problem summaries: en or ja (default from $LANG)'"`
	Color   bool   `cli:"name=color desc='force colored output'"`
	NoColor bool   `cli:"name=no-color desc='disable colored output'"`
	Verbose bool   `cli:"name=v aliases=verbose desc='log debug messages'"`
	LogJSON bool   `cli:"name=log-json desc='write logs as JSON'"`
	YAML    bool   `cli:"name=yaml desc='read declaration files as YAML regardless of extension'"`
	Strict  bool   `cli:"name=strict-keys desc='fail on duplicate keys in JSON files instead of warning'"`

	Main *cli.Command
}

type ValidateConfig struct {
	*MainConfig
	JSON          bool `cli:"name=json desc='print problem groups as JSON'"`
	FailOnWarning bool `cli:"name=fail-on-warning desc='exit 1 on warnings as well as errors'"`

	Validate *cli.Command
}

type ExtractConfig struct {
	*MainConfig
	EnforceRequired bool   `cli:"name=enforce-required desc='mark fields with required validation as non-optional'"`
	Format          string `cli:"name=format desc='output format: groq or jsonschema (default groq)'"`
	Out             string `cli:"name=o desc='output file (default stdout)'"`

	Extract *cli.Command
}

type ManifestConfig struct {
	*MainConfig
	MaxDepth int    `cli:"name=max-depth desc='nesting depth of encoded option values (default 5)'"`
	Out      string `cli:"name=o desc='output file (default stdout)'"`
	Decode   bool   `cli:"name=decode desc='read a set and print the declarations it encodes'"`

	Manifest *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Sets  bool `cli:"name=sets desc='arguments are encoded sets rather than declaration files'"`
	Patch bool `cli:"name=patch desc='print a JSON merge patch instead of a line diff'"`

	Diff *cli.Command
}

type SearchConfig struct {
	*MainConfig
	JSON bool `cli:"name=json desc='print search paths as JSON'"`

	Search *cli.Command
}

type PreviewConfig struct {
	*MainConfig
	Doc string `cli:"name=doc desc='JSON document to resolve the preview against'"`

	Preview *cli.Command
}

var theLog = slog.Default()

// setup configures logging and language from options and the environment.
func (cfg *MainConfig) setup() {
	level := slog.LevelInfo
	if env := os.Getenv("SCHEMAC_LOG_LEVEL"); env != "" {
		if err := level.UnmarshalText([]byte(env)); err != nil {
			level = slog.LevelInfo
		}
	}
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	hopts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}
	if cfg.LogJSON {
		theLog = slog.New(slog.NewJSONHandler(os.Stderr, hopts))
	} else {
		theLog = slog.New(slog.NewTextHandler(os.Stderr, hopts))
	}

	lang := cfg.Lang
	if lang == "" {
		lang = os.Getenv("SCHEMAC_LANG")
	}
	if lang == "" {
		lang = os.Getenv("LANG")
	}
	i18n.SetLanguage(lang)
}

// colorsFor decides whether output to w is colored.
func (cfg *MainConfig) colorsFor(w io.Writer) *palette {
	enabled := false
	switch {
	case cfg.Color:
		enabled = true
	case cfg.NoColor:
	default:
		if f, ok := w.(*os.File); ok {
			enabled = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
	}
	return newPalette(enabled)
}

type palette struct {
	err, warn, info, path, added, removed, dim *color.Color
}

func newPalette(enabled bool) *palette {
	p := &palette{
		err:     color.New(color.FgRed, color.Bold),
		warn:    color.New(color.FgYellow),
		info:    color.New(color.FgCyan),
		path:    color.New(color.Bold),
		added:   color.New(color.FgGreen),
		removed: color.New(color.FgRed),
		dim:     color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.path, p.added, p.removed, p.dim} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p *palette) severity(s schemac.Severity) *color.Color {
	switch s {
	case schemac.SeverityError:
		return p.err
	case schemac.SeverityWarning:
		return p.warn
	}
	return p.info
}

// loadDeclarations reads and concatenates the declarations of all files.
func (cfg *MainConfig) loadDeclarations(files []string) ([]schemac.Declaration, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no declaration files given", cli.ErrUsage)
	}
	opts := load.Options{OnDuplicateKey: load.DupWarn}
	if cfg.Strict {
		opts.OnDuplicateKey = load.DupError
	}
	if cfg.YAML {
		opts.Format = load.FormatYAML
	}
	var out []schemac.Declaration
	for _, f := range files {
		decls, problems, err := load.File(f, opts)
		for _, p := range problems {
			theLog.Warn(p.Message, "file", f)
		}
		if err != nil {
			return nil, fmt.Errorf("error loading %s: %w", f, err)
		}
		theLog.Debug("loaded declarations", "file", f, "count", len(decls))
		out = append(out, decls...)
	}
	return out, nil
}

func (cfg *MainConfig) compile(decls []schemac.Declaration) (*registry.Registry, error) {
	reg, err := registry.Compile(decls, registry.CompileOpt{
		Name:     "default",
		Warnings: schemac.NewOnceWarner(theLog),
	})
	if err != nil {
		return nil, fmt.Errorf("error compiling schema: %w", err)
	}
	return reg, nil
}

func (cfg *MainConfig) loadRegistry(files []string) (*registry.Registry, error) {
	decls, err := cfg.loadDeclarations(files)
	if err != nil {
		return nil, err
	}
	return cfg.compile(decls)
}

// output returns the writer for -o, or cc.Out when path is empty.
func output(cc *cli.Context, path string) (io.Writer, func() error, error) {
	if path == "" {
		return cc.Out, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func writeJSON(w io.Writer, v any) error {
	d, err := gojson.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	d = append(d, '\n')
	_, err = w.Write(d)
	return err
}
