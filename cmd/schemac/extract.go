package main

import (
	"fmt"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/reoring/schemac"
	"github.com/reoring/schemac/extract"
	"github.com/reoring/schemac/jsonschema"
	"github.com/reoring/schemac/validation"
)

func extractSchema(cfg *ExtractConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Extract.Parse(cc, args)
	if err != nil {
		cfg.Extract.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	switch cfg.Format {
	case "", "groq", "jsonschema":
	default:
		return fmt.Errorf("%w: unknown format %q", cli.ErrUsage, cfg.Format)
	}
	decls, err := cfg.loadDeclarations(args)
	if err != nil {
		return err
	}
	// extraction assumes a valid schema
	groups := validation.GroupProblems(validation.ValidateDeclarations(decls, validation.Option{
		Warnings: schemac.DiscardWarnings,
	}))
	if validation.HasErrors(groups) {
		printGroups(os.Stderr, cfg.colorsFor(os.Stderr), groups)
		return cli.ExitCodeErr(1)
	}
	reg, err := cfg.compile(decls)
	if err != nil {
		return err
	}
	types, err := extract.Schema(reg, extract.Option{EnforceRequiredFields: cfg.EnforceRequired})
	if err != nil {
		return err
	}
	theLog.Debug("extracted schema", "types", len(types))

	w, closeOut, err := output(cc, cfg.Out)
	if err != nil {
		return err
	}
	defer closeOut()
	if cfg.Format == "jsonschema" {
		js, err := jsonschema.FromIR(types)
		if err != nil {
			return err
		}
		return writeJSON(w, js)
	}
	return writeJSON(w, types)
}
