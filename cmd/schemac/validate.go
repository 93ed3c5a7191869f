package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/scott-cotton/cli"

	"github.com/reoring/schemac"
	"github.com/reoring/schemac/i18n"
	"github.com/reoring/schemac/validation"
)

func validate(cfg *ValidateConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Validate.Parse(cc, args)
	if err != nil {
		cfg.Validate.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	decls, err := cfg.loadDeclarations(args)
	if err != nil {
		return err
	}
	groups := validation.GroupProblems(validation.ValidateDeclarations(decls, validation.Option{
		Warnings: schemac.NewOnceWarner(theLog),
	}))
	if cfg.JSON {
		if groups == nil {
			groups = []validation.ProblemGroup{}
		}
		if err := writeJSON(cc.Out, groups); err != nil {
			return err
		}
	} else {
		printGroups(cc.Out, cfg.colorsFor(cc.Out), groups)
	}
	errs, warns := validation.Summary(groups)
	if errs > 0 || (cfg.FailOnWarning && warns > 0) {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// printGroups writes one block per group: the path, then one line per
// problem with its localized help summary.
func printGroups(w io.Writer, p *palette, groups []validation.ProblemGroup) {
	for _, g := range groups {
		fmt.Fprintln(w, p.path.Sprint(schemac.FormatPath(g.Path)))
		for _, prob := range g.Problems {
			label := i18n.T(prob.Severity.String(), nil)
			fmt.Fprintf(w, "  %s %s\n", p.severity(prob.Severity).Sprintf("[%s]", label), prob.Message)
			if prob.HelpID != "" {
				id := string(prob.HelpID)
				fmt.Fprintf(w, "    %s\n", p.dim.Sprintf("%s %s: %s", i18n.T("see", nil), id, i18n.T(id, nil)))
			}
		}
	}
	errs, warns := validation.Summary(groups)
	if errs == 0 && warns == 0 {
		fmt.Fprintln(w, p.added.Sprint(i18n.T("valid", nil)))
		return
	}
	summary := i18n.T("summary", map[string]string{
		"errors":   strconv.Itoa(errs),
		"warnings": strconv.Itoa(warns),
	})
	if errs > 0 {
		fmt.Fprintln(w, p.err.Sprint(summary))
	} else {
		fmt.Fprintln(w, p.warn.Sprint(summary))
	}
}
