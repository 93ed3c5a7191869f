package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	gojson "github.com/goccy/go-json"
	"github.com/scott-cotton/cli"

	"github.com/reoring/schemac/registry"
)

func lookupType(cfg *MainConfig, args []string) (*registry.Type, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("%w: expected <type> files..., got %v", cli.ErrUsage, args)
	}
	reg, err := cfg.loadRegistry(args[1:])
	if err != nil {
		return nil, err
	}
	t, ok := reg.Get(args[0])
	if !ok {
		return nil, fmt.Errorf("unknown type %q", args[0])
	}
	return t, nil
}

func search(cfg *SearchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Search.Parse(cc, args)
	if err != nil {
		cfg.Search.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	t, err := lookupType(cfg.MainConfig, args)
	if err != nil {
		return err
	}
	paths := t.Search()
	if cfg.JSON {
		return writeJSON(cc.Out, paths)
	}
	tw := tabwriter.NewWriter(cc.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WEIGHT\tPATH\tMAP WITH")
	for _, p := range paths {
		fmt.Fprintf(tw, "%g\t%s\t%s\n", p.Weight, p.Path, p.MapWith)
	}
	return tw.Flush()
}

type previewOutput struct {
	Select   map[string]string `json:"select"`
	Guessed  bool              `json:"guessed"`
	Prepare  bool              `json:"prepare"`
	Resolved map[string]any    `json:"resolved,omitempty"`
}

func preview(cfg *PreviewConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Preview.Parse(cc, args)
	if err != nil {
		cfg.Preview.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	t, err := lookupType(cfg.MainConfig, args)
	if err != nil {
		return err
	}
	pv := t.Preview()
	out := previewOutput{Select: pv.Select, Guessed: pv.Guessed, Prepare: pv.Prepare != nil}
	if cfg.Doc != "" {
		d, err := os.ReadFile(cfg.Doc)
		if err != nil {
			return err
		}
		var doc map[string]any
		if err := gojson.Unmarshal(d, &doc); err != nil {
			return fmt.Errorf("error decoding %s: %w", cfg.Doc, err)
		}
		out.Resolved = pv.Resolve(doc)
	}
	return writeJSON(cc.Out, out)
}
