package main

import (
	"fmt"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/reoring/schemac/descriptor"
)

func manifest(cfg *ManifestConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Manifest.Parse(cc, args)
	if err != nil {
		cfg.Manifest.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	w, closeOut, err := output(cc, cfg.Out)
	if err != nil {
		return err
	}
	defer closeOut()

	if cfg.Decode {
		if len(args) != 1 {
			return fmt.Errorf("%w: manifest -decode requires 1 arg, got %v", cli.ErrUsage, args)
		}
		set, err := readSet(args[0])
		if err != nil {
			return err
		}
		decls, err := descriptor.Decode(set)
		if err != nil {
			return err
		}
		return writeJSON(w, decls)
	}

	reg, err := cfg.loadRegistry(args)
	if err != nil {
		return err
	}
	set, err := descriptor.NewConverter(descriptor.Options{MaxDepth: cfg.MaxDepth}).Get(reg)
	if err != nil {
		return err
	}
	theLog.Debug("encoded set", "set", descriptor.Name(set), "objects", len(set.Keys))
	return writeJSON(w, set)
}

func readSet(path string) (*descriptor.Set, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	set, err := descriptor.ParseSet(d)
	if err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", path, err)
	}
	return set, nil
}
