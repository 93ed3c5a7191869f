package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/scott-cotton/cli"

	"github.com/reoring/schemac/descriptor"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	from, err := cfg.setOf(args[0])
	if err != nil {
		return err
	}
	to, err := cfg.setOf(args[1])
	if err != nil {
		return err
	}
	d, err := descriptor.Diff(from, to)
	if err != nil {
		return err
	}
	if d.Empty() {
		return nil
	}
	if cfg.Patch {
		if _, err := cc.Out.Write(append(d.Patch, '\n')); err != nil {
			return err
		}
		return cli.ExitCodeErr(1)
	}
	p := cfg.colorsFor(cc.Out)
	fmt.Fprintf(cc.Out, "%s %d added, %d removed\n",
		p.path.Sprint(descriptor.Name(from)+" -> "+descriptor.Name(to)), len(d.Added), len(d.Removed))
	sc := bufio.NewScanner(strings.NewReader(d.Text))
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "+"):
			fmt.Fprintln(cc.Out, p.added.Sprint(line))
		case strings.HasPrefix(line, "-"):
			fmt.Fprintln(cc.Out, p.removed.Sprint(line))
		default:
			fmt.Fprintln(cc.Out, line)
		}
	}
	return cli.ExitCodeErr(1)
}

// setOf reads an encoded set, or compiles a declaration file into one.
func (cfg *DiffConfig) setOf(path string) (*descriptor.Set, error) {
	if cfg.Sets {
		return readSet(path)
	}
	reg, err := cfg.loadRegistry([]string{path})
	if err != nil {
		return nil, err
	}
	return descriptor.NewConverter().Get(reg)
}
