package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Main, "schemac").
		WithSynopsis("schemac [opts] command [opts]").
		WithDescription("schemac compiles, validates and extracts content schemas.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return schemacMain(cfg, cc, args)
		}).
		WithSubs(
			ValidateCommand(cfg),
			ExtractCommand(cfg),
			ManifestCommand(cfg),
			DiffCommand(cfg),
			SearchCommand(cfg),
			PreviewCommand(cfg))
}

func schemacMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.Color && cfg.NoColor {
		return fmt.Errorf("%w: -color and -no-color are exclusive", cli.ErrUsage)
	}
	cfg.setup()
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	return sub.Run(cc, args[1:])
}

func ValidateCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ValidateConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("validate").
		WithAliases("v", "check").
		WithSynopsis("validate [opts] files...").
		WithDescription("validate schema declarations and print problems grouped by path").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return validate(cfg, cc, args)
		})
	cfg.Validate = cmd
	return cmd
}

func ExtractCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ExtractConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("extract").
		WithAliases("x").
		WithSynopsis("extract [opts] files...").
		WithDescription("extract the typed schema used by query type generators").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return extractSchema(cfg, cc, args)
		})
	cfg.Extract = cmd
	return cmd
}

func ManifestCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ManifestConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("manifest").
		WithAliases("m").
		WithSynopsis("manifest [opts] files...").
		WithDescription("encode the compiled schema as a synchronization set").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return manifest(cfg, cc, args)
		})
	cfg.Manifest = cmd
	return cmd
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("diff").
		WithAliases("d").
		WithSynopsis("diff [opts] <from> <to>").
		WithDescription("compare the synchronization sets of two schemas; exits 1 when they differ").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
	cfg.Diff = cmd
	return cmd
}

func SearchCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &SearchConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("search").
		WithAliases("s").
		WithSynopsis("search [opts] <type> files...").
		WithDescription("print the weighted search paths of a type").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return search(cfg, cc, args)
		})
	cfg.Search = cmd
	return cmd
}

func PreviewCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &PreviewConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("preview").
		WithAliases("p").
		WithSynopsis("preview [opts] <type> files...").
		WithDescription("print the preview configuration of a type, resolved against a document with -doc").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return preview(cfg, cc, args)
		})
	cfg.Preview = cmd
	return cmd
}
