package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/marcelocantos/minibash/internal/audit"
	"github.com/marcelocantos/minibash/internal/builtin"
	"github.com/marcelocantos/minibash/internal/cli"
	"github.com/marcelocantos/minibash/internal/config"
	"github.com/marcelocantos/minibash/internal/engine"
	"github.com/marcelocantos/minibash/internal/jobs"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	status := 0
	root := newRootCommand(&options{fs: afero.NewOsFs()}, &status)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "minibash: %v\n", err)
		return 1
	}
	return status
}

type options struct {
	configPath string
	fs         afero.Fs
}

func (o *options) load() (*config.Config, error) {
	path := o.configPath
	if path == "" {
		path = config.ConfigPath()
	}
	cfg, err := config.LoadFrom(o.fs, path)
	if err != nil {
		return nil, err
	}
	if !cfg.Color {
		color.NoColor = true
	}
	return cfg, nil
}

func newRootCommand(opts *options, status *int) *cobra.Command {
	root := &cobra.Command{
		Use:   "minibash [script]",
		Short: "minibash is a small shell with one control operator per line.",
		Long: `minibash reads a line, resolves its single control operator
(# + < > >> ~ ; | && ||) and runs the commands it joins.
With a script argument it runs the script's lines in order.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			eng := newEngine(opts.fs, cfg, jobs.StdStreams(), os.Stdout)
			go eng.Jobs().Run(ctx, os.Interrupt, unix.SIGTERM)

			if len(args) == 1 {
				*status = cli.RunScript(ctx, opts.fs, eng, args[0], os.Stdout)
				return nil
			}
			*status = cli.RunREPL(ctx, eng, cfg)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ~/.config/minibash/config.yaml)")

	root.AddCommand(newJournalCommand(opts, status))
	root.AddCommand(newMCPCommand(opts, status))
	return root
}

// newEngine wires a job table over streams, the builtins and the journal.
func newEngine(fs afero.Fs, cfg *config.Config, streams jobs.Streams, notices *os.File) *engine.Engine {
	coord := jobs.NewCoordinator(jobs.NewTable(streams), notices)

	reg := builtin.NewRegistry()
	builtin.RegisterAll(reg)

	var journal *audit.Logger
	if cfg.Journal.Enabled {
		var err error
		journal, err = audit.NewLogger(fs, cfg.Journal.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "minibash: journal: %v\n", err)
			journal = nil
		}
	}
	return engine.New(coord, reg, journal)
}
