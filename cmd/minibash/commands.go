package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/marcelocantos/minibash/internal/cli"
	"github.com/marcelocantos/minibash/internal/jobs"
	"github.com/marcelocantos/minibash/internal/mcpserver"
)

func newJournalCommand(opts *options, status *int) *cobra.Command {
	journal := &cobra.Command{
		Use:   "journal",
		Short: "Inspect the statement journal.",
	}

	journal.AddCommand(&cobra.Command{
		Use:   "verify",
		Short: "Check the journal's hash chain.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			*status = cli.RunJournalVerify(cmd.OutOrStdout(), opts.fs, cfg.Journal.Path)
			return nil
		},
	})

	var n int
	tail := &cobra.Command{
		Use:   "tail",
		Short: "Print the most recent journal entries.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			*status = cli.RunJournalTail(cmd.OutOrStdout(), opts.fs, cfg.Journal.Path, n)
			return nil
		},
	}
	tail.Flags().IntVarP(&n, "lines", "n", 20, "number of entries")
	journal.AddCommand(tail)

	return journal
}

func newMCPCommand(opts *options, status *int) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve run_line and jobs as MCP tools over stdio.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			capture, err := os.CreateTemp("", "minibash-mcp-*.out")
			if err != nil {
				return fmt.Errorf("create capture file: %w", err)
			}
			defer os.Remove(capture.Name())
			defer capture.Close()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			eng := newEngine(opts.fs, cfg, jobs.Streams{Stdout: capture, Stderr: capture}, capture)
			go eng.Jobs().Run(ctx, os.Interrupt, unix.SIGTERM)
			defer eng.Jobs().KillAll()

			if err := mcpserver.New(eng, capture).ServeStdio(version); err != nil {
				*status = 1
				return err
			}
			return nil
		},
	}
}
