package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"

	"github.com/marcelocantos/minibash/internal/config"
	"github.com/marcelocantos/minibash/internal/engine"
)

// Prompt renders the REPL prompt for the given working directory.
func Prompt(prefix, cwd string) string {
	return promptColor(prefix) + cwdColor(cwd) + promptColor("$") + " "
}

// RunREPL reads lines from the terminal and runs them until ^C or EOF,
// both of which kill the background jobs and leave the shell.
func RunREPL(ctx context.Context, eng *engine.Engine, cfg *config.Config) int {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          Prompt(cfg.Prompt, ""),
		HistoryFile:     cfg.History.Path,
		HistoryLimit:    cfg.History.Limit,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "minibash: readline: %v\n", err)
		return 1
	}
	defer rl.Close()

	eng.Jobs().SetOutput(rl.Stdout())
	defer eng.Jobs().SetOutput(os.Stdout)

	for {
		cwd, _ := os.Getwd()
		rl.SetPrompt(Prompt(cfg.Prompt, cwd))

		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			rl.Close()
			eng.Jobs().Shutdown(0)
			return 0
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "minibash: read: %v\n", err)
			return 1
		}

		if ctx.Err() != nil {
			return 0
		}
		eng.RunLine(ctx, line, false)
	}
}
