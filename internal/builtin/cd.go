package builtin

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type Cd struct{}

var _ Builtin = (*Cd)(nil)

func (c *Cd) Name() string        { return "cd" }
func (c *Cd) Description() string { return "change the working directory (~ is home)" }

func (c *Cd) Validate(args []string) error {
	if len(args) > 1 {
		return errors.New("too many arguments")
	}
	return nil
}

func (c *Cd) Run(ctx context.Context, env *Env, args []string) error {
	dir, err := target(args)
	if err != nil {
		return err
	}
	if err := os.Chdir(dir); err != nil {
		fmt.Fprintf(env.Stderr, "No Such Directory %s\n", dir)
		return &ExitError{Code: 1}
	}
	return nil
}

// target resolves the cd argument, expanding a leading ~ to the home
// directory.
func target(args []string) (string, error) {
	arg := "~"
	if len(args) == 1 {
		arg = args[0]
	}
	if arg != "~" && !strings.HasPrefix(arg, "~/") {
		return arg, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(arg, "~")), nil
}
