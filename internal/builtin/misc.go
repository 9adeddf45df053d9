package builtin

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/marcelocantos/minibash/internal/pipeline"
)

type Clear struct{}

var _ Builtin = (*Clear)(nil)

func (c *Clear) Name() string                 { return "clear" }
func (c *Clear) Description() string          { return "clear the terminal" }
func (c *Clear) Validate(args []string) error { return nil }

func (c *Clear) Run(ctx context.Context, env *Env, args []string) error {
	_, err := fmt.Fprint(env.Stdout, "\033[1;1H\033[2J")
	return err
}

// Addmb starts a nested shell and waits for it.
type Addmb struct{}

var _ Builtin = (*Addmb)(nil)

func (a *Addmb) Name() string                 { return "addmb" }
func (a *Addmb) Description() string          { return "start a nested minibash" }
func (a *Addmb) Validate(args []string) error { return nil }

func (a *Addmb) Run(ctx context.Context, env *Env, args []string) error {
	self, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate executable: %w", err)
	}
	cmd := exec.CommandContext(ctx, self)
	cmd.Stdin = env.Stdin
	cmd.Stdout = env.Stdout
	cmd.Stderr = env.Stderr
	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return &ExitError{Code: exitErr.ExitCode()}
		}
		return err
	}
	return nil
}

// Help lists the builtins of the registry carried by ctx.
type Help struct{}

var _ Builtin = (*Help)(nil)

func (h *Help) Name() string                 { return "help" }
func (h *Help) Description() string          { return "list builtins and operators" }
func (h *Help) Validate(args []string) error { return nil }

func (h *Help) Run(ctx context.Context, env *Env, args []string) error {
	reg, ok := RegistryFromContext(ctx)
	if !ok {
		return errors.New("no builtin registry")
	}
	fmt.Fprintln(env.Stdout, "builtins:")
	for _, b := range reg.All() {
		fmt.Fprintf(env.Stdout, "  %-8s %s\n", b.Name(), b.Description())
	}
	fmt.Fprintln(env.Stdout)
	fmt.Fprintln(env.Stdout, "operators (one kind per line, && and || may mix):")
	for _, op := range pipeline.Operators {
		fmt.Fprintf(env.Stdout, "  %-3s %s\n", op.Literal(), op)
	}
	return nil
}
