package builtin

import (
	"context"
	"os"
	"os/exec"

	"golang.org/x/sys/unix"
)

// Exit kills every tracked background job and terminates the shell.
type Exit struct{}

var _ Builtin = (*Exit)(nil)

func (e *Exit) Name() string                 { return "exit" }
func (e *Exit) Description() string          { return "kill background jobs and leave the shell" }
func (e *Exit) Validate(args []string) error { return nil }

func (e *Exit) Run(ctx context.Context, env *Env, args []string) error {
	env.Jobs.Shutdown(0)
	return nil
}

// Dter kills the shell process outright.
type Dter struct{}

var _ Builtin = (*Dter)(nil)

func (d *Dter) Name() string                 { return "dter" }
func (d *Dter) Description() string          { return "terminate this shell with SIGKILL" }
func (d *Dter) Validate(args []string) error { return nil }

func (d *Dter) Run(ctx context.Context, env *Env, args []string) error {
	env.Jobs.KillAll()
	return unix.Kill(os.Getpid(), unix.SIGKILL)
}

// Dtex kills every minibash process on the machine.
type Dtex struct{}

var _ Builtin = (*Dtex)(nil)

func (d *Dtex) Name() string                 { return "dtex" }
func (d *Dtex) Description() string          { return "terminate every running minibash" }
func (d *Dtex) Validate(args []string) error { return nil }

func (d *Dtex) Run(ctx context.Context, env *Env, args []string) error {
	cmd := exec.CommandContext(ctx, "pkill", "-9", "minibash")
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
