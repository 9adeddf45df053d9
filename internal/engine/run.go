package engine

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"syscall"

	"github.com/marcelocantos/minibash/internal/builtin"
	"github.com/marcelocantos/minibash/internal/pipeline"
)

// runCommand runs c as a builtin if one answers to its name, otherwise as
// a child process.
func (e *Engine) runCommand(ctx context.Context, st *state, c pipeline.Command) int {
	if e.builtins != nil {
		if b, ok := e.builtins.Lookup(c.Name); ok {
			return e.runBuiltin(ctx, st, b, c)
		}
	}
	return e.spawn(ctx, st, c, st.stdin, st.stdout)
}

func (e *Engine) runBuiltin(ctx context.Context, st *state, b builtin.Builtin, c pipeline.Command) int {
	if err := b.Validate(c.Args); err != nil {
		e.diagf(st, "%s: %v", c.Name, err)
		return 1
	}
	env := &builtin.Env{
		Stdout:  writer(st.stdout),
		Stderr:  writer(st.stderr),
		Jobs:    e.jobs,
		Journal: e.journal,
	}
	if st.stdin != nil {
		env.Stdin = st.stdin
	}
	err := b.Run(builtin.NewContext(ctx, e.builtins), env, c.Args)
	if err == nil {
		return 0
	}
	var exitErr *builtin.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	e.diagf(st, "%s: %v", c.Name, err)
	return 1
}

// spawn runs c as a child with the given stdin and stdout and waits for it.
func (e *Engine) spawn(ctx context.Context, st *state, c pipeline.Command, stdin, stdout *os.File) int {
	return e.status(st, c.Name, e.command(ctx, c, stdin, stdout, st.stderr).Run())
}

func (e *Engine) command(ctx context.Context, c pipeline.Command, stdin, stdout, stderr *os.File) *exec.Cmd {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	if stdin != nil {
		cmd.Stdin = stdin
	}
	setOutput(cmd, stdout, stderr)
	return cmd
}

func setOutput(cmd *exec.Cmd, stdout, stderr *os.File) {
	if stdout != nil {
		cmd.Stdout = stdout
	}
	if stderr != nil {
		cmd.Stderr = stderr
	}
}

// status maps the result of running a child to a completion status: the
// exit code, 128+N for a child killed by signal N, StatusNotFound when the
// program could not be executed and 1 for any other failure.
func (e *Engine) status(st *state, name string, err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			return 128 + int(ws.Signal())
		}
		return exitErr.ExitCode()
	}
	var execErr *exec.Error
	if errors.As(err, &execErr) || errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		e.diagf(st, "%s: command not found", name)
		return StatusNotFound
	}
	e.diagf(st, "%s: %v", name, err)
	return 1
}
