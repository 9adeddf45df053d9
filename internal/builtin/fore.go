package builtin

import (
	"context"
	"errors"
	"fmt"

	"github.com/marcelocantos/minibash/internal/jobs"
)

// Fore resumes the most recent background job and stops tracking it.
type Fore struct{}

var _ Builtin = (*Fore)(nil)

func (f *Fore) Name() string                 { return "fore" }
func (f *Fore) Description() string          { return "move the last background job to the foreground" }
func (f *Fore) Validate(args []string) error { return nil }

func (f *Fore) Run(ctx context.Context, env *Env, args []string) error {
	job, err := env.Jobs.Foreground()
	if errors.Is(err, jobs.ErrNoSuchJob) {
		fmt.Fprintln(env.Stderr, "fg: current: no such job")
		return &ExitError{Code: 1}
	}
	if job.Pid != 0 {
		fmt.Fprintf(env.Stdout, "Process with pid:%d moved to foreground\n", job.Pid)
	}
	return err
}
