package builtin

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

// Jobs lists the tracked background jobs.
type Jobs struct{}

var _ Builtin = (*Jobs)(nil)

func (j *Jobs) Name() string                 { return "jobs" }
func (j *Jobs) Description() string          { return "list background jobs" }
func (j *Jobs) Validate(args []string) error { return nil }

func (j *Jobs) Run(ctx context.Context, env *Env, args []string) error {
	list := env.Jobs.Table().Jobs()
	if len(list) == 0 {
		fmt.Fprintln(env.Stdout, "no background jobs")
		return nil
	}
	table := tablewriter.NewWriter(env.Stdout)
	table.SetHeader([]string{"Index", "Pid", "Command"})
	table.SetBorder(true)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT})
	for _, job := range list {
		table.Append([]string{strconv.Itoa(job.Index), strconv.Itoa(job.Pid), job.Name})
	}
	table.Render()
	return nil
}

// History lists the most recent journal entries.
type History struct{}

var _ Builtin = (*History)(nil)

const defaultHistory = 10

func (h *History) Name() string        { return "history" }
func (h *History) Description() string { return "show recent statements from the journal" }

func (h *History) Validate(args []string) error {
	if len(args) > 1 {
		return errors.New("too many arguments")
	}
	if len(args) == 1 {
		if n, err := strconv.Atoi(args[0]); err != nil || n < 0 {
			return fmt.Errorf("%s: numeric argument required", args[0])
		}
	}
	return nil
}

func (h *History) Run(ctx context.Context, env *Env, args []string) error {
	if env.Journal == nil {
		fmt.Fprintln(env.Stderr, "history: journal disabled")
		return &ExitError{Code: 1}
	}
	n := defaultHistory
	if len(args) == 1 {
		n, _ = strconv.Atoi(args[0])
	}
	entries, err := env.Journal.Tail(n)
	if err != nil {
		return err
	}
	table := tablewriter.NewWriter(env.Stdout)
	table.SetHeader([]string{"Seq", "Line", "Outcome", "Status"})
	table.SetBorder(true)
	table.SetAutoWrapText(false)
	for _, e := range entries {
		table.Append([]string{strconv.FormatUint(e.Seq, 10), e.Line, e.Outcome, strconv.Itoa(e.Status)})
	}
	table.Render()
	return nil
}
