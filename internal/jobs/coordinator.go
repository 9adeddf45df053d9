package jobs

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"sync"
	"syscall"

	"github.com/fatih/color"
	"golang.org/x/sys/unix"
)

// StatusNotFound is the exit status of a child whose program could not be
// executed.
const StatusNotFound = 4

var notice = color.New(color.FgCyan)

// Exit describes how a background child terminated.
type Exit struct {
	Pid      int
	Code     int
	Signaled bool
	Signal   syscall.Signal
}

// Coordinator owns the Table on behalf of the shell. Background children
// are waited on by one goroutine each; their exits are funnelled through a
// single reaper loop (Run), which is the only place jobs leave the table
// other than Foreground.
type Coordinator struct {
	table *Table
	exits chan Exit

	mu   sync.Mutex
	out  io.Writer
	exit func(int)
}

// NewCoordinator creates a coordinator writing job notices to out.
func NewCoordinator(table *Table, out io.Writer) *Coordinator {
	return &Coordinator{
		table: table,
		exits: make(chan Exit, Capacity),
		out:   out,
		exit:  os.Exit,
	}
}

// Table returns the coordinated job table.
func (c *Coordinator) Table() *Table {
	return c.table
}

// SetOutput redirects job notices, e.g. through a line editor that redraws
// its prompt.
func (c *Coordinator) SetOutput(w io.Writer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.out = w
}

// SetExit replaces the function used to terminate the shell.
func (c *Coordinator) SetExit(fn func(int)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.exit = fn
}

// Start launches cmd and registers it as a background job.
func (c *Coordinator) Start(cmd *exec.Cmd, name string) (Job, error) {
	if c.table.Len() >= Capacity {
		return Job{}, ErrTableFull
	}
	if err := cmd.Start(); err != nil {
		return Job{}, err
	}
	pid := cmd.Process.Pid
	idx, err := c.table.Add(pid, name)
	if err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return Job{}, err
	}
	go c.wait(cmd)
	return Job{Index: idx, Pid: pid, Name: name}, nil
}

func (c *Coordinator) wait(cmd *exec.Cmd) {
	_ = cmd.Wait()
	ev := Exit{Pid: cmd.Process.Pid}
	if cmd.ProcessState != nil {
		if ws, ok := cmd.ProcessState.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			ev.Signaled = true
			ev.Signal = ws.Signal()
		} else {
			ev.Code = cmd.ProcessState.ExitCode()
		}
	}
	c.exits <- ev
}

// Run reaps background exits until ctx is done. Receiving any of the fatal
// signals kills every tracked job and terminates the shell.
func (c *Coordinator) Run(ctx context.Context, fatal ...os.Signal) {
	var sigs chan os.Signal
	if len(fatal) > 0 {
		sigs = make(chan os.Signal, 1)
		signal.Notify(sigs, fatal...)
		defer signal.Stop(sigs)
	}
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-c.exits:
			c.reap(ev)
		case <-sigs:
			c.Shutdown(0)
			return
		}
	}
}

func (c *Coordinator) reap(ev Exit) {
	switch {
	case ev.Signaled:
		if _, ok := c.table.Remove(ev.Pid); ok {
			c.printf("Background Process %d Exited with Signal Number:%d\n", ev.Pid, int(ev.Signal))
		}
	case ev.Code == StatusNotFound:
		c.table.Remove(ev.Pid)
		c.printf("minibash: command not found\n")
	default:
		if idx, ok := c.table.Remove(ev.Pid); ok {
			c.printf("Background Process [%d]+ with pid %d is done.\n", idx, ev.Pid)
		}
	}
}

// Foreground pops the most recent job and sends it SIGCONT. The job is no
// longer tracked afterwards.
func (c *Coordinator) Foreground() (Job, error) {
	job, ok := c.table.PopLast()
	if !ok {
		return Job{}, ErrNoSuchJob
	}
	if err := unix.Kill(job.Pid, unix.SIGCONT); err != nil {
		return job, fmt.Errorf("continue pid %d: %w", job.Pid, err)
	}
	return job, nil
}

// KillAll sends SIGKILL to every tracked job.
func (c *Coordinator) KillAll() {
	for _, pid := range c.table.Pids() {
		_ = unix.Kill(pid, unix.SIGKILL)
	}
}

// Shutdown kills every tracked job and terminates the shell.
func (c *Coordinator) Shutdown(code int) {
	c.KillAll()
	c.mu.Lock()
	exit := c.exit
	c.mu.Unlock()
	exit(code)
}

func (c *Coordinator) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	notice.Fprintf(c.out, format, args...)
}
