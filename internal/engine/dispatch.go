package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/marcelocantos/minibash/internal/jobs"
	"github.com/marcelocantos/minibash/internal/pipeline"
)

func (e *Engine) dispatch(ctx context.Context, st *state) int {
	s := st.stmt
	switch s.Op {
	case pipeline.OpNone:
		return e.runCommand(ctx, st, s.Commands[0])
	case pipeline.OpCount:
		return e.count(ctx, st)
	case pipeline.OpBackground:
		return e.background(st)
	case pipeline.OpRedirectIn:
		return e.redirectIn(ctx, st)
	case pipeline.OpRedirectOut:
		return e.redirectOut(ctx, st)
	case pipeline.OpAppend:
		return e.appendOut(ctx, st)
	case pipeline.OpConcat:
		return e.spawn(ctx, st, pipeline.Command{Name: "cat", Args: s.Names()}, st.stdin, st.stdout)
	case pipeline.OpSequence:
		status := 0
		for _, c := range s.Commands {
			status = e.runCommand(ctx, st, c)
		}
		return status
	case pipeline.OpPipe:
		return e.pipe(ctx, st)
	case pipeline.OpAnd, pipeline.OpOr:
		return e.chain(ctx, st)
	default:
		e.diagf(st, "unsupported operator %s", s.Op)
		return 1
	}
}

// chain runs a conditional statement. Command 0 always runs; each later
// command runs only if its connector accepts the previous status. A skipped
// command leaves the previous status in place.
func (e *Engine) chain(ctx context.Context, st *state) int {
	s := st.stmt
	status := e.runCommand(ctx, st, s.Commands[0])
	for i, conn := range connectors(s) {
		switch {
		case conn == pipeline.And && status == 0:
			status = e.runCommand(ctx, st, s.Commands[i+1])
		case conn == pipeline.Or && status != 0:
			status = e.runCommand(ctx, st, s.Commands[i+1])
		}
	}
	return status
}

// connectors returns the connector before each command after the first.
func connectors(s *pipeline.Statement) []pipeline.Connector {
	if s.Mixed {
		return s.Connectors
	}
	conn := pipeline.And
	if s.Op == pipeline.OpOr {
		conn = pipeline.Or
	}
	out := make([]pipeline.Connector, len(s.Commands)-1)
	for i := range out {
		out[i] = conn
	}
	return out
}

// pipe forks the stages left to right, waiting for each before starting
// the next. A stage that writes more than the pipe buffer holds blocks
// until the shell moves on, so pipelines suit small outputs.
func (e *Engine) pipe(ctx context.Context, st *state) int {
	cmds := st.stmt.Commands
	in := st.stdin
	status := 0
	for i, c := range cmds {
		out := st.stdout
		var r, w *os.File
		if i < len(cmds)-1 {
			var err error
			r, w, err = os.Pipe()
			if err != nil {
				e.diagf(st, "pipe failed: %v", err)
				closeReader(in, st)
				return 1
			}
			out = w
		}

		cmd := e.command(ctx, c, in, out, st.stderr)
		err := cmd.Start()
		if w != nil {
			w.Close()
		}
		if err == nil {
			err = cmd.Wait()
		}
		status = e.status(st, c.Name, err)

		closeReader(in, st)
		in = r
	}
	return status
}

func closeReader(f *os.File, st *state) {
	if f != nil && f != st.stdin {
		f.Close()
	}
}

func (e *Engine) count(ctx context.Context, st *state) int {
	var file string
	for _, c := range st.stmt.Commands {
		if argv := c.Argv(); len(argv) == 1 {
			file = argv[0]
		}
	}
	return e.spawn(ctx, st, pipeline.Command{Name: "wc", Args: []string{"-w", file}}, st.stdin, st.stdout)
}

func (e *Engine) redirectIn(ctx context.Context, st *state) int {
	name := st.stmt.Commands[1].Name
	f, err := os.Open(name)
	if err != nil {
		e.diagf(st, "file %s does not exist", name)
		return 1
	}
	defer f.Close()
	return e.spawn(ctx, st, st.stmt.Commands[0], f, st.stdout)
}

func (e *Engine) redirectOut(ctx context.Context, st *state) int {
	name := st.stmt.Commands[1].Name
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0666)
	if err != nil {
		e.diagf(st, "open %s: %v", name, err)
		return 1
	}
	defer f.Close()
	return e.spawn(ctx, st, st.stmt.Commands[0], st.stdin, f)
}

// appendOut captures up to AppendCap bytes of the command's output through
// a pipe and appends them to the target with a single write.
func (e *Engine) appendOut(ctx context.Context, st *state) int {
	name := st.stmt.Commands[1].Name
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		e.diagf(st, "open %s: %v", name, err)
		return 1
	}
	defer f.Close()

	r, w, err := os.Pipe()
	if err != nil {
		e.diagf(st, "pipe failed: %v", err)
		return 1
	}
	defer r.Close()

	c := st.stmt.Commands[0]
	cmd := e.command(ctx, c, st.stdin, w, st.stderr)
	err = cmd.Start()
	w.Close()
	if err != nil {
		return e.status(st, c.Name, err)
	}

	buf, readErr := io.ReadAll(io.LimitReader(r, AppendCap))
	_, _ = io.Copy(io.Discard, r)
	status := e.status(st, c.Name, cmd.Wait())
	if readErr != nil {
		e.diagf(st, "read from pipe: %v", readErr)
		return 1
	}
	if _, err := f.Write(buf); err != nil {
		e.diagf(st, "append to %s: %v", name, err)
		return 1
	}
	return status
}

// background starts one job per program named before '+'. A token that
// resolves on PATH starts a new job; any other token is an argument of the
// job before it.
func (e *Engine) background(st *state) int {
	status := 0
	for _, argv := range groupJobs(st.stmt.Commands[0].Argv()) {
		status = e.startJob(st, argv)
	}
	return status
}

func groupJobs(tokens []string) [][]string {
	var groups [][]string
	for i, tok := range tokens {
		if i == 0 {
			groups = append(groups, []string{tok})
			continue
		}
		if _, err := exec.LookPath(tok); err == nil {
			groups = append(groups, []string{tok})
			continue
		}
		last := len(groups) - 1
		groups[last] = append(groups[last], tok)
	}
	return groups
}

func (e *Engine) startJob(st *state, argv []string) int {
	scratch, err := os.OpenFile(e.scratch, os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0666)
	if err != nil {
		e.diagf(st, "open %s: %v", e.scratch, err)
		return 1
	}
	defer scratch.Close()

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = scratch
	setOutput(cmd, st.stdout, st.stderr)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	job, err := e.jobs.Start(cmd, strings.Join(argv, " "))
	if errors.Is(err, jobs.ErrTableFull) {
		e.diagf(st, "%v", err)
		return 1
	}
	if err != nil {
		e.diagf(st, "%s: command not found", argv[0])
		return StatusNotFound
	}
	fmt.Fprintf(writer(st.stdout), "[%d] %d\n", job.Index, job.Pid)
	return 0
}
