// Package engine resolves and runs one input line at a time.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/marcelocantos/minibash/internal/audit"
	"github.com/marcelocantos/minibash/internal/builtin"
	"github.com/marcelocantos/minibash/internal/jobs"
	"github.com/marcelocantos/minibash/internal/pipeline"
)

const (
	// StatusNotFound is reported for commands that could not be executed.
	StatusNotFound = jobs.StatusNotFound

	// StatusSyntax is reported for rejected lines.
	StatusSyntax = 2

	// AppendCap bounds how much output '>>' appends per statement.
	AppendCap = 5000
)

// ScratchPath is the file background jobs read their stdin from.
var ScratchPath = filepath.Join(os.TempDir(), "minibash.scratch")

var errColor = color.New(color.FgRed)

// Kind classifies the outcome of a line.
type Kind int

const (
	Ignored   Kind = iota // nothing to run
	Completed             // ran, Status holds the result
	Rejected              // syntax error, nothing ran
)

func (k Kind) String() string {
	switch k {
	case Ignored:
		return "ignored"
	case Completed:
		return "completed"
	case Rejected:
		return "syntax-error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Outcome is the result of RunLine.
type Outcome struct {
	Kind   Kind
	Status int
	Err    error // the syntax error when Kind is Rejected
}

// Engine runs statements against a job coordinator. Children inherit the
// streams saved in the coordinator's table unless a redirection applies.
type Engine struct {
	jobs     *jobs.Coordinator
	builtins *builtin.Registry
	journal  *audit.Logger
	scratch  string

	mu sync.Mutex
}

// New creates an engine. journal may be nil.
func New(coord *jobs.Coordinator, builtins *builtin.Registry, journal *audit.Logger) *Engine {
	return &Engine{
		jobs:     coord,
		builtins: builtins,
		journal:  journal,
		scratch:  ScratchPath,
	}
}

// Jobs returns the engine's job coordinator.
func (e *Engine) Jobs() *jobs.Coordinator {
	return e.jobs
}

// state is the per-line execution state. Nothing in it outlives the line.
type state struct {
	stmt   *pipeline.Statement
	script bool
	stdin  *os.File
	stdout *os.File
	stderr *os.File
}

// RunLine resolves and runs one line. script marks lines fed by the script
// driver rather than typed at a prompt.
func (e *Engine) RunLine(ctx context.Context, line string, script bool) Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()

	streams := e.jobs.Table().Streams()
	st := &state{
		script: script,
		stdin:  streams.Stdin,
		stdout: streams.Stdout,
		stderr: streams.Stderr,
	}

	start := time.Now()
	stmt, err := pipeline.Parse(line)
	if errors.Is(err, pipeline.ErrEmpty) {
		return Outcome{Kind: Ignored}
	}
	if err == nil {
		stmt, err = disambiguate(stmt)
	}
	if err == nil {
		err = stmt.Check()
	}
	if errors.Is(err, pipeline.ErrEmpty) {
		return Outcome{Kind: Ignored}
	}
	if err != nil {
		e.diagf(st, "%v", err)
		out := Outcome{Kind: Rejected, Status: StatusSyntax, Err: err}
		e.record(line, stmt, st, out, time.Since(start))
		return out
	}

	st.stmt = stmt
	out := Outcome{Kind: Completed, Status: e.dispatch(ctx, st)}
	e.record(stmt.Line, stmt, st, out, time.Since(start))
	return out
}

// disambiguate treats "cd ~..." as a plain command: there the tilde is the
// home directory, not the concatenate operator.
func disambiguate(stmt *pipeline.Statement) (*pipeline.Statement, error) {
	if stmt.Op != pipeline.OpConcat || stmt.Commands[0].Name != "cd" {
		return stmt, nil
	}
	cmd, err := pipeline.Tokenize(stmt.Line)
	if err != nil {
		return nil, err
	}
	return &pipeline.Statement{Line: stmt.Line, Op: pipeline.OpNone, Commands: []pipeline.Command{cmd}}, nil
}

func (e *Engine) diagf(st *state, format string, args ...any) {
	errColor.Fprintf(writer(st.stderr), "minibash: "+format+"\n", args...)
}

func (e *Engine) record(line string, stmt *pipeline.Statement, st *state, out Outcome, d time.Duration) {
	if e.journal == nil {
		return
	}
	rec := audit.Record{
		Line:     line,
		Script:   st.script,
		Outcome:  out.Kind.String(),
		Status:   out.Status,
		Duration: d,
	}
	if stmt != nil {
		rec.Line = stmt.Line
		rec.Operator = stmt.Op.String()
		for _, c := range stmt.Commands {
			if !c.Empty() {
				rec.Commands = append(rec.Commands, c.Name)
			}
		}
		for _, c := range stmt.Connectors {
			rec.Connectors = append(rec.Connectors, c.String())
		}
	}
	if out.Err != nil {
		rec.Error = out.Err.Error()
	}
	rec.Cwd, _ = os.Getwd()
	// Journal failures never fail a statement.
	_ = e.journal.Log(rec)
}

// writer returns w, or io.Discard for a nil file.
func writer(f *os.File) io.Writer {
	if f == nil {
		return io.Discard
	}
	return f
}
