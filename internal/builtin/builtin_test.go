package builtin

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/marcelocantos/minibash/internal/audit"
	"github.com/marcelocantos/minibash/internal/jobs"
)

func newEnv(t *testing.T) (*Env, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	coord := jobs.NewCoordinator(jobs.NewTable(jobs.StdStreams()), &stderr)
	coord.SetExit(func(int) {})
	t.Cleanup(coord.KillAll)
	return &Env{Stdout: &stdout, Stderr: &stderr, Jobs: coord}, &stdout, &stderr
}

func TestRegistryAllSorted(t *testing.T) {
	reg := NewRegistry()
	RegisterAll(reg)

	var names []string
	for _, b := range reg.All() {
		names = append(names, b.Name())
	}
	assert.Equal(t, []string{"addmb", "cd", "clear", "dter", "dtex", "exit", "fore", "help", "history", "jobs"}, names)

	_, ok := reg.Lookup("ls")
	assert.False(t, ok)
	b, ok := reg.Lookup("cd")
	require.True(t, ok)
	assert.Equal(t, "cd", b.Name())
}

func TestRegistryContext(t *testing.T) {
	reg := NewRegistry()
	_, ok := RegistryFromContext(context.Background())
	assert.False(t, ok)

	got, ok := RegistryFromContext(NewContext(context.Background(), reg))
	require.True(t, ok)
	assert.Same(t, reg, got)
}

func TestCd(t *testing.T) {
	t.Chdir(t.TempDir())
	env, _, _ := newEnv(t)
	dir := t.TempDir()

	require.NoError(t, (&Cd{}).Run(context.Background(), env, []string{dir}))
	wd, err := os.Getwd()
	require.NoError(t, err)
	want, _ := filepath.EvalSymlinks(dir)
	got, _ := filepath.EvalSymlinks(wd)
	assert.Equal(t, want, got)
}

func TestCdHome(t *testing.T) {
	t.Chdir(t.TempDir())
	home := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(home, "src"), 0755))
	t.Setenv("HOME", home)
	env, _, _ := newEnv(t)

	for _, args := range [][]string{nil, {"~"}} {
		require.NoError(t, (&Cd{}).Run(context.Background(), env, args))
		wd, _ := os.Getwd()
		got, _ := filepath.EvalSymlinks(wd)
		want, _ := filepath.EvalSymlinks(home)
		assert.Equal(t, want, got)
	}

	require.NoError(t, (&Cd{}).Run(context.Background(), env, []string{"~/src"}))
	wd, _ := os.Getwd()
	assert.Equal(t, "src", filepath.Base(wd))
}

func TestCdFailures(t *testing.T) {
	t.Chdir(t.TempDir())
	env, _, stderr := newEnv(t)

	assert.EqualError(t, (&Cd{}).Validate([]string{"a", "b"}), "too many arguments")

	err := (&Cd{}).Run(context.Background(), env, []string{"/nonexistent/minibash"})
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.Code)
	assert.Equal(t, "No Such Directory /nonexistent/minibash\n", stderr.String())
}

func TestForeEmptyTable(t *testing.T) {
	env, _, stderr := newEnv(t)
	err := (&Fore{}).Run(context.Background(), env, nil)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, "fg: current: no such job\n", stderr.String())
}

func TestForeResumesLastJob(t *testing.T) {
	env, stdout, _ := newEnv(t)
	job, err := env.Jobs.Start(exec.Command("sleep", "30"), "sleep 30")
	require.NoError(t, err)
	defer func() { _ = unix.Kill(job.Pid, unix.SIGKILL) }()

	require.NoError(t, (&Fore{}).Run(context.Background(), env, nil))
	assert.Contains(t, stdout.String(), "Process with pid:"+strconv.Itoa(job.Pid)+" moved to foreground")
	assert.Equal(t, 0, env.Jobs.Table().Len())
}

func TestJobsTable(t *testing.T) {
	env, stdout, _ := newEnv(t)
	require.NoError(t, (&Jobs{}).Run(context.Background(), env, nil))
	assert.Equal(t, "no background jobs\n", stdout.String())

	stdout.Reset()
	job, err := env.Jobs.Start(exec.Command("sleep", "30"), "sleep 30")
	require.NoError(t, err)
	require.NoError(t, (&Jobs{}).Run(context.Background(), env, nil))
	out := stdout.String()
	assert.Contains(t, out, "INDEX")
	assert.Contains(t, out, strconv.Itoa(job.Pid))
	assert.Contains(t, out, "sleep 30")
}

func TestHistory(t *testing.T) {
	env, stdout, stderr := newEnv(t)

	err := (&History{}).Run(context.Background(), env, nil)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, "history: journal disabled\n", stderr.String())

	logger, err := audit.NewLogger(afero.NewMemMapFs(), "/journal.jsonl")
	require.NoError(t, err)
	for _, line := range []string{"ls -l", "echo A | cat", "false || true"} {
		require.NoError(t, logger.Log(audit.Record{Line: line, Outcome: "completed", Duration: time.Millisecond}))
	}
	env.Journal = logger

	require.NoError(t, (&History{}).Validate([]string{"2"}))
	require.NoError(t, (&History{}).Run(context.Background(), env, []string{"2"}))
	out := stdout.String()
	assert.NotContains(t, out, "ls -l")
	assert.Contains(t, out, "echo A | cat")
	assert.Contains(t, out, "false || true")
}

func TestHistoryValidate(t *testing.T) {
	h := &History{}
	assert.NoError(t, h.Validate(nil))
	assert.EqualError(t, h.Validate([]string{"x"}), "x: numeric argument required")
	assert.EqualError(t, h.Validate([]string{"1", "2"}), "too many arguments")
}

func TestHelpListsBuiltinsAndOperators(t *testing.T) {
	reg := NewRegistry()
	RegisterAll(reg)
	env, stdout, _ := newEnv(t)

	require.NoError(t, (&Help{}).Run(NewContext(context.Background(), reg), env, nil))
	out := stdout.String()
	for _, b := range reg.All() {
		assert.Contains(t, out, b.Name())
	}
	assert.Contains(t, out, ">>  append")
	assert.Contains(t, out, "&&  and")

	assert.Error(t, (&Help{}).Run(context.Background(), env, nil))
}

func TestClear(t *testing.T) {
	env, stdout, _ := newEnv(t)
	require.NoError(t, (&Clear{}).Run(context.Background(), env, nil))
	assert.Equal(t, "\033[1;1H\033[2J", stdout.String())
}

func TestExitShutsDown(t *testing.T) {
	env, _, _ := newEnv(t)
	code := -1
	env.Jobs.SetExit(func(n int) { code = n })
	require.NoError(t, (&Exit{}).Run(context.Background(), env, nil))
	assert.Equal(t, 0, code)
}
