package jobs

import (
	"errors"
	"os"
	"sync"
)

// Capacity bounds the number of concurrently tracked background jobs.
const Capacity = 1000

var (
	ErrNoSuchJob = errors.New("no such job")
	ErrTableFull = errors.New("background job table full")
)

// Job is one tracked background process.
type Job struct {
	Index int    // 1-based display index, dense across the table
	Pid   int
	Name  string // command line as typed
}

// Streams holds the shell's original standard descriptors. They are
// captured once and never reassigned.
type Streams struct {
	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File
}

// StdStreams returns the process's standard descriptors.
func StdStreams() Streams {
	return Streams{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

type entry struct {
	pid  int
	name string
}

// Table is the registry of background jobs, in insertion order. Removing
// a job shifts every later job down by one index.
type Table struct {
	streams Streams

	mu   sync.Mutex
	jobs []entry
}

// NewTable creates an empty table holding the given original streams.
func NewTable(streams Streams) *Table {
	return &Table{streams: streams}
}

// Streams returns the saved original descriptors.
func (t *Table) Streams() Streams {
	return t.streams
}

// Add appends a job and returns its display index.
func (t *Table) Add(pid int, name string) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.jobs) >= Capacity {
		return 0, ErrTableFull
	}
	t.jobs = append(t.jobs, entry{pid: pid, name: name})
	return len(t.jobs), nil
}

// Lookup returns the display index of pid.
func (t *Table) Lookup(pid int) (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.find(pid)
	return i + 1, i >= 0
}

// Remove drops pid from the table, compacting later entries, and returns
// the index it held.
func (t *Table) Remove(pid int) (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.find(pid)
	if i < 0 {
		return 0, false
	}
	t.jobs = append(t.jobs[:i], t.jobs[i+1:]...)
	return i + 1, true
}

// PopLast removes and returns the most recently added job.
func (t *Table) PopLast() (Job, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := len(t.jobs)
	if n == 0 {
		return Job{}, false
	}
	e := t.jobs[n-1]
	t.jobs = t.jobs[:n-1]
	return Job{Index: n, Pid: e.pid, Name: e.name}, true
}

// Len returns the number of tracked jobs.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.jobs)
}

// Jobs returns a snapshot of the table.
func (t *Table) Jobs() []Job {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Job, len(t.jobs))
	for i, e := range t.jobs {
		out[i] = Job{Index: i + 1, Pid: e.pid, Name: e.name}
	}
	return out
}

// Pids returns the tracked process ids in index order.
func (t *Table) Pids() []int {
	t.mu.Lock()
	defer t.mu.Unlock()
	pids := make([]int, len(t.jobs))
	for i, e := range t.jobs {
		pids[i] = e.pid
	}
	return pids
}

func (t *Table) find(pid int) int {
	for i, e := range t.jobs {
		if e.pid == pid {
			return i
		}
	}
	return -1
}
