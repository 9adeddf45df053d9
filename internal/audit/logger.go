package audit

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/afero"
)

const genesisInput = "minibash-genesis"

// Logger is an append-only, hash-chained statement journal writer.
type Logger struct {
	mu       sync.Mutex
	fs       afero.Fs
	path     string
	seq      uint64
	prevHash string
}

// NewLogger opens or creates a journal at the given path.
// It reads the last entry to resume the hash chain.
func NewLogger(fs afero.Fs, path string) (*Logger, error) {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}

	l := &Logger{
		fs:       fs,
		path:     path,
		prevHash: genesisHash(),
	}

	if data, err := afero.ReadFile(fs, path); err == nil && len(data) > 0 {
		lines := splitLines(data)
		if len(lines) > 0 {
			var last Entry
			if err := json.Unmarshal(lines[len(lines)-1], &last); err == nil {
				l.seq = last.Seq
				l.prevHash = last.Hash
			}
		}
	}

	return l, nil
}

// Log appends an entry for rec to the journal.
func (l *Logger) Log(rec Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	entry := Entry{
		Seq:        l.seq,
		Time:       time.Now().UTC(),
		PrevHash:   l.prevHash,
		Line:       rec.Line,
		Operator:   rec.Operator,
		Commands:   rec.Commands,
		Connectors: rec.Connectors,
		Script:     rec.Script,
		Outcome:    rec.Outcome,
		Status:     rec.Status,
		Error:      rec.Error,
		Duration:   float64(rec.Duration.Microseconds()) / 1000.0,
		Cwd:        rec.Cwd,
	}

	entry.Hash = computeHash(entry)

	data, err := json.Marshal(entry)
	if err != nil {
		l.seq--
		return fmt.Errorf("marshal journal entry: %w", err)
	}
	data = append(data, '\n')

	f, err := l.fs.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		l.seq--
		return fmt.Errorf("open journal: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		l.seq--
		return fmt.Errorf("write journal entry: %w", err)
	}
	l.prevHash = entry.Hash
	return nil
}

// Path returns the journal file path.
func (l *Logger) Path() string {
	return l.path
}

// Tail returns the last n entries of this logger's journal.
func (l *Logger) Tail(n int) ([]Entry, error) {
	return Tail(l.fs, l.path, n)
}

func genesisHash() string {
	h := sha256.Sum256([]byte(genesisInput))
	return fmt.Sprintf("%x", h)
}

func computeHash(e Entry) string {
	e.Hash = ""
	data, _ := json.Marshal(e)
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h)
}

func splitLines(data []byte) [][]byte {
	var lines [][]byte
	start := 0
	for i, b := range data {
		if b == '\n' {
			if i > start {
				lines = append(lines, data[start:i])
			}
			start = i + 1
		}
	}
	if start < len(data) {
		lines = append(lines, data[start:])
	}
	return lines
}
