package audit

import (
	"testing"
	"time"

	"github.com/spf13/afero"
)

const journalPath = "/var/minibash/journal.jsonl"

func record(line string, status int) Record {
	return Record{
		Line:     line,
		Operator: "pipe",
		Commands: []string{"echo", "cat"},
		Outcome:  "completed",
		Status:   status,
		Duration: time.Millisecond,
		Cwd:      "/tmp",
	}
}

func newLogger(t *testing.T, fs afero.Fs) *Logger {
	t.Helper()
	logger, err := NewLogger(fs, journalPath)
	if err != nil {
		t.Fatal(err)
	}
	return logger
}

func TestLogAndVerify(t *testing.T) {
	fs := afero.NewMemMapFs()
	logger := newLogger(t, fs)

	for i := 0; i < 5; i++ {
		if err := logger.Log(record("echo A | cat", i)); err != nil {
			t.Fatalf("log entry %d: %v", i, err)
		}
	}

	if err := Verify(fs, journalPath); err != nil {
		t.Fatalf("verify failed: %v", err)
	}
}

func TestVerifyDetectsTampering(t *testing.T) {
	fs := afero.NewMemMapFs()
	logger := newLogger(t, fs)

	for i := 0; i < 3; i++ {
		_ = logger.Log(record("ls ; pwd", 0))
	}

	data, err := afero.ReadFile(fs, journalPath)
	if err != nil {
		t.Fatal(err)
	}
	mid := len(data) / 2
	if data[mid] == 'a' {
		data[mid] = 'b'
	} else {
		data[mid] = 'a'
	}
	if err := afero.WriteFile(fs, journalPath, data, 0600); err != nil {
		t.Fatal(err)
	}

	if err := Verify(fs, journalPath); err == nil {
		t.Fatal("expected verify to detect tampering")
	}
}

func TestVerifyDetectsSequenceGap(t *testing.T) {
	fs := afero.NewMemMapFs()
	logger := newLogger(t, fs)

	for i := 0; i < 5; i++ {
		_ = logger.Log(record("true && echo ok", 0))
	}

	data, err := afero.ReadFile(fs, journalPath)
	if err != nil {
		t.Fatal(err)
	}
	lines := splitLines(data)
	remaining := append(lines[:2], lines[3:]...)
	var newData []byte
	for _, line := range remaining {
		newData = append(newData, line...)
		newData = append(newData, '\n')
	}
	if err := afero.WriteFile(fs, journalPath, newData, 0600); err != nil {
		t.Fatal(err)
	}

	if err := Verify(fs, journalPath); err == nil {
		t.Fatal("expected verify to detect sequence gap")
	}
}

func TestVerifyEmptyJournal(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, journalPath, nil, 0600); err != nil {
		t.Fatal(err)
	}
	if err := Verify(fs, journalPath); err != nil {
		t.Fatalf("empty journal should be valid: %v", err)
	}
}

func TestVerifyMissingJournal(t *testing.T) {
	if err := Verify(afero.NewMemMapFs(), journalPath); err == nil {
		t.Fatal("expected error for missing journal")
	}
}

func TestLoggerResumesChain(t *testing.T) {
	fs := afero.NewMemMapFs()

	logger1 := newLogger(t, fs)
	_ = logger1.Log(record("first", 0))
	_ = logger1.Log(record("second", 1))

	logger2 := newLogger(t, fs)
	_ = logger2.Log(record("third", 0))

	if err := Verify(fs, journalPath); err != nil {
		t.Fatalf("chain should be valid after restart: %v", err)
	}

	entries, err := logger2.Tail(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[2].Seq != 3 {
		t.Errorf("expected seq 3, got %d", entries[2].Seq)
	}
	if entries[1].Line != "second" || entries[1].Status != 1 {
		t.Errorf("unexpected entry: %+v", entries[1])
	}
}

func TestTailLimits(t *testing.T) {
	fs := afero.NewMemMapFs()
	logger := newLogger(t, fs)
	for _, line := range []string{"a", "b", "c", "d"} {
		_ = logger.Log(record(line, 0))
	}

	entries, err := Tail(fs, journalPath, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].Line != "c" || entries[1].Line != "d" {
		t.Fatalf("unexpected tail: %+v", entries)
	}

	entries, err = Tail(fs, journalPath, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(entries))
	}
}

func TestSyntaxErrorEntry(t *testing.T) {
	fs := afero.NewMemMapFs()
	logger := newLogger(t, fs)
	err := logger.Log(Record{
		Line:    "ls | sort ; pwd",
		Outcome: "syntax-error",
		Status:  2,
		Error:   "can't have more than 1 different special character in a statement",
	})
	if err != nil {
		t.Fatal(err)
	}
	entries, _ := logger.Tail(1)
	if len(entries) != 1 || entries[0].Operator != "" || entries[0].Outcome != "syntax-error" {
		t.Fatalf("unexpected entry: %+v", entries)
	}
}
