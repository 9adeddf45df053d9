package audit

import "time"

// Entry represents a single journal record: one input line that reached
// resolution.
type Entry struct {
	Seq        uint64    `json:"seq"`
	Time       time.Time `json:"ts"`
	PrevHash   string    `json:"prev_hash"`
	Line       string    `json:"line"`                  // normalized input line
	Operator   string    `json:"operator,omitempty"`    // resolved operator, empty if rejected early
	Commands   []string  `json:"commands,omitempty"`    // command names in order
	Connectors []string  `json:"connectors,omitempty"`  // mixed-conditional connector sequence
	Script     bool      `json:"script,omitempty"`      // true when fed by the script driver
	Outcome    string    `json:"outcome"`               // "completed" or "syntax-error"
	Status     int       `json:"status"`                // completion status
	Error      string    `json:"error,omitempty"`       // diagnostic if rejected
	Duration   float64   `json:"duration_ms"`           // execution time in milliseconds
	Cwd        string    `json:"cwd"`                   // working directory
	Hash       string    `json:"hash"`                  // SHA-256 of this entry (with hash field empty)
}

// Record carries the caller-supplied fields of an entry.
type Record struct {
	Line       string
	Operator   string
	Commands   []string
	Connectors []string
	Script     bool
	Outcome    string
	Status     int
	Error      string
	Duration   time.Duration
	Cwd        string
}
