package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/afero"

	"github.com/marcelocantos/minibash/internal/audit"
)

// RunJournalVerify checks the hash chain of the journal at path.
func RunJournalVerify(w io.Writer, fs afero.Fs, path string) int {
	if err := audit.Verify(fs, path); err != nil {
		fmt.Fprintf(w, "%s %v\n", failColor("journal verification FAILED:"), err)
		return 1
	}
	fmt.Fprintln(w, okColor("journal integrity verified"))
	return 0
}

// RunJournalTail prints the last n journal entries as JSON.
func RunJournalTail(w io.Writer, fs afero.Fs, path string, n int) int {
	entries, err := audit.Tail(fs, path, n)
	if err != nil {
		fmt.Fprintf(w, "minibash journal: %v\n", err)
		return 1
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "no journal entries")
		return 0
	}
	for _, e := range entries {
		data, _ := json.MarshalIndent(e, "", "  ")
		fmt.Fprintf(w, "%s\n", data)
	}
	return 0
}
