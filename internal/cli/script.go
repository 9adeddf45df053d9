package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"

	"github.com/marcelocantos/minibash/internal/engine"
)

// RunScript feeds the lines of a script file to the engine. Lines starting
// with '#' and blank lines are skipped. The first syntax error aborts the
// script with status 2; otherwise the status of the last line is returned.
func RunScript(ctx context.Context, fs afero.Fs, eng *engine.Engine, path string, w io.Writer) int {
	f, err := fs.Open(path)
	if err != nil {
		fmt.Fprintf(w, "minibash: script not found: %s\n", path)
		return 1
	}
	defer f.Close()

	status := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if ctx.Err() != nil {
			return 1
		}

		fmt.Fprintf(w, "\n%s%s\n", commandColor("Command:"), line)
		out := eng.RunLine(ctx, line, true)
		switch out.Kind {
		case engine.Rejected:
			return engine.StatusSyntax
		case engine.Completed:
			status = out.Status
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(w, "minibash: read %s: %v\n", path, err)
		return 1
	}
	return status
}
