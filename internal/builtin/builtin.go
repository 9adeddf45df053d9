package builtin

import (
	"context"
	"io"
	"sort"
	"sync"

	"github.com/marcelocantos/minibash/internal/audit"
	"github.com/marcelocantos/minibash/internal/jobs"
)

// Builtin is a command run inside the shell process instead of a child.
type Builtin interface {
	// Name returns the command name the builtin answers to.
	Name() string

	// Description returns a human-readable summary for help output.
	Description() string

	// Validate checks args before execution.
	Validate(args []string) error

	// Run executes the builtin against env.
	Run(ctx context.Context, env *Env, args []string) error
}

// Env is what a builtin may touch: the statement's streams, the job
// coordinator and the journal (nil when disabled).
type Env struct {
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	Jobs    *jobs.Coordinator
	Journal *audit.Logger
}

// ExitError represents a builtin that failed with a status after reporting
// the failure itself.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return ""
}

// Registry maps builtin names to implementations.
type Registry struct {
	mu       sync.RWMutex
	builtins map[string]Builtin
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{builtins: make(map[string]Builtin)}
}

// Register adds a builtin to the registry.
func (r *Registry) Register(b Builtin) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builtins[b.Name()] = b
}

// Lookup returns a builtin by name.
func (r *Registry) Lookup(name string) (Builtin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.builtins[name]
	return b, ok
}

// All returns all registered builtins sorted by name.
func (r *Registry) All() []Builtin {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]Builtin, 0, len(r.builtins))
	for _, b := range r.builtins {
		all = append(all, b)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Name() < all[j].Name()
	})
	return all
}

type contextKey struct{}

// NewContext returns a context with the registry attached.
func NewContext(ctx context.Context, reg *Registry) context.Context {
	return context.WithValue(ctx, contextKey{}, reg)
}

// RegistryFromContext retrieves the registry from a context.
func RegistryFromContext(ctx context.Context) (*Registry, bool) {
	reg, ok := ctx.Value(contextKey{}).(*Registry)
	return reg, ok
}
