// Package dialect provides the compiler registry that routes a load
// request to the engine-specific command compiler.
//
// Concrete compilers live in pkg/dialects/ subdirectories and register
// themselves in their init() functions. Importing a dialect package for
// side effects is how an application opts in to that engine:
//
//	import _ "github.com/leapstack-labs/bulkload/pkg/dialects/postgres"
package dialect

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/leapstack-labs/bulkload/pkg/core"
)

// Compiler maps (table, resource, options) to an engine-native command.
// Compilers never contain cross-medium logic: by the time Compile runs,
// the relocation planner has guaranteed the resource medium matches
// RequiredMedium.
type Compiler interface {
	// Name returns the engine identifier this compiler handles.
	Name() string

	// RequiredMedium reports where the resource must live for this
	// engine's bulk loader to see it.
	RequiredMedium() core.Medium

	// Compile builds the load command. The context covers any engine
	// introspection the dialect needs (e.g. default schema discovery).
	Compile(ctx context.Context, table *core.Table, res *core.Resource, opts core.Options) (*core.Command, error)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Compiler)
)

// Register adds a compiler to the registry. Called by dialect
// implementations in their init() functions.
func Register(c Compiler) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[strings.ToLower(c.Name())] = c
}

// Get returns the compiler for an engine identifier.
func Get(name string) (Compiler, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	c, ok := registry[strings.ToLower(name)]
	return c, ok
}

// List returns all registered dialect names (sorted).
func List() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a dialect is registered.
func IsRegistered(name string) bool {
	_, ok := Get(name)
	return ok
}

// Lookup resolves an engine identifier or returns UnsupportedDialectError,
// which signals the caller to fall back to a row-by-row insert path.
func Lookup(name string) (Compiler, error) {
	c, ok := Get(name)
	if !ok {
		return nil, &core.UnsupportedDialectError{
			Dialect:   name,
			Available: List(),
		}
	}
	return c, nil
}
