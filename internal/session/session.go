// Package session implements core.Session over database/sql for the
// supported engines. Each driver file registers itself in init(); Open
// routes a target config to the right implementation.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/leapstack-labs/bulkload/pkg/core"
)

// Config holds connection settings for a target engine.
type Config struct {
	// Type is the engine identifier ("sqlite", "duckdb", "postgres",
	// "mysql", "redshift").
	Type string

	// Path is the database file for file-based engines.
	Path string

	// Network engines.
	Host     string
	Port     int
	Database string
	User     string
	Password string

	// Schema is the default namespace override, if any.
	Schema string

	// Options carries driver-specific DSN options.
	Options map[string]string
}

// Session extends core.Session with connection establishment, which the
// core pipeline never performs itself.
type Session interface {
	core.Session
	Connect(ctx context.Context, cfg Config) error
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]func(*slog.Logger) Session)
)

// Register adds a session factory. Called by driver implementations in
// their init() functions.
func Register(name string, factory func(*slog.Logger) Session) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[strings.ToLower(name)] = factory
}

// List returns all registered session types (sorted).
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

// Open connects a session for the configured engine type.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (Session, error) {
	registryMu.RLock()
	factory, ok := registry[strings.ToLower(cfg.Type)]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no session driver for engine %q (available: %s)",
			cfg.Type, strings.Join(List(), ", "))
	}
	s := factory(logger)
	if err := s.Connect(ctx, cfg); err != nil {
		return nil, err
	}
	return s, nil
}
