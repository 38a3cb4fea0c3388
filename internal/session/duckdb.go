package session

import (
	"context"
	"log/slog"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver

	"github.com/leapstack-labs/bulkload/pkg/core"
)

func init() {
	Register("duckdb", func(logger *slog.Logger) Session { return NewDuckDB(logger) })
}

// DuckDB implements Session over a DuckDB database file.
type DuckDB struct {
	base
}

// NewDuckDB creates an unconnected DuckDB session.
func NewDuckDB(logger *slog.Logger) *DuckDB {
	return &DuckDB{base: newBase(logger)}
}

// Dialect returns the engine identifier.
func (s *DuckDB) Dialect() string { return "duckdb" }

// Connect opens the database file, or an in-memory database when the
// path is empty.
func (s *DuckDB) Connect(ctx context.Context, cfg Config) error {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}
	s.Logger.Debug("connecting to duckdb", slog.String("path", path))
	return s.connect(ctx, "duckdb", path, cfg)
}

// DefaultSchema is always "main" for DuckDB.
func (s *DuckDB) DefaultSchema(_ context.Context) (string, error) {
	return "main", nil
}

// Reflect reads column metadata from DuckDB's information_schema.
func (s *DuckDB) Reflect(ctx context.Context, schema, table string) (*core.TableMetadata, error) {
	if schema == "" {
		schema = "main"
	}
	return s.reflectInformationSchema(ctx, schema, table, questionPlaceholder)
}

var _ Session = (*DuckDB)(nil)
