package session

import (
	"context"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite" // sqlite driver

	"github.com/leapstack-labs/bulkload/pkg/core"
)

func init() {
	Register("sqlite", func(logger *slog.Logger) Session { return NewSQLite(logger) })
}

// SQLite implements Session over a SQLite database file.
type SQLite struct {
	base
}

// NewSQLite creates an unconnected SQLite session.
func NewSQLite(logger *slog.Logger) *SQLite {
	return &SQLite{base: newBase(logger)}
}

// Dialect returns the engine identifier.
func (s *SQLite) Dialect() string { return "sqlite" }

// Connect opens the database file, or an in-memory database when the
// path is empty.
func (s *SQLite) Connect(ctx context.Context, cfg Config) error {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}
	s.Logger.Debug("connecting to sqlite", slog.String("path", path))
	return s.connect(ctx, "sqlite", path, cfg)
}

// DefaultSchema is always "main" for SQLite.
func (s *SQLite) DefaultSchema(_ context.Context) (string, error) {
	return "main", nil
}

// Reflect reads column metadata via PRAGMA table_info; SQLite has no
// information_schema.
func (s *SQLite) Reflect(ctx context.Context, schema, table string) (*core.TableMetadata, error) {
	if s.DB == nil {
		return nil, fmt.Errorf("database connection not established")
	}
	if schema == "" {
		schema = "main"
	}

	query := fmt.Sprintf("PRAGMA table_info(%s)", table) //nolint:gosec // Table names come from reflection targets
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query column metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []core.Column
	for rows.Next() {
		var (
			cid       int
			name      string
			typ       string
			notNull   int
			dfltValue any
			pk        int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dfltValue, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column metadata: %w", err)
		}
		columns = append(columns, core.Column{
			Name:     name,
			Type:     typ,
			Nullable: notNull == 0,
			Position: cid + 1,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column metadata: %w", err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s not found", table)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", table) //nolint:gosec // Table names come from reflection targets
	var rowCount int64
	if err := s.DB.QueryRowContext(ctx, countQuery).Scan(&rowCount); err != nil {
		rowCount = 0
	}

	return &core.TableMetadata{
		Schema:   schema,
		Name:     table,
		Columns:  columns,
		RowCount: rowCount,
	}, nil
}

var _ Session = (*SQLite)(nil)
