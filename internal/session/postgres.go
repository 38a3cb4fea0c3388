package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver

	"github.com/leapstack-labs/bulkload/pkg/core"
)

func init() {
	Register("postgres", func(logger *slog.Logger) Session { return NewPostgres(logger) })
	// Redshift is wire-compatible with PostgreSQL; only the dialect
	// identifier differs so compiler dispatch picks the COPY-from-S3 path.
	Register("redshift", func(logger *slog.Logger) Session {
		s := NewPostgres(logger)
		s.dialect = "redshift"
		return s
	})
}

// Postgres implements Session over PostgreSQL or Redshift via pgx.
type Postgres struct {
	base
	dialect string
}

// NewPostgres creates an unconnected PostgreSQL session.
func NewPostgres(logger *slog.Logger) *Postgres {
	return &Postgres{base: newBase(logger), dialect: "postgres"}
}

// Dialect returns the engine identifier.
func (s *Postgres) Dialect() string { return s.dialect }

// Connect establishes the connection.
func (s *Postgres) Connect(ctx context.Context, cfg Config) error {
	s.Logger.Debug("connecting to "+s.dialect,
		slog.String("host", cfg.Host), slog.String("database", cfg.Database))
	return s.connect(ctx, "pgx", buildDSN(cfg), cfg)
}

// buildDSN constructs a key=value connection string.
func buildDSN(cfg Config) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 5432
	}

	sslmode := "disable"
	if cfg.Options != nil {
		if mode, ok := cfg.Options["sslmode"]; ok {
			sslmode = mode
		}
	}

	parts := []string{
		fmt.Sprintf("host=%s", host),
		fmt.Sprintf("port=%d", port),
		fmt.Sprintf("sslmode=%s", sslmode),
	}
	if cfg.User != "" {
		parts = append(parts, fmt.Sprintf("user=%s", cfg.User))
	}
	if cfg.Password != "" {
		parts = append(parts, fmt.Sprintf("password=%s", cfg.Password))
	}
	if cfg.Database != "" {
		parts = append(parts, fmt.Sprintf("dbname=%s", cfg.Database))
	}
	return strings.Join(parts, " ")
}

// DefaultSchema asks the engine for its current schema.
func (s *Postgres) DefaultSchema(ctx context.Context) (string, error) {
	if s.DB == nil {
		return "", fmt.Errorf("database connection not established")
	}
	var schema string
	if err := s.DB.QueryRowContext(ctx, "SELECT current_schema()").Scan(&schema); err != nil {
		return "", fmt.Errorf("failed to query current schema: %w", err)
	}
	return schema, nil
}

// Reflect reads column metadata from information_schema.
func (s *Postgres) Reflect(ctx context.Context, schema, table string) (*core.TableMetadata, error) {
	if schema == "" {
		var err error
		schema, err = s.DefaultSchema(ctx)
		if err != nil {
			return nil, err
		}
	}
	return s.reflectInformationSchema(ctx, schema, table, dollarPlaceholder)
}

var _ Session = (*Postgres)(nil)
