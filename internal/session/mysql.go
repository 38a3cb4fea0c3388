package session

import (
	"context"
	"fmt"
	"log/slog"

	_ "github.com/go-sql-driver/mysql" // mysql driver

	"github.com/leapstack-labs/bulkload/pkg/core"
)

func init() {
	Register("mysql", func(logger *slog.Logger) Session { return NewMySQL(logger) })
}

// MySQL implements Session over MySQL.
type MySQL struct {
	base
}

// NewMySQL creates an unconnected MySQL session.
func NewMySQL(logger *slog.Logger) *MySQL {
	return &MySQL{base: newBase(logger)}
}

// Dialect returns the engine identifier.
func (s *MySQL) Dialect() string { return "mysql" }

// Connect establishes the connection. allowAllFiles is enabled so that
// client-side LOAD DATA LOCAL INFILE works through the driver.
func (s *MySQL) Connect(ctx context.Context, cfg Config) error {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 3306
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?allowAllFiles=true",
		cfg.User, cfg.Password, host, port, cfg.Database)

	s.Logger.Debug("connecting to mysql",
		slog.String("host", host), slog.String("database", cfg.Database))
	return s.connect(ctx, "mysql", dsn, cfg)
}

// DefaultSchema is the current database; MySQL conflates the two.
func (s *MySQL) DefaultSchema(ctx context.Context) (string, error) {
	if s.DB == nil {
		return "", fmt.Errorf("database connection not established")
	}
	var schema string
	if err := s.DB.QueryRowContext(ctx, "SELECT DATABASE()").Scan(&schema); err != nil {
		return "", fmt.Errorf("failed to query current database: %w", err)
	}
	return schema, nil
}

// Reflect reads column metadata from information_schema.
func (s *MySQL) Reflect(ctx context.Context, schema, table string) (*core.TableMetadata, error) {
	if schema == "" {
		var err error
		schema, err = s.DefaultSchema(ctx)
		if err != nil {
			return nil, err
		}
	}
	return s.reflectInformationSchema(ctx, schema, table, questionPlaceholder)
}

var _ Session = (*MySQL)(nil)
