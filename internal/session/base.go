package session

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/bulkload/pkg/core"
)

// base provides shared database/sql behavior for session
// implementations. Embed it to get Begin, Close, DatabasePath, and the
// information_schema reflection most engines share.
type base struct {
	DB     *sql.DB
	Cfg    Config
	Logger *slog.Logger
}

func newBase(logger *slog.Logger) base {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return base{Logger: logger}
}

// connect opens and pings a database/sql handle for the named driver.
func (b *base) connect(ctx context.Context, driver, dsn string, cfg Config) error {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return fmt.Errorf("failed to open %s connection: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping %s: %w", driver, err)
	}
	b.DB = db
	b.Cfg = cfg
	return nil
}

// Close closes the database connection.
func (b *base) Close() error {
	if b.DB != nil {
		b.Logger.Debug("closing database connection")
		return b.DB.Close()
	}
	return nil
}

// DatabasePath is the backing file for file-based engines.
func (b *base) DatabasePath() string { return b.Cfg.Path }

// Begin opens a transaction scoped to one compiled command.
func (b *base) Begin(ctx context.Context) (core.Tx, error) {
	if b.DB == nil {
		return nil, fmt.Errorf("database connection not established")
	}
	tx, err := b.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &sqlTx{tx: tx}, nil
}

type sqlTx struct {
	tx *sql.Tx
}

func (t *sqlTx) Exec(ctx context.Context, sqlStr string) error {
	_, err := t.tx.ExecContext(ctx, sqlStr)
	return err
}

func (t *sqlTx) Commit() error   { return t.tx.Commit() }
func (t *sqlTx) Rollback() error { return t.tx.Rollback() }

// reflectInformationSchema reads column and row-count metadata via
// information_schema.columns, with dialect-appropriate placeholders.
func (b *base) reflectInformationSchema(ctx context.Context, schema, table string, placeholder func(int) string) (*core.TableMetadata, error) {
	if b.DB == nil {
		return nil, fmt.Errorf("database connection not established")
	}

	//nolint:gosec // Placeholders come from the dialect, not user input
	query := fmt.Sprintf(`
		SELECT
			column_name,
			data_type,
			is_nullable,
			ordinal_position
		FROM information_schema.columns
		WHERE table_schema = %s AND table_name = %s
		ORDER BY ordinal_position
	`, placeholder(1), placeholder(2))

	rows, err := b.DB.QueryContext(ctx, query, schema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query column metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []core.Column
	for rows.Next() {
		var col core.Column
		var nullable string
		if err := rows.Scan(&col.Name, &col.Type, &nullable, &col.Position); err != nil {
			return nil, fmt.Errorf("failed to scan column metadata: %w", err)
		}
		col.Nullable = nullable == "YES"
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column metadata: %w", err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s.%s not found", schema, table)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s.%s", schema, table) //nolint:gosec // Names come from reflection targets
	var rowCount int64
	if err := b.DB.QueryRowContext(ctx, countQuery).Scan(&rowCount); err != nil {
		// Non-fatal, just report 0
		rowCount = 0
	}

	return &core.TableMetadata{
		Schema:   schema,
		Name:     table,
		Columns:  columns,
		RowCount: rowCount,
	}, nil
}

func questionPlaceholder(int) string { return "?" }

func dollarPlaceholder(n int) string { return fmt.Sprintf("$%d", n) }
