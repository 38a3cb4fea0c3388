// Package core defines the shared data model for bulkload: resources,
// tables, load options, compiled commands, and the error taxonomy.
//
// Everything here is constructed per load call and is short-lived; nothing
// is persisted. The TableMetadata returned after a load is a fresh
// reflection of the same physical table.
package core

import (
	"context"
	"strings"
)

// Medium classifies where a resource currently lives.
type Medium string

const (
	// MediumLocal is the caller's local filesystem.
	MediumLocal Medium = "local"

	// MediumObjectStore is cloud object storage (s3://bucket/key).
	MediumObjectStore Medium = "object-store"

	// MediumRemoteHost is a filesystem visible from a remote host rather
	// than the caller's machine.
	MediumRemoteHost Medium = "remote-host"
)

// DialectConfig describes how a delimited-text resource is encoded.
// Header is tri-state: nil means unknown and must be resolved by
// inference before any command is compiled.
type DialectConfig struct {
	Delimiter      string
	Header         *bool
	NAValue        string
	LineTerminator string
	QuoteChar      string
	EscapeChar     string
	Encoding       string
	SkipRows       int
}

// Resource identifies a delimited-text source to load from.
type Resource struct {
	// Path is a local path, an object-store URI, or a remote-host path.
	Path string

	// Medium tags where Path is resolvable.
	Medium Medium

	// Temporary marks staged copies whose lifetime is scoped to one load.
	Temporary bool

	// Dialect holds the resource's own delimiter/header/quoting settings.
	Dialect DialectConfig
}

// Table identifies the target relation for a load. The table must already
// exist with compatible columns; bulkload never infers schema.
type Table struct {
	// Name is the table name without schema qualification.
	Name string

	// Schema is the namespace containing the table, if any.
	Schema string

	// Dialect is the engine identifier used for compiler dispatch
	// (e.g. "sqlite", "mysql", "postgres", "redshift", "hive", "duckdb").
	Dialect string

	// Session is the bound connection used for execution and reflection.
	Session Session
}

// QualifiedName returns schema.name, or just name when no schema is set.
func (t *Table) QualifiedName() string {
	if t.Schema != "" {
		return t.Schema + "." + t.Name
	}
	return t.Name
}

// Column describes one column of a reflected table.
type Column struct {
	Name     string
	Type     string
	Nullable bool
	Position int
}

// TableMetadata is the result of reflecting a table from the live engine.
type TableMetadata struct {
	Schema   string
	Name     string
	Columns  []Column
	RowCount int64
}

// Command is a compiled, dialect-native load invocation: either a single
// SQL statement or an external-process argument vector.
type Command struct {
	// SQL is the statement to execute inside a transaction. Empty for
	// process commands.
	SQL string

	// Argv is the external-process invocation. Empty for SQL commands.
	Argv []string

	// Silent requires the process to produce no stdout/stderr; any output
	// is treated as a failed load.
	Silent bool
}

// String renders the command for diagnostics.
func (c *Command) String() string {
	if c.SQL != "" {
		return c.SQL
	}
	return strings.Join(c.Argv, " ")
}

// Tx is a minimal transaction handle covering one compiled command.
type Tx interface {
	Exec(ctx context.Context, sql string) error
	Commit() error
	Rollback() error
}

// Session is the connection/session collaborator a Table is bound to.
// Implementations live outside the core pipeline (see internal/session).
type Session interface {
	// Dialect returns the engine identifier for compiler dispatch.
	Dialect() string

	// Begin opens a transaction scoped to one compiled command.
	Begin(ctx context.Context) (Tx, error)

	// Reflect re-reads column and row-count metadata for a table.
	Reflect(ctx context.Context, schema, table string) (*TableMetadata, error)

	// DefaultSchema reports the engine's default namespace.
	DefaultSchema(ctx context.Context) (string, error)

	// DatabasePath is the backing file for file-based engines, empty
	// otherwise. The sqlite compiler needs it to address the database
	// from the CLI.
	DatabasePath() string

	// Close releases the underlying connection.
	Close() error
}

// Credentials is an access/secret key pair for credential-bearing
// dialects.
type Credentials struct {
	AccessKey string
	SecretKey string
}

// CredentialProvider supplies warehouse credentials from the ambient
// environment.
type CredentialProvider interface {
	Retrieve(ctx context.Context) (Credentials, error)
}
