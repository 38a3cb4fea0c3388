package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListIncludesRegisteredEngines(t *testing.T) {
	names := List()
	for _, want := range []string{"duckdb", "mysql", "postgres", "redshift", "sqlite"} {
		assert.Contains(t, names, want)
	}
}

func TestOpenUnknownEngine(t *testing.T) {
	_, err := Open(context.Background(), Config{Type: "oracle"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no session driver for engine "oracle"`)
}

func TestBuildDSN(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		dsn := buildDSN(Config{})
		assert.Equal(t, "host=localhost port=5432 sslmode=disable", dsn)
	})

	t.Run("full config", func(t *testing.T) {
		dsn := buildDSN(Config{
			Host:     "db.internal",
			Port:     5439,
			User:     "loader",
			Password: "hunter2",
			Database: "warehouse",
			Options:  map[string]string{"sslmode": "require"},
		})
		assert.Equal(t,
			"host=db.internal port=5439 sslmode=require user=loader password=hunter2 dbname=warehouse",
			dsn)
	})
}

func TestSessionDialects(t *testing.T) {
	assert.Equal(t, "sqlite", NewSQLite(nil).Dialect())
	assert.Equal(t, "duckdb", NewDuckDB(nil).Dialect())
	assert.Equal(t, "mysql", NewMySQL(nil).Dialect())
	assert.Equal(t, "postgres", NewPostgres(nil).Dialect())

	rs := NewPostgres(nil)
	rs.dialect = "redshift"
	assert.Equal(t, "redshift", rs.Dialect())
}

func TestDatabasePath(t *testing.T) {
	s := NewSQLite(nil)
	s.Cfg = Config{Path: "/data/app.db"}
	assert.Equal(t, "/data/app.db", s.DatabasePath())
}
