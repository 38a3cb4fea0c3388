package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/bulkload/pkg/core"
)

type fakeSession struct {
	path string
}

func (s *fakeSession) Dialect() string                               { return "sqlite" }
func (s *fakeSession) Begin(_ context.Context) (core.Tx, error)      { return nil, nil }
func (s *fakeSession) DefaultSchema(context.Context) (string, error) { return "main", nil }
func (s *fakeSession) DatabasePath() string                          { return s.path }
func (s *fakeSession) Close() error                                  { return nil }
func (s *fakeSession) Reflect(_ context.Context, _, _ string) (*core.TableMetadata, error) {
	return nil, nil
}

func withTool(t *testing.T, found bool) {
	t.Helper()
	orig := lookPath
	lookPath = func(name string) (string, error) {
		if !found {
			return "", errors.New("not found")
		}
		return "/usr/bin/" + name, nil
	}
	t.Cleanup(func() { lookPath = orig })
}

func TestCompileWithHeader(t *testing.T) {
	withTool(t, true)

	table := &core.Table{Name: "users", Dialect: "sqlite", Session: &fakeSession{path: "/data/app.db"}}
	res := &core.Resource{Path: "/data/users.csv", Medium: core.MediumLocal}
	opts := core.Options{Header: core.Bool(true)}.WithResource(res)

	cmd, err := (&Compiler{}).Compile(context.Background(), table, res, opts)
	require.NoError(t, err)
	require.NotNil(t, cmd)

	assert.True(t, cmd.Silent, "any sqlite3 output must be treated as failure")
	assert.Empty(t, cmd.SQL)
	assert.Equal(t, []string{
		"sqlite3",
		"-nullvalue", "''",
		"-header",
		"-separator", ",",
		"-cmd", ".import /data/users.csv users",
		"/data/app.db",
	}, cmd.Argv)
}

func TestCompileWithoutHeader(t *testing.T) {
	withTool(t, true)

	table := &core.Table{Name: "events", Dialect: "sqlite", Session: &fakeSession{path: "events.db"}}
	res := &core.Resource{Path: "events.csv", Medium: core.MediumLocal}
	opts := core.Options{Header: core.Bool(false), Delimiter: "|"}.WithResource(res)

	cmd, err := (&Compiler{}).Compile(context.Background(), table, res, opts)
	require.NoError(t, err)

	assert.Contains(t, cmd.Argv, "-noheader")
	assert.NotContains(t, cmd.Argv, "-header")
	assert.Contains(t, cmd.Argv, "|")
}

func TestCompileToolMissing(t *testing.T) {
	withTool(t, false)

	table := &core.Table{Name: "users", Dialect: "sqlite", Session: &fakeSession{}}
	res := &core.Resource{Path: "users.csv", Medium: core.MediumLocal}
	opts := core.Options{Header: core.Bool(true)}.WithResource(res)

	_, err := (&Compiler{}).Compile(context.Background(), table, res, opts)
	require.Error(t, err)

	var missing *core.ToolMissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "sqlite3", missing.Tool)
}

func TestCompileRejectsNonLocalResource(t *testing.T) {
	withTool(t, true)

	table := &core.Table{Name: "users", Dialect: "sqlite", Session: &fakeSession{}}
	res := &core.Resource{Path: "s3://bucket/users.csv", Medium: core.MediumObjectStore}
	opts := core.Options{Header: core.Bool(true)}.WithResource(res)

	_, err := (&Compiler{}).Compile(context.Background(), table, res, opts)

	var pre *core.PreconditionError
	require.ErrorAs(t, err, &pre)
	assert.Equal(t, core.MediumLocal, pre.Required)
	assert.Equal(t, core.MediumObjectStore, pre.Got)
}

func TestCompileRejectsUnknownExtras(t *testing.T) {
	withTool(t, true)

	table := &core.Table{Name: "users", Dialect: "sqlite", Session: &fakeSession{}}
	res := &core.Resource{Path: "users.csv", Medium: core.MediumLocal}
	opts := core.Options{Header: core.Bool(true), Extra: map[string]string{"local": "true"}}.WithResource(res)

	_, err := (&Compiler{}).Compile(context.Background(), table, res, opts)

	var cfgErr *core.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}
