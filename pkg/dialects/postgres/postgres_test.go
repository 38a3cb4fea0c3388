package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/bulkload/pkg/core"
)

func compile(t *testing.T, table *core.Table, res *core.Resource, opts core.Options) (*core.Command, error) {
	t.Helper()
	return (&Compiler{}).Compile(context.Background(), table, res, opts.WithResource(res))
}

func TestCompileWithHeader(t *testing.T) {
	table := &core.Table{Name: "users", Schema: "public", Dialect: "postgres"}
	res := &core.Resource{Path: "/data/users.csv", Medium: core.MediumLocal}

	cmd, err := compile(t, table, res, core.Options{Header: core.Bool(true)})
	require.NoError(t, err)

	sql := cmd.SQL
	assert.Contains(t, sql, "COPY public.users FROM '/data/users.csv'")
	assert.Contains(t, sql, "FORMAT CSV")
	assert.Contains(t, sql, "DELIMITER E','")
	assert.Contains(t, sql, "NULL ''")
	assert.Contains(t, sql, `QUOTE '"'`)
	assert.Contains(t, sql, "HEADER TRUE")
	assert.Contains(t, sql, "ENCODING 'utf-8'")
	assert.Equal(t, sql, core.CollapseSpace(sql))
}

func TestCompileWithoutHeader(t *testing.T) {
	table := &core.Table{Name: "users", Dialect: "postgres"}
	res := &core.Resource{Path: "users.csv", Medium: core.MediumLocal}

	cmd, err := compile(t, table, res, core.Options{Header: core.Bool(false)})
	require.NoError(t, err)

	assert.Contains(t, cmd.SQL, "COPY users FROM")
	assert.Contains(t, cmd.SQL, "HEADER FALSE")
}

func TestCompileEncodingSynonym(t *testing.T) {
	table := &core.Table{Name: "users", Dialect: "postgres"}
	res := &core.Resource{Path: "users.csv", Medium: core.MediumLocal}

	cmd, err := compile(t, table, res, core.Options{Header: core.Bool(true), Encoding: "utf8"})
	require.NoError(t, err)
	assert.Contains(t, cmd.SQL, "ENCODING 'utf-8'")
}

func TestCompileCustomNAValue(t *testing.T) {
	table := &core.Table{Name: "users", Dialect: "postgres"}
	res := &core.Resource{Path: "users.csv", Medium: core.MediumLocal}

	cmd, err := compile(t, table, res, core.Options{Header: core.Bool(true), NAValue: core.String(`\N`)})
	require.NoError(t, err)
	assert.Contains(t, cmd.SQL, `NULL '\N'`)
}

func TestCompileRejectsNonLocalResource(t *testing.T) {
	table := &core.Table{Name: "users", Dialect: "postgres"}
	res := &core.Resource{Path: "host:/tmp/users.csv", Medium: core.MediumRemoteHost}

	_, err := compile(t, table, res, core.Options{Header: core.Bool(true)})

	var pre *core.PreconditionError
	require.ErrorAs(t, err, &pre)
	assert.Equal(t, core.MediumLocal, pre.Required)
	assert.Equal(t, core.MediumRemoteHost, pre.Got)
}
