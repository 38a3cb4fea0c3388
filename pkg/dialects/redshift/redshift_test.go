package redshift

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/bulkload/pkg/core"
)

type staticProvider struct {
	creds core.Credentials
	err   error
}

func (p *staticProvider) Retrieve(_ context.Context) (core.Credentials, error) {
	return p.creds, p.err
}

type fakeSession struct {
	defaultSchema string
	schemaErr     error
}

func (s *fakeSession) Dialect() string                          { return "redshift" }
func (s *fakeSession) Begin(_ context.Context) (core.Tx, error) { return nil, nil }
func (s *fakeSession) DefaultSchema(_ context.Context) (string, error) {
	return s.defaultSchema, s.schemaErr
}
func (s *fakeSession) DatabasePath() string { return "" }
func (s *fakeSession) Close() error         { return nil }
func (s *fakeSession) Reflect(_ context.Context, _, _ string) (*core.TableMetadata, error) {
	return nil, nil
}

func withProvider(t *testing.T, p core.CredentialProvider) {
	t.Helper()
	SetCredentialProvider(p)
	t.Cleanup(func() { SetCredentialProvider(nil) })
}

func testCreds() *staticProvider {
	return &staticProvider{creds: core.Credentials{AccessKey: "AKIATEST", SecretKey: "sekrit"}}
}

func TestCompileFromObjectStore(t *testing.T) {
	withProvider(t, testCreds())

	table := &core.Table{Name: "events", Schema: "analytics", Dialect: "redshift"}
	res := &core.Resource{Path: "s3://warehouse/staging/events.csv", Medium: core.MediumObjectStore}
	opts := core.Options{Header: core.Bool(true)}.WithResource(res)

	cmd, err := (&Compiler{}).Compile(context.Background(), table, res, opts)
	require.NoError(t, err)

	sql := cmd.SQL
	assert.Contains(t, sql, "COPY analytics.events FROM 's3://warehouse/staging/events.csv'")
	assert.Contains(t, sql, "WITH CREDENTIALS AS 'aws_access_key_id=AKIATEST;aws_secret_access_key=sekrit'")
	assert.Contains(t, sql, "FORMAT AS CSV")
	assert.Contains(t, sql, "DELIMITER ','")
	assert.Contains(t, sql, "IGNOREHEADER 1")
	assert.Contains(t, sql, "EMPTYASNULL")
	assert.NotContains(t, sql, "BLANKSASNULL")
	assert.Equal(t, sql, core.CollapseSpace(sql))
}

func TestCompileHeaderlessAndCompressed(t *testing.T) {
	withProvider(t, testCreds())

	table := &core.Table{Name: "events", Schema: "analytics", Dialect: "redshift"}
	res := &core.Resource{Path: "s3://warehouse/events.csv.gz", Medium: core.MediumObjectStore}
	opts := core.Options{
		Header: core.Bool(false),
		Extra:  map[string]string{"compression": "gzip"},
	}.WithResource(res)

	cmd, err := (&Compiler{}).Compile(context.Background(), table, res, opts)
	require.NoError(t, err)
	assert.Contains(t, cmd.SQL, "IGNOREHEADER 0")
	assert.Contains(t, cmd.SQL, "GZIP;")
}

func TestSchemaResolutionOrder(t *testing.T) {
	withProvider(t, testCreds())
	res := &core.Resource{Path: "s3://b/k.csv", Medium: core.MediumObjectStore}

	t.Run("explicit option wins", func(t *testing.T) {
		table := &core.Table{Name: "t", Schema: "tbl_schema", Dialect: "redshift",
			Session: &fakeSession{defaultSchema: "public"}}
		opts := core.Options{Header: core.Bool(false),
			Extra: map[string]string{"schema_name": "override"}}.WithResource(res)

		cmd, err := (&Compiler{}).Compile(context.Background(), table, res, opts)
		require.NoError(t, err)
		assert.Contains(t, cmd.SQL, "COPY override.t FROM")
	})

	t.Run("table schema next", func(t *testing.T) {
		table := &core.Table{Name: "t", Schema: "tbl_schema", Dialect: "redshift",
			Session: &fakeSession{defaultSchema: "public"}}
		opts := core.Options{Header: core.Bool(false)}.WithResource(res)

		cmd, err := (&Compiler{}).Compile(context.Background(), table, res, opts)
		require.NoError(t, err)
		assert.Contains(t, cmd.SQL, "COPY tbl_schema.t FROM")
	})

	t.Run("session default last", func(t *testing.T) {
		table := &core.Table{Name: "t", Dialect: "redshift",
			Session: &fakeSession{defaultSchema: "public"}}
		opts := core.Options{Header: core.Bool(false)}.WithResource(res)

		cmd, err := (&Compiler{}).Compile(context.Background(), table, res, opts)
		require.NoError(t, err)
		assert.Contains(t, cmd.SQL, "COPY public.t FROM")
	})

	t.Run("nothing resolvable is an error", func(t *testing.T) {
		table := &core.Table{Name: "t", Dialect: "redshift",
			Session: &fakeSession{defaultSchema: ""}}
		opts := core.Options{Header: core.Bool(false)}.WithResource(res)

		_, err := (&Compiler{}).Compile(context.Background(), table, res, opts)
		var cfgErr *core.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Contains(t, cfgErr.Error(), "no schema resolvable")
	})
}

func TestCompileRejectsLocalResource(t *testing.T) {
	withProvider(t, testCreds())

	table := &core.Table{Name: "events", Schema: "analytics", Dialect: "redshift"}
	res := &core.Resource{Path: "/tmp/events.csv", Medium: core.MediumLocal}
	opts := core.Options{Header: core.Bool(true)}.WithResource(res)

	_, err := (&Compiler{}).Compile(context.Background(), table, res, opts)

	var pre *core.PreconditionError
	require.ErrorAs(t, err, &pre)
	assert.Equal(t, core.MediumObjectStore, pre.Required)
	assert.Equal(t, core.MediumLocal, pre.Got)
}

func TestCompileRequiresCredentials(t *testing.T) {
	table := &core.Table{Name: "events", Schema: "analytics", Dialect: "redshift"}
	res := &core.Resource{Path: "s3://b/k.csv", Medium: core.MediumObjectStore}
	opts := core.Options{Header: core.Bool(true)}.WithResource(res)

	t.Run("no provider configured", func(t *testing.T) {
		withProvider(t, nil)
		_, err := (&Compiler{}).Compile(context.Background(), table, res, opts)
		var cfgErr *core.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Contains(t, cfgErr.Error(), "credential provider")
	})

	t.Run("empty key pair", func(t *testing.T) {
		withProvider(t, &staticProvider{creds: core.Credentials{AccessKey: "AKIATEST"}})
		_, err := (&Compiler{}).Compile(context.Background(), table, res, opts)
		var cfgErr *core.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
	})

	t.Run("provider failure propagates", func(t *testing.T) {
		withProvider(t, &staticProvider{err: errors.New("no ambient credentials")})
		_, err := (&Compiler{}).Compile(context.Background(), table, res, opts)
		require.ErrorContains(t, err, "no ambient credentials")
	})
}
