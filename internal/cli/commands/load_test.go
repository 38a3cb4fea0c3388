package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/bulkload/pkg/core"
)

func parseLoadFlags(t *testing.T, args ...string) *testOptions {
	t.Helper()
	cmd := NewLoadCmd()
	require.NoError(t, cmd.Flags().Parse(args))

	delimiter, _ := cmd.Flags().GetString("delimiter")
	header, _ := cmd.Flags().GetString("header")
	naValue, _ := cmd.Flags().GetString("na-value")
	skipRows, _ := cmd.Flags().GetInt("skip-rows")
	compression, _ := cmd.Flags().GetString("compression")
	local, _ := cmd.Flags().GetBool("local")

	opts, err := buildOptions(cmd, delimiter, header, naValue, "", "", "", "",
		skipRows, compression, local)
	return &testOptions{opts: opts, err: err}
}

type testOptions struct {
	opts core.Options
	err  error
}

func TestBuildOptionsHeaderTriState(t *testing.T) {
	assert.Nil(t, parseLoadFlags(t, "--header=auto").opts.Header, "auto leaves header unknown")

	got := parseLoadFlags(t, "--header=true").opts.Header
	require.NotNil(t, got)
	assert.True(t, *got)

	got = parseLoadFlags(t, "--header=FALSE").opts.Header
	require.NotNil(t, got)
	assert.False(t, *got)

	res := parseLoadFlags(t, "--header=maybe")
	require.ErrorContains(t, res.err, "invalid --header value")
}

func TestBuildOptionsNAValueOnlyWhenSet(t *testing.T) {
	assert.Nil(t, parseLoadFlags(t).opts.NAValue, "untouched flag must stay unset")

	got := parseLoadFlags(t, "--na-value=").opts.NAValue
	require.NotNil(t, got, "explicit empty token is a real setting")
	assert.Equal(t, "", *got)

	got = parseLoadFlags(t, "--na-value=NULL").opts.NAValue
	require.NotNil(t, got)
	assert.Equal(t, "NULL", *got)
}

func TestBuildOptionsExtras(t *testing.T) {
	opts := parseLoadFlags(t, "--compression=gzip", "--local").opts
	assert.Equal(t, "gzip", opts.Extra["compression"])
	assert.Equal(t, "true", opts.Extra["local"])

	assert.Nil(t, parseLoadFlags(t).opts.Extra)
}
