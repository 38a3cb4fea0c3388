package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsWithResource_CallerWins(t *testing.T) {
	res := &Resource{
		Path:   "/data/users.csv",
		Medium: MediumLocal,
		Dialect: DialectConfig{
			Delimiter: "|",
			Header:    Bool(false),
			NAValue:   "NULL",
			Encoding:  "latin1",
			SkipRows:  2,
		},
	}

	opts := Options{
		Delimiter: "\t",
		Header:    Bool(true),
	}
	merged := opts.WithResource(res)

	assert.Equal(t, "\t", merged.Delimiter, "caller delimiter should win")
	assert.True(t, merged.HeaderValue(), "caller header should win")
	assert.Equal(t, "NULL", merged.NAValueOr(""), "na_value should fall back to resource")
	assert.Equal(t, "latin1", merged.Encoding, "encoding should fall back to resource")
	assert.Equal(t, 2, merged.SkipRows, "skiprows should fall back to resource")
}

func TestOptionsWithResource_Defaults(t *testing.T) {
	res := &Resource{Path: "/data/users.csv", Medium: MediumLocal}

	merged := Options{}.WithResource(res)

	assert.Equal(t, DefaultDelimiter, merged.Delimiter)
	assert.Equal(t, DefaultLineTerminator, merged.LineTerminator)
	assert.Equal(t, DefaultQuoteChar, merged.QuoteChar)
	assert.Equal(t, DefaultEscapeChar, merged.EscapeChar)
	assert.Equal(t, DefaultEncoding, merged.Encoding)
	assert.Equal(t, "", merged.NAValueOr("fallback"), "na_value defaults to the resource's empty token")
	assert.Nil(t, merged.Header, "unknown header stays unknown after merge")
}

func TestOptionsHeaderValue_PanicsWhenUnresolved(t *testing.T) {
	assert.Panics(t, func() {
		Options{}.HeaderValue()
	}, "HeaderValue before resolution is a pipeline bug")
}

func TestOptionsValidateExtra(t *testing.T) {
	opts := Options{Extra: map[string]string{"compression": "gzip", "bogus": "1"}}

	err := opts.ValidateExtra("redshift", "schema_name", "compression")
	require.Error(t, err)

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Error(), "bogus")
	assert.NotContains(t, cfgErr.Error(), "gzip")

	assert.NoError(t, Options{}.ValidateExtra("mysql", "local"), "empty extras always pass")
	assert.NoError(t,
		Options{Extra: map[string]string{"local": "true"}}.ValidateExtra("mysql", "local"))
}

func TestCollapseSpace(t *testing.T) {
	in := "  LOAD DATA  INFILE 'x'\n\t\tINTO TABLE t\n\n IGNORE 0 LINES ;"
	want := "LOAD DATA INFILE 'x' INTO TABLE t IGNORE 0 LINES;"

	got := CollapseSpace(in)
	assert.Equal(t, want, got)
	assert.Equal(t, got, CollapseSpace(got), "normalization must be idempotent")
}

func TestTableQualifiedName(t *testing.T) {
	assert.Equal(t, "public.users", (&Table{Name: "users", Schema: "public"}).QualifiedName())
	assert.Equal(t, "users", (&Table{Name: "users"}).QualifiedName())
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "COPY t FROM 'f'", (&Command{SQL: "COPY t FROM 'f'"}).String())
	assert.Equal(t, "sqlite3 -header db",
		(&Command{Argv: []string{"sqlite3", "-header", "db"}}).String())
}
