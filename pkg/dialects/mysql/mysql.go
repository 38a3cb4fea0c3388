// Package mysql compiles bulk loads for MySQL as a single
// LOAD DATA [LOCAL] INFILE statement.
package mysql

import (
	"context"
	"fmt"
	"strings"

	"github.com/leapstack-labs/bulkload/pkg/core"
	"github.com/leapstack-labs/bulkload/pkg/dialect"
)

func init() {
	dialect.Register(&Compiler{})
}

// encodingSynonyms maps common encoding spellings to MySQL character set
// names.
var encodingSynonyms = map[string]string{
	"utf-8": "utf8",
}

// Compiler builds LOAD DATA INFILE statements.
type Compiler struct{}

// Name returns the engine identifier.
func (c *Compiler) Name() string { return "mysql" }

// RequiredMedium reports that LOAD DATA reads server- or client-local
// files only.
func (c *Compiler) RequiredMedium() core.Medium { return core.MediumLocal }

// Compile builds the statement. MySQL's loader has no null-token concept,
// so a non-empty na_value is rejected with a ConfigurationError.
func (c *Compiler) Compile(_ context.Context, table *core.Table, res *core.Resource, opts core.Options) (*core.Command, error) {
	if err := opts.ValidateExtra(c.Name(), "local"); err != nil {
		return nil, err
	}
	if res.Medium != core.MediumLocal {
		return nil, &core.PreconditionError{
			Dialect:  c.Name(),
			Required: core.MediumLocal,
			Got:      res.Medium,
		}
	}
	if na := opts.NAValueOr(""); na != "" {
		return nil, &core.ConfigurationError{
			Msg: "mysql does not support custom NULL values",
		}
	}

	encoding := normalizeEncoding(opts.Encoding)

	local := ""
	if strings.EqualFold(opts.Extra["local"], "true") || opts.Extra["local"] == "1" {
		local = "LOCAL "
	}

	stmt := fmt.Sprintf(`
		LOAD DATA %sINFILE '%s'
		INTO TABLE %s
		CHARACTER SET %s
		FIELDS
			TERMINATED BY '%s'
			ENCLOSED BY '%s'
			ESCAPED BY '%s'
		LINES TERMINATED BY '%s'
		IGNORE %d LINES;`,
		local, res.Path, table.Name, encoding,
		opts.Delimiter, opts.QuoteChar, opts.EscapeChar,
		opts.LineTerminator, opts.SkipRows)

	return &core.Command{SQL: core.CollapseSpace(stmt)}, nil
}

func normalizeEncoding(enc string) string {
	if enc == "" {
		return core.DefaultEncoding
	}
	if canonical, ok := encodingSynonyms[strings.ToLower(enc)]; ok {
		return canonical
	}
	return enc
}

var _ dialect.Compiler = (*Compiler)(nil)
