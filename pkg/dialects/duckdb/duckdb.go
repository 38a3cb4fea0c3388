// Package duckdb compiles bulk loads for DuckDB using its native
// COPY ... FROM ... (FORMAT CSV, ...) statement.
package duckdb

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

// Compiler builds DuckDB COPY statements.
type Compiler struct{}

// Name returns the engine identifier.
func (c *Compiler) Name() string { return "duckdb" }

// RequiredMedium reports that DuckDB reads local files.
func (c *Compiler) RequiredMedium() core.Medium { return core.MediumLocal }

// Compile builds the statement.
func (c *Compiler) Compile(_ context.Context, table *core.Table, res *core.Resource, opts core.Options) (*core.Command, error) {
	if err := opts.ValidateExtra(c.Name(), "compression"); err != nil {
		return nil, err
	}
	if res.Medium != core.MediumLocal {
		return nil, &core.PreconditionError{
			Dialect:  c.Name(),
			Required: core.MediumLocal,
			Got:      res.Medium,
		}
	}

	header := "FALSE"
	if opts.HeaderValue() {
		header = "TRUE"
	}

	var b strings.Builder
	fmt.Fprintf(&b, `
		COPY %s FROM '%s'
			(FORMAT CSV,
			 HEADER %s,
			 DELIM '%s',
			 QUOTE '%s',
			 ESCAPE '%s',
			 NULLSTR '%s',
			 SKIP %d`,
		table.QualifiedName(), res.Path, header,
		opts.Delimiter, opts.QuoteChar, opts.EscapeChar,
		opts.NAValueOr(core.DefaultNAValue), opts.SkipRows)
	if comp := opts.Extra["compression"]; comp != "" {
		fmt.Fprintf(&b, ", COMPRESSION '%s'", comp)
	}
	b.WriteString(");")

	return &core.Command{SQL: core.CollapseSpace(b.String())}, nil
}

var _ dialect.Compiler = (*Compiler)(nil)
