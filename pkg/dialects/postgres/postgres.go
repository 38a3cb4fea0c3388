// Package postgres compiles bulk loads for PostgreSQL as a
// COPY ... FROM ... (FORMAT CSV, ...) statement.
//
// PostgreSQL demands an explicit HEADER flag, so the tri-state header is
// resolved before this compiler runs: explicit override first, then the
// resource's own known state, then content inference.
package postgres

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

// encodingSynonyms maps common encoding spellings to PostgreSQL encoding
// names.
var encodingSynonyms = map[string]string{
	"utf8": "utf-8",
}

// Compiler builds COPY FROM statements.
type Compiler struct{}

// Name returns the engine identifier.
func (c *Compiler) Name() string { return "postgres" }

// RequiredMedium reports that COPY FROM reads server-local files only.
func (c *Compiler) RequiredMedium() core.Medium { return core.MediumLocal }

// Compile builds the statement.
func (c *Compiler) Compile(_ context.Context, table *core.Table, res *core.Resource, opts core.Options) (*core.Command, error) {
	if err := opts.ValidateExtra(c.Name()); err != nil {
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

	stmt := fmt.Sprintf(`
		COPY %s FROM '%s'
			(FORMAT CSV,
			 DELIMITER E'%s',
			 NULL '%s',
			 QUOTE '%s',
			 ESCAPE '%s',
			 HEADER %s,
			 ENCODING '%s');`,
		table.QualifiedName(), res.Path,
		opts.Delimiter, opts.NAValueOr(core.DefaultNAValue),
		opts.QuoteChar, opts.EscapeChar,
		header, normalizeEncoding(opts.Encoding))

	return &core.Command{SQL: core.CollapseSpace(stmt)}, nil
}

func normalizeEncoding(enc string) string {
	if enc == "" {
		return "utf-8"
	}
	if canonical, ok := encodingSynonyms[strings.ToLower(enc)]; ok {
		return canonical
	}
	return enc
}

var _ dialect.Compiler = (*Compiler)(nil)
