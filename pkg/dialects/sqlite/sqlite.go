// Package sqlite compiles bulk loads for SQLite by driving the sqlite3
// CLI with dot-commands. SQLite has no SQL-level CSV import, so the
// compiled command is an external-process argument vector whose success
// predicate is silence: any stdout or stderr means the import failed.
package sqlite

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/leapstack-labs/bulkload/pkg/core"
	"github.com/leapstack-labs/bulkload/pkg/dialect"
)

func init() {
	dialect.Register(&Compiler{})
}

// tool is the CLI binary the compiled command invokes.
const tool = "sqlite3"

// lookPath is swappable for tests.
var lookPath = exec.LookPath

// Compiler builds sqlite3 CLI invocations.
type Compiler struct{}

// Name returns the engine identifier.
func (c *Compiler) Name() string { return "sqlite" }

// RequiredMedium reports that the sqlite3 CLI reads local files only.
func (c *Compiler) RequiredMedium() core.Medium { return core.MediumLocal }

// Compile builds the sqlite3 argument vector. It fails with
// ToolMissingError before any invocation is attempted if the binary is
// absent from the host.
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
	if _, err := lookPath(tool); err != nil {
		return nil, &core.ToolMissingError{Tool: tool}
	}

	headerFlag := "-header"
	if !opts.HeaderValue() {
		headerFlag = "-noheader"
	}

	argv := []string{
		tool,
		"-nullvalue", fmt.Sprintf("'%s'", opts.NAValueOr(core.DefaultNAValue)),
		headerFlag,
		"-separator", opts.Delimiter,
		"-cmd", fmt.Sprintf(".import %s %s", res.Path, table.Name),
		table.Session.DatabasePath(),
	}

	return &core.Command{Argv: argv, Silent: true}, nil
}

var _ dialect.Compiler = (*Compiler)(nil)
