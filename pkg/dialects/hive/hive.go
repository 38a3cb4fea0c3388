// Package hive compiles bulk loads for Hive as a LOAD DATA INPATH
// statement over a file already staged on the cluster-visible host.
//
// Hive cannot see the caller's filesystem, so the relocation planner
// stages the resource on the remote host first; this compiler is the
// terminal step of that bounded relocate-once trampoline.
package hive

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/bulkload/pkg/core"
	"github.com/leapstack-labs/bulkload/pkg/dialect"
)

func init() {
	dialect.Register(&Compiler{})
}

// Compiler builds LOAD DATA INPATH statements.
type Compiler struct{}

// Name returns the engine identifier.
func (c *Compiler) Name() string { return "hive" }

// RequiredMedium reports that Hive loads from the remote host
// filesystem.
func (c *Compiler) RequiredMedium() core.Medium { return core.MediumRemoteHost }

// Compile builds the statement.
func (c *Compiler) Compile(_ context.Context, table *core.Table, res *core.Resource, opts core.Options) (*core.Command, error) {
	if err := opts.ValidateExtra(c.Name()); err != nil {
		return nil, err
	}
	if res.Medium != core.MediumRemoteHost {
		return nil, &core.PreconditionError{
			Dialect:  c.Name(),
			Required: core.MediumRemoteHost,
			Got:      res.Medium,
		}
	}

	stmt := fmt.Sprintf(`
		LOAD DATA LOCAL INPATH '%s'
		INTO TABLE %s;`,
		res.Path, table.QualifiedName())

	return &core.Command{SQL: core.CollapseSpace(stmt)}, nil
}

var _ dialect.Compiler = (*Compiler)(nil)
