package loader

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/leapstack-labs/bulkload/pkg/core"
)

// execute runs the compiled command and, on success, reflects the target
// table afresh. The transaction boundary is the whole call: a failure
// rolls back before it surfaces, so the table is never left partially
// loaded by one compiled command. No retries.
func (l *Loader) execute(ctx context.Context, table *core.Table, cmd *core.Command) (*core.TableMetadata, error) {
	var err error
	if len(cmd.Argv) > 0 {
		err = l.runProcess(ctx, cmd)
	} else {
		err = l.runStatement(ctx, table, cmd)
	}
	if err != nil {
		return nil, err
	}

	meta, err := table.Session.Reflect(ctx, table.Schema, table.Name)
	if err != nil {
		return nil, fmt.Errorf("reflecting %s after load: %w", table.QualifiedName(), err)
	}
	return meta, nil
}

func (l *Loader) runStatement(ctx context.Context, table *core.Table, cmd *core.Command) error {
	tx, err := table.Session.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	if err := tx.Exec(ctx, cmd.SQL); err != nil {
		_ = tx.Rollback()
		return &core.ExecError{Command: cmd.SQL, Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &core.ExecError{Command: cmd.SQL, Err: err}
	}
	return nil
}

// runProcess spawns the external tool and waits. For silent commands any
// combined output is a failure, surfaced with the full command line.
func (l *Loader) runProcess(ctx context.Context, cmd *core.Command) error {
	proc := exec.CommandContext(ctx, cmd.Argv[0], cmd.Argv[1:]...) //nolint:gosec // argv comes from the dialect compiler
	out, err := proc.CombinedOutput()
	if err != nil {
		return &core.ExecError{Command: cmd.String(), Output: string(out), Err: err}
	}
	if cmd.Silent && len(out) > 0 {
		return &core.ExecError{Command: cmd.String(), Output: string(out)}
	}
	return nil
}
