// Package loader implements the append pipeline: plan relocation, compile
// the dialect-native command, execute it transactionally, and reflect the
// target table afterwards.
package loader

import (
	"context"
	"log/slog"

	"github.com/leapstack-labs/bulkload/pkg/core"
	"github.com/leapstack-labs/bulkload/pkg/dialect"
	"github.com/leapstack-labs/bulkload/pkg/resource"
)

// CleanupFunc releases a staged temporary copy. The loader invokes it
// once the load completes, on success and on failure alike.
type CleanupFunc func(ctx context.Context) error

// Converter is the external conversion collaborator that moves a resource
// between storage media, producing a scoped temporary copy.
type Converter interface {
	Convert(ctx context.Context, target core.Medium, res *core.Resource, opts core.Options) (*core.Resource, CleanupFunc, error)
}

// Loader runs append operations against registered dialects.
type Loader struct {
	converter Converter
	logger    *slog.Logger
}

// New creates a Loader. The converter may be nil when all targets accept
// the caller's resources where they already live; a nil logger discards.
func New(converter Converter, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{converter: converter, logger: logger}
}

// Append bulk-loads a delimited resource into an existing table and
// returns a fresh reflection of the table's metadata. Errors from
// relocation, compilation, and execution surface unchanged; a failed
// execution leaves the table's visible state untouched.
func (l *Loader) Append(ctx context.Context, table *core.Table, res *core.Resource, opts core.Options) (*core.TableMetadata, error) {
	comp, err := dialect.Lookup(table.Dialect)
	if err != nil {
		return nil, err
	}

	// Resolve an unknown header while the file is still locally readable;
	// after relocation the bytes may only exist in object storage.
	if res.Medium == core.MediumLocal && opts.Header == nil && res.Dialect.Header == nil {
		header, err := resource.InferHeader(res.Path, res.Dialect)
		if err != nil {
			return nil, err
		}
		l.logger.Debug("inferred header", "path", res.Path, "header", header)
		res.Dialect.Header = &header
	}

	staged, cleanup, err := l.ensureMedium(ctx, comp, res, opts)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer func() {
			if cerr := cleanup(context.WithoutCancel(ctx)); cerr != nil {
				l.logger.Warn("staged copy cleanup failed", "path", staged.Path, "error", cerr)
			}
		}()
	}

	merged := opts.WithResource(staged)
	if merged.Header == nil {
		if staged.Medium != core.MediumLocal {
			return nil, &core.ConfigurationError{
				Msg: "header state unknown and not inferable for non-local resource " + staged.Path,
			}
		}
		header, err := resource.InferHeader(staged.Path, staged.Dialect)
		if err != nil {
			return nil, err
		}
		merged.Header = &header
	}

	cmd, err := comp.Compile(ctx, table, staged, merged)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("compiled load command", "dialect", comp.Name(), "command", cmd.String())

	return l.execute(ctx, table, cmd)
}
