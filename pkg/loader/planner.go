package loader

import (
	"context"

	"github.com/leapstack-labs/bulkload/pkg/core"
	"github.com/leapstack-labs/bulkload/pkg/dialect"
)

// ensureMedium relocates the resource when its medium is incompatible
// with the dialect's requirement, returning the (possibly new) resource
// and a cleanup for any staged copy.
//
// A resource already in the required medium is returned unchanged, which
// makes the planner idempotent. Engines needing remote-host input get the
// relocate-once treatment: after one conversion the terminal
// compile/execute path always follows, so relocations cannot chain.
func (l *Loader) ensureMedium(ctx context.Context, comp dialect.Compiler, res *core.Resource, opts core.Options) (*core.Resource, CleanupFunc, error) {
	required := comp.RequiredMedium()
	if res.Medium == required {
		return res, nil, nil
	}

	if l.converter == nil {
		return nil, nil, &core.UnsupportedConversionError{From: res.Medium, To: required}
	}

	// Going cloud→local for an engine with no cloud awareness, carry the
	// known header state across so inference is not repeated.
	convOpts := opts
	if required != core.MediumObjectStore && res.Medium == core.MediumObjectStore &&
		convOpts.Header == nil {
		convOpts.Header = res.Dialect.Header
	}

	l.logger.Debug("relocating resource",
		"dialect", comp.Name(), "from", res.Medium, "to", required, "path", res.Path)

	staged, cleanup, err := l.converter.Convert(ctx, required, res, convOpts)
	if err != nil {
		return nil, nil, err
	}
	return staged, cleanup, nil
}
