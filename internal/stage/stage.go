// Package stage implements the conversion collaborator the loader uses
// to move resources between storage media. Staged copies are temporary:
// every conversion returns a cleanup that the loader runs when the load
// finishes, success or not.
package stage

import (
	"context"
	"log/slog"

	"github.com/leapstack-labs/bulkload/pkg/core"
	"github.com/leapstack-labs/bulkload/pkg/loader"
)

// Stager routes conversions by target medium. Any leg it has no backend
// for yields UnsupportedConversionError.
type Stager struct {
	s3     *S3
	remote *Remote
	logger *slog.Logger
}

// New creates a Stager. Either backend may be nil when the deployment
// never needs that leg.
func New(s3 *S3, remote *Remote, logger *slog.Logger) *Stager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Stager{s3: s3, remote: remote, logger: logger}
}

// Convert moves a resource to the target medium and returns the staged
// temporary copy.
func (s *Stager) Convert(ctx context.Context, target core.Medium, res *core.Resource, opts core.Options) (*core.Resource, loader.CleanupFunc, error) {
	unsupported := &core.UnsupportedConversionError{From: res.Medium, To: target}

	switch target {
	case core.MediumObjectStore:
		if s.s3 == nil || res.Medium != core.MediumLocal {
			return nil, nil, unsupported
		}
		return s.s3.Upload(ctx, res, opts)

	case core.MediumLocal:
		if s.s3 == nil || res.Medium != core.MediumObjectStore {
			return nil, nil, unsupported
		}
		return s.s3.Download(ctx, res, opts)

	case core.MediumRemoteHost:
		if s.remote == nil {
			return nil, nil, unsupported
		}
		switch res.Medium {
		case core.MediumLocal:
			return s.remote.Push(ctx, res, opts)
		case core.MediumObjectStore:
			// Two-leg staging: localize from object storage, push the
			// temporary copy, then drop it.
			if s.s3 == nil {
				return nil, nil, unsupported
			}
			local, localCleanup, err := s.s3.Download(ctx, res, opts)
			if err != nil {
				return nil, nil, err
			}
			staged, remoteCleanup, err := s.remote.Push(ctx, local, opts)
			if err != nil {
				_ = localCleanup(ctx)
				return nil, nil, err
			}
			cleanup := func(ctx context.Context) error {
				rerr := remoteCleanup(ctx)
				if lerr := localCleanup(ctx); lerr != nil && rerr == nil {
					rerr = lerr
				}
				return rerr
			}
			return staged, cleanup, nil
		default:
			return nil, nil, unsupported
		}

	default:
		return nil, nil, unsupported
	}
}

// carryDialect propagates the source's dialect configuration onto a
// staged copy, filling an unknown header from the caller's options so
// inference is not repeated on the copy.
func carryDialect(res *core.Resource, opts core.Options) core.DialectConfig {
	d := res.Dialect
	if d.Header == nil {
		d.Header = opts.Header
	}
	return d
}

var _ loader.Converter = (*Stager)(nil)
