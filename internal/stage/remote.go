package stage

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path"

	"github.com/google/uuid"

	"github.com/leapstack-labs/bulkload/pkg/core"
	"github.com/leapstack-labs/bulkload/pkg/loader"
)

// runnerFunc executes an external command and returns its combined
// output. Swappable for tests.
type runnerFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Remote stages resources onto a remote host filesystem over scp, for
// engines that load from cluster-visible paths rather than the caller's
// machine.
type Remote struct {
	host   string
	dir    string
	run    runnerFunc
	logger *slog.Logger
}

// NewRemote creates a remote stager. dir is the staging directory on the
// host; empty means /tmp.
func NewRemote(host, dir string, logger *slog.Logger) *Remote {
	if dir == "" {
		dir = "/tmp"
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Remote{host: host, dir: dir, run: execRunner, logger: logger}
}

// Push copies a local file to the remote host and returns the
// remote-host resource plus a cleanup that deletes the copy.
func (r *Remote) Push(ctx context.Context, res *core.Resource, opts core.Options) (*core.Resource, loader.CleanupFunc, error) {
	dest := path.Join(r.dir, "bulkload-"+uuid.NewString()+".csv")
	r.logger.Debug("staging to remote host", "path", res.Path, "host", r.host, "dest", dest)

	out, err := r.run(ctx, "scp", "-q", res.Path, r.host+":"+dest)
	if err != nil {
		return nil, nil, fmt.Errorf("scp %s to %s:%s: %w (%s)", res.Path, r.host, dest, err, out)
	}

	staged := &core.Resource{
		Path:      dest,
		Medium:    core.MediumRemoteHost,
		Temporary: true,
		Dialect:   carryDialect(res, opts),
	}
	cleanup := func(ctx context.Context) error {
		out, err := r.run(ctx, "ssh", r.host, "rm", "-f", dest)
		if err != nil {
			return fmt.Errorf("removing %s:%s: %w (%s)", r.host, dest, err, out)
		}
		return nil
	}
	return staged, cleanup, nil
}
