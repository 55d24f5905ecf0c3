package disk

import (
	"context"
	"log/slog"

	"github.com/jbweber/crucible/internal/process"
)

// Copier moves image files between hosts.
type Copier struct {
	runner process.Runner
}

// NewCopier creates a Copier that runs cp, rsync and scp through runner.
func NewCopier(runner process.Runner) *Copier {
	return &Copier{runner: runner}
}

// CopyImage copies src to dest. With an empty host the copy is local
// ("cp"). Otherwise an rsync dry run checks that the remote side is
// reachable, then rsync transfers the image keeping sparse regions and
// compressing on the wire. If either rsync step fails, one scp attempt is
// made. A *CopyError is returned when no strategy succeeds.
func (c *Copier) CopyImage(ctx context.Context, src, dest, host string) error {
	if host == "" {
		if _, err := c.runner.Run(ctx, process.NewCommand("cp", src, dest)); err != nil {
			return &CopyError{Source: src, Destination: dest, Err: err}
		}
		return nil
	}

	remote := host + ":" + dest
	err := c.rsync(ctx, src, remote)
	if err == nil {
		return nil
	}

	slog.Warn("rsync failed, falling back to scp.",
		"src", src,
		"dest", remote,
		"err", err,
	)

	if _, err := c.runner.Run(ctx, process.NewCommand("scp", src, remote)); err != nil {
		return &CopyError{Source: src, Destination: remote, Err: err}
	}
	return nil
}

func (c *Copier) rsync(ctx context.Context, src, remote string) error {
	dryRun := process.NewCommand("rsync", "--sparse", "--compress", "--dry-run", src, remote)
	if _, err := c.runner.Run(ctx, dryRun); err != nil {
		return err
	}

	_, err := c.runner.Run(ctx, process.NewCommand("rsync", "--sparse", "--compress", src, remote))
	return err
}
