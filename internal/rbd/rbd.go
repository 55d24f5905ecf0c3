// Package rbd lists and removes Ceph RBD images with the rbd tool.
package rbd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jbweber/crucible/internal/disk"
	"github.com/jbweber/crucible/internal/process"
)

// removeAttempts is how many times "rbd rm" is tried per image.
const removeAttempts = 3

// Credentials selects the pool and cluster identity used for rbd commands.
type Credentials struct {
	Pool     string
	ConfPath string // Optional ceph.conf path
	User     string // Optional cephx user
}

// args appends the optional identity flags to base.
func (c Credentials) args(base ...string) []string {
	if c.User != "" {
		base = append(base, "--id", c.User)
	}
	if c.ConfPath != "" {
		base = append(base, "--conf", c.ConfPath)
	}
	return base
}

// Client runs rbd commands against one pool.
type Client struct {
	runner process.Runner
	creds  Credentials
}

// NewClient creates a Client for the pool in creds.
func NewClient(runner process.Runner, creds Credentials) *Client {
	return &Client{runner: runner, creds: creds}
}

// ListVolumes returns the image names in the pool.
func (c *Client) ListVolumes(ctx context.Context) ([]string, error) {
	cmd := process.NewCommand("rbd", c.creds.args("-p", c.creds.Pool, "ls")...)
	out, err := c.runner.Run(ctx, cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to list rbd images in pool %s: %w", c.creds.Pool, err)
	}

	var names []string
	for _, line := range strings.Split(out.Stdout, "\n") {
		if name := strings.TrimSpace(line); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// RemoveVolumes deletes each named image in order. Every image is
// attempted; a *disk.VolumesNotRemovedError lists those that failed.
func (c *Client) RemoveVolumes(ctx context.Context, names []string) error {
	var failed disk.VolumesNotRemovedError

	for _, name := range names {
		cmd := process.NewCommand("rbd", c.creds.args("-p", c.creds.Pool, "rm", name)...).
			AsRoot().
			WithAttempts(removeAttempts)
		if _, err := c.runner.Run(ctx, cmd); err != nil {
			slog.Warn("Failed to remove rbd image.", "pool", c.creds.Pool, "name", name, "err", err)
			failed.Add(name, fmt.Errorf("failed to remove rbd image %s: %w", name, err))
		}
	}

	return failed.ErrOrNil()
}
