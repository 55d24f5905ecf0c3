package disk

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jbweber/crucible/internal/process"
)

// QemuImg is the disk introspection tool.
const QemuImg = "qemu-img"

// rbdPrefix marks a Ceph RBD identifier, "rbd:pool/name".
const rbdPrefix = "rbd:"

// Inspector reads image metadata with qemu-img.
type Inspector struct {
	runner process.Runner
}

// NewInspector creates an Inspector that runs qemu-img through runner.
func NewInspector(runner process.Runner) *Inspector {
	return &Inspector{runner: runner}
}

// InfoCommand is the qemu-img invocation for path. The locale is forced to
// C so sizes and units print the same way on every host.
func InfoCommand(path string) process.Command {
	return process.NewCommand("env", "LC_ALL=C", "LANG=C", QemuImg, "info", path)
}

// Info runs "qemu-img info" on path and parses the report. Local paths
// that do not exist fail with ErrNotFound before qemu-img is run.
func (i *Inspector) Info(ctx context.Context, path string) (DiskImageInfo, error) {
	if err := checkExists(path); err != nil {
		return DiskImageInfo{}, err
	}

	out, err := i.runner.Run(ctx, InfoCommand(path))
	if err != nil {
		return DiskImageInfo{}, fmt.Errorf("failed to inspect %s: %w", path, err)
	}

	info, err := Parse(out.Stdout)
	if err != nil {
		return DiskImageInfo{}, fmt.Errorf("failed to parse qemu-img report for %s: %w", path, err)
	}
	return info, nil
}

// VirtualSize returns the guest-visible size of the image at path in bytes.
func (i *Inspector) VirtualSize(ctx context.Context, path string) (uint64, error) {
	info, err := i.Info(ctx, path)
	if err != nil {
		return 0, err
	}
	return info.VirtualSize, nil
}

// BackingFile returns the base name of the image's backing file, or ""
// when the image has none.
func (i *Inspector) BackingFile(ctx context.Context, path string) (string, error) {
	info, err := i.Info(ctx, path)
	if err != nil {
		return "", err
	}
	if !info.HasBackingFile() {
		return "", nil
	}
	return filepath.Base(info.BackingFile), nil
}

func checkExists(path string) error {
	if strings.HasPrefix(path, rbdPrefix) {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return nil
}
