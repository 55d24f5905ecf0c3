package lvm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jbweber/crucible/internal/disk"
	"github.com/jbweber/crucible/internal/process"
)

// removeAttempts is how many times lvremove is tried per volume.
const removeAttempts = 3

// VolumeEraser overwrites a volume before it is removed.
//
// In production, this is satisfied by *Eraser.
// In tests, this is satisfied by a mock eraser.
type VolumeEraser interface {
	ClearVolume(ctx context.Context, path string, opts EraseOptions) error
}

// Manager lists, sizes and removes logical volumes.
type Manager struct {
	runner process.Runner
	eraser VolumeEraser
}

// NewManager creates a Manager that erases volumes with an Eraser built on
// the same runner.
func NewManager(runner process.Runner) *Manager {
	return &Manager{
		runner: runner,
		eraser: NewEraser(runner),
	}
}

// NewManagerWithEraser creates a Manager that erases volumes with eraser.
func NewManagerWithEraser(runner process.Runner, eraser VolumeEraser) *Manager {
	return &Manager{
		runner: runner,
		eraser: eraser,
	}
}

// VolumeSize returns the size of the logical volume at path in bytes.
func (m *Manager) VolumeSize(ctx context.Context, path string) (uint64, error) {
	return volumeSize(ctx, m.runner, path)
}

// ListLogicalVolumes returns the names of the logical volumes in the volume
// group vg.
func (m *Manager) ListLogicalVolumes(ctx context.Context, vg string) ([]string, error) {
	cmd := process.NewCommand("lvs", "--noheadings", "-o", "lv_name", vg).AsRoot()
	out, err := m.runner.Run(ctx, cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to list logical volumes in %s: %w", vg, err)
	}

	var names []string
	for _, line := range strings.Split(out.Stdout, "\n") {
		if name := strings.TrimSpace(line); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// RemoveLogicalVolumes erases then deletes each volume in paths, in order.
// A volume whose erase fails is not deleted. Every volume is attempted; a
// *disk.VolumesNotRemovedError lists those that failed.
func (m *Manager) RemoveLogicalVolumes(ctx context.Context, paths []string, opts EraseOptions) error {
	var failed disk.VolumesNotRemovedError

	for _, path := range paths {
		if err := m.removeOne(ctx, path, opts); err != nil {
			slog.Warn("Failed to remove logical volume.", "path", path, "err", err)
			failed.Add(path, err)
		}
	}

	return failed.ErrOrNil()
}

func (m *Manager) removeOne(ctx context.Context, path string, opts EraseOptions) error {
	if err := m.eraser.ClearVolume(ctx, path, opts); err != nil {
		return err
	}

	cmd := process.NewCommand("lvremove", "-f", path).AsRoot().WithAttempts(removeAttempts)
	if _, err := m.runner.Run(ctx, cmd); err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}
