package lvm

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jbweber/crucible/internal/disk"
	"github.com/jbweber/crucible/internal/process"
)

// EraseMethod selects how a volume is overwritten before removal.
type EraseMethod string

const (
	// EraseZero overwrites the volume with zeros using dd.
	EraseZero EraseMethod = "zero"
	// EraseShred overwrites the volume with three shred passes.
	EraseShred EraseMethod = "shred"
	// EraseNone leaves the volume contents untouched.
	EraseNone EraseMethod = "none"
)

// ShredPasses is the number of overwrite passes shred performs.
const ShredPasses = 3

// zeroTiers are the dd block sizes tried from largest to smallest.
var zeroTiers = []uint64{1 << 20, 1 << 10, 1}

// directTier is the smallest block size written with O_DIRECT.
const directTier = 1 << 20

// EraseOptions is the erase policy captured for one top-level call.
type EraseOptions struct {
	Method   EraseMethod
	MaxBytes uint64 // 0 clears the whole volume
}

// Bytes returns how many bytes of a volume of the given size are cleared.
func (o EraseOptions) Bytes(size uint64) uint64 {
	if o.MaxBytes > 0 && o.MaxBytes < size {
		return o.MaxBytes
	}
	return size
}

// EraseStep is one dd invocation of a zero-fill plan.
type EraseStep struct {
	BlockSize uint64 // Bytes per block
	Seek      uint64 // Offset in BlockSize units
	Count     uint64 // Blocks written
	Sync      bool   // conv=fdatasync instead of oflag=direct
}

// Command returns the dd invocation that performs the step on path.
func (s EraseStep) Command(path string) process.Command {
	flag := "oflag=direct"
	if s.Sync {
		flag = "conv=fdatasync"
	}
	return process.NewCommand("dd",
		"bs="+strconv.FormatUint(s.BlockSize, 10),
		"if=/dev/zero",
		"of="+path,
		"seek="+strconv.FormatUint(s.Seek, 10),
		"count="+strconv.FormatUint(s.Count, 10),
		flag,
	).AsRoot()
}

// Bytes returns how many bytes the step writes.
func (s EraseStep) Bytes() uint64 {
	return s.BlockSize * s.Count
}

// PlanZero splits total bytes into dd steps, largest blocks first, so that
// every byte from offset 0 is written exactly once.
func PlanZero(total uint64) []EraseStep {
	var steps []EraseStep
	remaining := total
	for _, bs := range zeroTiers {
		count := remaining / bs
		if count == 0 {
			continue
		}
		steps = append(steps, EraseStep{
			BlockSize: bs,
			Seek:      (total - remaining) / bs,
			Count:     count,
			Sync:      bs < directTier,
		})
		remaining -= count * bs
	}
	return steps
}

// EraseError reports a failed erase step.
type EraseError struct {
	Path string
	Step *EraseStep // nil for shred
	Err  error
}

func (e *EraseError) Error() string {
	if e.Step != nil {
		return fmt.Sprintf("%v: %s (bs=%d seek=%d count=%d): %v",
			disk.ErrEraseFailed, e.Path, e.Step.BlockSize, e.Step.Seek, e.Step.Count, e.Err)
	}
	return fmt.Sprintf("%v: %s: %v", disk.ErrEraseFailed, e.Path, e.Err)
}

func (e *EraseError) Is(target error) bool {
	return target == disk.ErrEraseFailed
}

func (e *EraseError) Unwrap() error {
	return e.Err
}

// Eraser overwrites logical volumes.
type Eraser struct {
	runner process.Runner
}

// NewEraser creates an Eraser that runs dd, shred and blockdev through runner.
func NewEraser(runner process.Runner) *Eraser {
	return &Eraser{runner: runner}
}

// VolumeSize returns the size of the block device at path in bytes.
func (e *Eraser) VolumeSize(ctx context.Context, path string) (uint64, error) {
	return volumeSize(ctx, e.runner, path)
}

func volumeSize(ctx context.Context, runner process.Runner, path string) (uint64, error) {
	cmd := process.NewCommand("blockdev", "--getsize64", path).AsRoot()
	out, err := runner.Run(ctx, cmd)
	if err != nil {
		return 0, fmt.Errorf("failed to get size of %s: %w", path, err)
	}

	size, err := strconv.ParseUint(strings.TrimSpace(out.Stdout), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse size of %s: %w", path, err)
	}
	return size, nil
}

// ClearVolume reads the size of the volume at path and erases it.
func (e *Eraser) ClearVolume(ctx context.Context, path string, opts EraseOptions) error {
	if opts.Method == EraseNone {
		return nil
	}

	size, err := e.VolumeSize(ctx, path)
	if err != nil {
		return err
	}
	return e.Clear(ctx, path, size, opts)
}

// Clear erases the first opts.Bytes(size) bytes of the volume at path.
// Unrecognised methods fall back to EraseZero.
func (e *Eraser) Clear(ctx context.Context, path string, size uint64, opts EraseOptions) error {
	total := opts.Bytes(size)

	switch opts.Method {
	case EraseNone:
		return nil
	case EraseShred:
		return e.shred(ctx, path, total)
	case EraseZero:
	default:
		slog.Error("Unknown volume_clear method, using zero.",
			"method", string(opts.Method),
			"path", path,
		)
	}

	for _, step := range PlanZero(total) {
		if _, err := e.runner.Run(ctx, step.Command(path)); err != nil {
			return &EraseError{Path: path, Step: &step, Err: err}
		}
	}
	return nil
}

func (e *Eraser) shred(ctx context.Context, path string, total uint64) error {
	cmd := process.NewCommand("shred",
		"-n"+strconv.Itoa(ShredPasses),
		"-s"+strconv.FormatUint(total, 10),
		path,
	).AsRoot()
	if _, err := e.runner.Run(ctx, cmd); err != nil {
		return &EraseError{Path: path, Err: err}
	}
	return nil
}
