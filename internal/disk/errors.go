package disk

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the failure kinds callers branch on.
var (
	// ErrMalformedReport means a qemu-img report lacked required fields.
	ErrMalformedReport = errors.New("malformed disk report")
	// ErrNotFound means the path or identifier does not exist.
	ErrNotFound = errors.New("disk not found")
	// ErrEraseFailed means an erase step exited non-zero.
	ErrEraseFailed = errors.New("volume erase failed")
	// ErrCopyFailed means every copy strategy was exhausted.
	ErrCopyFailed = errors.New("image copy failed")
	// ErrVolumesNotRemoved means one or more volumes in a batch survived.
	ErrVolumesNotRemoved = errors.New("volumes not removed")
)

// MalformedReportError describes why a qemu-img report was rejected.
type MalformedReportError struct {
	Missing []string // Required fields not present in the report
	Reason  string   // Set when the report is structurally invalid
}

func (e *MalformedReportError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("%v: missing %s", ErrMalformedReport, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("%v: %s", ErrMalformedReport, e.Reason)
}

func (e *MalformedReportError) Is(target error) bool {
	return target == ErrMalformedReport
}

// CopyError reports that an image could not be copied to its destination.
type CopyError struct {
	Source      string
	Destination string
	Err         error // Last strategy's failure
}

func (e *CopyError) Error() string {
	return fmt.Sprintf("%v: %s to %s: %v", ErrCopyFailed, e.Source, e.Destination, e.Err)
}

func (e *CopyError) Is(target error) bool {
	return target == ErrCopyFailed
}

func (e *CopyError) Unwrap() error {
	return e.Err
}

// VolumesNotRemovedError lists every volume in a batch that failed to be
// erased or deleted, in the order the batch was given.
type VolumesNotRemovedError struct {
	Volumes []string
	Errs    []error // Errs[i] is the failure for Volumes[i]
}

func (e *VolumesNotRemovedError) Error() string {
	reasons := make([]string, 0, len(e.Errs))
	for i, err := range e.Errs {
		reasons = append(reasons, fmt.Sprintf("%s: %v", e.Volumes[i], err))
	}
	return fmt.Sprintf("%v: %s", ErrVolumesNotRemoved, strings.Join(reasons, "; "))
}

func (e *VolumesNotRemovedError) Is(target error) bool {
	return target == ErrVolumesNotRemoved
}

func (e *VolumesNotRemovedError) Unwrap() []error {
	return e.Errs
}

// Add records a failed volume.
func (e *VolumesNotRemovedError) Add(volume string, err error) {
	e.Volumes = append(e.Volumes, volume)
	e.Errs = append(e.Errs, err)
}

// ErrOrNil returns e when it holds failures and nil otherwise.
func (e *VolumesNotRemovedError) ErrOrNil() error {
	if e == nil || len(e.Volumes) == 0 {
		return nil
	}
	return e
}
