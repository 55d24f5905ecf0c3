// Package lvm erases and removes LVM logical volumes backing instance disks.
//
// This package provides:
//   - Tiered zero-fill erase planning (PlanZero) and execution (Eraser)
//   - Shred-based erase as an alternative method
//   - Logical volume listing, sizing, and batch removal (Manager)
//
// Every tool runs through a process.Runner with root privileges.
//
// Example usage:
//
//	runner, _ := process.NewExecRunner("sudo", 0, 0)
//	mgr := lvm.NewManager(runner)
//
//	opts := lvm.EraseOptions{Method: lvm.EraseZero, MaxBytes: 512 * 1024 * 1024}
//	if err := mgr.RemoveLogicalVolumes(ctx, []string{"/dev/nova/abc_disk"}, opts); err != nil {
//	    var notRemoved *disk.VolumesNotRemovedError
//	    if errors.As(err, &notRemoved) {
//	        // notRemoved.Volumes lists the survivors
//	    }
//	}
package lvm
