// Package disk inspects, classifies and transports VM disk images.
//
// This package handles:
//   - Parsing "qemu-img info" reports into DiskImageInfo
//   - Classifying a disk path as lvm, rbd, or an image format
//   - Copying images locally or to another host (rsync, falling back to scp)
//   - The error taxonomy shared by the volume packages (lvm, rbd)
//
// Report Parsing:
//
// Reports are parsed line by line. Each "<key>: <value>" line is mapped to
// a field tag and stored by that tag's setter; unknown tags are skipped:
//
//	image: disk.config
//	file format: raw
//	virtual size: 64M (67108864 bytes)
//	disk size: 96K
//
// Sizes use binary units (K = 1024), and an exact "(N bytes)" count takes
// precedence over the rounded human-readable value.
//
// Example usage:
//
//	runner, err := process.NewExecRunner("sudo", 0, 0)
//	if err != nil {
//	    return err
//	}
//
//	inspector := disk.NewInspector(runner)
//	kind, err := disk.NewClassifier(inspector).Classify(ctx, "/var/lib/nova/instances/abc/disk")
//	if err != nil {
//	    return err
//	}
package disk
