// Package naming provides the naming conventions for instance disk
// volumes: volume names derived from the instance UUID, LVM device paths,
// and RBD identifiers.
package naming

import (
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Volume suffixes appended to "<uuid>_".
const (
	SuffixDisk   = "disk"
	SuffixLocal  = "disk.local"
	SuffixSwap   = "disk.swap"
	SuffixConfig = "disk.config"
)

// ParseInstanceUUID validates an instance UUID and returns it in canonical
// lower-case form.
func ParseInstanceUUID(s string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("invalid instance UUID %q: %w", s, err)
	}
	return id.String(), nil
}

// InstancePrefix returns the prefix shared by every volume of an instance.
// Format: {uuid}_
func InstancePrefix(instanceUUID string) string {
	return instanceUUID + "_"
}

// VolumeName returns the volume name for one of an instance's disks.
// Format: {uuid}_{suffix} (e.g., "9b0c..._disk.local")
func VolumeName(instanceUUID, suffix string) string {
	return InstancePrefix(instanceUUID) + suffix
}

// Suffixes lists the well-known instance volume suffixes, root disk first.
var Suffixes = []string{SuffixDisk, SuffixLocal, SuffixSwap, SuffixConfig}

// VolumeSuffix returns the well-known suffix of an instance volume, or
// false when volume is not one of the instance's well-known volumes.
func VolumeSuffix(volume, instanceUUID string) (string, bool) {
	for _, suffix := range Suffixes {
		if volume == VolumeName(instanceUUID, suffix) {
			return suffix, true
		}
	}
	return "", false
}

// BelongsToInstance reports whether volume is named for the instance.
func BelongsToInstance(volume, instanceUUID string) bool {
	return strings.HasPrefix(volume, InstancePrefix(instanceUUID))
}

// FilterInstanceVolumes returns the names in volumes that belong to the
// instance, keeping their order.
func FilterInstanceVolumes(volumes []string, instanceUUID string) []string {
	var matched []string
	for _, v := range volumes {
		if BelongsToInstance(v, instanceUUID) {
			matched = append(matched, v)
		}
	}
	return matched
}

// LogicalVolumePath returns the device path of a logical volume.
// Format: /dev/{vg}/{name}
func LogicalVolumePath(vg, name string) string {
	return path.Join("/dev", vg, name)
}

// RBDIdentifier returns the qemu identifier of an RBD image.
// Format: rbd:{pool}/{name}
func RBDIdentifier(pool, name string) string {
	return "rbd:" + pool + "/" + name
}
