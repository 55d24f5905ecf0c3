package disk

// Kind is the storage backend behind a disk path or identifier.
// Besides the fixed kinds below, any image format qemu-img reports
// (for example "vmdk") is a valid Kind.
type Kind string

const (
	KindLVM   Kind = "lvm"   // Logical volume under /dev
	KindRBD   Kind = "rbd"   // Ceph RBD image, "rbd:pool/name"
	KindRaw   Kind = "raw"   // Raw image file
	KindQCOW2 Kind = "qcow2" // QCOW2 image file
)

// DiskImageInfo is the parsed output of "qemu-img info" for one image.
// It is a point-in-time snapshot and is never updated after parsing.
type DiskImageInfo struct {
	Image       string     `json:"image" yaml:"image"`
	FileFormat  string     `json:"fileFormat" yaml:"fileFormat"`                       // Lower-cased, e.g. "qcow2"
	VirtualSize uint64     `json:"virtualSize" yaml:"virtualSize"`                     // Bytes
	DiskSize    uint64     `json:"diskSize" yaml:"diskSize"`                           // Bytes
	ClusterSize *uint64    `json:"clusterSize,omitempty" yaml:"clusterSize,omitempty"` // Bytes, nil when not reported
	BackingFile string     `json:"backingFile,omitempty" yaml:"backingFile,omitempty"` // Empty when the image has none
	Snapshots   []Snapshot `json:"snapshots,omitempty" yaml:"snapshots,omitempty"`
}

// Snapshot is one row of the report's snapshot list. Fields are kept as
// reported.
type Snapshot struct {
	ID      string `json:"id" yaml:"id"`
	Tag     string `json:"tag" yaml:"tag"`
	VMSize  string `json:"vmSize" yaml:"vmSize"`
	Date    string `json:"date" yaml:"date"`
	VMClock string `json:"vmClock" yaml:"vmClock"`
	ICount  string `json:"icount,omitempty" yaml:"icount,omitempty"` // Empty when not printed
}

// HasBackingFile reports whether the image is a copy-on-write overlay.
func (i DiskImageInfo) HasBackingFile() bool {
	return i.BackingFile != ""
}
