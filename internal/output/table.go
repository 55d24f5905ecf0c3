package output

import (
	"bytes"
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/jbweber/crucible/internal/disk"
)

// TableFormatter formats results as human-readable tables.
type TableFormatter struct {
	// NoHeaders omits the header row.
	NoHeaders bool
}

// FormatDiskInfo formats a report as aligned key/value rows followed by a
// snapshot table when the image has snapshots.
func (f *TableFormatter) FormatDiskInfo(info disk.DiskImageInfo) (string, error) {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintf(w, "IMAGE:\t%s\n", info.Image)
	_, _ = fmt.Fprintf(w, "FORMAT:\t%s\n", info.FileFormat)
	_, _ = fmt.Fprintf(w, "VIRTUAL SIZE:\t%s\n", formatBytes(info.VirtualSize))
	_, _ = fmt.Fprintf(w, "DISK SIZE:\t%s\n", formatBytes(info.DiskSize))
	if info.ClusterSize != nil {
		_, _ = fmt.Fprintf(w, "CLUSTER SIZE:\t%s\n", formatBytes(*info.ClusterSize))
	}
	if info.HasBackingFile() {
		_, _ = fmt.Fprintf(w, "BACKING FILE:\t%s\n", info.BackingFile)
	}
	_ = w.Flush()

	if len(info.Snapshots) == 0 {
		return buf.String(), nil
	}

	buf.WriteString("\n")
	w = tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	if !f.NoHeaders {
		_, _ = fmt.Fprintln(w, "ID\tTAG\tVM SIZE\tDATE\tVM CLOCK")
	}
	for _, s := range info.Snapshots {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", s.ID, s.Tag, s.VMSize, s.Date, s.VMClock)
	}
	_ = w.Flush()

	return buf.String(), nil
}

// FormatVolumes formats a list of volumes as a table.
func (f *TableFormatter) FormatVolumes(volumes []Volume) (string, error) {
	if len(volumes) == 0 {
		return "No volumes found\n", nil
	}

	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	if !f.NoHeaders {
		_, _ = fmt.Fprintln(w, "NAME\tPATH\tSIZE")
	}

	for _, v := range volumes {
		size := "-"
		if v.Size > 0 {
			size = humanize.IBytes(v.Size)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", v.Name, v.Path, size)
	}

	_ = w.Flush()
	return buf.String(), nil
}

// formatBytes renders a size as "1.0 GiB (1073741824 bytes)".
func formatBytes(n uint64) string {
	return fmt.Sprintf("%s (%d bytes)", humanize.IBytes(n), n)
}
