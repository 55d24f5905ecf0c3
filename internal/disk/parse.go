package disk

import (
	"strconv"
	"strings"
	"unicode"
)

// Required report fields, in canonical form.
const (
	fieldImage        = "image"
	fieldFileFormat   = "file_format"
	fieldVirtualSize  = "virtual_size"
	fieldDiskSize     = "disk_size"
	fieldClusterSize  = "cluster_size"
	fieldBackingFile  = "backing_file"
	fieldSnapshotList = "snapshot_list"
)

var requiredFields = []string{fieldImage, fieldFileFormat, fieldVirtualSize, fieldDiskSize}

// fieldSetter stores one report field. It may consume the lines that
// follow the field (the snapshot table does).
type fieldSetter func(p *reportParser, value string) error

// fieldSetters maps each known field tag to its setter. Tags not listed
// here are ignored so newer qemu-img releases can add fields.
var fieldSetters = map[string]fieldSetter{
	fieldImage: func(p *reportParser, value string) error {
		p.info.Image = value
		return nil
	},
	fieldFileFormat: func(p *reportParser, value string) error {
		p.info.FileFormat = strings.ToLower(value)
		return nil
	},
	fieldVirtualSize: func(p *reportParser, value string) error {
		n, err := ParseSize(value)
		if err != nil {
			return err
		}
		p.info.VirtualSize = n
		return nil
	},
	fieldDiskSize: func(p *reportParser, value string) error {
		n, err := ParseSize(value)
		if err != nil {
			return err
		}
		p.info.DiskSize = n
		return nil
	},
	fieldClusterSize: func(p *reportParser, value string) error {
		n, err := ParseSize(value)
		if err != nil {
			return err
		}
		p.info.ClusterSize = &n
		return nil
	},
	fieldBackingFile: func(p *reportParser, value string) error {
		p.info.BackingFile = actualBackingPath(value)
		return nil
	},
	fieldSnapshotList: func(p *reportParser, _ string) error {
		return p.parseSnapshots()
	},
}

// Parse turns the text of "qemu-img info" into a DiskImageInfo. It fails
// with a *MalformedReportError when image, file format, virtual size or
// disk size is missing, or when a known field cannot be parsed.
func Parse(report string) (DiskImageInfo, error) {
	p := &reportParser{
		lines: strings.Split(report, "\n"),
		seen:  make(map[string]bool),
	}
	return p.parse()
}

type reportParser struct {
	lines []string
	pos   int
	info  DiskImageInfo
	seen  map[string]bool
}

func (p *reportParser) parse() (DiskImageInfo, error) {
	for p.pos < len(p.lines) {
		line := p.lines[p.pos]
		p.pos++

		key, value, ok := splitField(line)
		if !ok {
			continue
		}
		set, known := fieldSetters[key]
		if !known {
			continue
		}
		if err := set(p, value); err != nil {
			return DiskImageInfo{}, &MalformedReportError{Reason: key + ": " + err.Error()}
		}
		p.seen[key] = true
	}

	var missing []string
	for _, field := range requiredFields {
		if !p.seen[field] {
			missing = append(missing, strings.ReplaceAll(field, "_", " "))
		}
	}
	if len(missing) > 0 {
		return DiskImageInfo{}, &MalformedReportError{Missing: missing}
	}

	return p.info, nil
}

// parseSnapshots consumes the header and rows of a snapshot table. Rows
// end at the first line that does not look like one.
func (p *reportParser) parseSnapshots() error {
	if p.pos >= len(p.lines) || !strings.HasPrefix(strings.TrimSpace(p.lines[p.pos]), "ID") {
		return errSnapshotHeader
	}
	p.pos++

	for p.pos < len(p.lines) {
		snap, ok := parseSnapshotRow(p.lines[p.pos])
		if !ok {
			break
		}
		p.info.Snapshots = append(p.info.Snapshots, snap)
		p.pos++
	}
	return nil
}

type parseError string

func (e parseError) Error() string { return string(e) }

const errSnapshotHeader = parseError("snapshot list encountered but no header found")

// parseSnapshotRow reads "ID TAG VM-SIZE DATE TIME VM-CLOCK [ICOUNT]".
// Newer qemu-img releases print the VM size as two columns ("0 B") and
// may add an ICOUNT column, so the clock is the last field shaped
// hh:mm:ss and the size is whatever sits between the tag and the date.
func parseSnapshotRow(line string) (Snapshot, bool) {
	f := strings.Fields(line)
	if len(f) < 6 || !isDigits(f[0]) {
		return Snapshot{}, false
	}

	clock := -1
	for i := len(f) - 1; i >= 5; i-- {
		if strings.Count(f[i], ":") == 2 {
			clock = i
			break
		}
	}
	if clock < 0 {
		clock = len(f) - 1
	}

	return Snapshot{
		ID:      f[0],
		Tag:     f[1],
		VMSize:  strings.Join(f[2:clock-2], " "),
		Date:    f[clock-2] + " " + f[clock-1],
		VMClock: f[clock],
		ICount:  strings.Join(f[clock+1:], " "),
	}, true
}

// splitField splits "<key>: <value>" and canonicalises the key: lower
// case, with spaces and hyphens turned into underscores.
func splitField(line string) (key, value string, ok bool) {
	idx := strings.Index(line, ":")
	if idx <= 0 {
		return "", "", false
	}
	raw := line[:idx]
	for _, r := range raw {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' && r != ' ' && r != '\t' {
			return "", "", false
		}
	}

	key = strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	if key == "" {
		return "", "", false
	}
	return key, strings.TrimSpace(line[idx+1:]), true
}

// actualBackingPath returns p from "<nominal> (actual path: <p>)", or the
// value itself when no actual path is given.
func actualBackingPath(value string) string {
	const marker = "(actual path:"
	idx := strings.Index(strings.ToLower(value), marker)
	if idx < 0 {
		return strings.TrimSpace(value)
	}
	actual := strings.TrimSpace(value[idx+len(marker):])
	actual = strings.TrimSuffix(actual, ")")
	if actual = strings.TrimSpace(actual); actual != "" {
		return actual
	}
	return strings.TrimSpace(value[:idx])
}

func isDigits(s string) bool {
	_, err := strconv.ParseUint(s, 10, 64)
	return err == nil
}
