// Package output provides formatters for displaying disk reports and
// volume listings in various formats (table, YAML, JSON).
package output

import (
	"fmt"

	"github.com/jbweber/crucible/internal/disk"
)

// Format represents an output format type.
type Format string

const (
	// FormatTable is a human-readable table format.
	FormatTable Format = "table"
	// FormatYAML is a YAML format.
	FormatYAML Format = "yaml"
	// FormatJSON is a JSON format for machine consumption.
	FormatJSON Format = "json"
)

// Volume is one entry of a volume listing.
type Volume struct {
	Name string `json:"name" yaml:"name"`
	Path string `json:"path" yaml:"path"`                     // Device path or rbd identifier
	Size uint64 `json:"size,omitempty" yaml:"size,omitempty"` // Bytes, 0 when not looked up
}

// Formatter formats crucible results for output.
type Formatter interface {
	// FormatDiskInfo formats a parsed qemu-img report.
	FormatDiskInfo(info disk.DiskImageInfo) (string, error)

	// FormatVolumes formats a list of volumes.
	FormatVolumes(volumes []Volume) (string, error)
}

// Options contains options for formatting output.
type Options struct {
	// Format specifies the output format.
	Format Format
	// NoHeaders omits headers in table format.
	NoHeaders bool
}

// NewFormatter creates a new Formatter based on the specified format.
func NewFormatter(opts Options) (Formatter, error) {
	switch opts.Format {
	case FormatTable:
		return &TableFormatter{NoHeaders: opts.NoHeaders}, nil
	case FormatYAML:
		return &YAMLFormatter{}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (supported: table, yaml, json)", opts.Format)
	}
}

// ValidateFormat checks if a format string is valid.
func ValidateFormat(format string) error {
	f := Format(format)
	switch f {
	case FormatTable, FormatYAML, FormatJSON:
		return nil
	default:
		return fmt.Errorf("invalid format: %s (valid formats: table, yaml, json)", format)
	}
}
