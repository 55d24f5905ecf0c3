package output

import (
	"encoding/json"
	"fmt"

	"github.com/jbweber/crucible/internal/disk"
)

// JSONFormatter formats results as JSON.
type JSONFormatter struct{}

// FormatDiskInfo formats a report as a JSON object.
func (f *JSONFormatter) FormatDiskInfo(info disk.DiskImageInfo) (string, error) {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal disk info to JSON: %w", err)
	}

	return string(data) + "\n", nil
}

// FormatVolumes formats a list of volumes as a JSON array.
func (f *JSONFormatter) FormatVolumes(volumes []Volume) (string, error) {
	if len(volumes) == 0 {
		return "[]\n", nil
	}

	data, err := json.MarshalIndent(volumes, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal volumes to JSON: %w", err)
	}

	return string(data) + "\n", nil
}
