package output

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/jbweber/crucible/internal/disk"
)

// YAMLFormatter formats results as YAML.
type YAMLFormatter struct{}

// FormatDiskInfo formats a report as a YAML document.
func (f *YAMLFormatter) FormatDiskInfo(info disk.DiskImageInfo) (string, error) {
	data, err := yaml.Marshal(info)
	if err != nil {
		return "", fmt.Errorf("failed to marshal disk info to YAML: %w", err)
	}

	return string(data), nil
}

// FormatVolumes formats a list of volumes as a YAML sequence.
func (f *YAMLFormatter) FormatVolumes(volumes []Volume) (string, error) {
	if len(volumes) == 0 {
		return "[]\n", nil
	}

	data, err := yaml.Marshal(volumes)
	if err != nil {
		return "", fmt.Errorf("failed to marshal volumes to YAML: %w", err)
	}

	return string(data), nil
}
