package output

import (
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/jbweber/crucible/internal/disk"
)

func testDiskInfo() disk.DiskImageInfo {
	cluster := uint64(65536)
	return disk.DiskImageInfo{
		Image:       "/var/lib/nova/instances/9b0c/disk",
		FileFormat:  "qcow2",
		VirtualSize: 1073741824,
		DiskSize:    200704,
		ClusterSize: &cluster,
		BackingFile: "/var/lib/nova/instances/_base/a328c799",
		Snapshots: []disk.Snapshot{
			{ID: "1", Tag: "before-upgrade", VMSize: "0", Date: "2024-03-01 12:00:00", VMClock: "00:00:00.000"},
		},
	}
}

func testVolumes() []Volume {
	return []Volume{
		{Name: "9b0c_disk", Path: "/dev/nova-vg/9b0c_disk", Size: 21474836480},
		{Name: "9b0c_disk.swap", Path: "/dev/nova-vg/9b0c_disk.swap"},
	}
}

func TestTableFormatter_FormatDiskInfo(t *testing.T) {
	out, err := (&TableFormatter{}).FormatDiskInfo(testDiskInfo())
	if err != nil {
		t.Fatalf("FormatDiskInfo() error = %v", err)
	}

	for _, want := range []string{
		"/var/lib/nova/instances/9b0c/disk",
		"qcow2",
		"1.0 GiB (1073741824 bytes)",
		"196 KiB (200704 bytes)",
		"64 KiB (65536 bytes)",
		"_base/a328c799",
		"ID  TAG",
		"before-upgrade",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTableFormatter_FormatDiskInfo_Minimal(t *testing.T) {
	info := disk.DiskImageInfo{Image: "disk.config", FileFormat: "raw", VirtualSize: 67108864, DiskSize: 98304}

	out, err := (&TableFormatter{}).FormatDiskInfo(info)
	if err != nil {
		t.Fatalf("FormatDiskInfo() error = %v", err)
	}

	for _, absent := range []string{"CLUSTER SIZE", "BACKING FILE", "TAG"} {
		if strings.Contains(out, absent) {
			t.Errorf("output should not contain %q:\n%s", absent, out)
		}
	}
}

func TestTableFormatter_FormatVolumes(t *testing.T) {
	tests := []struct {
		name      string
		noHeaders bool
		volumes   []Volume
		want      []string
		notWant   []string
	}{
		{
			name:    "with headers",
			volumes: testVolumes(),
			want:    []string{"NAME", "PATH", "SIZE", "9b0c_disk", "20 GiB", "/dev/nova-vg/9b0c_disk.swap"},
		},
		{
			name:      "without headers",
			noHeaders: true,
			volumes:   testVolumes(),
			want:      []string{"9b0c_disk"},
			notWant:   []string{"NAME"},
		},
		{
			name:    "empty",
			volumes: nil,
			want:    []string{"No volumes found"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := (&TableFormatter{NoHeaders: tt.noHeaders}).FormatVolumes(tt.volumes)
			if err != nil {
				t.Fatalf("FormatVolumes() error = %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
			for _, notWant := range tt.notWant {
				if strings.Contains(out, notWant) {
					t.Errorf("output should not contain %q:\n%s", notWant, out)
				}
			}
		})
	}
}

func TestJSONFormatter_FormatDiskInfo(t *testing.T) {
	out, err := (&JSONFormatter{}).FormatDiskInfo(testDiskInfo())
	if err != nil {
		t.Fatalf("FormatDiskInfo() error = %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}
	if got["fileFormat"] != "qcow2" {
		t.Errorf("fileFormat = %v", got["fileFormat"])
	}
	if got["virtualSize"] != float64(1073741824) {
		t.Errorf("virtualSize = %v", got["virtualSize"])
	}
}

func TestJSONFormatter_FormatVolumes_Empty(t *testing.T) {
	out, err := (&JSONFormatter{}).FormatVolumes(nil)
	if err != nil {
		t.Fatalf("FormatVolumes() error = %v", err)
	}
	if out != "[]\n" {
		t.Errorf("expected empty array, got %q", out)
	}
}

func TestYAMLFormatter_FormatVolumes(t *testing.T) {
	out, err := (&YAMLFormatter{}).FormatVolumes(testVolumes())
	if err != nil {
		t.Fatalf("FormatVolumes() error = %v", err)
	}

	var got []Volume
	if err := yaml.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not valid YAML: %v\n%s", err, out)
	}
	if len(got) != 2 || got[0].Size != 21474836480 || got[1].Size != 0 {
		t.Errorf("unexpected volumes: %+v", got)
	}
	if strings.Contains(out, "size: 0") {
		t.Errorf("unknown sizes should be omitted:\n%s", out)
	}
}

func TestYAMLFormatter_FormatDiskInfo(t *testing.T) {
	out, err := (&YAMLFormatter{}).FormatDiskInfo(testDiskInfo())
	if err != nil {
		t.Fatalf("FormatDiskInfo() error = %v", err)
	}
	for _, want := range []string{"fileFormat: qcow2", "clusterSize: 65536", "tag: before-upgrade"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestNewFormatter(t *testing.T) {
	for _, format := range []Format{FormatTable, FormatYAML, FormatJSON} {
		if _, err := NewFormatter(Options{Format: format}); err != nil {
			t.Errorf("NewFormatter(%s) error = %v", format, err)
		}
	}
	if _, err := NewFormatter(Options{Format: "xml"}); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestValidateFormat(t *testing.T) {
	tests := map[string]bool{
		"table": true,
		"yaml":  true,
		"json":  true,
		"xml":   false,
		"":      false,
	}
	for format, valid := range tests {
		err := ValidateFormat(format)
		if valid && err != nil {
			t.Errorf("ValidateFormat(%q) unexpected error: %v", format, err)
		}
		if !valid && err == nil {
			t.Errorf("ValidateFormat(%q) expected error", format)
		}
	}
}
