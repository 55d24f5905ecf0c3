package disk

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifier_DevicePathsAreLVM(t *testing.T) {
	// The report would say qcow2; device paths never consult it.
	runner := reportRunner(`image: x
file format: qcow2
virtual size: 1G
disk size: 1G
`)
	c := NewClassifier(NewInspector(runner))

	for _, path := range []string{"/dev/b", "/dev/blah/blah", "/dev/nova-vg/instance_disk"} {
		kind, err := c.Classify(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, KindLVM, kind, path)
	}
	assert.Empty(t, runner.Calls())
}

func TestClassifier_RBD(t *testing.T) {
	runner := reportRunner("")
	c := NewClassifier(NewInspector(runner))

	kind, err := c.Classify(context.Background(), "rbd:pool/instance")
	require.NoError(t, err)
	assert.Equal(t, KindRBD, kind)
	assert.Empty(t, runner.Calls())
}

func TestClassifier_ImageFormats(t *testing.T) {
	template := `image: %s
file format: %s
virtual size: 64M (67108864 bytes)
cluster_size: 65536
disk size: 96K
`
	tests := []struct {
		format string
		want   Kind
	}{
		{"raw", KindRaw},
		{"qcow2", KindQCOW2},
		{"QCOW2", KindQCOW2},
		{"VMDK", Kind("vmdk")},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			path := newImageFile(t, "disk.config")
			runner := reportRunner(fmt.Sprintf(template, path, tt.format))

			kind, err := NewClassifier(NewInspector(runner)).Classify(context.Background(), path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, kind)
			assert.Len(t, runner.Calls(), 1)
		})
	}
}

func TestClassifier_MissingFile(t *testing.T) {
	runner := reportRunner("")
	c := NewClassifier(NewInspector(runner))

	_, err := c.Classify(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestIsDevicePath(t *testing.T) {
	tests := map[string]bool{
		"/dev":             true,
		"/dev/sda":         true,
		"/dev/vg/lv":       true,
		"/dev/../etc/x":    false,
		"/devices/foo":     false,
		"dev/sda":          false,
		"/var/lib/disk":    false,
		"rbd:pool/volume":  false,
		"/dev//double/lv/": true,
	}
	for path, want := range tests {
		assert.Equal(t, want, isDevicePath(path), path)
	}
}

