package disk

import (
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uitoa(n uint64) string {
	return strconv.FormatUint(n, 10)
}

func TestParse_Canonical(t *testing.T) {
	report := `image: disk.config
file format: raw
virtual size: 64M (67108864 bytes)
cluster_size: 65536
disk size: 96K
blah BLAH: bb
`
	info, err := Parse(report)
	require.NoError(t, err)

	assert.Equal(t, "disk.config", info.Image)
	assert.Equal(t, "raw", info.FileFormat)
	assert.Equal(t, uint64(67108864), info.VirtualSize)
	assert.Equal(t, uint64(98304), info.DiskSize)
	require.NotNil(t, info.ClusterSize)
	assert.Equal(t, uint64(65536), *info.ClusterSize)
	assert.Empty(t, info.BackingFile)
	assert.False(t, info.HasBackingFile())
	assert.Empty(t, info.Snapshots)
}

func TestParse_PlainNumbersAndBackingFile(t *testing.T) {
	report := `image: disk.config
file format: QCOW2
virtual size: 67108844
cluster_size: 65536
disk size: 963434
backing file: /var/lib/nova/a328c7998805951a_2
`
	info, err := Parse(report)
	require.NoError(t, err)

	assert.Equal(t, "qcow2", info.FileFormat)
	assert.Equal(t, uint64(67108844), info.VirtualSize)
	assert.Equal(t, uint64(963434), info.DiskSize)
	assert.Equal(t, "/var/lib/nova/a328c7998805951a_2", info.BackingFile)
	assert.True(t, info.HasBackingFile())
}

func TestParse_ActualBackingPathWins(t *testing.T) {
	report := `image: disk.config
file format: raw
virtual size: 64M (67108864 bytes)
cluster_size: 65536
disk size: 96K
Snapshot list:
ID        TAG                 VM SIZE                DATE       VM CLOCK
1     d9a9784a500742a7bb95627bb3aace38      0 2012-08-20 10:52:46 00:00:00.000
backing file: /var/lib/nova/a328c7998805951a_2 (actual path: /b/3a988059e51a_2)
`
	info, err := Parse(report)
	require.NoError(t, err)

	assert.Equal(t, "/b/3a988059e51a_2", info.BackingFile)
	assert.Equal(t, uint64(67108864), info.VirtualSize)
	assert.Equal(t, uint64(98304), info.DiskSize)
	require.Len(t, info.Snapshots, 1)
	assert.Equal(t, Snapshot{
		ID:      "1",
		Tag:     "d9a9784a500742a7bb95627bb3aace38",
		VMSize:  "0",
		Date:    "2012-08-20 10:52:46",
		VMClock: "00:00:00.000",
	}, info.Snapshots[0])
}

func TestParse_SnapshotsThenUnknownField(t *testing.T) {
	report := `image: disk.config
file format: raw
virtual size: 64M
disk size: 96K
Snapshot list:
ID        TAG                 VM SIZE                DATE       VM CLOCK
1        d9a9784a500742a7bb95627bb3aace38    0 2012-08-20 10:52:46 00:00:00.000
3        d9a9784a500742a7bb95627bb3aace38    0 2012-08-20 10:52:46 00:00:00.000
4        d9a9784a500742a7bb95627bb3aace38    0 2012-08-20 10:52:46 00:00:00.000
junk stuff: bbb
`
	info, err := Parse(report)
	require.NoError(t, err)

	assert.Equal(t, uint64(67108864), info.VirtualSize)
	assert.Equal(t, uint64(98304), info.DiskSize)
	assert.Nil(t, info.ClusterSize)
	require.Len(t, info.Snapshots, 3)
	assert.Equal(t, []string{"1", "3", "4"}, []string{
		info.Snapshots[0].ID, info.Snapshots[1].ID, info.Snapshots[2].ID,
	})
}

func TestParse_ModernSnapshotRows(t *testing.T) {
	report := `image: vm.qcow2
file format: qcow2
virtual size: 10 GiB (10737418240 bytes)
disk size: 196 KiB
cluster_size: 65536
Snapshot list:
ID        TAG               VM SIZE                DATE     VM CLOCK     ICOUNT
1         before-upgrade        0 B 2024-03-01 12:00:00 00:00:00.000
Format specific information:
    compat: 1.1
`
	info, err := Parse(report)
	require.NoError(t, err)

	assert.Equal(t, uint64(10737418240), info.VirtualSize)
	assert.Equal(t, uint64(196*1024), info.DiskSize)
	require.Len(t, info.Snapshots, 1)
	assert.Equal(t, "before-upgrade", info.Snapshots[0].Tag)
	assert.Equal(t, "0 B", info.Snapshots[0].VMSize)
	assert.Equal(t, "2024-03-01 12:00:00", info.Snapshots[0].Date)
}

func TestParse_SnapshotRowsWithICount(t *testing.T) {
	report := `image: vm.qcow2
file format: qcow2
virtual size: 10 GiB (10737418240 bytes)
disk size: 196 KiB
Snapshot list:
ID        TAG               VM SIZE                DATE     VM CLOCK     ICOUNT
1         recorded              0 B 2024-03-01 12:00:00 00:00:00.000       1234
2         plain                 0 B 2024-03-02 08:30:00 00:00:05.250
`
	info, err := Parse(report)
	require.NoError(t, err)

	require.Len(t, info.Snapshots, 2)
	assert.Equal(t, Snapshot{
		ID:      "1",
		Tag:     "recorded",
		VMSize:  "0 B",
		Date:    "2024-03-01 12:00:00",
		VMClock: "00:00:00.000",
		ICount:  "1234",
	}, info.Snapshots[0])
	assert.Equal(t, "plain", info.Snapshots[1].Tag)
	assert.Equal(t, "00:00:05.250", info.Snapshots[1].VMClock)
	assert.Empty(t, info.Snapshots[1].ICount)
}

func TestParse_ExactCountIndependentOfPrefix(t *testing.T) {
	template := `image: /myhome/disk.config
file format: raw
virtual size: %s (%d bytes)
cluster_size: 65536
disk size: 96K
`
	for i := uint64(0); i < 128; i++ {
		b := i * 65336
		kb := b / 1024
		mb := kb / 1024

		for _, prefix := range []string{uitoa(mb) + "M", uitoa(kb) + "K", "1G"} {
			info, err := Parse(fmt.Sprintf(template, prefix, i))
			require.NoError(t, err)
			assert.Equal(t, i, info.VirtualSize, "prefix %s", prefix)
		}
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name        string
		report      string
		wantMissing []string
	}{
		{
			name:        "empty report",
			report:      "",
			wantMissing: []string{"image", "file format", "virtual size", "disk size"},
		},
		{
			name: "missing disk size",
			report: `image: a
file format: raw
virtual size: 1M
`,
			wantMissing: []string{"disk size"},
		},
		{
			name: "only unknown fields",
			report: `blah: 1
other: 2
`,
			wantMissing: []string{"image", "file format", "virtual size", "disk size"},
		},
		{
			name: "bad virtual size",
			report: `image: a
file format: raw
virtual size: huge
disk size: 1K
`,
		},
		{
			name: "snapshot list without header",
			report: `image: a
file format: raw
virtual size: 1M
disk size: 1K
Snapshot list:
1 tag 0 2012-08-20 10:52:46 00:00:00.000
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.report)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedReport))

			var malformed *MalformedReportError
			require.ErrorAs(t, err, &malformed)
			if tt.wantMissing != nil {
				assert.Equal(t, tt.wantMissing, malformed.Missing)
			} else {
				assert.NotEmpty(t, malformed.Reason)
			}
		})
	}
}

func TestSplitField(t *testing.T) {
	tests := []struct {
		line      string
		wantKey   string
		wantValue string
		wantOK    bool
	}{
		{line: "file format: raw", wantKey: "file_format", wantValue: "raw", wantOK: true},
		{line: "Cluster-Size: 65536", wantKey: "cluster_size", wantValue: "65536", wantOK: true},
		{line: "image: rbd:pool/vol", wantKey: "image", wantValue: "rbd:pool/vol", wantOK: true},
		{line: "Snapshot list:", wantKey: "snapshot_list", wantValue: "", wantOK: true},
		{line: "no separator here", wantOK: false},
		{line: ": value only", wantOK: false},
		{line: "/path/with: colon", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			key, value, ok := splitField(tt.line)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantKey, key)
				assert.Equal(t, tt.wantValue, value)
			}
		})
	}
}
