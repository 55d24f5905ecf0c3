package disk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		want    uint64
		wantErr bool
	}{
		{name: "plain bytes", token: "963434", want: 963434},
		{name: "kibibytes", token: "96K", want: 96 * 1024},
		{name: "mebibytes", token: "64M", want: 64 << 20},
		{name: "gibibytes", token: "20G", want: 20 << 30},
		{name: "tebibytes", token: "2T", want: 2 << 40},
		{name: "lower case unit", token: "4k", want: 4096},
		{name: "fraction truncated", token: "1.5K", want: 1536},
		{name: "fraction truncated to whole bytes", token: "0.3K", want: 307},
		{name: "leading dot fraction", token: ".5M", want: 512 * 1024},
		{name: "exact count wins", token: "64M (67108864 bytes)", want: 67108864},
		{name: "exact count wins over wrong prefix", token: "1K (67108864 bytes)", want: 67108864},
		{name: "modern spelling", token: "64 MiB (67108864 bytes)", want: 67108864},
		{name: "modern spelling without count", token: "196 KiB", want: 196 * 1024},
		{name: "decimal suffix is still binary", token: "1 KB", want: 1024},
		{name: "None", token: "None", want: 0},
		{name: "surrounding space", token: "  8M  ", want: 8 << 20},
		{name: "empty", token: "", wantErr: true},
		{name: "garbage", token: "lots", wantErr: true},
		{name: "unknown unit", token: "5P", wantErr: true},
		{name: "overflow", token: "99999999999T", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSize(tt.token)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSize_KiloAndMegaMultiples(t *testing.T) {
	for n := uint64(0); n < 2048; n += 37 {
		k, err := ParseSize(uitoa(n) + "K")
		require.NoError(t, err)
		assert.Equal(t, n*1024, k)

		m, err := ParseSize(uitoa(n) + "M")
		require.NoError(t, err)
		assert.Equal(t, n*1024*1024, m)
	}
}
