package disk

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// sizePattern matches "96K", "64M (67108864 bytes)", "1.5 GiB" and "963434".
var sizePattern = regexp.MustCompile(`^(\d*\.?\d+)\s*([KMGTkmgt]?)(?:i?[Bb])?\s*(?:\(\s*(\d+)\s+bytes\s*\))?$`)

var unitShift = map[string]uint{
	"":  0,
	"K": 10,
	"M": 20,
	"G": 30,
	"T": 40,
}

// ParseSize converts a qemu-img size token to bytes. An exact count in
// parentheses ("(N bytes)") wins over the human-readable prefix. Units are
// binary multiples of 1024 regardless of spelling, and fractional results
// are truncated.
func ParseSize(token string) (uint64, error) {
	token = strings.TrimSpace(token)
	if token == "None" {
		return 0, nil
	}

	m := sizePattern.FindStringSubmatch(token)
	if m == nil {
		return 0, fmt.Errorf("invalid size %q", token)
	}

	if m[3] != "" {
		n, err := strconv.ParseUint(m[3], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid byte count in %q: %w", token, err)
		}
		return n, nil
	}

	shift := unitShift[strings.ToUpper(m[2])]

	if !strings.Contains(m[1], ".") {
		n, err := strconv.ParseUint(m[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid size %q: %w", token, err)
		}
		if n > math.MaxUint64>>shift {
			return 0, fmt.Errorf("size %q overflows", token)
		}
		return n << shift, nil
	}

	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", token, err)
	}
	bytes := f * float64(uint64(1)<<shift)
	if bytes >= math.MaxUint64 {
		return 0, fmt.Errorf("size %q overflows", token)
	}
	return uint64(bytes), nil
}
