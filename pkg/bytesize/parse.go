// Package bytesize provides human-friendly byte size parsing and formatting.
package bytesize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	KiB int64 = 1 << 10
	MiB int64 = 1 << 20
	GiB int64 = 1 << 30
	TiB int64 = 1 << 40
)

// suffixes is ordered longest first so "MIB" is tried before "B".
var suffixes = []struct {
	unit       string
	multiplier int64
}{
	{"TIB", TiB}, {"GIB", GiB}, {"MIB", MiB}, {"KIB", KiB},
	{"TB", TiB}, {"GB", GiB}, {"MB", MiB}, {"KB", KiB},
	{"T", TiB}, {"G", GiB}, {"M", MiB}, {"K", KiB},
	{"B", 1},
}

// Parse parses a human-friendly byte size string.
//
// Units are case-insensitive and 1024-based. KB, KiB and the Docker-style
// K all mean 1024 bytes. A bare number is a byte count.
//
//	Parse("512m")   // 536870912
//	Parse("1.5GiB") // 1610612736
//	Parse("4096")   // 4096
func Parse(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("empty size string")
	}

	multiplier := int64(1)
	valueStr := s
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf.unit) {
			multiplier = suf.multiplier
			valueStr = strings.TrimSpace(strings.TrimSuffix(s, suf.unit))
			break
		}
	}
	if valueStr == "" {
		return 0, fmt.Errorf("invalid size %q: missing numeric value", s)
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q in %q: %w", valueStr, s, err)
	}
	if value < 0 || math.IsNaN(value) {
		return 0, fmt.Errorf("invalid size %q: negative value not allowed", s)
	}

	result := value * float64(multiplier)
	if result >= math.MaxInt64 {
		return 0, fmt.Errorf("size %q exceeds maximum allowed value (8 EiB)", s)
	}

	return int64(result), nil
}

// FormatKiB renders a KiB quantity with the largest binary unit that keeps
// the value at or above one, truncated to one decimal place:
// 65536 -> "64 MiB", 1536 -> "1.5 MiB".
func FormatKiB(kib uint64) string {
	units := []string{"KiB", "MiB", "GiB", "TiB"}
	value := float64(kib)
	i := 0
	for value >= 1024 && i < len(units)-1 {
		value /= 1024
		i++
	}
	return strconv.FormatFloat(math.Floor(value*10)/10, 'f', -1, 64) + " " + units[i]
}
