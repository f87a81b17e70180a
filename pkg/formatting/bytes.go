// Package formatting provides parsing and formatting helpers for byte sizes
// and model-generated JSON content.
package formatting

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

const kib = 1024

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// ParseBytes parses a size such as "10MB", "512 kb", or "2048" into bytes.
// Units are base-1024 and case-insensitive; a bare number is bytes.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty byte size string")
	}

	split := strings.IndexFunc(s, func(r rune) bool {
		return !unicode.IsDigit(r) && r != '.'
	})

	number, unit := s, ""
	if split >= 0 {
		number, unit = s[:split], strings.ToUpper(strings.TrimSpace(s[split:]))
	}

	value, err := strconv.ParseFloat(number, 64)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("invalid byte size: %q", s)
	}

	if unit == "" {
		return int64(value), nil
	}

	multiplier := float64(1)
	for _, u := range sizeUnits {
		if u == unit {
			return int64(value * multiplier), nil
		}
		multiplier *= kib
	}

	return 0, fmt.Errorf("unknown byte size unit: %q", unit)
}

// FormatBytes renders n with the largest base-1024 unit that keeps the value at or above 1.
func FormatBytes(n int64, precision int) string {
	precision = max(precision, 0)

	value := float64(n)
	i := 0
	for value >= kib && i < len(sizeUnits)-1 {
		value /= kib
		i++
	}

	if i == 0 {
		return fmt.Sprintf("%d B", n)
	}
	return strconv.FormatFloat(value, 'f', precision, 64) + " " + sizeUnits[i]
}
