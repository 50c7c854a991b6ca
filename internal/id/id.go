// Package id formats human-facing voucher numbers. Every recorded payment
// gets a monthly-sequential voucher like "2025-01-003"; when the allocator
// splits one payment into an interest and a principal transaction, both rows
// share the voucher and carry a part suffix ("2025-01-003a", "2025-01-003b").
package id

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatVoucher returns a voucher number like "2025-01-003".
func FormatVoucher(year, month, seq int) string {
	return fmt.Sprintf("%04d-%02d-%03d", year, month, seq)
}

// FormatPart returns a voucher part like "2025-01-003a" (part 0='a', 1='b').
func FormatPart(voucher string, part int) string {
	return voucher + string(rune('a'+part))
}

// ParseVoucher parses "2025-01-003" (with or without a part suffix) into
// year, month, seq.
func ParseVoucher(v string) (year, month, seq int, err error) {
	base := Group(v)

	parts := strings.SplitN(base, "-", 3)
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid voucher format: %q", v)
	}

	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid year in voucher %q: %w", v, err)
	}

	month, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid month in voucher %q: %w", v, err)
	}

	seq, err = strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid sequence in voucher %q: %w", v, err)
	}

	return year, month, seq, nil
}

// Group strips the part suffix from a voucher part.
// "2025-01-003a" -> "2025-01-003"
func Group(part string) string {
	if len(part) == 0 {
		return ""
	}
	i := len(part)
	for i > 0 && part[i-1] >= 'a' && part[i-1] <= 'z' {
		i--
	}
	return part[:i]
}
