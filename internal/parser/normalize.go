package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf16"
)

// ISOLayout is the serialized form of every instant the parser emits.
const ISOLayout = "2006-01-02T15:04:05.000Z"

const (
	fnvOffset32 = 0x811c9dc5
	fnvPrime32  = 0x01000193
)

var (
	strictPrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T`)
	looseInstant = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})(?:\s*(?:T|\s)\s*(\d{1,2}):(\d{2})(?::(\d{2}))?)?$`)
)

var strictLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
}

var strictZonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
}

// ParseFlexibleInstant parses "YYYY-MM-DDThh:mm[:ss]" (optionally zoned) or
// the looser "YYYY-MM-DD[ T ]hh:mm[:ss]" and date-only forms. Values without
// an offset are read in loc. Impossible calendar dates are rejected.
func ParseFlexibleInstant(raw string, loc *time.Location) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}

	if strictPrefix.MatchString(s) {
		for _, layout := range strictZonedLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		for _, layout := range strictLayouts {
			if t, err := time.ParseInLocation(layout, s, loc); err == nil {
				return t, true
			}
		}
	}

	m := looseInstant.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}

	nums := make([]int, 6)
	for i := range nums {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return time.Time{}, false
		}
		nums[i] = n
	}
	y, mo, d, hh, mm, ss := nums[0], nums[1], nums[2], nums[3], nums[4], nums[5]
	if mo < 1 || mo > 12 || d < 1 || hh > 23 || mm > 59 || ss > 59 {
		return time.Time{}, false
	}

	t := time.Date(y, time.Month(mo), d, hh, mm, ss, 0, loc)
	// time.Date normalizes overflow (Feb 30 -> Mar 2); treat that as invalid
	if t.Year() != y || int(t.Month()) != mo || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

// FormatInstant renders t as a UTC ISO string with millisecond precision.
func FormatInstant(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(ISOLayout)
}

// ParseInstant reads back a value produced by FormatInstant.
func ParseInstant(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// StableHash is FNV-1a (32 bit) over the UTF-16 code units of s, rendered as
// 8 lowercase hex digits. It only feeds identifiers.
func StableHash(s string) string {
	h := uint32(fnvOffset32)
	for _, unit := range utf16.Encode([]rune(s)) {
		h ^= uint32(unit)
		h *= fnvPrime32
	}
	return fmt.Sprintf("%08x", h)
}

func stableID(prefix string, parts ...string) string {
	return prefix + StableHash(strings.Join(parts, "|"))
}
