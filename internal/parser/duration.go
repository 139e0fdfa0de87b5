package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const durationSuffix = " s"

// FormatDuration renders d as "<sec>.<9-digit-ns> s", e.g. "1.000000500 s".
// Negative durations are written as zero.
func FormatDuration(d time.Duration) string {
	ns := max(d.Nanoseconds(), 0)
	return fmt.Sprintf("%d.%09d%s", ns/int64(time.Second), ns%int64(time.Second), durationSuffix)
}

// ParseDuration parses the FormatDuration form. The fractional part may be
// shorter than nine digits; an empty string is a zero duration.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	s = strings.TrimSpace(strings.TrimSuffix(s, strings.TrimSpace(durationSuffix)))
	secPart, fracPart, _ := strings.Cut(s, ".")

	secs, err := strconv.ParseInt(secPart, 10, 64)
	if err != nil || secs < 0 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}

	var nanos int64
	if fracPart != "" {
		if len(fracPart) > 9 {
			return 0, fmt.Errorf("invalid duration %q: more than 9 fractional digits", s)
		}
		nanos, err = strconv.ParseInt(fracPart+strings.Repeat("0", 9-len(fracPart)), 10, 64)
		if err != nil || nanos < 0 {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
	}

	return time.Duration(secs)*time.Second + time.Duration(nanos), nil
}
