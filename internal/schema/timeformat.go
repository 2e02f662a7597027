package schema

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Canonical output format for GPX timestamps (always UTC).
const timeLayout = "2006-01-02T15:04:05Z"

const parseLayout = "2006-01-02 15:04:05"

// Matches timestamps whose components may be one or two digits wide.
var shortComponents = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2}) (\d{1,2}):(\d{1,2}):(\d{1,2})$`)

// FormatTime renders a timestamp in the canonical GPX format.
func FormatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// ParseTime parses the timestamp variants accepted in GPX files: a space or
// 'T' date/time separator, optional fractional seconds (discarded), an
// optional trailing 'Z' or signed offset (stripped), and one- or two-digit
// components.
func ParseTime(s string) (time.Time, error) {
	original := s
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty time")
	}

	s = strings.ReplaceAll(s, "T", " ")
	s = strings.ReplaceAll(s, "Z", "")
	if i := strings.IndexByte(s, '.'); i >= 0 {
		// Fractional seconds are discarded together with anything after them.
		s = s[:i]
	}
	if len(s) > 19 {
		// Strip a trailing signed offset.
		cut := strings.LastIndexByte(s, '+')
		if m := strings.LastIndexByte(s, '-'); m > cut {
			cut = m
		}
		if cut > 10 {
			s = s[:cut]
		}
	}
	if len(s) < 19 {
		if m := shortComponents.FindStringSubmatch(s); m != nil {
			n := make([]int, 6)
			for i := range n {
				n[i], _ = strconv.Atoi(m[i+1])
			}
			s = fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d", n[0], n[1], n[2], n[3], n[4], n[5])
		}
	}

	t, err := time.Parse(parseLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q", original)
	}
	return t, nil
}

// formatFloat renders a float in fixed-point notation. Scientific notation is
// invalid in the GPX schema family.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
