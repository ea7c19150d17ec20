// Package dateutil formats dates from user-friendly patterns such as
// "YYYY-MM-DD" or "DD/MM/YYYY".
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength limits format string length.
const MaxDateFormatLength = 50

// DefaultDateFormat is used for output file names and "auto" dates.
const DefaultDateFormat = "YYYY-MM-DD"

// Ordered longest first for greedy matching.
var dateTokens = []struct {
	token string
	goFmt string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// DatePresets provides named shortcuts for common date formats.
var DatePresets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"compact":  "YYYYMMDD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
}

// ParseDateFormat converts a format string to Go's time layout.
// Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D. Text in brackets is kept
// literally: "[Rev] YYYY" gives "Rev 2006". Other characters pass through.
func ParseDateFormat(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var layout strings.Builder
	layout.Grow(len(format) + 10)

	for i := 0; i < len(format); {
		if format[i] == '[' {
			end := strings.IndexByte(format[i+1:], ']')
			if end == -1 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			layout.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}
		n := writeToken(&layout, format[i:])
		if n == 0 {
			layout.WriteByte(format[i])
			n = 1
		}
		i += n
	}
	return layout.String(), nil
}

func writeToken(sb *strings.Builder, s string) int {
	for _, t := range dateTokens {
		if strings.HasPrefix(s, t.token) {
			sb.WriteString(t.goFmt)
			return len(t.token)
		}
	}
	return 0
}

// Format renders t with format, which is either a preset name or a
// token pattern. An empty format means DefaultDateFormat.
func Format(t time.Time, format string) (string, error) {
	if format == "" {
		format = DefaultDateFormat
	}
	if preset, ok := DatePresets[strings.ToLower(format)]; ok {
		format = preset
	}
	layout, err := ParseDateFormat(format)
	if err != nil {
		return "", err
	}
	return t.Format(layout), nil
}

// ResolveDate expands "auto" date values:
//   - "auto" → t in DefaultDateFormat
//   - "auto:FORMAT" → t in FORMAT (a preset name or a token pattern)
//
// Any other value is free text and is returned unchanged, including
// words that merely start with "auto".
func ResolveDate(value string, t time.Time) (string, error) {
	lower := strings.ToLower(strings.TrimSpace(value))
	switch {
	case lower == "auto":
		return Format(t, DefaultDateFormat)
	case !strings.HasPrefix(lower, "auto:"):
		return value, nil
	}

	// Keep the original case: "MM" and "mm" are not the same token.
	format := strings.TrimSpace(value)[len("auto:"):]
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty after \"auto:\"", ErrInvalidDateFormat)
	}
	return Format(t, format)
}
