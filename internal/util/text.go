package util

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	reSpaces   = regexp.MustCompile(`\s+`)
	reNonDigit = regexp.MustCompile(`[^0-9]`)
)

// NormalizeKey is the comparison form used by catalog lookups.
func NormalizeKey(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

func NormalizeSpaces(input string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(input, " "))
}

// DigitsOnly drops every non-digit rune and truncates to max digits when max > 0.
func DigitsOnly(input string, max int) string {
	s := reNonDigit.ReplaceAllString(input, "")
	if max > 0 && len(s) > max {
		s = s[:max]
	}
	return s
}

// Stringify renders a decoded cell value the way it is shown to the user.
// Integral numbers lose their decimal part, nil becomes "".
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float32:
		return formatFloat(float64(t))
	case float64:
		return formatFloat(t)
	case bool:
		return strconv.FormatBool(t)
	case interface{ String() string }:
		return t.String()
	default:
		return ""
	}
}

func formatFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
