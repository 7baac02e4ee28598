package util

import (
	"errors"
	"regexp"
	"strings"
)

var reQuantity = regexp.MustCompile(`^\d+(?:[.,]\d+)?$`)

var ErrInvalidQuantity = errors.New("quantity must be a number")

// NormalizeQuantity checks that input is a plain non-negative number and
// returns it trimmed, with a decimal comma written as a dot. The digits are
// kept as typed. Blank input is returned as "" without error.
func NormalizeQuantity(input string) (string, error) {
	s := strings.TrimSpace(strings.ReplaceAll(input, "\u00A0", " "))
	if s == "" {
		return "", nil
	}
	if !reQuantity.MatchString(s) {
		return "", ErrInvalidQuantity
	}
	return strings.Replace(s, ",", ".", 1), nil
}
