package util

import (
	"errors"
	"testing"
)

func TestNormalizeQuantity(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "12", want: "12"},
		{name: "padded", input: " 12 ", want: "12"},
		{name: "decimal comma", input: "1,5", want: "1.5"},
		{name: "decimal dot", input: "1.5", want: "1.5"},
		{name: "three fraction digits", input: "1.250", want: "1.250"},
		{name: "three fraction digits comma", input: "1,000", want: "1.000"},
		{name: "leading zeros kept", input: "007", want: "007"},
		{name: "zero", input: "0", want: "0"},
		{name: "blank", input: "   ", want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeQuantity(tc.input)
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestNormalizeQuantityRejectsText(t *testing.T) {
	for _, input := range []string{"abc", "1x2", "-3", "1.2.3", "1 000", "1,000.5", ".5", "5."} {
		if _, err := NormalizeQuantity(input); !errors.Is(err, ErrInvalidQuantity) {
			t.Fatalf("%q: err=%v", input, err)
		}
	}
}
