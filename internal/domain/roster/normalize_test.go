package roster_test

import (
	"testing"

	domain "github.com/mohammadpnp/roster-import/internal/domain/roster"
)

func TestNormalizeIdentifierBase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		first string
		last  string
		want  string
	}{
		{name: "accents", first: "Ólá", last: "Wóź", want: "olawoz"},
		{name: "polish letters", first: "Łukasz", last: "Żółć", want: "lukaszzolc"},
		{name: "cyrillic", first: "Иван", last: "Петров", want: "ivanpetrov"},
		{name: "punctuation", first: "Anne-Marie", last: "O'Neil", want: "annemarieoneil"},
		{name: "digits kept", first: "Jan", last: "Kowalski7", want: "jankowalski7"},
		{name: "short padded", first: "Al", last: "Bo", want: "albouser0"},
		{name: "empty padded", first: "", last: "", want: "user0"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := domain.NormalizeIdentifierBase(tc.first, tc.last)
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestNormalizeIdentifierBaseIsASCIIAlphanumeric(t *testing.T) {
	t.Parallel()

	got := domain.NormalizeIdentifierBase("Ólá", "Wóź")
	if len(got) < 5 {
		t.Fatalf("expected at least 5 characters, got %q", got)
	}
	for _, r := range got {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9') {
			t.Fatalf("unexpected character %q in %q", r, got)
		}
	}
}
