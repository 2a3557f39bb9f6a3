package textutil

import (
	"errors"
	"testing"
)

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "ascii passthrough", input: "Praslin", want: "Praslin"},
		{name: "period stripped", input: "Paris.", want: "Paris"},
		{name: "abbreviation", input: "St. Anne", want: "St Anne"},
		{name: "diacritics", input: "Bucureşti", want: "Bucuresti"},
		{name: "mixed accents", input: "Piaţa Romană", want: "Piata Romana"},
		{name: "ligatures", input: "Straße Øresund", want: "Strasse Oresund"},
		{name: "polish", input: "Łódź", want: "Lodz"},
		{name: "empty", input: "  ", want: ""},
		{name: "cyrillic keeps original", input: "Москва.", want: "Москва", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeLabel(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrNotTransliterable) {
					t.Fatalf("NormalizeLabel(%q) error = %v, want ErrNotTransliterable", tt.input, err)
				}
			} else if err != nil {
				t.Fatalf("NormalizeLabel(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Fatalf("NormalizeLabel(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
