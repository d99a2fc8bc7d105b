package process

import "testing"

func TestNormalizeCell(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello", "hello"},
		{"trim", "  hello  ", "hello"},
		{"collapse runs", "a   b\t\tc", "a b c"},
		{"newlines to space", "line1\nline2", "line1 line2"},
		{"carriage return", "a\r\nb", "a b"},
		{"nul removed", "a\x00b", "ab"},
		{"bom removed", "\uFEFFvalue", "value"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeCell(tt.in); got != tt.want {
				t.Errorf("NormalizeCell(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeNumeric(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"currency and separators", "$1,234.50", "1234.5"},
		{"euro", "€99", "99"},
		{"plain integer", "42", "42"},
		{"negative", "-3.10", "-3.1"},
		{"percent kept", "12.50%", "12.5%"},
		{"text untouched", "n/a", "n/a"},
		{"mixed text untouched", "about 40", "about 40"},
		{"date untouched", "2024-01-02", "2024-01-02"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeNumeric(tt.in); got != tt.want {
				t.Errorf("NormalizeNumeric(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"$1,234.50", "  spaced   out  ", "12.5%", "plain"}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}
