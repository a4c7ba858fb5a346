package utils

import "testing"

func TestNormalizeWhitespace(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  a \t b\n c ", "a b c"},
		{"single", "single"},
		{"", ""},
		{"\n\n\t", ""},
	}

	for _, tt := range tests {
		if got := NormalizeWhitespace(tt.in); got != tt.want {
			t.Errorf("NormalizeWhitespace(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestContentHashDeterministic(t *testing.T) {
	a := ContentHash("criteria", "submission", "es")
	b := ContentHash("criteria", "submission", "es")

	if a != b {
		t.Error("identical inputs must hash identically")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(a))
	}
}

func TestContentHashPartBoundaries(t *testing.T) {
	if ContentHash("ab", "c") == ContentHash("a", "bc") {
		t.Error("shifting content across part boundaries must change the hash")
	}
}

func TestValidateUUID(t *testing.T) {
	if !ValidateUUID(GenerateUUID()) {
		t.Error("generated UUID should validate")
	}
	if ValidateUUID("not-a-uuid") {
		t.Error("garbage should not validate")
	}
}
