package credentials

import (
	"strings"
	"testing"
)

func TestGenerateHandle(t *testing.T) {
	for i := 0; i < 50; i++ {
		handle, err := GenerateHandle()
		if err != nil {
			t.Fatalf("GenerateHandle() error: %v", err)
		}
		parts := strings.Split(handle, "-")
		if len(parts) != 2 {
			t.Fatalf("Handle %q is not adjective-noun", handle)
		}
		if !contains(adjectives, parts[0]) {
			t.Errorf("Unknown adjective %q in handle %q", parts[0], handle)
		}
		if !contains(nouns, parts[1]) {
			t.Errorf("Unknown noun %q in handle %q", parts[1], handle)
		}
	}
}

func TestGeneratePIN(t *testing.T) {
	for i := 0; i < 50; i++ {
		pin, err := GeneratePIN()
		if err != nil {
			t.Fatalf("GeneratePIN() error: %v", err)
		}
		if len(pin) != PINLength {
			t.Fatalf("PIN %q has length %d, want %d", pin, len(pin), PINLength)
		}
		for _, c := range pin {
			if c < '0' || c > '9' {
				t.Errorf("PIN %q contains non-digit %q", pin, c)
			}
		}
	}
}

func contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
