package utils

import "testing"

func TestValidateGuardianEmail(t *testing.T) {
	tests := []struct {
		email   string
		wantErr bool
	}{
		{"", false},
		{"   ", false},
		{"parent@example.com", false},
		{"first.last+tag@sub.example.co", false},
		{"no-at-sign", true},
		{"missing@tld", true},
		{"@example.com", true},
	}
	for _, tt := range tests {
		err := ValidateGuardianEmail(tt.email)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateGuardianEmail(%q) = %v, wantErr %v", tt.email, err, tt.wantErr)
		}
	}
}

func TestValidatePIN(t *testing.T) {
	tests := []struct {
		pin     string
		wantErr bool
	}{
		{"1234", false},
		{"0000", false},
		{"123", true},
		{"12345", true},
		{"12a4", true},
		{"", true},
	}
	for _, tt := range tests {
		err := ValidatePIN(tt.pin)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePIN(%q) = %v, wantErr %v", tt.pin, err, tt.wantErr)
		}
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"Sara", false},
		{"Al", false},
		{"", true},
		{"  ", true},
		{"A", true},
	}
	for _, tt := range tests {
		err := ValidateName(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateName(%q) = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}
