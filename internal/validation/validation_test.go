package validation

import "testing"

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase passthrough", "user@lums.edu.pk", "user@lums.edu.pk"},
		{"mixed case", "User@LUMS.Edu.PK", "user@lums.edu.pk"},
		{"surrounding whitespace", "  user@lums.edu.pk \n", "user@lums.edu.pk"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeEmail(tt.input); got != tt.expected {
				t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"plain address", "a@b.co", true},
		{"roll number address", "24100123@lums.edu.pk", true},
		{"missing at", "not-an-email", false},
		{"missing domain dot", "a@b", false},
		{"empty", "", false},
		{"spaces inside", "a b@c.co", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateEmail(tt.input); got != tt.valid {
				t.Errorf("ValidateEmail(%q) = %v, want %v", tt.input, got, tt.valid)
			}
		})
	}
}

func TestSplitEmail(t *testing.T) {
	local, domain := SplitEmail("24100123@lums.edu.pk")
	if local != "24100123" || domain != "lums.edu.pk" {
		t.Errorf("SplitEmail() = (%q, %q), want (%q, %q)", local, domain, "24100123", "lums.edu.pk")
	}

	local, domain = SplitEmail("no-at-sign")
	if local != "no-at-sign" || domain != "" {
		t.Errorf("SplitEmail() = (%q, %q), want (%q, %q)", local, domain, "no-at-sign", "")
	}
}
