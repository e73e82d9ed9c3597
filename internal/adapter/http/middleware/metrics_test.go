package middleware

import "testing"

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"balance", "/api/v1/accounts/12345678/balance", "/api/v1/accounts/:number/balance"},
		{"deposit", "/api/v1/accounts/12345678/deposit", "/api/v1/accounts/:number/deposit"},
		{"transactions", "/api/v1/accounts/ACC-42/transactions", "/api/v1/accounts/:number/transactions"},
		{"bare number", "/api/v1/accounts/12345678", "/api/v1/accounts/:number"},
		{"status untouched", "/api/v1/status", "/api/v1/status"},
		{"health untouched", "/health", "/health"},
		{"accounts root untouched", "/api/v1/accounts/", "/api/v1/accounts/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizePath(tt.path); got != tt.want {
				t.Errorf("normalizePath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
