// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"strings"
	"testing"
)

func TestGenerateID(t *testing.T) {
	tests := []struct {
		name    string
		byteLen int
		wantLen int // hex encoded length = byteLen * 2
	}{
		{"8 bytes", 8, 16},
		{"16 bytes", 16, 32},
		{"24 bytes", 24, 48},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := GenerateID(tt.byteLen)
			if err != nil {
				t.Fatalf("GenerateID() error = %v", err)
			}
			if len(id) != tt.wantLen {
				t.Errorf("GenerateID() length = %d, want %d", len(id), tt.wantLen)
			}
			// Verify it's valid hex
			for _, c := range id {
				if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
					t.Errorf("GenerateID() contains invalid hex char: %c", c)
				}
			}
		})
	}

	// Test randomness - two IDs should be different
	id1, _ := GenerateID(16)
	id2, _ := GenerateID(16)
	if id1 == id2 {
		t.Error("GenerateID() produced duplicate IDs (extremely unlikely)")
	}
}

func TestGenerateSessionToken(t *testing.T) {
	tests := []struct {
		name       string
		operatorID string
		nonce      string
		salt       string
	}{
		{"standard", "alice", "nonce-1", "secret-salt"},
		{"dotted operator", "j.doe", "nonce-1", "salt"},
		{"empty salt", "bob", "nonce-2", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := GenerateSessionToken(tt.operatorID, tt.nonce, tt.salt)

			// Should name the operator
			if !strings.HasPrefix(token, tt.operatorID+".") {
				t.Errorf("GenerateSessionToken() = %q, want prefix %q", token, tt.operatorID+".")
			}

			// Should be deterministic
			if token != GenerateSessionToken(tt.operatorID, tt.nonce, tt.salt) {
				t.Error("GenerateSessionToken() is not deterministic")
			}

			// A new sign-in must produce a different token
			if token == GenerateSessionToken(tt.operatorID, tt.nonce+"x", tt.salt) {
				t.Error("GenerateSessionToken() ignored the nonce")
			}

			// URL-safe, no padding
			if strings.Contains(token, "=") {
				t.Error("GenerateSessionToken() contains padding characters")
			}
		})
	}
}

func TestValidateSessionToken(t *testing.T) {
	nonce := "test-nonce"
	salt := "test-salt"
	valid := GenerateSessionToken("j.doe", nonce, salt)
	forged := "mallory" + valid[strings.LastIndex(valid, "."):]

	tests := []struct {
		name    string
		token   string
		nonce   string
		salt    string
		wantOp  string
		wantErr error
	}{
		{"valid token", valid, nonce, salt, "j.doe", nil},
		{"wrong nonce", valid, "other", salt, "", ErrInvalidSignature},
		{"wrong salt", valid, nonce, "other", "", ErrInvalidSignature},
		{"forged operator", forged, nonce, salt, "", ErrInvalidSignature},
		{"no separator", "garbage", nonce, salt, "", ErrInvalidToken},
		{"empty signature", "alice.", nonce, salt, "", ErrInvalidToken},
		{"empty operator", ".sig", nonce, salt, "", ErrInvalidToken},
		{"empty token", "", nonce, salt, "", ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := ValidateSessionToken(tt.token, tt.nonce, tt.salt)
			if err != tt.wantErr {
				t.Errorf("ValidateSessionToken() error = %v, want %v", err, tt.wantErr)
			}
			if op != tt.wantOp {
				t.Errorf("ValidateSessionToken() operator = %q, want %q", op, tt.wantOp)
			}
		})
	}
}

func TestGenerateNonce(t *testing.T) {
	nonce, err := GenerateNonce()
	if err != nil {
		t.Fatalf("GenerateNonce() error = %v", err)
	}

	// Should be URL-safe (no padding)
	if strings.Contains(nonce, "=") {
		t.Error("GenerateNonce() contains padding characters")
	}

	// Should be reasonably long (24 bytes encoded)
	if len(nonce) < 30 {
		t.Errorf("GenerateNonce() too short: %d chars", len(nonce))
	}

	// Test randomness - should not produce duplicates
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		n, err := GenerateNonce()
		if err != nil {
			t.Fatalf("GenerateNonce() error on iteration %d: %v", i, err)
		}
		if seen[n] {
			t.Errorf("GenerateNonce() produced duplicate: %s", n)
		}
		seen[n] = true
	}
}

func BenchmarkGenerateID(b *testing.B) {
	for i := 0; i < b.N; i++ {
		GenerateID(16)
	}
}

func BenchmarkGenerateSessionToken(b *testing.B) {
	for i := 0; i < b.N; i++ {
		GenerateSessionToken("alice", "nonce", "benchmark-salt")
	}
}
