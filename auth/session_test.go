// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"testing"

	"github.com/danielhkuo/tallygo/models"
)

func TestSessionSignIn(t *testing.T) {
	tests := []struct {
		name     string
		password string
		user     string
		given    string
		wantErr  error
	}{
		{"open station", "", "alice", "anything", nil},
		{"open station empty password", "", "alice", "", ErrInvalidCredentials},
		{"empty username", "", "  ", "pw", ErrInvalidCredentials},
		{"correct password", "s3cret", "alice", "s3cret", nil},
		{"wrong password", "s3cret", "alice", "guess", ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession("salt", tt.password)
			token, err := s.SignIn(tt.user, tt.given)
			if err != tt.wantErr {
				t.Fatalf("SignIn() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				if s.IsAuthenticated() {
					t.Error("failed sign-in must not authenticate")
				}
				return
			}

			if !s.IsAuthenticated() {
				t.Error("IsAuthenticated() = false after sign-in")
			}
			op, err := s.Validate(token)
			if err != nil || op != tt.user {
				t.Errorf("Validate() = %q, %v", op, err)
			}
		})
	}
}

func TestSessionSignOut(t *testing.T) {
	s := NewSession("salt", "")
	if got := s.OperatorID(); got != models.AnonymousOperator {
		t.Errorf("OperatorID() before sign-in = %q", got)
	}

	token, _ := s.SignIn("alice", "pw")
	if got := s.OperatorID(); got != "alice" {
		t.Errorf("OperatorID() = %q, want alice", got)
	}

	s.SignOut()
	if s.IsAuthenticated() {
		t.Error("IsAuthenticated() = true after sign-out")
	}
	if _, err := s.Validate(token); err != ErrNotSignedIn {
		t.Errorf("Validate() after sign-out = %v, want ErrNotSignedIn", err)
	}

	// Tokens from an earlier sign-in stay invalid
	s.SignIn("alice", "pw")
	if _, err := s.Validate(token); err != ErrInvalidSignature {
		t.Errorf("old token after re-sign-in = %v, want ErrInvalidSignature", err)
	}
}
