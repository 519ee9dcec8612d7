// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/subtle"
	"log/slog"
	"strings"
	"sync"

	"github.com/danielhkuo/tallygo/models"
)

// Session is the station's single operator sign-in.
// It is the gate the router checks before any station route is reachable.
type Session struct {
	mu         sync.RWMutex
	salt       string
	password   string
	operatorID string
	nonce      string
}

// NewSession creates a signed-out session. An empty password accepts any
// non-empty password.
func NewSession(salt, password string) *Session {
	return &Session{salt: salt, password: password}
}

// SignIn replaces any current operator and returns a fresh token
func (s *Session) SignIn(username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", ErrInvalidCredentials
	}
	if s.password != "" && subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) != 1 {
		return "", ErrInvalidCredentials
	}

	nonce, err := GenerateNonce()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.operatorID = username
	s.nonce = nonce
	s.mu.Unlock()

	slog.Info("operator signed in", "operator_id", username)
	return GenerateSessionToken(username, nonce, s.salt), nil
}

// SignOut invalidates every token issued so far
func (s *Session) SignOut() {
	s.mu.Lock()
	operatorID := s.operatorID
	s.operatorID = ""
	s.nonce = ""
	s.mu.Unlock()

	if operatorID != "" {
		slog.Info("operator signed out", "operator_id", operatorID)
	}
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nonce != ""
}

// OperatorID returns the signed-in operator, or "anonymous"
func (s *Session) OperatorID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.operatorID == "" {
		return models.AnonymousOperator
	}
	return s.operatorID
}

// Validate checks a bearer token against the current sign-in
func (s *Session) Validate(token string) (string, error) {
	s.mu.RLock()
	nonce := s.nonce
	s.mu.RUnlock()

	if nonce == "" {
		return "", ErrNotSignedIn
	}
	return ValidateSessionToken(token, nonce, s.salt)
}
