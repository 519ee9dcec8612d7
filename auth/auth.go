// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidToken       = errors.New("invalid token format")
	ErrInvalidSignature   = errors.New("invalid session token")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotSignedIn        = errors.New("no operator is signed in")
)

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateNonce creates a random secret that scopes session tokens to one sign-in
func GenerateNonce() (string, error) {
	b := make([]byte, 24) // 24 bytes = 192 bits of entropy
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	// URL-safe base64 without padding
	return strings.TrimRight(base64.URLEncoding.EncodeToString(b), "="), nil
}

// GenerateSessionToken creates an HMAC-based token "operatorID.signature".
// Deterministic for the same operator, nonce and salt.
func GenerateSessionToken(operatorID, nonce, salt string) string {
	return operatorID + "." + sign(operatorID, nonce, salt)
}

// ValidateSessionToken checks the signature and returns the operator it names
func ValidateSessionToken(token, nonce, salt string) (string, error) {
	i := strings.LastIndex(token, ".")
	if i <= 0 || i == len(token)-1 {
		return "", ErrInvalidToken
	}
	operatorID, sig := token[:i], token[i+1:]

	expected := sign(operatorID, nonce, salt)
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return "", ErrInvalidSignature
	}
	return operatorID, nil
}

func sign(operatorID, nonce, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(operatorID))
	h.Write([]byte{0})
	h.Write([]byte(nonce))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner tokens
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}
