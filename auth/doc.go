// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides the operator session gate and token utilities.

# Session Tokens

Session tokens use HMAC-SHA256 over the operator ID and a per-sign-in nonce:

	token := auth.GenerateSessionToken(operatorID, nonce, salt)
	operatorID, err := auth.ValidateSessionToken(token, nonce, salt)

The token has the form "operatorID.signature", where the signature is URL-safe
base64 without padding. Nothing is stored besides the nonce, so signing out
(which drops the nonce) invalidates every token issued before.

# Session

A Session holds at most one signed-in operator:

	s := auth.NewSession(salt, password)
	token, err := s.SignIn("alice", "secret")
	s.IsAuthenticated() // true
	s.OperatorID()      // "alice"
	s.SignOut()
	s.OperatorID()      // "anonymous"

With an empty configured password any non-empty password is accepted.

# ID Generation

Random hex IDs for database records:

	id, err := auth.GenerateID(16)  // 32 hex characters
*/
package auth
