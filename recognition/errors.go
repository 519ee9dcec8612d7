// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package recognition

import (
	"errors"
	"fmt"
)

// Kind classifies a recognition failure
type Kind int

const (
	// KindMissingCredential means no API key was configured
	KindMissingCredential Kind = iota
	// KindTransport means the request never produced an HTTP response
	KindTransport
	// KindHTTP means the service answered with a non-2xx status
	KindHTTP
	// KindMalformed means the model output could not be parsed even after repair
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindMissingCredential:
		return "missing_credential"
	case KindTransport:
		return "transport"
	case KindHTTP:
		return "http"
	case KindMalformed:
		return "malformed_response"
	default:
		return "unknown"
	}
}

var (
	ErrMissingCredential = errors.New("recognition API key is not configured")
	ErrTransport         = errors.New("recognition service unreachable")
	ErrHTTP              = errors.New("recognition service rejected the request")
	ErrMalformedResponse = errors.New("recognition response could not be parsed")
)

// Error is the failure result of Recognize
type Error struct {
	Kind Kind
	// Status is the HTTP status for KindHTTP
	Status int
	// Body is the response body for KindHTTP
	Body string
	// Raw is the model content for KindMalformed
	Raw string
	Err error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindMissingCredential:
		return ErrMissingCredential.Error()
	case KindHTTP:
		return fmt.Sprintf("%s: status %d: %s", ErrHTTP, e.Status, e.Body)
	case KindTransport:
		return fmt.Sprintf("%s: %v", ErrTransport, e.Err)
	case KindMalformed:
		if e.Err != nil {
			return fmt.Sprintf("%s: %v", ErrMalformedResponse, e.Err)
		}
		return ErrMalformedResponse.Error()
	}
	return "recognition failed"
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the package sentinels by kind
func (e *Error) Is(target error) bool {
	switch target {
	case ErrMissingCredential:
		return e.Kind == KindMissingCredential
	case ErrTransport:
		return e.Kind == KindTransport
	case ErrHTTP:
		return e.Kind == KindHTTP
	case ErrMalformedResponse:
		return e.Kind == KindMalformed
	}
	return false
}

func malformed(raw string, err error) *Error {
	return &Error{Kind: KindMalformed, Raw: raw, Err: err}
}
