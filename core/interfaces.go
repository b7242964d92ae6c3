package core

import (
	"context"
	"time"
)

// Ports define interfaces for external dependencies

// ============================================
// CRYPTO PORTS
// ============================================

// PasswordHandler hashes and verifies passwords. Verify must compare in
// constant time and returns an error only for an unparseable hash.
type PasswordHandler interface {
	Hash(password string) (string, error)
	Verify(password, hash string) (bool, error)
}

// SessionCodec maps an identity to an opaque session token and back.
//
// Encode also reports the expiry stamped into the token.
// Decode is a pure decode with no store lookup. Every failure (malformed,
// foreign, tampered, expired) is reported as ErrInvalidSession.
type SessionCodec interface {
	Encode(identity Identity) (string, time.Time, error)
	Decode(token string) (string, error)
}

// ============================================
// OBSERVER PORT
// ============================================

// Observer receives authentication outcomes for metrics.
type Observer interface {
	ObserveSignIn(outcome SignInOutcome)
	ObserveResolution(state IdentityState)
}

type SignInOutcome string

const (
	SignInSuccess           SignInOutcome = "success"
	SignInInvalidCredential SignInOutcome = "invalid_credentials"
	SignInStoreError        SignInOutcome = "store_unavailable"
)

type nopObserver struct{}

func (nopObserver) ObserveSignIn(SignInOutcome)     {}
func (nopObserver) ObserveResolution(IdentityState) {}

// NopObserver discards all observations.
func NopObserver() Observer { return nopObserver{} }

// ============================================
// AUTH HANDLER (for HTTP adapters)
// ============================================

// AuthHandler provides authentication operations for HTTP adapters
type AuthHandler interface {
	SignUp(ctx context.Context, input SignUpInput) (*SignInResult, error)
	SignIn(ctx context.Context, input SignInInput) (*SignInResult, error)
	Session(ctx context.Context, token string) (RequestIdentity, error)
	CurrentUser(ctx context.Context, id RequestIdentity) (*User, error)
}

// ============================================
// HTTP PORT
// ============================================

type HTTPAdapter interface {
	RegisterRoutes(handler AuthHandler, basePath string, session SessionConfig) error
}
