package core

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/samber/oops"

	"github.com/lborres/ledger/pkg/logutil"
)

// RehashChecker is implemented by password handlers that can tell when a
// stored hash was produced by a legacy algorithm.
type RehashChecker interface {
	NeedsRehash(hash string) bool
}

// LocalStrategy turns a username/password pair into an Identity.
type LocalStrategy struct {
	store     CredentialStore
	passwords PasswordHandler
	dummyHash string
	logger    zerolog.Logger
}

// NewLocalStrategy builds a strategy over store and passwords.
//
// A dummy hash is minted once with the same handler so that verifying an
// unknown user costs the same as verifying a real one.
func NewLocalStrategy(store CredentialStore, passwords PasswordHandler, logger zerolog.Logger) (*LocalStrategy, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if passwords == nil {
		return nil, ErrPasswordHandlerRequired
	}

	filler := make([]byte, 32)
	if _, err := rand.Read(filler); err != nil {
		return nil, fmt.Errorf("failed to generate dummy password: %w", err)
	}

	dummy, err := passwords.Hash(base64.RawStdEncoding.EncodeToString(filler))
	if err != nil {
		return nil, fmt.Errorf("failed to hash dummy password: %w", err)
	}

	return &LocalStrategy{
		store:     store,
		passwords: passwords,
		dummyHash: dummy,
		logger:    logger,
	}, nil
}

// Authenticate verifies creds and returns the resolved identity.
//
// Unknown usernames and wrong passwords both yield ErrInvalidCredentials.
// Only a store fault is returned as a different error, wrapping
// ErrStoreUnavailable. An identity is never returned alongside an error.
func (s *LocalStrategy) Authenticate(ctx context.Context, creds Credentials) (Identity, error) {
	log := logutil.FromContext(ctx, s.logger)

	// Step 1: Find the user by username
	user, err := s.store.FindByUsername(ctx, creds.Username)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			return Identity{}, storeFault(err, "find user by username")
		}

		// Step 2: Burn the same verification cost as a real user
		_, _ = s.passwords.Verify(creds.Password, s.dummyHash)
		return Identity{}, ErrInvalidCredentials
	}

	// Step 3: Verify the password
	valid, err := s.passwords.Verify(creds.Password, user.PasswordHash)
	if err != nil {
		log.Warn().Str("user_id", user.ID).Err(err).Msg("stored password hash is unreadable")
		_, _ = s.passwords.Verify(creds.Password, s.dummyHash)
		return Identity{}, ErrInvalidCredentials
	}
	if !valid {
		return Identity{}, ErrInvalidCredentials
	}

	if rc, ok := s.passwords.(RehashChecker); ok && rc.NeedsRehash(user.PasswordHash) {
		log.Info().Str("user_id", user.ID).Msg("password hash uses a legacy algorithm")
	}

	return Identity{UserID: user.ID}, nil
}

// storeFault wraps a persistence error so that errors.Is(err, ErrStoreUnavailable)
// holds while keeping the underlying cause for logs.
func storeFault(err error, operation string) error {
	if !errors.Is(err, ErrStoreUnavailable) {
		err = fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return oops.
		Code("STORE_UNAVAILABLE").
		With("operation", operation).
		Wrap(err)
}
