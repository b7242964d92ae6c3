package core

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/lborres/ledger/pkg/logutil"
)

// IdentityResolver turns the session token carried by a request into a
// RequestIdentity.
//
// The user is re-fetched from the store on every call and nothing is cached
// across requests: a deleted account stops authenticating on its very next
// request, with no revocation bookkeeping.
type IdentityResolver struct {
	codec    SessionCodec
	store    CredentialStore
	observer Observer
	logger   zerolog.Logger
}

func NewIdentityResolver(codec SessionCodec, store CredentialStore, observer Observer, logger zerolog.Logger) *IdentityResolver {
	if observer == nil {
		observer = NopObserver()
	}
	return &IdentityResolver{
		codec:    codec,
		store:    store,
		observer: observer,
		logger:   logger,
	}
}

// Resolve always returns a terminal state, Anonymous or Authenticated.
//
// Missing, invalid and orphaned tokens resolve to Anonymous with a nil error.
// A store fault also resolves to Anonymous but returns an error wrapping
// ErrStoreUnavailable so the transport can ask the client to retry.
func (r *IdentityResolver) Resolve(ctx context.Context, token string) (RequestIdentity, error) {
	id, err := r.resolve(ctx, token)
	r.observer.ObserveResolution(id.State)
	return id, err
}

func (r *IdentityResolver) resolve(ctx context.Context, token string) (RequestIdentity, error) {
	if token == "" {
		return AnonymousIdentity(), nil
	}

	log := logutil.FromContext(ctx, r.logger)

	userID, err := r.codec.Decode(token)
	if err != nil {
		log.Debug().Msg("session token rejected")
		return AnonymousIdentity(), nil
	}

	user, err := r.store.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			log.Debug().Str("user_id", userID).Msg("session refers to a missing user")
			return AnonymousIdentity(), nil
		}
		return AnonymousIdentity(), storeFault(err, "find user by id")
	}

	return AuthenticatedIdentity(user.ID), nil
}
