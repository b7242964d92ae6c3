package core

import "context"

// IdentityState is the terminal state of identity resolution for a request.
type IdentityState int

const (
	// Unresolved is the zero value; a request never leaves the resolver in it.
	Unresolved IdentityState = iota
	Anonymous
	Authenticated
)

func (s IdentityState) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	default:
		return "unresolved"
	}
}

// RequestIdentity binds a single request to who, if anyone, it acts as.
type RequestIdentity struct {
	State    IdentityState
	Identity Identity
}

func AnonymousIdentity() RequestIdentity {
	return RequestIdentity{State: Anonymous}
}

func AuthenticatedIdentity(userID string) RequestIdentity {
	return RequestIdentity{State: Authenticated, Identity: Identity{UserID: userID}}
}

// IsAuthenticated reports whether the request acts as a known user.
func (r RequestIdentity) IsAuthenticated() bool {
	return r.State == Authenticated && r.Identity.UserID != ""
}

type identityKey struct{}

// WithIdentity attaches a resolved identity to ctx.
func WithIdentity(ctx context.Context, id RequestIdentity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity attached to ctx. A context that
// never went through the resolver reports Unresolved.
func IdentityFromContext(ctx context.Context) RequestIdentity {
	id, ok := ctx.Value(identityKey{}).(RequestIdentity)
	if !ok {
		return RequestIdentity{}
	}
	return id
}

// RequireIdentity is the guard authorized operations call first. It returns
// ErrUnauthenticated unless ctx carries an authenticated identity.
func RequireIdentity(ctx context.Context) (Identity, error) {
	id := IdentityFromContext(ctx)
	if !id.IsAuthenticated() {
		return Identity{}, ErrUnauthenticated
	}
	return id.Identity, nil
}
