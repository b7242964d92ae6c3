package core

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/lborres/ledger/pkg/logutil"
)

const (
	maxUsernameLength = 64
	minPasswordLength = 8
	maxPasswordLength = 128
)

// Auth is the explicitly wired authentication service: one strategy, one
// codec and one resolver, built by the caller and handed in.
type Auth struct {
	users     UserStorage
	passwords PasswordHandler
	strategy  *LocalStrategy
	codec     SessionCodec
	resolver  *IdentityResolver
	session   SessionConfig
	observer  Observer
	logger    zerolog.Logger
}

// Ensure Auth implements AuthHandler
var _ AuthHandler = (*Auth)(nil)

func NewAuth(users UserStorage, passwords PasswordHandler, strategy *LocalStrategy, codec SessionCodec, resolver *IdentityResolver, session SessionConfig, observer Observer, logger zerolog.Logger) *Auth {
	if observer == nil {
		observer = NopObserver()
	}
	return &Auth{
		users:     users,
		passwords: passwords,
		strategy:  strategy,
		codec:     codec,
		resolver:  resolver,
		session:   session,
		observer:  observer,
		logger:    logger,
	}
}

// SignUpInput contains the data needed to register a new user
type SignUpInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignInInput contains the credentials for authentication
type SignInInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignInResult contains the authenticated user and their session token
type SignInResult struct {
	User      *User     `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SignUp registers a new user and signs them in
func (a *Auth) SignUp(ctx context.Context, input SignUpInput) (*SignInResult, error) {
	if err := validateSignUp(input); err != nil {
		return nil, err
	}

	// Step 1: Hash the password
	hashedPassword, err := a.passwords.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Step 2: Create the user
	user := &User{
		Username:     input.Username,
		PasswordHash: hashedPassword,
	}
	if err := a.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ErrUserExists) {
			return nil, ErrUserExists
		}
		return nil, storeFault(err, "create user")
	}

	log := logutil.FromContext(ctx, a.logger)
	log.Info().Str("user_id", user.ID).Msg("user registered")

	// Step 3: Issue a session for the new user
	return a.issue(user)
}

// SignIn authenticates a user with username and password
func (a *Auth) SignIn(ctx context.Context, input SignInInput) (*SignInResult, error) {
	if input.Username == "" {
		return nil, ErrUsernameRequired
	}
	if input.Password == "" {
		return nil, ErrPasswordRequired
	}

	identity, err := a.strategy.Authenticate(ctx, Credentials{
		Username: input.Username,
		Password: input.Password,
	})
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			a.observer.ObserveSignIn(SignInInvalidCredential)
		} else {
			a.observer.ObserveSignIn(SignInStoreError)
		}
		return nil, err
	}

	// Load the profile returned to the client
	user, err := a.users.FindByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// deleted between verification and now
			a.observer.ObserveSignIn(SignInInvalidCredential)
			return nil, ErrInvalidCredentials
		}
		a.observer.ObserveSignIn(SignInStoreError)
		return nil, storeFault(err, "load signed-in user")
	}

	result, err := a.issue(user)
	if err != nil {
		return nil, err
	}

	a.observer.ObserveSignIn(SignInSuccess)
	log := logutil.FromContext(ctx, a.logger)
	log.Info().Str("user_id", user.ID).Msg("user signed in")

	return result, nil
}

// Session resolves the identity carried by token
func (a *Auth) Session(ctx context.Context, token string) (RequestIdentity, error) {
	return a.resolver.Resolve(ctx, token)
}

// CurrentUser loads the user behind an authenticated request
func (a *Auth) CurrentUser(ctx context.Context, id RequestIdentity) (*User, error) {
	if !id.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}

	user, err := a.users.FindByID(ctx, id.Identity.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, storeFault(err, "load current user")
	}
	return user, nil
}

func (a *Auth) issue(user *User) (*SignInResult, error) {
	token, expiresAt, err := a.codec.Encode(Identity{UserID: user.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}

	return &SignInResult{
		User:      user,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

func validateSignUp(input SignUpInput) error {
	if input.Username == "" {
		return ErrUsernameRequired
	}
	if utf8.RuneCountInString(input.Username) > maxUsernameLength {
		return ErrUsernameTooLong
	}
	if input.Password == "" {
		return ErrPasswordRequired
	}
	if utf8.RuneCountInString(input.Password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	if utf8.RuneCountInString(input.Password) > maxPasswordLength {
		return ErrPasswordTooLong
	}
	return nil
}
