// Package ledger authenticates users of the ledger service and resolves the
// identity behind each request.
package ledger

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/lborres/ledger/core"
	"github.com/lborres/ledger/pkg/crypto"
)

// interfaces
type (
	CredentialStore = core.CredentialStore
	UserStorage     = core.UserStorage
	PasswordHandler = core.PasswordHandler
	SessionCodec    = core.SessionCodec
	HTTPAdapter     = core.HTTPAdapter
	AuthHandler     = core.AuthHandler
	Observer        = core.Observer
)

// structs
type (
	Config          = core.Config
	SessionConfig   = core.SessionConfig
	User            = core.User
	Credentials     = core.Credentials
	Identity        = core.Identity
	RequestIdentity = core.RequestIdentity
	IdentityState   = core.IdentityState
	SignUpInput     = core.SignUpInput
	SignInInput     = core.SignInInput
	SignInResult    = core.SignInResult
)

const (
	Unresolved    = core.Unresolved
	Anonymous     = core.Anonymous
	Authenticated = core.Authenticated
)

const (
	defaultBasePath = "/api/auth"
)

// Constructors & helpers (convenience re-exports)
var (
	NewArgon2             = crypto.NewArgon2
	DefaultPasswordHasher = crypto.DefaultPasswordHandler
	DefaultSessionConfig  = core.DefaultSessionConfig
	WithIdentity          = core.WithIdentity
	IdentityFromContext   = core.IdentityFromContext
	RequireIdentity       = core.RequireIdentity
)

var (
	ErrUserExists         = core.ErrUserExists
	ErrUserNotFound       = core.ErrUserNotFound
	ErrInvalidCredentials = core.ErrInvalidCredentials
)

var (
	ErrInvalidSession  = core.ErrInvalidSession
	ErrUnauthenticated = core.ErrUnauthenticated
)

var (
	ErrStoreUnavailable = core.ErrStoreUnavailable
)

var (
	ErrUsernameRequired = core.ErrUsernameRequired
	ErrUsernameTooLong  = core.ErrUsernameTooLong
	ErrPasswordRequired = core.ErrPasswordRequired
	ErrPasswordTooShort = core.ErrPasswordTooShort
	ErrPasswordTooLong  = core.ErrPasswordTooLong
)

var (
	ErrStoreRequired  = core.ErrStoreRequired
	ErrSecretRequired = core.ErrSecretRequired
	ErrSecretTooShort = core.ErrSecretTooShort
)

// Ledger holds the wired authentication components.
type Ledger struct {
	*core.Auth

	Strategy *core.LocalStrategy
	Resolver *core.IdentityResolver
	Codec    core.SessionCodec
	Session  SessionConfig
	BasePath string
}

func New(config Config) (*Ledger, error) {
	if config.Store == nil {
		return nil, ErrStoreRequired
	}

	// Set Defaults

	sessionConfig := DefaultSessionConfig()
	if config.SessionConfig != nil {
		sessionConfig = *config.SessionConfig
		if sessionConfig.MaxAge <= 0 {
			sessionConfig.MaxAge = DefaultSessionConfig().MaxAge
		}
		if sessionConfig.CookieName == "" {
			sessionConfig.CookieName = DefaultSessionConfig().CookieName
		}
	}

	passwordHasher := config.PasswordHasher
	if passwordHasher == nil {
		passwordHasher = DefaultPasswordHasher()
	}

	basePath := config.BasePath
	if basePath == "" {
		basePath = defaultBasePath
	}

	logger := zerolog.Nop()
	if config.Logger != nil {
		logger = *config.Logger
	}

	observer := config.Observer
	if observer == nil {
		observer = core.NopObserver()
	}

	codec, err := crypto.NewJWTCodec([]byte(config.Secret), sessionConfig.MaxAge)
	if err != nil {
		return nil, err
	}

	strategy, err := core.NewLocalStrategy(config.Store, passwordHasher, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build credential strategy: %w", err)
	}

	resolver := core.NewIdentityResolver(codec, config.Store, observer, logger)

	ledger := &Ledger{
		Auth:     core.NewAuth(config.Store, passwordHasher, strategy, codec, resolver, sessionConfig, observer, logger),
		Strategy: strategy,
		Resolver: resolver,
		Codec:    codec,
		Session:  sessionConfig,
		BasePath: basePath,
	}

	if config.HTTP != nil {
		if err := config.HTTP.RegisterRoutes(ledger.Auth, basePath, sessionConfig); err != nil {
			return nil, err
		}
	}

	return ledger, nil
}
