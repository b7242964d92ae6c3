package crypto

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lborres/ledger/core"
)

const (
	// MinSecretLength is the minimum HMAC key size accepted by the codec.
	MinSecretLength = 32

	codecVersion  = "v1"
	defaultIssuer = "ledger"
)

var (
	ErrEmptySubject = errors.New("identity has no user id")
	errUnknownKey   = errors.New("unknown key id")
)

// Ensure JWTCodec implements SessionCodec
var _ core.SessionCodec = (*JWTCodec)(nil)

// JWTCodec is a self-contained session codec: an HS256-signed JWT whose
// subject is the user id. It carries nothing else about the user.
type JWTCodec struct {
	secret []byte
	maxAge time.Duration
	issuer string
	now    func() time.Time
}

type CodecOption func(*JWTCodec)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) CodecOption {
	return func(c *JWTCodec) { c.now = now }
}

func WithIssuer(issuer string) CodecOption {
	return func(c *JWTCodec) { c.issuer = issuer }
}

func NewJWTCodec(secret []byte, maxAge time.Duration, opts ...CodecOption) (*JWTCodec, error) {
	if len(secret) == 0 {
		return nil, core.ErrSecretRequired
	}
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("%w - minimum of %d characters", core.ErrSecretTooShort, MinSecretLength)
	}
	if maxAge <= 0 {
		maxAge = core.DefaultSessionConfig().MaxAge
	}

	c := &JWTCodec{
		secret: append([]byte(nil), secret...),
		maxAge: maxAge,
		issuer: defaultIssuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Encode is deterministic for a given clock reading. The returned expiry is
// the exp claim, truncated to whole seconds as the token carries it.
func (c *JWTCodec) Encode(identity core.Identity) (string, time.Time, error) {
	if identity.UserID == "" {
		return "", time.Time{}, ErrEmptySubject
	}

	now := c.now()
	expiresAt := jwt.NewNumericDate(now.Add(c.maxAge))
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   identity.UserID,
		Issuer:    c.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: expiresAt,
	})
	token.Header["kid"] = codecVersion

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, expiresAt.Time, nil
}

// Decode returns the user id carried by token. Tokens are client input, so
// every failure collapses to core.ErrInvalidSession.
func (c *JWTCodec) Decode(token string) (string, error) {
	if token == "" {
		return "", core.ErrInvalidSession
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, c.key,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
		jwt.WithStrictDecoding(),
	)
	if err != nil || !parsed.Valid {
		return "", core.ErrInvalidSession
	}

	if claims.Subject == "" {
		return "", core.ErrInvalidSession
	}

	return claims.Subject, nil
}

func (c *JWTCodec) key(t *jwt.Token) (interface{}, error) {
	if kid, _ := t.Header["kid"].(string); kid != codecVersion {
		return nil, errUnknownKey
	}
	return c.secret, nil
}
