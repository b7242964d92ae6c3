package core

import (
	"time"

	"github.com/rs/zerolog"
)

type Config struct {
	Secret string

	Store UserStorage

	// Optional config
	HTTP           HTTPAdapter
	SessionConfig  *SessionConfig
	PasswordHasher PasswordHandler
	BasePath       string
	Logger         *zerolog.Logger
	Observer       Observer
}

// SessionConfig controls the lifetime and transport of session tokens.
type SessionConfig struct {
	MaxAge       time.Duration
	CookieName   string
	CookieSecure bool
}

func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		MaxAge:     24 * time.Hour,
		CookieName: "ledger_session",
	}
}
