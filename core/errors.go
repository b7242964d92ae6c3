package core

import "errors"

// Authentication Related Errors
var (
	// User errors
	ErrUserExists         = errors.New("user already exists")          // 409 Conflict
	ErrUserNotFound       = errors.New("user not found")               // never surfaced to clients
	ErrInvalidCredentials = errors.New("invalid username or password") // 401 Unauthorized
)

// Session errors
var (
	ErrInvalidSession  = errors.New("invalid session token") // downgraded to anonymous
	ErrUnauthenticated = errors.New("unauthenticated")       // 401
)

// Infrastructure errors
var (
	// ErrStoreUnavailable marks a persistence fault. It is the only failure
	// that crosses the auth boundary as an error.
	ErrStoreUnavailable = errors.New("credential store unavailable") // 503
)

// Validation errors (client input)
var (
	ErrUsernameRequired = errors.New("username is required")  // 400
	ErrUsernameTooLong  = errors.New("username is too long")  // 400
	ErrPasswordRequired = errors.New("password is required")  // 400
	ErrPasswordTooShort = errors.New("password is too short") // 400
	ErrPasswordTooLong  = errors.New("password is too long")  // 400
)

// Config errors (server-side configuration)
var (
	ErrStoreRequired           = errors.New("credential store is required") // 500
	ErrPasswordHandlerRequired = errors.New("password handler is required") // 500
	ErrSecretRequired          = errors.New("secret is required")           // 500
	ErrSecretTooShort          = errors.New("secret too short")             // 500
)
