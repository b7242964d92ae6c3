package fiber

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"

	"github.com/lborres/ledger/core"
	"github.com/lborres/ledger/pkg/logutil"
)

const (
	msgInvalidBody   = "invalid request body"
	msgUnavailable   = "service unavailable, try again"
	msgInternalError = "internal server error"
)

type handlers struct {
	auth    core.AuthHandler
	session core.SessionConfig
}

func (h *handlers) signUp(c fiber.Ctx) error {
	var input core.SignUpInput
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": msgInvalidBody})
	}

	result, err := h.auth.SignUp(c.Context(), input)
	if err != nil {
		return handleAuthError(c, err)
	}

	h.setSessionCookie(c, result.Token, result.ExpiresAt)
	return c.Status(http.StatusCreated).JSON(result)
}

func (h *handlers) signIn(c fiber.Ctx) error {
	var input core.SignInInput
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": msgInvalidBody})
	}

	result, err := h.auth.SignIn(c.Context(), input)
	if err != nil {
		return handleAuthError(c, err)
	}

	h.setSessionCookie(c, result.Token, result.ExpiresAt)
	return c.Status(http.StatusOK).JSON(result)
}

// signOut only clears the cookie; tokens are stateless and expire on their own.
func (h *handlers) signOut(c fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     h.session.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   h.session.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "signed out"})
}

func (h *handlers) getSession(c fiber.Ctx) error {
	user, err := h.auth.CurrentUser(c.Context(), IdentityFrom(c))
	if err != nil {
		return handleAuthError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"user": user})
}

func (h *handlers) setSessionCookie(c fiber.Ctx, token string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     h.session.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(h.session.MaxAge.Seconds()),
		HTTPOnly: true,
		Secure:   h.session.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// extractToken reads the session cookie first and falls back to an
// Authorization: Bearer header.
func extractToken(c fiber.Ctx, cookieName string) string {
	if token := c.Cookies(cookieName); token != "" {
		return token
	}

	authHeader := c.Get(fiber.HeaderAuthorization)
	if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// handleAuthError writes the status and client-facing message for err.
// Messages for 5xx never carry the underlying cause.
func handleAuthError(c fiber.Ctx, err error) error {
	status := mapErrorToStatus(err)

	msg := err.Error()
	switch {
	case status == http.StatusUnauthorized && errors.Is(err, core.ErrInvalidCredentials):
		msg = core.ErrInvalidCredentials.Error()
	case status == http.StatusUnauthorized:
		msg = core.ErrUnauthenticated.Error()
	case status == http.StatusServiceUnavailable:
		msg = msgUnavailable
	case status >= http.StatusInternalServerError:
		msg = msgInternalError
	}

	if status >= http.StatusInternalServerError {
		log := logutil.FromContext(c.Context(), zerolog.Nop())
		log.Error().Err(err).Int("status", status).Msg("auth request failed")
	}

	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// mapErrorToStatus maps core error types to HTTP status codes
func mapErrorToStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	switch {
	case errors.Is(err, core.ErrStoreUnavailable):
		return http.StatusServiceUnavailable

	case errors.Is(err, core.ErrInvalidCredentials),
		errors.Is(err, core.ErrUnauthenticated),
		errors.Is(err, core.ErrInvalidSession):
		return http.StatusUnauthorized

	case errors.Is(err, core.ErrUserExists):
		return http.StatusConflict

	case errors.Is(err, core.ErrUsernameRequired),
		errors.Is(err, core.ErrUsernameTooLong),
		errors.Is(err, core.ErrPasswordRequired),
		errors.Is(err, core.ErrPasswordTooShort),
		errors.Is(err, core.ErrPasswordTooLong):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}
