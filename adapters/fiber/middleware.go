package fiber

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lborres/ledger/core"
	"github.com/lborres/ledger/pkg/logutil"
)

const (
	identityLocalsKey = "ledger.identity"
	HeaderRequestID   = "X-Request-ID"
)

// Resolve attaches a RequestIdentity to every request, both in Locals and
// in the request context. Missing or bad tokens resolve to anonymous; only
// a store fault stops the request, with 503.
func Resolve(auth core.AuthHandler, cookieName string) fiber.Handler {
	return func(c fiber.Ctx) error {
		id, err := auth.Session(c.Context(), extractToken(c, cookieName))
		if err != nil {
			return handleAuthError(c, err)
		}

		c.Locals(identityLocalsKey, id)
		c.SetContext(core.WithIdentity(c.Context(), id))

		return c.Next()
	}
}

// RequireAuth rejects requests Resolve left anonymous.
func RequireAuth() fiber.Handler {
	return func(c fiber.Ctx) error {
		if !IdentityFrom(c).IsAuthenticated() {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
				"error": core.ErrUnauthenticated.Error(),
			})
		}
		return c.Next()
	}
}

// IdentityFrom returns the identity Resolve stored for this request.
func IdentityFrom(c fiber.Ctx) core.RequestIdentity {
	id, ok := c.Locals(identityLocalsKey).(core.RequestIdentity)
	if !ok {
		return core.RequestIdentity{}
	}
	return id
}

// RequestLogger tags each request with an id and a child logger carried in
// the request context, then logs the outcome.
func RequestLogger(logger zerolog.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		requestID := c.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(HeaderRequestID, requestID)

		reqLogger := logger.With().Str("request_id", requestID).Logger()
		c.SetContext(logutil.WithLogger(c.Context(), reqLogger))

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = http.StatusInternalServerError
			}
		}

		event := reqLogger.Info()
		if status >= http.StatusInternalServerError {
			event = reqLogger.Error().Err(err)
		}
		event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")

		return err
	}
}
