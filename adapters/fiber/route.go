// Package fiber exposes the auth endpoints on a Fiber v3 app.
package fiber

import (
	"fmt"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"

	"github.com/lborres/ledger/core"
)

type Adapter struct {
	app    *fiber.App
	logger zerolog.Logger
}

var _ core.HTTPAdapter = (*Adapter)(nil)

func New(app *fiber.App, logger zerolog.Logger) *Adapter {
	return &Adapter{app: app, logger: logger}
}

// RegisterRoutes mounts every core endpoint under basePath. The identity
// resolver runs for the whole group; protected endpoints also require an
// authenticated request.
func (a *Adapter) RegisterRoutes(handler core.AuthHandler, basePath string, session core.SessionConfig) error {
	h := &handlers{auth: handler, session: session}

	bound := map[string]fiber.Handler{
		core.OpSignUp:     h.signUp,
		core.OpSignIn:     h.signIn,
		core.OpSignOut:    h.signOut,
		core.OpGetSession: h.getSession,
	}

	api := a.app.Group(basePath)
	api.Use(Resolve(handler, session.CookieName))

	for _, ep := range core.NewEndpointRegistry().Endpoints() {
		fn, ok := bound[ep.OperationID]
		if !ok {
			return fmt.Errorf("no handler bound for operation %q", ep.OperationID)
		}

		if err := mount(api, ep, fn); err != nil {
			return err
		}

		a.logger.Debug().
			Str("method", ep.Method).
			Str("path", basePath+ep.Path).
			Str("operation", ep.OperationID).
			Msg("auth route registered")
	}

	return nil
}

func mount(api fiber.Router, ep core.Endpoint, fn fiber.Handler) error {
	switch {
	case ep.Method == fiber.MethodGet && ep.Protected:
		api.Get(ep.Path, RequireAuth(), fn)
	case ep.Method == fiber.MethodGet:
		api.Get(ep.Path, fn)
	case ep.Method == fiber.MethodPost && ep.Protected:
		api.Post(ep.Path, RequireAuth(), fn)
	case ep.Method == fiber.MethodPost:
		api.Post(ep.Path, fn)
	default:
		return fmt.Errorf("unsupported method %s for %s", ep.Method, ep.Path)
	}
	return nil
}
