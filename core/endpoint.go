package core

import "fmt"

// Endpoint is a framework-agnostic description of an auth route. Adapters
// bind their own handler to each OperationID.
type Endpoint struct {
	Path        string
	Method      string
	OperationID string
	Description string
	Protected   bool
}

const (
	OpSignUp     = "signUpWithUsernameAndPassword"
	OpSignIn     = "signInWithUsernameAndPassword"
	OpSignOut    = "signOut"
	OpGetSession = "getSession"
)

// BaseEndpoints returns endpoint specifications for all core
// authentication endpoints.
func BaseEndpoints() []Endpoint {
	return []Endpoint{
		{
			Path:        "/sign-up",
			Method:      "POST",
			OperationID: OpSignUp,
			Description: "Register a user with username and password and start a session",
		},
		{
			Path:        "/sign-in",
			Method:      "POST",
			OperationID: OpSignIn,
			Description: "Sign in a user using username and password",
		},
		{
			Path:        "/sign-out",
			Method:      "POST",
			OperationID: OpSignOut,
			Description: "Sign out the current user by clearing the session cookie",
		},
		{
			Path:        "/session",
			Method:      "GET",
			OperationID: OpGetSession,
			Description: "Get the current user's session data",
			Protected:   true,
		},
	}
}

// EndpointRegistry holds endpoints keyed by "METHOD:PATH" and rejects
// duplicates.
type EndpointRegistry struct {
	endpoints map[string]Endpoint
	order     []string
}

// NewEndpointRegistry creates a registry with all base endpoints registered.
func NewEndpointRegistry() *EndpointRegistry {
	reg := &EndpointRegistry{
		endpoints: make(map[string]Endpoint),
	}

	for _, ep := range BaseEndpoints() {
		// base endpoints are unique by construction
		_ = reg.Register(ep)
	}

	return reg
}

// Register adds an endpoint. Returns error if METHOD:PATH is already taken.
func (r *EndpointRegistry) Register(ep Endpoint) error {
	key := fmt.Sprintf("%s:%s", ep.Method, ep.Path)

	if _, exists := r.endpoints[key]; exists {
		return fmt.Errorf("endpoint conflict: %s %s already registered", ep.Method, ep.Path)
	}

	r.endpoints[key] = ep
	r.order = append(r.order, key)
	return nil
}

// Endpoints returns the registered endpoints in registration order.
func (r *EndpointRegistry) Endpoints() []Endpoint {
	result := make([]Endpoint, 0, len(r.order))
	for _, key := range r.order {
		result = append(result, r.endpoints[key])
	}
	return result
}
