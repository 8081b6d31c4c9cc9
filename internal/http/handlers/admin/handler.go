package admin

import "github.com/elwarcha/gallery/internal/provider"

// Handler serves the back-office API. Every route is behind the admin policy.
type Handler struct {
	*provider.Container
}

// New creates the admin handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
