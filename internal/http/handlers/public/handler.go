package public

import "github.com/magazine-next/internal/provider"

// Handler serves the reader-facing API.
type Handler struct {
	*provider.Container
}

// New creates the public handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
