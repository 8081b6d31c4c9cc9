package public

import (
	"github.com/elwarcha/gallery/internal/guestcart"
	"github.com/elwarcha/gallery/internal/identity"
	"github.com/elwarcha/gallery/internal/provider"
	"github.com/elwarcha/gallery/internal/service"

	"github.com/gin-gonic/gin"
)

// Handler serves the storefront and customer API.
type Handler struct {
	*provider.Container
}

// New creates the public handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func (h *Handler) guestStore(c *gin.Context) *guestcart.CookieStore {
	cfg := h.Config.Cart
	return guestcart.NewCookieStore(c, guestcart.CookieConfig{
		Name:   cfg.CookieName,
		MaxAge: cfg.CookieMaxAge,
		Domain: cfg.CookieDomain,
		Secure: cfg.CookieSecure,
	})
}

// cartScope targets the persisted cart of a signed-in caller and the guest
// cookie otherwise.
func (h *Handler) cartScope(c *gin.Context) service.CartScope {
	if id := identity.From(c); id != nil && id.UserID != 0 {
		return service.CartScope{UserID: id.UserID}
	}
	return service.CartScope{Guest: h.guestStore(c)}
}
