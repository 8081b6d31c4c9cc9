// Package identity describes who is calling: anonymous, a customer or an admin.
package identity

import (
	"github.com/elwarcha/gallery/internal/constants"

	"github.com/gin-gonic/gin"
)

const contextKey = "identity"

// Identity is the authenticated caller of a request.
type Identity struct {
	UserID uint
	Email  string
	Role   string
}

// IsAdmin reports whether the caller carries the ADMIN role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == constants.RoleAdmin
}

// Provider resolves the identity of a request. It returns nil, nil for
// anonymous requests and an error only for credentials that are present
// but invalid.
type Provider interface {
	Identify(c *gin.Context) (*Identity, error)
}

// Set stores id on the gin context.
func Set(c *gin.Context, id *Identity) {
	if id == nil {
		return
	}
	c.Set(contextKey, id)
	c.Set("user_id", id.UserID)
}

// From returns the identity stored on the context, nil when anonymous.
func From(c *gin.Context) *Identity {
	v, ok := c.Get(contextKey)
	if !ok {
		return nil
	}
	id, _ := v.(*Identity)
	return id
}
