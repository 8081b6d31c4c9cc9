package shared

import (
	"strconv"

	"github.com/elwarcha/gallery/internal/http/response"
	"github.com/elwarcha/gallery/internal/identity"

	"github.com/gin-gonic/gin"
)

// RequireIdentity returns the signed-in caller or replies AUTH_REQUIRED.
func RequireIdentity(c *gin.Context) (*identity.Identity, bool) {
	id := identity.From(c)
	if id == nil || id.UserID == 0 {
		RespondError(c, response.CodeUnauthorized, KeyAuthRequired, nil)
		return nil, false
	}
	return id, true
}

// ParamUint parses a positive path parameter or replies INVALID_INPUT.
func ParamUint(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || value == 0 {
		RespondError(c, response.CodeBadRequest, KeyInvalidInput, nil)
		return 0, false
	}
	return uint(value), true
}
