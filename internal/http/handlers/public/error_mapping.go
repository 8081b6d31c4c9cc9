package public

import (
	"github.com/elwarcha/gallery/internal/http/handlers/shared"
	"github.com/elwarcha/gallery/internal/http/response"

	"github.com/gin-gonic/gin"
)

var authErrorRules = shared.ConcatErrorRules(shared.AuthErrorRules, shared.CommonErrorRules)

func respondError(c *gin.Context, code int, key string, err error) {
	shared.RespondError(c, code, key, err)
}

func respondServiceError(c *gin.Context, err error) {
	shared.RespondMappedError(c, err, shared.CommonErrorRules, response.CodeInternal, shared.KeyInternal)
}

func respondAuthError(c *gin.Context, err error) {
	shared.RespondMappedError(c, err, authErrorRules, response.CodeInternal, shared.KeyInternal)
}
