package admin

import (
	"github.com/elwarcha/gallery/internal/http/handlers/shared"
	"github.com/elwarcha/gallery/internal/http/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var adminErrorRules = shared.ConcatErrorRules(shared.AdminErrorRules, shared.CommonErrorRules)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return shared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	shared.RespondError(c, code, key, err)
}

func respondServiceError(c *gin.Context, err error) {
	shared.RespondMappedError(c, err, adminErrorRules, response.CodeInternal, shared.KeyInternal)
}

func respondInvalidInput(c *gin.Context) {
	respondError(c, response.CodeBadRequest, shared.KeyInvalidInput, nil)
}

func normalizePagination(page, pageSize int) (int, int) {
	return shared.NormalizePagination(page, pageSize)
}
