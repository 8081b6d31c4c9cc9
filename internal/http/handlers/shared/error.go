package shared

import (
	"errors"

	"github.com/elwarcha/gallery/internal/http/response"
	"github.com/elwarcha/gallery/internal/logger"
	"github.com/elwarcha/gallery/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog returns a logger tagged with the request id.
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError replies with key and logs err when present.
func RespondError(c *gin.Context, code int, key string, err error) {
	appErr := response.WrapError(code, Message(key), err)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"key", key,
			"error", err,
		)
	}
	response.ErrorWithData(c, appErr.Code, appErr.Message, gin.H{"error": key})
}

// RespondValidation replies with the field errors carried by err.
func RespondValidation(c *gin.Context, err error) {
	fields := service.FieldErrorsOf(err)
	if fields == nil {
		fields = service.FieldErrors{}
	}
	response.ErrorWithData(c, response.CodeValidation, Message(KeyValidation), gin.H{
		"error":        KeyValidation,
		"field_errors": fields,
	})
}

// MappedError maps a service error to a response code and key.
type MappedError struct {
	Target error
	Code   int
	Key    string
}

// CommonErrorRules covers the errors every handler may see.
var CommonErrorRules = []MappedError{
	{Target: service.ErrAuthRequired, Code: response.CodeUnauthorized, Key: KeyAuthRequired},
	{Target: service.ErrInvalidToken, Code: response.CodeUnauthorized, Key: KeyInvalidToken},
	{Target: service.ErrUnauthorized, Code: response.CodeForbidden, Key: KeyUnauthorized},
	{Target: service.ErrUserNotFound, Code: response.CodeNotFound, Key: KeyUserNotFound},
	{Target: service.ErrOptionNotFound, Code: response.CodeNotFound, Key: KeyOptionNotFound},
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: KeyNotFound},
	{Target: service.ErrInvalidInput, Code: response.CodeBadRequest, Key: KeyInvalidInput},
	{Target: service.ErrEmptyCart, Code: response.CodeBadRequest, Key: KeyEmptyCart},
}

// AuthErrorRules covers register and login.
var AuthErrorRules = []MappedError{
	{Target: service.ErrInvalidCredentials, Code: response.CodeUnauthorized, Key: KeyInvalidCredentials},
	{Target: service.ErrEmailExists, Code: response.CodeConflict, Key: KeyEmailExists},
	{Target: service.ErrWrongPassword, Code: response.CodeBadRequest, Key: KeyWrongPassword},
}

// AdminErrorRules covers back-office writes.
var AdminErrorRules = []MappedError{
	{Target: service.ErrNameExists, Code: response.CodeConflict, Key: KeyNameExists},
	{Target: service.ErrDiscountExists, Code: response.CodeConflict, Key: KeyDiscountExists},
	{Target: service.ErrDiscountRange, Code: response.CodeBadRequest, Key: KeyDiscountRange},
	{Target: service.ErrDiscountInUse, Code: response.CodeConflict, Key: KeyDiscountInUse},
	{Target: service.ErrPaintingInUse, Code: response.CodeConflict, Key: KeyPaintingInUse},
	{Target: service.ErrTaxonomyInUse, Code: response.CodeConflict, Key: KeyTaxonomyInUse},
}

// RespondMappedError replies with the first rule matching err. Validation
// errors always carry their field errors; anything unmatched is logged and
// reported with the fallback.
func RespondMappedError(c *gin.Context, err error, rules []MappedError, fallbackCode int, fallbackKey string) {
	if errors.Is(err, service.ErrValidation) {
		RespondValidation(c, err)
		return
	}
	for _, rule := range rules {
		if errors.Is(err, rule.Target) {
			RespondError(c, rule.Code, rule.Key, nil)
			return
		}
	}
	RespondError(c, fallbackCode, fallbackKey, err)
}

// ConcatErrorRules joins rule groups in order.
func ConcatErrorRules(groups ...[]MappedError) []MappedError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]MappedError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}
