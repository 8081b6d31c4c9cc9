package router

import (
	"strconv"
	"strings"
	"time"

	"github.com/elwarcha/gallery/internal/authz"
	"github.com/elwarcha/gallery/internal/config"
	"github.com/elwarcha/gallery/internal/http/handlers/shared"
	"github.com/elwarcha/gallery/internal/http/response"
	"github.com/elwarcha/gallery/internal/identity"
	"github.com/elwarcha/gallery/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDKey = "request_id"
const requestIDHeader = "X-Request-ID"
const identityErrorKey = "identity_error"

// CORSMiddleware answers preflight requests and sets CORS headers.
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{
			"Content-Type",
			"Content-Length",
			"Accept-Encoding",
			"Authorization",
			"Cache-Control",
			"X-Requested-With",
			"X-Request-ID",
		}
	}
	methodsHeader := strings.Join(allowedMethods, ", ")
	headersHeader := strings.Join(allowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowedOrigin := resolveAllowedOrigin(origin, allowedOrigins, cfg.AllowCredentials)
		if allowedOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			if allowedOrigin != "*" {
				c.Writer.Header().Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", headersHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", methodsHeader)
		if cfg.MaxAge > 0 {
			c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// resolveAllowedOrigin echoes the origin when credentials are allowed, since
// browsers reject a wildcard with credentials.
func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	if len(allowedOrigins) == 0 {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware keeps the caller's X-Request-ID or generates one.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware logs one http_request event per request.
func LoggerMiddleware(log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.L()
	}
	sugar := log.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := sugar.With(
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"route", c.FullPath(),
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		if id := identity.From(c); id != nil {
			entry = entry.With("user_id", id.UserID)
		}
		if len(c.Errors) > 0 {
			entry.Errorw("http_request", "errors", c.Errors.String())
			return
		}
		entry.Infow("http_request")
	}
}

func getRequestID(c *gin.Context) string {
	value, ok := c.Get(requestIDKey)
	if !ok {
		return ""
	}
	if requestID, ok := value.(string); ok {
		return requestID
	}
	return ""
}

// IdentityMiddleware resolves the caller on every request. Invalid
// credentials leave the request anonymous; routes that need a user report
// the failure.
func IdentityMiddleware(provider identity.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		if provider == nil {
			c.Next()
			return
		}
		id, err := provider.Identify(c)
		if err != nil {
			shared.RequestLog(c).Debugw("identity_rejected", "error", err)
			c.Set(identityErrorKey, err)
		}
		identity.Set(c, id)
		c.Next()
	}
}

// RequireUserMiddleware rejects anonymous callers.
func RequireUserMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := identity.From(c); id != nil && id.UserID != 0 {
			c.Next()
			return
		}
		key := shared.KeyAuthRequired
		if _, rejected := c.Get(identityErrorKey); rejected {
			key = shared.KeyInvalidToken
		}
		shared.RespondError(c, response.CodeUnauthorized, key, nil)
		c.Abort()
	}
}

// AdminRBACMiddleware checks the route against the casbin policy of the
// caller's role.
func AdminRBACMiddleware(authzService *authz.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authzService == nil {
			logger.Errorw("admin_rbac_service_unavailable")
			shared.RespondError(c, response.CodeForbidden, shared.KeyUnauthorized, nil)
			c.Abort()
			return
		}
		id := identity.From(c)
		if id == nil || id.UserID == 0 {
			shared.RespondError(c, response.CodeUnauthorized, shared.KeyAuthRequired, nil)
			c.Abort()
			return
		}

		resource := c.FullPath()
		if strings.TrimSpace(resource) == "" {
			resource = c.Request.URL.Path
		}

		allowed, err := authzService.EnforceIdentity(id, resource, c.Request.Method)
		if err != nil {
			logger.Errorw("admin_rbac_enforce_failed",
				"user_id", id.UserID,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err,
			)
			shared.RespondError(c, response.CodeForbidden, shared.KeyUnauthorized, nil)
			c.Abort()
			return
		}
		if !allowed {
			logger.Warnw("admin_rbac_permission_denied",
				"user_id", id.UserID,
				"role", id.Role,
				"method", c.Request.Method,
				"resource", authz.NormalizeObject(resource),
			)
			shared.RespondError(c, response.CodeForbidden, shared.KeyUnauthorized, nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
