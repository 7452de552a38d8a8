package middleware

import (
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stemsi/qna-backend/internal/response"
)

// CORSConfig lists what cross-origin callers may do. Empty AllowedOrigins
// permits every origin.
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// CORS returns the origin guard followed by gin-contrib/cors. The guard
// turns a disallowed Origin into a CORS_FORBIDDEN error so it is rendered
// by the error translator instead of an empty 403.
func CORS(cfg CORSConfig) []gin.HandlerFunc {
	if slices.Contains(cfg.AllowedOrigins, "*") {
		cfg.AllowedOrigins = nil
	}

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	if len(cfg.AllowedMethods) > 0 {
		corsConfig.AllowMethods = cfg.AllowedMethods
	}
	if len(cfg.AllowedHeaders) > 0 {
		corsConfig.AllowHeaders = append([]string{"Origin"}, cfg.AllowedHeaders...)
	}
	corsConfig.ExposeHeaders = []string{response.HeaderRequestID}
	corsConfig.MaxAge = 12 * time.Hour

	return []gin.HandlerFunc{
		OriginGuard(cfg.AllowedOrigins),
		cors.New(corsConfig),
	}
}

// OriginGuard rejects requests whose Origin header is not in allowed.
// Requests without an Origin header are same-origin or non-browser and pass.
func OriginGuard(allowed []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" || len(allowed) == 0 || originAllowed(allowed, origin) {
			c.Next()
			return
		}
		response.Fail(c, response.NewError(response.ErrCorsForbidden, nil))
	}
}

func originAllowed(allowed []string, origin string) bool {
	for _, a := range allowed {
		if strings.EqualFold(a, origin) {
			return true
		}
	}
	return false
}
