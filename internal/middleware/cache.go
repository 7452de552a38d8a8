package middleware

import (
	"github.com/gin-gonic/gin"
)

// CacheControl sets the Cache-Control header on every response it wraps.
func CacheControl(directive string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", directive)
		c.Next()
	}
}

// NoStore marks responses as uncacheable; the question list changes on
// every add.
func NoStore() gin.HandlerFunc {
	return CacheControl("no-store")
}
