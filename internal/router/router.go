package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/qna-backend/internal/config"
	"github.com/stemsi/qna-backend/internal/handler"
	"github.com/stemsi/qna-backend/internal/middleware"
	"github.com/stemsi/qna-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Question *handler.QuestionHandler
	System   *handler.SystemHandler
	WS       *handler.WSHandler
}

// SetupRouter configures the middleware chain and routes.
// writeLimiter may be nil to leave POST /questions unthrottled.
func SetupRouter(
	handlers *Handlers,
	cfg *config.Config,
	writeLimiter *middleware.RateLimiter,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()

	// Order matters: recovery outermost, then request metadata, then
	// compression, then the error translator so everything after it can
	// fail with c.Error and still be rendered (and compressed).
	router.Use(
		middleware.Recovery(log),
		response.RequestIDMiddleware(),
		middleware.RequestLogger(log),
		middleware.BrotliWithConfig(middleware.BrotliConfig{MinLength: cfg.BrotliMinLength}),
		middleware.ErrorTranslator(log),
	)

	// ─── CORS ──────────────────────────────────────────────────────────
	router.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: cfg.AllowedMethods,
		AllowedHeaders: cfg.AllowedHeaders,
	})...)

	router.NoRoute(middleware.NotFound)

	router.GET("/health", handlers.System.Health)

	// ─── Questions ─────────────────────────────────────────────────────
	questions := router.Group("/questions")
	questions.Use(middleware.NoStore())
	{
		questions.GET("", handlers.Question.ListQuestions)

		addChain := []gin.HandlerFunc{handlers.Question.AddQuestion}
		if writeLimiter != nil {
			addChain = append([]gin.HandlerFunc{writeLimiter.Middleware()}, addChain...)
		}
		questions.POST("", addChain...)
	}

	// ─── Live feed ─────────────────────────────────────────────────────
	router.GET("/ws/questions", handlers.WS.QuestionFeedStream)

	return router
}

// NewWriteLimiter builds the POST /questions limiter, or nil when perMinute
// is not positive.
func NewWriteLimiter(perMinute int) *middleware.RateLimiter {
	if perMinute <= 0 {
		return nil
	}
	return middleware.NewRateLimiter(perMinute, time.Minute)
}
