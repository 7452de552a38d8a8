package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/qna-backend/internal/feed"
	"github.com/stemsi/qna-backend/internal/response"
	"github.com/stemsi/qna-backend/internal/service"
)

// SystemHandler reports process health.
type SystemHandler struct {
	questionService *service.QuestionService
	hub             *feed.Hub
	startTime       time.Time
}

func NewSystemHandler(questionService *service.QuestionService, hub *feed.Hub) *SystemHandler {
	return &SystemHandler{
		questionService: questionService,
		hub:             hub,
		startTime:       time.Now(),
	}
}

type healthStatus struct {
	Status      string `json:"status"`
	Uptime      string `json:"uptime"`
	Questions   int    `json:"questions"`
	Subscribers int    `json:"subscribers"`
	Goroutines  int    `json:"goroutines"`
}

// Health godoc
// GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	response.JSON(c, http.StatusOK, healthStatus{
		Status:      "ok",
		Uptime:      time.Since(h.startTime).Truncate(time.Second).String(),
		Questions:   h.questionService.Count(c.Request.Context()),
		Subscribers: h.hub.Subscribers(),
		Goroutines:  runtime.NumGoroutine(),
	})
}
