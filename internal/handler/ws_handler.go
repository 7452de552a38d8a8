package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/qna-backend/internal/feed"
	"github.com/stemsi/qna-backend/internal/logger"
	"github.com/stemsi/qna-backend/internal/response"
	"github.com/stemsi/qna-backend/internal/service"
	ws "github.com/stemsi/qna-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins permits all origins.
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams the question feed over WebSocket.
type WSHandler struct {
	hub             *feed.Hub
	questionService *service.QuestionService
	log             zerolog.Logger
	upgrader        websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(hub *feed.Hub, questionService *service.QuestionService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		hub:             hub,
		questionService: questionService,
		log:             logger.Component(log, "ws_handler"),
		upgrader:        buildUpgrader(allowedOrigins),
	}
}

// QuestionFeedStream godoc
// WS /ws/questions
// Pushes a question_added event for every question stored after connecting.
func (h *WSHandler) QuestionFeedStream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().
		Str("request_id", response.RequestID(c)).
		Str("remote", c.ClientIP()).
		Logger()

	sub := h.hub.Subscribe()
	defer h.hub.Unsubscribe(sub)

	wsLog.Info().Msg("Feed subscriber connected")

	if err := ws.WriteTyped(conn, ws.ReadyResponse{
		Event:     ws.EventReady,
		Questions: h.questionService.Count(c.Request.Context()),
	}); err != nil {
		return
	}

	done := make(chan struct{})
	pongs := make(chan struct{}, 1)
	rejects := make(chan string, 1)
	go h.readLoop(conn, wsLog, done, pongs, rejects)

	ticker := time.NewTicker(ws.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			wsLog.Debug().Msg("Connection closed")
			return
		case ev, ok := <-sub.Events():
			if !ok {
				return
			}
			if err := ws.WriteTyped(conn, ws.QuestionAddedResponse{
				Event:    ws.EventQuestionAdded,
				ID:       ev.ID,
				Question: ev.Question,
			}); err != nil {
				wsLog.Warn().Err(err).Msg("Write failed")
				return
			}
		case <-pongs:
			if err := ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong}); err != nil {
				return
			}
		case msg := <-rejects:
			if err := ws.WriteError(conn, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := ws.WritePing(conn); err != nil {
				return
			}
		}
	}
}

// readLoop consumes client messages until the connection fails. Writes are
// left to the caller's goroutine: a ping action is forwarded on pongs and an
// unknown action on rejects.
func (h *WSHandler) readLoop(conn *websocket.Conn, wsLog zerolog.Logger, done chan<- struct{}, pongs chan<- struct{}, rejects chan<- string) {
	defer close(done)

	ws.PrepareRead(conn)
	for {
		var msg ws.RequestEnvelope
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			}
			return
		}

		switch msg.Action {
		case ws.ActionPing:
			select {
			case pongs <- struct{}{}:
			default:
			}
		default:
			wsLog.Debug().Str("action", string(msg.Action)).Msg("Unknown action")
			select {
			case rejects <- "unknown action: " + string(msg.Action):
			default:
			}
		}
	}
}
