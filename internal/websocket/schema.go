package websocket

import "github.com/stemsi/qna-backend/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action of a client message.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError         Event = "error"
	EventPong          Event = "pong"
	EventReady         Event = "ready"
	EventQuestionAdded Event = "question_added"
)

// ReadyResponse is sent once right after the upgrade.
type ReadyResponse struct {
	Event     Event `json:"event"`
	Questions int   `json:"questions"`
}

// QuestionAddedResponse carries one newly stored question.
type QuestionAddedResponse struct {
	Event    Event          `json:"event"`
	ID       string         `json:"id"`
	Question model.Question `json:"question"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
