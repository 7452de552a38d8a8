package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/qna-backend/internal/config"
	"github.com/stemsi/qna-backend/internal/feed"
	"github.com/stemsi/qna-backend/internal/handler"
	"github.com/stemsi/qna-backend/internal/model"
	"github.com/stemsi/qna-backend/internal/repository"
	"github.com/stemsi/qna-backend/internal/service"
	"github.com/stemsi/qna-backend/internal/validator"
)

func testConfig() *config.Config {
	return &config.Config{
		GinMode:         gin.TestMode,
		AllowedMethods:  []string{"GET", "POST", "PUT", "DELETE"},
		AllowedHeaders:  []string{"Content-Type"},
		BrotliMinLength: 1024,
	}
}

func seedQuestions() []model.Question {
	return []model.Question{
		{ID: "1", Title: "one", Content: "c1", Tags: []string{"a"}},
		{ID: "2", Title: "two", Content: "c2"},
		{ID: "3", Title: "three", Content: "c3"},
		{ID: "4", Title: "four", Content: "c4"},
		{ID: "5", Title: "five", Content: "c5"},
	}
}

type testServer struct {
	engine *gin.Engine
	hub    *feed.Hub
}

func newTestServer(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()
	if err := validator.Setup(); err != nil {
		t.Fatalf("validator setup: %v", err)
	}

	log := zerolog.Nop()
	hub := feed.NewHub(log)
	svc := service.NewQuestionService(repository.NewQuestionStore(seedQuestions()), hub, "test", log)
	handlers := &Handlers{
		Question: handler.NewQuestionHandler(svc),
		System:   handler.NewSystemHandler(svc, hub),
		WS:       handler.NewWSHandler(hub, svc, log, cfg.AllowedOrigins),
	}

	writeLimiter := NewWriteLimiter(cfg.WriteRateLimit)
	return &testServer{engine: SetupRouter(handlers, cfg, writeLimiter, log), hub: hub}
}

func (s *testServer) do(method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decodeQuestions(t *testing.T, w *httptest.ResponseRecorder) []model.Question {
	t.Helper()
	var out []model.Question
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func TestListQuestions_All(t *testing.T) {
	s := newTestServer(t, testConfig())

	w := s.do(http.MethodGet, "/questions", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	if got := decodeQuestions(t, w); len(got) != 5 {
		t.Fatalf("expected 5 questions, got %d", len(got))
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatal("missing X-Request-ID header")
	}
	if w.Header().Get("Cache-Control") != "no-store" {
		t.Fatalf("unexpected Cache-Control %q", w.Header().Get("Cache-Control"))
	}
}

func TestListQuestions_Paginated(t *testing.T) {
	s := newTestServer(t, testConfig())

	w := s.do(http.MethodGet, "/questions?start=1&end=3", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	got := decodeQuestions(t, w)
	if len(got) != 2 || got[0].ID != "2" || got[1].ID != "3" {
		t.Fatalf("unexpected page: %+v", got)
	}
}

func TestListQuestions_RepeatedKeyUsesLastValue(t *testing.T) {
	s := newTestServer(t, testConfig())

	w := s.do(http.MethodGet, "/questions?start=0&start=1&end=3", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	got := decodeQuestions(t, w)
	if len(got) != 2 || got[0].ID != "2" || got[1].ID != "3" {
		t.Fatalf("unexpected page: %+v", got)
	}
}

func TestListQuestions_PlusSignedIndex(t *testing.T) {
	s := newTestServer(t, testConfig())

	w := s.do(http.MethodGet, "/questions?start=%2B1&end=3", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	if got := decodeQuestions(t, w); len(got) != 2 || got[0].ID != "2" {
		t.Fatalf("unexpected page: %+v", got)
	}
}

func TestListQuestions_Errors(t *testing.T) {
	s := newTestServer(t, testConfig())

	tests := []struct {
		name     string
		target   string
		wantBody string
	}{
		{"end missing", "/questions?start=0", "Missing parameter"},
		{"unrelated param", "/questions?foo=bar", "Missing parameter"},
		{"not a number", "/questions?start=a&end=5", "Cannot parse parameter: "},
		{"end past length", "/questions?start=0&end=6", "Invalid range: start=0 end=6 total=5"},
		{"start past end", "/questions?start=3&end=1", "Invalid range"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(http.MethodGet, tt.target, "", nil)
			if w.Code != http.StatusRequestedRangeNotSatisfiable {
				t.Fatalf("expected 416, got %d: %s", w.Code, w.Body.String())
			}
			if !strings.HasPrefix(w.Body.String(), tt.wantBody) {
				t.Fatalf("body %q does not start with %q", w.Body.String(), tt.wantBody)
			}
			if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
				t.Fatalf("expected text/plain, got %q", ct)
			}
		})
	}
}

func TestAddQuestion(t *testing.T) {
	s := newTestServer(t, testConfig())

	w := s.do(http.MethodPost, "/questions", `{"id":"9","title":"new","content":"body","tags":["x"]}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	if w.Body.String() != handler.QuestionAddedBody {
		t.Fatalf("unexpected body %q", w.Body.String())
	}

	got := decodeQuestions(t, s.do(http.MethodGet, "/questions", "", nil))
	if len(got) != 6 || got[5].ID != "9" || got[5].Tags[0] != "x" {
		t.Fatalf("added question missing: %+v", got)
	}
}

func TestAddQuestion_OverwritesAndAcceptsEmptyFields(t *testing.T) {
	s := newTestServer(t, testConfig())

	w := s.do(http.MethodPost, "/questions", `{"id":"1","title":"","content":""}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}

	got := decodeQuestions(t, s.do(http.MethodGet, "/questions", "", nil))
	if len(got) != 5 {
		t.Fatalf("expected overwrite, got %d questions", len(got))
	}
	if got[0].Title != "" || got[0].Tags != nil {
		t.Fatalf("expected replaced question, got %+v", got[0])
	}
}

func TestAddQuestion_InvalidBody(t *testing.T) {
	s := newTestServer(t, testConfig())

	tests := []struct {
		name     string
		body     string
		wantBody string
	}{
		{"missing id", `{"title":"t","content":"c"}`, "id: "},
		{"null title", `{"id":"1","title":null,"content":"c"}`, "title: "},
		{"malformed json", `{"id":`, "Invalid question payload"},
		{"wrong type", `{"id":1,"title":"t","content":"c"}`, "Invalid question payload"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(http.MethodPost, "/questions", tt.body, nil)
			if w.Code != http.StatusRequestedRangeNotSatisfiable {
				t.Fatalf("expected 416, got %d: %s", w.Code, w.Body.String())
			}
			if !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Fatalf("body %q does not contain %q", w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestRouteNotFound(t *testing.T) {
	s := newTestServer(t, testConfig())

	for _, tc := range []struct{ method, target string }{
		{http.MethodGet, "/answers"},
		{http.MethodPut, "/questions"},
		{http.MethodDelete, "/questions"},
	} {
		w := s.do(tc.method, tc.target, "", nil)
		if w.Code != http.StatusNotFound {
			t.Fatalf("%s %s: expected 404, got %d", tc.method, tc.target, w.Code)
		}
		if w.Body.String() != "Route not found" {
			t.Fatalf("%s %s: unexpected body %q", tc.method, tc.target, w.Body.String())
		}
	}
}

func TestCORS(t *testing.T) {
	cfg := testConfig()
	cfg.AllowedOrigins = []string{"https://allowed.example"}
	s := newTestServer(t, cfg)

	w := s.do(http.MethodGet, "/questions", "", map[string]string{"Origin": "https://evil.example"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	if !strings.HasPrefix(w.Body.String(), "CORS request forbidden") {
		t.Fatalf("unexpected body %q", w.Body.String())
	}

	w = s.do(http.MethodGet, "/questions", "", map[string]string{"Origin": "https://allowed.example"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://allowed.example" {
		t.Fatalf("unexpected Access-Control-Allow-Origin %q", got)
	}
}

func TestCORS_AnyOriginByDefault(t *testing.T) {
	s := newTestServer(t, testConfig())

	w := s.do(http.MethodGet, "/questions", "", map[string]string{"Origin": "https://anywhere.example"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("unexpected Access-Control-Allow-Origin %q", got)
	}
}

func TestWriteRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.WriteRateLimit = 1
	s := newTestServer(t, cfg)

	body := `{"id":"x","title":"t","content":"c"}`
	if w := s.do(http.MethodPost, "/questions", body, nil); w.Code != http.StatusOK {
		t.Fatalf("first write: %d", w.Code)
	}
	w := s.do(http.MethodPost, "/questions", body, nil)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if w := s.do(http.MethodGet, "/questions", "", nil); w.Code != http.StatusOK {
		t.Fatalf("reads must not be limited, got %d", w.Code)
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, testConfig())

	w := s.do(http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	var body struct {
		Status    string `json:"status"`
		Questions int    `json:"questions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "ok" || body.Questions != 5 {
		t.Fatalf("unexpected health: %+v", body)
	}
}

func TestQuestionFeedStream(t *testing.T) {
	s := newTestServer(t, testConfig())
	srv := httptest.NewServer(s.engine)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/questions"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var ready struct {
		Event     string `json:"event"`
		Questions int    `json:"questions"`
	}
	if err := conn.ReadJSON(&ready); err != nil {
		t.Fatalf("read ready: %v", err)
	}
	if ready.Event != "ready" || ready.Questions != 5 {
		t.Fatalf("unexpected ready message: %+v", ready)
	}

	resp, err := http.Post(srv.URL+"/questions", "application/json",
		strings.NewReader(`{"id":"42","title":"live","content":"c"}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()

	var added struct {
		Event    string         `json:"event"`
		Question model.Question `json:"question"`
	}
	if err := conn.ReadJSON(&added); err != nil {
		t.Fatalf("read event: %v", err)
	}
	if added.Event != "question_added" || added.Question.ID != "42" {
		t.Fatalf("unexpected event: %+v", added)
	}
}

func TestQuestionFeedStream_ClientActions(t *testing.T) {
	s := newTestServer(t, testConfig())
	srv := httptest.NewServer(s.engine)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/questions"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var msg map[string]any
	if err := conn.ReadJSON(&msg); err != nil || msg["event"] != "ready" {
		t.Fatalf("expected ready, got %v (%v)", msg, err)
	}

	if err := conn.WriteJSON(map[string]string{"action": "ping"}); err != nil {
		t.Fatalf("write ping: %v", err)
	}
	msg = nil
	if err := conn.ReadJSON(&msg); err != nil || msg["event"] != "pong" {
		t.Fatalf("expected pong, got %v (%v)", msg, err)
	}

	if err := conn.WriteJSON(map[string]string{"action": "dance"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	msg = nil
	if err := conn.ReadJSON(&msg); err != nil || msg["event"] != "error" {
		t.Fatalf("expected error event, got %v (%v)", msg, err)
	}
	if msg["error"] != "unknown action: dance" {
		t.Fatalf("unexpected error text %v", msg["error"])
	}
}
