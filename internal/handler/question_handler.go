package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/qna-backend/internal/model"
	"github.com/stemsi/qna-backend/internal/response"
	"github.com/stemsi/qna-backend/internal/service"
	"github.com/stemsi/qna-backend/internal/validator"
)

// QuestionAddedBody is the confirmation returned by AddQuestion.
const QuestionAddedBody = "Question added"

// QuestionHandler handles question endpoints.
type QuestionHandler struct {
	questionService *service.QuestionService
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// ListQuestions godoc
// GET /questions[?start=&end=]
// Lists all questions, or the [start, end) window when any query is given.
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	questions, err := h.questionService.List(c.Request.Context(), queryParams(c))
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.JSON(c, http.StatusOK, questions)
}

// AddQuestion godoc
// POST /questions
// Stores the question from the body, replacing any with the same id.
func (h *QuestionHandler) AddQuestion(c *gin.Context) {
	var req model.AddQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.Fail(c, response.Errorf(response.ErrInvalidPayload, "%s", validator.Summary(fields)))
		return
	}

	if err := h.questionService.Add(c.Request.Context(), req.ToQuestion()); err != nil {
		response.Fail(c, err)
		return
	}

	response.Text(c, http.StatusOK, QuestionAddedBody)
}

// queryParams flattens the query string; a repeated key keeps its last value.
func queryParams(c *gin.Context) map[string]string {
	values := c.Request.URL.Query()
	params := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			params[k] = v[len(v)-1]
		}
	}
	return params
}
