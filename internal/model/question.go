package model

// QuestionID is the client-assigned identity of a question.
type QuestionID string

// Question represents a single question in the dataset.
type Question struct {
	ID      QuestionID `json:"id"`
	Title   string     `json:"title"`
	Content string     `json:"content"`
	Tags    []string   `json:"tags,omitempty"`
}

// AddQuestionRequest is the payload for adding a question.
// Pointer fields distinguish an absent key from an empty string: the key
// must be present, its content is not checked.
type AddQuestionRequest struct {
	ID      *string  `json:"id" binding:"required"`
	Title   *string  `json:"title" binding:"required"`
	Content *string  `json:"content" binding:"required"`
	Tags    []string `json:"tags"`
}

// ToQuestion converts a bound request into a Question.
func (r *AddQuestionRequest) ToQuestion() Question {
	q := Question{Tags: r.Tags}
	if r.ID != nil {
		q.ID = QuestionID(*r.ID)
	}
	if r.Title != nil {
		q.Title = *r.Title
	}
	if r.Content != nil {
		q.Content = *r.Content
	}
	return q
}

// Pagination is a half-open [Start, End) window over a listing snapshot.
type Pagination struct {
	Start int
	End   int
}
