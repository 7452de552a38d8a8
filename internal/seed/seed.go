// Package seed loads the question dataset the store starts with.
package seed

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/stemsi/qna-backend/internal/model"
)

//go:embed questions.json
var bundled []byte

// ErrEmptyDocument is returned for a seed document with no JSON value.
var ErrEmptyDocument = errors.New("seed document is empty")

// ErrKeyMismatch is returned when an object entry's key differs from the
// id of the question it holds.
var ErrKeyMismatch = errors.New("seed key does not match question id")

// Load reads the dataset at path, or the bundled dataset when path is "".
func Load(path string) ([]model.Question, error) {
	if path == "" {
		return Parse(bytes.NewReader(bundled))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	questions, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("seed file %s: %w", path, err)
	}
	return questions, nil
}

// Parse decodes a seed document. Two shapes are accepted: an object keyed by
// question id, or an array of questions. Object entries come back ordered by
// key so loading is deterministic, and every key must equal its entry's id.
func Parse(r io.Reader) ([]model.Question, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrEmptyDocument
	}

	switch trimmed[0] {
	case '[':
		var questions []model.Question
		if err := json.Unmarshal(trimmed, &questions); err != nil {
			return nil, fmt.Errorf("decode seed array: %w", err)
		}
		return questions, nil
	case '{':
		var byID map[model.QuestionID]model.Question
		if err := json.Unmarshal(trimmed, &byID); err != nil {
			return nil, fmt.Errorf("decode seed object: %w", err)
		}
		keys := make([]model.QuestionID, 0, len(byID))
		for k := range byID {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

		questions := make([]model.Question, 0, len(keys))
		for _, k := range keys {
			q := byID[k]
			if q.ID != k {
				return nil, fmt.Errorf("%w: key %q holds id %q", ErrKeyMismatch, k, q.ID)
			}
			questions = append(questions, q)
		}
		return questions, nil
	default:
		return nil, fmt.Errorf("seed must be a JSON object or array, got %q", trimmed[0])
	}
}
