package models

import "aiustaz-backend/internal/quiz"

// TheoryPage is one page of generated course theory.
type TheoryPage struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Practical task kinds. A task is either a coding exercise or a free-form
// practical exercise; the Type discriminant decides which fields are set.
const (
	TaskTypeCode      = "code"
	TaskTypePractical = "practical"
)

// PracticalTask is a polymorphic task descriptor. Code tasks carry
// InitialCode/Solution/TestCases/Language; practical tasks carry only
// Task/Instructions.
type PracticalTask struct {
	Type         string   `json:"type"`
	Task         string   `json:"task"`
	Instructions string   `json:"instructions,omitempty"`
	InitialCode  string   `json:"initialCode,omitempty"`
	Solution     string   `json:"solution,omitempty"`
	TestCases    []string `json:"testCases,omitempty"`
	Language     string   `json:"language,omitempty"`
}

// IsCode reports whether the task is a coding exercise.
func (t PracticalTask) IsCode() bool { return t.Type == TaskTypeCode }

// MicrolearningBundle aggregates everything generated from one document.
// It is returned to the client and never persisted server-side.
type MicrolearningBundle struct {
	Theory        []TheoryPage    `json:"theory"`
	Flashcards    []Flashcard     `json:"flashcards"`
	TextQuiz      []quiz.Question `json:"textQuiz"`
	PracticalQuiz []PracticalTask `json:"practicalQuiz"`
}
