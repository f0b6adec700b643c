package repository

import (
	"context"

	"docqa/internal/model"
)

// QuestionRepository defines data access for questions.
type QuestionRepository interface {
	Create(ctx context.Context, q *model.Question) (*model.Question, error)
	FindByID(ctx context.Context, id string) (*model.Question, error)

	// List returns a paginated list of all questions, newest first.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Question], error)

	// ListByDocument returns all questions for a document, newest first.
	ListByDocument(ctx context.Context, documentID string) ([]model.Question, error)

	// ListByUserAndDocument returns one user's questions for a document, newest first.
	ListByUserAndDocument(ctx context.Context, userID, documentID string) ([]model.Question, error)

	// Update writes question text and answer of an existing row.
	Update(ctx context.Context, q *model.Question) (*model.Question, error)

	// SetAnswer stores the answer text for a question.
	SetAnswer(ctx context.Context, id string, answer string) error

	// Delete removes a question by ID. Nil if the row did not exist.
	Delete(ctx context.Context, id string) error
}
