package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"docqa/internal/model"
	"docqa/internal/repository"
)

const maxQuestionLength = 1000

// QuestionListResult wraps a page of questions with the total count.
type QuestionListResult struct {
	Items []model.Question `json:"data"`
	Total int              `json:"total"`
}

// QuestionService covers question submission and history.
type QuestionService interface {
	// Ask stores the question, resolves an answer against the referenced
	// document, and persists the answer. When answering fails the stored
	// question is returned alongside the error so the caller can surface
	// both.
	Ask(ctx context.Context, userID, documentID, text string) (*model.Question, error)

	List(ctx context.Context, page repository.PageQuery) (QuestionListResult, error)
	Get(ctx context.Context, id string) (*model.Question, error)
	ListByDocument(ctx context.Context, documentID string) ([]model.Question, error)
	ListOwn(ctx context.Context, userID, documentID string) ([]model.Question, error)

	// Update rewrites the question text. Only the question's author may
	// update it; the stale answer is cleared.
	Update(ctx context.Context, callerID, id, text string) (*model.Question, error)
	Delete(ctx context.Context, id string) error
}

type questionService struct {
	questions repository.QuestionRepository
	documents repository.DocumentRepository
	answers   AnswerService
}

var _ QuestionService = (*questionService)(nil)

// NewQuestionService constructs a QuestionService.
func NewQuestionService(questions repository.QuestionRepository, documents repository.DocumentRepository, answers AnswerService) QuestionService {
	return &questionService{questions: questions, documents: documents, answers: answers}
}

func validateQuestionText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: question is required", ErrValidation)
	}
	if len(text) > maxQuestionLength {
		return "", fmt.Errorf("%w: question exceeds %d characters", ErrValidation, maxQuestionLength)
	}
	return text, nil
}

func (s *questionService) Ask(ctx context.Context, userID, documentID, text string) (*model.Question, error) {
	if userID == "" || documentID == "" {
		return nil, ErrIDRequired
	}
	text, err := validateQuestionText(text)
	if err != nil {
		return nil, err
	}

	doc, err := s.documents.FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	now := time.Now().UTC()
	q, err := s.questions.Create(ctx, &model.Question{
		ID:         uuid.New().String(),
		UserID:     userID,
		DocumentID: documentID,
		Question:   text,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return nil, err
	}

	answer, err := s.answers.Answer(ctx, doc, text)
	if err != nil {
		// The question row stays so the failure is visible in history.
		return q, err
	}

	if err := s.questions.SetAnswer(ctx, q.ID, answer); err != nil {
		return q, err
	}
	q.Answer = &answer
	return q, nil
}

func (s *questionService) List(ctx context.Context, page repository.PageQuery) (QuestionListResult, error) {
	res, err := s.questions.List(ctx, page)
	if err != nil {
		return QuestionListResult{}, err
	}
	return QuestionListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *questionService) Get(ctx context.Context, id string) (*model.Question, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	q, err := s.questions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return q, nil
}

func (s *questionService) ListByDocument(ctx context.Context, documentID string) ([]model.Question, error) {
	if documentID == "" {
		return nil, ErrIDRequired
	}
	return s.questions.ListByDocument(ctx, documentID)
}

func (s *questionService) ListOwn(ctx context.Context, userID, documentID string) ([]model.Question, error) {
	if userID == "" || documentID == "" {
		return nil, ErrIDRequired
	}
	return s.questions.ListByUserAndDocument(ctx, userID, documentID)
}

func (s *questionService) Update(ctx context.Context, callerID, id, text string) (*model.Question, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	text, err := validateQuestionText(text)
	if err != nil {
		return nil, err
	}

	q, err := s.questions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if q.UserID != callerID {
		return nil, ErrForbidden
	}

	q.Question = text
	q.Answer = nil
	q.UpdatedAt = time.Now().UTC()
	return s.questions.Update(ctx, q)
}

func (s *questionService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	return s.questions.Delete(ctx, id)
}
