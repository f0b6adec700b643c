package mocks

import (
	"context"

	"docqa/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockAnswerService struct {
	mock.Mock
}

func (m *MockAnswerService) EnsureFresh(ctx context.Context, doc *model.Document) (string, error) {
	args := m.Called(ctx, doc)
	return args.String(0), args.Error(1)
}

func (m *MockAnswerService) Answer(ctx context.Context, doc *model.Document, question string) (string, error) {
	args := m.Called(ctx, doc, question)
	return args.String(0), args.Error(1)
}
