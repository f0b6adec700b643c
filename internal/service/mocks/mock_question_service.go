package mocks

import (
	"context"

	"docqa/internal/model"
	"docqa/internal/repository"
	"docqa/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockQuestionService struct {
	mock.Mock
}

func (m *MockQuestionService) Ask(ctx context.Context, userID, documentID, text string) (*model.Question, error) {
	args := m.Called(ctx, userID, documentID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Question), args.Error(1)
}

func (m *MockQuestionService) List(ctx context.Context, page repository.PageQuery) (service.QuestionListResult, error) {
	args := m.Called(ctx, page)
	return args.Get(0).(service.QuestionListResult), args.Error(1)
}

func (m *MockQuestionService) Get(ctx context.Context, id string) (*model.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Question), args.Error(1)
}

func (m *MockQuestionService) ListByDocument(ctx context.Context, documentID string) ([]model.Question, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Question), args.Error(1)
}

func (m *MockQuestionService) ListOwn(ctx context.Context, userID, documentID string) ([]model.Question, error) {
	args := m.Called(ctx, userID, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Question), args.Error(1)
}

func (m *MockQuestionService) Update(ctx context.Context, callerID, id, text string) (*model.Question, error) {
	args := m.Called(ctx, callerID, id, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Question), args.Error(1)
}

func (m *MockQuestionService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
