package mocks

import (
	"context"

	"docqa/internal/gemini"
	"github.com/stretchr/testify/mock"
)

type MockClient struct {
	mock.Mock
}

func (m *MockClient) UploadFile(ctx context.Context, filename, contentType string, data []byte) (*gemini.FileInfo, error) {
	args := m.Called(ctx, filename, contentType, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gemini.FileInfo), args.Error(1)
}

func (m *MockClient) Generate(ctx context.Context, prompt string, ref gemini.FileRef) (string, error) {
	args := m.Called(ctx, prompt, ref)
	return args.String(0), args.Error(1)
}

func (m *MockClient) Transport() gemini.TransportMode {
	args := m.Called()
	return args.Get(0).(gemini.TransportMode)
}
