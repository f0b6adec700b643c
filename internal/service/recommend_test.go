package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"docqa/internal/model"
	repoMocks "docqa/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
)

func taggedDoc(id, tags string) model.Document {
	return model.Document{ID: id, Tags: &tags}
}

func TestDocumentService_Recommend(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		setupMocks func(mRepo *repoMocks.MockDocumentRepository)
		wantIDs    []string
		wantErr    error
	}{
		{
			name: "orders by overlap size",
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				src := taggedDoc("src", "ai,nlp")
				mRepo.On("FindByID", ctx, "src").Return(&src, nil)
				mRepo.On("ListTagged", ctx, "src").Return([]model.Document{
					taggedDoc("a", "ai"),
					taggedDoc("b", "ai,nlp,ml"),
					taggedDoc("c", "ml"),
				}, nil)
			},
			wantIDs: []string{"b", "a"},
		},
		{
			name: "normalizes case and whitespace",
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				src := taggedDoc("src", "AI, NLP")
				mRepo.On("FindByID", ctx, "src").Return(&src, nil)
				mRepo.On("ListTagged", ctx, "src").Return([]model.Document{
					taggedDoc("a", "ai , nlp"),
					taggedDoc("b", "graphics"),
				}, nil)
			},
			wantIDs: []string{"a"},
		},
		{
			name: "caps results at three",
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				src := taggedDoc("src", "go")
				mRepo.On("FindByID", ctx, "src").Return(&src, nil)
				mRepo.On("ListTagged", ctx, "src").Return([]model.Document{
					taggedDoc("a", "go"),
					taggedDoc("b", "go"),
					taggedDoc("c", "go"),
					taggedDoc("d", "go"),
				}, nil)
			},
			wantIDs: []string{"a", "b", "c"},
		},
		{
			name: "equal scores keep candidate order",
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				src := taggedDoc("src", "ai,nlp")
				mRepo.On("FindByID", ctx, "src").Return(&src, nil)
				mRepo.On("ListTagged", ctx, "src").Return([]model.Document{
					taggedDoc("a", "nlp"),
					taggedDoc("b", "ai"),
				}, nil)
			},
			wantIDs: []string{"a", "b"},
		},
		{
			name: "untagged source returns no recommendations",
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				src := model.Document{ID: "src"}
				mRepo.On("FindByID", ctx, "src").Return(&src, nil)
			},
			wantIDs: []string{},
		},
		{
			name: "unknown document",
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, "src").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
		{
			name: "repository error",
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				src := taggedDoc("src", "ai")
				mRepo.On("FindByID", ctx, "src").Return(&src, nil)
				mRepo.On("ListTagged", ctx, "src").Return(nil, errors.New("db fail"))
			},
			wantErr: errors.New("db fail"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockDocumentRepository)
			svc := NewDocumentService(nil, mRepo)

			tt.setupMocks(mRepo)

			got, err := svc.Recommend(ctx, "src")

			if tt.wantErr != nil {
				if errors.Is(tt.wantErr, ErrNotFound) {
					assert.ErrorIs(t, err, ErrNotFound)
				} else {
					assert.Error(t, err)
				}
			} else {
				assert.NoError(t, err)
				ids := make([]string, 0, len(got))
				for _, d := range got {
					ids = append(ids, d.ID)
				}
				assert.Equal(t, tt.wantIDs, ids)
			}

			mRepo.AssertExpectations(t)
		})
	}
}
