package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"docqa/internal/model"
	"docqa/internal/repository"
	"docqa/internal/storage"
)

// presignExpiry bounds how long a download link stays valid.
const presignExpiry = 15 * time.Minute

// allowedExtensions are the document types accepted for upload.
var allowedExtensions = map[string]struct{}{
	".txt": {},
	".pdf": {},
	".md":  {},
}

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []model.Document `json:"data"`
	Total int              `json:"total"`
}

// UploadInput carries the metadata accompanying an uploaded file.
type UploadInput struct {
	UserID           string
	Title            string
	Description      *string
	Tags             *string
	OriginalFilename string
	ContentType      string
	Size             int64
}

// UpdateInput carries optional changes for an existing document. A non-nil
// File replaces the stored object and invalidates the remote-sync state.
type UpdateInput struct {
	Title       *string
	Description *string
	Tags        *string
	File        io.Reader
	Filename    string
	ContentType string
	Size        int64
}

// DocumentService defines the use cases for handling documents.
type DocumentService interface {
	// Upload stores the content in object storage, saves metadata to the DB,
	// and rolls back the stored object if the DB save fails.
	Upload(ctx context.Context, r io.Reader, in UploadInput) (*model.Document, error)

	// List returns documents using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*DocumentListResult, error)

	// Get returns a single document by its ID.
	Get(ctx context.Context, id string) (*model.Document, error)

	// Update applies metadata changes and, optionally, a replacement file.
	// Replacing the file resets the answer-service sync state so the next
	// question triggers a re-upload.
	Update(ctx context.Context, id string, in UpdateInput) (*model.Document, error)

	// Delete removes a document by ID from both storage and repository.
	Delete(ctx context.Context, id string) error

	// ViewURL returns a time-limited download URL for the stored file.
	ViewURL(ctx context.Context, id string) (string, error)

	// Recommend returns up to three other documents ranked by tag overlap.
	Recommend(ctx context.Context, id string) ([]model.Document, error)
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	store storage.Storage
	repo  repository.DocumentRepository
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository) DocumentService {
	return &documentService{store: store, repo: repo}
}

func (s *documentService) Upload(ctx context.Context, r io.Reader, in UploadInput) (*model.Document, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	if strings.TrimSpace(in.Title) == "" || in.UserID == "" {
		return nil, fmt.Errorf("%w: title and user are required", ErrValidation)
	}
	ext := strings.ToLower(filepath.Ext(in.OriginalFilename))
	if _, ok := allowedExtensions[ext]; !ok {
		return nil, fmt.Errorf("%w: unsupported file type %q", ErrValidation, ext)
	}

	// Object key uses UUID + extension; the original name survives as metadata.
	genName := uuid.New().String() + ext
	key := filepath.ToSlash(filepath.Join("documents", genName))

	objInfo, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: in.ContentType,
		Metadata: map[string]string{
			"original-filename": in.OriginalFilename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	now := time.Now().UTC()
	doc := &model.Document{
		ID:            uuid.New().String(),
		UserID:        in.UserID,
		Title:         in.Title,
		Filename:      in.OriginalFilename,
		StoragePath:   objInfo.Key,
		Size:          objInfo.Size,
		ContentType:   objInfo.ContentType,
		Description:   in.Description,
		Tags:          in.Tags,
		UploadVersion: 1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

// List returns paginated documents without exposing repository types.
func (s *documentService) List(ctx context.Context, limit, offset int) (*DocumentListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}

// Get returns a document by ID.
func (s *documentService) Get(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

func (s *documentService) Update(ctx context.Context, id string, in UpdateInput) (*model.Document, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, fmt.Errorf("%w: title must not be empty", ErrValidation)
		}
		doc.Title = *in.Title
	}
	if in.Description != nil {
		doc.Description = in.Description
	}
	if in.Tags != nil {
		doc.Tags = in.Tags
	}

	if in.File != nil {
		ext := strings.ToLower(filepath.Ext(in.Filename))
		if _, ok := allowedExtensions[ext]; !ok {
			return nil, fmt.Errorf("%w: unsupported file type %q", ErrValidation, ext)
		}
		genName := uuid.New().String() + ext
		key := filepath.ToSlash(filepath.Join("documents", genName))
		objInfo, err := s.store.Put(ctx, key, in.File, storage.PutObjectOptions{
			Size:        in.Size,
			ContentType: in.ContentType,
			Metadata: map[string]string{
				"original-filename": in.Filename,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("upload to storage: %w", err)
		}

		oldKey := doc.StoragePath
		doc.Filename = in.Filename
		doc.StoragePath = objInfo.Key
		doc.Size = objInfo.Size
		doc.ContentType = objInfo.ContentType

		// The remote copy now refers to stale content; drop the handle and
		// expiry together so the next question forces a re-upload.
		doc.RemoteFileID = nil
		doc.RemoteURI = nil
		doc.ExpiresAt = nil

		if oldKey != "" && oldKey != objInfo.Key {
			// Best effort; an orphaned object is preferable to a failed update.
			_ = s.store.Delete(ctx, oldKey)
		}
	}

	doc.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, doc)
}

// Delete removes a document from storage, then deletes its record.
func (s *documentService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	// Delete from storage first; if this fails, keep DB row to avoid orphaned storage reference loss
	if err := s.store.Delete(ctx, doc.StoragePath); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	return s.repo.Delete(ctx, id)
}

// ViewURL returns a presigned download URL for a document's stored object.
func (s *documentService) ViewURL(ctx context.Context, id string) (string, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	u, err := s.store.PresignGet(ctx, doc.StoragePath, presignExpiry)
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}
	return u, nil
}
