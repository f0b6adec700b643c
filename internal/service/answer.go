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

	"docqa/internal/gemini"
	"docqa/internal/model"
	"docqa/internal/repository"
	"docqa/internal/storage"
)

const (
	// defaultRemoteExpiry applies when the upload response omits an
	// expiration timestamp.
	defaultRemoteExpiry = 23 * time.Hour

	// answerFallback is returned when the generate response parses but
	// carries no answer text. Soft condition, not an error.
	answerFallback = "No response."

	promptPrefix = "Answer the following question using the uploaded file content:\n\n"
)

// AnswerService keeps the answer service's copy of a document fresh and
// forwards questions against it.
type AnswerService interface {
	// EnsureFresh guarantees a non-expired remote copy of the document
	// exists, re-uploading when the handle is missing or expired, and
	// returns the remote reference to use for queries. The sync-state write
	// is a compare-and-swap on upload_version; a lost race is retried once,
	// then reported as ErrConflict. doc is refreshed in place.
	EnsureFresh(ctx context.Context, doc *model.Document) (string, error)

	// Answer ensures freshness, then sends the question to the generation
	// endpoint and returns the extracted answer text.
	Answer(ctx context.Context, doc *model.Document, question string) (string, error)
}

type answerService struct {
	client gemini.Client
	store  storage.Storage
	docs   repository.DocumentRepository
	now    func() time.Time
}

// NewAnswerService constructs an AnswerService.
func NewAnswerService(client gemini.Client, store storage.Storage, docs repository.DocumentRepository) AnswerService {
	return &answerService{client: client, store: store, docs: docs, now: time.Now}
}

func (s *answerService) EnsureFresh(ctx context.Context, doc *model.Document) (string, error) {
	if doc == nil || doc.ID == "" {
		return "", ErrIDRequired
	}
	if s.isFresh(doc) {
		return remoteRef(doc), nil
	}

	// First attempt plus one retry after a lost compare-and-swap.
	for attempt := 0; attempt < 2; attempt++ {
		ref, ok, err := s.reupload(ctx, doc)
		if err != nil {
			return "", err
		}
		if ok {
			return ref, nil
		}

		// A concurrent writer advanced upload_version; re-read and
		// re-evaluate before uploading again.
		latest, err := s.docs.FindByID(ctx, doc.ID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return "", ErrNotFound
			}
			return "", err
		}
		*doc = *latest
		if s.isFresh(doc) {
			return remoteRef(doc), nil
		}
	}
	return "", ErrConflict
}

func (s *answerService) Answer(ctx context.Context, doc *model.Document, question string) (string, error) {
	ref, err := s.EnsureFresh(ctx, doc)
	if err != nil {
		return "", err
	}

	fileRef := gemini.FileRef{URI: ref, MimeType: doc.ContentType}
	if s.client.Transport() == gemini.TransportInline {
		data, err := s.readObject(ctx, doc.StoragePath)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrStorage, err)
		}
		fileRef.Data = data
	}

	text, err := s.client.Generate(ctx, promptPrefix+question, fileRef)
	if err != nil {
		if errors.Is(err, gemini.ErrNoAnswer) {
			return answerFallback, nil
		}
		return "", fmt.Errorf("%w: %w", ErrRemoteService, err)
	}
	return text, nil
}

// isFresh reports whether the cached remote reference is still usable.
// Expiry comparison is exact; there is no skew buffer.
func (s *answerService) isFresh(doc *model.Document) bool {
	return doc.RemoteFileID != nil && doc.ExpiresAt != nil && s.now().Before(*doc.ExpiresAt)
}

// reupload pushes the stored bytes to the answer service and applies the new
// sync state. The bool result is false when the conditional update lost to a
// concurrent writer; the document is left untouched in that case.
func (s *answerService) reupload(ctx context.Context, doc *model.Document) (string, bool, error) {
	data, err := s.readObject(ctx, doc.StoragePath)
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	version := doc.UploadVersion
	if version < 1 {
		version = 1
	}

	info, err := s.client.UploadFile(ctx, versionedFilename(doc, version), doc.ContentType, data)
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", ErrRemoteService, err)
	}

	expires := s.now().Add(defaultRemoteExpiry)
	if info.ExpirationTime != nil {
		expires = *info.ExpirationTime
	}
	var uri *string
	if info.URI != "" {
		u := info.URI
		uri = &u
	}

	ok, err := s.docs.UpdateRemoteSync(ctx, doc.ID, version, repository.RemoteSync{
		FileID:    info.Name,
		URI:       uri,
		ExpiresAt: expires,
	})
	if err != nil {
		return "", false, err
	}
	if !ok {
		return "", false, nil
	}

	fileID := info.Name
	doc.RemoteFileID = &fileID
	doc.RemoteURI = uri
	doc.UploadVersion = version + 1
	doc.ExpiresAt = &expires
	return remoteRef(doc), true, nil
}

func (s *answerService) readObject(ctx context.Context, key string) ([]byte, error) {
	rc, _, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// remoteRef picks the reference for generate calls: the remote URI when the
// service returned one, otherwise the opaque file handle.
func remoteRef(doc *model.Document) string {
	if doc.RemoteURI != nil && *doc.RemoteURI != "" {
		return *doc.RemoteURI
	}
	if doc.RemoteFileID != nil {
		return *doc.RemoteFileID
	}
	return ""
}

// versionedFilename derives "{base}_{version}{ext}" from the document title,
// falling back to the original filename's extension when the title has none.
func versionedFilename(doc *model.Document, version int) string {
	ext := filepath.Ext(doc.Title)
	base := strings.TrimSuffix(doc.Title, ext)
	if ext == "" {
		ext = filepath.Ext(doc.Filename)
	}
	return fmt.Sprintf("%s_%d%s", base, version, ext)
}
