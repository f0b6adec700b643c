package repository

import (
	"context"
	"time"

	"docqa/internal/model"
)

// RemoteSync carries the remote-sync fields written after a successful
// upload to the answer service.
type RemoteSync struct {
	FileID    string
	URI       *string
	ExpiresAt time.Time
}

// DocumentRepository defines data access for documents using SQL queries only.
// No business logic here — strictly persistence operations.
type DocumentRepository interface {
	// Create inserts a new document record and returns the stored row.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// List returns a paginated list of documents and total rows count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Document], error)

	// ListTagged returns all documents with a non-null tag string, excluding
	// excludeID, in stable retrieval order (created_at, id).
	ListTagged(ctx context.Context, excludeID string) ([]model.Document, error)

	// Update writes the mutable fields of an existing document (title,
	// description, tags, file and remote-sync columns) and returns the row.
	Update(ctx context.Context, doc *model.Document) (*model.Document, error)

	// UpdateRemoteSync conditionally applies remote-sync state: it matches on
	// the current upload_version (compare-and-swap) and, when matched, sets
	// remote_file_id, remote_uri, expires_at and increments upload_version by
	// one. Returns false when the version did not match (concurrent writer).
	UpdateRemoteSync(ctx context.Context, id string, expectedVersion int, sync RemoteSync) (bool, error)

	// Delete removes a document by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error
}
