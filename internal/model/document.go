package model

import "time"

// Document represents an uploaded file and its remote-sync state at the
// answer service. This is a pure domain model with no database-specific
// dependencies or tags; it is shared across layers (HTTP, service, storage).
//
// Invariant: RemoteFileID and ExpiresAt are either both nil or both set.
// UploadVersion only increases, by exactly one per successful re-upload.
type Document struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	Title       string  `json:"title"`
	Filename    string  `json:"filename"`
	StoragePath string  `json:"storage_path"`
	Size        int64   `json:"size"`
	ContentType string  `json:"content_type"`
	Description *string `json:"description,omitempty"`
	// Tags is a comma-separated tag list, e.g. "ai, nlp". Nil when untagged.
	Tags *string `json:"tags,omitempty"`

	RemoteFileID  *string    `json:"remote_file_id,omitempty"`
	RemoteURI     *string    `json:"remote_uri,omitempty"`
	UploadVersion int        `json:"upload_version"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
