package model

import "time"

// Question is a user question against a document. Answer stays nil until a
// successful answer-service call; afterwards it may be overwritten by the
// owner through update.
type Question struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	DocumentID string    `json:"document_id"`
	Question   string    `json:"question"`
	Answer     *string   `json:"answer,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
