package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Package gemini contains the outbound client for the generative-language
// answer service: media upload plus content generation against a previously
// uploaded file.

// TransportMode selects how file content is attached to generate requests.
type TransportMode string

const (
	// TransportFileRef references the uploaded copy by URI and mime type.
	TransportFileRef TransportMode = "file-ref"
	// TransportInline embeds the file bytes base64-encoded in the request body.
	TransportInline TransportMode = "inline"
)

// ParseTransportMode validates a configured transport mode string.
func ParseTransportMode(s string) (TransportMode, error) {
	switch TransportMode(strings.TrimSpace(s)) {
	case TransportFileRef, "":
		return TransportFileRef, nil
	case TransportInline:
		return TransportInline, nil
	default:
		return "", fmt.Errorf("unsupported gemini transport mode: %q", s)
	}
}

// FileInfo describes an uploaded file at the answer service.
// ExpirationTime is nil when the service omitted it.
type FileInfo struct {
	Name           string
	URI            string
	ExpirationTime *time.Time
}

// FileRef carries the file reference for a generate call. URI is used in
// file-ref mode, Data in inline mode; MimeType applies to both.
type FileRef struct {
	URI      string
	MimeType string
	Data     []byte
}

// ErrNoAnswer reports a generate response that parsed but carried no text
// part. Callers treat it as a soft condition, not a transport failure.
var ErrNoAnswer = errors.New("generate response contains no answer text")

// StatusError is a non-2xx response from the answer service.
type StatusError struct {
	Operation  string
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if strings.TrimSpace(e.Body) == "" {
		return fmt.Sprintf("gemini %s status: %s", e.Operation, e.Status)
	}
	return fmt.Sprintf("gemini %s status: %s: %s", e.Operation, e.Status, strings.TrimSpace(e.Body))
}

// Client is the answer-service API surface used by services.
type Client interface {
	// UploadFile submits file bytes to the media upload endpoint and returns
	// the remote handle. A response without a file name is an error.
	UploadFile(ctx context.Context, filename, contentType string, data []byte) (*FileInfo, error)
	// Generate sends a prompt plus file reference to the generation endpoint
	// and returns the first candidate's text. Returns ErrNoAnswer when the
	// response parses but holds no text.
	Generate(ctx context.Context, prompt string, ref FileRef) (string, error)
	// Transport reports the configured file-reference transport mode.
	Transport() TransportMode
}
