package service

import "errors"

// Sentinel errors shared by the service layer. Handlers translate these into
// HTTP statuses; services never format user-facing messages.
var (
	ErrIDRequired = errors.New("id is required")
	ErrReaderNil  = errors.New("reader is nil")

	// ErrNotFound reports a missing document, question or user.
	ErrNotFound = errors.New("resource not found")
	// ErrValidation reports malformed or missing input.
	ErrValidation = errors.New("invalid input")
	// ErrStorage reports that a stored object could not be read.
	ErrStorage = errors.New("stored file unavailable")
	// ErrRemoteService reports a failed or malformed answer-service exchange.
	ErrRemoteService = errors.New("answer service request failed")
	// ErrConflict reports a lost compare-and-swap race after the single retry.
	ErrConflict = errors.New("concurrent update conflict")
	// ErrUnauthorized reports bad credentials or a missing identity.
	ErrUnauthorized = errors.New("invalid credentials")
	// ErrForbidden reports an operation on a resource the caller does not own.
	ErrForbidden = errors.New("operation not allowed")
)
