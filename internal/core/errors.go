package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNoMessages is returned when no message survives the search and the
	// local date filter. It is a warning, not a failure.
	ErrNoMessages = errors.New("no emails found")

	// ErrCredentialNotFound is returned by a CredentialStore for unknown keys
	ErrCredentialNotFound = errors.New("credential not found")

	// ErrInvalidFilter is returned when the filter inputs cannot be used
	ErrInvalidFilter = errors.New("invalid filter")
)

// AuthError indicates that authorization with the mail provider failed or
// was cancelled.
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error (%s): %v", e.Op, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// FetchError indicates a network or provider failure while searching or
// retrieving messages.
type FetchError struct {
	Op        string
	MessageID string
	Err       error
}

func (e *FetchError) Error() string {
	if e.MessageID != "" {
		return fmt.Sprintf("fetch error (%s %s): %v", e.Op, e.MessageID, e.Err)
	}
	return fmt.Sprintf("fetch error (%s): %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsFetchError reports whether err (or any error in its chain) is a FetchError
func IsFetchError(err error) bool {
	var fetchErr *FetchError
	return errors.As(err, &fetchErr)
}

// EmbeddingError indicates that the embedding model failed or returned
// unusable vectors.
type EmbeddingError struct {
	Provider string
	Err      error
}

func (e *EmbeddingError) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("embedding error: %v", e.Err)
	}
	return fmt.Sprintf("embedding error (%s): %v", e.Provider, e.Err)
}

func (e *EmbeddingError) Unwrap() error {
	return e.Err
}
