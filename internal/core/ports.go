package core

import (
	"context"
)

// Session is an authenticated handle returned by MailClient.Authenticate
type Session interface {
	// Account returns the mailbox the session operates on
	Account() string
}

// MailClient defines the interface for interacting with the mail provider
type MailClient interface {
	// Authenticate returns a session, reusing a stored credential when possible
	Authenticate(ctx context.Context) (Session, error)

	// Search returns the IDs of messages matching the provider filter string
	Search(ctx context.Context, session Session, filter string, maxResults int64) ([]string, error)

	// FetchFull retrieves a single message with its subject, body and date
	FetchFull(ctx context.Context, session Session, id string) (*Message, error)
}

// Embedder defines the interface for embedding models
type Embedder interface {
	// Encode maps every text to a vector; all vectors share one dimension
	Encode(ctx context.Context, texts []string) ([]Vector, error)
}

// CredentialStore persists opaque credential blobs
type CredentialStore interface {
	// Load returns the blob stored under key or ErrCredentialNotFound
	Load(ctx context.Context, key string) ([]byte, error)

	// Save stores a blob under key, replacing any previous value
	Save(ctx context.Context, key string, data []byte) error

	// Delete removes the blob stored under key
	Delete(ctx context.Context, key string) error
}
