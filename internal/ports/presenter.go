package ports

import (
	"context"

	"github.com/mikey/mail-semantic-search/internal/core"
)

// Presenter defines the interface for delivering search results
type Presenter interface {
	// Present renders or delivers the ranked results
	Present(ctx context.Context, result *core.SearchResult) error

	// Warn reports a non-fatal condition such as an empty result
	Warn(ctx context.Context, message string) error

	// Status reports progress while a search runs
	Status(ctx context.Context, message string) error
}

// Inputs holds the user-supplied search inputs as entered
type Inputs struct {
	Query string
	Start string
	End   string
	Label string
}

// Prompter collects search inputs that were not supplied up front
type Prompter interface {
	// Complete fills in the missing fields of in
	Complete(ctx context.Context, in *Inputs) error
}
