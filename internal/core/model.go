package core

import (
	"time"
)

// Message represents an email message fetched from the mail provider
type Message struct {
	ID      string
	Subject string
	Body    string
	Date    time.Time
}

// Text returns the text that is embedded for the message
func (m *Message) Text() string {
	return m.Subject + " " + m.Body
}

// FilterSpec holds the user-selected date range and label.
// Start and End are calendar dates; End is inclusive.
type FilterSpec struct {
	Start time.Time
	End   time.Time
	Label string
}

// Vector is an embedding produced by an Embedder
type Vector []float32

// SearchRequest is the input of a single search run
type SearchRequest struct {
	Query  string
	Filter FilterSpec
}

// RankedMessage pairs a message with its similarity to the query
type RankedMessage struct {
	Message *Message
	Score   float64
}

// SearchResult represents the outcome of a search run
type SearchResult struct {
	Query      string
	Filter     string
	Fetched    int
	Considered int
	Results    []RankedMessage
	SearchedAt time.Time
}
