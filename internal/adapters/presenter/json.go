package presenter

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/mikey/mail-semantic-search/internal/core"
	"github.com/mikey/mail-semantic-search/internal/utils"
)

// JSON writes results as a single JSON document for scripting
type JSON struct {
	out           io.Writer
	previewChars  int
	textProcessor *utils.TextProcessor
}

type jsonResult struct {
	ID      string  `json:"id"`
	Subject string  `json:"subject"`
	Preview string  `json:"preview"`
	Score   float64 `json:"score"`
	Date    string  `json:"date"`
}

type jsonDocument struct {
	Query      string       `json:"query"`
	Filter     string       `json:"filter"`
	Fetched    int          `json:"fetched"`
	Considered int          `json:"considered"`
	SearchedAt time.Time    `json:"searched_at"`
	Results    []jsonResult `json:"results"`
	Warning    string       `json:"warning,omitempty"`
}

// NewJSON creates a new JSON presenter writing to out
func NewJSON(out io.Writer, previewChars int, textProcessor *utils.TextProcessor) *JSON {
	if previewChars <= 0 {
		previewChars = DefaultPreviewChars
	}
	return &JSON{out: out, previewChars: previewChars, textProcessor: textProcessor}
}

// Present writes the results
func (j *JSON) Present(ctx context.Context, result *core.SearchResult) error {
	doc := jsonDocument{
		Query:      result.Query,
		Filter:     result.Filter,
		Fetched:    result.Fetched,
		Considered: result.Considered,
		SearchedAt: result.SearchedAt,
		Results:    make([]jsonResult, 0, len(result.Results)),
	}
	for _, r := range result.Results {
		doc.Results = append(doc.Results, jsonResult{
			ID:      r.Message.ID,
			Subject: r.Message.Subject,
			Preview: j.textProcessor.Preview(r.Message.Body, j.previewChars),
			Score:   r.Score,
			Date:    r.Message.Date.Format(core.DateLayout),
		})
	}
	return j.encode(doc)
}

// Warn writes an empty result carrying the warning
func (j *JSON) Warn(ctx context.Context, message string) error {
	return j.encode(jsonDocument{Results: []jsonResult{}, Warning: message})
}

func (j *JSON) encode(doc jsonDocument) error {
	enc := json.NewEncoder(j.out)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// Status is a no-op; the output stays a single document
func (j *JSON) Status(ctx context.Context, message string) error {
	return nil
}
