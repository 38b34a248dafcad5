package core

import (
	"context"
	"fmt"
	"time"

	"github.com/mikey/mail-semantic-search/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SearchOptions tunes a SearchService
type SearchOptions struct {
	TopK             int
	MaxResults       int64
	FetchConcurrency int
	MaxInputChars    int
	Location         *time.Location
}

// SearchService is the core service for semantic mail search
type SearchService struct {
	mail          MailClient
	embedder      Embedder
	textProcessor *utils.TextProcessor
	logger        *zap.Logger
	opts          SearchOptions
}

// NewSearchService creates a new search service
func NewSearchService(
	mail MailClient,
	embedder Embedder,
	textProcessor *utils.TextProcessor,
	logger *zap.Logger,
	opts SearchOptions,
) *SearchService {
	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = 100
	}
	if opts.FetchConcurrency <= 0 {
		opts.FetchConcurrency = 1
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}

	return &SearchService{
		mail:          mail,
		embedder:      embedder,
		textProcessor: textProcessor,
		logger:        logger,
		opts:          opts,
	}
}

// Search runs the pipeline: build the filter, fetch, re-filter by date,
// embed and rank. It returns ErrNoMessages before any embedding call when
// nothing matched.
func (s *SearchService) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	filter := BuildQuery(req.Filter)
	s.logger.Debug("Built provider filter", zap.String("filter", filter))

	session, err := s.mail.Authenticate(ctx)
	if err != nil {
		if !IsAuthError(err) {
			err = &AuthError{Op: "authenticate", Err: err}
		}
		return nil, err
	}

	ids, err := s.mail.Search(ctx, session, filter, s.opts.MaxResults)
	if err != nil {
		if !IsFetchError(err) {
			err = &FetchError{Op: "search", Err: err}
		}
		return nil, err
	}
	s.logger.Info("Search returned messages",
		zap.String("account", session.Account()),
		zap.Int("count", len(ids)))

	if len(ids) == 0 {
		return nil, ErrNoMessages
	}

	messages, err := s.fetchAll(ctx, session, ids)
	if err != nil {
		return nil, err
	}

	considered := make([]*Message, 0, len(messages))
	for _, msg := range messages {
		if req.Filter.InRange(msg.Date, s.opts.Location) {
			// Dates are shown in the zone the range was checked in.
			kept := *msg
			kept.Date = msg.Date.In(s.opts.Location)
			considered = append(considered, &kept)
			continue
		}
		s.logger.Debug("Dropping message outside date range",
			zap.String("id", msg.ID),
			zap.Time("date", msg.Date))
	}
	if len(considered) == 0 {
		return nil, ErrNoMessages
	}

	texts := make([]string, len(considered))
	for i, msg := range considered {
		texts[i] = s.textProcessor.PrepareForEmbedding(msg.Text(), s.opts.MaxInputChars)
	}

	docVectors, err := s.embedder.Encode(ctx, texts)
	if err != nil {
		return nil, err
	}
	queryVectors, err := s.embedder.Encode(ctx, []string{
		s.textProcessor.PrepareForEmbedding(req.Query, s.opts.MaxInputChars),
	})
	if err != nil {
		return nil, err
	}
	if err := checkDimensions(queryVectors, docVectors, len(texts)); err != nil {
		return nil, err
	}

	scores := Rank(queryVectors[0], docVectors, s.opts.TopK)
	results := make([]RankedMessage, len(scores))
	for i, score := range scores {
		results[i] = RankedMessage{
			Message: considered[score.Index],
			Score:   score.Score,
		}
	}

	return &SearchResult{
		Query:      req.Query,
		Filter:     filter,
		Fetched:    len(messages),
		Considered: len(considered),
		Results:    results,
		SearchedAt: time.Now(),
	}, nil
}

// fetchAll retrieves every message, keeping the order of ids
func (s *SearchService) fetchAll(ctx context.Context, session Session, ids []string) ([]*Message, error) {
	messages := make([]*Message, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.FetchConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			msg, err := s.mail.FetchFull(gctx, session, id)
			if err != nil {
				if !IsFetchError(err) {
					err = &FetchError{Op: "get", MessageID: id, Err: err}
				}
				return err
			}
			messages[i] = msg
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return messages, nil
}

// checkDimensions verifies that every vector shares the query's dimension
func checkDimensions(query, docs []Vector, want int) error {
	if len(query) != 1 {
		return &EmbeddingError{Err: fmt.Errorf("expected 1 query vector, got %d", len(query))}
	}
	if len(docs) != want {
		return &EmbeddingError{Err: fmt.Errorf("expected %d document vectors, got %d", want, len(docs))}
	}

	dim := len(query[0])
	for i, doc := range docs {
		if len(doc) != dim {
			return &EmbeddingError{
				Err: fmt.Errorf("document %d has dimension %d, query has %d", i, len(doc), dim),
			}
		}
	}
	return nil
}
