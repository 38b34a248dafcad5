package gmail

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mikey/mail-semantic-search/internal/config"
	"github.com/mikey/mail-semantic-search/internal/core"
	"go.uber.org/zap"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// Session is an authenticated Gmail API handle
type Session struct {
	service *gmailapi.Service
	userID  string
}

// Account returns the Gmail user the session acts for
func (s *Session) Account() string {
	return s.userID
}

// Client is an implementation of the MailClient interface using the Gmail API
type Client struct {
	cfg           config.GmailConfig
	store         core.CredentialStore
	credentialKey string
	authorizer    Authorizer
	logger        *zap.Logger
	options       []option.ClientOption
}

// ClientOption customizes a Client
type ClientOption func(*Client)

// WithServiceOptions appends options used when creating the Gmail service
func WithServiceOptions(opts ...option.ClientOption) ClientOption {
	return func(c *Client) {
		c.options = append(c.options, opts...)
	}
}

// WithAuthorizer replaces the interactive authorization flow
func WithAuthorizer(authorizer Authorizer) ClientOption {
	return func(c *Client) {
		c.authorizer = authorizer
	}
}

// NewClient creates a new Gmail client
func NewClient(
	cfg config.GmailConfig,
	store core.CredentialStore,
	credentialKey string,
	logger *zap.Logger,
	opts ...ClientOption,
) *Client {
	if cfg.UserID == "" {
		cfg.UserID = "me"
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.MaxPartDepth < 0 {
		cfg.MaxPartDepth = DefaultMaxPartDepth
	}

	c := &Client{
		cfg:           cfg,
		store:         store,
		credentialKey: credentialKey,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.authorizer == nil {
		c.authorizer = NewLoopbackAuthorizer(cfg.AuthTimeout, cfg.OpenBrowser, logger)
	}
	return c
}

// Search lists the IDs of messages matching filter
func (c *Client) Search(ctx context.Context, session core.Session, filter string, maxResults int64) ([]string, error) {
	s, err := c.session(session)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()

	resp, err := s.service.Users.Messages.List(s.userID).
		Q(filter).
		MaxResults(maxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, &core.FetchError{Op: "list", Err: err}
	}

	ids := make([]string, 0, len(resp.Messages))
	for _, msg := range resp.Messages {
		if msg != nil && msg.Id != "" {
			ids = append(ids, msg.Id)
		}
	}

	c.logger.Debug("Listed messages",
		zap.String("filter", filter),
		zap.Int64("max_results", maxResults),
		zap.Int("count", len(ids)))

	return ids, nil
}

// FetchFull retrieves a message and normalizes it
func (c *Client) FetchFull(ctx context.Context, session core.Session, id string) (*core.Message, error) {
	s, err := c.session(session)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()

	msg, err := s.service.Users.Messages.Get(s.userID, id).
		Format("full").
		Context(ctx).
		Do()
	if err != nil {
		return nil, &core.FetchError{Op: "get", MessageID: id, Err: err}
	}

	return c.toMessage(msg), nil
}

// toMessage converts a Gmail message into a core message
func (c *Client) toMessage(msg *gmailapi.Message) *core.Message {
	var subject string
	if msg.Payload != nil {
		subject = headerValue(msg.Payload.Headers, "Subject")
	}

	return &core.Message{
		ID:      msg.Id,
		Subject: subject,
		Body:    ExtractText(NewPart(msg.Payload, c.cfg.MaxPartDepth), c.cfg.MaxPartDepth),
		Date:    time.UnixMilli(msg.InternalDate),
	}
}

func (c *Client) session(session core.Session) (*Session, error) {
	s, ok := session.(*Session)
	if !ok || s == nil || s.service == nil {
		return nil, &core.FetchError{Op: "session", Err: fmt.Errorf("unexpected session type %T", session)}
	}
	return s, nil
}

// headerValue returns the first header named name, ignoring case
func headerValue(headers []*gmailapi.MessagePartHeader, name string) string {
	for _, h := range headers {
		if h != nil && strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}
