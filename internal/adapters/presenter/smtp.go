package presenter

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/google/uuid"
	"github.com/mikey/mail-semantic-search/internal/config"
	"github.com/mikey/mail-semantic-search/internal/core"
	"github.com/mikey/mail-semantic-search/internal/utils"
	"go.uber.org/zap"
)

// SMTP mails the ranked results as a plain-text digest
type SMTP struct {
	cfg           config.SMTPConfig
	previewChars  int
	tlsConfig     *tls.Config
	textProcessor *utils.TextProcessor
	logger        *zap.Logger
}

// NewSMTP creates a new SMTP digest presenter
func NewSMTP(cfg config.SMTPConfig, previewChars int, textProcessor *utils.TextProcessor, logger *zap.Logger) (*SMTP, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("smtp address is required")
	}
	if cfg.From == "" || len(cfg.To) == 0 {
		return nil, fmt.Errorf("smtp sender and at least one recipient are required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if previewChars <= 0 {
		previewChars = DefaultPreviewChars
	}

	host, _, err := net.SplitHostPort(cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("invalid smtp address %q: %w", cfg.Address, err)
	}

	return &SMTP{
		cfg:           cfg,
		previewChars:  previewChars,
		tlsConfig:     &tls.Config{ServerName: host},
		textProcessor: textProcessor,
		logger:        logger,
	}, nil
}

// Present builds the digest and delivers it
func (s *SMTP) Present(ctx context.Context, result *core.SearchResult) error {
	msg, err := s.compose(result)
	if err != nil {
		return err
	}
	if err := s.send(ctx, msg); err != nil {
		return err
	}

	s.logger.Info("Search digest sent",
		zap.String("server", s.cfg.Address),
		zap.Strings("recipients", s.cfg.To),
		zap.Int("results", len(result.Results)))
	return nil
}

// Warn logs the warning; no digest is mailed for an empty result
func (s *SMTP) Warn(ctx context.Context, message string) error {
	s.logger.Warn(message)
	return nil
}

// Status logs progress
func (s *SMTP) Status(ctx context.Context, message string) error {
	s.logger.Info(message)
	return nil
}

// compose renders the digest as an RFC 5322 message
func (s *SMTP) compose(result *core.SearchResult) ([]byte, error) {
	from, err := mail.ParseAddress(s.cfg.From)
	if err != nil {
		return nil, fmt.Errorf("invalid smtp sender: %w", err)
	}
	to := make([]*mail.Address, 0, len(s.cfg.To))
	for _, addr := range s.cfg.To {
		parsed, err := mail.ParseAddress(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid smtp recipient %q: %w", addr, err)
		}
		to = append(to, parsed)
	}

	var h mail.Header
	h.SetDate(result.SearchedAt)
	h.SetAddressList("From", []*mail.Address{from})
	h.SetAddressList("To", to)
	h.SetSubject(fmt.Sprintf("Mail search: %s", result.Query))
	h.SetMessageID(uuid.NewString() + "@" + domainOf(from.Address))
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	h.Set("Content-Transfer-Encoding", "quoted-printable")

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("failed to create message writer: %w", err)
	}
	if _, err := io.WriteString(w, s.digest(result)); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to write message body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish message: %w", err)
	}

	return buf.Bytes(), nil
}

func (s *SMTP) digest(result *core.SearchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Query: %s\n", result.Query)
	fmt.Fprintf(&b, "Filter: %s\n", result.Filter)
	fmt.Fprintf(&b, "Matched %d of %d fetched messages\n", result.Considered, result.Fetched)

	for _, r := range result.Results {
		b.WriteString("\n" + separator + "\n")
		fmt.Fprintf(&b, "Subject: %s\n", r.Message.Subject)
		b.WriteString(s.textProcessor.Preview(r.Message.Body, s.previewChars))
		fmt.Fprintf(&b, "\nSimilarity Score: %.2f\n", r.Score)
		fmt.Fprintf(&b, "Date: %s\n", r.Message.Date.Format(core.DateLayout))
	}
	return b.String()
}

// send delivers msg with go-smtp
func (s *SMTP) send(ctx context.Context, msg []byte) error {
	dialer := net.Dialer{Timeout: s.cfg.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", s.cfg.Address)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	if err := conn.SetDeadline(time.Now().Add(s.cfg.Timeout)); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}
	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(s.tlsConfig); err != nil {
			return fmt.Errorf("STARTTLS failed: %w", err)
		}
	}

	if s.cfg.Username != "" {
		if _, secure := c.TLSConnectionState(); !secure && !isLoopback(s.cfg.Address) {
			return errors.New("refusing to send SMTP credentials over an unencrypted connection")
		}
		auth := sasl.NewPlainClient("", s.cfg.Username, s.cfg.Password)
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("SMTP auth failed: %w", err)
		}
	}

	sender, err := mail.ParseAddress(s.cfg.From)
	if err != nil {
		return fmt.Errorf("invalid smtp sender: %w", err)
	}
	if err := c.Mail(sender.Address, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}
	for _, addr := range s.cfg.To {
		rcpt, err := mail.ParseAddress(addr)
		if err != nil {
			return fmt.Errorf("invalid smtp recipient %q: %w", addr, err)
		}
		if err := c.Rcpt(rcpt.Address, nil); err != nil {
			return fmt.Errorf("RCPT TO %s failed: %w", rcpt.Address, err)
		}
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}
	if _, err := wc.Write(msg); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send message data: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		s.logger.Warn("QUIT command failed", zap.Error(err))
	}
	return nil
}

func domainOf(address string) string {
	if i := strings.LastIndex(address, "@"); i >= 0 && i < len(address)-1 {
		return address[i+1:]
	}
	return "localhost"
}

// isLoopback reports whether address points at this machine
func isLoopback(address string) bool {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		host = address
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
