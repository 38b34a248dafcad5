package gmail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/mikey/mail-semantic-search/internal/core"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// Authorizer runs an interactive authorization flow
type Authorizer interface {
	Authorize(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error)
}

// Authenticate returns a Gmail session. A stored credential is reused when
// it is still valid or can be refreshed; otherwise the interactive flow runs
// and its token is persisted.
func (c *Client) Authenticate(ctx context.Context) (core.Session, error) {
	oauthCfg, identityErr := c.clientIdentity()

	ts := c.storedTokenSource(ctx, oauthCfg)
	if ts == nil {
		if identityErr != nil {
			return nil, &core.AuthError{Op: "client identity", Err: identityErr}
		}

		c.logger.Info("No usable stored credential, starting authorization flow")
		token, err := c.authorizer.Authorize(ctx, oauthCfg)
		if err != nil {
			return nil, &core.AuthError{Op: "authorize", Err: err}
		}
		c.saveToken(ctx, token)
		ts = oauthCfg.TokenSource(ctx, token)
	}

	opts := append([]option.ClientOption{option.WithHTTPClient(oauth2.NewClient(ctx, ts))}, c.options...)
	service, err := gmailapi.NewService(ctx, opts...)
	if err != nil {
		return nil, &core.AuthError{Op: "create service", Err: err}
	}

	return &Session{service: service, userID: c.cfg.UserID}, nil
}

// clientIdentity reads the installed-application identity file
func (c *Client) clientIdentity() (*oauth2.Config, error) {
	data, err := os.ReadFile(c.cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read client identity file: %w", err)
	}

	cfg, err := google.ConfigFromJSON(data, gmailapi.GmailReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse client identity file: %w", err)
	}
	return cfg, nil
}

// storedTokenSource returns a token source for the stored credential, or
// nil when there is none or it can no longer be used.
func (c *Client) storedTokenSource(ctx context.Context, oauthCfg *oauth2.Config) oauth2.TokenSource {
	data, err := c.store.Load(ctx, c.credentialKey)
	if err != nil {
		if !errors.Is(err, core.ErrCredentialNotFound) {
			c.logger.Warn("Failed to load stored credential", zap.Error(err))
		}
		return nil
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		c.logger.Warn("Stored credential is corrupt", zap.Error(err))
		return nil
	}

	var ts oauth2.TokenSource
	switch {
	case oauthCfg != nil:
		ts = oauthCfg.TokenSource(ctx, &token)
	case token.Valid():
		ts = oauth2.StaticTokenSource(&token)
	default:
		c.logger.Warn("Stored credential expired and no client identity is available to refresh it")
		return nil
	}

	fresh, err := ts.Token()
	if err != nil {
		c.logger.Warn("Stored credential was rejected", zap.Error(err))
		return nil
	}
	if fresh.AccessToken != token.AccessToken {
		c.logger.Debug("Stored credential refreshed")
		c.saveToken(ctx, fresh)
	}

	return oauth2.ReuseTokenSource(fresh, ts)
}

// saveToken persists token; failures only cost a future re-authorization
func (c *Client) saveToken(ctx context.Context, token *oauth2.Token) {
	data, err := json.Marshal(token)
	if err != nil {
		c.logger.Error("Failed to encode credential", zap.Error(err))
		return
	}
	if err := c.store.Save(ctx, c.credentialKey, data); err != nil {
		c.logger.Error("Failed to persist credential", zap.Error(err))
	}
}

// LoopbackAuthorizer runs the installed-app flow with a redirect to a
// temporary HTTP listener on 127.0.0.1.
type LoopbackAuthorizer struct {
	timeout     time.Duration
	openBrowser bool
	browser     func(url string) error
	out         io.Writer
	logger      *zap.Logger
}

// NewLoopbackAuthorizer creates a new loopback authorizer
func NewLoopbackAuthorizer(timeout time.Duration, openBrowser bool, logger *zap.Logger) *LoopbackAuthorizer {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &LoopbackAuthorizer{
		timeout:     timeout,
		openBrowser: openBrowser,
		browser:     openURL,
		out:         os.Stderr,
		logger:      logger,
	}
}

type callbackResult struct {
	code string
	err  error
}

// Authorize prints the consent URL, waits for the redirect and exchanges
// the code for a token.
func (a *LoopbackAuthorizer) Authorize(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("failed to start callback listener: %w", err)
	}

	flowCfg := *cfg
	flowCfg.RedirectURL = fmt.Sprintf("http://%s/callback", listener.Addr().String())
	state := uuid.NewString()

	results := make(chan callbackResult, 1)
	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if query.Get("state") != state {
			// Not our redirect; keep waiting for the real one.
			a.logger.Warn("Ignoring callback with unexpected state", zap.String("remote", r.RemoteAddr))
			http.Error(w, "state mismatch in callback", http.StatusBadRequest)
			return
		}

		var res callbackResult
		switch {
		case query.Get("error") != "":
			res.err = fmt.Errorf("authorization denied: %s", query.Get("error"))
		case query.Get("code") == "":
			res.err = errors.New("no code in callback")
		default:
			res.code = query.Get("code")
		}

		if res.err != nil {
			http.Error(w, res.err.Error(), http.StatusBadRequest)
		} else {
			fmt.Fprintln(w, "Authorization complete. You can close this window.")
		}

		select {
		case results <- res:
		default:
		}
	})

	server := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			a.logger.Error("Callback server error", zap.Error(err))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	authURL := flowCfg.AuthCodeURL(state, oauth2.AccessTypeOffline)
	fmt.Fprintf(a.out, "Open this URL in your browser to authorize read-only Gmail access:\n%s\n", authURL)
	if a.openBrowser {
		if err := a.browser(authURL); err != nil {
			a.logger.Warn("Could not open browser automatically", zap.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	select {
	case res := <-results:
		if res.err != nil {
			return nil, res.err
		}
		token, err := flowCfg.Exchange(ctx, res.code)
		if err != nil {
			return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
		}
		return token, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("authorization cancelled: %w", ctx.Err())
	}
}

// openURL opens url in the default browser
func openURL(url string) error {
	switch runtime.GOOS {
	case "linux", "freebsd", "openbsd":
		return exec.Command("xdg-open", url).Start()
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return fmt.Errorf("unsupported platform %s", runtime.GOOS)
	}
}
