package gmail

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/nalgeon/be"
	"go.uber.org/zap/zaptest"
	"golang.org/x/oauth2"
)

func tokenEndpoint(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.Form.Get("code") != "good-code" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"issued","refresh_token":"r","token_type":"Bearer","expires_in":3600}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func oauthConfig(tokenURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		Endpoint: oauth2.Endpoint{
			AuthURL:   "https://accounts.example.com/auth",
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
		Scopes: []string{"scope"},
	}
}

// redirectingBrowser simulates the consent screen by calling the redirect
// URI from the authorization URL with the given query mutation.
func redirectingBrowser(mutate func(q url.Values)) func(string) error {
	return func(authURL string) error {
		u, err := url.Parse(authURL)
		if err != nil {
			return err
		}
		q := u.Query()
		callback, err := url.Parse(q.Get("redirect_uri"))
		if err != nil {
			return err
		}

		values := url.Values{}
		values.Set("state", q.Get("state"))
		values.Set("code", "good-code")
		mutate(values)
		callback.RawQuery = values.Encode()

		go func() {
			resp, err := http.Get(callback.String())
			if err == nil {
				resp.Body.Close()
			}
		}()
		return nil
	}
}

func newTestAuthorizer(t *testing.T, browser func(string) error) (*LoopbackAuthorizer, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	a := NewLoopbackAuthorizer(5*time.Second, true, zaptest.NewLogger(t))
	a.browser = browser
	a.out = out
	return a, out
}

func TestLoopbackAuthorizer_Success(t *testing.T) {
	srv := tokenEndpoint(t)
	a, out := newTestAuthorizer(t, redirectingBrowser(func(url.Values) {}))

	token, err := a.Authorize(context.Background(), oauthConfig(srv.URL))
	be.Err(t, err, nil)
	be.Equal(t, token.AccessToken, "issued")
	be.Equal(t, token.RefreshToken, "r")

	printed := out.String()
	be.True(t, strings.Contains(printed, "https://accounts.example.com/auth"))
	be.True(t, strings.Contains(printed, "access_type=offline"))
	be.True(t, strings.Contains(printed, url.QueryEscape("http://127.0.0.1:")))
}

func TestLoopbackAuthorizer_IgnoresForeignState(t *testing.T) {
	srv := tokenEndpoint(t)
	genuine := redirectingBrowser(func(url.Values) {})
	statuses := make(chan int, 1)

	// A stray redirect arrives before the real one.
	a, _ := newTestAuthorizer(t, func(authURL string) error {
		u, err := url.Parse(authURL)
		if err != nil {
			return err
		}
		callback, err := url.Parse(u.Query().Get("redirect_uri"))
		if err != nil {
			return err
		}
		callback.RawQuery = url.Values{"state": {"forged"}, "code": {"stolen"}}.Encode()

		resp, err := http.Get(callback.String())
		if err != nil {
			return err
		}
		resp.Body.Close()
		statuses <- resp.StatusCode

		return genuine(authURL)
	})

	token, err := a.Authorize(context.Background(), oauthConfig(srv.URL))
	be.Err(t, err, nil)
	be.Equal(t, token.AccessToken, "issued")
	be.Equal(t, <-statuses, http.StatusBadRequest)
}

func TestLoopbackAuthorizer_OnlyForeignState(t *testing.T) {
	srv := tokenEndpoint(t)
	a, _ := newTestAuthorizer(t, redirectingBrowser(func(q url.Values) {
		q.Del("state")
	}))
	a.timeout = 200 * time.Millisecond

	_, err := a.Authorize(context.Background(), oauthConfig(srv.URL))
	be.Err(t, err, context.DeadlineExceeded)
}

func TestLoopbackAuthorizer_Denied(t *testing.T) {
	srv := tokenEndpoint(t)
	a, _ := newTestAuthorizer(t, redirectingBrowser(func(q url.Values) {
		q.Del("code")
		q.Set("error", "access_denied")
	}))

	_, err := a.Authorize(context.Background(), oauthConfig(srv.URL))
	be.Err(t, err, "access_denied")
}

func TestLoopbackAuthorizer_ExchangeFails(t *testing.T) {
	srv := tokenEndpoint(t)
	a, _ := newTestAuthorizer(t, redirectingBrowser(func(q url.Values) {
		q.Set("code", "bad-code")
	}))

	_, err := a.Authorize(context.Background(), oauthConfig(srv.URL))
	be.Err(t, err, "exchange")
}

func TestLoopbackAuthorizer_Cancelled(t *testing.T) {
	a, _ := newTestAuthorizer(t, func(string) error {
		return errors.New("no browser")
	})
	a.timeout = 50 * time.Millisecond

	_, err := a.Authorize(context.Background(), oauthConfig("http://127.0.0.1:1/token"))
	be.Err(t, err, context.DeadlineExceeded)
}
