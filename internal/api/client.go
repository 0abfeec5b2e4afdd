package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// CredentialStore is the single durable slot holding the bearer token.
// Implementations persist writes so a restart does not force re-login.
type CredentialStore interface {
	Get() string
	Set(token string)
	Clear()
}

// Client talks to the Feed-Fusion REST API. Every call goes through the
// authenticated executor: the stored credential is attached as a bearer
// header, a 401 triggers at most one refresh-and-retry cycle, and all other
// failures are classified and returned to the caller untouched.
type Client struct {
	baseURL string
	http    *http.Client
	creds   CredentialStore
	refresh singleflight.Group
	log     zerolog.Logger
}

func NewClient(baseURL string, creds CredentialStore, httpClient *http.Client, log zerolog.Logger) *Client {
	if httpClient == nil {
		// The refresh endpoint authenticates via the session cookie, so the
		// default client carries a jar.
		jar, _ := cookiejar.New(nil)
		httpClient = &http.Client{Timeout: 10 * time.Second, Jar: jar}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		creds:   creds,
		log:     log,
	}
}

// request describes one logical call. The body builder is invoked per
// attempt so a retried request never reuses a drained reader.
type request struct {
	method      string
	path        string
	contentType string
	body        func() io.Reader
	skipAuth    bool
}

func (c *Client) do(ctx context.Context, r request) (*http.Response, error) {
	// The retry budget starts at one refresh-and-retry cycle and is never
	// replenished, so a rejected refresh cannot loop.
	return c.doWithBudget(ctx, r, 1)
}

func (c *Client) doWithBudget(ctx context.Context, r request, retryBudget int) (*http.Response, error) {
	req, err := c.newRequest(ctx, r)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, networkError(r.method+" "+r.path, err)
	}

	if resp.StatusCode == http.StatusUnauthorized && !r.skipAuth && retryBudget > 0 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		c.log.Debug().Str("path", r.path).Msg("credential rejected, refreshing")
		if err := c.refreshCredential(ctx); err != nil {
			return nil, err
		}
		return c.doWithBudget(ctx, r, retryBudget-1)
	}
	return resp, nil
}

func (c *Client) newRequest(ctx context.Context, r request) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, bodyReader(r))
	if err != nil {
		return nil, networkError(r.method+" "+r.path, err)
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	req.Header.Set("Accept", "application/json")
	if !r.skipAuth {
		if token := c.creds.Get(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

func bodyReader(r request) io.Reader {
	if r.body == nil {
		return nil
	}
	return r.body()
}

// refreshCredential exchanges the session cookie for a fresh access token.
// Concurrent callers are coalesced into a single refresh request; each still
// observes the shared outcome. A rejected refresh clears the credential slot.
func (c *Client) refreshCredential(ctx context.Context) error {
	_, err, _ := c.refresh.Do("refresh", func() (any, error) {
		resp, err := c.doWithBudget(ctx, request{
			method:   http.MethodGet,
			path:     "/auth/refresh/",
			skipAuth: true,
		}, 0)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			c.creds.Clear()
			apiErr := errorFromResponse(resp)
			apiErr.Kind = KindUnauthenticated
			c.log.Debug().Int("status", resp.StatusCode).Msg("refresh rejected")
			return nil, apiErr
		}

		var pair TokenPair
		if err := json.NewDecoder(resp.Body).Decode(&pair); err != nil || pair.AccessToken == "" {
			c.creds.Clear()
			return nil, &Error{Kind: KindUnauthenticated, Message: "session expired"}
		}
		c.creds.Set(pair.AccessToken)
		c.log.Debug().Msg("credential refreshed")
		return nil, nil
	})
	return err
}

// doJSON executes the request and decodes a 2xx body into out. Non-2xx
// responses become classified errors; business-level payloads are never
// interpreted here.
func (c *Client) doJSON(ctx context.Context, r request, out any) error {
	resp, err := c.do(ctx, r)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errorFromResponse(resp)
	}
	if out == nil {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Kind: KindServerError, Message: "malformed server response", cause: err}
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, request{method: http.MethodGet, path: path}, out)
}
