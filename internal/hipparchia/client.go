// Package hipparchia is the HTTP client for a Hipparchia server. Every call is
// a GET returning JSON (or plain text for the port lookup); the session is
// carried by a cookie held in the client's jar.
package hipparchia

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/net/publicsuffix"
)

// ErrStatus is wrapped by every error caused by a non-2xx response.
var ErrStatus = errors.New("unexpected status")

const (
	defaultCacheTTL = 2 * time.Minute
	confirmPrefix   = "/search/confirm/"
)

// Client talks to one Hipparchia server.
type Client struct {
	base *url.URL
	http *http.Client
	jar  http.CookieJar
	aux  *cache.Cache
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the transport. The client's jar is attached when the
// supplied client has none.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithCacheTTL sets how long auxiliary lookups are reused.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.aux = cache.New(ttl, 2*ttl)
	}
}

// New returns a client for the server at rawURL.
func New(rawURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return nil, errors.New("server url is required")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	base, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("server url %q has no host", rawURL)
	}
	base.Path = strings.TrimRight(base.Path, "/")
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	c := &Client{
		base: base,
		http: &http.Client{},
		jar:  jar,
		aux:  cache.New(defaultCacheTTL, 2*defaultCacheTTL),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http.Jar == nil {
		c.http.Jar = jar
	} else {
		c.jar = c.http.Jar
	}
	return c, nil
}

// BaseURL returns the server root.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Host returns the server hostname without a port.
func (c *Client) Host() string {
	return c.base.Hostname()
}

// CookiesEnabled reports whether the jar currently holds a session cookie for
// the server. It is meaningful only after at least one request.
func (c *Client) CookiesEnabled() bool {
	return len(c.jar.Cookies(c.base)) > 0
}

func (c *Client) endpoint(rawQuery string, segments ...string) string {
	u := *c.base
	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, u.Path)
	for _, seg := range segments {
		parts = append(parts, strings.Trim(seg, "/"))
	}
	u.Path = strings.Join(parts, "/")
	u.RawPath = ""
	u.RawQuery = rawQuery
	return u.String()
}

func (c *Client) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", target, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", target, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: GET %s returned %d", ErrStatus, target, resp.StatusCode)
	}
	return body, nil
}

func (c *Client) getJSON(ctx context.Context, target string, out interface{}) error {
	body, err := c.get(ctx, target)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", target, err)
	}
	return nil
}

// Submit sends a job to path (already carrying the job ID) with an encoded
// query string and returns the final payload.
func (c *Client) Submit(ctx context.Context, path, rawQuery string) (Payload, error) {
	var p Payload
	err := c.getJSON(ctx, c.endpoint(rawQuery, path), &p)
	return p, err
}

// ConfirmPort asks which port serves the progress channel for job id.
func (c *Client) ConfirmPort(ctx context.Context, kind Kind, id string) (int, error) {
	body, err := c.get(ctx, c.endpoint("", confirmPrefix, id))
	if err != nil {
		return 0, err
	}
	text := strings.Trim(strings.TrimSpace(string(body)), `"`)
	port, err := strconv.Atoi(text)
	if err != nil || port <= 0 || port > 65535 {
		return 0, fmt.Errorf("confirm %s job %s: invalid port %q", kind, id, text)
	}
	return port, nil
}
