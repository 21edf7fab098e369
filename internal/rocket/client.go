package rocket

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Upstream endpoint paths, relative to the configured base URL.
const (
	endpointLogin           = "/login"
	endpointChannelsList    = "/channels.list"
	endpointChannelsCreate  = "/channels.create"
	endpointChannelsInfo    = "/channels.info"
	endpointChannelMessages = "/channels.messages"
	endpointChatSearch      = "/chat.search"
	endpointChatPostMessage = "/chat.postMessage"
	endpointRoomsUpload     = "/rooms.upload"
)

const (
	headerAuthToken = "X-Auth-Token"
	headerUserID    = "X-User-Id"
)

// HTTPClient represents the functionality we need from an *http.Client, or
// similar. Tests inject fakes through this.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// Credentials are the startup-supplied upstream settings. Never mutated.
type Credentials struct {
	URL      string
	User     string
	Password string
}

// Client wraps the Rocket.Chat REST API behind an authenticate-then-call
// protocol. It owns the one piece of shared mutable state in the service: the
// cached session token and user id.
//
// The mutex makes reads and writes of the session race-free, but concurrent
// logins are deliberately not collapsed: two unauthenticated calls may both
// log in, and the last write wins. Callers must tolerate the redundant login.
type Client struct {
	http  HTTPClient
	creds Credentials
	log   *zerolog.Logger

	mu     sync.Mutex
	token  string
	userID string
}

// NewClient builds a client for the upstream at creds.URL. The HTTPClient is
// required; timeouts and connection pooling are its concern, not ours.
func NewClient(httpClient HTTPClient, creds Credentials, logger *zerolog.Logger) (*Client, error) {
	if httpClient == nil {
		return nil, errors.New("must provide an http client")
	}
	if creds.URL == "" {
		return nil, errors.New("must provide the upstream base URL")
	}

	return &Client{
		http:  httpClient,
		creds: creds,
		log:   logger,
	}, nil
}

// IsAuthenticated reports whether a session is cached. Pure predicate, no
// network I/O, and no validity check beyond non-emptiness.
func (c *Client) IsAuthenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token != "" && c.userID != ""
}

func (c *Client) session() (token, userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token, c.userID
}

func (c *Client) setSession(token, userID string) {
	c.mu.Lock()
	c.token = token
	c.userID = userID
	c.mu.Unlock()
}

// ensureSession is the guard step shared by every resource operation: log in
// when no session is cached, otherwise do nothing. A failed login propagates
// as the operation's error.
func (c *Client) ensureSession(ctx context.Context) error {
	if c.IsAuthenticated() {
		return nil
	}
	_, err := c.Login(ctx)
	return err
}

func (c *Client) endpoint(path string) string {
	return strings.TrimRight(c.creds.URL, "/") + path
}

// getJSON issues an authenticated GET and decodes the response body into out.
// Failures of any sort (transport, non-2xx, malformed body) become an Error
// of the given kind.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, kind Kind, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path), nil)
	if err != nil {
		return newError(kind, err, "build request for %s", path)
	}
	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}
	return c.do(req, kind, out)
}

// postJSON issues an authenticated POST with a JSON body and decodes the
// response into out.
func (c *Client) postJSON(ctx context.Context, path string, body any, kind Kind, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return newError(kind, err, "encode request body for %s", path)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), bytes.NewReader(payload))
	if err != nil {
		return newError(kind, err, "build request for %s", path)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, kind, out)
}

// do attaches the cached session headers, executes the request, and decodes a
// 2xx JSON response into out. The session is re-read immediately before every
// request so a login by a concurrent call is picked up.
func (c *Client) do(req *http.Request, kind Kind, out any) error {
	token, userID := c.session()
	req.Header.Set(headerAuthToken, token)
	req.Header.Set(headerUserID, userID)

	resp, err := c.http.Do(req)
	if err != nil {
		return newError(kind, err, "request to %s: %v", req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return newError(kind, nil, "upstream responded %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return newError(kind, err, "decode response from %s: %v", req.URL.Path, err)
	}
	return nil
}
