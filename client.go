package plurk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultHost = "www.plurk.com"
	apiPrefix   = "/API"
)

// Client is a session-holding client for the Plurk JSON API. It is built for
// single-threaded use: one outstanding request at a time, no internal
// locking. Callers sharing a Client across goroutines must serialize access
// themselves.
type Client struct {
	apiKey     string
	host       string
	insecure   bool
	httpClient *http.Client
	trace      io.Writer

	// populated by Login
	cookie   string
	loggedIn bool

	lastUnread UnreadCount
}

// Option configures a Client.
type Option func(*Client)

// WithHost overrides the API host (e.g. for a staging environment).
func WithHost(host string) Option {
	return func(c *Client) { c.host = host }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTraceSink directs a trace of every request to w: the request target on
// one line, the raw response body on the next. Writes happen for failed
// requests too.
func WithTraceSink(w io.Writer) Option {
	return func(c *Client) { c.trace = w }
}

// WithInsecure uses plain HTTP for all calls except Login, which is always
// sent over HTTPS.
func WithInsecure() Option {
	return func(c *Client) { c.insecure = true }
}

// NewClient creates a Plurk API client with the given API key.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey: apiKey,
		host:   defaultHost,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoggedIn reports whether the client holds an authenticated session.
func (c *Client) LoggedIn() bool { return c.loggedIn }

// LastUnreadCount returns the counters from the most recent GetUnreadCount
// call. The zero value is returned before the first poll.
func (c *Client) LastUnreadCount() UnreadCount { return c.lastUnread }

// Login authenticates with the API and stores the session cookie. The
// exchange always uses HTTPS regardless of WithInsecure. On success the
// profile embedded in the login response is returned.
func (c *Client) Login(ctx context.Context, username, password string) (*OwnProfile, error) {
	var profile OwnProfile
	if err := c.login(ctx, username, password, false, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// LoginWithoutProfile authenticates like Login but asks the server to skip
// the profile payload. Useful for bots that only post.
func (c *Client) LoginWithoutProfile(ctx context.Context, username, password string) error {
	return c.login(ctx, username, password, true, nil)
}

func (c *Client) login(ctx context.Context, username, password string, skipProfile bool, result any) error {
	params := url.Values{}
	params.Set("username", username)
	params.Set("password", password)
	if skipProfile {
		params.Set("no_data", "1")
	}

	target := c.buildURL("https", "/Users/login", params)
	if err := c.do(ctx, target, result, true); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return &AuthError{Text: apiErr.Text}
		}
		return err
	}

	c.loggedIn = true
	return nil
}

// Logout invalidates the session server-side and clears the stored cookie.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.requireSession(); err != nil {
		return err
	}
	if err := c.request(ctx, "/Users/logout", nil, nil); err != nil {
		return err
	}
	c.cookie = ""
	c.loggedIn = false
	return nil
}

// GetPublicProfile fetches another user's profile by nickname. No session is
// required; the viewer-relationship flags are all false for anonymous calls.
func (c *Client) GetPublicProfile(ctx context.Context, nickname string) (*PublicProfile, error) {
	params := url.Values{}
	params.Set("user_id", nickname)

	var profile PublicProfile
	if err := c.request(ctx, "/Profile/getPublicProfile", params, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetUserChannel fetches the realtime channel bootstrap data for the
// authenticated user. The returned comet server URL is what the realtime
// subscriber connects to.
func (c *Client) GetUserChannel(ctx context.Context) (*UserChannel, error) {
	if err := c.requireSession(); err != nil {
		return nil, err
	}

	var channel UserChannel
	if err := c.request(ctx, "/Realtime/getUserChannel", nil, &channel); err != nil {
		return nil, err
	}
	return &channel, nil
}

func (c *Client) requireSession() error {
	if !c.loggedIn || c.cookie == "" {
		return ErrNotLoggedIn
	}
	return nil
}

// request issues an authenticated-when-possible GET and decodes the JSON
// response body into result.
func (c *Client) request(ctx context.Context, path string, params url.Values, result any) error {
	scheme := "https"
	if c.insecure {
		scheme = "http"
	}
	return c.do(ctx, c.buildURL(scheme, path, params), result, false)
}

func (c *Client) buildURL(scheme, path string, params url.Values) string {
	query := url.Values{}
	query.Set("api_key", c.apiKey)
	for key, values := range params {
		for _, v := range values {
			query.Add(key, v)
		}
	}

	u := url.URL{
		Scheme:   scheme,
		Host:     c.host,
		Path:     apiPrefix + path,
		RawQuery: query.Encode(),
	}
	return u.String()
}

// do issues a GET against target and decodes the JSON body into result.
// captureSession is set only by the login exchange: the session cookie is
// taken from that response alone, so stray Set-Cookie headers on anonymous
// or failed calls never become the session.
func (c *Client) do(ctx context.Context, target string, result any, captureSession bool) error {
	if c.trace != nil {
		fmt.Fprintln(c.trace, target)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if c.trace != nil {
		fmt.Fprintln(c.trace, string(body))
	}
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var msg struct {
			ErrorText string `json:"error_text"`
		}
		if err := json.Unmarshal(body, &msg); err == nil && msg.ErrorText != "" {
			apiErr.Text = msg.ErrorText
		} else {
			apiErr.Text = fmt.Sprintf("API error (status %d)", resp.StatusCode)
		}
		return apiErr
	}

	// The session cookie is issued once, by the successful login response,
	// and must not be overwritten by later Set-Cookie headers.
	if captureSession && c.cookie == "" {
		if cookies := resp.Cookies(); len(cookies) > 0 {
			c.cookie = cookies[0].Name + "=" + cookies[0].Value
		}
	}

	if result != nil && len(body) > 0 {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}
