package mixcloud

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/jaki95/mixcloud/credentials"
	"github.com/jaki95/mixcloud/internal/domain"
)

const (
	DefaultAPIRoot   = "https://api.mixcloud.com"
	DefaultUserAgent = "mixcloud-go"

	defaultTimeout   = 30 * time.Second
	maxRedirects     = 5
	maxErrorBodySize = 64 << 10

	accessTokenParam = "access_token"
)

// Config configures a Client.
type Config struct {
	// APIRoot is the base URL of the API, DefaultAPIRoot when empty.
	APIRoot string

	// AccessToken, when set, is used as is. Otherwise Credentials is asked
	// for a token once, in NewClient.
	AccessToken string
	Credentials oauth2.TokenSource

	// HTTPClient carries requests. Its redirect policy is replaced: the
	// client follows redirects itself. A client with a 30s timeout is used
	// when nil.
	HTTPClient *http.Client

	UserAgent string
}

// Client talks to the Mixcloud API. It holds no mutable state and can be
// shared between goroutines.
type Client struct {
	baseURL     *url.URL
	httpClient  *http.Client
	accessToken string
	userAgent   string
}

func NewClient(cfg Config) (*Client, error) {
	root := cfg.APIRoot
	if root == "" {
		root = DefaultAPIRoot
	}
	baseURL, err := url.Parse(root)
	if err != nil {
		return nil, fmt.Errorf("invalid API root: %w", err)
	}
	if baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, fmt.Errorf("invalid API root %q: expected an absolute URL", root)
	}
	if baseURL.Path == "" {
		baseURL.Path = "/"
	}

	accessToken := cfg.AccessToken
	if accessToken == "" {
		accessToken, err = credentials.Resolve(cfg.Credentials)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve access token: %w", err)
		}
	}

	var httpClient http.Client
	if cfg.HTTPClient != nil {
		httpClient = *cfg.HTTPClient
	} else {
		httpClient.Timeout = defaultTimeout
	}
	httpClient.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &Client{
		baseURL:     baseURL,
		httpClient:  &httpClient,
		accessToken: accessToken,
		userAgent:   userAgent,
	}, nil
}

// Authenticated reports whether the client holds an access token.
func (c *Client) Authenticated() bool {
	return c.accessToken != ""
}

// Artist fetches an artist by slug.
func (c *Client) Artist(ctx context.Context, slug string) (domain.Artist, error) {
	u, err := c.endpoint("artist", slug)
	if err != nil {
		return domain.Artist{}, err
	}

	var payload artistJSON
	if err := c.getJSON(ctx, u, &payload); err != nil {
		return domain.Artist{}, err
	}
	if payload.Slug == nil {
		return domain.Artist{}, missingField("artist.slug")
	}
	return payload.toDomain("artist")
}

// User fetches a user by username.
func (c *Client) User(ctx context.Context, username string) (domain.User, error) {
	u, err := c.endpoint(username)
	if err != nil {
		return domain.User{}, err
	}

	var payload userJSON
	if err := c.getJSON(ctx, u, &payload); err != nil {
		return domain.User{}, err
	}
	return payload.toDomain("user")
}

// Me returns the user owning the access token. The API answers /me/ with a
// redirect to that user's resource.
func (c *Client) Me(ctx context.Context) (domain.User, error) {
	if !c.Authenticated() {
		return domain.User{}, ErrUnauthenticated
	}
	u, err := c.endpoint("me")
	if err != nil {
		return domain.User{}, err
	}

	var payload userJSON
	if err := c.getJSON(ctx, u, &payload); err != nil {
		return domain.User{}, err
	}
	return payload.toDomain("user")
}

// endpoint builds the URL of an API resource from unescaped path segments.
// Resource paths end with a slash.
func (c *Client) endpoint(segments ...string) (*url.URL, error) {
	escaped := make([]string, len(segments))
	for i, segment := range segments {
		if segment == "" || segment == "." || segment == ".." {
			return nil, fmt.Errorf("invalid path segment %q", segment)
		}
		escaped[i] = url.PathEscape(segment)
	}
	escaped[len(escaped)-1] += "/"
	return c.baseURL.JoinPath(escaped...), nil
}

// getJSON fetches u and decodes the resource it leads to into dest.
// Redirects are followed explicitly, up to maxRedirects hops.
func (c *Client) getJSON(ctx context.Context, u *url.URL, dest any) error {
	for hop := 0; ; hop++ {
		next, err := c.fetch(ctx, u, dest)
		if err != nil {
			return err
		}
		if next == nil {
			return nil
		}
		if hop == maxRedirects {
			return fmt.Errorf("mixcloud: stopped after %d redirects", maxRedirects)
		}
		slog.Debug("Following redirect", "from", u.Path, "to", next.Path)
		u = next
	}
}

// fetch issues one GET. A redirect yields its target; any other successful
// response is decoded into dest.
func (c *Client) fetch(ctx context.Context, u *url.URL, dest any) (*url.URL, error) {
	req, err := c.newRequest(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", u.Path, err)
	}
	defer resp.Body.Close()

	if isRedirect(resp.StatusCode) {
		location := resp.Header.Get("Location")
		if location == "" {
			return nil, fmt.Errorf("%w: redirect from %s without location", ErrMalformedResponse, u.Path)
		}
		target, err := u.Parse(location)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid redirect location %q: %v", ErrMalformedResponse, location, err)
		}
		return target, nil
	}

	if err := checkResponse(req, resp); err != nil {
		return nil, err
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedResponse, u.Path, err)
	}
	return nil, nil
}

// newRequest builds a request for u. The access token is added as a query
// parameter only when u points at the API host.
func (c *Client) newRequest(ctx context.Context, method string, u *url.URL, body io.Reader) (*http.Request, error) {
	target := *u
	if c.accessToken != "" && strings.EqualFold(target.Host, c.baseURL.Host) {
		query := target.Query()
		query.Set(accessTokenParam, c.accessToken)
		target.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	slog.Debug("Mixcloud request", "method", method, "path", target.Path)
	return req, nil
}

func isRedirect(status int) bool {
	switch status {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	}
	return false
}

// checkResponse turns a non-2xx response into an *APIError.
func checkResponse(req *http.Request, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	return newAPIError(req, resp.StatusCode, body)
}

func newAPIError(req *http.Request, status int, body []byte) *APIError {
	errType, message := parseErrorPayload(body)
	return &APIError{
		StatusCode: status,
		Method:     req.Method,
		URL:        redact(req.URL),
		Type:       errType,
		Message:    message,
		Body:       body,
	}
}

// redact returns u without its access token.
func redact(u *url.URL) string {
	clean := *u
	query := clean.Query()
	if query.Has(accessTokenParam) {
		query.Del(accessTokenParam)
		clean.RawQuery = query.Encode()
	}
	return clean.String()
}

var (
	errNilCloudcast = errors.New("mixcloud: nil cloudcast")
	errNoAudio      = errors.New("mixcloud: audio stream required")
)
