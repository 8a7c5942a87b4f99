package mixcloud

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
)

const DefaultOAuthRoot = "https://www.mixcloud.com/oauth"

// OAuthConfig configures an OAuth helper for a registered application.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string

	// Root is the base URL of the authorize and access_token endpoints,
	// DefaultOAuthRoot when empty.
	Root string

	HTTPClient *http.Client
}

// OAuth runs the authorization code flow.
type OAuth struct {
	config     oauth2.Config
	httpClient *http.Client
}

func NewOAuth(cfg OAuthConfig) (*OAuth, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("oauth client id is required")
	}
	if cfg.RedirectURI == "" {
		return nil, errors.New("oauth redirect uri is required")
	}

	root := cfg.Root
	if root == "" {
		root = DefaultOAuthRoot
	}
	rootURL, err := url.Parse(root)
	if err != nil || rootURL.Scheme == "" || rootURL.Host == "" {
		return nil, fmt.Errorf("invalid oauth root %q", root)
	}
	root = strings.TrimSuffix(root, "/")

	return &OAuth{
		config: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Endpoint: oauth2.Endpoint{
				AuthURL:   root + "/authorize",
				TokenURL:  root + "/access_token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		httpClient: cfg.HTTPClient,
	}, nil
}

// AuthorizeURL returns the page the user is sent to in order to grant
// access. state is omitted from the URL when empty.
func (o *OAuth) AuthorizeURL(state string) string {
	return o.config.AuthCodeURL(state)
}

// ExchangeToken trades an authorization code for an access token. Failures
// are reported as *OAuthError, with the provider's payload when one was
// received.
func (o *OAuth) ExchangeToken(ctx context.Context, code string) (string, error) {
	if o.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, o.httpClient)
	}

	token, err := o.config.Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			oauthErr := &OAuthError{Payload: retrieveErr.Body, Err: err}
			if retrieveErr.Response != nil {
				oauthErr.StatusCode = retrieveErr.Response.StatusCode
			}
			oauthErr.Type, oauthErr.Message = parseErrorPayload(retrieveErr.Body)
			return "", oauthErr
		}
		return "", &OAuthError{Err: err}
	}
	return token.AccessToken, nil
}
