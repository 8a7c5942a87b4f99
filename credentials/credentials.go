// Package credentials provides the access-token sources a Mixcloud client can
// be configured with. Every source is an oauth2.TokenSource; a source with
// nothing to offer returns ErrNoCredentials.
package credentials

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bgentry/go-netrc/netrc"
	"golang.org/x/oauth2"
)

// DefaultEnvVar is the environment variable Env reads when given no name.
const DefaultEnvVar = "MIXCLOUD_ACCESS_TOKEN"

// DefaultNetrcHost is the machine name looked up in the netrc file.
const DefaultNetrcHost = "api.mixcloud.com"

var ErrNoCredentials = errors.New("no credentials available")

type tokenFunc func() (*oauth2.Token, error)

func (f tokenFunc) Token() (*oauth2.Token, error) { return f() }

func token(accessToken string) *oauth2.Token {
	return &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}
}

// Static returns the given access token. An empty token yields ErrNoCredentials.
func Static(accessToken string) oauth2.TokenSource {
	return tokenFunc(func() (*oauth2.Token, error) {
		if accessToken == "" {
			return nil, ErrNoCredentials
		}
		return token(accessToken), nil
	})
}

// Env reads the access token from an environment variable.
func Env(name string) oauth2.TokenSource {
	if name == "" {
		name = DefaultEnvVar
	}
	return tokenFunc(func() (*oauth2.Token, error) {
		value := os.Getenv(name)
		if value == "" {
			return nil, fmt.Errorf("%w: %s not set", ErrNoCredentials, name)
		}
		return token(value), nil
	})
}

// Netrc looks up host in a netrc file and uses the machine's password as the
// access token. An empty path means $NETRC, then ~/.netrc. A missing file or
// machine yields ErrNoCredentials.
func Netrc(path, host string) oauth2.TokenSource {
	if host == "" {
		host = DefaultNetrcHost
	}
	return tokenFunc(func() (*oauth2.Token, error) {
		file := path
		if file == "" {
			file = defaultNetrcPath()
		}
		if file == "" {
			return nil, fmt.Errorf("%w: no netrc file", ErrNoCredentials)
		}

		n, err := netrc.ParseFile(file)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s does not exist", ErrNoCredentials, file)
			}
			return nil, fmt.Errorf("failed to parse netrc file %s: %w", file, err)
		}

		machine := n.FindMachine(host)
		if machine == nil || machine.Password == "" {
			return nil, fmt.Errorf("%w: no token for %s in %s", ErrNoCredentials, host, file)
		}
		slog.Debug("Using access token from netrc", "file", file, "host", host)
		return token(machine.Password), nil
	})
}

func defaultNetrcPath() string {
	if path := os.Getenv("NETRC"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".netrc")
}

// Chain tries each source in order and returns the first token found.
// Errors other than ErrNoCredentials stop the search.
func Chain(sources ...oauth2.TokenSource) oauth2.TokenSource {
	return tokenFunc(func() (*oauth2.Token, error) {
		for _, source := range sources {
			if source == nil {
				continue
			}
			tok, err := source.Token()
			if errors.Is(err, ErrNoCredentials) {
				continue
			}
			if err != nil {
				return nil, err
			}
			return tok, nil
		}
		return nil, ErrNoCredentials
	})
}

// Resolve returns the access token of source, or "" when it has none.
func Resolve(source oauth2.TokenSource) (string, error) {
	if source == nil {
		return "", nil
	}
	tok, err := source.Token()
	if errors.Is(err, ErrNoCredentials) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}
