package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"golang.org/x/oauth2"
	"gopkg.in/yaml.v3"

	"github.com/jaki95/mixcloud/credentials"
)

const (
	DefaultAPIRoot   = "https://api.mixcloud.com"
	DefaultOAuthRoot = "https://www.mixcloud.com/oauth"
	DefaultTimeout   = 30 * time.Second
)

type Config struct {
	LogLevel int `yaml:"log_level"`

	API         APIConfig         `yaml:"api"`
	OAuth       OAuthConfig       `yaml:"oauth"`
	Credentials CredentialsConfig `yaml:"credentials"`
	Storage     StorageConfig     `yaml:"storage"`
}

type APIConfig struct {
	Root      string        `yaml:"root"`
	OAuthRoot string        `yaml:"oauth_root"`
	Timeout   time.Duration `yaml:"timeout"`
}

type OAuthConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURI  string `yaml:"redirect_uri"`
}

type CredentialsConfig struct {
	// An explicit token wins over every other source.
	AccessToken string `yaml:"access_token"`

	// Environment variable holding a token, MIXCLOUD_ACCESS_TOKEN by default.
	EnvVar string `yaml:"env_var"`

	// Netrc lookup options. An empty file means $NETRC or ~/.netrc.
	NetrcFile string `yaml:"netrc_file"`
	NetrcHost string `yaml:"netrc_host"`
}

type StorageConfig struct {
	// Service account key for gs:// media; application default credentials when empty.
	CredentialsFile string `yaml:"credentials_file"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config *Config

	// Unmarshal the YAML data into the struct
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, err
	}
	if config == nil {
		config = &Config{}
	}

	config.setDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) setDefaults() {
	if c.API.Root == "" {
		c.API.Root = DefaultAPIRoot
	}

	if c.API.OAuthRoot == "" {
		c.API.OAuthRoot = DefaultOAuthRoot
	}

	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultTimeout
	}

	if c.Credentials.EnvVar == "" {
		c.Credentials.EnvVar = credentials.DefaultEnvVar
	}

	if c.Credentials.NetrcHost == "" {
		c.Credentials.NetrcHost = credentials.DefaultNetrcHost
	}
}

// Validate checks the values that cannot be defaulted.
func (c *Config) Validate() error {
	for name, root := range map[string]string{"api.root": c.API.Root, "api.oauth_root": c.API.OAuthRoot} {
		u, err := url.Parse(root)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
		if u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid %s %q: expected an absolute URL", name, root)
		}
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("invalid api.timeout %s: must not be negative", c.API.Timeout)
	}
	return nil
}

// TokenSource returns the access-token sources in priority order: the
// explicit token, the environment variable, then the netrc file.
func (c *Config) TokenSource() oauth2.TokenSource {
	return credentials.Chain(
		credentials.Static(c.Credentials.AccessToken),
		credentials.Env(c.Credentials.EnvVar),
		credentials.Netrc(c.Credentials.NetrcFile, c.Credentials.NetrcHost),
	)
}
