package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Create a temporary directory for test files
	tempDir := t.TempDir()

	// Create a test config file
	configPath := filepath.Join(tempDir, "test_config.yaml")
	configContent := `
log_level: -4
api:
  root: http://localhost:9000
  timeout: 5s
oauth:
  client_id: qwerty
  client_secret: ytrewq
  redirect_uri: http://localhost/mixcloud-callback
credentials:
  netrc_file: /tmp/netrc
storage:
  credentials_file: /tmp/key.json
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	assert.NoError(t, err)

	// Test loading the config
	cfg, err := Load(configPath)

	// Assert
	require.NoError(t, err)
	assert.NotNil(t, cfg)
	assert.Equal(t, -4, cfg.LogLevel)
	assert.Equal(t, "http://localhost:9000", cfg.API.Root)
	assert.Equal(t, DefaultOAuthRoot, cfg.API.OAuthRoot)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, "qwerty", cfg.OAuth.ClientID)
	assert.Equal(t, "ytrewq", cfg.OAuth.ClientSecret)
	assert.Equal(t, "http://localhost/mixcloud-callback", cfg.OAuth.RedirectURI)
	assert.Equal(t, "/tmp/netrc", cfg.Credentials.NetrcFile)
	assert.Equal(t, "api.mixcloud.com", cfg.Credentials.NetrcHost)
	assert.Equal(t, "MIXCLOUD_ACCESS_TOKEN", cfg.Credentials.EnvVar)
	assert.Equal(t, "/tmp/key.json", cfg.Storage.CredentialsFile)
}

func TestLoadEmptyFileUsesDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "empty.yaml")
	assert.NoError(t, os.WriteFile(configPath, nil, 0644))

	cfg, err := Load(configPath)

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, DefaultAPIRoot, cfg.API.Root)
	assert.Equal(t, DefaultTimeout, cfg.API.Timeout)
}

func TestLoadNonExistentFile(t *testing.T) {
	// Test loading a non-existent config file
	cfg, err := Load("non_existent_file.yaml")

	// Assert
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadInvalidYAML(t *testing.T) {
	// Create a temporary directory for test files
	tempDir := t.TempDir()

	// Create an invalid YAML file
	configPath := filepath.Join(tempDir, "invalid_config.yaml")
	configContent := `
log_level: -4
api:
  root: [this is not valid yaml
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	assert.NoError(t, err)

	// Test loading the invalid config
	cfg, err := Load(configPath)

	// Assert
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"relative root", func(c *Config) { c.API.Root = "api.mixcloud.com" }, "api.root"},
		{"bad oauth root", func(c *Config) { c.API.OAuthRoot = "://" }, "api.oauth_root"},
		{"negative timeout", func(c *Config) { c.API.Timeout = -time.Second }, "api.timeout"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestTokenSourcePriority(t *testing.T) {
	netrcPath := filepath.Join(t.TempDir(), "netrc")
	require.NoError(t, os.WriteFile(netrcPath, []byte("machine api.mixcloud.com password netrc_token\n"), 0600))

	cfg := Default()
	cfg.Credentials.EnvVar = "MIXCLOUD_CONFIG_TEST_TOKEN"
	cfg.Credentials.NetrcFile = netrcPath

	tok, err := cfg.TokenSource().Token()
	require.NoError(t, err)
	assert.Equal(t, "netrc_token", tok.AccessToken)

	t.Setenv("MIXCLOUD_CONFIG_TEST_TOKEN", "env_token")
	tok, err = cfg.TokenSource().Token()
	require.NoError(t, err)
	assert.Equal(t, "env_token", tok.AccessToken)

	cfg.Credentials.AccessToken = "explicit_token"
	tok, err = cfg.TokenSource().Token()
	require.NoError(t, err)
	assert.Equal(t, "explicit_token", tok.AccessToken)
}
