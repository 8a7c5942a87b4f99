package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaki95/mixcloud/internal/mixcloudtest"
)

// writeConfig points the command at srv and isolates it from the
// environment and the user's netrc.
func writeConfig(t *testing.T, srv *mixcloudtest.Server) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf(`log_level: 8
api:
  root: %s
  oauth_root: %s
oauth:
  client_id: qwerty
  client_secret: ytrewq
  redirect_uri: http://localhost/mixcloud-callback
credentials:
  env_var: MIXCLOUD_CLI_TEST_UNSET_TOKEN
  netrc_file: %s
`, srv.URL(), srv.OAuthRoot(), filepath.Join(dir, "missing-netrc"))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestArtistCommand(t *testing.T) {
	srv := mixcloudtest.New()
	defer srv.Close()
	srv.RegisterArtist(mixcloudtest.AphexTwin)

	out, _, err := run(t, "--config", writeConfig(t, srv), "artist", "aphex-twin")
	require.NoError(t, err)
	assert.Equal(t, "Aphex Twin (aphex-twin)\n", out)
}

func TestMeCommand(t *testing.T) {
	srv := mixcloudtest.New()
	defer srv.Close()
	srv.IAm(mixcloudtest.Spartacus)
	cfg := writeConfig(t, srv)

	out, _, err := run(t, "--config", cfg, "--token", "my_access_token", "me")
	require.NoError(t, err)
	assert.Equal(t, "Spartacus (spartacus)\n", out)

	_, _, err = run(t, "--config", cfg, "me")
	assert.Error(t, err)
}

func TestCloudcastCommand(t *testing.T) {
	srv := mixcloudtest.New()
	defer srv.Close()
	srv.RegisterCloudcast(mixcloudtest.Spartacus, mixcloudtest.PartyTime())

	out, _, err := run(t, "--config", writeConfig(t, srv), "cloudcast", "spartacus", "party-time")
	require.NoError(t, err)
	assert.Contains(t, out, "Party Time (spartacus/party-time)")
	assert.Contains(t, out, "Tags: Funky house, Funk, Soul")
	assert.Contains(t, out, "17:41 | Definition of House | Minimal Funk")
}

func TestCloudcastsCommand(t *testing.T) {
	srv := mixcloudtest.New()
	defer srv.Close()
	srv.RegisterCloudcast(mixcloudtest.Spartacus, mixcloudtest.PartyTime())
	srv.RegisterCloudcast(mixcloudtest.Spartacus, mixcloudtest.Lambiance())
	cfg := writeConfig(t, srv)

	out, _, err := run(t, "--config", cfg, "cloudcasts", "spartacus", "--offset", "1")
	require.NoError(t, err)
	assert.Equal(t, "lambiance\tL'ambiance\tIdm, Originals, Ambient\n", out)

	out, _, err = run(t, "--config", cfg, "cloudcasts", "spartacus", "--limit", "1", "--expand")
	require.NoError(t, err)
	assert.Contains(t, out, "Bla bla")
	assert.NotContains(t, out, "lambiance")
}

func TestUploadCommandWithMixFile(t *testing.T) {
	srv := mixcloudtest.New()
	defer srv.Close()
	srv.MockUpload(mixcloudtest.Spartacus)

	audio := filepath.Join(t.TempDir(), "sample-chain.mp3")
	require.NoError(t, os.WriteFile(audio, make([]byte, 30), 0644))

	out, _, err := run(t, "--config", writeConfig(t, srv), "--token", "my_access_token",
		"upload", "--quiet", "--mix", "../../mixcloud/testdata/example.yml", "--audio", audio)
	require.NoError(t, err)
	assert.Contains(t, out, "status 200")

	out, _, err = run(t, "--config", writeConfig(t, srv), "cloudcast", "spartacus", "sample-chain")
	require.NoError(t, err)
	assert.Contains(t, out, "11:28 | Quelle aventure | Menelik & No Se")
}

func TestUploadCommandWithFlags(t *testing.T) {
	srv := mixcloudtest.New()
	defer srv.Close()
	srv.MockUpload(mixcloudtest.Spartacus)
	dir := t.TempDir()

	audio := filepath.Join(dir, "party.mp3")
	require.NoError(t, os.WriteFile(audio, make([]byte, 30), 0644))
	table := filepath.Join(dir, "tracklist.txt")
	require.NoError(t, os.WriteFile(table, []byte("0 | Samurai | Jazztronik\n6:56 | Refresher | Time of your life\n"), 0644))

	_, _, err := run(t, "--config", writeConfig(t, srv), "--token", "my_access_token",
		"upload", "--quiet", "--name", "Party Time", "--tag", "Funk", "--tag", "Soul",
		"--description", "Bla bla", "--tracklist", table, "--audio", audio)
	require.NoError(t, err)

	out, _, err := run(t, "--config", writeConfig(t, srv), "cloudcast", "spartacus", "party-time")
	require.NoError(t, err)
	assert.Contains(t, out, "Tags: Funk, Soul")
	assert.Contains(t, out, "6:56 | Refresher | Time of your life")
}

func TestUploadCommandRequiresToken(t *testing.T) {
	srv := mixcloudtest.New()
	defer srv.Close()
	srv.MockUpload(mixcloudtest.Spartacus)

	_, _, err := run(t, "--config", writeConfig(t, srv), "upload", "--name", "x", "--audio", "x.mp3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access token")
	assert.Empty(t, srv.Requests())
}

func TestAuthCommands(t *testing.T) {
	srv := mixcloudtest.New()
	defer srv.Close()
	srv.OAuthExchange("my_code", "my_access_token")
	cfg := writeConfig(t, srv)

	out, errOut, err := run(t, "--config", cfg, "auth", "url", "--state", "xyz")
	require.NoError(t, err)
	assert.Contains(t, out, srv.OAuthRoot()+"/authorize?")
	assert.Contains(t, out, "client_id=qwerty")
	assert.Contains(t, out, "state=xyz")
	assert.Contains(t, errOut, "state: xyz")

	out, _, err = run(t, "--config", cfg, "auth", "exchange", "my_code")
	require.NoError(t, err)
	assert.Equal(t, "my_access_token\n", out)

	_, _, err = run(t, "--config", cfg, "auth", "exchange", "wrong")
	assert.Error(t, err)
}

func TestInvalidConfig(t *testing.T) {
	_, _, err := run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "user", "spartacus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestFormatOffset(t *testing.T) {
	assert.Equal(t, "0:00", formatOffset(0))
	assert.Equal(t, "11:28", formatOffset(688))
	assert.Equal(t, "1:30:45", formatOffset(5445))
}
