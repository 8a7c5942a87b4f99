package mixcloud_test

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/jaki95/mixcloud/credentials"
	"github.com/jaki95/mixcloud/internal/mixcloudtest"
	"github.com/jaki95/mixcloud/mixcloud"
)

func newClient(t *testing.T, srv *mixcloudtest.Server, token string) *mixcloud.Client {
	t.Helper()
	client, err := mixcloud.NewClient(mixcloud.Config{APIRoot: srv.URL(), AccessToken: token})
	require.NoError(t, err)
	return client
}

func TestArtist(t *testing.T) {
	srv := mixcloudtest.New()
	defer srv.Close()
	srv.RegisterArtist(mixcloudtest.AphexTwin)
	client := newClient(t, srv, "")

	artist, err := client.Artist(context.Background(), "aphex-twin")
	require.NoError(t, err)
	assert.Equal(t, "aphex-twin", artist.Key)
	assert.Equal(t, "Aphex Twin", artist.Name)
}

func TestArtistNotFound(t *testing.T) {
	srv := mixcloudtest.New()
	defer srv.Close()
	client := newClient(t, srv, "")

	_, err := client.Artist(context.Background(), "nobody")
	require.Error(t, err)
	assert.ErrorIs(t, err, mixcloud.ErrNotFound)

	var apiErr *mixcloud.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "NotFoundError", apiErr.Type)
	assert.Contains(t, apiErr.Message, "nobody")
}

func TestUser(t *testing.T) {
	srv := mixcloudtest.New()
	defer srv.Close()
	srv.RegisterUser(mixcloudtest.Spartacus)
	client := newClient(t, srv, "")

	user, err := client.User(context.Background(), "spartacus")
	require.NoError(t, err)
	assert.Equal(t, mixcloud.User{Key: "spartacus", Name: "Spartacus"}, user)
}

func TestCloudcast(t *testing.T) {
	srv := mixcloudtest.New()
	defer srv.Close()
	srv.RegisterCloudcast(mixcloudtest.Spartacus, mixcloudtest.PartyTime())
	client := newClient(t, srv, "")

	cc, err := client.Cloudcast(context.Background(), "spartacus", "party-time")
	require.NoError(t, err)

	assert.True(t, cc.Complete())
	assert.Equal(t, "party-time", cc.Key())
	assert.Equal(t, "Party Time", cc.Name())
	assert.Equal(t, mixcloudtest.Spartacus, cc.User())
	assert.Equal(t, []string{"Funky house", "Funk", "Soul"}, cc.Tags())
	assert.Equal(t, "Bla bla", cc.Description())
	assert.True(t, cc.Created().Equal(time.Date(2009, 8, 2, 16, 55, 1, 0, time.UTC)))

	sections := cc.Sections()
	require.Len(t, sections, 9)
	assert.Equal(t, 416, sections[1].StartTime)
	assert.Equal(t, "Refresher", sections[1].Track.Name)
	assert.Equal(t, "Time of your life", sections[1].Track.Artist.Name)
	assert.Equal(t, "Definition of House", sections[3].Track.Name)
	assert.Equal(t, mixcloudtest.PartyTime().Sections(), sections)
}

func TestCloudcastPicture(t *testing.T) {
	srv := mixcloudtest.New()
	defer srv.Close()
	srv.RegisterCloudcast(mixcloudtest.Spartacus, mixcloudtest.PartyTime())
	client := newClient(t, srv, "")

	cc, err := client.Cloudcast(context.Background(), "spartacus", "party-time")
	require.NoError(t, err)
	assert.Regexp(t, `^https?://`, cc.Picture())
}

func TestCloudcastsAreLoadedLazily(t *testing.T) {
	srv := mixcloudtest.New()
	defer srv.Close()
	srv.RegisterCloudcast(mixcloudtest.Spartacus, mixcloudtest.PartyTime())
	client := newClient(t, srv, "")
	ctx := context.Background()

	ccs, err := client.Cloudcasts(ctx, "spartacus", nil)
	require.NoError(t, err)
	require.Len(t, ccs, 1)

	cc := ccs[0]
	assert.False(t, cc.Complete())
	assert.Equal(t, "party-time", cc.Key())
	assert.Equal(t, []string{"Funky house", "Funk", "Soul"}, cc.Tags())
	assert.Empty(t, cc.Sections())
	assert.Empty(t, cc.Description())

	full, err := client.Expand(ctx, cc)
	require.NoError(t, err)
	assert.True(t, full.Complete())
	assert.Len(t, full.Sections(), 9)
	assert.Equal(t, "Bla bla", full.Description())

	again, err := client.Expand(ctx, full)
	require.NoError(t, err)
	assert.Same(t, full, again)
}

func TestCloudcastsExpand(t *testing.T) {
	srv := mixcloudtest.New()
	defer srv.Close()
	srv.RegisterCloudcasts(mixcloudtest.Spartacus, []*mixcloud.Cloudcast{mixcloudtest.PartyTime(), mixcloudtest.Lambiance()})
	client := newClient(t, srv, "")

	ccs, err := client.Cloudcasts(context.Background(), "spartacus", &mixcloud.ListOptions{Expand: true})
	require.NoError(t, err)
	require.Len(t, ccs, 2)
	assert.Len(t, ccs[0].Sections(), 9)
	assert.Len(t, ccs[1].Sections(), 13)
	assert.Equal(t, "Bla bla bla", ccs[1].Description())
}

func TestCloudcastsPagination(t *testing.T) {
	srv := mixcloudtest.New()
	defer srv.Close()
	srv.RegisterCloudcasts(mixcloudtest.Spartacus, []*mixcloud.Cloudcast{mixcloudtest.PartyTime(), mixcloudtest.Lambiance()})
	client := newClient(t, srv, "")
	ctx := context.Background()

	ccs, err := client.Cloudcasts(ctx, "spartacus", nil)
	require.NoError(t, err)
	assert.Len(t, ccs, 2)

	ccs, err = client.Cloudcasts(ctx, "spartacus", &mixcloud.ListOptions{Limit: 1})
	require.NoError(t, err)
	require.Len(t, ccs, 1)
	assert.Equal(t, "party-time", ccs[0].Key())

	ccs, err = client.Cloudcasts(ctx, "spartacus", &mixcloud.ListOptions{Offset: 1})
	require.NoError(t, err)
	require.Len(t, ccs, 1)
	assert.Equal(t, "lambiance", ccs[0].Key())

	requests := srv.Requests()
	require.Len(t, requests, 3)
	assert.False(t, requests[0].Query.Has("limit"))
	assert.False(t, requests[0].Query.Has("offset"))
	assert.Equal(t, "1", requests[1].Query.Get("limit"))
	assert.Equal(t, "1", requests[2].Query.Get("offset"))
}

func TestCloudcastsRejectsNegativeOptions(t *testing.T) {
	srv := mixcloudtest.New()
	defer srv.Close()
	client := newClient(t, srv, "")

	_, err := client.Cloudcasts(context.Background(), "spartacus", &mixcloud.ListOptions{Limit: -1})
	assert.Error(t, err)
	assert.Empty(t, srv.Requests())
}

func TestMe(t *testing.T) {
	srv := mixcloudtest.New()
	defer srv.Close()
	srv.IAm(mixcloudtest.Spartacus)
	client := newClient(t, srv, "my_access_token")
	ctx := context.Background()

	me, err := client.Me(ctx)
	require.NoError(t, err)

	direct, err := client.User(ctx, "spartacus")
	require.NoError(t, err)
	assert.Equal(t, direct, me)

	requests := srv.Requests()
	require.GreaterOrEqual(t, len(requests), 2)
	assert.Equal(t, "/me/", requests[0].Path)
	assert.Equal(t, "/spartacus/", requests[1].Path)
	assert.Equal(t, "my_access_token", requests[1].Query.Get("access_token"))
}

func TestMeUnauthenticated(t *testing.T) {
	srv := mixcloudtest.New()
	defer srv.Close()
	srv.IAm(mixcloudtest.Spartacus)
	client := newClient(t, srv, "")

	assert.False(t, client.Authenticated())
	_, err := client.Me(context.Background())
	assert.ErrorIs(t, err, mixcloud.ErrUnauthenticated)
	assert.Empty(t, srv.Requests())
}

func TestMeWithRejectedToken(t *testing.T) {
	srv := mixcloudtest.New()
	defer srv.Close()
	srv.IAm(mixcloudtest.Spartacus)
	srv.RequireAccessToken("good")
	client := newClient(t, srv, "bad")

	_, err := client.Me(context.Background())
	var apiErr *mixcloud.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.NotContains(t, apiErr.URL, "bad")
	assert.NotContains(t, err.Error(), "access_token=bad")
}

func TestTokenFromNetrc(t *testing.T) {
	srv := mixcloudtest.New()
	defer srv.Close()
	srv.IAm(mixcloudtest.Spartacus)
	srv.RequireAccessToken("netrc-token")

	netrcFile := filepath.Join(t.TempDir(), "netrc")
	require.NoError(t, os.WriteFile(netrcFile,
		[]byte("machine api.mixcloud.com\n  login spartacus\n  password netrc-token\n"), 0600))

	client, err := mixcloud.NewClient(mixcloud.Config{
		APIRoot:     srv.URL(),
		Credentials: credentials.Netrc(netrcFile, ""),
	})
	require.NoError(t, err)
	assert.True(t, client.Authenticated())

	me, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "spartacus", me.Key)
}

func TestExplicitTokenWinsOverCredentials(t *testing.T) {
	srv := mixcloudtest.New()
	defer srv.Close()
	srv.IAm(mixcloudtest.Spartacus)
	srv.RequireAccessToken("explicit")

	client, err := mixcloud.NewClient(mixcloud.Config{
		APIRoot:     srv.URL(),
		AccessToken: "explicit",
		Credentials: credentials.Static("from-source"),
	})
	require.NoError(t, err)

	_, err = client.Me(context.Background())
	assert.NoError(t, err)
}

type failingSource struct{}

func (failingSource) Token() (*oauth2.Token, error) { return nil, errors.New("keyring locked") }

func TestNewClientCredentialsError(t *testing.T) {
	_, err := mixcloud.NewClient(mixcloud.Config{Credentials: failingSource{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "keyring locked")
}

func TestNewClientInvalidRoot(t *testing.T) {
	_, err := mixcloud.NewClient(mixcloud.Config{APIRoot: "not a url"})
	assert.Error(t, err)
}

func TestInvalidPathSegment(t *testing.T) {
	srv := mixcloudtest.New()
	defer srv.Close()
	client := newClient(t, srv, "")

	_, err := client.User(context.Background(), "")
	assert.Error(t, err)
	_, err = client.Cloudcast(context.Background(), "spartacus", "..")
	assert.Error(t, err)
	assert.Empty(t, srv.Requests())
}
