package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionJSONSerialization(t *testing.T) {
	section := NewSection(1061, "Definition of House", "Minimal Funk")

	data, err := json.Marshal(section)
	require.NoError(t, err)

	expected := `{"start_time":1061,"track":{"name":"Definition of House","artist":{"slug":"","name":"Minimal Funk"}}}`
	assert.JSONEq(t, expected, string(data))
}

func TestCloudcastAccessorsReturnCopies(t *testing.T) {
	cc := NewCloudcast(CloudcastInfo{
		Key:  "party-time",
		Name: "Party Time",
		Sections: []Section{
			NewSection(0, "Samurai (12\" Mix)", "Jazztronik"),
			NewSection(416, "Refresher", "Time of your life"),
		},
		Tags:        []string{"Funky house", "Funk", "Soul"},
		Description: "Bla bla",
		User:        User{Key: "spartacus", Name: "Spartacus"},
		Created:     time.Date(2009, 8, 2, 16, 55, 1, 0, time.UTC),
		Pictures:    map[string]string{"large": "https://thumbnailer.mixcloud.com/party-time.jpg"},
	})

	sections := cc.Sections()
	sections[0].Track.Name = "changed"
	tags := cc.Tags()
	tags[0] = "changed"
	pictures := cc.Pictures()
	pictures["large"] = "changed"

	assert.Equal(t, "Samurai (12\" Mix)", cc.Sections()[0].Track.Name)
	assert.Equal(t, []string{"Funky house", "Funk", "Soul"}, cc.Tags())
	assert.Equal(t, "https://thumbnailer.mixcloud.com/party-time.jpg", cc.Picture())
	assert.True(t, cc.Complete())
	assert.Equal(t, "spartacus", cc.User().Key)
	assert.Equal(t, 2009, cc.Created().Year())
}

func TestCloudcastDoesNotAliasCallerSlices(t *testing.T) {
	sections := []Section{NewSection(0, "Vessel", "Jon Hopkins")}
	tags := []string{"Idm"}
	cc := NewCloudcast(CloudcastInfo{Key: "lambiance", Name: "L'ambiance", Sections: sections, Tags: tags})

	sections[0].StartTime = 99
	tags[0] = "Pop"

	assert.Equal(t, 0, cc.Sections()[0].StartTime)
	assert.Equal(t, []string{"Idm"}, cc.Tags())
}

func TestPartialCloudcast(t *testing.T) {
	cc := NewPartialCloudcast(CloudcastInfo{Key: "party-time", Name: "Party Time", Tags: []string{"Funk"}})

	assert.False(t, cc.Complete())
	assert.Empty(t, cc.Sections())
	assert.Empty(t, cc.Picture())

	full := NewCloudcast(cc.Info())
	assert.True(t, full.Complete())
	assert.Equal(t, "Party Time", full.Name())
}
