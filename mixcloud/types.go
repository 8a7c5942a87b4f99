package mixcloud

import "github.com/jaki95/mixcloud/internal/domain"

type (
	Artist        = domain.Artist
	Track         = domain.Track
	Section       = domain.Section
	User          = domain.User
	Cloudcast     = domain.Cloudcast
	CloudcastInfo = domain.CloudcastInfo
)

// NewCloudcast builds a cloudcast to upload.
func NewCloudcast(info CloudcastInfo) *Cloudcast {
	return domain.NewCloudcast(info)
}

// NewSection places a song by artist at startTime seconds.
func NewSection(startTime int, song, artist string) Section {
	return domain.NewSection(startTime, song, artist)
}

// Slugify turns a display name into the key the service would derive from it.
func Slugify(name string) string {
	return domain.Slugify(name)
}
