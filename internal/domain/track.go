package domain

// Artist is a performer referenced by tracks. Key is the artist slug and is
// empty when the artist is not (yet) known to the service.
type Artist struct {
	Key  string `json:"slug"`
	Name string `json:"name"`
}

// Track represents an individual track played in a mix.
type Track struct {
	Name   string `json:"name"`
	Artist Artist `json:"artist"`
}

// Section places a track in a mix, StartTime seconds from its beginning.
type Section struct {
	StartTime int   `json:"start_time"`
	Track     Track `json:"track"`
}

// NewSection builds a section for the given offset, song and artist name.
// The artist has no key, which is what a caller describing a new upload knows.
func NewSection(startTime int, song, artist string) Section {
	return Section{
		StartTime: startTime,
		Track: Track{
			Name:   song,
			Artist: Artist{Name: artist},
		},
	}
}
