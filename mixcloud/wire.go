package mixcloud

import (
	"fmt"
	"time"

	"github.com/jaki95/mixcloud/internal/domain"
)

// The JSON shapes returned by the API. Pointer fields tell a missing value
// apart from a zero one.

type artistJSON struct {
	Slug *string `json:"slug"`
	Name *string `json:"name"`
}

func (a *artistJSON) toDomain(path string) (domain.Artist, error) {
	if a.Name == nil {
		return domain.Artist{}, missingField(path + ".name")
	}
	artist := domain.Artist{Name: *a.Name}
	if a.Slug != nil {
		artist.Key = *a.Slug
	}
	return artist, nil
}

type userJSON struct {
	Username *string `json:"username"`
	Name     *string `json:"name"`
}

func (u *userJSON) toDomain(path string) (domain.User, error) {
	if u.Username == nil {
		return domain.User{}, missingField(path + ".username")
	}
	if u.Name == nil {
		return domain.User{}, missingField(path + ".name")
	}
	return domain.User{Key: *u.Username, Name: *u.Name}, nil
}

type trackJSON struct {
	Name   *string     `json:"name"`
	Artist *artistJSON `json:"artist"`
}

type sectionJSON struct {
	StartTime *int       `json:"start_time"`
	Track     *trackJSON `json:"track"`
}

func (s *sectionJSON) toDomain(path string) (domain.Section, error) {
	if s.StartTime == nil {
		return domain.Section{}, missingField(path + ".start_time")
	}
	if s.Track == nil {
		return domain.Section{}, missingField(path + ".track")
	}
	if s.Track.Name == nil {
		return domain.Section{}, missingField(path + ".track.name")
	}
	if s.Track.Artist == nil {
		return domain.Section{}, missingField(path + ".track.artist")
	}
	artist, err := s.Track.Artist.toDomain(path + ".track.artist")
	if err != nil {
		return domain.Section{}, err
	}
	return domain.Section{
		StartTime: *s.StartTime,
		Track:     domain.Track{Name: *s.Track.Name, Artist: artist},
	}, nil
}

type tagJSON struct {
	Name *string `json:"name"`
}

type cloudcastJSON struct {
	Slug        *string           `json:"slug"`
	Name        *string           `json:"name"`
	User        *userJSON         `json:"user"`
	Sections    *[]sectionJSON    `json:"sections"`
	Tags        *[]tagJSON        `json:"tags"`
	Description *string           `json:"description"`
	CreatedTime *time.Time        `json:"created_time"`
	Pictures    map[string]string `json:"pictures"`
}

// toDomain converts a cloudcast resource. A full resource must carry the
// tracklist, description and creation time. Listing entries may omit them
// and come back incomplete.
func (c *cloudcastJSON) toDomain(path string, full bool) (*domain.Cloudcast, error) {
	if c.Slug == nil {
		return nil, missingField(path + ".slug")
	}
	if c.Name == nil {
		return nil, missingField(path + ".name")
	}
	if c.User == nil {
		return nil, missingField(path + ".user")
	}
	user, err := c.User.toDomain(path + ".user")
	if err != nil {
		return nil, err
	}
	if c.Tags == nil {
		return nil, missingField(path + ".tags")
	}
	tags := make([]string, len(*c.Tags))
	for i, tag := range *c.Tags {
		if tag.Name == nil {
			return nil, missingField(fmt.Sprintf("%s.tags[%d].name", path, i))
		}
		tags[i] = *tag.Name
	}

	info := domain.CloudcastInfo{
		Key:      *c.Slug,
		Name:     *c.Name,
		User:     user,
		Tags:     tags,
		Pictures: c.Pictures,
	}
	if c.CreatedTime != nil {
		info.Created = *c.CreatedTime
	}

	complete := c.Sections != nil && c.Description != nil
	if full {
		switch {
		case c.Sections == nil:
			return nil, missingField(path + ".sections")
		case c.Description == nil:
			return nil, missingField(path + ".description")
		case c.CreatedTime == nil:
			return nil, missingField(path + ".created_time")
		}
	}
	if !complete {
		return domain.NewPartialCloudcast(info), nil
	}

	info.Description = *c.Description
	info.Sections = make([]domain.Section, len(*c.Sections))
	for i := range *c.Sections {
		section, err := (*c.Sections)[i].toDomain(fmt.Sprintf("%s.sections[%d]", path, i))
		if err != nil {
			return nil, err
		}
		info.Sections[i] = section
	}
	return domain.NewCloudcast(info), nil
}

type cloudcastListJSON struct {
	Data *[]cloudcastJSON `json:"data"`
}
