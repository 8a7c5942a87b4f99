// Package form converts cloudcasts to and from the flat field set the upload
// endpoint accepts.
//
// Each section i contributes sections-i-start_time, sections-i-artist and
// sections-i-song, each tag i contributes tags-i, and the name and description
// travel as top-level fields. Indices are zero-based and contiguous.
package form

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/jaki95/mixcloud/internal/domain"
)

// Top-level field names.
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldAudio       = "mp3"
	FieldPicture     = "picture"
)

// Section sub-field names.
const (
	SectionStartTime = "start_time"
	SectionArtist    = "artist"
	SectionSong      = "song"
)

const (
	sectionsPrefix = "sections-"
	tagsPrefix     = "tags-"
)

var (
	ErrMissingField   = errors.New("missing field")
	ErrMalformedField = errors.New("malformed field")
	ErrIndexGap       = errors.New("non-contiguous index")
)

// FieldError reports which indexed field could not be decoded.
type FieldError struct {
	Prefix string // "sections" or "tags"
	Index  int
	Field  string // section sub-field, empty for tags
	Err    error
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s-%d: %v", e.Prefix, e.Index, e.Err)
	}
	return fmt.Sprintf("%s-%d-%s: %v", e.Prefix, e.Index, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Fields maps form field names to values.
type Fields map[string]string

// Keys returns the field names in submission order: name, description, then
// sections and tags by index.
func (f Fields) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		return cmp.Or(
			cmp.Compare(keyRank(a), keyRank(b)),
			cmp.Compare(keyIndex(a), keyIndex(b)),
			strings.Compare(a, b),
		)
	})
	return keys
}

func keyRank(key string) int {
	switch {
	case key == FieldName:
		return 0
	case key == FieldDescription:
		return 1
	case strings.HasPrefix(key, sectionsPrefix):
		return 2
	case strings.HasPrefix(key, tagsPrefix):
		return 3
	default:
		return 4
	}
}

func keyIndex(key string) int {
	for _, prefix := range []string{sectionsPrefix, tagsPrefix} {
		if rest, ok := strings.CutPrefix(key, prefix); ok {
			num, _, _ := strings.Cut(rest, "-")
			if n, err := strconv.Atoi(num); err == nil {
				return n
			}
		}
	}
	return -1
}

// Encode flattens the cloudcast's name, description, sections and tags.
func Encode(cc *domain.Cloudcast) Fields {
	fields := Fields{
		FieldName:        cc.Name(),
		FieldDescription: cc.Description(),
	}
	for i, section := range cc.Sections() {
		fields[sectionKey(i, SectionStartTime)] = strconv.Itoa(section.StartTime)
		fields[sectionKey(i, SectionArtist)] = section.Track.Artist.Name
		fields[sectionKey(i, SectionSong)] = section.Track.Name
	}
	for i, tag := range cc.Tags() {
		fields[tagKey(i)] = tag
	}
	return fields
}

func sectionKey(index int, field string) string {
	return fmt.Sprintf("%s%d-%s", sectionsPrefix, index, field)
}

func tagKey(index int) string {
	return fmt.Sprintf("%s%d", tagsPrefix, index)
}

// Decode rebuilds the ordered sections and tags from a flat field set.
// Artists get their key from domain.Slugify. Missing sub-fields, unparsable
// indices or offsets, and gaps in the index sequence are reported as
// *FieldError.
func Decode(fields map[string]string) ([]domain.Section, []string, error) {
	rawSections := make(map[int]map[string]string)
	rawTags := make(map[int]string)

	for key, value := range fields {
		if rest, ok := strings.CutPrefix(key, sectionsPrefix); ok {
			num, field, found := strings.Cut(rest, "-")
			index, err := parseIndex(num)
			if !found || err != nil {
				return nil, nil, &FieldError{Prefix: "sections", Index: index, Field: field, Err: fmt.Errorf("%w: key %q", ErrMalformedField, key)}
			}
			if rawSections[index] == nil {
				rawSections[index] = make(map[string]string)
			}
			rawSections[index][field] = value
			continue
		}
		if rest, ok := strings.CutPrefix(key, tagsPrefix); ok {
			index, err := parseIndex(rest)
			if err != nil {
				return nil, nil, &FieldError{Prefix: "tags", Index: index, Err: fmt.Errorf("%w: key %q", ErrMalformedField, key)}
			}
			rawTags[index] = value
		}
	}

	if err := checkContiguous("sections", len(rawSections), func(i int) bool { _, ok := rawSections[i]; return ok }); err != nil {
		return nil, nil, err
	}
	if err := checkContiguous("tags", len(rawTags), func(i int) bool { _, ok := rawTags[i]; return ok }); err != nil {
		return nil, nil, err
	}

	sections := make([]domain.Section, len(rawSections))
	for i := range sections {
		section, err := decodeSection(i, rawSections[i])
		if err != nil {
			return nil, nil, err
		}
		sections[i] = section
	}

	tags := make([]string, len(rawTags))
	for i := range tags {
		tags[i] = rawTags[i]
	}

	return sections, tags, nil
}

func decodeSection(index int, raw map[string]string) (domain.Section, error) {
	for _, field := range []string{SectionStartTime, SectionArtist, SectionSong} {
		if _, ok := raw[field]; !ok {
			return domain.Section{}, &FieldError{Prefix: "sections", Index: index, Field: field, Err: ErrMissingField}
		}
	}

	startTime, err := strconv.Atoi(strings.TrimSpace(raw[SectionStartTime]))
	if err != nil || startTime < 0 {
		return domain.Section{}, &FieldError{Prefix: "sections", Index: index, Field: SectionStartTime, Err: fmt.Errorf("%w: %q", ErrMalformedField, raw[SectionStartTime])}
	}

	artistName := raw[SectionArtist]
	return domain.Section{
		StartTime: startTime,
		Track: domain.Track{
			Name:   raw[SectionSong],
			Artist: domain.Artist{Key: domain.Slugify(artistName), Name: artistName},
		},
	}, nil
}

// parseIndex accepts only the canonical decimal form, so "01" or "+1" cannot
// alias index 1.
func parseIndex(s string) (int, error) {
	index, err := strconv.Atoi(s)
	if err != nil {
		return -1, err
	}
	if index < 0 || strconv.Itoa(index) != s {
		return -1, fmt.Errorf("non-canonical index %q", s)
	}
	return index, nil
}

// checkContiguous verifies that indices 0..count-1 are all present.
func checkContiguous(prefix string, count int, present func(int) bool) error {
	for i := 0; i < count; i++ {
		if !present(i) {
			return &FieldError{Prefix: prefix, Index: i, Err: ErrIndexGap}
		}
	}
	return nil
}
