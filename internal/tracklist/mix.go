package tracklist

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jaki95/mixcloud/internal/domain"
)

// Mix is the YAML description of a single mix to upload.
type Mix struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
	Tracklist   []Entry  `yaml:"tracklist"`
}

// Entry is one tracklist line of a Mix.
type Entry struct {
	Start  Offset `yaml:"start"`
	Artist string `yaml:"artist"`
	Song   string `yaml:"song"`
}

// Offset is a start time in seconds. In YAML it may be written as a number
// of seconds or as "mm:ss" / "h:mm:ss".
type Offset int

func (o *Offset) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: start must be a scalar", value.Line)
	}
	seconds, err := offsetToSeconds(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*o = Offset(seconds)
	return nil
}

// LoadMix decodes a YAML mix description into a cloudcast whose key is the
// slug of its name.
func LoadMix(r io.Reader) (*domain.Cloudcast, error) {
	var mix Mix
	if err := yaml.NewDecoder(r).Decode(&mix); err != nil {
		return nil, fmt.Errorf("failed to decode mix file: %w", err)
	}
	return mix.Cloudcast()
}

// LoadMixFile reads a YAML mix description from path.
func LoadMixFile(path string) (*domain.Cloudcast, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mix file: %w", err)
	}
	defer file.Close()

	return LoadMix(file)
}

// Cloudcast validates the mix and converts it.
func (m *Mix) Cloudcast() (*domain.Cloudcast, error) {
	if m.Name == "" {
		return nil, errors.New("mix has no name")
	}
	key := domain.Slugify(m.Name)
	if key == "" {
		return nil, fmt.Errorf("mix name %q has no letters or digits", m.Name)
	}

	sections := make([]domain.Section, 0, len(m.Tracklist))
	for i, entry := range m.Tracklist {
		if entry.Song == "" {
			return nil, fmt.Errorf("tracklist entry %d has no song", i)
		}
		sections = append(sections, domain.NewSection(int(entry.Start), entry.Song, entry.Artist))
	}
	if err := checkOrdered(sections); err != nil {
		return nil, err
	}

	return domain.NewCloudcast(domain.CloudcastInfo{
		Key:         key,
		Name:        m.Name,
		Sections:    sections,
		Tags:        m.Tags,
		Description: m.Description,
	}), nil
}
