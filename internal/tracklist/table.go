package tracklist

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jaki95/mixcloud/internal/domain"
)

// ParseTable reads a pipe-delimited tracklist, one section per line:
//
//	   0 | Samurai (12" Mix) | Jazztronik
//	 416 | Refresher         | Time of your life
//
// Columns are start offset (seconds, "mm:ss" or "h:mm:ss"), song and artist.
// Blank lines and lines starting with '#' are skipped.
func ParseTable(r io.Reader) ([]domain.Section, error) {
	reader := csv.NewReader(r)
	reader.Comma = '|'
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var sections []domain.Section
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read tracklist record: %w", err)
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		line, _ := reader.FieldPos(0)
		if len(record) < 3 {
			return nil, fmt.Errorf("invalid tracklist line %d: expected 3 fields, got %d", line, len(record))
		}

		startTime, err := offsetToSeconds(record[0])
		if err != nil {
			return nil, fmt.Errorf("invalid tracklist line %d: %w", line, err)
		}
		song, artist := strings.TrimSpace(record[1]), strings.TrimSpace(record[2])
		if song == "" {
			return nil, fmt.Errorf("invalid tracklist line %d: empty song name", line)
		}

		sections = append(sections, domain.NewSection(startTime, song, artist))
	}

	if len(sections) == 0 {
		return nil, errors.New("no tracks found in tracklist")
	}
	if err := checkOrdered(sections); err != nil {
		return nil, err
	}

	slog.Debug("Parsed tracklist table", "sections", len(sections))
	return sections, nil
}

// checkOrdered verifies start times never decrease.
func checkOrdered(sections []domain.Section) error {
	for i := 1; i < len(sections); i++ {
		if sections[i].StartTime < sections[i-1].StartTime {
			return fmt.Errorf("section %d starts at %ds, before section %d at %ds",
				i, sections[i].StartTime, i-1, sections[i-1].StartTime)
		}
	}
	return nil
}
