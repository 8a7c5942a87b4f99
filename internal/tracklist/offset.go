package tracklist

import (
	"fmt"
	"strconv"
	"strings"
)

// offsetToSeconds converts a start offset like "688", "11:28" or "1:02:03" to seconds.
func offsetToSeconds(offset string) (int, error) {
	offset = strings.TrimSpace(offset)
	parts := strings.Split(offset, ":")
	var hours, minutes, seconds int
	var err error

	switch len(parts) {
	case 3: // H:MM:SS
		if hours, err = strconv.Atoi(parts[0]); err != nil {
			return 0, fmt.Errorf("invalid hours: %w", err)
		}
		if minutes, err = strconv.Atoi(parts[1]); err != nil {
			return 0, fmt.Errorf("invalid minutes: %w", err)
		}
		if seconds, err = strconv.Atoi(parts[2]); err != nil {
			return 0, fmt.Errorf("invalid seconds: %w", err)
		}
	case 2: // MM:SS
		if minutes, err = strconv.Atoi(parts[0]); err != nil {
			return 0, fmt.Errorf("invalid minutes: %w", err)
		}
		if seconds, err = strconv.Atoi(parts[1]); err != nil {
			return 0, fmt.Errorf("invalid seconds: %w", err)
		}
	case 1: // plain seconds
		if seconds, err = strconv.Atoi(parts[0]); err != nil {
			return 0, fmt.Errorf("invalid seconds: %w", err)
		}
	default:
		return 0, fmt.Errorf("invalid offset format: %s", offset)
	}

	if hours < 0 || minutes < 0 || seconds < 0 {
		return 0, fmt.Errorf("negative offset: %s", offset)
	}
	if len(parts) > 1 && seconds >= 60 {
		return 0, fmt.Errorf("seconds out of range: %s", offset)
	}
	if len(parts) > 2 && minutes >= 60 {
		return 0, fmt.Errorf("minutes out of range: %s", offset)
	}

	return hours*3600 + minutes*60 + seconds, nil
}
