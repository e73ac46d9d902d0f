package config

import (
	"fmt"
	"strings"
	"time"
)

// DurationOrDefault parses value, or defaultValue when value is blank.
// Negative durations are rejected since every duration here bounds a wait.
func DurationOrDefault(value string, defaultValue string) (time.Duration, error) {
	raw := strings.TrimSpace(value)
	if raw == "" {
		raw = strings.TrimSpace(defaultValue)
	}
	if raw == "" {
		return 0, fmt.Errorf("duration value is empty")
	}

	d, err := time.ParseDuration(raw)
	switch {
	case err != nil:
		return 0, fmt.Errorf("parse duration %q: %w", raw, err)
	case d < 0:
		return 0, fmt.Errorf("duration %q must not be negative", raw)
	}
	return d, nil
}
