// Package timecode converts between HH:MM:SS.mmm timecode strings, seconds,
// and frame counts.
package timecode

import (
	"fmt"
	"strconv"
	"strings"
)

// ToSeconds parses a timecode string into seconds. Accepted forms are
// "HH:MM:SS.mmm", "MM:SS.mmm", and plain "SS.mmm"; fractional parts are
// optional. Empty or blank input parses to 0.
func ToSeconds(tc string) (float64, error) {
	tc = strings.TrimSpace(tc)
	if tc == "" {
		return 0, nil
	}

	parts := strings.Split(tc, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid timecode %q", tc)
	}

	var total float64
	for i, p := range parts[:len(parts)-1] {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid timecode %q", tc)
		}
		// With three parts the first is hours; with two it is minutes.
		if len(parts) == 3 && i == 0 {
			total += float64(n) * 3600
		} else {
			total += float64(n) * 60
		}
	}

	secs, err := strconv.ParseFloat(strings.TrimSpace(parts[len(parts)-1]), 64)
	if err != nil || secs < 0 {
		return 0, fmt.Errorf("invalid timecode %q", tc)
	}
	return total + secs, nil
}

// FromSeconds formats seconds as "HH:MM:SS.mmm". When includeHours is false
// and the value is under an hour, the shorter "MM:SS.mmm" form is used.
// Negative input is treated as zero.
func FromSeconds(seconds float64, includeHours bool) string {
	if seconds < 0 {
		seconds = 0
	}

	hours := int(seconds) / 3600
	minutes := (int(seconds) % 3600) / 60
	secs := seconds - float64(hours*3600+minutes*60)
	whole := int(secs)
	millis := int((secs - float64(whole)) * 1000)

	if includeHours || hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, whole, millis)
	}
	return fmt.Sprintf("%02d:%02d.%03d", minutes, whole, millis)
}

// ToFrames converts seconds to a frame count at the given rate.
func ToFrames(seconds, fps float64) int {
	return int(seconds * fps)
}

// FramesToSeconds converts a frame count to seconds at the given rate.
func FramesToSeconds(frames int, fps float64) float64 {
	return float64(frames) / fps
}
