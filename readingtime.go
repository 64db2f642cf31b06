package aeo

import (
	"fmt"
	"strings"
)

// WordsPerMinute is the reading speed used for reading-time estimates.
const WordsPerMinute = 200

// ReadingTime holds a reading-time estimate for a piece of content.
type ReadingTime struct {
	Words       int    `json:"words"`
	Minutes     int    `json:"minutes"`
	ISODuration string `json:"isoDuration"`
}

// CountWords strips markup from raw and returns the number of
// whitespace-separated tokens.
func CountWords(raw string) int {
	return len(strings.Fields(StripMarkup(raw)))
}

// ComputeReadingTime estimates how long raw takes to read.
// The result is always at least one minute.
func ComputeReadingTime(raw string) ReadingTime {
	words := CountWords(raw)
	minutes := ReadingMinutes(words)
	return ReadingTime{
		Words:       words,
		Minutes:     minutes,
		ISODuration: FormatISODuration(minutes),
	}
}

// ReadingMinutes returns max(1, ceil(words / WordsPerMinute)).
func ReadingMinutes(words int) int {
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

// FormatISODuration formats minutes as an ISO-8601 duration, e.g. "PT4M".
func FormatISODuration(minutes int) string {
	return fmt.Sprintf("PT%dM", minutes)
}
