// Package youtube validates YouTube video URLs and derives the embed
// and thumbnail URLs used by lesson views.
package youtube

import (
	"errors"
	"regexp"
)

var ErrInvalidURL = errors.New("invalid youtube url")

// The accepted URL shapes. The scheme and the www prefix are optional;
// a video id is always exactly 11 characters from [A-Za-z0-9_-].
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`^(?:https?://)?(?:www\.)?youtube\.com/watch\?v=([A-Za-z0-9_-]{11})(?:[&#].*)?$`),
	regexp.MustCompile(`^(?:https?://)?(?:www\.)?youtu\.be/([A-Za-z0-9_-]{11})(?:[?#].*)?$`),
	regexp.MustCompile(`^(?:https?://)?(?:www\.)?youtube\.com/embed/([A-Za-z0-9_-]{11})(?:[?#].*)?$`),
	regexp.MustCompile(`^(?:https?://)?(?:www\.)?youtube\.com/v/([A-Za-z0-9_-]{11})(?:[?#].*)?$`),
}

// Validate checks that rawURL is a recognized YouTube video URL and
// returns the extracted 11-character video id.
func Validate(rawURL string) (string, error) {
	for _, pattern := range patterns {
		if match := pattern.FindStringSubmatch(rawURL); match != nil {
			return match[1], nil
		}
	}
	return "", ErrInvalidURL
}

// EmbedURL returns the canonical player URL for a video id.
func EmbedURL(videoID string) string {
	return "https://www.youtube.com/embed/" + videoID
}

// ThumbnailURL returns the maximum resolution thumbnail for a video id.
func ThumbnailURL(videoID string) string {
	return "https://img.youtube.com/vi/" + videoID + "/maxresdefault.jpg"
}
