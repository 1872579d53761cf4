package domain

import "regexp"

// videoIDPatterns cover the URL shapes videos are shared with: watch pages,
// short links, embeds and channel video pages. The ID is the capture group.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`v=([^&#]+)`),
	regexp.MustCompile(`be/([^&#]+)`),
	regexp.MustCompile(`embed/([^&#]+)`),
	regexp.MustCompile(`videos/([^&#]+)`),
}

// ExtractVideoID pulls the external video identifier out of a video URL.
// Returns "" when no pattern matches.
func ExtractVideoID(url string) string {
	for _, pattern := range videoIDPatterns {
		if m := pattern.FindStringSubmatch(url); m != nil {
			return m[1]
		}
	}
	return ""
}
