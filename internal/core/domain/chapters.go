package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// ChapterMarker is one timestamped chapter line parsed from a video
// description.
type ChapterMarker struct {
	Start int    `json:"start"` // seconds from the start of the clip
	Title string `json:"title"`
}

// chapterLineRegex matches a description line that declares a chapter: a
// timestamp at the start of the line, parenthesized or bare, followed by an
// optional separator (hyphen-minus, en dash, em dash or closing paren) and
// the chapter title. Both dash variants show up in real descriptions.
var chapterLineRegex = regexp.MustCompile(`^(?:\((\d{1,2}:\d{2}(?::\d{2})?)\)|(\d{1,2}:\d{2}(?::\d{2})?))\s*[-\x{2013}\x{2014})]?\s*(.*)`)

// TimestampToSeconds converts a timestamp in H:MM:SS, HH:MM:SS or MM:SS form
// to total seconds. Any other shape (extra parts, non-numeric parts) yields
// 0 rather than an error: a malformed chapter line degrades to second zero
// instead of failing the whole extraction.
func TimestampToSeconds(timestamp string) int {
	parts := strings.Split(timestamp, ":")

	nums := make([]int, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return 0
		}
		nums[i] = n
	}

	switch len(nums) {
	case 3:
		return nums[0]*3600 + nums[1]*60 + nums[2]
	case 2:
		return nums[0]*60 + nums[1]
	}
	return 0
}

// ExtractChapterMarkers parses chapter markers out of a free-text video
// description. Lines that do not start with a timestamp produce no marker.
// Markers are returned in line order, not re-sorted.
func ExtractChapterMarkers(description string) []ChapterMarker {
	var markers []ChapterMarker

	for _, line := range strings.Split(description, "\n") {
		m := chapterLineRegex.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}

		// The timestamp is in the first group when parenthesized,
		// otherwise the second.
		timestamp := m[1]
		if timestamp == "" {
			timestamp = m[2]
		}

		markers = append(markers, ChapterMarker{
			Start: TimestampToSeconds(timestamp),
			Title: m[3],
		})
	}

	return markers
}

// ChapterRange is a chapter marker with its computed end boundary.
type ChapterRange struct {
	ChapterMarker
	End int // exclusive, seconds
}

// ChapterRanges computes the end boundary of each marker: the next marker's
// start, or the clip duration for the last one. Sorted input is assumed
// (markers come from extraction in line order, which descriptions list
// chronologically).
func ChapterRanges(markers []ChapterMarker, clipDuration int) []ChapterRange {
	ranges := make([]ChapterRange, len(markers))
	for i, marker := range markers {
		end := clipDuration
		if i+1 < len(markers) {
			end = markers[i+1].Start
		}
		ranges[i] = ChapterRange{ChapterMarker: marker, End: end}
	}
	return ranges
}

// Contains reports whether a paragraph starting at start falls in this
// chapter's half-open range.
func (r ChapterRange) Contains(start float64) bool {
	return float64(r.Start) <= start && start < float64(r.End)
}
