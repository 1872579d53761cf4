package domain

import (
	"math"
	"sort"
	"strconv"
	"time"
)

// SearchMode determines the search strategy
type SearchMode string

const (
	// SearchModeLexical ranks paragraphs with Postgres full-text search
	SearchModeLexical SearchMode = "lexical"
	// SearchModeVector ranks paragraphs by embedding distance
	SearchModeVector SearchMode = "vector"
)

// SearchOptions configures a search request
type SearchOptions struct {
	Mode  SearchMode `json:"mode"`
	Limit int        `json:"limit"`
}

// DefaultVectorLimit is the nearest-neighbour cap when none is given.
const DefaultVectorLimit = 5

// DefaultSearchOptions returns sensible defaults
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		Mode:  SearchModeLexical,
		Limit: 0, // lexical search is unbounded by default, vector defaults to DefaultVectorLimit
	}
}

// RankedParagraph is a paragraph scored by one of the search engines.
// For lexical search the score is a relevance rank (higher is better); for
// vector search it is an L2 distance (lower is better).
type RankedParagraph struct {
	Paragraph *Paragraph
	Clip      *Clip
	Score     float64
}

// Excerpt is one matching paragraph rendered inside a clip-grouped result.
// Times are truncated for display: start floors down, end rounds up.
type Excerpt struct {
	ParagraphID string  `json:"paragraph_id"`
	Text        string  `json:"text"`
	Speaker     string  `json:"speaker"`
	Start       int     `json:"start"`
	End         int     `json:"end"`
	Score       float64 `json:"score"`
}

// ClipMatch groups every matching paragraph of one clip. The entry is seeded
// by the clip's best-ranked paragraph; the excerpt list is re-sorted
// chronologically after grouping.
type ClipMatch struct {
	ClipID      string `json:"clip_id"`
	ParagraphID string `json:"paragraph_id"` // best-ranked paragraph

	Title        string `json:"title"`
	ChannelTitle string `json:"channel_title"`
	VideoID      string `json:"video_id"`
	WatchURL     string `json:"watch_url"`
	EmbedURL     string `json:"embed_url"`
	Duration     int    `json:"duration"`

	Transcription string `json:"transcription"` // clip-level full transcript
	Summary       string `json:"summary"`

	Speaker string  `json:"speaker"`
	Start   int     `json:"start"`
	End     int     `json:"end"`
	Score   float64 `json:"score"`

	Excerpts []Excerpt `json:"excerpts"`
}

// SearchResult represents the result of a search query
type SearchResult struct {
	Query      string        `json:"query"`
	Mode       SearchMode    `json:"mode"`
	EmptyQuery bool          `json:"empty_query,omitempty"`
	Results    []*ClipMatch  `json:"results"`
	Took       time.Duration `json:"took"`
}

// EmptyQueryResult is the explicit "no query" response: not an error, and
// not an empty-result search.
func EmptyQueryResult(mode SearchMode) *SearchResult {
	return &SearchResult{Mode: mode, EmptyQuery: true, Results: []*ClipMatch{}}
}

// GroupByClip folds ranked paragraphs into clip-grouped result entries.
// Entries appear in the order their first (best-ranked) paragraph was
// encountered; each entry's excerpt list is then re-sorted by start
// ascending so excerpts read chronologically.
func GroupByClip(ranked []*RankedParagraph) []*ClipMatch {
	var order []*ClipMatch
	byClip := make(map[string]*ClipMatch)

	for _, rp := range ranked {
		p, clip := rp.Paragraph, rp.Clip
		match, ok := byClip[p.ClipID]
		if !ok {
			match = &ClipMatch{
				ClipID:        p.ClipID,
				ParagraphID:   p.ID,
				Title:         clip.Title,
				ChannelTitle:  clip.ChannelTitle,
				VideoID:       clip.VideoID,
				WatchURL:      WatchURL(clip.URL, p.Start),
				EmbedURL:      EmbedURL(clip.VideoID, p.Start, p.End),
				Duration:      clip.Duration,
				Transcription: clip.FullTranscription,
				Summary:       clip.Summary,
				Speaker:       p.Speaker,
				Start:         int(math.Floor(p.Start)),
				End:           int(math.Ceil(p.End)),
				Score:         rp.Score,
			}
			byClip[p.ClipID] = match
			order = append(order, match)
		}

		match.Excerpts = append(match.Excerpts, Excerpt{
			ParagraphID: p.ID,
			Text:        p.FullTranscription,
			Speaker:     p.Speaker,
			Start:       int(math.Floor(p.Start)),
			End:         int(math.Ceil(p.End)),
			Score:       rp.Score,
		})
	}

	for _, match := range order {
		sort.SliceStable(match.Excerpts, func(i, j int) bool {
			return match.Excerpts[i].Start < match.Excerpts[j].Start
		})
	}

	return order
}

// WatchURL builds a source player URL seeking a few seconds before the
// paragraph so the viewer catches its lead-in.
func WatchURL(clipURL string, start float64) string {
	t := int(start) - 3
	if t < 0 {
		t = 0
	}
	return clipURL + "&t=" + strconv.Itoa(t)
}

// EmbedURL builds an embeddable player URL scoped to the paragraph's time
// range.
func EmbedURL(videoID string, start, end float64) string {
	return "https://www.youtube.com/embed/" + videoID +
		"?start=" + strconv.Itoa(int(math.Floor(start))) +
		"&end=" + strconv.Itoa(int(math.Ceil(end)))
}
