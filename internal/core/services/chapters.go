package services

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/theptrk/word-steno/internal/core/domain"
	"github.com/theptrk/word-steno/internal/runtime"
)

// ChapterAggregator slices a clip's paragraphs into description-declared
// chapters and summarizes each one.
type ChapterAggregator struct {
	services *runtime.Services
	logger   *slog.Logger
}

// NewChapterAggregator creates a new ChapterAggregator
func NewChapterAggregator(services *runtime.Services, logger *slog.Logger) *ChapterAggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChapterAggregator{services: services, logger: logger}
}

// BuildChapters extracts chapter markers from the clip description and
// builds one chapter per marker: the paragraphs whose start falls in the
// chapter's half-open range (value copies, frozen at build time), their
// aggregated transcript, and a generated summary. A description without
// markers yields no chapters. A failed summarization does not fail the
// build: the chapter is kept with its attempted prompt and an empty
// summary.
func (a *ChapterAggregator) BuildChapters(ctx context.Context, clip *domain.Clip, paragraphs []*domain.Paragraph) []*domain.Chapter {
	markers := domain.ExtractChapterMarkers(clip.Description)
	if len(markers) == 0 {
		return nil
	}

	summarizer := a.services.Summarizer()
	now := time.Now()

	chapters := make([]*domain.Chapter, 0, len(markers))
	for _, r := range domain.ChapterRanges(markers, clip.Duration) {
		var copies []domain.Paragraph
		for _, p := range paragraphs {
			if r.Contains(p.Start) {
				copies = append(copies, *p)
			}
		}

		var blocks []string
		for _, p := range copies {
			blocks = append(blocks, "Speaker: "+p.Speaker+"\n"+p.FullTranscription)
		}
		transcription := strings.Join(blocks, "\n\n")

		prompt := chapterPrompt(transcription, speakerList(copies), r.Title)

		var summary string
		if summarizer == nil {
			a.logger.Warn("no summarizer configured, skipping chapter summary",
				"clip_id", clip.ID, "chapter", r.Title)
		} else if text, err := summarizer.Summarize(ctx, prompt); err != nil {
			a.logger.Error("chapter summarization failed",
				"clip_id", clip.ID, "chapter", r.Title, "error", err)
		} else {
			summary = text
		}

		chapters = append(chapters, &domain.Chapter{
			ID:                   domain.GenerateID(),
			ClipID:               clip.ID,
			Title:                r.Title,
			Start:                float64(r.Start),
			Paragraphs:           copies,
			ChapterTranscription: transcription,
			Prompt:               prompt,
			Summary:              summary,
			CreatedAt:            now,
		})
	}

	return chapters
}

// speakerList renders the distinct speaker labels of a chapter as
// "'A', 'B'", sorted so the same paragraphs always produce the same prompt.
func speakerList(paragraphs []domain.Paragraph) string {
	seen := make(map[string]bool)
	var labels []string
	for _, p := range paragraphs {
		if !seen[p.Speaker] {
			seen[p.Speaker] = true
			labels = append(labels, p.Speaker)
		}
	}
	sort.Strings(labels)

	quoted := make([]string, len(labels))
	for i, label := range labels {
		quoted[i] = "'" + label + "'"
	}
	return strings.Join(quoted, ", ")
}

func chapterPrompt(transcription, speakers, topic string) string {
	var b strings.Builder
	b.WriteString("The following is a transcript of a conversation between ")
	b.WriteString(speakers)
	b.WriteString(" on the topic \"")
	b.WriteString(topic)
	b.WriteString("\". Summarize the most important points as a short bulleted list.\n\n")
	b.WriteString(transcription)
	return b.String()
}
