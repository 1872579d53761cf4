package services

import (
	"strings"

	"github.com/theptrk/word-steno/internal/core/domain"
	"github.com/theptrk/word-steno/internal/core/ports/driven"
)

// BuildParagraphs converts a provider transcript into domain paragraphs for
// one clip. Each paragraph's full text is its sentence texts joined by a
// single space; a paragraph without sentences gets an empty string.
func BuildParagraphs(clipID string, transcript *driven.Transcript) []*domain.Paragraph {
	paragraphs := make([]*domain.Paragraph, 0, len(transcript.Paragraphs))

	for _, tp := range transcript.Paragraphs {
		sentences := make([]domain.Sentence, len(tp.Sentences))
		texts := make([]string, len(tp.Sentences))
		for i, ts := range tp.Sentences {
			sentences[i] = domain.Sentence{Text: ts.Text, Start: ts.Start, End: ts.End}
			texts[i] = ts.Text
		}

		paragraphs = append(paragraphs, &domain.Paragraph{
			ID:                domain.GenerateID(),
			ClipID:            clipID,
			Start:             tp.Start,
			End:               tp.End,
			Speaker:           tp.Speaker,
			Sentences:         sentences,
			FullTranscription: strings.Join(texts, " "),
		})
	}

	return paragraphs
}

// JoinTranscript renders the clip-level transcript: every paragraph as
// "Speaker: {label}\n{text}", separated by blank lines.
func JoinTranscript(paragraphs []*domain.Paragraph) string {
	blocks := make([]string, len(paragraphs))
	for i, p := range paragraphs {
		blocks[i] = "Speaker: " + p.Speaker + "\n" + p.FullTranscription
	}
	return strings.Join(blocks, "\n\n")
}
