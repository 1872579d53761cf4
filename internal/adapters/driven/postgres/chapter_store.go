package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/theptrk/word-steno/internal/core/domain"
	"github.com/theptrk/word-steno/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ChapterStore = (*ChapterStore)(nil)

// ChapterStore implements driven.ChapterStore using PostgreSQL
type ChapterStore struct {
	db *DB
}

// NewChapterStore creates a new ChapterStore
func NewChapterStore(db *DB) *ChapterStore {
	return &ChapterStore{db: db}
}

const insertChapterQuery = `
	INSERT INTO chapters (id, clip_id, title, start_time, paragraphs, chapter_transcription, prompt, summary, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (id) DO UPDATE SET
		title = EXCLUDED.title,
		start_time = EXCLUDED.start_time,
		paragraphs = EXCLUDED.paragraphs,
		chapter_transcription = EXCLUDED.chapter_transcription,
		prompt = EXCLUDED.prompt,
		summary = EXCLUDED.summary
`

// insertChapters writes chapters through the given transaction. Shared with
// ClipStore.SaveIngestion.
func insertChapters(ctx context.Context, tx *sql.Tx, chapters []*domain.Chapter) error {
	if len(chapters) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, insertChapterQuery)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range chapters {
		paragraphsJSON, err := json.Marshal(c.Paragraphs)
		if err != nil {
			return err
		}
		_, err = stmt.ExecContext(ctx,
			c.ID,
			c.ClipID,
			c.Title,
			c.Start,
			paragraphsJSON,
			c.ChapterTranscription,
			c.Prompt,
			c.Summary,
			c.CreatedAt,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// SaveBatch saves multiple chapters in a transaction
func (s *ChapterStore) SaveBatch(ctx context.Context, chapters []*domain.Chapter) error {
	if len(chapters) == 0 {
		return nil
	}
	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		return insertChapters(ctx, tx, chapters)
	})
}

// GetByClip retrieves all chapters for a clip ordered by start time
func (s *ChapterStore) GetByClip(ctx context.Context, clipID string) ([]*domain.Chapter, error) {
	query := `
		SELECT id, clip_id, title, start_time, paragraphs, chapter_transcription, prompt, summary, created_at
		FROM chapters
		WHERE clip_id = $1
		ORDER BY start_time
	`
	rows, err := s.db.QueryContext(ctx, query, clipID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chapters []*domain.Chapter
	for rows.Next() {
		var c domain.Chapter
		var paragraphsJSON []byte
		err := rows.Scan(
			&c.ID,
			&c.ClipID,
			&c.Title,
			&c.Start,
			&paragraphsJSON,
			&c.ChapterTranscription,
			&c.Prompt,
			&c.Summary,
			&c.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if len(paragraphsJSON) > 0 {
			if err := json.Unmarshal(paragraphsJSON, &c.Paragraphs); err != nil {
				return nil, err
			}
		}
		chapters = append(chapters, &c)
	}
	return chapters, rows.Err()
}

// DeleteByClip deletes every chapter of a clip
func (s *ChapterStore) DeleteByClip(ctx context.Context, clipID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM chapters WHERE clip_id = $1`, clipID)
	return err
}
