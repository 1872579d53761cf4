package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/lib/pq"

	"github.com/theptrk/word-steno/internal/core/domain"
	"github.com/theptrk/word-steno/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ClipStore = (*ClipStore)(nil)

// ClipStore implements driven.ClipStore using PostgreSQL
type ClipStore struct {
	db *DB
}

// NewClipStore creates a new ClipStore
func NewClipStore(db *DB) *ClipStore {
	return &ClipStore{db: db}
}

const clipColumns = `id, url, video_id, storage_key, storage_url, duration, title, channel_title,
		description, full_transcription, summary, raw_paragraphs, raw_words,
		published_at, created_at, updated_at`

const insertClipQuery = `
	INSERT INTO clips (id, url, video_id, storage_key, storage_url, duration, title, channel_title,
		description, full_transcription, summary, raw_paragraphs, raw_words,
		published_at, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	ON CONFLICT (id) DO UPDATE SET
		url = EXCLUDED.url,
		video_id = EXCLUDED.video_id,
		storage_key = EXCLUDED.storage_key,
		storage_url = EXCLUDED.storage_url,
		duration = EXCLUDED.duration,
		title = EXCLUDED.title,
		channel_title = EXCLUDED.channel_title,
		description = EXCLUDED.description,
		full_transcription = EXCLUDED.full_transcription,
		summary = EXCLUDED.summary,
		raw_paragraphs = EXCLUDED.raw_paragraphs,
		raw_words = EXCLUDED.raw_words,
		published_at = EXCLUDED.published_at,
		updated_at = EXCLUDED.updated_at
`

func clipArgs(clip *domain.Clip) []any {
	return []any{
		clip.ID,
		clip.URL,
		clip.VideoID,
		clip.StorageKey,
		clip.StorageURL,
		clip.Duration,
		clip.Title,
		clip.ChannelTitle,
		clip.Description,
		clip.FullTranscription,
		clip.Summary,
		nullJSON(clip.RawParagraphs),
		nullJSON(clip.RawWords),
		NullTime(clip.PublishedAt),
		clip.CreatedAt,
		clip.UpdatedAt,
	}
}

func nullJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}

// Save creates or updates a clip
func (s *ClipStore) Save(ctx context.Context, clip *domain.Clip) error {
	_, err := s.db.ExecContext(ctx, insertClipQuery, clipArgs(clip)...)
	return mapUniqueViolation(err)
}

// SaveIngestion persists a clip with its paragraphs and chapters in a
// single transaction
func (s *ClipStore) SaveIngestion(ctx context.Context, clip *domain.Clip, paragraphs []*domain.Paragraph, chapters []*domain.Chapter) error {
	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, insertClipQuery, clipArgs(clip)...); err != nil {
			return mapUniqueViolation(err)
		}
		if err := insertParagraphs(ctx, tx, paragraphs); err != nil {
			return err
		}
		return insertChapters(ctx, tx, chapters)
	})
}

// Get retrieves a clip by ID
func (s *ClipStore) Get(ctx context.Context, id string) (*domain.Clip, error) {
	query := `SELECT ` + clipColumns + ` FROM clips WHERE id = $1`
	return scanClip(s.db.QueryRowContext(ctx, query, id))
}

// GetByVideoID retrieves a clip by its external video identifier
func (s *ClipStore) GetByVideoID(ctx context.Context, videoID string) (*domain.Clip, error) {
	query := `SELECT ` + clipColumns + ` FROM clips WHERE video_id = $1 AND video_id <> ''`
	return scanClip(s.db.QueryRowContext(ctx, query, videoID))
}

// List retrieves clips ordered by creation time, newest first
func (s *ClipStore) List(ctx context.Context, limit, offset int) ([]*domain.Clip, error) {
	query := `SELECT ` + clipColumns + ` FROM clips ORDER BY created_at DESC`
	return s.queryClips(ctx, paginate(query, limit, offset))
}

// ListByChannel retrieves clips for one channel, most recently published first
func (s *ClipStore) ListByChannel(ctx context.Context, channelTitle string, limit, offset int) ([]*domain.Clip, error) {
	query := `SELECT ` + clipColumns + ` FROM clips WHERE channel_title = $1 ORDER BY published_at DESC NULLS LAST`
	return s.queryClips(ctx, paginate(query, limit, offset), channelTitle)
}

// DistinctChannels returns every channel title with at least one clip
func (s *ClipStore) DistinctChannels(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT channel_title FROM clips WHERE channel_title <> '' ORDER BY channel_title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var channels []string
	for rows.Next() {
		var channel string
		if err := rows.Scan(&channel); err != nil {
			return nil, err
		}
		channels = append(channels, channel)
	}
	return channels, rows.Err()
}

// UpdateVideoID backfills the external video identifier of a clip
func (s *ClipStore) UpdateVideoID(ctx context.Context, id, videoID string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE clips SET video_id = $2, updated_at = now() WHERE id = $1`, id, videoID)
	if err != nil {
		return mapUniqueViolation(err)
	}
	return requireRow(result)
}

// Delete deletes a clip. Paragraphs and chapters cascade.
func (s *ClipStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM clips WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func (s *ClipStore) queryClips(ctx context.Context, query string, args ...any) ([]*domain.Clip, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clips []*domain.Clip
	for rows.Next() {
		clip, err := scanClipRow(rows)
		if err != nil {
			return nil, err
		}
		clips = append(clips, clip)
	}
	return clips, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClipFields(row rowScanner) (*domain.Clip, error) {
	var clip domain.Clip
	var rawParagraphs, rawWords []byte
	var publishedAt sql.NullTime

	err := row.Scan(
		&clip.ID,
		&clip.URL,
		&clip.VideoID,
		&clip.StorageKey,
		&clip.StorageURL,
		&clip.Duration,
		&clip.Title,
		&clip.ChannelTitle,
		&clip.Description,
		&clip.FullTranscription,
		&clip.Summary,
		&rawParagraphs,
		&rawWords,
		&publishedAt,
		&clip.CreatedAt,
		&clip.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	clip.RawParagraphs = rawParagraphs
	clip.RawWords = rawWords
	clip.PublishedAt = TimePtr(publishedAt)
	return &clip, nil
}

func scanClip(row *sql.Row) (*domain.Clip, error) {
	clip, err := scanClipFields(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return clip, err
}

func scanClipRow(rows *sql.Rows) (*domain.Clip, error) {
	return scanClipFields(rows)
}

// paginate appends LIMIT/OFFSET clauses. limit <= 0 means unbounded.
func paginate(query string, limit, offset int) string {
	if limit > 0 {
		query += " LIMIT " + strconv.Itoa(limit)
	}
	if offset > 0 {
		query += " OFFSET " + strconv.Itoa(offset)
	}
	return query
}

// requireRow maps zero affected rows to ErrNotFound
func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// mapUniqueViolation maps Postgres unique violations to ErrAlreadyExists
func mapUniqueViolation(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return domain.ErrAlreadyExists
	}
	return err
}
