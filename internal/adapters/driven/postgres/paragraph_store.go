package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/theptrk/word-steno/internal/core/domain"
	"github.com/theptrk/word-steno/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ParagraphStore = (*ParagraphStore)(nil)

// ParagraphStore implements driven.ParagraphStore using PostgreSQL.
// Lexical search uses the built-in full-text machinery; vector search uses
// the pgvector extension.
type ParagraphStore struct {
	db *DB
}

// NewParagraphStore creates a new ParagraphStore
func NewParagraphStore(db *DB) *ParagraphStore {
	return &ParagraphStore{db: db}
}

const insertParagraphQuery = `
	INSERT INTO paragraphs (id, clip_id, start_time, end_time, speaker, sentences, full_transcription, embedding)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (id) DO UPDATE SET
		start_time = EXCLUDED.start_time,
		end_time = EXCLUDED.end_time,
		speaker = EXCLUDED.speaker,
		sentences = EXCLUDED.sentences,
		full_transcription = EXCLUDED.full_transcription,
		embedding = EXCLUDED.embedding
`

// insertParagraphs writes paragraphs through the given transaction. Shared
// with ClipStore.SaveIngestion so ingest lands in one transaction.
func insertParagraphs(ctx context.Context, tx *sql.Tx, paragraphs []*domain.Paragraph) error {
	if len(paragraphs) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, insertParagraphQuery)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range paragraphs {
		args, err := paragraphArgs(p)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return err
		}
	}
	return nil
}

func paragraphArgs(p *domain.Paragraph) ([]any, error) {
	sentencesJSON, err := json.Marshal(p.Sentences)
	if err != nil {
		return nil, err
	}

	var embedding any
	if p.Embedding != nil {
		embedding = encodeVector(p.Embedding)
	}

	return []any{
		p.ID,
		p.ClipID,
		p.Start,
		p.End,
		p.Speaker,
		sentencesJSON,
		p.FullTranscription,
		embedding,
	}, nil
}

// SaveBatch saves multiple paragraphs in a transaction
func (s *ParagraphStore) SaveBatch(ctx context.Context, paragraphs []*domain.Paragraph) error {
	if len(paragraphs) == 0 {
		return nil
	}
	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		return insertParagraphs(ctx, tx, paragraphs)
	})
}

const paragraphColumns = `id, clip_id, start_time, end_time, speaker, sentences, full_transcription, embedding::text`

// Get retrieves a paragraph by ID
func (s *ParagraphStore) Get(ctx context.Context, id string) (*domain.Paragraph, error) {
	query := `SELECT ` + paragraphColumns + ` FROM paragraphs WHERE id = $1`
	p, err := scanParagraph(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return p, err
}

// GetByClip retrieves all paragraphs for a clip ordered by start time
func (s *ParagraphStore) GetByClip(ctx context.Context, clipID string) ([]*domain.Paragraph, error) {
	query := `SELECT ` + paragraphColumns + ` FROM paragraphs WHERE clip_id = $1 ORDER BY start_time`
	rows, err := s.db.QueryContext(ctx, query, clipID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectParagraphs(rows)
}

// GetWithoutEmbedding retrieves paragraphs lacking an embedding
func (s *ParagraphStore) GetWithoutEmbedding(ctx context.Context, clipID string, limit int) ([]*domain.Paragraph, error) {
	query := `SELECT ` + paragraphColumns + ` FROM paragraphs WHERE embedding IS NULL`
	args := []any{}
	if clipID != "" {
		query += ` AND clip_id = $1`
		args = append(args, clipID)
	}
	query = paginate(query+` ORDER BY id`, limit, 0)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectParagraphs(rows)
}

// UpdateEmbedding stores the embedding of one paragraph
func (s *ParagraphStore) UpdateEmbedding(ctx context.Context, id string, embedding []float32) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE paragraphs SET embedding = $2 WHERE id = $1`, id, encodeVector(embedding))
	if err != nil {
		return err
	}
	return requireRow(result)
}

// RelabelParagraph renames the speaker of a single paragraph
func (s *ParagraphStore) RelabelParagraph(ctx context.Context, clipID, paragraphID, newLabel string) (int, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE paragraphs SET speaker = $3 WHERE id = $2 AND clip_id = $1`,
		clipID, paragraphID, newLabel)
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, domain.ErrNotFound
	}
	return int(n), nil
}

// RelabelSpeaker renames every paragraph in the clip carrying oldLabel
func (s *ParagraphStore) RelabelSpeaker(ctx context.Context, clipID, oldLabel, newLabel string) (int, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE paragraphs SET speaker = $3 WHERE clip_id = $1 AND speaker = $2`,
		clipID, oldLabel, newLabel)
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	return int(n), err
}

// DistinctSpeakers returns the distinct speaker labels of a clip
func (s *ParagraphStore) DistinctSpeakers(ctx context.Context, clipID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT speaker FROM paragraphs WHERE clip_id = $1 ORDER BY speaker`, clipID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var speakers []string
	for rows.Next() {
		var speaker string
		if err := rows.Scan(&speaker); err != nil {
			return nil, err
		}
		speakers = append(speakers, speaker)
	}
	return speakers, rows.Err()
}

// SearchText ranks paragraphs by full-text relevance against the query,
// best first, joined with their clips
func (s *ParagraphStore) SearchText(ctx context.Context, query string, limit int) ([]*domain.RankedParagraph, error) {
	sqlQuery := `
		SELECT ` + prefixed("p", paragraphColumns) + `,
			` + prefixed("c", clipColumns) + `,
			ts_rank(to_tsvector('english', p.full_transcription), plainto_tsquery('english', $1)) AS rank
		FROM paragraphs p
		JOIN clips c ON c.id = p.clip_id
		WHERE to_tsvector('english', p.full_transcription) @@ plainto_tsquery('english', $1)
		ORDER BY rank DESC
	`
	return s.queryRanked(ctx, paginate(sqlQuery, limit, 0), query)
}

// NearestByEmbedding returns the limit paragraphs closest to the query
// embedding by L2 distance, nearest first, joined with their clips
func (s *ParagraphStore) NearestByEmbedding(ctx context.Context, embedding []float32, limit int) ([]*domain.RankedParagraph, error) {
	if limit <= 0 {
		limit = domain.DefaultVectorLimit
	}
	sqlQuery := `
		SELECT ` + prefixed("p", paragraphColumns) + `,
			` + prefixed("c", clipColumns) + `,
			p.embedding <-> $1 AS distance
		FROM paragraphs p
		JOIN clips c ON c.id = p.clip_id
		WHERE p.embedding IS NOT NULL
		ORDER BY distance
	`
	return s.queryRanked(ctx, paginate(sqlQuery, limit, 0), encodeVector(embedding))
}

func (s *ParagraphStore) queryRanked(ctx context.Context, query string, args ...any) ([]*domain.RankedParagraph, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ranked []*domain.RankedParagraph
	for rows.Next() {
		rp, err := scanRankedParagraph(rows)
		if err != nil {
			return nil, err
		}
		ranked = append(ranked, rp)
	}
	return ranked, rows.Err()
}

func scanParagraphFields(row rowScanner, extra ...any) (*domain.Paragraph, error) {
	var p domain.Paragraph
	var sentencesJSON []byte
	var embeddingText sql.NullString

	dest := []any{
		&p.ID,
		&p.ClipID,
		&p.Start,
		&p.End,
		&p.Speaker,
		&sentencesJSON,
		&p.FullTranscription,
		&embeddingText,
	}
	dest = append(dest, extra...)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	if len(sentencesJSON) > 0 {
		if err := json.Unmarshal(sentencesJSON, &p.Sentences); err != nil {
			return nil, err
		}
	}
	if embeddingText.Valid {
		embedding, err := parseVector(embeddingText.String)
		if err != nil {
			return nil, err
		}
		p.Embedding = embedding
	}
	return &p, nil
}

func scanParagraph(row rowScanner) (*domain.Paragraph, error) {
	return scanParagraphFields(row)
}

func collectParagraphs(rows *sql.Rows) ([]*domain.Paragraph, error) {
	var paragraphs []*domain.Paragraph
	for rows.Next() {
		p, err := scanParagraphFields(rows)
		if err != nil {
			return nil, err
		}
		paragraphs = append(paragraphs, p)
	}
	return paragraphs, rows.Err()
}

// scanRankedParagraph reads a paragraph, its clip and the trailing score
// column from a joined search row.
func scanRankedParagraph(rows *sql.Rows) (*domain.RankedParagraph, error) {
	var p domain.Paragraph
	var sentencesJSON []byte
	var embeddingText sql.NullString

	var clip domain.Clip
	var rawParagraphs, rawWords []byte
	var publishedAt sql.NullTime

	var score float64

	err := rows.Scan(
		&p.ID, &p.ClipID, &p.Start, &p.End, &p.Speaker, &sentencesJSON, &p.FullTranscription, &embeddingText,
		&clip.ID, &clip.URL, &clip.VideoID, &clip.StorageKey, &clip.StorageURL, &clip.Duration,
		&clip.Title, &clip.ChannelTitle, &clip.Description, &clip.FullTranscription, &clip.Summary,
		&rawParagraphs, &rawWords, &publishedAt, &clip.CreatedAt, &clip.UpdatedAt,
		&score,
	)
	if err != nil {
		return nil, err
	}

	if len(sentencesJSON) > 0 {
		if err := json.Unmarshal(sentencesJSON, &p.Sentences); err != nil {
			return nil, err
		}
	}
	if embeddingText.Valid {
		embedding, err := parseVector(embeddingText.String)
		if err != nil {
			return nil, err
		}
		p.Embedding = embedding
	}

	clip.RawParagraphs = rawParagraphs
	clip.RawWords = rawWords
	clip.PublishedAt = TimePtr(publishedAt)

	return &domain.RankedParagraph{Paragraph: &p, Clip: &clip, Score: score}, nil
}

// prefixed qualifies a comma-separated column list with a table alias.
func prefixed(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, col := range parts {
		parts[i] = alias + "." + strings.TrimSpace(col)
	}
	return strings.Join(parts, ", ")
}
