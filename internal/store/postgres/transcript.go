package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gavelgames/gavel/internal/domain"
)

type TranscriptRepo struct {
	pool *pgxpool.Pool
}

func NewTranscriptRepo(pool *pgxpool.Pool) *TranscriptRepo {
	return &TranscriptRepo{pool: pool}
}

// CreateBatch writes the full transcript of one session in a single batch.
// Position preserves insertion order independent of entry timestamps.
func (r *TranscriptRepo) CreateBatch(ctx context.Context, sessionID uuid.UUID, entries []domain.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i, e := range entries {
		batch.Queue(
			`INSERT INTO transcript_entries (session_id, position, speaker, text, kind, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			sessionID, i, e.Speaker, e.Text, string(e.Kind), e.At,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer func() { _ = results.Close() }()

	for range entries {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("transcriptRepo.CreateBatch: %w", err)
		}
	}

	return nil
}

func (r *TranscriptRepo) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]domain.Entry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT speaker, text, kind, created_at
		 FROM transcript_entries WHERE session_id = $1
		 ORDER BY position ASC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("transcriptRepo.ListBySession: %w", err)
	}
	defer rows.Close()

	var entries []domain.Entry
	for rows.Next() {
		var e domain.Entry
		var kind string

		err = rows.Scan(&e.Speaker, &e.Text, &kind, &e.At)
		if err != nil {
			return nil, fmt.Errorf("transcriptRepo.ListBySession: scan: %w", err)
		}
		e.Kind = domain.EntryKind(kind)
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("transcriptRepo.ListBySession: rows: %w", err)
	}

	return entries, nil
}
