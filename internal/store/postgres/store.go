// Package postgres implements the archive store for concluded sessions.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gavelgames/gavel/internal/domain"
)

type Store struct {
	pool        *pgxpool.Pool
	verdicts    *VerdictRepo
	transcripts *TranscriptRepo
}

func New(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse config: %w", err)
	}

	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	return &Store{
		pool:        pool,
		verdicts:    NewVerdictRepo(pool),
		transcripts: NewTranscriptRepo(pool),
	}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Verdicts() domain.VerdictRepository       { return s.verdicts }
func (s *Store) Transcripts() domain.TranscriptRepository { return s.transcripts }
