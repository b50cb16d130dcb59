package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gavelgames/gavel/internal/domain"
)

type VerdictRepo struct {
	pool *pgxpool.Pool
}

func NewVerdictRepo(pool *pgxpool.Pool) *VerdictRepo {
	return &VerdictRepo{pool: pool}
}

func (r *VerdictRepo) Create(ctx context.Context, v *domain.Verdict) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO verdicts (session_id, guilty, reasoning, score,
		                       evidence_presented, witnesses_examined, clues_discovered, objections_raised,
		                       rendered_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		v.SessionID, v.Guilty, v.Reasoning, v.Score,
		v.Performance.EvidencePresented, v.Performance.WitnessesExamined,
		v.Performance.CluesDiscovered, v.Performance.ObjectionsRaised,
		v.RenderedAt,
	)
	if err != nil {
		return fmt.Errorf("verdictRepo.Create: %w", err)
	}

	return nil
}

func (r *VerdictRepo) GetBySession(ctx context.Context, sessionID uuid.UUID) (*domain.Verdict, error) {
	var v domain.Verdict

	err := r.pool.QueryRow(ctx,
		`SELECT session_id, guilty, reasoning, score,
		        evidence_presented, witnesses_examined, clues_discovered, objections_raised,
		        rendered_at
		 FROM verdicts WHERE session_id = $1`,
		sessionID,
	).Scan(&v.SessionID, &v.Guilty, &v.Reasoning, &v.Score,
		&v.Performance.EvidencePresented, &v.Performance.WitnessesExamined,
		&v.Performance.CluesDiscovered, &v.Performance.ObjectionsRaised,
		&v.RenderedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("verdictRepo.GetBySession: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("verdictRepo.GetBySession: %w", err)
	}

	return &v, nil
}

func (r *VerdictRepo) ListRecent(ctx context.Context, limit int) ([]*domain.Verdict, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT session_id, guilty, reasoning, score,
		        evidence_presented, witnesses_examined, clues_discovered, objections_raised,
		        rendered_at
		 FROM verdicts
		 ORDER BY rendered_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("verdictRepo.ListRecent: %w", err)
	}
	defer rows.Close()

	var verdicts []*domain.Verdict
	for rows.Next() {
		var v domain.Verdict

		err = rows.Scan(&v.SessionID, &v.Guilty, &v.Reasoning, &v.Score,
			&v.Performance.EvidencePresented, &v.Performance.WitnessesExamined,
			&v.Performance.CluesDiscovered, &v.Performance.ObjectionsRaised,
			&v.RenderedAt)
		if err != nil {
			return nil, fmt.Errorf("verdictRepo.ListRecent: scan: %w", err)
		}
		verdicts = append(verdicts, &v)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("verdictRepo.ListRecent: rows: %w", err)
	}

	return verdicts, nil
}
