package v1

import (
	"context"

	"github.com/google/uuid"

	"github.com/gavelgames/gavel/internal/courtroom"
	"github.com/gavelgames/gavel/internal/domain"
)

// SessionManager abstracts the live session registry for handler testing.
// *courtroom.Manager satisfies this interface.
type SessionManager interface {
	StartCase(ctx context.Context) (*courtroom.Session, error)
	Get(id uuid.UUID) (*courtroom.Session, error)
	Discard(id uuid.UUID) error
}

// Roster abstracts the simulation service's roster endpoints for handler
// testing. *sim.Client satisfies this interface.
type Roster interface {
	Witnesses(ctx context.Context) ([]domain.Witness, error)
	EvidenceLocker(ctx context.Context) ([]domain.Evidence, error)
}

// ArchiveStore abstracts the concluded-session archive for handler testing.
// *postgres.Store satisfies this interface.
type ArchiveStore interface {
	Verdicts() domain.VerdictRepository
	Transcripts() domain.TranscriptRepository
}
