package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Performance summarizes what the player did over the whole session. The
// counters mirror the session's discovery sets and are reported by the
// simulation service alongside the verdict.
type Performance struct {
	EvidencePresented int `json:"evidence_presented"`
	WitnessesExamined int `json:"witnesses_examined"`
	CluesDiscovered   int `json:"clues_discovered"`
	ObjectionsRaised  int `json:"objections_raised"`
}

// Verdict is the terminal artifact of a session. Created exactly once,
// immutable thereafter.
type Verdict struct {
	SessionID   uuid.UUID   `json:"session_id"`
	Guilty      bool        `json:"guilty"`
	Reasoning   string      `json:"reasoning"`
	Score       float64     `json:"score"`
	Performance Performance `json:"player_performance"`
	RenderedAt  time.Time   `json:"rendered_at"`
}

// VerdictRepository archives rendered verdicts.
type VerdictRepository interface {
	Create(ctx context.Context, v *Verdict) error
	GetBySession(ctx context.Context, sessionID uuid.UUID) (*Verdict, error)
	ListRecent(ctx context.Context, limit int) ([]*Verdict, error)
}
