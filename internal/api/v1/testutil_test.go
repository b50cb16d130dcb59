package v1_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/gavelgames/gavel/internal/courtroom"
	"github.com/gavelgames/gavel/internal/domain"
	"github.com/gavelgames/gavel/internal/server/middleware"
)

// ---------------------------------------------------------------------------
// Context helpers: inject the ticket-bound session ID for DoCtx
// ---------------------------------------------------------------------------

func sessionCtx(sessionID uuid.UUID) context.Context {
	return context.WithValue(context.Background(), middleware.ContextKeySessionID, sessionID)
}

// ---------------------------------------------------------------------------
// Fake gateway driving real courtroom sessions
// ---------------------------------------------------------------------------

type fakeGateway struct {
	startFn   func(ctx context.Context) (*domain.CaseStart, error)
	performFn func(ctx context.Context, kind domain.ActionKind, params domain.ActionParams) domain.ActionResult
	verdictFn func(ctx context.Context) (*domain.Verdict, error)
}

func (g *fakeGateway) StartCase(ctx context.Context) (*domain.CaseStart, error) {
	return g.startFn(ctx)
}

func (g *fakeGateway) Perform(ctx context.Context, kind domain.ActionKind, params domain.ActionParams) domain.ActionResult {
	return g.performFn(ctx, kind, params)
}

func (g *fakeGateway) Verdict(ctx context.Context) (*domain.Verdict, error) {
	return g.verdictFn(ctx)
}

func defaultGateway(maxSteps int) *fakeGateway {
	return &fakeGateway{
		startFn: func(_ context.Context) (*domain.CaseStart, error) {
			return &domain.CaseStart{
				Case: domain.Case{
					ID:    "case_001",
					Title: "The Missing Necklace",
					Witnesses: []domain.Witness{
						{Name: "Alice Monroe", Role: "curator"},
					},
				},
				GameState: domain.GameState{
					MaxSteps:  maxSteps,
					Objective: domain.Objective{TargetScore: 80, MinClues: 3, MinEvidence: 2, MinWitnesses: 2},
				},
			}, nil
		},
		performFn: func(_ context.Context, _ domain.ActionKind, _ domain.ActionParams) domain.ActionResult {
			return domain.ActionResult{
				OK:           true,
				PointsEarned: 5,
				Payload:      &domain.ActionPayload{JudgeResponse: "Noted."},
			}
		},
		verdictFn: func(_ context.Context) (*domain.Verdict, error) {
			return &domain.Verdict{Guilty: false, Reasoning: "Reasonable doubt remains.", Score: 85}, nil
		},
	}
}

func newManager(gw *fakeGateway) *courtroom.Manager {
	return courtroom.NewManager(courtroom.ManagerConfig{Gateway: gw})
}

// ---------------------------------------------------------------------------
// Mock Roster
// ---------------------------------------------------------------------------

type mockRoster struct {
	witnessesFunc func(ctx context.Context) ([]domain.Witness, error)
	evidenceFunc  func(ctx context.Context) ([]domain.Evidence, error)
}

func (m *mockRoster) Witnesses(ctx context.Context) ([]domain.Witness, error) {
	return m.witnessesFunc(ctx)
}

func (m *mockRoster) EvidenceLocker(ctx context.Context) ([]domain.Evidence, error) {
	return m.evidenceFunc(ctx)
}

// ---------------------------------------------------------------------------
// Mock ArchiveStore
// ---------------------------------------------------------------------------

type mockVerdictRepo struct {
	createFunc       func(ctx context.Context, v *domain.Verdict) error
	getBySessionFunc func(ctx context.Context, sessionID uuid.UUID) (*domain.Verdict, error)
	listRecentFunc   func(ctx context.Context, limit int) ([]*domain.Verdict, error)
}

func (m *mockVerdictRepo) Create(ctx context.Context, v *domain.Verdict) error {
	return m.createFunc(ctx, v)
}

func (m *mockVerdictRepo) GetBySession(ctx context.Context, sessionID uuid.UUID) (*domain.Verdict, error) {
	return m.getBySessionFunc(ctx, sessionID)
}

func (m *mockVerdictRepo) ListRecent(ctx context.Context, limit int) ([]*domain.Verdict, error) {
	return m.listRecentFunc(ctx, limit)
}

type mockTranscriptRepo struct {
	createBatchFunc   func(ctx context.Context, sessionID uuid.UUID, entries []domain.Entry) error
	listBySessionFunc func(ctx context.Context, sessionID uuid.UUID) ([]domain.Entry, error)
}

func (m *mockTranscriptRepo) CreateBatch(ctx context.Context, sessionID uuid.UUID, entries []domain.Entry) error {
	return m.createBatchFunc(ctx, sessionID, entries)
}

func (m *mockTranscriptRepo) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]domain.Entry, error) {
	return m.listBySessionFunc(ctx, sessionID)
}

type mockArchive struct {
	verdicts    *mockVerdictRepo
	transcripts *mockTranscriptRepo
}

func (m *mockArchive) Verdicts() domain.VerdictRepository       { return m.verdicts }
func (m *mockArchive) Transcripts() domain.TranscriptRepository { return m.transcripts }
