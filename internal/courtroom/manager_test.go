package courtroom

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gavelgames/gavel/internal/domain"
)

type mockVerdictRepo struct {
	createFn func(ctx context.Context, v *domain.Verdict) error
}

func (m *mockVerdictRepo) Create(ctx context.Context, v *domain.Verdict) error {
	return m.createFn(ctx, v)
}

func (m *mockVerdictRepo) GetBySession(ctx context.Context, sessionID uuid.UUID) (*domain.Verdict, error) {
	return nil, domain.ErrNotFound
}

func (m *mockVerdictRepo) ListRecent(ctx context.Context, limit int) ([]*domain.Verdict, error) {
	return nil, nil
}

type mockTranscriptRepo struct {
	createBatchFn func(ctx context.Context, sessionID uuid.UUID, entries []domain.Entry) error
}

func (m *mockTranscriptRepo) CreateBatch(ctx context.Context, sessionID uuid.UUID, entries []domain.Entry) error {
	return m.createBatchFn(ctx, sessionID, entries)
}

func (m *mockTranscriptRepo) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]domain.Entry, error) {
	return nil, nil
}

type mockArchive struct {
	verdicts    *mockVerdictRepo
	transcripts *mockTranscriptRepo
}

func (m *mockArchive) Verdicts() domain.VerdictRepository       { return m.verdicts }
func (m *mockArchive) Transcripts() domain.TranscriptRepository { return m.transcripts }

type mockPublisher struct {
	mu       sync.Mutex
	channels []string
}

func (m *mockPublisher) Publish(ctx context.Context, channel string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.channels = append(m.channels, channel)
	return nil
}

func (m *mockPublisher) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.channels)
}

func managerGateway(maxSteps int) *fakeGateway {
	return &fakeGateway{
		startFn: func(ctx context.Context) (*domain.CaseStart, error) {
			return testCaseStart(maxSteps), nil
		},
		performFn: func(ctx context.Context, kind domain.ActionKind, params domain.ActionParams) domain.ActionResult {
			return domain.ActionResult{OK: true, Payload: &domain.ActionPayload{JudgeResponse: "Noted."}}
		},
		verdictFn: func(ctx context.Context) (*domain.Verdict, error) {
			return &domain.Verdict{Guilty: true, Reasoning: "The exhibits stand unrebutted.", Score: 40}, nil
		},
	}
}

func TestManagerStartAndGet(t *testing.T) {
	t.Parallel()

	m := NewManager(ManagerConfig{Gateway: managerGateway(8)})
	defer m.Close()

	s, err := m.StartCase(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, m.Len())

	got, err := m.Get(s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = m.Get(uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, m.Discard(s.ID()))
	assert.ErrorIs(t, m.Discard(s.ID()), ErrSessionNotFound)
	assert.Equal(t, 0, m.Len())
}

func TestManagerPublishesEvents(t *testing.T) {
	t.Parallel()

	pub := &mockPublisher{}
	m := NewManager(ManagerConfig{Gateway: managerGateway(8), Publisher: pub})
	defer m.Close()

	s, err := m.StartCase(context.Background())
	require.NoError(t, err)

	// Opening entry plus the state snapshot.
	require.Equal(t, 2, pub.count())
	assert.Equal(t, SessionChannel(s.ID()), pub.channels[0])

	_, err = s.AddressJudge(context.Background(), "Objection.")
	require.NoError(t, err)
	assert.Greater(t, pub.count(), 2)
}

func TestManagerArchivesVerdict(t *testing.T) {
	t.Parallel()

	verdictSaved := make(chan *domain.Verdict, 1)
	transcriptSaved := make(chan int, 1)
	archive := &mockArchive{
		verdicts: &mockVerdictRepo{
			createFn: func(ctx context.Context, v *domain.Verdict) error {
				verdictSaved <- v
				return nil
			},
		},
		transcripts: &mockTranscriptRepo{
			createBatchFn: func(ctx context.Context, sessionID uuid.UUID, entries []domain.Entry) error {
				transcriptSaved <- len(entries)
				return nil
			},
		},
	}

	m := NewManager(ManagerConfig{Gateway: managerGateway(1), Archive: archive})
	defer m.Close()

	s, err := m.StartCase(context.Background())
	require.NoError(t, err)

	_, err = s.AddressJudge(context.Background(), "The defense rests.")
	require.NoError(t, err)

	v, err := s.Verdict(context.Background())
	require.NoError(t, err)

	select {
	case saved := <-verdictSaved:
		assert.Equal(t, v, saved)
		assert.Equal(t, s.ID(), saved.SessionID)
	case <-time.After(2 * time.Second):
		t.Fatal("verdict was not archived")
	}

	select {
	case n := <-transcriptSaved:
		assert.Equal(t, len(s.Snapshot().Transcript), n)
	case <-time.After(2 * time.Second):
		t.Fatal("transcript was not archived")
	}
}
