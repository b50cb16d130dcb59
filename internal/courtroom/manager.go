package courtroom

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gavelgames/gavel/internal/domain"
)

// SessionChannel is the pub/sub channel carrying one session's event stream.
func SessionChannel(id uuid.UUID) string {
	return "session:" + id.String()
}

// ArchiveStore persists concluded sessions.
type ArchiveStore interface {
	Verdicts() domain.VerdictRepository
	Transcripts() domain.TranscriptRepository
}

// Publisher fans session events out to live subscribers.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// Announcer posts a notice when a session concludes.
type Announcer interface {
	AnnounceVerdict(ctx context.Context, snap Snapshot, verdict *domain.Verdict) error
}

// ManagerConfig wires the manager's collaborators. Archive, Publisher and
// Announcer are optional; a nil collaborator disables that side effect.
type ManagerConfig struct {
	Gateway   Gateway
	Archive   ArchiveStore
	Publisher Publisher
	Announcer Announcer

	// IdleAfter is how long an untouched session survives before the sweep
	// removes it. Zero disables sweeping.
	IdleAfter time.Duration
}

// Manager owns the live sessions: it creates them, routes their events to
// the publisher, archives and announces verdicts, and sweeps idle sessions.
type Manager struct {
	gateway   Gateway
	archive   ArchiveStore
	publisher Publisher
	announcer Announcer
	idleAfter time.Duration

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session

	done chan struct{}
}

func NewManager(cfg ManagerConfig) *Manager {
	m := &Manager{
		gateway:   cfg.Gateway,
		archive:   cfg.Archive,
		publisher: cfg.Publisher,
		announcer: cfg.Announcer,
		idleAfter: cfg.IdleAfter,
		sessions:  make(map[uuid.UUID]*Session),
		done:      make(chan struct{}),
	}
	if m.idleAfter > 0 {
		go m.sweep()
	}
	return m
}

// StartCase creates a session, starts its case and registers it. If the
// opening round trip fails the session is discarded and the error returned.
func (m *Manager) StartCase(ctx context.Context) (*Session, error) {
	s := NewSession(m.gateway, m.handleEvent)
	if err := s.Start(ctx); err != nil {
		return nil, fmt.Errorf("courtroom.Manager.StartCase: %w", err)
	}

	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()

	log.Info().Str("session_id", s.ID().String()).Msg("session started")
	return s, nil
}

// Get returns the live session with the given id.
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Discard removes a live session without concluding it.
func (m *Manager) Discard(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close stops the idle sweep. Live sessions are left as they are.
func (m *Manager) Close() {
	close(m.done)
}

// handleEvent is the per-session event sink. Publishing is best effort; a
// verdict additionally triggers archival and announcement in the background
// so the player's final round trip is not held up by storage.
func (m *Manager) handleEvent(e Event) {
	if m.publisher != nil {
		payload, err := json.Marshal(e)
		if err != nil {
			log.Error().Err(err).Str("session_id", e.SessionID.String()).Msg("marshal session event failed")
		} else {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := m.publisher.Publish(ctx, SessionChannel(e.SessionID), payload); err != nil {
				log.Warn().Err(err).Str("session_id", e.SessionID.String()).Msg("publish session event failed")
			}
			cancel()
		}
	}

	if e.Type == EventVerdict && e.Verdict != nil && e.Snapshot != nil {
		go m.concludeSession(e)
	}
}

func (m *Manager) concludeSession(e Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if m.archive != nil {
		if err := m.archive.Verdicts().Create(ctx, e.Verdict); err != nil {
			log.Error().Err(err).Str("session_id", e.SessionID.String()).Msg("archive verdict failed")
		}
		if err := m.archive.Transcripts().CreateBatch(ctx, e.SessionID, e.Snapshot.Transcript); err != nil {
			log.Error().Err(err).Str("session_id", e.SessionID.String()).Msg("archive transcript failed")
		}
	}

	if m.announcer != nil {
		if err := m.announcer.AnnounceVerdict(ctx, *e.Snapshot, e.Verdict); err != nil {
			log.Warn().Err(err).Str("session_id", e.SessionID.String()).Msg("announce verdict failed")
		}
	}

	log.Info().
		Str("session_id", e.SessionID.String()).
		Bool("guilty", e.Verdict.Guilty).
		Float64("score", e.Verdict.Score).
		Msg("session concluded")
}

// sweep drops sessions that have been idle past the configured window.
func (m *Manager) sweep() {
	interval := m.idleAfter / 2
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-m.idleAfter)
			m.mu.Lock()
			for id, s := range m.sessions {
				if s.LastActive().Before(cutoff) {
					delete(m.sessions, id)
					log.Debug().Str("session_id", id.String()).Msg("idle session removed")
				}
			}
			m.mu.Unlock()
		}
	}
}
