// Package courtroom implements the game session state machine: turn budget,
// score and objective tracking, the append-only transcript, and the
// transition into a terminal verdict. Every state-changing action is one
// round trip to the case-simulation service.
package courtroom

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gavelgames/gavel/internal/domain"
)

// Phase is the lifecycle state of a session.
type Phase string

const (
	PhaseNotStarted      Phase = "not_started"
	PhaseInProgress      Phase = "in_progress"
	PhaseAwaitingVerdict Phase = "awaiting_verdict"
	PhaseConcluded       Phase = "concluded"
)

// CanAct reports whether player actions are legal in this phase.
func (p Phase) CanAct() bool {
	return p == PhaseInProgress
}

// Gateway is the round-trip boundary to the case-simulation service.
// Perform never returns a Go error: all failure classes are folded into the
// ActionResult so the pipeline treats them as game events.
type Gateway interface {
	StartCase(ctx context.Context) (*domain.CaseStart, error)
	Perform(ctx context.Context, kind domain.ActionKind, params domain.ActionParams) domain.ActionResult
	Verdict(ctx context.Context) (*domain.Verdict, error)
}

// Session is the aggregate root of one case attempt. All mutation goes
// through the action pipeline; a pending-request guard serializes round
// trips so state is only ever touched by one action at a time. Sessions are
// never reused: starting a new case builds a new Session.
type Session struct {
	id      uuid.UUID
	gateway Gateway
	onEvent EventFunc

	mu             sync.Mutex
	phase          Phase
	pending        bool
	step           int
	maxSteps       int
	caseData       domain.Case
	currentWitness string
	transcript     *Transcript
	stage          Stage
	tracker        *Tracker
	verdict        *domain.Verdict
	createdAt      time.Time
	lastActive     time.Time
}

// NewSession creates a session in the NotStarted phase. onEvent may be nil.
func NewSession(gateway Gateway, onEvent EventFunc) *Session {
	now := time.Now()
	return &Session{
		id:         uuid.New(),
		gateway:    gateway,
		onEvent:    onEvent,
		phase:      PhaseNotStarted,
		transcript: NewTranscript(),
		tracker:    NewTracker(domain.Objective{}),
		createdAt:  now,
		lastActive: now,
	}
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Phase returns the current lifecycle phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// LastActive returns the time of the last completed operation.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Start requests the case data and moves the session into InProgress.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.phase != PhaseNotStarted {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	if s.pending {
		s.mu.Unlock()
		return ErrActionPending
	}
	s.pending = true
	s.mu.Unlock()

	start, err := s.gateway.StartCase(ctx)

	s.mu.Lock()
	s.pending = false
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("courtroom.Session.Start: %w", err)
	}

	gs := start.GameState
	s.caseData = start.Case
	s.step = gs.CurrentStep
	s.maxSteps = gs.MaxSteps
	s.currentWitness = gs.CurrentWitness
	s.tracker = NewTracker(gs.Objective)
	s.phase = PhaseInProgress

	var events []Event
	events = s.say(events, domain.SpeakerJudge, "Court is now in session. The defense may proceed.", domain.EntryNormal)
	events = append(events, s.stateEvent())
	s.touch()
	s.mu.Unlock()

	s.dispatch(events)
	return nil
}

// CallWitness calls a witness to the stand.
func (s *Session) CallWitness(ctx context.Context, witnessName string) (domain.ActionResult, error) {
	return s.act(ctx, domain.ActionCallWitness, domain.ActionParams{WitnessName: witnessName})
}

// AskQuestion questions the witness currently on the stand.
func (s *Session) AskQuestion(ctx context.Context, question string) (domain.ActionResult, error) {
	return s.act(ctx, domain.ActionAskQuestion, domain.ActionParams{Question: question})
}

// PresentEvidence presents an exhibit to the court.
func (s *Session) PresentEvidence(ctx context.Context, evidenceID string) (domain.ActionResult, error) {
	return s.act(ctx, domain.ActionPresentEvidence, domain.ActionParams{EvidenceID: evidenceID})
}

// AddressJudge makes a legal statement to the judge.
func (s *Session) AddressJudge(ctx context.Context, statement string) (domain.ActionResult, error) {
	return s.act(ctx, domain.ActionAddressJudge, domain.ActionParams{Statement: statement})
}

// RequestClue asks the court for a hint.
func (s *Session) RequestClue(ctx context.Context) (domain.ActionResult, error) {
	return s.act(ctx, domain.ActionRequestClue, domain.ActionParams{})
}

// act runs the shared action pipeline: validate phase and guard, spend a
// turn, round trip, apply the result atomically, check the end condition.
// A failed round trip still consumes the turn (the budget is spent on
// attempted actions, not only successful ones) and appends exactly one
// error entry while leaving score and discovery state untouched.
func (s *Session) act(ctx context.Context, kind domain.ActionKind, params domain.ActionParams) (domain.ActionResult, error) {
	s.mu.Lock()
	switch s.phase {
	case PhaseNotStarted:
		s.mu.Unlock()
		return domain.ActionResult{}, ErrNotStarted
	case PhaseAwaitingVerdict, PhaseConcluded:
		s.mu.Unlock()
		return domain.ActionResult{}, ErrTerminal
	case PhaseInProgress:
	}
	if s.pending {
		s.mu.Unlock()
		return domain.ActionResult{}, ErrActionPending
	}
	s.pending = true
	s.step++
	s.mu.Unlock()

	res := s.gateway.Perform(ctx, kind, params)

	s.mu.Lock()
	s.pending = false

	var events []Event
	if res.OK {
		events = s.apply(events, kind, params, res)
	} else {
		msg := "unknown error"
		if res.Err != nil {
			msg = res.Err.Message
		}
		events = s.note(events, domain.SpeakerSystem, "Error: "+msg, domain.EntryError)
	}

	if s.phase == PhaseInProgress && s.step >= s.maxSteps {
		s.phase = PhaseAwaitingVerdict
		events = s.note(events, domain.SpeakerJudge, "Time is up. The court will now deliberate.", domain.EntrySuccess)
	}

	events = append(events, s.stateEvent())
	s.touch()
	s.mu.Unlock()

	s.dispatch(events)
	return res, nil
}

// apply updates transcript, stage and tracker from a successful result, as
// one state transition under the session lock.
func (s *Session) apply(events []Event, kind domain.ActionKind, params domain.ActionParams, res domain.ActionResult) []Event {
	pts := res.PointsEarned
	p := res.Payload
	if p == nil {
		p = &domain.ActionPayload{}
	}

	switch kind {
	case domain.ActionCallWitness:
		events = s.say(events, domain.SpeakerClerk, p.Introduction, domain.EntryNormal)
		events = s.note(events, domain.SpeakerJudge, params.WitnessName+", you may take the stand.", domain.EntrySuccess)
		if pts > 0 {
			events = s.note(events, domain.SpeakerSystem, "+"+formatPoints(pts)+" points for calling a witness", domain.EntrySuccess)
		}
		s.currentWitness = params.WitnessName
		s.tracker.Apply(pts, CategoryWitness, params.WitnessName)

	case domain.ActionAskQuestion:
		events = s.note(events, domain.SpeakerPlayer, params.Question, domain.EntryNormal)

		speaker := s.currentWitness
		if res.GameState != nil && res.GameState.CurrentWitness != "" {
			speaker = res.GameState.CurrentWitness
		}
		if speaker == "" {
			speaker = "Witness"
		}
		events = s.say(events, speaker, p.WitnessResponse, domain.EntryNormal)

		if p.ClueRevealed && p.ClueID != "" {
			text := "Clue discovered: " + p.ClueID
			if pts > 0 {
				text += " (+" + formatPoints(pts) + " points)"
			}
			events = s.note(events, domain.SpeakerSystem, text, domain.EntrySuccess)
			s.tracker.Apply(pts, CategoryClue, p.ClueID)
		} else {
			if pts > 0 {
				events = s.note(events, domain.SpeakerSystem, "+"+formatPoints(pts)+" points for a good question", domain.EntrySuccess)
			}
			s.tracker.Apply(pts, CategoryLegal, "")
		}

	case domain.ActionPresentEvidence:
		events = s.note(events, domain.SpeakerPlayer, "I present evidence: "+p.EvidenceName, domain.EntryNormal)
		events = s.say(events, domain.SpeakerJudge, p.JudgeResponse, domain.EntryNormal)
		if pts > 0 {
			events = s.note(events, domain.SpeakerSystem, "+"+formatPoints(pts)+" points for presenting evidence", domain.EntrySuccess)
		}
		s.tracker.Apply(pts, CategoryEvidence, params.EvidenceID)

	case domain.ActionAddressJudge:
		events = s.note(events, domain.SpeakerPlayer, params.Statement, domain.EntryNormal)
		events = s.say(events, domain.SpeakerJudge, p.JudgeResponse, domain.EntryNormal)
		if pts > 0 {
			events = s.note(events, domain.SpeakerSystem, "+"+formatPoints(pts)+" points for a legal statement", domain.EntrySuccess)
		}
		s.tracker.Apply(pts, CategoryLegal, "")

	case domain.ActionRequestClue:
		events = s.note(events, domain.SpeakerSystem, "Clue discovered: "+p.ClueDescription, domain.EntrySuccess)
		if pts > 0 {
			events = s.note(events, domain.SpeakerSystem, "+"+formatPoints(pts)+" points for discovering a clue", domain.EntrySuccess)
		}
		s.tracker.Apply(pts, CategoryClue, p.ClueID)
	}

	s.reconcile(res.GameState)
	return events
}

// reconcile adopts the service-reported progression values. The service is
// the source of truth, but the local step counter never moves backwards and
// never exceeds the budget.
func (s *Session) reconcile(gs *domain.GameState) {
	if gs == nil {
		return
	}
	if gs.CurrentStep > s.step {
		s.step = gs.CurrentStep
	}
	if gs.MaxSteps > 0 {
		s.maxSteps = gs.MaxSteps
	}
	if s.step > s.maxSteps {
		s.step = s.maxSteps
	}
	if gs.CurrentWitness != "" {
		s.currentWitness = gs.CurrentWitness
	}
}

// Verdict performs the final round trip and concludes the session. It is
// callable once the step budget is exhausted; on failure the session stays
// in AwaitingVerdict and the call may be retried. After the session has
// concluded the stored verdict is returned without contacting the service.
func (s *Session) Verdict(ctx context.Context) (*domain.Verdict, error) {
	s.mu.Lock()
	if s.verdict != nil {
		v := s.verdict
		s.mu.Unlock()
		return v, nil
	}
	if s.phase != PhaseAwaitingVerdict {
		s.mu.Unlock()
		return nil, ErrVerdictNotReady
	}
	if s.pending {
		s.mu.Unlock()
		return nil, ErrActionPending
	}
	s.pending = true
	s.mu.Unlock()

	v, err := s.gateway.Verdict(ctx)

	s.mu.Lock()
	s.pending = false
	if err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("courtroom.Session.Verdict: %w", err)
	}

	v.SessionID = s.id
	s.verdict = v
	s.phase = PhaseConcluded

	var events []Event
	events = s.say(events, domain.SpeakerJudge, verdictText(v), domain.EntryNormal)
	events = s.note(events, domain.SpeakerSystem, "Final Score: "+formatPoints(v.Score)+" points", domain.EntrySuccess)

	snap := s.snapshotLocked()
	events = append(events, Event{Type: EventVerdict, SessionID: s.id, Verdict: v, Snapshot: &snap})
	s.touch()
	s.mu.Unlock()

	s.dispatch(events)
	return v, nil
}

// Snapshot is a read-only view of the session for display and archival.
type Snapshot struct {
	ID                uuid.UUID        `json:"id"`
	Phase             Phase            `json:"phase"`
	Step              int              `json:"step"`
	MaxSteps          int              `json:"max_steps"`
	Score             float64          `json:"score"`
	Objective         domain.Objective `json:"objective"`
	ObjectiveMet      bool             `json:"objective_met"`
	CurrentWitness    string           `json:"current_witness,omitempty"`
	Stage             Stage            `json:"stage"`
	Case              domain.Case      `json:"case"`
	WitnessesCalled   []string         `json:"witnesses_called"`
	EvidencePresented []string         `json:"evidence_presented"`
	CluesDiscovered   []string         `json:"clues_discovered"`
	Transcript        []domain.Entry   `json:"transcript"`
	Verdict           *domain.Verdict  `json:"verdict,omitempty"`
}

// Snapshot returns the current read-only view.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		ID:                s.id,
		Phase:             s.phase,
		Step:              s.step,
		MaxSteps:          s.maxSteps,
		Score:             s.tracker.Score(),
		Objective:         s.tracker.Objective(),
		ObjectiveMet:      s.tracker.MeetsObjective(),
		CurrentWitness:    s.currentWitness,
		Stage:             s.stage,
		Case:              s.caseData,
		WitnessesCalled:   s.tracker.WitnessesCalled(),
		EvidencePresented: s.tracker.EvidencePresented(),
		CluesDiscovered:   s.tracker.CluesDiscovered(),
		Transcript:        s.transcript.Entries(),
		Verdict:           s.verdict,
	}
}

// say updates the stage and appends the same utterance to the transcript as
// one logical step, keeping the stage derivable from the transcript tail.
func (s *Session) say(events []Event, speaker, text string, kind domain.EntryKind) []Event {
	s.stage = Stage{Speaker: speaker, Text: text}
	return s.note(events, speaker, text, kind)
}

func (s *Session) note(events []Event, speaker, text string, kind domain.EntryKind) []Event {
	e := s.transcript.Append(speaker, text, kind)
	return append(events, Event{Type: EventEntry, SessionID: s.id, Entry: &e})
}

func (s *Session) stateEvent() Event {
	snap := s.snapshotLocked()
	return Event{Type: EventState, SessionID: s.id, Snapshot: &snap}
}

func (s *Session) touch() {
	s.lastActive = time.Now()
}

func (s *Session) dispatch(events []Event) {
	if s.onEvent == nil {
		return
	}
	for _, e := range events {
		s.onEvent(e)
	}
}

func verdictText(v *domain.Verdict) string {
	outcome := "NOT GUILTY"
	if v.Guilty {
		outcome = "GUILTY"
	}
	if v.Reasoning == "" {
		return "VERDICT: " + outcome
	}
	return "VERDICT: " + outcome + "\n\n" + v.Reasoning
}

func formatPoints(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
