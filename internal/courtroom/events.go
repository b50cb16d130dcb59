package courtroom

import (
	"github.com/google/uuid"

	"github.com/gavelgames/gavel/internal/domain"
)

// EventType identifies a session event published to live subscribers.
type EventType string

const (
	// EventEntry: one transcript entry was appended.
	EventEntry EventType = "entry"
	// EventState: an action pipeline completed; Snapshot carries the new state.
	EventState EventType = "state"
	// EventVerdict: the session concluded; Verdict and Snapshot are both set.
	EventVerdict EventType = "verdict"
)

// Event is one session state change. Exactly one of Entry, Snapshot or
// Verdict+Snapshot is populated depending on Type.
type Event struct {
	Type      EventType       `json:"type"`
	SessionID uuid.UUID       `json:"session_id"`
	Entry     *domain.Entry   `json:"entry,omitempty"`
	Snapshot  *Snapshot       `json:"snapshot,omitempty"`
	Verdict   *domain.Verdict `json:"verdict,omitempty"`
}

// EventFunc receives session events. Called outside the session lock, in
// emission order.
type EventFunc func(Event)
