package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EntryKind tags a transcript entry for display and audit purposes.
type EntryKind string

const (
	EntryNormal  EntryKind = "normal"
	EntrySuccess EntryKind = "success"
	EntryError   EntryKind = "error"
)

// Well-known speakers. Witness entries use the witness name directly.
const (
	SpeakerPlayer = "You"
	SpeakerJudge  = "Judge"
	SpeakerClerk  = "Clerk"
	SpeakerSystem = "System"
)

// Entry is one line of the courtroom transcript. Entries are append-only;
// insertion order is the display order and is never reordered or deduplicated.
type Entry struct {
	Speaker string    `json:"speaker"`
	Text    string    `json:"text"`
	Kind    EntryKind `json:"kind"`
	At      time.Time `json:"at"`
}

// TranscriptRepository archives the full transcript of a concluded session.
type TranscriptRepository interface {
	CreateBatch(ctx context.Context, sessionID uuid.UUID, entries []Entry) error
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]Entry, error)
}
