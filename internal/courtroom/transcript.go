package courtroom

import (
	"time"

	"github.com/gavelgames/gavel/internal/domain"
)

// Transcript is the append-only conversation record of one session. Prior
// entries are never edited or removed; insertion order is display order. The
// owning Session serializes all access, so Transcript itself carries no lock.
type Transcript struct {
	entries []domain.Entry
}

func NewTranscript() *Transcript {
	return &Transcript{}
}

// Append adds one entry and returns it. O(1), never fails.
func (t *Transcript) Append(speaker, text string, kind domain.EntryKind) domain.Entry {
	e := domain.Entry{
		Speaker: speaker,
		Text:    text,
		Kind:    kind,
		At:      time.Now(),
	}
	t.entries = append(t.entries, e)
	return e
}

// Entries returns a copy of the full ordered sequence.
func (t *Transcript) Entries() []domain.Entry {
	out := make([]domain.Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of entries.
func (t *Transcript) Len() int {
	return len(t.entries)
}
