package courtroom

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gavelgames/gavel/internal/domain"
)

func TestTrackerScoreMonotone(t *testing.T) {
	t.Parallel()

	tr := NewTracker(domain.Objective{TargetScore: 50})
	tr.Apply(10, CategoryLegal, "")
	tr.Apply(-5, CategoryLegal, "")
	tr.Apply(0, CategoryLegal, "")
	tr.Apply(15, CategoryLegal, "")

	assert.Equal(t, float64(25), tr.Score())
}

func TestTrackerDiscoveryDedup(t *testing.T) {
	t.Parallel()

	tr := NewTracker(domain.Objective{})
	tr.Apply(5, CategoryWitness, "Alice Monroe")
	tr.Apply(5, CategoryWitness, "Alice Monroe")
	tr.Apply(5, CategoryWitness, "Carlos Rivera")
	tr.Apply(10, CategoryClue, "glove_mismatch")
	tr.Apply(10, CategoryClue, "glove_mismatch")
	tr.Apply(15, CategoryEvidence, "cctv_gap")

	assert.Equal(t, []string{"Alice Monroe", "Carlos Rivera"}, tr.WitnessesCalled())
	assert.Equal(t, []string{"glove_mismatch"}, tr.CluesDiscovered())
	assert.Equal(t, []string{"cctv_gap"}, tr.EvidencePresented())
	// Repeat discoveries still scored.
	assert.Equal(t, float64(50), tr.Score())
}

func TestTrackerEmptyIDScoresWithoutDiscovery(t *testing.T) {
	t.Parallel()

	tr := NewTracker(domain.Objective{})
	tr.Apply(10, CategoryClue, "")

	assert.Equal(t, float64(10), tr.Score())
	assert.Empty(t, tr.CluesDiscovered())
}

func TestTrackerMeetsObjective(t *testing.T) {
	t.Parallel()

	objective := domain.Objective{
		TargetScore:  80,
		MinClues:     2,
		MinEvidence:  1,
		MinWitnesses: 1,
	}

	tests := []struct {
		name  string
		build func(tr *Tracker)
		want  bool
	}{
		{
			name:  "nothing done",
			build: func(tr *Tracker) {},
			want:  false,
		},
		{
			name: "score short",
			build: func(tr *Tracker) {
				tr.Apply(30, CategoryWitness, "Alice Monroe")
				tr.Apply(20, CategoryEvidence, "glove")
				tr.Apply(10, CategoryClue, "c1")
				tr.Apply(10, CategoryClue, "c2")
			},
			want: false,
		},
		{
			name: "clues short",
			build: func(tr *Tracker) {
				tr.Apply(40, CategoryWitness, "Alice Monroe")
				tr.Apply(30, CategoryEvidence, "glove")
				tr.Apply(20, CategoryClue, "c1")
			},
			want: false,
		},
		{
			name: "all thresholds met",
			build: func(tr *Tracker) {
				tr.Apply(40, CategoryWitness, "Alice Monroe")
				tr.Apply(20, CategoryEvidence, "glove")
				tr.Apply(10, CategoryClue, "c1")
				tr.Apply(10, CategoryClue, "c2")
			},
			want: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tr := NewTracker(objective)
			tt.build(tr)
			assert.Equal(t, tt.want, tr.MeetsObjective())
		})
	}
}

func TestTranscriptAppendOnly(t *testing.T) {
	t.Parallel()

	tr := NewTranscript()
	tr.Append(domain.SpeakerJudge, "Court is now in session.", domain.EntryNormal)
	tr.Append(domain.SpeakerPlayer, "The defense is ready.", domain.EntryNormal)

	entries := tr.Entries()
	assert.Equal(t, 2, tr.Len())
	assert.Equal(t, domain.SpeakerJudge, entries[0].Speaker)
	assert.False(t, entries[0].At.IsZero())

	// The returned slice is a copy.
	entries[0].Text = "mutated"
	assert.Equal(t, "Court is now in session.", tr.Entries()[0].Text)
}
