package courtroom

import "github.com/gavelgames/gavel/internal/domain"

// Category routes a scored action to its discovery set. CategoryLegal is
// score-only: questions and judge statements earn points but discover nothing.
type Category string

const (
	CategoryWitness  Category = "witness"
	CategoryEvidence Category = "evidence"
	CategoryClue     Category = "clue"
	CategoryLegal    Category = "legal"
)

// Tracker maintains the cumulative score and the witnesses-called,
// evidence-presented and clues-discovered sets against the case objective.
// Score is monotone non-decreasing and each set only grows. The owning
// Session serializes all access.
type Tracker struct {
	score     float64
	objective domain.Objective

	witnesses   []string
	witnessSet  map[string]struct{}
	evidence    []string
	evidenceSet map[string]struct{}
	clues       []string
	clueSet     map[string]struct{}
}

func NewTracker(objective domain.Objective) *Tracker {
	return &Tracker{
		objective:   objective,
		witnessSet:  make(map[string]struct{}),
		evidenceSet: make(map[string]struct{}),
		clueSet:     make(map[string]struct{}),
	}
}

// Apply adds the earned points and records the discovery for the category.
// Negative points are clamped to zero to preserve the monotone-score
// invariant. An empty id records points without a discovery.
func (t *Tracker) Apply(points float64, category Category, id string) {
	if points > 0 {
		t.score += points
	}

	if id == "" {
		return
	}

	switch category {
	case CategoryWitness:
		if _, ok := t.witnessSet[id]; !ok {
			t.witnessSet[id] = struct{}{}
			t.witnesses = append(t.witnesses, id)
		}
	case CategoryEvidence:
		if _, ok := t.evidenceSet[id]; !ok {
			t.evidenceSet[id] = struct{}{}
			t.evidence = append(t.evidence, id)
		}
	case CategoryClue:
		if _, ok := t.clueSet[id]; !ok {
			t.clueSet[id] = struct{}{}
			t.clues = append(t.clues, id)
		}
	case CategoryLegal:
		// score only
	}
}

// Score returns the cumulative score.
func (t *Tracker) Score() float64 {
	return t.score
}

// Objective returns the case thresholds.
func (t *Tracker) Objective() domain.Objective {
	return t.objective
}

// MeetsObjective reports whether every locally tracked threshold is
// satisfied. Advisory only: the authoritative guilty/not-guilty outcome comes
// from the simulation service, never from this predicate.
func (t *Tracker) MeetsObjective() bool {
	return t.score >= t.objective.TargetScore &&
		len(t.clues) >= t.objective.MinClues &&
		len(t.evidence) >= t.objective.MinEvidence &&
		len(t.witnesses) >= t.objective.MinWitnesses
}

// WitnessesCalled returns the witnesses called so far, in discovery order.
func (t *Tracker) WitnessesCalled() []string {
	out := make([]string, len(t.witnesses))
	copy(out, t.witnesses)
	return out
}

// EvidencePresented returns the evidence presented so far, in discovery order.
func (t *Tracker) EvidencePresented() []string {
	out := make([]string, len(t.evidence))
	copy(out, t.evidence)
	return out
}

// CluesDiscovered returns the clues discovered so far, in discovery order.
func (t *Tracker) CluesDiscovered() []string {
	out := make([]string, len(t.clues))
	copy(out, t.clues)
	return out
}
