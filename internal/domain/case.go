package domain

// Objective holds the locally tracked win thresholds for a case. It is
// advisory context for the verdict narrative; the authoritative outcome comes
// from the simulation service. Immutable once loaded.
type Objective struct {
	TargetScore  float64 `json:"target_score"`
	MinClues     int     `json:"min_clues"`
	MinEvidence  int     `json:"min_evidence"`
	MinWitnesses int     `json:"min_witnesses"`
}

// GameState is the progression snapshot reported by the simulation service.
// current_step and max_steps from the service are authoritative; the session
// reconciles its local counter to these after each successful action.
type GameState struct {
	CurrentStep    int       `json:"current_step"`
	MaxSteps       int       `json:"max_steps"`
	PlayerScore    float64   `json:"player_score"`
	CurrentWitness string    `json:"current_witness,omitempty"`
	Objective      Objective `json:"objective"`
}

// Witness is a person the player can call to the stand.
type Witness struct {
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
}

// Evidence is an exhibit the player can present to the court.
type Evidence struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	PointsValue int    `json:"points_value,omitempty"`
	Presented   bool   `json:"presented"`
}

// Case is the static case data returned by the start-case round trip.
type Case struct {
	ID          string     `json:"case_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Charges     []string   `json:"charges,omitempty"`
	Witnesses   []Witness  `json:"witnesses,omitempty"`
	Evidence    []Evidence `json:"evidence,omitempty"`
}

// CaseStart bundles everything the start-case round trip yields.
type CaseStart struct {
	Case      Case
	GameState GameState
}
