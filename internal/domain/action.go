package domain

// ActionKind identifies one player-initiated request to the case-simulation
// service. The values double as the service endpoint names.
type ActionKind string

const (
	ActionCallWitness     ActionKind = "call_witness"
	ActionAskQuestion     ActionKind = "question_witness"
	ActionPresentEvidence ActionKind = "use_evidence"
	ActionAddressJudge    ActionKind = "judge_chat"
	ActionRequestClue     ActionKind = "get_clue"
)

// ActionParams carries the per-kind request payload. Only the field matching
// the action kind is consulted; the rest are ignored.
type ActionParams struct {
	WitnessName string
	Question    string
	EvidenceID  string
	Statement   string
}

// ErrorKind classifies a failed round trip to the simulation service.
type ErrorKind string

const (
	// ErrorTransport: the service was unreachable or did not respond in time.
	ErrorTransport ErrorKind = "transport"
	// ErrorProtocol: the service responded but the body was missing required fields.
	ErrorProtocol ErrorKind = "protocol"
	// ErrorApplication: the service explicitly reported failure with a message.
	ErrorApplication ErrorKind = "application"
)

// ErrorInfo is the normalized failure shape of a round trip.
type ErrorInfo struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// ActionPayload is the successful content of a round trip. Which fields are
// populated depends on the action kind.
type ActionPayload struct {
	Introduction    string `json:"introduction,omitempty"`     // call_witness
	WitnessResponse string `json:"witness_response,omitempty"` // question_witness
	JudgeResponse   string `json:"judge_response,omitempty"`   // use_evidence, judge_chat
	EvidenceName    string `json:"evidence_name,omitempty"`    // use_evidence
	ClueRevealed    bool   `json:"clue_revealed,omitempty"`    // question_witness
	ClueID          string `json:"clue_id,omitempty"`          // question_witness, get_clue
	ClueDescription string `json:"clue_description,omitempty"` // get_clue
}

// ActionResult is the normalized outcome of one round trip. It is never
// partially populated: OK implies Payload and GameState are set, and !OK
// implies Err is set.
type ActionResult struct {
	OK           bool           `json:"ok"`
	PointsEarned float64        `json:"points_earned"`
	Payload      *ActionPayload `json:"payload,omitempty"`
	GameState    *GameState     `json:"game_state,omitempty"`
	Err          *ErrorInfo     `json:"error,omitempty"`
}
