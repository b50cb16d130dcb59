package courtroom

// Stage is the current speaker display: who is talking and their last
// utterance. It is a pure projection with no history: every update is paired
// with exactly one transcript append of the same utterance, in that order, so
// the stage always matches the last non-player entry of the transcript.
type Stage struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}
