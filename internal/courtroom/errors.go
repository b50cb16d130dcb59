package courtroom

import "errors"

// Sentinel errors for illegal session operations. These represent caller
// bugs, not game events: they are returned to the caller and never appear in
// the transcript.
var (
	ErrNotStarted      = errors.New("courtroom: session not started")
	ErrAlreadyStarted  = errors.New("courtroom: session already started")
	ErrTerminal        = errors.New("courtroom: session is in a terminal state")
	ErrActionPending   = errors.New("courtroom: another action is in flight")
	ErrVerdictNotReady = errors.New("courtroom: step budget not yet exhausted")
	ErrSessionNotFound = errors.New("courtroom: session not found")
)
