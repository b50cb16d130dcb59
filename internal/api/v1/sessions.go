package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/gavelgames/gavel/internal/auth"
	"github.com/gavelgames/gavel/internal/courtroom"
	"github.com/gavelgames/gavel/internal/domain"
	"github.com/gavelgames/gavel/internal/server/middleware"
)

type StartSessionOutput struct {
	Body struct {
		Session courtroom.Snapshot `json:"session"`
		Ticket  string             `json:"ticket" doc:"Bearer ticket for all further calls in this session"`
	}
}

type GetSessionInput struct {
	ID uuid.UUID `path:"id" doc:"Session ID"`
}

type GetSessionOutput struct {
	Body courtroom.Snapshot
}

// ActionResponse pairs the normalized action outcome with the full session
// view after the turn was applied.
type ActionResponse struct {
	Result  domain.ActionResult `json:"result"`
	Session courtroom.Snapshot  `json:"session"`
}

type ActionOutput struct {
	Body ActionResponse
}

type CallWitnessInput struct {
	ID   uuid.UUID `path:"id" doc:"Session ID"`
	Body struct {
		WitnessName string `json:"witness_name" minLength:"1" maxLength:"200" doc:"Witness to call to the stand"`
	}
}

type AskQuestionInput struct {
	ID   uuid.UUID `path:"id" doc:"Session ID"`
	Body struct {
		Question string `json:"question" minLength:"1" maxLength:"2000" doc:"Question for the witness on the stand"`
	}
}

type PresentEvidenceInput struct {
	ID   uuid.UUID `path:"id" doc:"Session ID"`
	Body struct {
		EvidenceID string `json:"evidence_id" minLength:"1" maxLength:"200" doc:"Exhibit to present"`
	}
}

type AddressJudgeInput struct {
	ID   uuid.UUID `path:"id" doc:"Session ID"`
	Body struct {
		Statement string `json:"statement" minLength:"1" maxLength:"2000" doc:"Legal statement to the judge"`
	}
}

type RequestClueInput struct {
	ID uuid.UUID `path:"id" doc:"Session ID"`
}

type SessionVerdictInput struct {
	ID uuid.UUID `path:"id" doc:"Session ID"`
}

type SessionVerdictOutput struct {
	Body *domain.Verdict
}

type SessionWitnessesInput struct {
	ID uuid.UUID `path:"id" doc:"Session ID"`
}

type SessionWitnessesOutput struct {
	Body struct {
		Witnesses []domain.Witness `json:"witnesses"`
	}
}

type SessionEvidenceInput struct {
	ID uuid.UUID `path:"id" doc:"Session ID"`
}

type SessionEvidenceOutput struct {
	Body struct {
		Evidence []domain.Evidence `json:"evidence"`
	}
}

// RegisterStartRoute registers the unauthenticated case-start endpoint. It
// issues the session ticket used by every other session route.
func RegisterStartRoute(api huma.API, mgr SessionManager, ticketSecret string, ticketTTL time.Duration) {
	huma.Register(api, huma.Operation{
		OperationID: "start-session",
		Method:      http.MethodPost,
		Path:        "/sessions",
		Summary:     "Start a new case session",
		Tags:        []string{"Sessions"},
	}, func(ctx context.Context, _ *struct{}) (*StartSessionOutput, error) {
		s, err := mgr.StartCase(ctx)
		if err != nil {
			return nil, huma.Error502BadGateway("case simulation service unavailable", err)
		}

		ticket, err := auth.IssueSessionTicket(ticketSecret, s.ID(), ticketTTL)
		if err != nil {
			// The session is unusable without its ticket.
			_ = mgr.Discard(s.ID())
			return nil, huma.Error500InternalServerError("failed to issue session ticket", err)
		}

		out := &StartSessionOutput{}
		out.Body.Session = s.Snapshot()
		out.Body.Ticket = ticket
		return out, nil
	})
}

// RegisterSessionRoutes registers the ticket-protected session endpoints.
func RegisterSessionRoutes(api huma.API, mgr SessionManager, roster Roster) {
	huma.Register(api, huma.Operation{
		OperationID: "get-session",
		Method:      http.MethodGet,
		Path:        "/sessions/{id}",
		Summary:     "Get the full session view",
		Tags:        []string{"Sessions"},
	}, func(ctx context.Context, input *GetSessionInput) (*GetSessionOutput, error) {
		s, err := sessionFor(ctx, mgr, input.ID)
		if err != nil {
			return nil, err
		}
		return &GetSessionOutput{Body: s.Snapshot()}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "call-witness",
		Method:      http.MethodPost,
		Path:        "/sessions/{id}/witness",
		Summary:     "Call a witness to the stand",
		Tags:        []string{"Actions"},
	}, func(ctx context.Context, input *CallWitnessInput) (*ActionOutput, error) {
		s, err := sessionFor(ctx, mgr, input.ID)
		if err != nil {
			return nil, err
		}
		res, err := s.CallWitness(ctx, input.Body.WitnessName)
		return actionOutput(s, res, err)
	})

	huma.Register(api, huma.Operation{
		OperationID: "question-witness",
		Method:      http.MethodPost,
		Path:        "/sessions/{id}/question",
		Summary:     "Question the witness on the stand",
		Tags:        []string{"Actions"},
	}, func(ctx context.Context, input *AskQuestionInput) (*ActionOutput, error) {
		s, err := sessionFor(ctx, mgr, input.ID)
		if err != nil {
			return nil, err
		}
		res, err := s.AskQuestion(ctx, input.Body.Question)
		return actionOutput(s, res, err)
	})

	huma.Register(api, huma.Operation{
		OperationID: "present-evidence",
		Method:      http.MethodPost,
		Path:        "/sessions/{id}/evidence",
		Summary:     "Present an exhibit to the court",
		Tags:        []string{"Actions"},
	}, func(ctx context.Context, input *PresentEvidenceInput) (*ActionOutput, error) {
		s, err := sessionFor(ctx, mgr, input.ID)
		if err != nil {
			return nil, err
		}
		res, err := s.PresentEvidence(ctx, input.Body.EvidenceID)
		return actionOutput(s, res, err)
	})

	huma.Register(api, huma.Operation{
		OperationID: "address-judge",
		Method:      http.MethodPost,
		Path:        "/sessions/{id}/judge",
		Summary:     "Make a legal statement to the judge",
		Tags:        []string{"Actions"},
	}, func(ctx context.Context, input *AddressJudgeInput) (*ActionOutput, error) {
		s, err := sessionFor(ctx, mgr, input.ID)
		if err != nil {
			return nil, err
		}
		res, err := s.AddressJudge(ctx, input.Body.Statement)
		return actionOutput(s, res, err)
	})

	huma.Register(api, huma.Operation{
		OperationID: "request-clue",
		Method:      http.MethodPost,
		Path:        "/sessions/{id}/clue",
		Summary:     "Ask the court for a hint",
		Tags:        []string{"Actions"},
	}, func(ctx context.Context, input *RequestClueInput) (*ActionOutput, error) {
		s, err := sessionFor(ctx, mgr, input.ID)
		if err != nil {
			return nil, err
		}
		res, err := s.RequestClue(ctx)
		return actionOutput(s, res, err)
	})

	huma.Register(api, huma.Operation{
		OperationID: "session-verdict",
		Method:      http.MethodPost,
		Path:        "/sessions/{id}/verdict",
		Summary:     "Request the verdict and conclude the session",
		Tags:        []string{"Sessions"},
	}, func(ctx context.Context, input *SessionVerdictInput) (*SessionVerdictOutput, error) {
		s, err := sessionFor(ctx, mgr, input.ID)
		if err != nil {
			return nil, err
		}
		v, err := s.Verdict(ctx)
		if err != nil {
			return nil, mapSessionError(err)
		}
		return &SessionVerdictOutput{Body: v}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "session-witnesses",
		Method:      http.MethodGet,
		Path:        "/sessions/{id}/witnesses",
		Summary:     "List the witness roster",
		Tags:        []string{"Sessions"},
	}, func(ctx context.Context, input *SessionWitnessesInput) (*SessionWitnessesOutput, error) {
		if _, err := sessionFor(ctx, mgr, input.ID); err != nil {
			return nil, err
		}
		witnesses, err := roster.Witnesses(ctx)
		if err != nil {
			return nil, huma.Error502BadGateway("failed to fetch witness roster", err)
		}
		out := &SessionWitnessesOutput{}
		out.Body.Witnesses = witnesses
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "session-evidence",
		Method:      http.MethodGet,
		Path:        "/sessions/{id}/evidence",
		Summary:     "List the evidence locker",
		Tags:        []string{"Sessions"},
	}, func(ctx context.Context, input *SessionEvidenceInput) (*SessionEvidenceOutput, error) {
		if _, err := sessionFor(ctx, mgr, input.ID); err != nil {
			return nil, err
		}
		evidence, err := roster.EvidenceLocker(ctx)
		if err != nil {
			return nil, huma.Error502BadGateway("failed to fetch evidence locker", err)
		}
		out := &SessionEvidenceOutput{}
		out.Body.Evidence = evidence
		return out, nil
	})
}

// sessionFor resolves the session and enforces that the caller's ticket is
// bound to it.
func sessionFor(ctx context.Context, mgr SessionManager, id uuid.UUID) (*courtroom.Session, error) {
	ticketID, ok := middleware.SessionIDFromContext(ctx)
	if !ok {
		return nil, huma.Error403Forbidden("missing session ticket")
	}
	if ticketID != id {
		return nil, huma.Error403Forbidden("ticket is not valid for this session")
	}

	s, err := mgr.Get(id)
	if err != nil {
		return nil, mapSessionError(err)
	}
	return s, nil
}

// actionOutput maps the action pipeline outcome. A rejected action (wrong
// phase, overlapping request) is an API error; a failed round trip is a
// normal turn outcome and travels in the body.
func actionOutput(s *courtroom.Session, res domain.ActionResult, err error) (*ActionOutput, error) {
	if err != nil {
		return nil, mapSessionError(err)
	}
	return &ActionOutput{Body: ActionResponse{Result: res, Session: s.Snapshot()}}, nil
}

func mapSessionError(err error) error {
	switch {
	case errors.Is(err, courtroom.ErrSessionNotFound):
		return huma.Error404NotFound("session not found")
	case errors.Is(err, courtroom.ErrActionPending):
		return huma.Error409Conflict("another request is already in flight for this session")
	case errors.Is(err, courtroom.ErrNotStarted):
		return huma.Error409Conflict("session has not started")
	case errors.Is(err, courtroom.ErrTerminal):
		return huma.Error409Conflict("the case is over; request the verdict")
	case errors.Is(err, courtroom.ErrVerdictNotReady):
		return huma.Error409Conflict("the step budget is not exhausted yet")
	default:
		return huma.Error502BadGateway("case simulation service failed", err)
	}
}
