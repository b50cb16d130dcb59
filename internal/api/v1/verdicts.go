package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/gavelgames/gavel/internal/domain"
)

type ListVerdictsInput struct {
	Limit int `query:"limit" default:"20" minimum:"1" maximum:"100" doc:"Maximum number of verdicts"`
}

type ListVerdictsOutput struct {
	Body []*domain.Verdict
}

type GetVerdictInput struct {
	SessionID uuid.UUID `path:"sessionID" doc:"Session ID"`
}

type GetVerdictOutput struct {
	Body *domain.Verdict
}

type GetArchivedTranscriptInput struct {
	SessionID uuid.UUID `path:"sessionID" doc:"Session ID"`
}

type GetArchivedTranscriptOutput struct {
	Body []domain.Entry
}

// RegisterVerdictRoutes registers the archive endpoints for concluded
// sessions.
func RegisterVerdictRoutes(api huma.API, archive ArchiveStore) {
	huma.Register(api, huma.Operation{
		OperationID: "list-verdicts",
		Method:      http.MethodGet,
		Path:        "/verdicts",
		Summary:     "List recently rendered verdicts",
		Tags:        []string{"Archive"},
	}, func(ctx context.Context, input *ListVerdictsInput) (*ListVerdictsOutput, error) {
		verdicts, err := archive.Verdicts().ListRecent(ctx, input.Limit)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list verdicts", err)
		}
		return &ListVerdictsOutput{Body: verdicts}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-verdict",
		Method:      http.MethodGet,
		Path:        "/verdicts/{sessionID}",
		Summary:     "Get the verdict of a concluded session",
		Tags:        []string{"Archive"},
	}, func(ctx context.Context, input *GetVerdictInput) (*GetVerdictOutput, error) {
		v, err := archive.Verdicts().GetBySession(ctx, input.SessionID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("verdict not found")
			}
			return nil, huma.Error500InternalServerError("failed to get verdict", err)
		}
		return &GetVerdictOutput{Body: v}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-archived-transcript",
		Method:      http.MethodGet,
		Path:        "/verdicts/{sessionID}/transcript",
		Summary:     "Get the archived transcript of a concluded session",
		Tags:        []string{"Archive"},
	}, func(ctx context.Context, input *GetArchivedTranscriptInput) (*GetArchivedTranscriptOutput, error) {
		entries, err := archive.Transcripts().ListBySession(ctx, input.SessionID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to get transcript", err)
		}
		return &GetArchivedTranscriptOutput{Body: entries}, nil
	})
}
