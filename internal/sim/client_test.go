package sim

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gavelgames/gavel/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)
	return c
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Config{})
	assert.Error(t, err)

	c, err := NewClient(Config{BaseURL: "http://localhost:8000/"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", c.baseURL)
}

func TestStartCase(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/start_case", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"success": true,
			"message": "Case started",
			"data": {
				"case_data": {
					"case_id": "case_001",
					"title": "The Missing Necklace",
					"description": "A diamond necklace vanished.",
					"charges": ["grand larceny"],
					"witnesses": [{"name": "Alice Monroe", "role": "curator"}],
					"evidence": [{"id": "glove", "name": "Leather glove", "points_value": 10}]
				},
				"game_state": {
					"current_step": 0,
					"max_steps": 8,
					"player_score": 0,
					"objective": {"target_score": 80, "min_clues": 3, "min_evidence": 2, "min_witnesses": 2}
				}
			}
		}`))
	})

	start, err := c.StartCase(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "case_001", start.Case.ID)
	assert.Equal(t, "The Missing Necklace", start.Case.Title)
	require.Len(t, start.Case.Witnesses, 1)
	assert.Equal(t, "Alice Monroe", start.Case.Witnesses[0].Name)
	require.Len(t, start.Case.Evidence, 1)
	assert.Equal(t, 10, start.Case.Evidence[0].PointsValue)

	assert.Equal(t, 8, start.GameState.MaxSteps)
	assert.Equal(t, float64(80), start.GameState.Objective.TargetScore)
	assert.Equal(t, 3, start.GameState.Objective.MinClues)
}

func TestStartCaseMissingGameState(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": true, "data": {"case_data": {"case_id": "case_001"}}}`))
	})

	_, err := c.StartCase(context.Background())
	require.Error(t, err)
	assert.True(t, IsProtocol(err))
}

func TestPerformCallWitness(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/call_witness", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Alice Monroe", body["witness_name"])

		_, _ = w.Write([]byte(`{
			"success": true,
			"points_earned": 5,
			"data": {"introduction": "The court calls Alice Monroe."},
			"game_state": {"current_step": 1, "max_steps": 8, "current_witness": "Alice Monroe"}
		}`))
	})

	res := c.Perform(context.Background(), domain.ActionCallWitness, domain.ActionParams{WitnessName: "Alice Monroe"})
	require.True(t, res.OK)
	assert.Equal(t, float64(5), res.PointsEarned)
	assert.Equal(t, "The court calls Alice Monroe.", res.Payload.Introduction)
	require.NotNil(t, res.GameState)
	assert.Equal(t, 1, res.GameState.CurrentStep)
	assert.Equal(t, "Alice Monroe", res.GameState.CurrentWitness)
}

func TestPerformQuestionWithClue(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/question_witness", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"success": true,
			"points_earned": 10,
			"data": {
				"witness_response": {"content": "The glove was a left hand."},
				"clues_revealed": true,
				"clue_id": "glove_mismatch"
			},
			"game_state": {"current_step": 2, "max_steps": 8}
		}`))
	})

	res := c.Perform(context.Background(), domain.ActionAskQuestion, domain.ActionParams{Question: "Whose glove?"})
	require.True(t, res.OK)
	assert.Equal(t, "The glove was a left hand.", res.Payload.WitnessResponse)
	assert.True(t, res.Payload.ClueRevealed)
	assert.Equal(t, "glove_mismatch", res.Payload.ClueID)
}

func TestPerformApplicationError(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": false, "message": "No witness on the stand"}`))
	})

	res := c.Perform(context.Background(), domain.ActionAskQuestion, domain.ActionParams{Question: "Anything?"})
	require.False(t, res.OK)
	require.NotNil(t, res.Err)
	assert.Equal(t, domain.ErrorApplication, res.Err.Kind)
	assert.Equal(t, "No witness on the stand", res.Err.Message)
}

func TestPerformApplicationErrorFallsBackToDetail(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success": false, "detail": "internal failure in case engine"}`))
	})

	res := c.Perform(context.Background(), domain.ActionRequestClue, domain.ActionParams{})
	require.False(t, res.OK)
	assert.Equal(t, domain.ErrorApplication, res.Err.Kind)
	assert.Equal(t, "internal failure in case engine", res.Err.Message)
}

func TestPerformProtocolError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `<html>gateway timeout</html>`},
		{name: "missing required field", body: `{"success": true, "data": {}, "game_state": {"current_step": 1, "max_steps": 8}}`},
		{name: "missing game_state", body: `{"success": true, "data": {"introduction": "hi"}}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			res := c.Perform(context.Background(), domain.ActionCallWitness, domain.ActionParams{WitnessName: "Alice Monroe"})
			require.False(t, res.OK)
			assert.Equal(t, domain.ErrorProtocol, res.Err.Kind)
		})
	}
}

func TestPerformTransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	res := c.Perform(context.Background(), domain.ActionAddressJudge, domain.ActionParams{Statement: "Objection."})
	require.False(t, res.OK)
	assert.Equal(t, domain.ErrorTransport, res.Err.Kind)
}

func TestVerdict(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/verdict", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"success": true,
			"data": {
				"guilty": false,
				"reasoning": "Reasonable doubt remains.",
				"score": 85,
				"player_performance": {"evidence_presented": 2, "witnesses_examined": 2, "clues_discovered": 3, "objections_raised": 1}
			}
		}`))
	})

	v, err := c.Verdict(context.Background())
	require.NoError(t, err)
	assert.False(t, v.Guilty)
	assert.Equal(t, "Reasonable doubt remains.", v.Reasoning)
	assert.Equal(t, float64(85), v.Score)
	assert.Equal(t, 3, v.Performance.CluesDiscovered)
	assert.False(t, v.RenderedAt.IsZero())
}

func TestVerdictMissingFields(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": true, "data": {"reasoning": "no outcome"}}`))
	})

	_, err := c.Verdict(context.Background())
	require.Error(t, err)
	assert.True(t, IsProtocol(err))
}

func TestVerdictNotReady(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": false, "message": "Case is still in progress"}`))
	})

	_, err := c.Verdict(context.Background())
	require.Error(t, err)
	assert.True(t, IsApplication(err))
}

func TestWitnesses(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/witnesses", r.URL.Path)
		_, _ = w.Write([]byte(`{"witnesses": ["Alice Monroe", "Carlos Rivera"]}`))
	})

	witnesses, err := c.Witnesses(context.Background())
	require.NoError(t, err)
	require.Len(t, witnesses, 2)
	assert.Equal(t, "Alice Monroe", witnesses[0].Name)
}

func TestEvidenceLocker(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/evidence", r.URL.Path)
		_, _ = w.Write([]byte(`{"evidence": [
			{"id": "glove", "name": "Leather glove", "description": "Found at the scene.", "points_value": 10, "presented": true}
		]}`))
	})

	evidence, err := c.EvidenceLocker(context.Background())
	require.NoError(t, err)
	require.Len(t, evidence, 1)
	assert.Equal(t, "glove", evidence[0].ID)
	assert.True(t, evidence[0].Presented)
}

func TestRequestCluePayload(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/get_clue", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"success": true,
			"points_earned": 5,
			"data": {"clue": {"description": "Check the guest list for gaps."}},
			"game_state": {"current_step": 3, "max_steps": 8}
		}`))
	})

	res := c.Perform(context.Background(), domain.ActionRequestClue, domain.ActionParams{})
	require.True(t, res.OK)
	assert.Equal(t, "Check the guest list for gaps.", res.Payload.ClueDescription)
	// Without a server-assigned ID the description identifies the clue.
	assert.Equal(t, "Check the guest list for gaps.", res.Payload.ClueID)
}
