package sim

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gavelgames/gavel/internal/domain"
)

// Config holds the settings needed to construct a Client.
type Config struct {
	// BaseURL is the root URL of the case-simulation service
	// (e.g. "http://localhost:8000").
	BaseURL string

	// HTTPClient is an optional custom HTTP client. If nil, a default client
	// with Timeout is used.
	HTTPClient *http.Client

	// Timeout applies to individual round trips. The service's latency is
	// unbounded from our side, so a timeout is always enforced.
	// Defaults to 30 seconds.
	Timeout time.Duration
}

// Client is the HTTP client for the case-simulation service.
// All methods are safe for concurrent use.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a Client from the given configuration.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("sim: BaseURL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  httpClient,
	}, nil
}

// StartCase begins a new case attempt and returns the case data plus the
// initial progression snapshot.
func (c *Client) StartCase(ctx context.Context) (*domain.CaseStart, error) {
	env, err := c.post(ctx, "/start_case", map[string]string{})
	if err != nil {
		return nil, err
	}

	var data struct {
		CaseData  *wireCase      `json:"case_data"`
		GameState *wireGameState `json:"game_state"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, protocolErr("start_case: decode data: %v", err)
	}
	if data.CaseData == nil {
		return nil, protocolErr("start_case: missing case_data")
	}

	gs, gsErr := data.GameState.toDomain()
	if gsErr != nil {
		return nil, protocolErr("start_case: %v", gsErr)
	}

	return &domain.CaseStart{
		Case:      data.CaseData.toDomain(),
		GameState: *gs,
	}, nil
}

// Perform issues one player action and normalizes the outcome. The returned
// ActionResult is never partially populated: on failure only Err is set and
// no session state change is implied.
func (c *Client) Perform(ctx context.Context, kind domain.ActionKind, params domain.ActionParams) domain.ActionResult {
	body, bodyErr := actionBody(kind, params)
	if bodyErr != nil {
		return failure(bodyErr)
	}

	env, err := c.post(ctx, "/"+string(kind), body)
	if err != nil {
		return failure(err)
	}

	payload, err := parsePayload(kind, env.Data)
	if err != nil {
		return failure(err)
	}

	gs, gsErr := env.GameState.toDomain()
	if gsErr != nil {
		return failure(protocolErr("%s: %v", kind, gsErr))
	}

	return domain.ActionResult{
		OK:           true,
		PointsEarned: env.PointsEarned,
		Payload:      payload,
		GameState:    gs,
	}
}

// Verdict requests the final verdict. It is read-only from the session's
// perspective and safe to retry on failure.
func (c *Client) Verdict(ctx context.Context) (*domain.Verdict, error) {
	env, err := c.get(ctx, "/verdict")
	if err != nil {
		return nil, err
	}

	var data struct {
		Guilty      *bool               `json:"guilty"`
		Reasoning   string              `json:"reasoning"`
		Score       float64             `json:"score"`
		Performance *domain.Performance `json:"player_performance"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, protocolErr("verdict: decode data: %v", err)
	}
	if data.Guilty == nil {
		return nil, protocolErr("verdict: missing guilty")
	}
	if data.Performance == nil {
		return nil, protocolErr("verdict: missing player_performance")
	}

	return &domain.Verdict{
		Guilty:      *data.Guilty,
		Reasoning:   data.Reasoning,
		Score:       data.Score,
		Performance: *data.Performance,
		RenderedAt:  time.Now(),
	}, nil
}

// Witnesses returns the witness roster for the current case.
func (c *Client) Witnesses(ctx context.Context) ([]domain.Witness, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/witnesses", nil)
	if err != nil {
		return nil, transportErr("create request: %v", err)
	}

	var body struct {
		Witnesses []string `json:"witnesses"`
	}
	if err := c.doJSON(req, &body); err != nil {
		return nil, err
	}

	witnesses := make([]domain.Witness, 0, len(body.Witnesses))
	for _, name := range body.Witnesses {
		witnesses = append(witnesses, domain.Witness{Name: name})
	}
	return witnesses, nil
}

// EvidenceLocker returns the evidence roster for the current case, including
// which exhibits have already been presented.
func (c *Client) EvidenceLocker(ctx context.Context) ([]domain.Evidence, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/evidence", nil)
	if err != nil {
		return nil, transportErr("create request: %v", err)
	}

	var body struct {
		Evidence []wireEvidence `json:"evidence"`
	}
	if err := c.doJSON(req, &body); err != nil {
		return nil, err
	}

	evidence := make([]domain.Evidence, 0, len(body.Evidence))
	for _, e := range body.Evidence {
		evidence = append(evidence, e.toDomain())
	}
	return evidence, nil
}

// ---------------------------------------------------------------------------
// Wire format
// ---------------------------------------------------------------------------

// envelope is the service's standard response wrapper. Detail carries the
// error message of unhandled server failures.
type envelope struct {
	Success      bool            `json:"success"`
	Message      string          `json:"message"`
	Detail       string          `json:"detail"`
	Data         json.RawMessage `json:"data"`
	GameState    *wireGameState  `json:"game_state"`
	PointsEarned float64         `json:"points_earned"`
}

type wireGameState struct {
	CurrentStep    *int    `json:"current_step"`
	MaxSteps       *int    `json:"max_steps"`
	PlayerScore    float64 `json:"player_score"`
	CurrentWitness string  `json:"current_witness"`
	Objective      struct {
		TargetScore  float64 `json:"target_score"`
		MinClues     int     `json:"min_clues"`
		MinEvidence  int     `json:"min_evidence"`
		MinWitnesses int     `json:"min_witnesses"`
	} `json:"objective"`
}

func (w *wireGameState) toDomain() (*domain.GameState, error) {
	if w == nil {
		return nil, errors.New("missing game_state")
	}
	if w.CurrentStep == nil {
		return nil, errors.New("game_state missing current_step")
	}
	if w.MaxSteps == nil {
		return nil, errors.New("game_state missing max_steps")
	}

	return &domain.GameState{
		CurrentStep:    *w.CurrentStep,
		MaxSteps:       *w.MaxSteps,
		PlayerScore:    w.PlayerScore,
		CurrentWitness: w.CurrentWitness,
		Objective: domain.Objective{
			TargetScore:  w.Objective.TargetScore,
			MinClues:     w.Objective.MinClues,
			MinEvidence:  w.Objective.MinEvidence,
			MinWitnesses: w.Objective.MinWitnesses,
		},
	}, nil
}

type wireCase struct {
	CaseID      string         `json:"case_id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Charges     []string       `json:"charges"`
	Witnesses   []wireWitness  `json:"witnesses"`
	Evidence    []wireEvidence `json:"evidence"`
}

type wireWitness struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

type wireEvidence struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PointsValue int    `json:"points_value"`
	Presented   bool   `json:"presented"`
}

func (w *wireCase) toDomain() domain.Case {
	c := domain.Case{
		ID:          w.CaseID,
		Title:       w.Title,
		Description: w.Description,
		Charges:     w.Charges,
	}
	for _, wit := range w.Witnesses {
		c.Witnesses = append(c.Witnesses, domain.Witness{Name: wit.Name, Role: wit.Role})
	}
	for _, ev := range w.Evidence {
		c.Evidence = append(c.Evidence, ev.toDomain())
	}
	return c
}

func (w wireEvidence) toDomain() domain.Evidence {
	return domain.Evidence{
		ID:          w.ID,
		Name:        w.Name,
		Description: w.Description,
		PointsValue: w.PointsValue,
		Presented:   w.Presented,
	}
}

func actionBody(kind domain.ActionKind, params domain.ActionParams) (map[string]string, *Error) {
	switch kind {
	case domain.ActionCallWitness:
		return map[string]string{"witness_name": params.WitnessName}, nil
	case domain.ActionAskQuestion:
		return map[string]string{"question": params.Question}, nil
	case domain.ActionPresentEvidence:
		return map[string]string{"evidence_id": params.EvidenceID}, nil
	case domain.ActionAddressJudge:
		return map[string]string{"statement": params.Statement}, nil
	case domain.ActionRequestClue:
		return map[string]string{}, nil
	default:
		return nil, protocolErr("unknown action kind %q", kind)
	}
}

// parsePayload extracts the per-kind data fields, failing with a protocol
// error when a required field is absent.
func parsePayload(kind domain.ActionKind, raw json.RawMessage) (*domain.ActionPayload, *Error) {
	var data struct {
		Introduction    *string `json:"introduction"`
		WitnessResponse *struct {
			Content string `json:"content"`
		} `json:"witness_response"`
		JudgeResponse *struct {
			Content string `json:"content"`
		} `json:"judge_response"`
		Evidence *struct {
			Name string `json:"name"`
		} `json:"evidence"`
		CluesRevealed bool   `json:"clues_revealed"`
		ClueID        string `json:"clue_id"`
		Clue          *struct {
			ID          string `json:"id"`
			Description string `json:"description"`
		} `json:"clue"`
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, protocolErr("%s: decode data: %v", kind, err)
	}

	payload := &domain.ActionPayload{}

	switch kind {
	case domain.ActionCallWitness:
		if data.Introduction == nil {
			return nil, protocolErr("%s: missing introduction", kind)
		}
		payload.Introduction = *data.Introduction

	case domain.ActionAskQuestion:
		if data.WitnessResponse == nil {
			return nil, protocolErr("%s: missing witness_response", kind)
		}
		payload.WitnessResponse = data.WitnessResponse.Content
		payload.ClueRevealed = data.CluesRevealed
		payload.ClueID = data.ClueID

	case domain.ActionPresentEvidence:
		if data.JudgeResponse == nil {
			return nil, protocolErr("%s: missing judge_response", kind)
		}
		if data.Evidence == nil {
			return nil, protocolErr("%s: missing evidence", kind)
		}
		payload.JudgeResponse = data.JudgeResponse.Content
		payload.EvidenceName = data.Evidence.Name

	case domain.ActionAddressJudge:
		if data.JudgeResponse == nil {
			return nil, protocolErr("%s: missing judge_response", kind)
		}
		payload.JudgeResponse = data.JudgeResponse.Content

	case domain.ActionRequestClue:
		if data.Clue == nil {
			return nil, protocolErr("%s: missing clue", kind)
		}
		payload.ClueDescription = data.Clue.Description
		payload.ClueID = data.Clue.ID
		if payload.ClueID == "" {
			// Older service builds omit the clue ID; the description is the
			// only stable identifier then.
			payload.ClueID = data.Clue.Description
		}

	default:
		return nil, protocolErr("unknown action kind %q", kind)
	}

	return payload, nil
}

func failure(err *Error) domain.ActionResult {
	return domain.ActionResult{OK: false, Err: err.Info()}
}

// ---------------------------------------------------------------------------
// HTTP transport
// ---------------------------------------------------------------------------

func (c *Client) post(ctx context.Context, path string, body any) (*envelope, *Error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, transportErr("marshal request body: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, transportErr("create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.doEnvelope(req)
}

func (c *Client) get(ctx context.Context, path string) (*envelope, *Error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, transportErr("create request: %v", err)
	}

	return c.doEnvelope(req)
}

// doEnvelope performs the request and applies the uniform failure policy:
// unreachable service or timeout is a transport error, an undecodable body is
// a protocol error, and any response without success=true is an application
// error regardless of HTTP status.
func (c *Client) doEnvelope(req *http.Request) (*envelope, *Error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, transportErr("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportErr("read response body: %v", err)
	}

	var env envelope
	if err := json.Unmarshal(bodyBytes, &env); err != nil {
		return nil, protocolErr("decode response: %v", err)
	}

	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = env.Detail
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, applicationErr(msg)
	}

	return &env, nil
}

// doJSON performs the request and decodes a plain (non-envelope) JSON body.
func (c *Client) doJSON(req *http.Request, dest any) *Error {
	resp, err := c.client.Do(req)
	if err != nil {
		return transportErr("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportErr("read response body: %v", err)
	}

	if resp.StatusCode >= 400 {
		return applicationErr(http.StatusText(resp.StatusCode))
	}

	if err := json.Unmarshal(bodyBytes, dest); err != nil {
		return protocolErr("decode response: %v", err)
	}

	return nil
}
