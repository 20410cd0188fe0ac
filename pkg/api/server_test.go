package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rishta-council/brokerd/pkg/broker"
	"github.com/rishta-council/brokerd/pkg/config"
	"github.com/rishta-council/brokerd/pkg/models"
	"github.com/rishta-council/brokerd/pkg/pipeline"
	"github.com/rishta-council/brokerd/pkg/reasoning"
	"github.com/rishta-council/brokerd/pkg/store"
	"github.com/rishta-council/brokerd/pkg/tools"
)

// scriptedClient answers evaluate calls by stage name.
type scriptedClient struct {
	responses map[string]string
}

func (c *scriptedClient) Evaluate(_ context.Context, req *reasoning.Request) (*reasoning.Response, error) {
	text, ok := c.responses[req.Stage]
	if !ok {
		return nil, fmt.Errorf("no scripted response for stage %s", req.Stage)
	}
	return &reasoning.Response{Text: text}, nil
}

func (c *scriptedClient) Close() error { return nil }

// newTestServer builds the whole stack over an in-memory store with two
// clean candidates, scripted to pass vetting and settle on Delhi.
func newTestServer(t *testing.T) (*Server, *gin.Engine) {
	t.Helper()
	ctx := context.Background()

	st, err := store.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	for _, p := range []models.Profile{
		{ID: "G-1", Name: "Groom_1", Gender: models.GenderMale, Age: 29,
			Location: "Delhi", Job: "Engineer", Salary: "30 LPA",
			FamilyType: "Joint", HoroscopeSign: "Leo", RiskFactor: models.RiskClean},
		{ID: "B-1", Name: "Bride_1", Gender: models.GenderFemale, Age: 27,
			Location: "Bangalore", Job: "Doctor", Salary: "25 LPA",
			FamilyType: "Nuclear", HoroscopeSign: "Virgo", RiskFactor: models.RiskClean},
	} {
		p := p
		require.NoError(t, st.InsertProfile(ctx, &p))
	}

	cfg := config.Defaults()
	scorer, err := tools.NewUtilityScorer(cfg.Scoring.Expression, cfg.Scoring.SuccessThreshold)
	require.NoError(t, err)

	dispatcher := tools.NewDispatcher(st, nil, nil)
	cat := &tools.Catalogue{
		Store:   st,
		Scorer:  scorer,
		Vetting: cfg.Vetting,
		Intn:    func(n int) int { return 13 % n },
	}
	require.NoError(t, cat.Register(dispatcher))

	client := &scriptedClient{responses: map[string]string{
		pipeline.StageParser:                `{"groom_id": "G-1", "bride_id": "B-1"}`,
		pipeline.StageSynthesizer:           `{"status": "PASS", "summary": "All checks clean."}`,
		pipeline.StageGroomRep + ".demands": "He insists on Delhi.",
		pipeline.StageBrideRep + ".demands": "She keeps her career.",
		pipeline.StageProposal:              `{"proposal_loc": "Delhi", "bride_career": "Doctor"}`,
	}}

	engine := broker.NewEngine(pipeline.NewComposer(cfg), client, dispatcher, nil)
	server := NewServer(cfg.HTTP, engine, broker.NewSessionManager(), st, nil)
	return server, server.Router()
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func createSession(t *testing.T, router *gin.Engine) string {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.SessionID)
	assert.Equal(t, models.PhaseInit, resp.Phase)
	return resp.SessionID
}

func TestHealthEndpoint(t *testing.T) {
	_, router := newTestServer(t)
	rec := doJSON(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestSessionLifecycle(t *testing.T) {
	_, router := newTestServer(t)
	id := createSession(t, router)

	t.Run("message runs a full vetting and negotiation turn", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/sessions/"+id+"/messages",
			PostMessageRequest{Content: "Vet G-1 and B-1"})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp PostMessageResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp.Reply, "MATCH SUCCESSFUL")
		assert.Equal(t, models.PhaseSuccess, resp.Phase)
		require.NotNil(t, resp.VettedPair)
		assert.Equal(t, models.Pair{GroomID: "G-1", BrideID: "B-1"}, *resp.VettedPair)
	})

	t.Run("get returns the accumulated turns", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/v1/sessions/"+id, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp SessionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, models.PhaseSuccess, resp.Phase)
		require.Len(t, resp.Turns, 2)
		assert.Equal(t, models.RoleUser, resp.Turns[0].Role)
		assert.Equal(t, models.RoleAssistant, resp.Turns[1].Role)
	})

	t.Run("empty message is rejected", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/sessions/"+id+"/messages",
			PostMessageRequest{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown session is 404", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/sessions/nope/messages",
			PostMessageRequest{Content: "hello"})
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = doJSON(t, router, http.MethodGet, "/api/v1/sessions/nope", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestActionEndpoint(t *testing.T) {
	_, router := newTestServer(t)
	id := createSession(t, router)

	t.Run("identify_vet runs the pipeline", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/sessions/"+id+"/actions",
			PostActionRequest{Action: ActionIdentifyVet, GroomID: "G-1", BrideID: "B-1"})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp PostMessageResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, models.PhaseSuccess, resp.Phase)
	})

	t.Run("unknown action is rejected", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/sessions/"+id+"/actions",
			PostActionRequest{Action: "dance"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRenderAction(t *testing.T) {
	text, err := renderAction(PostActionRequest{Action: ActionIdentifyVet, GroomID: "G-3", BrideID: "B-4"})
	require.NoError(t, err)
	assert.Contains(t, text, "G-3")
	assert.Contains(t, text, "B-4")

	text, err = renderAction(PostActionRequest{Action: ActionStartNegotiation})
	require.NoError(t, err)
	assert.Contains(t, text, "negotiat")

	_, err = renderAction(PostActionRequest{Action: ""})
	assert.Error(t, err)
}

func TestAuditEndpoint(t *testing.T) {
	_, router := newTestServer(t)
	id := createSession(t, router)

	// A full turn leaves tool and detective entries behind.
	rec := doJSON(t, router, http.MethodPost, "/api/v1/sessions/"+id+"/messages",
		PostMessageRequest{Content: "Vet G-1 and B-1"})
	require.Equal(t, http.StatusOK, rec.Code)

	t.Run("lists recorded entries", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/v1/audit", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp AuditResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Entries)

		agents := map[string]bool{}
		for _, e := range resp.Entries {
			agents[e.AgentName] = true
		}
		assert.True(t, agents["Detective"], "detective entries should be present")
		assert.True(t, agents["background_check"], "tool call entries should be present")
	})

	t.Run("respects the limit parameter", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/v1/audit?limit=1", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp AuditResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.Entries, 1)
	})

	t.Run("rejects a bad limit", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/v1/audit?limit=zero", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
