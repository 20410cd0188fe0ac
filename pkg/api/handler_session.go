package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rishta-council/brokerd/pkg/broker"
	"github.com/rishta-council/brokerd/pkg/models"
)

// SessionResponse is the external view of a session.
type SessionResponse struct {
	SessionID  string        `json:"session_id"`
	Phase      models.Phase  `json:"phase"`
	VettedPair *models.Pair  `json:"vetted_pair,omitempty"`
	Turns      []models.Turn `json:"turns,omitempty"`
}

// PostMessageRequest is the body for POST /sessions/:id/messages.
type PostMessageRequest struct {
	Content string `json:"content"`
}

// PostMessageResponse carries the assistant reply and the resulting phase.
type PostMessageResponse struct {
	Reply      string       `json:"reply"`
	Phase      models.Phase `json:"phase"`
	VettedPair *models.Pair `json:"vetted_pair,omitempty"`
}

// PostActionRequest is the body for POST /sessions/:id/actions. Actions are
// the structured alternative to free-text messages; they are rendered into a
// turn and run through the same engine.
type PostActionRequest struct {
	Action  string `json:"action"`
	GroomID string `json:"groom_id,omitempty"`
	BrideID string `json:"bride_id,omitempty"`
}

const (
	ActionIdentifyVet      = "identify_vet"
	ActionStartNegotiation = "start_negotiation"
	ActionProposeFinalize  = "propose_finalize"
)

// createSession handles POST /api/v1/sessions.
func (s *Server) createSession(c *gin.Context) {
	session := s.sessions.Create()
	c.JSON(http.StatusCreated, SessionResponse{
		SessionID: session.ID,
		Phase:     session.Phase,
	})
}

// getSession handles GET /api/v1/sessions/:id.
func (s *Server) getSession(c *gin.Context) {
	session, err := s.sessions.Snapshot(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, SessionResponse{
		SessionID:  session.ID,
		Phase:      session.Phase,
		VettedPair: session.VettedPair,
		Turns:      session.Turns,
	})
}

// postMessage handles POST /api/v1/sessions/:id/messages. The run is
// synchronous: the response carries the assistant's reply for this turn.
func (s *Server) postMessage(c *gin.Context) {
	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}
	s.runTurn(c, req.Content)
}

// postAction handles POST /api/v1/sessions/:id/actions.
func (s *Server) postAction(c *gin.Context) {
	var req PostActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	text, err := renderAction(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.runTurn(c, text)
}

func (s *Server) runTurn(c *gin.Context, content string) {
	id := c.Param("id")
	reply, err := s.sessions.Run(c.Request.Context(), s.engine, id, content)
	if err != nil {
		if errors.Is(err, broker.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		s.logger.Error("Run failed", "session_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process message"})
		return
	}

	session, err := s.sessions.Snapshot(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, PostMessageResponse{
		Reply:      reply,
		Phase:      session.Phase,
		VettedPair: session.VettedPair,
	})
}

// renderAction turns a structured action into the conversational request the
// engine understands.
func renderAction(req PostActionRequest) (string, error) {
	pair := ""
	switch {
	case req.GroomID != "" && req.BrideID != "":
		pair = fmt.Sprintf(" for %s and %s", req.GroomID, req.BrideID)
	case req.GroomID != "":
		pair = fmt.Sprintf(" for %s", req.GroomID)
	case req.BrideID != "":
		pair = fmt.Sprintf(" for %s", req.BrideID)
	}

	switch req.Action {
	case ActionIdentifyVet:
		return "Identify and vet a match" + pair + ".", nil
	case ActionStartNegotiation:
		return "Start negotiating the match" + pair + ".", nil
	case ActionProposeFinalize:
		return "Propose a compromise and finalize the match" + pair + ".", nil
	default:
		return "", fmt.Errorf("unknown action %q", req.Action)
	}
}
