// Package broker drives one conversation run end to end: it owns the
// session history, gates phase transitions on vetting verdicts, enforces
// sticky rejection, and conditionally enters negotiation.
package broker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rishta-council/brokerd/pkg/models"
	"github.com/rishta-council/brokerd/pkg/pipeline"
	"github.com/rishta-council/brokerd/pkg/reasoning"
	"github.com/rishta-council/brokerd/pkg/tools"
)

// Engine is the orchestration glue. It composes a fresh stage graph per
// run, executes it, and applies the gate evaluator's transition rules.
type Engine struct {
	composer  *pipeline.Composer
	reasoning reasoning.Client
	tools     *tools.Dispatcher
	logger    *slog.Logger
}

// NewEngine wires the engine. logger may be nil.
func NewEngine(composer *pipeline.Composer, client reasoning.Client, dispatcher *tools.Dispatcher, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		composer:  composer,
		reasoning: client,
		tools:     dispatcher,
		logger:    logger,
	}
}

// Run processes one user message and returns the assistant's response.
// Exactly one user turn and one assistant turn are appended. Callers must
// serialize runs on the same session.
func (e *Engine) Run(ctx context.Context, session *models.Session, userText string) (string, error) {
	logger := e.logger.With("session_id", session.ID)
	session.Append(models.RoleUser, userText)

	reply := e.process(ctx, session, userText, logger)

	session.Append(models.RoleAssistant, reply)
	return reply, nil
}

func (e *Engine) process(ctx context.Context, session *models.Session, userText string, logger *slog.Logger) string {
	referenced := ExtractPair(userText)

	if evaluateGate(session, referenced) == gateSticky {
		logger.Info("Gate blocked turn for decided pair",
			"phase", session.Phase,
			"pair", *session.VettedPair,
		)
		return stickyMessage(session)
	}

	pair, reply := e.resolvePair(ctx, session, referenced, logger)
	if reply != "" {
		return reply
	}

	// Snapshot gate state: structural failures must not commit a transition.
	prevPhase, prevPair := session.Phase, session.VettedPair

	verdict, err := e.runVetting(ctx, session, pair)
	if err != nil {
		logger.Error("Vetting pipeline failed", "error", err)
		session.Phase, session.VettedPair = prevPhase, prevPair
		return msgCannotComplete
	}

	if verdict.Status == models.VerdictFail {
		session.Phase = models.PhaseRejected
		session.VettedPair = &pair
		logger.Info("Pair rejected", "pair", pair, "summary", verdict.Summary)
		return msgRejected + " " + verdict.Summary
	}

	session.Phase = models.PhaseNegotiating
	session.VettedPair = &pair
	logger.Info("Pair passed vetting, entering negotiation", "pair", pair)

	outcome, err := e.runNegotiation(ctx, session, pair)
	if err != nil {
		logger.Error("Negotiation failed structurally", "error", err)
		session.Phase, session.VettedPair = prevPhase, prevPair
		return msgCannotComplete
	}

	session.Phase = outcome.phase
	return msgVettingPassed + " " + outcome.message
}

// resolvePair completes the pair under consideration: ids referenced in the
// turn win; missing sides are drawn with the random-profile tool. Returns a
// non-empty reply when no pair can be assembled.
func (e *Engine) resolvePair(ctx context.Context, session *models.Session, referenced models.Pair, logger *slog.Logger) (models.Pair, string) {
	pair := referenced
	for _, side := range []struct {
		id   *string
		role string
	}{
		{&pair.GroomID, "groom"},
		{&pair.BrideID, "bride"},
	} {
		if *side.id != "" {
			continue
		}
		result, err := e.tools.Invoke(ctx, session.ID, "random_profile_id",
			map[string]any{"role": side.role})
		if err != nil {
			logger.Error("Failed to draw random profile", "role", side.role, "error", err)
			return pair, msgCannotComplete
		}
		id, _ := result.(string)
		if id == tools.NoProfileSentinel {
			return pair, msgNoProfiles
		}
		*side.id = id
	}
	return pair, ""
}

// runVetting executes a fresh vetting pipeline and returns the validated
// verdict.
func (e *Engine) runVetting(ctx context.Context, session *models.Session, pair models.Pair) (*models.Verdict, error) {
	session.Phase = models.PhaseVetting

	exec := e.newExecution(session)
	seed := pipeline.Context{
		pipeline.KeyHistory: session.HistoryText() +
			fmt.Sprintf("Candidates under consideration: %s and %s\n", pair.GroomID, pair.BrideID),
		pipeline.KeyGroomID: pair.GroomID,
		pipeline.KeyBrideID: pair.BrideID,
	}

	out, err := exec.Execute(ctx, e.composer.VettingPipeline(), seed)
	if err != nil {
		return nil, err
	}

	status := out.String(pipeline.KeyVerdict + ".status")
	summary := out.String(pipeline.KeyVerdict + ".summary")
	if status != string(models.VerdictPass) && status != string(models.VerdictFail) {
		return nil, pipeline.Structuralf(pipeline.StageSynthesizer, "verdict has no usable status")
	}
	return &models.Verdict{Status: models.VerdictStatus(status), Summary: summary}, nil
}

// negotiationOutcome is the terminal result of the negotiation phase.
type negotiationOutcome struct {
	phase   models.Phase
	message string
}

// runNegotiation consults both representatives, derives a single proposal,
// scores it, and settles the pair: SUCCESS on High viability, FAILED
// otherwise.
func (e *Engine) runNegotiation(ctx context.Context, session *models.Session, pair models.Pair) (*negotiationOutcome, error) {
	exec := e.newExecution(session)
	seed := pipeline.Context{
		pipeline.KeyGroomID: pair.GroomID,
		pipeline.KeyBrideID: pair.BrideID,
	}

	council, err := exec.Execute(ctx, e.composer.RepCouncil(), seed)
	if err != nil {
		return nil, err
	}

	withProposal, err := exec.Execute(ctx, e.composer.ProposalStage(), council)
	if err != nil {
		return nil, err
	}

	groomLoc := withProposal.String(pipeline.KeyGroomProfile + ".location")
	brideLoc := withProposal.String(pipeline.KeyBrideProfile + ".location")
	proposalLoc := withProposal.String(pipeline.KeyProposal + ".proposal_loc")
	brideCareer := withProposal.String(pipeline.KeyProposal + ".bride_career")
	if groomLoc == "" || brideLoc == "" {
		return nil, pipeline.Structuralf(pipeline.StageRepCouncil, "profile locations unavailable for pair %s/%s", pair.GroomID, pair.BrideID)
	}

	result, err := e.tools.Invoke(ctx, session.ID, "utility_score", map[string]any{
		"groom_loc":    groomLoc,
		"bride_loc":    brideLoc,
		"proposal_loc": proposalLoc,
		"bride_career": brideCareer,
	})
	if err != nil {
		return nil, pipeline.Structural("utility_score", err)
	}

	scored, _ := result.(map[string]any)
	score, _ := scored["score"].(int)
	viability, _ := scored["viability"].(string)

	if viability == tools.ViabilityHigh {
		return &negotiationOutcome{
			phase: models.PhaseSuccess,
			message: fmt.Sprintf("MATCH SUCCESSFUL. Settlement: %s; bride career: %s. Utility score %d (viability High).",
				proposalLoc, brideCareer, score),
		}, nil
	}
	return &negotiationOutcome{
		phase: models.PhaseFailed,
		message: fmt.Sprintf("NEGOTIATION FAILED. Proposal %s scored %d (viability Low).",
			proposalLoc, score),
	}, nil
}

// newExecution builds the per-run executor. Fresh per run, like the graph.
func (e *Engine) newExecution(session *models.Session) *pipeline.Execution {
	return &pipeline.Execution{
		SessionID: session.ID,
		Reasoning: e.reasoning,
		Tools:     e.tools,
		Logger:    e.logger.With("session_id", session.ID),
	}
}
