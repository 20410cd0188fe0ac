package broker

import (
	"regexp"

	"github.com/rishta-council/brokerd/pkg/models"
)

// Candidate id patterns: G-<n> for grooms, B-<n> for brides.
var (
	groomIDPattern = regexp.MustCompile(`\bG-\d+\b`)
	brideIDPattern = regexp.MustCompile(`\bB-\d+\b`)
)

// ExtractPair pulls the first groom and bride ids referenced in text.
// Either side may be empty.
func ExtractPair(text string) models.Pair {
	return models.Pair{
		GroomID: groomIDPattern.FindString(text),
		BrideID: brideIDPattern.FindString(text),
	}
}

// gateDecision is what the phase controller decides to do with an incoming
// turn before any pipeline runs.
type gateDecision int

const (
	// gateProceed: run a fresh vetting cycle for the resolved pair.
	gateProceed gateDecision = iota
	// gateSticky: the pair was already decided; re-emit the outcome
	// without re-invoking any pipeline.
	gateSticky
)

// evaluateGate enforces sticky terminal outcomes. A turn that references
// the already-decided pair, or references no new pair at all (pleading and
// arguing without naming ids), never reopens vetting. Only a genuinely
// different complete pair starts a fresh vetting cycle.
func evaluateGate(session *models.Session, referenced models.Pair) gateDecision {
	if !session.Phase.Terminal() || session.VettedPair == nil {
		return gateProceed
	}
	if referenced.Complete() && !referenced.Equal(*session.VettedPair) {
		return gateProceed
	}
	return gateSticky
}

// stickyMessage is the verbatim response for a turn blocked by the gate.
func stickyMessage(session *models.Session) string {
	switch session.Phase {
	case models.PhaseRejected:
		return msgDecisionFinal
	case models.PhaseSuccess:
		return "MATCH SUCCESSFUL. The match for " + session.VettedPair.GroomID +
			" and " + session.VettedPair.BrideID + " is already settled."
	default: // PhaseFailed
		return "NEGOTIATION FAILED. The match for " + session.VettedPair.GroomID +
			" and " + session.VettedPair.BrideID + " was already closed."
	}
}
