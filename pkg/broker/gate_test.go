package broker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rishta-council/brokerd/pkg/models"
)

func TestExtractPair(t *testing.T) {
	t.Run("both ids", func(t *testing.T) {
		pair := ExtractPair("Please vet G-3 and B-7 for marriage")
		assert.Equal(t, models.Pair{GroomID: "G-3", BrideID: "B-7"}, pair)
	})

	t.Run("only one side", func(t *testing.T) {
		assert.Equal(t, models.Pair{GroomID: "G-12"}, ExtractPair("What about G-12?"))
		assert.Equal(t, models.Pair{BrideID: "B-2"}, ExtractPair("Find someone for B-2"))
	})

	t.Run("no ids", func(t *testing.T) {
		assert.Equal(t, models.Pair{}, ExtractPair("Please reconsider, I beg you"))
	})

	t.Run("first mention wins", func(t *testing.T) {
		pair := ExtractPair("Compare G-1 with G-2 for B-1")
		assert.Equal(t, models.Pair{GroomID: "G-1", BrideID: "B-1"}, pair)
	})

	t.Run("ids must stand alone", func(t *testing.T) {
		assert.Equal(t, models.Pair{}, ExtractPair("the XG-1 protocol"))
	})
}

func TestEvaluateGate(t *testing.T) {
	decided := &models.Pair{GroomID: "G-1", BrideID: "B-1"}

	t.Run("non-terminal session always proceeds", func(t *testing.T) {
		s := &models.Session{Phase: models.PhaseInit}
		assert.Equal(t, gateProceed, evaluateGate(s, models.Pair{}))

		s = &models.Session{Phase: models.PhaseNegotiating, VettedPair: decided}
		assert.Equal(t, gateProceed, evaluateGate(s, *decided))
	})

	t.Run("rejected pair is sticky against pleas", func(t *testing.T) {
		s := &models.Session{Phase: models.PhaseRejected, VettedPair: decided}
		assert.Equal(t, gateSticky, evaluateGate(s, models.Pair{}))
		assert.Equal(t, gateSticky, evaluateGate(s, *decided))
	})

	t.Run("partial reference to a new pair stays sticky", func(t *testing.T) {
		s := &models.Session{Phase: models.PhaseRejected, VettedPair: decided}
		assert.Equal(t, gateSticky, evaluateGate(s, models.Pair{GroomID: "G-2"}))
	})

	t.Run("complete different pair reopens vetting", func(t *testing.T) {
		for _, phase := range []models.Phase{models.PhaseRejected, models.PhaseSuccess, models.PhaseFailed} {
			s := &models.Session{Phase: phase, VettedPair: decided}
			assert.Equal(t, gateProceed, evaluateGate(s, models.Pair{GroomID: "G-2", BrideID: "B-2"}))
		}
	})
}

func TestStickyMessage(t *testing.T) {
	decided := &models.Pair{GroomID: "G-1", BrideID: "B-1"}

	t.Run("rejection restates the final decision verbatim", func(t *testing.T) {
		s := &models.Session{Phase: models.PhaseRejected, VettedPair: decided}
		assert.Equal(t, msgDecisionFinal, stickyMessage(s))
	})

	t.Run("settled match", func(t *testing.T) {
		s := &models.Session{Phase: models.PhaseSuccess, VettedPair: decided}
		msg := stickyMessage(s)
		assert.Contains(t, msg, "MATCH SUCCESSFUL")
		assert.Contains(t, msg, "G-1")
		assert.Contains(t, msg, "B-1")
	})

	t.Run("closed negotiation", func(t *testing.T) {
		s := &models.Session{Phase: models.PhaseFailed, VettedPair: decided}
		assert.Contains(t, stickyMessage(s), "NEGOTIATION FAILED")
	})
}
