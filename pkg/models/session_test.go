package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionAppendAndHistory(t *testing.T) {
	s := &Session{ID: "s-1", Phase: PhaseInit}
	s.Append(RoleUser, "Vet G-1 and B-1")
	s.Append(RoleAssistant, "VERDICT: VETTING PASSED.")

	assert.Len(t, s.Turns, 2)
	assert.False(t, s.Turns[0].Timestamp.IsZero())

	history := s.HistoryText()
	assert.Equal(t, "user: Vet G-1 and B-1\nassistant: VERDICT: VETTING PASSED.\n", history)
}

func TestPair(t *testing.T) {
	a := Pair{GroomID: "G-1", BrideID: "B-1"}
	assert.True(t, a.Complete())
	assert.True(t, a.Equal(Pair{GroomID: "G-1", BrideID: "B-1"}))
	assert.False(t, a.Equal(Pair{GroomID: "G-1", BrideID: "B-2"}))
	assert.False(t, Pair{GroomID: "G-1"}.Complete())
	assert.False(t, Pair{}.Complete())
}

func TestPhaseTerminal(t *testing.T) {
	assert.False(t, PhaseInit.Terminal())
	assert.False(t, PhaseVetting.Terminal())
	assert.False(t, PhaseNegotiating.Terminal())
	assert.True(t, PhaseRejected.Terminal())
	assert.True(t, PhaseSuccess.Terminal())
	assert.True(t, PhaseFailed.Terminal())
}
