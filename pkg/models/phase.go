package models

// Phase is the per-pair control state driven by the gate evaluator.
//
// Lifecycle: INIT when a session starts; VETTING while the vetting pipeline
// decides; then REJECTED, or NEGOTIATING followed by SUCCESS or FAILED.
// REJECTED/SUCCESS/FAILED are terminal for the vetted pair, but a new pair
// within the same session starts a fresh INIT→VETTING cycle.
type Phase string

const (
	PhaseInit        Phase = "INIT"
	PhaseVetting     Phase = "VETTING"
	PhaseRejected    Phase = "REJECTED"
	PhaseNegotiating Phase = "NEGOTIATING"
	PhaseSuccess     Phase = "SUCCESS"
	PhaseFailed      Phase = "FAILED"
)

// Terminal reports whether the phase is final for the current pair.
func (p Phase) Terminal() bool {
	switch p {
	case PhaseRejected, PhaseSuccess, PhaseFailed:
		return true
	default:
		return false
	}
}
