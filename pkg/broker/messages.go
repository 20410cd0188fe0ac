package broker

// Fixed user-visible outcome wording. The rejection and repeat-plea lines
// are binding: the gate evaluator re-emits them verbatim for a rejected
// pair no matter how the user argues.
const (
	msgRejected      = "VERDICT: MATCH REJECTED. Vetting failed due to critical risk."
	msgDecisionFinal = "The decision is final based on safety protocols. MATCH REJECTED."
	msgVettingPassed = "VERDICT: VETTING PASSED."

	msgCannotComplete = "The council could not complete this request. Please try again."
	msgNoProfiles     = "No matching profiles are available for vetting."
)
