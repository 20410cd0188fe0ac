package models

// VerdictStatus is the binding pass/fail decision of the vetting synthesis.
type VerdictStatus string

const (
	VerdictPass VerdictStatus = "PASS"
	VerdictFail VerdictStatus = "FAIL"
)

// Verdict is the structured outcome of the vetting pipeline. It is derived
// solely from the vetting council's combined outputs and validated against
// a schema before the gate evaluator trusts it.
type Verdict struct {
	Status  VerdictStatus `json:"status"`
	Summary string        `json:"summary"`
}
