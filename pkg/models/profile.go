package models

// Profile is one stored candidate record. Profiles are created at seed time
// and are read-only to the orchestration core.
type Profile struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Gender        string `json:"gender"`
	Age           int    `json:"age"`
	Location      string `json:"location"`
	Job           string `json:"job"`
	Salary        string `json:"salary"`
	FamilyType    string `json:"family_type"`
	HoroscopeSign string `json:"horoscope_sign"`
	RiskFactor    string `json:"risk_factor"`
}

// Known risk_factor values. Anything other than RiskClean trips the
// background check.
const (
	RiskClean    = "Clean"
	RiskHighDebt = "High Debt"
	RiskFakeJob  = "Fake Job"
)

// Stored gender values and their trigger-surface role aliases.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
)
