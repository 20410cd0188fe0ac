package config

import "time"

// DefaultUtilityExpression is the compromise utility formula: start from
// 100, subtract 30 when the proposal moves the groom, 20 when it moves the
// bride, 50 when the bride gives up her career. Negative totals are
// possible and intentionally not clamped.
const DefaultUtilityExpression = `100 - (proposal_loc != groom_loc ? 30 : 0) - (proposal_loc != bride_loc ? 20 : 0) - (bride_career == "Quit Job" ? 50 : 0)`

// Defaults returns the compiled-in configuration. A YAML file, when
// present, is merged over these values.
func Defaults() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Port: "8080",
		},
		Database: DatabaseConfig{
			Path: "matrimony_council.sqlite",
		},
		Reasoning: ReasoningConfig{
			Endpoint:   "http://localhost:9090/v1/evaluate",
			ModelFast:  "broker-fast",
			ModelSmart: "broker-smart",
			Timeout:    60 * time.Second,
		},
		Vetting: VettingConfig{
			HoroscopeMin:       10,
			HoroscopeMax:       36,
			HoroscopeThreshold: 18,
		},
		Scoring: ScoringConfig{
			Expression:       DefaultUtilityExpression,
			SuccessThreshold: 60,
		},
		Seed: SeedConfig{
			Grooms: 10,
			Brides: 10,
		},
		Stages: StageInstructions{
			Parser: "You are the data extractor. Check the conversation history " +
				"for profile ids (G-<n>, B-<n>). Return the groom and bride ids " +
				"found, or \"None\" for any side that is missing.",
			Synthesizer: "You are the synthesis judge. Analyze the detective and " +
				"astrologer outputs. If the input contains RISK_FOUND or BAD_MATCH, " +
				"the status is FAIL; otherwise PASS. Return only the verdict object.",
			GroomRep: "Represent the groom. Prefer his location. Be stubborn but " +
				"polite. State his demands for the match.",
			BrideRep: "Represent the bride. Her career is non-negotiable. Prefer " +
				"her location. State her demands for the match.",
			Proposal: "You are the chief broker. Given both representatives' " +
				"demands, propose a single compromise: a wedding/settlement " +
				"location and whether the bride keeps her career.",
		},
	}
}
