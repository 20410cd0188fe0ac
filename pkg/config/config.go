// Package config loads and validates brokerd configuration. A Config value
// is built once at startup and passed explicitly to every component; there
// is no process-wide mutable configuration.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config is the complete runtime configuration.
type Config struct {
	HTTP      HTTPConfig        `yaml:"http"`
	Database  DatabaseConfig    `yaml:"database"`
	Reasoning ReasoningConfig   `yaml:"reasoning"`
	Vetting   VettingConfig     `yaml:"vetting"`
	Scoring   ScoringConfig     `yaml:"scoring"`
	Seed      SeedConfig        `yaml:"seed"`
	Stages    StageInstructions `yaml:"stages"`
}

// HTTPConfig holds the API server settings.
type HTTPConfig struct {
	Port string `yaml:"port"`
}

// DatabaseConfig holds the SQLite store settings.
type DatabaseConfig struct {
	// Path is the SQLite database file. ":memory:" opens an in-memory store.
	Path string `yaml:"path"`
}

// ReasoningConfig holds the external reasoning service settings.
type ReasoningConfig struct {
	// Endpoint is the HTTP evaluate endpoint of the reasoning service.
	Endpoint string `yaml:"endpoint"`
	// ModelFast is used for extraction and specialist judgments.
	ModelFast string `yaml:"model_fast"`
	// ModelSmart is used for synthesis and proposal judgments.
	ModelSmart string `yaml:"model_smart"`
	// Timeout bounds a single evaluate call.
	Timeout time.Duration `yaml:"timeout"`
}

// VettingConfig holds the deterministic vetting-check parameters.
type VettingConfig struct {
	// HoroscopeMin/HoroscopeMax bound the uniformly drawn compatibility score.
	HoroscopeMin int `yaml:"horoscope_min"`
	HoroscopeMax int `yaml:"horoscope_max"`
	// HoroscopeThreshold: scores strictly below it are a BAD_MATCH.
	HoroscopeThreshold int `yaml:"horoscope_threshold"`
}

// ScoringConfig holds the negotiation utility formula.
type ScoringConfig struct {
	// Expression is the utility formula, evaluated with variables
	// groom_loc, bride_loc, proposal_loc and bride_career.
	Expression string `yaml:"expression"`
	// SuccessThreshold: viability is High only when score is strictly
	// greater than this value. A score equal to the threshold fails.
	SuccessThreshold int `yaml:"success_threshold"`
}

// SeedConfig controls first-run store seeding.
type SeedConfig struct {
	Grooms int `yaml:"grooms"`
	Brides int `yaml:"brides"`
}

// StageInstructions carries the reasoning instruction for each judgment
// leaf in the pipeline topology. Deterministic branching stays in code;
// these cover only the narrow judgment calls.
type StageInstructions struct {
	Parser      string `yaml:"parser"`
	Synthesizer string `yaml:"synthesizer"`
	GroomRep    string `yaml:"groom_rep"`
	BrideRep    string `yaml:"bride_rep"`
	Proposal    string `yaml:"proposal"`
}

// Validate checks invariants the rest of the system relies on.
func (c *Config) Validate() error {
	var errs []error
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path must not be empty"))
	}
	if c.Scoring.Expression == "" {
		errs = append(errs, errors.New("scoring.expression must not be empty"))
	}
	if c.Vetting.HoroscopeMin > c.Vetting.HoroscopeMax {
		errs = append(errs, fmt.Errorf("vetting: horoscope_min %d > horoscope_max %d",
			c.Vetting.HoroscopeMin, c.Vetting.HoroscopeMax))
	}
	if c.Seed.Grooms < 0 || c.Seed.Brides < 0 {
		errs = append(errs, errors.New("seed counts must not be negative"))
	}
	return errors.Join(errs...)
}
