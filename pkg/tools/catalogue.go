package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/rishta-council/brokerd/pkg/config"
	"github.com/rishta-council/brokerd/pkg/models"
	"github.com/rishta-council/brokerd/pkg/store"
)

// Sentinel domain results. These are data, not errors: downstream stages
// must handle them as valid values.
const (
	NoProfileSentinel = "None"
	CheckRiskFound    = "RISK_FOUND"
	CheckClean        = "CLEAN"
	CheckError        = "Error"
	MatchBad          = "BAD_MATCH"
	MatchGood         = "GOOD_MATCH"
)

// detectiveActor is the audit actor for background checks.
const detectiveActor = "Detective"

// Catalogue builds the brokerage tool set. intn is injectable so tests can
// pin down the random draws; it must be safe for concurrent use.
type Catalogue struct {
	Store   *store.Store
	Scorer  *UtilityScorer
	Vetting config.VettingConfig
	Logger  *slog.Logger

	// Intn returns a uniform value in [0, n). Defaults to math/rand.
	Intn func(n int) int
}

// Register adds every catalogue tool to the dispatcher.
func (c *Catalogue) Register(d *Dispatcher) error {
	if c.Intn == nil {
		c.Intn = rand.Intn
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	for _, t := range []*Tool{
		c.randomProfileID(),
		c.profileDetails(),
		c.backgroundCheck(),
		c.horoscopeCompatibility(),
		c.utilityScore(),
	} {
		if err := d.Register(t); err != nil {
			return err
		}
	}
	return nil
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

// randomProfileID picks uniformly among profiles matching a role's gender.
// Returns the "None" sentinel when nothing matches, not an error.
func (c *Catalogue) randomProfileID() *Tool {
	return &Tool{
		Name:        "random_profile_id",
		Description: "Pick a random profile id for a role (groom or bride).",
		ArgsSchema: `{
			"type": "object",
			"required": ["role"],
			"properties": {"role": {"type": "string"}},
			"additionalProperties": false
		}`,
		Run: func(ctx context.Context, args map[string]any) (any, error) {
			gender := roleToGender(stringArg(args, "role"))
			ids, err := c.Store.ListProfileIDsByGender(ctx, gender)
			if err != nil {
				return nil, err
			}
			if len(ids) == 0 {
				return NoProfileSentinel, nil
			}
			return ids[c.Intn(len(ids))], nil
		},
	}
}

// profileDetails projects the stored attributes of one profile. A miss is
// returned as data.
func (c *Catalogue) profileDetails() *Tool {
	return &Tool{
		Name:        "profile_details",
		Description: "Look up the stored details of a profile id.",
		ArgsSchema: `{
			"type": "object",
			"required": ["id"],
			"properties": {"id": {"type": "string"}},
			"additionalProperties": false
		}`,
		Run: func(ctx context.Context, args map[string]any) (any, error) {
			p, err := c.Store.GetProfile(ctx, stringArg(args, "id"))
			if errors.Is(err, store.ErrProfileNotFound) {
				return map[string]any{"error": "Not Found"}, nil
			}
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"id":        p.ID,
				"name":      p.Name,
				"age":       p.Age,
				"location":  p.Location,
				"job":       p.Job,
				"horoscope": p.HoroscopeSign,
			}, nil
		},
	}
}

// backgroundCheck maps the stored risk factor to RISK_FOUND/CLEAN and
// always writes a Detective audit entry for the check.
func (c *Catalogue) backgroundCheck() *Tool {
	return &Tool{
		Name:        "background_check",
		Description: "Check a profile's stored risk factor.",
		ArgsSchema: `{
			"type": "object",
			"required": ["id"],
			"properties": {"id": {"type": "string"}},
			"additionalProperties": false
		}`,
		Run: func(ctx context.Context, args map[string]any) (any, error) {
			p, err := c.Store.GetProfile(ctx, stringArg(args, "id"))
			if errors.Is(err, store.ErrProfileNotFound) {
				return CheckError, nil
			}
			if err != nil {
				return nil, err
			}
			if logErr := c.Store.AppendLog(ctx, detectiveActor, "Background Check",
				fmt.Sprintf("Checked %s: %s", p.Name, p.RiskFactor)); logErr != nil {
				c.Logger.Warn("Failed to write detective audit entry", "error", logErr)
			}
			if p.RiskFactor == models.RiskHighDebt || p.RiskFactor == models.RiskFakeJob {
				return CheckRiskFound, nil
			}
			return CheckClean, nil
		},
	}
}

// horoscopeCompatibility draws a score uniformly from the configured range;
// BAD_MATCH iff the score is below the threshold.
func (c *Catalogue) horoscopeCompatibility() *Tool {
	return &Tool{
		Name:        "horoscope_compatibility",
		Description: "Check astrological compatibility between two signs.",
		ArgsSchema: `{
			"type": "object",
			"required": ["sign1", "sign2"],
			"properties": {
				"sign1": {"type": "string"},
				"sign2": {"type": "string"}
			},
			"additionalProperties": false
		}`,
		Run: func(ctx context.Context, args map[string]any) (any, error) {
			span := c.Vetting.HoroscopeMax - c.Vetting.HoroscopeMin + 1
			score := c.Vetting.HoroscopeMin + c.Intn(span)
			if score < c.Vetting.HoroscopeThreshold {
				return MatchBad, nil
			}
			return MatchGood, nil
		},
	}
}

// utilityScore evaluates the compromise formula. Pure and deterministic.
func (c *Catalogue) utilityScore() *Tool {
	return &Tool{
		Name:        "utility_score",
		Description: "Score a proposed compromise for viability.",
		ArgsSchema: `{
			"type": "object",
			"required": ["groom_loc", "bride_loc", "proposal_loc", "bride_career"],
			"properties": {
				"groom_loc": {"type": "string"},
				"bride_loc": {"type": "string"},
				"proposal_loc": {"type": "string"},
				"bride_career": {"type": "string"}
			},
			"additionalProperties": false
		}`,
		Run: func(ctx context.Context, args map[string]any) (any, error) {
			score, viability, err := c.Scorer.Score(
				stringArg(args, "groom_loc"),
				stringArg(args, "bride_loc"),
				stringArg(args, "proposal_loc"),
				stringArg(args, "bride_career"),
			)
			if err != nil {
				return nil, err
			}
			return map[string]any{"score": score, "viability": viability}, nil
		},
	}
}

func roleToGender(role string) string {
	switch strings.ToLower(role) {
	case "groom":
		return models.GenderMale
	case "bride":
		return models.GenderFemale
	default:
		return role
	}
}
