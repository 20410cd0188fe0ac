package store

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/rishta-council/brokerd/pkg/models"
)

var (
	seedLocations = []string{"Bangalore", "Mumbai", "Delhi", "Chennai"}
	seedJobs      = []string{"Engineer", "Doctor", "Banker", "Artist"}
	seedSigns     = []string{"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo", "Libra", "Scorpio"}

	// 80% clean, remainder split between the two risk factors.
	seedRisks = []string{
		models.RiskClean, models.RiskClean, models.RiskClean, models.RiskClean,
		models.RiskClean, models.RiskClean, models.RiskClean, models.RiskClean,
		models.RiskHighDebt, models.RiskFakeJob,
	}
)

// Seed populates the profiles table on first initialization: grooms G-1..G-n
// and brides B-1..B-n with randomized location/job/sign and weighted risk.
// Idempotent: a non-empty table is left untouched. rng may be nil, in which
// case the shared source is used.
func (s *Store) Seed(ctx context.Context, grooms, brides int, rng *rand.Rand) error {
	count, err := s.CountProfiles(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	slog.Info("Seeding profile store", "grooms", grooms, "brides", brides)

	for i := 1; i <= grooms; i++ {
		p := &models.Profile{
			ID:            fmt.Sprintf("G-%d", i),
			Name:          fmt.Sprintf("Groom_%d", i),
			Gender:        models.GenderMale,
			Age:           29,
			Location:      pick(rng, seedLocations),
			Job:           pick(rng, seedJobs),
			Salary:        "30 LPA",
			FamilyType:    "Joint",
			HoroscopeSign: pick(rng, seedSigns),
			RiskFactor:    pick(rng, seedRisks),
		}
		if err := s.InsertProfile(ctx, p); err != nil {
			return err
		}
	}
	for i := 1; i <= brides; i++ {
		p := &models.Profile{
			ID:            fmt.Sprintf("B-%d", i),
			Name:          fmt.Sprintf("Bride_%d", i),
			Gender:        models.GenderFemale,
			Age:           27,
			Location:      pick(rng, seedLocations),
			Job:           pick(rng, seedJobs),
			Salary:        "25 LPA",
			FamilyType:    "Nuclear",
			HoroscopeSign: pick(rng, seedSigns),
			RiskFactor:    pick(rng, seedRisks),
		}
		if err := s.InsertProfile(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func pick(rng *rand.Rand, values []string) string {
	if rng == nil {
		return values[rand.Intn(len(values))]
	}
	return values[rng.Intn(len(values))]
}
