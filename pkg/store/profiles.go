package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rishta-council/brokerd/pkg/models"
)

// ErrProfileNotFound is returned by GetProfile for an unknown id. Callers
// that treat a miss as domain data (the tool layer) translate it; it never
// crosses the core boundary as a failure.
var ErrProfileNotFound = errors.New("profile not found")

const profileColumns = "id, name, gender, age, location, job, salary, family_type, horoscope_sign, risk_factor"

// GetProfile reads one profile by id.
func (s *Store) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+profileColumns+" FROM profiles WHERE id = ?", id)

	var p models.Profile
	err := row.Scan(&p.ID, &p.Name, &p.Gender, &p.Age, &p.Location, &p.Job,
		&p.Salary, &p.FamilyType, &p.HoroscopeSign, &p.RiskFactor)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profile %s: %w", id, err)
	}
	return &p, nil
}

// ListProfileIDsByGender returns the ids of all profiles with the given
// stored gender. An empty result is not an error.
func (s *Store) ListProfileIDsByGender(ctx context.Context, gender string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id FROM profiles WHERE gender = ? ORDER BY id", gender)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles by gender: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan profile id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profile ids: %w", err)
	}
	return ids, nil
}

// InsertProfile writes one profile row. Administrative path only (seeding,
// test fixtures); the pipeline never mutates profiles.
func (s *Store) InsertProfile(ctx context.Context, p *models.Profile) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO profiles ("+profileColumns+") VALUES (?,?,?,?,?,?,?,?,?,?)",
		p.ID, p.Name, p.Gender, p.Age, p.Location, p.Job,
		p.Salary, p.FamilyType, p.HoroscopeSign, p.RiskFactor)
	if err != nil {
		return fmt.Errorf("failed to insert profile %s: %w", p.ID, err)
	}
	return nil
}

// CountProfiles returns the number of stored profiles.
func (s *Store) CountProfiles(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT count(*) FROM profiles").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count profiles: %w", err)
	}
	return n, nil
}
