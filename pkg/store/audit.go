package store

import (
	"context"
	"fmt"
	"time"

	"github.com/rishta-council/brokerd/pkg/models"
)

// AppendLog writes one audit entry. The caller decides whether a failure
// matters; the tool dispatcher treats it as best-effort.
func (s *Store) AppendLog(ctx context.Context, agentName, action, details string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO agent_logs (timestamp, agent_name, action, details) VALUES (?,?,?,?)",
		time.Now().UTC().Format(time.RFC3339Nano), agentName, action, details)
	if err != nil {
		return fmt.Errorf("failed to append audit log: %w", err)
	}
	return nil
}

// ListLogs returns the most recent audit entries, newest first.
func (s *Store) ListLogs(ctx context.Context, limit int) ([]models.LogEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, timestamp, agent_name, action, details FROM agent_logs ORDER BY id DESC LIMIT ?",
		limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []models.LogEntry
	for rows.Next() {
		var e models.LogEntry
		var ts string
		if err := rows.Scan(&e.ID, &ts, &e.AgentName, &e.Action, &e.Details); err != nil {
			return nil, fmt.Errorf("failed to scan audit log: %w", err)
		}
		if parsed, perr := time.Parse(time.RFC3339Nano, ts); perr == nil {
			e.Timestamp = parsed
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit logs: %w", err)
	}
	return entries, nil
}

// CountLogsByAgent returns how many audit entries the given agent wrote.
func (s *Store) CountLogsByAgent(ctx context.Context, agentName string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT count(*) FROM agent_logs WHERE agent_name = ?", agentName).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count audit logs: %w", err)
	}
	return n, nil
}
