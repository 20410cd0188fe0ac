// Package models defines the shared data model for the brokerage core:
// sessions, profiles, verdicts, phase states and audit log entries.
package models

import "time"

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single conversation turn within a session.
type Turn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Pair identifies one groom/bride combination taken through vetting.
type Pair struct {
	GroomID string `json:"groom_id"`
	BrideID string `json:"bride_id"`
}

// Equal reports whether both ids match.
func (p Pair) Equal(other Pair) bool {
	return p.GroomID == other.GroomID && p.BrideID == other.BrideID
}

// Complete reports whether both sides of the pair are known.
func (p Pair) Complete() bool {
	return p.GroomID != "" && p.BrideID != ""
}

// Session holds one conversation and its gate state. A session is owned by
// the orchestration engine for the lifetime of a run; each run appends
// exactly one user turn and one assistant turn. Sessions are never shared
// in-place across concurrent runs; callers must serialize access.
type Session struct {
	ID    string `json:"id"`
	Turns []Turn `json:"turns"`

	// Phase is the gate state for the most recently vetted pair.
	Phase Phase `json:"phase"`

	// VettedPair is the pair the current Phase refers to. Nil until the
	// first vetting run completes.
	VettedPair *Pair `json:"vetted_pair,omitempty"`
}

// Append adds a turn with the current timestamp.
func (s *Session) Append(role Role, content string) {
	s.Turns = append(s.Turns, Turn{Role: role, Content: content, Timestamp: time.Now().UTC()})
}

// HistoryText flattens the turn history into a single prompt-ready string.
func (s *Session) HistoryText() string {
	var out string
	for _, t := range s.Turns {
		out += string(t.Role) + ": " + t.Content + "\n"
	}
	return out
}
