package models

import "time"

// LogEntry is one append-only audit record in agent_logs. Writes are
// best-effort: a failed append is logged and swallowed, never propagated.
type LogEntry struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	AgentName string    `json:"agent_name"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
}

// ToolResult captures one tool dispatch for observers: the call that was
// made and the structured result it produced.
type ToolResult struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
	Result    any            `json:"result"`
}
