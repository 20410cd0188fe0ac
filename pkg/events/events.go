// Package events carries the observability stream of tool invocations.
// Events are emitted before the final response text is available and never
// affect control flow; publishing is best-effort by design.
package events

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// ToolInvoked is emitted once per tool dispatch, before the run's final
// text is produced.
type ToolInvoked struct {
	SessionID string         `json:"session_id"`
	Tool      string         `json:"tool"`
	Arguments map[string]any `json:"arguments"`
	Timestamp time.Time      `json:"timestamp"`
}

// Publisher receives tool-invocation events. Implementations must be safe
// for concurrent use: parallel stages dispatch tools simultaneously.
type Publisher interface {
	PublishToolInvoked(ctx context.Context, ev ToolInvoked)
}

// NopPublisher drops all events.
type NopPublisher struct{}

func (NopPublisher) PublishToolInvoked(context.Context, ToolInvoked) {}

// LogPublisher writes each event to the structured log.
type LogPublisher struct {
	Logger *slog.Logger
}

func (p *LogPublisher) PublishToolInvoked(_ context.Context, ev ToolInvoked) {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("Tool invoked",
		"session_id", ev.SessionID,
		"tool", ev.Tool,
		"arguments", ev.Arguments,
	)
}

// Recorder keeps events in order for observers and tests.
type Recorder struct {
	mu     sync.Mutex
	events []ToolInvoked
}

func (r *Recorder) PublishToolInvoked(_ context.Context, ev ToolInvoked) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Events returns a snapshot of everything recorded so far, in publish order.
func (r *Recorder) Events() []ToolInvoked {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ToolInvoked, len(r.events))
	copy(out, r.events)
	return out
}

// Fanout forwards each event to every wrapped publisher in order.
type Fanout []Publisher

func (f Fanout) PublishToolInvoked(ctx context.Context, ev ToolInvoked) {
	for _, p := range f {
		p.PublishToolInvoked(ctx, ev)
	}
}
