// Package tools dispatches named side-effecting or pure functions on behalf
// of pipeline stages: it validates arguments, runs the bound function,
// records an audit entry and publishes a tool-invoked event per call.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"github.com/rishta-council/brokerd/pkg/events"
	"github.com/rishta-council/brokerd/pkg/store"
)

// Infrastructure failures. Domain outcomes (not-found, "None") are returned
// as data, never as errors.
var (
	ErrUnknownTool      = errors.New("unknown tool")
	ErrInvalidArguments = errors.New("invalid tool arguments")
)

// ToolFunc executes one tool call. It returns domain results as values;
// errors are reserved for infrastructure failures (unreachable store).
type ToolFunc func(ctx context.Context, args map[string]any) (any, error)

// Tool binds a name and a declared argument schema to a function.
type Tool struct {
	Name        string
	Description string
	// ArgsSchema is a JSON Schema the arguments must satisfy.
	ArgsSchema string
	Run        ToolFunc

	compiledSchema *gojsonschema.Schema
}

// Dispatcher validates, invokes, audits. Safe for concurrent use once all
// tools are registered.
type Dispatcher struct {
	tools     map[string]*Tool
	store     *store.Store
	publisher events.Publisher
	logger    *slog.Logger
}

// NewDispatcher creates an empty dispatcher. publisher may be nil (events
// disabled).
func NewDispatcher(st *store.Store, publisher events.Publisher, logger *slog.Logger) *Dispatcher {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		tools:     make(map[string]*Tool),
		store:     st,
		publisher: publisher,
		logger:    logger,
	}
}

// Register adds a tool, compiling its argument schema.
func (d *Dispatcher) Register(t *Tool) error {
	if _, exists := d.tools[t.Name]; exists {
		return fmt.Errorf("tool %q already registered", t.Name)
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(t.ArgsSchema))
	if err != nil {
		return fmt.Errorf("failed to compile schema for tool %q: %w", t.Name, err)
	}
	t.compiledSchema = schema
	d.tools[t.Name] = t
	return nil
}

// Names returns the registered tool names.
func (d *Dispatcher) Names() []string {
	names := make([]string, 0, len(d.tools))
	for name := range d.tools {
		names = append(names, name)
	}
	return names
}

// Invoke validates args against the tool's declared signature, runs it, and
// records one audit entry describing the call, success or domain failure.
// The audit write is best-effort: a logging failure never fails the call.
func (d *Dispatcher) Invoke(ctx context.Context, sessionID, name string, args map[string]any) (any, error) {
	tool, ok := d.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	if err := d.validateArgs(tool, args); err != nil {
		return nil, err
	}

	d.publisher.PublishToolInvoked(ctx, events.ToolInvoked{
		SessionID: sessionID,
		Tool:      name,
		Arguments: args,
		Timestamp: time.Now().UTC(),
	})

	result, err := tool.Run(ctx, args)
	if err != nil {
		d.audit(ctx, name, args, fmt.Sprintf("error: %v", err))
		return nil, fmt.Errorf("tool %s failed: %w", name, err)
	}

	d.audit(ctx, name, args, summarize(result))
	return result, nil
}

func (d *Dispatcher) validateArgs(tool *Tool, args map[string]any) error {
	if args == nil {
		args = map[string]any{}
	}
	result, err := tool.compiledSchema.Validate(gojsonschema.NewGoLoader(args))
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidArguments, tool.Name, err)
	}
	if !result.Valid() {
		return fmt.Errorf("%w: %s: %s", ErrInvalidArguments, tool.Name, formatSchemaErrors(result))
	}
	return nil
}

// audit appends the per-call LogEntry (actor = tool name). Best-effort.
func (d *Dispatcher) audit(ctx context.Context, name string, args map[string]any, result string) {
	details := fmt.Sprintf("args=%s result=%s", summarize(args), result)
	if err := d.store.AppendLog(ctx, name, "invoked", details); err != nil {
		d.logger.Warn("Failed to write tool audit entry", "tool", name, "error", err)
	}
}

func formatSchemaErrors(result *gojsonschema.Result) string {
	msg := ""
	for i, resErr := range result.Errors() {
		if i > 0 {
			msg += "; "
		}
		msg += resErr.String()
	}
	return msg
}

// summarize renders a compact JSON description of a value for audit details.
func summarize(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	const maxLen = 256
	s := string(raw)
	if len(s) > maxLen {
		s = s[:maxLen] + "..."
	}
	return s
}
