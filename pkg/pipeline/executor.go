package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/rishta-council/brokerd/pkg/reasoning"
	"github.com/rishta-council/brokerd/pkg/tools"
)

// Execution runs one stage graph for one session. Like the graph itself it
// is created fresh per run and exclusively owned by it, so the executor
// needs no internal locking.
type Execution struct {
	SessionID string
	Reasoning reasoning.Client
	Tools     *tools.Dispatcher
	Logger    *slog.Logger
}

// indexedResult pairs a parallel child's outcome with its launch index so
// merge order is deterministic regardless of completion order.
type indexedResult struct {
	index  int
	output Context
	err    error
}

// Execute runs a stage against an input context and returns the output
// context. The input is never mutated. Only structural failures are
// returned as errors; domain results travel inside the context.
func (e *Execution) Execute(ctx context.Context, stage *Stage, input Context) (Context, error) {
	if err := ctx.Err(); err != nil {
		return input, Structural(stage.Name, err)
	}

	switch stage.Kind {
	case KindLeaf:
		return e.executeLeaf(ctx, stage, input)
	case KindSequential:
		return e.executeSequential(ctx, stage, input)
	case KindParallel:
		return e.executeParallel(ctx, stage, input)
	default:
		return input, Structuralf(stage.Name, "unknown stage kind %q", stage.Kind)
	}
}

func (e *Execution) executeLeaf(ctx context.Context, stage *Stage, input Context) (Context, error) {
	switch {
	case stage.Reasoning != nil:
		return e.executeReasoningLeaf(ctx, stage, input)
	case stage.Tool != nil:
		return e.executeToolLeaf(ctx, stage, input)
	default:
		return input, Structuralf(stage.Name, "leaf has no binding")
	}
}

// executeReasoningLeaf sends the stage's instruction plus the relevant
// context slice to the reasoning service. When the stage declares an output
// schema the response must conform before it is trusted; a non-conforming
// response is a structural failure, not a business FAIL.
func (e *Execution) executeReasoningLeaf(ctx context.Context, stage *Stage, input Context) (Context, error) {
	binding := stage.Reasoning

	resp, err := e.Reasoning.Evaluate(ctx, &reasoning.Request{
		Stage:        stage.Name,
		Model:        binding.Model,
		Instruction:  binding.Instruction,
		Context:      input.Slice(binding.ContextKeys),
		OutputSchema: binding.OutputSchema,
	})
	if err != nil {
		return input, Structural(stage.Name, err)
	}

	output := input.Clone()
	if binding.OutputSchema == "" {
		output[binding.OutputKey] = resp.Text
		return output, nil
	}

	value, err := validateStructured(stage.Name, binding.OutputSchema, resp.Text)
	if err != nil {
		return input, err
	}
	output[binding.OutputKey] = value
	return output, nil
}

// executeToolLeaf resolves the bound arguments from the context and
// delegates to the dispatcher. Tool domain results (not-found, "None") land
// in the context as data; dispatcher failures are structural.
func (e *Execution) executeToolLeaf(ctx context.Context, stage *Stage, input Context) (Context, error) {
	binding := stage.Tool

	args := make(map[string]any, len(binding.Args))
	for name, src := range binding.Args {
		if src.Key == "" {
			args[name] = src.Value
			continue
		}
		v, ok := input.Lookup(src.Key)
		if !ok {
			return input, Structuralf(stage.Name, "argument %q: context key %q not set", name, src.Key)
		}
		args[name] = v
	}

	result, err := e.Tools.Invoke(ctx, e.SessionID, binding.Tool, args)
	if err != nil {
		return input, Structural(stage.Name, err)
	}

	output := input.Clone()
	output[binding.OutputKey] = result
	return output, nil
}

// executeSequential runs children strictly in declared order, threading the
// context through them. The first structural failure aborts the remaining
// children and propagates immediately.
func (e *Execution) executeSequential(ctx context.Context, stage *Stage, input Context) (Context, error) {
	current := input.Clone()
	for _, child := range stage.Children {
		next, err := e.Execute(ctx, child, current)
		if err != nil {
			return next, err
		}
		current = next
	}
	return current, nil
}

// executeParallel fans children out as goroutines against independent
// snapshots of the input and merges each child's declared output keys after
// the barrier. No child's result is consumed until every child has
// finished. A structural failure in one child does not cancel siblings
// already in flight; it is collected and reported alongside the completed
// siblings' merged outputs so the caller can decide relevance.
func (e *Execution) executeParallel(ctx context.Context, stage *Stage, input Context) (Context, error) {
	results := make(chan indexedResult, len(stage.Children))
	var wg sync.WaitGroup

	for i, child := range stage.Children {
		wg.Add(1)
		go func(idx int, child *Stage, snapshot Context) {
			defer wg.Done()
			output, err := e.Execute(ctx, child, snapshot)
			results <- indexedResult{index: idx, output: output, err: err}
		}(i, child, input.Clone())
	}

	// Fan-in barrier.
	wg.Wait()
	close(results)

	collected := make([]indexedResult, len(stage.Children))
	for r := range results {
		collected[r.index] = r
	}

	output := input.Clone()
	var errs []error
	for i, r := range collected {
		if r.err != nil {
			errs = append(errs, r.err)
		}
		if r.output == nil {
			continue
		}
		for _, key := range stage.Children[i].OutputKeys() {
			if v, ok := r.output[key]; ok {
				output[key] = v
			}
		}
	}
	return output, errors.Join(errs...)
}

// validateStructured checks raw against the declared JSON Schema and
// decodes it. Any deviation is a structural failure.
func validateStructured(stageName, schema, raw string) (any, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewStringLoader(raw),
	)
	if err != nil {
		return nil, Structuralf(stageName, "response is not valid JSON: %v", err)
	}
	if !result.Valid() {
		msg := ""
		for i, resErr := range result.Errors() {
			if i > 0 {
				msg += "; "
			}
			msg += resErr.String()
		}
		return nil, Structuralf(stageName, "response does not conform to output schema: %s", msg)
	}

	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return nil, Structuralf(stageName, "failed to decode response: %v", err)
	}
	return value, nil
}
