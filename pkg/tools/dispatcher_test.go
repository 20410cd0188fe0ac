package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rishta-council/brokerd/pkg/events"
	"github.com/rishta-council/brokerd/pkg/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func echoTool() *Tool {
	return &Tool{
		Name:        "echo",
		Description: "Echo the msg argument.",
		ArgsSchema: `{
			"type": "object",
			"required": ["msg"],
			"properties": {"msg": {"type": "string"}},
			"additionalProperties": false
		}`,
		Run: func(_ context.Context, args map[string]any) (any, error) {
			return args["msg"], nil
		},
	}
}

func TestDispatcherInvoke(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	recorder := &events.Recorder{}
	d := NewDispatcher(st, recorder, nil)
	require.NoError(t, d.Register(echoTool()))

	t.Run("valid call runs the tool and returns its result", func(t *testing.T) {
		result, err := d.Invoke(ctx, "sess-1", "echo", map[string]any{"msg": "hello"})
		require.NoError(t, err)
		assert.Equal(t, "hello", result)
	})

	t.Run("every call writes one audit entry", func(t *testing.T) {
		before, err := st.CountLogsByAgent(ctx, "echo")
		require.NoError(t, err)

		_, err = d.Invoke(ctx, "sess-1", "echo", map[string]any{"msg": "again"})
		require.NoError(t, err)

		after, err := st.CountLogsByAgent(ctx, "echo")
		require.NoError(t, err)
		assert.Equal(t, before+1, after)
	})

	t.Run("every call publishes a tool-invoked event", func(t *testing.T) {
		n := len(recorder.Events())
		_, err := d.Invoke(ctx, "sess-2", "echo", map[string]any{"msg": "evt"})
		require.NoError(t, err)

		evs := recorder.Events()
		require.Len(t, evs, n+1)
		last := evs[len(evs)-1]
		assert.Equal(t, "sess-2", last.SessionID)
		assert.Equal(t, "echo", last.Tool)
		assert.Equal(t, "evt", last.Arguments["msg"])
	})

	t.Run("unknown tool", func(t *testing.T) {
		_, err := d.Invoke(ctx, "sess-1", "nonexistent", nil)
		assert.ErrorIs(t, err, ErrUnknownTool)
	})

	t.Run("missing required argument", func(t *testing.T) {
		_, err := d.Invoke(ctx, "sess-1", "echo", map[string]any{})
		assert.ErrorIs(t, err, ErrInvalidArguments)
	})

	t.Run("unexpected extra argument", func(t *testing.T) {
		_, err := d.Invoke(ctx, "sess-1", "echo", map[string]any{"msg": "x", "extra": true})
		assert.ErrorIs(t, err, ErrInvalidArguments)
	})

	t.Run("wrong argument type", func(t *testing.T) {
		_, err := d.Invoke(ctx, "sess-1", "echo", map[string]any{"msg": 42})
		assert.ErrorIs(t, err, ErrInvalidArguments)
	})
}

func TestDispatcherRegister(t *testing.T) {
	d := NewDispatcher(newTestStore(t), nil, nil)
	require.NoError(t, d.Register(echoTool()))

	t.Run("duplicate name is rejected", func(t *testing.T) {
		err := d.Register(echoTool())
		assert.Error(t, err)
	})

	t.Run("invalid schema is rejected", func(t *testing.T) {
		err := d.Register(&Tool{Name: "broken", ArgsSchema: `{"type": [`})
		assert.Error(t, err)
	})

	t.Run("names lists registered tools", func(t *testing.T) {
		assert.Contains(t, d.Names(), "echo")
	})
}
