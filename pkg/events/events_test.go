package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r := &Recorder{}

	t.Run("records in publish order", func(t *testing.T) {
		r.PublishToolInvoked(context.Background(), ToolInvoked{Tool: "first"})
		r.PublishToolInvoked(context.Background(), ToolInvoked{Tool: "second"})

		evs := r.Events()
		require.Len(t, evs, 2)
		assert.Equal(t, "first", evs[0].Tool)
		assert.Equal(t, "second", evs[1].Tool)
	})

	t.Run("events returns a snapshot", func(t *testing.T) {
		evs := r.Events()
		r.PublishToolInvoked(context.Background(), ToolInvoked{Tool: "third"})
		assert.Len(t, evs, 2)
		assert.Len(t, r.Events(), 3)
	})

	t.Run("safe under concurrent publishers", func(t *testing.T) {
		fresh := &Recorder{}
		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				fresh.PublishToolInvoked(context.Background(), ToolInvoked{
					Tool:      "background_check",
					Timestamp: time.Now().UTC(),
				})
			}()
		}
		wg.Wait()
		assert.Len(t, fresh.Events(), 16)
	})
}

func TestFanout(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	f := Fanout{a, b, NopPublisher{}}

	f.PublishToolInvoked(context.Background(), ToolInvoked{Tool: "utility_score"})

	assert.Len(t, a.Events(), 1)
	assert.Len(t, b.Events(), 1)
}
