package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/conductor/internal/types"
)

func receive(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestBus_PublishAndSubscribe(t *testing.T) {
	b := NewBus()
	defer b.Close()

	ch, cancel := b.Subscribe(Filter{}, 0)
	defer cancel()

	runID := types.NewID()
	require.NoError(t, b.Publish(New(EventRunStarted, runID, map[string]any{"goal": "scan"})))

	got := receive(t, ch)
	assert.Equal(t, EventRunStarted, got.Type)
	assert.Equal(t, runID, got.RunID)
	assert.Equal(t, "scan", got.Attrs["goal"])
	assert.False(t, got.Timestamp.IsZero())
}

func TestBus_FilterByType(t *testing.T) {
	b := NewBus()
	defer b.Close()

	ch, cancel := b.Subscribe(Filter{Types: []EventType{EventToolCallFailed}}, 0)
	defer cancel()

	runID := types.NewID()
	require.NoError(t, b.Publish(New(EventToolCallStarted, runID, nil)))
	require.NoError(t, b.Publish(New(EventToolCallFailed, runID, nil)))

	got := receive(t, ch)
	assert.Equal(t, EventToolCallFailed, got.Type)
	assert.Empty(t, ch)
}

func TestBus_FilterByRunID(t *testing.T) {
	b := NewBus()
	defer b.Close()

	mine := types.NewID()
	other := types.NewID()

	ch, cancel := b.Subscribe(Filter{RunID: mine}, 0)
	defer cancel()

	require.NoError(t, b.Publish(New(EventRunStarted, other, nil)))
	require.NoError(t, b.Publish(New(EventRunStarted, mine, nil)))

	got := receive(t, ch)
	assert.Equal(t, mine, got.RunID)
	assert.Empty(t, ch)
}

func TestBus_SlowSubscriberDoesNotBlockPublish(t *testing.T) {
	b := NewBus()
	defer b.Close()

	_, cancel := b.Subscribe(Filter{}, 1)
	defer cancel()

	runID := types.NewID()
	// Second publish overflows the buffer; it must drop, not block.
	require.NoError(t, b.Publish(New(EventRunStarted, runID, nil)))
	require.NoError(t, b.Publish(New(EventRunCompleted, runID, nil)))
}

func TestBus_Cancel_StopsDelivery(t *testing.T) {
	b := NewBus()
	defer b.Close()

	ch, cancel := b.Subscribe(Filter{}, 0)
	cancel()
	// Idempotent.
	cancel()

	_, open := <-ch
	assert.False(t, open)

	require.NoError(t, b.Publish(New(EventRunStarted, types.NewID(), nil)))
}

func TestBus_Close(t *testing.T) {
	b := NewBus()
	ch, _ := b.Subscribe(Filter{}, 0)

	require.NoError(t, b.Close())
	require.NoError(t, b.Close())

	_, open := <-ch
	assert.False(t, open)

	assert.ErrorIs(t, b.Publish(New(EventRunStarted, types.NewID(), nil)), ErrBusClosed)
}

func TestFilter_Matches(t *testing.T) {
	runID := types.NewID()
	event := New(EventPhaseTransition, runID, nil)

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"empty_matches_all", Filter{}, true},
		{"type_match", Filter{Types: []EventType{EventPhaseTransition}}, true},
		{"type_mismatch", Filter{Types: []EventType{EventRunHalted}}, false},
		{"run_match", Filter{RunID: runID}, true},
		{"run_mismatch", Filter{RunID: types.NewID()}, false},
		{"both_match", Filter{Types: []EventType{EventPhaseTransition}, RunID: runID}, true},
		{"type_match_run_mismatch", Filter{Types: []EventType{EventPhaseTransition}, RunID: types.NewID()}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(event))
		})
	}
}
