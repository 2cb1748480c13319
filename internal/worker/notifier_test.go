package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bistro/internal/model"
)

type recordingBroadcaster struct {
	ch chan model.Order
}

func (r *recordingBroadcaster) BroadcastNewOrder(order model.Order) {
	r.ch <- order
}

func TestNotifier_ForwardsEventsInOrder(t *testing.T) {
	events := make(chan model.Order, 8)
	hub := &recordingBroadcaster{ch: make(chan model.Order, 8)}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stopped := make(chan struct{})
	go func() {
		NewNotifier(events, hub).Start(ctx)
		close(stopped)
	}()

	for i := int64(1); i <= 3; i++ {
		events <- model.Order{ID: i}
	}

	for i := int64(1); i <= 3; i++ {
		select {
		case got := <-hub.ch:
			assert.Equal(t, i, got.ID)
		case <-time.After(time.Second):
			t.Fatalf("broadcast %d never happened", i)
		}
	}

	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("notifier did not stop on context cancel")
	}
}

func TestNotifier_StopsWithoutEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		NewNotifier(make(chan model.Order), &recordingBroadcaster{ch: make(chan model.Order, 1)}).Start(ctx)
		close(stopped)
	}()

	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		require.Fail(t, "notifier did not stop")
	}
}
