package event

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) handle(_ context.Context, e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) types() []EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

func TestBusDispatch(t *testing.T) {
	ctx := context.Background()
	bus := NewBus(ctx, nil, 4)

	var typed, all recorder
	bus.Subscribe(ctx, TaskPosted, typed.handle)
	bus.SubscribeAll(ctx, all.handle)

	bus.Emit(ctx, TaskPosted, "task-1", "tx-1", EventData{KeyAmount: uint64(100)})
	bus.Emit(ctx, RefundClaimed, "task-1", "tx-2", nil)
	bus.WaitForHandlers(ctx)

	assert.Equal(t, []EventType{TaskPosted}, typed.types())
	assert.ElementsMatch(t, []EventType{TaskPosted, RefundClaimed}, all.types())

	require.Len(t, typed.events, 1)
	e := typed.events[0]
	assert.Equal(t, "task-1", e.TaskID)
	assert.Equal(t, "tx-1", e.TxID)
	assert.Equal(t, uint64(100), e.Data[KeyAmount])
	assert.False(t, e.Timestamp.IsZero())
}

func TestBusHandlerPanicIsRecovered(t *testing.T) {
	ctx := context.Background()
	bus := NewBus(ctx, nil, 2)

	var rec recorder
	bus.Subscribe(ctx, TxSubmitted, func(context.Context, Event) { panic("boom") })
	bus.Subscribe(ctx, TxSubmitted, rec.handle)

	bus.Emit(ctx, TxSubmitted, "", "tx", nil)
	bus.WaitForHandlers(ctx)

	assert.Equal(t, []EventType{TxSubmitted}, rec.types())
}

func TestBusHandlersGetOwnCopy(t *testing.T) {
	ctx := context.Background()
	bus := NewBus(ctx, nil, 1)

	bus.SubscribeAll(ctx, func(_ context.Context, e Event) { e.Data[KeyMessage] = "changed" })

	data := EventData{KeyMessage: "original"}
	bus.Emit(ctx, TaskPosted, "t", "", data)
	bus.WaitForHandlers(ctx)

	assert.Equal(t, "original", data[KeyMessage])
}

func TestBusDropsEventsAfterClose(t *testing.T) {
	ctx := context.Background()
	bus := NewBus(ctx, nil, 2)

	var rec recorder
	bus.SubscribeAll(ctx, rec.handle)
	bus.Close(ctx)

	bus.Emit(ctx, TaskPosted, "t", "", nil)
	bus.WaitForHandlers(ctx)

	assert.Empty(t, rec.types())
}

func TestProgress(t *testing.T) {
	assert.Equal(t, ProgressInfo{Status: StatusPending}, GetLatestProgress(nil))

	p := GetLatestProgress([]Event{
		NewEvent(TaskPosted, "t", "tx", nil),
		NewEvent(ReceiptFound, "t", "", nil),
		NewEvent(TxSubmitted, "t", "tx2", nil),
	})
	assert.Equal(t, StatusFulfilled, p.Status)
	assert.Equal(t, 50, p.Percentage)
	assert.Equal(t, ReceiptFound, p.CurrentEvent)

	failed := GetProgressFromEvent(FailureReceiptFound)
	assert.True(t, failed.IsErrorState)
	assert.Equal(t, StatusFailed, failed.Status)

	assert.Equal(t, StatusRefunded, GetProgressFromEvent(RefundClaimed).Status)
	assert.Equal(t, 100, GetProgressFromEvent(RatingRevealed).Percentage)
	assert.True(t, GetProgressFromEvent(TxConflict).IsErrorState)
}
