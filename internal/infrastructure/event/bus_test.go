package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type noteEvent struct {
	shared.BaseDomainEvent
	Note string `json:"note"`
}

func newNoteEvent(eventType string) *noteEvent {
	return &noteEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Note", uuid.New()),
		Note:            "restock the display case",
	}
}

// recordingHandler collects what it receives
type recordingHandler struct {
	types []string
	err   error
	panic bool

	mu   sync.Mutex
	seen []shared.DomainEvent
}

func (h *recordingHandler) Handle(_ context.Context, e shared.DomainEvent) error {
	h.mu.Lock()
	h.seen = append(h.seen, e)
	h.mu.Unlock()
	if h.panic {
		panic("boom")
	}
	return h.err
}

func (h *recordingHandler) EventTypes() []string { return h.types }

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.seen)
}

func TestInMemoryEventBus_Routing(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	ctx := context.Background()

	orders := &recordingHandler{types: []string{"OrderCreated"}}
	everything := &recordingHandler{}
	explicit := &recordingHandler{}
	bus.Subscribe(orders)
	bus.Subscribe(everything)
	bus.Subscribe(explicit, "TransferCompleted")

	require.NoError(t, bus.Publish(ctx, newNoteEvent("OrderCreated"), newNoteEvent("TransferCompleted"), nil))

	assert.Equal(t, 1, orders.count())
	assert.Equal(t, 2, everything.count())
	assert.Equal(t, 1, explicit.count())
	assert.Equal(t, "TransferCompleted", explicit.seen[0].EventType())
}

func TestInMemoryEventBus_FailingHandlersDoNotStopDelivery(t *testing.T) {
	bus := NewInMemoryEventBus(nil)

	failing := &recordingHandler{types: []string{"OrderCreated"}, err: errors.New("broker down")}
	panicking := &recordingHandler{types: []string{"OrderCreated"}, panic: true}
	healthy := &recordingHandler{types: []string{"OrderCreated"}}
	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), newNoteEvent("OrderCreated"))

	require.NoError(t, err)
	assert.Equal(t, 1, failing.count())
	assert.Equal(t, 1, panicking.count())
	assert.Equal(t, 1, healthy.count())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	ctx := context.Background()

	h := &recordingHandler{types: []string{"OrderCreated", "OrderCancelled"}}
	bus.Subscribe(h)
	_ = bus.Publish(ctx, newNoteEvent("OrderCreated"))
	bus.Unsubscribe(h)
	_ = bus.Publish(ctx, newNoteEvent("OrderCreated"), newNoteEvent("OrderCancelled"))

	assert.Equal(t, 1, h.count())
	assert.Empty(t, bus.handlersFor("OrderCancelled"))
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	ctx := context.Background()

	assert.False(t, bus.Running())
	require.NoError(t, bus.Start(ctx))
	assert.True(t, bus.Running())
	require.NoError(t, bus.Stop(ctx))
	assert.False(t, bus.Running())
}

func TestMarshalEnvelope(t *testing.T) {
	e := newNoteEvent("OrderCreated")

	data, err := Marshal(e)
	require.NoError(t, err)

	env, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, e.EventID(), env.ID)
	assert.Equal(t, "OrderCreated", env.Type)
	assert.Equal(t, "Note", env.AggregateType)
	assert.Equal(t, e.AggregateID(), env.AggregateID)
	assert.Contains(t, string(env.Payload), `"note":"restock the display case"`)

	_, err = Unmarshal([]byte(`{"id":"00000000-0000-0000-0000-000000000000"}`))
	assert.Error(t, err)
}
