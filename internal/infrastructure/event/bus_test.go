package event

import (
	"context"
	"errors"
	"testing"

	"github.com/dms/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingHandler struct {
	types    []string
	received []shared.DomainEvent
	fail     bool
	panics   bool
}

func (h *recordingHandler) Handle(_ context.Context, ev shared.DomainEvent) error {
	if h.panics {
		panic("boom")
	}
	h.received = append(h.received, ev)
	if h.fail {
		return errors.New("handler failed")
	}
	return nil
}

func (h *recordingHandler) EventTypes() []string { return h.types }

func newTestEvent(eventType string) shared.DomainEvent {
	ev := shared.NewBaseDomainEvent(eventType, "payment", uuid.New())
	return &ev
}

func TestInMemoryEventBus_PublishToSubscribers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	require.NoError(t, bus.Start(context.Background()))

	posted := &recordingHandler{types: []string{"payment.posted"}}
	derived := &recordingHandler{types: []string{"trip.expenses_derived"}}
	bus.Subscribe(posted)
	bus.Subscribe(derived)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("payment.posted")))

	assert.Len(t, posted.received, 1)
	assert.Empty(t, derived.received)
	require.NoError(t, bus.Stop(context.Background()))
}

func TestInMemoryEventBus_WildcardHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	all := &recordingHandler{}
	bus.Subscribe(all)

	require.NoError(t, bus.Publish(context.Background(),
		newTestEvent("payment.posted"),
		newTestEvent("trip.expenses_derived"),
	))
	assert.Len(t, all.received, 2)
}

func TestInMemoryEventBus_FailingHandlerDoesNotBlockOthers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	failing := &recordingHandler{types: []string{"payment.posted"}, fail: true}
	healthy := &recordingHandler{types: []string{"payment.posted"}}
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("payment.posted")))
	assert.Len(t, healthy.received, 1)
}

func TestInMemoryEventBus_PanickingHandlerRecovered(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	panicking := &recordingHandler{types: []string{"payment.posted"}, panics: true}
	healthy := &recordingHandler{types: []string{"payment.posted"}}
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	assert.NotPanics(t, func() {
		_ = bus.Publish(context.Background(), newTestEvent("payment.posted"))
	})
	assert.Len(t, healthy.received, 1)
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	h := &recordingHandler{types: []string{"payment.posted"}}
	bus.Subscribe(h)
	bus.Unsubscribe(h)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("payment.posted")))
	assert.Empty(t, h.received)
}

func TestHandlerRegistry_GetHandlersCombinesWildcard(t *testing.T) {
	registry := NewHandlerRegistry()
	specific := &recordingHandler{}
	wildcard := &recordingHandler{}

	registry.Register(specific, "payment.posted")
	registry.Register(wildcard)

	assert.Len(t, registry.GetHandlers("payment.posted"), 2)
	assert.Len(t, registry.GetHandlers("trip.created"), 1)
}
