package eventbus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/typedconfirm/internal/models"
)

func TestEventBus_RoundTrip(t *testing.T) {
	eb := NewEventBus()
	defer eb.Close()

	ev := ActionDecisionEvent{Action: "drop", Confirmation: models.ConfirmationEvent{ID: "abc", Value: true}}
	require.NoError(t, eb.SendToCore(ev))
	assert.Equal(t, ev, <-eb.UIToCore())

	up := ActionUpdateEvent{Action: "drop", State: models.ActionRunning}
	require.NoError(t, eb.SendToUI(up))
	assert.Equal(t, up, <-eb.CoreToUI())
}

func TestEventBus_CircuitBreakerOpensWhenFull(t *testing.T) {
	var errs []EventBusError
	eb := NewEventBus(
		WithCircuitBreaker(NewCircuitBreaker(2, time.Hour)),
		WithErrorCallback(func(e EventBusError) { errs = append(errs, e) }),
	)
	defer eb.Close()

	for i := 0; i < 100; i++ {
		require.NoError(t, eb.SendToUI(StateUpdateEvent{}))
	}
	assert.Error(t, eb.SendToUI(StateUpdateEvent{}))
	assert.Equal(t, CircuitClosed, eb.GetCircuitBreakerState())
	assert.Error(t, eb.SendToUI(StateUpdateEvent{}))
	assert.Equal(t, CircuitOpen, eb.GetCircuitBreakerState())

	// Even with room, an open breaker rejects.
	<-eb.CoreToUI()
	assert.ErrorIs(t, eb.SendToUI(StateUpdateEvent{}), ErrCircuitOpen)
	assert.Len(t, errs, 3)
	assert.Equal(t, "SendToUI", errs[0].Operation)
}

func TestCircuitBreaker_HalfOpenAfterTimeout(t *testing.T) {
	cb := NewCircuitBreaker(1, time.Millisecond)
	cb.RecordFailure()
	assert.Equal(t, CircuitOpen, cb.State())

	time.Sleep(5 * time.Millisecond)
	assert.False(t, cb.IsOpen())
	assert.Equal(t, CircuitHalfOpen, cb.State())

	cb.RecordSuccess()
	assert.Equal(t, CircuitClosed, cb.State())
}

func TestEventBus_SendAfterClose(t *testing.T) {
	eb := NewEventBus()
	eb.Close()
	eb.Close()

	assert.ErrorIs(t, eb.SendToCore(ActionDecisionEvent{}), ErrClosed)
	assert.ErrorIs(t, eb.SendToUI(StateUpdateEvent{}), ErrClosed)
}
