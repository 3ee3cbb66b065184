package event

import (
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestBusPublish(t *testing.T) {
	t.Run("handler receives only its subscribed type", func(t *testing.T) {
		bus := NewBus(zerolog.Nop())

		var got []Event
		bus.Subscribe(RequestAccepted, func(e Event) { got = append(got, e) })

		bus.Publish(RequestAccepted, "req1", map[string]interface{}{"channel_id": "ch1"})
		bus.Publish(RequestRejected, "req2", nil)

		assert.Len(t, got, 1)
		assert.Equal(t, RequestAccepted, got[0].Type)
		assert.Equal(t, "req1", got[0].EntityID)
		assert.Equal(t, "ch1", got[0].Payload["channel_id"])
		assert.False(t, got[0].Timestamp.IsZero())
	})

	t.Run("wildcard receives every event", func(t *testing.T) {
		bus := NewBus(zerolog.Nop())

		var types []string
		bus.Subscribe("*", func(e Event) { types = append(types, e.Type) })

		bus.Publish(ChannelCreated, "ch1", nil)
		bus.Publish(MessageFlagged, "m1", nil)
		bus.Publish(ReportFiled, "rep1", nil)

		assert.Equal(t, []string{ChannelCreated, MessageFlagged, ReportFiled}, types)
	})

	t.Run("typed and wildcard handlers both fire once", func(t *testing.T) {
		bus := NewBus(zerolog.Nop())

		typed, wild := 0, 0
		bus.Subscribe(ChannelClosed, func(Event) { typed++ })
		bus.Subscribe("*", func(Event) { wild++ })

		bus.Publish(ChannelClosed, "ch1", nil)

		assert.Equal(t, 1, typed)
		assert.Equal(t, 1, wild)
	})
}

func TestBusPanicRecovery(t *testing.T) {
	bus := NewBus(zerolog.Nop())

	calledAfter := false
	bus.Subscribe(ProfileSuspended, func(Event) { panic("boom") })
	bus.Subscribe(ProfileSuspended, func(Event) { calledAfter = true })

	assert.NotPanics(t, func() {
		bus.Publish(ProfileSuspended, "bob", nil)
	})
	assert.True(t, calledAfter, "handlers after a panicking one still run")
}

func TestBusPublishAsync(t *testing.T) {
	bus := NewBus(zerolog.Nop())

	var wg sync.WaitGroup
	wg.Add(1)
	bus.Subscribe(RequestExpired, func(e Event) {
		assert.Equal(t, "req1", e.EntityID)
		wg.Done()
	})

	bus.PublishAsync(RequestExpired, "req1", nil)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("async event was never delivered")
	}
}
