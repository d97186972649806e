package eventbus

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"miniatlas/internal/domain"
)

func TestPublishDeliversToSubscribersOfType(t *testing.T) {
	b := New(nil)
	defer b.Close()

	var mu sync.Mutex
	var got []string
	b.Subscribe(EventSelectionLocked, func(e DomainEvent) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, e.(domain.SelectionLockedEvent).Code)
	})
	b.Subscribe(EventRegionToggled, func(e DomainEvent) {
		t.Errorf("unexpected delivery of %s", e.Type())
	})

	b.Publish(domain.SelectionLockedEvent{Code: "FRA"})
	b.Publish(domain.SelectionLockedEvent{Code: "DEU", Previous: "FRA"})

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 2
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"FRA", "DEU"}, got)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := New(nil)
	defer b.Close()

	var mu sync.Mutex
	first, second := 0, 0
	unsubscribe := b.Subscribe(EventFiltersCleared, func(DomainEvent) {
		mu.Lock()
		first++
		mu.Unlock()
	})
	b.Subscribe(EventFiltersCleared, func(DomainEvent) {
		mu.Lock()
		second++
		mu.Unlock()
	})

	unsubscribe()
	b.Publish(domain.FiltersClearedEvent{})

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return second == 1
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, first)
}

func TestHandlerPanicDoesNotStopDispatcher(t *testing.T) {
	b := New(nil)
	defer b.Close()

	done := make(chan struct{})
	b.Subscribe(EventError, func(DomainEvent) { panic("boom") })
	b.Subscribe(EventFiltersCleared, func(DomainEvent) { close(done) })

	b.Publish(domain.ErrorEvent{Message: "x"})
	b.Publish(domain.FiltersClearedEvent{})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("dispatcher stopped after handler panic")
	}
}

func TestPublishAfterCloseIsIgnored(t *testing.T) {
	b := New(nil)
	b.Close()
	b.Close()

	assert.NotPanics(t, func() {
		b.Publish(domain.FiltersClearedEvent{})
	})
}
