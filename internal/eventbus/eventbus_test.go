package eventbus

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []DomainEvent
}

func (r *recorder) handle(e DomainEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func TestPublishDeliversInOrder(t *testing.T) {
	b := New(nil)
	defer b.Close()

	rec := &recorder{}
	b.Subscribe(EventPageLoaded, rec.handle)

	for i := 1; i <= 5; i++ {
		b.Publish(PageLoadedEvent{Page: i})
	}
	// Other event types are not delivered to this subscriber
	b.Publish(PageFailedEvent{Page: 99})

	require.Eventually(t, func() bool { return rec.len() == 5 }, time.Second, 5*time.Millisecond)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	for i, e := range rec.events {
		loaded, ok := e.(PageLoadedEvent)
		require.True(t, ok)
		assert.Equal(t, i+1, loaded.Page)
	}
}

func TestUnsubscribe(t *testing.T) {
	b := New(nil)
	defer b.Close()

	first := &recorder{}
	second := &recorder{}
	unsubscribe := b.Subscribe(EventFetchCancelled, first.handle)
	b.Subscribe(EventFetchCancelled, second.handle)

	unsubscribe()
	b.Publish(FetchCancelledEvent{Generation: 1})

	require.Eventually(t, func() bool { return second.len() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, first.len())
}

func TestHandlerPanicIsRecovered(t *testing.T) {
	b := New(nil)
	defer b.Close()

	rec := &recorder{}
	b.Subscribe(EventPageFailed, func(DomainEvent) { panic("boom") })
	b.Subscribe(EventPageFailed, rec.handle)

	b.Publish(PageFailedEvent{Page: 2})
	b.Publish(PageFailedEvent{Page: 3})

	require.Eventually(t, func() bool { return rec.len() == 2 }, time.Second, 5*time.Millisecond)
}

func TestPublishAfterClose(t *testing.T) {
	b := New(nil)
	b.Close()
	// Must not block or panic
	b.Publish(SearchStartedEvent{Query: "soup"})
	b.Close()
}
