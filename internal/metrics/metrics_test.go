package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipegrip/internal/eventbus"
)

func TestRecorderCountsEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewRecorder(reg)
	bus := eventbus.New(nil)
	defer bus.Close()
	detach := rec.Attach(bus)
	defer detach()

	bus.Publish(eventbus.SearchStartedEvent{SessionID: "s", Query: "pasta"})
	bus.Publish(eventbus.PageRequestedEvent{SessionID: "s", Page: 1})
	bus.Publish(eventbus.PageLoadedEvent{SessionID: "s", Page: 1, TotalPages: 10, Duration: 200 * time.Millisecond})
	bus.Publish(eventbus.PageRequestedEvent{SessionID: "s", Page: 12})
	bus.Publish(eventbus.PageFailedEvent{SessionID: "s", Page: 12, Reason: "transport"})
	bus.Publish(eventbus.StaleResponseDiscardedEvent{SessionID: "s", Page: 3})
	bus.Publish(eventbus.FetchCancelledEvent{SessionID: "s"})
	bus.Publish(eventbus.NavigationRejectedEvent{SessionID: "s", Intent: "jump(15)", Target: 15})
	bus.Publish(eventbus.NavigationRejectedEvent{SessionID: "s", Intent: "next", Target: 11})

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(rec.RejectedTotal.WithLabelValues("next")) == 1
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(rec.SearchesTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.PageRequestsTotal.WithLabelValues("1-10")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.PageRequestsTotal.WithLabelValues("11-50")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.FetchesTotal.WithLabelValues("loaded", "")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.FetchesTotal.WithLabelValues("failed", "transport")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.FetchesTotal.WithLabelValues("stale", "")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.FetchesTotal.WithLabelValues("cancelled", "")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.RejectedTotal.WithLabelValues("jump")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.CurrentPage))
	assert.Equal(t, 2, testutil.CollectAndCount(rec.FetchDurationSeconds))
}

func TestHandlerServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewRecorder(reg)
	rec.SearchesTotal.Add(3)

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "recipegrip_searches_total 3")
}

func TestPageRangeBucket(t *testing.T) {
	tests := map[int]string{1: "1-10", 10: "1-10", 11: "11-50", 50: "11-50", 100: "51-100", 101: "100+"}
	for page, want := range tests {
		assert.Equal(t, want, pageRangeBucket(page), "page %d", page)
	}
	assert.Equal(t, "skip", intentKind("skip(+5)"))
	assert.Equal(t, "last", intentKind("last"))
}
