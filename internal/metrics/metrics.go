// Package metrics exposes navigation activity as prometheus metrics. The
// recorder is fed from the event bus so the controller stays unaware of it.
package metrics

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"recipegrip/internal/eventbus"
)

// Recorder holds the navigation metrics
type Recorder struct {
	// SearchesTotal counts started searches
	SearchesTotal prometheus.Counter

	// PageRequestsTotal counts issued page fetches.
	// Labels: page_range (1-10, 11-50, 51-100, 100+)
	PageRequestsTotal *prometheus.CounterVec

	// FetchesTotal counts finished fetches.
	// Labels: outcome (loaded, failed, stale, cancelled), reason (failure class or empty)
	FetchesTotal *prometheus.CounterVec

	// FetchDurationSeconds tracks how long committed fetches took.
	// Labels: outcome (loaded, failed)
	FetchDurationSeconds *prometheus.HistogramVec

	// RejectedTotal counts out-of-range navigation.
	// Labels: intent (jump, next, prev, first, last, skip)
	RejectedTotal *prometheus.CounterVec

	// CurrentPage is the page currently displayed
	CurrentPage prometheus.Gauge
}

// NewRecorder creates the metrics and registers them with reg
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		SearchesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "recipegrip_searches_total",
			Help: "Total number of started searches",
		}),
		PageRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "recipegrip_page_requests_total",
			Help: "Total number of page fetches issued",
		}, []string{"page_range"}),
		FetchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "recipegrip_fetches_total",
			Help: "Total number of finished page fetches by outcome",
		}, []string{"outcome", "reason"}),
		FetchDurationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "recipegrip_fetch_duration_seconds",
			Help:    "Page fetch duration distribution",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0},
		}, []string{"outcome"}),
		RejectedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "recipegrip_navigation_rejected_total",
			Help: "Total number of out-of-range navigation intents",
		}, []string{"intent"}),
		CurrentPage: factory.NewGauge(prometheus.GaugeOpts{
			Name: "recipegrip_current_page",
			Help: "Page currently displayed",
		}),
	}
}

// Attach subscribes the recorder to bus. The returned function detaches it.
func (r *Recorder) Attach(bus eventbus.EventBus) func() {
	unsubs := []func(){
		bus.Subscribe(eventbus.EventSearchStarted, func(eventbus.DomainEvent) {
			r.SearchesTotal.Inc()
		}),
		bus.Subscribe(eventbus.EventPageRequested, func(e eventbus.DomainEvent) {
			r.PageRequestsTotal.WithLabelValues(pageRangeBucket(e.(eventbus.PageRequestedEvent).Page)).Inc()
		}),
		bus.Subscribe(eventbus.EventPageLoaded, func(e eventbus.DomainEvent) {
			ev := e.(eventbus.PageLoadedEvent)
			r.FetchesTotal.WithLabelValues("loaded", "").Inc()
			r.FetchDurationSeconds.WithLabelValues("loaded").Observe(ev.Duration.Seconds())
			r.CurrentPage.Set(float64(ev.Page))
		}),
		bus.Subscribe(eventbus.EventPageFailed, func(e eventbus.DomainEvent) {
			ev := e.(eventbus.PageFailedEvent)
			r.FetchesTotal.WithLabelValues("failed", ev.Reason).Inc()
			r.FetchDurationSeconds.WithLabelValues("failed").Observe(ev.Duration.Seconds())
		}),
		bus.Subscribe(eventbus.EventStaleResponseDiscarded, func(eventbus.DomainEvent) {
			r.FetchesTotal.WithLabelValues("stale", "").Inc()
		}),
		bus.Subscribe(eventbus.EventFetchCancelled, func(eventbus.DomainEvent) {
			r.FetchesTotal.WithLabelValues("cancelled", "").Inc()
		}),
		bus.Subscribe(eventbus.EventNavigationRejected, func(e eventbus.DomainEvent) {
			r.RejectedTotal.WithLabelValues(intentKind(e.(eventbus.NavigationRejectedEvent).Intent)).Inc()
		}),
	}
	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}
}

// Handler serves the metrics gathered by g
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// pageRangeBucket returns the page range bucket for a given page number
func pageRangeBucket(page int) string {
	switch {
	case page <= 10:
		return "1-10"
	case page <= 50:
		return "11-50"
	case page <= 100:
		return "51-100"
	default:
		return "100+"
	}
}

// intentKind strips the argument from an intent name such as "jump(15)"
func intentKind(intent string) string {
	if i := strings.IndexByte(intent, '('); i >= 0 {
		return intent[:i]
	}
	return intent
}
