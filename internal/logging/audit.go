package logging

import (
	"go.uber.org/zap"

	"recipegrip/internal/eventbus"
)

// Audit logs every navigation event published on bus. The returned function
// removes the subscriptions.
func Audit(bus eventbus.EventBus, logger *zap.Logger) func() {
	logger = logger.Named("audit")

	unsubs := []func(){
		bus.Subscribe(eventbus.EventSearchStarted, func(e eventbus.DomainEvent) {
			ev := e.(eventbus.SearchStartedEvent)
			logger.Info("search", zap.String("session", ev.SessionID), zap.String("query", ev.Query))
		}),
		bus.Subscribe(eventbus.EventPageLoaded, func(e eventbus.DomainEvent) {
			ev := e.(eventbus.PageLoadedEvent)
			logger.Info("page loaded",
				zap.String("session", ev.SessionID),
				zap.Int("page", ev.Page),
				zap.Int("total_pages", ev.TotalPages),
				zap.Int("records", ev.Records),
				zap.Duration("duration", ev.Duration))
		}),
		bus.Subscribe(eventbus.EventPageFailed, func(e eventbus.DomainEvent) {
			ev := e.(eventbus.PageFailedEvent)
			logger.Warn("page failed",
				zap.String("session", ev.SessionID),
				zap.String("query", ev.Query),
				zap.Int("page", ev.Page),
				zap.String("reason", ev.Reason),
				zap.Error(ev.Err))
		}),
		bus.Subscribe(eventbus.EventNavigationRejected, func(e eventbus.DomainEvent) {
			ev := e.(eventbus.NavigationRejectedEvent)
			logger.Debug("navigation rejected",
				zap.String("session", ev.SessionID),
				zap.String("intent", ev.Intent),
				zap.Int("target", ev.Target))
		}),
		bus.Subscribe(eventbus.EventStaleResponseDiscarded, func(e eventbus.DomainEvent) {
			ev := e.(eventbus.StaleResponseDiscardedEvent)
			logger.Debug("stale response",
				zap.Int("page", ev.Page),
				zap.Uint64("generation", ev.Generation),
				zap.Uint64("current", ev.Current))
		}),
		bus.Subscribe(eventbus.EventFetchCancelled, func(e eventbus.DomainEvent) {
			ev := e.(eventbus.FetchCancelledEvent)
			logger.Info("fetch cancelled", zap.String("session", ev.SessionID))
		}),
	}

	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}
}
