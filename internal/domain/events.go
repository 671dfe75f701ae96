package domain

import "time"

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventSearchStarted          EventType = "SearchStarted"
	EventPageRequested          EventType = "PageRequested"
	EventPageLoaded             EventType = "PageLoaded"
	EventPageFailed             EventType = "PageFailed"
	EventNavigationRejected     EventType = "NavigationRejected"
	EventStaleResponseDiscarded EventType = "StaleResponseDiscarded"
	EventFetchCancelled         EventType = "FetchCancelled"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// SearchStartedEvent is emitted when a new query is submitted
type SearchStartedEvent struct {
	SessionID string
	Query     string
}

func (e SearchStartedEvent) Type() EventType { return EventSearchStarted }

// PageRequestedEvent is emitted right before a page fetch is issued
type PageRequestedEvent struct {
	SessionID  string
	Query      string
	Page       int
	Offset     int
	Limit      int
	Generation uint64
}

func (e PageRequestedEvent) Type() EventType { return EventPageRequested }

// PageLoadedEvent is emitted when a fetched page has been committed
type PageLoadedEvent struct {
	SessionID  string
	Query      string
	Page       int
	TotalPages int
	Records    int
	Duration   time.Duration
}

func (e PageLoadedEvent) Type() EventType { return EventPageLoaded }

// PageFailedEvent is emitted when a fetch failed and nothing advanced
type PageFailedEvent struct {
	SessionID string
	Query     string
	Page      int
	Reason    string // "transport", "malformed" or "other"
	Err       error
	Duration  time.Duration
}

func (e PageFailedEvent) Type() EventType { return EventPageFailed }

// NavigationRejectedEvent is emitted when an intent resolved outside the valid range
type NavigationRejectedEvent struct {
	SessionID  string
	Intent     string
	Target     int
	TotalPages int
}

func (e NavigationRejectedEvent) Type() EventType { return EventNavigationRejected }

// StaleResponseDiscardedEvent is emitted when a superseded fetch completes
type StaleResponseDiscardedEvent struct {
	SessionID  string
	Page       int
	Generation uint64
	Current    uint64
}

func (e StaleResponseDiscardedEvent) Type() EventType { return EventStaleResponseDiscarded }

// FetchCancelledEvent is emitted when the caller cancels the in-flight fetch
type FetchCancelledEvent struct {
	SessionID  string
	Generation uint64
}

func (e FetchCancelledEvent) Type() EventType { return EventFetchCancelled }
