package ui

import (
	"recipegrip/internal/eventbus"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// fetchDoneMsg reports that a search or navigation command returned
type fetchDoneMsg struct {
	seq    int
	cancel bool // the request was a Cancel, not a fetch
	err    error
}

// pagerDoneMsg reports that the external pager exited
type pagerDoneMsg struct {
	what string
	err  error
}

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}
