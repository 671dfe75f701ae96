package paging

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"recipegrip/internal/eventbus"
)

// Source fetches one page of records for a query. Implementations return at
// most limit records; a short final page is fine.
type Source[T any] interface {
	FetchPage(ctx context.Context, query string, offset, limit int) ([]T, error)
}

// SourceFunc adapts a function to Source
type SourceFunc[T any] func(ctx context.Context, query string, offset, limit int) ([]T, error)

func (f SourceFunc[T]) FetchPage(ctx context.Context, query string, offset, limit int) ([]T, error) {
	return f(ctx, query, offset, limit)
}

// Settings sizes a search session
type Settings struct {
	PageSize   int
	ResultCap  int
	WindowSize int
}

// DefaultSettings returns 10 records per page, 100 records, 5 visible pages
func DefaultSettings() Settings {
	return Settings{
		PageSize:   DefaultPageSize,
		ResultCap:  DefaultResultCap,
		WindowSize: DefaultWindowSize,
	}
}

// Snapshot is one consistent view of the controller: the results and the
// window always belong to the same page.
type Snapshot[T any] struct {
	SessionID  string
	Query      string
	Page       int
	TotalPages int
	PageSize   int
	Results    []T
	Window     Window
	Generation uint64 // generation of the fetch that produced this view
}

// Empty reports whether no search has succeeded yet
func (s Snapshot[T]) Empty() bool { return s.SessionID == "" }

// Option configures a Controller
type Option func(*options)

type options struct {
	bus    eventbus.EventBus
	logger *zap.Logger
	now    func() time.Time
}

// WithEventBus publishes navigation events to bus
func WithEventBus(bus eventbus.EventBus) Option {
	return func(o *options) { o.bus = bus }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithClock overrides time.Now, used for fetch durations
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

type session[T any] struct {
	id         string
	query      QueryContext
	state      State
	results    []T
	window     Window
	generation uint64
}

// pending is a session position waiting for its fetch
type pending struct {
	sessionID string
	query     QueryContext
	state     State
}

// Controller drives pagination for one search at a time.
//
// At most one fetch is in flight. Every fetch is stamped with a generation;
// starting a new fetch or calling Cancel bumps the generation, so only the
// most recently issued fetch can change what is displayed.
type Controller[T any] struct {
	source   Source[T]
	settings Settings
	bus      eventbus.EventBus
	logger   *zap.Logger
	now      func() time.Time

	mu         sync.Mutex
	current    *session[T]
	generation uint64
	inflight   bool
	cancel     context.CancelFunc
}

// NewController creates a controller fetching from src
func NewController[T any](src Source[T], settings Settings, opts ...Option) *Controller[T] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if settings.PageSize < 1 {
		settings.PageSize = DefaultPageSize
	}
	if settings.ResultCap < 1 {
		settings.ResultCap = DefaultResultCap
	}
	if settings.WindowSize < 1 {
		settings.WindowSize = DefaultWindowSize
	}
	return &Controller[T]{
		source:   src,
		settings: settings,
		bus:      o.bus,
		logger:   o.logger.Named("paging"),
		now:      o.now,
	}
}

// Settings returns the effective session sizing
func (c *Controller[T]) Settings() Settings { return c.settings }

// StartSearch begins a new session for text and loads its first page. The
// previous session stays in place until the first page has arrived, and stays
// for good if that fetch fails.
func (c *Controller[T]) StartSearch(ctx context.Context, text string) (Snapshot[T], error) {
	query := NewQueryContext(text, c.settings.PageSize, c.settings.ResultCap)
	if query.Text() == "" {
		return c.Snapshot(), ErrEmptyQuery
	}
	state, err := NewState(query.TotalPages())
	if err != nil {
		return c.Snapshot(), err
	}

	p := pending{
		sessionID: uuid.NewString(),
		query:     query,
		state:     state,
	}
	c.publish(eventbus.SearchStartedEvent{SessionID: p.sessionID, Query: query.Text()})
	c.logger.Info("search started",
		zap.String("session", p.sessionID),
		zap.String("query", query.Text()),
		zap.Int("total_pages", query.TotalPages()))

	c.mu.Lock()
	gen, fctx := c.beginLocked(ctx)
	c.mu.Unlock()
	notifyIssued(ctx)

	return c.fetch(fctx, gen, p)
}

// Navigate moves to the page the intent resolves to. An intent that resolves
// outside the session's pages is a no-op: the current view is returned and
// nothing is fetched.
//
// If a newer navigation (or Cancel) supersedes this one before its page
// arrives, the page is dropped and the latest committed view is returned
// without error.
func (c *Controller[T]) Navigate(ctx context.Context, intent Intent) (Snapshot[T], error) {
	c.mu.Lock()
	if c.current == nil {
		c.mu.Unlock()
		return Snapshot[T]{}, ErrNoSession
	}

	next := c.current.state
	target := intent.Target(next)
	if err := intent.apply(&next); err != nil {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		if !errors.Is(err, ErrOutOfRange) {
			return snap, err
		}
		c.logger.Debug("navigation rejected",
			zap.String("session", snap.SessionID),
			zap.Stringer("intent", intent),
			zap.Int("target", target),
			zap.Int("total_pages", snap.TotalPages))
		c.publish(eventbus.NavigationRejectedEvent{
			SessionID:  snap.SessionID,
			Intent:     intent.String(),
			Target:     target,
			TotalPages: snap.TotalPages,
		})
		return snap, nil
	}

	p := pending{
		sessionID: c.current.id,
		query:     c.current.query,
		state:     next,
	}
	gen, fctx := c.beginLocked(ctx)
	c.mu.Unlock()
	notifyIssued(ctx)

	return c.fetch(fctx, gen, p)
}

// Cancel abandons the in-flight fetch, if any. Its page will be discarded
// when it arrives. It reports whether a fetch was in flight.
func (c *Controller[T]) Cancel() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.inflight {
		return false
	}
	c.cancel()
	c.cancel = nil
	c.inflight = false
	c.generation++

	sessionID := ""
	if c.current != nil {
		sessionID = c.current.id
	}
	c.logger.Debug("fetch cancelled", zap.Uint64("generation", c.generation))
	c.publish(eventbus.FetchCancelledEvent{SessionID: sessionID, Generation: c.generation})
	return true
}

// Snapshot returns the latest committed view
func (c *Controller[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// InFlight reports whether a fetch is outstanding
func (c *Controller[T]) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight
}

// beginLocked supersedes any in-flight fetch and stamps a new one
func (c *Controller[T]) beginLocked(parent context.Context) (uint64, context.Context) {
	if c.inflight && c.cancel != nil {
		c.cancel()
	}
	c.generation++
	fctx, cancel := context.WithCancel(parent)
	c.cancel = cancel
	c.inflight = true
	return c.generation, fctx
}

func (c *Controller[T]) fetch(ctx context.Context, gen uint64, p pending) (Snapshot[T], error) {
	page := p.state.Current()
	offset, limit := p.query.Range(page)

	c.publish(eventbus.PageRequestedEvent{
		SessionID:  p.sessionID,
		Query:      p.query.Text(),
		Page:       page,
		Offset:     offset,
		Limit:      limit,
		Generation: gen,
	})

	start := c.now()
	records, err := c.source.FetchPage(ctx, p.query.Text(), offset, limit)
	elapsed := c.now().Sub(start)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		// Whoever bumped the generation already cancelled this fetch
		c.logger.Debug("discarding stale response",
			zap.String("session", p.sessionID),
			zap.Int("page", page),
			zap.Uint64("generation", gen),
			zap.Uint64("current", c.generation))
		c.publish(eventbus.StaleResponseDiscardedEvent{
			SessionID:  p.sessionID,
			Page:       page,
			Generation: gen,
			Current:    c.generation,
		})
		return c.snapshotLocked(), nil
	}

	c.cancel()
	c.cancel = nil
	c.inflight = false

	if err != nil {
		fe := &FetchError{
			Query:  p.query.Text(),
			Page:   page,
			Offset: offset,
			Limit:  limit,
			Err:    err,
		}
		c.logger.Warn("page fetch failed",
			zap.String("session", p.sessionID),
			zap.String("query", p.query.Text()),
			zap.Int("page", page),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		c.publish(eventbus.PageFailedEvent{
			SessionID: p.sessionID,
			Query:     p.query.Text(),
			Page:      page,
			Reason:    failureReason(err),
			Err:       err,
			Duration:  elapsed,
		})
		return c.snapshotLocked(), fe
	}

	if len(records) > limit {
		records = records[:limit]
	}
	c.current = &session[T]{
		id:         p.sessionID,
		query:      p.query,
		state:      p.state,
		results:    records,
		window:     ComputeWindow(page, p.state.TotalPages(), c.settings.WindowSize),
		generation: gen,
	}

	c.logger.Debug("page loaded",
		zap.String("session", p.sessionID),
		zap.Int("page", page),
		zap.Int("records", len(records)),
		zap.Duration("elapsed", elapsed))
	c.publish(eventbus.PageLoadedEvent{
		SessionID:  p.sessionID,
		Query:      p.query.Text(),
		Page:       page,
		TotalPages: p.state.TotalPages(),
		Records:    len(records),
		Duration:   elapsed,
	})
	return c.snapshotLocked(), nil
}

func (c *Controller[T]) snapshotLocked() Snapshot[T] {
	s := c.current
	if s == nil {
		return Snapshot[T]{}
	}
	return Snapshot[T]{
		SessionID:  s.id,
		Query:      s.query.Text(),
		Page:       s.state.Current(),
		TotalPages: s.state.TotalPages(),
		PageSize:   s.query.PageSize(),
		Results:    slices.Clone(s.results),
		Window:     slices.Clone(s.window),
		Generation: s.generation,
	}
}

type issuedKey struct{}

// OnIssued returns a context that makes StartSearch and Navigate call fn as
// soon as the request has superseded every earlier one, before its page is
// fetched. Requests that are rejected up front never call fn.
func OnIssued(ctx context.Context, fn func()) context.Context {
	return context.WithValue(ctx, issuedKey{}, fn)
}

func notifyIssued(ctx context.Context) {
	if fn, ok := ctx.Value(issuedKey{}).(func()); ok && fn != nil {
		fn()
	}
}

func (c *Controller[T]) publish(event eventbus.DomainEvent) {
	if c.bus != nil {
		c.bus.Publish(event)
	}
}
