package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"recipegrip/internal/config"
	"recipegrip/internal/domain"
	"recipegrip/internal/eventbus"
	"recipegrip/internal/paging"
	"recipegrip/internal/ui/input"
	"recipegrip/internal/ui/input/modes"
	inputtypes "recipegrip/internal/ui/input/types"
	"recipegrip/internal/ui/views"
)

const defaultFetchTimeout = 30 * time.Second

// Model represents the UI state
type Model struct {
	ctrl         *paging.Controller[domain.Recipe]
	config       *config.Config
	logger       *zap.Logger
	fetchTimeout time.Duration

	width       int
	height      int
	help        help.Model
	spinner     spinner.Model
	inPagerMode bool // tracks if we're currently in pager mode

	// Last view read from the controller
	snapshot paging.Snapshot[domain.Recipe]
	selected int
	barFocus bool
	barIndex int

	// Requests reach the controller in the order they were issued
	seq        int           // sequence number of the latest request
	waiting    bool          // the latest request has not returned yet
	lastIssued chan struct{} // closed once the latest request reached the controller

	lastErr       *paging.FetchError
	status        string
	statusIsError bool

	initialQuery string
	demo         bool

	renderer     *views.Renderer
	inputHandler *input.Handler
	helpRenderer *HelpRenderer
	pager        *PagerOps

	// Program reference for terminal management
	program *tea.Program
}

// Option configures a Model
type Option func(*Model)

// WithInitialQuery searches for q as soon as the program starts
func WithInitialQuery(q string) Option {
	return func(m *Model) { m.initialQuery = strings.TrimSpace(q) }
}

// WithDemo marks the session as running against demo data
func WithDemo(demo bool) Option {
	return func(m *Model) { m.demo = demo }
}

// WithFetchTimeout bounds each search or navigation request
func WithFetchTimeout(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.fetchTimeout = d
		}
	}
}

// WithCursorMode sets the cursor mode of the search and jump prompts
func WithCursorMode(mode cursor.Mode) Option {
	return func(m *Model) { m.inputHandler.SetCursorMode(mode) }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(m *Model) { m.logger = logger }
}

// NewModel creates a new UI model driving ctrl
func NewModel(ctrl *paging.Controller[domain.Recipe], cfg *config.Config, opts ...Option) *Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	m := &Model{
		ctrl:         ctrl,
		config:       cfg,
		logger:       zap.NewNop(),
		fetchTimeout: defaultFetchTimeout,
		help:         help.New(),
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot)),
		barIndex:     -1,
		renderer:     views.NewRenderer(cfg.UISettings.ShowCalories, cfg.UISettings.ShowSource),
		inputHandler: input.New(),
		helpRenderer: NewHelpRenderer(),
		pager:        NewPagerOps(),
	}
	// The HTTP timeout bounds one request, a rate limiter wait may come first
	if t := time.Duration(cfg.API.Timeout); t > 0 {
		m.fetchTimeout = 3 * t
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.Named("ui")
	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.pager.SetProgram(p)
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	if m.initialQuery != "" {
		cmds = append(cmds, m.search(m.initialQuery))
	}
	return tea.Batch(cmds...)
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case fetchDoneMsg:
		m.handleFetchDone(msg)
		return m, nil

	case EventMsg:
		m.handleEvent(msg.Event)
		return m, nil

	case spinner.TickMsg:
		// Don't continue the tick loop while the pager owns the terminal
		if m.inPagerMode {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case pagerDoneMsg:
		if msg.err != nil {
			m.logger.Warn("pager failed", zap.String("what", msg.what), zap.Error(msg.err))
			m.setError(fmt.Sprintf("Couldn't open %s: %v", msg.what, msg.err))
		}
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, m.spinner.Tick

	default:
		// Cursor blink and other text input messages
		return m, m.inputHandler.Update(msg)
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := &input.ModelContext{
		SelectedIndex: m.selected,
		ResultCount:   len(m.snapshot.Results),
		SearchQuery:   m.snapshot.Query,
		Session:       !m.snapshot.Empty(),
		Fetching:      m.waiting,
		BarFocus:      m.barFocus,
		Retryable:     m.lastErr != nil,
		Window:        m.ctrl.Settings().WindowSize,
	}

	actions, cmd := m.inputHandler.HandleKey(msg, ctx)

	cmds := []tea.Cmd{}
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	for _, action := range actions {
		if actionCmd := m.processAction(action); actionCmd != nil {
			cmds = append(cmds, actionCmd)
		}
	}
	return m, tea.Batch(cmds...)
}

// processAction processes an action from the input handler
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	switch a := action.(type) {
	case inputtypes.NavigateAction:
		m.moveSelection(a.Direction)

	case inputtypes.PageAction:
		return m.navigate(a.Intent)

	case inputtypes.FocusBarAction:
		m.toggleBarFocus()

	case inputtypes.MoveBarAction:
		m.barIndex = views.NextFocus(m.snapshot.Window, m.barIndex, a.Delta)

	case inputtypes.ActivateBarAction:
		w := m.snapshot.Window
		if m.barIndex < 0 || m.barIndex >= len(w) {
			return nil
		}
		if intent, ok := w[m.barIndex].Intent(); ok {
			return m.navigate(intent)
		}

	case inputtypes.SubmitTextAction:
		switch a.Mode {
		case inputtypes.ModeSearch:
			return m.search(a.Text)
		case inputtypes.ModeJump:
			return m.jump(a.Text)
		}

	case inputtypes.UpdateTextAction, inputtypes.CancelTextAction:
		// The view reads the text input directly

	case inputtypes.OpenRecipeAction:
		return m.openRecipe()

	case inputtypes.CancelFetchAction:
		return m.cancelFetch()

	case inputtypes.RetryAction:
		return m.retry()

	case inputtypes.ToggleHelpAction:
		return m.showHelp()

	case inputtypes.QuitAction:
		m.ctrl.Cancel()
		return tea.Quit

	default:
		m.logger.Debug("unhandled action", zap.String("type", action.Type()))
	}
	return nil
}

func (m *Model) search(text string) tea.Cmd {
	query := strings.TrimSpace(text)
	if query == "" {
		m.setStatus("Type something to search for")
		return nil
	}
	m.setStatus(fmt.Sprintf("Searching for %q", query))
	ctrl := m.ctrl
	return m.request(false, func(ctx context.Context) error {
		_, err := ctrl.StartSearch(ctx, query)
		return err
	})
}

func (m *Model) navigate(intent paging.Intent) tea.Cmd {
	ctrl := m.ctrl
	return m.request(false, func(ctx context.Context) error {
		_, err := ctrl.Navigate(ctx, intent)
		return err
	})
}

func (m *Model) jump(text string) tea.Cmd {
	page, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		m.setError(fmt.Sprintf("Not a page number: %q", text))
		return nil
	}
	return m.navigate(paging.JumpTo(page))
}

func (m *Model) cancelFetch() tea.Cmd {
	if !m.waiting {
		return nil
	}
	m.setStatus("Cancelled")
	ctrl := m.ctrl
	return m.request(true, func(context.Context) error {
		ctrl.Cancel()
		return nil
	})
}

// retry repeats the last failed request. A failed first page of a new
// query is searched again, anything else jumps back to the failed page.
func (m *Model) retry() tea.Cmd {
	fe := m.lastErr
	if fe == nil {
		return nil
	}
	if m.snapshot.Empty() || fe.Query != m.snapshot.Query {
		return m.search(fe.Query)
	}
	m.setStatus(fmt.Sprintf("Retrying page %d", fe.Page))
	return m.navigate(fe.Retry())
}

// request runs fn against the controller in the background. Each request
// waits until the one issued before it has reached the controller, so the
// controller sees them in key press order and the last one wins.
func (m *Model) request(cancel bool, fn func(ctx context.Context) error) tea.Cmd {
	m.seq++
	m.waiting = !cancel

	seq, timeout := m.seq, m.fetchTimeout
	prev, issued := m.lastIssued, make(chan struct{})
	m.lastIssued = issued

	return func() tea.Msg {
		if prev != nil {
			<-prev
		}
		var once sync.Once
		markIssued := func() { once.Do(func() { close(issued) }) }
		defer markIssued()

		ctx, stop := context.WithTimeout(paging.OnIssued(context.Background(), markIssued), timeout)
		defer stop()
		return fetchDoneMsg{seq: seq, cancel: cancel, err: fn(ctx)}
	}
}

func (m *Model) handleFetchDone(msg fetchDoneMsg) {
	prev := m.snapshot
	m.snapshot = m.ctrl.Snapshot()

	if m.snapshot.SessionID != prev.SessionID || m.snapshot.Page != prev.Page {
		m.selected = 0
		m.lastErr = nil
		m.refocusBar(prev.Window)
	}
	if m.selected >= len(m.snapshot.Results) {
		m.selected = max(len(m.snapshot.Results)-1, 0)
	}

	// Only the latest request decides what the status line says
	if msg.seq != m.seq {
		return
	}
	m.waiting = false
	if msg.cancel {
		return
	}

	var fe *paging.FetchError
	switch {
	case msg.err == nil:
		m.lastErr = nil
		m.setStatus("")
	case errors.As(msg.err, &fe):
		m.lastErr = fe
		m.setError(describeFailure(fe))
	default:
		m.logger.Warn("request failed", zap.Error(msg.err))
		m.setError(fmt.Sprintf("Error: %v", msg.err))
	}
}

func describeFailure(fe *paging.FetchError) string {
	var reason string
	switch {
	case errors.Is(fe, context.DeadlineExceeded):
		reason = "request timed out"
	case paging.IsMalformed(fe):
		reason = "unexpected response from the server"
	default:
		reason = fe.Err.Error()
	}
	return fmt.Sprintf("Couldn't load page %d: %s (r to retry)", fe.Page, reason)
}

func (m *Model) handleEvent(event eventbus.DomainEvent) {
	switch e := event.(type) {
	case eventbus.NavigationRejectedEvent:
		if e.TotalPages > 0 {
			m.setStatus(fmt.Sprintf("Page %d is out of range (1-%d)", e.Target, e.TotalPages))
		}
	default:
		m.logger.Debug("ignoring event", zap.String("type", string(event.Type())))
	}
}

func (m *Model) moveSelection(direction string) {
	n := len(m.snapshot.Results)
	if n == 0 {
		return
	}
	switch direction {
	case "up":
		if m.selected > 0 {
			m.selected--
		}
	case "down":
		if m.selected < n-1 {
			m.selected++
		}
	case "top":
		m.selected = 0
	case "bottom":
		m.selected = n - 1
	}
}

func (m *Model) toggleBarFocus() {
	if m.barFocus {
		m.barFocus = false
		m.barIndex = -1
		return
	}
	if len(m.snapshot.Window) == 0 {
		return
	}
	m.barFocus = true
	m.barIndex = m.snapshot.Window.ActiveIndex()
}

// refocusBar keeps focus on the same edge control across a page change when
// the new window still has it, otherwise on the active page
func (m *Model) refocusBar(prev paging.Window) {
	if !m.barFocus {
		return
	}
	w := m.snapshot.Window
	if len(w) == 0 {
		m.barFocus = false
		m.barIndex = -1
		return
	}
	if m.barIndex >= 0 && m.barIndex < len(prev) {
		if kind := prev[m.barIndex].Kind; kind != paging.KindPage {
			for i, c := range w {
				if c.Kind == kind {
					m.barIndex = i
					return
				}
			}
		}
	}
	m.barIndex = w.ActiveIndex()
}

func (m *Model) openRecipe() tea.Cmd {
	if m.selected < 0 || m.selected >= len(m.snapshot.Results) {
		return nil
	}
	recipe := m.snapshot.Results[m.selected]
	if !m.pager.Available() {
		m.setStatus(fmt.Sprintf("%s: %s", recipe.Label, recipe.URL))
		return nil
	}
	number := m.pageOffset() + m.selected + 1
	return m.showInPager("recipe", buildRecipeInfo(recipe, number))
}

func (m *Model) showHelp() tea.Cmd {
	if !m.pager.Available() {
		m.help.ShowAll = !m.help.ShowAll
		return nil
	}
	return m.showInPager("help", m.helpRenderer.RenderKeyReference(modes.Keys))
}

// showInPager returns a command that pages content, pausing our rendering
func (m *Model) showInPager(what, content string) tea.Cmd {
	program, pager := m.program, m.pager
	return func() tea.Msg {
		program.Send(pauseRenderingMsg{})
		err := pager.Show(content)
		program.Send(resumeRenderingMsg{})
		return pagerDoneMsg{what: what, err: err}
	}
}

func (m *Model) setStatus(msg string) {
	m.status = msg
	m.statusIsError = false
}

func (m *Model) setError(msg string) {
	m.status = msg
	m.statusIsError = true
}

func (m *Model) pageOffset() int {
	if m.snapshot.Page < 1 {
		return 0
	}
	return (m.snapshot.Page - 1) * m.snapshot.PageSize
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	state := views.ViewState{
		Width:         m.width,
		Height:        m.height,
		Query:         m.snapshot.Query,
		Searched:      !m.snapshot.Empty(),
		Page:          m.snapshot.Page,
		TotalPages:    m.snapshot.TotalPages,
		Offset:        m.pageOffset(),
		Results:       m.snapshot.Results,
		SelectedIndex: m.selected,
		Window:        m.snapshot.Window,
		BarFocus:      -1,
		Loading:       m.waiting,
		Spinner:       m.spinner.View(),
		StatusMessage: m.status,
		StatusIsError: m.statusIsError,
		HelpView:      m.help.View(modes.Keys),
		Demo:          m.demo,
	}
	if m.barFocus {
		state.BarFocus = m.barIndex
	}
	if ti := m.inputHandler.TextInput(); ti != nil {
		state.Prompt = m.inputHandler.Prompt()
		state.TextInput = ti.View()
	}

	return m.renderer.Render(state)
}
