package input

// ModelContext implements the Context interface for the input handler
type ModelContext struct {
	SelectedIndex int
	ResultCount   int
	SearchQuery   string
	Session       bool
	Fetching      bool
	BarFocus      bool
	Retryable     bool
	Window        int
}

// CurrentIndex returns the selected result on the current page
func (c *ModelContext) CurrentIndex() int {
	return c.SelectedIndex
}

// TotalItems returns the number of results on the current page
func (c *ModelContext) TotalItems() int {
	return c.ResultCount
}

// HasSession reports whether a search has loaded
func (c *ModelContext) HasSession() bool {
	return c.Session
}

// Query returns the query of the current session
func (c *ModelContext) Query() string {
	return c.SearchQuery
}

// InFlight reports whether a page fetch is outstanding
func (c *ModelContext) InFlight() bool {
	return c.Fetching
}

// BarFocused reports whether keys go to the pagination bar
func (c *ModelContext) BarFocused() bool {
	return c.BarFocus
}

// CanRetry reports whether the last fetch failed
func (c *ModelContext) CanRetry() bool {
	return c.Retryable
}

// WindowSize returns how many pages the bar shows, the skip distance
func (c *ModelContext) WindowSize() int {
	return c.Window
}
