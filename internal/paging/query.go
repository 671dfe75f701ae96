package paging

import "strings"

const (
	DefaultPageSize  = 10
	DefaultResultCap = 100
)

// QueryContext describes one search session. It is never mutated; a new
// search builds a new one.
type QueryContext struct {
	text      string
	pageSize  int
	resultCap int
}

// NewQueryContext trims the query text and fills in defaults for
// non-positive sizes
func NewQueryContext(text string, pageSize, resultCap int) QueryContext {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if resultCap < 1 {
		resultCap = DefaultResultCap
	}
	return QueryContext{
		text:      strings.TrimSpace(text),
		pageSize:  pageSize,
		resultCap: resultCap,
	}
}

func (q QueryContext) Text() string { return q.text }
func (q QueryContext) PageSize() int { return q.pageSize }
func (q QueryContext) ResultCap() int { return q.resultCap }

// TotalPages is ceil(resultCap / pageSize)
func (q QueryContext) TotalPages() int {
	return (q.resultCap + q.pageSize - 1) / q.pageSize
}

// Range returns the offset and limit that fetch page
func (q QueryContext) Range(page int) (offset, limit int) {
	return q.pageSize * (page - 1), q.pageSize
}
