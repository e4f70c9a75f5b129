package pagination

import (
	"strconv"

	"bms/pkg/apperror"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
	MinPageSize     = 1

	// maxDisplayed is the page count up to which every page number is listed.
	maxDisplayed = 7
)

// PageSizeOptions are the sizes offered by the list screens' per-page selector.
var PageSizeOptions = []int{10, 20, 50}

// Params holds validated pagination parameters taken from a request.
type Params struct {
	Page     int
	PageSize int
	// KnownTotal is the total the client last rendered, or -1 when not sent.
	KnownTotal int64
}

// Parse extracts and validates page/page_size/known_total from query parameters.
// "limit" is accepted as an alias of "page_size".
func Parse(c *gin.Context) Params {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(DefaultPage)))

	rawSize := c.Query("page_size")
	if rawSize == "" {
		rawSize = c.DefaultQuery("limit", strconv.Itoa(DefaultPageSize))
	}
	size, _ := strconv.Atoi(rawSize)

	if page < 1 {
		page = DefaultPage
	}
	if size < MinPageSize {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	known := int64(-1)
	if raw := c.Query("known_total"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil && v >= 0 {
			known = v
		}
	}

	return Params{
		Page:       page,
		PageSize:   size,
		KnownTotal: known,
	}
}

// Window is the derived view of one page of a list. It is never stored.
type Window struct {
	CurrentPage int        `json:"current_page"`
	TotalPages  int        `json:"total_pages"`
	PageSize    int        `json:"page_size"`
	TotalItems  int        `json:"total_items"`
	StartIndex  int        `json:"start_index"`
	EndIndex    int        `json:"end_index"`
	Pages       []PageItem `json:"pages"`
}

// Compute derives the page window for totalItems split into pageSize pages.
// currentPage is clamped into [1, totalPages]; pageSize < 1 or totalItems < 0 is an InvalidArgument.
func Compute(totalItems, pageSize, currentPage int) (Window, error) {
	if pageSize < 1 {
		return Window{}, apperror.InvalidArgument("page size must be at least 1, got %d", pageSize)
	}
	if totalItems < 0 {
		return Window{}, apperror.InvalidArgument("total items must not be negative, got %d", totalItems)
	}

	totalPages := (totalItems + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if currentPage > totalPages {
		currentPage = totalPages
	}
	if currentPage < 1 {
		currentPage = 1
	}

	start := 0
	if totalItems > 0 {
		start = (currentPage - 1) * pageSize
	}
	end := min(start+pageSize, totalItems)

	return Window{
		CurrentPage: currentPage,
		TotalPages:  totalPages,
		PageSize:    pageSize,
		TotalItems:  totalItems,
		StartIndex:  start,
		EndIndex:    end,
		Pages:       PageNumbers(currentPage, totalPages),
	}, nil
}

// ForTotal computes the window for p against the current total. When the client
// rendered a different total, its page position is discarded and page 1 is served.
func ForTotal(p Params, total int64) (Window, error) {
	page := p.Page
	if p.KnownTotal >= 0 && p.KnownTotal != total {
		page = 1
	}
	return Compute(int(total), p.PageSize, page)
}

// Offset is the row offset of the window, ready for a LIMIT/OFFSET query.
func (w Window) Offset() int {
	return w.StartIndex
}

// Limit is the number of rows in the window.
func (w Window) Limit() int {
	return w.EndIndex - w.StartIndex
}

// HasNext reports whether a later page exists.
func (w Window) HasNext() bool {
	return w.CurrentPage < w.TotalPages
}

// HasPrev reports whether an earlier page exists.
func (w Window) HasPrev() bool {
	return w.CurrentPage > 1
}

// Slice returns the part of items that falls inside w.
func Slice[T any](items []T, w Window) []T {
	start := min(w.StartIndex, len(items))
	end := min(w.EndIndex, len(items))
	return items[start:end]
}

// Page is one page of a list together with its window.
type Page[T any] struct {
	Items      []T    `json:"items"`
	Pagination Window `json:"pagination"`
}

// NewPage converts the rows of a window with fn.
func NewPage[M, R any](rows []M, w Window, fn func(*M) R) *Page[R] {
	items := make([]R, 0, len(rows))
	for i := range rows {
		items = append(items, fn(&rows[i]))
	}
	return &Page[R]{Items: items, Pagination: w}
}
