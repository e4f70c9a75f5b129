package pagination

import (
	"encoding/json"
	"strconv"
)

const ellipsisToken = "ellipsis"

// PageItem is one token of the page-number strip: a page number or an ellipsis.
type PageItem struct {
	Page     int
	Ellipsis bool
}

// Num returns a page-number token.
func Num(page int) PageItem { return PageItem{Page: page} }

// Gap returns an ellipsis token.
func Gap() PageItem { return PageItem{Ellipsis: true} }

func (p PageItem) String() string {
	if p.Ellipsis {
		return ellipsisToken
	}
	return strconv.Itoa(p.Page)
}

// MarshalJSON writes page numbers as numbers and the ellipsis as the string "ellipsis".
func (p PageItem) MarshalJSON() ([]byte, error) {
	if p.Ellipsis {
		return json.Marshal(ellipsisToken)
	}
	return json.Marshal(p.Page)
}

// UnmarshalJSON accepts either form written by MarshalJSON.
func (p *PageItem) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != ellipsisToken {
			return &json.UnsupportedValueError{Str: s}
		}
		*p = Gap()
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*p = Num(n)
	return nil
}

// PageNumbers builds the strip of at most seven tokens shown under a list.
func PageNumbers(current, total int) []PageItem {
	if total <= maxDisplayed {
		items := make([]PageItem, 0, total)
		for i := 1; i <= total; i++ {
			items = append(items, Num(i))
		}
		return items
	}

	switch {
	case current <= 3:
		return []PageItem{Num(1), Num(2), Num(3), Num(4), Gap(), Num(total)}
	case current >= total-2:
		return []PageItem{Num(1), Gap(), Num(total - 3), Num(total - 2), Num(total - 1), Num(total)}
	default:
		return []PageItem{Num(1), Gap(), Num(current - 1), Num(current), Num(current + 1), Gap(), Num(total)}
	}
}
