package repository

import (
	"strings"

	"bms/pkg/pagination"

	"gorm.io/gorm"
)

// ListQuery is the common input of every paged list.
type ListQuery struct {
	pagination.Params
	Search string
}

// paginate counts base, fits the request into the resulting window and fetches that page.
// preloads are applied to the fetch only.
func paginate[T any](base *gorm.DB, p pagination.Params, order string, preloads ...string) ([]T, pagination.Window, error) {
	base = base.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, pagination.Window{}, err
	}

	w, err := pagination.ForTotal(p, total)
	if err != nil {
		return nil, pagination.Window{}, err
	}

	items := make([]T, 0, w.Limit())
	if w.Limit() == 0 {
		return items, w, nil
	}

	fetch := base
	for _, rel := range preloads {
		fetch = fetch.Preload(rel)
	}
	if err := fetch.Order(order).Offset(w.Offset()).Limit(w.PageSize).Find(&items).Error; err != nil {
		return nil, pagination.Window{}, err
	}
	return items, w, nil
}

// searchLike applies a case-insensitive contains filter over one or more columns.
func searchLike(db *gorm.DB, search string, columns ...string) *gorm.DB {
	search = strings.TrimSpace(search)
	if search == "" || len(columns) == 0 {
		return db
	}
	pattern := "%" + escapeLike(search) + "%"
	conds := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, col := range columns {
		conds[i] = col + " ILIKE ?"
		args[i] = pattern
	}
	return db.Where("("+strings.Join(conds, " OR ")+")", args...)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
