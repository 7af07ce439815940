package persistence

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gemline/backoffice/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrOptimisticLock is returned when a versioned write finds the row changed
var ErrOptimisticLock = shared.NewDomainError("OPTIMISTIC_LOCK_FAILED", "The record was modified by another transaction, please retry")

// translate maps driver errors onto domain errors
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	}
	return err
}

type versioned interface {
	GetVersion() int
	IncrementVersion()
}

// saveWithLock writes every column of model when the stored version still
// matches, bumping the version in the same statement.
func saveWithLock(db *gorm.DB, model versioned) error {
	expected := model.GetVersion()
	model.IncrementVersion()

	res := db.Model(model).
		Where("version = ?", expected).
		Select("*").
		Omit(clause.Associations).
		Updates(model)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrOptimisticLock
	}
	return nil
}

// save upserts the aggregate root without touching associations
func save(db *gorm.DB, model any) error {
	return translate(db.Omit(clause.Associations).Save(model).Error)
}

// exists runs a COUNT for the given condition
func exists(db *gorm.DB, model any, query string, args ...any) (bool, error) {
	var n int64
	if err := db.Model(model).Where(query, args...).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// paginate applies sorting and paging from the filter
func paginate(q *gorm.DB, f shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	field := ValidateSortField(f.OrderBy, allowed, defaultField)
	q = q.Order(fmt.Sprintf("%s %s", field, ValidateSortOrder(f.OrderDir)))
	if f.PageSize > 0 {
		q = q.Offset(f.Offset()).Limit(f.PageSize)
	}
	return q
}

// search adds a case-insensitive LIKE across the given columns
func search(q *gorm.DB, term string, columns ...string) *gorm.DB {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return q
	}
	pattern := "%" + strings.ToLower(term) + "%"
	parts := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, c := range columns {
		parts[i] = fmt.Sprintf("LOWER(%s) LIKE ?", c)
		args[i] = pattern
	}
	return q.Where("("+strings.Join(parts, " OR ")+")", args...)
}

// eq adds column = value when the filter key is present and non-empty
func eq(q *gorm.DB, f shared.Filter, key, column string) *gorm.DB {
	v, ok := f.Filters[key]
	if !ok || v == nil {
		return q
	}
	if s, isString := v.(string); isString && s == "" {
		return q
	}
	return q.Where(column+" = ?", v)
}

// since and until add a half-open time window on column
func since(q *gorm.DB, f shared.Filter, key, column string) *gorm.DB {
	if v, ok := f.Filters[key]; ok && v != nil {
		return q.Where(column+" >= ?", v)
	}
	return q
}

func until(q *gorm.DB, f shared.Filter, key, column string) *gorm.DB {
	if v, ok := f.Filters[key]; ok && v != nil {
		return q.Where(column+" < ?", v)
	}
	return q
}

// forUpdate locks selected rows until the transaction ends. sqlite ignores it
// and relies on its database-level write lock instead.
func forUpdate(q *gorm.DB) *gorm.DB {
	return q.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
}
