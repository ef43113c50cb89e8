package persistence

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// forUpdate takes a row lock held until the surrounding transaction ends.
// SQLite has no row locks and the clause is dropped there.
func forUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// forTenant restricts a query to one tenant's rows
func forTenant(tenantID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}

// paginate applies ordering, offset and limit from a normalized filter.
// OrderBy is checked against allowed and falls back to created_at.
func paginate(filter shared.Filter, allowed map[string]bool) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		field := ValidateSortField(filter.OrderBy, allowed, "created_at")
		dir := ValidateSortOrder(filter.OrderDir)
		return db.Order(fmt.Sprintf("%s %s", field, dir)).
			Offset(filter.Offset()).
			Limit(filter.PageSize)
	}
}

// searchLike matches term against several columns with a case-insensitive LIKE
func searchLike(term string, columns ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(columns) == 0 {
			return db
		}
		pattern := "%" + strings.ToLower(term) + "%"
		clauses := make([]string, len(columns))
		args := make([]any, len(columns))
		for i, c := range columns {
			clauses[i] = fmt.Sprintf("LOWER(%s) LIKE ?", c)
			args[i] = pattern
		}
		return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
}

// filterString returns a non-empty string filter value
func filterString(filter shared.Filter, key string) (string, bool) {
	v, ok := filter.Filters[key]
	if !ok {
		return "", false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.String {
		return "", false
	}
	return rv.String(), rv.String() != ""
}

// filterUUID returns a uuid filter value given as uuid.UUID or string
func filterUUID(filter shared.Filter, key string) (uuid.UUID, bool) {
	switch v := filter.Filters[key].(type) {
	case uuid.UUID:
		return v, v != uuid.Nil
	case *uuid.UUID:
		if v != nil {
			return *v, *v != uuid.Nil
		}
	case string:
		id, err := uuid.Parse(v)
		return id, err == nil
	}
	return uuid.Nil, false
}

// filterBool returns a bool filter value
func filterBool(filter shared.Filter, key string) (bool, bool) {
	v, ok := filter.Filters[key].(bool)
	return v, ok
}

// filterTime returns a time filter value
func filterTime(filter shared.Filter, key string) (time.Time, bool) {
	v, ok := filter.Filters[key].(time.Time)
	return v, ok && !v.IsZero()
}
