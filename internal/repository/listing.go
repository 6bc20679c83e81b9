// Package repository implements the data access layer for the application.
package repository

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// FilterOp is a comparison operator accepted on list endpoints.
type FilterOp string

const (
	OpEq  FilterOp = "eq"
	OpGt  FilterOp = "gt"
	OpGte FilterOp = "gte"
	OpLt  FilterOp = "lt"
	OpLte FilterOp = "lte"
	OpIn  FilterOp = "in"
)

// Filter is a single column comparison parsed from the query string.
type Filter struct {
	Column string
	Op     FilterOp
	Values []string
}

// SortField orders results by a column.
type SortField struct {
	Column string
	Desc   bool
}

// ListOptions carries filtering, sorting, field selection, and paging for
// list queries. Columns are validated against a per-resource whitelist
// before they reach here.
type ListOptions struct {
	Filters []Filter
	Sort    []SortField
	Select  []string
	Limit   int
	Offset  int
}

var sqlOps = map[FilterOp]string{
	OpEq:  "=",
	OpGt:  ">",
	OpGte: ">=",
	OpLt:  "<",
	OpLte: "<=",
}

// applyFilters adds WHERE clauses for each filter to the query.
func applyFilters(q *gorm.DB, filters []Filter) *gorm.DB {
	for _, f := range filters {
		if f.Op == OpIn {
			q = q.Where(fmt.Sprintf("%s IN ?", f.Column), f.Values)
			continue
		}
		op, ok := sqlOps[f.Op]
		if !ok {
			continue
		}
		if len(f.Values) > 0 {
			q = q.Where(fmt.Sprintf("%s %s ?", f.Column, op), f.Values[0])
		}
	}
	return q
}

// applyListOptions adds filtering, ordering, selection, and paging to the
// query. Count filters must be applied separately before pagination.
func applyListOptions(q *gorm.DB, opts ListOptions) *gorm.DB {
	q = applyFilters(q, opts.Filters)

	for _, s := range opts.Sort {
		dir := "ASC"
		if s.Desc {
			dir = "DESC"
		}
		q = q.Order(fmt.Sprintf("%s %s", s.Column, dir))
	}
	if len(opts.Sort) == 0 {
		q = q.Order("created_at DESC, id DESC")
	}

	if len(opts.Select) > 0 {
		q = q.Select(strings.Join(opts.Select, ", "))
	}

	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	return q
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505; sqlite reports "UNIQUE constraint failed"
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}
