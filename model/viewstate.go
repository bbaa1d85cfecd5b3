package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Pagination is the grid view-state: 0-based page index and page size.
type Pagination struct {
	PageIndex int `json:"pageIndex"`
	PageSize  int `json:"pageSize"`
}

// Skip returns the row offset of the current page.
func (p Pagination) Skip() int {
	if p.PageIndex < 0 || p.PageSize < 0 {
		return 0
	}
	return p.PageIndex * p.PageSize
}

// SortItem is one entry of the grid sort model.
type SortItem struct {
	Field string `json:"field"`
	Order string `json:"sort"`
}

// FilterItem is one column filter of the grid filter model.
type FilterItem struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// FilterModel mirrors the grid's serialized filter state: per-column
// filters plus free-text quick filter values.
type FilterModel struct {
	Items             []FilterItem `json:"items"`
	QuickFilterValues []string     `json:"quickFilterValues"`
}

// ParseFilterModel decodes the filterModel query parameter.
func ParseFilterModel(raw string) (*FilterModel, error) {
	if raw == "" {
		return &FilterModel{}, nil
	}
	var fm FilterModel
	if err := json.Unmarshal([]byte(raw), &fm); err != nil {
		return nil, fmt.Errorf("invalid filterModel JSON: %w", err)
	}
	return &fm, nil
}

// quickFilterFields are the only fields a free-text quick filter value
// is matched against. The per-entity column map further restricts them.
var quickFilterFields = []string{"pk", "node_type", "label", "description"}

// ToSQL translates the filter model into a parameterized WHERE fragment.
// columns maps grid field names to database columns; unknown fields are
// silently ignored, as are non-numeric values on the numeric pk column.
// Each quick filter value must match at least one of the quick-filter
// fields; all conditions are combined with AND. startIndex is the first
// free placeholder number. Returns the fragment (without the WHERE
// keyword) and its arguments; the fragment is empty when nothing
// filters.
func (f *FilterModel) ToSQL(columns map[string]string, startIndex int) (string, []any) {
	conditions := []string{}
	args := []any{}
	next := startIndex

	for _, item := range f.Items {
		if item.Value == "" {
			continue
		}
		column, ok := columns[item.Field]
		if !ok {
			continue
		}

		if item.Field == "pk" {
			pk, err := strconv.Atoi(item.Value)
			if err != nil {
				continue
			}
			conditions = append(conditions, fmt.Sprintf("%s = $%d", column, next))
			args = append(args, pk)
			next++
			continue
		}

		switch item.Operator {
		case "", "contains", "equals", "is":
			conditions = append(conditions, fmt.Sprintf("%s::text ILIKE '%%' || $%d || '%%'", column, next))
			args = append(args, item.Value)
			next++
		}
	}

	for _, value := range f.QuickFilterValues {
		if value == "" {
			continue
		}
		orParts := []string{}
		for _, field := range quickFilterFields {
			column, ok := columns[field]
			if !ok {
				continue
			}
			if field == "pk" {
				if pk, err := strconv.Atoi(value); err == nil {
					orParts = append(orParts, fmt.Sprintf("%s = $%d", column, next))
					args = append(args, pk)
					next++
				}
				continue
			}
			orParts = append(orParts, fmt.Sprintf("%s::text ILIKE '%%' || $%d || '%%'", column, next))
			args = append(args, value)
			next++
		}
		if len(orParts) > 0 {
			conditions = append(conditions, "("+strings.Join(orParts, " OR ")+")")
		}
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return strings.Join(conditions, " AND "), args
}
