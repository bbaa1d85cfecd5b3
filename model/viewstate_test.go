package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginationSkip(t *testing.T) {
	assert.Equal(t, 0, Pagination{PageIndex: 0, PageSize: 15}.Skip())
	assert.Equal(t, 30, Pagination{PageIndex: 2, PageSize: 15}.Skip())
	assert.Equal(t, 0, Pagination{PageIndex: -1, PageSize: 15}.Skip())
}

func TestParseFilterModel(t *testing.T) {
	t.Run("empty input gives empty model", func(t *testing.T) {
		fm, err := ParseFilterModel("")
		require.NoError(t, err)
		assert.Empty(t, fm.Items)
		assert.Empty(t, fm.QuickFilterValues)
	})

	t.Run("valid JSON", func(t *testing.T) {
		fm, err := ParseFilterModel(`{"items":[{"field":"label","operator":"contains","value":"relax"}],"quickFilterValues":["scf"]}`)
		require.NoError(t, err)
		require.Len(t, fm.Items, 1)
		assert.Equal(t, "label", fm.Items[0].Field)
		assert.Equal(t, []string{"scf"}, fm.QuickFilterValues)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := ParseFilterModel(`{"items":`)
		assert.Error(t, err)
	})
}

func TestFilterModelToSQL(t *testing.T) {
	columns := map[string]string{
		"pk":    "id",
		"label": "label",
		"state": "process_state",
	}

	t.Run("contains filter on a text column", func(t *testing.T) {
		fm := &FilterModel{Items: []FilterItem{{Field: "label", Operator: "contains", Value: "relax"}}}
		clause, args := fm.ToSQL(columns, 1)
		assert.Equal(t, "label::text ILIKE '%' || $1 || '%'", clause)
		assert.Equal(t, []any{"relax"}, args)
	})

	t.Run("pk filter compares numerically", func(t *testing.T) {
		fm := &FilterModel{Items: []FilterItem{{Field: "pk", Operator: "equals", Value: "7"}}}
		clause, args := fm.ToSQL(columns, 1)
		assert.Equal(t, "id = $1", clause)
		assert.Equal(t, []any{7}, args)
	})

	t.Run("non-numeric pk filter is skipped", func(t *testing.T) {
		fm := &FilterModel{Items: []FilterItem{{Field: "pk", Value: "abc"}}}
		clause, args := fm.ToSQL(columns, 1)
		assert.Empty(t, clause)
		assert.Empty(t, args)
	})

	t.Run("unknown field is ignored", func(t *testing.T) {
		fm := &FilterModel{Items: []FilterItem{{Field: "nope", Value: "x"}}}
		clause, _ := fm.ToSQL(columns, 1)
		assert.Empty(t, clause)
	})

	t.Run("quick filter matches the quick-filter fields only", func(t *testing.T) {
		fm := &FilterModel{QuickFilterValues: []string{"scf"}}
		clause, args := fm.ToSQL(columns, 1)
		assert.Equal(t, "(label::text ILIKE '%' || $1 || '%')", clause)
		assert.Equal(t, []any{"scf"}, args)
	})

	t.Run("numeric quick filter also checks pk", func(t *testing.T) {
		fm := &FilterModel{QuickFilterValues: []string{"7"}}
		clause, args := fm.ToSQL(columns, 1)
		assert.Equal(t, "(id = $1 OR label::text ILIKE '%' || $2 || '%')", clause)
		assert.Equal(t, []any{7, "7"}, args)
	})

	t.Run("quick filter skips state and time columns", func(t *testing.T) {
		wide := map[string]string{
			"pk":          "id",
			"ctime":       "ctime",
			"node_type":   "node_type",
			"state":       "process_state",
			"status":      "process_status",
			"label":       "label",
			"description": "description",
		}
		fm := &FilterModel{QuickFilterValues: []string{"2026"}}
		clause, args := fm.ToSQL(wide, 1)
		assert.Equal(t, "(id = $1 OR node_type::text ILIKE '%' || $2 || '%' OR label::text ILIKE '%' || $3 || '%' OR description::text ILIKE '%' || $4 || '%')", clause)
		assert.Equal(t, []any{2026, "2026", "2026", "2026"}, args)
		assert.NotContains(t, clause, "ctime")
		assert.NotContains(t, clause, "process_state")
	})

	t.Run("multiple quick filters combine with AND", func(t *testing.T) {
		fm := &FilterModel{QuickFilterValues: []string{"scf", "relax"}}
		clause, args := fm.ToSQL(columns, 1)
		assert.Contains(t, clause, ") AND (")
		assert.Len(t, args, 2)
	})

	t.Run("start index numbers the placeholders", func(t *testing.T) {
		fm := &FilterModel{Items: []FilterItem{{Field: "label", Value: "x"}}}
		clause, _ := fm.ToSQL(columns, 3)
		assert.Equal(t, "label::text ILIKE '%' || $3 || '%'", clause)
	})
}
