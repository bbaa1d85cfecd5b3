package database

import (
	"database/sql"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workgraphui/manager/helper"
	"github.com/workgraphui/manager/model"
)

func newMockNodeHandler(t *testing.T) (*NodeDBHandler, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &NodeDBHandler{db: helper.NewDatabaseWithDB("node", db, logger)}, mock
}

func pageRows(ctime time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "uuid", "node_type", "process_label", "process_state",
		"process_status", "exit_status", "exit_message", "label", "description", "ctime",
	}).
		AddRow(2, "b1a6a3f0-93ff-4a4b-9a97-6ee1a3c7d6b1", "data.core.int.Int", "", "", "", nil, "", "two", "", ctime).
		AddRow(1, "7f3a3f0e-93ff-4a4b-9a97-6ee1a3c7d6b2", "data.core.int.Int", "", "", "", nil, "", "one", "", ctime)
}

func TestSelectNodePage(t *testing.T) {
	columns := map[string]string{"pk": "id", "label": "label", "ctime": "ctime"}
	ctime := time.Now()

	t.Run("default page", func(t *testing.T) {
		handler, mock := newMockNodeHandler(t)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM node WHERE node_type LIKE $1")).
			WithArgs("data.%").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))
		mock.ExpectQuery(`(?s)SELECT.*FROM node.*WHERE node_type LIKE \$1.*ORDER BY id DESC.*OFFSET \$2.*LIMIT \$3`).
			WithArgs("data.%", 0, 15).
			WillReturnRows(pageRows(ctime))

		rows, total, err := handler.SelectNodePage(&PageQuery{
			TypePrefix: "data.",
			Skip:       0,
			Limit:      15,
			SortField:  "pk",
			SortOrder:  "desc",
			Columns:    columns,
		})
		require.NoError(t, err)

		assert.Equal(t, 42, total)
		require.Len(t, rows, 2)
		assert.Equal(t, 2, rows[0].PK())
		assert.Equal(t, "two", rows[0]["label"])
		assert.NotContains(t, rows[0], "exit_status")

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown sort field falls back to pk", func(t *testing.T) {
		handler, mock := newMockNodeHandler(t)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
			WithArgs("data.%").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`(?s)SELECT.*ORDER BY id DESC`).
			WithArgs("data.%", 0, 15).
			WillReturnRows(pageRows(ctime))

		_, _, err := handler.SelectNodePage(&PageQuery{
			TypePrefix: "data.",
			Limit:      15,
			SortField:  "evil; DROP TABLE node",
			Columns:    columns,
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("filter narrows both queries", func(t *testing.T) {
		handler, mock := newMockNodeHandler(t)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
			WithArgs("data.%", "relax").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(`(?s)SELECT.*label::text ILIKE`).
			WithArgs("data.%", "relax", 0, 15).
			WillReturnRows(pageRows(ctime))

		_, total, err := handler.SelectNodePage(&PageQuery{
			TypePrefix: "data.",
			Limit:      15,
			Filter:     &model.FilterModel{Items: []model.FilterItem{{Field: "label", Operator: "contains", Value: "relax"}}},
			Columns:    columns,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func fullNodeRow(pk int, label string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "uuid", "node_type", "process_label", "process_state", "process_status",
		"exit_status", "exit_message", "label", "description", "attributes", "ctime", "mtime",
	}).AddRow(pk, "7f3a3f0e-93ff-4a4b-9a97-6ee1a3c7d6b2", "data.core.int.Int", "", "", "", nil, "", label, "", []byte(`{}`), now, now)
}

func TestUpdateNodeFields(t *testing.T) {
	t.Run("updates only allow-listed columns", func(t *testing.T) {
		handler, mock := newMockNodeHandler(t)

		mock.ExpectQuery(`(?s)UPDATE node.*SET label = \$1, mtime = NOW\(\).*WHERE id = \$2.*RETURNING`).
			WithArgs("b", 7).
			WillReturnRows(fullNodeRow(7, "b"))

		node, err := handler.UpdateNodeFields(7, map[string]string{"label": "b", "nope": "x"})
		require.NoError(t, err)
		assert.Equal(t, "b", node.Label)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no usable fields", func(t *testing.T) {
		handler, _ := newMockNodeHandler(t)

		_, err := handler.UpdateNodeFields(7, map[string]string{"nope": "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no updatable fields")
	})

	t.Run("missing node", func(t *testing.T) {
		handler, mock := newMockNodeHandler(t)

		mock.ExpectQuery(`(?s)UPDATE node`).
			WithArgs("b", 99).
			WillReturnError(sql.ErrNoRows)

		_, err := handler.UpdateNodeFields(99, map[string]string{"label": "b"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "node not found")
	})
}

func TestDeleteNode(t *testing.T) {
	t.Run("dry run only reports descendants", func(t *testing.T) {
		handler, mock := newMockNodeHandler(t)

		mock.ExpectQuery(`(?s)WITH RECURSIVE descendants`).
			WithArgs(7).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7).AddRow(8).AddRow(9))

		pks, deleted, err := handler.DeleteNode(7, true)
		require.NoError(t, err)
		assert.Equal(t, []int{7, 8, 9}, pks)
		assert.False(t, deleted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete removes the whole subtree", func(t *testing.T) {
		handler, mock := newMockNodeHandler(t)

		mock.ExpectQuery(`(?s)WITH RECURSIVE descendants`).
			WithArgs(7).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7).AddRow(8))
		mock.ExpectExec(`(?s)DELETE FROM node`).
			WithArgs(7).
			WillReturnResult(sqlmock.NewResult(0, 2))

		pks, deleted, err := handler.DeleteNode(7, false)
		require.NoError(t, err)
		assert.Equal(t, []int{7, 8}, pks)
		assert.True(t, deleted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing node", func(t *testing.T) {
		handler, mock := newMockNodeHandler(t)

		mock.ExpectQuery(`(?s)WITH RECURSIVE descendants`).
			WithArgs(99).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, _, err := handler.DeleteNode(99, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "node not found")
	})
}
