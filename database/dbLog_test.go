package database

import (
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workgraphui/manager/helper"
)

func newMockLogHandler(t *testing.T) (*LogDBHandler, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &LogDBHandler{db: helper.NewDatabaseWithDB("log", db, logger)}, mock
}

func TestInsertLog(t *testing.T) {
	handler, mock := newMockLogHandler(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO log (node_id, level, message) VALUES ($1, $2, $3)")).
		WithArgs(5, "REPORT", "Process paused").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, handler.InsertLog(5, "REPORT", "Process paused"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSelectLogs(t *testing.T) {
	handler, mock := newMockLogHandler(t)

	logTime := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	mock.ExpectQuery(`(?s)SELECT time, level, message FROM log`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"time", "level", "message"}).
			AddRow(logTime, "REPORT", "Process started").
			AddRow(logTime.Add(time.Minute), "REPORT", "Process paused"))

	logs, err := handler.SelectLogs(5)
	require.NoError(t, err)

	require.Len(t, logs, 2)
	assert.Equal(t, "2026-03-14 09:30:00 [5 | REPORT]: Process started", logs[0])
	assert.Equal(t, "2026-03-14 09:31:00 [5 | REPORT]: Process paused", logs[1])
}
