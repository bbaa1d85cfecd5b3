package database

import (
	"context"
	"fmt"
	"time"

	"github.com/workgraphui/manager/helper"
)

// LogDBHandlerFunctions defines the interface for process log operations.
type LogDBHandlerFunctions interface {
	CreateTable() error
	DropTable() error
	InsertLog(nodeID int, level string, message string) error
	SelectLogs(nodeID int) ([]string, error)
}

// LogDBHandler implements LogDBHandlerFunctions and holds the database connection.
type LogDBHandler struct {
	db *helper.Database
}

// NewLogDBHandler creates a new instance of LogDBHandler.
func NewLogDBHandler(dbConnection *helper.Database, withTableDrop bool) (*LogDBHandler, error) {
	if dbConnection == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	logDbHandler := &LogDBHandler{
		db: dbConnection,
	}

	if withTableDrop {
		err := logDbHandler.DropTable()
		if err != nil {
			return nil, helper.NewError("drop table", err)
		}
	}

	err := logDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	return logDbHandler, nil
}

// CreateTable creates the 'log' table in the database.
func (r LogDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	query := `
		CREATE TABLE IF NOT EXISTS log (
			id SERIAL PRIMARY KEY,
			node_id INTEGER NOT NULL REFERENCES node(id) ON DELETE CASCADE,
			time TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			level VARCHAR(20) NOT NULL DEFAULT 'REPORT',
			message TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_log_node_id ON log(node_id);
	`

	_, err := r.db.Instance.ExecContext(ctx, query)
	if err != nil {
		return helper.NewError("create log table", err)
	}

	r.db.Logger.Info("Checked/created table log")

	return nil
}

// DropTable drops the 'log' table from the database.
func (r LogDBHandler) DropTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	query := `DROP TABLE IF EXISTS log`
	_, err := r.db.Instance.ExecContext(ctx, query)
	if err != nil {
		return helper.NewError("drop log table", err)
	}

	return nil
}

// InsertLog appends a report line for a process node.
func (r LogDBHandler) InsertLog(nodeID int, level string, message string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	query := `INSERT INTO log (node_id, level, message) VALUES ($1, $2, $3)`
	_, err := r.db.Instance.ExecContext(ctx, query, nodeID, level, message)
	if err != nil {
		return helper.NewError("insert log", err)
	}

	return nil
}

// SelectLogs returns the formatted report lines of a process node in
// insertion order.
func (r LogDBHandler) SelectLogs(nodeID int) ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	query := `SELECT time, level, message FROM log WHERE node_id = $1 ORDER BY id ASC`
	rows, err := r.db.Instance.QueryContext(ctx, query, nodeID)
	if err != nil {
		return nil, helper.NewError("select logs", err)
	}
	defer rows.Close()

	logs := []string{}
	for rows.Next() {
		var logTime time.Time
		var level, message string
		if err := rows.Scan(&logTime, &level, &message); err != nil {
			return nil, helper.NewError("scan log", err)
		}
		logs = append(logs, fmt.Sprintf("%s [%d | %s]: %s", logTime.Format("2006-01-02 15:04:05"), nodeID, level, message))
	}

	if err = rows.Err(); err != nil {
		return nil, helper.NewError("rows iteration", err)
	}

	return logs, nil
}
