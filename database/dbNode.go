package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/workgraphui/manager/helper"
	"github.com/workgraphui/manager/model"
)

// PageQuery describes one page slice request against the node table.
// Columns maps grid field names to database columns and doubles as the
// allow-list for sorting and filtering.
type PageQuery struct {
	TypePrefix string
	Skip       int
	Limit      int
	SortField  string
	SortOrder  string
	Filter     *model.FilterModel
	Columns    map[string]string
}

// NodeDBHandlerFunctions defines the interface for node database operations.
type NodeDBHandlerFunctions interface {
	CheckTableExistance() (bool, error)
	CreateTable() error
	DropTable() error
	InsertNode(node *model.Node) (*model.Node, error)
	InsertLink(fromNode int, toNode int, label string) error
	SelectNode(pk int) (*model.Node, error)
	SelectNodePage(query *PageQuery) ([]model.DataMap, int, error)
	UpdateNodeFields(pk int, fields map[string]string) (*model.Node, error)
	DeleteNode(pk int, dryRun bool) ([]int, bool, error)
}

// NodeDBHandler implements NodeDBHandlerFunctions and holds the database connection.
type NodeDBHandler struct {
	db *helper.Database
}

// NewNodeDBHandler creates a new instance of NodeDBHandler.
// If withTableDrop is true, it will drop the existing node tables before creating new ones.
func NewNodeDBHandler(dbConnection *helper.Database, withTableDrop bool) (*NodeDBHandler, error) {
	if dbConnection == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	nodeDbHandler := &NodeDBHandler{
		db: dbConnection,
	}

	if withTableDrop {
		err := nodeDbHandler.DropTable()
		if err != nil {
			return nil, helper.NewError("drop table", err)
		}
	}

	err := nodeDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	return nodeDbHandler, nil
}

// CheckTableExistance checks if the 'node' table exists in the database.
func (r NodeDBHandler) CheckTableExistance() (bool, error) {
	nodeExists, err := r.db.CheckTableExistance("node")
	if err != nil {
		return false, helper.NewError("node table", err)
	}
	return nodeExists, nil
}

// CreateTable creates the 'node' and 'link' tables in the database.
// If the tables already exist, it does not create them again.
func (r NodeDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	query := `
		CREATE TABLE IF NOT EXISTS node (
			id SERIAL PRIMARY KEY,
			uuid UUID UNIQUE NOT NULL DEFAULT gen_random_uuid(),
			node_type VARCHAR(255) NOT NULL,
			process_label VARCHAR(255) DEFAULT '',
			process_state VARCHAR(50) DEFAULT '',
			process_status TEXT DEFAULT '',
			exit_status INTEGER,
			exit_message TEXT DEFAULT '',
			label VARCHAR(255) DEFAULT '',
			description TEXT DEFAULT '',
			attributes JSONB NOT NULL DEFAULT '{}'::jsonb,
			ctime TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			mtime TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_node_uuid ON node(uuid);
		CREATE INDEX IF NOT EXISTS idx_node_type ON node(node_type);
		CREATE INDEX IF NOT EXISTS idx_node_ctime ON node(ctime);

		CREATE TABLE IF NOT EXISTS link (
			id SERIAL PRIMARY KEY,
			from_node INTEGER NOT NULL REFERENCES node(id) ON DELETE CASCADE,
			to_node INTEGER NOT NULL REFERENCES node(id) ON DELETE CASCADE,
			label VARCHAR(255) DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_link_from_node ON link(from_node);
		CREATE INDEX IF NOT EXISTS idx_link_to_node ON link(to_node);
	`

	_, err := r.db.Instance.ExecContext(ctx, query)
	if err != nil {
		return helper.NewError("create node tables", err)
	}

	r.db.Logger.Info("Checked/created tables node and link")

	return nil
}

// DropTable drops the 'node' and 'link' tables from the database.
func (r NodeDBHandler) DropTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	query := `DROP TABLE IF EXISTS link; DROP TABLE IF EXISTS node`
	_, err := r.db.Instance.ExecContext(ctx, query)
	if err != nil {
		return helper.NewError("drop node tables", err)
	}

	r.db.Logger.Info("Dropped tables node and link")

	return nil
}

// InsertNode inserts a new node record into the database.
func (r NodeDBHandler) InsertNode(node *model.Node) (*model.Node, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	newNode := &model.Node{}
	query := `
		INSERT INTO node (
			node_type,
			process_label,
			process_state,
			process_status,
			exit_status,
			exit_message,
			label,
			description,
			attributes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING
			id,
			uuid,
			node_type,
			process_label,
			process_state,
			process_status,
			exit_status,
			exit_message,
			label,
			description,
			attributes,
			ctime,
			mtime`

	err := r.db.Instance.QueryRowContext(ctx, query,
		node.NodeType,
		node.ProcessLabel,
		node.ProcessState,
		node.ProcessStatus,
		node.ExitStatus,
		node.ExitMessage,
		node.Label,
		node.Description,
		node.Attributes,
	).Scan(
		&newNode.ID,
		&newNode.UUID,
		&newNode.NodeType,
		&newNode.ProcessLabel,
		&newNode.ProcessState,
		&newNode.ProcessStatus,
		&newNode.ExitStatus,
		&newNode.ExitMessage,
		&newNode.Label,
		&newNode.Description,
		&newNode.Attributes,
		&newNode.Ctime,
		&newNode.Mtime,
	)
	if err != nil {
		return nil, helper.NewError("insert node", err)
	}

	return newNode, nil
}

// InsertLink inserts a provenance edge between two existing nodes.
func (r NodeDBHandler) InsertLink(fromNode int, toNode int, label string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	query := `INSERT INTO link (from_node, to_node, label) VALUES ($1, $2, $3)`
	_, err := r.db.Instance.ExecContext(ctx, query, fromNode, toNode, label)
	if err != nil {
		return helper.NewError("insert link", err)
	}

	return nil
}

// SelectNode retrieves a node by primary key from the database.
func (r NodeDBHandler) SelectNode(pk int) (*model.Node, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	node := &model.Node{}
	query := `
		SELECT
			id,
			uuid,
			node_type,
			process_label,
			process_state,
			process_status,
			exit_status,
			exit_message,
			label,
			description,
			attributes,
			ctime,
			mtime
		FROM node
		WHERE id = $1
	`

	err := r.db.Instance.QueryRowContext(ctx, query, pk).Scan(
		&node.ID,
		&node.UUID,
		&node.NodeType,
		&node.ProcessLabel,
		&node.ProcessState,
		&node.ProcessStatus,
		&node.ExitStatus,
		&node.ExitMessage,
		&node.Label,
		&node.Description,
		&node.Attributes,
		&node.Ctime,
		&node.Mtime,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, helper.NewError("node not found", fmt.Errorf("no node with pk %d", pk))
		}
		return nil, helper.NewError("select node", err)
	}

	return node, nil
}

// SelectNodePage retrieves one page slice of nodes plus the total row
// count across all pages. Sorting and filtering are restricted to the
// columns named in the query's allow-list; an unknown sort field falls
// back to the primary key.
func (r NodeDBHandler) SelectNodePage(query *PageQuery) ([]model.DataMap, int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	where := []string{"node_type LIKE $1"}
	args := []any{query.TypePrefix + "%"}

	if query.Filter != nil {
		clause, filterArgs := query.Filter.ToSQL(query.Columns, len(args)+1)
		if clause != "" {
			where = append(where, clause)
			args = append(args, filterArgs...)
		}
	}
	whereClause := strings.Join(where, " AND ")

	total := 0
	countQuery := `SELECT COUNT(*) FROM node WHERE ` + whereClause
	err := r.db.Instance.QueryRowContext(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return nil, 0, helper.NewError("count nodes", err)
	}

	sortColumn, ok := query.Columns[query.SortField]
	if !ok {
		sortColumn = "id"
	}
	sortOrder := "DESC"
	if strings.EqualFold(query.SortOrder, "asc") {
		sortOrder = "ASC"
	}

	pageQuery := fmt.Sprintf(`
		SELECT
			id,
			uuid,
			node_type,
			process_label,
			process_state,
			process_status,
			exit_status,
			exit_message,
			label,
			description,
			ctime
		FROM node
		WHERE %s
		ORDER BY %s %s
		OFFSET $%d
		LIMIT $%d`,
		whereClause, sortColumn, sortOrder, len(args)+1, len(args)+2)
	args = append(args, query.Skip, query.Limit)

	rows, err := r.db.Instance.QueryContext(ctx, pageQuery, args...)
	if err != nil {
		return nil, 0, helper.NewError("select node page", err)
	}
	defer rows.Close()

	page := []model.DataMap{}
	for rows.Next() {
		node := &model.Node{}
		err := rows.Scan(
			&node.ID,
			&node.UUID,
			&node.NodeType,
			&node.ProcessLabel,
			&node.ProcessState,
			&node.ProcessStatus,
			&node.ExitStatus,
			&node.ExitMessage,
			&node.Label,
			&node.Description,
			&node.Ctime,
		)
		if err != nil {
			return nil, 0, helper.NewError("scan node", err)
		}

		row := model.DataMap{
			"pk":            node.ID,
			"uuid":          node.UUID.String(),
			"node_type":     node.NodeType,
			"process_label": node.ProcessLabel,
			"state":         node.ProcessState,
			"status":        node.ProcessStatus,
			"exit_message":  node.ExitMessage,
			"label":         node.Label,
			"description":   node.Description,
			"ctime":         node.Ctime,
		}
		if node.ExitStatus != nil {
			row["exit_status"] = *node.ExitStatus
		}
		page = append(page, row)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, helper.NewError("rows iteration", err)
	}

	return page, total, nil
}

// UpdateNodeFields updates the given fields of a node. Only label and
// description are settable through this path; other keys are ignored by
// the callers' allow-lists before they reach the store.
func (r NodeDBHandler) UpdateNodeFields(pk int, fields map[string]string) (*model.Node, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	setParts := []string{}
	args := []any{}
	for _, column := range []string{"label", "description", "process_state", "process_status"} {
		if value, ok := fields[column]; ok {
			setParts = append(setParts, fmt.Sprintf("%s = $%d", column, len(args)+1))
			args = append(args, value)
		}
	}
	if len(setParts) == 0 {
		return nil, helper.NewError("update node", fmt.Errorf("no updatable fields provided"))
	}
	setParts = append(setParts, "mtime = NOW()")

	updatedNode := &model.Node{}
	query := fmt.Sprintf(`
		UPDATE node
		SET %s
		WHERE id = $%d
		RETURNING
			id,
			uuid,
			node_type,
			process_label,
			process_state,
			process_status,
			exit_status,
			exit_message,
			label,
			description,
			attributes,
			ctime,
			mtime`,
		strings.Join(setParts, ", "), len(args)+1)
	args = append(args, pk)

	err := r.db.Instance.QueryRowContext(ctx, query, args...).Scan(
		&updatedNode.ID,
		&updatedNode.UUID,
		&updatedNode.NodeType,
		&updatedNode.ProcessLabel,
		&updatedNode.ProcessState,
		&updatedNode.ProcessStatus,
		&updatedNode.ExitStatus,
		&updatedNode.ExitMessage,
		&updatedNode.Label,
		&updatedNode.Description,
		&updatedNode.Attributes,
		&updatedNode.Ctime,
		&updatedNode.Mtime,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, helper.NewError("node not found", fmt.Errorf("no node with pk %d", pk))
		}
		return nil, helper.NewError("update node", err)
	}

	return updatedNode, nil
}

// DeleteNode deletes a node and all nodes reachable through outgoing
// links (its created descendants). With dryRun it only reports which
// primary keys would go. Returns the affected keys and whether anything
// was actually deleted.
func (r NodeDBHandler) DeleteNode(pk int, dryRun bool) ([]int, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	descendantsQuery := `
		WITH RECURSIVE descendants AS (
			SELECT id FROM node WHERE id = $1
			UNION
			SELECT l.to_node FROM link l JOIN descendants d ON l.from_node = d.id
		)
		SELECT id FROM descendants ORDER BY id`

	rows, err := r.db.Instance.QueryContext(ctx, descendantsQuery, pk)
	if err != nil {
		return nil, false, helper.NewError("select node descendants", err)
	}
	defer rows.Close()

	pks := []int{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, false, helper.NewError("scan descendant", err)
		}
		pks = append(pks, id)
	}
	if err = rows.Err(); err != nil {
		return nil, false, helper.NewError("rows iteration", err)
	}

	if len(pks) == 0 {
		return nil, false, helper.NewError("node not found", fmt.Errorf("no node with pk %d", pk))
	}

	if dryRun {
		return pks, false, nil
	}

	deleteQuery := `
		DELETE FROM node
		WHERE id IN (
			WITH RECURSIVE descendants AS (
				SELECT id FROM node WHERE id = $1
				UNION
				SELECT l.to_node FROM link l JOIN descendants d ON l.from_node = d.id
			)
			SELECT id FROM descendants
		)`

	_, err = r.db.Instance.ExecContext(ctx, deleteQuery, pk)
	if err != nil {
		return nil, false, helper.NewError("delete node", err)
	}

	return pks, true, nil
}
