package handler

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/workgraphui/manager/database"
	"github.com/workgraphui/manager/helper"
	"github.com/workgraphui/manager/model"
	"github.com/workgraphui/manager/upload"
)

// fakeNodeDB is an in-memory stand-in for the node store.
type fakeNodeDB struct {
	nodes     map[int]*model.Node
	pageRows  []model.DataMap
	pageTotal int
	lastQuery *database.PageQuery
	updated   map[string]string
}

func newFakeNodeDB(nodes ...*model.Node) *fakeNodeDB {
	db := &fakeNodeDB{nodes: map[int]*model.Node{}}
	for _, node := range nodes {
		db.nodes[node.ID] = node
	}
	return db
}

func (f *fakeNodeDB) CheckTableExistance() (bool, error) { return true, nil }
func (f *fakeNodeDB) CreateTable() error                 { return nil }
func (f *fakeNodeDB) DropTable() error                   { return nil }

func (f *fakeNodeDB) InsertNode(node *model.Node) (*model.Node, error) {
	node.ID = len(f.nodes) + 1
	f.nodes[node.ID] = node
	return node, nil
}

func (f *fakeNodeDB) InsertLink(fromNode int, toNode int, label string) error { return nil }

func (f *fakeNodeDB) SelectNode(pk int) (*model.Node, error) {
	node, ok := f.nodes[pk]
	if !ok {
		return nil, helper.NewError("node not found", fmt.Errorf("no node with pk %d", pk))
	}
	return node, nil
}

func (f *fakeNodeDB) SelectNodePage(query *database.PageQuery) ([]model.DataMap, int, error) {
	f.lastQuery = query
	return f.pageRows, f.pageTotal, nil
}

func (f *fakeNodeDB) UpdateNodeFields(pk int, fields map[string]string) (*model.Node, error) {
	node, ok := f.nodes[pk]
	if !ok {
		return nil, helper.NewError("node not found", fmt.Errorf("no node with pk %d", pk))
	}
	f.updated = fields
	if value, ok := fields["label"]; ok {
		node.Label = value
	}
	if value, ok := fields["description"]; ok {
		node.Description = value
	}
	if value, ok := fields["process_state"]; ok {
		node.ProcessState = value
	}
	if value, ok := fields["process_status"]; ok {
		node.ProcessStatus = value
	}
	return node, nil
}

func (f *fakeNodeDB) DeleteNode(pk int, dryRun bool) ([]int, bool, error) {
	if _, ok := f.nodes[pk]; !ok {
		return nil, false, helper.NewError("node not found", fmt.Errorf("no node with pk %d", pk))
	}
	if dryRun {
		return []int{pk}, false, nil
	}
	delete(f.nodes, pk)
	return []int{pk}, true, nil
}

// fakeLogDB is an in-memory stand-in for the process log store.
type fakeLogDB struct {
	logs map[int][]string
}

func newFakeLogDB() *fakeLogDB {
	return &fakeLogDB{logs: map[int][]string{}}
}

func (f *fakeLogDB) CreateTable() error { return nil }
func (f *fakeLogDB) DropTable() error   { return nil }

func (f *fakeLogDB) InsertLog(nodeID int, level string, message string) error {
	f.logs[nodeID] = append(f.logs[nodeID], fmt.Sprintf("[%d | %s]: %s", nodeID, level, message))
	return nil
}

func (f *fakeLogDB) SelectLogs(nodeID int) ([]string, error) {
	return f.logs[nodeID], nil
}

func newTestHandler(t *testing.T, nodeDB *fakeNodeDB) (*ManagerHandler, *fakeLogDB, *echo.Echo) {
	t.Helper()

	logDB := newFakeLogDB()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mh := NewManagerHandler(nodeDB, logDB, upload.NewFilesystemMemory(), logger, "http://localhost:8000/api")
	return mh, logDB, echo.New()
}
