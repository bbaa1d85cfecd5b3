package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workgraphui/manager/model"
)

func postProcess(t *testing.T, e *echo.Echo, handlerFunc echo.HandlerFunc, pk string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/process/pause/"+pk, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("pk")
	c.SetParamValues(pk)

	require.NoError(t, handlerFunc(c))
	return rec
}

func TestPauseProcess(t *testing.T) {
	t.Run("pauses a running process", func(t *testing.T) {
		nodeDB := newFakeNodeDB(&model.Node{
			ID:           7,
			NodeType:     "process.workflow.workgraph.WorkGraphNode",
			ProcessState: model.ProcessStateRunning,
		})
		mh, logDB, e := newTestHandler(t, nodeDB)

		rec := postProcess(t, e, mh.PauseProcess, "7")
		assert.Equal(t, http.StatusOK, rec.Code)

		assert.Equal(t, model.ProcessStatePaused, nodeDB.nodes[7].ProcessState)
		require.Len(t, logDB.logs[7], 1)
		assert.Contains(t, logDB.logs[7][0], "paused")
	})

	t.Run("terminated process cannot be paused", func(t *testing.T) {
		nodeDB := newFakeNodeDB(&model.Node{
			ID:           7,
			NodeType:     "process.workflow.workgraph.WorkGraphNode",
			ProcessState: model.ProcessStateFinished,
		})
		mh, _, e := newTestHandler(t, nodeDB)

		rec := postProcess(t, e, mh.PauseProcess, "7")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, model.ProcessStateFinished, nodeDB.nodes[7].ProcessState)
	})

	t.Run("non-process node", func(t *testing.T) {
		nodeDB := newFakeNodeDB(&model.Node{ID: 7, NodeType: "data.core.int.Int"})
		mh, _, e := newTestHandler(t, nodeDB)

		rec := postProcess(t, e, mh.PauseProcess, "7")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing node", func(t *testing.T) {
		mh, _, e := newTestHandler(t, newFakeNodeDB())

		rec := postProcess(t, e, mh.PauseProcess, "99")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestPlayProcess(t *testing.T) {
	t.Run("resumes a paused process", func(t *testing.T) {
		nodeDB := newFakeNodeDB(&model.Node{
			ID:           7,
			NodeType:     "process.workflow.workgraph.WorkGraphNode",
			ProcessState: model.ProcessStatePaused,
		})
		mh, _, e := newTestHandler(t, nodeDB)

		rec := postProcess(t, e, mh.PlayProcess, "7")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, model.ProcessStateWaiting, nodeDB.nodes[7].ProcessState)
		assert.Empty(t, nodeDB.nodes[7].ProcessStatus)
	})

	t.Run("only paused processes can be resumed", func(t *testing.T) {
		nodeDB := newFakeNodeDB(&model.Node{
			ID:           7,
			NodeType:     "process.workflow.workgraph.WorkGraphNode",
			ProcessState: model.ProcessStateRunning,
		})
		mh, _, e := newTestHandler(t, nodeDB)

		rec := postProcess(t, e, mh.PlayProcess, "7")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetProcessLogs(t *testing.T) {
	nodeDB := newFakeNodeDB(&model.Node{
		ID:           7,
		NodeType:     "process.workflow.workgraph.WorkGraphNode",
		ProcessState: model.ProcessStateRunning,
	})
	mh, logDB, e := newTestHandler(t, nodeDB)
	require.NoError(t, logDB.InsertLog(7, "REPORT", "Process started"))

	req := httptest.NewRequest(http.MethodGet, "/api/process/logs/7", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("pk")
	c.SetParamValues("7")

	require.NoError(t, mh.GetProcessLogs(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Logs []string `json:"logs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Logs, 1)
	assert.Contains(t, payload.Logs[0], "Process started")
}
