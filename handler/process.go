package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/workgraphui/manager/model"

	"github.com/labstack/echo/v4"
)

func (m *ManagerHandler) selectProcess(c echo.Context) (int, *model.Node, error) {
	pk, err := strconv.Atoi(c.Param("pk"))
	if err != nil {
		return 0, nil, renderPopupOrJson(c, http.StatusBadRequest, "pk must be an integer")
	}

	node, err := m.nodeDB.SelectNode(pk)
	if err != nil {
		return 0, nil, renderPopupOrJson(c, http.StatusNotFound, fmt.Sprintf("No process found with pk %d", pk))
	}
	if !strings.HasPrefix(node.NodeType, "process.") {
		return 0, nil, renderPopupOrJson(c, http.StatusBadRequest, fmt.Sprintf("Node %d is not a process", pk))
	}
	return pk, node, nil
}

// PauseProcess pauses a running process node.
func (m *ManagerHandler) PauseProcess(c echo.Context) error {
	pk, node, err := m.selectProcess(c)
	if node == nil {
		return err
	}

	switch node.ProcessState {
	case model.ProcessStateFinished, model.ProcessStateExcepted, model.ProcessStateKilled:
		return renderPopupOrJson(c, http.StatusBadRequest, fmt.Sprintf("Process %d is already terminated", pk))
	case model.ProcessStatePaused:
		return renderPopupOrJson(c, http.StatusBadRequest, fmt.Sprintf("Process %d is already paused", pk))
	}

	_, err = m.nodeDB.UpdateNodeFields(pk, map[string]string{
		"process_state":  model.ProcessStatePaused,
		"process_status": "Paused through the manager",
	})
	if err != nil {
		m.logger.Error("Pausing process failed", "pk", pk, "error", err)
		return renderPopupOrJson(c, http.StatusInternalServerError, fmt.Sprintf("Pausing process %d failed", pk))
	}

	if err := m.logDB.InsertLog(pk, "REPORT", "Process paused"); err != nil {
		m.logger.Error("Writing process log failed", "pk", pk, "error", err)
	}

	return renderPopupOrJson(c, http.StatusOK, fmt.Sprintf("Process %d paused", pk))
}

// PlayProcess resumes a paused process node. The process goes back to
// waiting; the engine picks it up from there.
func (m *ManagerHandler) PlayProcess(c echo.Context) error {
	pk, node, err := m.selectProcess(c)
	if node == nil {
		return err
	}

	if node.ProcessState != model.ProcessStatePaused {
		return renderPopupOrJson(c, http.StatusBadRequest, fmt.Sprintf("Process %d is not paused", pk))
	}

	_, err = m.nodeDB.UpdateNodeFields(pk, map[string]string{
		"process_state":  model.ProcessStateWaiting,
		"process_status": "",
	})
	if err != nil {
		m.logger.Error("Resuming process failed", "pk", pk, "error", err)
		return renderPopupOrJson(c, http.StatusInternalServerError, fmt.Sprintf("Resuming process %d failed", pk))
	}

	if err := m.logDB.InsertLog(pk, "REPORT", "Process resumed"); err != nil {
		m.logger.Error("Writing process log failed", "pk", pk, "error", err)
	}

	return renderPopupOrJson(c, http.StatusOK, fmt.Sprintf("Process %d resumed", pk))
}

// GetProcessLogs returns the report lines of a process node.
func (m *ManagerHandler) GetProcessLogs(c echo.Context) error {
	pk, node, err := m.selectProcess(c)
	if node == nil {
		return err
	}

	logs, err := m.logDB.SelectLogs(pk)
	if err != nil {
		m.logger.Error("Selecting process logs failed", "pk", pk, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"detail": "failed to load logs"})
	}

	return c.JSON(http.StatusOK, map[string]any{"logs": logs})
}
