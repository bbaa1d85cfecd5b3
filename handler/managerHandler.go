package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/workgraphui/manager/database"
	"github.com/workgraphui/manager/entity"
	"github.com/workgraphui/manager/upload"

	"github.com/labstack/echo/v4"
)

type ManagerHandler struct {
	nodeDB     database.NodeDBHandlerFunctions
	logDB      database.LogDBHandlerFunctions
	filesystem upload.Filesystem
	logger     *slog.Logger
	apiBase    string
	client     *http.Client
}

// NewManagerHandler wires the request handlers to their backing stores.
// apiBase is the absolute API root row mutations are sent to, e.g.
// "http://localhost:8000/api".
func NewManagerHandler(nodeDB database.NodeDBHandlerFunctions, logDB database.LogDBHandlerFunctions, filesystem upload.Filesystem, logger *slog.Logger, apiBase string) *ManagerHandler {
	return &ManagerHandler{
		nodeDB:     nodeDB,
		logDB:      logDB,
		filesystem: filesystem,
		logger:     logger,
		apiBase:    apiBase,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Health check handler
func (m *ManagerHandler) HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "workgraph-manager",
	})
}

// Welcome greets API consumers at the group root.
func (m *ManagerHandler) Welcome(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Welcome to the WorkGraph manager API",
	})
}

// Debug reports the running wiring: the API base the row updater targets
// and the entities the service exposes.
func (m *ManagerHandler) Debug(c echo.Context) error {
	entities := []string{}
	for _, descriptor := range entity.All() {
		entities = append(entities, descriptor.Entity())
	}
	return c.JSON(http.StatusOK, map[string]any{
		"api_base": m.apiBase,
		"entities": entities,
	})
}
