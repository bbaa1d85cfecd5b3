package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/workgraphui/manager/database"
	"github.com/workgraphui/manager/entity"
	"github.com/workgraphui/manager/model"
	"github.com/workgraphui/manager/upload"
	"github.com/workgraphui/manager/view/components"

	"github.com/labstack/echo/v4"
)

const (
	defaultPageLimit = 15
	maxPageLimit     = 500
)

// GetEntityData serves one page slice of the entity's node table as
// {"total": n, "data": [...]}. Paging, sorting and filtering come from
// the query parameters; the filter model is the grid's serialized JSON.
func (m *ManagerHandler) GetEntityData(descriptor entity.Descriptor) echo.HandlerFunc {
	return func(c echo.Context) error {
		skip := 0
		if raw := c.QueryParam("skip"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				return c.JSON(http.StatusBadRequest, map[string]string{"detail": "skip must be a non-negative integer"})
			}
			skip = parsed
		}

		limit := defaultPageLimit
		if raw := c.QueryParam("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				return c.JSON(http.StatusBadRequest, map[string]string{"detail": "limit must be a positive integer"})
			}
			limit = parsed
		}
		if limit > maxPageLimit {
			limit = maxPageLimit
		}

		filter, err := model.ParseFilterModel(c.QueryParam("filterModel"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"detail": err.Error()})
		}

		sortField := c.QueryParam("sortField")
		if sortField == "" {
			sortField = "pk"
		}

		rows, total, err := m.nodeDB.SelectNodePage(&database.PageQuery{
			TypePrefix: descriptor.TypePrefix(),
			Skip:       skip,
			Limit:      limit,
			SortField:  sortField,
			SortOrder:  c.QueryParam("sortOrder"),
			Filter:     filter,
			Columns:    descriptor.ColumnMap(),
		})
		if err != nil {
			m.logger.Error("Selecting entity page failed", "entity", descriptor.Entity(), "error", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"detail": "failed to load rows"})
		}

		for _, row := range rows {
			presentRow(row)
		}

		return c.JSON(http.StatusOK, map[string]any{
			"total": total,
			"data":  rows,
		})
	}
}

// UpdateEntityData commits an inline edit: the JSON body carries the
// changed fields, restricted to the entity's editable allow-list.
// Payload keys outside the allow-list are dropped; a payload with no
// usable field is rejected.
func (m *ManagerHandler) UpdateEntityData(descriptor entity.Descriptor) echo.HandlerFunc {
	return func(c echo.Context) error {
		pk, err := strconv.Atoi(c.Param("pk"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"detail": "pk must be an integer"})
		}

		payload := map[string]any{}
		if err := json.NewDecoder(c.Request().Body).Decode(&payload); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"detail": "invalid JSON body"})
		}

		fields := map[string]string{}
		for _, field := range descriptor.EditableFields() {
			if value, ok := payload[field]; ok {
				fields[field] = fmt.Sprintf("%v", value)
			}
		}
		if len(fields) == 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"detail": "No updatable fields provided"})
		}

		node, err := m.nodeDB.UpdateNodeFields(pk, fields)
		if err != nil {
			if strings.Contains(err.Error(), "not found") {
				return c.JSON(http.StatusNotFound, map[string]string{"detail": fmt.Sprintf("No node found with pk %d", pk)})
			}
			m.logger.Error("Updating node failed", "pk", pk, "error", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"detail": "failed to update node"})
		}

		return c.JSON(http.StatusOK, map[string]any{
			"updated":     true,
			"pk":          node.ID,
			"label":       node.Label,
			"description": node.Description,
		})
	}
}

func (m *ManagerHandler) selectEntityNode(c echo.Context, descriptor entity.Descriptor) (*model.Node, error) {
	pk, err := strconv.Atoi(c.Param("pk"))
	if err != nil {
		return nil, c.JSON(http.StatusBadRequest, map[string]string{"detail": "pk must be an integer"})
	}

	node, err := m.nodeDB.SelectNode(pk)
	if err != nil || !strings.HasPrefix(node.NodeType, descriptor.TypePrefix()) {
		return nil, c.JSON(http.StatusNotFound, map[string]string{"detail": fmt.Sprintf("No %s found with pk %d", descriptor.Entity(), pk)})
	}
	return node, nil
}

// GetEntity serves the detail record of one node, attributes included.
func (m *ManagerHandler) GetEntity(descriptor entity.Descriptor) echo.HandlerFunc {
	return func(c echo.Context) error {
		node, err := m.selectEntityNode(c, descriptor)
		if node == nil {
			return err
		}
		return c.JSON(http.StatusOK, node)
	}
}

// ExportEntity serves a node as a downloadable JSON document: the record
// itself plus the names of its repository files.
func (m *ManagerHandler) ExportEntity(descriptor entity.Descriptor) echo.HandlerFunc {
	return func(c echo.Context) error {
		node, err := m.selectEntityNode(c, descriptor)
		if node == nil {
			return err
		}

		names := []string{}
		if files, err := m.filesystem.ListFiles(upload.NodePrefix(node.ID)); err == nil {
			for _, file := range files {
				names = append(names, file.Name)
			}
		}

		c.Response().Header().Set(echo.HeaderContentDisposition,
			fmt.Sprintf(`attachment; filename="%s-%d.json"`, descriptor.Entity(), node.ID))
		return c.JSON(http.StatusOK, map[string]any{
			"node":       node,
			"repository": names,
		})
	}
}

// DeleteEntity deletes a node together with all nodes it created. With
// dry_run=true nothing is removed and only the affected keys come back.
func (m *ManagerHandler) DeleteEntity(descriptor entity.Descriptor) echo.HandlerFunc {
	return func(c echo.Context) error {
		pk, err := strconv.Atoi(c.Param("pk"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"detail": "pk must be an integer"})
		}
		dryRun := c.QueryParam("dry_run") == "true"

		pks, deleted, err := m.nodeDB.DeleteNode(pk, dryRun)
		if err != nil {
			if strings.Contains(err.Error(), "not found") {
				return c.JSON(http.StatusNotFound, map[string]string{"detail": fmt.Sprintf("No node found with pk %d", pk)})
			}
			m.logger.Error("Deleting node failed", "pk", pk, "error", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"detail": "failed to delete node"})
		}

		message := fmt.Sprintf("Deleted %d node(s)", len(pks))
		if dryRun {
			message = fmt.Sprintf("Dry run: %d node(s) would be deleted", len(pks))
		}

		if model.GetRequestContext(c).HxRequest {
			return renderPopup(c, components.PopupSuccess("Info", message))
		}

		return c.JSON(http.StatusOK, map[string]any{
			"deleted":       deleted,
			"message":       message,
			"deleted_nodes": pks,
		})
	}
}

// DeletePreview serves the dry-run fragment shown inside the delete
// confirmation popup.
func (m *ManagerHandler) DeletePreview(descriptor entity.Descriptor) echo.HandlerFunc {
	return func(c echo.Context) error {
		pk, err := strconv.Atoi(c.Param("pk"))
		if err != nil {
			return c.HTML(http.StatusBadRequest, "<p>Invalid pk.</p>")
		}

		pks, _, err := m.nodeDB.DeleteNode(pk, true)
		if err != nil {
			if strings.Contains(err.Error(), "not found") {
				return c.HTML(http.StatusNotFound, "<p>Node not found.</p>")
			}
			m.logger.Error("Delete preview failed", "pk", pk, "error", err)
			return c.HTML(http.StatusInternalServerError, "<p>Preview failed.</p>")
		}

		keys := make([]string, 0, len(pks))
		for _, affected := range pks {
			keys = append(keys, strconv.Itoa(affected))
		}
		return c.HTML(http.StatusOK, fmt.Sprintf("<p>%d node(s) will be deleted: %s</p>", len(pks), strings.Join(keys, ", ")))
	}
}
