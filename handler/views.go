package handler

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/workgraphui/manager/entity"
	"github.com/workgraphui/manager/model"
	"github.com/workgraphui/manager/table"
	"github.com/workgraphui/manager/upload"
	"github.com/workgraphui/manager/view/components"
	"github.com/workgraphui/manager/view/screens"

	"github.com/a-h/templ"
	"github.com/gorilla/csrf"
	"github.com/labstack/echo/v4"
)

// popupNotifier collects row mutation outcomes as popup components so a
// view handler can render them alongside the refreshed grid.
type popupNotifier struct {
	popups []templ.Component
}

func (n *popupNotifier) Success(message string) {
	n.popups = append(n.popups, components.PopupSuccess("Info", message))
}

func (n *popupNotifier) Error(message string) {
	n.popups = append(n.popups, components.PopupError("Error", message))
}

// buildTable assembles the entity table with the view-state requested in
// the query parameters and loads the current page slice.
func (m *ManagerHandler) buildTable(c echo.Context, descriptor entity.Descriptor, notifier table.Notifier) (*table.Table, error) {
	source := NewNodeSource(m.nodeDB, descriptor)

	if page, err := strconv.Atoi(c.QueryParam("page")); err == nil && page > 0 {
		source.pagination.PageIndex = page - 1
	}
	if size, err := strconv.Atoi(c.QueryParam("pageSize")); err == nil && size > 0 {
		source.pagination.PageSize = size
	}
	if field := c.QueryParam("sortField"); field != "" {
		order := c.QueryParam("sortOrder")
		if order == "" {
			order = "asc"
		}
		source.sort = []model.SortItem{{Field: field, Order: order}}
	}
	if quick := strings.TrimSpace(c.QueryParam("quickFilter")); quick != "" {
		source.filter = &model.FilterModel{QuickFilterValues: strings.Fields(quick)}
	}

	if err := source.Refetch(); err != nil {
		return nil, err
	}

	return table.New(descriptor, source, notifier, m.apiBase, m.client), nil
}

// EntityTableView renders the full table screen of an entity.
func (m *ManagerHandler) EntityTableView(descriptor entity.Descriptor) echo.HandlerFunc {
	return func(c echo.Context) error {
		t, err := m.buildTable(c, descriptor, &popupNotifier{})
		if err != nil {
			m.logger.Error("Building entity table failed", "entity", descriptor.Entity(), "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to load table")
		}
		return render(c, screens.Entities(t, csrf.Token(c.Request())))
	}
}

// UpdateRowView handles a finished inline cell edit. The mutation goes
// through the row updater, which either commits the edit with one PUT or
// reverts it; the refreshed grid plus the outcome popups come back.
func (m *ManagerHandler) UpdateRowView(descriptor entity.Descriptor) echo.HandlerFunc {
	return func(c echo.Context) error {
		pk, err := strconv.Atoi(c.FormValue("pk"))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "pk must be an integer")
		}
		field := c.FormValue("field")
		if field == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "field is required")
		}

		oldRow := table.Row{"pk": pk, field: c.FormValue("old")}
		newRow := table.Row{"pk": pk, field: c.FormValue("value")}

		notifier := &popupNotifier{}
		updater := &table.RowUpdater{
			Client:         m.client,
			EndpointBase:   strings.TrimSuffix(m.apiBase, "/") + "/" + descriptor.Entity(),
			EditableFields: descriptor.EditableFields(),
			Notifier:       notifier,
		}
		updater.ProcessRowUpdate(c.Request().Context(), newRow, oldRow)

		t, err := m.buildTable(c, descriptor, notifier)
		if err != nil {
			m.logger.Error("Rebuilding entity table failed", "entity", descriptor.Entity(), "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to reload table")
		}

		return render(c, gridWithPopups(t, csrf.Token(c.Request()), notifier.popups))
	}
}

// gridWithPopups renders the grid swap target plus any outcome popups
// out of band into the page body.
func gridWithPopups(t *table.Table, csrfToken string, popups []templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := components.Grid(t, csrfToken).Render(ctx, w); err != nil {
			return err
		}
		for _, popup := range popups {
			if _, err := io.WriteString(w, `<div hx-swap-oob="beforeend:#body">`); err != nil {
				return err
			}
			if err := popup.Render(ctx, w); err != nil {
				return err
			}
			if _, err := io.WriteString(w, `</div>`); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeletePopupView renders the delete confirmation popup for one row.
func (m *ManagerHandler) DeletePopupView(descriptor entity.Descriptor) echo.HandlerFunc {
	return func(c echo.Context) error {
		pk, err := strconv.Atoi(c.QueryParam("pk"))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "pk must be an integer")
		}

		var modal templ.Component
		if builder, ok := descriptor.(table.DeleteModalBuilder); ok {
			modal = builder.BuildDeleteModal(table.Row{"pk": pk})
		}
		if modal == nil {
			modal = components.DeleteModal(descriptor.Entity(), pk)
		}
		return render(c, modal)
	}
}

// NodeDetailView renders the detail screen of one node: summary fields,
// attributes, repository files and, for processes, the report.
func (m *ManagerHandler) NodeDetailView(c echo.Context) error {
	pk, err := strconv.Atoi(c.Param("pk"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "pk must be an integer")
	}

	node, err := m.nodeDB.SelectNode(pk)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "node not found")
	}

	logs := []string{}
	if strings.HasPrefix(node.NodeType, "process.") {
		logs, err = m.logDB.SelectLogs(pk)
		if err != nil {
			m.logger.Error("Selecting process logs failed", "pk", pk, "error", err)
			logs = []string{}
		}
	}

	names := []string{}
	if files, err := m.filesystem.ListFiles(upload.NodePrefix(pk)); err == nil {
		for _, file := range files {
			names = append(names, file.Name)
		}
	}

	return render(c, screens.NodeDetail(node, logs, names))
}
