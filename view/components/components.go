// Package components holds the shared templ components of the manager
// views: page layout, popups, and the entity grid building blocks.
package components

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"
	"github.com/workgraphui/manager/table"
)

// Layout wraps a screen in the base HTML document with htmx loaded.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1"/>
<title>%s</title>
<link rel="stylesheet" href="/static/style.css"/>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
</head>
<body id="body">
<nav class="navbar">
<a href="/workgraphs">WorkGraphs</a>
<a href="/processes">Processes</a>
<a href="/datanodes">Data nodes</a>
<a href="/groupnodes">Group nodes</a>
</nav>
<main class="content">`, html.EscapeString(title))
		if err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err = io.WriteString(w, `</main>
</body>
</html>`)
		return err
	})
}

// PopupSuccess renders a transient success popup.
func PopupSuccess(title string, message string) templ.Component {
	return popup("popup-success", title, message)
}

// PopupError renders a transient error popup.
func PopupError(title string, message string) templ.Component {
	return popup("popup-error", title, message)
}

func popup(class string, title string, message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		// Auto-dismissing: removed after 5s, or on click.
		_, err := fmt.Fprintf(w, `<div class="popup %s" onclick="this.remove()" hx-on::load="setTimeout(() => this.remove(), 5000)">
<strong>%s</strong>
<span>%s</span>
</div>`, class, html.EscapeString(title), html.EscapeString(message))
		return err
	})
}

// ViewLink renders the row action linking to a row's detail view.
func ViewLink(href string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<a class="action action-view" href="%s">View</a>`, html.EscapeString(href))
		return err
	})
}

// DeleteButton renders the row action opening the delete confirmation
// popup for one row.
func DeleteButton(entity string, pk int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<button class="action action-delete" hx-get="/%ss/deletePopup?pk=%d" hx-target="#body" hx-swap="beforeend">Delete</button>`,
			html.EscapeString(entity), pk)
		return err
	})
}

// ProcessControls renders pause/play buttons for a process row.
func ProcessControls(pk int, state string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var err error
		if state == "Paused" {
			_, err = fmt.Fprintf(w, `<button class="action action-play" hx-post="/api/process/play/%d" hx-swap="none">Play</button>`, pk)
		} else {
			_, err = fmt.Fprintf(w, `<button class="action action-pause" hx-post="/api/process/pause/%d" hx-swap="none">Pause</button>`, pk)
		}
		return err
	})
}

// Actions renders a row's action cell from the given controls.
func Actions(controls ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div class="actions">`); err != nil {
			return err
		}
		for _, control := range controls {
			if control == nil {
				continue
			}
			if err := control.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}

// DeleteModal renders the delete-confirmation popup for one row of an
// entity table. The dry-run preview is requested before the user
// confirms the actual deletion.
func DeleteModal(entity string, pk int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<div class="modal" id="delete-modal">
<div class="modal-content">
<h3>Delete %s %d?</h3>
<p>This also deletes all nodes created by it.</p>
<div class="modal-preview" hx-get="/api/%s/delete-preview/%d" hx-trigger="load" hx-swap="innerHTML"></div>
<div class="modal-buttons">
<button hx-delete="/api/%s/delete/%d" hx-target="#body" hx-swap="beforeend" onclick="document.getElementById('delete-modal').remove()">Delete</button>
<button onclick="document.getElementById('delete-modal').remove()">Cancel</button>
</div>
</div>
</div>`, html.EscapeString(entity), pk, html.EscapeString(entity), pk, html.EscapeString(entity), pk)
		return err
	})
}

// Grid renders an entity table: composed columns, the current page
// slice with inline-editable cells, and the pagination controls.
func Grid(t *table.Table, csrfToken string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		entity := t.Entity()
		columns := t.Columns()
		sort := t.Source().SortModel()

		if _, err := fmt.Fprintf(w, `<div class="grid" id="grid-%s">
<h2>%s</h2>
<form class="grid-search" method="get" action="/%ss">
<input type="search" name="quickFilter" placeholder="Search"/>
</form>
<table class="grid-table">
<thead><tr>`, html.EscapeString(entity), html.EscapeString(t.Title()), html.EscapeString(entity)); err != nil {
			return err
		}

		for _, column := range columns {
			header := html.EscapeString(column.Header)
			if column.Sortable {
				order := "asc"
				if len(sort) > 0 && sort[0].Field == column.Field && sort[0].Order == "asc" {
					order = "desc"
				}
				if _, err := fmt.Fprintf(w, `<th style="width:%dpx"><a href="/%ss?sortField=%s&sortOrder=%s">%s</a></th>`,
					column.Width, html.EscapeString(entity), html.EscapeString(column.Field), order, header); err != nil {
					return err
				}
			} else {
				if _, err := fmt.Fprintf(w, `<th style="width:%dpx">%s</th>`, column.Width, header); err != nil {
					return err
				}
			}
		}
		if _, err := io.WriteString(w, `</tr></thead>
<tbody>`); err != nil {
			return err
		}

		for _, row := range t.Rows() {
			pk := row.PK()
			if _, err := fmt.Fprintf(w, `<tr id="row-%s-%d">`, html.EscapeString(entity), pk); err != nil {
				return err
			}
			for _, column := range columns {
				if err := renderCell(ctx, w, t, column, row, pk, csrfToken); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</tr>`); err != nil {
				return err
			}
		}

		if _, err := io.WriteString(w, `</tbody>
</table>`); err != nil {
			return err
		}

		if err := PaginationControls(t.Bridge(), entity).Render(ctx, w); err != nil {
			return err
		}

		_, err := io.WriteString(w, `</div>`)
		return err
	})
}

func renderCell(ctx context.Context, w io.Writer, t *table.Table, column table.Column, row table.Row, pk int, csrfToken string) error {
	if _, err := io.WriteString(w, `<td>`); err != nil {
		return err
	}

	switch {
	case column.Render != nil:
		if err := column.Render(row).Render(ctx, w); err != nil {
			return err
		}
	case t.Editable(column.Field):
		value := table.CellValue(row, column.Field)
		if _, err := fmt.Fprintf(w, `<form class="cell-edit" hx-post="/%ss/updateRow" hx-target="#grid-%s" hx-swap="outerHTML">
<input type="hidden" name="gorilla.csrf.Token" value="%s"/>
<input type="hidden" name="pk" value="%d"/>
<input type="hidden" name="field" value="%s"/>
<input type="hidden" name="old" value="%s"/>
<input class="cell-input" name="value" value="%s" onchange="this.form.requestSubmit()"/>
</form>`,
			html.EscapeString(t.Entity()), html.EscapeString(t.Entity()), html.EscapeString(csrfToken),
			pk, html.EscapeString(column.Field), html.EscapeString(value), html.EscapeString(value)); err != nil {
			return err
		}
	default:
		if _, err := io.WriteString(w, html.EscapeString(table.CellValue(row, column.Field))); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, `</td>`)
	return err
}

// PaginationControls renders the page-size selector and the 1-based
// page navigator for a table's pagination bridge.
func PaginationControls(bridge table.Bridge, entity string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		paginator := bridge.Paginator()

		if _, err := fmt.Fprintf(w, `<div class="pagination">
<form class="page-size" method="get" action="/%ss">
<input type="hidden" name="page" value="%d"/>
<label>Rows per page
<select name="pageSize" onchange="this.form.requestSubmit()">`,
			html.EscapeString(entity), paginator.CurrentPage()); err != nil {
			return err
		}

		for _, size := range table.NavigatorPageSizes {
			selected := ""
			if size == paginator.PageSize {
				selected = ` selected`
			}
			if _, err := fmt.Fprintf(w, `<option value="%d"%s>%d</option>`, size, selected, size); err != nil {
				return err
			}
		}

		if _, err := io.WriteString(w, `</select>
</label>
</form>
<div class="page-navigator">`); err != nil {
			return err
		}

		for page := 1; page <= paginator.PageCount(); page++ {
			class := "page-link"
			if page == paginator.CurrentPage() {
				class = "page-link current"
			}
			if _, err := fmt.Fprintf(w, `<a class="%s" href="/%ss?page=%d&pageSize=%d">%d</a>`,
				class, html.EscapeString(entity), page, paginator.PageSize, page); err != nil {
				return err
			}
		}

		if _, err := fmt.Fprintf(w, `</div>
<span class="row-count">%d rows</span>
</div>`, paginator.RowCount); err != nil {
			return err
		}
		return nil
	})
}
