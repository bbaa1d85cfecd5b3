// Package table implements the generic server-paginated entity table:
// caller-supplied entity configuration, column composition with a fixed
// actions column, optimistic inline editing with revert on failure, and
// a pagination bridge. Pagination, sorting and filtering are always
// delegated to the data source; the table never reorders or slices rows
// itself.
package table

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/workgraphui/manager/model"
)

// Row is one grid line. Rows always carry a "pk" key that identifies
// the backing node.
type Row = model.DataMap

// Column describes one displayed field of an entity table.
type Column struct {
	Field      string
	Header     string
	Width      int
	Sortable   bool
	Filterable bool
	// Render overrides the default text cell. Nil renders the raw value.
	Render func(row Row) templ.Component
}

// ActionContext is handed to the entity's action builder so per-row
// controls can hit the entity's endpoints and ask for a refresh without
// the table knowing entity semantics.
type ActionContext struct {
	EndpointBase string
	Refetch      func() error
}

// Config is the per-entity configuration set. Implementations live next
// to the entity they describe; the table stays polymorphic over them.
type Config interface {
	// Entity returns the endpoint/title base, e.g. "workgraph".
	Entity() string
	// Columns returns the entity's column definitions. linkPrefix is
	// prepended to row detail links.
	Columns(linkPrefix string) []Column
	// BuildActions returns the interactive controls of one row.
	BuildActions(row Row, ctx ActionContext) templ.Component
	// EditableFields is the allow-list for inline cell edits.
	EditableFields() []string
}

// DeleteModalBuilder is implemented by configs that bring their own
// delete-confirmation popup for a row.
type DeleteModalBuilder interface {
	BuildDeleteModal(row Row) templ.Component
}

const actionsColumnWidth = 160

// ComposeColumns appends the fixed trailing actions column to the
// entity's own columns. The actions column never sorts or filters.
func ComposeColumns(config Config, linkPrefix string, actionCtx ActionContext) []Column {
	columns := config.Columns(linkPrefix)
	columns = append(columns, Column{
		Field:      "actions",
		Header:     "Actions",
		Width:      actionsColumnWidth,
		Sortable:   false,
		Filterable: false,
		Render: func(row Row) templ.Component {
			return config.BuildActions(row, actionCtx)
		},
	})
	return columns
}

// Table composes an entity config, a data source, and the row updater
// into one renderable unit.
type Table struct {
	config       Config
	source       DataSource
	updater      *RowUpdater
	linkPrefix   string
	endpointBase string
}

// New builds a table for the given entity config. baseURL is the API
// root the entity endpoints live under, e.g. "http://localhost:8000/api".
func New(config Config, source DataSource, notifier Notifier, baseURL string, client *http.Client) *Table {
	endpointBase := strings.TrimSuffix(baseURL, "/") + "/" + config.Entity()
	return &Table{
		config:       config,
		source:       source,
		linkPrefix:   "/" + config.Entity(),
		endpointBase: endpointBase,
		updater: &RowUpdater{
			Client:         client,
			EndpointBase:   endpointBase,
			EditableFields: config.EditableFields(),
			Notifier:       notifier,
		},
	}
}

// Title returns the table heading.
func (t *Table) Title() string {
	return strings.ToUpper(t.config.Entity()[:1]) + t.config.Entity()[1:] + "s"
}

// Entity returns the entity name the table is bound to.
func (t *Table) Entity() string {
	return t.config.Entity()
}

// EndpointBase returns the API base the table's row actions target.
func (t *Table) EndpointBase() string {
	return t.endpointBase
}

// Columns returns the composed column list including the actions column.
func (t *Table) Columns() []Column {
	return ComposeColumns(t.config, t.linkPrefix, ActionContext{
		EndpointBase: t.endpointBase,
		Refetch:      t.source.Refetch,
	})
}

// Rows returns the current page slice from the data source.
func (t *Table) Rows() []Row {
	return t.source.Rows()
}

// Source returns the bound data source.
func (t *Table) Source() DataSource {
	return t.source
}

// Updater returns the row mutation handler for inline edits.
func (t *Table) Updater() *RowUpdater {
	return t.updater
}

// Bridge returns the pagination bridge over the data source.
func (t *Table) Bridge() Bridge {
	return Bridge{Source: t.source}
}

// Editable reports whether the field may be edited inline.
func (t *Table) Editable(field string) bool {
	for _, editable := range t.config.EditableFields() {
		if editable == field {
			return true
		}
	}
	return false
}

// DeleteModal returns the entity's delete-confirmation popup for a row,
// or nil if the config does not provide one.
func (t *Table) DeleteModal(row Row) templ.Component {
	if builder, ok := t.config.(DeleteModalBuilder); ok {
		return builder.BuildDeleteModal(row)
	}
	return nil
}

// CellValue renders the default textual cell content for a field.
func CellValue(row Row, field string) string {
	value, ok := row[field]
	if !ok || value == nil {
		return ""
	}
	return fmt.Sprintf("%v", value)
}
