package entity

import (
	"fmt"

	"github.com/a-h/templ"
	"github.com/workgraphui/manager/table"
	"github.com/workgraphui/manager/view/components"
)

// GroupNode is the table configuration for node groups.
type GroupNode struct{}

func (GroupNode) Entity() string     { return "groupnode" }
func (GroupNode) TypePrefix() string { return "group." }

func (GroupNode) ColumnMap() map[string]string {
	return map[string]string{
		"pk":          "id",
		"ctime":       "ctime",
		"label":       "label",
		"description": "description",
	}
}

func (g GroupNode) Columns(linkPrefix string) []table.Column {
	columns := baseColumns(linkPrefix)
	return append(columns,
		table.Column{Field: "label", Header: "Label", Width: 240, Sortable: true, Filterable: true},
		table.Column{Field: "description", Header: "Description", Width: 320, Sortable: true, Filterable: true},
	)
}

func (g GroupNode) BuildActions(row table.Row, ctx table.ActionContext) templ.Component {
	return components.Actions(
		components.ViewLink(fmt.Sprintf("/%s/%d", g.Entity(), row.PK())),
		components.DeleteButton(g.Entity(), row.PK()),
	)
}

func (GroupNode) EditableFields() []string {
	return []string{"label", "description"}
}

func (g GroupNode) BuildDeleteModal(row table.Row) templ.Component {
	return components.DeleteModal(g.Entity(), row.PK())
}
