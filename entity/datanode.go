package entity

import (
	"fmt"

	"github.com/a-h/templ"
	"github.com/workgraphui/manager/table"
	"github.com/workgraphui/manager/view/components"
)

// DataNode is the table configuration for stored data nodes.
type DataNode struct{}

func (DataNode) Entity() string     { return "datanode" }
func (DataNode) TypePrefix() string { return "data." }

func (DataNode) ColumnMap() map[string]string {
	return map[string]string{
		"pk":          "id",
		"ctime":       "ctime",
		"node_type":   "node_type",
		"label":       "label",
		"description": "description",
	}
}

func (d DataNode) Columns(linkPrefix string) []table.Column {
	columns := baseColumns(linkPrefix)
	return append(columns,
		table.Column{Field: "node_type", Header: "Type", Width: 220, Sortable: true, Filterable: true},
		table.Column{Field: "label", Header: "Label", Width: 220, Sortable: true, Filterable: true},
		table.Column{Field: "description", Header: "Description", Width: 300, Sortable: true, Filterable: true},
	)
}

func (d DataNode) BuildActions(row table.Row, ctx table.ActionContext) templ.Component {
	return components.Actions(
		components.ViewLink(fmt.Sprintf("/%s/%d", d.Entity(), row.PK())),
		components.DeleteButton(d.Entity(), row.PK()),
	)
}

func (DataNode) EditableFields() []string {
	return []string{"label", "description"}
}

func (d DataNode) BuildDeleteModal(row table.Row) templ.Component {
	return components.DeleteModal(d.Entity(), row.PK())
}
