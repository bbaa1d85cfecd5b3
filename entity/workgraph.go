package entity

import (
	"fmt"

	"github.com/a-h/templ"
	"github.com/workgraphui/manager/table"
	"github.com/workgraphui/manager/view/components"
)

// WorkGraph is the table configuration for workgraph process nodes.
type WorkGraph struct{}

func (WorkGraph) Entity() string     { return "workgraph" }
func (WorkGraph) TypePrefix() string { return "process.workflow.workgraph." }

func (WorkGraph) ColumnMap() map[string]string {
	return map[string]string{
		"pk":            "id",
		"ctime":         "ctime",
		"process_label": "process_label",
		"state":         "process_state",
		"status":        "process_status",
		"exit_status":   "exit_status",
		"exit_message":  "exit_message",
		"label":         "label",
		"description":   "description",
	}
}

func (wg WorkGraph) Columns(linkPrefix string) []table.Column {
	columns := baseColumns(linkPrefix)
	return append(columns,
		table.Column{Field: "process_label", Header: "Process label", Width: 220, Sortable: true, Filterable: true},
		table.Column{Field: "state", Header: "State", Width: 120, Sortable: true, Filterable: true},
		table.Column{Field: "label", Header: "Label", Width: 200, Sortable: true, Filterable: true},
		table.Column{Field: "description", Header: "Description", Width: 260, Sortable: true, Filterable: true},
	)
}

func (wg WorkGraph) BuildActions(row table.Row, ctx table.ActionContext) templ.Component {
	pk := row.PK()
	return components.Actions(
		components.ViewLink(fmt.Sprintf("/%s/%d", wg.Entity(), pk)),
		components.ProcessControls(pk, row.GetStringByKey("state")),
		components.DeleteButton(wg.Entity(), pk),
	)
}

func (WorkGraph) EditableFields() []string {
	return []string{"label", "description"}
}

func (wg WorkGraph) BuildDeleteModal(row table.Row) templ.Component {
	return components.DeleteModal(wg.Entity(), row.PK())
}
