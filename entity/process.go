package entity

import (
	"fmt"

	"github.com/a-h/templ"
	"github.com/workgraphui/manager/table"
	"github.com/workgraphui/manager/view/components"
)

// Process is the table configuration for all process nodes (workflows
// and calculations alike). Process rows are not inline-editable; they
// only carry row actions.
type Process struct{}

func (Process) Entity() string     { return "process" }
func (Process) TypePrefix() string { return "process." }

func (Process) ColumnMap() map[string]string {
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

func (p Process) Columns(linkPrefix string) []table.Column {
	columns := baseColumns(linkPrefix)
	return append(columns,
		table.Column{Field: "process_label", Header: "Process label", Width: 220, Sortable: true, Filterable: true},
		table.Column{Field: "state", Header: "State", Width: 120, Sortable: true, Filterable: true},
		table.Column{Field: "exit_status", Header: "Exit status", Width: 100, Sortable: true, Filterable: false},
		table.Column{Field: "exit_message", Header: "Exit message", Width: 260, Sortable: true, Filterable: true},
	)
}

func (p Process) BuildActions(row table.Row, ctx table.ActionContext) templ.Component {
	pk := row.PK()
	return components.Actions(
		components.ViewLink(fmt.Sprintf("/%s/%d", p.Entity(), pk)),
		components.ProcessControls(pk, row.GetStringByKey("state")),
		components.DeleteButton(p.Entity(), pk),
	)
}

func (Process) EditableFields() []string {
	return nil
}
