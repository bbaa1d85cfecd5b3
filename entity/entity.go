// Package entity holds the per-entity table configurations. Each type
// implements table.Config so the generic table stays free of entity
// semantics: the config decides columns, editable fields and row
// actions, the table decides everything else.
package entity

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"
	"github.com/workgraphui/manager/table"
)

// Descriptor extends table.Config with what the backend handlers need
// to serve an entity: the node-type scope and the field-to-column map
// that doubles as the sort/filter allow-list.
type Descriptor interface {
	table.Config
	TypePrefix() string
	ColumnMap() map[string]string
}

// All returns every registered entity descriptor.
func All() []Descriptor {
	return []Descriptor{DataNode{}, WorkGraph{}, Process{}, GroupNode{}}
}

// ByName returns the descriptor for an entity name or nil.
func ByName(name string) Descriptor {
	for _, descriptor := range All() {
		if descriptor.Entity() == name {
			return descriptor
		}
	}
	return nil
}

// pkLink renders the pk cell as a link into the detail view.
func pkLink(linkPrefix string, row table.Row) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		pk := row.PK()
		_, err := fmt.Fprintf(w, `<a href="%s/%d">%d</a>`, html.EscapeString(linkPrefix), pk, pk)
		return err
	})
}

func baseColumns(linkPrefix string) []table.Column {
	return []table.Column{
		{Field: "pk", Header: "PK", Width: 90, Sortable: true, Filterable: true,
			Render: func(row table.Row) templ.Component { return pkLink(linkPrefix, row) }},
		{Field: "ctime", Header: "Created", Width: 140, Sortable: true, Filterable: false},
	}
}
