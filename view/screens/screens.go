// Package screens holds the full-page templ views of the manager.
package screens

import (
	"context"
	"fmt"
	"html"
	"io"
	"sort"

	"github.com/a-h/templ"
	"github.com/workgraphui/manager/model"
	"github.com/workgraphui/manager/table"
	"github.com/workgraphui/manager/view/components"
)

// Entities renders an entity table screen.
func Entities(t *table.Table, csrfToken string) templ.Component {
	return components.Layout(t.Title(), components.Grid(t, csrfToken))
}

// NodeDetail renders the detail view of one node: its summary fields,
// attributes, and repository files.
func NodeDetail(node *model.Node, logs []string, files []string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<div class="node-detail">
<h2>%s %d</h2>
<table class="summary-table">
<tr><th>uuid</th><td>%s</td></tr>
<tr><th>type</th><td>%s</td></tr>
<tr><th>label</th><td>%s</td></tr>
<tr><th>description</th><td>%s</td></tr>
<tr><th>created</th><td>%s</td></tr>
</table>`,
			html.EscapeString(node.NodeType), node.ID,
			html.EscapeString(node.UUID.String()),
			html.EscapeString(node.NodeType),
			html.EscapeString(node.Label),
			html.EscapeString(node.Description),
			node.Ctime.Format("2006-01-02 15:04:05")); err != nil {
			return err
		}

		if len(node.Attributes) > 0 {
			if _, err := io.WriteString(w, `<h3>Attributes</h3>
<table class="summary-table">`); err != nil {
				return err
			}
			keys := make([]string, 0, len(node.Attributes))
			for key := range node.Attributes {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			for _, key := range keys {
				if _, err := fmt.Fprintf(w, `<tr><th>%s</th><td>%s</td></tr>`,
					html.EscapeString(key), html.EscapeString(fmt.Sprintf("%v", node.Attributes[key]))); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</table>`); err != nil {
				return err
			}
		}

		if len(files) > 0 {
			if _, err := io.WriteString(w, `<h3>Repository</h3>
<ul class="file-list">`); err != nil {
				return err
			}
			for _, file := range files {
				if _, err := fmt.Fprintf(w, `<li><a href="/api/node/%d/repository/%s">%s</a></li>`,
					node.ID, html.EscapeString(file), html.EscapeString(file)); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</ul>`); err != nil {
				return err
			}
		}

		if len(logs) > 0 {
			if _, err := io.WriteString(w, `<h3>Report</h3>
<pre class="report">`); err != nil {
				return err
			}
			for _, line := range logs {
				if _, err := fmt.Fprintf(w, "%s\n", html.EscapeString(line)); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</pre>`); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, `</div>`)
		return err
	})

	return components.Layout(fmt.Sprintf("Node %d", node.ID), body)
}
