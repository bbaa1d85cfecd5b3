package table

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
)

// Notifier surfaces the outcome of a row mutation to the user.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// RowUpdater is the row mutation handler. It computes the field-level
// diff of a finished cell edit against the editable-field allow-list,
// persists it with a single PUT, and resolves to either the accepted
// new row or the prior row. It never returns an error past its own
// boundary; failures revert and notify.
type RowUpdater struct {
	Client         *http.Client
	EndpointBase   string
	EditableFields []string
	Notifier       Notifier
}

// Diff returns the fields of newRow that changed against oldRow and are
// allow-listed for editing.
func (u *RowUpdater) Diff(newRow, oldRow Row) map[string]any {
	diff := map[string]any{}
	for _, field := range u.EditableFields {
		newValue, ok := newRow[field]
		if !ok {
			continue
		}
		if !reflect.DeepEqual(newValue, oldRow[field]) {
			diff[field] = newValue
		}
	}
	return diff
}

// ProcessRowUpdate commits one finished cell edit. An empty diff is a
// no-op returning oldRow without a request. Otherwise the diff goes to
// PUT {endpointBase}-data/{pk}; on success the edited row is kept, on
// any failure the prior row comes back and the failure is notified.
// A cancelled context (view torn down mid-flight) reverts silently.
func (u *RowUpdater) ProcessRowUpdate(ctx context.Context, newRow, oldRow Row) Row {
	diff := u.Diff(newRow, oldRow)
	if len(diff) == 0 {
		return oldRow
	}

	pk := oldRow.PK()
	body, err := json.Marshal(diff)
	if err != nil {
		u.Notifier.Error(fmt.Sprintf("Failed to encode update for row %d: %v", pk, err))
		return oldRow
	}

	url := fmt.Sprintf("%s-data/%d", u.EndpointBase, pk)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		u.Notifier.Error(fmt.Sprintf("Failed to build update for row %d: %v", pk, err))
		return oldRow
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := u.client().Do(req)
	if err != nil {
		if ctx.Err() != nil {
			// Teardown while in flight: revert without notifying.
			return oldRow
		}
		u.Notifier.Error(fmt.Sprintf("Update of row %d failed: %v", pk, err))
		return oldRow
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := resp.Status
		var payload struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Detail != "" {
			detail = payload.Detail
		}
		u.Notifier.Error(fmt.Sprintf("Update of row %d failed: %s", pk, detail))
		return oldRow
	}

	u.Notifier.Success(fmt.Sprintf("Row %d updated", pk))
	return newRow
}

func (u *RowUpdater) client() *http.Client {
	if u.Client != nil {
		return u.Client
	}
	return http.DefaultClient
}
