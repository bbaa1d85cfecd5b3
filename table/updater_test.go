package table

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(message string) { n.successes = append(n.successes, message) }
func (n *recordingNotifier) Error(message string)   { n.errors = append(n.errors, message) }

func TestRowUpdaterDiff(t *testing.T) {
	updater := &RowUpdater{EditableFields: []string{"label", "description"}}

	t.Run("changed editable field", func(t *testing.T) {
		oldRow := Row{"pk": 7, "label": "a"}
		newRow := Row{"pk": 7, "label": "b"}
		assert.Equal(t, map[string]any{"label": "b"}, updater.Diff(newRow, oldRow))
	})

	t.Run("equal rows give an empty diff", func(t *testing.T) {
		row := Row{"pk": 7, "label": "a", "description": "d"}
		assert.Empty(t, updater.Diff(row, row))
	})

	t.Run("non-editable changes are ignored", func(t *testing.T) {
		oldRow := Row{"pk": 7, "state": "running"}
		newRow := Row{"pk": 7, "state": "finished"}
		assert.Empty(t, updater.Diff(newRow, oldRow))
	})

	t.Run("missing field in the new row is not a change", func(t *testing.T) {
		oldRow := Row{"pk": 7, "label": "a"}
		newRow := Row{"pk": 7}
		assert.Empty(t, updater.Diff(newRow, oldRow))
	})
}

func TestProcessRowUpdate(t *testing.T) {
	t.Run("empty diff sends no request", func(t *testing.T) {
		var requests atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests.Add(1)
		}))
		defer server.Close()

		notifier := &recordingNotifier{}
		updater := &RowUpdater{
			Client:         server.Client(),
			EndpointBase:   server.URL + "/workgraph",
			EditableFields: []string{"label"},
			Notifier:       notifier,
		}

		row := Row{"pk": 7, "label": "a"}
		result := updater.ProcessRowUpdate(context.Background(), row, row)

		assert.Equal(t, row, result)
		assert.Equal(t, int32(0), requests.Load())
		assert.Empty(t, notifier.successes)
		assert.Empty(t, notifier.errors)
	})

	t.Run("success commits the edited row", func(t *testing.T) {
		var method, path string
		var body map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			method = r.Method
			path = r.URL.Path
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"updated": true, "pk": 7}`)
		}))
		defer server.Close()

		notifier := &recordingNotifier{}
		updater := &RowUpdater{
			Client:         server.Client(),
			EndpointBase:   server.URL + "/workgraph",
			EditableFields: []string{"label", "description"},
			Notifier:       notifier,
		}

		oldRow := Row{"pk": 7, "label": "a"}
		newRow := Row{"pk": 7, "label": "b"}
		result := updater.ProcessRowUpdate(context.Background(), newRow, oldRow)

		assert.Equal(t, newRow, result)
		assert.Equal(t, http.MethodPut, method)
		assert.Equal(t, "/workgraph-data/7", path)
		assert.Equal(t, map[string]any{"label": "b"}, body)

		require.Len(t, notifier.successes, 1)
		assert.Contains(t, notifier.successes[0], "7")
		assert.Empty(t, notifier.errors)
	})

	t.Run("rejected edit reverts with the server detail", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"detail": "No updatable fields provided"}`)
		}))
		defer server.Close()

		notifier := &recordingNotifier{}
		updater := &RowUpdater{
			Client:         server.Client(),
			EndpointBase:   server.URL + "/workgraph",
			EditableFields: []string{"label"},
			Notifier:       notifier,
		}

		oldRow := Row{"pk": 7, "label": "a"}
		newRow := Row{"pk": 7, "label": "b"}
		result := updater.ProcessRowUpdate(context.Background(), newRow, oldRow)

		assert.Equal(t, oldRow, result)
		assert.Empty(t, notifier.successes)
		require.Len(t, notifier.errors, 1)
		assert.Contains(t, notifier.errors[0], "No updatable fields provided")
	})

	t.Run("transport failure reverts and notifies", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		notifier := &recordingNotifier{}
		updater := &RowUpdater{
			EndpointBase:   server.URL + "/workgraph",
			EditableFields: []string{"label"},
			Notifier:       notifier,
		}

		oldRow := Row{"pk": 7, "label": "a"}
		newRow := Row{"pk": 7, "label": "b"}
		result := updater.ProcessRowUpdate(context.Background(), newRow, oldRow)

		assert.Equal(t, oldRow, result)
		require.Len(t, notifier.errors, 1)
		assert.Contains(t, notifier.errors[0], "failed")
	})

	t.Run("cancelled context reverts silently", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		notifier := &recordingNotifier{}
		updater := &RowUpdater{
			Client:         server.Client(),
			EndpointBase:   server.URL + "/workgraph",
			EditableFields: []string{"label"},
			Notifier:       notifier,
		}

		oldRow := Row{"pk": 7, "label": "a"}
		newRow := Row{"pk": 7, "label": "b"}
		result := updater.ProcessRowUpdate(ctx, newRow, oldRow)

		assert.Equal(t, oldRow, result)
		assert.Empty(t, notifier.successes)
		assert.Empty(t, notifier.errors)
	})
}
