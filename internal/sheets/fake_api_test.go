package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"sheet_data/internal/config"
	"sheet_data/internal/retry"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"google.golang.org/api/option"
)

// fakeAPI serves the subset of the Sheets v4 REST API the client uses, backed
// by a single in-memory sheet.
type fakeAPI struct {
	id       string
	title    string
	rows     [][]any
	rowCount int

	mu        sync.Mutex
	failures  []int // status codes returned before serving values
	valueGets int
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/v4/spreadsheets/")
	id, rest, _ := strings.Cut(path, "/")
	if id != f.id {
		writeAPIError(w, http.StatusNotFound, "Requested entity was not found.")
		return
	}

	if rest == "" {
		writeJSON(w, map[string]any{
			"sheets": []any{map[string]any{
				"properties": map[string]any{
					"sheetId": 7,
					"title":   f.title,
					"gridProperties": map[string]any{
						"rowCount":    f.rowCount,
						"columnCount": 26,
					},
				},
			}},
		})
		return
	}

	f.mu.Lock()
	f.valueGets++
	a1 := strings.TrimPrefix(rest, "values/")
	var status int
	if len(f.failures) > 0 {
		status, f.failures = f.failures[0], f.failures[1:]
	}
	f.mu.Unlock()

	if status != 0 {
		writeAPIError(w, status, http.StatusText(status))
		return
	}

	sheet, cells, ok := strings.Cut(a1, "!")
	if !ok {
		sheet, cells = a1, ""
	}
	if strings.ReplaceAll(strings.Trim(sheet, "'"), "''", "'") != f.title {
		writeAPIError(w, http.StatusBadRequest, "Unable to parse range: "+a1)
		return
	}

	startCol, startRow, endCol, endRow := 1, 1, 26, f.rowCount
	if cells != "" {
		from, to, _ := strings.Cut(cells, ":")
		var errFrom, errTo error
		startCol, startRow, errFrom = excelize.CellNameToCoordinates(from)
		endCol, endRow, errTo = excelize.CellNameToCoordinates(to)
		if errFrom != nil || errTo != nil {
			writeAPIError(w, http.StatusBadRequest, "Unable to parse range: "+a1)
			return
		}
	}

	resp := map[string]any{"range": a1}
	if r.URL.Query().Get("majorDimension") == "COLUMNS" {
		resp["majorDimension"] = "COLUMNS"
		var column []any
		for row := startRow; row <= endRow; row++ {
			column = append(column, f.cell(row, startCol))
		}
		if column = trimBlank(column); len(column) > 0 {
			resp["values"] = [][]any{column}
		}
	} else {
		resp["majorDimension"] = "ROWS"
		var values [][]any
		for row := startRow; row <= endRow; row++ {
			var cells []any
			for col := startCol; col <= endCol; col++ {
				cells = append(cells, f.cell(row, col))
			}
			values = append(values, trimBlank(cells))
		}
		for len(values) > 0 && len(values[len(values)-1]) == 0 {
			values = values[:len(values)-1]
		}
		if len(values) > 0 {
			resp["values"] = values
		}
	}
	writeJSON(w, resp)
}

func (f *fakeAPI) cell(row, col int) any {
	if row < 1 || row > len(f.rows) || col < 1 || col > len(f.rows[row-1]) {
		return ""
	}
	return f.rows[row-1][col-1]
}

func (f *fakeAPI) failNext(codes ...int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = append(f.failures, codes...)
}

func (f *fakeAPI) valueCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.valueGets
}

func trimBlank(cells []any) []any {
	for len(cells) > 0 && (cells[len(cells)-1] == nil || cells[len(cells)-1] == "") {
		cells = cells[:len(cells)-1]
	}
	return cells
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"code": code, "message": message},
	})
}

var testResilience = config.ResilienceConfig{
	SheetMetadata: retry.Config{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Timeout: 5 * time.Second, Retryable: config.IsRetryableAPIError},
	SheetRead:     retry.Config{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Timeout: 5 * time.Second, Retryable: config.IsRetryableAPIError},
	SheetProbe:    retry.Config{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Timeout: 5 * time.Second, Retryable: config.IsRetryableAPIError},
}

func newFakeClient(t *testing.T, api *fakeAPI) *Client {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	client, err := NewClientWithOptions(context.Background(), testResilience,
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return client
}
