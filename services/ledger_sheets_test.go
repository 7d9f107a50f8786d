package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"printera_landing_go/config"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// fakeSheetsAPI stands in for the Google Sheets values API: GET reads the
// header range, PUT writes headers, POST ...:append appends rows
type fakeSheetsAPI struct {
	headerRow   []interface{}
	getCalls    int
	updateCalls int
	appendCalls int
	appended    [][]interface{}
}

func (f *fakeSheetsAPI) server(t *testing.T) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet:
			f.getCalls++
			resp := &sheets.ValueRange{Range: ledgerHeaderRange}
			if f.headerRow != nil {
				resp.Values = [][]interface{}{f.headerRow}
			}
			assert.NoError(t, json.NewEncoder(w).Encode(resp))
		case r.Method == http.MethodPut:
			f.updateCalls++
			var body sheets.ValueRange
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			if len(body.Values) > 0 {
				f.headerRow = body.Values[0]
			}
			w.Write([]byte("{}"))
		case r.Method == http.MethodPost && strings.Contains(r.URL.Path, ":append"):
			f.appendCalls++
			var body sheets.ValueRange
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			f.appended = append(f.appended, body.Values...)
			w.Write([]byte("{}"))
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func newSheetsTestLedger(api *fakeSheetsAPI, t *testing.T) (*GoogleSheetsLedger, func()) {
	srv := api.server(t)
	cfg := &config.Config{GoogleSheetsID: "sheet-123"}
	ledger := NewGoogleSheetsLedger(cfg,
		option.WithEndpoint(srv.URL),
		option.WithoutAuthentication(),
	)
	return ledger, srv.Close
}

func TestGoogleSheetsLedgerAppend_WritesHeadersWhenMissing(t *testing.T) {
	api := &fakeSheetsAPI{}
	ledger, done := newSheetsTestLedger(api, t)
	defer done()

	err := ledger.Append(context.Background(), testEntry("Ana Ruiz"))
	assert.NoError(t, err)

	assert.Equal(t, 1, api.getCalls)
	assert.Equal(t, 1, api.updateCalls)
	assert.Equal(t, 1, api.appendCalls)
	assert.Equal(t, ledgerHeaders, api.headerRow)

	assert.Len(t, api.appended, 1)
	row := api.appended[0]
	assert.Len(t, row, 8)
	assert.NotEmpty(t, row[0]) // timestamp
	assert.Equal(t, "Ana Ruiz", row[1])
	assert.Equal(t, "Landing", row[6])
	assert.Equal(t, "test-agent", row[7])
}

func TestGoogleSheetsLedgerAppend_KeepsExistingHeaders(t *testing.T) {
	api := &fakeSheetsAPI{headerRow: []interface{}{"timestamp", "nombre"}}
	ledger, done := newSheetsTestLedger(api, t)
	defer done()

	err := ledger.Append(context.Background(), testEntry("Ana Ruiz"))
	assert.NoError(t, err)

	// Existing headers must not be rewritten
	assert.Equal(t, 0, api.updateCalls)
	assert.Equal(t, 1, api.appendCalls)
}

func TestGoogleSheetsLedgerAppend_TreatsWhitespaceHeadersAsMissing(t *testing.T) {
	api := &fakeSheetsAPI{headerRow: []interface{}{" ", ""}}
	ledger, done := newSheetsTestLedger(api, t)
	defer done()

	err := ledger.Append(context.Background(), testEntry("Ana Ruiz"))
	assert.NoError(t, err)
	assert.Equal(t, 1, api.updateCalls)
}

func TestGoogleSheetsLedgerAppend_CancelledContext(t *testing.T) {
	api := &fakeSheetsAPI{}
	ledger, done := newSheetsTestLedger(api, t)
	defer done()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ledger.Append(ctx, testEntry("Ana Ruiz"))
	assert.Error(t, err)
	// Cancellation must stop the pipeline at the header read
	assert.Equal(t, 0, api.updateCalls)
	assert.Equal(t, 0, api.appendCalls)
}

func TestGoogleSheetsLedgerAppend_MissingSheetID(t *testing.T) {
	ledger := NewGoogleSheetsLedger(&config.Config{})
	err := ledger.Append(context.Background(), testEntry("Ana Ruiz"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_SHEETS_ID")
}

func TestGoogleSheetsLedgerAppend_MissingCredentials(t *testing.T) {
	ledger := NewGoogleSheetsLedger(&config.Config{GoogleSheetsID: "sheet-123"})
	err := ledger.Append(context.Background(), testEntry("Ana Ruiz"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_SERVICE_ACCOUNT_EMAIL")
}
