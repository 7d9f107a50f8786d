package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"printera_landing_go/config"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	// LedgerSourceTag marks rows that came from the landing page form
	LedgerSourceTag = "Landing"

	ledgerSheetName   = "Leads"
	ledgerHeaderRange = "Leads!A1:H1"
	ledgerAppendRange = "Leads!A1"
)

// ledgerHeaders is the canonical header row, one column per appended value
var ledgerHeaders = []interface{}{
	"timestamp",
	"nombre",
	"empresa",
	"email",
	"telefono",
	"detalle",
	"fuente",
	"userAgent",
}

// LedgerEntry is one accepted lead as it is written to the log. The
// timestamp column is generated at append time.
type LedgerEntry struct {
	Name      string
	Company   string
	Email     string
	Phone     string
	Details   string
	Source    string
	UserAgent string
}

func (e LedgerEntry) row(appendedAt time.Time) []interface{} {
	return []interface{}{
		appendedAt.UTC().Format(time.RFC3339),
		e.Name,
		e.Company,
		e.Email,
		e.Phone,
		e.Details,
		e.Source,
		e.UserAgent,
	}
}

// Ledger appends accepted leads to a durable tabular log
type Ledger interface {
	Append(ctx context.Context, entry LedgerEntry) error
}

// GoogleSheetsLedger appends leads to a Google Sheets spreadsheet,
// authenticating as a service account. The client is built per append so a
// misconfigured ledger fails that request only, never startup.
type GoogleSheetsLedger struct {
	cfg  *config.Config
	opts []option.ClientOption
}

// NewGoogleSheetsLedger creates a ledger for the configured spreadsheet.
// Extra client options override the service-account authentication, which
// lets tests point the client at a local server.
func NewGoogleSheetsLedger(cfg *config.Config, opts ...option.ClientOption) *GoogleSheetsLedger {
	return &GoogleSheetsLedger{cfg: cfg, opts: opts}
}

// Append ensures the header row exists and appends one lead row
func (l *GoogleSheetsLedger) Append(ctx context.Context, entry LedgerEntry) error {
	if l.cfg.GoogleSheetsID == "" {
		return fmt.Errorf("GOOGLE_SHEETS_ID no configurado")
	}

	svc, err := l.sheetsService(ctx)
	if err != nil {
		return err
	}

	if err := l.ensureHeaders(ctx, svc); err != nil {
		return err
	}

	_, err = svc.Spreadsheets.Values.Append(l.cfg.GoogleSheetsID, ledgerAppendRange, &sheets.ValueRange{
		Values: [][]interface{}{entry.row(time.Now())},
	}).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to append lead to sheet: %w", err)
	}
	return nil
}

// ensureHeaders reads the first row and writes the canonical headers only
// when every cell in it is empty. The write is idempotent, so the
// check-then-write race on a brand-new sheet is harmless.
func (l *GoogleSheetsLedger) ensureHeaders(ctx context.Context, svc *sheets.Service) error {
	read, err := svc.Spreadsheets.Values.Get(l.cfg.GoogleSheetsID, ledgerHeaderRange).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to read sheet headers: %w", err)
	}

	if len(read.Values) > 0 && rowHasContent(read.Values[0]) {
		return nil
	}

	_, err = svc.Spreadsheets.Values.Update(l.cfg.GoogleSheetsID, ledgerHeaderRange, &sheets.ValueRange{
		Values: [][]interface{}{ledgerHeaders},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to write sheet headers: %w", err)
	}
	return nil
}

func (l *GoogleSheetsLedger) sheetsService(ctx context.Context) (*sheets.Service, error) {
	if len(l.opts) > 0 {
		svc, err := sheets.NewService(ctx, l.opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create sheets client: %w", err)
		}
		return svc, nil
	}

	if l.cfg.GoogleServiceAccountEmail == "" || l.cfg.GooglePrivateKey == "" {
		return nil, fmt.Errorf("credenciales de Google no configuradas (GOOGLE_SERVICE_ACCOUNT_EMAIL / GOOGLE_PRIVATE_KEY)")
	}

	conf := &jwt.Config{
		Email:      l.cfg.GoogleServiceAccountEmail,
		PrivateKey: []byte(l.cfg.GooglePrivateKey),
		Scopes:     []string{sheets.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}

	svc, err := sheets.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	return svc, nil
}

func rowHasContent(row []interface{}) bool {
	for _, cell := range row {
		if strings.TrimSpace(fmt.Sprint(cell)) != "" {
			return true
		}
	}
	return false
}
