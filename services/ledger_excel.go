package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExcelLedger appends leads to a local .xlsx file. It backs the ledger in
// test mode, mirroring how emails fall back to the console, so local runs
// never touch the production spreadsheet.
type ExcelLedger struct {
	path string
	mu   sync.Mutex
}

// NewExcelLedger creates a ledger writing to the given .xlsx path. The file
// and its directory are created on first append.
func NewExcelLedger(path string) *ExcelLedger {
	return &ExcelLedger{path: path}
}

// Append writes one lead row, creating the workbook and header row as needed
func (l *ExcelLedger) Append(ctx context.Context, entry LedgerEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := l.openWorkbook()
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := f.GetRows(ledgerSheetName)
	if err != nil {
		return fmt.Errorf("failed to read ledger sheet: %w", err)
	}

	if !excelRowHasContent(rows) {
		headers := append([]interface{}{}, ledgerHeaders...)
		if err := f.SetSheetRow(ledgerSheetName, "A1", &headers); err != nil {
			return fmt.Errorf("failed to write ledger headers: %w", err)
		}
		if len(rows) == 0 {
			rows = append(rows, nil)
		}
	}

	cell, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return fmt.Errorf("failed to locate next ledger row: %w", err)
	}
	row := entry.row(time.Now())
	if err := f.SetSheetRow(ledgerSheetName, cell, &row); err != nil {
		return fmt.Errorf("failed to write lead row: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create ledger directory: %w", err)
	}
	if err := f.SaveAs(l.path); err != nil {
		return fmt.Errorf("failed to save ledger file: %w", err)
	}
	return nil
}

func (l *ExcelLedger) openWorkbook() (*excelize.File, error) {
	if _, err := os.Stat(l.path); err == nil {
		f, err := excelize.OpenFile(l.path)
		if err != nil {
			return nil, fmt.Errorf("failed to open ledger file: %w", err)
		}
		if idx, _ := f.GetSheetIndex(ledgerSheetName); idx < 0 {
			if _, err := f.NewSheet(ledgerSheetName); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to create ledger sheet: %w", err)
			}
		}
		return f, nil
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", ledgerSheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name ledger sheet: %w", err)
	}
	return f, nil
}

// excelRowHasContent reports whether the first row holds any non-blank cell
func excelRowHasContent(rows [][]string) bool {
	if len(rows) == 0 {
		return false
	}
	for _, cell := range rows[0] {
		if strings.TrimSpace(cell) != "" {
			return true
		}
	}
	return false
}
