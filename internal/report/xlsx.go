// Package report renders the per-file outcomes of a run as an XLSX rename
// manifest, useful as an audit trail when a batch touches many documents.
package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/marcwessels/invoicefiler/internal/pipeline"
)

const sheet = "Renames"

// BuildXLSX returns an XLSX workbook (as bytes) listing every file outcome
// of a run, one row per document in processing order.
func BuildXLSX(results []pipeline.FileResult) ([]byte, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	headers := []string{
		"File",
		"Status",
		"New Name",
		"Issuer",
		"Category",
		"Issue Date",
		"Error",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range results {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		errMsg := ""
		if r.Err != nil {
			errMsg = truncate(r.Err.Error(), 140)
		}

		write(1, filepath.Base(r.Task.SourcePath))
		write(2, string(r.Status))
		write(3, r.NewName)
		write(4, r.Fields.Issuer)
		write(5, r.Fields.Category)
		write(6, r.Fields.IssueDate)
		write(7, errMsg)

		row++
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 36) // original name
	_ = f.SetColWidth(sheet, "B", "B", 16) // status
	_ = f.SetColWidth(sheet, "C", "C", 44) // new name
	_ = f.SetColWidth(sheet, "D", "E", 22) // issuer, category
	_ = f.SetColWidth(sheet, "F", "F", 12) // date
	_ = f.SetColWidth(sheet, "G", "G", 48) // error

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

// Write renders results and stores the workbook at path.
func Write(path string, results []pipeline.FileResult, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	b, err := BuildXLSX(results)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	logger.Info("report.xlsx.ok",
		"path", path,
		"rows", len(results),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
