package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/payslip-extractor/internal/payroll"
)

const (
	workersSheet = "Workers"
	historySheet = "Payroll History"
)

var workerHeaders = []string{
	"Emp No", "Name", "Department", "Job Title", "PIN No", "NSSF No", "NHIF No", "ID No", "Basic Pay",
}

var historyHeaders = []string{
	"Month", "Year", "Name", "Gross Salary", "Basic Pay", "PAYE", "NSSF (Employee)", "NHIF", "Net Pay",
}

// Service renders a payroll result into spreadsheet formats.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ResultXLSX returns an XLSX workbook (as bytes) with a worker sheet and a
// flattened payroll history sheet. Amounts are written as numbers when they
// parse as decimals and as the original text otherwise.
func (s *Service) ResultXLSX(result payroll.Result) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("failed to close workbook", "error", err)
		}
	}()

	// The default "Sheet1" becomes the worker sheet.
	if err := f.SetSheetName(f.GetSheetName(0), workersSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(historySheet); err != nil {
		return nil, err
	}
	writeHeaders(f, workersSheet, workerHeaders)
	writeHeaders(f, historySheet, historyHeaders)

	for i, w := range result.Workers {
		writeRow(f, workersSheet, i+2, []any{
			w.EmpNo, w.Name, w.Department, w.JobTitle, w.PIN, w.NSSF, w.NHIF, w.IDNo, amountCell(w.BasicPay),
		})
	}

	row := 2
	for _, period := range result.PayrollHistory {
		for _, r := range period.Records {
			writeRow(f, historySheet, row, []any{
				period.Month, period.Year, r.Name,
				amountCell(r.GrossSalary), amountCell(r.BasicPay), amountCell(r.PAYE),
				amountCell(r.NSSFEmployee), amountCell(r.NHIF), amountCell(r.NetPay),
			})
			row++
		}
	}

	// Widen a few columns
	_ = f.SetColWidth(workersSheet, "A", "A", 10) // emp no
	_ = f.SetColWidth(workersSheet, "B", "B", 28) // name
	_ = f.SetColWidth(workersSheet, "C", "D", 22) // department, job title
	_ = f.SetColWidth(workersSheet, "E", "I", 16)
	_ = f.SetColWidth(historySheet, "A", "B", 12) // period
	_ = f.SetColWidth(historySheet, "C", "C", 28) // name
	_ = f.SetColWidth(historySheet, "D", "I", 16) // amounts
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"workers", len(result.Workers),
		"history_rows", row-2,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func writeHeaders(f *excelize.File, sheet string, headers []string) {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
}

func writeRow(f *excelize.File, sheet string, row int, values []any) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}

// amountCell returns a float for numeric amounts so spreadsheet sums work.
func amountCell(s string) any {
	if s == "" {
		return ""
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return s
	}
	return d.InexactFloat64()
}
