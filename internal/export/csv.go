package export

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/joseph-ayodele/payslip-extractor/internal/payroll"
)

// HistoryRow is one worker-period line of the flattened history.
type HistoryRow struct {
	Month        string `csv:"month"`
	Year         string `csv:"year"`
	Name         string `csv:"name"`
	GrossSalary  string `csv:"gross_salary"`
	BasicPay     string `csv:"basic_pay"`
	PAYE         string `csv:"paye"`
	NSSFEmployee string `csv:"nssf_employee"`
	NHIF         string `csv:"nhif"`
	NetPay       string `csv:"net_pay"`
}

// HistoryRows flattens the payroll history in period order.
func HistoryRows(result payroll.Result) []HistoryRow {
	var rows []HistoryRow
	for _, p := range result.PayrollHistory {
		for _, r := range p.Records {
			rows = append(rows, HistoryRow{
				Month:        p.Month,
				Year:         p.Year,
				Name:         r.Name,
				GrossSalary:  r.GrossSalary,
				BasicPay:     r.BasicPay,
				PAYE:         r.PAYE,
				NSSFEmployee: r.NSSFEmployee,
				NHIF:         r.NHIF,
				NetPay:       r.NetPay,
			})
		}
	}
	return rows
}

// WriteHistoryCSV writes the flattened history with a header row.
func (s *Service) WriteHistoryCSV(w io.Writer, result payroll.Result) error {
	rows := HistoryRows(result)
	if rows == nil {
		rows = []HistoryRow{}
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("csv write: %w", err)
	}
	s.logger.Info("export.csv.ok", "rows", len(rows))
	return nil
}
