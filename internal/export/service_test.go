package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/payslip-extractor/internal/payroll"
)

func result() payroll.Result {
	return payroll.Result{
		Workers: []payroll.WorkerProfile{
			{EmpNo: "1042", Name: "Jane Mwangi", Department: "Operations", BasicPay: "45000.00"},
			{EmpNo: "2001", Name: "John Otieno"},
		},
		PayrollHistory: []payroll.PeriodEntry{
			{Month: "February", Year: "2024", Records: []payroll.PeriodSnapshot{
				{Name: "Jane Mwangi", GrossSalary: "47500.00", BasicPay: "45000.00", PAYE: "5300.00", NSSFEmployee: "1080.00", NHIF: "900.00", NetPay: "38200.50"},
			}},
			{Month: "March", Year: "2024", Records: []payroll.PeriodSnapshot{
				{Name: "Jane Mwangi", GrossSalary: "45000.00", BasicPay: "45000.00", PAYE: "0", NSSFEmployee: "0", NHIF: "0", NetPay: "n/a"},
				{Name: "John Otieno", GrossSalary: "0", BasicPay: "0", PAYE: "0", NSSFEmployee: "0", NHIF: "0", NetPay: "0"},
			}},
		},
	}
}

func TestResultXLSX(t *testing.T) {
	b, err := NewService(nil).ResultXLSX(result())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{workersSheet, historySheet}, f.GetSheetList())

	workers, err := f.GetRows(workersSheet)
	require.NoError(t, err)
	require.Len(t, workers, 3)
	assert.Equal(t, workerHeaders, workers[0])
	assert.Equal(t, "Jane Mwangi", workers[1][1])
	assert.Equal(t, "Operations", workers[1][2])

	history, err := f.GetRows(historySheet)
	require.NoError(t, err)
	require.Len(t, history, 4)
	assert.Equal(t, historyHeaders, history[0])
	assert.Equal(t, []string{"February", "2024", "Jane Mwangi"}, history[1][:3])
	assert.Equal(t, "n/a", history[2][8])

	v, err := f.GetCellValue(historySheet, "D2")
	require.NoError(t, err)
	assert.Equal(t, "47500", v)
}

func TestAmountCell(t *testing.T) {
	assert.Equal(t, 38200.5, amountCell("38200.50"))
	assert.Equal(t, "12,00x", amountCell("12,00x"))
	assert.Equal(t, "", amountCell(""))
}

func TestWriteHistoryCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewService(nil).WriteHistoryCSV(&buf, result()))

	want := "month,year,name,gross_salary,basic_pay,paye,nssf_employee,nhif,net_pay\n" +
		"February,2024,Jane Mwangi,47500.00,45000.00,5300.00,1080.00,900.00,38200.50\n" +
		"March,2024,Jane Mwangi,45000.00,45000.00,0,0,0,n/a\n" +
		"March,2024,John Otieno,0,0,0,0,0,0\n"
	assert.Equal(t, want, buf.String())
}

func TestHistoryRows_Empty(t *testing.T) {
	assert.Empty(t, HistoryRows(payroll.Result{}))
}
