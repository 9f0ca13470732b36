package output

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/payslip-extractor/internal/common"
	"github.com/joseph-ayodele/payslip-extractor/internal/payroll"
	"github.com/joseph-ayodele/payslip-extractor/internal/payslip"
)

func sampleResult() payroll.Result {
	return payroll.Result{
		Workers: []payroll.WorkerProfile{{EmpNo: "1042", Name: "Jane Mwangi", BasicPay: "45000.00", NetPay: "38200.50"}},
		PayrollHistory: []payroll.PeriodEntry{{
			Month: "March",
			Year:  "2024",
			Records: []payroll.PeriodSnapshot{{
				Name: "Jane Mwangi", GrossSalary: "45000.00", BasicPay: "45000.00",
				PAYE: "0", NSSFEmployee: "0", NHIF: "0", NetPay: "38200.50",
			}},
		}},
	}
}

const sampleJSON = `{
  "workers": [
    {
      "emp_no": "1042",
      "name": "Jane Mwangi",
      "basic_pay": "45000.00",
      "net_pay": "38200.50"
    }
  ],
  "payroll_history": [
    {
      "month": "March",
      "year": "2024",
      "records": [
        {
          "name": "Jane Mwangi",
          "gross_salary": "45000.00",
          "basic_pay": "45000.00",
          "paye": "0",
          "nssf_employee": "0",
          "nhif": "0",
          "net_pay": "38200.50"
        }
      ]
    }
  ]
}
`

func TestEncode_LayoutAndKeyOrder(t *testing.T) {
	b, err := Encode(sampleResult())
	require.NoError(t, err)
	assert.Equal(t, sampleJSON, string(b))

	again, err := Encode(sampleResult())
	require.NoError(t, err)
	assert.Equal(t, b, again)
}

func TestEncode_EmptyResult(t *testing.T) {
	b, err := Encode(payroll.NewAggregator().Result())
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"workers\": [],\n  \"payroll_history\": []\n}\n", string(b))
	assert.NoError(t, Validate(b))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate([]byte(sampleJSON)))
	assert.Error(t, Validate([]byte(`{"workers":[{"name":"X","emp_no":"A1"}],"payroll_history":[]}`)))
	assert.Error(t, Validate([]byte(`{"workers":[]}`)))
	assert.Error(t, Validate([]byte(`{"workers":[],"payroll_history":[{"month":"May","year":"24","records":[]}]}`)))
	assert.Error(t, Validate([]byte(`not json`)))
}

func TestWriter_PrintsAndPersistsSameBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "extracted_data.json")
	var stdout bytes.Buffer

	data, err := NewWriter(path, &stdout, nil).Write(sampleResult())
	require.NoError(t, err)

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, data, onDisk)
	assert.Equal(t, data, stdout.Bytes())
}

func TestWriter_RejectsInvalidResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extracted_data.json")
	bad := sampleResult()
	bad.Workers[0].EmpNo = "12-A"

	_, err := NewWriter(path, nil, nil).Write(bad)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrValidation))
	assert.Equal(t, "OUTPUT_ERROR", common.CodeOf(err))
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestWriter_ParsedWorkersAlwaysValidate(t *testing.T) {
	text := "header\n  Samuel Olago\n  PAYSLIP\nEmp No: \u0661\u0660\u0664\u0662\nName: Jane Mwangi\n" +
		"\n  Samuel Olago\n  PAYSLIP\nEmp No: 2001\nName: John Otieno\nBasic Pay      30,000.00\n"

	agg := payroll.NewAggregator()
	agg.AddDocument(payroll.Period{Month: "March", Year: "2024"}, payslip.NewParser(payslip.Config{}).Parse(text))

	data, err := NewWriter(filepath.Join(t.TempDir(), "extracted_data.json"), nil, nil).Write(agg.Result())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "Jane Mwangi")
	assert.Contains(t, string(data), `"emp_no": "2001"`)
}

func TestEncode_DoesNotEscapeHTML(t *testing.T) {
	result := sampleResult()
	result.Workers[0].Department = "R&D <Payroll>"

	data, err := Encode(result)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"department": "R&D <Payroll>"`)
	assert.NotContains(t, string(data), `\u0026`)
}
