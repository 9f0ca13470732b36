package payslip

import (
	"regexp"
	"strings"
)

// Field names a payroll attribute in a worker field-map.
type Field string

// Scalar (identity) fields.
const (
	FieldEmpNo      Field = "emp_no"
	FieldName       Field = "name"
	FieldDepartment Field = "department"
	FieldJobTitle   Field = "job_title"
	FieldPIN        Field = "pin"
	FieldNSSF       Field = "nssf"
	FieldNHIF       Field = "nhif"
	FieldIDNo       Field = "id_no"
)

// Amount fields, taken from the right-most column of a tabular line.
const (
	FieldBasicPay      Field = "basic_pay"
	FieldGrossPay      Field = "gross_pay"
	FieldPAYE          Field = "paye"
	FieldNSSFEmployee  Field = "nssf_employee"
	FieldNHIFDeduction Field = "nhif_deduction"
	FieldNetPay        Field = "net_pay"
)

// Fields lists every field in canonical output order.
var Fields = []Field{
	FieldEmpNo, FieldName, FieldDepartment, FieldJobTitle,
	FieldPIN, FieldNSSF, FieldNHIF, FieldIDNo,
	FieldBasicPay, FieldGrossPay, FieldPAYE, FieldNSSFEmployee, FieldNHIFDeduction, FieldNetPay,
}

// AmountFields lists the monetary fields.
var AmountFields = []Field{
	FieldBasicPay, FieldGrossPay, FieldPAYE, FieldNSSFEmployee, FieldNHIFDeduction, FieldNetPay,
}

// Worker is the field-map extracted from one payslip block.
type Worker map[Field]string

// Name returns the worker's full name, the merge key across documents.
func (w Worker) Name() string { return w[FieldName] }

// EmpNo returns the raw employee number.
func (w Worker) EmpNo() string { return w[FieldEmpNo] }

// Clone returns an independent copy of the field-map.
func (w Worker) Clone() Worker {
	out := make(Worker, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

type label struct {
	text  string
	field Field
}

// labels is scanned in order; several labels may share one line.
var labels = []label{
	{"Emp No:", FieldEmpNo},
	{"Name:", FieldName},
	{"Department:", FieldDepartment},
	{"Job Title:", FieldJobTitle},
	{"PIN No:", FieldPIN},
	{"NSSF No:", FieldNSSF},
	{"NHIF No:", FieldNHIF},
	{"ID No:", FieldIDNo},
}

// labelValue returns the text following l on line, cut at the next known label.
func labelValue(line string, l label) string {
	i := strings.Index(line, l.text)
	if i < 0 {
		return ""
	}
	rest := line[i+len(l.text):]
	end := len(rest)
	for _, other := range labels {
		if j := strings.Index(rest, other.text); j >= 0 && j < end {
			end = j
		}
	}
	return strings.TrimSpace(rest[:end])
}

type amountRule struct {
	field Field
	match func(line string) bool
}

var amountRules = []amountRule{
	{FieldBasicPay, func(line string) bool {
		return strings.Contains(line, "Basic Pay")
	}},
	{FieldGrossPay, func(line string) bool {
		return strings.Contains(line, "Gross Pay") && !strings.Contains(line, "Gross Taxable")
	}},
	{FieldPAYE, func(line string) bool {
		tokens := strings.Fields(line)
		return len(tokens) > 0 && tokens[0] == "PAYE"
	}},
	{FieldNSSFEmployee, func(line string) bool {
		return strings.Contains(line, "N.S.S.F - Employee") || strings.Contains(line, "N.S.S.F. - Employee")
	}},
	{FieldNHIFDeduction, func(line string) bool {
		return strings.HasPrefix(line, "NHIF") && len(strings.Fields(line)) <= 3
	}},
	{FieldNetPay, func(line string) bool {
		return strings.Contains(line, "NET PAY")
	}},
}

// columns in pdftotext layout output are separated by two or more blanks,
// which may be non-breaking spaces.
var reColumnGap = regexp.MustCompile(`[\s\p{Zs}]{2,}`)

// lastColumn returns the right-most column of a trimmed line with thousands separators removed.
func lastColumn(line string) (string, bool) {
	parts := reColumnGap.Split(line, -1)
	if len(parts) < 2 {
		return "", false
	}
	v := strings.ReplaceAll(parts[len(parts)-1], ",", "")
	return v, v != ""
}
