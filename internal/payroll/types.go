package payroll

import "github.com/joseph-ayodele/payslip-extractor/internal/payslip"

// Zero is written for any snapshot figure the payslip did not show.
const Zero = "0"

// WorkerProfile is the merged master record of one worker. Keys follow the
// field table order; fields never observed are omitted.
type WorkerProfile struct {
	EmpNo         string `json:"emp_no,omitempty"`
	Name          string `json:"name,omitempty"`
	Department    string `json:"department,omitempty"`
	JobTitle      string `json:"job_title,omitempty"`
	PIN           string `json:"pin,omitempty"`
	NSSF          string `json:"nssf,omitempty"`
	NHIF          string `json:"nhif,omitempty"`
	IDNo          string `json:"id_no,omitempty"`
	BasicPay      string `json:"basic_pay,omitempty"`
	GrossPay      string `json:"gross_pay,omitempty"`
	PAYE          string `json:"paye,omitempty"`
	NSSFEmployee  string `json:"nssf_employee,omitempty"`
	NHIFDeduction string `json:"nhif_deduction,omitempty"`
	NetPay        string `json:"net_pay,omitempty"`
}

// PeriodSnapshot holds one worker's figures for one payroll period.
type PeriodSnapshot struct {
	Name         string `json:"name"`
	GrossSalary  string `json:"gross_salary"`
	BasicPay     string `json:"basic_pay"`
	PAYE         string `json:"paye"`
	NSSFEmployee string `json:"nssf_employee"`
	NHIF         string `json:"nhif"`
	NetPay       string `json:"net_pay"`
}

// PeriodEntry is one document's contribution to the history.
type PeriodEntry struct {
	Month   string           `json:"month"`
	Year    string           `json:"year"`
	Records []PeriodSnapshot `json:"records"`
}

// Result is the structured output of a run.
type Result struct {
	Workers        []WorkerProfile `json:"workers"`
	PayrollHistory []PeriodEntry   `json:"payroll_history"`
}

// profileFromWorker lays a field-map out as a WorkerProfile.
func profileFromWorker(w payslip.Worker) WorkerProfile {
	return WorkerProfile{
		EmpNo:         w[payslip.FieldEmpNo],
		Name:          w[payslip.FieldName],
		Department:    w[payslip.FieldDepartment],
		JobTitle:      w[payslip.FieldJobTitle],
		PIN:           w[payslip.FieldPIN],
		NSSF:          w[payslip.FieldNSSF],
		NHIF:          w[payslip.FieldNHIF],
		IDNo:          w[payslip.FieldIDNo],
		BasicPay:      w[payslip.FieldBasicPay],
		GrossPay:      w[payslip.FieldGrossPay],
		PAYE:          w[payslip.FieldPAYE],
		NSSFEmployee:  w[payslip.FieldNSSFEmployee],
		NHIFDeduction: w[payslip.FieldNHIFDeduction],
		NetPay:        w[payslip.FieldNetPay],
	}
}

// snapshotFromWorker reads the period figures, defaulting gross to basic pay.
func snapshotFromWorker(w payslip.Worker) PeriodSnapshot {
	gross := orZero(w[payslip.FieldBasicPay])
	if v, ok := w[payslip.FieldGrossPay]; ok {
		gross = v
	}
	return PeriodSnapshot{
		Name:         w.Name(),
		GrossSalary:  gross,
		BasicPay:     orZero(w[payslip.FieldBasicPay]),
		PAYE:         orZero(w[payslip.FieldPAYE]),
		NSSFEmployee: orZero(w[payslip.FieldNSSFEmployee]),
		NHIF:         orZero(w[payslip.FieldNHIFDeduction]),
		NetPay:       orZero(w[payslip.FieldNetPay]),
	}
}

func orZero(s string) string {
	if s == "" {
		return Zero
	}
	return s
}
