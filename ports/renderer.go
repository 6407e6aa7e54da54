package ports

import (
	"payslip/domain/payroll"
)

// SlipRenderer turns one record into a finished document.
type SlipRenderer interface {
	Render(rec payroll.Record) (*payroll.Document, error)
}
