package excel

import (
	"payslip/domain/payroll"
)

// RawRowData represents a row of raw spreadsheet data as string key-value pairs
type RawRowData map[string]string

// ExcelData represents the complete sheet as read, before any normalisation
type ExcelData struct {
	Headers []string     // Column headers
	Rows    []RawRowData // Data rows
	Sheet   string       // Sheet the rows came from; empty for CSV
}

// Dataset converts the raw sheet into a payroll dataset, normalising identifiers.
func (d *ExcelData) Dataset() *payroll.Dataset {
	rows := make([]payroll.Record, len(d.Rows))
	for i, r := range d.Rows {
		rows[i] = payroll.Record(r)
	}
	return payroll.NewDataset(d.Headers, rows)
}
