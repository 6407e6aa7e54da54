package excel

import (
	"fmt"

	"payslip/domain/payroll"

	"github.com/xuri/excelize/v2"
)

// TemplateHeaders is the header row of an empty salary workbook.
func TemplateHeaders() []string {
	headers := append([]string{}, payroll.RequiredColumns...)
	return append(headers, payroll.SalaryFields...)
}

// Encode writes headers and records as a single right-to-left xlsx sheet.
// Record values are written in header order; missing cells stay empty.
func Encode(headers []string, records []payroll.Record) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	rtl := true
	if err := f.SetSheetView(DefaultSheet, 0, &excelize.ViewOptions{RightToLeft: &rtl}); err != nil {
		return nil, fmt.Errorf("failed to set sheet view: %w", err)
	}

	if err := writeRow(f, 1, toCells(headers)); err != nil {
		return nil, err
	}
	for i, rec := range records {
		cells := make([]interface{}, len(headers))
		for j, h := range headers {
			cells[j] = rec[h]
		}
		if err := writeRow(f, i+2, cells); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeDataset writes a whole dataset back out.
func EncodeDataset(ds *payroll.Dataset) ([]byte, error) {
	return Encode(ds.Headers, ds.Records)
}

// Template returns an empty workbook with the expected header row.
func Template() ([]byte, error) {
	return Encode(TemplateHeaders(), nil)
}

func writeRow(f *excelize.File, row int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(DefaultSheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
