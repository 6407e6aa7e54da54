package excel

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"payslip/domain/core"
	"payslip/domain/payroll"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, sheet string, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if sheet != DefaultSheet {
		require.NoError(t, f.SetSheetName(DefaultSheet, sheet))
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	path := filepath.Join(t.TempDir(), "salary_data.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadDatasetXLSX(t *testing.T) {
	path := writeWorkbook(t, DefaultSheet, [][]interface{}{
		{payroll.ColumnID, payroll.ColumnName, payroll.FieldNetSalary},
		{1023, "Ali", 900000},
		{"2001", " Sara ", ""},
	})

	ds, err := NewDataReader(path).ReadDataset()
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())

	rec, ok := ds.Find("1023")
	require.True(t, ok)
	assert.Equal(t, "Ali", rec.Name())
	assert.Equal(t, "900000", rec[payroll.FieldNetSalary])

	rec, ok = ds.Find("2001")
	require.True(t, ok)
	assert.Equal(t, "Sara", rec.Name(), "cells are trimmed")
}

func TestReadFallsBackToFirstSheet(t *testing.T) {
	path := writeWorkbook(t, "الرواتب", [][]interface{}{
		{payroll.ColumnID, payroll.ColumnName},
		{"7", "Omar"},
	})

	data, err := NewDataReader(path).ReadData()
	require.NoError(t, err)
	assert.Equal(t, "الرواتب", data.Sheet)
	assert.Len(t, data.Rows, 1)
}

func TestReadIgnoresNumberFormats(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow(DefaultSheet, "A1", &[]interface{}{payroll.ColumnID, payroll.ColumnName, payroll.FieldNetSalary}))

	// 0.00, #,##0 and #,##0.00
	formats := []int{2, 3, 4}
	for i, numFmt := range formats {
		row := i + 2
		require.NoError(t, f.SetSheetRow(DefaultSheet, fmt.Sprintf("A%d", row), &[]interface{}{10234 + i, "Ali", 500000}))
		style, err := f.NewStyle(&excelize.Style{NumFmt: numFmt})
		require.NoError(t, err)
		require.NoError(t, f.SetCellStyle(DefaultSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("C%d", row), style))
	}
	path := filepath.Join(t.TempDir(), "salary_data.xlsx")
	require.NoError(t, f.SaveAs(path))

	ds, err := NewDataReader(path).ReadDataset()
	require.NoError(t, err)
	require.Equal(t, len(formats), ds.Len())

	for i, numFmt := range formats {
		id := fmt.Sprintf("%d", 10234+i)
		rec, ok := ds.Find(id)
		require.True(t, ok, "id %s with NumFmt %d", id, numFmt)
		assert.Equal(t, "500000", rec[payroll.FieldNetSalary], "NumFmt %d", numFmt)
	}
}

func TestReadCSVNormalisesNumericIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "salary_data.csv")
	content := "\ufeff" + payroll.ColumnID + "," + payroll.ColumnName + "\n1023.0,Ali\n,\n 55 ,Huda\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	ds, err := NewDataReader(path).ReadDataset()
	require.NoError(t, err)
	assert.Equal(t, []string{payroll.ColumnID, payroll.ColumnName}, ds.Headers)
	assert.Equal(t, 2, ds.Len(), "blank rows dropped")

	rec, ok := ds.Find("1023")
	require.True(t, ok)
	assert.Equal(t, "Ali", rec.Name())
	_, ok = ds.Find("55")
	assert.True(t, ok)
}

func TestReadDatasetMissingFile(t *testing.T) {
	_, err := NewDataReader(filepath.Join(t.TempDir(), "salary_data.xlsx")).ReadDataset()
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrDataUnavailable)
}

func TestReadBytes(t *testing.T) {
	payload, err := Encode(
		[]string{payroll.ColumnID, payroll.ColumnName},
		[]payroll.Record{{payroll.ColumnID: "1", payroll.ColumnName: "Ali"}},
	)
	require.NoError(t, err)

	data, err := ReadBytes("upload.xlsx", payload)
	require.NoError(t, err)
	assert.Len(t, data.Rows, 1)

	_, err = ReadBytes("upload.xlsx", []byte("not a workbook"))
	assert.Error(t, err)

	_, err = ReadBytes("upload.csv", []byte(""))
	assert.Error(t, err, "no header row")
}

func TestTemplateRoundTrip(t *testing.T) {
	payload, err := Template()
	require.NoError(t, err)

	data, err := ReadBytes("template.xlsx", payload)
	require.NoError(t, err)
	assert.Equal(t, TemplateHeaders(), data.Headers)
	assert.Empty(t, data.Rows)
	assert.Empty(t, data.Dataset().MissingColumns())
}
