package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"payslip/domain/core"
	"payslip/domain/payroll"
	"payslip/internal"

	"github.com/xuri/excelize/v2"
)

// DefaultSheet is read when present; otherwise the first sheet of the workbook is used.
const DefaultSheet = "Sheet1"

const utf8BOM = "\ufeff"

// DataReader handles reading Excel and CSV files
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	logger   *internal.Logger
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(filePath string) *DataReader {
	return &DataReader{filePath: filePath, fileType: fileTypeOf(filePath), logger: internal.DefaultLogger}
}

// WithLogger replaces the reader's logger.
func (r *DataReader) WithLogger(logger *internal.Logger) *DataReader {
	if logger != nil {
		r.logger = logger
	}
	return r
}

func fileTypeOf(name string) string {
	if strings.EqualFold(filepath.Ext(name), ".csv") {
		return "csv"
	}
	return "xlsx"
}

// ReadDataset reads the file into a payroll dataset. A missing or unreadable
// file is reported as core.ErrDataUnavailable.
func (r *DataReader) ReadDataset() (*payroll.Dataset, error) {
	data, err := r.ReadData()
	if err != nil {
		return nil, core.NewDataUnavailableError(r.filePath, err)
	}
	return data.Dataset(), nil
}

// ReadData reads data from Excel or CSV files into structured format
func (r *DataReader) ReadData() (*ExcelData, error) {
	r.logger.Trace("[DataReader] Starting to read %s file: %s", r.fileType, r.filePath)

	f, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("%s file not available: %w", strings.ToUpper(r.fileType), err)
	}
	defer f.Close()

	return r.read(f)
}

// ReadBytes parses an uploaded payload. name is only used to pick the format.
func ReadBytes(name string, data []byte) (*ExcelData, error) {
	r := &DataReader{filePath: name, fileType: fileTypeOf(name), logger: internal.DefaultLogger}
	return r.read(bytes.NewReader(data))
}

func (r *DataReader) read(src io.Reader) (*ExcelData, error) {
	switch r.fileType {
	case "csv":
		return r.readCSVData(src)
	case "xlsx":
		return r.readExcelData(src)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
}

// readExcelData reads the salary sheet into structured format
func (r *DataReader) readExcelData(src io.Reader) (*ExcelData, error) {
	startTime := time.Now()
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := pickSheet(f.GetSheetList())
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	// raw values: number formats would otherwise turn 10234 into "10,234.00"
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", sheet, err)
	}
	r.logger.Debug("[DataReader] %s read in %.2fms (%d rows)", sheet, float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	data, err := r.processRows(rows)
	if err != nil {
		return nil, err
	}
	data.Sheet = sheet
	return data, nil
}

func pickSheet(sheets []string) string {
	for _, s := range sheets {
		if s == DefaultSheet {
			return s
		}
	}
	if len(sheets) > 0 {
		return sheets[0]
	}
	return ""
}

// readCSVData reads CSV data into structured format
func (r *DataReader) readCSVData(src io.Reader) (*ExcelData, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], utf8BOM)
	}
	r.logger.Debug("[DataReader] CSV file read (%d rows)", len(rows))

	return r.processRows(rows)
}

// processRows converts raw string rows into ExcelData format. Fully blank rows
// are dropped; cells beyond the header row are ignored.
func (r *DataReader) processRows(rows [][]string) (*ExcelData, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s file has no header row", strings.ToUpper(r.fileType))
	}

	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
	}

	var dataRows []RawRowData
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		rowData := make(RawRowData)
		blank := true

		for j, cell := range row {
			if j < len(headers) && headers[j] != "" {
				cell = strings.TrimSpace(cell)
				rowData[headers[j]] = cell
				if cell != "" {
					blank = false
				}
			}
		}

		if !blank {
			dataRows = append(dataRows, rowData)
		}
	}

	r.logger.Debug("[DataReader] %s file processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), len(headers), len(dataRows))

	return &ExcelData{
		Headers: headers,
		Rows:    dataRows,
	}, nil
}
