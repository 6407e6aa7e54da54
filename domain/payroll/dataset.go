package payroll

import (
	"regexp"
	"strings"
)

// numericArtifact matches the ".0" suffix a numeric-typed identifier cell picks
// up when it is coerced to text. A single `\.0$` strip would turn "1023.0.0"
// into "1023.0"; repeated suffixes are removed in one pass instead, so that
// normalisation is idempotent.
var numericArtifact = regexp.MustCompile(`(\.0)+$`)

// NormalizeID coerces a raw identifier cell to its lookup form.
func NormalizeID(raw string) string {
	return numericArtifact.ReplaceAllString(strings.TrimSpace(raw), "")
}

// Dataset is an ordered, read-only snapshot of every record in the spreadsheet.
type Dataset struct {
	Headers []string
	Records []Record
}

// NewDataset builds a dataset from a header row and raw rows, normalising the
// identifier column in place.
func NewDataset(headers []string, rows []Record) *Dataset {
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		rec := row.Clone()
		if raw, ok := rec[ColumnID]; ok {
			rec[ColumnID] = NormalizeID(raw)
		}
		records = append(records, rec)
	}
	h := make([]string, len(headers))
	copy(h, headers)
	return &Dataset{Headers: h, Records: records}
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// Find returns the first record whose identifier equals id exactly.
func (d *Dataset) Find(id string) (Record, bool) {
	if d == nil {
		return nil, false
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, false
	}
	for _, rec := range d.Records {
		if rec[ColumnID] == id {
			return rec, true
		}
	}
	return nil, false
}

// HasColumn reports whether the header row carries name.
func (d *Dataset) HasColumn(name string) bool {
	for _, h := range d.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// MissingColumns lists the required columns and salary fields absent from the
// header row. Absent salary fields are tolerated at render time.
func (d *Dataset) MissingColumns() []string {
	var missing []string
	for _, col := range RequiredColumns {
		if !d.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	for _, col := range SalaryFields {
		if !d.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	return missing
}

// Servable reports whether lookups can work against this dataset at all.
func (d *Dataset) Servable() bool {
	return d != nil && d.HasColumn(ColumnID)
}

