// Package payroll holds the salary-slip domain: employee records, the dataset
// they are loaded into, and the identifier normalisation both sides of a
// lookup agree on.
package payroll

import (
	"strings"
)

// Column names exactly as they appear in the salary spreadsheet header row.
const (
	ColumnID   = "الرقم الوظيفي"
	ColumnName = "الاسم"
)

// Salary component columns.
const (
	FieldNominalSalary  = "الراتب الاسمي"
	FieldUniversityServ = "الخدمة الجامعية"
	FieldAcademicTitle  = "اللقب العلمي"
	FieldRetirement     = "التقاعد"
	FieldTax            = "الضريبة"
	FieldTransport      = "النقل"
	FieldPosition       = "المنصب"
	FieldMarital        = "الزوجية"
	FieldGrossSalary    = "الراتب الكامل"
	FieldNetSalary      = "الراتب الصافي بعد الاستقطاعات"
)

// DefaultFieldValue is printed for a component the record does not carry.
const DefaultFieldValue = "0"

// SalaryFields lists the ten salary components in slip order.
var SalaryFields = []string{
	FieldNominalSalary,
	FieldUniversityServ,
	FieldAcademicTitle,
	FieldRetirement,
	FieldTax,
	FieldTransport,
	FieldPosition,
	FieldMarital,
	FieldGrossSalary,
	FieldNetSalary,
}

// RequiredColumns are the columns a dataset must carry to be served.
var RequiredColumns = []string{ColumnID, ColumnName}

// Record is one employee's salary line, keyed by column name.
type Record map[string]string

// ID returns the normalised employee identifier.
func (r Record) ID() string {
	return NormalizeID(r[ColumnID])
}

// Name returns the employee name.
func (r Record) Name() string {
	return r[ColumnName]
}

// Get returns the trimmed value of field and whether it was present and non-blank.
func (r Record) Get(field string) (string, bool) {
	v, ok := r[field]
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// FieldOrDefault returns the value of field, or DefaultFieldValue when absent.
func (r Record) FieldOrDefault(field string) string {
	if v, ok := r.Get(field); ok {
		return v
	}
	return DefaultFieldValue
}

// Components returns the ten salary components in slip order, defaulted.
func (r Record) Components() []Component {
	out := make([]Component, 0, len(SalaryFields))
	for _, f := range SalaryFields {
		out = append(out, Component{Label: f, Value: r.FieldOrDefault(f)})
	}
	return out
}

// Clone returns an independent copy of the record.
func (r Record) Clone() Record {
	c := make(Record, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

// Component is one labelled salary value as printed on a slip.
type Component struct {
	Label string `json:"label"`
	Value string `json:"value"`
}
