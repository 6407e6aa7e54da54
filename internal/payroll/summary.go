package payroll

import (
	"sort"
	"strconv"
	"strings"

	"payslip/domain/payroll"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes a dataset after upload and on the admin status page.
type Summary struct {
	Records        int           `json:"records"`
	Columns        int           `json:"columns"`
	MissingColumns []string      `json:"missing_columns,omitempty"`
	NetSalary      *SalaryTotals `json:"net_salary,omitempty"`
}

// SalaryTotals aggregates the numeric cells of one salary column.
type SalaryTotals struct {
	Count   int     `json:"count"`
	Skipped int     `json:"skipped"`
	Sum     float64 `json:"sum"`
	Mean    float64 `json:"mean"`
	Median  float64 `json:"median"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	StdDev  float64 `json:"std_dev"`
	P90     float64 `json:"p90"`
}

var digitFolder = strings.NewReplacer(
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
	",", "", "٬", "", " ", "", "٫", ".",
)

// ParseAmount reads a salary cell, accepting thousand separators and
// Arabic-Indic digits.
func ParseAmount(raw string) (float64, bool) {
	s := digitFolder.Replace(strings.TrimSpace(raw))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Summarize computes record counts, missing columns and net salary totals.
func Summarize(ds *payroll.Dataset) *Summary {
	if ds == nil {
		return &Summary{}
	}
	s := &Summary{
		Records:        ds.Len(),
		Columns:        len(ds.Headers),
		MissingColumns: ds.MissingColumns(),
	}
	if ds.HasColumn(payroll.FieldNetSalary) {
		s.NetSalary = ColumnTotals(ds, payroll.FieldNetSalary)
	}
	return s
}

// ColumnTotals aggregates field across the dataset, skipping non-numeric cells.
// It returns nil when no cell parses.
func ColumnTotals(ds *payroll.Dataset, field string) *SalaryTotals {
	var values []float64
	skipped := 0
	for _, rec := range ds.Records {
		raw, ok := rec.Get(field)
		if !ok {
			skipped++
			continue
		}
		v, ok := ParseAmount(raw)
		if !ok {
			skipped++
			continue
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil
	}

	t := &SalaryTotals{Count: len(values), Skipped: skipped}
	data := stats.Float64Data(values)
	t.Sum, _ = stats.Sum(data)
	t.Mean, _ = stats.Mean(data)
	t.Median, _ = stats.Median(data)
	t.Min, _ = stats.Min(data)
	t.Max, _ = stats.Max(data)

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	t.P90 = stat.Quantile(0.9, stat.Empirical, sorted, nil)
	if len(values) > 1 {
		t.StdDev = stat.StdDev(values, nil)
	}
	return t
}
