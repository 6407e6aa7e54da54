package payroll

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() *Dataset {
	headers := append([]string{ColumnID, ColumnName}, SalaryFields...)
	return NewDataset(headers, []Record{
		{ColumnID: "1023", ColumnName: "Ali", FieldNominalSalary: "500000"},
		{ColumnID: "2047.0", ColumnName: "Sara", FieldNominalSalary: "650000"},
		{ColumnID: " 3001 ", ColumnName: "Omar"},
	})
}

func TestNormalizeID(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1023.0", "1023"},
		{"1023", "1023"},
		{" 1023.0 ", "1023"},
		{"1023.05", "1023.05"},
		{"10.01", "10.01"},
		{"1023.0.0", "1023"},
		{"A-17", "A-17"},
		{"", ""},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, NormalizeID(test.input), "input %q", test.input)
	}
}

func TestNormalizeIDIdempotent(t *testing.T) {
	inputs := []string{"1023.0", "1023", "7.0.0", " 99 ", "0.0", "abc.0", "12.50"}
	for _, in := range inputs {
		once := NormalizeID(in)
		assert.Equal(t, once, NormalizeID(once), "normalising %q twice", in)
	}
}

func TestDatasetFind(t *testing.T) {
	ds := sampleDataset()

	for _, id := range []string{"1023", "2047", "3001"} {
		rec, ok := ds.Find(id)
		require.True(t, ok, "expected %s to be found", id)
		assert.Equal(t, id, rec.ID())
	}

	for _, id := range []string{"9999", "102", "2047.0", ""} {
		_, ok := ds.Find(id)
		assert.False(t, ok, "expected %q to be absent", id)
	}
}

func TestDatasetFindNumericCoercedID(t *testing.T) {
	ds := NewDataset([]string{ColumnID, ColumnName}, []Record{
		{ColumnID: "1023.0", ColumnName: "Ali"},
	})

	rec, ok := ds.Find("1023")
	require.True(t, ok)
	assert.Equal(t, "Ali", rec.Name())
}

func TestDatasetFindFirstMatchWins(t *testing.T) {
	ds := NewDataset([]string{ColumnID, ColumnName}, []Record{
		{ColumnID: "5", ColumnName: "first"},
		{ColumnID: "5.0", ColumnName: "second"},
	})

	rec, ok := ds.Find("5")
	require.True(t, ok)
	assert.Equal(t, "first", rec.Name())
}

func TestNewDatasetDoesNotAliasInput(t *testing.T) {
	row := Record{ColumnID: "1.0", ColumnName: "x"}
	ds := NewDataset([]string{ColumnID}, []Record{row})

	assert.Equal(t, "1.0", row[ColumnID])
	assert.Equal(t, "1", ds.Records[0][ColumnID])
}

func TestComponentsDefaultToZero(t *testing.T) {
	rec := Record{ColumnID: "1", FieldTax: "  ", FieldNominalSalary: "500000"}
	comps := rec.Components()

	require.Len(t, comps, len(SalaryFields))
	for i, c := range comps {
		assert.Equal(t, SalaryFields[i], c.Label)
	}
	assert.Equal(t, "500000", comps[0].Value)
	for _, c := range comps[1:] {
		assert.Equal(t, DefaultFieldValue, c.Value, "field %s", c.Label)
	}
}

func TestMissingColumns(t *testing.T) {
	ds := NewDataset([]string{ColumnID, FieldTax}, nil)
	missing := ds.MissingColumns()

	assert.Contains(t, missing, ColumnName)
	assert.NotContains(t, missing, ColumnID)
	assert.NotContains(t, missing, FieldTax)
	assert.Len(t, missing, 1+len(SalaryFields)-1)
	assert.True(t, ds.Servable())
	assert.False(t, NewDataset([]string{ColumnName}, nil).Servable())
}

func TestCredentialMatches(t *testing.T) {
	c := NewCredential("s3cret")
	assert.True(t, c.Matches("s3cret"))
	assert.False(t, c.Matches("S3cret"))
	assert.False(t, c.Matches(""))
	assert.False(t, NewCredential("").Matches(""))
}
