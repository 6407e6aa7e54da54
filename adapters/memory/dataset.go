// Package memory provides in-process implementations of the ports, used by
// tests and by the CLI when no remote store is configured.
package memory

import (
	"context"
	"sync"

	"payslip/adapters/excel"
	"payslip/domain/core"
	"payslip/domain/payroll"
)

// DatasetSource holds a dataset in memory. A nil dataset behaves like a
// missing spreadsheet.
type DatasetSource struct {
	mu      sync.RWMutex
	dataset *payroll.Dataset
	raw     []byte
}

// NewDatasetSource creates a source serving ds, which may be nil.
func NewDatasetSource(ds *payroll.Dataset) *DatasetSource {
	return &DatasetSource{dataset: ds}
}

// Load returns a copy of the held dataset.
func (s *DatasetSource) Load(ctx context.Context) (*payroll.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dataset == nil {
		return nil, core.NewDataUnavailableError("memory", nil)
	}
	return payroll.NewDataset(s.dataset.Headers, s.dataset.Records), nil
}

// Replace parses data as an xlsx workbook and swaps it in.
func (s *DatasetSource) Replace(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	parsed, err := excel.ReadBytes("memory.xlsx", data)
	if err != nil {
		return core.NewUploadError("local write", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dataset = parsed.Dataset()
	s.raw = append([]byte(nil), data...)
	return nil
}

// Raw returns the bytes last passed to Replace.
func (s *DatasetSource) Raw() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]byte(nil), s.raw...)
}
