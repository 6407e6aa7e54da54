// Package filestore keeps the serving spreadsheet on local disk.
package filestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"payslip/adapters/excel"
	"payslip/domain/core"
	"payslip/domain/payroll"
	"payslip/internal"

	"github.com/google/uuid"
)

// DatasetFile is the local serving copy of the salary spreadsheet. Readers
// always see a complete file: replacements are written next to the target and
// renamed into place.
type DatasetFile struct {
	path   string
	mu     sync.RWMutex
	logger *internal.Logger
}

// NewDatasetFile creates a dataset file rooted at path.
func NewDatasetFile(path string, logger *internal.Logger) *DatasetFile {
	if logger == nil {
		logger = internal.Discard
	}
	return &DatasetFile{path: path, logger: logger}
}

// Path returns the serving file location.
func (s *DatasetFile) Path() string {
	return s.path
}

// Load reads the serving file. A missing or unreadable file is reported as
// core.ErrDataUnavailable.
func (s *DatasetFile) Load(ctx context.Context) (*payroll.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	return excel.NewDataReader(s.path).WithLogger(s.logger).ReadDataset()
}

// Replace overwrites the serving file with data atomically.
func (s *DatasetFile) Replace(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return core.NewUploadError("local write", fmt.Errorf("failed to create storage directory: %w", err))
	}

	ext := filepath.Ext(s.path)
	base := filepath.Base(s.path)
	tmpPath := filepath.Join(dir, fmt.Sprintf(".%s_%s%s", base[:len(base)-len(ext)], uuid.New().String()[:8], ext))

	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		os.Remove(tmpPath) // Clean up on failure
		return core.NewUploadError("local write", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return core.NewUploadError("local write", err)
	}

	s.logger.Info("[DatasetFile] replaced %s (%d bytes)", s.path, len(data))
	return nil
}

// Exists checks whether the serving file is present.
func (s *DatasetFile) Exists() (bool, error) {
	_, err := os.Stat(s.path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check file existence: %w", err)
	}
	return true, nil
}

// Bytes returns the raw serving file, for mirroring and export.
func (s *DatasetFile) Bytes() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, core.NewDataUnavailableError(s.path, err)
	}
	return data, nil
}
