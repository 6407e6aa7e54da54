package payroll

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"payslip/domain/core"
	"payslip/domain/payroll"

	"golang.org/x/sync/errgroup"
)

// DefaultExportWorkers bounds concurrent renders during a batch export.
const DefaultExportWorkers = 4

// ExportResult lists what a batch export wrote and which records failed.
type ExportResult struct {
	Written []string
	Failed  map[string]error
}

// Export renders one slip per distinct identifier into dir. A record whose
// identifier repeats is skipped, matching what a lookup would return. A
// missing font aborts the whole export; other render failures are collected.
func (s *LookupService) Export(ctx context.Context, dir string, workers int) (*ExportResult, error) {
	if workers < 1 {
		workers = DefaultExportWorkers
	}
	ds, err := s.source.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export dir: %w", err)
	}

	result := &ExportResult{Failed: make(map[string]error)}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, rec := range firstPerID(ds) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			doc, err := s.renderer.Render(rec)
			if err != nil {
				if core.IsMissingFont(err) {
					return err
				}
				mu.Lock()
				result.Failed[rec.ID()] = err
				mu.Unlock()
				s.logger.With("employee_id", rec.ID()).Warn("[Export] render failed: %v", err)
				return nil
			}

			path := filepath.Join(dir, doc.FileName)
			if err := os.WriteFile(path, doc.Bytes(), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			mu.Lock()
			result.Written = append(result.Written, path)
			mu.Unlock()
			return nil
		})
	}

	err = g.Wait()
	sort.Strings(result.Written)
	s.logger.Info("[Export] wrote %d slips to %s (%d failed)", len(result.Written), dir, len(result.Failed))
	return result, err
}

func firstPerID(ds *payroll.Dataset) []payroll.Record {
	seen := make(map[string]bool, ds.Len())
	out := make([]payroll.Record, 0, ds.Len())
	for _, rec := range ds.Records {
		id := rec.ID()
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, rec)
	}
	return out
}
