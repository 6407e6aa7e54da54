// Package payroll wires the record store, the renderer and the remote mirror
// into the two operations the portal offers: look up a slip, replace the data.
package payroll

import (
	"context"
	"strings"

	"payslip/domain/core"
	"payslip/domain/payroll"
	"payslip/internal"
	"payslip/ports"
)

// LookupService answers employee lookups against a fresh dataset snapshot.
type LookupService struct {
	source   ports.DatasetSource
	renderer ports.SlipRenderer
	logger   *internal.Logger
}

// NewLookupService creates a lookup service
func NewLookupService(source ports.DatasetSource, renderer ports.SlipRenderer, logger *internal.Logger) *LookupService {
	if logger == nil {
		logger = internal.Discard
	}
	return &LookupService{source: source, renderer: renderer, logger: logger}
}

// Find returns the first record whose identifier equals id.
func (s *LookupService) Find(ctx context.Context, id string) (payroll.Record, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, core.ErrEmptyID
	}

	ds, err := s.source.Load(ctx)
	if err != nil {
		s.logger.Warn("[Lookup] dataset unavailable: %v", err)
		return nil, err
	}

	rec, ok := ds.Find(id)
	if !ok {
		s.logger.With("employee_id", id).Info("[Lookup] no record")
		return nil, core.NewRecordNotFoundError(id)
	}
	s.logger.With("employee_id", id).Debug("[Lookup] found record")
	return rec, nil
}

// Slip finds the record and renders its document.
func (s *LookupService) Slip(ctx context.Context, id string) (payroll.Record, *payroll.Document, error) {
	rec, err := s.Find(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	doc, err := s.renderer.Render(rec)
	if err != nil {
		s.logger.With("employee_id", rec.ID()).Error("[Lookup] render failed: %v", err)
		return rec, nil, err
	}
	return rec, doc, nil
}

// Dataset returns the current snapshot, for summaries and batch export.
func (s *LookupService) Dataset(ctx context.Context) (*payroll.Dataset, error) {
	return s.source.Load(ctx)
}
