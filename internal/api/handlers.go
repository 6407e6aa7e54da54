package api

import (
	"fmt"
	"net/http"
	"strconv"

	"payslip/domain/core"
	"payslip/domain/payroll"
	payrollsvc "payslip/internal/payroll"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// multipart framing allowance on top of the file limit
const formOverhead = 1 << 20

// EmployeeResponse is the JSON view of one record
type EmployeeResponse struct {
	ID     string            `json:"id"`
	Name   string            `json:"name"`
	Salary []SalaryLine      `json:"salary"`
	Fields map[string]string `json:"fields"`
}

// SalaryLine is one component in slip order
type SalaryLine struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func newEmployeeResponse(rec payroll.Record) EmployeeResponse {
	resp := EmployeeResponse{
		ID:     rec.ID(),
		Name:   rec.Name(),
		Salary: make([]SalaryLine, 0, len(payroll.SalaryFields)),
		Fields: make(map[string]string, len(rec)),
	}
	for _, f := range payroll.SalaryFields {
		resp.Salary = append(resp.Salary, SalaryLine{Field: f, Value: rec.FieldOrDefault(f)})
	}
	for k, v := range rec {
		resp.Fields[k] = v
	}
	return resp
}

func (h *Handler) handleEmployee(w http.ResponseWriter, r *http.Request) {
	rec, err := h.lookup.Find(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newEmployeeResponse(rec))
}

func (h *Handler) handleSlip(w http.ResponseWriter, r *http.Request) {
	_, doc, err := h.lookup.Slip(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(doc.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.Bytes()); err != nil {
		h.logger.Warn("[API] writing slip %s: %v", doc.FileName, err)
	}
}

// handleReplaceDataset takes the spreadsheet from the multipart "dataset"
// field. Mirror failures still answer 200; the result says what happened.
func (h *Handler) handleReplaceDataset(w http.ResponseWriter, r *http.Request) {
	if h.cfg.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes+formOverhead)
	}

	_, fh, err := r.FormFile(payrollsvc.UploadField)
	if err != nil {
		writeError(w, core.NewUploadError("read", err))
		return
	}
	upload, err := payrollsvc.ReadUpload(fh, h.cfg.MaxUploadBytes)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.updater.Replace(r.Context(), r.Header.Get(AdminHeader), upload)
	if err != nil {
		writeError(w, err)
		return
	}
	h.logger.With("request_id", middleware.GetReqID(r.Context())).
		Info("[API] dataset replaced by upload %s", result.UploadID)
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	ds, err := h.lookup.Dataset(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payrollsvc.Summarize(ds))
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ds, err := h.lookup.Dataset(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "records": ds.Len()})
}
