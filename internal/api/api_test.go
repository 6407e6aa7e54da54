package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"payslip/adapters/excel"
	"payslip/adapters/memory"
	"payslip/domain/core"
	"payslip/domain/payroll"
	payrollsvc "payslip/internal/payroll"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const password = "s3cret"

var headers = []string{payroll.ColumnID, payroll.ColumnName, payroll.FieldTax, payroll.FieldNetSalary}

// MockRenderer stands in for the PDF renderer
type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(rec payroll.Record) (*payroll.Document, error) {
	args := m.Called(rec)
	doc, _ := args.Get(0).(*payroll.Document)
	return doc, args.Error(1)
}

type testAPI struct {
	handler  http.Handler
	store    *memory.DatasetSource
	blobs    *memory.BlobStore
	renderer *MockRenderer
}

func newTestAPI(t *testing.T, records ...payroll.Record) *testAPI {
	t.Helper()
	var ds *payroll.Dataset
	if len(records) > 0 {
		ds = payroll.NewDataset(headers, records)
	}
	store := memory.NewDatasetSource(ds)
	blobs := memory.NewBlobStore()
	renderer := &MockRenderer{}

	lookup := payrollsvc.NewLookupService(store, renderer, nil)
	updater := payrollsvc.NewUpdater(payrollsvc.UpdaterConfig{
		Credential: payroll.NewCredential(password),
		Sink:       store,
		Blobs:      blobs,
	})
	h := NewHandler(lookup, updater, Config{MaxUploadBytes: 1 << 20}, nil)
	return &testAPI{handler: h.Routes(), store: store, blobs: blobs, renderer: renderer}
}

func (a *testAPI) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	return w
}

func ali() payroll.Record {
	return payroll.Record{payroll.ColumnID: "1023", payroll.ColumnName: "Ali", payroll.FieldNetSalary: "900000"}
}

func datasetRequest(t *testing.T, pw, fileName string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(payrollsvc.UploadField, fileName)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPut, "/api/dataset", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if pw != "" {
		req.Header.Set(AdminHeader, pw)
	}
	return req
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorDetail {
	t.Helper()
	require.True(t, gjson.ValidBytes(w.Body.Bytes()), w.Body.String())
	return errorDetail{
		Code:    gjson.GetBytes(w.Body.Bytes(), "error.code").String(),
		Message: gjson.GetBytes(w.Body.Bytes(), "error.message").String(),
	}
}

func TestGetEmployee(t *testing.T) {
	a := newTestAPI(t, ali())

	w := a.do(httptest.NewRequest(http.MethodGet, "/api/employees/1023", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp EmployeeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "1023", resp.ID)
	assert.Equal(t, "Ali", resp.Name)
	require.Len(t, resp.Salary, len(payroll.SalaryFields))
	assert.Equal(t, SalaryLine{Field: payroll.FieldNominalSalary, Value: "0"}, resp.Salary[0])
	assert.Equal(t, SalaryLine{Field: payroll.FieldNetSalary, Value: "900000"}, resp.Salary[9])
}

func TestGetEmployeeErrors(t *testing.T) {
	tests := []struct {
		name    string
		records []payroll.Record
		path    string
		status  int
		code    string
	}{
		{"not found", []payroll.Record{ali()}, "/api/employees/77", http.StatusNotFound, "RECORD_NOT_FOUND"},
		{"blank id", []payroll.Record{ali()}, "/api/employees/%20", http.StatusBadRequest, "INVALID_INPUT"},
		{"no dataset", nil, "/api/employees/1023", http.StatusServiceUnavailable, "DATA_UNAVAILABLE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAPI(t, tt.records...)
			w := a.do(httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decodeError(t, w).Code)
		})
	}
}

func TestGetSlip(t *testing.T) {
	a := newTestAPI(t, ali())
	a.renderer.On("Render", mock.MatchedBy(func(r payroll.Record) bool { return r.ID() == "1023" })).
		Return(payroll.NewDocument("1023", []byte("%PDF-1.3 test")), nil)

	w := a.do(httptest.NewRequest(http.MethodGet, "/api/employees/1023/slip", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, payroll.ContentTypePDF, w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Salary_1023.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.3 test", w.Body.String())
	a.renderer.AssertExpectations(t)
}

func TestGetSlipMissingFont(t *testing.T) {
	a := newTestAPI(t, ali())
	a.renderer.On("Render", mock.Anything).
		Return(nil, core.NewMissingFontError("font.ttf", assert.AnError))

	w := a.do(httptest.NewRequest(http.MethodGet, "/api/employees/1023/slip", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	detail := decodeError(t, w)
	assert.Equal(t, "MISSING_FONT", detail.Code)
	assert.Contains(t, detail.Message, "ملف الخط غير موجود")
}

func TestReplaceDatasetRequiresPassword(t *testing.T) {
	data, err := excel.Encode(headers, []payroll.Record{{payroll.ColumnID: "7", payroll.ColumnName: "Omar"}})
	require.NoError(t, err)

	for _, pw := range []string{"", "wrong"} {
		a := newTestAPI(t, ali())
		w := a.do(datasetRequest(t, pw, "salary.xlsx", data))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "UNAUTHORIZED", decodeError(t, w).Code)
		assert.Empty(t, a.store.Raw(), "dataset must be unchanged")
		_, _, ok := a.blobs.Get("salary_data.xlsx")
		assert.False(t, ok)
	}
}

func TestReplaceDataset(t *testing.T) {
	a := newTestAPI(t, ali())
	csv := "\ufeff" + payroll.ColumnID + "," + payroll.ColumnName + "\n7.0,Omar\n"

	w := a.do(datasetRequest(t, password, "salary.csv", []byte(csv)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := w.Body.Bytes()
	assert.Equal(t, int64(1), gjson.GetBytes(body, "records").Int())
	assert.True(t, gjson.GetBytes(body, "mirrored").Bool())
	assert.True(t, gjson.GetBytes(body, "created").Bool())
	assert.Equal(t, payrollsvc.StatNotFound, gjson.GetBytes(body, "stat_failure").String())
	assert.Equal(t, "memory", gjson.GetBytes(body, "mirror").String())
	assert.False(t, gjson.GetBytes(body, "mirror_error").Exists())

	w = a.do(httptest.NewRequest(http.MethodGet, "/api/employees/7", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReplaceDatasetRejectsUnparseable(t *testing.T) {
	a := newTestAPI(t, ali())

	w := a.do(datasetRequest(t, password, "salary.xlsx", []byte("garbage")))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "UPLOAD_FAILURE", decodeError(t, w).Code)
	assert.Empty(t, a.store.Raw())
}

func TestSummary(t *testing.T) {
	a := newTestAPI(t, ali(), payroll.Record{payroll.ColumnID: "2", payroll.ColumnName: "Sara", payroll.FieldNetSalary: "100000"})

	req := httptest.NewRequest(http.MethodGet, "/api/dataset/summary", nil)
	w := a.do(req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/dataset/summary", nil)
	req.Header.Set(AdminHeader, password)
	w = a.do(req)
	require.Equal(t, http.StatusOK, w.Code)

	var summary payrollsvc.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 2, summary.Records)
	require.NotNil(t, summary.NetSalary)
	assert.InDelta(t, 1000000, summary.NetSalary.Sum, 0.001)
	assert.Equal(t, "no-cache, no-store, no-transform, must-revalidate, private, max-age=0", w.Header().Get("Cache-Control"))
}

func TestHealth(t *testing.T) {
	w := newTestAPI(t, ali()).do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = newTestAPI(t).do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
