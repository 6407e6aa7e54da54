package api

import (
	"encoding/json"
	"net/http"

	apperrors "payslip/internal/errors"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError classifies err and replies with its status, code and the
// user-facing message.
func writeError(w http.ResponseWriter, err error) {
	appErr := apperrors.FromDomain(err)
	writeJSON(w, apperrors.HTTPStatus(err), errorBody{Error: errorDetail{
		Code:    appErr.Code,
		Message: apperrors.UserMessage(err),
	}})
}
