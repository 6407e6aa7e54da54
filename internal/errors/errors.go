package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"payslip/domain/core"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeConfigInvalid   = "CONFIG_INVALID"
	CodeDataUnavailable = "DATA_UNAVAILABLE"
	CodeRecordNotFound  = "RECORD_NOT_FOUND"
	CodeMissingFont     = "MISSING_FONT"
	CodeUploadFailure   = "UPLOAD_FAILURE"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeInvalidInput    = "INVALID_INPUT"
	CodeInternalError   = "INTERNAL_ERROR"
)

// User-facing messages, shown verbatim in the portal.
const (
	MsgDataUnavailable = "ملف البيانات غير موجود"
	MsgRecordNotFound  = "رقم وظيفي غير صحيح"
	MsgMissingFont     = "ملف الخط غير موجود! تأكد من رفعه مع الملفات."
	MsgEmptyID         = "الرجاء كتابة الرقم الوظيفي"
	MsgUploadFailure   = "فشل رفع الملف"
	MsgUnauthorized    = "كلمة المرور غير صحيحة"
	MsgInternalPrefix  = "حدث خطأ"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

// FromDomain classifies a domain error into an AppError carrying the
// user-facing message. It returns nil for a nil error.
func FromDomain(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	switch {
	case stderrors.Is(err, core.ErrEmptyID):
		return &AppError{Code: CodeInvalidInput, Message: MsgEmptyID, Cause: err}
	case stderrors.Is(err, core.ErrRecordNotFound):
		return &AppError{Code: CodeRecordNotFound, Message: MsgRecordNotFound, Cause: err}
	case core.IsDataUnavailable(err):
		return &AppError{Code: CodeDataUnavailable, Message: MsgDataUnavailable, Cause: err}
	case core.IsMissingFont(err):
		return &AppError{Code: CodeMissingFont, Message: MsgMissingFont, Cause: err}
	case core.IsInvalidCredential(err):
		return &AppError{Code: CodeUnauthorized, Message: MsgUnauthorized, Cause: err}
	case core.IsUploadFailure(err):
		return &AppError{Code: CodeUploadFailure, Message: MsgUploadFailure, Cause: err}
	default:
		return &AppError{Code: CodeInternalError, Message: MsgInternalPrefix, Cause: err}
	}
}

// UserMessage is the text shown to the operator for err.
func UserMessage(err error) string {
	appErr := FromDomain(err)
	if appErr == nil {
		return ""
	}
	switch appErr.Code {
	case CodeUploadFailure, CodeInternalError:
		if appErr.Cause != nil {
			return fmt.Sprintf("%s: %v", appErr.Message, appErr.Cause)
		}
	}
	return appErr.Message
}

// HTTPStatus maps an error to the status code the HTTP surfaces reply with.
func HTTPStatus(err error) int {
	appErr := FromDomain(err)
	if appErr == nil {
		return http.StatusOK
	}
	switch appErr.Code {
	case CodeInvalidInput:
		return http.StatusBadRequest
	case CodeRecordNotFound:
		return http.StatusNotFound
	case CodeDataUnavailable:
		return http.StatusServiceUnavailable
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeUploadFailure:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
