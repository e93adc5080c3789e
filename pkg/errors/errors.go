package errors

import "fmt"

// Error codes
const (
	CodeSuccess         = 200
	CodeBadRequest      = 400
	CodeNotFound        = 404
	CodeConflict        = 409
	CodeMalformedInput  = 422 // report XML has neither testsuites nor testsuite root
	CodeInternalError   = 500
	CodeDatabaseError   = 501
	CodeValidationError = 503
)

// AppError application error
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new error
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an underlying error
func Wrap(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Predefined errors
var (
	ErrBadRequest      = New(CodeBadRequest, "invalid request parameters")
	ErrNotFound        = New(CodeNotFound, "resource not found")
	ErrConflict        = New(CodeConflict, "resource conflict")
	ErrInternalError   = New(CodeInternalError, "internal server error")
	ErrDatabaseError   = New(CodeDatabaseError, "database error")
	ErrValidationError = New(CodeValidationError, "data validation failed")

	ErrRecordNotFound  = New(CodeNotFound, "record not found")
	ErrRecordExists    = New(CodeConflict, "record already exists")
	ErrMalformedReport = New(CodeMalformedInput, "report XML has no testsuites or testsuite root element")
	ErrRunNotFound     = New(CodeNotFound, "test run not found")
	ErrUploadNotFound  = New(CodeNotFound, "file upload not found")
)
