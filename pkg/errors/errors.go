package errors

import "errors"

// Codes shared between the domain services and the HTTP layer.
const (
	CodeInvalidInput    = "invalid_input"
	CodeLLM             = "llm_error"
	CodeStorage         = "storage_error"
	CodeRepository      = "repository_error"
	CodeInvalidToken    = "invalid_token"
	CodeForbidden       = "forbidden"
	CodeExport          = "export_error"
	CodeTokenIssue      = "token_error"
	CodeUnsupportedFile = "unsupported_file"
	CodeConflict        = "conflict"
)

// AppError encodes domain specific error details.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Wrap produces a new AppError instance.
func Wrap(code, message string, err error) error {
	if err == nil {
		return &AppError{Code: code, Message: message}
	}
	return &AppError{Code: code, Message: message, Err: err}
}

// IsCode helps handler differentiate failures.
func IsCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// MessageOf returns the client facing message of an AppError, or "" for foreign errors.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return ""
}
