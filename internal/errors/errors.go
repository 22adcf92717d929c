package errors

import "fmt"

type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code, message string, cause ...error) *AppError {
	var c error
	if len(cause) > 0 {
		c = cause[0]
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   c,
	}
}

var (
	ErrConfigNotFound = &AppError{Code: "CONFIG_001", Message: "configuration not found"}
	ErrConfigInvalid  = &AppError{Code: "CONFIG_002", Message: "invalid configuration"}

	ErrRecordNotFound = &AppError{Code: "STORE_001", Message: "record not found"}
	ErrStoreClosed    = &AppError{Code: "STORE_002", Message: "store closed"}

	ErrWeightsCorrupted   = &AppError{Code: "WEIGHTS_001", Message: "persisted weights corrupted"}
	ErrWeightsUnavailable = &AppError{Code: "WEIGHTS_002", Message: "weights store unavailable"}

	ErrLinkNotFound = &AppError{Code: "LINK_001", Message: "caregiver link not found"}
	ErrLinkExists   = &AppError{Code: "LINK_002", Message: "caregiver link already exists"}

	ErrNotifierNotConfigured = &AppError{Code: "NOTIFY_001", Message: "notifier not configured"}
	ErrNotifierUnavailable   = &AppError{Code: "NOTIFY_002", Message: "notifier unavailable"}

	ErrUnauthorized = &AppError{Code: "AUTH_001", Message: "unauthorized"}
	ErrForbidden    = &AppError{Code: "AUTH_002", Message: "forbidden"}

	ErrNotFound   = &AppError{Code: "GEN_001", Message: "resource not found"}
	ErrBadRequest = &AppError{Code: "GEN_002", Message: "bad request"}
	ErrInternal   = &AppError{Code: "GEN_003", Message: "internal error"}
)

func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}
