package core

import "fmt"

type ErrorCode string

const (
	ErrBadRequest         ErrorCode = "CAT_BAD_REQUEST"
	ErrUnauthorized       ErrorCode = "CAT_UNAUTHORIZED"
	ErrForbidden          ErrorCode = "CAT_FORBIDDEN"
	ErrNotFound           ErrorCode = "CAT_NOT_FOUND"
	ErrMethodNotAllowed   ErrorCode = "CAT_METHOD_NOT_ALLOWED"
	ErrConflictExists     ErrorCode = "CAT_CONFLICT_EXISTS"
	ErrUnsupportedMedia   ErrorCode = "CAT_UNSUPPORTED_MEDIA"
	ErrPayloadTooLarge    ErrorCode = "CAT_PAYLOAD_TOO_LARGE"
	ErrInternal           ErrorCode = "CAT_INTERNAL"
	ErrStorageUnavailable ErrorCode = "CAT_STORAGE_UNAVAILABLE"
)

// HTTPStatus returns the HTTP status code for this error code.
func (e ErrorCode) HTTPStatus() int {
	switch e {
	case ErrBadRequest:
		return 400
	case ErrUnauthorized:
		return 401
	case ErrForbidden:
		return 403
	case ErrNotFound:
		return 404
	case ErrMethodNotAllowed:
		return 405
	case ErrConflictExists:
		return 409
	case ErrPayloadTooLarge:
		return 413
	case ErrUnsupportedMedia:
		return 415
	case ErrStorageUnavailable:
		return 503
	default:
		return 500
	}
}

type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAppError(code ErrorCode, msg string) *AppError {
	return &AppError{Code: code, Message: msg}
}
