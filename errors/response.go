package errors

import (
	stderrors "errors"
)

// ErrorBody is the JSON form of an AppError used by status endpoints.
type ErrorBody struct {
	Code      ErrorCode      `json:"code"`
	Message   string         `json:"message"`
	Retryable bool           `json:"retryable"`
	Details   map[string]any `json:"details,omitempty"`
	Cause     string         `json:"cause,omitempty"`
}

// ToBody converts an AppError to its JSON body.
func (e *AppError) ToBody() ErrorBody {
	body := ErrorBody{
		Code:      e.Code,
		Message:   e.Message,
		Retryable: e.Retryable,
		Details:   e.Details,
	}
	if e.Cause != nil {
		body.Cause = e.Cause.Error()
	}
	return body
}

// BodyOf converts any error to an ErrorBody, wrapping foreign errors as internal.
func BodyOf(err error) ErrorBody {
	if appErr, ok := AsAppError(err); ok {
		return appErr.ToBody()
	}
	return Internal(err).ToBody()
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether err is an AppError carrying code.
func IsCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}
