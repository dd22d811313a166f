package errors

import (
	"fmt"
	"time"
)

// AppError is the unified error type of the runtime.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates whether a later attempt may succeed.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// --- Constructors ---

// InvalidConfig creates an error for unusable bootstrap configuration.
func InvalidConfig(message string) *AppError {
	return New(ErrCodeInvalidConfig, message)
}

// AlreadyBootstrapped creates an error for a repeated bootstrap run.
func AlreadyBootstrapped() *AppError {
	return New(ErrCodeAlreadyBootstrapped, "bootstrap has already been run for this runtime")
}

// FactoryNotFound creates an error for an unknown factory reference.
func FactoryNotFound(ref string) *AppError {
	return New(ErrCodeFactoryNotFound, fmt.Sprintf("no factory registered as %q", ref)).
		WithDetail("factory", ref)
}

// FactoryConstruction creates an error for a factory that could not be constructed.
func FactoryConstruction(ref string, cause error) *AppError {
	return New(ErrCodeFactoryConstruction, fmt.Sprintf("unable to construct factory %q", ref)).
		WithDetail("factory", ref).
		WithCause(cause)
}

// ModuleBuild creates an error for a factory that failed to build a module.
func ModuleBuild(id, ref string, cause error) *AppError {
	return New(ErrCodeModuleBuild, fmt.Sprintf("unable to bootstrap module %s", id)).
		WithDetail("module_id", id).
		WithDetail("factory", ref).
		WithCause(cause)
}

// ModuleRegistration creates an error for a module rejected by the runtime.
func ModuleRegistration(id string, cause error) *AppError {
	return New(ErrCodeModuleRegistration, fmt.Sprintf("unable to register module %s", id)).
		WithDetail("module_id", id).
		WithCause(cause)
}

// ReadinessTimeout creates an error for a host that never became available.
func ReadinessTimeout(timeout time.Duration) *AppError {
	return New(ErrCodeReadinessTimeout,
		fmt.Sprintf("could not start runtime because the host didn't get to a usable state within %s", timeout)).
		WithDetail("timeout", timeout.String())
}

// RuntimeStart creates an error for a runtime whose start failed.
func RuntimeStart(cause error) *AppError {
	return New(ErrCodeRuntimeStart, "runtime failed to start").WithCause(cause)
}

// Internal creates an error for an unexpected failure.
func Internal(cause error) *AppError {
	return New(ErrCodeInternal, "an unexpected error occurred").WithCause(cause)
}
