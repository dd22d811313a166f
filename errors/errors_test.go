package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestAppError_New(t *testing.T) {
	err := New(ErrCodeFactoryNotFound, "missing")
	if err.Code != ErrCodeFactoryNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeFactoryNotFound, err.Code)
	}
	if err.Message != "missing" {
		t.Errorf("expected message 'missing', got %q", err.Message)
	}
	if err.Retryable {
		t.Error("FACTORY_NOT_FOUND should not be retryable")
	}
}

func TestAppError_Constructors_Table(t *testing.T) {
	cause := fmt.Errorf("boom")
	tests := []struct {
		name      string
		err       *AppError
		code      ErrorCode
		retryable bool
	}{
		{"InvalidConfig", InvalidConfig("namespace is required"), ErrCodeInvalidConfig, false},
		{"AlreadyBootstrapped", AlreadyBootstrapped(), ErrCodeAlreadyBootstrapped, false},
		{"FactoryNotFound", FactoryNotFound("com.acme.Missing"), ErrCodeFactoryNotFound, false},
		{"FactoryConstruction", FactoryConstruction("com.acme.Broken", cause), ErrCodeFactoryConstruction, false},
		{"ModuleBuild", ModuleBuild("A", "com.acme.A", cause), ErrCodeModuleBuild, false},
		{"ModuleRegistration", ModuleRegistration("A", cause), ErrCodeModuleRegistration, false},
		{"ReadinessTimeout", ReadinessTimeout(5 * time.Minute), ErrCodeReadinessTimeout, true},
		{"RuntimeStart", RuntimeStart(cause), ErrCodeRuntimeStart, true},
		{"Internal", Internal(cause), ErrCodeInternal, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.code {
				t.Errorf("expected code %s, got %s", tc.code, tc.err.Code)
			}
			if tc.err.Retryable != tc.retryable {
				t.Errorf("expected retryable=%v, got %v", tc.retryable, tc.err.Retryable)
			}
			if !strings.Contains(tc.err.Error(), string(tc.code)) {
				t.Errorf("expected Error() to contain code, got %q", tc.err.Error())
			}
		})
	}
}

func TestAppError_Details(t *testing.T) {
	err := ModuleBuild("A", "com.acme.A", nil)
	if err.Details["module_id"] != "A" {
		t.Errorf("expected module_id=A, got %v", err.Details["module_id"])
	}
	if err.Details["factory"] != "com.acme.A" {
		t.Errorf("expected factory detail, got %v", err.Details["factory"])
	}

	err.WithDetail("module_id", "B")
	if err.Details["module_id"] != "B" {
		t.Error("expected WithDetail to overwrite")
	}

	empty := &AppError{}
	empty.WithDetail("key", "value")
	if empty.Details["key"] != "value" {
		t.Errorf("expected key=value, got %v", empty.Details["key"])
	}
}

func TestAppError_ReadinessTimeoutMessage(t *testing.T) {
	err := ReadinessTimeout(5 * time.Minute)
	if !strings.Contains(err.Message, "5m0s") {
		t.Errorf("expected timeout in message, got %q", err.Message)
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("underlying")
	err := FactoryConstruction("ref", cause)
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should reach the cause")
	}
	if !strings.Contains(err.Error(), "underlying") {
		t.Errorf("Error() should contain cause, got %q", err.Error())
	}
	if FactoryNotFound("x").Unwrap() != nil {
		t.Error("Unwrap should return nil when no cause")
	}
}

func TestAsAppErrorAndIsCode(t *testing.T) {
	appErr := FactoryNotFound("x")
	wrapped := fmt.Errorf("wrap: %w", appErr)

	got, ok := AsAppError(wrapped)
	if !ok || got != appErr {
		t.Fatal("expected AsAppError to unwrap the AppError")
	}
	if !IsCode(wrapped, ErrCodeFactoryNotFound) {
		t.Error("expected IsCode to match wrapped code")
	}
	if IsCode(wrapped, ErrCodeModuleBuild) {
		t.Error("expected IsCode to reject other codes")
	}
	if IsCode(fmt.Errorf("plain"), ErrCodeInternal) {
		t.Error("expected IsCode to reject plain errors")
	}
}

func TestBodyOf(t *testing.T) {
	body := BodyOf(ModuleBuild("A", "ref", fmt.Errorf("boom")))
	if body.Code != ErrCodeModuleBuild {
		t.Errorf("expected MODULE_BUILD_FAILED, got %s", body.Code)
	}
	if body.Cause != "boom" {
		t.Errorf("expected cause 'boom', got %q", body.Cause)
	}

	plain := BodyOf(fmt.Errorf("plain"))
	if plain.Code != ErrCodeInternal || plain.Cause != "plain" {
		t.Errorf("expected internal body with cause, got %+v", plain)
	}
}
