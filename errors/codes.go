package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Configuration errors
const (
	// ErrCodeInvalidConfig indicates bootstrap settings or the module namespace are unusable.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	// ErrCodeAlreadyBootstrapped indicates a second bootstrap run on the same instance.
	ErrCodeAlreadyBootstrapped ErrorCode = "ALREADY_BOOTSTRAPPED"
)

// Per-module errors, recovered inside the registration loop
const (
	// ErrCodeFactoryNotFound indicates no factory is registered under the declared reference.
	ErrCodeFactoryNotFound ErrorCode = "FACTORY_NOT_FOUND"
	// ErrCodeFactoryConstruction indicates the factory itself could not be constructed.
	ErrCodeFactoryConstruction ErrorCode = "FACTORY_CONSTRUCTION_FAILED"
	// ErrCodeModuleBuild indicates the factory failed to build the module.
	ErrCodeModuleBuild ErrorCode = "MODULE_BUILD_FAILED"
	// ErrCodeModuleRegistration indicates the runtime rejected a built module.
	ErrCodeModuleRegistration ErrorCode = "MODULE_REGISTRATION_FAILED"
)

// Start errors, raised on the readiness path
const (
	// ErrCodeReadinessTimeout indicates the hosted service did not become available in time.
	ErrCodeReadinessTimeout ErrorCode = "READINESS_TIMEOUT"
	// ErrCodeRuntimeStart indicates the runtime failed to start its modules.
	ErrCodeRuntimeStart ErrorCode = "RUNTIME_START_FAILED"
)

// ErrCodeInternal indicates an unexpected failure.
const ErrCodeInternal ErrorCode = "INTERNAL_ERROR"

var retryableCodes = map[ErrorCode]bool{
	ErrCodeReadinessTimeout: true,
	ErrCodeRuntimeStart:     true,
}

// IsRetryableCode reports whether a later bootstrap attempt may succeed
// without a configuration change.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
