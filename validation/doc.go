// Package validation provides configuration validation for modkit.
//
// It supports both struct tag validation (using the validator library) and
// programmatic validation with error collection. Failures are reported as
// INVALID_CONFIG errors whose details carry one entry per field.
//
// # Struct Tag Validation
//
//	type Settings struct {
//	    Namespace string        `json:"namespace" validate:"required"`
//	    Timeout   time.Duration `json:"timeout" validate:"gt=0"`
//	}
//	err := validation.Validate(settings)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Required("name", name).NoWhitespace("name", name)
//	if err := v.Validate(); err != nil { ... }
package validation
