// config.go - Startup configuration for image-drop.
//
// The config struct is built once in main from the environment and passed
// down explicitly; nothing reads environment variables at request time.
package server

import (
	"fmt"
	"strings"
)

// DefaultAuthKey is the placeholder shared secret. Running with it is a
// deployment misconfiguration, not a security control; startup logs a
// warning but does not refuse to run.
const DefaultAuthKey = "change-me"

// Config holds everything the server needs, resolved at startup.
type Config struct {
	Addr        string // listen address, e.g. ":8080"
	StorageDir  string // flat directory holding all stored images
	RequireAuth bool   // gate mutating routes behind the shared key
	AuthKey     string // shared secret for the auth gate
	ReadOnly    bool   // serve-only mode: health/list/static, no mutation
	Version     string // reported by /metrics
}

// ConfigValidationError represents a single configuration problem.
type ConfigValidationError struct {
	Field   string
	Message string
}

func (e ConfigValidationError) Error() string {
	return fmt.Sprintf("config validation failed for %s: %s", e.Field, e.Message)
}

// ConfigValidator collects configuration errors so startup can report all
// of them at once instead of failing one variable at a time.
type ConfigValidator struct {
	errors []ConfigValidationError
}

// AddError records a validation error.
func (v *ConfigValidator) AddError(field, message string) {
	v.errors = append(v.errors, ConfigValidationError{Field: field, Message: message})
}

// HasErrors returns true if any validation error was recorded.
func (v *ConfigValidator) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors returns all recorded validation errors.
func (v *ConfigValidator) Errors() []ConfigValidationError {
	return v.errors
}

// ErrorString returns a formatted summary of all errors.
func (v *ConfigValidator) ErrorString() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d error(s):\n", len(v.errors)))
	for i, err := range v.errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Validate checks the config and returns a validator holding any problems.
func (c Config) Validate() *ConfigValidator {
	v := &ConfigValidator{}

	if c.Addr == "" {
		v.AddError("IMGD_ADDR", "listen address must not be empty")
	} else if !strings.Contains(c.Addr, ":") {
		v.AddError("IMGD_ADDR", fmt.Sprintf("%q is not a host:port address", c.Addr))
	}

	if c.StorageDir == "" {
		v.AddError("IMGD_STORAGE_DIR", "storage directory must not be empty")
	}

	if c.RequireAuth && !c.ReadOnly && c.AuthKey == "" {
		v.AddError("IMGD_AUTH_KEY", "auth is required but no key is configured")
	}

	return v
}

// UsesPlaceholderKey reports whether the gate is active with the well-known
// placeholder secret.
func (c Config) UsesPlaceholderKey() bool {
	return c.RequireAuth && !c.ReadOnly && c.AuthKey == DefaultAuthKey
}
