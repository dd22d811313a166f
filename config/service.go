package config

import (
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/kbukum/modkit/logger"
	"github.com/kbukum/modkit/observability"
	"github.com/kbukum/modkit/validation"
)

// Defaults for RuntimeConfig.
const (
	DefaultNamespace        = "modkit.module"
	DefaultReadinessTimeout = 5 * time.Minute
	DefaultPollInterval     = time.Second
	DefaultMaxPollInterval  = 10 * time.Second
)

// ServiceConfig contains the configuration of a process hosting the runtime.
//
// Example config.yml:
//
//	name: graph-host
//	environment: production
//	logging:
//	  level: info
//	  format: json
//	runtime:
//	  namespace: modkit.module
//	  readiness_timeout: 5m
//	  modules_file: ./modules.properties
//	status:
//	  enabled: true
//	  addr: ":8081"
type ServiceConfig struct {
	Name        string               `yaml:"name" mapstructure:"name" json:"name" validate:"required"`
	Environment string               `yaml:"environment" mapstructure:"environment" json:"environment" validate:"oneof=development staging production"`
	Version     string               `yaml:"version" mapstructure:"version" json:"version"`
	Debug       bool                 `yaml:"debug" mapstructure:"debug" json:"debug"`
	Logging     logger.Config        `yaml:"logging" mapstructure:"logging" json:"logging"`
	Runtime     RuntimeConfig        `yaml:"runtime" mapstructure:"runtime" json:"runtime"`
	Telemetry   observability.Config `yaml:"telemetry" mapstructure:"telemetry" json:"telemetry"`
	Status      StatusConfig         `yaml:"status" mapstructure:"status" json:"status"`
}

// StatusConfig controls the HTTP status endpoint.
type StatusConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled" json:"enabled"`
	Addr    string `yaml:"addr" mapstructure:"addr" json:"addr"`
}

// ApplyDefaults applies default values to the service configuration.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	c.Logging.ApplyDefaults()
	c.Runtime.ApplyDefaults()
	c.Telemetry.ApplyDefaults()
	if c.Status.Addr == "" {
		c.Status.Addr = ":8081"
	}
}

// Validate validates the service configuration.
func (c *ServiceConfig) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return c.Runtime.Validate()
}

// RuntimeConfig controls module discovery and the start of the runtime.
type RuntimeConfig struct {
	// Namespace prefixes every module key: <namespace>.<id>.<order> and <namespace>.<id>.<key>.
	Namespace string `yaml:"namespace" mapstructure:"namespace" json:"namespace" validate:"required"`
	// EnabledKey gates the bootstrap; defaults to <namespace>.enabled.
	EnabledKey string `yaml:"enabled_key" mapstructure:"enabled_key" json:"enabled_key" validate:"required"`
	// ReadinessTimeout bounds the wait for the host to become available.
	ReadinessTimeout time.Duration `yaml:"readiness_timeout" mapstructure:"readiness_timeout" json:"readiness_timeout" validate:"gt=0"`
	// PollInterval is the first delay between readiness checks.
	PollInterval time.Duration `yaml:"poll_interval" mapstructure:"poll_interval" json:"poll_interval" validate:"gt=0"`
	// MaxPollInterval caps the backoff between readiness checks.
	MaxPollInterval time.Duration `yaml:"max_poll_interval" mapstructure:"max_poll_interval" json:"max_poll_interval" validate:"gtefield=PollInterval"`
	// ModulesFile is the flat key/value file modules are discovered from.
	ModulesFile string `yaml:"modules_file" mapstructure:"modules_file" json:"modules_file"`
}

// ApplyDefaults fills unset fields.
func (c *RuntimeConfig) ApplyDefaults() {
	if c.Namespace == "" {
		c.Namespace = DefaultNamespace
	}
	if c.EnabledKey == "" {
		c.EnabledKey = c.Namespace + ".enabled"
	}
	if c.ReadinessTimeout <= 0 {
		c.ReadinessTimeout = DefaultReadinessTimeout
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.MaxPollInterval <= 0 {
		c.MaxPollInterval = max(DefaultMaxPollInterval, c.PollInterval)
	}
}

// Validate checks the settings after defaults are applied.
func (c *RuntimeConfig) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	segmented := !strings.ContainsFunc(c.Namespace, unicode.IsSpace) &&
		!slices.Contains(strings.Split(c.Namespace, "."), "")
	v := validation.New().
		Custom(segmented, "namespace", "must be dot-separated segments without whitespace or empty parts").
		Custom(c.EnabledKey != "" && !strings.ContainsFunc(c.EnabledKey, unicode.IsSpace),
			"enabled_key", "must not contain whitespace")
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// DefaultRuntimeConfig returns a RuntimeConfig with every default applied.
func DefaultRuntimeConfig() RuntimeConfig {
	var c RuntimeConfig
	c.ApplyDefaults()
	return c
}
