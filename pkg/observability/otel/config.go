package otel

import (
	"fmt"
)

// Exporter names accepted by Config.Exporter
const (
	ExporterJaeger = "jaeger"
	ExporterZipkin = "zipkin"
	ExporterStdout = "stdout"
	ExporterNone   = "none"
)

// Config configures OpenTelemetry
type Config struct {
	// ServiceName is the name of the service
	ServiceName string `yaml:"service_name" json:"service_name"`

	// ServiceVersion is the version of the service
	ServiceVersion string `yaml:"service_version" json:"service_version"`

	// Exporter is the exporter type: "jaeger", "zipkin", "stdout", "none"
	Exporter string `yaml:"exporter" json:"exporter"`

	// Endpoint is the exporter endpoint URL
	Endpoint string `yaml:"endpoint" json:"endpoint"`

	// Environment is the deployment environment (dev, staging, prod)
	Environment string `yaml:"environment" json:"environment"`

	// SampleRate is the sampling rate (0.0 to 1.0)
	SampleRate float64 `yaml:"sample_rate" json:"sample_rate"`
}

// DefaultConfig returns a default OpenTelemetry configuration.
// Tracing is off until an exporter is chosen.
func DefaultConfig() Config {
	return Config{
		ServiceName:    "webpool",
		ServiceVersion: "1.0.0",
		Exporter:       ExporterNone,
		Environment:    "development",
		SampleRate:     1.0,
	}
}

// Validate validates the configuration
func (c Config) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("service name cannot be empty")
	}
	if c.SampleRate < 0.0 || c.SampleRate > 1.0 {
		return fmt.Errorf("sample rate must be between 0.0 and 1.0")
	}
	switch c.Exporter {
	case ExporterJaeger, ExporterZipkin, ExporterStdout, ExporterNone:
	default:
		return fmt.Errorf("unsupported exporter: %q", c.Exporter)
	}
	return nil
}
