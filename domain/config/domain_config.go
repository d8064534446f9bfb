package config

import (
	"errors"
	"runtime"
	"time"
)

// DomainConfig holds all configurable business rules and constraints
type DomainConfig struct {
	// Dataset constraints
	MinDataPoints      int
	MaxDataPoints      int
	MaxResponseColumns int
	MaxUploadBytes     int64

	// Fit metadata constraints
	MaxFitNameLength  int
	MaxFitNotesLength int
	MaxListLimit      int
	DefaultListLimit  int

	// Optimiser settings
	MaxIterations         int
	MaxFuncEvaluations    int
	ConvergenceRelative   float64
	ConvergenceIterations int
	SimplexSize           float64

	// Execution limits
	FitTimeout        time.Duration
	MaxConcurrentFits int
	FitCacheTTL       time.Duration

	// Simulation limits
	MaxSimulationPoints int
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		// Dataset constraints
		MinDataPoints:      2,
		MaxDataPoints:      10000,
		MaxResponseColumns: 200,
		MaxUploadBytes:     8 << 20,

		// Fit metadata constraints
		MaxFitNameLength:  200,
		MaxFitNotesLength: 10000,
		MaxListLimit:      100,
		DefaultListLimit:  20,

		// Optimiser settings
		MaxIterations:         2000,
		MaxFuncEvaluations:    10000,
		ConvergenceRelative:   1e-10,
		ConvergenceIterations: 20,
		SimplexSize:           0.25,

		// Execution limits
		FitTimeout:        30 * time.Second,
		MaxConcurrentFits: runtime.NumCPU(),
		FitCacheTTL:       10 * time.Minute,

		// Simulation limits
		MaxSimulationPoints: 1000,
	}
}

// ProductionDomainConfig returns production-specific configuration
func ProductionDomainConfig() *DomainConfig {
	config := DefaultDomainConfig()

	// Tighter limits for shared deployments
	config.MaxDataPoints = 5000
	config.MaxUploadBytes = 4 << 20
	config.FitTimeout = 20 * time.Second
	config.MaxSimulationPoints = 500

	return config
}

// DevelopmentDomainConfig returns development-specific configuration
func DevelopmentDomainConfig() *DomainConfig {
	config := DefaultDomainConfig()

	config.MaxDataPoints = 100000
	config.MaxUploadBytes = 32 << 20
	config.FitTimeout = 2 * time.Minute
	config.FitCacheTTL = time.Minute

	return config
}

// LoadDomainConfig loads domain configuration based on environment
func LoadDomainConfig(environment string) *DomainConfig {
	switch environment {
	case "production":
		return ProductionDomainConfig()
	case "development":
		return DevelopmentDomainConfig()
	default:
		return DefaultDomainConfig()
	}
}

// Validate checks if the configuration is valid
func (c *DomainConfig) Validate() error {
	if c.MinDataPoints < 2 {
		return errors.New("MinDataPoints must be at least 2")
	}
	if c.MaxDataPoints < c.MinDataPoints {
		return errors.New("MaxDataPoints must not be below MinDataPoints")
	}
	if c.MaxResponseColumns < 1 {
		return errors.New("MaxResponseColumns must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("MaxUploadBytes must be positive")
	}
	if c.MaxIterations <= 0 || c.MaxFuncEvaluations <= 0 {
		return errors.New("optimiser limits must be positive")
	}
	if c.FitTimeout <= 0 {
		return errors.New("FitTimeout must be positive")
	}
	if c.MaxConcurrentFits < 1 {
		return errors.New("MaxConcurrentFits must be at least 1")
	}
	if c.DefaultListLimit < 1 || c.DefaultListLimit > c.MaxListLimit {
		return errors.New("DefaultListLimit must be between 1 and MaxListLimit")
	}
	return nil
}
