package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDomainConfig(t *testing.T) {
	tests := []struct {
		env         string
		wantPoints  int
		wantTimeout time.Duration
	}{
		{"production", 5000, 20 * time.Second},
		{"development", 100000, 2 * time.Minute},
		{"staging", 10000, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := LoadDomainConfig(tt.env)
			assert.Equal(t, tt.wantPoints, cfg.MaxDataPoints)
			assert.Equal(t, tt.wantTimeout, cfg.FitTimeout)
			assert.NoError(t, cfg.Validate())
		})
	}
}

func TestDomainConfig_Validate(t *testing.T) {
	cfg := DefaultDomainConfig()
	cfg.MaxConcurrentFits = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultDomainConfig()
	cfg.DefaultListLimit = cfg.MaxListLimit + 1
	assert.Error(t, cfg.Validate())
}
