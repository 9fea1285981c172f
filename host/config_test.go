package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
)

func writeConfigFile(t *testing.T, cfg *Config) string {
	t.Helper()

	raw, err := json.Marshal(cfg)
	assert.NoError(t, err)

	path := filepath.Join(t.TempDir(), "config.json")
	assert.NoError(t, os.WriteFile(path, raw, 0o600))
	return path
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	path := writeConfigFile(t, newTestConfig())
	t.Setenv("AUCTIOND_CONFIG", path)

	cfg, err := LoadConfig()
	assert.NoError(t, err)
	check.Equal(t, "Sheep", cfg.Commodity)
	check.Equal(t, uint64(10), cfg.Commission)
}

func TestLoadConfig_MissingEnvVar(t *testing.T) {
	t.Setenv("AUCTIOND_CONFIG", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	t.Setenv("AUCTIOND_CONFIG", filepath.Join(t.TempDir(), "absent.json"))

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestConfigValidate_Defaults(t *testing.T) {
	cfg := newTestConfig()
	cfg.ContractAddress = ""
	cfg.MaxWorkers = 0

	assert.NoError(t, cfg.Validate())
	check.Equal(t, defaultContractAddress, cfg.ContractAddress)
	check.Equal(t, 8, cfg.MaxWorkers)
}

func TestConfigValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing listen", func(c *Config) { c.Listen = "" }},
		{"bad listen scheme", func(c *Config) { c.Listen = "udp:1234" }},
		{"missing creator", func(c *Config) { c.Creator = "" }},
		{"missing commodity", func(c *Config) { c.Commodity = "" }},
		{"missing bid asset", func(c *Config) { c.BidAsset.Denom = "" }},
		{"commission over 100", func(c *Config) { c.Commission = 101 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newTestConfig()
			tt.mutate(cfg)
			check.Error(t, cfg.Validate())
		})
	}
}

func TestAddressValidator(t *testing.T) {
	v := addressValidator{}

	addr, err := v.Validate("  alice  ")
	assert.NoError(t, err)
	check.Equal(t, "alice", addr)

	_, err = v.Validate("")
	check.Error(t, err)

	_, err = v.Validate("alice bob")
	check.Error(t, err)
}
