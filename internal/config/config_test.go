package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := InitializeConfig()
	require.NoError(t, err)
	return cfg
}

func TestInitializeConfigDefaults(t *testing.T) {
	cfg := defaultConfig(t)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, ",", cfg.CSV.Delimiter)
	assert.Equal(t, 3, cfg.Matching.DayTolerance)
	assert.InDelta(t, 0.01, cfg.Matching.AmountEpsilon, 1e-9)
	assert.Equal(t, 80, cfg.Matching.TextThreshold)
	assert.Equal(t, "json", cfg.Report.Format)

	profile, ok := cfg.Banks["generic"]
	require.True(t, ok, "generic bank profile must exist")
	assert.Equal(t, "Date", profile.DateColumn)
	assert.Equal(t, "Description", profile.DescriptionColumn)
	assert.Equal(t, "Amount", profile.AmountColumn)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"Valid defaults", func(c *Config) {}, ""},
		{"Bad log level", func(c *Config) { c.Log.Level = "loud" }, "invalid log level"},
		{"Bad log format", func(c *Config) { c.Log.Format = "xml" }, "invalid log format"},
		{"Multi-char delimiter", func(c *Config) { c.CSV.Delimiter = ";;" }, "delimiter"},
		{"Negative day tolerance", func(c *Config) { c.Matching.DayTolerance = -1 }, "day_tolerance"},
		{"Zero epsilon", func(c *Config) { c.Matching.AmountEpsilon = 0 }, "amount_epsilon"},
		{"Threshold above 100", func(c *Config) { c.Matching.TextThreshold = 101 }, "text_threshold"},
		{"Bad report format", func(c *Config) { c.Report.Format = "pdf" }, "report format"},
		{"Incomplete bank profile", func(c *Config) {
			c.Banks["broken"] = BankProfile{DateColumn: "Date"}
		}, "bank profile"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig(t)
			tc.mutate(cfg)
			err := validateConfig(cfg)
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}

func TestProfileLookup(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Banks["bna"] = BankProfile{DateColumn: "Data", DescriptionColumn: "Historico", AmountColumn: "Valor"}

	profile, err := cfg.Profile("")
	require.NoError(t, err)
	assert.Equal(t, "Date", profile.DateColumn)

	profile, err = cfg.Profile("BNA")
	require.NoError(t, err)
	assert.Equal(t, "Historico", profile.DescriptionColumn)

	_, err = cfg.Profile("unknown-bank")
	assert.ErrorContains(t, err, "unknown bank profile")
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Log.Level = "debug"
	cfg.Log.Format = "json"

	logger := ConfigureLoggingFromConfig(cfg)
	assert.Equal(t, "debug", logger.GetLevel().String())
}
