// Package config provides Viper-based hierarchical configuration management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// BankProfile maps the column headers of one bank's CSV export onto the
// unified date/description/amount columns.
type BankProfile struct {
	DateColumn        string `mapstructure:"date_column" yaml:"date_column"`
	DescriptionColumn string `mapstructure:"description_column" yaml:"description_column"`
	AmountColumn      string `mapstructure:"amount_column" yaml:"amount_column"`
}

// Config represents the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Matching struct {
		DayTolerance  int     `mapstructure:"day_tolerance" yaml:"day_tolerance"`
		AmountEpsilon float64 `mapstructure:"amount_epsilon" yaml:"amount_epsilon"`
		TextThreshold int     `mapstructure:"text_threshold" yaml:"text_threshold"`
	} `mapstructure:"matching" yaml:"matching"`

	Report struct {
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"report" yaml:"report"`

	Audit struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"audit" yaml:"audit"`

	Banks map[string]BankProfile `mapstructure:"banks" yaml:"banks"`
}

// InitializeConfig initializes Viper configuration with hierarchical
// loading: defaults, then an optional config file, then environment
// variables with the RECON prefix.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.recon-csv")
	v.AddConfigPath(".recon-csv")
	v.AddConfigPath(".")

	v.SetEnvPrefix("RECON")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Continue with defaults and env vars; a broken config file
			// should not make the tool unusable.
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", ",")

	v.SetDefault("matching.day_tolerance", 3)
	v.SetDefault("matching.amount_epsilon", 0.01)
	v.SetDefault("matching.text_threshold", 80)

	v.SetDefault("report.format", "json")
	v.SetDefault("audit.file", "audit.yaml")

	// A generic profile covering statements already exported with the
	// unified column names.
	v.SetDefault("banks", map[string]BankProfile{
		"generic": {
			DateColumn:        "Date",
			DescriptionColumn: "Description",
			AmountColumn:      "Amount",
		},
	})
}

// Profile returns the column profile for the named bank. An empty name
// selects the generic profile.
func (c *Config) Profile(name string) (BankProfile, error) {
	if name == "" {
		name = "generic"
	}
	profile, ok := c.Banks[strings.ToLower(name)]
	if !ok {
		return BankProfile{}, fmt.Errorf("unknown bank profile: %s", name)
	}
	return profile, nil
}

// validateConfig validates the configuration values.
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if len(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	if config.Matching.DayTolerance < 0 {
		return fmt.Errorf("matching.day_tolerance must be >= 0, got: %d", config.Matching.DayTolerance)
	}

	if config.Matching.AmountEpsilon <= 0 {
		return fmt.Errorf("matching.amount_epsilon must be > 0, got: %f", config.Matching.AmountEpsilon)
	}

	if config.Matching.TextThreshold < 0 || config.Matching.TextThreshold > 100 {
		return fmt.Errorf("matching.text_threshold must be between 0 and 100, got: %d", config.Matching.TextThreshold)
	}

	if config.Report.Format != "json" && config.Report.Format != "csv" {
		return fmt.Errorf("invalid report format: %s (must be 'json' or 'csv')", config.Report.Format)
	}

	for name, profile := range config.Banks {
		if profile.DateColumn == "" || profile.DescriptionColumn == "" || profile.AmountColumn == "" {
			return fmt.Errorf("bank profile %q must define date, description and amount columns", name)
		}
	}

	return nil
}

// ConfigureLoggingFromConfig configures a logrus logger based on the
// Config struct.
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}

var envOnce sync.Once

// LoadEnv loads environment variables from a .env file if one exists in
// the working directory or the project root.
func LoadEnv() {
	envOnce.Do(func() {
		envFile := ".env"
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			envFile = filepath.Join("..", ".env")
			if _, err := os.Stat(envFile); os.IsNotExist(err) {
				return
			}
		}
		_ = godotenv.Load(envFile)
	})
}
