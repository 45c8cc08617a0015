package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/profitcalc/profitcalc/internal/profit"
)

// FileName is the default config file name.
const FileName = "profitcalc.yaml"

// EnvPrefix prefixes environment overrides, e.g. PROFITCALC_LOGGING_LEVEL.
const EnvPrefix = "PROFITCALC"

// Config represents the top-level profitcalc.yaml configuration.
type Config struct {
	Rules   RulesConfig   `yaml:"rules" envconfig:"RULES"`
	Output  OutputConfig  `yaml:"output" envconfig:"OUTPUT"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Server  ServerConfig  `yaml:"server" envconfig:"SERVER"`
}

// RulesConfig controls deposit/withdrawal classification.
type RulesConfig struct {
	BalanceType      string `yaml:"balance_type" envconfig:"BALANCE_TYPE" validate:"required"`
	DepositMarker    string `yaml:"deposit_marker" envconfig:"DEPOSIT_MARKER" validate:"required"`
	WithdrawalMarker string `yaml:"withdrawal_marker" envconfig:"WITHDRAWAL_MARKER" validate:"required,nefield=DepositMarker"`
	IgnoreCase       bool   `yaml:"ignore_case" envconfig:"IGNORE_CASE"`
}

// OutputConfig controls how results are rendered on the command line.
type OutputConfig struct {
	Format string `yaml:"format" envconfig:"FORMAT" validate:"oneof=text json"`
}

// LoggingConfig controls the slog logger.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT" validate:"oneof=text json"`
}

// ServerConfig controls the HTTP upload server.
type ServerConfig struct {
	Addr           string `yaml:"addr" envconfig:"ADDR" validate:"required"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES" validate:"gt=0"`
}

// CalculatorRules converts the rules section into calculator rules.
func (c *Config) CalculatorRules() profit.Rules {
	return profit.Rules{
		BalanceType:      c.Rules.BalanceType,
		DepositMarker:    c.Rules.DepositMarker,
		WithdrawalMarker: c.Rules.WithdrawalMarker,
		IgnoreCase:       c.Rules.IgnoreCase,
	}
}

// Default returns a Config with the standard classification rules.
func Default() *Config {
	rules := profit.DefaultRules()
	return &Config{
		Rules: RulesConfig{
			BalanceType:      rules.BalanceType,
			DepositMarker:    rules.DepositMarker,
			WithdrawalMarker: rules.WithdrawalMarker,
			IgnoreCase:       rules.IgnoreCase,
		},
		Output: OutputConfig{
			Format: "text",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr:           ":8080",
			MaxUploadBytes: 10 << 20,
		},
	}
}

// Load reads a profitcalc.yaml file from disk on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Resolve builds the effective configuration: defaults, then the YAML file
// at path (skipped when it does not exist and optional is true), then .env,
// then PROFITCALC_* environment variables. The result is validated.
func Resolve(path string, optional bool) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if !optional || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		cfg = Default()
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("applying environment: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(validateRules, RulesConfig{})
	return v
}

// validateRules rejects markers that only differ in case when matching
// ignores case.
func validateRules(sl validator.StructLevel) {
	rules := sl.Current().Interface().(RulesConfig)
	if rules.IgnoreCase && strings.EqualFold(rules.DepositMarker, rules.WithdrawalMarker) {
		sl.ReportError(rules.WithdrawalMarker, "WithdrawalMarker", "WithdrawalMarker", "nefoldfield", "DepositMarker")
	}
}

// Validate checks field constraints.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
