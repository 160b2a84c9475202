package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/device-loans/pkg/core/weights"
)

// EnvPrefix is the prefix of environment overrides, e.g. LOANS_DATABASE_URL.
// A double underscore descends into a section: LOANS_DEFAULT_WEIGHTS__AGE.
const EnvPrefix = "LOANS_"

// ErrConfigNotFound is returned when no config file exists for the environment
var ErrConfigNotFound = errors.New("config file not found in current directory or home directory")

// SheetsConfig points at the registration and publishing spreadsheet
type SheetsConfig struct {
	ServiceAccountFile string `yaml:"service_account_file,omitempty" koanf:"service_account_file" validate:"required_with=SpreadsheetID"`
	SpreadsheetID      string `yaml:"spreadsheet_id,omitempty" koanf:"spreadsheet_id"`
	ApplicantsTab      string `yaml:"applicants_tab" koanf:"applicants_tab" validate:"required"`
	AssignmentsTab     string `yaml:"assignments_tab" koanf:"assignments_tab" validate:"required"`
}

// Enabled reports whether a spreadsheet is configured
func (s SheetsConfig) Enabled() bool {
	return s.SpreadsheetID != ""
}

// Config represents the application configuration
type Config struct {
	DatabaseURL       string                `yaml:"database_url" koanf:"database_url" validate:"required"`
	DailyCapacity     int                   `yaml:"daily_capacity" koanf:"daily_capacity" validate:"min=1"`
	AppointmentRRule  string                `yaml:"appointment_rrule,omitempty" koanf:"appointment_rrule"`
	ReleaseOnDelivery bool                  `yaml:"release_on_delivery" koanf:"release_on_delivery"`
	DefaultWeights    weights.GlobalWeights `yaml:"default_weights" koanf:"default_weights"`
	Sheets            SheetsConfig          `yaml:"sheets" koanf:"sheets"`
	MetricsFile       string                `yaml:"metrics_file,omitempty" koanf:"metrics_file"`
	LogDir            string                `yaml:"log_dir" koanf:"log_dir" validate:"required"`
}

// Default returns a Config with every optional field filled in
func Default() *Config {
	return &Config{
		DailyCapacity:  5,
		DefaultWeights: weights.DefaultGlobalWeights,
		Sheets: SheetsConfig{
			ApplicantsTab:  "applicants",
			AssignmentsTab: "assignments",
		},
		LogDir: "logs",
	}
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// FileName is the config file looked up for an environment
func FileName(env string) string {
	return fmt.Sprintf("device_loans_config.%s.yaml", env)
}

// Load loads and validates the configuration for env.
// It looks for the config file in the current directory first, then in the user's home directory.
// Without a file the configuration comes from defaults and environment variables alone.
func Load(env string) (*Config, error) {
	configPath, err := findConfigFile(FileName(env))
	if err != nil && !errors.Is(err, ErrConfigNotFound) {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath layers defaults, the YAML file at path (skipped when empty) and
// LOANS_ environment variables, then validates the result
func LoadFromPath(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), kyaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// envKey maps LOANS_DEFAULT_WEIGHTS__AGE to default_weights.age
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.AppointmentRRule != "" {
		if _, err := rrule.StrToRRule(cfg.AppointmentRRule); err != nil {
			return fmt.Errorf("invalid appointment_rrule: %w", err)
		}
	}

	return nil
}

// Write renders cfg as YAML at path. Existing files are not overwritten.
func Write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// findConfigFile searches for name in the current directory and the home directory
func findConfigFile(name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, name)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", ErrConfigNotFound
}
