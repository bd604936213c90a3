package analyze

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/mjp2ff/aid-sub000/internal"
	"github.com/mjp2ff/aid-sub000/internal/analysis/condition"
	"github.com/mjp2ff/aid-sub000/internal/analysis/paths"
	"github.com/mjp2ff/aid-sub000/internal/frontend"
)

// DefaultConfigFile is the configuration file looked up when none is given.
const DefaultConfigFile = ".aid.yaml"

// Limits bound the analysis of a single method.
type Limits struct {
	// MaxPaths caps the paths enumerated per failure point.
	MaxPaths int `yaml:"max_paths" validate:"gte=1,lte=100000"`
	// MaxExpansion caps the products of a success condition.
	MaxExpansion int `yaml:"max_expansion" validate:"gte=1,lte=1000000"`
}

// Config represents the configuration file.
type Config struct {
	Name   string `yaml:"name" validate:"required"`
	Limits Limits `yaml:"limits"`
	// FailureCalls are qualified calls that never return, such as
	// "System.exit" or "log.Fatal".
	FailureCalls []string `yaml:"failure_calls" validate:"dive,required"`
	// Exceptions extends the exception hierarchy, child to parent.
	Exceptions        map[string]string `yaml:"exceptions,omitempty" validate:"dive,keys,required,endkeys,required"`
	IgnoreMethods     []string          `yaml:"ignore_methods,omitempty" validate:"dive,required"`
	IgnorePaths       []string          `yaml:"ignore_paths" validate:"dive,required"`
	KeepAllConditions bool              `yaml:"keep_all_conditions,omitempty"`
	// CacheDir enables the report cache.
	CacheDir string `yaml:"cache_dir,omitempty"`
}

var validate = validator.New()

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Name: "aid",
		Limits: Limits{
			MaxPaths:     paths.DefaultLimit,
			MaxExpansion: condition.DefaultMaxExpansion,
		},
		FailureCalls: []string{
			"System.exit",
			"log.Fatal",
			"log.Fatalf",
			"log.Fatalln",
			"os.Exit",
		},
		IgnorePaths: []string{"vendor/**", "testdata/**"},
	}
}

// LoadConfig reads and validates the configuration at path. Keys absent
// from the file keep their default values; a missing file yields
// DefaultConfig.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return config, fmt.Errorf("error opening configuration: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return config, fmt.Errorf("error parsing configuration %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

// Validate checks the configuration against its field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// WriteConfig writes c to path in YAML.
func WriteConfig(path string, c Config) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("error marshaling configuration: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error writing configuration: %w", err)
	}
	return nil
}

// EngineOptions converts the configuration into engine options.
func (c Config) EngineOptions(logger *zap.Logger) internal.Options {
	return internal.Options{
		Frontend: frontend.Options{
			FailureCalls: c.FailureCalls,
			Exceptions:   c.Exceptions,
		},
		Condition: condition.Options{
			MaxPaths:          c.Limits.MaxPaths,
			MaxExpansion:      c.Limits.MaxExpansion,
			KeepAllConditions: c.KeepAllConditions,
		},
		IgnoreMethods: c.IgnoreMethods,
		IgnorePaths:   c.IgnorePaths,
		CacheDir:      c.CacheDir,
		Logger:        logger,
	}
}
