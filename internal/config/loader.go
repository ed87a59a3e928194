package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// DefaultFile is read when present and no explicit file is given.
	DefaultFile = "stockroom.yaml"

	// DefaultEnvFile is read when present.
	DefaultEnvFile = ".env"

	// EnvPrefix marks environment variables that configure stockroom,
	// e.g. STOCKROOM_STORAGE_STRATEGY=binary.
	EnvPrefix = "STOCKROOM_"
)

// LoadOptions controls where Load looks for settings.
type LoadOptions struct {
	// File is an explicit config file; it must exist. When empty,
	// DefaultFile is used if it exists.
	File string

	// EnvFile defaults to DefaultEnvFile. A missing file is ignored.
	EnvFile string

	// Overrides are flattened keys (e.g. "storage.path") applied last,
	// typically from command-line flags.
	Overrides map[string]any
}

// Load builds the configuration: defaults, then the YAML file, then the
// .env file, then STOCKROOM_* environment variables, then overrides.
func Load(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	// 1. Built-in defaults
	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	// 2. YAML file
	configFile, required := opts.File, true
	if configFile == "" {
		configFile, required = DefaultFile, false
	}
	if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		if required || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load config file %s: %w", configFile, err)
		}
	}

	// 3. .env file
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	envFileMap, err := godotenv.Read(envFile)
	switch {
	case err == nil:
		envMap := make(map[string]any)
		for key, value := range envFileMap {
			if strings.HasPrefix(key, EnvPrefix) {
				envMap[envKey(key)] = value
			}
		}
		if err := k.Load(confmap.Provider(envMap, "."), nil); err != nil {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("read %s: %w", envFile, err)
	}

	// 4. Environment, the highest priority after explicit flags
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	// 5. Command-line overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, fmt.Errorf("load overrides: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// envKey maps STOCKROOM_STORAGE_PATH to storage.path.
func envKey(key string) string {
	key = strings.TrimPrefix(key, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(key), "_", ".")
}

// fileExists is used by callers that want to report which config file was read.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// SourceFile returns the config file Load would read for opts, or "" if none.
func SourceFile(opts LoadOptions) string {
	if opts.File != "" {
		return opts.File
	}
	if fileExists(DefaultFile) {
		return DefaultFile
	}
	return ""
}
