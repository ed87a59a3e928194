// Package config loads stockroom settings from defaults, a YAML file, a .env
// file, the environment and command-line overrides, in increasing priority.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Config is the effective configuration of one stockroom process.
type Config struct {
	Storage StorageConfig `koanf:"storage" json:"storage"`
	Store   StoreConfig   `koanf:"store" json:"store"`
	Log     LogConfig     `koanf:"log" json:"log"`
}

// StorageConfig selects the persistence strategy and file.
type StorageConfig struct {
	Strategy string `koanf:"strategy" json:"strategy" validate:"oneof=text binary sqlite"`
	// Path is optional; each strategy has a conventional default file name.
	Path      string `koanf:"path" json:"path"`
	Delimiter string `koanf:"delimiter" json:"delimiter" validate:"required"`
	// Recovery decides what happens when an existing file cannot be loaded:
	// "empty" starts with an empty catalog, "fail" aborts, "auto" picks
	// "empty" for the binary strategy and "fail" otherwise.
	Recovery string `koanf:"recovery" json:"recovery" validate:"oneof=auto empty fail"`
}

// StoreConfig holds catalog behaviour.
type StoreConfig struct {
	Duplicates string `koanf:"duplicates" json:"duplicates" validate:"oneof=permit reject"`
	Missing    string `koanf:"missing" json:"missing" validate:"oneof=ignore error"`
	Autosave   bool   `koanf:"autosave" json:"autosave"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `koanf:"level" json:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" json:"format" validate:"oneof=text json"`
}

// Defaults returns the built-in settings as flattened koanf keys.
func Defaults() map[string]any {
	return map[string]any{
		"storage.strategy":  "text",
		"storage.path":      "",
		"storage.delimiter": ",",
		"storage.recovery":  "auto",
		"store.duplicates":  "permit",
		"store.missing":     "ignore",
		"store.autosave":    true,
		"log.level":         "warn",
		"log.format":        "text",
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks that every value is one the rest of the program understands.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if strings.ContainsAny(c.Storage.Delimiter, "\r\n") {
		return fmt.Errorf("storage.delimiter must not contain line breaks")
	}
	return nil
}

func (c *Config) String() string {
	var b strings.Builder

	path := c.Storage.Path
	if path == "" {
		path = "<default for strategy>"
	}

	b.WriteString("--- Storage ---\n")
	b.WriteString(fmt.Sprintf("  storage.strategy: %s\n", c.Storage.Strategy))
	b.WriteString(fmt.Sprintf("  storage.path: %s\n", path))
	b.WriteString(fmt.Sprintf("  storage.delimiter: %q\n", c.Storage.Delimiter))
	b.WriteString(fmt.Sprintf("  storage.recovery: %s\n", c.Storage.Recovery))

	b.WriteString("\n--- Store ---\n")
	b.WriteString(fmt.Sprintf("  store.duplicates: %s\n", c.Store.Duplicates))
	b.WriteString(fmt.Sprintf("  store.missing: %s\n", c.Store.Missing))
	b.WriteString(fmt.Sprintf("  store.autosave: %t\n", c.Store.Autosave))

	b.WriteString("\n--- Logging ---\n")
	b.WriteString(fmt.Sprintf("  log.level: %s\n", c.Log.Level))
	b.WriteString(fmt.Sprintf("  log.format: %s\n", c.Log.Format))

	return b.String()
}
