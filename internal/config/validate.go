package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateExport(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.TagsDir) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/cinetag/config.toml"
		}
		return fmt.Errorf("paths.tags_dir is required. Set CINETAG_TAGS_DIR or edit %s (create with 'cinetag config init')", defaultPath)
	}
	return nil
}

func (c *Config) validateExport() error {
	switch c.Export.Engine {
	case EngineLegacy, EngineSplit:
	default:
		return fmt.Errorf("export.engine must be %q or %q, got %q", EngineLegacy, EngineSplit, c.Export.Engine)
	}
	if c.Export.Concurrency < 1 {
		return errors.New("export.concurrency must be positive")
	}
	if c.Export.CircleOfConfusion <= 0 {
		return errors.New("export.circle_of_confusion must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
