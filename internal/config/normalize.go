package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeExport()
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("CINETAG_TAGS_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.TagsDir = strings.TrimSpace(value)
	}
	var err error
	if c.Paths.TagsDir, err = expandPath(strings.TrimSpace(c.Paths.TagsDir)); err != nil {
		return fmt.Errorf("paths.tags_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeExport() {
	engine := strings.ToLower(strings.TrimSpace(c.Export.Engine))
	switch engine {
	case "":
		engine = defaultEngine
	case "new", "newer", "data":
		engine = EngineSplit
	case "old", "single":
		engine = EngineLegacy
	}
	c.Export.Engine = engine
	if c.Export.Concurrency == 0 {
		c.Export.Concurrency = defaultConcurrency
	}
	if c.Export.CircleOfConfusion == 0 {
		c.Export.CircleOfConfusion = defaultCircleOfConfusion
	}
}

func (c *Config) normalizeHistory() error {
	if !c.History.Enabled {
		return nil
	}
	path := strings.TrimSpace(c.History.Path)
	if path == "" {
		c.History.Path = filepath.Join(c.Paths.DataDir, "history.db")
		return nil
	}
	expanded, err := expandPath(path)
	if err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	c.History.Path = expanded
	return nil
}

func (c *Config) normalizeLogging() {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if format == "" {
		format = defaultLogFormat
	}
	c.Logging.Format = format

	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if level == "" {
		level = defaultLogLevel
	}
	c.Logging.Level = level
}
