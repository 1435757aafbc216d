package testsupport

import (
	"path/filepath"
	"testing"

	"cinetag/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The tags root exists and is empty; history lives under the data directory.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.TagsDir = filepath.Join(base, "tags")
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.History.Path = filepath.Join(cfgVal.Paths.DataDir, "history.db")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	MkdirAll(t, cfgVal.Paths.TagsDir)

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithEngine selects the export schema on the test config.
func WithEngine(engine string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Export.Engine = engine
	}
}

// WithQua enables the legacy text output.
func WithQua() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Export.WriteQua = true
	}
}

// WithoutHistory disables the export history database.
func WithoutHistory() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = false
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.TagsDir)
}
