package config

const (
	defaultTagsDir           = "~/cinetag/tags"
	defaultDataDir           = "~/.local/share/cinetag"
	defaultLogDir            = "~/.local/share/cinetag/logs"
	defaultEngine            = EngineSplit
	defaultConcurrency       = 2
	defaultCircleOfConfusion = 0.03
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultHistoryEnabled    = true
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			TagsDir: defaultTagsDir,
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Export: Export{
			Engine:            defaultEngine,
			Concurrency:       defaultConcurrency,
			CircleOfConfusion: defaultCircleOfConfusion,
		},
		History: History{
			Enabled: defaultHistoryEnabled,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
