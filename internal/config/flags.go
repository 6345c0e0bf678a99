package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagAssets   = flag.String("assets", "", "Asset root directory")
	flagFPS      = flag.Int("fps", 0, "Frame rate of the tick loop")
	flagDuration = flag.Duration("duration", 0, "Camera flight duration")
	flagTrace    = flag.String("trace", "", "Write a JSON-lines frame trace to this file")
	flagWrite    = flag.String("write-config", "", "Write the effective config to this file and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// TracePath returns the frame trace path, empty when tracing is off.
func TracePath() string {
	return *flagTrace
}

// WriteConfigPath returns the --write-config target, empty when unset.
func WriteConfigPath() string {
	return *flagWrite
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagAssets != "" {
		cfg.Assets.Root = *flagAssets
	}
	if *flagFPS > 0 {
		cfg.Intro.FPS = *flagFPS
	}
	if *flagDuration > 0 {
		cfg.Intro.Duration = *flagDuration
	}
}
