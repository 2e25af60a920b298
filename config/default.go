// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"strings"

	"github.com/streamfin/streamfin/constant"
	"github.com/streamfin/streamfin/key"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.Streamfin + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	// register validates and adds a new configuration field to the global registry.
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		Default[k] = Field{Key: k, Value: v, Description: desc}
		EnvExposed = append(EnvExposed, k)
	}

	register(key.ServerURL, "", "Base URL of the media server, e.g. https://jellyfin.example.org")
	register(key.ServerToken, "", "API token used to authenticate media and subtitle requests")

	register(key.PlayerResumeSkipBack, 5, "Seconds to rewind behind the saved position when resuming an item")
	register(key.PlayerSpeed, 1.0, "Initial playback speed multiplier")

	register(key.SubtitlesFontSize, 55, "Default subtitle font size in scaled pixels")
	register(key.SubtitlesColor, "FFFFFFFF", "Default subtitle color as an RGBA hex string")
	register(key.SubtitlesFontName, "sans-serif", "Default subtitle font family name")

	register(key.EngineCacheSeconds, 60, "Depth of the engine's forward cache in seconds")
	register(key.EngineHardwareDec, true, "Enable hardware-accelerated video decoding")

	register(key.LogsWrite, false, "Write daily log files to the logs directory")
	register(key.LogsLevel, "info", "Minimum severity recorded in the logs.\nOne of: panic, fatal, error, warn, info, debug")
	register(key.LogsJson, false, "Emit logs in JSON format instead of plain text")

	register(key.CliColored, true, "Colorize the command-line help output")
}
