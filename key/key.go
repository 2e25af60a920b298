// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Server Connection - these keys locate the media server and authenticate against it.
const (
	ServerURL   = "server.url"
	ServerToken = "server.token"
)

// Media Playback - these keys govern session start behavior and steady-state playback.
const (
	PlayerResumeSkipBack = "player.resume_skip_back"
	PlayerSpeed          = "player.speed"
)

// Subtitle Presentation - these keys define the default render style for text subtitles.
const (
	SubtitlesFontSize = "subtitles.font_size"
	SubtitlesColor    = "subtitles.color"
	SubtitlesFontName = "subtitles.font_name"
)

// Engine Tuning - these keys parametrize the native playback engine at initialization.
const (
	EngineCacheSeconds = "engine.cache_seconds"
	EngineHardwareDec  = "engine.hardware_decoding"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the command-line behavior.
const (
	CliColored = "cli.colored"
)
