// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Streamfin is the canonical application identifier used for filesystem paths and CLI branding.
	Streamfin = "streamfin"

	// Version is the current application semantic version string.
	Version = "0.1.0"

	// UserAgent is the default HTTP User-Agent string used for requests against the media server.
	UserAgent = Streamfin + "/" + Version
)
