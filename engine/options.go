package engine

import (
	"fmt"

	"github.com/streamfin/streamfin/constant"
	"github.com/streamfin/streamfin/log"
)

// Options parametrizes handle creation. Values come from the settings store;
// the zero value is usable for tests.
type Options struct {
	// RenderTarget is the opaque window/surface handle supplied by the UI layer.
	RenderTarget int64
	// CacheSeconds is the forward cache depth; 0 falls back to the default.
	CacheSeconds int
	// HardwareDecoding toggles hardware-accelerated decode.
	HardwareDecoding bool
}

const defaultCacheSeconds = 60

// demuxer readahead bounds, matching the container buffer we are willing to hold.
const (
	demuxMaxBytes        = "200MiB"
	demuxReadaheadSecs   = "30"
	subtitleFallbackLang = "auto"
)

// optionTable returns the fixed pre-initialization option set. The table is applied
// exactly once per context; the engine rejects option writes after Initialize.
func (o Options) optionTable() [][2]string {
	cache := o.CacheSeconds
	if cache <= 0 {
		cache = defaultCacheSeconds
	}

	hwdec := "auto-safe"
	if !o.HardwareDecoding {
		hwdec = "no"
	}

	return [][2]string{
		{"vo", "gpu-next"},
		{"hwdec", hwdec},
		{"video-aspect-override", "no"},
		{"video-unscaled", "no"},
		{"keepaspect", "yes"},
		{"panscan", "0"},
		{"video-zoom", "0"},
		{"video-align-x", "0"},
		{"video-align-y", "0"},
		{"slang", subtitleFallbackLang},
		{"video-rotate", "0"},
		{"ytdl", "no"},
		{"user-agent", constant.UserAgent},
		{"cache", "yes"},
		{"cache-secs", fmt.Sprint(cache)},
		{"demuxer-max-bytes", demuxMaxBytes},
		{"demuxer-readahead-secs", demuxReadaheadSecs},
		{"video-sync", "audio"},
		{"interpolation", "no"},
	}
}

// applyOptions installs the option table, logging and skipping any entry the
// build of the engine does not know.
func applyOptions(client Client, opts Options) {
	for _, pair := range opts.optionTable() {
		if err := client.SetOptionString(pair[0], pair[1]); err != nil {
			log.Warnf("engine: option %s=%s rejected: %v", pair[0], pair[1], err)
		}
	}

	if opts.RenderTarget != 0 {
		if err := client.SetOptionInt64("wid", opts.RenderTarget); err != nil {
			log.Warnf("engine: render target rejected: %v", err)
		}
	}
}
