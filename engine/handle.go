package engine

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/samber/mo"
	"github.com/streamfin/streamfin/log"
)

const (
	// teardownGrace lets in-flight rendering drain before the context is destroyed.
	teardownGrace = 100 * time.Millisecond

	// minSurfaceDim guards against a driver fault on degenerate surface sizes.
	minSurfaceDim = 2
)

// ExternalSubtitle is an out-of-band subtitle track to be attached at load time.
type ExternalSubtitle struct {
	URL   string
	Title string
}

// SubtitleStyle is the render style applied to text subtitles.
type SubtitleStyle struct {
	FontSize int
	Color    string // 8-hex-digit RGBA
	FontName string
}

// LoadConfig is the complete, immutable description of one media load.
// It is built once per playback-item transition and consumed exactly once.
type LoadConfig struct {
	URL               string
	StartSeconds      mo.Option[float64]
	AudioTrack        mo.Option[int] // engine track id, already resolved
	SubtitleTrack     mo.Option[int]
	Style             SubtitleStyle
	ExternalSubtitles []ExternalSubtitle
}

// Handle owns exactly one live engine context. All control operations become silent
// no-ops once the handle is cleaned up; none of them ever surfaces an engine error
// to the caller.
type Handle struct {
	mu     sync.Mutex
	client Client
	bridge *bridge
	torn   bool
}

// New creates a libmpv-backed handle. The sink receives decoded updates on the
// bridge worker and must only redispatch them.
func New(opts Options, sink func(Update)) (*Handle, error) {
	return newHandle(newLibmpvClient(), opts, sink)
}

// NewWithClient creates a handle over a custom engine client. Everything else
// behaves exactly as with New.
func NewWithClient(client Client, opts Options, sink func(Update)) (*Handle, error) {
	return newHandle(client, opts, sink)
}

func newHandle(client Client, opts Options, sink func(Update)) (*Handle, error) {
	applyOptions(client, opts)

	if err := client.Initialize(); err != nil {
		client.Destroy()
		return nil, fmt.Errorf("initialize engine: %w", err)
	}

	if err := client.RequestLogMessages("info"); err != nil {
		log.Warnf("engine: log messages unavailable: %v", err)
	}

	for _, prop := range observedProperties {
		if err := client.ObserveProperty(prop.id, prop.name, prop.format); err != nil {
			log.Warnf("engine: observe %s: %v", prop.name, err)
		}
	}

	h := &Handle{client: client}
	h.bridge = newBridge(client, sink)
	return h, nil
}

// LoadFile applies the configuration's subtitle style, loads the URL (replacing
// anything currently playing), attaches external subtitles, and selects the
// resolved audio/subtitle tracks. Failures are logged, never propagated.
func (h *Handle) LoadFile(cfg LoadConfig) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.torn {
		return
	}

	h.applyStyle(cfg.Style)

	if start, ok := cfg.StartSeconds.Get(); ok {
		// Precise start offset must be staged before the load command takes effect.
		if err := h.client.SetOptionString("start", fmt.Sprintf("+%f", start)); err != nil {
			log.Warnf("engine: start offset rejected: %v", err)
		}
	}

	if err := h.client.Command([]string{"loadfile", cfg.URL, "replace"}); err != nil {
		log.Errorf("engine: load %s: %v", cfg.URL, err)
		return
	}

	for _, sub := range cfg.ExternalSubtitles {
		h.submit("sub-add", sub.URL, "auto", sub.Title)
	}

	if id, ok := cfg.AudioTrack.Get(); ok {
		h.submit("set", "aid", strconv.Itoa(id))
	}
	if id, ok := cfg.SubtitleTrack.Get(); ok {
		// Track id 0 (or below) is the no-selection sentinel for subtitles.
		if id <= 0 {
			h.submit("set", "sid", "no")
		} else {
			h.submit("set", "sid", strconv.Itoa(id))
		}
	}
}

// Play resumes playback.
func (h *Handle) Play() {
	h.setFlag("pause", false)
}

// Pause suspends playback.
func (h *Handle) Pause() {
	h.setFlag("pause", true)
}

// Seek jumps to an absolute position, clamped at the given non-negative floor.
func (h *Handle) Seek(seconds, floor float64) {
	if floor < 0 {
		floor = 0
	}
	if seconds < floor {
		seconds = floor
	}
	h.Command("seek", fmt.Sprintf("%f", seconds), "absolute")
}

// Position reports the current playback position. ok is false when the handle
// is torn down or the engine has nothing loaded.
func (h *Handle) Position() (seconds float64, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.torn {
		return 0, false
	}

	seconds, err := h.client.GetPropertyDouble(propTimePos)
	if err != nil {
		return 0, false
	}
	return seconds, true
}

// SetRate sets the playback speed multiplier.
func (h *Handle) SetRate(rate float64) {
	h.setDouble("speed", rate)
}

// SetAudioDelay shifts audio relative to video by the given seconds.
func (h *Handle) SetAudioDelay(seconds float64) {
	h.setDouble("audio-delay", seconds)
}

// SetSubtitleDelay shifts subtitles relative to video by the given seconds.
func (h *Handle) SetSubtitleDelay(seconds float64) {
	h.setDouble("sub-delay", seconds)
}

// SelectAudio switches to the given engine audio track id.
func (h *Handle) SelectAudio(id int) {
	h.Command("set", "aid", strconv.Itoa(id))
}

// SelectSubtitle switches to the given engine subtitle track id.
func (h *Handle) SelectSubtitle(id int) {
	h.Command("set", "sid", strconv.Itoa(id))
}

// DisableSubtitles turns subtitle rendering off.
func (h *Handle) DisableSubtitles() {
	h.Command("set", "sid", "no")
}

// SetAspectFill toggles between fit (letterboxed) and fill scaling.
func (h *Handle) SetAspectFill(fill bool) {
	value := 0.0
	if fill {
		value = 1.0
	}
	h.setDouble("panscan", value)
}

// SetSubtitleColor updates the subtitle color as an 8-hex-digit RGBA string.
func (h *Handle) SetSubtitleColor(rgba string) {
	h.setString("sub-color", "#"+rgba)
}

// SetSubtitleFont updates the subtitle font family.
func (h *Handle) SetSubtitleFont(name string) {
	h.setString("sub-font", name)
}

// SetSubtitleSize updates the subtitle font size.
func (h *Handle) SetSubtitleSize(size int) {
	h.setString("sub-font-size", strconv.Itoa(size))
}

// SetSurfaceSize updates the drawable surface dimensions. Requests below the
// minimum are dropped whole, leaving the prior size in effect.
func (h *Handle) SetSurfaceSize(width, height int) {
	if width < minSurfaceDim || height < minSurfaceDim {
		return
	}
	h.setString("android-surface-size", fmt.Sprintf("%dx%d", width, height))
}

// Command submits a generic positional command. The engine's own argument
// terminator is appended internally; supplying one is a programmer error.
func (h *Handle) Command(name string, args ...string) {
	if len(args) > 0 && args[len(args)-1] == "" {
		panic("engine: trailing command terminator must not be supplied by the caller")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.torn {
		return
	}
	h.submit(name, args...)
}

// CommandChecked is the strict variant of Command: submission failures are
// propagated instead of logged.
func (h *Handle) CommandChecked(name string, args ...string) error {
	if len(args) > 0 && args[len(args)-1] == "" {
		panic("engine: trailing command terminator must not be supplied by the caller")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.torn {
		return nil
	}
	return h.client.Command(append([]string{name}, args...))
}

// Cleanup stops the event bridge, issues a final stop command, waits out the
// render grace period and destroys the context. It is idempotent.
func (h *Handle) Cleanup() {
	h.mu.Lock()
	if h.torn {
		h.mu.Unlock()
		return
	}
	h.torn = true
	client := h.client
	bridge := h.bridge
	h.mu.Unlock()

	if err := client.Command([]string{"stop"}); err != nil {
		log.Debugf("engine: stop on teardown: %v", err)
	}

	// The worker must be out of the event queue before the context may be destroyed.
	bridge.halt()

	time.Sleep(teardownGrace)
	client.Destroy()
}

// submit issues a command under an already-held lock, logging failures.
func (h *Handle) submit(name string, args ...string) {
	if err := h.client.Command(append([]string{name}, args...)); err != nil {
		log.Warnf("engine: command %s: %v", name, err)
	}
}

func (h *Handle) applyStyle(style SubtitleStyle) {
	if style.FontSize > 0 {
		h.setStringLocked("sub-font-size", strconv.Itoa(style.FontSize))
	}
	if style.Color != "" {
		h.setStringLocked("sub-color", "#"+style.Color)
	}
	if style.FontName != "" {
		h.setStringLocked("sub-font", style.FontName)
	}
}

func (h *Handle) setFlag(name string, value bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.torn {
		return
	}
	if err := h.client.SetPropertyBool(name, value); err != nil {
		log.Warnf("engine: set %s=%t: %v", name, value, err)
	}
}

func (h *Handle) setDouble(name string, value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.torn {
		return
	}
	if err := h.client.SetPropertyDouble(name, value); err != nil {
		log.Warnf("engine: set %s=%f: %v", name, value, err)
	}
}

func (h *Handle) setString(name, value string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.torn {
		return
	}
	h.setStringLocked(name, value)
}

func (h *Handle) setStringLocked(name, value string) {
	if err := h.client.SetPropertyString(name, value); err != nil {
		log.Warnf("engine: set %s=%s: %v", name, value, err)
	}
}
