package playback

import (
	"fmt"
	"image/color"
	"sync"
	"time"

	"github.com/samber/mo"
	"github.com/spf13/viper"
	"github.com/streamfin/streamfin/engine"
	"github.com/streamfin/streamfin/internal/dispatch"
	"github.com/streamfin/streamfin/key"
	"github.com/streamfin/streamfin/log"
	"github.com/streamfin/streamfin/media"
)

// Manager is the reactive playback coordinator the proxy observes. The proxy holds
// a back-reference only and never owns the manager; after Detach every inbound
// engine event is dropped instead of reported.
type Manager interface {
	// ReportSeconds delivers the current playback position.
	ReportSeconds(seconds float64)
	// RequestStatus asks the manager to reflect the engine's play/pause flag.
	RequestStatus(playing bool)
	// ReportEnded signals normal end of the current item.
	ReportEnded()
	// ReportError surfaces an engine playback failure. It is reported once;
	// the session is expected to be torn down by the coordinator.
	ReportError(err error)
}

// URLResolver resolves a server-relative delivery path to an absolute fetch URL.
// Used only for externally-delivered subtitle streams.
type URLResolver interface {
	AbsoluteURL(path string) string
}

// Proxy bridges the manager's reactive state to the native engine. It owns at most
// one live engine handle at any time and keeps at most one pending load
// configuration while no playback surface is attached.
type Proxy struct {
	owner *dispatch.Queue
	urls  URLResolver

	mu        sync.Mutex
	manager   Manager
	handle    *engine.Handle
	pending   *engine.LoadConfig
	item      *media.Item
	state     State
	buffering bool
	width     int64
	height    int64

	attach func(opts engine.Options, sink func(engine.Update)) (*engine.Handle, error)
}

// NewProxy creates a proxy reporting into the given manager.
func NewProxy(manager Manager, urls URLResolver) *Proxy {
	return &Proxy{
		owner:   dispatch.New(),
		urls:    urls,
		manager: manager,
		attach:  engine.New,
	}
}

// AttachSurface creates the engine handle against the given render target and
// consumes the pending load configuration, if any. An existing handle is torn
// down fully before the new one is created.
func (p *Proxy) AttachSurface(renderTarget int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.handle != nil {
		p.handle.Cleanup()
		p.handle = nil
	}

	handle, err := p.attach(engineOptions(renderTarget), p.dispatchUpdate)
	if err != nil {
		return fmt.Errorf("attach playback surface: %w", err)
	}
	p.handle = handle

	if p.pending != nil {
		cfg := *p.pending
		p.pending = nil
		handle.LoadFile(cfg)
	}

	return nil
}

// DetachSurface tears down the engine handle when the playback surface goes away.
// The handle is not reusable; the next playback creates a fresh one.
func (p *Proxy) DetachSurface() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.teardownLocked()
}

// PlayItem reacts to the manager announcing a new playback item: it builds the
// load configuration and either loads it immediately or buffers it as the single
// pending configuration, overwriting any older one.
func (p *Proxy) PlayItem(item *media.Item) {
	cfg := p.buildConfig(item)

	p.mu.Lock()
	defer p.mu.Unlock()

	p.item = item
	p.state = StateIdle
	p.buffering = false

	if p.handle != nil {
		p.handle.LoadFile(cfg)
		return
	}
	p.pending = &cfg
}

// Stop reacts to the manager transitioning to a stopped state: the session ends
// and the engine handle is released.
func (p *Proxy) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.teardownLocked()
	p.item = nil
	p.pending = nil
	p.state = StateIdle
	p.buffering = false
}

// Detach clears the manager back-reference. Events already queued towards the
// owner context are dropped silently once the reference is gone.
func (p *Proxy) Detach() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.manager = nil
}

// Close shuts the proxy down entirely: the session stops and the owner queue exits.
func (p *Proxy) Close() {
	p.Stop()
	p.Detach()
	p.owner.Close()
}

// Play resumes playback. No-op without an attached handle.
func (p *Proxy) Play() {
	if h := p.currentHandle(); h != nil {
		h.Play()
	}
}

// Pause suspends playback. No-op without an attached handle.
func (p *Proxy) Pause() {
	if h := p.currentHandle(); h != nil {
		h.Pause()
	}
}

// JumpForward seeks ahead by the given duration from the current position.
func (p *Proxy) JumpForward(d time.Duration) {
	p.jump(d.Seconds())
}

// JumpBackward seeks back by the given duration, never before the start.
func (p *Proxy) JumpBackward(d time.Duration) {
	p.jump(-d.Seconds())
}

func (p *Proxy) jump(deltaSeconds float64) {
	h := p.currentHandle()
	if h == nil {
		return
	}
	position, ok := h.Position()
	if !ok {
		return
	}
	h.Seek(position+deltaSeconds, 0)
}

// SetRate sets the playback speed multiplier.
func (p *Proxy) SetRate(rate float64) {
	if h := p.currentHandle(); h != nil {
		h.SetRate(rate)
	}
}

// SetPosition seeks to an absolute position in seconds.
func (p *Proxy) SetPosition(seconds float64) {
	if h := p.currentHandle(); h != nil {
		h.Seek(seconds, 0)
	}
}

// SetAudioStream switches audio to the given UI-held descriptor. Unresolvable
// selections are dropped silently, keeping the prior track.
func (p *Proxy) SetAudioStream(s media.Stream) {
	h, item := p.currentSession()
	if h == nil || item == nil {
		return
	}
	if id, ok := ResolveAudioTrack(item, s); ok {
		h.SelectAudio(id)
	}
}

// SetSubtitleStream switches subtitles to the given UI-held descriptor. A negative
// index is the standing disable sentinel and bypasses resolution entirely.
func (p *Proxy) SetSubtitleStream(s media.Stream) {
	h, item := p.currentSession()
	if h == nil {
		return
	}
	if s.Index < 0 {
		h.DisableSubtitles()
		return
	}
	if item == nil {
		return
	}
	if id, ok := ResolveSubtitleTrack(item, s); ok {
		h.SelectSubtitle(id)
	}
}

// SetAspectFill toggles between fit and fill scaling of the video frame.
func (p *Proxy) SetAspectFill(fill bool) {
	if h := p.currentHandle(); h != nil {
		h.SetAspectFill(fill)
	}
}

// SetSubtitleOffset shifts subtitle timing by the given seconds.
func (p *Proxy) SetSubtitleOffset(seconds float64) {
	if h := p.currentHandle(); h != nil {
		h.SetSubtitleDelay(seconds)
	}
}

// SetAudioOffset shifts audio timing by the given seconds.
func (p *Proxy) SetAudioOffset(seconds float64) {
	if h := p.currentHandle(); h != nil {
		h.SetAudioDelay(seconds)
	}
}

// SetSubtitleColor updates the subtitle color.
func (p *Proxy) SetSubtitleColor(c color.Color) {
	if h := p.currentHandle(); h != nil {
		h.SetSubtitleColor(rgbaHex(c))
	}
}

// SetSubtitleFont updates the subtitle font family.
func (p *Proxy) SetSubtitleFont(name string) {
	if h := p.currentHandle(); h != nil {
		h.SetSubtitleFont(name)
	}
}

// SetSubtitleSize updates the subtitle font size.
func (p *Proxy) SetSubtitleSize(size int) {
	if h := p.currentHandle(); h != nil {
		h.SetSubtitleSize(size)
	}
}

// SetSurfaceSize forwards a drawable-size change from the UI layout.
func (p *Proxy) SetSurfaceSize(width, height int) {
	if h := p.currentHandle(); h != nil {
		h.SetSurfaceSize(width, height)
	}
}

// State reports the engine-derived playback state.
func (p *Proxy) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Buffering reports whether the engine is stalled refilling its cache.
func (p *Proxy) Buffering() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buffering
}

// FrameSize reports the latest known video frame dimensions.
func (p *Proxy) FrameSize() (width, height int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.width, p.height
}

// buildConfig assembles the immutable load configuration for an item from the
// current manifest and a point-in-time settings snapshot.
func (p *Proxy) buildConfig(item *media.Item) engine.LoadConfig {
	cfg := engine.LoadConfig{
		URL:   item.URL,
		Style: subtitleStyle(),
	}

	if item.StartSeconds > 0 {
		start := item.StartSeconds - viper.GetFloat64(key.PlayerResumeSkipBack)
		if start < 0 {
			start = 0
		}
		cfg.StartSeconds = mo.Some(start)
	}

	if idx := item.Source.DefaultAudioStreamIndex; idx != nil {
		if s, ok := item.Source.ByIndex(media.StreamAudio, *idx); ok {
			if id, resolved := ResolveAudioTrack(item, s); resolved {
				cfg.AudioTrack = mo.Some(id)
			}
		}
	}

	if idx := item.Source.DefaultSubtitleStreamIndex; idx != nil {
		if *idx < 0 {
			cfg.SubtitleTrack = mo.Some(0) // explicit off
		} else if s, ok := item.Source.ByIndex(media.StreamSubtitle, *idx); ok {
			if id, resolved := ResolveSubtitleTrack(item, s); resolved {
				cfg.SubtitleTrack = mo.Some(id)
			}
		}
	}

	for _, s := range item.Source.OfType(media.StreamSubtitle) {
		if !s.External() || s.DeliveryURL == "" {
			continue
		}
		cfg.ExternalSubtitles = append(cfg.ExternalSubtitles, engine.ExternalSubtitle{
			URL:   p.urls.AbsoluteURL(s.DeliveryURL),
			Title: s.DisplayTitle,
		})
	}

	return cfg
}

// dispatchUpdate is the bridge sink: it redispatches decoded engine updates onto
// the owner context without blocking the worker.
func (p *Proxy) dispatchUpdate(u engine.Update) {
	p.owner.Dispatch(func() { p.apply(u) })
}

// apply runs on the owner context and translates one engine update into manager state.
func (p *Proxy) apply(u engine.Update) {
	p.mu.Lock()
	manager := p.manager
	item := p.item

	switch u.Kind {
	case engine.UpdateTime:
		p.width, p.height = u.Width, u.Height
	case engine.UpdatePlaying:
		p.state = StatePlaying
		p.buffering = false
	case engine.UpdatePaused:
		p.state = StatePaused
		p.buffering = false
	case engine.UpdateBuffering:
		p.state = StateBuffering
		p.buffering = true
	case engine.UpdateEnded:
		p.state = StateEnded
		p.buffering = false
	case engine.UpdateError:
		p.state = StateError
		p.buffering = false
	}
	p.mu.Unlock()

	if manager == nil {
		return
	}

	switch u.Kind {
	case engine.UpdateTime:
		manager.ReportSeconds(u.Seconds)
	case engine.UpdatePlaying:
		manager.RequestStatus(true)
	case engine.UpdatePaused:
		manager.RequestStatus(false)
	case engine.UpdateEnded:
		// Continuous streams end only by explicit stop, never through this path.
		if item != nil && item.Live {
			return
		}
		manager.ReportEnded()
	case engine.UpdateError:
		manager.ReportError(fmt.Errorf("engine playback failure: %s", u.Message))
	}
}

func (p *Proxy) currentHandle() *engine.Handle {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.handle
}

func (p *Proxy) currentSession() (*engine.Handle, *media.Item) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.handle, p.item
}

func (p *Proxy) teardownLocked() {
	if p.handle == nil {
		return
	}
	p.handle.Cleanup()
	p.handle = nil
	log.Debug("playback: engine handle released")
}

// engineOptions snapshots the engine tuning settings for a new handle.
func engineOptions(renderTarget int64) engine.Options {
	return engine.Options{
		RenderTarget:     renderTarget,
		CacheSeconds:     viper.GetInt(key.EngineCacheSeconds),
		HardwareDecoding: viper.GetBool(key.EngineHardwareDec),
	}
}

// subtitleStyle snapshots the subtitle presentation settings.
func subtitleStyle() engine.SubtitleStyle {
	return engine.SubtitleStyle{
		FontSize: viper.GetInt(key.SubtitlesFontSize),
		Color:    viper.GetString(key.SubtitlesColor),
		FontName: viper.GetString(key.SubtitlesFontName),
	}
}

// rgbaHex renders a color as the engine's 8-hex-digit RGBA representation.
func rgbaHex(c color.Color) string {
	r, g, b, a := c.RGBA()
	return fmt.Sprintf("%02X%02X%02X%02X", uint8(r>>8), uint8(g>>8), uint8(b>>8), uint8(a>>8))
}
