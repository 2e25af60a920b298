package engine

import (
	"github.com/streamfin/streamfin/log"
)

// UpdateKind classifies an owner-facing playback notification.
type UpdateKind int

const (
	// UpdateTime carries the current playback position and the latest known frame size.
	UpdateTime UpdateKind = iota
	// UpdateBuffering reports that the engine paused itself to refill the cache.
	UpdateBuffering
	// UpdatePlaying and UpdatePaused mirror the engine's pause flag.
	UpdatePlaying
	UpdatePaused
	// UpdateEnded reports normal end of the current track.
	UpdateEnded
	// UpdateError reports an engine playback failure with its decoded message.
	UpdateError
)

// Update is an immutable, fully decoded notification emitted by the event bridge.
// Width and Height ride along on UpdateTime; they are cached from the engine's own
// frame-size change events, never re-queried.
type Update struct {
	Kind    UpdateKind
	Seconds float64
	Width   int64
	Height  int64
	Message string
}

// observed property names and their subscription ids.
const (
	propCachePause = "paused-for-cache"
	propTimePos    = "time-pos"
	propWidth      = "dwidth"
	propHeight     = "dheight"
	propPause      = "pause"
	propEOF        = "eof-reached"
	propCoreIdle   = "core-idle"
)

var observedProperties = []struct {
	id     uint64
	name   string
	format PropertyFormat
}{
	{1, propCachePause, FormatFlag},
	{2, propTimePos, FormatDouble},
	{3, propWidth, FormatInt64},
	{4, propHeight, FormatInt64},
	{5, propPause, FormatFlag},
	{6, propEOF, FormatFlag},
	{7, propCoreIdle, FormatFlag},
}

// bridge drains the engine's event queue on a dedicated worker goroutine and forwards
// decoded updates through sink. The sink is invoked on the worker; it must only
// redispatch, never touch owner-owned state directly.
type bridge struct {
	client Client
	sink   func(Update)
	stop   chan struct{}
	done   chan struct{}

	// frame size cache, touched only by the worker goroutine.
	width  int64
	height int64
}

func newBridge(client Client, sink func(Update)) *bridge {
	b := &bridge{
		client: client,
		sink:   sink,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go b.run()
	return b
}

// halt asks the worker to exit and waits for it.
func (b *bridge) halt() {
	select {
	case <-b.stop:
	default:
		close(b.stop)
	}
	<-b.done
}

func (b *bridge) run() {
	defer close(b.done)

	for {
		select {
		case <-b.stop:
			return
		default:
		}

		ev := b.client.NextEvent()

		// Drain everything queued behind the wakeup without blocking.
		for ev.Kind != EventNone {
			if !b.handle(ev) {
				return
			}
			ev = b.client.PollEvent()
		}

		select {
		case <-b.stop:
			return
		default:
		}
	}
}

// handle decodes one raw event. A false return means the engine context is gone
// and draining must stop.
func (b *bridge) handle(ev Event) bool {
	switch ev.Kind {
	case EventShutdown:
		return false

	case EventEndFile:
		switch ev.EndReason {
		case EndEOF:
			b.sink(Update{Kind: UpdateEnded})
		case EndError:
			b.sink(Update{Kind: UpdateError, Message: ev.Message})
		}

	case EventPropertyChange:
		b.handleProperty(ev)

	case EventLogMessage:
		log.Debugf("engine [%s]: %s", ev.LogLevel, ev.Message)
	}

	return true
}

func (b *bridge) handleProperty(ev Event) {
	switch ev.Property {
	case propTimePos:
		seconds, ok := ev.Data.(float64)
		if !ok {
			return
		}
		b.sink(Update{Kind: UpdateTime, Seconds: seconds, Width: b.width, Height: b.height})

	case propCachePause:
		if flag, ok := ev.Data.(bool); ok && flag {
			b.sink(Update{Kind: UpdateBuffering})
		}

	case propPause:
		flag, ok := ev.Data.(bool)
		if !ok {
			return
		}
		if flag {
			b.sink(Update{Kind: UpdatePaused})
		} else {
			b.sink(Update{Kind: UpdatePlaying})
		}

	case propWidth:
		if w, ok := ev.Data.(int64); ok {
			b.width = w
		}

	case propHeight:
		if h, ok := ev.Data.(int64); ok {
			b.height = h
		}
	}
}
