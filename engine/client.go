// Package engine wraps the native playback engine behind an owned, explicitly torn-down handle.
//
// The engine itself is a black box reached only through the Client interface; the production
// implementation binds to libmpv. Everything crossing the engine boundary is decoded into
// immutable Go values before it is handed to anyone else.
package engine

// PropertyFormat selects the wire representation of an observed engine property.
type PropertyFormat int

const (
	FormatNone PropertyFormat = iota
	FormatFlag
	FormatInt64
	FormatDouble
	FormatString
)

// EventKind classifies a raw event drained from the engine queue.
type EventKind int

const (
	// EventNone reports an empty queue (or an expired wait).
	EventNone EventKind = iota
	// EventShutdown reports that the engine context is gone.
	EventShutdown
	// EventEndFile reports that the current track finished, stopped or failed.
	EventEndFile
	// EventPropertyChange reports a new value for an observed property.
	EventPropertyChange
	// EventLogMessage carries an engine-internal log line.
	EventLogMessage
)

// EndReason qualifies an EventEndFile.
type EndReason int

const (
	EndEOF EndReason = iota
	EndStop
	EndQuit
	EndError
	EndRedirect
)

// Event is a single decoded entry from the engine's event queue.
// Data carries the property payload as decoded by the binding: bool for flags,
// float64 for doubles, int64 for integers, string otherwise.
type Event struct {
	Kind      EventKind
	Property  string
	Data      interface{}
	EndReason EndReason
	Message   string // decoded engine error string or log line
	LogLevel  string
}

// Client is the minimal surface of a native engine context used by the Handle and its
// event bridge. Implementations must be safe for command submission from any goroutine;
// NextEvent and PollEvent are only ever called by the single bridge worker.
type Client interface {
	// SetOptionString installs a pre-initialization option.
	SetOptionString(name, value string) error
	// SetOptionInt64 installs a pre-initialization integer option.
	SetOptionInt64(name string, value int64) error
	// Initialize finishes context creation; options are frozen afterwards.
	Initialize() error

	// Command submits a positional command. The implementation appends the
	// engine's own argument terminator; callers never supply one.
	Command(args []string) error

	SetPropertyString(name, value string) error
	SetPropertyBool(name string, value bool) error
	SetPropertyDouble(name string, value float64) error
	GetPropertyDouble(name string) (float64, error)

	// ObserveProperty subscribes to change events for the named property.
	ObserveProperty(id uint64, name string, format PropertyFormat) error
	// RequestLogMessages enables engine log events at the given minimum level.
	RequestLogMessages(level string) error

	// NextEvent blocks until an event is queued or a short internal timeout
	// expires, in which case it reports EventNone.
	NextEvent() Event
	// PollEvent drains one event without blocking; EventNone means the queue is empty.
	PollEvent() Event

	// Destroy tears the context down. No other method may be called afterwards,
	// and no goroutine may be blocked in NextEvent when it runs.
	Destroy()
}
