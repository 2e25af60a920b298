package engine

import (
	"fmt"

	mpv "github.com/gen2brain/go-mpv"
)

// eventWaitTimeout bounds a single blocking wait so the bridge worker can
// notice a stop request even when the engine stays quiet.
const eventWaitTimeout = 1

// libmpvClient adapts the libmpv client handle to the Client interface.
type libmpvClient struct {
	handle *mpv.Mpv
}

func newLibmpvClient() *libmpvClient {
	return &libmpvClient{handle: mpv.New()}
}

func (c *libmpvClient) SetOptionString(name, value string) error {
	return c.handle.SetOptionString(name, value)
}

func (c *libmpvClient) SetOptionInt64(name string, value int64) error {
	return c.handle.SetOption(name, mpv.FormatInt64, value)
}

func (c *libmpvClient) Initialize() error {
	return c.handle.Initialize()
}

func (c *libmpvClient) Command(args []string) error {
	return c.handle.Command(args)
}

func (c *libmpvClient) SetPropertyString(name, value string) error {
	return c.handle.SetPropertyString(name, value)
}

func (c *libmpvClient) SetPropertyBool(name string, value bool) error {
	return c.handle.SetProperty(name, mpv.FormatFlag, value)
}

func (c *libmpvClient) SetPropertyDouble(name string, value float64) error {
	return c.handle.SetProperty(name, mpv.FormatDouble, value)
}

func (c *libmpvClient) GetPropertyDouble(name string) (float64, error) {
	value, err := c.handle.GetProperty(name, mpv.FormatDouble)
	if err != nil {
		return 0, err
	}
	f, ok := value.(float64)
	if !ok {
		return 0, fmt.Errorf("property %s: expected float64, got %T", name, value)
	}
	return f, nil
}

func (c *libmpvClient) ObserveProperty(id uint64, name string, format PropertyFormat) error {
	return c.handle.ObserveProperty(id, name, format.native())
}

func (c *libmpvClient) RequestLogMessages(level string) error {
	return c.handle.RequestLogMessages(level)
}

func (c *libmpvClient) NextEvent() Event {
	return c.decode(c.handle.WaitEvent(eventWaitTimeout))
}

func (c *libmpvClient) PollEvent() Event {
	return c.decode(c.handle.WaitEvent(0))
}

func (c *libmpvClient) Destroy() {
	c.handle.TerminateDestroy()
}

// native maps the abstract property format onto the binding's constants.
func (f PropertyFormat) native() mpv.Format {
	switch f {
	case FormatFlag:
		return mpv.FormatFlag
	case FormatInt64:
		return mpv.FormatInt64
	case FormatDouble:
		return mpv.FormatDouble
	case FormatString:
		return mpv.FormatString
	default:
		return mpv.FormatNone
	}
}

// decode converts a raw binding event into an immutable Event value. The raw event's
// payload points into engine-owned memory and must not outlive this call.
func (c *libmpvClient) decode(raw *mpv.Event) Event {
	if raw == nil {
		return Event{Kind: EventNone}
	}

	switch raw.EventID {
	case mpv.EventShutdown:
		return Event{Kind: EventShutdown}

	case mpv.EventEnd:
		end := raw.EndFile()
		ev := Event{Kind: EventEndFile}
		switch end.Reason {
		case mpv.EndFileEOF:
			ev.EndReason = EndEOF
		case mpv.EndFileStop:
			ev.EndReason = EndStop
		case mpv.EndFileQuit:
			ev.EndReason = EndQuit
		case mpv.EndFileRedirect:
			ev.EndReason = EndRedirect
		case mpv.EndFileError:
			ev.EndReason = EndError
			if end.Error != nil {
				ev.Message = end.Error.Error()
			}
		}
		return ev

	case mpv.EventPropertyChange:
		prop := raw.Property()
		ev := Event{Kind: EventPropertyChange, Property: prop.Name}
		// Flags arrive as ints from the binding; normalize to bool here so
		// nothing downstream needs to know the wire representation.
		switch data := prop.Data.(type) {
		case int:
			ev.Data = data != 0
		case bool:
			ev.Data = data
		default:
			ev.Data = prop.Data
		}
		return ev

	case mpv.EventLogMsg:
		msg := raw.LogMessage()
		return Event{Kind: EventLogMessage, LogLevel: msg.Level, Message: msg.Text}

	default:
		return Event{Kind: EventNone}
	}
}
