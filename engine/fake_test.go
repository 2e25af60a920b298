package engine

import (
	"errors"
	"sync"
	"time"
)

// fakeClient records every interaction and replays queued events, standing in for
// the native engine in tests.
type fakeClient struct {
	mu sync.Mutex

	options    [][2]string
	optionInts map[string]int64
	commands   [][]string
	strings    map[string]string
	bools      map[string]bool
	doubles    map[string]float64
	observed   map[string]PropertyFormat
	logLevel   string

	positions   map[string]float64
	failQueries bool
	failLoads   bool

	initialized bool
	destroyed   bool

	events chan Event
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		optionInts: make(map[string]int64),
		strings:    make(map[string]string),
		bools:      make(map[string]bool),
		doubles:    make(map[string]float64),
		observed:   make(map[string]PropertyFormat),
		positions:  make(map[string]float64),
		events:     make(chan Event, 64),
	}
}

func (c *fakeClient) SetOptionString(name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.options = append(c.options, [2]string{name, value})
	return nil
}

func (c *fakeClient) SetOptionInt64(name string, value int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.optionInts[name] = value
	return nil
}

func (c *fakeClient) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.initialized = true
	return nil
}

func (c *fakeClient) Command(args []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failLoads && len(args) > 0 && args[0] == "loadfile" {
		return errors.New("load rejected")
	}
	c.commands = append(c.commands, args)
	return nil
}

func (c *fakeClient) SetPropertyString(name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.strings[name] = value
	return nil
}

func (c *fakeClient) SetPropertyBool(name string, value bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bools[name] = value
	return nil
}

func (c *fakeClient) SetPropertyDouble(name string, value float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.doubles[name] = value
	return nil
}

func (c *fakeClient) GetPropertyDouble(name string) (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failQueries {
		return 0, errors.New("property unavailable")
	}
	return c.positions[name], nil
}

func (c *fakeClient) ObserveProperty(id uint64, name string, format PropertyFormat) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observed[name] = format
	return nil
}

func (c *fakeClient) RequestLogMessages(level string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logLevel = level
	return nil
}

func (c *fakeClient) NextEvent() Event {
	select {
	case ev := <-c.events:
		return ev
	case <-time.After(10 * time.Millisecond):
		return Event{Kind: EventNone}
	}
}

func (c *fakeClient) PollEvent() Event {
	select {
	case ev := <-c.events:
		return ev
	default:
		return Event{Kind: EventNone}
	}
}

func (c *fakeClient) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.destroyed = true
}

func (c *fakeClient) commandLog() [][]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]string, len(c.commands))
	copy(out, c.commands)
	return out
}

func (c *fakeClient) optionValue(name string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, pair := range c.options {
		if pair[0] == name {
			return pair[1], true
		}
	}
	return "", false
}

func (c *fakeClient) stringProperty(name string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.strings[name]
}

// collector gathers bridge updates for assertions.
type collector struct {
	mu      sync.Mutex
	updates []Update
}

func (c *collector) sink(u Update) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updates = append(c.updates, u)
}

func (c *collector) all() []Update {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Update, len(c.updates))
	copy(out, c.updates)
	return out
}

// waitFor polls until the predicate holds or the deadline expires.
func (c *collector) waitFor(pred func([]Update) bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if pred(c.all()) {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}
