package testutil

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/dkeye/Meet/internal/core"
)

// QuietLogs silences the global zerolog logger for the duration of a test.
func QuietLogs(t *testing.T) {
	prev := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.Disabled)
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })
}

// Received is one decoded outbound frame.
type Received struct {
	Type string
	Raw  json.RawMessage
}

// Decode unmarshals the whole frame into v.
func (r Received) Decode(t *testing.T, v any) {
	t.Helper()
	if err := json.Unmarshal(r.Raw, v); err != nil {
		t.Fatalf("decode %s frame: %v", r.Type, err)
	}
}

// Conn is a core.SignalConnection that records every frame it accepts.
// Set Full to simulate a saturated send queue.
type Conn struct {
	mu     sync.Mutex
	frames []core.Frame
	closed bool
	Full   bool
}

func NewConn() *Conn {
	return &Conn{}
}

func (c *Conn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return core.ErrConnClosed
	}
	if c.Full {
		return core.ErrBackpressure
	}
	c.frames = append(c.frames, append(core.Frame(nil), f...))
	return nil
}

func (c *Conn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *Conn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Events returns everything received so far, in order.
func (c *Conn) Events(t *testing.T) []Received {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Received, 0, len(c.frames))
	for _, f := range c.frames {
		var env struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(f, &env); err != nil {
			t.Fatalf("frame is not json: %s", f)
		}
		out = append(out, Received{Type: env.Type, Raw: json.RawMessage(f)})
	}
	return out
}

// Types lists the event types received so far, in order.
func (c *Conn) Types(t *testing.T) []string {
	t.Helper()
	evs := c.Events(t)
	out := make([]string, len(evs))
	for i, e := range evs {
		out[i] = e.Type
	}
	return out
}

// Reset forgets recorded frames.
func (c *Conn) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = nil
}
