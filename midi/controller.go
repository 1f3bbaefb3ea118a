package midi

import (
	"fmt"
	"sync"

	"go-programmer/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// CCEvent is a control change received from a hardware controller.
// Channel is 1-based.
type CCEvent struct {
	Channel    uint8
	Controller uint8
	Value      uint8
}

// Controller listens to a hardware knob/button box and forwards its
// control changes. It never sends anything back.
type Controller struct {
	id       string
	inPort   drivers.In
	stopFunc func()

	mu     sync.Mutex // guards ccChan against Close during a callback
	closed bool
	ccChan chan CCEvent
}

// NewController starts listening on inPort. A nil port gives a controller
// that never emits, which is handy for wiring tests.
func NewController(id string, inPort drivers.In) (*Controller, error) {
	c := &Controller{
		id:     id,
		inPort: inPort,
		ccChan: make(chan CCEvent, 32),
	}

	if inPort != nil {
		stop, err := gomidi.ListenTo(inPort, func(msg gomidi.Message, timestampms int32) {
			c.handle(msg)
		})
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		c.stopFunc = stop
	}

	return c, nil
}

// handle decodes one incoming message. Anything but CC is ignored and a
// full channel drops the event rather than stalling the driver callback.
func (c *Controller) handle(msg gomidi.Message) {
	var channel, cc, value uint8
	if !msg.GetControlChange(&channel, &cc, &value) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.ccChan <- CCEvent{Channel: channel + 1, Controller: cc, Value: value}:
	default:
		debug.LogEvery(50, "ctrl", "cc input full, dropping", "id", c.id)
	}
}

func (c *Controller) ID() string {
	return c.id
}

// CCEvents returns the stream of received control changes
func (c *Controller) CCEvents() <-chan CCEvent {
	return c.ccChan
}

// Close stops listening and closes the event stream
func (c *Controller) Close() error {
	if c.stopFunc != nil {
		c.stopFunc()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.ccChan)
	}
	return nil
}
