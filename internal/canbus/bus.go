package canbus

import (
	"sync"

	"codeberg.org/halvor/revstrip/internal/errors"
	"codeberg.org/halvor/revstrip/internal/logger"
	"github.com/brutella/can"
)

// Controller owns the physical bus attachment. Reset tears the
// attachment down and brings it back up; the link health monitor
// triggers it once per degradation episode.
type Controller interface {
	Start(handler func(can.Frame)) error
	Reset() error
	Close() error
}

// SocketCAN drives a Linux socketcan interface (can0, vcan0, ...).
type SocketCAN struct {
	iface string

	mu      sync.Mutex
	bus     *can.Bus
	handler func(can.Frame)
}

// NewSocketCAN creates a controller for the named interface. Nothing is
// opened until Start.
func NewSocketCAN(iface string) *SocketCAN {
	return &SocketCAN{iface: iface}
}

// Start attaches to the interface and begins delivering frames to the
// handler on a dedicated goroutine.
func (c *SocketCAN) Start(handler func(can.Frame)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.handler = handler

	return c.connectLocked()
}

func (c *SocketCAN) connectLocked() error {
	errFactory := errors.New()

	bus, err := can.NewBusForInterfaceWithName(c.iface)
	if err != nil {
		return errFactory.Wrap(ErrBusInit, err)
	}

	bus.SubscribeFunc(c.handler)
	c.bus = bus

	go func() {
		// ConnectAndPublish blocks until Disconnect or a socket error.
		if err := bus.ConnectAndPublish(); err != nil {
			logger.Debug().Err(err).Str("interface", c.iface).Msg("bus receive loop ended")
		}
	}()

	logger.Info().Str("interface", c.iface).Msg("CAN bus attached")

	return nil
}

// Reset reinitializes the bus attachment after link degradation.
func (c *SocketCAN) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	errFactory := errors.New()

	if c.handler == nil {
		return errFactory.New(ErrBusNotOpen)
	}

	if c.bus != nil {
		if err := c.bus.Disconnect(); err != nil {
			logger.Warn().Err(err).Msg("disconnect during bus reset failed")
		}
		c.bus = nil
	}

	if err := c.connectLocked(); err != nil {
		return errFactory.Wrap(ErrReinitFailed, err)
	}

	return nil
}

// Close detaches from the interface.
func (c *SocketCAN) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.bus == nil {
		return nil
	}

	errFactory := errors.New()
	if err := c.bus.Disconnect(); err != nil {
		return errFactory.Wrap(ErrBusClose, err)
	}
	c.bus = nil

	return nil
}
