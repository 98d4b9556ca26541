package proto

import (
	"context"
	"time"

	"codeberg.org/halvor/revstrip/internal/errors"
	"codeberg.org/halvor/revstrip/internal/logger"
	"go.bug.st/serial"
)

const (
	ErrPortOpen = errors.ErrorCode("proto_port_open_failed")

	reopenDelay = 2 * time.Second
)

// Listen serves the configuration protocol on the named serial port,
// reopening the port after errors until the context ends. The host side
// plugs and unplugs at will; the strip must not care.
func (h *Handler) Listen(ctx context.Context, path string, baud int) {
	for ctx.Err() == nil {
		port, err := serial.Open(path, &serial.Mode{BaudRate: baud})
		if err != nil {
			wrapped := errors.New().Wrap(ErrPortOpen, err)
			logger.Debug().Str("port", path).Err(wrapped).Msg("config port open failed, retrying")
			sleepCtx(ctx, reopenDelay)
			continue
		}

		logger.Info().Str("port", path).Msg("config link open")

		if err := h.Serve(ctx, port); err != nil && ctx.Err() == nil {
			logger.Warn().Err(err).Msg("config link session ended")
		}
		_ = port.Close()

		sleepCtx(ctx, reopenDelay)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
