// Package proto implements the line-oriented configuration protocol on
// the secondary serial link. The channel is low-rate and best-effort:
// anything malformed is dropped without a response, and nothing here
// can stall the render path.
package proto

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"

	"codeberg.org/halvor/revstrip/internal/logger"
	"codeberg.org/halvor/revstrip/internal/render"
)

// maxLineLen bounds the work done per received line. The longest legal
// command is five bytes; anything beyond this is garbage.
const maxLineLen = 64

// SequenceSettings is the slice of the settings the protocol may touch.
type SequenceSettings interface {
	Sequence() render.Sequence
	SetSequence(n int) error
}

// Handler answers configuration commands.
type Handler struct {
	settings SequenceSettings
}

func NewHandler(settings SequenceSettings) *Handler {
	return &Handler{settings: settings}
}

// HandleLine processes one received line and returns the response, or
// ok=false when the line is ignored. Commands are case-sensitive.
func (h *Handler) HandleLine(line string) (string, bool) {
	line = strings.TrimRight(line, "\r")

	switch {
	case line == "PING":
		return "PONG", true

	case line == "SEQ?":
		return "SEQ:" + strconv.Itoa(int(h.settings.Sequence())), true

	case strings.HasPrefix(line, "SEQ:"):
		n, err := strconv.Atoi(line[len("SEQ:"):])
		if err != nil {
			return "", false
		}
		if err := h.settings.SetSequence(n); err != nil {
			logger.Debug().Int("variant", n).Err(err).Msg("sequence change rejected")
			return "", false
		}

		return "OK:" + strconv.Itoa(n), true
	}

	return "", false
}

// Serve reads newline-terminated commands from rw until the context is
// canceled or the stream ends. Responses go back on the same stream.
// Overlong lines are discarded as garbage rather than ending the
// session; real read errors end it and the caller decides whether to
// reopen.
func (h *Handler) Serve(ctx context.Context, rw io.ReadWriter) error {
	reader := bufio.NewReaderSize(rw, maxLineLen)

	discarding := false
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := reader.ReadSlice('\n')
		switch {
		case err == bufio.ErrBufferFull:
			discarding = true
			continue
		case err != nil:
			return err
		}

		if discarding {
			// Tail of an overlong line; drop it.
			discarding = false
			continue
		}

		resp, ok := h.HandleLine(strings.TrimSuffix(string(line), "\n"))
		if !ok {
			continue
		}

		if _, err := io.WriteString(rw, resp+"\n"); err != nil {
			return err
		}
	}
}
