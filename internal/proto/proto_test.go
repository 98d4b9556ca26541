package proto_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"codeberg.org/halvor/revstrip/internal/proto"
	"codeberg.org/halvor/revstrip/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) (*proto.Handler, *store.Settings) {
	t.Helper()

	settings, err := store.LoadSettings(store.NewMemStore())
	require.NoError(t, err)

	return proto.NewHandler(settings), settings
}

func TestHandleLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantResp string
		wantOK   bool
	}{
		{"ping", "PING", "PONG", true},
		{"query default", "SEQ?", "SEQ:1", true},
		{"set variant", "SEQ:3", "OK:3", true},
		{"set then query", "SEQ?", "SEQ:3", true},
		{"variant too high", "SEQ:5", "", false},
		{"variant zero", "SEQ:0", "", false},
		{"variant not a number", "SEQ:x", "", false},
		{"lowercase ignored", "ping", "", false},
		{"garbage", "???", "", false},
		{"empty", "", "", false},
	}

	h, _ := newTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, ok := h.HandleLine(tt.line)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantResp, resp)
		})
	}
}

func TestHandleLineTrimsCR(t *testing.T) {
	h, _ := newTestHandler(t)

	resp, ok := h.HandleLine("PING\r")
	assert.True(t, ok)
	assert.Equal(t, "PONG", resp)
}

func TestGarbageDoesNotChangeState(t *testing.T) {
	h, settings := newTestHandler(t)

	_, ok := h.HandleLine("SEQ:2")
	require.True(t, ok)

	for _, line := range []string{"???", "SEQ:99", "SEQ:", "SEQ:2 extra", "PINGG"} {
		_, ok := h.HandleLine(line)
		assert.False(t, ok, "line %q", line)
	}
	assert.Equal(t, 2, int(settings.Sequence()))
}

func TestSetSequencePersists(t *testing.T) {
	kv := store.NewMemStore()
	settings, err := store.LoadSettings(kv)
	require.NoError(t, err)

	h := proto.NewHandler(settings)
	_, ok := h.HandleLine("SEQ:4")
	require.True(t, ok)

	// A fresh load over the same storage sees the new variant.
	reloaded, err := store.LoadSettings(kv)
	require.NoError(t, err)
	assert.Equal(t, 4, int(reloaded.Sequence()))
}

// session pairs a scripted input with a response sink for Serve.
type session struct {
	in  io.Reader
	out bytes.Buffer
}

func (s *session) Read(p []byte) (int, error)  { return s.in.Read(p) }
func (s *session) Write(p []byte) (int, error) { return s.out.Write(p) }

func TestServeSession(t *testing.T) {
	h, _ := newTestHandler(t)

	sess := &session{in: strings.NewReader("PING\nSEQ:3\n???\nSEQ?\n")}
	err := h.Serve(context.Background(), sess)
	assert.Equal(t, io.EOF, err)

	assert.Equal(t, "PONG\nOK:3\nSEQ:3\n", sess.out.String())
}

func TestServeSurvivesOverlongLine(t *testing.T) {
	h, _ := newTestHandler(t)

	long := strings.Repeat("x", 500)
	sess := &session{in: strings.NewReader(long + "\nPING\n")}
	err := h.Serve(context.Background(), sess)
	assert.Equal(t, io.EOF, err)

	assert.Equal(t, "PONG\n", sess.out.String())
}
