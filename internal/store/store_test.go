package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/halvor/revstrip/internal/render"
	"codeberg.org/halvor/revstrip/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettingsFirstBoot(t *testing.T) {
	kv := store.NewMemStore()

	s, err := store.LoadSettings(kv)
	require.NoError(t, err)
	assert.Equal(t, render.DefaultSequence, s.Sequence())

	// The guard byte must now be written so the next boot sees a valid
	// image.
	guard, err := kv.ReadByte(0)
	require.NoError(t, err)
	assert.Equal(t, byte(store.GuardByte), guard)
}

func TestSettingsRoundTrip(t *testing.T) {
	kv := store.NewMemStore()

	s, err := store.LoadSettings(kv)
	require.NoError(t, err)
	require.NoError(t, s.SetSequence(3))
	assert.Equal(t, render.RightToLeft, s.Sequence())

	// Simulated power cycle: a fresh Settings over the same storage.
	s2, err := store.LoadSettings(kv)
	require.NoError(t, err)
	assert.Equal(t, render.RightToLeft, s2.Sequence())
}

func TestSettingsRejectsBadSequence(t *testing.T) {
	kv := store.NewMemStore()
	s, err := store.LoadSettings(kv)
	require.NoError(t, err)

	require.NoError(t, s.SetSequence(2))
	for _, n := range []int{0, 5, -3} {
		assert.Error(t, s.SetSequence(n), "n=%d", n)
	}
	assert.Equal(t, render.LeftToRight, s.Sequence(), "failed set must not change state")
}

func TestLoadSettingsCorruptVariantRecovers(t *testing.T) {
	kv := store.NewMemStore()
	require.NoError(t, kv.WriteByte(1, 0x7F))
	require.NoError(t, kv.WriteByte(0, store.GuardByte))

	s, err := store.LoadSettings(kv)
	require.NoError(t, err)
	assert.Equal(t, render.DefaultSequence, s.Sequence())
}

func TestFileStorePersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "revstrip.nv")

	kv, err := store.OpenFileStore(path)
	require.NoError(t, err)

	s, err := store.LoadSettings(kv)
	require.NoError(t, err)
	require.NoError(t, s.SetSequence(4))

	// Reopen the file as a cold boot would.
	kv2, err := store.OpenFileStore(path)
	require.NoError(t, err)
	s2, err := store.LoadSettings(kv2)
	require.NoError(t, err)
	assert.Equal(t, render.CenterIn, s2.Sequence())

	// The image on disk is exactly guard + variant.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{store.GuardByte, 4}, data)
}

func TestStoreAddressBounds(t *testing.T) {
	kv := store.NewMemStore()

	_, err := kv.ReadByte(2)
	assert.Error(t, err)
	assert.Error(t, kv.WriteByte(-1, 0))
}
