package store

import (
	"sync/atomic"

	"codeberg.org/halvor/revstrip/internal/errors"
	"codeberg.org/halvor/revstrip/internal/logger"
	"codeberg.org/halvor/revstrip/internal/render"
)

// Settings is the runtime view of the persisted configuration. Only the
// sequence variant survives power loss; everything else is session
// state fed in at boot. Reads happen on the render tick, writes on the
// configuration link, so the sequence lives in an atomic.
type Settings struct {
	kv  KeyValueStore
	seq atomic.Int32
}

// LoadSettings reads the non-volatile image. A missing or foreign guard
// byte means first boot: defaults are applied and the guard written so
// the next boot finds a valid image.
func LoadSettings(kv KeyValueStore) (*Settings, error) {
	errFactory := errors.New()

	s := &Settings{kv: kv}

	guard, err := kv.ReadByte(addrGuard)
	if err != nil {
		return nil, errFactory.Wrap(ErrStoreRead, err)
	}

	if guard != GuardByte {
		logger.Info().Msg("no valid settings image, writing defaults")
		s.seq.Store(int32(render.DefaultSequence))
		if err := s.persist(); err != nil {
			return nil, err
		}

		return s, nil
	}

	raw, err := kv.ReadByte(addrSequence)
	if err != nil {
		return nil, errFactory.Wrap(ErrStoreRead, err)
	}

	seq, err := render.ParseSequence(int(raw))
	if err != nil {
		// A valid guard with a garbage variant still recovers to the
		// default rather than failing the boot.
		logger.Warn().Int("stored", int(raw)).Msg("stored sequence invalid, using default")
		seq = render.DefaultSequence
	}
	s.seq.Store(int32(seq))

	return s, nil
}

// Sequence returns the active animation sequence variant.
func (s *Settings) Sequence() render.Sequence {
	return render.Sequence(s.seq.Load())
}

// SetSequence validates, applies and persists a new variant.
func (s *Settings) SetSequence(n int) error {
	seq, err := render.ParseSequence(n)
	if err != nil {
		return errors.New().Wrap(ErrBadSequence, err)
	}

	s.seq.Store(int32(seq))

	return s.persist()
}

func (s *Settings) persist() error {
	errFactory := errors.New()

	if err := s.kv.WriteByte(addrSequence, byte(s.seq.Load())); err != nil {
		return errFactory.Wrap(ErrStoreWrite, err)
	}
	if err := s.kv.WriteByte(addrGuard, GuardByte); err != nil {
		return errFactory.Wrap(ErrStoreWrite, err)
	}

	return nil
}
