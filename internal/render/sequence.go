package render

import (
	"codeberg.org/halvor/revstrip/internal/errors"
)

// Sequence selects the growth direction of positional animations. The
// numeric values are the wire and non-volatile encoding (1..4).
type Sequence int

const (
	CenterOut Sequence = iota + 1
	LeftToRight
	RightToLeft
	CenterIn
)

const DefaultSequence = CenterOut

func (s Sequence) String() string {
	switch s {
	case CenterOut:
		return "center_out"
	case LeftToRight:
		return "left_to_right"
	case RightToLeft:
		return "right_to_left"
	case CenterIn:
		return "center_in"
	default:
		return "unknown"
	}
}

// Valid reports whether s is one of the four variants.
func (s Sequence) Valid() bool {
	return s >= CenterOut && s <= CenterIn
}

// Mirrored reports whether the sequence grows from both ends at once,
// halving the fill travel.
func (s Sequence) Mirrored() bool {
	return s == CenterOut || s == CenterIn
}

// ParseSequence validates a stored or wire-received variant number.
func ParseSequence(n int) (Sequence, error) {
	s := Sequence(n)
	if !s.Valid() {
		errFactory := errors.New()
		return 0, errFactory.WithData(ErrInvalidSequence, n)
	}

	return s, nil
}
