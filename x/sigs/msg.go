package sigs

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/codec"
	"github.com/iov-one/ledger/errors"
)

const (
	pathBumpSequenceMsg = "sigs/bump_sequence"

	maxSequenceIncrement = 1000
	minSequenceIncrement = 1
)

// BumpSequenceMsg increments the nonce of the main signer by given value.
// The transaction itself bumps the sequence by one.
type BumpSequenceMsg struct {
	Metadata  *ledger.Metadata
	Increment uint32
}

var _ ledger.Msg = (*BumpSequenceMsg)(nil)

func (msg *BumpSequenceMsg) Validate() error {
	if err := msg.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if msg.Increment < minSequenceIncrement {
		return errors.Wrapf(errors.ErrInvalidMsg, "increment must be at least %d", minSequenceIncrement)
	}
	if msg.Increment > maxSequenceIncrement {
		return errors.Wrapf(errors.ErrInvalidMsg, "increment must not be greater than %d", maxSequenceIncrement)
	}
	return nil
}

func (BumpSequenceMsg) Path() string {
	return pathBumpSequenceMsg
}

func (msg *BumpSequenceMsg) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Message(1, msg.Metadata)
	e.Uint64(2, uint64(msg.Increment))
	return e.Result()
}

func (msg *BumpSequenceMsg) Unmarshal(raw []byte) error {
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			msg.Metadata = new(ledger.Metadata)
			d.Message(msg.Metadata)
		case 2:
			msg.Increment = d.Uint32()
		default:
			d.Skip()
		}
	}
	return d.Err()
}
