package orm

import (
	"encoding/binary"

	"github.com/iov-one/ledger/codec"
	"github.com/iov-one/ledger/errors"
)

// Counter is a minimal model used by the tests of this package.
type Counter struct {
	Count uint64
}

var _ Model = (*Counter)(nil)

func (c *Counter) Validate() error {
	if c.Count == 0 {
		return errors.Wrap(errors.ErrInvalidModel, "count must not be zero")
	}
	return nil
}

func (c *Counter) Copy() CloneableData {
	cpy := *c
	return &cpy
}

func (c *Counter) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Uint64(1, c.Count)
	return e.Result()
}

func (c *Counter) Unmarshal(raw []byte) error {
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			c.Count = d.Uint64()
		default:
			d.Skip()
		}
	}
	return d.Err()
}

// countIndexer indexes a counter by its big endian encoded value.
func countIndexer(obj Object) ([]byte, error) {
	c, ok := obj.Value().(*Counter)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidType, "%T", obj.Value())
	}
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, c.Count)
	return raw, nil
}

func encodeCount(n uint64) []byte {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, n)
	return raw
}
