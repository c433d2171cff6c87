package ledger

import (
	"github.com/iov-one/ledger/codec"
	"github.com/iov-one/ledger/errors"
)

// Metadata is attached to every model and message. It declares the schema
// version the entity was created with.
type Metadata struct {
	Schema uint32 `json:"schema"`
}

// Validate returns an error if the schema version is not set.
func (m *Metadata) Validate() error {
	if m == nil {
		return errors.Wrap(errors.ErrEmpty, "metadata")
	}
	if m.Schema < 1 {
		return errors.Wrap(errors.ErrInvalidModel, "schema version must be greater than zero")
	}
	return nil
}

// Copy returns a copy of this object. This method is helpful when
// implementing orm.CloneableData interface to make a copy of the header.
func (m *Metadata) Copy() *Metadata {
	if m == nil {
		return nil
	}
	cpy := *m
	return &cpy
}

func (m *Metadata) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Uint64(1, uint64(m.Schema))
	return e.Result()
}

func (m *Metadata) Unmarshal(raw []byte) error {
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			m.Schema = d.Uint32()
		default:
			d.Skip()
		}
	}
	return d.Err()
}
