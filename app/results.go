package app

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/codec"
	"github.com/iov-one/ledger/errors"
)

// ResultSet is the wire format of a query response. Keys and values of the
// returned models are sent as two separate result sets of the same size.
type ResultSet struct {
	Results [][]byte
}

var _ ledger.Persistent = (*ResultSet)(nil)

func (rs *ResultSet) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	for _, r := range rs.Results {
		// Empty values must be preserved so that keys and values
		// stay aligned.
		e.RawBytes(1, append([]byte{0}, r...))
	}
	return e.Result()
}

func (rs *ResultSet) Unmarshal(raw []byte) error {
	rs.Results = nil
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			b := d.RawBytes()
			if len(b) == 0 {
				return errors.Wrap(errors.ErrInvalidInput, "result without a marker")
			}
			rs.Results = append(rs.Results, b[1:])
		default:
			d.Skip()
		}
	}
	return d.Err()
}

// ResultsFromKeys returns a ResultSet of all keys given a set of models.
func ResultsFromKeys(models []ledger.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Key
	}
	return &ResultSet{Results: res}
}

// ResultsFromValues returns a ResultSet of all values given a set of
// models.
func ResultsFromValues(models []ledger.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Value
	}
	return &ResultSet{Results: res}
}

// JoinResults inverts ResultsFromKeys and ResultsFromValues and makes them
// a consistent whole again.
func JoinResults(keys, values *ResultSet) ([]ledger.Model, error) {
	kref, vref := keys.Results, values.Results
	if len(kref) != len(vref) {
		return nil, errors.Wrapf(errors.ErrInvalidState, "%d keys and %d values", len(kref), len(vref))
	}
	mods := make([]ledger.Model, len(kref))
	for i := range mods {
		mods[i] = ledger.Pair(kref[i], vref[i])
	}
	return mods, nil
}

// UnmarshalOneResult parses a result set and, if it is not empty,
// unmarshals the first result into o. ErrNotFound is returned for an empty
// set.
func UnmarshalOneResult(raw []byte, o ledger.Persistent) error {
	var res ResultSet
	if err := res.Unmarshal(raw); err != nil {
		return errors.Wrap(err, "result set")
	}
	if len(res.Results) == 0 {
		return errors.ErrNotFound
	}
	return o.Unmarshal(res.Results[0])
}
