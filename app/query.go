package app

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// RegisterQuery registers the raw store access under "/". Any key, with or
// without a bucket prefix, can be read this way.
func RegisterQuery(qr ledger.QueryRouter) {
	qr.Register("/", rawQuery{})
}

type rawQuery struct{}

func (rawQuery) Query(db ledger.ReadOnlyKVStore, mod string, data []byte) ([]ledger.Model, error) {
	switch mod {
	case ledger.KeyQueryMod:
		value, err := db.Get(data)
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, nil
		}
		return []ledger.Model{ledger.Pair(data, value)}, nil
	case ledger.PrefixQueryMod:
		start, end := prefixRange(data)
		it, err := db.Iterator(start, end)
		if err != nil {
			return nil, err
		}
		defer it.Release()
		var res []ledger.Model
		for {
			switch key, value, err := it.Next(); {
			case err == nil:
				res = append(res, ledger.Pair(key, value))
			case errors.ErrIteratorDone.Is(err):
				return res, nil
			default:
				return nil, err
			}
		}
	default:
		return nil, errors.Wrapf(errors.ErrInvalidInput, "unknown query mod %q", mod)
	}
}

// prefixRange turns a prefix into a (start, end) range. A nil or empty
// prefix selects the whole store.
func prefixRange(prefix []byte) ([]byte, []byte) {
	if len(prefix) == 0 {
		return nil, nil
	}
	start := append([]byte(nil), prefix...)
	end := append([]byte(nil), prefix...)
	l := len(end) - 1
	for l >= 0 && end[l] == 255 {
		l--
	}
	if l < 0 {
		return start, nil
	}
	end[l]++
	return start, end[:l+1]
}
