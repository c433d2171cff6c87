package orm

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// prefixRange turns a prefix into a (start, end) range. The start is the
// given prefix value and the end is calculated by finding the last byte to
// increase. Returns a nil end when the prefix cannot be increased.
func prefixRange(prefix []byte) ([]byte, []byte) {
	if prefix == nil {
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

// queryPrefix returns all key value pairs that start with given prefix.
func queryPrefix(db ledger.ReadOnlyKVStore, prefix []byte) ([]ledger.Model, error) {
	itr, err := db.Iterator(prefixRange(prefix))
	if err != nil {
		return nil, err
	}
	return consumeIterator(itr)
}

// consumeIterator reads all remaining data into a slice and releases the
// iterator. Use it only when the result is known to be small.
func consumeIterator(itr ledger.Iterator) ([]ledger.Model, error) {
	defer itr.Release()

	var res []ledger.Model
	for {
		switch key, value, err := itr.Next(); {
		case err == nil:
			res = append(res, ledger.Pair(key, value))
		case errors.ErrIteratorDone.Is(err):
			return res, nil
		default:
			return nil, err
		}
	}
}
