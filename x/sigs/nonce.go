package sigs

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// NextNonce returns the next numeric nonce value that should be used during a
// transaction signing. Nonce counting starts with zero.
func NextNonce(db ledger.ReadOnlyKVStore, signer ledger.Address) (int64, error) {
	obj, err := NewBucket().Get(db, signer)
	if err != nil {
		return 0, errors.Wrap(err, "bucket get")
	}
	if u := AsUser(obj); u != nil {
		return u.Sequence, nil
	}
	return 0, nil
}
