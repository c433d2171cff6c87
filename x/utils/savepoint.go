package utils

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// Savepoint isolates all writes done by the wrapped handler in a cache
// wrap. Data is written to the parent store only when the handler
// succeeds. Any error or panic discards the changes.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ ledger.Decorator = Savepoint{}

// NewSavepoint creates a Savepoint decorator. It is inactive until
// OnCheck or OnDeliver is called.
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck returns a savepoint that is active during CheckTx.
func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

// OnDeliver returns a savepoint that is active during DeliverTx.
func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

func (s Savepoint) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx, next ledger.Checker) (*ledger.CheckResult, error) {
	cache, ok := s.cache(s.onCheck, db)
	if !ok {
		return next.Check(ctx, db, tx)
	}
	defer cache.Discard()

	res, err := next.Check(ctx, cache, tx)
	if err != nil {
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "write savepoint")
	}
	return res, nil
}

func (s Savepoint) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx, next ledger.Deliverer) (*ledger.DeliverResult, error) {
	cache, ok := s.cache(s.onDeliver, db)
	if !ok {
		return next.Deliver(ctx, db, tx)
	}
	defer cache.Discard()

	res, err := next.Deliver(ctx, cache, tx)
	if err != nil {
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "write savepoint")
	}
	return res, nil
}

// cache returns a fresh cache wrap of db when the savepoint is active and
// the store supports it.
func (Savepoint) cache(active bool, db ledger.KVStore) (ledger.KVCacheWrap, bool) {
	if !active {
		return nil, false
	}
	cs, ok := db.(ledger.CacheableKVStore)
	if !ok {
		return nil, false
	}
	return cs.CacheWrap(), true
}
