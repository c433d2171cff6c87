package app

import (
	"bytes"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/store"
	abci "github.com/tendermint/tendermint/abci/types"
)

// Querier is implemented by the abci application as well as by a client
// of a remote node.
type Querier interface {
	Query(abci.RequestQuery) abci.ResponseQuery
}

// ABCIStore exposes the abci.Query interface as a ReadOnlyKVStore. It
// expects the raw store query handler to be registered under "/".
type ABCIStore struct {
	app Querier
}

var _ ledger.ReadOnlyKVStore = (*ABCIStore)(nil)

// NewABCIStore returns a store reading the committed state of given
// application.
func NewABCIStore(app Querier) *ABCIStore {
	return &ABCIStore{app: app}
}

// Get will query for exactly one value over the abci store.
// This can be wrapped with a bucket to reuse key/index/parse logic
func (a *ABCIStore) Get(key []byte) ([]byte, error) {
	models, err := a.query("/", key)
	if err != nil {
		return nil, err
	}
	switch len(models) {
	case 0:
		return nil, nil
	case 1:
		return models[0].Value, nil
	default:
		return nil, errors.Wrapf(errors.ErrInvalidState, "%d results for a single key", len(models))
	}
}

// Has returns true if the given key is in the abci app store
func (a *ABCIStore) Has(key []byte) (bool, error) {
	v, err := a.Get(key)
	return v != nil, err
}

// Iterator attempts to do a range iteration over the store. Only prefix
// queries are supported by the abci server, so the whole store is loaded
// and filtered locally.
func (a *ABCIStore) Iterator(start, end []byte) (ledger.Iterator, error) {
	models, err := a.inRange(start, end)
	if err != nil {
		return nil, err
	}
	return store.NewSliceIterator(models), nil
}

// ReverseIterator works like Iterator but the models are returned in
// descending key order.
func (a *ABCIStore) ReverseIterator(start, end []byte) (ledger.Iterator, error) {
	models, err := a.inRange(start, end)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(models)-1; i < j; i, j = i+1, j-1 {
		models[i], models[j] = models[j], models[i]
	}
	return store.NewSliceIterator(models), nil
}

func (a *ABCIStore) inRange(start, end []byte) ([]ledger.Model, error) {
	models, err := a.query("/?prefix", nil)
	if err != nil {
		return nil, err
	}
	res := models[:0]
	for _, m := range models {
		if start != nil && bytes.Compare(m.Key, start) < 0 {
			continue
		}
		if end != nil && bytes.Compare(m.Key, end) >= 0 {
			continue
		}
		res = append(res, m)
	}
	return res, nil
}

func (a *ABCIStore) query(path string, data []byte) ([]ledger.Model, error) {
	res := a.app.Query(abci.RequestQuery{
		Path: path,
		Data: data,
	})
	if res.Code != errors.SuccessABCICode {
		return nil, errors.Wrapf(errors.ErrDatabase, "query %q: code %d: %s", path, res.Code, res.Log)
	}
	return toModels(res.Key, res.Value)
}

func toModels(keys, values []byte) ([]ledger.Model, error) {
	var k, v ResultSet
	if err := k.Unmarshal(keys); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal keys")
	}
	if err := v.Unmarshal(values); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal values")
	}
	return JoinResults(&k, &v)
}
