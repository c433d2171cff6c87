package orm

import (
	"bytes"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// Index is a secondary index over bucket entities.
type Index interface {
	ledger.QueryHandler

	// Name returns the name of this index.
	Name() string

	// Update updates the index. It must be called whenever any of the
	// bucket entities has changed in the store.
	//
	// prev == nil means insert
	// save == nil means delete
	// both == nil is error
	// if both != nil and prev.Key() != save.Key() this is an error
	Update(db ledger.KVStore, prev Object, save Object) error

	// Keys returns the primary keys of all entities indexed under given
	// value.
	Keys(db ledger.ReadOnlyKVStore, value []byte) ([][]byte, error)
}

const compactIdxPrefix = "_i."

// Indexer calculates the secondary index key for a given object.
type Indexer func(Object) ([]byte, error)

// MultiKeyIndexer calculates the secondary index keys for a given object.
type MultiKeyIndexer func(Object) ([][]byte, error)

// compactIndex stores all entity keys indexed under a single value
// together. A unique index stores the primary key directly, otherwise a
// serialized MultiRef is stored.
type compactIndex struct {
	name   string
	id     []byte
	unique bool
	index  MultiKeyIndexer
	refKey func([]byte) []byte
}

var _ Index = compactIndex{}

// NewMultiKeyIndex constructs an index with multi key indexer.
// Indexer calculates the index for an object, unique enforces a unique
// constraint on the index and refKey calculates the absolute database key
// for a ref.
func NewMultiKeyIndex(name string, indexer MultiKeyIndexer, unique bool, refKey func([]byte) []byte) Index {
	return compactIndex{
		name:   name,
		id:     append([]byte(compactIdxPrefix), []byte(name+":")...),
		index:  indexer,
		unique: unique,
		refKey: refKey,
	}
}

func asMultiKeyIndexer(indexer Indexer) MultiKeyIndexer {
	return func(obj Object) ([][]byte, error) {
		key, err := indexer(obj)
		switch {
		case err != nil:
			return nil, err
		case key == nil:
			return nil, nil
		}
		return [][]byte{key}, nil
	}
}

func (i compactIndex) Name() string {
	return i.name
}

// indexKey is the full key we store in the db, including prefix.
func (i compactIndex) indexKey(key []byte) []byte {
	l := len(i.id)
	out := make([]byte, l+len(key))
	copy(out, i.id)
	copy(out[l:], key)
	return out
}

func (i compactIndex) Update(db ledger.KVStore, prev Object, save Object) error {
	switch {
	case prev == nil && save == nil:
		return errors.Wrap(errors.ErrHuman, "update requires at least one non-nil object")
	case prev == nil:
		keys, err := i.index(save)
		if err != nil {
			return err
		}
		for _, key := range keys {
			if err := i.insert(db, key, save.Key()); err != nil {
				return err
			}
		}
		return nil
	case save == nil:
		keys, err := i.index(prev)
		if err != nil {
			return err
		}
		for _, key := range keys {
			if err := i.remove(db, key, prev.Key()); err != nil {
				return err
			}
		}
		return nil
	default:
		return i.move(db, prev, save)
	}
}

func (i compactIndex) Keys(db ledger.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	raw, err := db.Get(i.indexKey(value))
	if err != nil {
		return nil, err
	}
	return i.refs(raw)
}

// refs parses a value stored in the index into a list of primary keys.
func (i compactIndex) refs(raw []byte) ([][]byte, error) {
	if raw == nil {
		return nil, nil
	}
	if i.unique {
		return [][]byte{raw}, nil
	}
	var data MultiRef
	if err := data.Unmarshal(raw); err != nil {
		return nil, errors.Wrap(err, "index refs")
	}
	return data.GetRefs(), nil
}

// getPrefix returns all references that have an index that begins with a
// given prefix.
func (i compactIndex) getPrefix(db ledger.ReadOnlyKVStore, prefix []byte) ([][]byte, error) {
	models, err := queryPrefix(db, i.indexKey(prefix))
	if err != nil {
		return nil, err
	}
	var data [][]byte
	for _, m := range models {
		refs, err := i.refs(m.Value)
		if err != nil {
			return nil, err
		}
		data = append(data, refs...)
	}
	return data, nil
}

// Query handles queries from the QueryRouter. Returned models are the
// referenced entities, not the index entries.
func (i compactIndex) Query(db ledger.ReadOnlyKVStore, mod string, data []byte) ([]ledger.Model, error) {
	var (
		refs [][]byte
		err  error
	)
	switch mod {
	case ledger.KeyQueryMod:
		refs, err = i.Keys(db, data)
	case ledger.PrefixQueryMod:
		refs, err = i.getPrefix(db, data)
	default:
		return nil, errors.Wrapf(errors.ErrHuman, "not implemented: %s", mod)
	}
	if err != nil {
		return nil, err
	}
	return i.loadRefs(db, refs)
}

func (i compactIndex) loadRefs(db ledger.ReadOnlyKVStore, refs [][]byte) ([]ledger.Model, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	res := make([]ledger.Model, len(refs))
	for j, ref := range refs {
		key := i.refKey(ref)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		res[j] = ledger.Pair(key, value)
	}
	return res, nil
}

func (i compactIndex) move(db ledger.KVStore, prev Object, save Object) error {
	if !bytes.Equal(prev.Key(), save.Key()) {
		return errors.Wrap(errors.ErrCannotBeModified, "cannot modify the primary key of an object")
	}

	oldKeys, err := i.index(prev)
	if err != nil {
		return err
	}
	newKeys, err := i.index(save)
	if err != nil {
		return err
	}
	keysToAdd := subtract(newKeys, oldKeys)
	keysToRemove := subtract(oldKeys, newKeys)

	if i.unique {
		for _, newKey := range keysToAdd {
			switch has, err := db.Has(i.indexKey(newKey)); {
			case err != nil:
				return err
			case has:
				return errors.Wrap(errors.ErrDuplicate, i.name)
			}
		}
	}
	for _, oldKey := range keysToRemove {
		if err := i.remove(db, oldKey, prev.Key()); err != nil {
			return err
		}
	}
	for _, newKey := range keysToAdd {
		if err := i.insert(db, newKey, prev.Key()); err != nil {
			return err
		}
	}
	return nil
}

// subtract returns all elements of minuend that are not in subtrahend.
func subtract(minuend [][]byte, subtrahend [][]byte) [][]byte {
	var r [][]byte
outer:
	for _, m := range minuend {
		for _, s := range subtrahend {
			if bytes.Equal(m, s) {
				continue outer
			}
		}
		r = append(r, m)
	}
	return r
}

func (i compactIndex) remove(db ledger.KVStore, index []byte, pk []byte) error {
	if len(index) == 0 {
		return nil
	}

	key := i.indexKey(index)
	cur, err := db.Get(key)
	if err != nil {
		return err
	}
	if cur == nil {
		return errors.Wrap(errors.ErrNotFound, "cannot remove index from nothing")
	}
	if i.unique {
		if !bytes.Equal(cur, pk) {
			return errors.Wrap(errors.ErrNotFound, "cannot remove index from invalid object")
		}
		return db.Delete(key)
	}

	var data MultiRef
	if err := data.Unmarshal(cur); err != nil {
		return err
	}
	if err := data.Remove(pk); err != nil {
		return err
	}
	if data.Size() == 0 {
		return db.Delete(key)
	}
	raw, err := data.Marshal()
	if err != nil {
		return err
	}
	return db.Set(key, raw)
}

func (i compactIndex) insert(db ledger.KVStore, index []byte, pk []byte) error {
	if len(index) == 0 {
		return nil
	}

	key := i.indexKey(index)
	cur, err := db.Get(key)
	if err != nil {
		return err
	}

	if i.unique {
		if cur != nil {
			return errors.Wrap(errors.ErrDuplicate, i.name)
		}
		return db.Set(key, pk)
	}

	var data MultiRef
	if cur != nil {
		if err := data.Unmarshal(cur); err != nil {
			return err
		}
	}
	if err := data.Add(pk); err != nil {
		return err
	}
	raw, err := data.Marshal()
	if err != nil {
		return err
	}
	return db.Set(key, raw)
}
