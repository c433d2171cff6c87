package orm

import (
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest/assert"
	"github.com/iov-one/ledger/store"
)

func TestBucketName(t *testing.T) {
	obj := NewSimpleObj(nil, &Counter{})

	assert.Panics(t, func() {
		// An invalid bucket name must crash.
		NewBucket("l33t", obj)
	})
}

func TestBucketNameCollision(t *testing.T) {
	const bucketName = "mybucket"
	var objkey = []byte("collision-key")

	o1 := NewSimpleObj(objkey, &Counter{Count: 7})
	b1 := NewBucket(bucketName, o1)

	o2 := NewSimpleObj(objkey, &MultiRef{Refs: [][]byte{[]byte("foobar")}})
	b2 := NewBucket(bucketName, o2)

	db := store.MemStore()
	assert.Nil(t, b1.Save(db, o1))

	// Buckets do not know about each other. Saving an object under the
	// same key overwrites the previous value.
	assert.Nil(t, b2.Save(db, o2))

	// Loading an object using the wrong bucket must fail because the
	// stored data uses an incompatible wire type.
	_, err := b1.Get(db, objkey)
	assert.IsErr(t, errors.ErrInvalidState, err)
}

func TestBucketCannotSaveInvalid(t *testing.T) {
	b := NewBucket("cnts", NewSimpleObj(nil, &Counter{}))
	db := store.MemStore()

	cases := map[string]struct {
		obj     Object
		wantErr *errors.Error
	}{
		"missing key": {
			obj:     NewSimpleObj(nil, &Counter{Count: 1}),
			wantErr: errors.ErrEmpty,
		},
		"invalid value": {
			obj:     NewSimpleObj([]byte("a"), &Counter{}),
			wantErr: errors.ErrInvalidModel,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.IsErr(t, tc.wantErr, b.Save(db, tc.obj))
		})
	}
}

func TestBucketGetSaveDelete(t *testing.T) {
	b := NewBucket("cnts", NewSimpleObj(nil, &Counter{}))
	db := store.MemStore()

	obj, err := b.Get(db, []byte("a"))
	assert.Nil(t, err)
	assert.Nil(t, obj)

	assert.Nil(t, b.Save(db, NewSimpleObj([]byte("a"), &Counter{Count: 5})))

	obj, err = b.Get(db, []byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("a"), obj.Key())
	assert.Equal(t, &Counter{Count: 5}, obj.Value())

	has, err := b.Has(db, []byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, true, has)

	assert.Nil(t, b.Delete(db, []byte("a")))
	obj, err = b.Get(db, []byte("a"))
	assert.Nil(t, err)
	assert.Nil(t, obj)
}

func TestBucketIndexes(t *testing.T) {
	b := NewBucket("cnts", NewSimpleObj(nil, &Counter{})).
		WithIndex("value", countIndexer, false)
	db := store.MemStore()

	assert.Nil(t, b.Save(db, NewSimpleObj([]byte("a"), &Counter{Count: 5})))
	assert.Nil(t, b.Save(db, NewSimpleObj([]byte("b"), &Counter{Count: 5})))
	assert.Nil(t, b.Save(db, NewSimpleObj([]byte("c"), &Counter{Count: 7})))

	objs, err := b.GetIndexed(db, "value", encodeCount(5))
	assert.Nil(t, err)
	assert.Equal(t, 2, len(objs))
	assert.Equal(t, []byte("a"), objs[0].Key())
	assert.Equal(t, []byte("b"), objs[1].Key())

	// Moving an object between index values must update both entries.
	assert.Nil(t, b.Save(db, NewSimpleObj([]byte("a"), &Counter{Count: 7})))
	objs, err = b.GetIndexed(db, "value", encodeCount(7))
	assert.Nil(t, err)
	assert.Equal(t, 2, len(objs))
	objs, err = b.GetIndexed(db, "value", encodeCount(5))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(objs))

	assert.Nil(t, b.Delete(db, []byte("b")))
	objs, err = b.GetIndexed(db, "value", encodeCount(5))
	assert.Nil(t, err)
	assert.Equal(t, 0, len(objs))

	_, err = b.GetIndexed(db, "unknown", encodeCount(5))
	assert.IsErr(t, ErrInvalidIndex, err)
}

func TestBucketUniqueIndex(t *testing.T) {
	b := NewBucket("cnts", NewSimpleObj(nil, &Counter{})).
		WithIndex("value", countIndexer, true)
	db := store.MemStore()

	assert.Nil(t, b.Save(db, NewSimpleObj([]byte("a"), &Counter{Count: 5})))
	err := b.Save(db, NewSimpleObj([]byte("b"), &Counter{Count: 5}))
	assert.IsErr(t, errors.ErrDuplicate, err)

	// Updating the owner of the unique value is allowed.
	assert.Nil(t, b.Save(db, NewSimpleObj([]byte("a"), &Counter{Count: 5})))
	assert.Nil(t, b.Save(db, NewSimpleObj([]byte("a"), &Counter{Count: 6})))
	assert.Nil(t, b.Save(db, NewSimpleObj([]byte("b"), &Counter{Count: 5})))
}

func TestBucketQuery(t *testing.T) {
	b := NewBucket("cnts", NewSimpleObj(nil, &Counter{})).
		WithIndex("value", countIndexer, false)
	db := store.MemStore()

	for _, k := range []string{"aa", "ab", "b"} {
		assert.Nil(t, b.Save(db, NewSimpleObj([]byte(k), &Counter{Count: 3})))
	}

	qr := ledger.NewQueryRouter()
	b.Register("counters", qr)

	res, err := qr.Handler("/counters").Query(db, ledger.KeyQueryMod, []byte("ab"))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res))
	assert.Equal(t, b.DBKey([]byte("ab")), res[0].Key)

	res, err = qr.Handler("/counters").Query(db, ledger.KeyQueryMod, []byte("zz"))
	assert.Nil(t, err)
	assert.Equal(t, 0, len(res))

	res, err = qr.Handler("/counters").Query(db, ledger.PrefixQueryMod, []byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, 2, len(res))

	res, err = qr.Handler("/counters/value").Query(db, ledger.KeyQueryMod, encodeCount(3))
	assert.Nil(t, err)
	assert.Equal(t, 3, len(res))

	_, err = qr.Handler("/counters").Query(db, "range", nil)
	assert.IsErr(t, errors.ErrHuman, err)
}
