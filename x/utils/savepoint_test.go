package utils

import (
	"context"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavepoint(t *testing.T) {
	// always written before calling the decorator
	ok, ov := []byte("demo"), []byte("data")
	// written by the handler
	nk, nv := []byte{1, 2, 3}, []byte{4, 5, 6}

	cases := map[string]struct {
		save    ledger.Decorator
		handler ledger.Handler
		check   bool
		wantErr bool
		written [][]byte
		missing [][]byte
	}{
		"inactive savepoint keeps writes of a failed check": {
			save:    NewSavepoint(),
			handler: &ledgertest.WriteHandler{Key: nk, Value: nv, Err: errors.ErrHuman},
			check:   true,
			wantErr: true,
			written: [][]byte{ok, nk},
		},
		"check savepoint rolls back a failed check": {
			save:    NewSavepoint().OnCheck(),
			handler: &ledgertest.WriteHandler{Key: nk, Value: nv, Err: errors.ErrHuman},
			check:   true,
			wantErr: true,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"deliver savepoint rolls back a failed deliver": {
			save:    NewSavepoint().OnDeliver(),
			handler: &ledgertest.WriteHandler{Key: nk, Value: nv, Err: errors.ErrHuman},
			wantErr: true,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"double activation maintains both behaviours": {
			save:    NewSavepoint().OnDeliver().OnCheck(),
			handler: &ledgertest.WriteHandler{Key: nk, Value: nv, Err: errors.ErrHuman},
			wantErr: true,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"check savepoint does not affect deliver": {
			save:    NewSavepoint().OnCheck(),
			handler: &ledgertest.WriteHandler{Key: nk, Value: nv, Err: errors.ErrHuman},
			wantErr: true,
			written: [][]byte{ok, nk},
		},
		"success is written": {
			save:    NewSavepoint().OnCheck().OnDeliver(),
			handler: &ledgertest.WriteHandler{Key: nk, Value: nv},
			written: [][]byte{ok, nk},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			ctx := context.Background()
			kv := store.MemStore()
			require.NoError(t, kv.Set(ok, ov))

			var err error
			if tc.check {
				_, err = tc.save.Check(ctx, kv, nil, tc.handler)
			} else {
				_, err = tc.save.Deliver(ctx, kv, nil, tc.handler)
			}
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			for _, k := range tc.written {
				has, err := kv.Has(k)
				require.NoError(t, err)
				assert.True(t, has, "%x", k)
			}
			for _, k := range tc.missing {
				has, err := kv.Has(k)
				require.NoError(t, err)
				assert.False(t, has, "%x", k)
			}
		})
	}
}

func TestSavepointRollsBackPanic(t *testing.T) {
	kv := store.MemStore()
	h := ledgertest.Decorate(
		&ledgertest.PanicHandler{Value: "boom"},
		NewSavepoint().OnDeliver(),
	)
	stack := ledgertest.Decorate(h, NewRecovery())

	_, err := stack.Deliver(context.Background(), kv, nil)
	assert.True(t, errors.ErrPanic.Is(err))

	it, err := kv.Iterator(nil, nil)
	require.NoError(t, err)
	defer it.Release()
	_, _, err = it.Next()
	assert.True(t, errors.ErrIteratorDone.Is(err))
}
