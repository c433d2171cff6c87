package app

import (
	"context"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/store/iavl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dummyKey = "dummy"

type dummyInit struct{}

func (dummyInit) FromGenesis(opts ledger.Options, kv ledger.KVStore) error {
	var value string
	if err := opts.ReadOptions(dummyKey, &value); err != nil {
		return err
	}
	return kv.Set([]byte(dummyKey), []byte(value))
}

type countInit struct {
	called int
}

func (c *countInit) FromGenesis(opts ledger.Options, kv ledger.KVStore) error {
	c.called++
	return nil
}

func TestLoadGenesis(t *testing.T) {
	cases := map[string]struct {
		file         string
		parseErr     *errors.Error
		initErr      *errors.Error
		expectChain  string
		expectCalled int
		expectValue  []byte
	}{
		"no such file": {
			file:     "testdata/missing.json",
			parseErr: errors.ErrInvalidInput,
			initErr:  errors.ErrInvalidInput,
		},
		"proper genesis": {
			file:         "testdata/genesis.json",
			expectChain:  "test-chain-67",
			expectCalled: 1,
			expectValue:  []byte("secret"),
		},
		"initializer fails": {
			file:        "testdata/bad_genesis.json",
			initErr:     errors.ErrInvalidInput,
			expectChain: "super-chain-22",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			gen, err := loadGenesis(tc.file)
			if !tc.parseErr.Is(err) {
				t.Fatalf("unexpected parse error: %s", err)
			}
			assert.Equal(t, tc.expectChain, gen.ChainID)

			c := new(countInit)
			init := ChainInitializers(dummyInit{}, c)
			store := NewStoreApp("foo", iavl.MockCommitStore(), ledger.NewQueryRouter(), context.Background())
			assert.Equal(t, "", store.GetChainID())

			err = store.LoadGenesis(tc.file, init)
			if !tc.initErr.Is(err) {
				t.Fatalf("unexpected init error: %s", err)
			}
			assert.Equal(t, tc.expectChain, store.GetChainID())
			assert.Equal(t, tc.expectCalled, c.called)
			val, err := store.DeliverStore().Get([]byte(dummyKey))
			require.NoError(t, err)
			assert.Equal(t, tc.expectValue, val)
		})
	}
}

func TestChainIDCannotBeChanged(t *testing.T) {
	store := NewStoreApp("foo", iavl.MockCommitStore(), ledger.NewQueryRouter(), context.Background())
	require.NoError(t, store.LoadGenesis("testdata/genesis.json", nil))

	err := store.LoadGenesis("testdata/genesis.json", nil)
	assert.True(t, errors.ErrCannotBeModified.Is(err))

	err = saveChainID(store.DeliverStore(), "other-chain")
	assert.True(t, errors.ErrCannotBeModified.Is(err))
	assert.Equal(t, "test-chain-67", store.GetChainID())
}

func TestSaveChainIDValidates(t *testing.T) {
	store := NewStoreApp("foo", iavl.MockCommitStore(), ledger.NewQueryRouter(), context.Background())
	err := saveChainID(store.DeliverStore(), "x")
	assert.True(t, errors.ErrInvalidInput.Is(err))

	id, err := loadChainID(store.DeliverStore())
	require.NoError(t, err)
	assert.Equal(t, "", id)
}
