package token

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/ledgertest/assert"
	"github.com/iov-one/ledger/store"
)

func TestGenesis(t *testing.T) {
	alice := ledgertest.RandomAddr(t)
	mint := ledgertest.RandomAddr(t)

	const tpl = `{
		"conf": {
			"token": {
				"metadata": {"schema": 1},
				"lamports_per_byte": 2,
				"account_overhead": 128
			}
		},
		"wallets": [{"address": %q, "lamports": 777}],
		"mints": [{"address": %q, "decimals": 3}],
		"tokens": [
			{"owner": %q, "mint": %q, "amount": 10},
			{"owner": %q, "mint": %q, "amount": 5}
		]
	}`
	raw := fmt.Sprintf(tpl, alice, mint, alice, mint, alice, mint)

	var opts ledger.Options
	assert.Nil(t, json.Unmarshal([]byte(raw), &opts))

	db := store.MemStore()
	var ini Initializer
	assert.Nil(t, ini.FromGenesis(opts, db))

	ctrl := NewController()
	lamports, err := ctrl.Lamports(db, alice)
	assert.Nil(t, err)
	assert.Equal(t, uint64(777), lamports)

	m, err := ctrl.Mint(db, mint)
	assert.Nil(t, err)
	assert.Equal(t, uint8(3), m.Decimals)
	assert.Equal(t, uint64(15), m.Supply)
	assert.Equal(t, uint64(testMintRent), m.Rent)

	acc, err := AssociatedAddress(alice, mint)
	assert.Nil(t, err)
	balance, err := ctrl.Balance(db, acc)
	assert.Nil(t, err)
	assert.Equal(t, uint64(15), balance)
}

func TestGenesisErrors(t *testing.T) {
	cases := map[string]struct {
		raw     string
		wantErr *errors.Error
	}{
		"missing configuration": {
			raw:     `{}`,
			wantErr: errors.ErrNotFound,
		},
		"token of unknown mint": {
			raw: `{
				"conf": {"token": {"metadata": {"schema": 1}, "lamports_per_byte": 1}},
				"tokens": [{"owner": "B6C5D8AC5B1E2B36A0B69CBC44B2E0C1D3C0EA20", "mint": "A6C5D8AC5B1E2B36A0B69CBC44B2E0C1D3C0EA20", "amount": 1}]
			}`,
			wantErr: errors.ErrNotFound,
		},
		"invalid mint address": {
			raw: `{
				"conf": {"token": {"metadata": {"schema": 1}, "lamports_per_byte": 1}},
				"mints": [{"decimals": 1}]
			}`,
			wantErr: errors.ErrInvalidInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts ledger.Options
			assert.Nil(t, json.Unmarshal([]byte(tc.raw), &opts))
			var ini Initializer
			err := ini.FromGenesis(opts, store.MemStore())
			assert.IsErr(t, tc.wantErr, err)
		})
	}
}
