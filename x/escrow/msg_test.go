package escrow

import (
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/codec"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/ledgertest/assert"
)

func TestMsgValidate(t *testing.T) {
	maker := ledgertest.RandomAddr(t)
	mintA := ledgertest.RandomAddr(t)
	mintB := ledgertest.RandomAddr(t)
	record := ledgertest.RandomAddr(t)
	vault := ledgertest.RandomAddr(t)

	cases := map[string]struct {
		msg  ledger.Msg
		want map[string]*errors.Error
	}{
		"valid make": {
			msg: makeMsg(maker, 0, 1, 1, mintA, mintB),
			want: map[string]*errors.Error{
				"Metadata": nil,
				"Maker":    nil,
				"MintB":    nil,
				"Amount":   nil,
			},
		},
		"make with nothing set": {
			msg: &MakeMsg{},
			want: map[string]*errors.Error{
				"Metadata": errors.ErrEmpty,
				"Maker":    errors.ErrInvalidInput,
				"MintA":    errors.ErrInvalidInput,
				"MintB":    errors.ErrInvalidInput,
				"Receive":  errors.ErrInvalidAmount,
				"Amount":   errors.ErrInvalidAmount,
			},
		},
		"make swapping a mint for itself": {
			msg: makeMsg(maker, 0, 1, 1, mintA, mintA),
			want: map[string]*errors.Error{
				"MintA": nil,
				"MintB": errors.ErrInvalidInput,
			},
		},
		"valid take": {
			msg: takeMsg(maker, record, vault, mintA, mintB),
			want: map[string]*errors.Error{
				"Taker": nil,
				"Vault": nil,
			},
		},
		"take without vault": {
			msg: takeMsg(maker, record, nil, mintA, mintB),
			want: map[string]*errors.Error{
				"Escrow": nil,
				"Vault":  errors.ErrInvalidInput,
			},
		},
		"valid refund": {
			msg: refundMsg(maker, record, vault, mintA),
			want: map[string]*errors.Error{
				"Maker": nil,
				"MintA": nil,
			},
		},
		"refund without metadata": {
			msg: &RefundMsg{Maker: maker, Escrow: record, Vault: vault, MintA: mintA},
			want: map[string]*errors.Error{
				"Metadata": errors.ErrEmpty,
				"Escrow":   nil,
			},
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.msg.Validate()
			for field, wantErr := range tc.want {
				assert.FieldError(t, err, field, wantErr)
			}
		})
	}
}

func TestEscrowSerialization(t *testing.T) {
	e := &Escrow{
		Metadata: &ledger.Metadata{Schema: 1},
		Maker:    ledgertest.RandomAddr(t),
		MintA:    ledgertest.RandomAddr(t),
		MintB:    ledgertest.RandomAddr(t),
		Receive:  50,
		Seed:     1 << 40,
		Bump:     254,
		Rent:     249,
	}
	assert.Nil(t, e.Validate())

	raw, err := e.Marshal()
	assert.Nil(t, err)
	var got Escrow
	assert.Nil(t, got.Unmarshal(raw))
	assert.Equal(t, e, &got)

	cpy := e.Copy().(*Escrow)
	cpy.Maker[0]++
	if cpy.Maker.Equals(e.Maker) {
		t.Fatal("copy shares the maker address")
	}

	enc := codec.NewEncoder()
	enc.RawBytes(2, e.Maker)
	enc.Uint64(7, 256)
	corrupt, err := enc.Result()
	assert.Nil(t, err)
	assert.IsErr(t, errors.ErrInvalidInput, new(Escrow).Unmarshal(corrupt))
}
