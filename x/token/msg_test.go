package token

import (
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/ledgertest/assert"
)

func TestMsgValidate(t *testing.T) {
	addr := ledgertest.RandomAddr(t)
	meta := &ledger.Metadata{Schema: 1}

	cases := map[string]struct {
		msg       ledger.Msg
		wantField string
		wantErr   *errors.Error
	}{
		"valid create mint": {
			msg: &CreateMintMsg{Metadata: meta, Payer: addr, Decimals: 9},
		},
		"create mint with too many decimals": {
			msg:       &CreateMintMsg{Metadata: meta, Payer: addr, Decimals: maxDecimals + 1},
			wantField: "Decimals",
			wantErr:   errors.ErrInvalidMsg,
		},
		"create mint with invalid authority": {
			msg:       &CreateMintMsg{Metadata: meta, Payer: addr, Authority: []byte("short")},
			wantField: "Authority",
			wantErr:   errors.ErrInvalidInput,
		},
		"mint zero tokens": {
			msg:       &MintToMsg{Metadata: meta, Mint: addr, Destination: addr},
			wantField: "Amount",
			wantErr:   errors.ErrInvalidAmount,
		},
		"create account without mint": {
			msg:       &CreateAccountMsg{Metadata: meta, Payer: addr, Owner: addr},
			wantField: "Mint",
			wantErr:   errors.ErrInvalidInput,
		},
		"transfer of zero tokens": {
			msg: &TransferMsg{Metadata: meta, Source: addr, Mint: addr, Destination: addr},
		},
		"transfer without metadata": {
			msg:       &TransferMsg{Source: addr, Mint: addr, Destination: addr},
			wantField: "Metadata",
			wantErr:   errors.ErrEmpty,
		},
		"close account without destination": {
			msg:       &CloseAccountMsg{Metadata: meta, Account: addr},
			wantField: "Destination",
			wantErr:   errors.ErrInvalidInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.msg.Validate()
			if tc.wantField == "" {
				assert.Nil(t, err)
				return
			}
			assert.FieldError(t, err, tc.wantField, tc.wantErr)
		})
	}
}

func TestUpdateConfigurationMsgValidate(t *testing.T) {
	msg := &UpdateConfigurationMsg{Metadata: &ledger.Metadata{Schema: 1}}
	assert.IsErr(t, errors.ErrEmpty, msg.Validate())

	msg.Patch = &Configuration{LamportsPerByte: 3}
	assert.Nil(t, msg.Validate())

	raw, err := msg.Marshal()
	assert.Nil(t, err)
	var got UpdateConfigurationMsg
	assert.Nil(t, got.Unmarshal(raw))
	assert.Equal(t, uint64(3), got.Patch.LamportsPerByte)
}
