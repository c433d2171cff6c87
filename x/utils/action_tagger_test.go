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
	"github.com/tendermint/tendermint/libs/common"
)

func TestActionTagger(t *testing.T) {
	tag := func(key, value string) common.KVPair {
		return common.KVPair{Key: []byte(key), Value: []byte(value)}
	}

	cases := map[string]struct {
		handler  ledger.Handler
		tx       ledger.Tx
		wantErr  *errors.Error
		wantTags []common.KVPair
	}{
		"simple call": {
			handler:  &ledgertest.Handler{},
			tx:       &ledgertest.Tx{Msg: &ledgertest.Msg{RoutePath: "escrow/make"}},
			wantTags: []common.KVPair{tag(ActionKey, "escrow/make")},
		},
		"passes through error": {
			handler: &ledgertest.Handler{DeliverErr: errors.ErrHuman},
			tx:      &ledgertest.Tx{Msg: &ledgertest.Msg{RoutePath: "escrow/make"}},
			wantErr: errors.ErrHuman,
		},
		"broken transaction": {
			handler: &ledgertest.Handler{},
			tx:      &ledgertest.Tx{Err: errors.ErrInvalidMsg},
			wantErr: errors.ErrInvalidMsg,
		},
		"tags are additive": {
			handler: &ledgertest.Handler{
				DeliverResult: ledger.DeliverResult{Tags: []common.KVPair{tag("other", "x")}},
			},
			tx:       &ledgertest.Tx{Msg: &ledgertest.Msg{RoutePath: "escrow/take"}},
			wantTags: []common.KVPair{tag("other", "x"), tag(ActionKey, "escrow/take")},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			stack := ledgertest.Decorate(tc.handler, NewActionTagger())
			res, err := stack.Deliver(context.Background(), store.MemStore(), tc.tx)
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err), "got %+v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantTags, res.Tags)
		})
	}
}
