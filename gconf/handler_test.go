package gconf

import (
	"context"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/ledgertest/assert"
	"github.com/iov-one/ledger/store"
)

func TestUpdateConfigurationHandler(t *testing.T) {
	cond := ledgertest.NewCondition()

	cases := map[string]struct {
		// Initial configuration state. Nil to not store any.
		init           *myconfig
		msg            ledger.Msg
		conditions     []ledger.Condition
		wantCheckErr   *errors.Error
		wantDeliverErr *errors.Error
		wantConfig     *myconfig
	}{
		"success": {
			init: &myconfig{Owner: cond.Address(), Num: 5125, Str: "foobar"},
			msg: &myconfigMsg{
				Patch: &myconfig{Owner: cond.Address(), Num: 333, Str: "boing!"},
			},
			conditions: []ledger.Condition{cond},
			wantConfig: &myconfig{Owner: cond.Address(), Num: 333, Str: "boing!"},
		},
		"message must be signed by the configuration owner": {
			init: &myconfig{Owner: cond.Address(), Num: 5125, Str: "foobar"},
			msg: &myconfigMsg{
				Patch: &myconfig{Owner: cond.Address(), Num: 333},
			},
			conditions:     []ledger.Condition{ledgertest.NewCondition()},
			wantCheckErr:   errors.ErrUnauthorized,
			wantDeliverErr: errors.ErrUnauthorized,
		},
		"zero values are not updating the configuration": {
			init: &myconfig{Owner: cond.Address(), Num: 5125, Str: "foobar"},
			msg: &myconfigMsg{
				Patch: &myconfig{Owner: cond.Address(), Num: 7},
			},
			conditions: []ledger.Condition{cond},
			wantConfig: &myconfig{Owner: cond.Address(), Num: 7, Str: "foobar"},
		},
		"invalid configuration is not accepted": {
			init: &myconfig{Owner: cond.Address(), Num: 5125, Str: "foobar"},
			msg: &myconfigMsg{
				Patch: &myconfig{Owner: cond.Address(), Num: -4},
			},
			conditions:     []ledger.Condition{cond},
			wantCheckErr:   errors.ErrInvalidState,
			wantDeliverErr: errors.ErrInvalidState,
		},
		"configuration must exist": {
			msg: &myconfigMsg{
				Patch: &myconfig{Owner: cond.Address(), Num: 1},
			},
			conditions:     []ledger.Condition{cond},
			wantCheckErr:   errors.ErrNotFound,
			wantDeliverErr: errors.ErrNotFound,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			if tc.init != nil {
				assert.Nil(t, Save(db, "mypkg", tc.init))
			}

			var c myconfig
			auth := &ledgertest.CtxAuth{Key: "auth"}
			handler := NewUpdateConfigurationHandler("mypkg", &c, auth)

			ctx := auth.SetConditions(context.Background(), tc.conditions...)
			tx := &ledgertest.Tx{Msg: tc.msg}

			cache := db.CacheWrap()
			_, err := handler.Check(ctx, cache, tx)
			assert.IsErr(t, tc.wantCheckErr, err)
			cache.Discard()

			_, err = handler.Deliver(ctx, db, tx)
			assert.IsErr(t, tc.wantDeliverErr, err)

			if tc.wantConfig != nil {
				var got myconfig
				assert.Nil(t, Load(db, "mypkg", &got))
				assert.Equal(t, tc.wantConfig, &got)
			}
		})
	}
}
