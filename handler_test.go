package ledger

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest/assert"
)

func TestOptionsStream(t *testing.T) {
	cases := map[string]struct {
		json          string
		wantStreamErr *errors.Error
		wantElemErr   *errors.Error
		exp           []struct{ Key int }
	}{
		"happy path": {
			json: `{"list": [{"key": 1}, {"key": 2}]}`,
			exp: []struct{ Key int }{
				{Key: 1},
				{Key: 2},
			},
		},
		"missing list": {
			json:          `{}`,
			wantStreamErr: errors.ErrEmpty,
		},
		"wrong value": {
			json:        `{"list": [{"key": "dasdasas"}]}`,
			exp:         []struct{ Key int }{{}},
			wantElemErr: errors.ErrInvalidInput,
		},
		"wrong body": {
			json:          `{"list": "adasda"}`,
			wantStreamErr: errors.ErrInvalidInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var o Options
			assert.Nil(t, json.Unmarshal([]byte(tc.json), &o))
			next, err := o.Stream("list")
			assert.IsErr(t, tc.wantStreamErr, err)
			if err != nil {
				return
			}
			for _, want := range tc.exp {
				var s struct{ Key int }
				if err := next(&s); err != nil {
					assert.IsErr(t, tc.wantElemErr, err)
					return
				}
				assert.Equal(t, want, s)
			}
			assert.IsErr(t, errors.ErrEmpty, next(&struct{}{}))
		})
	}
}

func TestOptionsReadOptions(t *testing.T) {
	opts := Options{
		"conf":   json.RawMessage(`{"name": "escrow"}`),
		"broken": json.RawMessage(`{"name": 1}`),
	}
	var conf struct{ Name string }

	assert.Nil(t, opts.ReadOptions("missing", &conf))
	assert.Equal(t, "", conf.Name)

	assert.Nil(t, opts.ReadOptions("conf", &conf))
	assert.Equal(t, "escrow", conf.Name)

	assert.IsErr(t, errors.ErrInvalidInput, opts.ReadOptions("broken", &conf))
}
