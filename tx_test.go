package ledger

import (
	"testing"

	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest/assert"
)

type demoMsg struct {
	Num  int
	Text string
}

func (demoMsg) Path() string               { return "demo/msg" }
func (demoMsg) Validate() error            { return nil }
func (demoMsg) Marshal() ([]byte, error)   { return []byte("foo"), nil }
func (*demoMsg) Unmarshal(bz []byte) error { return nil }

var _ Msg = (*demoMsg)(nil)

type txMock struct {
	Tx
	Msg Msg
}

func (tx *txMock) GetMsg() (Msg, error) {
	return tx.Msg, nil
}

type msgMock struct {
	Msg
	ID  int64
	Err error
}

func (mock *msgMock) Validate() error {
	return mock.Err
}

func TestLoadMsg(t *testing.T) {
	cases := map[string]struct {
		Tx      Tx
		Dest    interface{}
		WantMsg interface{}
		WantErr *errors.Error
	}{
		"success, mock message": {
			Tx:      &txMock{Msg: &msgMock{ID: 4219}},
			Dest:    &msgMock{},
			WantMsg: &msgMock{ID: 4219},
		},
		"success, demo message": {
			Tx:      &txMock{Msg: &demoMsg{Num: 102, Text: "foobar"}},
			Dest:    &demoMsg{},
			WantMsg: &demoMsg{Num: 102, Text: "foobar"},
		},
		"transaction contains a nil message": {
			Tx:      &txMock{Msg: nil},
			Dest:    &demoMsg{},
			WantErr: errors.ErrInvalidState,
		},
		"invalid destination message, not a pointer": {
			Tx:      &txMock{Msg: &demoMsg{Num: 81421, Text: "foo"}},
			Dest:    msgMock{},
			WantErr: errors.ErrInvalidType,
		},
		"invalid destination message, wrong message type": {
			Tx:      &txMock{Msg: &demoMsg{Num: 94151, Text: "foo"}},
			Dest:    &msgMock{},
			WantErr: errors.ErrInvalidType,
		},
		"invalid destination message, unaddressable": {
			Tx:      &txMock{Msg: &msgMock{ID: 91841231}},
			Dest:    (*msgMock)(nil),
			WantErr: errors.ErrInvalidType,
		},
		"invalid message in transaction, failed validation": {
			Tx:      &txMock{Msg: &msgMock{ID: 5, Err: errors.ErrInvalidAmount}},
			Dest:    &msgMock{},
			WantErr: errors.ErrInvalidAmount,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := LoadMsg(tc.Tx, tc.Dest); !tc.WantErr.Is(err) {
				t.Fatalf("want %q error, got %q", tc.WantErr, err)
			}
			if tc.WantErr == nil {
				assert.Equal(t, tc.WantMsg, tc.Dest)
			}
		})
	}
}

func TestGetPath(t *testing.T) {
	assert.Equal(t, "demo/msg", GetPath(&txMock{Msg: &demoMsg{}}))
	assert.Equal(t, "(missing)", GetPath(&txMock{}))
}

func TestIsValidMsgPath(t *testing.T) {
	cases := map[string]bool{
		"escrow/make":    true,
		"token/mint_to":  true,
		"sigs":           true,
		"":               false,
		"/escrow":        false,
		"escrow/":        false,
		"escrow make":    false,
		"escrow//refund": false,
	}
	for path, want := range cases {
		if got := IsValidMsgPath(path); got != want {
			t.Errorf("%q: want %v, got %v", path, want, got)
		}
	}
}
