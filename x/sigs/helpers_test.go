package sigs

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/ledgertest"
)

// StdTx is a signed transaction used by the tests of this package.
type StdTx struct {
	ledger.Tx
	Signatures []*StdSignature
}

var _ SignedTx = (*StdTx)(nil)
var _ ledger.Tx = (*StdTx)(nil)

func NewStdTx(payload []byte) *StdTx {
	msg := &ledgertest.Msg{RoutePath: "test/signed", Serialized: payload}
	return &StdTx{Tx: &ledgertest.Tx{Msg: msg}}
}

func (tx StdTx) GetSignatures() []*StdSignature {
	return tx.Signatures
}

func (tx StdTx) GetSignBytes() ([]byte, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	return msg.Marshal()
}

// signersHandler records the signers found in the context.
type signersHandler struct {
	Signers []ledger.Condition
}

var _ ledger.Handler = (*signersHandler)(nil)

func (s *signersHandler) Check(ctx ledger.Context, store ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &ledger.CheckResult{}, nil
}

func (s *signersHandler) Deliver(ctx ledger.Context, store ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &ledger.DeliverResult{}, nil
}
