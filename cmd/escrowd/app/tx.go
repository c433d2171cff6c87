package app

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/codec"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/x/escrow"
	"github.com/iov-one/ledger/x/sigs"
	"github.com/iov-one/ledger/x/token"
)

// messages lists every message the application can route, indexed by
// path.
var messages = map[string]func() ledger.Msg{}

func register(fn func() ledger.Msg) {
	messages[fn().Path()] = fn
}

func init() {
	register(func() ledger.Msg { return &token.CreateMintMsg{} })
	register(func() ledger.Msg { return &token.MintToMsg{} })
	register(func() ledger.Msg { return &token.CreateAccountMsg{} })
	register(func() ledger.Msg { return &token.TransferMsg{} })
	register(func() ledger.Msg { return &token.CloseAccountMsg{} })
	register(func() ledger.Msg { return &token.UpdateConfigurationMsg{} })
	register(func() ledger.Msg { return &escrow.MakeMsg{} })
	register(func() ledger.Msg { return &escrow.TakeMsg{} })
	register(func() ledger.Msg { return &escrow.RefundMsg{} })
	register(func() ledger.Msg { return &sigs.BumpSequenceMsg{} })
}

// Tx is the transaction format of the application. The message is
// serialized together with its path, so that it can be decoded without
// knowing its type upfront.
type Tx struct {
	Signatures []*sigs.StdSignature
	Msg        ledger.Msg
}

var _ ledger.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (ledger.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

// GetMsg returns the decoded message.
func (tx *Tx) GetMsg() (ledger.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, "missing message")
	}
	return tx.Msg, nil
}

// GetSignatures returns all signatures of the transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// AddSignature appends a signature to the transaction.
func (tx *Tx) AddSignature(sig *sigs.StdSignature) {
	tx.Signatures = append(tx.Signatures, sig)
}

// GetSignBytes returns the bytes to sign. Signatures are not part of them.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	return tx.marshal(nil)
}

func (tx *Tx) Marshal() ([]byte, error) {
	return tx.marshal(tx.Signatures)
}

func (tx *Tx) marshal(signatures []*sigs.StdSignature) ([]byte, error) {
	e := codec.NewEncoder()
	for _, s := range signatures {
		e.Message(1, s)
	}
	if tx.Msg != nil {
		raw, err := tx.Msg.Marshal()
		if err != nil {
			return nil, errors.Wrap(err, "msg")
		}
		e.String(2, tx.Msg.Path())
		e.RawBytes(3, raw)
	}
	return e.Result()
}

func (tx *Tx) Unmarshal(raw []byte) error {
	var (
		path    string
		payload []byte
	)
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			s := new(sigs.StdSignature)
			d.Message(s)
			tx.Signatures = append(tx.Signatures, s)
		case 2:
			path = d.String()
		case 3:
			payload = d.RawBytes()
		default:
			d.Skip()
		}
	}
	if err := d.Err(); err != nil {
		return err
	}
	if path == "" {
		return nil
	}
	fn, ok := messages[path]
	if !ok {
		return errors.Wrapf(errors.ErrInvalidType, "unknown message path %q", path)
	}
	msg := fn()
	if err := msg.Unmarshal(payload); err != nil {
		return errors.Wrapf(err, "message %q", path)
	}
	tx.Msg = msg
	return nil
}
