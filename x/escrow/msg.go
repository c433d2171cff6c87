package escrow

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/codec"
	"github.com/iov-one/ledger/errors"
)

const (
	pathMakeMsg   = "escrow/make"
	pathTakeMsg   = "escrow/take"
	pathRefundMsg = "escrow/refund"
)

// MakeMsg opens an escrow. Amount of mint A tokens is deposited into the
// vault, Receive of mint B tokens is requested in return.
type MakeMsg struct {
	Metadata *ledger.Metadata
	Maker    ledger.Address
	Seed     uint64
	Receive  uint64
	Amount   uint64
	MintA    ledger.Address
	MintB    ledger.Address
}

var _ ledger.Msg = (*MakeMsg)(nil)

func (MakeMsg) Path() string {
	return pathMakeMsg
}

func (msg *MakeMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", msg.Metadata.Validate())
	errs = errors.AppendField(errs, "Maker", msg.Maker.Validate())
	errs = errors.AppendField(errs, "MintA", msg.MintA.Validate())
	errs = errors.AppendField(errs, "MintB", msg.MintB.Validate())
	if len(msg.MintA) != 0 && msg.MintA.Equals(msg.MintB) {
		errs = errors.Append(errs, errors.Field("MintB", errors.ErrInvalidInput, "must differ from mint a"))
	}
	if msg.Receive == 0 {
		errs = errors.Append(errs, errors.Field("Receive", errors.ErrInvalidAmount, "must be greater than zero"))
	}
	if msg.Amount == 0 {
		errs = errors.Append(errs, errors.Field("Amount", errors.ErrInvalidAmount, "must be greater than zero"))
	}
	return errs
}

func (msg *MakeMsg) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Message(1, msg.Metadata)
	e.RawBytes(2, msg.Maker)
	e.Uint64(3, msg.Seed)
	e.Uint64(4, msg.Receive)
	e.Uint64(5, msg.Amount)
	e.RawBytes(6, msg.MintA)
	e.RawBytes(7, msg.MintB)
	return e.Result()
}

func (msg *MakeMsg) Unmarshal(raw []byte) error {
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			msg.Metadata = new(ledger.Metadata)
			d.Message(msg.Metadata)
		case 2:
			msg.Maker = d.RawBytes()
		case 3:
			msg.Seed = d.Uint64()
		case 4:
			msg.Receive = d.Uint64()
		case 5:
			msg.Amount = d.Uint64()
		case 6:
			msg.MintA = d.RawBytes()
		case 7:
			msg.MintB = d.RawBytes()
		default:
			d.Skip()
		}
	}
	return d.Err()
}

// TakeMsg settles an escrow. The taker pays the requested amount of mint B
// tokens to the maker and receives the vault content.
type TakeMsg struct {
	Metadata *ledger.Metadata
	Taker    ledger.Address
	Escrow   ledger.Address
	Vault    ledger.Address
	MintA    ledger.Address
	MintB    ledger.Address
}

var _ ledger.Msg = (*TakeMsg)(nil)

func (TakeMsg) Path() string {
	return pathTakeMsg
}

func (msg *TakeMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", msg.Metadata.Validate())
	errs = errors.AppendField(errs, "Taker", msg.Taker.Validate())
	errs = errors.AppendField(errs, "Escrow", msg.Escrow.Validate())
	errs = errors.AppendField(errs, "Vault", msg.Vault.Validate())
	errs = errors.AppendField(errs, "MintA", msg.MintA.Validate())
	errs = errors.AppendField(errs, "MintB", msg.MintB.Validate())
	return errs
}

func (msg *TakeMsg) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Message(1, msg.Metadata)
	e.RawBytes(2, msg.Taker)
	e.RawBytes(3, msg.Escrow)
	e.RawBytes(4, msg.Vault)
	e.RawBytes(5, msg.MintA)
	e.RawBytes(6, msg.MintB)
	return e.Result()
}

func (msg *TakeMsg) Unmarshal(raw []byte) error {
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			msg.Metadata = new(ledger.Metadata)
			d.Message(msg.Metadata)
		case 2:
			msg.Taker = d.RawBytes()
		case 3:
			msg.Escrow = d.RawBytes()
		case 4:
			msg.Vault = d.RawBytes()
		case 5:
			msg.MintA = d.RawBytes()
		case 6:
			msg.MintB = d.RawBytes()
		default:
			d.Skip()
		}
	}
	return d.Err()
}

// RefundMsg cancels an escrow and returns the vault content to the maker.
type RefundMsg struct {
	Metadata *ledger.Metadata
	Maker    ledger.Address
	Escrow   ledger.Address
	Vault    ledger.Address
	MintA    ledger.Address
}

var _ ledger.Msg = (*RefundMsg)(nil)

func (RefundMsg) Path() string {
	return pathRefundMsg
}

func (msg *RefundMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", msg.Metadata.Validate())
	errs = errors.AppendField(errs, "Maker", msg.Maker.Validate())
	errs = errors.AppendField(errs, "Escrow", msg.Escrow.Validate())
	errs = errors.AppendField(errs, "Vault", msg.Vault.Validate())
	errs = errors.AppendField(errs, "MintA", msg.MintA.Validate())
	return errs
}

func (msg *RefundMsg) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Message(1, msg.Metadata)
	e.RawBytes(2, msg.Maker)
	e.RawBytes(3, msg.Escrow)
	e.RawBytes(4, msg.Vault)
	e.RawBytes(5, msg.MintA)
	return e.Result()
}

func (msg *RefundMsg) Unmarshal(raw []byte) error {
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			msg.Metadata = new(ledger.Metadata)
			d.Message(msg.Metadata)
		case 2:
			msg.Maker = d.RawBytes()
		case 3:
			msg.Escrow = d.RawBytes()
		case 4:
			msg.Vault = d.RawBytes()
		case 5:
			msg.MintA = d.RawBytes()
		default:
			d.Skip()
		}
	}
	return d.Err()
}
