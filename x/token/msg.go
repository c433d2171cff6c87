package token

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/codec"
	"github.com/iov-one/ledger/errors"
)

const (
	pathCreateMintMsg          = "token/create_mint"
	pathMintToMsg              = "token/mint_to"
	pathCreateAccountMsg       = "token/create_account"
	pathTransferMsg            = "token/transfer"
	pathCloseAccountMsg        = "token/close_account"
	pathUpdateConfigurationMsg = "token/update_configuration"
)

// CreateMintMsg creates a new mint. The mint address is derived from the
// payer and the seed, see MintAddress.
type CreateMintMsg struct {
	Metadata  *ledger.Metadata
	Payer     ledger.Address
	Seed      uint64
	Decimals  uint8
	Authority ledger.Address
}

var _ ledger.Msg = (*CreateMintMsg)(nil)

func (CreateMintMsg) Path() string {
	return pathCreateMintMsg
}

func (msg *CreateMintMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", msg.Metadata.Validate())
	errs = errors.AppendField(errs, "Payer", msg.Payer.Validate())
	if msg.Decimals > maxDecimals {
		errs = errors.Append(errs, errors.Field("Decimals", errors.ErrInvalidMsg, "must not be greater than %d", maxDecimals))
	}
	if len(msg.Authority) != 0 {
		errs = errors.AppendField(errs, "Authority", msg.Authority.Validate())
	}
	return errs
}

func (msg *CreateMintMsg) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Message(1, msg.Metadata)
	e.RawBytes(2, msg.Payer)
	e.Uint64(3, msg.Seed)
	e.Uint64(4, uint64(msg.Decimals))
	e.RawBytes(5, msg.Authority)
	return e.Result()
}

func (msg *CreateMintMsg) Unmarshal(raw []byte) error {
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			msg.Metadata = new(ledger.Metadata)
			d.Message(msg.Metadata)
		case 2:
			msg.Payer = d.RawBytes()
		case 3:
			msg.Seed = d.Uint64()
		case 4:
			msg.Decimals = d.Uint8()
		case 5:
			msg.Authority = d.RawBytes()
		default:
			d.Skip()
		}
	}
	return d.Err()
}

// MintToMsg issues new tokens into the destination account. It must be
// signed by the mint authority.
type MintToMsg struct {
	Metadata    *ledger.Metadata
	Mint        ledger.Address
	Destination ledger.Address
	Amount      uint64
}

var _ ledger.Msg = (*MintToMsg)(nil)

func (MintToMsg) Path() string {
	return pathMintToMsg
}

func (msg *MintToMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", msg.Metadata.Validate())
	errs = errors.AppendField(errs, "Mint", msg.Mint.Validate())
	errs = errors.AppendField(errs, "Destination", msg.Destination.Validate())
	if msg.Amount == 0 {
		errs = errors.Append(errs, errors.Field("Amount", errors.ErrInvalidAmount, "must be greater than zero"))
	}
	return errs
}

func (msg *MintToMsg) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Message(1, msg.Metadata)
	e.RawBytes(2, msg.Mint)
	e.RawBytes(3, msg.Destination)
	e.Uint64(4, msg.Amount)
	return e.Result()
}

func (msg *MintToMsg) Unmarshal(raw []byte) error {
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			msg.Metadata = new(ledger.Metadata)
			d.Message(msg.Metadata)
		case 2:
			msg.Mint = d.RawBytes()
		case 3:
			msg.Destination = d.RawBytes()
		case 4:
			msg.Amount = d.Uint64()
		default:
			d.Skip()
		}
	}
	return d.Err()
}

// CreateAccountMsg creates the associated token account of the owner for
// given mint.
type CreateAccountMsg struct {
	Metadata *ledger.Metadata
	Payer    ledger.Address
	Owner    ledger.Address
	Mint     ledger.Address
}

var _ ledger.Msg = (*CreateAccountMsg)(nil)

func (CreateAccountMsg) Path() string {
	return pathCreateAccountMsg
}

func (msg *CreateAccountMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", msg.Metadata.Validate())
	errs = errors.AppendField(errs, "Payer", msg.Payer.Validate())
	errs = errors.AppendField(errs, "Owner", msg.Owner.Validate())
	errs = errors.AppendField(errs, "Mint", msg.Mint.Validate())
	return errs
}

func (msg *CreateAccountMsg) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Message(1, msg.Metadata)
	e.RawBytes(2, msg.Payer)
	e.RawBytes(3, msg.Owner)
	e.RawBytes(4, msg.Mint)
	return e.Result()
}

func (msg *CreateAccountMsg) Unmarshal(raw []byte) error {
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			msg.Metadata = new(ledger.Metadata)
			d.Message(msg.Metadata)
		case 2:
			msg.Payer = d.RawBytes()
		case 3:
			msg.Owner = d.RawBytes()
		case 4:
			msg.Mint = d.RawBytes()
		default:
			d.Skip()
		}
	}
	return d.Err()
}

// TransferMsg moves tokens between two token accounts of the same mint.
// Declared decimals must match the mint.
type TransferMsg struct {
	Metadata    *ledger.Metadata
	Source      ledger.Address
	Mint        ledger.Address
	Destination ledger.Address
	Amount      uint64
	Decimals    uint8
}

var _ ledger.Msg = (*TransferMsg)(nil)

func (TransferMsg) Path() string {
	return pathTransferMsg
}

func (msg *TransferMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", msg.Metadata.Validate())
	errs = errors.AppendField(errs, "Source", msg.Source.Validate())
	errs = errors.AppendField(errs, "Mint", msg.Mint.Validate())
	errs = errors.AppendField(errs, "Destination", msg.Destination.Validate())
	if msg.Decimals > maxDecimals {
		errs = errors.Append(errs, errors.Field("Decimals", errors.ErrInvalidMsg, "must not be greater than %d", maxDecimals))
	}
	return errs
}

func (msg *TransferMsg) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Message(1, msg.Metadata)
	e.RawBytes(2, msg.Source)
	e.RawBytes(3, msg.Mint)
	e.RawBytes(4, msg.Destination)
	e.Uint64(5, msg.Amount)
	e.Uint64(6, uint64(msg.Decimals))
	return e.Result()
}

func (msg *TransferMsg) Unmarshal(raw []byte) error {
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			msg.Metadata = new(ledger.Metadata)
			d.Message(msg.Metadata)
		case 2:
			msg.Source = d.RawBytes()
		case 3:
			msg.Mint = d.RawBytes()
		case 4:
			msg.Destination = d.RawBytes()
		case 5:
			msg.Amount = d.Uint64()
		case 6:
			msg.Decimals = d.Uint8()
		default:
			d.Skip()
		}
	}
	return d.Err()
}

// CloseAccountMsg deletes an empty token account. The locked rent is sent
// to the destination wallet.
type CloseAccountMsg struct {
	Metadata    *ledger.Metadata
	Account     ledger.Address
	Destination ledger.Address
}

var _ ledger.Msg = (*CloseAccountMsg)(nil)

func (CloseAccountMsg) Path() string {
	return pathCloseAccountMsg
}

func (msg *CloseAccountMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", msg.Metadata.Validate())
	errs = errors.AppendField(errs, "Account", msg.Account.Validate())
	errs = errors.AppendField(errs, "Destination", msg.Destination.Validate())
	return errs
}

func (msg *CloseAccountMsg) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Message(1, msg.Metadata)
	e.RawBytes(2, msg.Account)
	e.RawBytes(3, msg.Destination)
	return e.Result()
}

func (msg *CloseAccountMsg) Unmarshal(raw []byte) error {
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			msg.Metadata = new(ledger.Metadata)
			d.Message(msg.Metadata)
		case 2:
			msg.Account = d.RawBytes()
		case 3:
			msg.Destination = d.RawBytes()
		default:
			d.Skip()
		}
	}
	return d.Err()
}

// UpdateConfigurationMsg changes the rent price. Only non zero fields of
// the patch are applied.
type UpdateConfigurationMsg struct {
	Metadata *ledger.Metadata
	Patch    *Configuration
}

var _ ledger.Msg = (*UpdateConfigurationMsg)(nil)

func (UpdateConfigurationMsg) Path() string {
	return pathUpdateConfigurationMsg
}

func (msg *UpdateConfigurationMsg) Validate() error {
	if err := msg.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if msg.Patch == nil {
		return errors.Field("Patch", errors.ErrEmpty, "required")
	}
	if len(msg.Patch.Owner) != 0 {
		return errors.AppendField(nil, "Patch.Owner", msg.Patch.Owner.Validate())
	}
	return nil
}

func (msg *UpdateConfigurationMsg) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Message(1, msg.Metadata)
	e.Message(2, msg.Patch)
	return e.Result()
}

func (msg *UpdateConfigurationMsg) Unmarshal(raw []byte) error {
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			msg.Metadata = new(ledger.Metadata)
			d.Message(msg.Metadata)
		case 2:
			msg.Patch = new(Configuration)
			d.Message(msg.Patch)
		default:
			d.Skip()
		}
	}
	return d.Err()
}
