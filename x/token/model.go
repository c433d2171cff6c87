package token

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/codec"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
)

// Data sizes of the stored entities, used to compute their rent.
const (
	MintSize    = 82
	AccountSize = 165
)

// maxDecimals is the greatest precision a mint can declare.
const maxDecimals = 18

// Mint describes a kind of token.
type Mint struct {
	Metadata *ledger.Metadata
	// Decimals is the number of base 10 digits to the right of the
	// decimal place.
	Decimals uint8
	// Supply is the total amount of tokens in circulation.
	Supply uint64
	// Authority may mint new tokens. A mint without an authority has a
	// fixed supply.
	Authority ledger.Address
	// Rent is the amount of lamports locked by this mint.
	Rent uint64
}

var _ orm.Model = (*Mint)(nil)

func (m *Mint) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	if m.Decimals > maxDecimals {
		errs = errors.Append(errs, errors.Field("Decimals", errors.ErrInvalidInput, "must not be greater than %d", maxDecimals))
	}
	if len(m.Authority) != 0 {
		errs = errors.AppendField(errs, "Authority", m.Authority.Validate())
	}
	return errs
}

func (m *Mint) Copy() orm.CloneableData {
	return &Mint{
		Metadata:  m.Metadata.Copy(),
		Decimals:  m.Decimals,
		Supply:    m.Supply,
		Authority: m.Authority.Clone(),
		Rent:      m.Rent,
	}
}

func (m *Mint) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Message(1, m.Metadata)
	e.Uint64(2, uint64(m.Decimals))
	e.Uint64(3, m.Supply)
	e.RawBytes(4, m.Authority)
	e.Uint64(5, m.Rent)
	return e.Result()
}

func (m *Mint) Unmarshal(raw []byte) error {
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			m.Metadata = new(ledger.Metadata)
			d.Message(m.Metadata)
		case 2:
			m.Decimals = d.Uint8()
		case 3:
			m.Supply = d.Uint64()
		case 4:
			m.Authority = d.RawBytes()
		case 5:
			m.Rent = d.Uint64()
		default:
			d.Skip()
		}
	}
	return d.Err()
}

// NewMintBucket returns a bucket for storing mints, keyed by the mint
// address.
func NewMintBucket() orm.ModelBucket {
	return orm.NewModelBucket("mint", &Mint{})
}

// TokenAccount holds a balance of a single mint.
type TokenAccount struct {
	Metadata *ledger.Metadata
	// Mint is the address of the mint this account holds.
	Mint ledger.Address
	// Owner is the authority that can transfer from and close the account.
	Owner ledger.Address
	// Amount is the balance, in the mint base units.
	Amount uint64
	// Rent is the amount of lamports locked by this account.
	Rent uint64
}

var _ orm.Model = (*TokenAccount)(nil)

func (a *TokenAccount) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", a.Metadata.Validate())
	errs = errors.AppendField(errs, "Mint", a.Mint.Validate())
	errs = errors.AppendField(errs, "Owner", a.Owner.Validate())
	return errs
}

func (a *TokenAccount) Copy() orm.CloneableData {
	return &TokenAccount{
		Metadata: a.Metadata.Copy(),
		Mint:     a.Mint.Clone(),
		Owner:    a.Owner.Clone(),
		Amount:   a.Amount,
		Rent:     a.Rent,
	}
}

func (a *TokenAccount) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Message(1, a.Metadata)
	e.RawBytes(2, a.Mint)
	e.RawBytes(3, a.Owner)
	e.Uint64(4, a.Amount)
	e.Uint64(5, a.Rent)
	return e.Result()
}

func (a *TokenAccount) Unmarshal(raw []byte) error {
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			a.Metadata = new(ledger.Metadata)
			d.Message(a.Metadata)
		case 2:
			a.Mint = d.RawBytes()
		case 3:
			a.Owner = d.RawBytes()
		case 4:
			a.Amount = d.Uint64()
		case 5:
			a.Rent = d.Uint64()
		default:
			d.Skip()
		}
	}
	return d.Err()
}

// NewAccountBucket returns a bucket for storing token accounts, keyed by
// the account address. Accounts are indexed by their owner.
func NewAccountBucket() orm.ModelBucket {
	return orm.NewModelBucket("tokacc", &TokenAccount{},
		orm.WithIndex("owner", accountOwnerIndexer, false),
	)
}

func accountOwnerIndexer(obj orm.Object) ([]byte, error) {
	if obj == nil {
		return nil, errors.Wrap(errors.ErrHuman, "cannot index nil")
	}
	a, ok := obj.Value().(*TokenAccount)
	if !ok {
		return nil, errors.WithType(errors.ErrInvalidModel, obj.Value())
	}
	return a.Owner, nil
}

// Wallet is the native lamport balance of an address. Lamports pay the
// rent of created accounts.
type Wallet struct {
	Metadata *ledger.Metadata
	Lamports uint64
}

var _ orm.Model = (*Wallet)(nil)

func (w *Wallet) Validate() error {
	return errors.AppendField(nil, "Metadata", w.Metadata.Validate())
}

func (w *Wallet) Copy() orm.CloneableData {
	return &Wallet{
		Metadata: w.Metadata.Copy(),
		Lamports: w.Lamports,
	}
}

func (w *Wallet) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Message(1, w.Metadata)
	e.Uint64(2, w.Lamports)
	return e.Result()
}

func (w *Wallet) Unmarshal(raw []byte) error {
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			w.Metadata = new(ledger.Metadata)
			d.Message(w.Metadata)
		case 2:
			w.Lamports = d.Uint64()
		default:
			d.Skip()
		}
	}
	return d.Err()
}

// NewWalletBucket returns a bucket for storing lamport wallets, keyed by
// the wallet address.
func NewWalletBucket() orm.ModelBucket {
	return orm.NewModelBucket("wallet", &Wallet{})
}
