package token

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
	"github.com/iov-one/ledger/x"
)

// Controller is the token program API used by other extensions. Every
// method that moves funds out of an account takes the authenticator that
// must authorize the account owner. For a program owned account this is
// an x.ProgramSigner.
type Controller interface {
	// CreateMint stores a new mint at given address. The payer funds the
	// rent of the mint.
	CreateMint(db ledger.KVStore, payer, mint ledger.Address, decimals uint8, authority ledger.Address) error

	// MintTo issues amount of new tokens into the destination account.
	// The mint authority must be authorized.
	MintTo(ctx ledger.Context, db ledger.KVStore, auth x.Authenticator, mint, dest ledger.Address, amount uint64) error

	// CreateAccount stores an empty token account at given address. The
	// payer funds the rent of the account.
	CreateAccount(db ledger.KVStore, payer, address, owner, mint ledger.Address) error

	// EnsureAssociatedAccount returns the associated token account
	// address of the owner for the mint, creating the account first if
	// it does not exist yet.
	EnsureAssociatedAccount(db ledger.KVStore, payer, owner, mint ledger.Address) (ledger.Address, error)

	// TransferChecked moves amount of tokens between two accounts of the
	// declared mint. Declared decimals must match the mint.
	TransferChecked(ctx ledger.Context, db ledger.KVStore, auth x.Authenticator, from, mint, to ledger.Address, amount uint64, decimals uint8) error

	// CloseAccount deletes an empty token account and sends its rent to
	// the destination wallet.
	CloseAccount(ctx ledger.Context, db ledger.KVStore, auth x.Authenticator, account, destination ledger.Address) error

	// Account returns the token account stored at given address.
	Account(db ledger.ReadOnlyKVStore, address ledger.Address) (*TokenAccount, error)

	// Mint returns the mint stored at given address.
	Mint(db ledger.ReadOnlyKVStore, address ledger.Address) (*Mint, error)

	// Balance returns the token balance of given account.
	Balance(db ledger.ReadOnlyKVStore, account ledger.Address) (uint64, error)

	// Lamports returns the native balance of given address.
	Lamports(db ledger.ReadOnlyKVStore, address ledger.Address) (uint64, error)

	// Credit adds lamports to the wallet of given address.
	Credit(db ledger.KVStore, address ledger.Address, lamports uint64) error

	// Debit removes lamports from the wallet of given address.
	Debit(db ledger.KVStore, address ledger.Address, lamports uint64) error

	// PayRent charges the payer the rent exempt amount for dataLen bytes
	// and returns the charged amount.
	PayRent(db ledger.KVStore, payer ledger.Address, dataLen uint64) (uint64, error)
}

// NewController returns the token program controller.
func NewController() Controller {
	return &controller{
		mints:    NewMintBucket(),
		accounts: NewAccountBucket(),
		wallets:  NewWalletBucket(),
	}
}

type controller struct {
	mints    orm.ModelBucket
	accounts orm.ModelBucket
	wallets  orm.ModelBucket
}

var _ Controller = (*controller)(nil)

func (c *controller) CreateMint(db ledger.KVStore, payer, mint ledger.Address, decimals uint8, authority ledger.Address) error {
	if err := mint.Validate(); err != nil {
		return errors.Wrap(err, "mint")
	}
	switch err := c.mints.Has(db, mint); {
	case err == nil:
		return errors.Wrapf(errors.ErrDuplicate, "mint %s", mint)
	case !errors.ErrNotFound.Is(err):
		return err
	}

	rent, err := c.PayRent(db, payer, MintSize)
	if err != nil {
		return errors.Wrap(err, "mint rent")
	}
	m := &Mint{
		Metadata:  &ledger.Metadata{Schema: 1},
		Decimals:  decimals,
		Authority: authority,
		Rent:      rent,
	}
	if err := c.mints.Put(db, mint, m); err != nil {
		return errors.Wrap(err, "save mint")
	}
	return nil
}

func (c *controller) MintTo(ctx ledger.Context, db ledger.KVStore, auth x.Authenticator, mint, dest ledger.Address, amount uint64) error {
	m, err := c.Mint(db, mint)
	if err != nil {
		return err
	}
	if len(m.Authority) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "mint has a fixed supply")
	}
	if !auth.HasAddress(ctx, m.Authority) {
		return errors.Wrap(errors.ErrUnauthorized, "mint authority signature required")
	}
	acc, err := c.Account(db, dest)
	if err != nil {
		return errors.Wrap(err, "destination")
	}
	if !acc.Mint.Equals(mint) {
		return errors.Wrapf(ErrInvalidMint, "destination holds %s", acc.Mint)
	}

	if m.Supply, err = add(m.Supply, amount); err != nil {
		return errors.Wrap(err, "supply")
	}
	if acc.Amount, err = add(acc.Amount, amount); err != nil {
		return errors.Wrap(err, "destination balance")
	}
	if err := c.mints.Put(db, mint, m); err != nil {
		return errors.Wrap(err, "save mint")
	}
	if err := c.accounts.Put(db, dest, acc); err != nil {
		return errors.Wrap(err, "save destination")
	}
	return nil
}

func (c *controller) CreateAccount(db ledger.KVStore, payer, address, owner, mint ledger.Address) error {
	if err := address.Validate(); err != nil {
		return errors.Wrap(err, "address")
	}
	if err := owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if _, err := c.Mint(db, mint); err != nil {
		return err
	}
	switch err := c.accounts.Has(db, address); {
	case err == nil:
		return errors.Wrapf(errors.ErrDuplicate, "account %s", address)
	case !errors.ErrNotFound.Is(err):
		return err
	}

	rent, err := c.PayRent(db, payer, AccountSize)
	if err != nil {
		return errors.Wrap(err, "account rent")
	}
	acc := &TokenAccount{
		Metadata: &ledger.Metadata{Schema: 1},
		Mint:     mint,
		Owner:    owner,
		Rent:     rent,
	}
	if err := c.accounts.Put(db, address, acc); err != nil {
		return errors.Wrap(err, "save account")
	}
	return nil
}

func (c *controller) EnsureAssociatedAccount(db ledger.KVStore, payer, owner, mint ledger.Address) (ledger.Address, error) {
	address, err := AssociatedAddress(owner, mint)
	if err != nil {
		return nil, err
	}
	acc, err := c.Account(db, address)
	switch {
	case err == nil:
		if !acc.Mint.Equals(mint) || !acc.Owner.Equals(owner) {
			return nil, errors.Wrapf(errors.ErrInvalidState, "associated account %s is not owned by %s", address, owner)
		}
		return address, nil
	case errors.ErrNotFound.Is(err):
		if err := c.CreateAccount(db, payer, address, owner, mint); err != nil {
			return nil, err
		}
		return address, nil
	default:
		return nil, err
	}
}

func (c *controller) TransferChecked(ctx ledger.Context, db ledger.KVStore, auth x.Authenticator, from, mint, to ledger.Address, amount uint64, decimals uint8) error {
	m, err := c.Mint(db, mint)
	if err != nil {
		return err
	}
	if m.Decimals != decimals {
		return errors.Wrapf(ErrInvalidDecimals, "mint has %d decimals, got %d", m.Decimals, decimals)
	}

	src, err := c.Account(db, from)
	if err != nil {
		return errors.Wrap(err, "source")
	}
	if !src.Mint.Equals(mint) {
		return errors.Wrapf(ErrInvalidMint, "source holds %s", src.Mint)
	}
	dst, err := c.Account(db, to)
	if err != nil {
		return errors.Wrap(err, "destination")
	}
	if !dst.Mint.Equals(mint) {
		return errors.Wrapf(ErrInvalidMint, "destination holds %s", dst.Mint)
	}
	if !auth.HasAddress(ctx, src.Owner) {
		return errors.Wrap(errors.ErrUnauthorized, "source owner signature required")
	}
	if src.Amount < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "balance %d, requested %d", src.Amount, amount)
	}
	if from.Equals(to) {
		return nil
	}

	src.Amount -= amount
	if dst.Amount, err = add(dst.Amount, amount); err != nil {
		return errors.Wrap(err, "destination balance")
	}
	if err := c.accounts.Put(db, from, src); err != nil {
		return errors.Wrap(err, "save source")
	}
	if err := c.accounts.Put(db, to, dst); err != nil {
		return errors.Wrap(err, "save destination")
	}
	return nil
}

func (c *controller) CloseAccount(ctx ledger.Context, db ledger.KVStore, auth x.Authenticator, account, destination ledger.Address) error {
	acc, err := c.Account(db, account)
	if err != nil {
		return err
	}
	if !auth.HasAddress(ctx, acc.Owner) {
		return errors.Wrap(errors.ErrUnauthorized, "account owner signature required")
	}
	if acc.Amount != 0 {
		return errors.Wrapf(errors.ErrInvalidState, "account holds %d tokens", acc.Amount)
	}
	if err := c.accounts.Delete(db, account); err != nil {
		return errors.Wrap(err, "delete account")
	}
	if err := c.Credit(db, destination, acc.Rent); err != nil {
		return errors.Wrap(err, "refund rent")
	}
	return nil
}

func (c *controller) Account(db ledger.ReadOnlyKVStore, address ledger.Address) (*TokenAccount, error) {
	var acc TokenAccount
	if err := c.accounts.One(db, address, &acc); err != nil {
		return nil, errors.Wrapf(err, "token account %s", address)
	}
	return &acc, nil
}

func (c *controller) Mint(db ledger.ReadOnlyKVStore, address ledger.Address) (*Mint, error) {
	var m Mint
	if err := c.mints.One(db, address, &m); err != nil {
		return nil, errors.Wrapf(err, "mint %s", address)
	}
	return &m, nil
}

func (c *controller) Balance(db ledger.ReadOnlyKVStore, account ledger.Address) (uint64, error) {
	acc, err := c.Account(db, account)
	if err != nil {
		return 0, err
	}
	return acc.Amount, nil
}

func (c *controller) Lamports(db ledger.ReadOnlyKVStore, address ledger.Address) (uint64, error) {
	var w Wallet
	switch err := c.wallets.One(db, address, &w); {
	case err == nil:
		return w.Lamports, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, err
	}
}

func (c *controller) Credit(db ledger.KVStore, address ledger.Address, lamports uint64) error {
	if err := address.Validate(); err != nil {
		return errors.Wrap(err, "wallet address")
	}
	current, err := c.Lamports(db, address)
	if err != nil {
		return err
	}
	total, err := add(current, lamports)
	if err != nil {
		return errors.Wrap(err, "wallet balance")
	}
	return c.wallets.Put(db, address, &Wallet{
		Metadata: &ledger.Metadata{Schema: 1},
		Lamports: total,
	})
}

func (c *controller) Debit(db ledger.KVStore, address ledger.Address, lamports uint64) error {
	current, err := c.Lamports(db, address)
	if err != nil {
		return err
	}
	if current < lamports {
		return errors.Wrapf(errors.ErrInsufficientAmount, "wallet holds %d lamports, %d required", current, lamports)
	}
	if current == lamports {
		if lamports == 0 {
			return nil
		}
		return c.wallets.Delete(db, address)
	}
	return c.wallets.Put(db, address, &Wallet{
		Metadata: &ledger.Metadata{Schema: 1},
		Lamports: current - lamports,
	})
}

func (c *controller) PayRent(db ledger.KVStore, payer ledger.Address, dataLen uint64) (uint64, error) {
	rent, err := MinimumBalance(db, dataLen)
	if err != nil {
		return 0, err
	}
	if err := c.Debit(db, payer, rent); err != nil {
		return 0, errors.Wrapf(err, "payer %s", payer)
	}
	return rent, nil
}

func add(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, errors.ErrOverflow
	}
	return sum, nil
}
