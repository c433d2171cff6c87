package token

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/gconf"
	"github.com/iov-one/ledger/orm"
)

// GenesisWallet is a native balance declared in the genesis file.
type GenesisWallet struct {
	Address  ledger.Address `json:"address"`
	Lamports uint64         `json:"lamports"`
}

// GenesisMint is a mint declared in the genesis file. Its address is used
// as is and not derived.
type GenesisMint struct {
	Address   ledger.Address `json:"address"`
	Decimals  uint8          `json:"decimals"`
	Authority ledger.Address `json:"authority"`
}

// GenesisToken is a token balance declared in the genesis file. It is
// stored in the associated account of the owner.
type GenesisToken struct {
	Owner  ledger.Address `json:"owner"`
	Mint   ledger.Address `json:"mint"`
	Amount uint64         `json:"amount"`
}

// Initializer fulfils the Initializer interface to load data from the
// genesis file.
type Initializer struct{}

var _ ledger.Initializer = (*Initializer)(nil)

// FromGenesis stores the rent configuration, native balances, mints and
// token balances declared in the genesis file. Rent of genesis entities
// is not charged to anyone.
func (*Initializer) FromGenesis(opts ledger.Options, db ledger.KVStore) error {
	var conf Configuration
	if err := gconf.InitConfig(db, opts, ConfigurationName, &conf); err != nil {
		return errors.Wrap(err, "init config")
	}

	ctrl := NewController()

	var wallets []GenesisWallet
	if err := opts.ReadOptions("wallets", &wallets); err != nil {
		return err
	}
	for i, w := range wallets {
		if err := ctrl.Credit(db, w.Address, w.Lamports); err != nil {
			return errors.Wrapf(err, "wallet #%d", i)
		}
	}

	mints := NewMintBucket()
	var gmints []GenesisMint
	if err := opts.ReadOptions("mints", &gmints); err != nil {
		return err
	}
	for i, m := range gmints {
		if err := m.Address.Validate(); err != nil {
			return errors.Wrapf(err, "mint #%d address", i)
		}
		if err := mints.Has(db, m.Address); err == nil {
			return errors.Wrapf(errors.ErrDuplicate, "mint #%d", i)
		}
		rent, err := conf.MinimumBalance(MintSize)
		if err != nil {
			return err
		}
		mint := &Mint{
			Metadata:  &ledger.Metadata{Schema: 1},
			Decimals:  m.Decimals,
			Authority: m.Authority,
			Rent:      rent,
		}
		if err := mints.Put(db, m.Address, mint); err != nil {
			return errors.Wrapf(err, "mint #%d", i)
		}
	}

	accounts := NewAccountBucket()
	var tokens []GenesisToken
	if err := opts.ReadOptions("tokens", &tokens); err != nil {
		return err
	}
	for i, t := range tokens {
		if err := initToken(db, ctrl, accounts, &conf, t); err != nil {
			return errors.Wrapf(err, "token #%d", i)
		}
	}
	return nil
}

func initToken(db ledger.KVStore, ctrl Controller, accounts orm.ModelBucket, conf *Configuration, t GenesisToken) error {
	mint, err := ctrl.Mint(db, t.Mint)
	if err != nil {
		return err
	}
	address, err := AssociatedAddress(t.Owner, t.Mint)
	if err != nil {
		return err
	}

	acc, err := ctrl.Account(db, address)
	switch {
	case err == nil:
	case errors.ErrNotFound.Is(err):
		rent, err := conf.MinimumBalance(AccountSize)
		if err != nil {
			return err
		}
		acc = &TokenAccount{
			Metadata: &ledger.Metadata{Schema: 1},
			Mint:     t.Mint,
			Owner:    t.Owner,
			Rent:     rent,
		}
	default:
		return err
	}

	if acc.Amount, err = add(acc.Amount, t.Amount); err != nil {
		return errors.Wrap(err, "balance")
	}
	if mint.Supply, err = add(mint.Supply, t.Amount); err != nil {
		return errors.Wrap(err, "supply")
	}
	if err := accounts.Put(db, address, acc); err != nil {
		return err
	}
	return NewMintBucket().Put(db, t.Mint, mint)
}
