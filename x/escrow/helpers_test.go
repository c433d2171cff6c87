package escrow

import (
	"context"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/gconf"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/ledgertest/assert"
	"github.com/iov-one/ledger/store"
	"github.com/iov-one/ledger/x/token"
	"github.com/iov-one/ledger/x/utils"
)

const testDecimals = 6

// market is a ledger state with two mints and a router that executes
// escrow and token messages the way the application does.
type market struct {
	t        testing.TB
	db       ledger.CacheableKVStore
	ctrl     token.Controller
	auth     *ledgertest.CtxAuth
	handlers map[string]ledger.Handler

	authority ledger.Condition
	mintA     ledger.Address
	mintB     ledger.Address
}

func (m *market) Handle(msg ledger.Msg, h ledger.Handler) {
	m.handlers[msg.Path()] = ledgertest.Decorate(h, utils.NewSavepoint().OnDeliver())
}

func newMarket(t testing.TB) *market {
	return newMarketWith(t, token.NewController())
}

func newMarketWith(t testing.TB, ctrl token.Controller) *market {
	t.Helper()

	db := store.MemStore()
	conf := &token.Configuration{
		Metadata:        &ledger.Metadata{Schema: 1},
		LamportsPerByte: 1,
		AccountOverhead: 128,
	}
	assert.Nil(t, gconf.Save(db, token.ConfigurationName, conf))

	m := &market{
		t:         t,
		db:        db,
		ctrl:      ctrl,
		auth:      &ledgertest.CtxAuth{Key: "auth"},
		handlers:  make(map[string]ledger.Handler),
		authority: ledgertest.NewCondition(),
	}
	RegisterRoutes(m, m.auth, ctrl)
	token.RegisterRoutes(m, m.auth, ctrl)

	payer := m.authority.Address()
	assert.Nil(t, ctrl.Credit(db, payer, 1000000))
	var err error
	m.mintA, err = token.MintAddress(payer, 1)
	assert.Nil(t, err)
	m.mintB, err = token.MintAddress(payer, 2)
	assert.Nil(t, err)
	assert.Nil(t, ctrl.CreateMint(db, payer, m.mintA, testDecimals, payer))
	assert.Nil(t, ctrl.CreateMint(db, payer, m.mintB, testDecimals, payer))
	return m
}

// fund gives the owner lamports to pay rent and amount of tokens of given
// mint in its associated account.
func (m *market) fund(owner ledger.Condition, mint ledger.Address, amount uint64) {
	m.t.Helper()
	assert.Nil(m.t, m.ctrl.Credit(m.db, owner.Address(), 10000))
	acc, err := m.ctrl.EnsureAssociatedAccount(m.db, m.authority.Address(), owner.Address(), mint)
	assert.Nil(m.t, err)
	m.mintTo(mint, acc, amount)
}

// mintTo issues new tokens straight into any token account, vaults
// included.
func (m *market) mintTo(mint, account ledger.Address, amount uint64) {
	m.t.Helper()
	auth := &ledgertest.Auth{Signer: m.authority}
	assert.Nil(m.t, m.ctrl.MintTo(context.Background(), m.db, auth, mint, account, amount))
}

// deliver processes the message signed by the signer. The check phase runs
// first on a throw away copy of the state.
func (m *market) deliver(signer ledger.Condition, msg ledger.Msg) (*ledger.DeliverResult, error) {
	m.t.Helper()
	h, ok := m.handlers[msg.Path()]
	if !ok {
		m.t.Fatalf("no handler for %q", msg.Path())
	}
	ctx := m.auth.SetConditions(context.Background(), signer)
	tx := &ledgertest.Tx{Msg: msg}

	check := m.db.CacheWrap()
	defer check.Discard()
	if _, err := h.Check(ctx, check, tx); err != nil {
		return nil, err
	}
	return h.Deliver(ctx, m.db, tx)
}

// balance returns the amount of tokens held by the associated account of
// the owner. A missing account holds nothing.
func (m *market) balance(owner ledger.Address, mint ledger.Address) uint64 {
	m.t.Helper()
	acc, err := token.AssociatedAddress(owner, mint)
	assert.Nil(m.t, err)
	amount, err := m.ctrl.Balance(m.db, acc)
	if errors.ErrNotFound.Is(err) {
		return 0
	}
	assert.Nil(m.t, err)
	return amount
}

func (m *market) lamports(owner ledger.Address) uint64 {
	m.t.Helper()
	n, err := m.ctrl.Lamports(m.db, owner)
	assert.Nil(m.t, err)
	return n
}

// open delivers a make message that is expected to succeed and returns
// the record and vault addresses.
func (m *market) open(maker ledger.Condition, seed, amount, receive uint64) (ledger.Address, ledger.Address) {
	m.t.Helper()
	res, err := m.deliver(maker, &MakeMsg{
		Metadata: &ledger.Metadata{Schema: 1},
		Maker:    maker.Address(),
		Seed:     seed,
		Receive:  receive,
		Amount:   amount,
		MintA:    m.mintA,
		MintB:    m.mintB,
	})
	assert.Nil(m.t, err)
	vault, err := VaultAddress(res.Data, m.mintA)
	assert.Nil(m.t, err)
	return res.Data, vault
}

// exists returns true if an escrow record or a vault account is stored
// under given address.
func (m *market) exists(addr ledger.Address) bool {
	m.t.Helper()
	err := NewBucket().Has(m.db, addr)
	if err == nil {
		return true
	}
	assert.IsErr(m.t, errors.ErrNotFound, err)
	_, err = m.ctrl.Account(m.db, addr)
	if err == nil {
		return true
	}
	assert.IsErr(m.t, errors.ErrNotFound, err)
	return false
}
