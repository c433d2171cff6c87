package token

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/gconf"
	"github.com/iov-one/ledger/x"
)

const (
	createMintCost    int64 = 300
	mintToCost        int64 = 100
	createAccountCost int64 = 200
	transferCost      int64 = 100
	closeAccountCost  int64 = 50
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r ledger.Registry, auth x.Authenticator, ctrl Controller) {
	r.Handle(&CreateMintMsg{}, CreateMintHandler{auth, ctrl})
	r.Handle(&MintToMsg{}, MintToHandler{auth, ctrl})
	r.Handle(&CreateAccountMsg{}, CreateAccountHandler{auth, ctrl})
	r.Handle(&TransferMsg{}, TransferHandler{auth, ctrl})
	r.Handle(&CloseAccountMsg{}, CloseAccountHandler{auth, ctrl})
	r.Handle(&UpdateConfigurationMsg{}, NewConfigHandler(auth))
}

// RegisterQuery will register the mint bucket as "/mints", token accounts
// as "/tokens" and native balances as "/wallets".
func RegisterQuery(qr ledger.QueryRouter) {
	NewMintBucket().Register("mints", qr)
	NewAccountBucket().Register("tokens", qr)
	NewWalletBucket().Register("wallets", qr)
}

// NewConfigHandler returns a handler that updates the rent configuration.
func NewConfigHandler(auth x.Authenticator) ledger.Handler {
	var conf Configuration
	return gconf.NewUpdateConfigurationHandler(ConfigurationName, &conf, auth)
}

// CreateMintHandler creates a new mint funded by the payer.
type CreateMintHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ ledger.Handler = CreateMintHandler{}

func (h CreateMintHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{GasAllocated: createMintCost}, nil
}

// Deliver stores the mint and returns its address.
func (h CreateMintHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	mint, err := MintAddress(msg.Payer, msg.Seed)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.CreateMint(db, msg.Payer, mint, msg.Decimals, msg.Authority); err != nil {
		return nil, err
	}
	return &ledger.DeliverResult{Data: mint}, nil
}

func (h CreateMintHandler) validate(ctx ledger.Context, tx ledger.Tx) (*CreateMintMsg, error) {
	var msg CreateMintMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Payer) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "payer signature missing")
	}
	return &msg, nil
}

// MintToHandler issues new tokens.
type MintToHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ ledger.Handler = MintToHandler{}

func (h MintToHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	var msg MintToMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return &ledger.CheckResult{GasAllocated: mintToCost}, nil
}

func (h MintToHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	var msg MintToMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.ctrl.MintTo(ctx, db, h.auth, msg.Mint, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	return &ledger.DeliverResult{}, nil
}

// CreateAccountHandler creates an associated token account.
type CreateAccountHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ ledger.Handler = CreateAccountHandler{}

func (h CreateAccountHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if _, _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{GasAllocated: createAccountCost}, nil
}

// Deliver creates the account and returns its address. It fails if the
// account already exists.
func (h CreateAccountHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	msg, address, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.CreateAccount(db, msg.Payer, address, msg.Owner, msg.Mint); err != nil {
		return nil, err
	}
	return &ledger.DeliverResult{Data: address}, nil
}

func (h CreateAccountHandler) validate(ctx ledger.Context, tx ledger.Tx) (*CreateAccountMsg, ledger.Address, error) {
	var msg CreateAccountMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Payer) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "payer signature missing")
	}
	address, err := AssociatedAddress(msg.Owner, msg.Mint)
	if err != nil {
		return nil, nil, err
	}
	return &msg, address, nil
}

// TransferHandler moves tokens between accounts of the same mint.
type TransferHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ ledger.Handler = TransferHandler{}

func (h TransferHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	var msg TransferMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return &ledger.CheckResult{GasAllocated: transferCost}, nil
}

func (h TransferHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	var msg TransferMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	err := h.ctrl.TransferChecked(ctx, db, h.auth, msg.Source, msg.Mint, msg.Destination, msg.Amount, msg.Decimals)
	if err != nil {
		return nil, err
	}
	return &ledger.DeliverResult{}, nil
}

// CloseAccountHandler deletes an empty token account.
type CloseAccountHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ ledger.Handler = CloseAccountHandler{}

func (h CloseAccountHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	var msg CloseAccountMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return &ledger.CheckResult{GasAllocated: closeAccountCost}, nil
}

func (h CloseAccountHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	var msg CloseAccountMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.ctrl.CloseAccount(ctx, db, h.auth, msg.Account, msg.Destination); err != nil {
		return nil, err
	}
	return &ledger.DeliverResult{}, nil
}
