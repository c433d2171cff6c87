package escrow

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
	"github.com/iov-one/ledger/x"
	"github.com/iov-one/ledger/x/token"
)

const (
	makeEscrowCost   int64 = 300
	takeEscrowCost   int64 = 300
	refundEscrowCost int64 = 100
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r ledger.Registry, auth x.Authenticator, ctrl token.Controller) {
	bucket := NewBucket()
	r.Handle(&MakeMsg{}, MakeHandler{auth, bucket, ctrl})
	r.Handle(&TakeMsg{}, TakeHandler{auth, bucket, ctrl})
	r.Handle(&RefundMsg{}, RefundHandler{auth, bucket, ctrl})
}

// RegisterQuery will register this bucket as "/escrows".
func RegisterQuery(qr ledger.QueryRouter) {
	NewBucket().Register("escrows", qr)
}

// MakeHandler opens a new escrow.
type MakeHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	ctrl   token.Controller
}

var _ ledger.Handler = MakeHandler{}

// Check runs all pre-flight checks and returns the cost of executing it.
func (h MakeHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{GasAllocated: makeEscrowCost}, nil
}

// Deliver stores the escrow record, creates its vault and moves the
// deposit into it. The record address is returned.
func (h MakeHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	op, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	msg := op.msg

	rent, err := h.ctrl.PayRent(db, msg.Maker, RecordSize)
	if err != nil {
		return nil, errors.Wrap(err, "escrow rent")
	}
	escrow := &Escrow{
		Metadata: &ledger.Metadata{Schema: 1},
		Maker:    msg.Maker,
		MintA:    msg.MintA,
		MintB:    msg.MintB,
		Receive:  msg.Receive,
		Seed:     msg.Seed,
		Bump:     op.bump,
		Rent:     rent,
	}
	if err := h.bucket.Put(db, op.record, escrow); err != nil {
		return nil, errors.Wrap(err, "cannot store escrow")
	}

	vault, err := h.ctrl.EnsureAssociatedAccount(db, msg.Maker, op.record, msg.MintA)
	if err != nil {
		return nil, errors.Wrap(err, "create vault")
	}
	err = h.ctrl.TransferChecked(ctx, db, h.auth, op.source, msg.MintA, vault, msg.Amount, op.decimals)
	if err != nil {
		return nil, errors.Wrap(err, "deposit")
	}

	ledger.GetLogger(ctx).Info("escrow opened",
		"escrow", op.record,
		"maker", msg.Maker,
		"seed", msg.Seed,
		"deposit", msg.Amount,
		"receive", msg.Receive)
	return &ledger.DeliverResult{Data: op.record}, nil
}

type makeOp struct {
	msg      *MakeMsg
	record   ledger.Address
	bump     uint8
	source   ledger.Address
	decimals uint8
}

// validate does all common pre-processing between Check and Deliver.
func (h MakeHandler) validate(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*makeOp, error) {
	var msg MakeMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Maker) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "maker signature missing")
	}

	record, bump, err := RecordAddress(msg.Maker, msg.Seed)
	if err != nil {
		return nil, err
	}
	switch err := h.bucket.Has(db, record); {
	case err == nil:
		return nil, errors.Wrapf(errors.ErrDuplicate, "escrow with seed %d", msg.Seed)
	case !errors.ErrNotFound.Is(err):
		return nil, errors.Wrap(err, "cannot load escrow")
	}

	mintA, err := h.ctrl.Mint(db, msg.MintA)
	if err != nil {
		return nil, mintErr(ErrInvalidMintA, err)
	}
	if _, err := h.ctrl.Mint(db, msg.MintB); err != nil {
		return nil, mintErr(ErrInvalidMintB, err)
	}

	source, err := token.AssociatedAddress(msg.Maker, msg.MintA)
	if err != nil {
		return nil, err
	}
	if err := requireBalance(db, h.ctrl, source, msg.MintA, msg.Amount); err != nil {
		return nil, errors.Wrap(err, "maker")
	}

	op := &makeOp{
		msg:      &msg,
		record:   record,
		bump:     bump,
		source:   source,
		decimals: mintA.Decimals,
	}
	return op, nil
}

// TakeHandler settles an escrow.
type TakeHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	ctrl   token.Controller
}

var _ ledger.Handler = TakeHandler{}

// Check runs all pre-flight checks and returns the cost of executing it.
func (h TakeHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{GasAllocated: takeEscrowCost}, nil
}

// Deliver pays the maker, releases the vault content to the taker and
// closes both the vault and the escrow record.
func (h TakeHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	msg, escrow, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	mintB, err := h.ctrl.Mint(db, escrow.MintB)
	if err != nil {
		return nil, mintErr(ErrInvalidMintB, err)
	}
	source, err := token.AssociatedAddress(msg.Taker, escrow.MintB)
	if err != nil {
		return nil, err
	}
	dest, err := h.ctrl.EnsureAssociatedAccount(db, msg.Taker, escrow.Maker, escrow.MintB)
	if err != nil {
		return nil, errors.Wrap(err, "maker account")
	}
	err = h.ctrl.TransferChecked(ctx, db, h.auth, source, escrow.MintB, dest, escrow.Receive, mintB.Decimals)
	if err != nil {
		return nil, errors.Wrap(err, "payment")
	}

	receiver, err := h.ctrl.EnsureAssociatedAccount(db, msg.Taker, msg.Taker, escrow.MintA)
	if err != nil {
		return nil, errors.Wrap(err, "taker account")
	}
	released, err := release(ctx, db, h.bucket, h.ctrl, msg.Escrow, escrow, msg.Vault, receiver)
	if err != nil {
		return nil, err
	}

	ledger.GetLogger(ctx).Info("escrow settled",
		"escrow", msg.Escrow,
		"maker", escrow.Maker,
		"taker", msg.Taker,
		"released", released,
		"paid", escrow.Receive)
	return &ledger.DeliverResult{}, nil
}

// validate does all common pre-processing between Check and Deliver.
func (h TakeHandler) validate(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*TakeMsg, *Escrow, error) {
	var msg TakeMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Taker) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "taker signature missing")
	}

	var escrow Escrow
	if err := h.bucket.One(db, msg.Escrow, &escrow); err != nil {
		return nil, nil, errors.Wrap(err, "cannot load escrow from the store")
	}
	if !msg.MintA.Equals(escrow.MintA) {
		return nil, nil, errors.Wrapf(ErrInvalidMintA, "escrow holds %s", escrow.MintA)
	}
	if !msg.MintB.Equals(escrow.MintB) {
		return nil, nil, errors.Wrapf(ErrInvalidMintB, "escrow requests %s", escrow.MintB)
	}
	if err := checkVault(db, h.ctrl, msg.Escrow, &escrow, msg.Vault); err != nil {
		return nil, nil, err
	}

	source, err := token.AssociatedAddress(msg.Taker, escrow.MintB)
	if err != nil {
		return nil, nil, err
	}
	if err := requireBalance(db, h.ctrl, source, escrow.MintB, escrow.Receive); err != nil {
		return nil, nil, errors.Wrap(err, "taker")
	}
	return &msg, &escrow, nil
}

// RefundHandler cancels an escrow.
type RefundHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	ctrl   token.Controller
}

var _ ledger.Handler = RefundHandler{}

// Check runs all pre-flight checks and returns the cost of executing it.
func (h RefundHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{GasAllocated: refundEscrowCost}, nil
}

// Deliver returns the vault content to the maker and closes both the
// vault and the escrow record.
func (h RefundHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	msg, escrow, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	receiver, err := h.ctrl.EnsureAssociatedAccount(db, escrow.Maker, escrow.Maker, escrow.MintA)
	if err != nil {
		return nil, errors.Wrap(err, "maker account")
	}
	released, err := release(ctx, db, h.bucket, h.ctrl, msg.Escrow, escrow, msg.Vault, receiver)
	if err != nil {
		return nil, err
	}

	ledger.GetLogger(ctx).Info("escrow cancelled",
		"escrow", msg.Escrow,
		"maker", escrow.Maker,
		"refunded", released)
	return &ledger.DeliverResult{}, nil
}

// validate does all common pre-processing between Check and Deliver.
func (h RefundHandler) validate(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*RefundMsg, *Escrow, error) {
	var msg RefundMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}

	var escrow Escrow
	if err := h.bucket.One(db, msg.Escrow, &escrow); err != nil {
		return nil, nil, errors.Wrap(err, "cannot load escrow from the store")
	}
	if !h.auth.HasAddress(ctx, msg.Maker) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "maker signature missing")
	}
	if !msg.Maker.Equals(escrow.Maker) {
		return nil, nil, errors.Wrapf(ErrInvalidMaker, "escrow was opened by %s", escrow.Maker)
	}
	if !msg.MintA.Equals(escrow.MintA) {
		return nil, nil, errors.Wrapf(ErrInvalidMintA, "escrow holds %s", escrow.MintA)
	}
	if err := checkVault(db, h.ctrl, msg.Escrow, &escrow, msg.Vault); err != nil {
		return nil, nil, err
	}
	return &msg, &escrow, nil
}

// checkVault ensures that the vault is the token account of mint A owned
// by the escrow record.
func checkVault(db ledger.ReadOnlyKVStore, ctrl token.Controller, record ledger.Address, escrow *Escrow, vault ledger.Address) error {
	want, err := VaultAddress(record, escrow.MintA)
	if err != nil {
		return err
	}
	if !vault.Equals(want) {
		return errors.Wrapf(errors.ErrInvalidInput, "vault must be %s", want)
	}
	acc, err := ctrl.Account(db, vault)
	if err != nil {
		return errors.Wrap(err, "vault")
	}
	if !acc.Mint.Equals(escrow.MintA) {
		return errors.Wrapf(ErrInvalidMintA, "vault holds %s", acc.Mint)
	}
	if !acc.Owner.Equals(record) {
		return errors.Wrap(errors.ErrInvalidInput, "vault is not owned by the escrow")
	}
	return nil
}

// requireBalance ensures that the token account holds at least amount of
// tokens of given mint. A missing account holds nothing.
func requireBalance(db ledger.ReadOnlyKVStore, ctrl token.Controller, account, mint ledger.Address, amount uint64) error {
	acc, err := ctrl.Account(db, account)
	switch {
	case errors.ErrNotFound.Is(err):
		return errors.Wrapf(errors.ErrInsufficientAmount, "no %s token account", mint)
	case err != nil:
		return err
	}
	if !acc.Mint.Equals(mint) {
		return errors.Wrapf(errors.ErrInvalidState, "account %s holds %s", account, acc.Mint)
	}
	if acc.Amount < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "balance %d, required %d", acc.Amount, amount)
	}
	return nil
}

// release moves the whole vault balance to the receiver using the escrow
// program signer, then closes the vault and deletes the record. Rent of
// both returns to the maker. The released amount is returned.
func release(
	ctx ledger.Context,
	db ledger.KVStore,
	bucket orm.ModelBucket,
	ctrl token.Controller,
	record ledger.Address,
	escrow *Escrow,
	vault ledger.Address,
	receiver ledger.Address,
) (uint64, error) {
	mintA, err := ctrl.Mint(db, escrow.MintA)
	if err != nil {
		return 0, mintErr(ErrInvalidMintA, err)
	}
	amount, err := ctrl.Balance(db, vault)
	if err != nil {
		return 0, errors.Wrap(err, "vault")
	}

	signer := escrow.Signer()
	if err := ctrl.TransferChecked(ctx, db, signer, vault, escrow.MintA, receiver, amount, mintA.Decimals); err != nil {
		return 0, errors.Wrap(err, "release vault")
	}
	if err := ctrl.CloseAccount(ctx, db, signer, vault, escrow.Maker); err != nil {
		return 0, errors.Wrap(err, "close vault")
	}
	if err := bucket.Delete(db, record); err != nil {
		return 0, errors.Wrap(err, "delete escrow")
	}
	if err := ctrl.Credit(db, escrow.Maker, escrow.Rent); err != nil {
		return 0, errors.Wrap(err, "refund escrow rent")
	}
	return amount, nil
}

// mintErr reports a missing mint as an invalid escrow mint.
func mintErr(kind *errors.Error, err error) error {
	if errors.ErrNotFound.Is(err) {
		return errors.Wrap(kind, err.Error())
	}
	return err
}
