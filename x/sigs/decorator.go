/*
Package sigs authenticates transactions signed with ed25519 keys.

Each key has a sequence stored in the "sigs" bucket. A signature covers the
chain id and the current sequence of the key, and a successful verification
increments the sequence, so a signed transaction cannot be replayed.
*/
package sigs

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

const (
	signatureVerifyCost = 500
)

// RegisterQuery exposes the signer state under "/auth".
func RegisterQuery(qr ledger.QueryRouter) {
	NewBucket().Register("auth", qr)
}

// Decorator verifies the signatures of a transaction and puts the signers
// into the context. A signed transaction needs at least one signature.
// Transactions that cannot carry signatures are passed through untouched.
type Decorator struct{}

var _ ledger.Decorator = Decorator{}

// NewDecorator returns the signature verifying decorator.
func NewDecorator() Decorator {
	return Decorator{}
}

// Check verifies signatures before calling down the stack.
func (d Decorator) Check(ctx ledger.Context, store ledger.KVStore, tx ledger.Tx, next ledger.Checker) (*ledger.CheckResult, error) {
	stx, ok := tx.(SignedTx)
	if !ok {
		return next.Check(ctx, store, tx)
	}

	signers, err := d.verify(ctx, store, stx)
	if err != nil {
		return nil, err
	}
	ctx = withSigners(ctx, signers)

	res, err := next.Check(ctx, store, tx)
	if err != nil {
		return nil, err
	}
	// Signature validation is the most expensive operation. Only valid
	// signatures are charged for.
	res.GasAllocated += int64(len(signers) * signatureVerifyCost)
	return res, nil
}

// Deliver verifies signatures before calling down the stack.
func (d Decorator) Deliver(ctx ledger.Context, store ledger.KVStore, tx ledger.Tx, next ledger.Deliverer) (*ledger.DeliverResult, error) {
	stx, ok := tx.(SignedTx)
	if !ok {
		return next.Deliver(ctx, store, tx)
	}

	signers, err := d.verify(ctx, store, stx)
	if err != nil {
		return nil, err
	}
	ctx = withSigners(ctx, signers)
	return next.Deliver(ctx, store, tx)
}

func (d Decorator) verify(ctx ledger.Context, store ledger.KVStore, stx SignedTx) ([]ledger.Condition, error) {
	signers, err := VerifyTxSignatures(store, stx, ledger.GetChainID(ctx))
	if err != nil {
		return nil, errors.Wrap(err, "cannot verify signatures")
	}
	if len(signers) == 0 {
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return signers, nil
}
