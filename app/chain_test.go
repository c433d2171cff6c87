package app

import (
	"context"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/x/utils"
	"github.com/stretchr/testify/assert"
)

func TestChain(t *testing.T) {
	c1 := &ledgertest.Decorator{}
	c2 := &ledgertest.Decorator{}
	c3 := &ledgertest.Decorator{}
	h := &ledgertest.Handler{}

	stack := ChainDecorators(
		c1,
		utils.NewLogging(),
		utils.NewRecovery(),
		c2,
		panicAtHeight(6),
		c3,
	).WithHandler(h)

	bg := context.Background()
	tx := &ledgertest.Tx{Msg: &ledgertest.Msg{RoutePath: "test/chain"}}

	// make some calls, make sure it is fine
	_, err := stack.Check(bg, nil, tx)
	assert.NoError(t, err)
	ctx := ledger.WithHeight(bg, 4)
	_, err = stack.Deliver(ctx, nil, tx)
	assert.NoError(t, err)

	assert.Equal(t, 2, c1.CallCount())
	assert.Equal(t, 2, c2.CallCount())
	assert.Equal(t, 2, c3.CallCount())
	assert.Equal(t, 2, h.CallCount())

	// now, let's trigger a panic
	ctx = ledger.WithHeight(bg, 8)
	_, err = stack.Check(ctx, nil, tx)
	assert.True(t, errors.ErrPanic.Is(err))
	_, err = stack.Deliver(ctx, nil, tx)
	assert.True(t, errors.ErrPanic.Is(err))

	assert.Equal(t, 4, c1.CallCount())
	assert.Equal(t, 4, c2.CallCount())
	// the panic happens before c3 is reached
	assert.Equal(t, 2, c3.CallCount())
	assert.Equal(t, 2, h.CallCount())
}

func TestChainSkipsNilDecorators(t *testing.T) {
	var missing *ledgertest.Decorator
	c := &ledgertest.Decorator{}
	h := &ledgertest.Handler{}

	stack := ChainDecorators(nil, c, missing).Chain(nil).WithHandler(h)
	_, err := stack.Deliver(context.Background(), nil, &ledgertest.Tx{})
	assert.NoError(t, err)
	assert.Equal(t, 1, c.DeliverCallCount())
	assert.Equal(t, 1, h.DeliverCallCount())
}

func TestChainDoesNotShareState(t *testing.T) {
	first := &ledgertest.Decorator{DeliverErr: errors.ErrUnauthorized}
	second := &ledgertest.Decorator{}
	base := ChainDecorators(&ledgertest.Decorator{})

	a := base.Chain(first).WithHandler(&ledgertest.Handler{})
	b := base.Chain(second).WithHandler(&ledgertest.Handler{})

	_, err := b.Deliver(context.Background(), nil, &ledgertest.Tx{})
	assert.NoError(t, err)
	_, err = a.Deliver(context.Background(), nil, &ledgertest.Tx{})
	assert.True(t, errors.ErrUnauthorized.Is(err))
	assert.Equal(t, 1, first.DeliverCallCount())
	assert.Equal(t, 1, second.DeliverCallCount())
}

// panicAtHeight panics if the context height is greater than its value.
type panicAtHeight int64

func (p panicAtHeight) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx, next ledger.Checker) (*ledger.CheckResult, error) {
	if val, _ := ledger.GetHeight(ctx); val > int64(p) {
		panic("too high")
	}
	return next.Check(ctx, db, tx)
}

func (p panicAtHeight) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx, next ledger.Deliverer) (*ledger.DeliverResult, error) {
	if val, _ := ledger.GetHeight(ctx); val > int64(p) {
		panic("too high")
	}
	return next.Deliver(ctx, db, tx)
}
