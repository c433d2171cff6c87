package app

import (
	"context"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/stretchr/testify/assert"
)

func TestRouter(t *testing.T) {
	var (
		good    = &ledgertest.Msg{RoutePath: "test/good"}
		bad     = &ledgertest.Msg{RoutePath: "test/bad"}
		missing = &ledgertest.Msg{RoutePath: "test/missing"}
	)

	r := NewRouter()
	counter := &ledgertest.Handler{}
	r.Handle(good, counter)
	r.Handle(bad, &ledgertest.Handler{
		CheckErr:   errors.ErrHuman,
		DeliverErr: errors.ErrHuman,
	})

	// make sure invalid registrations panic
	assert.Panics(t, func() { r.Handle(good, counter) })
	assert.Panics(t, func() { r.Handle(&ledgertest.Msg{RoutePath: "l:7"}, counter) })

	ctx := context.Background()

	// check proper paths work
	assert.Equal(t, 0, counter.CallCount())
	_, err := r.Check(ctx, nil, &ledgertest.Tx{Msg: good})
	assert.NoError(t, err)
	_, err = r.Deliver(ctx, nil, &ledgertest.Tx{Msg: good})
	assert.NoError(t, err)
	assert.Equal(t, 2, counter.CallCount())

	// check errors handler is also looked up
	_, err = r.Deliver(ctx, nil, &ledgertest.Tx{Msg: bad})
	assert.True(t, errors.ErrHuman.Is(err))
	assert.Equal(t, 2, counter.CallCount())

	// make sure not found returns an error handler as well
	_, err = r.Deliver(ctx, nil, &ledgertest.Tx{Msg: missing})
	assert.True(t, errors.ErrNotFound.Is(err))
	_, err = r.Check(ctx, nil, &ledgertest.Tx{Msg: missing})
	assert.True(t, errors.ErrNotFound.Is(err))
	assert.Equal(t, 2, counter.CallCount())

	// a transaction that cannot provide its message is rejected
	broken := &ledgertest.Tx{Err: errors.ErrInvalidMsg}
	_, err = r.Check(ctx, nil, broken)
	assert.True(t, errors.ErrInvalidMsg.Is(err))
	_, err = r.Deliver(ctx, nil, broken)
	assert.True(t, errors.ErrInvalidMsg.Is(err))
}

func TestRouterImplementsRegistry(t *testing.T) {
	var reg ledger.Registry = NewRouter()
	h := &ledgertest.Handler{}
	reg.Handle(&ledgertest.Msg{RoutePath: "escrow/make"}, h)

	_, err := reg.(ledger.Handler).Deliver(context.Background(), nil, &ledgertest.Tx{
		Msg: &ledgertest.Msg{RoutePath: "escrow/make"},
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, h.DeliverCallCount())
}
