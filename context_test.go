package ledger

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

func TestContext(t *testing.T) {
	bg := context.Background()

	newLogger := log.NewTMLogger(os.Stdout)
	ctx := WithLogger(bg, newLogger)
	assert.Equal(t, DefaultLogger, GetLogger(bg))
	assert.Equal(t, newLogger, GetLogger(ctx))

	val, ok := GetHeight(ctx)
	assert.Equal(t, int64(0), val)
	assert.False(t, ok)
	ctx = WithHeight(ctx, 7)
	val, ok = GetHeight(ctx)
	assert.Equal(t, int64(7), val)
	assert.True(t, ok)
	assert.Panics(t, func() { WithHeight(ctx, 9) })

	// Changing the info modifies the logger, but not the height.
	ctx2 := WithLogInfo(ctx, "foo", "bar")
	assert.NotEqual(t, GetLogger(ctx), GetLogger(ctx2))
	val, _ = GetHeight(ctx2)
	assert.Equal(t, int64(7), val)

	assert.Panics(t, func() { GetChainID(ctx) })
	ctx2 = WithChainID(ctx, "escrow-chain")
	assert.Equal(t, "escrow-chain", GetChainID(ctx2))
	assert.Panics(t, func() { WithChainID(ctx2, "escrow-chain") })
	assert.Panics(t, func() { WithChainID(ctx, "bad") })
}

func TestContextHeader(t *testing.T) {
	ctx := context.Background()
	_, ok := GetHeader(ctx)
	assert.False(t, ok)

	header := abci.Header{Height: 12, ChainID: "escrow-chain"}
	ctx = WithHeader(ctx, header)
	got, ok := GetHeader(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(12), got.Height)
	assert.Panics(t, func() { WithHeader(ctx, header) })
}

func TestContextBlockTime(t *testing.T) {
	ctx := context.Background()
	_, err := BlockTime(ctx)
	assert.Error(t, err)

	_, err = BlockTime(WithBlockTime(ctx, time.Time{}))
	assert.Error(t, err)

	now := time.Now()
	got, err := BlockTime(WithBlockTime(ctx, now))
	require.NoError(t, err)
	assert.True(t, now.Equal(got))
	assert.Equal(t, time.UTC, got.Location())
}

func TestChainID(t *testing.T) {
	cases := []struct {
		chainID string
		valid   bool
	}{
		{"", false},
		{"foo", false},
		{"special", true},
		{"wish-YOU-88", true},
		{"invalid;;chars", false},
		{"this-chain-id-is-way-too-long", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.valid, IsValidChainID(tc.chainID), tc.chainID)
	}
}
