package x

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgramSigner(t *testing.T) {
	maker := ledgertest.NewCondition().Address()
	seed := make([]byte, 8)
	binary.LittleEndian.PutUint64(seed, 42)

	addr, bump, err := ledger.FindProgramAddress("escrow", []byte("escrow"), maker, seed)
	require.NoError(t, err)

	ctx := context.Background()
	signer := NewProgramSigner("escrow", bump, []byte("escrow"), maker, seed)

	got, err := signer.Address()
	require.NoError(t, err)
	assert.Equal(t, addr, got)
	assert.True(t, signer.HasAddress(ctx, addr))
	assert.Empty(t, signer.GetConditions(ctx))
	assert.False(t, signer.HasAddress(ctx, maker))

	otherSeed := make([]byte, 8)
	binary.LittleEndian.PutUint64(otherSeed, 43)
	other := NewProgramSigner("escrow", bump, []byte("escrow"), maker, otherSeed)
	assert.False(t, other.HasAddress(ctx, addr))

	wrongProgram := NewProgramSigner("token", bump, []byte("escrow"), maker, seed)
	assert.False(t, wrongProgram.HasAddress(ctx, addr))

	// A bump different from the canonical one never authorizes the
	// canonical address. The address it derives is either different or
	// invalid.
	if bump > 0 {
		wrongBump := NewProgramSigner("escrow", bump-1, []byte("escrow"), maker, seed)
		assert.False(t, wrongBump.HasAddress(ctx, addr))
	}

	// Chained with a regular authenticator, the program address is
	// authorized together with the signers.
	auth := ChainAuth(&ledgertest.Auth{Signer: ledgertest.NewCondition()}, signer)
	assert.True(t, auth.HasAddress(ctx, addr))
}
