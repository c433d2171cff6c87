package crypto

import (
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/iov-one/ledger/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveEd25519(t *testing.T) {
	seed, err := hex.DecodeString("000102030405060708090a0b0c0d0e0f")
	require.NoError(t, err)

	// SLIP-0010 test vector 1 for ed25519, chain m/0'.
	key, err := DeriveEd25519(seed, "m/0'")
	require.NoError(t, err)
	assert.Equal(t,
		"68e0fe46dfb67e368c75379acec591dad19df3cde26e63b93a8e704f1dade7a3",
		hex.EncodeToString(key.Ed25519[:32]))

	again, err := DeriveEd25519(seed, "m/0'")
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey().Address(), again.PublicKey().Address())

	other, err := DeriveEd25519(seed, DefaultDerivationPath)
	require.NoError(t, err)
	assert.NotEqual(t, key.PublicKey().Address(), other.PublicKey().Address())

	_, err = DeriveEd25519(seed, "not a path")
	assert.True(t, errors.ErrInvalidInput.Is(err))
}

func TestKeyJSON(t *testing.T) {
	priv := GenPrivKeyEd25519()
	raw, err := json.Marshal(priv)
	require.NoError(t, err)

	var got PrivateKey
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, priv.Ed25519, got.Ed25519)

	pub := priv.PublicKey()
	raw, err = json.Marshal(pub)
	require.NoError(t, err)
	var gotPub PublicKey
	require.NoError(t, json.Unmarshal(raw, &gotPub))
	assert.Equal(t, pub.Address(), gotPub.Address())

	err = json.Unmarshal([]byte(`"zz"`), &got)
	assert.True(t, errors.ErrInvalidInput.Is(err))
}
