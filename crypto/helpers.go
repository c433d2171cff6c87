package crypto

import (
	"encoding/hex"
	"encoding/json"

	"github.com/iov-one/ledger/errors"
	"github.com/stellar/go/exp/crypto/derivation"
)

// ExtensionName is used for the conditions we get from signatures.
const ExtensionName = "sigs"

// DefaultDerivationPath is the bip44 path used for new keys.
const DefaultDerivationPath = "m/44'/234'/0'"

// Signer is the functionality we use from a private key.
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

// DeriveEd25519 returns a private key derived from the master seed using
// the hardened bip44 path (SLIP-0010).
func DeriveEd25519(seed []byte, path string) (*PrivateKey, error) {
	k, err := derivation.DeriveForPath(path, seed)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "derive %q: %s", path, err)
	}
	return PrivKeyEd25519FromSeed(k.Key), nil
}

// MarshalJSON encodes the key as a hex string.
func (p PrivateKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(hex.EncodeToString(p.Ed25519))
}

// UnmarshalJSON decodes a hex encoded key.
func (p *PrivateKey) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, "private key must be a string")
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "hex: %s", err)
	}
	p.Ed25519 = b
	return nil
}

// MarshalJSON encodes the key as a hex string.
func (p PublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(hex.EncodeToString(p.Ed25519))
}

// UnmarshalJSON decodes a hex encoded key.
func (p *PublicKey) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, "public key must be a string")
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "hex: %s", err)
	}
	p.Ed25519 = b
	return nil
}
