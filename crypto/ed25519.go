package crypto

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/codec"
	"github.com/iov-one/ledger/errors"
	"golang.org/x/crypto/ed25519"
)

// PublicKey is an ed25519 public key.
type PublicKey struct {
	Ed25519 []byte
}

// Verify verifies the signature was created with this message and public key.
func (p *PublicKey) Verify(message []byte, sig *Signature) bool {
	if p == nil || len(p.Ed25519) != ed25519.PublicKeySize {
		return false
	}
	if sig == nil || len(sig.Ed25519) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p.Ed25519), message, sig.Ed25519)
}

// Condition encodes the public key into a ledger condition. Returns nil
// for an empty key.
func (p *PublicKey) Condition() ledger.Condition {
	if p == nil || len(p.Ed25519) == 0 {
		return nil
	}
	return ledger.NewCondition(ExtensionName, "ed25519", p.Ed25519)
}

// Address returns the address controlled by this key.
func (p *PublicKey) Address() ledger.Address {
	c := p.Condition()
	if c == nil {
		return nil
	}
	return c.Address()
}

func (p *PublicKey) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.RawBytes(1, p.Ed25519)
	return e.Result()
}

func (p *PublicKey) Unmarshal(raw []byte) error {
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			p.Ed25519 = d.RawBytes()
		default:
			d.Skip()
		}
	}
	return d.Err()
}

// PrivateKey is an ed25519 private key.
type PrivateKey struct {
	Ed25519 []byte
}

var _ Signer = (*PrivateKey)(nil)

// Sign returns a matching signature for this private key.
func (p *PrivateKey) Sign(message []byte) (*Signature, error) {
	if p == nil || len(p.Ed25519) != ed25519.PrivateKeySize {
		return nil, errors.Wrap(errors.ErrInvalidInput, "invalid private key")
	}
	bz := ed25519.Sign(ed25519.PrivateKey(p.Ed25519), message)
	return &Signature{Ed25519: bz}, nil
}

// PublicKey returns the corresponding PublicKey.
func (p *PrivateKey) PublicKey() *PublicKey {
	if p == nil || len(p.Ed25519) != ed25519.PrivateKeySize {
		return &PublicKey{}
	}
	pub := ed25519.PrivateKey(p.Ed25519).Public().(ed25519.PublicKey)
	return &PublicKey{Ed25519: pub}
}

func (p *PrivateKey) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.RawBytes(1, p.Ed25519)
	return e.Result()
}

func (p *PrivateKey) Unmarshal(raw []byte) error {
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			p.Ed25519 = d.RawBytes()
		default:
			d.Skip()
		}
	}
	return d.Err()
}

// Signature is an ed25519 signature.
type Signature struct {
	Ed25519 []byte
}

func (s *Signature) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.RawBytes(1, s.Ed25519)
	return e.Result()
}

func (s *Signature) Unmarshal(raw []byte) error {
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			s.Ed25519 = d.RawBytes()
		default:
			d.Skip()
		}
	}
	return d.Err()
}

// GenPrivKeyEd25519 returns a random new private key.
func GenPrivKeyEd25519() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{Ed25519: priv}
}

// PrivKeyEd25519FromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases. Panics if the seed is not 32
// bytes long.
func PrivKeyEd25519FromSeed(seed []byte) *PrivateKey {
	return &PrivateKey{Ed25519: ed25519.NewKeyFromSeed(seed)}
}
