package sigs

import (
	"crypto/sha512"
	"encoding/binary"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/crypto"
	"github.com/iov-one/ledger/errors"
)

// SignCodeV1 prefixes the data signed by a key. It versions the layout
// built by BuildSignBytes.
var SignCodeV1 = []byte{0, 0xCA, 0xFE, 0}

// VerifyTxSignatures checks every signature of the transaction and bumps
// the sequence of each signer. The same key cannot sign a transaction twice.
//
// The returned list holds one condition per signature and is empty for an
// unsigned transaction.
func VerifyTxSignatures(db ledger.KVStore, tx SignedTx, chainID string) ([]ledger.Condition, error) {
	payload, err := tx.GetSignBytes()
	if err != nil {
		return nil, errors.Wrap(err, "sign bytes")
	}

	all := tx.GetSignatures()
	signers := make([]ledger.Condition, 0, len(all))
	for i, sig := range all {
		cond, err := VerifySignature(db, sig, payload, chainID)
		if err != nil {
			return nil, errors.Wrapf(err, "signature %d", i)
		}
		for _, prev := range signers {
			if prev.Equals(cond) {
				return nil, errors.Wrapf(errors.ErrDuplicate, "signature %d: signer %s", i, cond.Address())
			}
		}
		signers = append(signers, cond)
	}
	return signers, nil
}

// VerifySignature checks a single signature of given payload. The sequence
// of the signature must match the one stored for the key, which is then
// incremented. An unknown key is registered with sequence zero.
func VerifySignature(db ledger.KVStore, sig *StdSignature, payload []byte, chainID string) (ledger.Condition, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	digest, err := BuildSignBytes(payload, chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}

	bucket := NewBucket()
	obj, err := bucket.GetOrCreate(db, sig.Pubkey)
	if err != nil {
		return nil, err
	}
	user := AsUser(obj)
	if !user.Pubkey.Verify(digest, sig.Signature) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "invalid signature of %s", user.Pubkey.Address())
	}
	if err := user.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return nil, err
	}
	if err := bucket.Save(db, obj); err != nil {
		return nil, err
	}
	return user.Pubkey.Condition(), nil
}

// BuildSignBytes returns the sha512 digest that is signed for a transaction:
//
//	SignCodeV1 | len(chainID) uint8 | chainID | seq int64 big endian | payload
//
// Binding the chain id and the sequence prevents replays on another chain
// and within the same chain.
func BuildSignBytes(payload []byte, chainID string, seq int64) ([]byte, error) {
	if seq < 0 {
		return nil, errors.Wrapf(ErrInvalidSequence, "negative sequence %d", seq)
	}
	if !ledger.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "chain id: %q", chainID)
	}

	var seqBytes [8]byte
	binary.BigEndian.PutUint64(seqBytes[:], uint64(seq))

	h := sha512.New()
	h.Write(SignCodeV1)
	h.Write([]byte{uint8(len(chainID))})
	h.Write([]byte(chainID))
	h.Write(seqBytes[:])
	h.Write(payload)
	return h.Sum(nil), nil
}

// BuildSignBytesTx is BuildSignBytes for the sign bytes of a transaction.
func BuildSignBytesTx(tx SignedTx, chainID string, seq int64) ([]byte, error) {
	payload, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	return BuildSignBytes(payload, chainID, seq)
}

// SignTx signs the transaction with given sequence. The result can be
// attached to the transaction as is.
func SignTx(signer crypto.Signer, tx SignedTx, chainID string, seq int64) (*StdSignature, error) {
	digest, err := BuildSignBytesTx(tx, chainID, seq)
	if err != nil {
		return nil, err
	}
	raw, err := signer.Sign(digest)
	if err != nil {
		return nil, errors.Wrap(err, "sign")
	}
	return &StdSignature{
		Pubkey:    signer.PublicKey(),
		Signature: raw,
		Sequence:  seq,
	}, nil
}
