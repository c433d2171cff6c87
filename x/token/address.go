package token

import (
	"encoding/binary"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

const (
	// AssociatedProgram is the program that controls the derivation of
	// associated token account addresses.
	AssociatedProgram = "assoc"

	// Program is the program name used to derive mint addresses.
	Program = "token"
)

// AssociatedAddress returns the address of the associated token account of
// the owner for given mint.
func AssociatedAddress(owner, mint ledger.Address) (ledger.Address, error) {
	if err := owner.Validate(); err != nil {
		return nil, errors.Wrap(err, "owner")
	}
	if err := mint.Validate(); err != nil {
		return nil, errors.Wrap(err, "mint")
	}
	addr, _, err := ledger.FindProgramAddress(AssociatedProgram, owner, []byte(Program), mint)
	if err != nil {
		return nil, errors.Wrap(err, "derive associated address")
	}
	return addr, nil
}

// MintAddress returns the address of a mint created by the payer with
// given seed. The same payer can create many mints using different seeds.
func MintAddress(payer ledger.Address, seed uint64) (ledger.Address, error) {
	if err := payer.Validate(); err != nil {
		return nil, errors.Wrap(err, "payer")
	}
	s := make([]byte, 8)
	binary.LittleEndian.PutUint64(s, seed)
	addr, _, err := ledger.FindProgramAddress(Program, []byte("mint"), payer, s)
	if err != nil {
		return nil, errors.Wrap(err, "derive mint address")
	}
	return addr, nil
}
