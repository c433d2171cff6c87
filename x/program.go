package x

import (
	"github.com/iov-one/ledger"
)

// ProgramSigner is the signing context of a program derived address. A
// program proves the authority over such an address by presenting the
// seeds and the bump the address was derived from. A different bump or
// seed results in a different address, so the signer authorizes nothing
// else.
type ProgramSigner struct {
	Program string
	Seeds   [][]byte
	Bump    uint8
}

var _ Authenticator = ProgramSigner{}

// NewProgramSigner returns a signing context for the address derived from
// given program, bump and seeds.
func NewProgramSigner(program string, bump uint8, seeds ...[]byte) ProgramSigner {
	return ProgramSigner{
		Program: program,
		Seeds:   seeds,
		Bump:    bump,
	}
}

// Address re-derives the address this signer authorizes.
func (p ProgramSigner) Address() (ledger.Address, error) {
	return ledger.CreateProgramAddress(p.Program, p.Bump, p.Seeds...)
}

// GetConditions returns nothing. A program derived address has no
// condition behind it.
func (p ProgramSigner) GetConditions(ledger.Context) []ledger.Condition {
	return nil
}

// HasAddress returns true only for the address derived from this signer
// seeds and bump.
func (p ProgramSigner) HasAddress(ctx ledger.Context, addr ledger.Address) bool {
	a, err := p.Address()
	if err != nil {
		return false
	}
	return a.Equals(addr)
}
