package ledger

import (
	"crypto/sha256"

	"filippo.io/edwards25519"
	"github.com/iov-one/ledger/errors"
)

const (
	// MaxSeeds is the maximum number of seeds, including the bump, that
	// can be used to derive a program address.
	MaxSeeds = 16

	// MaxSeedLength is the maximum length in bytes of a single seed.
	MaxSeedLength = 32

	programAddressMarker = "ProgramDerivedAddress"
)

// CreateProgramAddress returns the address controlled by the given
// program, derived from the seeds and the bump. The digest of all inputs
// must not be a valid ed25519 point, which guarantees that no private key
// exists for the address. Such bump is rejected with ErrInvalidInput and
// the caller must try another one.
func CreateProgramAddress(program string, bump uint8, seeds ...[]byte) (Address, error) {
	if err := validateSeeds(program, seeds); err != nil {
		return nil, err
	}
	addr, ok := programAddress(program, bump, seeds)
	if !ok {
		return nil, errors.Wrap(errors.ErrInvalidInput, "derived address is a valid public key")
	}
	return addr, nil
}

// FindProgramAddress searches for the highest bump that produces a valid
// program address for given seeds. The search is deterministic so the same
// program and seeds always return the same address and bump.
func FindProgramAddress(program string, seeds ...[]byte) (Address, uint8, error) {
	if err := validateSeeds(program, seeds); err != nil {
		return nil, 0, err
	}
	for bump := 255; bump >= 0; bump-- {
		if addr, ok := programAddress(program, uint8(bump), seeds); ok {
			return addr, uint8(bump), nil
		}
	}
	return nil, 0, errors.Wrap(errors.ErrInvalidInput, "no viable bump found")
}

func validateSeeds(program string, seeds [][]byte) error {
	if program == "" {
		return errors.Wrap(errors.ErrEmpty, "program")
	}
	if len(seeds)+1 > MaxSeeds {
		return errors.Wrapf(errors.ErrInvalidInput, "max %d seeds", MaxSeeds-1)
	}
	for i, s := range seeds {
		if len(s) > MaxSeedLength {
			return errors.Wrapf(errors.ErrInvalidInput, "seed %d longer than %d bytes", i, MaxSeedLength)
		}
	}
	return nil
}

// programAddress returns false if the digest is a point on the ed25519
// curve.
func programAddress(program string, bump uint8, seeds [][]byte) (Address, bool) {
	h := sha256.New()
	for _, s := range seeds {
		_, _ = h.Write(s)
	}
	_, _ = h.Write([]byte{bump})
	_, _ = h.Write([]byte(program))
	_, _ = h.Write([]byte(programAddressMarker))
	digest := h.Sum(nil)

	if _, err := new(edwards25519.Point).SetBytes(digest); err == nil {
		return nil, false
	}
	return Address(digest[:AddressLength]), true
}
