package ledger

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest/assert"
)

func TestFindProgramAddressIsDeterministic(t *testing.T) {
	maker := NewAddress([]byte("maker"))
	seed := make([]byte, 8)
	binary.LittleEndian.PutUint64(seed, 42)

	a1, b1, err := FindProgramAddress("escrow", []byte("escrow"), maker, seed)
	assert.Nil(t, err)
	a2, b2, err := FindProgramAddress("escrow", []byte("escrow"), maker, seed)
	assert.Nil(t, err)
	assert.Equal(t, a1, a2)
	assert.Equal(t, b1, b2)
	assert.Nil(t, a1.Validate())

	// The bump found is accepted by the create function.
	a3, err := CreateProgramAddress("escrow", b1, []byte("escrow"), maker, seed)
	assert.Nil(t, err)
	assert.Equal(t, a1, a3)
}

func TestProgramAddressDependsOnAllInputs(t *testing.T) {
	base, bump, err := FindProgramAddress("escrow", []byte("escrow"), []byte("maker"))
	assert.Nil(t, err)

	others := map[string]func() (Address, error){
		"other program": func() (Address, error) {
			return CreateProgramAddress("assoc", bump, []byte("escrow"), []byte("maker"))
		},
		"other seed": func() (Address, error) {
			return CreateProgramAddress("escrow", bump, []byte("escrow"), []byte("taker"))
		},
		"other bump": func() (Address, error) {
			return CreateProgramAddress("escrow", bump-1, []byte("escrow"), []byte("maker"))
		},
		"concatenated seeds": func() (Address, error) {
			return CreateProgramAddress("escrow", bump, []byte("escrowmaker"))
		},
	}
	for name, fn := range others {
		t.Run(name, func(t *testing.T) {
			addr, err := fn()
			// An on curve result is an error, which is also a
			// different address.
			if err == nil && bytes.Equal(addr, base) {
				t.Fatal("address collision")
			}
		})
	}
}

func TestProgramAddressSeedsValidation(t *testing.T) {
	tooMany := make([][]byte, MaxSeeds)
	for i := range tooMany {
		tooMany[i] = []byte{byte(i)}
	}
	cases := map[string]struct {
		program string
		seeds   [][]byte
		wantErr *errors.Error
	}{
		"max seeds": {
			program: "escrow",
			seeds:   tooMany[:MaxSeeds-1],
		},
		"too many seeds": {
			program: "escrow",
			seeds:   tooMany,
			wantErr: errors.ErrInvalidInput,
		},
		"seed too long": {
			program: "escrow",
			seeds:   [][]byte{bytes.Repeat([]byte{1}, MaxSeedLength+1)},
			wantErr: errors.ErrInvalidInput,
		},
		"longest seed": {
			program: "escrow",
			seeds:   [][]byte{bytes.Repeat([]byte{1}, MaxSeedLength)},
		},
		"no program": {
			program: "",
			seeds:   [][]byte{[]byte("a")},
			wantErr: errors.ErrEmpty,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := FindProgramAddress(tc.program, tc.seeds...)
			assert.IsErr(t, tc.wantErr, err)
		})
	}
}

func TestCreateProgramAddressRejectsCurvePoints(t *testing.T) {
	// Roughly half of all digests decode as a curve point, so some bump
	// below 255 must be rejected for one of those seeds.
	var rejected int
	for i := 0; i < 16; i++ {
		for bump := 0; bump < 256; bump++ {
			seeds := [][]byte{[]byte("vault"), {byte(i)}}
			_, err := CreateProgramAddress("escrow", uint8(bump), seeds...)
			if err == nil {
				continue
			}
			assert.IsErr(t, errors.ErrInvalidInput, err)
			rejected++
		}
	}
	if rejected == 0 {
		t.Fatal("no curve point was rejected")
	}
}
