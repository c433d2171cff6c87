package escrow

import (
	"github.com/iov-one/ledger/errors"
)

// Escrow takes error codes 1010-1020.
var (
	ErrInvalidMaker = errors.Register(1010, "invalid maker")
	ErrInvalidMintA = errors.Register(1011, "invalid mint a")
	ErrInvalidMintB = errors.Register(1012, "invalid mint b")
)
