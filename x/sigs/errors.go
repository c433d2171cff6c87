package sigs

import (
	"github.com/iov-one/ledger/errors"
)

// x/sigs reserves 120 ~ 129.
var (
	// ErrInvalidSequence is returned when the signature sequence does not
	// match the stored nonce of the signer.
	ErrInvalidSequence = errors.Register(120, "invalid sequence number")
)
