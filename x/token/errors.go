package token

import (
	"github.com/iov-one/ledger/errors"
)

// x/token reserves 1030 ~ 1039.
var (
	// ErrInvalidMint is returned when an account holds a different mint
	// than the one the operation is declared for.
	ErrInvalidMint = errors.Register(1030, "invalid mint")

	// ErrInvalidDecimals is returned when the declared decimals do not
	// match the decimals of the mint.
	ErrInvalidDecimals = errors.Register(1031, "invalid decimals")
)
