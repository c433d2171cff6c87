/*
Package errors implements the error kinds used across the ledger.

Reuse the root errors declared in this package whenever possible and
register a custom error in an extension only when it carries a meaning that
clients must be able to distinguish, for example escrow.ErrInvalidMaker.

To register a custom error use Register(code, description). Codes below 1000
are reserved for this package. To create an error instance at runtime wrap
one of the registered errors:

	return errors.Wrap(errors.ErrNotFound, "escrow")
	return errors.Wrapf(errors.ErrInsufficientAmount, "need %d", amount)

The first wrap attaches a stacktrace. Once you have an error, you can use
fmt to get more context:

	%s is just the error message
	%+v is the full stack trace
	%v is the error message

Code stands for the ABCI error code, which allows to distinguish types of
errors on the client side and act accordingly. Use ABCIInfo to convert any
error into a response code and log.
*/
package errors
