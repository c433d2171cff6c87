/*
Package ledger defines the interfaces used throughout the escrow ledger,
such as: storage, transactions, handlers and addresses. It also contains
helpers to work with context, program derived addresses and abci results.

An address is either the digest of a Condition (who can authorize an
action) or a program derived address, that no private key exists for and
only a program can sign for by presenting the seeds and the bump it was
derived from.
*/
package ledger
